package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type conflictSlotRepo interface {
	ListByTerm(ctx context.Context, schoolID, termID string) ([]models.Slot, error)
	ListLegacyByTerm(ctx context.Context, schoolID, termID string) ([]models.LegacyRangeSlot, error)
}

type conflictTermRepo interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Term, error)
}

type conflictPeriodRepo interface {
	ListByYear(ctx context.Context, schoolID, academicYear string) ([]models.Period, error)
}

// ConflictService scans a term for teacher and room double-bookings. Slots
// only collide when they share the same week variant, day and period; the
// detector groups cells by resource key in a single pass instead of comparing
// every pair of slots.
type ConflictService struct {
	slots   conflictSlotRepo
	terms   conflictTermRepo
	periods conflictPeriodRepo
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewConflictService builds the detector.
func NewConflictService(slots conflictSlotRepo, terms conflictTermRepo, periods conflictPeriodRepo, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{slots: slots, terms: terms, periods: periods, cache: cache, metrics: metrics, logger: logger}
}

func conflictCacheKey(schoolID, termID string) string {
	return fmt.Sprintf("conflicts:%s:%s", schoolID, termID)
}

// DetectByTerm loads all placements for a term, expands legacy range rows
// into per-period cells and returns every double-booking in deterministic
// order.
func (s *ConflictService) DetectByTerm(ctx context.Context, schoolID, termID string) ([]models.SlotConflict, error) {
	key := conflictCacheKey(schoolID, termID)
	var cached []models.SlotConflict
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	term, err := s.terms.FindByID(ctx, schoolID, termID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
	}

	slots, err := s.slots.ListByTerm(ctx, schoolID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slots")
	}
	legacy, err := s.slots.ListLegacyByTerm(ctx, schoolID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load legacy placements")
	}

	periods, err := s.periods.ListByYear(ctx, schoolID, term.AcademicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}
	models.SortPeriods(periods)

	slots = append(slots, ExpandLegacySlots(legacy, periods)...)
	conflicts := DetectAmong(slots, periods)

	if s.metrics != nil {
		s.metrics.AddConflictsDetected(len(conflicts))
	}
	_ = s.cache.Set(ctx, key, conflicts, 0)
	return conflicts, nil
}

// InvalidateTerm drops the cached conflict report after slot mutations.
func (s *ConflictService) InvalidateTerm(ctx context.Context, schoolID, termID string) {
	s.cache.Invalidate(ctx, conflictCacheKey(schoolID, termID))
}

// ExpandLegacySlots flattens start/end period ranges into one synthetic slot
// per covered period. Rows whose period bounds are unknown or inverted are
// skipped rather than failing the whole scan.
func ExpandLegacySlots(legacy []models.LegacyRangeSlot, periods []models.Period) []models.Slot {
	if len(legacy) == 0 {
		return nil
	}
	expanded := make([]models.Slot, 0, len(legacy))
	for _, row := range legacy {
		start := models.PeriodIndex(periods, row.StartPeriodID)
		end := models.PeriodIndex(periods, row.EndPeriodID)
		if start == 0 || end == 0 || end < start {
			continue
		}
		for i := start; i <= end; i++ {
			p := periods[i-1]
			expanded = append(expanded, models.Slot{
				ID:          fmt.Sprintf("%s:%s", row.ID, p.ID),
				SchoolID:    row.SchoolID,
				TermID:      row.TermID,
				DayOfWeek:   row.DayOfWeek,
				PeriodID:    p.ID,
				ClassID:     row.ClassID,
				SubjectID:   row.SubjectID,
				TeacherID:   row.TeacherID,
				RoomID:      row.RoomID,
				WeekVariant: models.NormalizeWeekVariant(row.WeekVariant),
			})
		}
	}
	return expanded
}

type cellKey struct {
	variant  models.WeekVariant
	day      int
	periodID string
	resource string
}

// DetectAmong groups slots by (week variant, day, period, teacher) and
// (week variant, day, period, room). Within each contested cell the first
// slot seen is the incumbent and every later slot emits one conflict against
// it. Output order is stable for identical input sets.
func DetectAmong(slots []models.Slot, periods []models.Period) []models.SlotConflict {
	ordered := make([]models.Slot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if va, vb := models.NormalizeWeekVariant(a.WeekVariant), models.NormalizeWeekVariant(b.WeekVariant); va != vb {
			return va < vb
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if pa, pb := models.PeriodIndex(periods, a.PeriodID), models.PeriodIndex(periods, b.PeriodID); pa != pb {
			return pa < pb
		}
		if a.ClassID != b.ClassID {
			return a.ClassID < b.ClassID
		}
		return a.ID < b.ID
	})

	teacherGroups := make(map[cellKey][]int)
	roomGroups := make(map[cellKey][]int)
	for i, slot := range ordered {
		variant := models.NormalizeWeekVariant(slot.WeekVariant)
		if slot.TeacherID != "" {
			k := cellKey{variant: variant, day: slot.DayOfWeek, periodID: slot.PeriodID, resource: slot.TeacherID}
			teacherGroups[k] = append(teacherGroups[k], i)
		}
		if slot.RoomID != "" {
			k := cellKey{variant: variant, day: slot.DayOfWeek, periodID: slot.PeriodID, resource: slot.RoomID}
			roomGroups[k] = append(roomGroups[k], i)
		}
	}

	conflicts := make([]models.SlotConflict, 0)
	emit := func(groups map[cellKey][]int, kind models.ConflictType) {
		keys := make([]cellKey, 0, len(groups))
		for k, members := range groups {
			if len(members) > 1 {
				keys = append(keys, k)
			}
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := keys[i], keys[j]
			if a.variant != b.variant {
				return a.variant < b.variant
			}
			if a.day != b.day {
				return a.day < b.day
			}
			if pa, pb := models.PeriodIndex(periods, a.periodID), models.PeriodIndex(periods, b.periodID); pa != pb {
				return pa < pb
			}
			return a.resource < b.resource
		})
		for _, k := range keys {
			members := groups[k]
			first := ordered[members[0]]
			for _, m := range members[1:] {
				conflict := models.SlotConflict{
					Type:      kind,
					DayOfWeek: k.day,
					PeriodID:  k.periodID,
					SlotA:     first,
					SlotB:     ordered[m],
				}
				if kind == models.ConflictTypeTeacher {
					conflict.TeacherID = k.resource
				} else {
					conflict.RoomID = k.resource
				}
				conflicts = append(conflicts, conflict)
			}
		}
	}
	emit(teacherGroups, models.ConflictTypeTeacher)
	emit(roomGroups, models.ConflictTypeRoom)
	return conflicts
}
