package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type generatorCurriculumRepo interface {
	ListRequirements(ctx context.Context, schoolID, termID string) ([]models.CurriculumRequirement, error)
	ListClasses(ctx context.Context, schoolID string) ([]models.Class, error)
	ListTeachers(ctx context.Context, schoolID string) ([]models.Teacher, error)
	ListRooms(ctx context.Context, schoolID string) ([]models.Room, error)
	ListSubjects(ctx context.Context, schoolID string) ([]models.Subject, error)
}

type generatorSlotRepo interface {
	ListByTerm(ctx context.Context, schoolID, termID string) ([]models.Slot, error)
	InsertIgnore(ctx context.Context, exec sqlx.ExtContext, slot *models.Slot) (bool, error)
	DeleteByTerm(ctx context.Context, exec sqlx.ExtContext, schoolID, termID string) (int64, error)
}

type generatorTermRepo interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Term, error)
}

type generatorPeriodRepo interface {
	ListByYear(ctx context.Context, schoolID, academicYear string) ([]models.Period, error)
}

type previewEntry struct {
	schoolID  string
	termID    string
	variant   models.WeekVariant
	preview   []dto.PreviewSlot
	expiresAt time.Time
}

// previewStore keeps generated previews in memory until they are committed
// or expire.
type previewStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]previewEntry
}

func newPreviewStore(ttl time.Duration) *previewStore {
	return &previewStore{ttl: ttl, entries: make(map[string]previewEntry)}
}

func (s *previewStore) put(id string, entry previewEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.expiresAt = time.Now().Add(s.ttl)
	s.entries[id] = entry
	for key, e := range s.entries {
		if time.Now().After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func (s *previewStore) get(id string) (previewEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, id)
		return previewEntry{}, false
	}
	return entry, true
}

func (s *previewStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// GeneratorService builds a full term timetable with a greedy constructive
// heuristic: requirements are placed one period at a time in a deterministic
// order, each unit taking the highest-scoring candidate that survives the
// hard constraints. There is no backtracking across units; unplaceable units
// are reported, not fatal.
type GeneratorService struct {
	curriculum generatorCurriculumRepo
	slots      generatorSlotRepo
	terms      generatorTermRepo
	periods    generatorPeriodRepo
	config     *ConfigService
	conflicts  *ConflictService
	audit      auditRecorder
	metrics    *MetricsService
	db         *sqlx.DB
	previews   *previewStore
	maxReqs    int
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewGeneratorService builds the engine.
func NewGeneratorService(curriculum generatorCurriculumRepo, slots generatorSlotRepo, terms generatorTermRepo, periods generatorPeriodRepo, config *ConfigService, conflicts *ConflictService, audit auditRecorder, metrics *MetricsService, db *sqlx.DB, previewTTL time.Duration, maxRequirements int, validate *validator.Validate, logger *zap.Logger) *GeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if previewTTL <= 0 {
		previewTTL = 30 * time.Minute
	}
	if maxRequirements <= 0 {
		maxRequirements = 2048
	}
	return &GeneratorService{
		curriculum: curriculum,
		slots:      slots,
		terms:      terms,
		periods:    periods,
		config:     config,
		conflicts:  conflicts,
		audit:      audit,
		metrics:    metrics,
		db:         db,
		previews:   newPreviewStore(previewTTL),
		maxReqs:    maxRequirements,
		validator:  validate,
		logger:     logger,
	}
}

type cell struct {
	day    int
	period int
}

// generationState tracks occupancy while the search runs. Period positions
// are 1-based ordinals on the sorted period axis.
type generationState struct {
	classBusy       map[string]map[cell]bool
	teacherBusy     map[string]map[cell]bool
	roomBusy        map[string]map[cell]bool
	teacherDay      map[string]map[int]int
	teacherWeek     map[string]int
	classSubjectDay map[string]map[int]int
}

func newGenerationState() *generationState {
	return &generationState{
		classBusy:       make(map[string]map[cell]bool),
		teacherBusy:     make(map[string]map[cell]bool),
		roomBusy:        make(map[string]map[cell]bool),
		teacherDay:      make(map[string]map[int]int),
		teacherWeek:     make(map[string]int),
		classSubjectDay: make(map[string]map[int]int),
	}
}

func (g *generationState) occupy(classID, subjectID, teacherID, roomID string, c cell) {
	mark := func(m map[string]map[cell]bool, key string) {
		if m[key] == nil {
			m[key] = make(map[cell]bool)
		}
		m[key][c] = true
	}
	mark(g.classBusy, classID)
	mark(g.teacherBusy, teacherID)
	mark(g.roomBusy, roomID)
	if g.teacherDay[teacherID] == nil {
		g.teacherDay[teacherID] = make(map[int]int)
	}
	g.teacherDay[teacherID][c.day]++
	g.teacherWeek[teacherID]++
	key := classID + "|" + subjectID
	if g.classSubjectDay[key] == nil {
		g.classSubjectDay[key] = make(map[int]int)
	}
	g.classSubjectDay[key][c.day]++
}

// GeneratePreview runs the full search and returns a scored in-memory
// preview. Nothing is written to storage; the preview id stays valid until
// the TTL elapses or it is committed.
func (s *GeneratorService) GeneratePreview(ctx context.Context, schoolID string, req dto.GenerateRequest) (*dto.GeneratePreviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generate payload")
	}
	started := time.Now()
	variant := models.NormalizeWeekVariant(req.WeekVariant)

	term, err := s.terms.FindByID(ctx, schoolID, req.TermID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
	}
	resolved, err := s.config.Resolve(ctx, schoolID, req.TermID)
	if err != nil {
		return nil, err
	}
	periods, err := s.periods.ListByYear(ctx, schoolID, term.AcademicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load periods")
	}
	models.SortPeriods(periods)
	if len(periods) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no periods configured for the academic year")
	}

	requirements, err := s.curriculum.ListRequirements(ctx, schoolID, req.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum requirements")
	}
	if len(requirements) > s.maxReqs {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("too many curriculum requirements (%d, limit %d)", len(requirements), s.maxReqs))
	}
	sort.SliceStable(requirements, func(i, j int) bool {
		if requirements[i].ClassID != requirements[j].ClassID {
			return requirements[i].ClassID < requirements[j].ClassID
		}
		return requirements[i].SubjectID < requirements[j].SubjectID
	})

	classes, err := s.curriculum.ListClasses(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	teachers, err := s.curriculum.ListTeachers(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	rooms, err := s.curriculum.ListRooms(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	subjects, err := s.curriculum.ListSubjects(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	existing, err := s.slots.ListByTerm(ctx, schoolID, req.TermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing slots")
	}

	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	days := append([]int(nil), resolved.WorkingDays...)
	sort.Ints(days)

	classSize := make(map[string]int, len(classes))
	for _, class := range classes {
		classSize[class.ID] = class.Size
	}
	subjectByID := make(map[string]models.Subject, len(subjects))
	for _, subject := range subjects {
		subjectByID[subject.ID] = subject
	}
	teacherSubjects := make(map[string]map[string]bool, len(teachers))
	for _, teacher := range teachers {
		var list []string
		_ = json.Unmarshal(teacher.Subjects, &list)
		set := make(map[string]bool, len(list))
		for _, id := range list {
			set[id] = true
		}
		teacherSubjects[teacher.ID] = set
	}

	state := newGenerationState()
	for _, slot := range existing {
		if models.NormalizeWeekVariant(slot.WeekVariant) != variant {
			continue
		}
		idx := models.PeriodIndex(periods, slot.PeriodID)
		if idx == 0 {
			continue
		}
		state.occupy(slot.ClassID, slot.SubjectID, slot.TeacherID, slot.RoomID, cell{day: slot.DayOfWeek, period: idx})
	}

	cfg := req.Config
	lunchResets := cfg.LunchResetsConsecutive == nil || *cfg.LunchResetsConsecutive
	lunchAfter := 0
	if resolved.LunchAfterPeriod != nil {
		lunchAfter = *resolved.LunchAfterPeriod
	}

	resp := &dto.GeneratePreviewResponse{
		Preview:  make([]dto.PreviewSlot, 0),
		Unplaced: make([]dto.UnplacedRequirement, 0),
		Warnings: make([]string, 0),
		Errors:   make([]string, 0),
	}
	iterations := 0
	conflictsResolved := 0
	var scoreSum float64

	for _, requirement := range requirements {
		if err := ctx.Err(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation cancelled")
		}
		resp.Stats.TotalSlots += requirement.PeriodsPerWeek

		for unit := 0; unit < requirement.PeriodsPerWeek; unit++ {
			if err := ctx.Err(); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation cancelled")
			}

			best := dto.PreviewSlot{Score: -1}
			for _, day := range days {
				for periodIdx := 1; periodIdx <= len(periods); periodIdx++ {
					c := cell{day: day, period: periodIdx}
					if state.classBusy[requirement.ClassID][c] {
						continue
					}
					for _, teacher := range teachers {
						if cfg.EnforceTeacherExpertise && !teacherSubjects[teacher.ID][requirement.SubjectID] {
							continue
						}
						if !s.teacherFits(state, cfg, teacher.ID, c, lunchAfter, lunchResets) {
							if state.teacherBusy[teacher.ID][c] {
								conflictsResolved++
							}
							continue
						}
						var adjacentRooms map[int]string
						if cfg.PreventBackToBack {
							adjacentRooms = existingRoomAt(resp.Preview, existing, teacher.ID, c, periods, variant)
						}
						for _, room := range rooms {
							iterations++
							if cfg.EnforceRoomCapacity && room.Capacity > 0 && room.Capacity < classSize[requirement.ClassID] {
								continue
							}
							if state.roomBusy[room.ID][c] {
								conflictsResolved++
								continue
							}
							if cfg.PreventBackToBack && adjacentInOtherRoom(state, teacher.ID, room.ID, c, adjacentRooms) {
								continue
							}
							score := scoreCandidate(cfg, state, subjectByID[requirement.SubjectID], requirement, c, len(periods))
							if score > best.Score {
								best = dto.PreviewSlot{
									DayOfWeek:   day,
									PeriodID:    periods[periodIdx-1].ID,
									ClassID:     requirement.ClassID,
									SubjectID:   requirement.SubjectID,
									TeacherID:   teacher.ID,
									RoomID:      room.ID,
									WeekVariant: variant,
									Score:       score,
								}
							}
						}
					}
				}
			}

			if best.Score < 0 {
				remaining := requirement.PeriodsPerWeek - unit
				resp.Unplaced = append(resp.Unplaced, dto.UnplacedRequirement{
					ClassID:   requirement.ClassID,
					SubjectID: requirement.SubjectID,
					Remaining: remaining,
					Reason:    "no candidate satisfied the hard constraints",
				})
				resp.Errors = append(resp.Errors, fmt.Sprintf("class %s subject %s: %d period(s) could not be placed", requirement.ClassID, requirement.SubjectID, remaining))
				break
			}

			idx := models.PeriodIndex(periods, best.PeriodID)
			state.occupy(best.ClassID, best.SubjectID, best.TeacherID, best.RoomID, cell{day: best.DayOfWeek, period: idx})
			resp.Preview = append(resp.Preview, best)
			resp.Stats.PlacedSlots++
			scoreSum += best.Score
			if best.Score < 40 {
				resp.Warnings = append(resp.Warnings, fmt.Sprintf("class %s subject %s placed at day %d period %s with low score %.1f", best.ClassID, best.SubjectID, best.DayOfWeek, best.PeriodID, best.Score))
			}
		}
	}

	resp.Stats.ConflictsResolved = conflictsResolved
	resp.Stats.Iterations = iterations
	if resp.Stats.PlacedSlots > 0 {
		resp.Stats.OptimizationScore = round2(scoreSum / float64(resp.Stats.PlacedSlots))
	}
	resp.Stats.TeacherWorkloadBalance = workloadBalance(state.teacherWeek)
	if total := len(rooms) * len(days) * len(periods); total > 0 {
		resp.Stats.RoomUtilization = round2(float64(resp.Stats.PlacedSlots) / float64(total) * 100)
	}
	resp.Stats.GenerationTimeMs = time.Since(started).Milliseconds()

	resp.PreviewID = uuid.NewString()
	s.previews.put(resp.PreviewID, previewEntry{
		schoolID: schoolID,
		termID:   req.TermID,
		variant:  variant,
		preview:  resp.Preview,
	})

	if s.metrics != nil {
		s.metrics.ObserveGeneration(time.Since(started))
	}
	s.logger.Info("generation preview built",
		zap.String("term_id", req.TermID),
		zap.String("preview_id", resp.PreviewID),
		zap.Int("placed", resp.Stats.PlacedSlots),
		zap.Int("total", resp.Stats.TotalSlots),
		zap.Int("unplaced", len(resp.Unplaced)),
		zap.Int64("duration_ms", resp.Stats.GenerationTimeMs))
	return resp, nil
}

// CommitPreview writes a stored preview to the slot repository. Merge keeps
// existing slots; replace deletes the term's slots first. Identity collisions
// are counted, not fatal.
func (s *GeneratorService) CommitPreview(ctx context.Context, schoolID, actorID string, req dto.CommitPreviewRequest) (dto.CommitResult, error) {
	var result dto.CommitResult
	if err := s.validator.Struct(req); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid commit payload")
	}

	entry, ok := s.previews.get(req.PreviewID)
	if !ok || entry.schoolID != schoolID || entry.termID != req.TermID {
		return result, appErrors.Clone(appErrors.ErrPreviewExpired, "")
	}

	var tx *sqlx.Tx
	var exec sqlx.ExtContext
	var err error
	if s.db != nil {
		tx, err = s.db.BeginTxx(ctx, nil)
		if err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
		}
		defer func() {
			if tx != nil {
				_ = tx.Rollback()
			}
		}()
		exec = tx
	}

	if req.Mode == dto.CommitModeReplace {
		if _, err := s.slots.DeleteByTerm(ctx, exec, schoolID, req.TermID); err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear term")
		}
	}

	for _, preview := range entry.preview {
		slot := &models.Slot{
			SchoolID:    schoolID,
			TermID:      req.TermID,
			DayOfWeek:   preview.DayOfWeek,
			PeriodID:    preview.PeriodID,
			ClassID:     preview.ClassID,
			SubjectID:   preview.SubjectID,
			TeacherID:   preview.TeacherID,
			RoomID:      preview.RoomID,
			WeekVariant: preview.WeekVariant,
		}
		created, err := s.slots.InsertIgnore(ctx, exec, slot)
		if err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert slot")
		}
		if created {
			result.Created++
		} else {
			result.Conflicts++
		}
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit preview")
		}
		tx = nil
	}

	s.previews.remove(req.PreviewID)
	if s.conflicts != nil {
		s.conflicts.InvalidateTerm(ctx, schoolID, req.TermID)
	}
	if s.metrics != nil {
		s.metrics.AddSlotsCreated("generated", result.Created)
	}
	if s.audit != nil {
		raw, _ := json.Marshal(result)
		entry := &models.AuditLog{
			SchoolID:  schoolID,
			Action:    models.AuditActionGenerateCommit,
			Resource:  "timetable_generation",
			NewValues: raw,
		}
		if actorID != "" {
			entry.UserID = &actorID
		}
		if err := s.audit.Create(ctx, entry); err != nil {
			s.logger.Warn("failed to record audit entry", zap.String("action", models.AuditActionGenerateCommit), zap.Error(err))
		}
	}
	s.logger.Info("generation preview committed",
		zap.String("term_id", req.TermID),
		zap.String("preview_id", req.PreviewID),
		zap.String("mode", string(req.Mode)),
		zap.Int("created", result.Created),
		zap.Int("conflicts", result.Conflicts))
	return result, nil
}

// teacherFits applies the teacher-side hard constraints for one candidate
// cell.
func (s *GeneratorService) teacherFits(state *generationState, cfg dto.GenerationConfig, teacherID string, c cell, lunchAfter int, lunchResets bool) bool {
	if state.teacherBusy[teacherID][c] {
		return false
	}
	if cfg.MaxTeacherPeriodsPerDay > 0 && state.teacherDay[teacherID][c.day] >= cfg.MaxTeacherPeriodsPerDay {
		return false
	}
	if cfg.MaxTeacherPeriodsPerWeek > 0 && state.teacherWeek[teacherID] >= cfg.MaxTeacherPeriodsPerWeek {
		return false
	}
	if cfg.MaxConsecutivePeriods > 0 {
		if consecutiveRun(state.teacherBusy[teacherID], c, lunchAfter, lunchResets) > cfg.MaxConsecutivePeriods {
			return false
		}
	}
	if cfg.RequireLunchBreak && lunchAfter > 0 {
		if removesLunchBreak(state.teacherBusy[teacherID], c, lunchAfter) {
			return false
		}
	}
	return true
}

// consecutiveRun is the length of the contiguous occupied run the candidate
// cell would create. A configured lunch boundary breaks the run when lunch
// resets the counter.
func consecutiveRun(busy map[cell]bool, c cell, lunchAfter int, lunchResets bool) int {
	blocked := func(from, to int) bool {
		if !lunchResets || lunchAfter <= 0 {
			return false
		}
		low := from
		if to < from {
			low = to
		}
		return low == lunchAfter
	}
	run := 1
	for p := c.period - 1; p >= 1; p-- {
		if blocked(p, p+1) || !busy[cell{day: c.day, period: p}] {
			break
		}
		run++
	}
	for p := c.period + 1; ; p++ {
		if blocked(p-1, p) || !busy[cell{day: c.day, period: p}] {
			break
		}
		run++
	}
	return run
}

// removesLunchBreak reports whether the candidate would fill the teacher's
// last free period in the lunch window (the periods either side of the lunch
// boundary) on that day.
func removesLunchBreak(busy map[cell]bool, c cell, lunchAfter int) bool {
	before := cell{day: c.day, period: lunchAfter}
	after := cell{day: c.day, period: lunchAfter + 1}
	if c != before && c != after {
		return false
	}
	other := before
	if c == before {
		other = after
	}
	return busy[other]
}

func adjacentInOtherRoom(state *generationState, teacherID, roomID string, c cell, adjacentRooms map[int]string) bool {
	for _, p := range []int{c.period - 1, c.period + 1} {
		if p < 1 {
			continue
		}
		if !state.teacherBusy[teacherID][cell{day: c.day, period: p}] {
			continue
		}
		if room, ok := adjacentRooms[p]; ok && room != roomID {
			return true
		}
	}
	return false
}

// existingRoomAt maps the teacher's occupied period ordinals on the
// candidate's day to the room used there, across both the committed preview
// and the pre-existing slots of the requested week variant.
func existingRoomAt(preview []dto.PreviewSlot, existing []models.Slot, teacherID string, c cell, periods []models.Period, variant models.WeekVariant) map[int]string {
	out := make(map[int]string)
	for _, slot := range existing {
		if slot.TeacherID != teacherID || slot.DayOfWeek != c.day {
			continue
		}
		if models.NormalizeWeekVariant(slot.WeekVariant) != variant {
			continue
		}
		if idx := models.PeriodIndex(periods, slot.PeriodID); idx > 0 {
			out[idx] = slot.RoomID
		}
	}
	for _, slot := range preview {
		if slot.TeacherID != teacherID || slot.DayOfWeek != c.day {
			continue
		}
		if idx := models.PeriodIndex(periods, slot.PeriodID); idx > 0 {
			out[idx] = slot.RoomID
		}
	}
	return out
}

// scoreCandidate ranks a hard-constraint-surviving candidate with the soft
// preferences. Scores are clamped to 0..100; ties keep the first candidate
// in enumeration order.
func scoreCandidate(cfg dto.GenerationConfig, state *generationState, subject models.Subject, requirement models.CurriculumRequirement, c cell, periodCount int) float64 {
	score := 50.0
	key := requirement.ClassID + "|" + requirement.SubjectID
	subjectDays := state.classSubjectDay[key]

	if cfg.BalanceSubjectDistribution {
		if subjectDays[c.day] > 0 {
			score -= 10
		}
		if subjectDays[c.day-1] > 0 || subjectDays[c.day+1] > 0 {
			score -= 6
		}
	}
	if cfg.PreferMorningForCore && subject.IsCore {
		bonus := 12 - 2*float64(c.period-1)
		if bonus > 0 {
			score += bonus
		}
	}
	if cfg.AvoidLastPeriodForLab && subject.IsLab && c.period == periodCount {
		score -= 15
	}
	if subjectDays[c.day-2] > 0 || subjectDays[c.day+2] > 0 {
		if cfg.GroupSameSubjectDays {
			score += 8
		} else {
			score -= 4
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func workloadBalance(teacherWeek map[string]int) float64 {
	if len(teacherWeek) == 0 {
		return 100
	}
	loads := make([]float64, 0, len(teacherWeek))
	var sum float64
	for _, count := range teacherWeek {
		loads = append(loads, float64(count))
		sum += float64(count)
	}
	mean := sum / float64(len(loads))
	if mean == 0 {
		return 100
	}
	var variance float64
	for _, load := range loads {
		variance += (load - mean) * (load - mean)
	}
	variance /= float64(len(loads))
	cv := math.Sqrt(variance) / mean
	balance := 100 * (1 - cv)
	if balance < 0 {
		return 0
	}
	return round2(balance)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
