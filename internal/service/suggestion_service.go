package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type suggestionSlotRepo interface {
	ListByTermTeacher(ctx context.Context, schoolID, termID, teacherID string) ([]models.Slot, error)
	ListByTermClass(ctx context.Context, schoolID, termID, classID string) ([]models.Slot, error)
}

type suggestionTermRepo interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Term, error)
}

type suggestionPeriodRepo interface {
	ListByYear(ctx context.Context, schoolID, academicYear string) ([]models.Period, error)
}

// SuggestionService lists the open (day, period) cells for a teacher or a
// class by subtracting occupied cells from the working-day grid. The result
// is advisory: cells are not re-checked against placement constraints.
type SuggestionService struct {
	slots     suggestionSlotRepo
	terms     suggestionTermRepo
	periods   suggestionPeriodRepo
	config    *ConfigService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSuggestionService builds the suggester.
func NewSuggestionService(slots suggestionSlotRepo, terms suggestionTermRepo, periods suggestionPeriodRepo, config *ConfigService, validate *validator.Validate, logger *zap.Logger) *SuggestionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{slots: slots, terms: terms, periods: periods, config: config, validator: validate, logger: logger}
}

// SuggestFreeSlots returns open cells in (day, then period) order. An empty
// subject (neither teacher nor class) yields an empty list, not an error.
func (s *SuggestionService) SuggestFreeSlots(ctx context.Context, schoolID string, req dto.SuggestFreeSlotsRequest) ([]dto.SlotSuggestion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suggestion request")
	}
	if req.TeacherID == "" && req.ClassID == "" {
		return []dto.SlotSuggestion{}, nil
	}

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

	occupied := make(map[gridCell]struct{})
	markOccupied := func(slots []models.Slot) {
		for _, slot := range slots {
			occupied[gridCell{day: slot.DayOfWeek, periodID: slot.PeriodID}] = struct{}{}
		}
	}
	if req.TeacherID != "" {
		slots, err := s.slots.ListByTermTeacher(ctx, schoolID, req.TermID, req.TeacherID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher slots")
		}
		markOccupied(slots)
	}
	if req.ClassID != "" {
		slots, err := s.slots.ListByTermClass(ctx, schoolID, req.TermID, req.ClassID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class slots")
		}
		markOccupied(slots)
	}

	dayFilter := intSet(req.PreferredDays)
	periodFilter := stringSet(req.PreferredPeriods)

	suggestions := make([]dto.SlotSuggestion, 0)
	for _, day := range resolved.WorkingDays {
		if dayFilter != nil {
			if _, ok := dayFilter[day]; !ok {
				continue
			}
		}
		for _, period := range periods {
			if periodFilter != nil {
				if _, ok := periodFilter[period.ID]; !ok {
					continue
				}
			}
			if _, busy := occupied[gridCell{day: day, periodID: period.ID}]; busy {
				continue
			}
			suggestions = append(suggestions, dto.SlotSuggestion{DayOfWeek: day, PeriodID: period.ID})
		}
	}
	return suggestions, nil
}

type gridCell struct {
	day      int
	periodID string
}

func intSet(values []int) map[int]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
