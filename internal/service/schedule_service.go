package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type scheduleSlotRepo interface {
	ListByTerm(ctx context.Context, schoolID, termID string) ([]models.Slot, error)
	ListByTermTeacher(ctx context.Context, schoolID, termID, teacherID string) ([]models.Slot, error)
	ListByTermClass(ctx context.Context, schoolID, termID, classID string) ([]models.Slot, error)
}

type scheduleTermRepo interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Term, error)
}

type schedulePeriodRepo interface {
	ListByYear(ctx context.Context, schoolID, academicYear string) ([]models.Period, error)
}

// ScheduleService serves read-only grid data: the slots of a term and the
// period axis of an academic year.
type ScheduleService struct {
	slots   scheduleSlotRepo
	terms   scheduleTermRepo
	periods schedulePeriodRepo
	logger  *zap.Logger
}

// NewScheduleService builds the reader.
func NewScheduleService(slots scheduleSlotRepo, terms scheduleTermRepo, periods schedulePeriodRepo, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{slots: slots, terms: terms, periods: periods, logger: logger}
}

// ListSlots returns a term's slots, narrowed to one teacher or one class when
// either filter is set. Teacher wins when both are given.
func (s *ScheduleService) ListSlots(ctx context.Context, schoolID, termID, teacherID, classID string) ([]models.Slot, error) {
	if termID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "termId is required")
	}
	var (
		slots []models.Slot
		err   error
	)
	switch {
	case teacherID != "":
		slots, err = s.slots.ListByTermTeacher(ctx, schoolID, termID, teacherID)
	case classID != "":
		slots, err = s.slots.ListByTermClass(ctx, schoolID, termID, classID)
	default:
		slots, err = s.slots.ListByTerm(ctx, schoolID, termID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slots")
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	return slots, nil
}

// Periods returns the time axis for a term's academic year in start-time
// order.
func (s *ScheduleService) Periods(ctx context.Context, schoolID, termID string) ([]models.Period, error) {
	term, err := s.terms.FindByID(ctx, schoolID, termID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "term not found")
	}
	periods, err := s.periods.ListByYear(ctx, schoolID, term.AcademicYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	models.SortPeriods(periods)
	return periods, nil
}
