package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type constraintRepo interface {
	GetTeacherConstraint(ctx context.Context, schoolID, teacherID, termID string) (*models.TeacherConstraint, error)
	UpsertTeacherConstraint(ctx context.Context, constraint *models.TeacherConstraint) error
	GetRoomConstraint(ctx context.Context, schoolID, roomID, termID string) (*models.RoomConstraint, error)
	UpsertRoomConstraint(ctx context.Context, constraint *models.RoomConstraint) error
}

// UpsertTeacherConstraintRequest replaces the workload and availability rules
// for one teacher, optionally scoped to a term.
type UpsertTeacherConstraintRequest struct {
	TermID                *string                         `json:"term_id"`
	MaxPeriodsPerDay      int                             `json:"max_periods_per_day" validate:"min=0"`
	MaxPeriodsPerWeek     int                             `json:"max_periods_per_week" validate:"min=0"`
	MaxConsecutivePeriods int                             `json:"max_consecutive_periods" validate:"min=0"`
	MinFreePeriods        int                             `json:"min_free_periods" validate:"min=0"`
	DayPreferences        map[string]models.DayPreference `json:"day_preferences"`
	Unavailable           []models.UnavailableBlock       `json:"unavailable" validate:"dive"`
}

// UpsertRoomConstraintRequest replaces the reservation rules for one room.
type UpsertRoomConstraintRequest struct {
	TermID          *string                   `json:"term_id"`
	Capacity        int                       `json:"capacity" validate:"min=0"`
	ReservedPeriods []models.ReservedPeriod   `json:"reserved_periods" validate:"dive"`
	Maintenance     []models.MaintenanceBlock `json:"maintenance" validate:"dive"`
}

// ConstraintService manages the teacher and room constraint rows consumed by
// the placement validator and the generator.
type ConstraintService struct {
	repo      constraintRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConstraintService builds the service.
func NewConstraintService(repo constraintRepo, validate *validator.Validate, logger *zap.Logger) *ConstraintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{repo: repo, validator: validate, logger: logger}
}

// GetTeacherConstraint returns the effective row for (teacher, term), falling
// back to the teacher's school-wide row.
func (s *ConstraintService) GetTeacherConstraint(ctx context.Context, schoolID, teacherID, termID string) (*models.TeacherConstraint, error) {
	constraint, err := s.repo.GetTeacherConstraint(ctx, schoolID, teacherID, termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher constraint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher constraint")
	}
	return constraint, nil
}

// UpsertTeacherConstraint stores the rules for one (teacher, term).
func (s *ConstraintService) UpsertTeacherConstraint(ctx context.Context, schoolID, teacherID string, req UpsertTeacherConstraintRequest) (*models.TeacherConstraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher constraint payload")
	}
	constraint := &models.TeacherConstraint{
		SchoolID:              schoolID,
		TeacherID:             teacherID,
		TermID:                req.TermID,
		MaxPeriodsPerDay:      req.MaxPeriodsPerDay,
		MaxPeriodsPerWeek:     req.MaxPeriodsPerWeek,
		MaxConsecutivePeriods: req.MaxConsecutivePeriods,
		MinFreePeriods:        req.MinFreePeriods,
		DayPreferences:        marshalJSON(req.DayPreferences, `{}`),
		Unavailable:           marshalJSON(req.Unavailable, `[]`),
	}
	if err := s.repo.UpsertTeacherConstraint(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert teacher constraint")
	}
	return constraint, nil
}

// GetRoomConstraint returns the effective row for (room, term), falling back
// to the room's school-wide row.
func (s *ConstraintService) GetRoomConstraint(ctx context.Context, schoolID, roomID, termID string) (*models.RoomConstraint, error) {
	constraint, err := s.repo.GetRoomConstraint(ctx, schoolID, roomID, termID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room constraint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room constraint")
	}
	return constraint, nil
}

// UpsertRoomConstraint stores the rules for one (room, term).
func (s *ConstraintService) UpsertRoomConstraint(ctx context.Context, schoolID, roomID string, req UpsertRoomConstraintRequest) (*models.RoomConstraint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room constraint payload")
	}
	constraint := &models.RoomConstraint{
		SchoolID:        schoolID,
		RoomID:          roomID,
		TermID:          req.TermID,
		Capacity:        req.Capacity,
		ReservedPeriods: marshalJSON(req.ReservedPeriods, `[]`),
		Maintenance:     marshalJSON(req.Maintenance, `[]`),
	}
	if err := s.repo.UpsertRoomConstraint(ctx, constraint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert room constraint")
	}
	return constraint, nil
}

func marshalJSON(value interface{}, fallback string) types.JSONText {
	raw, err := json.Marshal(value)
	if err != nil || string(raw) == "null" {
		return types.JSONText(fallback)
	}
	return types.JSONText(raw)
}
