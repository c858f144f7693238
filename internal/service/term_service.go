package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// nowFunc is swapped out in tests.
var nowFunc = time.Now

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

type termRepo interface {
	List(ctx context.Context, schoolID string, filter models.TermFilter) ([]models.Term, int, error)
	ListBySchool(ctx context.Context, schoolID string) ([]models.Term, error)
	FindByID(ctx context.Context, schoolID, id string) (*models.Term, error)
	Create(ctx context.Context, term *models.Term) error
	SetActive(ctx context.Context, schoolID, id string) error
}

// CreateTermRequest describes a new term.
type CreateTermRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	AcademicYear string `json:"academic_year" validate:"required,max=20"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// TermService manages academic terms. At most one term per school is active;
// activation clears the previous holder in the same transaction.
type TermService struct {
	repo      termRepo
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService builds the service.
func NewTermService(repo termRepo, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns terms with filtering and pagination.
func (s *TermService) List(ctx context.Context, schoolID string, filter models.TermFilter) ([]models.Term, int, error) {
	terms, total, err := s.repo.List(ctx, schoolID, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	return terms, total, nil
}

// Get loads one term.
func (s *TermService) Get(ctx context.Context, schoolID, id string) (*models.Term, error) {
	term, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}

// Active returns the currently effective term for the school, resolving by
// active flag first, then date containment, then latest start date.
func (s *TermService) Active(ctx context.Context, schoolID string) (*models.Term, error) {
	terms, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list terms")
	}
	active := models.ResolveActiveTerm(terms, nowFunc())
	if active == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no term available")
	}
	return active, nil
}

// Create stores a new term.
func (s *TermService) Create(ctx context.Context, schoolID string, req CreateTermRequest) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}
	start, _ := parseDate(req.StartDate)
	end, _ := parseDate(req.EndDate)
	if !end.After(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be after start_date")
	}

	term := &models.Term{
		SchoolID:     schoolID,
		Name:         req.Name,
		AcademicYear: req.AcademicYear,
		StartDate:    start,
		EndDate:      end,
	}
	if err := s.repo.Create(ctx, term); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create term")
	}
	return term, nil
}

// SetActive makes one term the school's active term.
func (s *TermService) SetActive(ctx context.Context, schoolID, actorID, id string) error {
	if err := s.repo.SetActive(ctx, schoolID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate term")
	}
	if s.audit != nil {
		raw, _ := json.Marshal(map[string]string{"term_id": id})
		entry := &models.AuditLog{
			SchoolID:  schoolID,
			Action:    models.AuditActionTermActivate,
			Resource:  "term",
			NewValues: raw,
		}
		if actorID != "" {
			entry.UserID = &actorID
		}
		entry.ResourceID = &id
		if err := s.audit.Create(ctx, entry); err != nil {
			s.logger.Warn("failed to record audit entry", zap.String("action", models.AuditActionTermActivate), zap.Error(err))
		}
	}
	return nil
}
