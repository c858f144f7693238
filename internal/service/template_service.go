package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type templateRepo interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, template *models.Template) error
	FindByID(ctx context.Context, schoolID, id string) (*models.Template, error)
	List(ctx context.Context, schoolID string) ([]models.Template, error)
	SetDefault(ctx context.Context, schoolID, id string) error
	RecordApplication(ctx context.Context, exec sqlx.ExtContext, app *models.TemplateApplication) error
}

type templateSlotRepo interface {
	ListByTerm(ctx context.Context, schoolID, termID string) ([]models.Slot, error)
	InsertIgnore(ctx context.Context, exec sqlx.ExtContext, slot *models.Slot) (bool, error)
	DeleteByTerm(ctx context.Context, exec sqlx.ExtContext, schoolID, termID string) (int64, error)
}

type templateTermRepo interface {
	FindByID(ctx context.Context, schoolID, id string) (*models.Term, error)
}

// TemplateService captures a term's slot pattern as an immutable versioned
// template and replays it onto other terms. Application is best-effort:
// identity collisions are counted and skipped, never aborting the run.
type TemplateService struct {
	templates templateRepo
	slots     templateSlotRepo
	terms     templateTermRepo
	conflicts *ConflictService
	audit     auditRecorder
	metrics   *MetricsService
	db        *sqlx.DB
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTemplateService builds the engine. db may be nil in tests; application
// then runs without a wrapping transaction.
func NewTemplateService(templates templateRepo, slots templateSlotRepo, terms templateTermRepo, conflicts *ConflictService, audit auditRecorder, metrics *MetricsService, db *sqlx.DB, validate *validator.Validate, logger *zap.Logger) *TemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{
		templates: templates,
		slots:     slots,
		terms:     terms,
		conflicts: conflicts,
		audit:     audit,
		metrics:   metrics,
		db:        db,
		validator: validate,
		logger:    logger,
	}
}

// CreateFromTerm snapshots every slot of the source term into a new template
// version. The source term's slots are not touched.
func (s *TemplateService) CreateFromTerm(ctx context.Context, schoolID string, req dto.CreateTemplateRequest) (*models.Template, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	if _, err := s.terms.FindByID(ctx, schoolID, req.SourceTermID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "source term not found")
	}

	slots, err := s.slots.ListByTerm(ctx, schoolID, req.SourceTermID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source slots")
	}

	pattern := make([]models.TemplateSlot, 0, len(slots))
	classes := make(map[string]struct{})
	teachers := make(map[string]struct{})
	for _, slot := range slots {
		pattern = append(pattern, models.TemplateSlot{
			DayOfWeek:   slot.DayOfWeek,
			PeriodID:    slot.PeriodID,
			ClassID:     slot.ClassID,
			SubjectID:   slot.SubjectID,
			TeacherID:   slot.TeacherID,
			RoomID:      slot.RoomID,
			WeekVariant: models.NormalizeWeekVariant(slot.WeekVariant),
		})
		classes[slot.ClassID] = struct{}{}
		teachers[slot.TeacherID] = struct{}{}
	}
	sort.SliceStable(pattern, func(i, j int) bool {
		a, b := pattern[i], pattern[j]
		if a.WeekVariant != b.WeekVariant {
			return a.WeekVariant < b.WeekVariant
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.PeriodID != b.PeriodID {
			return a.PeriodID < b.PeriodID
		}
		return a.ClassID < b.ClassID
	})

	raw, err := json.Marshal(pattern)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode pattern")
	}

	template := &models.Template{
		SchoolID:         schoolID,
		Name:             req.Name,
		Description:      req.Description,
		SourceTermID:     req.SourceTermID,
		Pattern:          types.JSONText(raw),
		TotalSlots:       len(pattern),
		DistinctClasses:  len(classes),
		DistinctTeachers: len(teachers),
	}
	if err := s.templates.CreateVersioned(ctx, nil, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store template")
	}

	s.recordAudit(ctx, schoolID, "", models.AuditActionTemplateCreate, template.ID, template)
	s.logger.Info("template captured",
		zap.String("template_id", template.ID),
		zap.String("name", template.Name),
		zap.Int("version", template.Version),
		zap.Int("total_slots", template.TotalSlots))
	return template, nil
}

// List returns all templates of a school, newest first.
func (s *TemplateService) List(ctx context.Context, schoolID string) ([]models.Template, error) {
	templates, err := s.templates.List(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	return templates, nil
}

// Get loads one template.
func (s *TemplateService) Get(ctx context.Context, schoolID, id string) (*models.Template, error) {
	template, err := s.templates.FindByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	return template, nil
}

// SetDefault marks one template as the school default.
func (s *TemplateService) SetDefault(ctx context.Context, schoolID, id string) error {
	if err := s.templates.SetDefault(ctx, schoolID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set default template")
	}
	return nil
}

// Apply replays a template onto a target term inside one transaction.
// Identity collisions are tolerated per entry; the returned counts always
// reflect what actually happened.
func (s *TemplateService) Apply(ctx context.Context, schoolID, templateID, actorID string, req dto.ApplyTemplateRequest) (dto.ApplyTemplateResult, error) {
	var result dto.ApplyTemplateResult
	if err := s.validator.Struct(req); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid apply payload")
	}

	template, err := s.Get(ctx, schoolID, templateID)
	if err != nil {
		return result, err
	}
	if _, err := s.terms.FindByID(ctx, schoolID, req.TargetTermID); err != nil {
		return result, appErrors.Clone(appErrors.ErrNotFound, "target term not found")
	}

	var pattern []models.TemplateSlot
	if err := json.Unmarshal(template.Pattern, &pattern); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt template pattern")
	}

	var tx *sqlx.Tx
	var exec sqlx.ExtContext
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

	if req.ClearExisting {
		if _, err := s.slots.DeleteByTerm(ctx, exec, schoolID, req.TargetTermID); err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear target term")
		}
	}

	for _, entry := range pattern {
		slot := &models.Slot{
			SchoolID:    schoolID,
			TermID:      req.TargetTermID,
			DayOfWeek:   entry.DayOfWeek,
			PeriodID:    entry.PeriodID,
			ClassID:     entry.ClassID,
			SubjectID:   entry.SubjectID,
			TeacherID:   mapID(req.TeacherMapping, entry.TeacherID),
			RoomID:      mapID(req.RoomMapping, entry.RoomID),
			WeekVariant: models.NormalizeWeekVariant(entry.WeekVariant),
		}
		created, err := s.slots.InsertIgnore(ctx, exec, slot)
		if err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert slot")
		}
		if created {
			result.SlotsCreated++
		} else {
			result.ConflictsFound++
		}
	}

	app := &models.TemplateApplication{
		SchoolID:       schoolID,
		TemplateID:     template.ID,
		TargetTermID:   req.TargetTermID,
		TeacherMapping: marshalMapping(req.TeacherMapping),
		RoomMapping:    marshalMapping(req.RoomMapping),
		SlotsCreated:   result.SlotsCreated,
		ConflictsFound: result.ConflictsFound,
	}
	if actorID != "" {
		app.AppliedBy = &actorID
	}
	if err := s.templates.RecordApplication(ctx, exec, app); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record application")
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit application")
		}
		tx = nil
	}

	if s.conflicts != nil {
		s.conflicts.InvalidateTerm(ctx, schoolID, req.TargetTermID)
	}
	if s.metrics != nil {
		s.metrics.AddSlotsCreated("template", result.SlotsCreated)
	}
	s.recordAudit(ctx, schoolID, actorID, models.AuditActionTemplateApply, template.ID, app)
	s.logger.Info("template applied",
		zap.String("template_id", template.ID),
		zap.String("target_term_id", req.TargetTermID),
		zap.Int("slots_created", result.SlotsCreated),
		zap.Int("conflicts_found", result.ConflictsFound))
	return result, nil
}

func (s *TemplateService) recordAudit(ctx context.Context, schoolID, actorID, action, resourceID string, payload interface{}) {
	if s.audit == nil {
		return
	}
	raw, _ := json.Marshal(payload)
	entry := &models.AuditLog{
		SchoolID:  schoolID,
		Action:    action,
		Resource:  "timetable_template",
		NewValues: raw,
	}
	if actorID != "" {
		entry.UserID = &actorID
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit entry", zap.String("action", action), zap.Error(err))
	}
}

func mapID(mapping map[string]string, id string) string {
	if mapped, ok := mapping[id]; ok && mapped != "" {
		return mapped
	}
	return id
}

func marshalMapping(mapping map[string]string) types.JSONText {
	if len(mapping) == 0 {
		return types.JSONText(`{}`)
	}
	raw, err := json.Marshal(mapping)
	if err != nil {
		return types.JSONText(`{}`)
	}
	return types.JSONText(raw)
}
