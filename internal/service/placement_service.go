package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type placementSlotRepo interface {
	ListByTermTeacher(ctx context.Context, schoolID, termID, teacherID string) ([]models.Slot, error)
	FindAtCell(ctx context.Context, schoolID, termID string, day int, periodID string, variant models.WeekVariant) ([]models.Slot, error)
	Upsert(ctx context.Context, exec sqlx.ExtContext, slot *models.Slot) error
	DeleteByIdentity(ctx context.Context, key models.SlotIdentity) error
}

type placementConstraintRepo interface {
	GetTeacherConstraint(ctx context.Context, schoolID, teacherID, termID string) (*models.TeacherConstraint, error)
	GetRoomConstraint(ctx context.Context, schoolID, roomID, termID string) (*models.RoomConstraint, error)
}

type auditRecorder interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// PlacementService validates single-slot placements against teacher and room
// constraints and, for interactive edits, commits or deletes slots. Single
// slot writes fail closed: any error-severity violation rejects the write.
type PlacementService struct {
	slots       placementSlotRepo
	constraints placementConstraintRepo
	conflicts   *ConflictService
	audit       auditRecorder
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPlacementService builds the validator.
func NewPlacementService(slots placementSlotRepo, constraints placementConstraintRepo, conflicts *ConflictService, audit auditRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PlacementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementService{
		slots:       slots,
		constraints: constraints,
		conflicts:   conflicts,
		audit:       audit,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Validate runs every check and reports all violations; it never writes. The
// checks are independent, a failing one does not stop the later ones.
func (s *PlacementService) Validate(ctx context.Context, schoolID string, cand dto.PlacementCandidate) (dto.ValidationResult, error) {
	var result dto.ValidationResult
	if err := s.validator.Struct(cand); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}
	variant := models.NormalizeWeekVariant(cand.WeekVariant)

	teacherConstraint, err := s.constraints.GetTeacherConstraint(ctx, schoolID, cand.TeacherID, cand.TermID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher constraint")
	}
	roomConstraint, err := s.constraints.GetRoomConstraint(ctx, schoolID, cand.RoomID, cand.TermID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room constraint")
	}
	teacherSlots, err := s.slots.ListByTermTeacher(ctx, schoolID, cand.TermID, cand.TeacherID)
	if err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher slots")
	}
	cellSlots, err := s.slots.FindAtCell(ctx, schoolID, cand.TermID, cand.DayOfWeek, cand.PeriodID, variant)
	if err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cell occupancy")
	}

	violations := make([]dto.Violation, 0)
	violations = append(violations, checkUnavailability(teacherConstraint, cand)...)
	violations = append(violations, checkDayPreference(teacherConstraint, cand)...)
	violations = append(violations, checkWeeklyWorkload(teacherConstraint, teacherSlots)...)
	violations = append(violations, checkConsecutive(teacherConstraint, teacherSlots, cand.DayOfWeek)...)
	violations = append(violations, checkRoomReserved(roomConstraint, cand)...)
	violations = append(violations, checkDirectConflict(cellSlots, cand)...)

	result.Violations = violations
	result.IsValid = len(result.Errors()) == 0
	if s.metrics != nil {
		s.metrics.ObserveValidation(result.IsValid)
	}
	return result, nil
}

// UpsertSlot validates and writes one slot. Rejected placements return the
// violation list alongside the typed error so callers can render the reasons.
func (s *PlacementService) UpsertSlot(ctx context.Context, schoolID, actorID string, cand dto.PlacementCandidate) (*models.Slot, dto.ValidationResult, error) {
	result, err := s.Validate(ctx, schoolID, cand)
	if err != nil {
		return nil, result, err
	}
	if !result.IsValid {
		first := result.Errors()[0]
		return nil, result, appErrors.Clone(appErrors.ErrPlacementRejected, first.Message)
	}

	slot := &models.Slot{
		ID:          uuid.NewString(),
		SchoolID:    schoolID,
		TermID:      cand.TermID,
		DayOfWeek:   cand.DayOfWeek,
		PeriodID:    cand.PeriodID,
		ClassID:     cand.ClassID,
		SubjectID:   cand.SubjectID,
		TeacherID:   cand.TeacherID,
		RoomID:      cand.RoomID,
		WeekVariant: models.NormalizeWeekVariant(cand.WeekVariant),
	}
	if err := s.slots.Upsert(ctx, nil, slot); err != nil {
		return nil, result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store slot")
	}

	if s.conflicts != nil {
		s.conflicts.InvalidateTerm(ctx, schoolID, cand.TermID)
	}
	if s.metrics != nil {
		s.metrics.AddSlotsCreated("manual", 1)
	}
	s.recordAudit(ctx, schoolID, actorID, models.AuditActionSlotUpsert, slot.ID, slot)
	return slot, result, nil
}

// DeleteSlot removes the slot matching the identity key.
func (s *PlacementService) DeleteSlot(ctx context.Context, schoolID, actorID string, req dto.DeleteSlotRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delete payload")
	}
	key := models.SlotIdentity{
		SchoolID:    schoolID,
		TermID:      req.TermID,
		DayOfWeek:   req.DayOfWeek,
		PeriodID:    req.PeriodID,
		ClassID:     req.ClassID,
		WeekVariant: models.NormalizeWeekVariant(req.WeekVariant),
	}
	if err := s.slots.DeleteByIdentity(ctx, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete slot")
	}

	if s.conflicts != nil {
		s.conflicts.InvalidateTerm(ctx, schoolID, req.TermID)
	}
	s.recordAudit(ctx, schoolID, actorID, models.AuditActionSlotDelete, "", key)
	return nil
}

func (s *PlacementService) recordAudit(ctx context.Context, schoolID, actorID, action, resourceID string, payload interface{}) {
	if s.audit == nil {
		return
	}
	raw, _ := json.Marshal(payload)
	entry := &models.AuditLog{
		SchoolID:  schoolID,
		Action:    action,
		Resource:  "timetable_slot",
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

func checkUnavailability(constraint *models.TeacherConstraint, cand dto.PlacementCandidate) []dto.Violation {
	if constraint == nil || len(constraint.Unavailable) == 0 {
		return nil
	}
	var blocks []models.UnavailableBlock
	if err := json.Unmarshal(constraint.Unavailable, &blocks); err != nil {
		return nil
	}
	for _, block := range blocks {
		if block.Recurring && block.DayOfWeek == cand.DayOfWeek && block.PeriodID == cand.PeriodID {
			msg := fmt.Sprintf("teacher %s is unavailable at day %d period %s", cand.TeacherID, cand.DayOfWeek, cand.PeriodID)
			if block.Reason != "" {
				msg = fmt.Sprintf("%s (%s)", msg, block.Reason)
			}
			return []dto.Violation{{Type: dto.ViolationTeacherUnavailable, Severity: dto.SeverityError, Message: msg}}
		}
	}
	return nil
}

func checkDayPreference(constraint *models.TeacherConstraint, cand dto.PlacementCandidate) []dto.Violation {
	if constraint == nil || len(constraint.DayPreferences) == 0 {
		return nil
	}
	prefs := map[string]models.DayPreference{}
	if err := json.Unmarshal(constraint.DayPreferences, &prefs); err != nil {
		return nil
	}
	switch prefs[fmt.Sprintf("%d", cand.DayOfWeek)] {
	case models.DayPreferenceUnavailable:
		return []dto.Violation{{
			Type:     dto.ViolationDayPreference,
			Severity: dto.SeverityError,
			Message:  fmt.Sprintf("teacher %s marked day %d unavailable", cand.TeacherID, cand.DayOfWeek),
		}}
	case models.DayPreferenceAvoid:
		return []dto.Violation{{
			Type:     dto.ViolationDayPreference,
			Severity: dto.SeverityWarning,
			Message:  fmt.Sprintf("teacher %s prefers to avoid day %d", cand.TeacherID, cand.DayOfWeek),
		}}
	}
	return nil
}

func checkWeeklyWorkload(constraint *models.TeacherConstraint, teacherSlots []models.Slot) []dto.Violation {
	if constraint == nil || constraint.MaxPeriodsPerWeek <= 0 {
		return nil
	}
	if len(teacherSlots) >= constraint.MaxPeriodsPerWeek {
		return []dto.Violation{{
			Type:     dto.ViolationWeeklyWorkload,
			Severity: dto.SeverityError,
			Message:  fmt.Sprintf("teacher already has %d periods this week (limit %d)", len(teacherSlots), constraint.MaxPeriodsPerWeek),
		}}
	}
	return nil
}

func checkConsecutive(constraint *models.TeacherConstraint, teacherSlots []models.Slot, day int) []dto.Violation {
	if constraint == nil || constraint.MaxConsecutivePeriods <= 0 {
		return nil
	}
	sameDay := 0
	for _, slot := range teacherSlots {
		if slot.DayOfWeek == day {
			sameDay++
		}
	}
	if sameDay >= constraint.MaxConsecutivePeriods {
		return []dto.Violation{{
			Type:     dto.ViolationConsecutive,
			Severity: dto.SeverityWarning,
			Message:  fmt.Sprintf("teacher already has %d periods on day %d (consecutive limit %d)", sameDay, day, constraint.MaxConsecutivePeriods),
		}}
	}
	return nil
}

func checkRoomReserved(constraint *models.RoomConstraint, cand dto.PlacementCandidate) []dto.Violation {
	if constraint == nil || len(constraint.ReservedPeriods) == 0 {
		return nil
	}
	var reserved []models.ReservedPeriod
	if err := json.Unmarshal(constraint.ReservedPeriods, &reserved); err != nil {
		return nil
	}
	for _, block := range reserved {
		if block.DayOfWeek == cand.DayOfWeek && block.PeriodID == cand.PeriodID {
			return []dto.Violation{{
				Type:     dto.ViolationRoomReserved,
				Severity: dto.SeverityError,
				Message:  fmt.Sprintf("room %s is reserved at day %d period %s", cand.RoomID, cand.DayOfWeek, cand.PeriodID),
			}}
		}
	}
	return nil
}

func checkDirectConflict(cellSlots []models.Slot, cand dto.PlacementCandidate) []dto.Violation {
	var out []dto.Violation
	for _, slot := range cellSlots {
		if slot.ClassID == cand.ClassID {
			continue
		}
		if slot.TeacherID == cand.TeacherID {
			out = append(out, dto.Violation{
				Type:     dto.ViolationDirectConflict,
				Severity: dto.SeverityError,
				Message:  fmt.Sprintf("teacher %s already teaches class %s at this time", cand.TeacherID, slot.ClassID),
			})
		}
		if slot.RoomID == cand.RoomID {
			out = append(out, dto.Violation{
				Type:     dto.ViolationDirectConflict,
				Severity: dto.SeverityError,
				Message:  fmt.Sprintf("room %s is already occupied by class %s at this time", cand.RoomID, slot.ClassID),
			})
		}
	}
	return out
}
