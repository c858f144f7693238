package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type mockPlacementSlotRepo struct {
	teacherSlots []models.Slot
	cellSlots    []models.Slot
	upserted     []*models.Slot
	deleted      []models.SlotIdentity
	deleteErr    error
}

func (m *mockPlacementSlotRepo) ListByTermTeacher(_ context.Context, _, _, _ string) ([]models.Slot, error) {
	return m.teacherSlots, nil
}

func (m *mockPlacementSlotRepo) FindAtCell(_ context.Context, _, _ string, _ int, _ string, _ models.WeekVariant) ([]models.Slot, error) {
	return m.cellSlots, nil
}

func (m *mockPlacementSlotRepo) Upsert(_ context.Context, _ sqlx.ExtContext, slot *models.Slot) error {
	m.upserted = append(m.upserted, slot)
	return nil
}

func (m *mockPlacementSlotRepo) DeleteByIdentity(_ context.Context, key models.SlotIdentity) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, key)
	return nil
}

type mockConstraintRepo struct {
	teacher *models.TeacherConstraint
	room    *models.RoomConstraint
}

func (m *mockConstraintRepo) GetTeacherConstraint(_ context.Context, _, _, _ string) (*models.TeacherConstraint, error) {
	if m.teacher == nil {
		return nil, sql.ErrNoRows
	}
	return m.teacher, nil
}

func (m *mockConstraintRepo) GetRoomConstraint(_ context.Context, _, _, _ string) (*models.RoomConstraint, error) {
	if m.room == nil {
		return nil, sql.ErrNoRows
	}
	return m.room, nil
}

type mockAuditRepo struct {
	entries []*models.AuditLog
}

func (m *mockAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func validCandidate() dto.PlacementCandidate {
	return dto.PlacementCandidate{
		TermID:    "term-1",
		DayOfWeek: 0,
		PeriodID:  "P1",
		ClassID:   "A",
		SubjectID: "MATH",
		TeacherID: "T1",
		RoomID:    "R1",
	}
}

func newPlacementFixture(slots *mockPlacementSlotRepo, constraints *mockConstraintRepo) (*PlacementService, *mockAuditRepo) {
	audit := &mockAuditRepo{}
	svc := NewPlacementService(slots, constraints, nil, audit, nil, nil, zap.NewNop())
	return svc, audit
}

func TestValidateCleanCandidate(t *testing.T) {
	svc, _ := newPlacementFixture(&mockPlacementSlotRepo{}, &mockConstraintRepo{})

	result, err := svc.Validate(context.Background(), "school-1", validCandidate())

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Violations)
}

func TestValidateDirectConflictSameTeacher(t *testing.T) {
	slots := &mockPlacementSlotRepo{
		cellSlots: []models.Slot{
			{ClassID: "B", TeacherID: "T1", RoomID: "R9"},
		},
	}
	svc, _ := newPlacementFixture(slots, &mockConstraintRepo{})

	result, err := svc.Validate(context.Background(), "school-1", validCandidate())

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, dto.ViolationDirectConflict, result.Violations[0].Type)
	assert.Contains(t, result.Violations[0].Message, "class B")
}

func TestValidateDirectConflictSameRoom(t *testing.T) {
	slots := &mockPlacementSlotRepo{
		cellSlots: []models.Slot{
			{ClassID: "B", TeacherID: "T9", RoomID: "R1"},
		},
	}
	svc, _ := newPlacementFixture(slots, &mockConstraintRepo{})

	result, err := svc.Validate(context.Background(), "school-1", validCandidate())

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, dto.ViolationDirectConflict, result.Violations[0].Type)
}

func TestValidateSameClassAtCellIsNotAConflict(t *testing.T) {
	slots := &mockPlacementSlotRepo{
		cellSlots: []models.Slot{
			{ClassID: "A", TeacherID: "T1", RoomID: "R1"},
		},
	}
	svc, _ := newPlacementFixture(slots, &mockConstraintRepo{})

	result, err := svc.Validate(context.Background(), "school-1", validCandidate())

	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestValidateRecurringUnavailability(t *testing.T) {
	constraints := &mockConstraintRepo{
		teacher: &models.TeacherConstraint{
			Unavailable: types.JSONText(`[{"day_of_week":0,"period_id":"P1","recurring":true,"reason":"staff meeting"}]`),
		},
	}
	svc, _ := newPlacementFixture(&mockPlacementSlotRepo{}, constraints)

	result, err := svc.Validate(context.Background(), "school-1", validCandidate())

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, dto.ViolationTeacherUnavailable, result.Violations[0].Type)
	assert.Contains(t, result.Violations[0].Message, "staff meeting")
}

func TestValidateDayPreferenceAvoidIsWarningOnly(t *testing.T) {
	constraints := &mockConstraintRepo{
		teacher: &models.TeacherConstraint{
			DayPreferences: types.JSONText(`{"0":"AVOID"}`),
		},
	}
	svc, _ := newPlacementFixture(&mockPlacementSlotRepo{}, constraints)

	result, err := svc.Validate(context.Background(), "school-1", validCandidate())

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, dto.SeverityWarning, result.Violations[0].Severity)
}

func TestValidateReportsAllViolations(t *testing.T) {
	slots := &mockPlacementSlotRepo{
		teacherSlots: []models.Slot{
			{DayOfWeek: 1, PeriodID: "P1"},
			{DayOfWeek: 2, PeriodID: "P1"},
		},
		cellSlots: []models.Slot{
			{ClassID: "B", TeacherID: "T1", RoomID: "R1"},
		},
	}
	constraints := &mockConstraintRepo{
		teacher: &models.TeacherConstraint{
			MaxPeriodsPerWeek: 2,
			DayPreferences:    types.JSONText(`{"0":"UNAVAILABLE"}`),
		},
		room: &models.RoomConstraint{
			ReservedPeriods: types.JSONText(`[{"day_of_week":0,"period_id":"P1"}]`),
		},
	}
	svc, _ := newPlacementFixture(slots, constraints)

	result, err := svc.Validate(context.Background(), "school-1", validCandidate())

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	seen := make(map[string]bool)
	for _, violation := range result.Violations {
		seen[violation.Type] = true
	}
	assert.True(t, seen[dto.ViolationDayPreference])
	assert.True(t, seen[dto.ViolationWeeklyWorkload])
	assert.True(t, seen[dto.ViolationRoomReserved])
	assert.True(t, seen[dto.ViolationDirectConflict])
}

func TestValidateConsecutiveWarning(t *testing.T) {
	slots := &mockPlacementSlotRepo{
		teacherSlots: []models.Slot{
			{DayOfWeek: 0, PeriodID: "P2"},
			{DayOfWeek: 0, PeriodID: "P3"},
			{DayOfWeek: 0, PeriodID: "P4"},
		},
	}
	constraints := &mockConstraintRepo{
		teacher: &models.TeacherConstraint{MaxConsecutivePeriods: 3},
	}
	svc, _ := newPlacementFixture(slots, constraints)

	result, err := svc.Validate(context.Background(), "school-1", validCandidate())

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, dto.ViolationConsecutive, result.Violations[0].Type)
	assert.Equal(t, dto.SeverityWarning, result.Violations[0].Severity)
}

func TestUpsertSlotFailsClosed(t *testing.T) {
	slots := &mockPlacementSlotRepo{
		cellSlots: []models.Slot{
			{ClassID: "B", TeacherID: "T1", RoomID: "R2"},
		},
	}
	svc, audit := newPlacementFixture(slots, &mockConstraintRepo{})

	slot, result, err := svc.UpsertSlot(context.Background(), "school-1", "user-1", validCandidate())

	require.Error(t, err)
	assert.Nil(t, slot)
	assert.False(t, result.IsValid)
	assert.Equal(t, appErrors.ErrPlacementRejected.Code, appErrors.FromError(err).Code)
	assert.Empty(t, slots.upserted)
	assert.Empty(t, audit.entries)
}

func TestUpsertSlotWritesAndAudits(t *testing.T) {
	slots := &mockPlacementSlotRepo{}
	svc, audit := newPlacementFixture(slots, &mockConstraintRepo{})

	slot, result, err := svc.UpsertSlot(context.Background(), "school-1", "user-1", validCandidate())

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	require.NotNil(t, slot)
	assert.NotEmpty(t, slot.ID)
	assert.Equal(t, models.WeekVariantCurrent, slot.WeekVariant)
	require.Len(t, slots.upserted, 1)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionSlotUpsert, audit.entries[0].Action)
}

func TestDeleteSlotNotFound(t *testing.T) {
	slots := &mockPlacementSlotRepo{deleteErr: sql.ErrNoRows}
	svc, _ := newPlacementFixture(slots, &mockConstraintRepo{})

	err := svc.DeleteSlot(context.Background(), "school-1", "user-1", dto.DeleteSlotRequest{
		TermID:   "term-1",
		PeriodID: "P1",
		ClassID:  "A",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteSlotNormalizesWeekVariant(t *testing.T) {
	slots := &mockPlacementSlotRepo{}
	svc, audit := newPlacementFixture(slots, &mockConstraintRepo{})

	err := svc.DeleteSlot(context.Background(), "school-1", "user-1", dto.DeleteSlotRequest{
		TermID:   "term-1",
		PeriodID: "P1",
		ClassID:  "A",
	})

	require.NoError(t, err)
	require.Len(t, slots.deleted, 1)
	assert.Equal(t, models.WeekVariantCurrent, slots.deleted[0].WeekVariant)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionSlotDelete, audit.entries[0].Action)
}
