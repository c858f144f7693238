package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func twoPeriodAxis() []models.Period {
	return []models.Period{
		{ID: "P1", Label: "1", StartTime: "08:00", EndTime: "08:45"},
		{ID: "P2", Label: "2", StartTime: "08:50", EndTime: "09:35"},
	}
}

func TestDetectAmongTeacherDoubleBooking(t *testing.T) {
	periods := twoPeriodAxis()
	slots := []models.Slot{
		{ID: "s1", TermID: "term-1", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", TeacherID: "T1", RoomID: "R1"},
		{ID: "s2", TermID: "term-1", DayOfWeek: 0, PeriodID: "P1", ClassID: "B", TeacherID: "T1", RoomID: "R2"},
	}

	conflicts := DetectAmong(slots, periods)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeTeacher, conflicts[0].Type)
	assert.Equal(t, "T1", conflicts[0].TeacherID)
	assert.Equal(t, 0, conflicts[0].DayOfWeek)
	assert.Equal(t, "P1", conflicts[0].PeriodID)
	classes := []string{conflicts[0].SlotA.ClassID, conflicts[0].SlotB.ClassID}
	assert.ElementsMatch(t, []string{"A", "B"}, classes)
}

func TestDetectAmongRoomDoubleBooking(t *testing.T) {
	periods := twoPeriodAxis()
	slots := []models.Slot{
		{ID: "s1", DayOfWeek: 1, PeriodID: "P2", ClassID: "A", TeacherID: "T1", RoomID: "R1"},
		{ID: "s2", DayOfWeek: 1, PeriodID: "P2", ClassID: "B", TeacherID: "T2", RoomID: "R1"},
	}

	conflicts := DetectAmong(slots, periods)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeRoom, conflicts[0].Type)
	assert.Equal(t, "R1", conflicts[0].RoomID)
}

func TestDetectAmongNoCrossCellConflict(t *testing.T) {
	periods := twoPeriodAxis()
	slots := []models.Slot{
		{ID: "s1", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", TeacherID: "T1", RoomID: "R1"},
		{ID: "s2", DayOfWeek: 0, PeriodID: "P2", ClassID: "B", TeacherID: "T1", RoomID: "R1"},
		{ID: "s3", DayOfWeek: 1, PeriodID: "P1", ClassID: "C", TeacherID: "T1", RoomID: "R1"},
	}

	assert.Empty(t, DetectAmong(slots, periods))
}

func TestDetectAmongWeekVariantsIsolated(t *testing.T) {
	periods := twoPeriodAxis()
	slots := []models.Slot{
		{ID: "s1", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", TeacherID: "T1", RoomID: "R1", WeekVariant: models.WeekVariantCurrent},
		{ID: "s2", DayOfWeek: 0, PeriodID: "P1", ClassID: "B", TeacherID: "T1", RoomID: "R1", WeekVariant: models.WeekVariantNext},
	}

	assert.Empty(t, DetectAmong(slots, periods))
}

func TestDetectAmongDeterministicOrder(t *testing.T) {
	periods := twoPeriodAxis()
	slots := []models.Slot{
		{ID: "s3", DayOfWeek: 1, PeriodID: "P1", ClassID: "C", TeacherID: "T2", RoomID: "R1"},
		{ID: "s4", DayOfWeek: 1, PeriodID: "P1", ClassID: "D", TeacherID: "T2", RoomID: "R2"},
		{ID: "s1", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", TeacherID: "T1", RoomID: "R1"},
		{ID: "s2", DayOfWeek: 0, PeriodID: "P1", ClassID: "B", TeacherID: "T1", RoomID: "R2"},
	}
	reversed := []models.Slot{slots[3], slots[2], slots[1], slots[0]}

	first := DetectAmong(slots, periods)
	second := DetectAmong(reversed, periods)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, 0, first[0].DayOfWeek)
	assert.Equal(t, 1, first[1].DayOfWeek)
}

func TestExpandLegacySlots(t *testing.T) {
	periods := []models.Period{
		{ID: "P1", StartTime: "08:00"},
		{ID: "P2", StartTime: "08:50"},
		{ID: "P3", StartTime: "09:40"},
	}
	legacy := []models.LegacyRangeSlot{
		{ID: "L1", DayOfWeek: 2, StartPeriodID: "P1", EndPeriodID: "P3", ClassID: "A", TeacherID: "T1", RoomID: "R1"},
		{ID: "L2", DayOfWeek: 2, StartPeriodID: "P3", EndPeriodID: "P1", ClassID: "B", TeacherID: "T2", RoomID: "R2"},
		{ID: "L3", DayOfWeek: 2, StartPeriodID: "PX", EndPeriodID: "P2", ClassID: "C", TeacherID: "T3", RoomID: "R3"},
	}

	expanded := ExpandLegacySlots(legacy, periods)

	require.Len(t, expanded, 3)
	assert.Equal(t, "P1", expanded[0].PeriodID)
	assert.Equal(t, "P2", expanded[1].PeriodID)
	assert.Equal(t, "P3", expanded[2].PeriodID)
	for _, slot := range expanded {
		assert.Equal(t, "A", slot.ClassID)
		assert.Equal(t, models.WeekVariantCurrent, slot.WeekVariant)
	}
}

type mockConflictSlotRepo struct {
	slots  []models.Slot
	legacy []models.LegacyRangeSlot
}

func (m *mockConflictSlotRepo) ListByTerm(_ context.Context, _, _ string) ([]models.Slot, error) {
	return m.slots, nil
}

func (m *mockConflictSlotRepo) ListLegacyByTerm(_ context.Context, _, _ string) ([]models.LegacyRangeSlot, error) {
	return m.legacy, nil
}

type mockTermRepo struct {
	term *models.Term
	err  error
}

func (m *mockTermRepo) FindByID(_ context.Context, _, _ string) (*models.Term, error) {
	return m.term, m.err
}

type mockPeriodRepo struct {
	periods []models.Period
}

func (m *mockPeriodRepo) ListByYear(_ context.Context, _, _ string) ([]models.Period, error) {
	return m.periods, nil
}

func TestDetectByTermMergesLegacyPlacements(t *testing.T) {
	slots := &mockConflictSlotRepo{
		slots: []models.Slot{
			{ID: "s1", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", TeacherID: "T1", RoomID: "R1"},
		},
		legacy: []models.LegacyRangeSlot{
			{ID: "L1", DayOfWeek: 0, StartPeriodID: "P1", EndPeriodID: "P2", ClassID: "B", TeacherID: "T1", RoomID: "R2"},
		},
	}
	terms := &mockTermRepo{term: &models.Term{ID: "term-1", AcademicYear: "2026/2027"}}
	periods := &mockPeriodRepo{periods: twoPeriodAxis()}
	svc := NewConflictService(slots, terms, periods, NewCacheService(nil, nil, time.Minute, zap.NewNop(), false), nil, zap.NewNop())

	conflicts, err := svc.DetectByTerm(context.Background(), "school-1", "term-1")

	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeTeacher, conflicts[0].Type)
	assert.Equal(t, "T1", conflicts[0].TeacherID)
}
