package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type mockCurriculumRepo struct {
	requirements []models.CurriculumRequirement
	classes      []models.Class
	teachers     []models.Teacher
	rooms        []models.Room
	subjects     []models.Subject
}

func (m *mockCurriculumRepo) ListRequirements(_ context.Context, _, _ string) ([]models.CurriculumRequirement, error) {
	return m.requirements, nil
}

func (m *mockCurriculumRepo) ListClasses(_ context.Context, _ string) ([]models.Class, error) {
	return m.classes, nil
}

func (m *mockCurriculumRepo) ListTeachers(_ context.Context, _ string) ([]models.Teacher, error) {
	return m.teachers, nil
}

func (m *mockCurriculumRepo) ListRooms(_ context.Context, _ string) ([]models.Room, error) {
	return m.rooms, nil
}

func (m *mockCurriculumRepo) ListSubjects(_ context.Context, _ string) ([]models.Subject, error) {
	return m.subjects, nil
}

func basicCurriculum() *mockCurriculumRepo {
	return &mockCurriculumRepo{
		requirements: []models.CurriculumRequirement{
			{ClassID: "A", SubjectID: "MATH", PeriodsPerWeek: 3},
		},
		classes:  []models.Class{{ID: "A", Size: 28}},
		teachers: []models.Teacher{{ID: "T1", Subjects: types.JSONText(`["MATH"]`)}},
		rooms:    []models.Room{{ID: "R1", Capacity: 30}},
		subjects: []models.Subject{{ID: "MATH", IsCore: true}},
	}
}

func newGeneratorFixture(curriculum *mockCurriculumRepo, slots *mockTemplateSlotRepo) *GeneratorService {
	cache := NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	config := NewConfigService(&stubConfigRepo{}, cache, nil, zap.NewNop())
	terms := &mockTermRepo{term: &models.Term{ID: "term-1", AcademicYear: "2026/2027"}}
	periods := &mockPeriodRepo{periods: twoPeriodAxis()}
	return NewGeneratorService(curriculum, slots, terms, periods, config, nil, nil, nil, nil, time.Minute, 0, nil, zap.NewNop())
}

func TestGeneratePreviewPlacesAllRequirements(t *testing.T) {
	svc := newGeneratorFixture(basicCurriculum(), newMockTemplateSlotRepo())

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{
		TermID: "term-1",
		Config: dto.GenerationConfig{},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Stats.TotalSlots)
	assert.Equal(t, 3, resp.Stats.PlacedSlots)
	assert.Empty(t, resp.Unplaced)
	assert.Empty(t, resp.Errors)
	assert.NotEmpty(t, resp.PreviewID)

	seen := make(map[cell]bool)
	for _, slot := range resp.Preview {
		assert.Equal(t, "A", slot.ClassID)
		assert.Equal(t, "T1", slot.TeacherID)
		c := cell{day: slot.DayOfWeek, period: 1}
		if slot.PeriodID == "P2" {
			c.period = 2
		}
		assert.False(t, seen[c], "cell placed twice")
		seen[c] = true
	}
}

func TestGeneratePreviewIsDeterministic(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.requirements = append(curriculum.requirements, models.CurriculumRequirement{ClassID: "B", SubjectID: "MATH", PeriodsPerWeek: 2})
	curriculum.classes = append(curriculum.classes, models.Class{ID: "B", Size: 25})
	curriculum.teachers = append(curriculum.teachers, models.Teacher{ID: "T2", Subjects: types.JSONText(`["MATH"]`)})
	curriculum.rooms = append(curriculum.rooms, models.Room{ID: "R2", Capacity: 30})

	request := dto.GenerateRequest{TermID: "term-1", Config: dto.GenerationConfig{}}

	first, err := newGeneratorFixture(curriculum, newMockTemplateSlotRepo()).GeneratePreview(context.Background(), "school-1", request)
	require.NoError(t, err)
	second, err := newGeneratorFixture(curriculum, newMockTemplateSlotRepo()).GeneratePreview(context.Background(), "school-1", request)
	require.NoError(t, err)

	assert.Equal(t, first.Preview, second.Preview)

	firstStats, secondStats := first.Stats, second.Stats
	firstStats.GenerationTimeMs, secondStats.GenerationTimeMs = 0, 0
	assert.Equal(t, firstStats, secondStats)
}

func TestGeneratePreviewReportsUnplacedWithoutExpertise(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.teachers = []models.Teacher{{ID: "T1", Subjects: types.JSONText(`["BIO"]`)}}
	svc := newGeneratorFixture(curriculum, newMockTemplateSlotRepo())

	cfg := dto.GenerationConfig{}
	cfg.EnforceTeacherExpertise = true

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stats.PlacedSlots)
	require.Len(t, resp.Unplaced, 1)
	assert.Equal(t, 3, resp.Unplaced[0].Remaining)
	assert.NotEmpty(t, resp.Errors)
}

func TestGeneratePreviewEnforcesRoomCapacity(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.rooms = []models.Room{{ID: "R1", Capacity: 10}}
	svc := newGeneratorFixture(curriculum, newMockTemplateSlotRepo())

	cfg := dto.GenerationConfig{}
	cfg.EnforceRoomCapacity = true

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stats.PlacedSlots)
	require.Len(t, resp.Unplaced, 1)
}

func TestGeneratePreviewAvoidsExistingOccupancy(t *testing.T) {
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = []models.Slot{
		{ID: "e1", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", SubjectID: "BIO", TeacherID: "T9", RoomID: "R9"},
	}
	svc := newGeneratorFixture(basicCurriculum(), slots)

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: dto.GenerationConfig{}})

	require.NoError(t, err)
	for _, slot := range resp.Preview {
		occupied := slot.DayOfWeek == 0 && slot.PeriodID == "P1"
		assert.False(t, occupied, "generated into an occupied class cell")
	}
}

func TestGeneratePreviewRespectsDailyCeiling(t *testing.T) {
	svc := newGeneratorFixture(basicCurriculum(), newMockTemplateSlotRepo())

	cfg := dto.GenerationConfig{}
	cfg.MaxTeacherPeriodsPerDay = 1

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Stats.PlacedSlots)
	perDay := make(map[int]int)
	for _, slot := range resp.Preview {
		perDay[slot.DayOfWeek]++
	}
	for day, count := range perDay {
		assert.LessOrEqual(t, count, 1, "day %d over the ceiling", day)
	}
}

func fourPeriodAxis() []models.Period {
	return []models.Period{
		{ID: "P1", Label: "1", StartTime: "08:00", EndTime: "08:45"},
		{ID: "P2", Label: "2", StartTime: "08:50", EndTime: "09:35"},
		{ID: "P3", Label: "3", StartTime: "09:40", EndTime: "10:25"},
		{ID: "P4", Label: "4", StartTime: "10:30", EndTime: "11:15"},
	}
}

func newTunedGeneratorFixture(curriculum *mockCurriculumRepo, slots *mockTemplateSlotRepo, row *models.ScheduleConfig, axis []models.Period) *GeneratorService {
	cache := NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	config := NewConfigService(&stubConfigRepo{byTerm: row}, cache, nil, zap.NewNop())
	terms := &mockTermRepo{term: &models.Term{ID: "term-1", AcademicYear: "2026/2027"}}
	periods := &mockPeriodRepo{periods: axis}
	return NewGeneratorService(curriculum, slots, terms, periods, config, nil, nil, nil, nil, time.Minute, 0, nil, zap.NewNop())
}

func placedPeriods(preview []dto.PreviewSlot) []string {
	out := make([]string, 0, len(preview))
	for _, slot := range preview {
		out = append(out, slot.PeriodID)
	}
	return out
}

func TestGeneratePreviewKeepsLunchWindowFree(t *testing.T) {
	lunchAfter := 2
	curriculum := basicCurriculum()
	curriculum.requirements = []models.CurriculumRequirement{
		{ClassID: "A", SubjectID: "MATH", PeriodsPerWeek: 4},
	}
	svc := newTunedGeneratorFixture(curriculum, newMockTemplateSlotRepo(), &models.ScheduleConfig{
		WorkingDays:      types.JSONText(`[0]`),
		LunchAfterPeriod: &lunchAfter,
	}, fourPeriodAxis())

	cfg := dto.GenerationConfig{}
	cfg.RequireLunchBreak = true

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Stats.PlacedSlots)
	require.Len(t, resp.Unplaced, 1)
	assert.Equal(t, 1, resp.Unplaced[0].Remaining)
	placed := placedPeriods(resp.Preview)
	assert.False(t, contains(placed, "P2") && contains(placed, "P3"), "both lunch-window periods taken")
}

func TestGeneratePreviewCapsConsecutiveRun(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.requirements = []models.CurriculumRequirement{
		{ClassID: "A", SubjectID: "MATH", PeriodsPerWeek: 4},
	}
	svc := newTunedGeneratorFixture(curriculum, newMockTemplateSlotRepo(), &models.ScheduleConfig{
		WorkingDays: types.JSONText(`[0]`),
	}, fourPeriodAxis())

	cfg := dto.GenerationConfig{}
	cfg.MaxConsecutivePeriods = 2

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Stats.PlacedSlots)
	require.Len(t, resp.Unplaced, 1)
	assert.ElementsMatch(t, []string{"P1", "P2", "P4"}, placedPeriods(resp.Preview))
}

func TestGeneratePreviewLunchBreakResetsConsecutiveRun(t *testing.T) {
	lunchAfter := 2
	curriculum := basicCurriculum()
	curriculum.requirements = []models.CurriculumRequirement{
		{ClassID: "A", SubjectID: "MATH", PeriodsPerWeek: 4},
	}
	row := &models.ScheduleConfig{
		WorkingDays:      types.JSONText(`[0]`),
		LunchAfterPeriod: &lunchAfter,
	}

	cfg := dto.GenerationConfig{}
	cfg.MaxConsecutivePeriods = 2

	resp, err := newTunedGeneratorFixture(curriculum, newMockTemplateSlotRepo(), row, fourPeriodAxis()).
		GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	assert.Equal(t, 4, resp.Stats.PlacedSlots, "the lunch boundary should break the run")
	assert.Empty(t, resp.Unplaced)

	noReset := false
	cfg.LunchResetsConsecutive = &noReset
	resp, err = newTunedGeneratorFixture(curriculum, newMockTemplateSlotRepo(), row, fourPeriodAxis()).
		GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Stats.PlacedSlots)
	require.Len(t, resp.Unplaced, 1)
}

func TestGeneratePreviewPreventsBackToBackRoomSwitch(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.requirements = []models.CurriculumRequirement{
		{ClassID: "A", SubjectID: "MATH", PeriodsPerWeek: 1},
	}
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = []models.Slot{
		{ID: "e1", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 0, PeriodID: "P1", ClassID: "B", SubjectID: "BIO", TeacherID: "T1", RoomID: "R2"},
	}
	row := &models.ScheduleConfig{WorkingDays: types.JSONText(`[0]`)}
	svc := newTunedGeneratorFixture(curriculum, slots, row, twoPeriodAxis())

	cfg := dto.GenerationConfig{}
	cfg.PreventBackToBack = true

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Stats.PlacedSlots, "adjacent period in another room must not be offered")
	require.Len(t, resp.Unplaced, 1)

	// Staying in the same room across adjacent periods is fine.
	curriculum.rooms = append(curriculum.rooms, models.Room{ID: "R2", Capacity: 30})
	resp, err = newTunedGeneratorFixture(curriculum, slots, row, twoPeriodAxis()).
		GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	require.Len(t, resp.Preview, 1)
	assert.Equal(t, "P2", resp.Preview[0].PeriodID)
	assert.Equal(t, "R2", resp.Preview[0].RoomID)
}

func TestGeneratePreviewBackToBackIgnoresOtherWeekVariant(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.requirements = []models.CurriculumRequirement{
		{ClassID: "A", SubjectID: "MATH", PeriodsPerWeek: 1},
	}
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = []models.Slot{
		{ID: "e1", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 0, PeriodID: "P1", ClassID: "B", SubjectID: "BIO", TeacherID: "T1", RoomID: "R1"},
		{ID: "e2", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 0, PeriodID: "P1", ClassID: "C", SubjectID: "BIO", TeacherID: "T1", RoomID: "R2", WeekVariant: models.WeekVariantNext},
	}
	row := &models.ScheduleConfig{WorkingDays: types.JSONText(`[0]`)}
	svc := newTunedGeneratorFixture(curriculum, slots, row, twoPeriodAxis())

	cfg := dto.GenerationConfig{}
	cfg.PreventBackToBack = true

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	require.Len(t, resp.Preview, 1, "the alternate week's slot must not block the current week")
	assert.Equal(t, "P2", resp.Preview[0].PeriodID)
	assert.Equal(t, "R1", resp.Preview[0].RoomID)
}

func TestGeneratePreviewPrefersMorningForCore(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.requirements = []models.CurriculumRequirement{
		{ClassID: "A", SubjectID: "MATH", PeriodsPerWeek: 1},
	}
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = []models.Slot{
		{ID: "e1", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", SubjectID: "BIO", TeacherID: "T9", RoomID: "R9"},
	}
	row := &models.ScheduleConfig{WorkingDays: types.JSONText(`[0,1]`)}

	cfg := dto.GenerationConfig{}
	cfg.PreferMorningForCore = true

	resp, err := newTunedGeneratorFixture(curriculum, slots, row, twoPeriodAxis()).
		GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	require.Len(t, resp.Preview, 1)
	assert.Equal(t, 1, resp.Preview[0].DayOfWeek, "a free first period beats a later one on the earlier day")
	assert.Equal(t, "P1", resp.Preview[0].PeriodID)
}

func TestGeneratePreviewAvoidsLastPeriodForLab(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.requirements = []models.CurriculumRequirement{
		{ClassID: "A", SubjectID: "CHEM", PeriodsPerWeek: 1},
	}
	curriculum.subjects = []models.Subject{{ID: "CHEM", IsLab: true}}
	curriculum.teachers = []models.Teacher{{ID: "T1", Subjects: types.JSONText(`["CHEM"]`)}}
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = []models.Slot{
		{ID: "e1", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", SubjectID: "BIO", TeacherID: "T9", RoomID: "R9"},
	}
	row := &models.ScheduleConfig{WorkingDays: types.JSONText(`[0,1]`)}

	cfg := dto.GenerationConfig{}
	cfg.AvoidLastPeriodForLab = true

	resp, err := newTunedGeneratorFixture(curriculum, slots, row, twoPeriodAxis()).
		GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	require.Len(t, resp.Preview, 1)
	assert.NotEqual(t, "P2", resp.Preview[0].PeriodID, "lab must dodge the last period when an alternative exists")
	assert.Equal(t, 1, resp.Preview[0].DayOfWeek)
}

func TestGeneratePreviewBalancesSubjectAcrossDays(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.requirements = []models.CurriculumRequirement{
		{ClassID: "A", SubjectID: "MATH", PeriodsPerWeek: 2},
	}
	row := &models.ScheduleConfig{WorkingDays: types.JSONText(`[0,1]`)}

	cfg := dto.GenerationConfig{}
	cfg.BalanceSubjectDistribution = true

	resp, err := newTunedGeneratorFixture(curriculum, newMockTemplateSlotRepo(), row, twoPeriodAxis()).
		GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	require.Len(t, resp.Preview, 2)
	assert.NotEqual(t, resp.Preview[0].DayOfWeek, resp.Preview[1].DayOfWeek)

	// Without balancing the greedy order stacks both onto the first day.
	resp, err = newTunedGeneratorFixture(curriculum, newMockTemplateSlotRepo(), row, twoPeriodAxis()).
		GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: dto.GenerationConfig{}})

	require.NoError(t, err)
	require.Len(t, resp.Preview, 2)
	assert.Equal(t, resp.Preview[0].DayOfWeek, resp.Preview[1].DayOfWeek)
}

func TestGeneratePreviewGroupsSameSubjectTwoDaysApart(t *testing.T) {
	curriculum := basicCurriculum()
	curriculum.requirements = []models.CurriculumRequirement{
		{ClassID: "A", SubjectID: "MATH", PeriodsPerWeek: 2},
	}
	row := &models.ScheduleConfig{WorkingDays: types.JSONText(`[0,2]`)}

	cfg := dto.GenerationConfig{}
	cfg.GroupSameSubjectDays = true

	resp, err := newTunedGeneratorFixture(curriculum, newMockTemplateSlotRepo(), row, twoPeriodAxis()).
		GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: cfg})

	require.NoError(t, err)
	require.Len(t, resp.Preview, 2)
	days := []int{resp.Preview[0].DayOfWeek, resp.Preview[1].DayOfWeek}
	assert.ElementsMatch(t, []int{0, 2}, days)

	// Without grouping the two-days-apart cell scores below a same-day one.
	resp, err = newTunedGeneratorFixture(curriculum, newMockTemplateSlotRepo(), row, twoPeriodAxis()).
		GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: dto.GenerationConfig{}})

	require.NoError(t, err)
	require.Len(t, resp.Preview, 2)
	assert.Equal(t, resp.Preview[0].DayOfWeek, resp.Preview[1].DayOfWeek)
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func TestGeneratePreviewCancellable(t *testing.T) {
	svc := newGeneratorFixture(basicCurriculum(), newMockTemplateSlotRepo())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GeneratePreview(ctx, "school-1", dto.GenerateRequest{TermID: "term-1", Config: dto.GenerationConfig{}})

	require.Error(t, err)
}

func TestCommitPreviewMerge(t *testing.T) {
	slots := newMockTemplateSlotRepo()
	svc := newGeneratorFixture(basicCurriculum(), slots)

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: dto.GenerationConfig{}})
	require.NoError(t, err)

	result, err := svc.CommitPreview(context.Background(), "school-1", "user-1", dto.CommitPreviewRequest{
		TermID:    "term-1",
		PreviewID: resp.PreviewID,
		Mode:      dto.CommitModeMerge,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 0, result.Conflicts)
	assert.Len(t, slots.byTerm["term-1"], 3)
}

func TestCommitPreviewReplaceClearsTerm(t *testing.T) {
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = []models.Slot{
		{ID: "old", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 4, PeriodID: "P2", ClassID: "Z", TeacherID: "T9", RoomID: "R9"},
	}
	svc := newGeneratorFixture(basicCurriculum(), slots)

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: dto.GenerationConfig{}})
	require.NoError(t, err)

	result, err := svc.CommitPreview(context.Background(), "school-1", "user-1", dto.CommitPreviewRequest{
		TermID:    "term-1",
		PreviewID: resp.PreviewID,
		Mode:      dto.CommitModeReplace,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	for _, slot := range slots.byTerm["term-1"] {
		assert.NotEqual(t, "Z", slot.ClassID)
	}
}

func TestCommitPreviewExpired(t *testing.T) {
	svc := newGeneratorFixture(basicCurriculum(), newMockTemplateSlotRepo())

	_, err := svc.CommitPreview(context.Background(), "school-1", "user-1", dto.CommitPreviewRequest{
		TermID:    "term-1",
		PreviewID: "nope",
		Mode:      dto.CommitModeMerge,
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreviewExpired.Code, appErrors.FromError(err).Code)
}

func TestCommitPreviewSingleUse(t *testing.T) {
	svc := newGeneratorFixture(basicCurriculum(), newMockTemplateSlotRepo())

	resp, err := svc.GeneratePreview(context.Background(), "school-1", dto.GenerateRequest{TermID: "term-1", Config: dto.GenerationConfig{}})
	require.NoError(t, err)

	req := dto.CommitPreviewRequest{TermID: "term-1", PreviewID: resp.PreviewID, Mode: dto.CommitModeMerge}
	_, err = svc.CommitPreview(context.Background(), "school-1", "user-1", req)
	require.NoError(t, err)

	_, err = svc.CommitPreview(context.Background(), "school-1", "user-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreviewExpired.Code, appErrors.FromError(err).Code)
}
