package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// mockTemplateRepo versions templates in memory the way the real table does.
type mockTemplateRepo struct {
	templates    map[string]*models.Template
	applications []*models.TemplateApplication
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{templates: make(map[string]*models.Template)}
}

func (m *mockTemplateRepo) CreateVersioned(_ context.Context, _ sqlx.ExtContext, template *models.Template) error {
	version := 0
	for _, existing := range m.templates {
		if existing.Name == template.Name && existing.SchoolID == template.SchoolID && existing.Version > version {
			version = existing.Version
		}
	}
	template.Version = version + 1
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	copied := *template
	m.templates[template.ID] = &copied
	return nil
}

func (m *mockTemplateRepo) FindByID(_ context.Context, _, id string) (*models.Template, error) {
	template, ok := m.templates[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return template, nil
}

func (m *mockTemplateRepo) List(_ context.Context, _ string) ([]models.Template, error) {
	out := make([]models.Template, 0, len(m.templates))
	for _, template := range m.templates {
		out = append(out, *template)
	}
	return out, nil
}

func (m *mockTemplateRepo) SetDefault(_ context.Context, _, id string) error {
	if _, ok := m.templates[id]; !ok {
		return sql.ErrNoRows
	}
	for _, template := range m.templates {
		template.IsDefault = template.ID == id
	}
	return nil
}

func (m *mockTemplateRepo) RecordApplication(_ context.Context, _ sqlx.ExtContext, app *models.TemplateApplication) error {
	m.applications = append(m.applications, app)
	return nil
}

// mockTemplateSlotRepo enforces the identity key in memory so best-effort
// collision counting can be exercised.
type mockTemplateSlotRepo struct {
	byTerm map[string][]models.Slot
}

func newMockTemplateSlotRepo() *mockTemplateSlotRepo {
	return &mockTemplateSlotRepo{byTerm: make(map[string][]models.Slot)}
}

func (m *mockTemplateSlotRepo) ListByTerm(_ context.Context, _, termID string) ([]models.Slot, error) {
	return m.byTerm[termID], nil
}

func (m *mockTemplateSlotRepo) InsertIgnore(_ context.Context, _ sqlx.ExtContext, slot *models.Slot) (bool, error) {
	for _, existing := range m.byTerm[slot.TermID] {
		if existing.Identity() == slot.Identity() {
			return false, nil
		}
	}
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	m.byTerm[slot.TermID] = append(m.byTerm[slot.TermID], *slot)
	return true, nil
}

func (m *mockTemplateSlotRepo) DeleteByTerm(_ context.Context, _ sqlx.ExtContext, _, termID string) (int64, error) {
	count := int64(len(m.byTerm[termID]))
	delete(m.byTerm, termID)
	return count, nil
}

func sourceTermSlots() []models.Slot {
	return []models.Slot{
		{ID: "s1", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", SubjectID: "MATH", TeacherID: "T1", RoomID: "R1"},
		{ID: "s2", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 0, PeriodID: "P2", ClassID: "A", SubjectID: "BIO", TeacherID: "T2", RoomID: "R1"},
		{ID: "s3", SchoolID: "school-1", TermID: "term-1", DayOfWeek: 1, PeriodID: "P1", ClassID: "B", SubjectID: "MATH", TeacherID: "T1", RoomID: "R2"},
	}
}

func newTemplateFixture(slots *mockTemplateSlotRepo, templates *mockTemplateRepo) (*TemplateService, *mockAuditRepo) {
	audit := &mockAuditRepo{}
	terms := &mockTermRepo{term: &models.Term{ID: "term-1", AcademicYear: "2026/2027"}}
	svc := NewTemplateService(templates, slots, terms, nil, audit, nil, nil, nil, zap.NewNop())
	return svc, audit
}

func TestCreateFromTermCapturesPattern(t *testing.T) {
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = sourceTermSlots()
	svc, audit := newTemplateFixture(slots, newMockTemplateRepo())

	template, err := svc.CreateFromTerm(context.Background(), "school-1", dto.CreateTemplateRequest{
		SourceTermID: "term-1",
		Name:         "semester layout",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, template.Version)
	assert.Equal(t, 3, template.TotalSlots)
	assert.Equal(t, 2, template.DistinctClasses)
	assert.Equal(t, 2, template.DistinctTeachers)

	var pattern []models.TemplateSlot
	require.NoError(t, json.Unmarshal(template.Pattern, &pattern))
	require.Len(t, pattern, 3)
	assert.Equal(t, "A", pattern[0].ClassID)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionTemplateCreate, audit.entries[0].Action)
}

func TestCreateFromTermIncrementsVersion(t *testing.T) {
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = sourceTermSlots()
	svc, _ := newTemplateFixture(slots, newMockTemplateRepo())

	first, err := svc.CreateFromTerm(context.Background(), "school-1", dto.CreateTemplateRequest{SourceTermID: "term-1", Name: "layout"})
	require.NoError(t, err)
	second, err := svc.CreateFromTerm(context.Background(), "school-1", dto.CreateTemplateRequest{SourceTermID: "term-1", Name: "layout"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
}

func TestApplyTemplateRoundTrip(t *testing.T) {
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = sourceTermSlots()
	templates := newMockTemplateRepo()
	svc, audit := newTemplateFixture(slots, templates)

	template, err := svc.CreateFromTerm(context.Background(), "school-1", dto.CreateTemplateRequest{SourceTermID: "term-1", Name: "layout"})
	require.NoError(t, err)

	result, err := svc.Apply(context.Background(), "school-1", template.ID, "user-1", dto.ApplyTemplateRequest{
		TargetTermID:  "term-2",
		ClearExisting: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, result.SlotsCreated)
	assert.Equal(t, 0, result.ConflictsFound)
	assert.Len(t, slots.byTerm["term-2"], 3)

	require.Len(t, templates.applications, 1)
	assert.Equal(t, 3, templates.applications[0].SlotsCreated)
	require.Len(t, audit.entries, 2)
	assert.Equal(t, models.AuditActionTemplateApply, audit.entries[1].Action)
}

func TestApplyTemplateCountsCollisions(t *testing.T) {
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = sourceTermSlots()
	templates := newMockTemplateRepo()
	svc, _ := newTemplateFixture(slots, templates)

	template, err := svc.CreateFromTerm(context.Background(), "school-1", dto.CreateTemplateRequest{SourceTermID: "term-1", Name: "layout"})
	require.NoError(t, err)

	// Pre-seed the target term with one slot matching a pattern identity.
	slots.byTerm["term-2"] = []models.Slot{
		{ID: "x1", SchoolID: "school-1", TermID: "term-2", DayOfWeek: 0, PeriodID: "P1", ClassID: "A", SubjectID: "OTHER", TeacherID: "T9", RoomID: "R9", WeekVariant: models.WeekVariantCurrent},
	}

	result, err := svc.Apply(context.Background(), "school-1", template.ID, "user-1", dto.ApplyTemplateRequest{
		TargetTermID: "term-2",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.SlotsCreated)
	assert.Equal(t, 1, result.ConflictsFound)
}

func TestApplyTemplateResolvesMappings(t *testing.T) {
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = sourceTermSlots()
	svc, _ := newTemplateFixture(slots, newMockTemplateRepo())

	template, err := svc.CreateFromTerm(context.Background(), "school-1", dto.CreateTemplateRequest{SourceTermID: "term-1", Name: "layout"})
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), "school-1", template.ID, "user-1", dto.ApplyTemplateRequest{
		TargetTermID:   "term-2",
		TeacherMapping: map[string]string{"T1": "T7"},
	})
	require.NoError(t, err)

	mapped := 0
	fallback := 0
	for _, slot := range slots.byTerm["term-2"] {
		switch slot.TeacherID {
		case "T7":
			mapped++
		case "T2":
			fallback++
		}
	}
	assert.Equal(t, 2, mapped)
	assert.Equal(t, 1, fallback)
}

func TestApplyTemplateUnknownTemplate(t *testing.T) {
	svc, _ := newTemplateFixture(newMockTemplateSlotRepo(), newMockTemplateRepo())

	_, err := svc.Apply(context.Background(), "school-1", "missing", "user-1", dto.ApplyTemplateRequest{TargetTermID: "term-2"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSetDefaultClearsSiblings(t *testing.T) {
	slots := newMockTemplateSlotRepo()
	slots.byTerm["term-1"] = sourceTermSlots()
	templates := newMockTemplateRepo()
	svc, _ := newTemplateFixture(slots, templates)

	first, err := svc.CreateFromTerm(context.Background(), "school-1", dto.CreateTemplateRequest{SourceTermID: "term-1", Name: "a"})
	require.NoError(t, err)
	second, err := svc.CreateFromTerm(context.Background(), "school-1", dto.CreateTemplateRequest{SourceTermID: "term-1", Name: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(context.Background(), "school-1", first.ID))
	require.NoError(t, svc.SetDefault(context.Background(), "school-1", second.ID))

	assert.False(t, templates.templates[first.ID].IsDefault)
	assert.True(t, templates.templates[second.ID].IsDefault)
}
