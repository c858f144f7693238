package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// CurriculumRepository reads the roster data feeding the generator: classes,
// teachers, rooms, subjects and the per-term curriculum requirements.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository builds the repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// ListRequirements returns the (class, subject, periods-per-week) obligations
// of a term ordered by class then subject, which fixes the generator's
// deterministic placement order.
func (r *CurriculumRepository) ListRequirements(ctx context.Context, schoolID, termID string) ([]models.CurriculumRequirement, error) {
	const query = `SELECT id, school_id, term_id, class_id, subject_id, periods_per_week
FROM curriculum_requirements WHERE school_id = $1 AND term_id = $2 ORDER BY class_id ASC, subject_id ASC`
	var requirements []models.CurriculumRequirement
	if err := r.db.SelectContext(ctx, &requirements, query, schoolID, termID); err != nil {
		return nil, fmt.Errorf("list curriculum requirements: %w", err)
	}
	return requirements, nil
}

// ListClasses returns every class of a school ordered by name.
func (r *CurriculumRepository) ListClasses(ctx context.Context, schoolID string) ([]models.Class, error) {
	const query = `SELECT id, school_id, name, size, created_at FROM classes WHERE school_id = $1 ORDER BY name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, schoolID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// ListTeachers returns every teacher of a school ordered by id.
func (r *CurriculumRepository) ListTeachers(ctx context.Context, schoolID string) ([]models.Teacher, error) {
	const query = `SELECT id, school_id, full_name, subjects, created_at FROM teachers WHERE school_id = $1 ORDER BY id ASC`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, schoolID); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListRooms returns every room of a school ordered by id.
func (r *CurriculumRepository) ListRooms(ctx context.Context, schoolID string) ([]models.Room, error) {
	const query = `SELECT id, school_id, name, capacity, created_at FROM rooms WHERE school_id = $1 ORDER BY id ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, schoolID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListSubjects returns every subject of a school ordered by id.
func (r *CurriculumRepository) ListSubjects(ctx context.Context, schoolID string) ([]models.Subject, error) {
	const query = `SELECT id, school_id, name, is_core, is_lab, created_at FROM subjects WHERE school_id = $1 ORDER BY id ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, schoolID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}
