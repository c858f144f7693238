package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ConstraintRepository stores teacher and room constraints keyed by
// (entity, term), where a NULL term is the school-wide default.
type ConstraintRepository struct {
	db *sqlx.DB
}

// NewConstraintRepository builds the repository.
func NewConstraintRepository(db *sqlx.DB) *ConstraintRepository {
	return &ConstraintRepository{db: db}
}

const teacherConstraintColumns = `id, school_id, teacher_id, term_id, max_periods_per_day, max_periods_per_week, max_consecutive_periods, min_free_periods, day_preferences, unavailable, created_at, updated_at`

// GetTeacherConstraint resolves the most specific constraint row for a
// teacher: term-scoped first, then the school-wide default. Returns
// sql.ErrNoRows when neither exists.
func (r *ConstraintRepository) GetTeacherConstraint(ctx context.Context, schoolID, teacherID, termID string) (*models.TeacherConstraint, error) {
	const query = `SELECT ` + teacherConstraintColumns + `
FROM teacher_constraints
WHERE school_id = $1 AND teacher_id = $2 AND (term_id = $3 OR term_id IS NULL)
ORDER BY term_id NULLS LAST
LIMIT 1`
	var constraint models.TeacherConstraint
	if err := r.db.GetContext(ctx, &constraint, query, schoolID, teacherID, termID); err != nil {
		return nil, err
	}
	return &constraint, nil
}

// UpsertTeacherConstraint stores a constraint row keyed by (teacher, term).
// Default rows (NULL term) bypass the ON CONFLICT arbiter, which never
// matches on NULL, via UPDATE-then-INSERT.
func (r *ConstraintRepository) UpsertTeacherConstraint(ctx context.Context, constraint *models.TeacherConstraint) error {
	if constraint.ID == "" {
		constraint.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if constraint.CreatedAt.IsZero() {
		constraint.CreatedAt = now
	}
	constraint.UpdatedAt = now

	if constraint.TermID == nil {
		const update = `
UPDATE teacher_constraints
SET max_periods_per_day = :max_periods_per_day,
    max_periods_per_week = :max_periods_per_week,
    max_consecutive_periods = :max_consecutive_periods,
    min_free_periods = :min_free_periods,
    day_preferences = :day_preferences,
    unavailable = :unavailable,
    updated_at = :updated_at
WHERE school_id = :school_id AND teacher_id = :teacher_id AND term_id IS NULL`
		result, err := r.db.NamedExecContext(ctx, update, constraint)
		if err != nil {
			return fmt.Errorf("update default teacher constraint: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("teacher constraint rows affected: %w", err)
		}
		if affected > 0 {
			return nil
		}
	}

	const query = `
INSERT INTO teacher_constraints (` + teacherConstraintColumns + `)
VALUES (:id, :school_id, :teacher_id, :term_id, :max_periods_per_day, :max_periods_per_week, :max_consecutive_periods, :min_free_periods, :day_preferences, :unavailable, :created_at, :updated_at)
ON CONFLICT (school_id, teacher_id, term_id) DO UPDATE
SET max_periods_per_day = EXCLUDED.max_periods_per_day,
    max_periods_per_week = EXCLUDED.max_periods_per_week,
    max_consecutive_periods = EXCLUDED.max_consecutive_periods,
    min_free_periods = EXCLUDED.min_free_periods,
    day_preferences = EXCLUDED.day_preferences,
    unavailable = EXCLUDED.unavailable,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, constraint); err != nil {
		return fmt.Errorf("upsert teacher constraint: %w", err)
	}
	return nil
}

const roomConstraintColumns = `id, school_id, room_id, term_id, capacity, reserved_periods, maintenance, created_at, updated_at`

// GetRoomConstraint resolves the most specific constraint row for a room.
func (r *ConstraintRepository) GetRoomConstraint(ctx context.Context, schoolID, roomID, termID string) (*models.RoomConstraint, error) {
	const query = `SELECT ` + roomConstraintColumns + `
FROM room_constraints
WHERE school_id = $1 AND room_id = $2 AND (term_id = $3 OR term_id IS NULL)
ORDER BY term_id NULLS LAST
LIMIT 1`
	var constraint models.RoomConstraint
	if err := r.db.GetContext(ctx, &constraint, query, schoolID, roomID, termID); err != nil {
		return nil, err
	}
	return &constraint, nil
}

// UpsertRoomConstraint stores a constraint row keyed by (room, term), with
// the same NULL-term UPDATE-then-INSERT path as the teacher variant.
func (r *ConstraintRepository) UpsertRoomConstraint(ctx context.Context, constraint *models.RoomConstraint) error {
	if constraint.ID == "" {
		constraint.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if constraint.CreatedAt.IsZero() {
		constraint.CreatedAt = now
	}
	constraint.UpdatedAt = now

	if constraint.TermID == nil {
		const update = `
UPDATE room_constraints
SET capacity = :capacity,
    reserved_periods = :reserved_periods,
    maintenance = :maintenance,
    updated_at = :updated_at
WHERE school_id = :school_id AND room_id = :room_id AND term_id IS NULL`
		result, err := r.db.NamedExecContext(ctx, update, constraint)
		if err != nil {
			return fmt.Errorf("update default room constraint: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("room constraint rows affected: %w", err)
		}
		if affected > 0 {
			return nil
		}
	}

	const query = `
INSERT INTO room_constraints (` + roomConstraintColumns + `)
VALUES (:id, :school_id, :room_id, :term_id, :capacity, :reserved_periods, :maintenance, :created_at, :updated_at)
ON CONFLICT (school_id, room_id, term_id) DO UPDATE
SET capacity = EXCLUDED.capacity,
    reserved_periods = EXCLUDED.reserved_periods,
    maintenance = EXCLUDED.maintenance,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, constraint); err != nil {
		return fmt.Errorf("upsert room constraint: %w", err)
	}
	return nil
}
