package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// SlotRepository provides persistence for weekly timetable slots. The
// identity key (school, term, day, period, class, week-variant) is the only
// uniqueness enforced at storage level; teacher/room double-booking is an
// application-level invariant.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new slot repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const slotColumns = `id, school_id, term_id, day_of_week, period_id, class_id, subject_id, teacher_id, room_id, week_variant, created_at, updated_at`

// Upsert inserts a slot or, when the identity key already exists, updates the
// subject/teacher/room of the existing row.
func (r *SlotRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, slot *models.Slot) error {
	prepareSlot(slot)

	const query = `
INSERT INTO timetable_slots (` + slotColumns + `)
VALUES (:id, :school_id, :term_id, :day_of_week, :period_id, :class_id, :subject_id, :teacher_id, :room_id, :week_variant, :created_at, :updated_at)
ON CONFLICT (school_id, term_id, day_of_week, period_id, class_id, week_variant) DO UPDATE
SET subject_id = EXCLUDED.subject_id,
    teacher_id = EXCLUDED.teacher_id,
    room_id = EXCLUDED.room_id,
    updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, slot); err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

// InsertIgnore inserts a slot unless its identity key is already taken.
// Returns true when a row was created; bulk callers count the false results
// as conflicts.
func (r *SlotRepository) InsertIgnore(ctx context.Context, exec sqlx.ExtContext, slot *models.Slot) (bool, error) {
	prepareSlot(slot)

	const query = `
INSERT INTO timetable_slots (` + slotColumns + `)
VALUES (:id, :school_id, :term_id, :day_of_week, :period_id, :class_id, :subject_id, :teacher_id, :room_id, :week_variant, :created_at, :updated_at)
ON CONFLICT (school_id, term_id, day_of_week, period_id, class_id, week_variant) DO NOTHING`
	result, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, slot)
	if err != nil {
		return false, fmt.Errorf("insert slot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("slot rows affected: %w", err)
	}
	return affected == 1, nil
}

// ListByTerm returns every slot of a term ordered by day/period.
func (r *SlotRepository) ListByTerm(ctx context.Context, schoolID, termID string) ([]models.Slot, error) {
	const query = `SELECT ` + slotColumns + ` FROM timetable_slots WHERE school_id = $1 AND term_id = $2 ORDER BY day_of_week ASC, period_id ASC, class_id ASC`
	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, query, schoolID, termID); err != nil {
		return nil, fmt.Errorf("list slots by term: %w", err)
	}
	return slots, nil
}

// ListByTermTeacher returns a teacher's slots within a term.
func (r *SlotRepository) ListByTermTeacher(ctx context.Context, schoolID, termID, teacherID string) ([]models.Slot, error) {
	const query = `SELECT ` + slotColumns + ` FROM timetable_slots WHERE school_id = $1 AND term_id = $2 AND teacher_id = $3 ORDER BY day_of_week ASC, period_id ASC`
	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, query, schoolID, termID, teacherID); err != nil {
		return nil, fmt.Errorf("list slots by teacher: %w", err)
	}
	return slots, nil
}

// ListByTermClass returns a class's slots within a term.
func (r *SlotRepository) ListByTermClass(ctx context.Context, schoolID, termID, classID string) ([]models.Slot, error) {
	const query = `SELECT ` + slotColumns + ` FROM timetable_slots WHERE school_id = $1 AND term_id = $2 AND class_id = $3 ORDER BY day_of_week ASC, period_id ASC`
	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, query, schoolID, termID, classID); err != nil {
		return nil, fmt.Errorf("list slots by class: %w", err)
	}
	return slots, nil
}

// FindAtCell returns every slot occupying one (day, period, week-variant)
// cell of a term.
func (r *SlotRepository) FindAtCell(ctx context.Context, schoolID, termID string, day int, periodID string, variant models.WeekVariant) ([]models.Slot, error) {
	const query = `SELECT ` + slotColumns + ` FROM timetable_slots WHERE school_id = $1 AND term_id = $2 AND day_of_week = $3 AND period_id = $4 AND week_variant = $5`
	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, query, schoolID, termID, day, periodID, models.NormalizeWeekVariant(variant)); err != nil {
		return nil, fmt.Errorf("find slots at cell: %w", err)
	}
	return slots, nil
}

// DeleteByIdentity removes the slot matching the identity key.
func (r *SlotRepository) DeleteByIdentity(ctx context.Context, key models.SlotIdentity) error {
	const query = `DELETE FROM timetable_slots WHERE school_id = $1 AND term_id = $2 AND day_of_week = $3 AND period_id = $4 AND class_id = $5 AND week_variant = $6`
	result, err := r.db.ExecContext(ctx, query, key.SchoolID, key.TermID, key.DayOfWeek, key.PeriodID, key.ClassID, models.NormalizeWeekVariant(key.WeekVariant))
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("slot rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByTerm removes every slot of a term, returning the number removed.
func (r *SlotRepository) DeleteByTerm(ctx context.Context, exec sqlx.ExtContext, schoolID, termID string) (int64, error) {
	result, err := r.exec(exec).ExecContext(ctx, `DELETE FROM timetable_slots WHERE school_id = $1 AND term_id = $2`, schoolID, termID)
	if err != nil {
		return 0, fmt.Errorf("delete slots by term: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("slot rows affected: %w", err)
	}
	return affected, nil
}

// ListLegacyByTerm returns pre-migration placements stored as period ranges.
// These rows are read-only; the conflict detector expands them into synthetic
// cells.
func (r *SlotRepository) ListLegacyByTerm(ctx context.Context, schoolID, termID string) ([]models.LegacyRangeSlot, error) {
	const query = `SELECT id, school_id, term_id, day_of_week, start_period_id, end_period_id, class_id, subject_id, teacher_id, room_id, week_variant
FROM legacy_schedule_blocks WHERE school_id = $1 AND term_id = $2`
	var blocks []models.LegacyRangeSlot
	if err := r.db.SelectContext(ctx, &blocks, query, schoolID, termID); err != nil {
		return nil, fmt.Errorf("list legacy blocks: %w", err)
	}
	return blocks, nil
}

func prepareSlot(slot *models.Slot) {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	slot.WeekVariant = models.NormalizeWeekVariant(slot.WeekVariant)
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now
}
