package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ScheduleConfigRepository persists working-day/lunch configuration rows.
// At most one row exists per (school, term); a NULL term is the school-wide
// default.
type ScheduleConfigRepository struct {
	db *sqlx.DB
}

// NewScheduleConfigRepository builds the repository.
func NewScheduleConfigRepository(db *sqlx.DB) *ScheduleConfigRepository {
	return &ScheduleConfigRepository{db: db}
}

const configColumns = `id, school_id, term_id, working_days, lunch_after_period, created_at, updated_at`

// FindByTerm loads the config row scoped to one term. Returns sql.ErrNoRows
// when no term-scoped row exists.
func (r *ScheduleConfigRepository) FindByTerm(ctx context.Context, schoolID, termID string) (*models.ScheduleConfig, error) {
	const query = `SELECT ` + configColumns + ` FROM schedule_configs WHERE school_id = $1 AND term_id = $2`
	var cfg models.ScheduleConfig
	if err := r.db.GetContext(ctx, &cfg, query, schoolID, termID); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindDefault loads the school-wide default row (NULL term).
func (r *ScheduleConfigRepository) FindDefault(ctx context.Context, schoolID string) (*models.ScheduleConfig, error) {
	const query = `SELECT ` + configColumns + ` FROM schedule_configs WHERE school_id = $1 AND term_id IS NULL`
	var cfg models.ScheduleConfig
	if err := r.db.GetContext(ctx, &cfg, query, schoolID); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert stores a config row keyed by (school, term). The school-wide
// default row (NULL term) cannot go through an ON CONFLICT arbiter, since
// NULLs never match a unique index; it takes an UPDATE-then-INSERT path to
// keep at most one default row per school.
func (r *ScheduleConfigRepository) Upsert(ctx context.Context, cfg *models.ScheduleConfig) error {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now

	if cfg.TermID == nil {
		const update = `
UPDATE schedule_configs
SET working_days = :working_days,
    lunch_after_period = :lunch_after_period,
    updated_at = :updated_at
WHERE school_id = :school_id AND term_id IS NULL`
		result, err := r.db.NamedExecContext(ctx, update, cfg)
		if err != nil {
			return fmt.Errorf("update default schedule config: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("schedule config rows affected: %w", err)
		}
		if affected > 0 {
			return nil
		}
	}

	const query = `
INSERT INTO schedule_configs (` + configColumns + `)
VALUES (:id, :school_id, :term_id, :working_days, :lunch_after_period, :created_at, :updated_at)
ON CONFLICT (school_id, term_id) DO UPDATE
SET working_days = EXCLUDED.working_days,
    lunch_after_period = EXCLUDED.lunch_after_period,
    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert schedule config: %w", err)
	}
	return nil
}
