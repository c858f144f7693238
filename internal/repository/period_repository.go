package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// PeriodRepository reads the period axis of the week grid.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository builds the repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

const periodColumns = `id, school_id, academic_year, label, start_time, end_time, created_at`

// ListByYear returns the periods of an academic year ordered by start time.
func (r *PeriodRepository) ListByYear(ctx context.Context, schoolID, academicYear string) ([]models.Period, error) {
	const query = `SELECT ` + periodColumns + ` FROM periods WHERE school_id = $1 AND academic_year = $2 ORDER BY start_time ASC, label ASC`
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query, schoolID, academicYear); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}

// FindByID loads a period by id within a school.
func (r *PeriodRepository) FindByID(ctx context.Context, schoolID, id string) (*models.Period, error) {
	const query = `SELECT ` + periodColumns + ` FROM periods WHERE school_id = $1 AND id = $2`
	var period models.Period
	if err := r.db.GetContext(ctx, &period, query, schoolID, id); err != nil {
		return nil, err
	}
	return &period, nil
}
