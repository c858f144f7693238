package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TermRepository handles persistence for academic terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository instantiates a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

const termColumns = `id, school_id, name, academic_year, start_date, end_date, is_active, created_at, updated_at`

// List returns terms matching provided filters.
func (r *TermRepository) List(ctx context.Context, schoolID string, filter models.TermFilter) ([]models.Term, int, error) {
	base := "FROM terms WHERE school_id = $1"
	args := []interface{}{schoolID}
	var conditions []string

	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.IsActive)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":          true,
		"start_date":    true,
		"end_date":      true,
		"academic_year": true,
		"created_at":    true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "start_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", termColumns, base, sortBy, order, size, offset)
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list terms: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count terms: %w", err)
	}

	return terms, total, nil
}

// ListBySchool returns every term of a school, newest first.
func (r *TermRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.Term, error) {
	const query = `SELECT ` + termColumns + ` FROM terms WHERE school_id = $1 ORDER BY start_date DESC`
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query, schoolID); err != nil {
		return nil, fmt.Errorf("list terms by school: %w", err)
	}
	return terms, nil
}

// FindByID loads a term by id within a school.
func (r *TermRepository) FindByID(ctx context.Context, schoolID, id string) (*models.Term, error) {
	const query = `SELECT ` + termColumns + ` FROM terms WHERE school_id = $1 AND id = $2`
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, schoolID, id); err != nil {
		return nil, err
	}
	return &term, nil
}

// Create stores a new term record.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if term.CreatedAt.IsZero() {
		term.CreatedAt = now
	}
	term.UpdatedAt = now

	const query = `INSERT INTO terms (` + termColumns + `) VALUES (:id, :school_id, :name, :academic_year, :start_date, :end_date, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, term); err != nil {
		return fmt.Errorf("create term: %w", err)
	}
	return nil
}

// SetActive marks one term active, clearing every sibling flag for the
// school within the same transaction. Exactly one term per school may be
// active at a time.
func (r *TermRepository) SetActive(ctx context.Context, schoolID, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set active term: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE terms SET is_active = FALSE, updated_at = NOW() WHERE school_id = $1 AND is_active`, schoolID); err != nil {
		err = fmt.Errorf("clear active terms: %w", err)
		return err
	}

	var result sql.Result
	if result, err = tx.ExecContext(ctx, `UPDATE terms SET is_active = TRUE, updated_at = NOW() WHERE school_id = $1 AND id = $2`, schoolID, id); err != nil {
		err = fmt.Errorf("set active term: %w", err)
		return err
	}
	var affected int64
	if affected, err = result.RowsAffected(); err != nil {
		err = fmt.Errorf("active term rows affected: %w", err)
		return err
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set active term: %w", err)
	}
	return nil
}
