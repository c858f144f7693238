package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TemplateRepository stores immutable, versioned timetable templates and
// their application audit records.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository builds the repository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const templateColumns = `id, school_id, name, description, version, source_term_id, is_default, pattern, total_slots, distinct_classes, distinct_teachers, created_at`

// CreateVersioned inserts a template assigning the next version for the
// (school, name) tuple.
func (r *TemplateRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, template *models.Template) error {
	if template == nil {
		return fmt.Errorf("template payload is nil")
	}
	if template.Name == "" || template.SourceTermID == "" {
		return fmt.Errorf("name and source_term_id are required")
	}
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	if len(template.Pattern) == 0 {
		template.Pattern = types.JSONText(`[]`)
	}
	if template.CreatedAt.IsZero() {
		template.CreatedAt = time.Now().UTC()
	}

	target := r.exec(exec)

	const nextVersionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM timetable_templates WHERE school_id = $1 AND name = $2`
	if err := sqlx.GetContext(ctx, target, &template.Version, nextVersionQuery, template.SchoolID, template.Name); err != nil {
		return fmt.Errorf("compute next template version: %w", err)
	}

	const insertQuery = `
INSERT INTO timetable_templates (` + templateColumns + `)
VALUES (:id, :school_id, :name, :description, :version, :source_term_id, :is_default, :pattern, :total_slots, :distinct_classes, :distinct_teachers, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, template); err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// FindByID loads a template by its identifier within a school.
func (r *TemplateRepository) FindByID(ctx context.Context, schoolID, id string) (*models.Template, error) {
	const query = `SELECT ` + templateColumns + ` FROM timetable_templates WHERE school_id = $1 AND id = $2`
	var template models.Template
	if err := r.db.GetContext(ctx, &template, query, schoolID, id); err != nil {
		return nil, err
	}
	return &template, nil
}

// List returns templates for a school, newest version of each name first.
func (r *TemplateRepository) List(ctx context.Context, schoolID string) ([]models.Template, error) {
	const query = `SELECT ` + templateColumns + ` FROM timetable_templates WHERE school_id = $1 ORDER BY name ASC, version DESC`
	var templates []models.Template
	if err := r.db.SelectContext(ctx, &templates, query, schoolID); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// SetDefault marks one template default, clearing the flag from every other
// template of the school in the same transaction.
func (r *TemplateRepository) SetDefault(ctx context.Context, schoolID, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set default template: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE timetable_templates SET is_default = FALSE WHERE school_id = $1 AND is_default`, schoolID); err != nil {
		err = fmt.Errorf("clear default templates: %w", err)
		return err
	}

	var result sql.Result
	if result, err = tx.ExecContext(ctx, `UPDATE timetable_templates SET is_default = TRUE WHERE school_id = $1 AND id = $2`, schoolID, id); err != nil {
		err = fmt.Errorf("set default template: %w", err)
		return err
	}
	var affected int64
	if affected, err = result.RowsAffected(); err != nil {
		err = fmt.Errorf("default template rows affected: %w", err)
		return err
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set default template: %w", err)
	}
	return nil
}

// RecordApplication appends an insert-only audit row for a template replay.
func (r *TemplateRepository) RecordApplication(ctx context.Context, exec sqlx.ExtContext, app *models.TemplateApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if len(app.TeacherMapping) == 0 {
		app.TeacherMapping = types.JSONText(`{}`)
	}
	if len(app.RoomMapping) == 0 {
		app.RoomMapping = types.JSONText(`{}`)
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO template_applications (id, school_id, template_id, target_term_id, teacher_mapping, room_mapping, slots_created, conflicts_found, applied_by, created_at)
VALUES (:id, :school_id, :template_id, :target_term_id, :teacher_mapping, :room_mapping, :slots_created, :conflicts_found, :applied_by, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, app); err != nil {
		return fmt.Errorf("record template application: %w", err)
	}
	return nil
}
