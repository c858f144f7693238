package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TemplateSlot is one anonymized entry of a captured pattern.
type TemplateSlot struct {
	DayOfWeek   int         `json:"day_of_week"`
	PeriodID    string      `json:"period_id"`
	ClassID     string      `json:"class_id"`
	SubjectID   string      `json:"subject_id"`
	TeacherID   string      `json:"teacher_id"`
	RoomID      string      `json:"room_id"`
	WeekVariant WeekVariant `json:"week_variant"`
}

// Template is an immutable, versioned snapshot of a source term's slot set.
// Versions increase monotonically per name within a school; at most one
// template per school is marked default.
type Template struct {
	ID               string         `db:"id" json:"id"`
	SchoolID         string         `db:"school_id" json:"school_id"`
	Name             string         `db:"name" json:"name"`
	Description      string         `db:"description" json:"description"`
	Version          int            `db:"version" json:"version"`
	SourceTermID     string         `db:"source_term_id" json:"source_term_id"`
	IsDefault        bool           `db:"is_default" json:"is_default"`
	Pattern          types.JSONText `db:"pattern" json:"pattern"`
	TotalSlots       int            `db:"total_slots" json:"total_slots"`
	DistinctClasses  int            `db:"distinct_classes" json:"distinct_classes"`
	DistinctTeachers int            `db:"distinct_teachers" json:"distinct_teachers"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// TemplateApplication is the insert-only audit record of replaying a template
// onto a target term.
type TemplateApplication struct {
	ID             string         `db:"id" json:"id"`
	SchoolID       string         `db:"school_id" json:"school_id"`
	TemplateID     string         `db:"template_id" json:"template_id"`
	TargetTermID   string         `db:"target_term_id" json:"target_term_id"`
	TeacherMapping types.JSONText `db:"teacher_mapping" json:"teacher_mapping"`
	RoomMapping    types.JSONText `db:"room_mapping" json:"room_mapping"`
	SlotsCreated   int            `db:"slots_created" json:"slots_created"`
	ConflictsFound int            `db:"conflicts_found" json:"conflicts_found"`
	AppliedBy      *string        `db:"applied_by" json:"applied_by,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
