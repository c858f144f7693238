package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Subject is a taught subject. Core subjects prefer morning periods; lab
// subjects avoid the final period of the day.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	IsCore    bool      `db:"is_core" json:"is_core"`
	IsLab     bool      `db:"is_lab" json:"is_lab"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Class is a student group with a head count.
type Class struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	Size      int       `db:"size" json:"size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Teacher carries the subject expertise list consulted by the generator.
type Teacher struct {
	ID        string         `db:"id" json:"id"`
	SchoolID  string         `db:"school_id" json:"school_id"`
	FullName  string         `db:"full_name" json:"full_name"`
	Subjects  types.JSONText `db:"subjects" json:"subjects"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Room is a bookable space with a capacity.
type Room struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CurriculumRequirement is one (class, subject, periods-per-week) obligation
// supplied by the curriculum collaborator.
type CurriculumRequirement struct {
	ID             string `db:"id" json:"id"`
	SchoolID       string `db:"school_id" json:"school_id"`
	TermID         string `db:"term_id" json:"term_id"`
	ClassID        string `db:"class_id" json:"class_id"`
	SubjectID      string `db:"subject_id" json:"subject_id"`
	PeriodsPerWeek int    `db:"periods_per_week" json:"periods_per_week"`
}
