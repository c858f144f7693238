package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// DayPreference grades a teacher's attitude towards a weekday.
type DayPreference string

const (
	DayPreferenceUnavailable DayPreference = "UNAVAILABLE"
	DayPreferenceAvoid       DayPreference = "AVOID"
	DayPreferenceNeutral     DayPreference = "NEUTRAL"
)

// UnavailableBlock marks a (day, period) cell a teacher cannot take, either
// recurring weekly or bound to one specific date.
type UnavailableBlock struct {
	DayOfWeek int        `json:"day_of_week"`
	PeriodID  string     `json:"period_id"`
	Recurring bool       `json:"recurring"`
	Date      *time.Time `json:"date,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// TeacherConstraint stores workload ceilings and availability rules for a
// teacher, optionally scoped to a term (nil term = school-wide default).
// One row per (teacher, term).
type TeacherConstraint struct {
	ID                    string         `db:"id" json:"id"`
	SchoolID              string         `db:"school_id" json:"school_id"`
	TeacherID             string         `db:"teacher_id" json:"teacher_id"`
	TermID                *string        `db:"term_id" json:"term_id,omitempty"`
	MaxPeriodsPerDay      int            `db:"max_periods_per_day" json:"max_periods_per_day"`
	MaxPeriodsPerWeek     int            `db:"max_periods_per_week" json:"max_periods_per_week"`
	MaxConsecutivePeriods int            `db:"max_consecutive_periods" json:"max_consecutive_periods"`
	MinFreePeriods        int            `db:"min_free_periods" json:"min_free_periods"`
	DayPreferences        types.JSONText `db:"day_preferences" json:"day_preferences"`
	Unavailable           types.JSONText `db:"unavailable" json:"unavailable"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at" json:"updated_at"`
}

// ReservedPeriod marks a weekly (day, period) cell a room is booked out of.
type ReservedPeriod struct {
	DayOfWeek int    `json:"day_of_week"`
	PeriodID  string `json:"period_id"`
	Reason    string `json:"reason,omitempty"`
}

// MaintenanceBlock takes a room out of rotation for a (day, period),
// optionally bounded by a date range.
type MaintenanceBlock struct {
	DayOfWeek int        `json:"day_of_week"`
	PeriodID  string     `json:"period_id"`
	Reason    string     `json:"reason"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
}

// RoomConstraint stores capacity and reservation rules for a room, optionally
// scoped to a term. One row per (room, term).
type RoomConstraint struct {
	ID              string         `db:"id" json:"id"`
	SchoolID        string         `db:"school_id" json:"school_id"`
	RoomID          string         `db:"room_id" json:"room_id"`
	TermID          *string        `db:"term_id" json:"term_id,omitempty"`
	Capacity        int            `db:"capacity" json:"capacity"`
	ReservedPeriods types.JSONText `db:"reserved_periods" json:"reserved_periods"`
	Maintenance     types.JSONText `db:"maintenance" json:"maintenance"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}
