package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// DefaultWorkingDays is the hard fallback week: Sunday through Thursday.
var DefaultWorkingDays = []int{0, 1, 2, 3, 4}

// ScheduleConfig stores the working-day set and lunch position for a school,
// optionally scoped to a term. At most one row exists per (school, term).
type ScheduleConfig struct {
	ID               string         `db:"id" json:"id"`
	SchoolID         string         `db:"school_id" json:"school_id"`
	TermID           *string        `db:"term_id" json:"term_id,omitempty"`
	WorkingDays      types.JSONText `db:"working_days" json:"working_days"`
	LunchAfterPeriod *int           `db:"lunch_after_period" json:"lunch_after_period,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// ResolvedScheduleConfig is what the resolver hands to every other component.
type ResolvedScheduleConfig struct {
	WorkingDays      []int `json:"working_days"`
	LunchAfterPeriod *int  `json:"lunch_after_period,omitempty"`
}

// HasDay reports whether day (0=Sunday..6=Saturday) is a working day.
func (c ResolvedScheduleConfig) HasDay(day int) bool {
	for _, d := range c.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}
