package models

import (
	"sort"
	"time"
)

// Period is an ordered time-of-day interval scoped to an academic year.
// Sorted by start time, periods form the vertical axis of the week grid.
type Period struct {
	ID           string    `db:"id" json:"id"`
	SchoolID     string    `db:"school_id" json:"school_id"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	Label        string    `db:"label" json:"label"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SortPeriods orders periods by start time ("HH:MM" strings compare correctly).
func SortPeriods(periods []Period) {
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].StartTime == periods[j].StartTime {
			return periods[i].Label < periods[j].Label
		}
		return periods[i].StartTime < periods[j].StartTime
	})
}

// PeriodIndex returns the 1-based ordinal of a period within the sorted axis,
// or 0 when the period is unknown.
func PeriodIndex(periods []Period, periodID string) int {
	for i := range periods {
		if periods[i].ID == periodID {
			return i + 1
		}
	}
	return 0
}
