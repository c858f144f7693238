package models

import "time"

// Term models an academic term within the institution calendar.
type Term struct {
	ID           string    `db:"id" json:"id"`
	SchoolID     string    `db:"school_id" json:"school_id"`
	Name         string    `db:"name" json:"name"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Contains reports whether the given date falls within the term range.
func (t Term) Contains(date time.Time) bool {
	return !date.Before(t.StartDate) && !date.After(t.EndDate)
}

// TermFilter defines filters supported by term list endpoints.
type TermFilter struct {
	AcademicYear string
	IsActive     *bool
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// ResolveActiveTerm picks the effective term for a school by priority:
// explicit active flag, then date containment, then most recent start.
func ResolveActiveTerm(terms []Term, now time.Time) *Term {
	for i := range terms {
		if terms[i].IsActive {
			return &terms[i]
		}
	}
	for i := range terms {
		if terms[i].Contains(now) {
			return &terms[i]
		}
	}
	var latest *Term
	for i := range terms {
		if latest == nil || terms[i].StartDate.After(latest.StartDate) {
			latest = &terms[i]
		}
	}
	return latest
}
