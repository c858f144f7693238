package dto

// SuggestFreeSlotsRequest asks for open (day, period) cells for a teacher or
// class. At least one of TeacherID/ClassID must be set.
type SuggestFreeSlotsRequest struct {
	TermID           string   `json:"term_id" validate:"required"`
	TeacherID        string   `json:"teacher_id"`
	ClassID          string   `json:"class_id"`
	PreferredDays    []int    `json:"preferred_days"`
	PreferredPeriods []string `json:"preferred_periods"`
}

// SlotSuggestion is one open cell, advisory only: suggestions are not
// re-validated against constraints.
type SlotSuggestion struct {
	DayOfWeek int    `json:"day_of_week"`
	PeriodID  string `json:"period_id"`
}
