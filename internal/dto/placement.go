package dto

import "github.com/noah-isme/sma-timetable-api/internal/models"

// PlacementCandidate is one proposed slot submitted for validation or commit.
type PlacementCandidate struct {
	TermID      string             `json:"term_id" validate:"required"`
	DayOfWeek   int                `json:"day_of_week" validate:"min=0,max=6"`
	PeriodID    string             `json:"period_id" validate:"required"`
	ClassID     string             `json:"class_id" validate:"required"`
	SubjectID   string             `json:"subject_id" validate:"required"`
	TeacherID   string             `json:"teacher_id" validate:"required"`
	RoomID      string             `json:"room_id" validate:"required"`
	WeekVariant models.WeekVariant `json:"week_variant"`
}

// ViolationSeverity separates blocking errors from advisory warnings.
type ViolationSeverity string

const (
	SeverityError   ViolationSeverity = "error"
	SeverityWarning ViolationSeverity = "warning"
)

// Violation types emitted by the placement validator.
const (
	ViolationTeacherUnavailable = "TEACHER_UNAVAILABLE"
	ViolationDayPreference      = "DAY_PREFERENCE"
	ViolationWeeklyWorkload     = "WEEKLY_WORKLOAD"
	ViolationConsecutive        = "CONSECUTIVE_PERIODS"
	ViolationRoomReserved       = "ROOM_RESERVED"
	ViolationDirectConflict     = "DIRECT_CONFLICT"
)

// Violation is one failed check with its severity and explanation.
type Violation struct {
	Type     string            `json:"type"`
	Severity ViolationSeverity `json:"severity"`
	Message  string            `json:"message"`
}

// ValidationResult reports every check outcome; warnings never block.
type ValidationResult struct {
	IsValid    bool        `json:"is_valid"`
	Violations []Violation `json:"violations"`
}

// Errors returns only the blocking violations.
func (r ValidationResult) Errors() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			out = append(out, v)
		}
	}
	return out
}

// DeleteSlotRequest identifies a slot by its identity key.
type DeleteSlotRequest struct {
	TermID      string             `json:"term_id" validate:"required"`
	DayOfWeek   int                `json:"day_of_week" validate:"min=0,max=6"`
	PeriodID    string             `json:"period_id" validate:"required"`
	ClassID     string             `json:"class_id" validate:"required"`
	WeekVariant models.WeekVariant `json:"week_variant"`
}
