package models

import "time"

// WeekVariant distinguishes the current week's schedule from the alternate
// rotation week sharing the same term.
type WeekVariant string

const (
	WeekVariantCurrent WeekVariant = "CURRENT"
	WeekVariantNext    WeekVariant = "NEXT"
)

// NormalizeWeekVariant maps the empty string to the current week.
func NormalizeWeekVariant(v WeekVariant) WeekVariant {
	if v == "" {
		return WeekVariantCurrent
	}
	return v
}

// Slot places one class into one (day, period, week-variant) cell of a term,
// naming a teacher and a room. The identity key is (school, term, day, period,
// class, week-variant); teacher and room double-booking across identity keys
// is a business rule enforced by conflict detection, not by storage.
type Slot struct {
	ID          string      `db:"id" json:"id"`
	SchoolID    string      `db:"school_id" json:"school_id"`
	TermID      string      `db:"term_id" json:"term_id"`
	DayOfWeek   int         `db:"day_of_week" json:"day_of_week"`
	PeriodID    string      `db:"period_id" json:"period_id"`
	ClassID     string      `db:"class_id" json:"class_id"`
	SubjectID   string      `db:"subject_id" json:"subject_id"`
	TeacherID   string      `db:"teacher_id" json:"teacher_id"`
	RoomID      string      `db:"room_id" json:"room_id"`
	WeekVariant WeekVariant `db:"week_variant" json:"week_variant"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// SlotIdentity is the tuple that must be unique per slot.
type SlotIdentity struct {
	SchoolID    string      `json:"school_id"`
	TermID      string      `json:"term_id" validate:"required"`
	DayOfWeek   int         `json:"day_of_week" validate:"min=0,max=6"`
	PeriodID    string      `json:"period_id" validate:"required"`
	ClassID     string      `json:"class_id" validate:"required"`
	WeekVariant WeekVariant `json:"week_variant"`
}

// Identity extracts the identity key of a slot.
func (s Slot) Identity() SlotIdentity {
	return SlotIdentity{
		SchoolID:    s.SchoolID,
		TermID:      s.TermID,
		DayOfWeek:   s.DayOfWeek,
		PeriodID:    s.PeriodID,
		ClassID:     s.ClassID,
		WeekVariant: NormalizeWeekVariant(s.WeekVariant),
	}
}

// ConflictType labels the resource dimension of a double-booking.
type ConflictType string

const (
	ConflictTypeTeacher ConflictType = "TEACHER"
	ConflictTypeRoom    ConflictType = "ROOM"
)

// SlotConflict reports two slots competing for the same teacher or room in
// the same (day, period, week-variant) cell.
type SlotConflict struct {
	Type      ConflictType `json:"type"`
	DayOfWeek int          `json:"day_of_week"`
	PeriodID  string       `json:"period_id"`
	TeacherID string       `json:"teacher_id,omitempty"`
	RoomID    string       `json:"room_id,omitempty"`
	SlotA     Slot         `json:"slot_a"`
	SlotB     Slot         `json:"slot_b"`
}

// LegacyRangeSlot is a pre-migration placement stored as a start/end period
// range instead of discrete cells. The conflict detector expands these into
// synthetic per-period cells before grouping.
type LegacyRangeSlot struct {
	ID            string      `db:"id" json:"id"`
	SchoolID      string      `db:"school_id" json:"school_id"`
	TermID        string      `db:"term_id" json:"term_id"`
	DayOfWeek     int         `db:"day_of_week" json:"day_of_week"`
	StartPeriodID string      `db:"start_period_id" json:"start_period_id"`
	EndPeriodID   string      `db:"end_period_id" json:"end_period_id"`
	ClassID       string      `db:"class_id" json:"class_id"`
	SubjectID     string      `db:"subject_id" json:"subject_id"`
	TeacherID     string      `db:"teacher_id" json:"teacher_id"`
	RoomID        string      `db:"room_id" json:"room_id"`
	WeekVariant   WeekVariant `db:"week_variant" json:"week_variant"`
}
