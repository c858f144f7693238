package dto

import "github.com/noah-isme/sma-timetable-api/internal/models"

// GenerationConfig toggles the hard constraints and soft preferences applied
// by the constructive generator.
type GenerationConfig struct {
	EnforceTeacherExpertise  bool `json:"enforce_teacher_expertise"`
	EnforceRoomCapacity      bool `json:"enforce_room_capacity"`
	RequireLunchBreak        bool `json:"require_lunch_break"`
	MaxTeacherPeriodsPerDay  int  `json:"max_teacher_periods_per_day" validate:"min=0"`
	MaxTeacherPeriodsPerWeek int  `json:"max_teacher_periods_per_week" validate:"min=0"`
	MaxConsecutivePeriods    int  `json:"max_consecutive_periods" validate:"min=0"`
	PreventBackToBack        bool `json:"prevent_back_to_back"`

	BalanceSubjectDistribution bool `json:"balance_subject_distribution"`
	PreferMorningForCore       bool `json:"prefer_morning_for_core"`
	AvoidLastPeriodForLab      bool `json:"avoid_last_period_for_lab"`
	GroupSameSubjectDays       bool `json:"group_same_subject_days"`

	// LunchResetsConsecutive makes the lunch break reset the consecutive
	// period counter. On by default.
	LunchResetsConsecutive *bool `json:"lunch_resets_consecutive,omitempty"`
}

// GenerateRequest starts a generation run for one term.
type GenerateRequest struct {
	TermID      string             `json:"term_id" validate:"required"`
	WeekVariant models.WeekVariant `json:"week_variant"`
	Config      GenerationConfig   `json:"config"`
}

// PreviewSlot is one generated placement held in memory until commit.
type PreviewSlot struct {
	DayOfWeek   int                `json:"day_of_week"`
	PeriodID    string             `json:"period_id"`
	ClassID     string             `json:"class_id"`
	SubjectID   string             `json:"subject_id"`
	TeacherID   string             `json:"teacher_id"`
	RoomID      string             `json:"room_id"`
	WeekVariant models.WeekVariant `json:"week_variant"`
	Score       float64            `json:"score"`
}

// UnplacedRequirement is a curriculum obligation the generator could not
// satisfy with any valid candidate. Not fatal for the run.
type UnplacedRequirement struct {
	ClassID   string `json:"class_id"`
	SubjectID string `json:"subject_id"`
	Remaining int    `json:"remaining"`
	Reason    string `json:"reason"`
}

// GenerationStats aggregates a run's outcome.
type GenerationStats struct {
	TotalSlots             int     `json:"total_slots"`
	PlacedSlots            int     `json:"placed_slots"`
	ConflictsResolved      int     `json:"conflicts_resolved"`
	OptimizationScore      float64 `json:"optimization_score"`
	TeacherWorkloadBalance float64 `json:"teacher_workload_balance"`
	RoomUtilization        float64 `json:"room_utilization"`
	GenerationTimeMs       int64   `json:"generation_time_ms"`
	Iterations             int     `json:"iterations"`
}

// GeneratePreviewResponse returns the scored preview before any write.
type GeneratePreviewResponse struct {
	PreviewID string                `json:"preview_id"`
	Preview   []PreviewSlot         `json:"preview"`
	Stats     GenerationStats       `json:"stats"`
	Unplaced  []UnplacedRequirement `json:"unplaced"`
	Warnings  []string              `json:"warnings"`
	Errors    []string              `json:"errors"`
}

// CommitMode selects how a preview lands on the slot repository.
type CommitMode string

const (
	CommitModeMerge   CommitMode = "merge"
	CommitModeReplace CommitMode = "replace"
)

// CommitPreviewRequest applies a stored preview to the term.
type CommitPreviewRequest struct {
	TermID    string     `json:"term_id" validate:"required"`
	PreviewID string     `json:"preview_id" validate:"required"`
	Mode      CommitMode `json:"mode" validate:"required,oneof=merge replace"`
}

// CommitResult reports best-effort insert counts.
type CommitResult struct {
	Created   int `json:"created"`
	Conflicts int `json:"conflicts"`
}
