package dto

// CreateTemplateRequest captures a term's placement pattern under a name.
type CreateTemplateRequest struct {
	SourceTermID string `json:"source_term_id" validate:"required"`
	Name         string `json:"name" validate:"required,max=120"`
	Description  string `json:"description" validate:"max=500"`
}

// ApplyTemplateRequest replays a template onto a target term. Mapping keys
// are source ids, values the replacement ids; missing keys fall back to the
// pattern's original id.
type ApplyTemplateRequest struct {
	TargetTermID   string            `json:"target_term_id" validate:"required"`
	ClearExisting  bool              `json:"clear_existing"`
	TeacherMapping map[string]string `json:"teacher_mapping"`
	RoomMapping    map[string]string `json:"room_mapping"`
}

// ApplyTemplateResult reports best-effort counts: entries that collided with
// an existing identity key are skipped and counted, never aborting the rest.
type ApplyTemplateResult struct {
	SlotsCreated   int `json:"slots_created"`
	ConflictsFound int `json:"conflicts_found"`
}
