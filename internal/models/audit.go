package models

import "time"

// AuditAction constants represent mutations recorded by the audit sink.
const (
	AuditActionSlotUpsert     = "SLOT_UPSERT"
	AuditActionSlotDelete     = "SLOT_DELETE"
	AuditActionConfigUpsert   = "SCHEDULE_CONFIG_UPSERT"
	AuditActionTemplateCreate = "TEMPLATE_CREATE"
	AuditActionTemplateApply  = "TEMPLATE_APPLY"
	AuditActionGenerateCommit = "GENERATION_COMMIT"
	AuditActionTermActivate   = "TERM_ACTIVATE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	SchoolID   string    `db:"school_id" json:"school_id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
