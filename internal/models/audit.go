package models

import "time"

// Audit actions recorded for ledger and registry mutations.
const (
	AuditActionRoleAssign       = "ROLE_ASSIGN"
	AuditActionProfileSave      = "PROFILE_SAVE"
	AuditActionEnrollmentSubmit = "ENROLLMENT_SUBMIT"
	AuditActionPaymentInitiate  = "PAYMENT_INITIATE"
	AuditActionPaymentSettle    = "PAYMENT_SETTLE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	Principal  *string   `db:"principal" json:"principal,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
