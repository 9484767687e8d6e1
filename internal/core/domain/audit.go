package domain

import "time"

// AuditAction identifies the auth operation an audit event records.
type AuditAction string

const (
	AuditRegister      AuditAction = "register"
	AuditLogin         AuditAction = "login"
	AuditTokenRejected AuditAction = "token_rejected"
)

// AuditEvent is an append-only record of an authentication decision. Events
// never carry credentials or token material, only the outcome.
type AuditEvent struct {
	Action    AuditAction `json:"action" bson:"action"`
	SubjectID string      `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	Username  string      `json:"username,omitempty" bson:"username,omitempty"`
	Success   bool        `json:"success" bson:"success"`
	Reason    string      `json:"reason,omitempty" bson:"reason,omitempty"`
	RemoteIP  string      `json:"remote_ip,omitempty" bson:"remote_ip,omitempty"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}
