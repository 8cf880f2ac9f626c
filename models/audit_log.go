package models

import (
	"encoding/json"
	"time"
)

// AuditLog records security and workflow events for traceability
type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       *uint           `gorm:"index:idx_audit_user_id" json:"user_id,omitempty"`
	AdminID      *uint           `gorm:"index:idx_audit_admin_id" json:"admin_id,omitempty"`
	Action       string          `gorm:"type:audit_action_enum;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`

	// Relations
	User  *User  `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Admin *Admin `gorm:"foreignKey:AdminID;references:ID" json:"admin,omitempty"`
}

// TableName returns the table name for the model
func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionLoginSuccess        = "login_success"
	AuditActionLoginFailed         = "login_failed"
	AuditActionAdminLoginSuccess   = "admin_login_success"
	AuditActionAdminLoginFailed    = "admin_login_failed"
	AuditActionLogout              = "logout"
	AuditActionSelectionCreated    = "selection_created"
	AuditActionSelectionRemoved    = "selection_removed"
	AuditActionPlanPopulated       = "plan_populated"
	AuditActionAssetsRequested     = "assets_requested"
	AuditActionRequestAcknowledged = "request_acknowledged"
	AuditActionAssetsSubmitted     = "assets_submitted"
	AuditActionAssetsConfirmed     = "assets_confirmed"
	AuditActionRevisionRequested   = "revision_requested"
	AuditActionNotificationRead    = "notification_read"
	AuditActionPlanExported        = "plan_exported"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	UserID        *uint
	AdminID       *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// IsFailed checks if the audited action failed
func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}

// IsSecurityEvent checks whether the action is security relevant
func (a *AuditLog) IsSecurityEvent() bool {
	securityActions := map[string]bool{
		AuditActionLoginSuccess:      true,
		AuditActionLoginFailed:       true,
		AuditActionAdminLoginSuccess: true,
		AuditActionAdminLoginFailed:  true,
		AuditActionLogout:            true,
	}
	return securityActions[a.Action]
}
