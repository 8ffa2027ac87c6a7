package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreatePart    = "CREATE_PART"
	ActionUpdatePart    = "UPDATE_PART"
	ActionDeletePart    = "DELETE_PART"
	ActionAdjustStock   = "ADJUST_STOCK"
	ActionCreateBooking = "CREATE_BOOKING"
	ActionUpdateBooking = "UPDATE_BOOKING_STATUS"

	// Invoice artifacts are never stored; the audit trail is the only
	// server-side trace that a generation happened.
	ActionGenerateInvoice = "GENERATE_INVOICE"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated bot
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
