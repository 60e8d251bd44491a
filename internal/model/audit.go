package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action constants. One per transition point plus plain CRUD actions;
// handlers and services reference these instead of free-form strings.
const (
	ActionCreate        = "CREATE"
	ActionUpdate        = "UPDATE"
	ActionDelete        = "DELETE"
	ActionSubmit        = "SUBMIT"
	ActionReview        = "REVIEW"
	ActionApprove       = "APPROVE"
	ActionFinalApprove  = "FINAL_APPROVE"
	ActionReject        = "REJECT"
	ActionReturn        = "RETURN"
	ActionResubmit      = "RESUBMIT"
	ActionReopen        = "REOPEN"
	ActionRiskAccept    = "RISK_ACCEPT"
	ActionAIRiskScoring = "AI_RISK_SCORING"
	ActionBulkImport    = "BULK_IMPORT"
)

// Entity type constants for audit rows.
const (
	EntityVendor         = "vendor"
	EntityVendorDD       = "vendor_dd"
	EntityTender         = "tender"
	EntityProposal       = "proposal"
	EntityContract       = "contract"
	EntityPurchaseOrder  = "purchase_order"
	EntityInvoice        = "invoice"
	EntityResource       = "resource"
	EntityServiceRequest = "service_request"
	EntityAsset          = "asset"
	EntityDeliverable    = "deliverable"
	EntityPaymentAuth    = "payment_authorization"
	EntityUser           = "user"
)

// AuditLog tracks Who, What, and When for every cross-entity action.
// Rows are append-only: no API updates or deletes individual entries.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated job
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string     `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name or number
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

// Notification is a per-user message produced by workflow transitions and
// mirrored to connected WebSocket clients.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"type:varchar(20);not null;default:'info'" json:"type"` // info, approval, alert
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
