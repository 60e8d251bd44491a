package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliverableStatus enum constants — deliverable review is a simple
// accept/reject step outside the multi-approver workflow.
const (
	DeliverableSubmitted         = "submitted"
	DeliverableAccepted          = "accepted"
	DeliverablePartiallyAccepted = "partially_accepted"
	DeliverableRejected          = "rejected"
)

// PaymentAuthorizationStatus enum constants
const (
	PaymentAuthPending  = "pending"
	PaymentAuthApproved = "approved"
	PaymentAuthRejected = "rejected"
	PaymentAuthPaid     = "paid"
)

// Deliverable is a milestone or period deliverable under a contract or PO.
type Deliverable struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeliverableNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"deliverable_number"` // e.g. DEL-25-0001

	VendorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	ContractID *uuid.UUID `gorm:"type:uuid;index" json:"contract_id"`
	POID       *uuid.UUID `gorm:"type:uuid;index" json:"po_id"`

	Title           string          `gorm:"type:varchar(255);not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	DeliverableType string          `gorm:"type:varchar(30);not null;default:'milestone'" json:"deliverable_type"` // milestone, period
	PeriodStart     *time.Time      `json:"period_start"`
	PeriodEnd       *time.Time      `json:"period_end"`
	DueDate         *time.Time      `json:"due_date"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'SAR'" json:"currency"`

	Status          string     `gorm:"type:varchar(30);not null;default:'submitted';index" json:"status"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewNotes     string     `gorm:"type:text" json:"review_notes"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PAFAuditEntry is one line in a payment authorization's audit trail.
type PAFAuditEntry struct {
	Action    string    `json:"action"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// PaymentAuthorization (PAF) authorizes payment for accepted deliverables.
type PaymentAuthorization struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PAFNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"paf_number"` // e.g. PAF-25-0001

	DeliverableID uuid.UUID    `gorm:"type:uuid;not null;index" json:"deliverable_id"`
	Deliverable   *Deliverable `gorm:"foreignKey:DeliverableID" json:"deliverable,omitempty"`

	Amount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(3);not null;default:'SAR'" json:"currency"`

	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DecidedBy  *uuid.UUID `gorm:"type:uuid" json:"decided_by"`
	DecidedAt  *time.Time `json:"decided_at"`
	Notes      string     `gorm:"type:text" json:"notes"`
	AuditTrail []PAFAuditEntry `gorm:"type:jsonb;serializer:json" json:"audit_trail"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
