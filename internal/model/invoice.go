package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice represents a vendor invoice against a contract or purchase order.
// Payment disbursal only happens once the workflow reaches final_approved.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"` // e.g. Invoice-25-0001

	VendorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor     *Vendor    `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	ContractID *uuid.UUID `gorm:"type:uuid;index" json:"contract_id"`
	POID       *uuid.UUID `gorm:"type:uuid;index" json:"po_id"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"` // subtotal + tax_amount
	Currency    string          `gorm:"type:varchar(3);not null;default:'SAR'" json:"currency"`

	InvoiceDate time.Time  `gorm:"not null" json:"invoice_date"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	PaidAt      *time.Time `json:"paid_at"`

	Note string `gorm:"type:text" json:"note"`

	WorkflowEnvelope `gorm:"embedded"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
