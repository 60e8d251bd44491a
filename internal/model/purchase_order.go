package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder represents a commitment to buy against a vendor, optionally
// under a contract or tender award.
type PurchaseOrder struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PONumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"po_number"` // e.g. PO-25-0001

	VendorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor     *Vendor    `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	ContractID *uuid.UUID `gorm:"type:uuid;index" json:"contract_id"`
	TenderID   *uuid.UUID `gorm:"type:uuid;index" json:"tender_id"`

	Description      string          `gorm:"type:text;not null" json:"description"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Currency         string          `gorm:"type:varchar(3);not null;default:'SAR'" json:"currency"`
	DeliveryLocation string          `gorm:"type:varchar(255)" json:"delivery_location"`
	DeliveryDueDate  *time.Time      `json:"delivery_due_date"`

	WorkflowEnvelope `gorm:"embedded"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
