package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tender represents a sourcing event vendors bid on.
type Tender struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"tender_number"` // e.g. Tender-25-0001

	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(100)" json:"category"`

	EstimatedValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"estimated_value"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'SAR'" json:"currency"`

	OpensAt  *time.Time `json:"opens_at"`
	ClosesAt *time.Time `json:"closes_at"`

	WorkflowEnvelope `gorm:"embedded"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Proposal is one vendor's bid against a tender, scored during evaluation.
type Proposal struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TenderID uuid.UUID `gorm:"type:uuid;not null;index" json:"tender_id"`
	Tender   *Tender   `gorm:"foreignKey:TenderID" json:"tender,omitempty"`
	VendorID uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`

	Amount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(3);not null;default:'SAR'" json:"currency"`
	Summary  string          `gorm:"type:text" json:"summary"`

	TechnicalScore  float64 `gorm:"not null;default:0" json:"technical_score"`  // 0-100
	CommercialScore float64 `gorm:"not null;default:0" json:"commercial_score"` // 0-100
	EvaluatedBy     string  `gorm:"type:varchar(50)" json:"evaluated_by"`
	EvaluationNotes string  `gorm:"type:text" json:"evaluation_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
