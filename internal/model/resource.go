package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Resource represents outsourced personnel engaged under a contract.
type Resource struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ResourceNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"resource_number"` // e.g. Resource-25-0001

	VendorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor     *Vendor    `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	ContractID *uuid.UUID `gorm:"type:uuid;index" json:"contract_id"`

	FullName    string `gorm:"type:varchar(255);not null" json:"full_name"`
	JobTitle    string `gorm:"type:varchar(100)" json:"job_title"`
	Department  string `gorm:"type:varchar(100)" json:"department"`
	Nationality string `gorm:"type:varchar(100)" json:"nationality"`

	MonthlyRate decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"monthly_rate"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'SAR'" json:"currency"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`

	WorkflowEnvelope `gorm:"embedded"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
