package model

import (
	"time"

	"github.com/google/uuid"
)

// VendorType enum constants
const (
	VendorTypeLocal         = "local"
	VendorTypeInternational = "international"
)

// RiskCategory enum constants shared by vendors and contracts
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskVeryHigh = "very_high"
)

// Vendor represents a supplier going through onboarding. The embedded
// WorkflowEnvelope drives the multi-stage approval lifecycle.
type Vendor struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"vendor_number"` // e.g. Vendor-25-0001

	NameEnglish    string `gorm:"type:varchar(255);not null" json:"name_english"`
	CommercialName string `gorm:"type:varchar(255)" json:"commercial_name"`
	EntityType     string `gorm:"type:varchar(50)" json:"entity_type"` // LLC, JSC, ...
	VendorType     string `gorm:"type:varchar(20);not null;default:'local'" json:"vendor_type"`

	Email   string `gorm:"type:varchar(255)" json:"email"`
	Mobile  string `gorm:"type:varchar(20)" json:"mobile"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	Country string `gorm:"type:varchar(100)" json:"country"`

	VATNumber string `gorm:"type:varchar(50)" json:"vat_number"`
	CRNumber  string `gorm:"type:varchar(50)" json:"cr_number"`
	BankName  string `gorm:"type:varchar(255)" json:"bank_name"`
	IBAN      string `gorm:"type:varchar(34)" json:"iban"`

	// Risk metadata attached by the DD subsystem; the workflow treats it as
	// opaque context except for the high-risk final-approval gate.
	RiskScore    float64 `gorm:"not null;default:0" json:"risk_score"`
	RiskCategory string  `gorm:"type:varchar(20);not null;default:'low'" json:"risk_category"`
	DDRequired   bool    `gorm:"not null;default:false" json:"dd_required"`
	DDCompleted  bool    `gorm:"not null;default:false" json:"dd_completed"`

	WorkflowEnvelope `gorm:"embedded"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	Creator   *User      `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RiskCategoryFromScore maps a composite score to a risk band.
// Thresholds follow the DD subsystem's scoring contract (0-100).
func RiskCategoryFromScore(score float64) string {
	switch {
	case score >= 75:
		return RiskVeryHigh
	case score >= 50:
		return RiskHigh
	case score >= 25:
		return RiskMedium
	default:
		return RiskLow
	}
}
