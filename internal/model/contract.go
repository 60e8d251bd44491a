package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractType enum constants
const (
	ContractTypeStandard    = "standard"
	ContractTypeOutsourcing = "outsourcing"
	ContractTypeCloud       = "cloud"
)

// Outsourcing classification constants derived from the Section A
// questionnaire (see ClassifyOutsourcing).
const (
	ClassificationNotOutsourcing = "not_outsourcing"
	ClassificationOutsourcing    = "outsourcing"
	ClassificationCloud          = "cloud_computing"
	ClassificationInsourcing     = "insourcing"
	ClassificationExempted       = "exempted"
)

// CriticalityLevel enum constants
const (
	CriticalityLow    = "low"
	CriticalityMedium = "medium"
	CriticalityHigh   = "high"
)

// OutsourcingQuestionnaire holds the Section A/B governance answers filled
// during contract creation. Persisted as one jsonb document.
type OutsourcingQuestionnaire struct {
	// Section A — classification
	A1ContinuingBasis        bool `json:"a1_continuing_basis"`
	A2CouldBeDoneInHouse     bool `json:"a2_could_be_done_in_house"`
	A3IsInsourcing           bool `json:"a3_is_insourcing"`
	A4MarketDataProviders    bool `json:"a4_market_data_providers"`
	A4ClearingSettlement     bool `json:"a4_clearing_settlement"`
	A4CorrespondentBanking   bool `json:"a4_correspondent_banking"`
	A4Utilities              bool `json:"a4_utilities"`
	A5CloudHosted            bool `json:"a5_cloud_hosted"`

	// Section B — NOC assessment
	B1DataProcessing       bool `json:"b1_data_processing"`
	B2TechnologyInfra      bool `json:"b2_technology_infra"`
	B3RegulatoryCompliance bool `json:"b3_regulatory_compliance"`
	B4CustomerInteraction  bool `json:"b4_customer_interaction"`
	B5PaymentSystems       bool `json:"b5_payment_systems"`
	B6InternalAudit        bool `json:"b6_internal_audit"`
	B7TreasuryTrading      bool `json:"b7_treasury_trading"`
}

// Contract represents a governed agreement with a vendor.
type Contract struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContractNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"contract_number"` // e.g. Contract-25-0001

	VendorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor   *Vendor    `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	TenderID *uuid.UUID `gorm:"type:uuid;index" json:"tender_id"`

	Title        string `gorm:"type:varchar(255);not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	ContractType string `gorm:"type:varchar(20);not null;default:'standard'" json:"contract_type"`

	ContractValue decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"contract_value"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'SAR'" json:"currency"`
	StartDate     time.Time       `gorm:"not null" json:"start_date"`
	EndDate       time.Time       `gorm:"not null" json:"end_date"`
	AutoRenewal   bool            `gorm:"not null;default:false" json:"auto_renewal"`

	HasDataAccess     bool   `gorm:"not null;default:false" json:"has_data_access"`
	HasOnsitePresence bool   `gorm:"not null;default:false" json:"has_onsite_presence"`
	CriticalityLevel  string `gorm:"type:varchar(20);not null;default:'low'" json:"criticality_level"`

	Questionnaire             *OutsourcingQuestionnaire `gorm:"type:jsonb;serializer:json" json:"questionnaire,omitempty"`
	OutsourcingClassification string                    `gorm:"type:varchar(30)" json:"outsourcing_classification"`
	NOCRequired               bool                      `gorm:"not null;default:false" json:"noc_required"`

	RiskScore    float64 `gorm:"not null;default:0" json:"risk_score"`
	RiskCategory string  `gorm:"type:varchar(20);not null;default:'low'" json:"risk_category"`
	DDRequired   bool    `gorm:"not null;default:false" json:"dd_required"`

	WorkflowEnvelope `gorm:"embedded"`

	TerminatedAt      *time.Time `json:"terminated_at"`
	TerminationReason string     `gorm:"type:text" json:"termination_reason"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ClassifyOutsourcing derives the contract classification from Section A.
// Priority: cloud > exempted > insourcing > outsourcing > not_outsourcing.
func ClassifyOutsourcing(q OutsourcingQuestionnaire) string {
	if q.A5CloudHosted {
		return ClassificationCloud
	}
	if q.A4MarketDataProviders || q.A4ClearingSettlement || q.A4CorrespondentBanking || q.A4Utilities {
		return ClassificationExempted
	}
	if q.A3IsInsourcing {
		return ClassificationInsourcing
	}
	if q.A1ContinuingBasis && q.A2CouldBeDoneInHouse {
		return ClassificationOutsourcing
	}
	return ClassificationNotOutsourcing
}

// NOCRequired reports whether a No Objection Certificate is needed:
// cloud contracts always; outsourcing contracts with an international vendor
// or any Section B answer set.
func NOCRequired(q OutsourcingQuestionnaire, classification, vendorType string) bool {
	if classification == ClassificationCloud {
		return true
	}
	if classification != ClassificationOutsourcing {
		return false
	}
	if vendorType == VendorTypeInternational {
		return true
	}
	return q.B1DataProcessing || q.B2TechnologyInfra || q.B3RegulatoryCompliance ||
		q.B4CustomerInteraction || q.B5PaymentSystems || q.B6InternalAudit || q.B7TreasuryTrading
}
