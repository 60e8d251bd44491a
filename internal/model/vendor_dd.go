package model

import (
	"time"

	"github.com/google/uuid"
)

// AI confidence levels reported by the risk scorer.
const (
	AIConfidenceHigh   = "High"
	AIConfidenceMedium = "Medium"
	AIConfidenceLow    = "Low"
)

// AIAssessment is the opaque result handed back by the risk scorer. The
// workflow persists it verbatim and never blocks a transition on its absence.
type AIAssessment struct {
	VendorName           string    `json:"vendor_name,omitempty"`
	CountryJurisdiction  string    `json:"country_jurisdiction,omitempty"`
	RiskScore            float64   `json:"risk_score"` // 0-100
	RiskLevel            string    `json:"risk_level"`
	TopRiskDrivers       []string  `json:"top_risk_drivers,omitempty"` // at most 3
	AssessmentSummary    string    `json:"assessment_summary,omitempty"`
	ConfidenceLevel      string    `json:"confidence_level"`
	ConfidenceRationale  string    `json:"confidence_rationale,omitempty"`
	NotesForHumanReview  string    `json:"notes_for_human_review,omitempty"`
	AssessedAt           time.Time `json:"assessed_at"`
	PromptVersion        string    `json:"prompt_version"`
	TriggeredBy          string    `json:"triggered_by,omitempty"`
	TriggeredByName      string    `json:"triggered_by_name,omitempty"`
}

// RiskAcceptance records the formal acceptance required before a high-risk
// vendor can be final approved.
type RiskAcceptance struct {
	Reason             string    `json:"risk_acceptance_reason"`
	MitigatingControls string    `json:"mitigating_controls"`
	ScopeLimitations   string    `json:"scope_limitations,omitempty"`
	Owner              string    `json:"acceptance_owner"`
	OwnerName          string    `json:"acceptance_owner_name,omitempty"`
	AcceptedAt         time.Time `json:"acceptance_date"`
}

// VendorDD carries the due-diligence questionnaire, AI assessments, and risk
// acceptance for one vendor. Itself a governed entity with a workflow.
type VendorDD struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"vendor_id"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`

	// Questionnaire answers as a free-form document; field-level validation
	// lives in the frontend and the AI extraction pipeline.
	Questionnaire string `gorm:"type:jsonb" json:"questionnaire"`

	Assessment     *AIAssessment  `gorm:"type:jsonb;serializer:json" json:"assessment,omitempty"`
	AssessmentRuns []AIAssessment `gorm:"type:jsonb;serializer:json" json:"assessment_runs,omitempty"` // every run, newest last

	RiskAcceptance *RiskAcceptance `gorm:"type:jsonb;serializer:json" json:"risk_acceptance,omitempty"`

	WorkflowEnvelope `gorm:"embedded"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
