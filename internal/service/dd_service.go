package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/ai"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateDDRequest struct {
	VendorID      string `json:"vendor_id" binding:"required,uuid"`
	Questionnaire string `json:"questionnaire"`
}

type UpdateDDRequest struct {
	Questionnaire string `json:"questionnaire"`
}

type RiskAcceptanceRequest struct {
	Reason             string `json:"risk_acceptance_reason" binding:"required"`
	MitigatingControls string `json:"mitigating_controls" binding:"required"`
	ScopeLimitations   string `json:"scope_limitations"`
}

// --- Interface ---

type DDService interface {
	Create(ctx context.Context, req CreateDDRequest, actor Actor) (*model.VendorDD, error)
	GetByID(ctx context.Context, id string) (*model.VendorDD, error)
	GetByVendor(ctx context.Context, vendorID string) (*model.VendorDD, error)
	Update(ctx context.Context, id string, req UpdateDDRequest, actor Actor) (*model.VendorDD, error)
	RunAssessment(ctx context.Context, id string, actor Actor) (*model.VendorDD, error)
	AcceptRisk(ctx context.Context, id string, req RiskAcceptanceRequest, actor Actor) (*model.VendorDD, error)
}

type ddService struct {
	db     *gorm.DB
	tx     repository.TransactionManager
	scorer ai.RiskScorer
}

// NewDDService returns a new instance of DDService
func NewDDService(db *gorm.DB, tx repository.TransactionManager, scorer ai.RiskScorer) DDService {
	return &ddService{db: db, tx: tx, scorer: scorer}
}

// --- Implementation ---

func (s *ddService) Create(ctx context.Context, req CreateDDRequest, actor Actor) (*model.VendorDD, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vendor id", apperr.ErrPrecondition)
	}

	var vendor model.Vendor
	if err := s.db.WithContext(ctx).First(&vendor, "id = ?", vendorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: vendor %s", apperr.ErrNotFound, req.VendorID)
		}
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&model.VendorDD{}).Where("vendor_id = ?", vendorID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: vendor already has a due-diligence file", apperr.ErrConflict)
	}

	state, status := workflow.Create(actor.ID, actor.Name)
	dd := model.VendorDD{
		VendorID:      vendorID,
		Questionnaire: req.Questionnaire,
		WorkflowEnvelope: model.WorkflowEnvelope{
			Status:   status,
			Workflow: state,
		},
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		dd.CreatedBy = &parsed
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Create(&dd).Error; err != nil {
			return fmt.Errorf("failed to create due-diligence file: %w", err)
		}
		if err := repository.GetDB(txCtx, s.db).Model(&model.Vendor{}).
			Where("id = ?", vendorID).Update("dd_required", true).Error; err != nil {
			return fmt.Errorf("failed to flag vendor for due diligence: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityVendorDD, dd.ID.String(), vendor.NameEnglish, nil)
	})
	if err != nil {
		return nil, err
	}
	return &dd, nil
}

func (s *ddService) GetByID(ctx context.Context, id string) (*model.VendorDD, error) {
	var dd model.VendorDD
	if err := s.db.WithContext(ctx).Preload("Vendor").First(&dd, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: due-diligence file %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &dd, nil
}

func (s *ddService) GetByVendor(ctx context.Context, vendorID string) (*model.VendorDD, error) {
	var dd model.VendorDD
	if err := s.db.WithContext(ctx).Preload("Vendor").First(&dd, "vendor_id = ?", vendorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: no due-diligence file for vendor %s", apperr.ErrNotFound, vendorID)
		}
		return nil, err
	}
	return &dd, nil
}

func (s *ddService) Update(ctx context.Context, id string, req UpdateDDRequest, actor Actor) (*model.VendorDD, error) {
	dd, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if dd.CreatedBy != nil {
		owner = dd.CreatedBy.String()
	}
	if err := ensureEditable(dd.Status, owner, actor); err != nil {
		return nil, err
	}

	if req.Questionnaire != "" {
		dd.Questionnaire = req.Questionnaire
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(dd).Error; err != nil {
			return fmt.Errorf("failed to update due-diligence file: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityVendorDD, dd.ID.String(), "", nil)
	})
	if err != nil {
		return nil, err
	}
	return dd, nil
}

// RunAssessment asks the risk scorer for a verdict, appends it to the run
// history, and propagates the score onto the vendor record. The assessment
// never blocks workflow transitions; a scorer failure is surfaced to the
// caller and nothing is persisted.
func (s *ddService) RunAssessment(ctx context.Context, id string, actor Actor) (*model.VendorDD, error) {
	dd, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dd.Vendor == nil {
		return nil, fmt.Errorf("%w: due-diligence file has no vendor", apperr.ErrPrecondition)
	}

	result, err := s.scorer.Score(ctx, ai.RiskInput{
		VendorName:    dd.Vendor.NameEnglish,
		Country:       dd.Vendor.Country,
		VendorType:    dd.Vendor.VendorType,
		EntityType:    dd.Vendor.EntityType,
		Questionnaire: dd.Questionnaire,
	})
	if err != nil {
		return nil, fmt.Errorf("risk assessment failed: %w", err)
	}

	assessment := model.AIAssessment{
		VendorName:          dd.Vendor.NameEnglish,
		CountryJurisdiction: dd.Vendor.Country,
		RiskScore:           result.Score,
		RiskLevel:           result.Level,
		TopRiskDrivers:      result.TopRiskDrivers,
		AssessmentSummary:   result.Summary,
		ConfidenceLevel:     result.ConfidenceLevel,
		ConfidenceRationale: result.ConfidenceRationale,
		AssessedAt:          result.AssessedAt,
		PromptVersion:       result.PromptVersion,
		TriggeredBy:         actor.ID,
		TriggeredByName:     actor.Name,
	}
	if assessment.AssessedAt.IsZero() {
		assessment.AssessedAt = time.Now().UTC()
	}

	dd.Assessment = &assessment
	dd.AssessmentRuns = append(dd.AssessmentRuns, assessment)

	category := model.RiskCategoryFromScore(result.Score)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(dd).Error; err != nil {
			return fmt.Errorf("failed to persist assessment: %w", err)
		}
		if err := repository.GetDB(txCtx, s.db).Model(&model.Vendor{}).
			Where("id = ?", dd.VendorID).
			Updates(map[string]interface{}{"risk_score": result.Score, "risk_category": category}).Error; err != nil {
			return fmt.Errorf("failed to update vendor risk: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionAIRiskScoring, model.EntityVendorDD, dd.ID.String(), dd.Vendor.NameEnglish, map[string]interface{}{
			"risk_score":     result.Score,
			"risk_level":     result.Level,
			"prompt_version": result.PromptVersion,
		})
	})
	if err != nil {
		return nil, err
	}

	dd.Vendor.RiskScore = result.Score
	dd.Vendor.RiskCategory = category
	return dd, nil
}

// AcceptRisk records a formal risk acceptance, unlocking final approval of a
// high-risk vendor.
func (s *ddService) AcceptRisk(ctx context.Context, id string, req RiskAcceptanceRequest, actor Actor) (*model.VendorDD, error) {
	dd, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dd.RiskAcceptance != nil {
		return nil, fmt.Errorf("%w: risk already accepted for this vendor", apperr.ErrConflict)
	}

	dd.RiskAcceptance = &model.RiskAcceptance{
		Reason:             req.Reason,
		MitigatingControls: req.MitigatingControls,
		ScopeLimitations:   req.ScopeLimitations,
		Owner:              actor.ID,
		OwnerName:          actor.Name,
		AcceptedAt:         time.Now().UTC(),
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(dd).Error; err != nil {
			return fmt.Errorf("failed to record risk acceptance: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionRiskAccept, model.EntityVendorDD, dd.ID.String(), "", map[string]interface{}{
			"acceptance_owner": actor.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return dd, nil
}
