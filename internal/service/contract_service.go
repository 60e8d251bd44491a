package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/permission"
	"backend/internal/repository"
	"backend/internal/workflow"
	"backend/pkg/apperr"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateContractRequest struct {
	VendorID     string          `json:"vendor_id" binding:"required,uuid"`
	TenderID     string          `json:"tender_id" binding:"omitempty,uuid"`
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	ContractType string          `json:"contract_type" binding:"omitempty,oneof=standard outsourcing cloud"`
	Value        decimal.Decimal `json:"contract_value" binding:"required"`
	Currency     string          `json:"currency"`
	StartDate    time.Time       `json:"start_date" binding:"required"`
	EndDate      time.Time       `json:"end_date" binding:"required"`
	AutoRenewal  bool            `json:"auto_renewal"`

	HasDataAccess     bool   `json:"has_data_access"`
	HasOnsitePresence bool   `json:"has_onsite_presence"`
	CriticalityLevel  string `json:"criticality_level" binding:"omitempty,oneof=low medium high"`

	Questionnaire *model.OutsourcingQuestionnaire `json:"questionnaire"`
}

type UpdateContractRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	ContractType string           `json:"contract_type" binding:"omitempty,oneof=standard outsourcing cloud"`
	Value        *decimal.Decimal `json:"contract_value"`
	StartDate    *time.Time       `json:"start_date"`
	EndDate      *time.Time       `json:"end_date"`
	AutoRenewal  *bool            `json:"auto_renewal"`

	HasDataAccess     *bool  `json:"has_data_access"`
	HasOnsitePresence *bool  `json:"has_onsite_presence"`
	CriticalityLevel  string `json:"criticality_level" binding:"omitempty,oneof=low medium high"`

	Questionnaire *model.OutsourcingQuestionnaire `json:"questionnaire"`
}

type TerminateContractRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ContractFilter struct {
	Status         string
	VendorID       string
	Classification string
	Search         string
	Page           int
	Limit          int
}

// --- Interface ---

type ContractService interface {
	Create(ctx context.Context, req CreateContractRequest, actor Actor) (*model.Contract, error)
	GetByID(ctx context.Context, id string) (*model.Contract, error)
	List(ctx context.Context, filter ContractFilter, actor Actor) ([]model.Contract, int64, error)
	Update(ctx context.Context, id string, req UpdateContractRequest, actor Actor) (*model.Contract, error)
	Delete(ctx context.Context, id string, actor Actor) error
	Terminate(ctx context.Context, id string, req TerminateContractRequest, actor Actor) (*model.Contract, error)
	FinalApprovalGate(id string) FinalApproveGate
}

type contractService struct {
	db *gorm.DB
	tx repository.TransactionManager
}

// NewContractService returns a new instance of ContractService
func NewContractService(db *gorm.DB, tx repository.TransactionManager) ContractService {
	return &contractService{db: db, tx: tx}
}

// --- Implementation ---

func (s *contractService) Create(ctx context.Context, req CreateContractRequest, actor Actor) (*model.Contract, error) {
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
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperr.ErrPrecondition)
	}

	contractType := req.ContractType
	if contractType == "" {
		contractType = model.ContractTypeStandard
	}
	criticality := req.CriticalityLevel
	if criticality == "" {
		criticality = model.CriticalityLow
	}
	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}

	state, status := workflow.Create(actor.ID, actor.Name)
	contract := model.Contract{
		VendorID:          vendorID,
		Title:             req.Title,
		Description:       req.Description,
		ContractType:      contractType,
		ContractValue:     req.Value,
		Currency:          currency,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		AutoRenewal:       req.AutoRenewal,
		HasDataAccess:     req.HasDataAccess,
		HasOnsitePresence: req.HasOnsitePresence,
		CriticalityLevel:  criticality,
		Questionnaire:     req.Questionnaire,
		WorkflowEnvelope: model.WorkflowEnvelope{
			Status:   status,
			Workflow: state,
		},
	}
	if req.TenderID != "" {
		if tid, err := uuid.Parse(req.TenderID); err == nil {
			contract.TenderID = &tid
		}
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		contract.CreatedBy = &parsed
	}
	s.classify(&contract, &vendor)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "Contract")
		if err != nil {
			return err
		}
		contract.ContractNumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&contract).Error; err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityContract, contract.ID.String(), contract.ContractNumber, map[string]interface{}{
			"classification": contract.OutsourcingClassification,
			"noc_required":   contract.NOCRequired,
		})
	})
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// classify recomputes the outsourcing classification and NOC flag from the
// questionnaire. Runs on every create and update so stored values never drift
// from the answers.
func (s *contractService) classify(contract *model.Contract, vendor *model.Vendor) {
	if contract.Questionnaire == nil {
		contract.OutsourcingClassification = ""
		contract.NOCRequired = contract.ContractType == model.ContractTypeCloud
		return
	}
	classification := model.ClassifyOutsourcing(*contract.Questionnaire)
	contract.OutsourcingClassification = classification
	contract.NOCRequired = model.NOCRequired(*contract.Questionnaire, classification, vendor.VendorType)
}

func (s *contractService) GetByID(ctx context.Context, id string) (*model.Contract, error) {
	var contract model.Contract
	if err := s.db.WithContext(ctx).Preload("Vendor").First(&contract, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: contract %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &contract, nil
}

func (s *contractService) List(ctx context.Context, filter ContractFilter, actor Actor) ([]model.Contract, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Contract{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VendorID != "" {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Classification != "" {
		query = query.Where("outsourcing_classification = ?", filter.Classification)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR contract_number ILIKE ?", like, like)
	}
	if permission.ShouldFilterByOwner(actor.Role, permission.ModuleDashboard) {
		query = query.Where("created_by = ?", actor.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	var contracts []model.Contract
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.Preload("Vendor").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&contracts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contracts: %w", err)
	}
	return contracts, total, nil
}

func (s *contractService) Update(ctx context.Context, id string, req UpdateContractRequest, actor Actor) (*model.Contract, error) {
	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if contract.CreatedBy != nil {
		owner = contract.CreatedBy.String()
	}
	if err := ensureEditable(contract.Status, owner, actor); err != nil {
		return nil, err
	}

	if req.Title != "" {
		contract.Title = req.Title
	}
	if req.Description != "" {
		contract.Description = req.Description
	}
	if req.ContractType != "" {
		contract.ContractType = req.ContractType
	}
	if req.Value != nil {
		contract.ContractValue = *req.Value
	}
	if req.StartDate != nil {
		contract.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		contract.EndDate = *req.EndDate
	}
	if req.AutoRenewal != nil {
		contract.AutoRenewal = *req.AutoRenewal
	}
	if req.HasDataAccess != nil {
		contract.HasDataAccess = *req.HasDataAccess
	}
	if req.HasOnsitePresence != nil {
		contract.HasOnsitePresence = *req.HasOnsitePresence
	}
	if req.CriticalityLevel != "" {
		contract.CriticalityLevel = req.CriticalityLevel
	}
	if req.Questionnaire != nil {
		contract.Questionnaire = req.Questionnaire
	}
	if !contract.EndDate.After(contract.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperr.ErrPrecondition)
	}
	s.classify(contract, contract.Vendor)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(contract).Error; err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityContract, contract.ID.String(), contract.ContractNumber, map[string]interface{}{
			"classification": contract.OutsourcingClassification,
			"noc_required":   contract.NOCRequired,
		})
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *contractService) Delete(ctx context.Context, id string, actor Actor) error {
	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if contract.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only draft contracts can be deleted", apperr.ErrPrecondition)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Delete(&model.Contract{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete contract: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionDelete, model.EntityContract, id, contract.ContractNumber, nil)
	})
}

// Terminate marks a final-approved contract as terminated. Termination is a
// record-level action, not a workflow transition.
func (s *contractService) Terminate(ctx context.Context, id string, req TerminateContractRequest, actor Actor) (*model.Contract, error) {
	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract.Status != workflow.StatusFinalApproved {
		return nil, fmt.Errorf("%w: only active contracts can be terminated", apperr.ErrPrecondition)
	}
	if contract.TerminatedAt != nil {
		return nil, fmt.Errorf("%w: contract already terminated", apperr.ErrConflict)
	}

	now := time.Now().UTC()
	contract.TerminatedAt = &now
	contract.TerminationReason = req.Reason

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(contract).Error; err != nil {
			return fmt.Errorf("failed to terminate contract: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityContract, contract.ID.String(), contract.ContractNumber, map[string]interface{}{
			"terminated": true,
			"reason":     req.Reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// FinalApprovalGate blocks final approval while the contract's vendor is not
// itself final approved, and while a required NOC assessment is outstanding
// for a high-criticality outsourcing contract.
func (s *contractService) FinalApprovalGate(id string) FinalApproveGate {
	return func(ctx context.Context) error {
		contract, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if contract.Vendor != nil && contract.Vendor.Status != workflow.StatusFinalApproved {
			return fmt.Errorf("%w: vendor %s must be final approved before its contracts", apperr.ErrPrecondition, contract.Vendor.VendorNumber)
		}
		if contract.NOCRequired && contract.Questionnaire == nil {
			return fmt.Errorf("%w: NOC-required contract is missing its questionnaire", apperr.ErrPrecondition)
		}
		return nil
	}
}
