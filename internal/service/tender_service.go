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

type CreateTenderRequest struct {
	Title          string          `json:"title" binding:"required"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	Currency       string          `json:"currency"`
	OpensAt        *time.Time      `json:"opens_at"`
	ClosesAt       *time.Time      `json:"closes_at"`
}

type UpdateTenderRequest struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Category       string           `json:"category"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
	OpensAt        *time.Time       `json:"opens_at"`
	ClosesAt       *time.Time       `json:"closes_at"`
}

type CreateProposalRequest struct {
	VendorID string          `json:"vendor_id" binding:"required,uuid"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency"`
	Summary  string          `json:"summary"`
}

type EvaluateProposalRequest struct {
	TechnicalScore  float64 `json:"technical_score" binding:"min=0,max=100"`
	CommercialScore float64 `json:"commercial_score" binding:"min=0,max=100"`
	EvaluationNotes string  `json:"evaluation_notes"`
}

type TenderFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// --- Interface ---

type TenderService interface {
	Create(ctx context.Context, req CreateTenderRequest, actor Actor) (*model.Tender, error)
	GetByID(ctx context.Context, id string) (*model.Tender, error)
	List(ctx context.Context, filter TenderFilter, actor Actor) ([]model.Tender, int64, error)
	Update(ctx context.Context, id string, req UpdateTenderRequest, actor Actor) (*model.Tender, error)
	Delete(ctx context.Context, id string, actor Actor) error

	AddProposal(ctx context.Context, tenderID string, req CreateProposalRequest, actor Actor) (*model.Proposal, error)
	ListProposals(ctx context.Context, tenderID string) ([]model.Proposal, error)
	EvaluateProposal(ctx context.Context, proposalID string, req EvaluateProposalRequest, actor Actor) (*model.Proposal, error)
}

type tenderService struct {
	db *gorm.DB
	tx repository.TransactionManager
}

// NewTenderService returns a new instance of TenderService
func NewTenderService(db *gorm.DB, tx repository.TransactionManager) TenderService {
	return &tenderService{db: db, tx: tx}
}

// --- Implementation ---

func (s *tenderService) Create(ctx context.Context, req CreateTenderRequest, actor Actor) (*model.Tender, error) {
	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}

	state, status := workflow.Create(actor.ID, actor.Name)
	tender := model.Tender{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		EstimatedValue: req.EstimatedValue,
		Currency:       currency,
		OpensAt:        req.OpensAt,
		ClosesAt:       req.ClosesAt,
		WorkflowEnvelope: model.WorkflowEnvelope{
			Status:   status,
			Workflow: state,
		},
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		tender.CreatedBy = &parsed
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "Tender")
		if err != nil {
			return err
		}
		tender.TenderNumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&tender).Error; err != nil {
			return fmt.Errorf("failed to create tender: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityTender, tender.ID.String(), tender.TenderNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return &tender, nil
}

func (s *tenderService) GetByID(ctx context.Context, id string) (*model.Tender, error) {
	var tender model.Tender
	if err := s.db.WithContext(ctx).First(&tender, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: tender %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &tender, nil
}

func (s *tenderService) List(ctx context.Context, filter TenderFilter, actor Actor) ([]model.Tender, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Tender{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR tender_number ILIKE ?", like, like)
	}
	if permission.ShouldFilterByOwner(actor.Role, permission.ModuleDashboard) {
		query = query.Where("created_by = ?", actor.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tenders: %w", err)
	}

	var tenders []model.Tender
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&tenders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tenders: %w", err)
	}
	return tenders, total, nil
}

func (s *tenderService) Update(ctx context.Context, id string, req UpdateTenderRequest, actor Actor) (*model.Tender, error) {
	tender, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if tender.CreatedBy != nil {
		owner = tender.CreatedBy.String()
	}
	if err := ensureEditable(tender.Status, owner, actor); err != nil {
		return nil, err
	}

	if req.Title != "" {
		tender.Title = req.Title
	}
	if req.Description != "" {
		tender.Description = req.Description
	}
	if req.Category != "" {
		tender.Category = req.Category
	}
	if req.EstimatedValue != nil {
		tender.EstimatedValue = *req.EstimatedValue
	}
	if req.OpensAt != nil {
		tender.OpensAt = req.OpensAt
	}
	if req.ClosesAt != nil {
		tender.ClosesAt = req.ClosesAt
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(tender).Error; err != nil {
			return fmt.Errorf("failed to update tender: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityTender, tender.ID.String(), tender.TenderNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return tender, nil
}

func (s *tenderService) Delete(ctx context.Context, id string, actor Actor) error {
	tender, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tender.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only draft tenders can be deleted", apperr.ErrPrecondition)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Where("tender_id = ?", id).Delete(&model.Proposal{}).Error; err != nil {
			return fmt.Errorf("failed to delete proposals: %w", err)
		}
		if err := repository.GetDB(txCtx, s.db).Delete(&model.Tender{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete tender: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionDelete, model.EntityTender, id, tender.TenderNumber, nil)
	})
}

// --- Proposals ---

func (s *tenderService) AddProposal(ctx context.Context, tenderID string, req CreateProposalRequest, actor Actor) (*model.Proposal, error) {
	tender, err := s.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	// Bids are only accepted once the tender itself has been approved.
	if tender.Status != workflow.StatusFinalApproved {
		return nil, fmt.Errorf("%w: tender %s is not open for proposals", apperr.ErrPrecondition, tender.TenderNumber)
	}
	if tender.ClosesAt != nil && time.Now().After(*tender.ClosesAt) {
		return nil, fmt.Errorf("%w: tender %s has closed", apperr.ErrPrecondition, tender.TenderNumber)
	}

	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vendor id", apperr.ErrPrecondition)
	}
	var dup int64
	if err := s.db.WithContext(ctx).Model(&model.Proposal{}).
		Where("tender_id = ? AND vendor_id = ?", tender.ID, vendorID).Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, fmt.Errorf("%w: vendor already submitted a proposal for this tender", apperr.ErrConflict)
	}

	currency := req.Currency
	if currency == "" {
		currency = tender.Currency
	}
	proposal := model.Proposal{
		TenderID: tender.ID,
		VendorID: vendorID,
		Amount:   req.Amount,
		Currency: currency,
		Summary:  req.Summary,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Create(&proposal).Error; err != nil {
			return fmt.Errorf("failed to create proposal: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityProposal, proposal.ID.String(), tender.TenderNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (s *tenderService) ListProposals(ctx context.Context, tenderID string) ([]model.Proposal, error) {
	var proposals []model.Proposal
	if err := s.db.WithContext(ctx).Preload("Vendor").
		Where("tender_id = ?", tenderID).
		Order("created_at ASC").Find(&proposals).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch proposals: %w", err)
	}
	return proposals, nil
}

func (s *tenderService) EvaluateProposal(ctx context.Context, proposalID string, req EvaluateProposalRequest, actor Actor) (*model.Proposal, error) {
	var proposal model.Proposal
	if err := s.db.WithContext(ctx).First(&proposal, "id = ?", proposalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: proposal %s", apperr.ErrNotFound, proposalID)
		}
		return nil, err
	}

	proposal.TechnicalScore = req.TechnicalScore
	proposal.CommercialScore = req.CommercialScore
	proposal.EvaluationNotes = req.EvaluationNotes
	proposal.EvaluatedBy = actor.ID

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(&proposal).Error; err != nil {
			return fmt.Errorf("failed to save evaluation: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityProposal, proposal.ID.String(), "", map[string]interface{}{
			"technical_score":  req.TechnicalScore,
			"commercial_score": req.CommercialScore,
		})
	})
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}
