package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/permission"
	"backend/internal/repository"
	"backend/pkg/apperr"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateDeliverableRequest struct {
	VendorID        string          `json:"vendor_id" binding:"required,uuid"`
	ContractID      string          `json:"contract_id" binding:"omitempty,uuid"`
	POID            string          `json:"po_id" binding:"omitempty,uuid"`
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description"`
	DeliverableType string          `json:"deliverable_type" binding:"omitempty,oneof=milestone period"`
	PeriodStart     *time.Time      `json:"period_start"`
	PeriodEnd       *time.Time      `json:"period_end"`
	DueDate         *time.Time      `json:"due_date"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

type ReviewDeliverableRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted partially_accepted rejected"`
	Notes    string `json:"notes"`
	Reason   string `json:"reason"` // required when rejecting
}

type DecidePAFRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Notes    string `json:"notes"`
}

type DeliverableFilter struct {
	Status   string
	VendorID string
	Page     int
	Limit    int
}

// --- Interface ---

type DeliverableService interface {
	Create(ctx context.Context, req CreateDeliverableRequest, actor Actor) (*model.Deliverable, error)
	GetByID(ctx context.Context, id string) (*model.Deliverable, error)
	List(ctx context.Context, filter DeliverableFilter, actor Actor) ([]model.Deliverable, int64, error)
	Review(ctx context.Context, id string, req ReviewDeliverableRequest, actor Actor) (*model.Deliverable, error)

	CreatePAF(ctx context.Context, deliverableID string, actor Actor) (*model.PaymentAuthorization, error)
	GetPAF(ctx context.Context, id string) (*model.PaymentAuthorization, error)
	ListPAFs(ctx context.Context, status string, page, limit int) ([]model.PaymentAuthorization, int64, error)
	DecidePAF(ctx context.Context, id string, req DecidePAFRequest, actor Actor) (*model.PaymentAuthorization, error)
	MarkPAFPaid(ctx context.Context, id string, actor Actor) (*model.PaymentAuthorization, error)
}

type deliverableService struct {
	db *gorm.DB
	tx repository.TransactionManager
}

// NewDeliverableService returns a new instance of DeliverableService
func NewDeliverableService(db *gorm.DB, tx repository.TransactionManager) DeliverableService {
	return &deliverableService{db: db, tx: tx}
}

// --- Deliverables ---

func (s *deliverableService) Create(ctx context.Context, req CreateDeliverableRequest, actor Actor) (*model.Deliverable, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vendor id", apperr.ErrPrecondition)
	}

	deliverableType := req.DeliverableType
	if deliverableType == "" {
		deliverableType = "milestone"
	}
	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}

	deliverable := model.Deliverable{
		VendorID:        vendorID,
		ContractID:      parseOptionalUUID(req.ContractID),
		POID:            parseOptionalUUID(req.POID),
		Title:           req.Title,
		Description:     req.Description,
		DeliverableType: deliverableType,
		PeriodStart:     req.PeriodStart,
		PeriodEnd:       req.PeriodEnd,
		DueDate:         req.DueDate,
		Amount:          req.Amount,
		Currency:        currency,
		Status:          model.DeliverableSubmitted,
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		deliverable.CreatedBy = &parsed
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "DEL")
		if err != nil {
			return err
		}
		deliverable.DeliverableNumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&deliverable).Error; err != nil {
			return fmt.Errorf("failed to create deliverable: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityDeliverable, deliverable.ID.String(), deliverable.DeliverableNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return &deliverable, nil
}

func (s *deliverableService) GetByID(ctx context.Context, id string) (*model.Deliverable, error) {
	var deliverable model.Deliverable
	if err := s.db.WithContext(ctx).First(&deliverable, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: deliverable %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &deliverable, nil
}

func (s *deliverableService) List(ctx context.Context, filter DeliverableFilter, actor Actor) ([]model.Deliverable, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Deliverable{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VendorID != "" {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if permission.ShouldFilterByOwner(actor.Role, permission.ModuleDashboard) {
		query = query.Where("created_by = ?", actor.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deliverables: %w", err)
	}

	var deliverables []model.Deliverable
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&deliverables).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch deliverables: %w", err)
	}
	return deliverables, total, nil
}

// Review records the accept/reject decision. Unlike the governed entities,
// deliverable review is a single-step action by a verifier.
func (s *deliverableService) Review(ctx context.Context, id string, req ReviewDeliverableRequest, actor Actor) (*model.Deliverable, error) {
	deliverable, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deliverable.Status != model.DeliverableSubmitted {
		return nil, fmt.Errorf("%w: deliverable already reviewed", apperr.ErrConflict)
	}
	if req.Decision == model.DeliverableRejected && req.Reason == "" {
		return nil, fmt.Errorf("%w: rejection requires a reason", apperr.ErrPrecondition)
	}

	now := time.Now().UTC()
	deliverable.Status = req.Decision
	deliverable.ReviewedAt = &now
	deliverable.ReviewNotes = req.Notes
	deliverable.RejectionReason = req.Reason
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		deliverable.ReviewedBy = &parsed
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(deliverable).Error; err != nil {
			return fmt.Errorf("failed to save deliverable review: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionReview, model.EntityDeliverable, deliverable.ID.String(), deliverable.DeliverableNumber, map[string]interface{}{
			"decision": req.Decision,
		})
	})
	if err != nil {
		return nil, err
	}
	return deliverable, nil
}

// --- Payment authorizations ---

// CreatePAF raises a payment authorization for an accepted deliverable,
// seeding the internal audit trail.
func (s *deliverableService) CreatePAF(ctx context.Context, deliverableID string, actor Actor) (*model.PaymentAuthorization, error) {
	deliverable, err := s.GetByID(ctx, deliverableID)
	if err != nil {
		return nil, err
	}
	if deliverable.Status != model.DeliverableAccepted && deliverable.Status != model.DeliverablePartiallyAccepted {
		return nil, fmt.Errorf("%w: deliverable must be accepted before payment authorization", apperr.ErrPrecondition)
	}
	var dup int64
	if err := s.db.WithContext(ctx).Model(&model.PaymentAuthorization{}).
		Where("deliverable_id = ? AND status <> ?", deliverable.ID, model.PaymentAuthRejected).Count(&dup).Error; err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, fmt.Errorf("%w: deliverable already has an open payment authorization", apperr.ErrConflict)
	}

	paf := model.PaymentAuthorization{
		DeliverableID: deliverable.ID,
		Amount:        deliverable.Amount,
		Currency:      deliverable.Currency,
		Status:        model.PaymentAuthPending,
		AuditTrail: []model.PAFAuditEntry{{
			Action:    model.ActionCreate,
			UserID:    actor.ID,
			Timestamp: time.Now().UTC(),
		}},
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		paf.CreatedBy = &parsed
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "PAF")
		if err != nil {
			return err
		}
		paf.PAFNumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&paf).Error; err != nil {
			return fmt.Errorf("failed to create payment authorization: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityPaymentAuth, paf.ID.String(), paf.PAFNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return &paf, nil
}

func (s *deliverableService) GetPAF(ctx context.Context, id string) (*model.PaymentAuthorization, error) {
	var paf model.PaymentAuthorization
	if err := s.db.WithContext(ctx).Preload("Deliverable").First(&paf, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: payment authorization %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &paf, nil
}

func (s *deliverableService) ListPAFs(ctx context.Context, status string, page, limit int) ([]model.PaymentAuthorization, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.PaymentAuthorization{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payment authorizations: %w", err)
	}

	var pafs []model.PaymentAuthorization
	offset := pagination.Offset(page, limit)
	if err := query.Preload("Deliverable").Order("created_at DESC").Offset(offset).Limit(limit).Find(&pafs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payment authorizations: %w", err)
	}
	return pafs, total, nil
}

func (s *deliverableService) DecidePAF(ctx context.Context, id string, req DecidePAFRequest, actor Actor) (*model.PaymentAuthorization, error) {
	paf, err := s.GetPAF(ctx, id)
	if err != nil {
		return nil, err
	}
	if paf.Status != model.PaymentAuthPending {
		return nil, fmt.Errorf("%w: payment authorization already decided", apperr.ErrConflict)
	}

	now := time.Now().UTC()
	paf.Status = req.Decision
	paf.Notes = req.Notes
	paf.DecidedAt = &now
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		paf.DecidedBy = &parsed
	}
	action := model.ActionApprove
	if req.Decision == model.PaymentAuthRejected {
		action = model.ActionReject
	}
	paf.AuditTrail = append(paf.AuditTrail, model.PAFAuditEntry{
		Action:    action,
		UserID:    actor.ID,
		Timestamp: now,
		Notes:     req.Notes,
	})

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(paf).Error; err != nil {
			return fmt.Errorf("failed to decide payment authorization: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, action, model.EntityPaymentAuth, paf.ID.String(), paf.PAFNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return paf, nil
}

func (s *deliverableService) MarkPAFPaid(ctx context.Context, id string, actor Actor) (*model.PaymentAuthorization, error) {
	paf, err := s.GetPAF(ctx, id)
	if err != nil {
		return nil, err
	}
	if paf.Status != model.PaymentAuthApproved {
		return nil, fmt.Errorf("%w: only approved payment authorizations can be paid", apperr.ErrPrecondition)
	}

	now := time.Now().UTC()
	paf.Status = model.PaymentAuthPaid
	paf.AuditTrail = append(paf.AuditTrail, model.PAFAuditEntry{
		Action:    model.ActionUpdate,
		UserID:    actor.ID,
		Timestamp: now,
		Notes:     "marked paid",
	})

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(paf).Error; err != nil {
			return fmt.Errorf("failed to mark payment authorization paid: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityPaymentAuth, paf.ID.String(), paf.PAFNumber, map[string]interface{}{
			"paid": true,
		})
	})
	if err != nil {
		return nil, err
	}
	return paf, nil
}
