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

type CreatePORequest struct {
	VendorID         string          `json:"vendor_id" binding:"required,uuid"`
	ContractID       string          `json:"contract_id" binding:"omitempty,uuid"`
	TenderID         string          `json:"tender_id" binding:"omitempty,uuid"`
	Description      string          `json:"description" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Currency         string          `json:"currency"`
	DeliveryLocation string          `json:"delivery_location"`
	DeliveryDueDate  *time.Time      `json:"delivery_due_date"`
}

type UpdatePORequest struct {
	Description      string           `json:"description"`
	Amount           *decimal.Decimal `json:"amount"`
	DeliveryLocation string           `json:"delivery_location"`
	DeliveryDueDate  *time.Time       `json:"delivery_due_date"`
}

type POFilter struct {
	Status   string
	VendorID string
	Search   string
	Page     int
	Limit    int
}

// --- Interface ---

type PurchaseOrderService interface {
	Create(ctx context.Context, req CreatePORequest, actor Actor) (*model.PurchaseOrder, error)
	GetByID(ctx context.Context, id string) (*model.PurchaseOrder, error)
	List(ctx context.Context, filter POFilter, actor Actor) ([]model.PurchaseOrder, int64, error)
	Update(ctx context.Context, id string, req UpdatePORequest, actor Actor) (*model.PurchaseOrder, error)
	Delete(ctx context.Context, id string, actor Actor) error
}

type purchaseOrderService struct {
	db *gorm.DB
	tx repository.TransactionManager
}

// NewPurchaseOrderService returns a new instance of PurchaseOrderService
func NewPurchaseOrderService(db *gorm.DB, tx repository.TransactionManager) PurchaseOrderService {
	return &purchaseOrderService{db: db, tx: tx}
}

// --- Implementation ---

func (s *purchaseOrderService) Create(ctx context.Context, req CreatePORequest, actor Actor) (*model.PurchaseOrder, error) {
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

	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}

	state, status := workflow.Create(actor.ID, actor.Name)
	po := model.PurchaseOrder{
		VendorID:         vendorID,
		Description:      req.Description,
		Amount:           req.Amount,
		Currency:         currency,
		DeliveryLocation: req.DeliveryLocation,
		DeliveryDueDate:  req.DeliveryDueDate,
		WorkflowEnvelope: model.WorkflowEnvelope{
			Status:   status,
			Workflow: state,
		},
	}
	if req.ContractID != "" {
		if cid, err := uuid.Parse(req.ContractID); err == nil {
			po.ContractID = &cid
		}
	}
	if req.TenderID != "" {
		if tid, err := uuid.Parse(req.TenderID); err == nil {
			po.TenderID = &tid
		}
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		po.CreatedBy = &parsed
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "PO")
		if err != nil {
			return err
		}
		po.PONumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&po).Error; err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityPurchaseOrder, po.ID.String(), po.PONumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (s *purchaseOrderService) GetByID(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := s.db.WithContext(ctx).Preload("Vendor").First(&po, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: purchase order %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &po, nil
}

func (s *purchaseOrderService) List(ctx context.Context, filter POFilter, actor Actor) ([]model.PurchaseOrder, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.PurchaseOrder{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VendorID != "" {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR po_number ILIKE ?", like, like)
	}
	if permission.ShouldFilterByOwner(actor.Role, permission.ModuleDashboard) {
		query = query.Where("created_by = ?", actor.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	var orders []model.PurchaseOrder
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.Preload("Vendor").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchase orders: %w", err)
	}
	return orders, total, nil
}

func (s *purchaseOrderService) Update(ctx context.Context, id string, req UpdatePORequest, actor Actor) (*model.PurchaseOrder, error) {
	po, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if po.CreatedBy != nil {
		owner = po.CreatedBy.String()
	}
	if err := ensureEditable(po.Status, owner, actor); err != nil {
		return nil, err
	}

	if req.Description != "" {
		po.Description = req.Description
	}
	if req.Amount != nil {
		po.Amount = *req.Amount
	}
	if req.DeliveryLocation != "" {
		po.DeliveryLocation = req.DeliveryLocation
	}
	if req.DeliveryDueDate != nil {
		po.DeliveryDueDate = req.DeliveryDueDate
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(po).Error; err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityPurchaseOrder, po.ID.String(), po.PONumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (s *purchaseOrderService) Delete(ctx context.Context, id string, actor Actor) error {
	po, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if po.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only draft purchase orders can be deleted", apperr.ErrPrecondition)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Delete(&model.PurchaseOrder{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete purchase order: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionDelete, model.EntityPurchaseOrder, id, po.PONumber, nil)
	})
}
