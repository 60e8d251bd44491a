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

type CreateInvoiceRequest struct {
	VendorID   string          `json:"vendor_id" binding:"required,uuid"`
	ContractID string          `json:"contract_id" binding:"omitempty,uuid"`
	POID       string          `json:"po_id" binding:"omitempty,uuid"`
	Subtotal   decimal.Decimal `json:"subtotal" binding:"required"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	Currency   string          `json:"currency"`
	InvoiceDate time.Time      `json:"invoice_date" binding:"required"`
	DueDate     time.Time      `json:"due_date" binding:"required"`
	Note        string         `json:"note"`
}

type UpdateInvoiceRequest struct {
	Subtotal  *decimal.Decimal `json:"subtotal"`
	TaxAmount *decimal.Decimal `json:"tax_amount"`
	DueDate   *time.Time       `json:"due_date"`
	Note      string           `json:"note"`
}

type InvoiceFilter struct {
	Status   string
	VendorID string
	Unpaid   bool
	Page     int
	Limit    int
}

// --- Interface ---

type InvoiceService interface {
	Create(ctx context.Context, req CreateInvoiceRequest, actor Actor) (*model.Invoice, error)
	GetByID(ctx context.Context, id string) (*model.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter, actor Actor) ([]model.Invoice, int64, error)
	Update(ctx context.Context, id string, req UpdateInvoiceRequest, actor Actor) (*model.Invoice, error)
	Delete(ctx context.Context, id string, actor Actor) error
	MarkPaid(ctx context.Context, id string, actor Actor) (*model.Invoice, error)
}

type invoiceService struct {
	db *gorm.DB
	tx repository.TransactionManager
}

// NewInvoiceService returns a new instance of InvoiceService
func NewInvoiceService(db *gorm.DB, tx repository.TransactionManager) InvoiceService {
	return &invoiceService{db: db, tx: tx}
}

// --- Implementation ---

func (s *invoiceService) Create(ctx context.Context, req CreateInvoiceRequest, actor Actor) (*model.Invoice, error) {
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
	if req.Subtotal.IsNegative() || req.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: invoice amounts cannot be negative", apperr.ErrPrecondition)
	}

	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}

	state, status := workflow.Create(actor.ID, actor.Name)
	invoice := model.Invoice{
		VendorID:    vendorID,
		Subtotal:    req.Subtotal,
		TaxAmount:   req.TaxAmount,
		TotalAmount: req.Subtotal.Add(req.TaxAmount),
		Currency:    currency,
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
		Note:        req.Note,
		WorkflowEnvelope: model.WorkflowEnvelope{
			Status:   status,
			Workflow: state,
		},
	}
	if req.ContractID != "" {
		if cid, err := uuid.Parse(req.ContractID); err == nil {
			invoice.ContractID = &cid
		}
	}
	if req.POID != "" {
		if pid, err := uuid.Parse(req.POID); err == nil {
			invoice.POID = &pid
		}
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		invoice.CreatedBy = &parsed
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "Invoice")
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&invoice).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityInvoice, invoice.ID.String(), invoice.InvoiceNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := s.db.WithContext(ctx).Preload("Vendor").First(&invoice, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: invoice %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &invoice, nil
}

func (s *invoiceService) List(ctx context.Context, filter InvoiceFilter, actor Actor) ([]model.Invoice, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Invoice{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VendorID != "" {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Unpaid {
		query = query.Where("paid_at IS NULL")
	}
	if permission.ShouldFilterByOwner(actor.Role, permission.ModuleDashboard) {
		query = query.Where("created_by = ?", actor.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	var invoices []model.Invoice
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.Preload("Vendor").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}
	return invoices, total, nil
}

func (s *invoiceService) Update(ctx context.Context, id string, req UpdateInvoiceRequest, actor Actor) (*model.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if invoice.CreatedBy != nil {
		owner = invoice.CreatedBy.String()
	}
	if err := ensureEditable(invoice.Status, owner, actor); err != nil {
		return nil, err
	}

	if req.Subtotal != nil {
		invoice.Subtotal = *req.Subtotal
	}
	if req.TaxAmount != nil {
		invoice.TaxAmount = *req.TaxAmount
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if req.Note != "" {
		invoice.Note = req.Note
	}
	if invoice.Subtotal.IsNegative() || invoice.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: invoice amounts cannot be negative", apperr.ErrPrecondition)
	}
	invoice.TotalAmount = invoice.Subtotal.Add(invoice.TaxAmount)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(invoice).Error; err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityInvoice, invoice.ID.String(), invoice.InvoiceNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) Delete(ctx context.Context, id string, actor Actor) error {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only draft invoices can be deleted", apperr.ErrPrecondition)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Delete(&model.Invoice{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionDelete, model.EntityInvoice, id, invoice.InvoiceNumber, nil)
	})
}

// MarkPaid records disbursal on a final-approved invoice.
func (s *invoiceService) MarkPaid(ctx context.Context, id string, actor Actor) (*model.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != workflow.StatusFinalApproved {
		return nil, fmt.Errorf("%w: invoice must be final approved before payment", apperr.ErrPrecondition)
	}
	if invoice.PaidAt != nil {
		return nil, fmt.Errorf("%w: invoice already paid", apperr.ErrConflict)
	}

	now := time.Now().UTC()
	invoice.PaidAt = &now

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(invoice).Error; err != nil {
			return fmt.Errorf("failed to mark invoice paid: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityInvoice, invoice.ID.String(), invoice.InvoiceNumber, map[string]interface{}{
			"paid": true,
		})
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
