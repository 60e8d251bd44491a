package service

import (
	"context"
	"encoding/json"
	"fmt"

	"backend/internal/model"
	"backend/internal/permission"
	"backend/internal/repository"
	"backend/internal/workflow"
	"backend/pkg/apperr"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateVendorRequest struct {
	NameEnglish    string `json:"name_english" binding:"required"`
	CommercialName string `json:"commercial_name"`
	EntityType     string `json:"entity_type"`
	VendorType     string `json:"vendor_type" binding:"omitempty,oneof=local international"`
	Email          string `json:"email" binding:"omitempty,email"`
	Mobile         string `json:"mobile"`
	City           string `json:"city"`
	Country        string `json:"country"`
	VATNumber      string `json:"vat_number"`
	CRNumber       string `json:"cr_number"`
	BankName       string `json:"bank_name"`
	IBAN           string `json:"iban"`
}

type UpdateVendorRequest struct {
	NameEnglish    string `json:"name_english"`
	CommercialName string `json:"commercial_name"`
	EntityType     string `json:"entity_type"`
	VendorType     string `json:"vendor_type" binding:"omitempty,oneof=local international"`
	Email          string `json:"email" binding:"omitempty,email"`
	Mobile         string `json:"mobile"`
	City           string `json:"city"`
	Country        string `json:"country"`
	VATNumber      string `json:"vat_number"`
	CRNumber       string `json:"cr_number"`
	BankName       string `json:"bank_name"`
	IBAN           string `json:"iban"`
}

type VendorFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// --- Interface ---

type VendorService interface {
	Create(ctx context.Context, req CreateVendorRequest, actor Actor) (*model.Vendor, error)
	GetByID(ctx context.Context, id string) (*model.Vendor, error)
	List(ctx context.Context, filter VendorFilter, actor Actor) ([]model.Vendor, int64, error)
	Update(ctx context.Context, id string, req UpdateVendorRequest, actor Actor) (*model.Vendor, error)
	Delete(ctx context.Context, id string, actor Actor) error
	FinalApprovalGate(id string) FinalApproveGate
}

type vendorService struct {
	db *gorm.DB
	tx repository.TransactionManager
}

// NewVendorService returns a new instance of VendorService
func NewVendorService(db *gorm.DB, tx repository.TransactionManager) VendorService {
	return &vendorService{db: db, tx: tx}
}

// --- Implementation ---

func (s *vendorService) Create(ctx context.Context, req CreateVendorRequest, actor Actor) (*model.Vendor, error) {
	vendorType := req.VendorType
	if vendorType == "" {
		vendorType = model.VendorTypeLocal
	}

	state, status := workflow.Create(actor.ID, actor.Name)
	vendor := model.Vendor{
		NameEnglish:    req.NameEnglish,
		CommercialName: req.CommercialName,
		EntityType:     req.EntityType,
		VendorType:     vendorType,
		Email:          req.Email,
		Mobile:         req.Mobile,
		City:           req.City,
		Country:        req.Country,
		VATNumber:      req.VATNumber,
		CRNumber:       req.CRNumber,
		BankName:       req.BankName,
		IBAN:           req.IBAN,
		WorkflowEnvelope: model.WorkflowEnvelope{
			Status:   status,
			Workflow: state,
		},
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		vendor.CreatedBy = &parsed
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "Vendor")
		if err != nil {
			return err
		}
		vendor.VendorNumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&vendor).Error; err != nil {
			return fmt.Errorf("failed to create vendor: %w", err)
		}

		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityVendor, vendor.ID.String(), vendor.VendorNumber, map[string]interface{}{
			"name_english": vendor.NameEnglish,
			"vendor_type":  vendor.VendorType,
		})
	})
	if err != nil {
		return nil, err
	}

	return &vendor, nil
}

func (s *vendorService) GetByID(ctx context.Context, id string) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := s.db.WithContext(ctx).Preload("Creator").First(&vendor, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: vendor %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &vendor, nil
}

func (s *vendorService) List(ctx context.Context, filter VendorFilter, actor Actor) ([]model.Vendor, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Vendor{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name_english ILIKE ? OR commercial_name ILIKE ? OR vendor_number ILIKE ?", like, like, like)
	}
	// Row-level scoping: base requesters see only their own submissions
	if permission.ShouldFilterByOwner(actor.Role, permission.ModuleDashboard) {
		query = query.Where("created_by = ?", actor.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vendors: %w", err)
	}

	var vendors []model.Vendor
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&vendors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	return vendors, total, nil
}

func (s *vendorService) Update(ctx context.Context, id string, req UpdateVendorRequest, actor Actor) (*model.Vendor, error) {
	vendor, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if vendor.CreatedBy != nil {
		owner = vendor.CreatedBy.String()
	}
	if err := ensureEditable(vendor.Status, owner, actor); err != nil {
		return nil, err
	}

	if req.NameEnglish != "" {
		vendor.NameEnglish = req.NameEnglish
	}
	if req.CommercialName != "" {
		vendor.CommercialName = req.CommercialName
	}
	if req.EntityType != "" {
		vendor.EntityType = req.EntityType
	}
	if req.VendorType != "" {
		vendor.VendorType = req.VendorType
	}
	if req.Email != "" {
		vendor.Email = req.Email
	}
	if req.Mobile != "" {
		vendor.Mobile = req.Mobile
	}
	if req.City != "" {
		vendor.City = req.City
	}
	if req.Country != "" {
		vendor.Country = req.Country
	}
	if req.VATNumber != "" {
		vendor.VATNumber = req.VATNumber
	}
	if req.CRNumber != "" {
		vendor.CRNumber = req.CRNumber
	}
	if req.BankName != "" {
		vendor.BankName = req.BankName
	}
	if req.IBAN != "" {
		vendor.IBAN = req.IBAN
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(vendor).Error; err != nil {
			return fmt.Errorf("failed to update vendor: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityVendor, vendor.ID.String(), vendor.VendorNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) Delete(ctx context.Context, id string, actor Actor) error {
	vendor, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if vendor.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only draft vendors can be deleted", apperr.ErrPrecondition)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Delete(&model.Vendor{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete vendor: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionDelete, model.EntityVendor, id, vendor.VendorNumber, nil)
	})
}

// FinalApprovalGate blocks final approval of a high-risk vendor until a risk
// acceptance has been recorded on its due-diligence file. This is a business
// rule on the vendor record, not part of the generic workflow engine.
func (s *vendorService) FinalApprovalGate(id string) FinalApproveGate {
	return func(ctx context.Context) error {
		vendor, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if vendor.RiskCategory != model.RiskHigh && vendor.RiskCategory != model.RiskVeryHigh {
			return nil
		}

		var dd model.VendorDD
		err = s.db.WithContext(ctx).First(&dd, "vendor_id = ?", vendor.ID).Error
		if err == gorm.ErrRecordNotFound || (err == nil && dd.RiskAcceptance == nil) {
			return fmt.Errorf("%w: high-risk vendor requires a recorded risk acceptance before final approval", apperr.ErrPrecondition)
		}
		return err
	}
}

// --- shared helpers used across entity services ---

// ensureEditable enforces the edit rules shared by every governed entity:
// edits are allowed only in draft or returned_for_clarification, and base
// requesters may touch only their own records.
func ensureEditable(status workflow.Status, ownerID string, actor Actor) error {
	if status != workflow.StatusDraft && status != workflow.StatusReturned {
		return fmt.Errorf("%w: record in status %s is not editable", apperr.ErrPrecondition, status)
	}
	if actor.Role == permission.RoleUser && ownerID != "" && ownerID != actor.ID {
		return fmt.Errorf("%w: users may only edit their own records", apperr.ErrPermission)
	}
	return nil
}

// parseOptionalUUID returns nil for empty or malformed input.
func parseOptionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// writeAudit inserts one audit row inside the caller's transaction.
func writeAudit(ctx context.Context, db *gorm.DB, actor Actor, action, entityType, entityID, entityName string, details map[string]interface{}) error {
	var userID *uuid.UUID
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		userID = &parsed
	}
	payload := ""
	if details != nil {
		raw, _ := json.Marshal(details)
		payload = string(raw)
	}
	audit := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	}
	if err := repository.GetDB(ctx, db).Create(&audit).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
