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

type CreateResourceRequest struct {
	VendorID    string          `json:"vendor_id" binding:"required,uuid"`
	ContractID  string          `json:"contract_id" binding:"omitempty,uuid"`
	FullName    string          `json:"full_name" binding:"required"`
	JobTitle    string          `json:"job_title"`
	Department  string          `json:"department"`
	Nationality string          `json:"nationality"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
	Currency    string          `json:"currency"`
	StartDate   *time.Time      `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
}

type UpdateResourceRequest struct {
	FullName    string           `json:"full_name"`
	JobTitle    string           `json:"job_title"`
	Department  string           `json:"department"`
	Nationality string           `json:"nationality"`
	MonthlyRate *decimal.Decimal `json:"monthly_rate"`
	StartDate   *time.Time       `json:"start_date"`
	EndDate     *time.Time       `json:"end_date"`
}

type ResourceFilter struct {
	Status     string
	VendorID   string
	Department string
	Search     string
	Page       int
	Limit      int
}

// --- Interface ---

type ResourceService interface {
	Create(ctx context.Context, req CreateResourceRequest, actor Actor) (*model.Resource, error)
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	List(ctx context.Context, filter ResourceFilter, actor Actor) ([]model.Resource, int64, error)
	Update(ctx context.Context, id string, req UpdateResourceRequest, actor Actor) (*model.Resource, error)
	Delete(ctx context.Context, id string, actor Actor) error
}

type resourceService struct {
	db *gorm.DB
	tx repository.TransactionManager
}

// NewResourceService returns a new instance of ResourceService
func NewResourceService(db *gorm.DB, tx repository.TransactionManager) ResourceService {
	return &resourceService{db: db, tx: tx}
}

// --- Implementation ---

func (s *resourceService) Create(ctx context.Context, req CreateResourceRequest, actor Actor) (*model.Resource, error) {
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
	resource := model.Resource{
		VendorID:    vendorID,
		FullName:    req.FullName,
		JobTitle:    req.JobTitle,
		Department:  req.Department,
		Nationality: req.Nationality,
		MonthlyRate: req.MonthlyRate,
		Currency:    currency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		WorkflowEnvelope: model.WorkflowEnvelope{
			Status:   status,
			Workflow: state,
		},
	}
	if req.ContractID != "" {
		if cid, err := uuid.Parse(req.ContractID); err == nil {
			resource.ContractID = &cid
		}
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		resource.CreatedBy = &parsed
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "Resource")
		if err != nil {
			return err
		}
		resource.ResourceNumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&resource).Error; err != nil {
			return fmt.Errorf("failed to create resource: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityResource, resource.ID.String(), resource.ResourceNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	var resource model.Resource
	if err := s.db.WithContext(ctx).Preload("Vendor").First(&resource, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: resource %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &resource, nil
}

func (s *resourceService) List(ctx context.Context, filter ResourceFilter, actor Actor) ([]model.Resource, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Resource{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VendorID != "" {
		query = query.Where("vendor_id = ?", filter.VendorID)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR resource_number ILIKE ?", like, like)
	}
	if permission.ShouldFilterByOwner(actor.Role, permission.ModuleDashboard) {
		query = query.Where("created_by = ?", actor.ID)
	}
	// Direct managers see only resources engaged in their own department.
	if permission.ShouldFilterByDomain(actor.Role, permission.ModuleDashboard) && actor.Department != "" {
		query = query.Where("department = ?", actor.Department)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count resources: %w", err)
	}

	var resources []model.Resource
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.Preload("Vendor").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&resources).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch resources: %w", err)
	}
	return resources, total, nil
}

func (s *resourceService) Update(ctx context.Context, id string, req UpdateResourceRequest, actor Actor) (*model.Resource, error) {
	resource, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if resource.CreatedBy != nil {
		owner = resource.CreatedBy.String()
	}
	if err := ensureEditable(resource.Status, owner, actor); err != nil {
		return nil, err
	}

	if req.FullName != "" {
		resource.FullName = req.FullName
	}
	if req.JobTitle != "" {
		resource.JobTitle = req.JobTitle
	}
	if req.Department != "" {
		resource.Department = req.Department
	}
	if req.Nationality != "" {
		resource.Nationality = req.Nationality
	}
	if req.MonthlyRate != nil {
		resource.MonthlyRate = *req.MonthlyRate
	}
	if req.StartDate != nil {
		resource.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		resource.EndDate = req.EndDate
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(resource).Error; err != nil {
			return fmt.Errorf("failed to update resource: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityResource, resource.ID.String(), resource.ResourceNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *resourceService) Delete(ctx context.Context, id string, actor Actor) error {
	resource, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if resource.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only draft resources can be deleted", apperr.ErrPrecondition)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Delete(&model.Resource{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete resource: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionDelete, model.EntityResource, id, resource.ResourceNumber, nil)
	})
}
