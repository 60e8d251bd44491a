package service

import (
	"context"
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

type CreateServiceRequestRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"omitempty,oneof=maintenance cleaning relocation safety it_support other"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	VendorID    string `json:"vendor_id" binding:"required,uuid"`
	ContractID  string `json:"contract_id" binding:"omitempty,uuid"`
	AssetID     string `json:"asset_id" binding:"omitempty,uuid"`
	BuildingID  string `json:"building_id" binding:"omitempty,uuid"`
	FloorID     string `json:"floor_id" binding:"omitempty,uuid"`
	RoomArea    string `json:"room_area"`
}

type UpdateServiceRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"omitempty,oneof=maintenance cleaning relocation safety it_support other"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	RoomArea    string `json:"room_area"`
}

type ServiceRequestFilter struct {
	Status   string
	Category string
	Priority string
	Search   string
	Page     int
	Limit    int
}

// --- Interface ---

type ServiceRequestService interface {
	Create(ctx context.Context, req CreateServiceRequestRequest, actor Actor) (*model.ServiceRequest, error)
	GetByID(ctx context.Context, id string) (*model.ServiceRequest, error)
	List(ctx context.Context, filter ServiceRequestFilter, actor Actor) ([]model.ServiceRequest, int64, error)
	Update(ctx context.Context, id string, req UpdateServiceRequestRequest, actor Actor) (*model.ServiceRequest, error)
	Delete(ctx context.Context, id string, actor Actor) error
}

type serviceRequestService struct {
	db *gorm.DB
	tx repository.TransactionManager
}

// NewServiceRequestService returns a new instance of ServiceRequestService
func NewServiceRequestService(db *gorm.DB, tx repository.TransactionManager) ServiceRequestService {
	return &serviceRequestService{db: db, tx: tx}
}

// --- Implementation ---

func (s *serviceRequestService) Create(ctx context.Context, req CreateServiceRequestRequest, actor Actor) (*model.ServiceRequest, error) {
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

	category := req.Category
	if category == "" {
		category = model.SRCategoryOther
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	state, status := workflow.Create(actor.ID, actor.Name)
	sr := model.ServiceRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Priority:    priority,
		VendorID:    vendorID,
		RoomArea:    req.RoomArea,
		WorkflowEnvelope: model.WorkflowEnvelope{
			Status:   status,
			Workflow: state,
		},
	}
	sr.ContractID = parseOptionalUUID(req.ContractID)
	sr.AssetID = parseOptionalUUID(req.AssetID)
	sr.BuildingID = parseOptionalUUID(req.BuildingID)
	sr.FloorID = parseOptionalUUID(req.FloorID)
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		sr.CreatedBy = &parsed
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "OSR")
		if err != nil {
			return err
		}
		sr.RequestNumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&sr).Error; err != nil {
			return fmt.Errorf("failed to create service request: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityServiceRequest, sr.ID.String(), sr.RequestNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (s *serviceRequestService) GetByID(ctx context.Context, id string) (*model.ServiceRequest, error) {
	var sr model.ServiceRequest
	if err := s.db.WithContext(ctx).Preload("Vendor").First(&sr, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: service request %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &sr, nil
}

func (s *serviceRequestService) List(ctx context.Context, filter ServiceRequestFilter, actor Actor) ([]model.ServiceRequest, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.ServiceRequest{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR request_number ILIKE ?", like, like)
	}
	if permission.ShouldFilterByOwner(actor.Role, permission.ModuleDashboard) {
		query = query.Where("created_by = ?", actor.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count service requests: %w", err)
	}

	var requests []model.ServiceRequest
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.Preload("Vendor").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch service requests: %w", err)
	}
	return requests, total, nil
}

func (s *serviceRequestService) Update(ctx context.Context, id string, req UpdateServiceRequestRequest, actor Actor) (*model.ServiceRequest, error) {
	sr, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if sr.CreatedBy != nil {
		owner = sr.CreatedBy.String()
	}
	if err := ensureEditable(sr.Status, owner, actor); err != nil {
		return nil, err
	}

	if req.Title != "" {
		sr.Title = req.Title
	}
	if req.Description != "" {
		sr.Description = req.Description
	}
	if req.Category != "" {
		sr.Category = req.Category
	}
	if req.Priority != "" {
		sr.Priority = req.Priority
	}
	if req.RoomArea != "" {
		sr.RoomArea = req.RoomArea
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(sr).Error; err != nil {
			return fmt.Errorf("failed to update service request: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityServiceRequest, sr.ID.String(), sr.RequestNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return sr, nil
}

func (s *serviceRequestService) Delete(ctx context.Context, id string, actor Actor) error {
	sr, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sr.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only draft service requests can be deleted", apperr.ErrPrecondition)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Delete(&model.ServiceRequest{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete service request: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionDelete, model.EntityServiceRequest, id, sr.RequestNumber, nil)
	})
}
