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

type CreateAssetRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	CategoryID   string          `json:"category_id" binding:"omitempty,uuid"`
	BuildingID   string          `json:"building_id" binding:"omitempty,uuid"`
	FloorID      string          `json:"floor_id" binding:"omitempty,uuid"`
	RoomArea     string          `json:"room_area"`
	VendorID     string          `json:"vendor_id" binding:"omitempty,uuid"`
	SerialNumber string          `json:"serial_number"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	Currency     string          `json:"currency"`
	PurchasedAt  *time.Time      `json:"purchased_at"`
}

type UpdateAssetRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	CategoryID   string           `json:"category_id" binding:"omitempty,uuid"`
	BuildingID   string           `json:"building_id" binding:"omitempty,uuid"`
	FloorID      string           `json:"floor_id" binding:"omitempty,uuid"`
	RoomArea     string           `json:"room_area"`
	SerialNumber string           `json:"serial_number"`
	PurchaseCost *decimal.Decimal `json:"purchase_cost"`
}

type AssetFilter struct {
	Status     string
	CategoryID string
	BuildingID string
	Search     string
	Page       int
	Limit      int
}

type CreateBuildingRequest struct {
	Name    string `json:"name" binding:"required"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type CreateFloorRequest struct {
	BuildingID string `json:"building_id" binding:"required,uuid"`
	Name       string `json:"name" binding:"required"`
}

type CreateAssetCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Interface ---

type AssetService interface {
	Create(ctx context.Context, req CreateAssetRequest, actor Actor) (*model.Asset, error)
	GetByID(ctx context.Context, id string) (*model.Asset, error)
	List(ctx context.Context, filter AssetFilter, actor Actor) ([]model.Asset, int64, error)
	Update(ctx context.Context, id string, req UpdateAssetRequest, actor Actor) (*model.Asset, error)
	Delete(ctx context.Context, id string, actor Actor) error

	CreateBuilding(ctx context.Context, req CreateBuildingRequest) (*model.Building, error)
	ListBuildings(ctx context.Context) ([]model.Building, error)
	CreateFloor(ctx context.Context, req CreateFloorRequest) (*model.Floor, error)
	ListFloors(ctx context.Context, buildingID string) ([]model.Floor, error)
	CreateCategory(ctx context.Context, req CreateAssetCategoryRequest) (*model.AssetCategory, error)
	ListCategories(ctx context.Context) ([]model.AssetCategory, error)
}

type assetService struct {
	db *gorm.DB
	tx repository.TransactionManager
}

// NewAssetService returns a new instance of AssetService
func NewAssetService(db *gorm.DB, tx repository.TransactionManager) AssetService {
	return &assetService{db: db, tx: tx}
}

// --- Assets ---

func (s *assetService) Create(ctx context.Context, req CreateAssetRequest, actor Actor) (*model.Asset, error) {
	currency := req.Currency
	if currency == "" {
		currency = "SAR"
	}

	state, status := workflow.Create(actor.ID, actor.Name)
	asset := model.Asset{
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   parseOptionalUUID(req.CategoryID),
		BuildingID:   parseOptionalUUID(req.BuildingID),
		FloorID:      parseOptionalUUID(req.FloorID),
		RoomArea:     req.RoomArea,
		VendorID:     parseOptionalUUID(req.VendorID),
		SerialNumber: req.SerialNumber,
		PurchaseCost: req.PurchaseCost,
		Currency:     currency,
		PurchasedAt:  req.PurchasedAt,
		WorkflowEnvelope: model.WorkflowEnvelope{
			Status:   status,
			Workflow: state,
		},
	}
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		asset.CreatedBy = &parsed
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := repository.NextNumber(txCtx, s.db, "Asset")
		if err != nil {
			return err
		}
		asset.AssetNumber = number

		if err := repository.GetDB(txCtx, s.db).Create(&asset).Error; err != nil {
			return fmt.Errorf("failed to create asset: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionCreate, model.EntityAsset, asset.ID.String(), asset.AssetNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *assetService) GetByID(ctx context.Context, id string) (*model.Asset, error) {
	var asset model.Asset
	if err := s.db.WithContext(ctx).Preload("Category").First(&asset, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: asset %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &asset, nil
}

func (s *assetService) List(ctx context.Context, filter AssetFilter, actor Actor) ([]model.Asset, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Asset{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.BuildingID != "" {
		query = query.Where("building_id = ?", filter.BuildingID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR asset_number ILIKE ? OR serial_number ILIKE ?", like, like, like)
	}
	if permission.ShouldFilterByOwner(actor.Role, permission.ModuleDashboard) {
		query = query.Where("created_by = ?", actor.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	var assets []model.Asset
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.Preload("Category").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assets: %w", err)
	}
	return assets, total, nil
}

func (s *assetService) Update(ctx context.Context, id string, req UpdateAssetRequest, actor Actor) (*model.Asset, error) {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner := ""
	if asset.CreatedBy != nil {
		owner = asset.CreatedBy.String()
	}
	if err := ensureEditable(asset.Status, owner, actor); err != nil {
		return nil, err
	}

	if req.Name != "" {
		asset.Name = req.Name
	}
	if req.Description != "" {
		asset.Description = req.Description
	}
	if req.CategoryID != "" {
		asset.CategoryID = parseOptionalUUID(req.CategoryID)
	}
	if req.BuildingID != "" {
		asset.BuildingID = parseOptionalUUID(req.BuildingID)
	}
	if req.FloorID != "" {
		asset.FloorID = parseOptionalUUID(req.FloorID)
	}
	if req.RoomArea != "" {
		asset.RoomArea = req.RoomArea
	}
	if req.SerialNumber != "" {
		asset.SerialNumber = req.SerialNumber
	}
	if req.PurchaseCost != nil {
		asset.PurchaseCost = *req.PurchaseCost
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Save(asset).Error; err != nil {
			return fmt.Errorf("failed to update asset: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionUpdate, model.EntityAsset, asset.ID.String(), asset.AssetNumber, nil)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *assetService) Delete(ctx context.Context, id string, actor Actor) error {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if asset.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only draft assets can be deleted", apperr.ErrPrecondition)
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := repository.GetDB(txCtx, s.db).Delete(&model.Asset{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete asset: %w", err)
		}
		return writeAudit(txCtx, s.db, actor, model.ActionDelete, model.EntityAsset, id, asset.AssetNumber, nil)
	})
}

// --- Location and category lookups ---

func (s *assetService) CreateBuilding(ctx context.Context, req CreateBuildingRequest) (*model.Building, error) {
	building := model.Building{Name: req.Name, City: req.City, Address: req.Address}
	if err := s.db.WithContext(ctx).Create(&building).Error; err != nil {
		return nil, fmt.Errorf("failed to create building: %w", err)
	}
	return &building, nil
}

func (s *assetService) ListBuildings(ctx context.Context) ([]model.Building, error) {
	var buildings []model.Building
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&buildings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch buildings: %w", err)
	}
	return buildings, nil
}

func (s *assetService) CreateFloor(ctx context.Context, req CreateFloorRequest) (*model.Floor, error) {
	buildingID, err := uuid.Parse(req.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid building id", apperr.ErrPrecondition)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Building{}).Where("id = ?", buildingID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: building %s", apperr.ErrNotFound, req.BuildingID)
	}

	floor := model.Floor{BuildingID: buildingID, Name: req.Name}
	if err := s.db.WithContext(ctx).Create(&floor).Error; err != nil {
		return nil, fmt.Errorf("failed to create floor: %w", err)
	}
	return &floor, nil
}

func (s *assetService) ListFloors(ctx context.Context, buildingID string) ([]model.Floor, error) {
	query := s.db.WithContext(ctx).Model(&model.Floor{})
	if buildingID != "" {
		query = query.Where("building_id = ?", buildingID)
	}
	var floors []model.Floor
	if err := query.Order("name ASC").Find(&floors).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch floors: %w", err)
	}
	return floors, nil
}

func (s *assetService) CreateCategory(ctx context.Context, req CreateAssetCategoryRequest) (*model.AssetCategory, error) {
	category := model.AssetCategory{Name: req.Name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create asset category: %w", err)
	}
	return &category, nil
}

func (s *assetService) ListCategories(ctx context.Context) ([]model.AssetCategory, error) {
	var categories []model.AssetCategory
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch asset categories: %w", err)
	}
	return categories, nil
}
