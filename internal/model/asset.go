package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Building is a lookup entity for asset and service-request locations.
type Building struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	City      string    `gorm:"type:varchar(100)" json:"city"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Floor belongs to a building.
type Floor struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BuildingID uuid.UUID `gorm:"type:uuid;not null;index" json:"building_id"`
	Building   *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// AssetCategory groups assets for reporting.
type AssetCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Asset is a tracked physical asset, governed by the approval workflow when
// registered or disposed.
type Asset struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"asset_number"` // e.g. Asset-25-0001

	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category    *AssetCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	BuildingID *uuid.UUID `gorm:"type:uuid;index" json:"building_id"`
	FloorID    *uuid.UUID `gorm:"type:uuid;index" json:"floor_id"`
	RoomArea   string     `gorm:"type:varchar(100)" json:"room_area"`

	VendorID     *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id"` // supplying vendor, if any
	SerialNumber string          `gorm:"type:varchar(100)" json:"serial_number"`
	PurchaseCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"purchase_cost"`
	Currency     string          `gorm:"type:varchar(3);not null;default:'SAR'" json:"currency"`
	PurchasedAt  *time.Time      `json:"purchased_at"`

	WorkflowEnvelope `gorm:"embedded"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
