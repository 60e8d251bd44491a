package model

import (
	"time"

	"github.com/google/uuid"
)

// ServiceRequest priority enum constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ServiceRequest category enum constants
const (
	SRCategoryMaintenance = "maintenance"
	SRCategoryCleaning    = "cleaning"
	SRCategoryRelocation  = "relocation"
	SRCategorySafety      = "safety"
	SRCategoryITSupport   = "it_support"
	SRCategoryOther       = "other"
)

// ServiceRequest is an operational service request (OSR) raised against a
// vendor, optionally tied to a contract, asset, or location.
type ServiceRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestNumber string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"request_number"` // e.g. OSR-25-0001

	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"type:varchar(30);not null;default:'other'" json:"category"`
	Priority    string `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`

	VendorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor     *Vendor    `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	ContractID *uuid.UUID `gorm:"type:uuid;index" json:"contract_id"`
	AssetID    *uuid.UUID `gorm:"type:uuid;index" json:"asset_id"`

	BuildingID *uuid.UUID `gorm:"type:uuid;index" json:"building_id"`
	FloorID    *uuid.UUID `gorm:"type:uuid;index" json:"floor_id"`
	RoomArea   string     `gorm:"type:varchar(100)" json:"room_area"`

	WorkflowEnvelope `gorm:"embedded"`

	CreatedBy *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
