package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Vendor{},
		&model.VendorDD{},
		&model.Tender{},
		&model.Proposal{},
		&model.Contract{},
		&model.PurchaseOrder{},
		&model.Invoice{},
		&model.Resource{},
		&model.ServiceRequest{},
		&model.Building{},
		&model.Floor{},
		&model.AssetCategory{},
		&model.Asset{},
		&model.Deliverable{},
		&model.PaymentAuthorization{},
		&model.Notification{},
		&model.AuditLog{},
		&model.SequenceCounter{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
