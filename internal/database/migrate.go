package database

import (
	"github.com/dcastellanos/obrax-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every model. Order matters:
// parents before the tables that reference them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Quote{},
		&models.ContractSequence{},
		&models.Contract{},
		&models.PaymentStage{},
		&models.ReceivedPayment{},
		&models.Supplier{},
		&models.Worker{},
		&models.Subcontractor{},
		&models.Expense{},
		&models.ExpensePayment{},
		&models.SubcontractorAgreement{},
		&models.AuditLog{},
	)
}
