package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dcastellanos/obrax-api/internal/models"
	"gorm.io/gorm"
)

// SnapshotVersion tags exported documents so old dumps stay importable
const SnapshotVersion = 1

// Snapshot is the full ledger state as independent keyed buckets. Any
// storage backend can persist it; importing one replaces everything.
type Snapshot struct {
	Version        int                             `json:"version"`
	ExportedAt     time.Time                       `json:"exported_at"`
	Quotes         []models.Quote                  `json:"quotes"`
	Contracts      []models.Contract               `json:"contracts"`
	Stages         []models.PaymentStage           `json:"stages"`
	Payments       []models.ReceivedPayment        `json:"payments"`
	Expenses       []models.Expense                `json:"expenses"`
	ExpenseHistory []models.ExpensePayment         `json:"expense_history"`
	Suppliers      []models.Supplier               `json:"suppliers"`
	Workers        []models.Worker                 `json:"workers"`
	Subcontractors []models.Subcontractor          `json:"subcontractors"`
	Agreements     []models.SubcontractorAgreement `json:"agreements"`
	Sequences      []models.ContractSequence       `json:"sequences"`
}

// SnapshotService moves the whole ledger state in and out of the database.
// It works on the raw connection since it crosses every collection at once.
type SnapshotService struct {
	db *gorm.DB
}

func NewSnapshotService(db *gorm.DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// Export reads every collection into one snapshot document
func (s *SnapshotService) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
	}

	db := s.db.WithContext(ctx)
	collections := []struct {
		name string
		dest interface{}
	}{
		{"quotes", &snap.Quotes},
		{"contracts", &snap.Contracts},
		{"stages", &snap.Stages},
		{"payments", &snap.Payments},
		{"expenses", &snap.Expenses},
		{"expense history", &snap.ExpenseHistory},
		{"suppliers", &snap.Suppliers},
		{"workers", &snap.Workers},
		{"subcontractors", &snap.Subcontractors},
		{"agreements", &snap.Agreements},
		{"sequences", &snap.Sequences},
	}
	for _, c := range collections {
		if err := db.Find(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", c.name, err)
		}
	}

	return snap, nil
}

// Import replaces every collection with the snapshot contents inside a
// single transaction. Either the whole state lands or none of it does.
func (s *SnapshotService) Import(ctx context.Context, snap *Snapshot) error {
	if snap.Version > SnapshotVersion {
		return fmt.Errorf("%w: versión de respaldo %d no soportada", ErrValidation, snap.Version)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children first so foreign keys never dangle mid-import
		tables := []interface{}{
			&models.ExpensePayment{},
			&models.Expense{},
			&models.ReceivedPayment{},
			&models.SubcontractorAgreement{},
			&models.PaymentStage{},
			&models.Contract{},
			&models.Quote{},
			&models.Supplier{},
			&models.Worker{},
			&models.Subcontractor{},
			&models.ContractSequence{},
		}
		for _, table := range tables {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return err
			}
		}

		buckets := []struct {
			name   string
			create func() error
		}{
			{"quotes", func() error { return createAll(tx, snap.Quotes) }},
			{"contracts", func() error { return createAll(tx, snap.Contracts) }},
			{"stages", func() error { return createAll(tx, snap.Stages) }},
			{"payments", func() error { return createAll(tx, snap.Payments) }},
			{"expenses", func() error { return createAll(tx, snap.Expenses) }},
			{"expense history", func() error { return createAll(tx, snap.ExpenseHistory) }},
			{"suppliers", func() error { return createAll(tx, snap.Suppliers) }},
			{"workers", func() error { return createAll(tx, snap.Workers) }},
			{"subcontractors", func() error { return createAll(tx, snap.Subcontractors) }},
			{"agreements", func() error { return createAll(tx, snap.Agreements) }},
			{"sequences", func() error { return createAll(tx, snap.Sequences) }},
		}
		for _, b := range buckets {
			if err := b.create(); err != nil {
				return fmt.Errorf("failed to import %s: %w", b.name, err)
			}
		}

		return nil
	})
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	// Associations come in their own buckets; creating them again through
	// the parent would duplicate rows
	return tx.Omit("Quote", "Stages", "Payments", "Expenses", "PaymentHistory", "Contract", "Stage", "Subcontractor").Create(&rows).Error
}
