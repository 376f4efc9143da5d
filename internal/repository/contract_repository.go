package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dcastellanos/obrax-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContractRepository defines the interface for contract data access
type ContractRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Contract, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error)
	FindByQuoteID(ctx context.Context, quoteID uint) (*models.Contract, error)
	CreateWithNumber(ctx context.Context, prefix string, contract *models.Contract) error
	Update(ctx context.Context, contract *models.Contract) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error)
	FindAll(ctx context.Context) ([]models.Contract, error)
	FindAllWithDetails(ctx context.Context) ([]models.Contract, error)
	ReplaceStages(ctx context.Context, contractID uint, stages []models.PaymentStage) error
	FindStages(ctx context.Context, contractID uint) ([]models.PaymentStage, error)
	FindStageByID(ctx context.Context, id uint) (*models.PaymentStage, error)
}

// ContractQuery extends ListQuery with contract-specific filters
type ContractQuery struct {
	*ListQuery
	Status string
	Year   int
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	// Stages, Payments and Expenses are one-to-many so each takes its own Preload.
	err := r.db.WithContext(ctx).
		Joins("Quote").
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC")
		}).
		Preload("Expenses", func(db *gorm.DB) *gorm.DB {
			return db.Order("expense_date ASC")
		}).
		Preload("Expenses.PaymentHistory").
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindByQuoteID(ctx context.Context, quoteID uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).Where("quote_id = ?", quoteID).First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// CreateWithNumber assigns the next sequential contract number for the current
// year and creates the contract (with its stages, if any) atomically. The
// per-year sequence row is locked so concurrent conversions never share a number.
func (r *contractRepository) CreateWithNumber(ctx context.Context, prefix string, contract *models.Contract) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		year := time.Now().Year()

		var seq models.ContractSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = models.ContractSequence{Year: year, LastNumber: 0}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
			// Re-acquire the lock; another transaction may have created the row first
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("year = ?", year).
				First(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		seq.LastNumber++
		if err := tx.Model(&models.ContractSequence{}).
			Where("year = ?", year).
			Update("last_number", seq.LastNumber).Error; err != nil {
			return err
		}

		contract.ContractNumber = fmt.Sprintf("%s-%d-%04d", prefix, year, seq.LastNumber)
		return tx.Create(contract).Error
	})
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

// Delete removes a contract and its stages atomically. The payment and
// expense counts are taken inside the transaction so a record created after
// the service's own check still blocks the delete.
func (r *contractRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payments int64
		if err := tx.Model(&models.ReceivedPayment{}).
			Where("contract_id = ?", id).
			Count(&payments).Error; err != nil {
			return err
		}
		var expenses int64
		if err := tx.Model(&models.Expense{}).
			Where("contract_id = ?", id).
			Count(&expenses).Error; err != nil {
			return err
		}
		if payments > 0 || expenses > 0 {
			return ErrContractHasRecords
		}

		if err := tx.Where("contract_id = ?", id).Delete(&models.PaymentStage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Contract{}, id).Error
	})
}

func (r *contractRepository) List(ctx context.Context, query *ContractQuery) ([]models.Contract, int64, error) {
	var contracts []models.Contract
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Contract{})

	if query.Status != "" {
		db = db.Where("contracts.status = ?", query.Status)
	}
	if query.Year > 0 {
		db = db.Where("EXTRACT(YEAR FROM contracts.created_at) = ?", query.Year)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN quotes ON quotes.id = contracts.quote_id").
			Where("contracts.contract_number ILIKE ? OR quotes.client_name ILIKE ? OR contracts.guid ILIKE ?",
				search, search, search)
	}

	// Count total using a separate session so the main query is not altered by Count()
	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("contracts.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Quote").
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&contracts).Error
	if err != nil {
		return nil, 0, err
	}

	return contracts, total, nil
}

func (r *contractRepository) FindAll(ctx context.Context) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).Find(&contracts).Error
	return contracts, err
}

// FindAllWithDetails loads every contract with payments and expenses attached.
// The global financial summary walks the full dataset, so everything comes
// back in three queries instead of N per contract.
func (r *contractRepository) FindAllWithDetails(ctx context.Context) ([]models.Contract, error) {
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Preload("Expenses").
		Find(&contracts).Error
	return contracts, err
}

// ReplaceStages swaps the full stage set of a contract in one transaction.
// Percentage validation happens in the service layer, but the linked-payment
// guard runs here, inside the transaction, so a payment assigned to a stage
// between the service's check and the swap still blocks it.
func (r *contractRepository) ReplaceStages(ctx context.Context, contractID uint, stages []models.PaymentStage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var linked int64
		if err := tx.Model(&models.ReceivedPayment{}).
			Where("contract_id = ? AND stage_id IS NOT NULL", contractID).
			Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return ErrStagesLinked
		}

		if err := tx.Where("contract_id = ?", contractID).Delete(&models.PaymentStage{}).Error; err != nil {
			return err
		}
		for i := range stages {
			stages[i].ID = 0
			stages[i].ContractID = contractID
			stages[i].Position = i + 1
		}
		if len(stages) == 0 {
			return nil
		}
		return tx.Create(&stages).Error
	})
}

func (r *contractRepository) FindStages(ctx context.Context, contractID uint) ([]models.PaymentStage, error) {
	var stages []models.PaymentStage
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("position ASC").
		Find(&stages).Error
	return stages, err
}

func (r *contractRepository) FindStageByID(ctx context.Context, id uint) (*models.PaymentStage, error) {
	var stage models.PaymentStage
	err := r.db.WithContext(ctx).First(&stage, id).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}
