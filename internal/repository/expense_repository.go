package repository

import (
	"context"

	"github.com/dcastellanos/obrax-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpenseRepository defines the interface for expense data access
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Expense, error)
	FindByContract(ctx context.Context, contractID uint) ([]models.Expense, error)
	FindByBeneficiary(ctx context.Context, kind string, beneficiaryID uint, contractID *uint) ([]models.Expense, error)
	FindAll(ctx context.Context) ([]models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Expense, int64, error)
	RecordSettlement(ctx context.Context, expenseID uint, settlement *models.ExpensePayment) error
	CountByBeneficiary(ctx context.Context, kind string, beneficiaryID uint) (int64, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.WithContext(ctx).
		Preload("PaymentHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, id ASC")
		}).
		First(&expense, id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) FindByContract(ctx context.Context, contractID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Preload("PaymentHistory").
		Where("contract_id = ?", contractID).
		Order("expense_date ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) FindByBeneficiary(ctx context.Context, kind string, beneficiaryID uint, contractID *uint) ([]models.Expense, error) {
	var expenses []models.Expense
	db := r.db.WithContext(ctx).
		Preload("PaymentHistory").
		Where("beneficiary_kind = ? AND beneficiary_id = ?", kind, beneficiaryID)
	if contractID != nil {
		db = db.Where("contract_id = ?", *contractID)
	}
	err := db.Order("expense_date ASC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) FindAll(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).Preload("PaymentHistory").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", id).Delete(&models.ExpensePayment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Expense{}, id).Error
	})
}

// applyExpenseFilters translates the list query into WHERE clauses. Kept
// separate from List so the translation is testable without a database.
func applyExpenseFilters(db *gorm.DB, query *ListQuery) *gorm.DB {
	if val, ok := query.Filters["contract_id"]; ok && val != "" {
		db = db.Where("expenses.contract_id = ?", val)
	}
	if val, ok := query.Filters["category"]; ok && val != "" {
		db = db.Where("expenses.category = ?", val)
	}
	if val, ok := query.Filters["payment_method"]; ok && val != "" {
		db = db.Where("expenses.payment_method = ?", val)
	}
	if val, ok := query.Filters["beneficiary_kind"]; ok && val != "" {
		db = db.Where("expenses.beneficiary_kind = ?", val)
	}
	if val, ok := query.Filters["beneficiary_id"]; ok && val != "" {
		db = db.Where("expenses.beneficiary_id = ?", val)
	}
	if val, ok := query.Filters["start_date"]; ok && val != "" {
		db = db.Where("expenses.expense_date >= ?", val)
	}
	if val, ok := query.Filters["end_date"]; ok && val != "" {
		endDate := val
		if len(endDate) == 10 {
			endDate += " 23:59:59"
		}
		db = db.Where("expenses.expense_date <= ?", endDate)
	}
	// Virtual filter: credit expenses not yet fully settled
	if val, ok := query.Filters["pending"]; ok && val == "true" {
		db = db.Where("expenses.payment_method = ? AND expenses.paid_amount < expenses.amount", models.PaymentMethodCredit)
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("expenses.description ILIKE ? OR COALESCE(expenses.notes, '') ILIKE ?", search, search)
	}

	return db
}

func (r *expenseRepository) List(ctx context.Context, query *ListQuery) ([]models.Expense, int64, error) {
	var expenses []models.Expense
	var total int64

	db := applyExpenseFilters(r.db.WithContext(ctx).Model(&models.Expense{}), query)

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "expenses." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("expenses.expense_date DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("PaymentHistory").
		Preload("Contract").
		Find(&expenses).Error
	return expenses, total, err
}

// RecordSettlement appends a payment to the expense history and bumps
// paid_amount in the same transaction. The expense row is locked and the
// outstanding balance re-checked under the lock, so two concurrent
// settlements can never both spend the same debt: the loser of the race
// gets ErrSettlementConflict instead of silently overdrawing.
func (r *expenseRepository) RecordSettlement(ctx context.Context, expenseID uint, settlement *models.ExpensePayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expense models.Expense
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&expense, expenseID).Error; err != nil {
			return err
		}
		if expense.PaymentMethod != models.PaymentMethodCredit ||
			expense.PaidAmount+settlement.Amount > expense.Amount {
			return ErrSettlementConflict
		}

		settlement.ExpenseID = expenseID
		if err := tx.Create(settlement).Error; err != nil {
			return err
		}
		return tx.Model(&models.Expense{}).
			Where("id = ?", expenseID).
			Update("paid_amount", gorm.Expr("paid_amount + ?", settlement.Amount)).Error
	})
}

func (r *expenseRepository) CountByBeneficiary(ctx context.Context, kind string, beneficiaryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Expense{}).
		Where("beneficiary_kind = ? AND beneficiary_id = ?", kind, beneficiaryID).
		Count(&count).Error
	return count, err
}
