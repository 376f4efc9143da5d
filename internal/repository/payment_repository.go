package repository

import (
	"context"

	"github.com/dcastellanos/obrax-api/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for received payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ReceivedPayment, error)
	FindByContract(ctx context.Context, contractID uint) ([]models.ReceivedPayment, error)
	FindByStage(ctx context.Context, stageID uint) ([]models.ReceivedPayment, error)
	FindAll(ctx context.Context) ([]models.ReceivedPayment, error)
	Create(ctx context.Context, payment *models.ReceivedPayment) error
	Update(ctx context.Context, payment *models.ReceivedPayment) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.ReceivedPayment, int64, error)
	CountStageLinked(ctx context.Context, contractID uint) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.ReceivedPayment, error) {
	var payment models.ReceivedPayment
	err := r.db.WithContext(ctx).
		Preload("Stage").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByContract(ctx context.Context, contractID uint) ([]models.ReceivedPayment, error) {
	var payments []models.ReceivedPayment
	err := r.db.WithContext(ctx).
		Preload("Stage").
		Where("contract_id = ?", contractID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindByStage(ctx context.Context, stageID uint) ([]models.ReceivedPayment, error) {
	var payments []models.ReceivedPayment
	err := r.db.WithContext(ctx).
		Where("stage_id = ?", stageID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindAll(ctx context.Context) ([]models.ReceivedPayment, error) {
	var payments []models.ReceivedPayment
	err := r.db.WithContext(ctx).Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.ReceivedPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.ReceivedPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ReceivedPayment{}, id).Error
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.ReceivedPayment, int64, error) {
	var payments []models.ReceivedPayment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.ReceivedPayment{})

	if val, ok := query.Filters["contract_id"]; ok && val != "" {
		db = db.Where("received_payments.contract_id = ?", val)
	}
	if val, ok := query.Filters["start_date"]; ok && val != "" {
		db = db.Where("received_payments.payment_date >= ?", val)
	}
	if val, ok := query.Filters["end_date"]; ok && val != "" {
		endDate := val
		if len(endDate) == 10 {
			endDate += " 23:59:59"
		}
		db = db.Where("received_payments.payment_date <= ?", endDate)
	}
	if val, ok := query.Filters["extra"]; ok && val != "" {
		db = db.Where("received_payments.is_extra = ?", val == "true")
	}

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("LEFT JOIN contracts ON contracts.id = received_payments.contract_id").
			Where("contracts.contract_number ILIKE ? OR COALESCE(received_payments.note, '') ILIKE ?", search, search)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.SortBy != "" {
		order := "received_payments." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("received_payments.payment_date DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Select("received_payments.*").
		Preload("Stage").
		Preload("Contract").
		Find(&payments).Error
	return payments, total, err
}

// CountStageLinked counts payments on a contract that reference a stage.
// Used to block stage replacement once stage money has been recorded.
func (r *paymentRepository) CountStageLinked(ctx context.Context, contractID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReceivedPayment{}).
		Where("contract_id = ? AND stage_id IS NOT NULL", contractID).
		Count(&count).Error
	return count, err
}
