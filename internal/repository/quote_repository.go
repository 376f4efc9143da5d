package repository

import (
	"context"

	"github.com/dcastellanos/obrax-api/internal/models"
	"gorm.io/gorm"
)

// QuoteRepository defines the interface for quote data access
type QuoteRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Quote, error)
	FindAll(ctx context.Context) ([]models.Quote, error)
	Create(ctx context.Context, quote *models.Quote) error
	Update(ctx context.Context, quote *models.Quote) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Quote, int64, error)
}

type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) FindByID(ctx context.Context, id uint) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).First(&quote, id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepository) FindAll(ctx context.Context) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.WithContext(ctx).Find(&quotes).Error
	return quotes, err
}

func (r *quoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *quoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

func (r *quoteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Quote{}, id).Error
}

func (r *quoteRepository) List(ctx context.Context, query *ListQuery) ([]models.Quote, int64, error) {
	var quotes []models.Quote
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Quote{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("client_name ILIKE ? OR client_phone ILIKE ?", search, search)
	}
	if val, ok := query.Filters["quote_type"]; ok && val != "" {
		db = db.Where("quote_type = ?", val)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&quotes).Error
	return quotes, total, err
}
