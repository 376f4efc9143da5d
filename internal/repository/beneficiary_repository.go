package repository

import (
	"context"

	"github.com/dcastellanos/obrax-api/internal/models"
	"gorm.io/gorm"
)

// SupplierRepository defines the interface for supplier data access
type SupplierRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Supplier, error)
	FindAll(ctx context.Context) ([]models.Supplier, error)
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Supplier, int64, error)
}

type supplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) FindByID(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).First(&supplier, id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindAll(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *supplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *supplierRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, id).Error
}

func (r *supplierRepository) List(ctx context.Context, query *ListQuery) ([]models.Supplier, int64, error) {
	var suppliers []models.Supplier
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Supplier{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR category ILIKE ? OR phone ILIKE ?", search, search, search)
	}
	if val, ok := query.Filters["category"]; ok && val != "" {
		db = db.Where("category = ?", val)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("name ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&suppliers).Error
	return suppliers, total, err
}

// WorkerRepository defines the interface for worker data access
type WorkerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Worker, error)
	FindAll(ctx context.Context) ([]models.Worker, error)
	Create(ctx context.Context, worker *models.Worker) error
	Update(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Worker, int64, error)
}

type workerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository creates a new worker repository
func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &workerRepository{db: db}
}

func (r *workerRepository) FindByID(ctx context.Context, id uint) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.WithContext(ctx).First(&worker, id).Error
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepository) FindAll(ctx context.Context) ([]models.Worker, error) {
	var workers []models.Worker
	err := r.db.WithContext(ctx).Order("name ASC").Find(&workers).Error
	return workers, err
}

func (r *workerRepository) Create(ctx context.Context, worker *models.Worker) error {
	return r.db.WithContext(ctx).Create(worker).Error
}

func (r *workerRepository) Update(ctx context.Context, worker *models.Worker) error {
	return r.db.WithContext(ctx).Save(worker).Error
}

func (r *workerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Worker{}, id).Error
}

func (r *workerRepository) List(ctx context.Context, query *ListQuery) ([]models.Worker, int64, error) {
	var workers []models.Worker
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Worker{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR trade ILIKE ? OR phone ILIKE ?", search, search, search)
	}
	if val, ok := query.Filters["trade"]; ok && val != "" {
		db = db.Where("trade = ?", val)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("name ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&workers).Error
	return workers, total, err
}

// SubcontractorRepository defines the interface for subcontractor data access
type SubcontractorRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Subcontractor, error)
	FindAll(ctx context.Context) ([]models.Subcontractor, error)
	Create(ctx context.Context, sub *models.Subcontractor) error
	Update(ctx context.Context, sub *models.Subcontractor) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Subcontractor, int64, error)
}

type subcontractorRepository struct {
	db *gorm.DB
}

// NewSubcontractorRepository creates a new subcontractor repository
func NewSubcontractorRepository(db *gorm.DB) SubcontractorRepository {
	return &subcontractorRepository{db: db}
}

func (r *subcontractorRepository) FindByID(ctx context.Context, id uint) (*models.Subcontractor, error) {
	var sub models.Subcontractor
	err := r.db.WithContext(ctx).First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subcontractorRepository) FindAll(ctx context.Context) ([]models.Subcontractor, error) {
	var subs []models.Subcontractor
	err := r.db.WithContext(ctx).Order("name ASC").Find(&subs).Error
	return subs, err
}

func (r *subcontractorRepository) Create(ctx context.Context, sub *models.Subcontractor) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subcontractorRepository) Update(ctx context.Context, sub *models.Subcontractor) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *subcontractorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Subcontractor{}, id).Error
}

func (r *subcontractorRepository) List(ctx context.Context, query *ListQuery) ([]models.Subcontractor, int64, error) {
	var subs []models.Subcontractor
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Subcontractor{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name ILIKE ? OR specialty ILIKE ? OR phone ILIKE ?", search, search, search)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("name ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&subs).Error
	return subs, total, err
}
