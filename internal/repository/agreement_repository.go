package repository

import (
	"context"

	"github.com/dcastellanos/obrax-api/internal/models"
	"gorm.io/gorm"
)

// AgreementRepository defines the interface for subcontractor agreement data access
type AgreementRepository interface {
	FindByID(ctx context.Context, id uint) (*models.SubcontractorAgreement, error)
	FindByContract(ctx context.Context, contractID uint) ([]models.SubcontractorAgreement, error)
	FindBySubcontractor(ctx context.Context, subcontractorID uint) ([]models.SubcontractorAgreement, error)
	FindByContractAndSubcontractor(ctx context.Context, contractID, subcontractorID uint) (*models.SubcontractorAgreement, error)
	Create(ctx context.Context, agreement *models.SubcontractorAgreement) error
	Update(ctx context.Context, agreement *models.SubcontractorAgreement) error
	Delete(ctx context.Context, id uint) error
	CountBySubcontractor(ctx context.Context, subcontractorID uint) (int64, error)
}

type agreementRepository struct {
	db *gorm.DB
}

// NewAgreementRepository creates a new agreement repository
func NewAgreementRepository(db *gorm.DB) AgreementRepository {
	return &agreementRepository{db: db}
}

func (r *agreementRepository) FindByID(ctx context.Context, id uint) (*models.SubcontractorAgreement, error) {
	var agreement models.SubcontractorAgreement
	err := r.db.WithContext(ctx).
		Preload("Subcontractor").
		First(&agreement, id).Error
	if err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *agreementRepository) FindByContract(ctx context.Context, contractID uint) ([]models.SubcontractorAgreement, error) {
	var agreements []models.SubcontractorAgreement
	err := r.db.WithContext(ctx).
		Preload("Subcontractor").
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&agreements).Error
	return agreements, err
}

func (r *agreementRepository) FindBySubcontractor(ctx context.Context, subcontractorID uint) ([]models.SubcontractorAgreement, error) {
	var agreements []models.SubcontractorAgreement
	err := r.db.WithContext(ctx).
		Preload("Contract").
		Where("subcontractor_id = ?", subcontractorID).
		Order("created_at ASC").
		Find(&agreements).Error
	return agreements, err
}

func (r *agreementRepository) FindByContractAndSubcontractor(ctx context.Context, contractID, subcontractorID uint) (*models.SubcontractorAgreement, error) {
	var agreement models.SubcontractorAgreement
	err := r.db.WithContext(ctx).
		Where("contract_id = ? AND subcontractor_id = ?", contractID, subcontractorID).
		First(&agreement).Error
	if err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *agreementRepository) Create(ctx context.Context, agreement *models.SubcontractorAgreement) error {
	return r.db.WithContext(ctx).Create(agreement).Error
}

func (r *agreementRepository) Update(ctx context.Context, agreement *models.SubcontractorAgreement) error {
	return r.db.WithContext(ctx).Save(agreement).Error
}

func (r *agreementRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.SubcontractorAgreement{}, id).Error
}

func (r *agreementRepository) CountBySubcontractor(ctx context.Context, subcontractorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SubcontractorAgreement{}).
		Where("subcontractor_id = ?", subcontractorID).
		Count(&count).Error
	return count, err
}
