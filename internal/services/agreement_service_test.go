package services

import (
	"context"
	"testing"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func newAgreementServiceForTest(agreementRepo *mockAgreementRepository, contractRepo *mockContractRepository, subRepo *mockSubcontractorRepository, expenseRepo *mockExpenseRepository) *AgreementService {
	return NewAgreementService(agreementRepo, contractRepo, subRepo, expenseRepo, NewAuditService(nil))
}

func existingSubcontractor(id uint) (*models.Subcontractor, error) {
	return &models.Subcontractor{ID: id, Name: "Electrototal"}, nil
}

func TestCreateAgreement_DuplicatePairRejected(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, Status: models.ContractStatusActive}, nil
		},
	}
	subRepo := &mockSubcontractorRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Subcontractor, error) {
			return existingSubcontractor(id)
		},
	}
	agreementRepo := &mockAgreementRepository{
		mockFindByContractAndSubcontractor: func(ctx context.Context, contractID, subcontractorID uint) (*models.SubcontractorAgreement, error) {
			return &models.SubcontractorAgreement{ID: 1, ContractID: contractID, SubcontractorID: subcontractorID}, nil
		},
	}
	service := newAgreementServiceForTest(agreementRepo, contractRepo, subRepo, &mockExpenseRepository{})

	agreement := &models.SubcontractorAgreement{ContractID: 1, SubcontractorID: 2, TotalAmount: 50000}
	err := service.Create(context.Background(), agreement, "tester")
	assert.ErrorIs(t, err, ErrHasRecords)
}

func TestCreateAgreement_Valid(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, Status: models.ContractStatusActive}, nil
		},
	}
	subRepo := &mockSubcontractorRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Subcontractor, error) {
			return existingSubcontractor(id)
		},
	}
	created := false
	agreementRepo := &mockAgreementRepository{
		mockCreate: func(ctx context.Context, agreement *models.SubcontractorAgreement) error {
			created = true
			agreement.ID = 3
			return nil
		},
	}
	service := newAgreementServiceForTest(agreementRepo, contractRepo, subRepo, &mockExpenseRepository{})

	agreement := &models.SubcontractorAgreement{ContractID: 1, SubcontractorID: 2, TotalAmount: 50000}
	err := service.Create(context.Background(), agreement, "tester")
	assert.NoError(t, err)
	assert.True(t, created)
}

func TestCreateAgreement_RequiresPositiveAmount(t *testing.T) {
	service := newAgreementServiceForTest(&mockAgreementRepository{}, &mockContractRepository{}, &mockSubcontractorRepository{}, &mockExpenseRepository{})

	agreement := &models.SubcontractorAgreement{ContractID: 1, SubcontractorID: 2, TotalAmount: 0}
	err := service.Create(context.Background(), agreement, "tester")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAgreementProgress_DerivedFromTaggedExpenses(t *testing.T) {
	agreementRepo := &mockAgreementRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.SubcontractorAgreement, error) {
			return &models.SubcontractorAgreement{ID: id, ContractID: 1, SubcontractorID: 2, TotalAmount: 200000}, nil
		},
	}
	expenseRepo := &mockExpenseRepository{
		mockFindByBeneficiary: func(ctx context.Context, kind string, beneficiaryID uint, contractID *uint) ([]models.Expense, error) {
			assert.Equal(t, models.BeneficiaryKindSubcontractor, kind)
			assert.Equal(t, uint(2), beneficiaryID)
			assert.NotNil(t, contractID)
			assert.Equal(t, uint(1), *contractID)
			return []models.Expense{
				{Amount: 50000, PaymentMethod: models.PaymentMethodCash, PaidAmount: 50000},
				{Amount: 80000, PaymentMethod: models.PaymentMethodCredit, PaidAmount: 30000},
			}, nil
		},
	}
	service := newAgreementServiceForTest(agreementRepo, &mockContractRepository{}, &mockSubcontractorRepository{}, expenseRepo)

	progress, err := service.Progress(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, 80000.0, progress.Paid)
	assert.Equal(t, 120000.0, progress.Remaining)
}
