package services

import (
	"context"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"gorm.io/gorm"
)

// Hand-rolled repository mocks. Embedding the interface keeps each mock small;
// only the methods a test drives get a func field.

type mockQuoteRepository struct {
	repository.QuoteRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Quote, error)
	mockCreate   func(ctx context.Context, quote *models.Quote) error
	mockUpdate   func(ctx context.Context, quote *models.Quote) error
	mockDelete   func(ctx context.Context, id uint) error
}

func (m *mockQuoteRepository) FindByID(ctx context.Context, id uint) (*models.Quote, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, quote)
	}
	return nil
}

func (m *mockQuoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, quote)
	}
	return nil
}

func (m *mockQuoteRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

type mockContractRepository struct {
	repository.ContractRepository
	mockFindByID         func(ctx context.Context, id uint) (*models.Contract, error)
	mockFindByQuoteID    func(ctx context.Context, quoteID uint) (*models.Contract, error)
	mockCreateWithNumber func(ctx context.Context, prefix string, contract *models.Contract) error
	mockUpdate           func(ctx context.Context, contract *models.Contract) error
	mockDelete           func(ctx context.Context, id uint) error
	mockReplaceStages    func(ctx context.Context, contractID uint, stages []models.PaymentStage) error
	mockFindStages       func(ctx context.Context, contractID uint) ([]models.PaymentStage, error)
	mockFindStageByID    func(ctx context.Context, id uint) (*models.PaymentStage, error)
	mockFindAll          func(ctx context.Context) ([]models.Contract, error)
}

func (m *mockContractRepository) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepository) FindByQuoteID(ctx context.Context, quoteID uint) (*models.Contract, error) {
	if m.mockFindByQuoteID != nil {
		return m.mockFindByQuoteID(ctx, quoteID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepository) CreateWithNumber(ctx context.Context, prefix string, contract *models.Contract) error {
	if m.mockCreateWithNumber != nil {
		return m.mockCreateWithNumber(ctx, prefix, contract)
	}
	return nil
}

func (m *mockContractRepository) Update(ctx context.Context, contract *models.Contract) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, contract)
	}
	return nil
}

func (m *mockContractRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

func (m *mockContractRepository) ReplaceStages(ctx context.Context, contractID uint, stages []models.PaymentStage) error {
	if m.mockReplaceStages != nil {
		return m.mockReplaceStages(ctx, contractID, stages)
	}
	return nil
}

func (m *mockContractRepository) FindStages(ctx context.Context, contractID uint) ([]models.PaymentStage, error) {
	if m.mockFindStages != nil {
		return m.mockFindStages(ctx, contractID)
	}
	return nil, nil
}

func (m *mockContractRepository) FindStageByID(ctx context.Context, id uint) (*models.PaymentStage, error) {
	if m.mockFindStageByID != nil {
		return m.mockFindStageByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContractRepository) FindAll(ctx context.Context) ([]models.Contract, error) {
	if m.mockFindAll != nil {
		return m.mockFindAll(ctx)
	}
	return nil, nil
}

type mockPaymentRepository struct {
	repository.PaymentRepository
	mockFindByID         func(ctx context.Context, id uint) (*models.ReceivedPayment, error)
	mockFindByContract   func(ctx context.Context, contractID uint) ([]models.ReceivedPayment, error)
	mockFindAll          func(ctx context.Context) ([]models.ReceivedPayment, error)
	mockCreate           func(ctx context.Context, payment *models.ReceivedPayment) error
	mockUpdate           func(ctx context.Context, payment *models.ReceivedPayment) error
	mockDelete           func(ctx context.Context, id uint) error
	mockCountStageLinked func(ctx context.Context, contractID uint) (int64, error)
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uint) (*models.ReceivedPayment, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *models.ReceivedPayment) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, payment)
	}
	return nil
}

func (m *mockPaymentRepository) Update(ctx context.Context, payment *models.ReceivedPayment) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, payment)
	}
	return nil
}

func (m *mockPaymentRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

func (m *mockPaymentRepository) FindByContract(ctx context.Context, contractID uint) ([]models.ReceivedPayment, error) {
	if m.mockFindByContract != nil {
		return m.mockFindByContract(ctx, contractID)
	}
	return nil, nil
}

func (m *mockPaymentRepository) FindAll(ctx context.Context) ([]models.ReceivedPayment, error) {
	if m.mockFindAll != nil {
		return m.mockFindAll(ctx)
	}
	return nil, nil
}

func (m *mockPaymentRepository) CountStageLinked(ctx context.Context, contractID uint) (int64, error) {
	if m.mockCountStageLinked != nil {
		return m.mockCountStageLinked(ctx, contractID)
	}
	return 0, nil
}

type mockExpenseRepository struct {
	repository.ExpenseRepository
	mockFindByID           func(ctx context.Context, id uint) (*models.Expense, error)
	mockFindByContract     func(ctx context.Context, contractID uint) ([]models.Expense, error)
	mockFindByBeneficiary  func(ctx context.Context, kind string, beneficiaryID uint, contractID *uint) ([]models.Expense, error)
	mockFindAll            func(ctx context.Context) ([]models.Expense, error)
	mockCreate             func(ctx context.Context, expense *models.Expense) error
	mockUpdate             func(ctx context.Context, expense *models.Expense) error
	mockDelete             func(ctx context.Context, id uint) error
	mockRecordSettlement   func(ctx context.Context, expenseID uint, settlement *models.ExpensePayment) error
	mockCountByBeneficiary func(ctx context.Context, kind string, beneficiaryID uint) (int64, error)
}

func (m *mockExpenseRepository) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExpenseRepository) FindByContract(ctx context.Context, contractID uint) ([]models.Expense, error) {
	if m.mockFindByContract != nil {
		return m.mockFindByContract(ctx, contractID)
	}
	return nil, nil
}

func (m *mockExpenseRepository) FindByBeneficiary(ctx context.Context, kind string, beneficiaryID uint, contractID *uint) ([]models.Expense, error) {
	if m.mockFindByBeneficiary != nil {
		return m.mockFindByBeneficiary(ctx, kind, beneficiaryID, contractID)
	}
	return nil, nil
}

func (m *mockExpenseRepository) FindAll(ctx context.Context) ([]models.Expense, error) {
	if m.mockFindAll != nil {
		return m.mockFindAll(ctx)
	}
	return nil, nil
}

func (m *mockExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, expense)
	}
	return nil
}

func (m *mockExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, expense)
	}
	return nil
}

func (m *mockExpenseRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

func (m *mockExpenseRepository) RecordSettlement(ctx context.Context, expenseID uint, settlement *models.ExpensePayment) error {
	if m.mockRecordSettlement != nil {
		return m.mockRecordSettlement(ctx, expenseID, settlement)
	}
	return nil
}

func (m *mockExpenseRepository) CountByBeneficiary(ctx context.Context, kind string, beneficiaryID uint) (int64, error) {
	if m.mockCountByBeneficiary != nil {
		return m.mockCountByBeneficiary(ctx, kind, beneficiaryID)
	}
	return 0, nil
}

type mockSupplierRepository struct {
	repository.SupplierRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Supplier, error)
	mockDelete   func(ctx context.Context, id uint) error
}

func (m *mockSupplierRepository) FindByID(ctx context.Context, id uint) (*models.Supplier, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSupplierRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

type mockWorkerRepository struct {
	repository.WorkerRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Worker, error)
}

func (m *mockWorkerRepository) FindByID(ctx context.Context, id uint) (*models.Worker, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type mockSubcontractorRepository struct {
	repository.SubcontractorRepository
	mockFindByID func(ctx context.Context, id uint) (*models.Subcontractor, error)
}

func (m *mockSubcontractorRepository) FindByID(ctx context.Context, id uint) (*models.Subcontractor, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type mockAgreementRepository struct {
	repository.AgreementRepository
	mockFindByID                       func(ctx context.Context, id uint) (*models.SubcontractorAgreement, error)
	mockFindByContractAndSubcontractor func(ctx context.Context, contractID, subcontractorID uint) (*models.SubcontractorAgreement, error)
	mockCreate                         func(ctx context.Context, agreement *models.SubcontractorAgreement) error
	mockCountBySubcontractor           func(ctx context.Context, subcontractorID uint) (int64, error)
}

func (m *mockAgreementRepository) FindByID(ctx context.Context, id uint) (*models.SubcontractorAgreement, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAgreementRepository) FindByContractAndSubcontractor(ctx context.Context, contractID, subcontractorID uint) (*models.SubcontractorAgreement, error) {
	if m.mockFindByContractAndSubcontractor != nil {
		return m.mockFindByContractAndSubcontractor(ctx, contractID, subcontractorID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAgreementRepository) Create(ctx context.Context, agreement *models.SubcontractorAgreement) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, agreement)
	}
	return nil
}

func (m *mockAgreementRepository) CountBySubcontractor(ctx context.Context, subcontractorID uint) (int64, error) {
	if m.mockCountBySubcontractor != nil {
		return m.mockCountBySubcontractor(ctx, subcontractorID)
	}
	return 0, nil
}
