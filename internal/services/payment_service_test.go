package services

import (
	"context"
	"testing"
	"time"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func newPaymentServiceForTest(paymentRepo *mockPaymentRepository, contractRepo *mockContractRepository) *PaymentService {
	return NewPaymentService(paymentRepo, contractRepo, NewAuditService(nil), nil)
}

func TestCreatePayment_StagedPayment(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return activeContract(id), nil
		},
		mockFindStageByID: func(ctx context.Context, id uint) (*models.PaymentStage, error) {
			return &models.PaymentStage{ID: id, ContractID: 1, Name: "Anticipo", Percentage: 50}, nil
		},
	}
	paymentRepo := &mockPaymentRepository{}
	service := newPaymentServiceForTest(paymentRepo, contractRepo)

	stageID := uint(4)
	payment := &models.ReceivedPayment{
		ContractID:  1,
		StageID:     &stageID,
		Amount:      250000,
		PaymentDate: time.Now(),
	}

	err := service.Create(context.Background(), payment, "tester")
	assert.NoError(t, err)
	assert.False(t, payment.IsExtra)
}

func TestCreatePayment_NilStageMarksExtra(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return activeContract(id), nil
		},
	}
	service := newPaymentServiceForTest(&mockPaymentRepository{}, contractRepo)

	payment := &models.ReceivedPayment{
		ContractID:  1,
		Amount:      10000,
		PaymentDate: time.Now(),
	}

	err := service.Create(context.Background(), payment, "tester")
	assert.NoError(t, err)
	assert.True(t, payment.IsExtra)
}

func TestCreatePayment_StageOfAnotherContractRejected(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return activeContract(id), nil
		},
		mockFindStageByID: func(ctx context.Context, id uint) (*models.PaymentStage, error) {
			return &models.PaymentStage{ID: id, ContractID: 99, Name: "Anticipo", Percentage: 50}, nil
		},
	}
	service := newPaymentServiceForTest(&mockPaymentRepository{}, contractRepo)

	stageID := uint(4)
	payment := &models.ReceivedPayment{
		ContractID:  1,
		StageID:     &stageID,
		Amount:      250000,
		PaymentDate: time.Now(),
	}

	err := service.Create(context.Background(), payment, "tester")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePayment_UnknownStageRejected(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return activeContract(id), nil
		},
	}
	service := newPaymentServiceForTest(&mockPaymentRepository{}, contractRepo)

	stageID := uint(404)
	payment := &models.ReceivedPayment{
		ContractID:  1,
		StageID:     &stageID,
		Amount:      250000,
		PaymentDate: time.Now(),
	}

	err := service.Create(context.Background(), payment, "tester")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePayment_NonPositiveAmountRejected(t *testing.T) {
	service := newPaymentServiceForTest(&mockPaymentRepository{}, &mockContractRepository{})

	payment := &models.ReceivedPayment{ContractID: 1, Amount: 0, PaymentDate: time.Now()}
	err := service.Create(context.Background(), payment, "tester")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePayment_UnknownContractRejected(t *testing.T) {
	service := newPaymentServiceForTest(&mockPaymentRepository{}, &mockContractRepository{})

	payment := &models.ReceivedPayment{ContractID: 404, Amount: 100, PaymentDate: time.Now()}
	err := service.Create(context.Background(), payment, "tester")
	assert.ErrorIs(t, err, ErrNotFound)
}
