package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newContractServiceForTest(contractRepo *mockContractRepository, quoteRepo *mockQuoteRepository, paymentRepo *mockPaymentRepository, expenseRepo *mockExpenseRepository) *ContractService {
	return NewContractService(contractRepo, quoteRepo, paymentRepo, expenseRepo, NewAuditService(nil), "CON")
}

func TestConvertQuote_FreezesTotalAndDefaultsSchedule(t *testing.T) {
	quoteRepo := &mockQuoteRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Quote, error) {
			return &models.Quote{ID: id, ClientName: "Ana", GrandTotal: 850000}, nil
		},
	}
	var created *models.Contract
	contractRepo := &mockContractRepository{
		mockCreateWithNumber: func(ctx context.Context, prefix string, contract *models.Contract) error {
			assert.Equal(t, "CON", prefix)
			contract.ID = 1
			contract.ContractNumber = "CON-2026-0001"
			created = contract
			return nil
		},
	}
	service := newContractServiceForTest(contractRepo, quoteRepo, &mockPaymentRepository{}, &mockExpenseRepository{})

	contract, err := service.ConvertQuote(context.Background(), 5, nil, nil, "tester")
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, 850000.0, contract.TotalValue)
	assert.Equal(t, models.ContractStatusActive, contract.Status)
	assert.NotEmpty(t, contract.GUID)

	// No stages supplied: the single-stage default applies
	assert.Len(t, contract.Stages, 1)
	assert.Equal(t, "Pago único", contract.Stages[0].Name)
	assert.Equal(t, 100.0, contract.Stages[0].Percentage)
}

func TestConvertQuote_ReplayReturnsExistingContract(t *testing.T) {
	quoteRepo := &mockQuoteRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Quote, error) {
			return &models.Quote{ID: id, ClientName: "Ana", GrandTotal: 850000}, nil
		},
	}
	existing := &models.Contract{ID: 9, QuoteID: 5, ContractNumber: "CON-2026-0009", TotalValue: 850000, Status: models.ContractStatusActive}
	createCalled := false
	contractRepo := &mockContractRepository{
		mockFindByQuoteID: func(ctx context.Context, quoteID uint) (*models.Contract, error) {
			return existing, nil
		},
		mockCreateWithNumber: func(ctx context.Context, prefix string, contract *models.Contract) error {
			createCalled = true
			return nil
		},
	}
	service := newContractServiceForTest(contractRepo, quoteRepo, &mockPaymentRepository{}, &mockExpenseRepository{})

	contract, err := service.ConvertQuote(context.Background(), 5, nil, nil, "tester")
	assert.ErrorIs(t, err, ErrQuoteAlreadyConverted)
	assert.Equal(t, existing, contract)
	assert.False(t, createCalled, "a second conversion must never create a contract")
}

func TestConvertQuote_InvalidStagesRejected(t *testing.T) {
	quoteRepo := &mockQuoteRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Quote, error) {
			return &models.Quote{ID: id, ClientName: "Ana", GrandTotal: 850000}, nil
		},
	}
	service := newContractServiceForTest(&mockContractRepository{}, quoteRepo, &mockPaymentRepository{}, &mockExpenseRepository{})

	stages := []models.PaymentStage{
		{Name: "Anticipo", Percentage: 50},
		{Name: "Entrega", Percentage: 30},
	}
	_, err := service.ConvertQuote(context.Background(), 5, stages, nil, "tester")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConvertQuote_MissingQuote(t *testing.T) {
	service := newContractServiceForTest(&mockContractRepository{}, &mockQuoteRepository{}, &mockPaymentRepository{}, &mockExpenseRepository{})

	_, err := service.ConvertQuote(context.Background(), 404, nil, nil, "tester")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateDetails_RejectsNonPositiveTotal(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, TotalValue: 500000, Status: models.ContractStatusActive}, nil
		},
	}
	service := newContractServiceForTest(contractRepo, &mockQuoteRepository{}, &mockPaymentRepository{}, &mockExpenseRepository{})

	bad := 0.0
	_, err := service.UpdateDetails(context.Background(), 1, &bad, nil, nil, "tester")
	assert.ErrorIs(t, err, ErrValidation)

	good := 600000.0
	contract, err := service.UpdateDetails(context.Background(), 1, &good, nil, nil, "tester")
	assert.NoError(t, err)
	assert.Equal(t, 600000.0, contract.TotalValue)
}

func TestReplaceSchedule_BlockedByStageLinkedPayments(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, ContractNumber: "CON-2026-0001", Status: models.ContractStatusActive}, nil
		},
	}
	paymentRepo := &mockPaymentRepository{
		mockCountStageLinked: func(ctx context.Context, contractID uint) (int64, error) {
			return 2, nil
		},
	}
	service := newContractServiceForTest(contractRepo, &mockQuoteRepository{}, paymentRepo, &mockExpenseRepository{})

	stages := []models.PaymentStage{{Name: "Pago único", Percentage: 100}}
	_, err := service.ReplaceSchedule(context.Background(), 1, stages, "tester")
	assert.ErrorIs(t, err, ErrHasRecords)
}

func TestReplaceSchedule_ValidSwap(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, ContractNumber: "CON-2026-0001", Status: models.ContractStatusActive}, nil
		},
		mockReplaceStages: func(ctx context.Context, contractID uint, stages []models.PaymentStage) error {
			return nil
		},
		mockFindStages: func(ctx context.Context, contractID uint) ([]models.PaymentStage, error) {
			return []models.PaymentStage{
				{ID: 10, ContractID: contractID, Name: "Anticipo", Percentage: 40, Position: 1},
				{ID: 11, ContractID: contractID, Name: "Entrega", Percentage: 60, Position: 2},
			}, nil
		},
	}
	service := newContractServiceForTest(contractRepo, &mockQuoteRepository{}, &mockPaymentRepository{}, &mockExpenseRepository{})

	stages := []models.PaymentStage{
		{Name: "Anticipo", Percentage: 40},
		{Name: "Entrega", Percentage: 60},
	}
	saved, err := service.ReplaceSchedule(context.Background(), 1, stages, "tester")
	assert.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestReplaceSchedule_PaymentLinkedDuringSwapStillBlocks(t *testing.T) {
	// The stage-linked count passes, but a payment gets tied to a stage
	// before the swap transaction runs. The repository guard must win.
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, ContractNumber: "CON-2026-0001", Status: models.ContractStatusActive}, nil
		},
		mockReplaceStages: func(ctx context.Context, contractID uint, stages []models.PaymentStage) error {
			return repository.ErrStagesLinked
		},
	}
	service := newContractServiceForTest(contractRepo, &mockQuoteRepository{}, &mockPaymentRepository{}, &mockExpenseRepository{})

	stages := []models.PaymentStage{{Name: "Pago único", Percentage: 100}}
	_, err := service.ReplaceSchedule(context.Background(), 1, stages, "tester")
	assert.ErrorIs(t, err, ErrHasRecords)
}

func TestDeleteContract_BlockedByFinancialRecords(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, ContractNumber: "CON-2026-0001", Status: models.ContractStatusActive}, nil
		},
	}

	paymentRepo := &mockPaymentRepository{
		mockFindByContract: func(ctx context.Context, contractID uint) ([]models.ReceivedPayment, error) {
			return []models.ReceivedPayment{{ID: 1, Amount: 1000}}, nil
		},
	}
	service := newContractServiceForTest(contractRepo, &mockQuoteRepository{}, paymentRepo, &mockExpenseRepository{})
	err := service.Delete(context.Background(), 1, "tester")
	assert.ErrorIs(t, err, ErrHasRecords)

	expenseRepo := &mockExpenseRepository{
		mockFindByContract: func(ctx context.Context, contractID uint) ([]models.Expense, error) {
			return []models.Expense{{ID: 1, Amount: 500}}, nil
		},
	}
	service = newContractServiceForTest(contractRepo, &mockQuoteRepository{}, &mockPaymentRepository{}, expenseRepo)
	err = service.Delete(context.Background(), 1, "tester")
	assert.ErrorIs(t, err, ErrHasRecords)
}

func TestDeleteContract_CleanContractDeletes(t *testing.T) {
	deleted := false
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, ContractNumber: "CON-2026-0001", Status: models.ContractStatusActive}, nil
		},
		mockDelete: func(ctx context.Context, id uint) error {
			deleted = true
			return nil
		},
	}
	service := newContractServiceForTest(contractRepo, &mockQuoteRepository{}, &mockPaymentRepository{}, &mockExpenseRepository{})

	err := service.Delete(context.Background(), 1, "tester")
	assert.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeleteContract_RecordsAppearingLateStillBlock(t *testing.T) {
	// The service's pre-checks see a clean contract, but a payment lands
	// before the delete transaction runs. The repository guard must win.
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return &models.Contract{ID: id, ContractNumber: "CON-2026-0001", Status: models.ContractStatusActive}, nil
		},
		mockDelete: func(ctx context.Context, id uint) error {
			return repository.ErrContractHasRecords
		},
	}
	service := newContractServiceForTest(contractRepo, &mockQuoteRepository{}, &mockPaymentRepository{}, &mockExpenseRepository{})

	err := service.Delete(context.Background(), 1, "tester")
	assert.ErrorIs(t, err, ErrHasRecords)
}

func TestContractTransitions(t *testing.T) {
	newService := func(status string) (*ContractService, *models.Contract) {
		contract := &models.Contract{ID: 1, ContractNumber: "CON-2026-0001", Status: status}
		contractRepo := &mockContractRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
				return contract, nil
			},
		}
		return newContractServiceForTest(contractRepo, &mockQuoteRepository{}, &mockPaymentRepository{}, &mockExpenseRepository{}), contract
	}
	ctx := context.Background()

	t.Run("hold from active", func(t *testing.T) {
		service, _ := newService(models.ContractStatusActive)
		contract, err := service.Hold(ctx, 1, "tester")
		assert.NoError(t, err)
		assert.Equal(t, models.ContractStatusOnHold, contract.Status)
	})

	t.Run("complete from active", func(t *testing.T) {
		service, _ := newService(models.ContractStatusActive)
		contract, err := service.Complete(ctx, 1, "tester")
		assert.NoError(t, err)
		assert.Equal(t, models.ContractStatusCompleted, contract.Status)
	})

	t.Run("cancel from active", func(t *testing.T) {
		service, _ := newService(models.ContractStatusActive)
		contract, err := service.Cancel(ctx, 1, "tester")
		assert.NoError(t, err)
		assert.Equal(t, models.ContractStatusCancelled, contract.Status)
	})

	t.Run("reactivate from every non-active state", func(t *testing.T) {
		for _, status := range []string{models.ContractStatusOnHold, models.ContractStatusCompleted, models.ContractStatusCancelled} {
			service, _ := newService(status)
			contract, err := service.Reactivate(ctx, 1, "tester")
			assert.NoError(t, err, status)
			assert.Equal(t, models.ContractStatusActive, contract.Status)
		}
	})

	t.Run("invalid transitions rejected", func(t *testing.T) {
		service, stored := newService(models.ContractStatusCancelled)
		_, err := service.Hold(ctx, 1, "tester")
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Equal(t, models.ContractStatusCancelled, stored.Status)

		_, err = service.Complete(ctx, 1, "tester")
		assert.ErrorIs(t, err, ErrInvalidState)

		service, _ = newService(models.ContractStatusActive)
		_, err = service.Reactivate(ctx, 1, "tester")
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestFindByID_WrapsRecordNotFound(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := newContractServiceForTest(contractRepo, &mockQuoteRepository{}, &mockPaymentRepository{}, &mockExpenseRepository{})

	_, err := service.FindByID(context.Background(), 77)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, fmt.Sprintf("%s: contrato 77", ErrNotFound.Error()), err.Error())
}
