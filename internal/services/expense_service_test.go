package services

import (
	"context"
	"testing"
	"time"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

func newExpenseServiceForTest(expenseRepo *mockExpenseRepository, contractRepo *mockContractRepository) *ExpenseService {
	return NewExpenseService(
		expenseRepo,
		contractRepo,
		&mockSupplierRepository{},
		&mockWorkerRepository{},
		&mockSubcontractorRepository{},
		NewAuditService(nil),
		nil,
	)
}

func activeContract(id uint) *models.Contract {
	return &models.Contract{ID: id, Status: models.ContractStatusActive, TotalValue: 1000000}
}

func TestCreateExpense_CashSettlesAtCreation(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return activeContract(id), nil
		},
	}
	expenseRepo := &mockExpenseRepository{}
	service := newExpenseServiceForTest(expenseRepo, contractRepo)

	expense := &models.Expense{
		ContractID:    1,
		ExpenseDate:   time.Now(),
		Description:   "Cemento",
		Amount:        15000,
		Category:      models.CategoryMaterial,
		PaymentMethod: models.PaymentMethodCash,
	}

	err := service.Create(context.Background(), expense, "tester")
	assert.NoError(t, err)
	assert.Equal(t, 15000.0, expense.PaidAmount)
	assert.True(t, expense.IsSettled())
}

func TestCreateExpense_CreditOpensDebt(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return activeContract(id), nil
		},
	}
	service := newExpenseServiceForTest(&mockExpenseRepository{}, contractRepo)

	expense := &models.Expense{
		ContractID:    1,
		ExpenseDate:   time.Now(),
		Description:   "Bloques a crédito",
		Amount:        100000,
		Category:      models.CategoryMaterial,
		PaymentMethod: models.PaymentMethodCredit,
		PaidAmount:    999, // ignored, credit always starts unpaid
	}

	err := service.Create(context.Background(), expense, "tester")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, expense.PaidAmount)
	assert.Equal(t, 100000.0, expense.Outstanding())
}

func TestCreateExpense_Validation(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return activeContract(id), nil
		},
	}
	service := newExpenseServiceForTest(&mockExpenseRepository{}, contractRepo)
	ctx := context.Background()

	cases := []struct {
		name    string
		expense models.Expense
	}{
		{"empty description", models.Expense{ContractID: 1, Amount: 100, Category: models.CategoryOther, PaymentMethod: models.PaymentMethodCash}},
		{"zero amount", models.Expense{ContractID: 1, Description: "x", Amount: 0, Category: models.CategoryOther, PaymentMethod: models.PaymentMethodCash}},
		{"unknown category", models.Expense{ContractID: 1, Description: "x", Amount: 100, Category: "vacaciones", PaymentMethod: models.PaymentMethodCash}},
		{"unknown method", models.Expense{ContractID: 1, Description: "x", Amount: 100, Category: models.CategoryOther, PaymentMethod: "cheque"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expense := tc.expense
			err := service.Create(ctx, &expense, "tester")
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateExpense_BeneficiaryTagRequiresBothFields(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return activeContract(id), nil
		},
	}
	service := newExpenseServiceForTest(&mockExpenseRepository{}, contractRepo)

	kindOnly := &models.Expense{
		ContractID: 1, Description: "x", Amount: 100,
		Category: models.CategoryLabor, PaymentMethod: models.PaymentMethodCash,
		BeneficiaryKind: models.BeneficiaryKindWorker,
	}
	err := service.Create(context.Background(), kindOnly, "tester")
	assert.ErrorIs(t, err, ErrValidation)

	id := uint(7)
	idOnly := &models.Expense{
		ContractID: 1, Description: "x", Amount: 100,
		Category: models.CategoryLabor, PaymentMethod: models.PaymentMethodCash,
		BeneficiaryID: &id,
	}
	err = service.Create(context.Background(), idOnly, "tester")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPayPartialDebt_AccumulatesAndAppendsHistory(t *testing.T) {
	stored := &models.Expense{
		ID:            10,
		ContractID:    1,
		Description:   "Materiales a crédito",
		Amount:        100000,
		Category:      models.CategoryMaterial,
		PaymentMethod: models.PaymentMethodCredit,
		PaidAmount:    0,
	}

	var recorded *models.ExpensePayment
	expenseRepo := &mockExpenseRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Expense, error) {
			clone := *stored
			return &clone, nil
		},
		mockRecordSettlement: func(ctx context.Context, expenseID uint, settlement *models.ExpensePayment) error {
			recorded = settlement
			stored.PaidAmount += settlement.Amount
			stored.PaymentHistory = append(stored.PaymentHistory, *settlement)
			return nil
		},
	}
	service := newExpenseServiceForTest(expenseRepo, &mockContractRepository{})

	expense, err := service.PayPartialDebt(context.Background(), 10, 40000, time.Now(), nil, "abono inicial", "tester")
	assert.NoError(t, err)
	assert.NotNil(t, recorded)
	assert.Equal(t, 40000.0, recorded.Amount)
	assert.Equal(t, 40000.0, expense.PaidAmount)
	assert.Equal(t, 60000.0, expense.Outstanding())
	assert.Len(t, expense.PaymentHistory, 1)
}

func TestPayPartialDebt_RejectsOverpayment(t *testing.T) {
	stored := &models.Expense{
		ID:            10,
		ContractID:    1,
		Description:   "Materiales a crédito",
		Amount:        100000,
		Category:      models.CategoryMaterial,
		PaymentMethod: models.PaymentMethodCredit,
		PaidAmount:    40000,
	}

	settlementCalled := false
	expenseRepo := &mockExpenseRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Expense, error) {
			clone := *stored
			return &clone, nil
		},
		mockRecordSettlement: func(ctx context.Context, expenseID uint, settlement *models.ExpensePayment) error {
			settlementCalled = true
			return nil
		},
	}
	service := newExpenseServiceForTest(expenseRepo, &mockContractRepository{})

	// Outstanding is 60000; 70000 must be rejected without touching the store
	_, err := service.PayPartialDebt(context.Background(), 10, 70000, time.Now(), nil, "", "tester")
	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, settlementCalled)
	assert.Equal(t, 40000.0, stored.PaidAmount)
}

func TestPayPartialDebt_RejectsCashAndNonPositive(t *testing.T) {
	cash := &models.Expense{
		ID:            11,
		Amount:        5000,
		PaymentMethod: models.PaymentMethodCash,
		PaidAmount:    5000,
	}
	expenseRepo := &mockExpenseRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Expense, error) {
			clone := *cash
			return &clone, nil
		},
	}
	service := newExpenseServiceForTest(expenseRepo, &mockContractRepository{})

	_, err := service.PayPartialDebt(context.Background(), 11, 100, time.Now(), nil, "", "tester")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.PayPartialDebt(context.Background(), 11, 0, time.Now(), nil, "", "tester")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.PayPartialDebt(context.Background(), 11, -50, time.Now(), nil, "", "tester")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPayPartialDebt_ExactOutstandingSettles(t *testing.T) {
	stored := &models.Expense{
		ID:            12,
		Amount:        100000,
		PaymentMethod: models.PaymentMethodCredit,
		PaidAmount:    40000,
	}
	expenseRepo := &mockExpenseRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Expense, error) {
			clone := *stored
			return &clone, nil
		},
		mockRecordSettlement: func(ctx context.Context, expenseID uint, settlement *models.ExpensePayment) error {
			stored.PaidAmount += settlement.Amount
			return nil
		},
	}
	service := newExpenseServiceForTest(expenseRepo, &mockContractRepository{})

	expense, err := service.PayPartialDebt(context.Background(), 12, 60000, time.Now(), nil, "", "tester")
	assert.NoError(t, err)
	assert.Equal(t, 100000.0, expense.PaidAmount)
	assert.True(t, expense.IsSettled())
}

func TestPayPartialDebt_StaleReadCannotOverdrawDebt(t *testing.T) {
	// Both calls see the expense as it was before the first settlement landed,
	// like two clients paying at once. The repository guard runs against the
	// stored state, so only the first settlement may go through.
	stored := &models.Expense{
		ID:            13,
		ContractID:    1,
		Description:   "Hierro a crédito",
		Amount:        100000,
		Category:      models.CategoryMaterial,
		PaymentMethod: models.PaymentMethodCredit,
		PaidAmount:    0,
	}
	expenseRepo := &mockExpenseRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Expense, error) {
			stale := *stored
			stale.PaidAmount = 0
			return &stale, nil
		},
		mockRecordSettlement: func(ctx context.Context, expenseID uint, settlement *models.ExpensePayment) error {
			if stored.PaidAmount+settlement.Amount > stored.Amount {
				return repository.ErrSettlementConflict
			}
			stored.PaidAmount += settlement.Amount
			stored.PaymentHistory = append(stored.PaymentHistory, *settlement)
			return nil
		},
	}
	service := newExpenseServiceForTest(expenseRepo, &mockContractRepository{})
	ctx := context.Background()

	_, err := service.PayPartialDebt(ctx, 13, 60000, time.Now(), nil, "", "tester")
	assert.NoError(t, err)

	_, err = service.PayPartialDebt(ctx, 13, 60000, time.Now(), nil, "", "tester")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, 60000.0, stored.PaidAmount)
	assert.Len(t, stored.PaymentHistory, 1)

	var historyTotal float64
	for _, p := range stored.PaymentHistory {
		historyTotal += p.Amount
	}
	assert.Equal(t, stored.PaidAmount, historyTotal)
}

func TestUpdateExpense_AmountCannotDropBelowPaid(t *testing.T) {
	contractRepo := &mockContractRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contract, error) {
			return activeContract(id), nil
		},
	}
	service := newExpenseServiceForTest(&mockExpenseRepository{}, contractRepo)

	expense := &models.Expense{
		ID:            20,
		ContractID:    1,
		Description:   "Crédito parcialmente pagado",
		Amount:        30000,
		Category:      models.CategoryMaterial,
		PaymentMethod: models.PaymentMethodCredit,
		PaidAmount:    40000,
	}

	err := service.Update(context.Background(), expense, "tester")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateExpense_MethodFrozenOnceSettled(t *testing.T) {
	stored := &models.Expense{
		ID:            21,
		ContractID:    1,
		Description:   "Crédito con abonos",
		Amount:        50000,
		Category:      models.CategoryMaterial,
		PaymentMethod: models.PaymentMethodCredit,
		PaidAmount:    20000,
		PaymentHistory: []models.ExpensePayment{
			{ID: 1, ExpenseID: 21, Amount: 20000},
		},
	}
	expenseRepo := &mockExpenseRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Expense, error) {
			clone := *stored
			return &clone, nil
		},
	}
	service := newExpenseServiceForTest(expenseRepo, &mockContractRepository{})

	// Flipping to cash would mark the expense fully paid while its history
	// still says otherwise
	edited := *stored
	edited.PaymentMethod = models.PaymentMethodCash
	err := service.Update(context.Background(), &edited, "tester")
	assert.ErrorIs(t, err, ErrValidation)

	// Editing descriptive fields without touching the method stays allowed
	edited = *stored
	edited.Description = "Crédito con abonos (hierro)"
	err = service.Update(context.Background(), &edited, "tester")
	assert.NoError(t, err)
}
