package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/pkg/logger"
	"gorm.io/gorm"
)

// LedgerService derives every financial figure from the stored payments and
// expenses. Nothing here writes; balances are recomputed on each call so they
// always reflect the latest committed state.
type LedgerService struct {
	contractRepo repository.ContractRepository
	paymentRepo  repository.PaymentRepository
	expenseRepo  repository.ExpenseRepository
	supplierRepo repository.SupplierRepository
	workerRepo   repository.WorkerRepository
	subRepo      repository.SubcontractorRepository
}

func NewLedgerService(
	contractRepo repository.ContractRepository,
	paymentRepo repository.PaymentRepository,
	expenseRepo repository.ExpenseRepository,
	supplierRepo repository.SupplierRepository,
	workerRepo repository.WorkerRepository,
	subRepo repository.SubcontractorRepository,
) *LedgerService {
	return &LedgerService{
		contractRepo: contractRepo,
		paymentRepo:  paymentRepo,
		expenseRepo:  expenseRepo,
		supplierRepo: supplierRepo,
		workerRepo:   workerRepo,
		subRepo:      subRepo,
	}
}

// BalanceOf returns what a beneficiary is still owed: the sum of expense
// amounts minus what has effectively been paid, optionally scoped to one
// contract. Zero when no expenses reference the beneficiary; negative when
// historical data overpaid them (never clamped).
func (s *LedgerService) BalanceOf(ctx context.Context, kind string, beneficiaryID uint, contractID *uint) (float64, error) {
	if err := s.ensureBeneficiaryExists(ctx, kind, beneficiaryID); err != nil {
		return 0, err
	}

	expenses, err := s.expenseRepo.FindByBeneficiary(ctx, kind, beneficiaryID, contractID)
	if err != nil {
		return 0, err
	}

	var balance float64
	for _, e := range expenses {
		balance += e.Amount - e.EffectivePaid()
	}
	return balance, nil
}

// ContractFinancials computes the money summary of one contract
func (s *LedgerService) ContractFinancials(ctx context.Context, contractID uint) (*models.ContractFinancials, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contrato %d", ErrNotFound, contractID)
		}
		return nil, err
	}

	payments, err := s.paymentRepo.FindByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	var totalReceived, totalSpent float64
	for _, p := range payments {
		totalReceived += p.Amount
	}
	for _, e := range expenses {
		totalSpent += e.Amount
	}

	fin := &models.ContractFinancials{
		ContractID:    contractID,
		TotalValue:    contract.TotalValue,
		TotalReceived: totalReceived,
		TotalSpent:    totalSpent,
		Profit:        totalReceived - totalSpent,
	}
	if contract.TotalValue > 0 {
		fin.Progress = totalReceived / contract.TotalValue * 100
	}
	return fin, nil
}

// GlobalFinancials aggregates across every contract. Cash expenses count at
// full amount; debt is the unpaid remainder of credit expenses.
func (s *LedgerService) GlobalFinancials(ctx context.Context) (*models.GlobalFinancials, error) {
	contracts, err := s.contractRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	fin := &models.GlobalFinancials{Contracts: len(contracts)}
	for _, p := range payments {
		fin.TotalReceived += p.Amount
	}
	for _, e := range expenses {
		switch e.PaymentMethod {
		case models.PaymentMethodCash:
			fin.TotalCashSpent += e.Amount
		case models.PaymentMethodCredit:
			fin.TotalDebt += e.Amount - e.PaidAmount
		}
	}
	return fin, nil
}

// Reconcile re-derives the expense invariants over the whole store and logs
// every violation. Wired as a periodic job; it never mutates anything.
func (s *LedgerService) Reconcile(ctx context.Context) error {
	expenses, err := s.expenseRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	violations := 0
	for _, e := range expenses {
		if e.PaidAmount < 0 || e.PaidAmount > e.Amount {
			violations++
			logger.Log.Error("expense paid amount out of bounds",
				"expense_id", e.ID, "amount", e.Amount, "paid_amount", e.PaidAmount)
		}
		if e.PaymentMethod == models.PaymentMethodCash && len(e.PaymentHistory) > 0 {
			violations++
			logger.Log.Error("cash expense carries settlement history",
				"expense_id", e.ID, "history_entries", len(e.PaymentHistory))
		}
		var historySum float64
		for _, h := range e.PaymentHistory {
			historySum += h.Amount
		}
		if historySum > e.Amount {
			violations++
			logger.Log.Error("expense settlement history exceeds amount",
				"expense_id", e.ID, "amount", e.Amount, "history_sum", historySum)
		}
	}

	global, err := s.GlobalFinancials(ctx)
	if err != nil {
		return err
	}
	logger.Log.Info("ledger reconciliation finished",
		"expenses", len(expenses),
		"violations", violations,
		"total_received", global.TotalReceived,
		"total_cash_spent", global.TotalCashSpent,
		"total_debt", global.TotalDebt)

	return nil
}

func (s *LedgerService) ensureBeneficiaryExists(ctx context.Context, kind string, id uint) error {
	var err error
	switch kind {
	case models.BeneficiaryKindSupplier:
		_, err = s.supplierRepo.FindByID(ctx, id)
	case models.BeneficiaryKindWorker:
		_, err = s.workerRepo.FindByID(ctx, id)
	case models.BeneficiaryKindSubcontractor:
		_, err = s.subRepo.FindByID(ctx, id)
	default:
		return fmt.Errorf("%w: tipo de beneficiario desconocido %q", ErrValidation, kind)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
		}
		return err
	}
	return nil
}
