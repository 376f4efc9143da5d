package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/statemachine"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractService struct {
	repo         repository.ContractRepository
	quoteRepo    repository.QuoteRepository
	paymentRepo  repository.PaymentRepository
	expenseRepo  repository.ExpenseRepository
	scheduleSvc  *ScheduleService
	auditSvc     *AuditService
	numberPrefix string
}

func NewContractService(
	repo repository.ContractRepository,
	quoteRepo repository.QuoteRepository,
	paymentRepo repository.PaymentRepository,
	expenseRepo repository.ExpenseRepository,
	auditSvc *AuditService,
	numberPrefix string,
) *ContractService {
	return &ContractService{
		repo:         repo,
		quoteRepo:    quoteRepo,
		paymentRepo:  paymentRepo,
		expenseRepo:  expenseRepo,
		scheduleSvc:  NewScheduleService(),
		auditSvc:     auditSvc,
		numberPrefix: numberPrefix,
	}
}

// FindByID gets a contract by ID
func (s *ContractService) FindByID(ctx context.Context, id uint) (*models.Contract, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contrato %d", ErrNotFound, id)
		}
		return nil, err
	}
	return contract, nil
}

// FindByIDWithDetails gets a contract by ID with all nested associations preloaded
func (s *ContractService) FindByIDWithDetails(ctx context.Context, id uint) (*models.Contract, error) {
	contract, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: contrato %d", ErrNotFound, id)
		}
		return nil, err
	}
	return contract, nil
}

func (s *ContractService) List(ctx context.Context, query *repository.ContractQuery) ([]models.Contract, int64, error) {
	return s.repo.List(ctx, query)
}

// ConvertQuote turns a quote into a contract. The contract's total value is
// frozen from the quote at this moment and never recomputed. Converting the
// same quote twice returns the already existing contract together with
// ErrQuoteAlreadyConverted, so callers can distinguish the replay.
func (s *ContractService) ConvertQuote(ctx context.Context, quoteID uint, stages []models.PaymentStage, durationDays *int, actor string) (*models.Contract, error) {
	quote, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cotización %d", ErrNotFound, quoteID)
		}
		return nil, err
	}

	existing, err := s.repo.FindByQuoteID(ctx, quoteID)
	if err == nil {
		return existing, fmt.Errorf("%w: contrato %s", ErrQuoteAlreadyConverted, existing.ContractNumber)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if len(stages) == 0 {
		stages = s.scheduleSvc.DefaultStages()
	}
	if err := s.scheduleSvc.ValidateStages(stages); err != nil {
		return nil, err
	}
	for i := range stages {
		stages[i].Position = i + 1
	}

	contract := &models.Contract{
		GUID:         uuid.NewString(),
		QuoteID:      quote.ID,
		TotalValue:   quote.GrandTotal,
		Status:       models.ContractStatusActive,
		DurationDays: durationDays,
		Stages:       stages,
	}

	if err := s.repo.CreateWithNumber(ctx, s.numberPrefix, contract); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor, "CONVERT", "Contract", contract.ID,
		fmt.Sprintf("Cotización %d convertida en contrato %s. Valor total: %.2f", quote.ID, contract.ContractNumber, contract.TotalValue), "", "")

	return contract, nil
}

// UpdateDetails is the single legal way to change a contract's frozen total
// value after conversion. Nil fields are left untouched.
func (s *ContractService) UpdateDetails(ctx context.Context, id uint, totalValue *float64, durationDays *int, documentPaths *string, actor string) (*models.Contract, error) {
	contract, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if totalValue != nil {
		if *totalValue <= 0 {
			return nil, fmt.Errorf("%w: el valor total debe ser mayor que cero", ErrValidation)
		}
		contract.TotalValue = *totalValue
	}
	if durationDays != nil {
		contract.DurationDays = durationDays
	}
	if documentPaths != nil {
		contract.DocumentPaths = documentPaths
	}

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor, "UPDATE", "Contract", contract.ID,
		fmt.Sprintf("Contrato %s actualizado. Valor total: %.2f", contract.ContractNumber, contract.TotalValue), "", "")

	return contract, nil
}

// ReplaceSchedule swaps the contract's stage set. Blocked once any received
// payment references a stage, since stages with money against them cannot
// silently disappear.
func (s *ContractService) ReplaceSchedule(ctx context.Context, contractID uint, stages []models.PaymentStage, actor string) ([]models.PaymentStage, error) {
	contract, err := s.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleSvc.ValidateStages(stages); err != nil {
		return nil, err
	}

	linked, err := s.paymentRepo.CountStageLinked(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if linked > 0 {
		return nil, fmt.Errorf("%w: %d pagos están vinculados a las etapas actuales", ErrHasRecords, linked)
	}

	// The repository repeats the linked-payment check inside its transaction;
	// a payment linked after the count above still blocks the swap.
	if err := s.repo.ReplaceStages(ctx, contractID, stages); err != nil {
		if errors.Is(err, repository.ErrStagesLinked) {
			return nil, fmt.Errorf("%w: hay pagos vinculados a las etapas actuales", ErrHasRecords)
		}
		return nil, err
	}

	s.auditSvc.Log(ctx, actor, "UPDATE", "Contract", contract.ID,
		fmt.Sprintf("Cronograma de pagos del contrato %s reemplazado (%d etapas)", contract.ContractNumber, len(stages)), "", "")

	return s.repo.FindStages(ctx, contractID)
}

// Delete removes a contract that has no financial records. Payments and
// expenses are never cascaded implicitly.
func (s *ContractService) Delete(ctx context.Context, id uint, actor string) error {
	contract, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	payments, err := s.paymentRepo.FindByContract(ctx, id)
	if err != nil {
		return err
	}
	if len(payments) > 0 {
		return fmt.Errorf("%w: el contrato tiene %d pagos registrados", ErrHasRecords, len(payments))
	}

	expenses, err := s.expenseRepo.FindByContract(ctx, id)
	if err != nil {
		return err
	}
	if len(expenses) > 0 {
		return fmt.Errorf("%w: el contrato tiene %d gastos registrados", ErrHasRecords, len(expenses))
	}

	// The repository removes the stages and re-counts payments and expenses in
	// the same transaction, covering records created after the checks above.
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrContractHasRecords) {
			return fmt.Errorf("%w: el contrato tiene registros financieros", ErrHasRecords)
		}
		return err
	}

	s.auditSvc.Log(ctx, actor, "DELETE", "Contract", id,
		fmt.Sprintf("Contrato %s eliminado", contract.ContractNumber), "", "")

	return nil
}

// Hold puts an active contract on hold
func (s *ContractService) Hold(ctx context.Context, id uint, actor string) (*models.Contract, error) {
	return s.transition(ctx, id, actor, "HOLD", func(fsm *statemachine.ContractFSM) error {
		return fsm.Hold(ctx)
	})
}

// Complete marks an active contract as completed
func (s *ContractService) Complete(ctx context.Context, id uint, actor string) (*models.Contract, error) {
	return s.transition(ctx, id, actor, "COMPLETE", func(fsm *statemachine.ContractFSM) error {
		return fsm.Complete(ctx)
	})
}

// Cancel cancels an active contract
func (s *ContractService) Cancel(ctx context.Context, id uint, actor string) (*models.Contract, error) {
	return s.transition(ctx, id, actor, "CANCEL", func(fsm *statemachine.ContractFSM) error {
		return fsm.Cancel(ctx)
	})
}

// Reactivate returns a held, completed or cancelled contract to active
func (s *ContractService) Reactivate(ctx context.Context, id uint, actor string) (*models.Contract, error) {
	return s.transition(ctx, id, actor, "REACTIVATE", func(fsm *statemachine.ContractFSM) error {
		return fsm.Reactivate(ctx)
	})
}

func (s *ContractService) transition(ctx context.Context, id uint, actor, action string, event func(*statemachine.ContractFSM) error) (*models.Contract, error) {
	contract, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fsm := statemachine.NewContractFSM(contract)
	if err := event(fsm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repo.Update(ctx, contract); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor, action, "Contract", contract.ID,
		fmt.Sprintf("Contrato %s cambió a estado %s", contract.ContractNumber, contract.Status), "", "")

	return contract, nil
}
