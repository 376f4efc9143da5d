package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/storage"
	"gorm.io/gorm"
)

type ExpenseService struct {
	repo         repository.ExpenseRepository
	contractRepo repository.ContractRepository
	supplierRepo repository.SupplierRepository
	workerRepo   repository.WorkerRepository
	subRepo      repository.SubcontractorRepository
	auditSvc     *AuditService
	storage      *storage.LocalStorage
}

func NewExpenseService(
	repo repository.ExpenseRepository,
	contractRepo repository.ContractRepository,
	supplierRepo repository.SupplierRepository,
	workerRepo repository.WorkerRepository,
	subRepo repository.SubcontractorRepository,
	auditSvc *AuditService,
	storage *storage.LocalStorage,
) *ExpenseService {
	return &ExpenseService{
		repo:         repo,
		contractRepo: contractRepo,
		supplierRepo: supplierRepo,
		workerRepo:   workerRepo,
		subRepo:      subRepo,
		auditSvc:     auditSvc,
		storage:      storage,
	}
}

// FindByID gets an expense with its settlement history
func (s *ExpenseService) FindByID(ctx context.Context, id uint) (*models.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: gasto %d", ErrNotFound, id)
		}
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) FindByContract(ctx context.Context, contractID uint) ([]models.Expense, error) {
	return s.repo.FindByContract(ctx, contractID)
}

func (s *ExpenseService) List(ctx context.Context, query *repository.ListQuery) ([]models.Expense, int64, error) {
	return s.repo.List(ctx, query)
}

// Create validates and records a new expense. Cash expenses are settled in
// full at creation; credit expenses start with zero paid.
func (s *ExpenseService) Create(ctx context.Context, expense *models.Expense, actor string) error {
	if err := s.validate(ctx, expense); err != nil {
		return err
	}

	if _, err := s.contractRepo.FindByID(ctx, expense.ContractID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: contrato %d", ErrNotFound, expense.ContractID)
		}
		return err
	}

	switch expense.PaymentMethod {
	case models.PaymentMethodCash:
		expense.PaidAmount = expense.Amount
	case models.PaymentMethodCredit:
		expense.PaidAmount = 0
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "CREATE", "Expense", expense.ID,
		fmt.Sprintf("Gasto registrado: %s por %.2f (%s)", expense.Description, expense.Amount, expense.PaymentMethod), "", "")

	return nil
}

// Update edits the descriptive fields of an expense. The amount of a credit
// expense can never drop below what has already been paid, and the payment
// method is frozen once settlements exist: flipping a partially paid credit
// expense to cash would orphan its history.
func (s *ExpenseService) Update(ctx context.Context, expense *models.Expense, actor string) error {
	if err := s.validate(ctx, expense); err != nil {
		return err
	}
	if expense.Amount < expense.PaidAmount {
		return fmt.Errorf("%w: el monto (%.2f) no puede ser menor que lo ya pagado (%.2f)", ErrValidation, expense.Amount, expense.PaidAmount)
	}

	current, err := s.FindByID(ctx, expense.ID)
	if err != nil {
		return err
	}
	if len(current.PaymentHistory) > 0 && expense.PaymentMethod != current.PaymentMethod {
		return fmt.Errorf("%w: no se puede cambiar el método de pago de un gasto con abonos registrados", ErrValidation)
	}

	if expense.PaymentMethod == models.PaymentMethodCash {
		expense.PaidAmount = expense.Amount
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "UPDATE", "Expense", expense.ID,
		fmt.Sprintf("Gasto actualizado: %s por %.2f", expense.Description, expense.Amount), "", "")

	return nil
}

func (s *ExpenseService) Delete(ctx context.Context, id uint, actor string) error {
	expense, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "DELETE", "Expense", id,
		fmt.Sprintf("Gasto eliminado: %s por %.2f", expense.Description, expense.Amount), "", "")

	return nil
}

// PayPartialDebt settles part of a credit expense. Overpayment is rejected
// outright, so the recorded history always sums to exactly what was paid.
// Deliberately not idempotent: every accepted call is a distinct settlement
// event appended to the history.
func (s *ExpenseService) PayPartialDebt(ctx context.Context, expenseID uint, amount float64, paymentDate time.Time, receiptPath *string, note string, actor string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: el monto a pagar debe ser mayor que cero", ErrValidation)
	}

	expense, err := s.FindByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if expense.PaymentMethod != models.PaymentMethodCredit {
		return nil, fmt.Errorf("%w: solo los gastos a crédito admiten abonos", ErrValidation)
	}

	outstanding := expense.Amount - expense.PaidAmount
	if amount > outstanding {
		return nil, fmt.Errorf("%w: el abono (%.2f) excede la deuda pendiente (%.2f)", ErrValidation, amount, outstanding)
	}

	settlement := &models.ExpensePayment{
		ExpenseID:   expense.ID,
		Amount:      amount,
		PaymentDate: paymentDate,
		ReceiptPath: receiptPath,
	}
	if note != "" {
		settlement.Note = &note
	}

	// The repository re-validates the outstanding balance under a row lock,
	// so a concurrent settlement that slipped past the check above still
	// cannot overdraw the debt.
	if err := s.repo.RecordSettlement(ctx, expense.ID, settlement); err != nil {
		if errors.Is(err, repository.ErrSettlementConflict) {
			return nil, fmt.Errorf("%w: el abono (%.2f) excede la deuda pendiente", ErrValidation, amount)
		}
		return nil, err
	}

	refreshed, err := s.FindByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor, "SETTLE", "Expense", expense.ID,
		fmt.Sprintf("Abono de %.2f al gasto %q. Pagado: %.2f de %.2f", amount, refreshed.Description, refreshed.PaidAmount, refreshed.Amount), "", "")

	return refreshed, nil
}

// AttachReceipt stores the uploaded receipt and links it to the expense
func (s *ExpenseService) AttachReceipt(ctx context.Context, id uint, file *multipart.FileHeader) (*models.Expense, error) {
	expense, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.storage.Save(file, fmt.Sprintf("receipts/expenses/%d", expense.ID))
	if err != nil {
		return nil, err
	}

	expense.ReceiptPath = &path
	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ReceiptPath resolves the stored receipt path for download
func (s *ExpenseService) ReceiptPath(ctx context.Context, id uint) (string, error) {
	expense, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if expense.ReceiptPath == nil || *expense.ReceiptPath == "" {
		return "", fmt.Errorf("%w: el gasto %d no tiene comprobante", ErrNotFound, id)
	}
	return s.storage.FullPath(*expense.ReceiptPath), nil
}

func (s *ExpenseService) validate(ctx context.Context, expense *models.Expense) error {
	if expense.Description == "" {
		return fmt.Errorf("%w: la descripción es requerida", ErrValidation)
	}
	if expense.Amount <= 0 {
		return fmt.Errorf("%w: el monto debe ser mayor que cero", ErrValidation)
	}
	if !models.ValidCategory(expense.Category) {
		return fmt.Errorf("%w: categoría desconocida %q", ErrValidation, expense.Category)
	}
	if expense.PaymentMethod != models.PaymentMethodCash && expense.PaymentMethod != models.PaymentMethodCredit {
		return fmt.Errorf("%w: método de pago desconocido %q", ErrValidation, expense.PaymentMethod)
	}

	// Beneficiary tag: both fields set or both empty
	if (expense.BeneficiaryKind == "") != (expense.BeneficiaryID == nil) {
		return fmt.Errorf("%w: el beneficiario requiere tipo e id en conjunto", ErrValidation)
	}
	if expense.BeneficiaryKind != "" {
		if !models.ValidBeneficiaryKind(expense.BeneficiaryKind) {
			return fmt.Errorf("%w: tipo de beneficiario desconocido %q", ErrValidation, expense.BeneficiaryKind)
		}
		var err error
		switch expense.BeneficiaryKind {
		case models.BeneficiaryKindSupplier:
			_, err = s.supplierRepo.FindByID(ctx, *expense.BeneficiaryID)
		case models.BeneficiaryKindWorker:
			_, err = s.workerRepo.FindByID(ctx, *expense.BeneficiaryID)
		case models.BeneficiaryKindSubcontractor:
			_, err = s.subRepo.FindByID(ctx, *expense.BeneficiaryID)
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s %d", ErrNotFound, expense.BeneficiaryKind, *expense.BeneficiaryID)
			}
			return err
		}
	}

	return nil
}
