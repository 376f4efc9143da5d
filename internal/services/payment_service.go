package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/storage"
	"gorm.io/gorm"
)

type PaymentService struct {
	repo         repository.PaymentRepository
	contractRepo repository.ContractRepository
	auditSvc     *AuditService
	storage      *storage.LocalStorage
}

func NewPaymentService(
	repo repository.PaymentRepository,
	contractRepo repository.ContractRepository,
	auditSvc *AuditService,
	storage *storage.LocalStorage,
) *PaymentService {
	return &PaymentService{
		repo:         repo,
		contractRepo: contractRepo,
		auditSvc:     auditSvc,
		storage:      storage,
	}
}

// FindByID gets a received payment by ID
func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.ReceivedPayment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: pago %d", ErrNotFound, id)
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) FindByContract(ctx context.Context, contractID uint) ([]models.ReceivedPayment, error) {
	return s.repo.FindByContract(ctx, contractID)
}

func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.ReceivedPayment, int64, error) {
	return s.repo.List(ctx, query)
}

// Create records money received from the client. A payment without a stage
// is an extra outside the schedule; a staged payment must point at a stage
// of its own contract.
func (s *PaymentService) Create(ctx context.Context, payment *models.ReceivedPayment, actor string) error {
	if err := s.validate(ctx, payment); err != nil {
		return err
	}

	payment.IsExtra = payment.StageID == nil

	if err := s.repo.Create(ctx, payment); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "CREATE", "ReceivedPayment", payment.ID,
		fmt.Sprintf("Pago recibido de %.2f para el contrato %d", payment.Amount, payment.ContractID), "", "")

	return nil
}

func (s *PaymentService) Update(ctx context.Context, payment *models.ReceivedPayment, actor string) error {
	if err := s.validate(ctx, payment); err != nil {
		return err
	}

	payment.IsExtra = payment.StageID == nil

	if err := s.repo.Update(ctx, payment); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "UPDATE", "ReceivedPayment", payment.ID,
		fmt.Sprintf("Pago %d actualizado a %.2f", payment.ID, payment.Amount), "", "")

	return nil
}

func (s *PaymentService) Delete(ctx context.Context, id uint, actor string) error {
	payment, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "DELETE", "ReceivedPayment", id,
		fmt.Sprintf("Pago de %.2f eliminado del contrato %d", payment.Amount, payment.ContractID), "", "")

	return nil
}

// AttachReceipt stores the uploaded receipt and links it to the payment
func (s *PaymentService) AttachReceipt(ctx context.Context, id uint, file *multipart.FileHeader) (*models.ReceivedPayment, error) {
	payment, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.storage.Save(file, fmt.Sprintf("receipts/payments/%d", payment.ID))
	if err != nil {
		return nil, err
	}

	payment.ReceiptPath = &path
	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ReceiptPath resolves the stored receipt path for download
func (s *PaymentService) ReceiptPath(ctx context.Context, id uint) (string, error) {
	payment, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if payment.ReceiptPath == nil || *payment.ReceiptPath == "" {
		return "", fmt.Errorf("%w: el pago %d no tiene comprobante", ErrNotFound, id)
	}
	return s.storage.FullPath(*payment.ReceiptPath), nil
}

func (s *PaymentService) validate(ctx context.Context, payment *models.ReceivedPayment) error {
	if payment.Amount <= 0 {
		return fmt.Errorf("%w: el monto debe ser mayor que cero", ErrValidation)
	}

	if _, err := s.contractRepo.FindByID(ctx, payment.ContractID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: contrato %d", ErrNotFound, payment.ContractID)
		}
		return err
	}

	if payment.StageID != nil {
		stage, err := s.contractRepo.FindStageByID(ctx, *payment.StageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: etapa %d", ErrNotFound, *payment.StageID)
			}
			return err
		}
		if stage.ContractID != payment.ContractID {
			return fmt.Errorf("%w: la etapa %d no pertenece al contrato %d", ErrValidation, stage.ID, payment.ContractID)
		}
	}

	return nil
}
