package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"gorm.io/gorm"
)

type AgreementService struct {
	repo         repository.AgreementRepository
	contractRepo repository.ContractRepository
	subRepo      repository.SubcontractorRepository
	expenseRepo  repository.ExpenseRepository
	auditSvc     *AuditService
}

func NewAgreementService(
	repo repository.AgreementRepository,
	contractRepo repository.ContractRepository,
	subRepo repository.SubcontractorRepository,
	expenseRepo repository.ExpenseRepository,
	auditSvc *AuditService,
) *AgreementService {
	return &AgreementService{
		repo:         repo,
		contractRepo: contractRepo,
		subRepo:      subRepo,
		expenseRepo:  expenseRepo,
		auditSvc:     auditSvc,
	}
}

func (s *AgreementService) FindByID(ctx context.Context, id uint) (*models.SubcontractorAgreement, error) {
	agreement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: acuerdo %d", ErrNotFound, id)
		}
		return nil, err
	}
	return agreement, nil
}

func (s *AgreementService) FindByContract(ctx context.Context, contractID uint) ([]models.SubcontractorAgreement, error) {
	return s.repo.FindByContract(ctx, contractID)
}

func (s *AgreementService) FindBySubcontractor(ctx context.Context, subcontractorID uint) ([]models.SubcontractorAgreement, error) {
	return s.repo.FindBySubcontractor(ctx, subcontractorID)
}

// Create registers a subcontractor's agreed scope on a contract. One
// agreement per (contract, subcontractor) pair.
func (s *AgreementService) Create(ctx context.Context, agreement *models.SubcontractorAgreement, actor string) error {
	if agreement.TotalAmount <= 0 {
		return fmt.Errorf("%w: el monto acordado debe ser mayor que cero", ErrValidation)
	}

	if _, err := s.contractRepo.FindByID(ctx, agreement.ContractID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: contrato %d", ErrNotFound, agreement.ContractID)
		}
		return err
	}
	if _, err := s.subRepo.FindByID(ctx, agreement.SubcontractorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: subcontratista %d", ErrNotFound, agreement.SubcontractorID)
		}
		return err
	}

	existing, err := s.repo.FindByContractAndSubcontractor(ctx, agreement.ContractID, agreement.SubcontractorID)
	if err == nil {
		return fmt.Errorf("%w: ya existe el acuerdo %d para este subcontratista en el contrato", ErrHasRecords, existing.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.repo.Create(ctx, agreement); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "CREATE", "SubcontractorAgreement", agreement.ID,
		fmt.Sprintf("Acuerdo de %.2f con el subcontratista %d en el contrato %d", agreement.TotalAmount, agreement.SubcontractorID, agreement.ContractID), "", "")

	return nil
}

func (s *AgreementService) Update(ctx context.Context, agreement *models.SubcontractorAgreement, actor string) error {
	if agreement.TotalAmount <= 0 {
		return fmt.Errorf("%w: el monto acordado debe ser mayor que cero", ErrValidation)
	}
	if err := s.repo.Update(ctx, agreement); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "UPDATE", "SubcontractorAgreement", agreement.ID,
		fmt.Sprintf("Acuerdo %d actualizado a %.2f", agreement.ID, agreement.TotalAmount), "", "")
	return nil
}

func (s *AgreementService) Delete(ctx context.Context, id uint, actor string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "DELETE", "SubcontractorAgreement", id, "Acuerdo eliminado", "", "")
	return nil
}

// AgreementProgress is the paid-versus-agreed view of one agreement
type AgreementProgress struct {
	Agreement models.SubcontractorAgreement `json:"agreement"`
	Paid      float64                       `json:"paid"`
	Remaining float64                       `json:"remaining"`
}

// Progress derives how much of the agreed amount has effectively been paid
// through expenses tagged to the subcontractor on that contract.
func (s *AgreementService) Progress(ctx context.Context, id uint) (*AgreementProgress, error) {
	agreement, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.FindByBeneficiary(ctx, models.BeneficiaryKindSubcontractor, agreement.SubcontractorID, &agreement.ContractID)
	if err != nil {
		return nil, err
	}

	var paid float64
	for _, e := range expenses {
		paid += e.EffectivePaid()
	}

	return &AgreementProgress{
		Agreement: *agreement,
		Paid:      paid,
		Remaining: agreement.TotalAmount - paid,
	}, nil
}
