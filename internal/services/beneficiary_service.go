package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"gorm.io/gorm"
)

// BeneficiaryService handles suppliers, workers and subcontractors. Deleting
// any of them is blocked while expenses (or agreements, for subcontractors)
// still reference them; the error names the blocking records so the caller
// knows what to clean up first.
type BeneficiaryService struct {
	supplierRepo  repository.SupplierRepository
	workerRepo    repository.WorkerRepository
	subRepo       repository.SubcontractorRepository
	expenseRepo   repository.ExpenseRepository
	agreementRepo repository.AgreementRepository
	auditSvc      *AuditService
}

func NewBeneficiaryService(
	supplierRepo repository.SupplierRepository,
	workerRepo repository.WorkerRepository,
	subRepo repository.SubcontractorRepository,
	expenseRepo repository.ExpenseRepository,
	agreementRepo repository.AgreementRepository,
	auditSvc *AuditService,
) *BeneficiaryService {
	return &BeneficiaryService{
		supplierRepo:  supplierRepo,
		workerRepo:    workerRepo,
		subRepo:       subRepo,
		expenseRepo:   expenseRepo,
		agreementRepo: agreementRepo,
		auditSvc:      auditSvc,
	}
}

// --- Suppliers ---

func (s *BeneficiaryService) FindSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: proveedor %d", ErrNotFound, id)
		}
		return nil, err
	}
	return supplier, nil
}

func (s *BeneficiaryService) ListSuppliers(ctx context.Context, query *repository.ListQuery) ([]models.Supplier, int64, error) {
	return s.supplierRepo.List(ctx, query)
}

func (s *BeneficiaryService) CreateSupplier(ctx context.Context, supplier *models.Supplier, actor string) error {
	if supplier.Name == "" {
		return fmt.Errorf("%w: el nombre es requerido", ErrValidation)
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "CREATE", "Supplier", supplier.ID,
		fmt.Sprintf("Proveedor creado: %s", supplier.Name), "", "")
	return nil
}

func (s *BeneficiaryService) UpdateSupplier(ctx context.Context, supplier *models.Supplier, actor string) error {
	if supplier.Name == "" {
		return fmt.Errorf("%w: el nombre es requerido", ErrValidation)
	}
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "UPDATE", "Supplier", supplier.ID,
		fmt.Sprintf("Proveedor actualizado: %s", supplier.Name), "", "")
	return nil
}

func (s *BeneficiaryService) DeleteSupplier(ctx context.Context, id uint, actor string) error {
	supplier, err := s.FindSupplier(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureNotReferenced(ctx, models.BeneficiaryKindSupplier, id); err != nil {
		return err
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "DELETE", "Supplier", id,
		fmt.Sprintf("Proveedor eliminado: %s", supplier.Name), "", "")
	return nil
}

// --- Workers ---

func (s *BeneficiaryService) FindWorker(ctx context.Context, id uint) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: trabajador %d", ErrNotFound, id)
		}
		return nil, err
	}
	return worker, nil
}

func (s *BeneficiaryService) ListWorkers(ctx context.Context, query *repository.ListQuery) ([]models.Worker, int64, error) {
	return s.workerRepo.List(ctx, query)
}

func (s *BeneficiaryService) CreateWorker(ctx context.Context, worker *models.Worker, actor string) error {
	if worker.Name == "" {
		return fmt.Errorf("%w: el nombre es requerido", ErrValidation)
	}
	if err := s.workerRepo.Create(ctx, worker); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "CREATE", "Worker", worker.ID,
		fmt.Sprintf("Trabajador creado: %s", worker.Name), "", "")
	return nil
}

func (s *BeneficiaryService) UpdateWorker(ctx context.Context, worker *models.Worker, actor string) error {
	if worker.Name == "" {
		return fmt.Errorf("%w: el nombre es requerido", ErrValidation)
	}
	if err := s.workerRepo.Update(ctx, worker); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "UPDATE", "Worker", worker.ID,
		fmt.Sprintf("Trabajador actualizado: %s", worker.Name), "", "")
	return nil
}

func (s *BeneficiaryService) DeleteWorker(ctx context.Context, id uint, actor string) error {
	worker, err := s.FindWorker(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureNotReferenced(ctx, models.BeneficiaryKindWorker, id); err != nil {
		return err
	}
	if err := s.workerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "DELETE", "Worker", id,
		fmt.Sprintf("Trabajador eliminado: %s", worker.Name), "", "")
	return nil
}

// --- Subcontractors ---

func (s *BeneficiaryService) FindSubcontractor(ctx context.Context, id uint) (*models.Subcontractor, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subcontratista %d", ErrNotFound, id)
		}
		return nil, err
	}
	return sub, nil
}

func (s *BeneficiaryService) ListSubcontractors(ctx context.Context, query *repository.ListQuery) ([]models.Subcontractor, int64, error) {
	return s.subRepo.List(ctx, query)
}

func (s *BeneficiaryService) CreateSubcontractor(ctx context.Context, sub *models.Subcontractor, actor string) error {
	if sub.Name == "" {
		return fmt.Errorf("%w: el nombre es requerido", ErrValidation)
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "CREATE", "Subcontractor", sub.ID,
		fmt.Sprintf("Subcontratista creado: %s", sub.Name), "", "")
	return nil
}

func (s *BeneficiaryService) UpdateSubcontractor(ctx context.Context, sub *models.Subcontractor, actor string) error {
	if sub.Name == "" {
		return fmt.Errorf("%w: el nombre es requerido", ErrValidation)
	}
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "UPDATE", "Subcontractor", sub.ID,
		fmt.Sprintf("Subcontratista actualizado: %s", sub.Name), "", "")
	return nil
}

func (s *BeneficiaryService) DeleteSubcontractor(ctx context.Context, id uint, actor string) error {
	sub, err := s.FindSubcontractor(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureNotReferenced(ctx, models.BeneficiaryKindSubcontractor, id); err != nil {
		return err
	}
	agreements, err := s.agreementRepo.CountBySubcontractor(ctx, id)
	if err != nil {
		return err
	}
	if agreements > 0 {
		return fmt.Errorf("%w: el subcontratista tiene %d acuerdos vigentes", ErrHasRecords, agreements)
	}
	if err := s.subRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actor, "DELETE", "Subcontractor", id,
		fmt.Sprintf("Subcontratista eliminado: %s", sub.Name), "", "")
	return nil
}

func (s *BeneficiaryService) ensureNotReferenced(ctx context.Context, kind string, id uint) error {
	count, err := s.expenseRepo.CountByBeneficiary(ctx, kind, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	// Name the blocking expenses so the caller knows what to reassign first
	expenses, err := s.expenseRepo.FindByBeneficiary(ctx, kind, id, nil)
	if err != nil {
		return err
	}
	ids := make([]string, 0, 5)
	for _, e := range expenses {
		if len(ids) == 5 {
			break
		}
		ids = append(ids, strconv.Itoa(int(e.ID)))
	}
	return fmt.Errorf("%w: %d gastos hacen referencia a este beneficiario (gastos: %s)",
		ErrHasRecords, count, strings.Join(ids, ", "))
}
