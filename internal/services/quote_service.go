package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"gorm.io/gorm"
)

// Pricer computes quote totals. Pricing lives upstream; this service only
// invokes it once when a quote is created and stores the result.
type Pricer interface {
	ComputeTotals(ctx context.Context, quote *models.Quote) (*models.QuoteTotals, error)
}

// passthroughPricer trusts the totals already present on the quote. Used
// when the upstream calculator posts finished quotes into this service.
type passthroughPricer struct{}

func (passthroughPricer) ComputeTotals(ctx context.Context, quote *models.Quote) (*models.QuoteTotals, error) {
	if quote.GrandTotal <= 0 {
		return nil, fmt.Errorf("%w: el total de la cotización debe ser mayor que cero", ErrValidation)
	}
	return &models.QuoteTotals{GrandTotal: quote.GrandTotal, BaseTotal: quote.BaseTotal}, nil
}

// NewPassthroughPricer returns the default pricing collaborator
func NewPassthroughPricer() Pricer {
	return passthroughPricer{}
}

type QuoteService struct {
	repo         repository.QuoteRepository
	contractRepo repository.ContractRepository
	pricer       Pricer
	auditSvc     *AuditService
}

func NewQuoteService(
	repo repository.QuoteRepository,
	contractRepo repository.ContractRepository,
	pricer Pricer,
	auditSvc *AuditService,
) *QuoteService {
	return &QuoteService{
		repo:         repo,
		contractRepo: contractRepo,
		pricer:       pricer,
		auditSvc:     auditSvc,
	}
}

func (s *QuoteService) FindByID(ctx context.Context, id uint) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cotización %d", ErrNotFound, id)
		}
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) List(ctx context.Context, query *repository.ListQuery) ([]models.Quote, int64, error) {
	return s.repo.List(ctx, query)
}

// Create stores a quote with its totals computed exactly once by the pricer
func (s *QuoteService) Create(ctx context.Context, quote *models.Quote, actor string) error {
	if quote.ClientName == "" {
		return fmt.Errorf("%w: el nombre del cliente es requerido", ErrValidation)
	}

	totals, err := s.pricer.ComputeTotals(ctx, quote)
	if err != nil {
		return err
	}
	quote.GrandTotal = totals.GrandTotal
	quote.BaseTotal = totals.BaseTotal

	if err := s.repo.Create(ctx, quote); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "CREATE", "Quote", quote.ID,
		fmt.Sprintf("Cotización creada para %s por %.2f", quote.ClientName, quote.GrandTotal), "", "")

	return nil
}

func (s *QuoteService) Update(ctx context.Context, quote *models.Quote, actor string) error {
	if quote.ClientName == "" {
		return fmt.Errorf("%w: el nombre del cliente es requerido", ErrValidation)
	}

	// Once converted, the quote is the frozen source of the contract's total
	if _, err := s.contractRepo.FindByQuoteID(ctx, quote.ID); err == nil {
		return fmt.Errorf("%w: no se puede editar", ErrQuoteAlreadyConverted)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	totals, err := s.pricer.ComputeTotals(ctx, quote)
	if err != nil {
		return err
	}
	quote.GrandTotal = totals.GrandTotal
	quote.BaseTotal = totals.BaseTotal

	if err := s.repo.Update(ctx, quote); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "UPDATE", "Quote", quote.ID,
		fmt.Sprintf("Cotización %d actualizada a %.2f", quote.ID, quote.GrandTotal), "", "")

	return nil
}

func (s *QuoteService) Delete(ctx context.Context, id uint, actor string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	if _, err := s.contractRepo.FindByQuoteID(ctx, id); err == nil {
		return fmt.Errorf("%w: no se puede eliminar", ErrQuoteAlreadyConverted)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actor, "DELETE", "Quote", id, "Cotización eliminada", "", "")
	return nil
}
