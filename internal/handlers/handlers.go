package handlers

import (
	"github.com/dcastellanos/obrax-api/internal/jobs"
	"github.com/dcastellanos/obrax-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health      *HealthHandler
	Quote       *QuoteHandler
	Contract    *ContractHandler
	Payment     *PaymentHandler
	Expense     *ExpenseHandler
	Beneficiary *BeneficiaryHandler
	Agreement   *AgreementHandler
	Ledger      *LedgerHandler
	Snapshot    *SnapshotHandler
	Audit       *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(worker),
		Quote:       NewQuoteHandler(svcs.Quote, svcs.Contract),
		Contract:    NewContractHandler(svcs.Contract, svcs.Ledger, svcs.Schedule, svcs.Report),
		Payment:     NewPaymentHandler(svcs.Payment),
		Expense:     NewExpenseHandler(svcs.Expense),
		Beneficiary: NewBeneficiaryHandler(svcs.Beneficiary, svcs.Ledger),
		Agreement:   NewAgreementHandler(svcs.Agreement),
		Ledger:      NewLedgerHandler(svcs.Ledger, svcs.Export),
		Snapshot:    NewSnapshotHandler(svcs.Snapshot),
		Audit:       NewAuditHandler(svcs.Audit),
	}
}
