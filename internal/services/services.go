package services

import (
	"github.com/dcastellanos/obrax-api/internal/config"
	"github.com/dcastellanos/obrax-api/internal/repository"
	"github.com/dcastellanos/obrax-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Quote       *QuoteService
	Contract    *ContractService
	Payment     *PaymentService
	Expense     *ExpenseService
	Beneficiary *BeneficiaryService
	Agreement   *AgreementService
	Ledger      *LedgerService
	Schedule    *ScheduleService
	Snapshot    *SnapshotService
	Report      *ReportService
	Export      *ExportService
	Audit       *AuditService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, storage *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	auditSvc := NewAuditService(db)
	scheduleSvc := NewScheduleService()
	ledgerSvc := NewLedgerService(repos.Contract, repos.Payment, repos.Expense, repos.Supplier, repos.Worker, repos.Subcontractor)

	return &Services{
		Quote:       NewQuoteService(repos.Quote, repos.Contract, NewPassthroughPricer(), auditSvc),
		Contract:    NewContractService(repos.Contract, repos.Quote, repos.Payment, repos.Expense, auditSvc, cfg.ContractNumberPrefix),
		Payment:     NewPaymentService(repos.Payment, repos.Contract, auditSvc, storage),
		Expense:     NewExpenseService(repos.Expense, repos.Contract, repos.Supplier, repos.Worker, repos.Subcontractor, auditSvc, storage),
		Beneficiary: NewBeneficiaryService(repos.Supplier, repos.Worker, repos.Subcontractor, repos.Expense, repos.Agreement, auditSvc),
		Agreement:   NewAgreementService(repos.Agreement, repos.Contract, repos.Subcontractor, repos.Expense, auditSvc),
		Ledger:      ledgerSvc,
		Schedule:    scheduleSvc,
		Snapshot:    NewSnapshotService(db),
		Report:      NewReportService(repos.Contract, repos.Expense, ledgerSvc, scheduleSvc),
		Export:      NewExportService(ledgerSvc),
		Audit:       auditSvc,
	}
}
