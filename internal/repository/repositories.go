package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Quote         QuoteRepository
	Contract      ContractRepository
	Payment       PaymentRepository
	Expense       ExpenseRepository
	Supplier      SupplierRepository
	Worker        WorkerRepository
	Subcontractor SubcontractorRepository
	Agreement     AgreementRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Quote:         NewQuoteRepository(db),
		Contract:      NewContractRepository(db),
		Payment:       NewPaymentRepository(db),
		Expense:       NewExpenseRepository(db),
		Supplier:      NewSupplierRepository(db),
		Worker:        NewWorkerRepository(db),
		Subcontractor: NewSubcontractorRepository(db),
		Agreement:     NewAgreementRepository(db),
	}
}
