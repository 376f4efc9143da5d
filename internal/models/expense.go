package models

import (
	"time"
)

// Expense is money owed by a contract to a supplier, worker or subcontractor
// (or to nobody in particular, e.g. fuel). Cash expenses are settled in full
// at creation; credit expenses accumulate PaidAmount through partial
// settlements recorded in PaymentHistory.
type Expense struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ContractID      uint      `gorm:"not null;index" json:"contract_id"`
	ExpenseDate     time.Time `gorm:"type:date;not null;index" json:"expense_date"`
	Description     string    `gorm:"not null" json:"description"`
	Amount          float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Category        string    `gorm:"not null;index" json:"category"`
	PaymentMethod   string    `gorm:"not null;index" json:"payment_method"`
	PaidAmount      float64   `gorm:"type:decimal(15,2);not null;default:0" json:"paid_amount"`
	BeneficiaryKind string    `gorm:"size:20;index:idx_expenses_beneficiary" json:"beneficiary_kind"`
	BeneficiaryID   *uint     `gorm:"index:idx_expenses_beneficiary" json:"beneficiary_id"`
	ReceiptPath     *string   `json:"-"`
	Notes           *string   `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Contract       Contract         `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	PaymentHistory []ExpensePayment `gorm:"foreignKey:ExpenseID" json:"payment_history,omitempty"`
}

// TableName specifies the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}

// Expense category constants
const (
	CategoryMaterial    = "material"
	CategoryLabor       = "labor"
	CategoryTransport   = "transport"
	CategoryOther       = "other"
	CategoryDebtPayment = "debt_payment"
)

// Payment method constants
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCredit = "credit"
)

// Beneficiary kind constants
const (
	BeneficiaryKindSupplier      = "supplier"
	BeneficiaryKindWorker        = "worker"
	BeneficiaryKindSubcontractor = "subcontractor"
)

// ValidCategory returns true for a known expense category
func ValidCategory(category string) bool {
	switch category {
	case CategoryMaterial, CategoryLabor, CategoryTransport, CategoryOther, CategoryDebtPayment:
		return true
	}
	return false
}

// ValidBeneficiaryKind returns true for a known beneficiary kind
func ValidBeneficiaryKind(kind string) bool {
	switch kind {
	case BeneficiaryKindSupplier, BeneficiaryKindWorker, BeneficiaryKindSubcontractor:
		return true
	}
	return false
}

// HasBeneficiary returns true when the expense is owed to a tracked party
func (e *Expense) HasBeneficiary() bool {
	return e.BeneficiaryKind != "" && e.BeneficiaryID != nil
}

// EffectivePaid is the settled portion used for balance math: cash expenses
// count at full amount, credit expenses at their accumulated PaidAmount.
func (e *Expense) EffectivePaid() float64 {
	if e.PaymentMethod == PaymentMethodCash {
		return e.Amount
	}
	return e.PaidAmount
}

// Outstanding is the unsettled debt on the expense
func (e *Expense) Outstanding() float64 {
	return e.Amount - e.EffectivePaid()
}

// IsSettled returns true when nothing remains owed
func (e *Expense) IsSettled() bool {
	return e.Outstanding() <= 0
}

// ExpensePayment is one settlement event against a credit expense.
// Two identical settlements are two distinct entries: the history is an
// append-only record of what was paid and when, never deduplicated.
type ExpensePayment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ExpenseID   uint      `gorm:"not null;index" json:"expense_id"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate time.Time `gorm:"type:date;not null" json:"payment_date"`
	ReceiptPath *string   `json:"-"`
	Note        *string   `gorm:"type:text" json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for ExpensePayment
func (ExpensePayment) TableName() string {
	return "expense_payments"
}

// ExpenseResponse is the JSON response format for expenses
type ExpenseResponse struct {
	ID              uint             `json:"id"`
	ContractID      uint             `json:"contract_id"`
	ExpenseDate     time.Time        `json:"expense_date"`
	Description     string           `json:"description"`
	Amount          float64          `json:"amount"`
	Category        string           `json:"category"`
	PaymentMethod   string           `json:"payment_method"`
	PaidAmount      float64          `json:"paid_amount"`
	Outstanding     float64          `json:"outstanding"`
	Settled         bool             `json:"settled"`
	BeneficiaryKind string           `json:"beneficiary_kind,omitempty"`
	BeneficiaryID   *uint            `json:"beneficiary_id,omitempty"`
	BeneficiaryName string           `json:"beneficiary_name,omitempty"`
	Notes           *string          `json:"notes"`
	HasReceipt      bool             `json:"has_receipt"`
	PaymentHistory  []ExpensePayment `json:"payment_history,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ToResponse converts Expense to ExpenseResponse
func (e *Expense) ToResponse() ExpenseResponse {
	return ExpenseResponse{
		ID:              e.ID,
		ContractID:      e.ContractID,
		ExpenseDate:     e.ExpenseDate,
		Description:     e.Description,
		Amount:          e.Amount,
		Category:        e.Category,
		PaymentMethod:   e.PaymentMethod,
		PaidAmount:      e.EffectivePaid(),
		Outstanding:     e.Outstanding(),
		Settled:         e.IsSettled(),
		BeneficiaryKind: e.BeneficiaryKind,
		BeneficiaryID:   e.BeneficiaryID,
		Notes:           e.Notes,
		HasReceipt:      e.ReceiptPath != nil && *e.ReceiptPath != "",
		PaymentHistory:  e.PaymentHistory,
		CreatedAt:       e.CreatedAt,
	}
}
