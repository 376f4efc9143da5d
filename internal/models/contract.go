package models

import (
	"time"
)

// Contract represents a construction contract created from an accepted quote.
// TotalValue is frozen at conversion time from the quote pricing calculator
// and only changes through an explicit detail edit.
type Contract struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	GUID           string    `gorm:"size:36;uniqueIndex" json:"guid"`
	ContractNumber string    `gorm:"size:20;uniqueIndex;not null" json:"contract_number"`
	QuoteID        uint      `gorm:"not null;uniqueIndex" json:"quote_id"`
	TotalValue     float64   `gorm:"type:decimal(15,2);not null" json:"total_value"`
	Status         string    `gorm:"default:active;index" json:"status"`
	DurationDays   *int      `json:"duration_days"`
	Currency       string    `gorm:"default:HNL;not null" json:"currency"`
	DocumentPaths  *string   `gorm:"type:text" json:"document_paths"` // JSON string of attachment paths
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Quote    Quote             `gorm:"foreignKey:QuoteID" json:"quote,omitempty"`
	Stages   []PaymentStage    `gorm:"foreignKey:ContractID" json:"stages,omitempty"`
	Payments []ReceivedPayment `gorm:"foreignKey:ContractID" json:"payments,omitempty"`
	Expenses []Expense         `gorm:"foreignKey:ContractID" json:"expenses,omitempty"`
}

// TableName specifies the table name for Contract
func (Contract) TableName() string {
	return "contracts"
}

// Contract status constants
const (
	ContractStatusActive    = "active"
	ContractStatusOnHold    = "on_hold"
	ContractStatusCompleted = "completed"
	ContractStatusCancelled = "cancelled"
)

// MayHold returns true if contract can be put on hold
func (c *Contract) MayHold() bool {
	return c.Status == ContractStatusActive
}

// MayComplete returns true if contract can be marked completed
func (c *Contract) MayComplete() bool {
	return c.Status == ContractStatusActive
}

// MayCancel returns true if contract can be cancelled
func (c *Contract) MayCancel() bool {
	return c.Status == ContractStatusActive
}

// MayReactivate returns true if contract can go back to active.
// Reactivation is allowed from every non-active state, including
// completed and cancelled.
func (c *Contract) MayReactivate() bool {
	return c.Status == ContractStatusOnHold ||
		c.Status == ContractStatusCompleted ||
		c.Status == ContractStatusCancelled
}

// TotalReceived sums every received payment on the loaded contract
func (c *Contract) TotalReceived() float64 {
	var total float64
	for _, p := range c.Payments {
		total += p.Amount
	}
	return total
}

// TotalSpent sums every expense obligation on the loaded contract
func (c *Contract) TotalSpent() float64 {
	var total float64
	for _, e := range c.Expenses {
		total += e.Amount
	}
	return total
}

// ContractResponse is the JSON response format for contracts
type ContractResponse struct {
	ID             uint                      `json:"id"`
	GUID           string                    `json:"guid"`
	ContractNumber string                    `json:"contract_number"`
	QuoteID        uint                      `json:"quote_id"`
	ClientName     string                    `json:"client_name,omitempty"`
	TotalValue     float64                   `json:"total_value"`
	Status         string                    `json:"status"`
	DurationDays   *int                      `json:"duration_days"`
	Currency       string                    `json:"currency"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
	Stages         []PaymentStageResponse    `json:"stages,omitempty"`
	Payments       []ReceivedPaymentResponse `json:"payments,omitempty"`
	Financials     *ContractFinancials       `json:"financials,omitempty"`
	Schedule       []StageProjection         `json:"schedule,omitempty"`
}

// ToResponse converts Contract to ContractResponse
func (c *Contract) ToResponse() ContractResponse {
	resp := ContractResponse{
		ID:             c.ID,
		GUID:           c.GUID,
		ContractNumber: c.ContractNumber,
		QuoteID:        c.QuoteID,
		TotalValue:     c.TotalValue,
		Status:         c.Status,
		DurationDays:   c.DurationDays,
		Currency:       c.Currency,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}

	if c.Quote.ID != 0 {
		resp.ClientName = c.Quote.ClientName
	}

	for _, stage := range c.Stages {
		resp.Stages = append(resp.Stages, stage.ToResponse())
	}
	for _, payment := range c.Payments {
		resp.Payments = append(resp.Payments, payment.ToResponse())
	}

	return resp
}

// ContractSequence tracks the last assigned contract number per year.
// Numbers survive contract deletion, so a deleted contract's number is
// never reused.
type ContractSequence struct {
	ID         uint `gorm:"primaryKey"`
	Year       int  `gorm:"uniqueIndex;not null"`
	LastNumber int  `gorm:"not null"`
}

// TableName specifies the table name for ContractSequence
func (ContractSequence) TableName() string {
	return "contract_sequences"
}
