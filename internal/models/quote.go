package models

import (
	"time"
)

// Quote is the upstream pricing calculator's record. The ledger never
// recomputes its totals; GrandTotal is read exactly once when the quote is
// converted into a contract and frozen there.
type Quote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClientName  string    `gorm:"not null" json:"client_name"`
	ClientPhone string    `gorm:"size:30" json:"client_phone"`
	QuoteType   string    `gorm:"size:50" json:"quote_type"` // residencial, comercial, remodelación
	GrandTotal  float64   `gorm:"type:decimal(15,2);not null" json:"grand_total"`
	BaseTotal   float64   `gorm:"type:decimal(15,2)" json:"base_total"`
	Details     *string   `gorm:"type:text" json:"details"` // JSON blob from the pricing calculator
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Quote
func (Quote) TableName() string {
	return "quotes"
}

// QuoteTotals is what the pricing collaborator returns for a quote
type QuoteTotals struct {
	GrandTotal float64 `json:"grand_total"`
	BaseTotal  float64 `json:"base_total"`
}
