package models

import (
	"time"
)

// ReceivedPayment is money received from the client on a contract. When
// StageID is nil the payment is an "extra" outside the schedule: it counts
// toward the contract's total received but bypasses stage accounting.
type ReceivedPayment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ContractID  uint      `gorm:"not null;index" json:"contract_id"`
	StageID     *uint     `gorm:"index" json:"stage_id"`
	Amount      float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate time.Time `gorm:"type:date;not null;index" json:"payment_date"`
	Note        *string   `gorm:"type:text" json:"note"`
	IsExtra     bool      `gorm:"not null;default:false" json:"is_extra"`
	ReceiptPath *string   `json:"-"` // Receipt file path
	RecordedBy  *string   `gorm:"size:100" json:"recorded_by"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Contract Contract      `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Stage    *PaymentStage `gorm:"foreignKey:StageID" json:"stage,omitempty"`
}

// TableName specifies the table name for ReceivedPayment
func (ReceivedPayment) TableName() string {
	return "received_payments"
}

// ReceivedPaymentResponse is the JSON response format for received payments
type ReceivedPaymentResponse struct {
	ID          uint      `json:"id"`
	ContractID  uint      `json:"contract_id"`
	StageID     *uint     `json:"stage_id"`
	StageName   string    `json:"stage_name,omitempty"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"payment_date"`
	Note        *string   `json:"note"`
	IsExtra     bool      `json:"is_extra"`
	RecordedBy  *string   `json:"recorded_by"`
	HasReceipt  bool      `json:"has_receipt"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts ReceivedPayment to ReceivedPaymentResponse
func (p *ReceivedPayment) ToResponse() ReceivedPaymentResponse {
	resp := ReceivedPaymentResponse{
		ID:          p.ID,
		ContractID:  p.ContractID,
		StageID:     p.StageID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Note:        p.Note,
		IsExtra:     p.IsExtra,
		RecordedBy:  p.RecordedBy,
		HasReceipt:  p.ReceiptPath != nil && *p.ReceiptPath != "",
		CreatedAt:   p.CreatedAt,
	}
	if p.Stage != nil {
		resp.StageName = p.Stage.Name
	}
	return resp
}
