package models

import (
	"time"
)

// SubcontractorAgreement is the agreed value of one subcontractor's scope on
// one contract. A subcontractor has at most one agreement per contract.
type SubcontractorAgreement struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ContractID      uint      `gorm:"not null;uniqueIndex:idx_agreement_contract_sub" json:"contract_id"`
	SubcontractorID uint      `gorm:"not null;uniqueIndex:idx_agreement_contract_sub" json:"subcontractor_id"`
	TotalAmount     float64   `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	DurationDays    int       `json:"duration_days"`
	Scope           *string   `gorm:"type:text" json:"scope"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Associations
	Contract      Contract      `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Subcontractor Subcontractor `gorm:"foreignKey:SubcontractorID" json:"subcontractor,omitempty"`
}

// TableName specifies the table name for SubcontractorAgreement
func (SubcontractorAgreement) TableName() string {
	return "subcontractor_agreements"
}
