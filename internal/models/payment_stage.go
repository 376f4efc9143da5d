package models

// PaymentStage is a milestone in a contract's payment schedule, defined as a
// percentage of the contract's total value. Every contract keeps at least one
// stage and the percentages of its stages must sum to 100.
type PaymentStage struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ContractID uint    `gorm:"not null;index" json:"contract_id"`
	Name       string  `gorm:"not null" json:"name"`
	Percentage float64 `gorm:"type:decimal(5,2);not null" json:"percentage"`
	Position   int     `gorm:"not null;default:0" json:"position"`
}

// TableName specifies the table name for PaymentStage
func (PaymentStage) TableName() string {
	return "payment_stages"
}

// ExpectedAmount returns the stage's share of the contract total
func (s *PaymentStage) ExpectedAmount(totalValue float64) float64 {
	return totalValue * s.Percentage / 100
}

// PaymentStageResponse is the JSON response format for payment stages
type PaymentStageResponse struct {
	ID         uint    `json:"id"`
	ContractID uint    `json:"contract_id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Position   int     `json:"position"`
}

// ToResponse converts PaymentStage to PaymentStageResponse
func (s *PaymentStage) ToResponse() PaymentStageResponse {
	return PaymentStageResponse{
		ID:         s.ID,
		ContractID: s.ContractID,
		Name:       s.Name,
		Percentage: s.Percentage,
		Position:   s.Position,
	}
}
