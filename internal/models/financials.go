package models

// ContractFinancials is the derived financial summary of one contract
type ContractFinancials struct {
	ContractID    uint    `json:"contract_id"`
	TotalValue    float64 `json:"total_value"`
	TotalReceived float64 `json:"total_received"`
	TotalSpent    float64 `json:"total_spent"`
	Profit        float64 `json:"profit"`
	Progress      float64 `json:"progress"` // received / total value * 100
}

// GlobalFinancials aggregates across every contract
type GlobalFinancials struct {
	TotalReceived  float64 `json:"total_received"`
	TotalCashSpent float64 `json:"total_cash_spent"`
	TotalDebt      float64 `json:"total_debt"`
	Contracts      int     `json:"contracts"`
}

// StageProjection maps one payment stage to money terms
type StageProjection struct {
	StageID    uint    `json:"stage_id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Expected   float64 `json:"expected"`
	Received   float64 `json:"received"`
	Remaining  float64 `json:"remaining"`
	FullyPaid  bool    `json:"fully_paid"`
}
