package models

import (
	"time"
)

// Beneficiaries never store a balance. What a supplier, worker or
// subcontractor is owed is always derived from the expenses referencing them.

// Supplier sells materials to projects
type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Email     *string   `gorm:"size:100" json:"email"`
	Category  string    `gorm:"size:100" json:"category"` // e.g. ferretería, bloquera
	Notes     *string   `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}

// Worker is an individual laborer paid by the project
type Worker struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Trade     string    `gorm:"size:100" json:"trade"` // albañil, electricista, etc.
	DailyRate *float64  `gorm:"type:decimal(10,2)" json:"daily_rate"`
	Notes     *string   `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Worker
func (Worker) TableName() string {
	return "workers"
}

// Subcontractor takes a fixed scope of one project for an agreed amount
type Subcontractor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Specialty string    `gorm:"size:100" json:"specialty"`
	Notes     *string   `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Subcontractor
func (Subcontractor) TableName() string {
	return "subcontractors"
}

// BeneficiaryResponse is the common JSON response format for the three
// beneficiary kinds, with the derived balance attached on demand
type BeneficiaryResponse struct {
	ID        uint      `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Detail    string    `json:"detail,omitempty"` // category, trade or specialty
	Balance   *float64  `json:"balance,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts Supplier to BeneficiaryResponse
func (s *Supplier) ToResponse() BeneficiaryResponse {
	return BeneficiaryResponse{ID: s.ID, Kind: BeneficiaryKindSupplier, Name: s.Name, Phone: s.Phone, Detail: s.Category, CreatedAt: s.CreatedAt}
}

// ToResponse converts Worker to BeneficiaryResponse
func (w *Worker) ToResponse() BeneficiaryResponse {
	return BeneficiaryResponse{ID: w.ID, Kind: BeneficiaryKindWorker, Name: w.Name, Phone: w.Phone, Detail: w.Trade, CreatedAt: w.CreatedAt}
}

// ToResponse converts Subcontractor to BeneficiaryResponse
func (s *Subcontractor) ToResponse() BeneficiaryResponse {
	return BeneficiaryResponse{ID: s.ID, Kind: BeneficiaryKindSubcontractor, Name: s.Name, Phone: s.Phone, Detail: s.Specialty, CreatedAt: s.CreatedAt}
}
