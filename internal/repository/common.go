package repository

import "errors"

// Guard errors raised inside repository transactions when the state changed
// between the service's read and the write. Services translate them into
// their own error kinds.
var (
	ErrSettlementConflict = errors.New("settlement exceeds outstanding debt")
	ErrStagesLinked       = errors.New("payments reference the current stages")
	ErrContractHasRecords = errors.New("contract has payments or expenses")
)

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}
