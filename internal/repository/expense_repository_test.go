package repository

import (
	"testing"

	"github.com/dcastellanos/obrax-api/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// Statements are built in dry-run mode against a dummy dialector, so the
// filter translation is checked without a database.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	assert.NoError(t, err)
	return db
}

func buildExpenseListSQL(t *testing.T, query *ListQuery) (string, []interface{}) {
	t.Helper()
	var out []models.Expense
	stmt := applyExpenseFilters(newDryRunDB(t).Model(&models.Expense{}), query).
		Find(&out).Statement
	assert.NoError(t, stmt.Error)
	return stmt.SQL.String(), stmt.Vars
}

func TestExpenseListFilters_BeneficiaryScoping(t *testing.T) {
	query := NewListQuery()
	query.Filters["beneficiary_kind"] = models.BeneficiaryKindSupplier
	query.Filters["beneficiary_id"] = "7"

	sql, vars := buildExpenseListSQL(t, query)

	assert.Contains(t, sql, "expenses.beneficiary_kind = ?")
	assert.Contains(t, sql, "expenses.beneficiary_id = ?")
	assert.Contains(t, vars, models.BeneficiaryKindSupplier)
	assert.Contains(t, vars, "7")
}

func TestExpenseListFilters_PendingAndDateRange(t *testing.T) {
	query := NewListQuery()
	query.Filters["pending"] = "true"
	query.Filters["start_date"] = "2026-01-01"
	query.Filters["end_date"] = "2026-06-30"

	sql, vars := buildExpenseListSQL(t, query)

	assert.Contains(t, sql, "expenses.payment_method = ? AND expenses.paid_amount < expenses.amount")
	assert.Contains(t, sql, "expenses.expense_date >= ?")
	assert.Contains(t, sql, "expenses.expense_date <= ?")
	// Date-only bounds cover the whole end day
	assert.Contains(t, vars, "2026-06-30 23:59:59")
}

func TestExpenseListFilters_EmptyValuesIgnored(t *testing.T) {
	query := NewListQuery()
	query.Filters["beneficiary_id"] = ""
	query.Filters["category"] = ""

	sql, _ := buildExpenseListSQL(t, query)

	assert.NotContains(t, sql, "beneficiary_id")
	assert.NotContains(t, sql, "category")
}
