package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/txcache/internal/domain/entity"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
)

func tx(id string, txType entity.TransactionType, amount int64, date time.Time, category string) entity.Transaction {
	return entity.Transaction{
		ID:       entity.ID(id),
		Type:     txType,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
		Category: category,
	}
}

func TestComputeDashboard_WeeklyScenario(t *testing.T) {
	rent := tx("1", entity.TransactionTypeExpense, 100, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), "Gym")
	rent.IsRecurring = true
	rent.Recurrence = entity.RecurrenceWeekly
	rent.EndDate = ptr(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	got := ComputeDashboard([]entity.Transaction{rent}, window(t, "2024-01-01", "2024-01-31"))

	assert.Equal(t, "500", got.Expense.String())
	assert.Equal(t, "0", got.Income.String())
	assert.Equal(t, "-500", got.Balance.String())
	require.Len(t, got.ByCategory, 1)
	assert.Equal(t, "Gym", got.ByCategory[0].Category)
	assert.Equal(t, "500", got.ByCategory[0].Total.String())
	assert.Equal(t, 5, got.ByCategory[0].Count)
}

func TestComputeDashboard_MixedTransactions(t *testing.T) {
	salary := tx("1", entity.TransactionTypeIncome, 2000, time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC), "Salario")
	food1 := tx("2", entity.TransactionTypeExpense, 30, time.Date(2024, 1, 6, 15, 0, 0, 0, time.UTC), "Comida")
	food2 := tx("3", entity.TransactionTypeExpense, 45, time.Date(2024, 1, 7, 15, 0, 0, 0, time.UTC), "Comida")
	outside := tx("4", entity.TransactionTypeExpense, 999, time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC), "Comida")
	uncategorized := tx("5", entity.TransactionTypeExpense, 10, time.Date(2024, 1, 8, 15, 0, 0, 0, time.UTC), "")
	dailyCoffee := tx("6", entity.TransactionTypeExpense, 3, time.Date(2024, 1, 25, 8, 0, 0, 0, time.UTC), "Cafe")
	dailyCoffee.IsRecurring = true
	dailyCoffee.Recurrence = entity.RecurrenceDaily
	dailyCoffee.EndDate = ptr(time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC))

	got := ComputeDashboard(
		[]entity.Transaction{salary, food1, food2, outside, uncategorized, dailyCoffee},
		window(t, "2024-01-01", "2024-01-31"),
	)

	assert.Equal(t, "2000", got.Income.String())
	assert.Equal(t, "106", got.Expense.String()) // 30 + 45 + 10 + 7*3
	assert.Equal(t, "1894", got.Balance.String())

	require.Len(t, got.ByCategory, 4)
	assert.Equal(t, "Salario", got.ByCategory[0].Category)
	assert.Equal(t, "Comida", got.ByCategory[1].Category)
	assert.Equal(t, "75", got.ByCategory[1].Total.String())
	assert.Equal(t, 2, got.ByCategory[1].Count)
	assert.Equal(t, "Cafe", got.ByCategory[2].Category)
	assert.Equal(t, 7, got.ByCategory[2].Count)
	assert.Equal(t, entity.UncategorizedName, got.ByCategory[3].Category)
}

func TestComputeDashboard_BoundaryInstantsInLocalZone(t *testing.T) {
	local := time.FixedZone("CST", -6*60*60)
	atMidnight := tx("1", entity.TransactionTypeExpense, 10, time.Date(2024, 3, 10, 0, 0, 0, 0, local), "A")
	atEndOfDay := tx("2", entity.TransactionTypeExpense, 20, time.Date(2024, 3, 10, 23, 59, 59, 999_000_000, local), "B")
	nextDay := tx("3", entity.TransactionTypeExpense, 40, time.Date(2024, 3, 11, 0, 0, 0, 0, local), "C")
	txs := []entity.Transaction{atMidnight, atEndOfDay, nextDay}

	sameDay, err := valueobject.NewDayWindow("2024-03-10", "2024-03-10", local)
	require.NoError(t, err)
	assert.Equal(t, "30", ComputeDashboard(txs, sameDay).Expense.String())

	shifted, err := valueobject.NewDayWindow("2024-03-11", "2024-03-11", local)
	require.NoError(t, err)
	assert.Equal(t, "40", ComputeDashboard(txs, shifted).Expense.String())
}

func TestComputeDashboard_EmptyWindow(t *testing.T) {
	txs := []entity.Transaction{
		tx("1", entity.TransactionTypeIncome, 10, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "A"),
	}

	got := ComputeDashboard(txs, window(t, "2024-01-31", "2024-01-01"))

	assert.True(t, got.Income.IsZero())
	assert.True(t, got.Expense.IsZero())
	assert.Empty(t, got.ByCategory)
}

func TestComputeDashboard_RecurringFlagWithoutCadenceCountsOnce(t *testing.T) {
	odd := tx("1", entity.TransactionTypeExpense, 15, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "A")
	odd.IsRecurring = true

	got := ComputeDashboard([]entity.Transaction{odd}, window(t, "2024-01-01", "2024-01-31"))
	assert.Equal(t, "15", got.Expense.String())
}
