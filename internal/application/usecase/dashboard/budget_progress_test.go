package dashboard

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

func TestComputeBudgetProgress(t *testing.T) {
	food := tx("1", entity.TransactionTypeExpense, 40, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), "Comida")
	food.CategoryID = "7"
	rent := tx("2", entity.TransactionTypeExpense, 100, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), "Casa")
	rent.CategoryID = "8"
	rent.IsRecurring = true
	rent.Recurrence = entity.RecurrenceWeekly
	rent.EndDate = ptr(time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC))
	salary := tx("3", entity.TransactionTypeIncome, 1000, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC), "Salario")
	txs := []entity.Transaction{food, rent, salary}

	t.Run("type budget", func(t *testing.T) {
		got, err := ComputeBudgetProgress(txs, entity.Budget{
			Type:     entity.TransactionTypeExpense,
			Amount:   decimal.NewFromInt(800),
			StartDay: "2024-01-01",
			EndDay:   "2024-01-31",
		}, time.UTC)
		require.NoError(t, err)

		assert.Equal(t, "540", got.Spent.String())
		assert.Equal(t, "260", got.Remaining.String())
		assert.Equal(t, "67.5", got.Percent.String())
	})

	t.Run("category budget", func(t *testing.T) {
		got, err := ComputeBudgetProgress(txs, entity.Budget{
			CategoryID: "7",
			Amount:     decimal.NewFromInt(20),
			StartDay:   "2024-01-01",
			EndDay:     "2024-01-31",
		}, time.UTC)
		require.NoError(t, err)

		assert.Equal(t, "40", got.Spent.String())
		assert.Equal(t, "-20", got.Remaining.String())
		assert.Equal(t, "200", got.Percent.String())
	})

	t.Run("non positive amount", func(t *testing.T) {
		_, err := ComputeBudgetProgress(txs, entity.Budget{StartDay: "2024-01-01", EndDay: "2024-01-31"}, time.UTC)
		assert.ErrorIs(t, err, domainerror.ErrInvalidBudgetAmount)
	})

	t.Run("bad day", func(t *testing.T) {
		_, err := ComputeBudgetProgress(txs, entity.Budget{Amount: decimal.NewFromInt(1), StartDay: "01/01/2024", EndDay: "2024-01-31"}, time.UTC)
		assert.ErrorIs(t, err, domainerror.ErrInvalidDateFormat)
	})
}
