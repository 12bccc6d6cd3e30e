package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
)

var hundred = decimal.NewFromInt(100)

// ComputeBudgetProgress totals the transactions a budget covers over its days.
// Category budgets match on category id, type budgets on transaction type.
func ComputeBudgetProgress(txs []entity.Transaction, budget entity.Budget, loc *time.Location) (entity.BudgetProgress, error) {
	if !budget.Amount.IsPositive() {
		return entity.BudgetProgress{}, domainerror.NewDashboardError(
			domainerror.ErrCodeInvalidBudgetAmount, "budget amount must be positive", domainerror.ErrInvalidBudgetAmount)
	}

	window, err := valueobject.NewDayWindow(budget.StartDay, budget.EndDay, loc)
	if err != nil {
		return entity.BudgetProgress{}, err
	}

	budgetType := budget.Type
	if budgetType == "" {
		budgetType = entity.TransactionTypeExpense
	}

	spent := decimal.Zero
	for _, tx := range txs {
		if budget.CategoryID != "" {
			if tx.CategoryID != budget.CategoryID {
				continue
			}
		} else if tx.Type != budgetType {
			continue
		}

		if n := OccurrencesOf(tx, window); n > 0 {
			spent = spent.Add(tx.Amount.Mul(decimal.NewFromInt(int64(n))))
		}
	}

	return entity.BudgetProgress{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Amount.Sub(spent),
		Percent:   spent.Div(budget.Amount).Mul(hundred).Round(2),
	}, nil
}
