package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/txcache/internal/domain/entity"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
)

// ComputeDashboard walks every transaction once and totals what falls in window.
func ComputeDashboard(txs []entity.Transaction, window valueobject.DayWindow) entity.Dashboard {
	income := decimal.Zero
	expense := decimal.Zero

	buckets := make(map[string]*entity.CategoryTotal)
	order := make([]string, 0)

	for _, tx := range txs {
		n := OccurrencesOf(tx, window)
		if n <= 0 {
			continue
		}

		total := tx.Amount.Mul(decimal.NewFromInt(int64(n)))
		switch tx.Type {
		case entity.TransactionTypeIncome:
			income = income.Add(total)
		case entity.TransactionTypeExpense:
			expense = expense.Add(total)
		}

		name := tx.Category
		if name == "" {
			name = entity.UncategorizedName
		}
		bucket, ok := buckets[name]
		if !ok {
			bucket = &entity.CategoryTotal{Category: name, Total: decimal.Zero}
			buckets[name] = bucket
			order = append(order, name)
		}
		bucket.Total = bucket.Total.Add(total)
		bucket.Count += n
	}

	byCategory := make([]entity.CategoryTotal, 0, len(order))
	for _, name := range order {
		byCategory = append(byCategory, *buckets[name])
	}
	sort.SliceStable(byCategory, func(i, j int) bool {
		return byCategory[i].Total.GreaterThan(byCategory[j].Total)
	})

	return entity.Dashboard{
		Income:     income,
		Expense:    expense,
		Balance:    income.Sub(expense),
		ByCategory: byCategory,
	}
}
