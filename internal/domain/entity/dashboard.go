package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard holds the totals of a local-day window.
type Dashboard struct {
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Balance    decimal.Decimal
	ByCategory []CategoryTotal
}

// CategoryTotal is the contribution of one category to a dashboard.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// TrendPoint holds the totals of one period of a trend series.
type TrendPoint struct {
	StartDay string
	EndDay   string
	Label    string
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Balance  decimal.Decimal
}

// CacheMeta is the sync metadata stored next to the cached transactions.
type CacheMeta struct {
	LastSyncAt     time.Time
	WindowStartDay string // YYYY-MM-DD, start of the fetched horizon
}

// CacheEntry is everything cached for one identity.
type CacheEntry struct {
	Transactions []Transaction
	Meta         CacheMeta
}

// Budget is a spending (or earning) target over a local-day window.
// A zero CategoryID means the budget applies to every transaction of Type.
type Budget struct {
	Name       string
	Type       TransactionType
	CategoryID ID
	Amount     decimal.Decimal
	StartDay   string
	EndDay     string
}

// BudgetProgress reports how much of a budget has been consumed.
type BudgetProgress struct {
	Budget    Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Percent   decimal.Decimal
}
