package dashboard

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/txcache/internal/domain/entity"
)

func ids(txs []entity.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID.String()
	}
	return out
}

func TestGetRecentAll_OrdersByDateCreatedAtAndID(t *testing.T) {
	sameDay := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	created1 := time.Date(2024, 1, 10, 13, 0, 0, 0, time.UTC)
	created2 := time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)

	a := tx("9", entity.TransactionTypeExpense, 1, sameDay, "A")
	a.CreatedAt = &created1
	b := tx("10", entity.TransactionTypeExpense, 1, sameDay, "A")
	b.CreatedAt = &created1
	c := tx("2", entity.TransactionTypeExpense, 1, sameDay, "A")
	c.CreatedAt = &created2
	d := tx("1", entity.TransactionTypeExpense, 1, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), "A")
	e := tx("3", entity.TransactionTypeExpense, 1, sameDay, "A")

	input := []entity.Transaction{a, b, c, d, e}
	got := GetRecentAll(input, 10)

	// 10 beats 9 numerically; no createdAt sorts last among equal dates.
	assert.Equal(t, []string{"1", "2", "10", "9", "3"}, ids(got))
	assert.Equal(t, []string{"9", "10", "2", "1", "3"}, ids(input), "input must not be reordered")
}

func TestGetRecentAll_TextIDsRankAboveNumericIDs(t *testing.T) {
	when := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	got := GetRecentAll([]entity.Transaction{
		tx("abc", entity.TransactionTypeIncome, 1, when, "A"),
		tx("5", entity.TransactionTypeIncome, 1, when, "A"),
		tx("abd", entity.TransactionTypeIncome, 1, when, "A"),
		tx("1a", entity.TransactionTypeIncome, 1, when, "A"),
		tx("10", entity.TransactionTypeIncome, 1, when, "A"),
	}, 5)

	assert.Equal(t, []string{"abd", "abc", "1a", "10", "5"}, ids(got))
}

func TestGetRecent_FiltersWindowAndLimits(t *testing.T) {
	var txs []entity.Transaction
	for i := 1; i <= 20; i++ {
		txs = append(txs, tx(
			strconv.Itoa(i),
			entity.TransactionTypeExpense, 1,
			time.Date(2024, 1, i, 9, 0, 0, 0, time.UTC),
			"A",
		))
	}

	got := GetRecent(txs, window(t, "2024-01-05", "2024-01-15"), 4)
	require.Len(t, got, 4)
	assert.Equal(t, 15, got[0].Date.Day())
	assert.Equal(t, 12, got[3].Date.Day())

	all := GetRecent(txs, window(t, "2024-01-05", "2024-01-15"), 100)
	assert.Len(t, all, 11)
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Date.After(all[i].Date))
	}
}

func TestGetRecent_NonPositiveLimit(t *testing.T) {
	txs := []entity.Transaction{tx("1", entity.TransactionTypeExpense, 1, time.Now(), "A")}

	assert.Empty(t, GetRecentAll(txs, 0))
	assert.Empty(t, GetRecent(txs, window(t, "2000-01-01", "2100-01-01"), -1))
}
