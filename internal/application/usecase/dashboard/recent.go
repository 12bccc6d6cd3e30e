package dashboard

import (
	"sort"

	"github.com/finance-tracker/txcache/internal/domain/entity"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
)

// DefaultRecentLimit is the number of recent transactions shown when no limit is given.
const DefaultRecentLimit = 10

// GetRecent returns up to limit transactions dated inside window, newest first.
func GetRecent(txs []entity.Transaction, window valueobject.DayWindow, limit int) []entity.Transaction {
	if limit <= 0 {
		return []entity.Transaction{}
	}

	filtered := make([]entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if window.Contains(tx.Date) {
			filtered = append(filtered, tx)
		}
	}
	return newestFirst(filtered, limit)
}

// GetRecentAll returns up to limit transactions regardless of date, newest first.
func GetRecentAll(txs []entity.Transaction, limit int) []entity.Transaction {
	if limit <= 0 {
		return []entity.Transaction{}
	}

	all := make([]entity.Transaction, len(txs))
	copy(all, txs)
	return newestFirst(all, limit)
}

// newestFirst sorts in place by (date, createdAt, id) descending and truncates.
func newestFirst(txs []entity.Transaction, limit int) []entity.Transaction {
	sort.SliceStable(txs, func(i, j int) bool {
		return compareRecency(txs[i], txs[j]) > 0
	})
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs
}

// compareRecency returns +1 when a is more recent than b. A missing createdAt is oldest.
func compareRecency(a, b entity.Transaction) int {
	if !a.Date.Equal(b.Date) {
		if a.Date.After(b.Date) {
			return 1
		}
		return -1
	}

	switch {
	case a.CreatedAt != nil && b.CreatedAt == nil:
		return 1
	case a.CreatedAt == nil && b.CreatedAt != nil:
		return -1
	case a.CreatedAt != nil && b.CreatedAt != nil && !a.CreatedAt.Equal(*b.CreatedAt):
		if a.CreatedAt.After(*b.CreatedAt) {
			return 1
		}
		return -1
	}

	return a.ID.Compare(b.ID)
}
