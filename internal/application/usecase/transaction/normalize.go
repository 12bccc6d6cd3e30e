// Package transaction contains transaction-related use cases.
package transaction

import (
	"github.com/finance-tracker/txcache/internal/domain/entity"
)

// Normalize attaches category names to raw transactions. It is pure and keeps order.
func Normalize(raw []entity.Transaction, categories []entity.Category) []entity.Transaction {
	names := make(map[entity.ID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	out := make([]entity.Transaction, len(raw))
	for i, tx := range raw {
		out[i] = normalizeOne(tx, names)
	}
	return out
}

func normalizeOne(tx entity.Transaction, names map[entity.ID]string) entity.Transaction {
	tx.Category = entity.UncategorizedName
	if name, ok := names[tx.CategoryID]; ok && name != "" {
		tx.Category = name
	}

	tx.Date = tx.Date.UTC()
	if tx.EndDate != nil {
		end := tx.EndDate.UTC()
		tx.EndDate = &end
	}
	if tx.CreatedAt != nil {
		created := tx.CreatedAt.UTC()
		tx.CreatedAt = &created
	}
	if !tx.IsRecurring {
		tx.Recurrence = entity.RecurrenceNone
	}
	return tx
}
