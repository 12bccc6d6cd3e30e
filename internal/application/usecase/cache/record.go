package cache

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/txcache/internal/domain/entity"
)

// transactionRecord is the persisted shape of a cached transaction.
type transactionRecord struct {
	ID            entity.ID              `json:"id"`
	Type          entity.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Date          time.Time              `json:"date"`
	CategoryID    entity.ID              `json:"categoryId"`
	Category      string                 `json:"category"`
	PaymentMethod string                 `json:"paymentMethod"`
	Note          string                 `json:"note,omitempty"`
	IsRecurring   bool                   `json:"isRecurring"`
	Recurrence    entity.Recurrence      `json:"recurrence"`
	EndDate       *time.Time             `json:"endDate,omitempty"`
	CreatedAt     *time.Time             `json:"createdAt,omitempty"`
}

// metaRecord is the persisted shape of the sync metadata.
type metaRecord struct {
	LastSyncAt     time.Time `json:"lastSyncAt"`
	WindowStartDay string    `json:"cachedWindowStartDay"`
}

// valid reports whether a decoded record has the fields every reader relies on.
func (r transactionRecord) valid() bool {
	return r.ID != "" && r.Type.IsValid() && !r.Date.IsZero() && r.Recurrence.IsValid()
}

// ToEntity converts the record to a domain entity.
func (r transactionRecord) ToEntity() entity.Transaction {
	return entity.Transaction{
		ID:            r.ID,
		Type:          r.Type,
		Amount:        r.Amount,
		Date:          r.Date,
		CategoryID:    r.CategoryID,
		Category:      r.Category,
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
		IsRecurring:   r.IsRecurring,
		Recurrence:    r.Recurrence,
		EndDate:       r.EndDate,
		CreatedAt:     r.CreatedAt,
	}
}

// transactionRecordFromEntity converts a domain entity to its persisted shape.
func transactionRecordFromEntity(tx entity.Transaction) transactionRecord {
	return transactionRecord{
		ID:            tx.ID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		Date:          tx.Date.UTC(),
		CategoryID:    tx.CategoryID,
		Category:      tx.Category,
		PaymentMethod: tx.PaymentMethod,
		Note:          tx.Note,
		IsRecurring:   tx.IsRecurring,
		Recurrence:    tx.Recurrence,
		EndDate:       utcPtr(tx.EndDate),
		CreatedAt:     utcPtr(tx.CreatedAt),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
