// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// IsValid reports whether the type is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// Recurrence is the cadence of a recurring transaction.
type Recurrence string

const (
	RecurrenceNone     Recurrence = ""
	RecurrenceDaily    Recurrence = "daily"
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceBiweekly Recurrence = "biweekly"
	RecurrenceMonthly  Recurrence = "monthly"
)

// IsValid reports whether the cadence is known. The empty cadence is valid.
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Transaction is a normalized transaction as held in the local cache.
type Transaction struct {
	ID            ID
	Type          TransactionType
	Amount        decimal.Decimal // Always positive, Type carries the sign
	Date          time.Time       // UTC instant of the first occurrence
	CategoryID    ID
	Category      string // Display name resolved at normalization time
	PaymentMethod string
	Note          string
	IsRecurring   bool
	Recurrence    Recurrence
	EndDate       *time.Time // Last permissible occurrence instant
	CreatedAt     *time.Time
}

// Recurs reports whether the transaction expands into more than one occurrence.
func (t Transaction) Recurs() bool {
	return t.IsRecurring && t.Recurrence != RecurrenceNone
}

// NewTransaction describes a transaction to be created on the server.
type NewTransaction struct {
	Type          TransactionType
	Amount        decimal.Decimal
	Date          time.Time
	CategoryID    ID
	PaymentMethod string
	Note          string
	IsRecurring   bool
	Recurrence    Recurrence
	EndDate       *time.Time
}

// TransactionChanges lists the fields to overwrite on a stored transaction.
// Nil fields are left as they are.
type TransactionChanges struct {
	Type          *TransactionType
	Amount        *decimal.Decimal
	Date          *time.Time
	CategoryID    *ID
	PaymentMethod *string
	Note          *string
}

// IsEmpty reports whether the changes touch no field.
func (c TransactionChanges) IsEmpty() bool {
	return c.Type == nil && c.Amount == nil && c.Date == nil &&
		c.CategoryID == nil && c.PaymentMethod == nil && c.Note == nil
}
