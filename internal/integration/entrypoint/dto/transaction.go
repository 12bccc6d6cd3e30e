package dto

import (
	"time"

	"github.com/finance-tracker/txcache/internal/domain/entity"
)

// CreateTransactionRequest represents the request body for creating a transaction.
type CreateTransactionRequest struct {
	Type          string  `json:"type" binding:"required,oneof=expense income"`
	Amount        float64 `json:"amount" binding:"required"`
	Date          string  `json:"date" binding:"required"`
	CategoryID    string  `json:"category_id,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	Note          string  `json:"note,omitempty" binding:"omitempty,max=1000"`
	IsRecurring   bool    `json:"is_recurring"`
	Recurrence    string  `json:"recurrence,omitempty" binding:"omitempty,oneof=daily weekly biweekly monthly"`
	EndDate       string  `json:"end_date,omitempty"`
}

// UpdateTransactionRequest represents the request body for editing a transaction.
// Absent fields are left unchanged.
type UpdateTransactionRequest struct {
	Type          *string  `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	Amount        *float64 `json:"amount,omitempty"`
	Date          *string  `json:"date,omitempty"`
	CategoryID    *string  `json:"category_id,omitempty"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
	Note          *string  `json:"note,omitempty" binding:"omitempty,max=1000"`
}

// TransactionResponse represents a single cached transaction in API responses.
type TransactionResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Amount        string     `json:"amount"`
	Date          time.Time  `json:"date"`
	CategoryID    string     `json:"category_id,omitempty"`
	Category      string     `json:"category"`
	PaymentMethod string     `json:"payment_method"`
	Note          string     `json:"note,omitempty"`
	IsRecurring   bool       `json:"is_recurring"`
	Recurrence    string     `json:"recurrence,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// TransactionListResponse represents a list of transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// ToTransactionResponse converts a domain transaction to a TransactionResponse DTO.
func ToTransactionResponse(tx entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID.String(),
		Type:          string(tx.Type),
		Amount:        tx.Amount.String(),
		Date:          tx.Date.UTC(),
		CategoryID:    tx.CategoryID.String(),
		Category:      tx.Category,
		PaymentMethod: tx.PaymentMethod,
		Note:          tx.Note,
		IsRecurring:   tx.IsRecurring,
		Recurrence:    string(tx.Recurrence),
		EndDate:       tx.EndDate,
		CreatedAt:     tx.CreatedAt,
	}
}

// ToTransactionListResponse converts domain transactions to a TransactionListResponse DTO.
func ToTransactionListResponse(txs []entity.Transaction) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, ToTransactionResponse(tx))
	}
	return TransactionListResponse{
		Transactions: items,
		Count:        len(items),
	}
}
