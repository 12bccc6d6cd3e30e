package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/txcache/internal/domain/entity"
)

// Wire names of the transaction types.
const (
	wireIncome  = "ingreso"
	wireExpense = "gasto"
)

// wireTime accepts RFC 3339 timestamps, bare YYYY-MM-DD days (UTC midnight), "" and null.
type wireTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *wireTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

func (t *wireTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// transactionResponse is a transaction as the backend returns it.
type transactionResponse struct {
	ID            entity.ID       `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          wireTime        `json:"date"`
	CategoryID    entity.ID       `json:"categoryId"`
	PaymentMethod string          `json:"paymentMethod"`
	Note          string          `json:"note"`
	IsRecurring   bool            `json:"isRecurring"`
	Recurrence    string          `json:"recurrence"`
	EndDate       *wireTime       `json:"endDate"`
	CreatedAt     *wireTime       `json:"createdAt"`
}

// ToEntity converts the response to a domain transaction. Records with an
// unknown type or no date cannot be aggregated and are rejected.
func (r transactionResponse) ToEntity() (entity.Transaction, error) {
	txType, ok := transactionTypeFromWire(r.Type)
	if !ok {
		return entity.Transaction{}, fmt.Errorf("transaction %s: unknown type %q", r.ID, r.Type)
	}
	if r.Date.IsZero() {
		return entity.Transaction{}, fmt.Errorf("transaction %s: missing date", r.ID)
	}

	return entity.Transaction{
		ID:            r.ID,
		Type:          txType,
		Amount:        r.Amount,
		Date:          r.Date.Time,
		CategoryID:    r.CategoryID,
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
		IsRecurring:   r.IsRecurring,
		Recurrence:    entity.Recurrence(strings.ToLower(strings.TrimSpace(r.Recurrence))),
		EndDate:       r.EndDate.ptr(),
		CreatedAt:     r.CreatedAt.ptr(),
	}, nil
}

// categoryResponse is a category as the backend returns it.
type categoryResponse struct {
	ID   entity.ID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

// ToEntity converts the response to a domain category.
func (r categoryResponse) ToEntity() entity.Category {
	txType, _ := transactionTypeFromWire(r.Type)
	return entity.Category{
		ID:   r.ID,
		Name: r.Name,
		Type: txType,
	}
}

// createTransactionRequest is the body of POST /transactions.
type createTransactionRequest struct {
	Type          string      `json:"type"`
	Amount        json.Number `json:"amount"`
	CategoryID    entity.ID   `json:"categoryId,omitempty"`
	PaymentMethod string      `json:"paymentMethod"`
	Note          string      `json:"note,omitempty"`
	Date          string      `json:"date"`
	IsRecurring   bool        `json:"isRecurring"`
	Recurrence    string      `json:"recurrence,omitempty"`
	EndDate       string      `json:"endDate,omitempty"`
}

func createTransactionRequestFromEntity(tx entity.NewTransaction) createTransactionRequest {
	req := createTransactionRequest{
		Type:          transactionTypeToWire(tx.Type),
		Amount:        json.Number(tx.Amount.String()),
		CategoryID:    tx.CategoryID,
		PaymentMethod: tx.PaymentMethod,
		Note:          tx.Note,
		Date:          tx.Date.UTC().Format(time.RFC3339Nano),
		IsRecurring:   tx.IsRecurring,
	}
	if tx.IsRecurring {
		req.Recurrence = string(tx.Recurrence)
		if tx.EndDate != nil {
			req.EndDate = tx.EndDate.UTC().Format(time.RFC3339Nano)
		}
	}
	return req
}

// updateTransactionRequest is the body of PATCH /transactions/{id}. Only set fields are sent.
type updateTransactionRequest struct {
	Type          *string      `json:"type,omitempty"`
	Amount        *json.Number `json:"amount,omitempty"`
	CategoryID    *entity.ID   `json:"categoryId,omitempty"`
	PaymentMethod *string      `json:"paymentMethod,omitempty"`
	Note          *string      `json:"note,omitempty"`
	Date          *string      `json:"date,omitempty"`
}

func updateTransactionRequestFromEntity(changes entity.TransactionChanges) updateTransactionRequest {
	req := updateTransactionRequest{
		CategoryID:    changes.CategoryID,
		PaymentMethod: changes.PaymentMethod,
		Note:          changes.Note,
	}
	if changes.Type != nil {
		wire := transactionTypeToWire(*changes.Type)
		req.Type = &wire
	}
	if changes.Amount != nil {
		amount := json.Number(changes.Amount.String())
		req.Amount = &amount
	}
	if changes.Date != nil {
		date := changes.Date.UTC().Format(time.RFC3339Nano)
		req.Date = &date
	}
	return req
}

// listEnvelope is the paginated shape some list endpoints answer with.
type listEnvelope[T any] struct {
	Items []T           `json:"items"`
	Meta  *listMetadata `json:"meta,omitempty"`
}

type listMetadata struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// decodeList accepts either a bare JSON array or an {items, meta} envelope.
func decodeList[T any](raw json.RawMessage) ([]T, *listMetadata, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, nil, err
		}
		return items, nil, nil
	}

	var envelope listEnvelope[T]
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, nil, err
	}
	return envelope.Items, envelope.Meta, nil
}

func transactionTypeFromWire(s string) (entity.TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case wireIncome, string(entity.TransactionTypeIncome):
		return entity.TransactionTypeIncome, true
	case wireExpense, string(entity.TransactionTypeExpense):
		return entity.TransactionTypeExpense, true
	default:
		return "", false
	}
}

func transactionTypeToWire(t entity.TransactionType) string {
	if t == entity.TransactionTypeIncome {
		return wireIncome
	}
	return wireExpense
}
