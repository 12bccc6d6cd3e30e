package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

// MaxNoteLength is the maximum allowed length for transaction notes.
const MaxNoteLength = 1000

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	Type          entity.TransactionType
	Amount        decimal.Decimal
	Date          time.Time
	CategoryID    entity.ID
	PaymentMethod string
	Note          string
	IsRecurring   bool
	Recurrence    entity.Recurrence
	EndDate       *time.Time

	// Categories resolves the category name of the created record.
	Categories []entity.Category
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction entity.Transaction
}

// CreateTransactionUseCase submits a transaction and normalizes the server record.
type CreateTransactionUseCase struct {
	creator adapter.TransactionCreator
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(creator adapter.TransactionCreator) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		creator: creator,
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	if err := uc.validateInput(&input); err != nil {
		return nil, err
	}

	created, err := uc.creator.Create(ctx, entity.NewTransaction{
		Type:          input.Type,
		Amount:        input.Amount,
		Date:          input.Date.UTC(),
		CategoryID:    input.CategoryID,
		PaymentMethod: input.PaymentMethod,
		Note:          input.Note,
		IsRecurring:   input.IsRecurring,
		Recurrence:    input.Recurrence,
		EndDate:       input.EndDate,
	})
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeCreateFailed,
			"failed to create transaction",
			err,
		)
	}
	if created == nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeCreateFailed,
			"backend returned no transaction",
			nil,
		)
	}

	normalized := Normalize([]entity.Transaction{*created}, input.Categories)[0]

	slog.Info("Transaction created",
		"transaction_id", normalized.ID.String(),
		"type", normalized.Type,
		"recurrence", normalized.Recurrence,
	)

	return &CreateTransactionOutput{Transaction: normalized}, nil
}

// validateInput checks the input and clears recurrence fields of one-off transactions.
func (uc *CreateTransactionUseCase) validateInput(input *CreateTransactionInput) error {
	if !input.Type.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if !input.Amount.IsPositive() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	if input.Date.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"date is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}

	if len(input.Note) > MaxNoteLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeNoteTooLong,
			fmt.Sprintf("note must not exceed %d characters", MaxNoteLength),
			domainerror.ErrNoteTooLong,
		)
	}

	if !input.IsRecurring {
		input.Recurrence = entity.RecurrenceNone
		input.EndDate = nil
		return nil
	}

	if input.Recurrence == entity.RecurrenceNone || !input.Recurrence.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidRecurrence,
			"recurring transactions need a cadence",
			domainerror.ErrInvalidRecurrence,
		)
	}

	if input.EndDate == nil {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidEndDate,
			"recurring transactions need an end date",
			domainerror.ErrInvalidEndDate,
		)
	}

	if input.EndDate.Before(input.Date) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidEndDate,
			"end date must not be before date",
			domainerror.ErrInvalidEndDate,
		)
	}

	return nil
}
