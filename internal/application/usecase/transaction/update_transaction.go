package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

// UpdateTransactionInput represents the input for editing a transaction.
type UpdateTransactionInput struct {
	ID      entity.ID
	Changes entity.TransactionChanges

	// Categories resolves the category name of the updated record.
	Categories []entity.Category
}

// UpdateTransactionOutput represents the output of a transaction edit.
type UpdateTransactionOutput struct {
	Transaction entity.Transaction
}

// UpdateTransactionUseCase patches a transaction on the backend.
type UpdateTransactionUseCase struct {
	updater adapter.TransactionUpdater
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(updater adapter.TransactionUpdater) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		updater: updater,
	}
}

// Execute validates the changes and sends them to the backend.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	if err := validateChanges(input.ID, input.Changes); err != nil {
		return nil, err
	}
	if input.Changes.Date != nil {
		utc := input.Changes.Date.UTC()
		input.Changes.Date = &utc
	}

	updated, err := uc.updater.Update(ctx, input.ID, input.Changes)
	if err != nil {
		return nil, backendError(err, domainerror.ErrCodeUpdateFailed, "failed to update transaction")
	}
	if updated == nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeUpdateFailed,
			"backend returned no transaction",
			nil,
		)
	}

	normalized := Normalize([]entity.Transaction{*updated}, input.Categories)[0]
	slog.Info("Transaction updated", "transaction_id", input.ID.String())

	return &UpdateTransactionOutput{Transaction: normalized}, nil
}

func validateChanges(id entity.ID, changes entity.TransactionChanges) error {
	if id == "" {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionID,
			"transaction id is required",
			domainerror.ErrMissingTransactionID,
		)
	}

	if changes.IsEmpty() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeNoChanges,
			"at least one field must change",
			domainerror.ErrNoChanges,
		)
	}

	if changes.Type != nil && !changes.Type.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if changes.Amount != nil && !changes.Amount.IsPositive() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}

	if changes.Date != nil && changes.Date.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"date must not be empty",
			domainerror.ErrInvalidTransactionDate,
		)
	}

	if changes.Note != nil && len(*changes.Note) > MaxNoteLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeNoteTooLong,
			fmt.Sprintf("note must not exceed %d characters", MaxNoteLength),
			domainerror.ErrNoteTooLong,
		)
	}

	return nil
}

// backendError wraps a failed backend call. A 404 becomes TXN-030001 and a
// rejected credential SYN-010002.
func backendError(err error, code domainerror.TransactionErrorCode, message string) error {
	switch {
	case errors.Is(err, domainerror.ErrUnauthorized):
		return domainerror.NewSyncError(domainerror.ErrCodeUnauthorized, "credential rejected by backend", err)
	case errors.Is(err, domainerror.ErrNotFound):
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}
	return domainerror.NewTransactionError(code, message, err)
}
