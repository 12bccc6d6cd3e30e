package transaction

import (
	"context"
	"log/slog"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

// DeleteTransactionUseCase removes a transaction on the backend.
type DeleteTransactionUseCase struct {
	remover adapter.TransactionRemover
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(remover adapter.TransactionRemover) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		remover: remover,
	}
}

// Execute deletes the transaction with the given id.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, id entity.ID) error {
	if id == "" {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionID,
			"transaction id is required",
			domainerror.ErrMissingTransactionID,
		)
	}

	if err := uc.remover.Delete(ctx, id); err != nil {
		return backendError(err, domainerror.ErrCodeDeleteFailed, "failed to delete transaction")
	}

	slog.Info("Transaction deleted", "transaction_id", id.String())
	return nil
}
