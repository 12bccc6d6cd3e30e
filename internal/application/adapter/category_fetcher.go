package adapter

import (
	"context"

	"github.com/finance-tracker/txcache/internal/domain/entity"
)

// CategoryFetcher lists the categories of the signed-in account.
type CategoryFetcher interface {
	// List retrieves every category visible to the current credential.
	List(ctx context.Context) ([]entity.Category, error)
}
