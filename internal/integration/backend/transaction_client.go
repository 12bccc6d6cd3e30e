package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/domain/entity"
)

// TransactionClient implements the transaction ports of the adapter package.
type TransactionClient struct {
	client *Client
}

// NewTransactionClient creates a new transaction client instance.
func NewTransactionClient(client *Client) *TransactionClient {
	return &TransactionClient{
		client: client,
	}
}

var (
	_ adapter.TransactionFetcher = (*TransactionClient)(nil)
	_ adapter.TransactionCreator = (*TransactionClient)(nil)
	_ adapter.TransactionUpdater = (*TransactionClient)(nil)
	_ adapter.TransactionRemover = (*TransactionClient)(nil)
)

// List retrieves the transactions dated within the filter's day range.
// Records the domain cannot represent are skipped.
func (c *TransactionClient) List(ctx context.Context, filter adapter.TransactionFilter) ([]entity.Transaction, error) {
	query := url.Values{}
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}

	var raw json.RawMessage
	if err := c.client.do(ctx, request{method: http.MethodGet, path: "/transactions", query: query}, &raw); err != nil {
		return nil, err
	}

	items, meta, err := decodeList[transactionResponse](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	if meta != nil && meta.Total > len(items) {
		c.client.logger.Warn("Backend returned a partial transaction page",
			"received", len(items), "total", meta.Total)
	}

	txs := make([]entity.Transaction, 0, len(items))
	for _, item := range items {
		tx, err := item.ToEntity()
		if err != nil {
			c.client.logger.Warn("Skipping unreadable transaction", "error", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Create submits a new transaction and returns the stored record.
func (c *TransactionClient) Create(ctx context.Context, input entity.NewTransaction) (*entity.Transaction, error) {
	var resp transactionResponse
	err := c.client.do(ctx, request{
		method:  http.MethodPost,
		path:    "/transactions",
		body:    createTransactionRequestFromEntity(input),
		headers: map[string]string{"Idempotency-Key": uuid.New().String()},
	}, &resp)
	if err != nil {
		return nil, err
	}

	tx, err := resp.ToEntity()
	if err != nil {
		return nil, fmt.Errorf("failed to read created transaction: %w", err)
	}
	return &tx, nil
}

// Update patches the fields set in changes and returns the stored record.
func (c *TransactionClient) Update(ctx context.Context, id entity.ID, changes entity.TransactionChanges) (*entity.Transaction, error) {
	var resp transactionResponse
	err := c.client.do(ctx, request{
		method: http.MethodPatch,
		path:   transactionPath(id),
		body:   updateTransactionRequestFromEntity(changes),
	}, &resp)
	if err != nil {
		return nil, err
	}

	tx, err := resp.ToEntity()
	if err != nil {
		return nil, fmt.Errorf("failed to read updated transaction: %w", err)
	}
	return &tx, nil
}

// Delete removes the transaction. The response body is ignored.
func (c *TransactionClient) Delete(ctx context.Context, id entity.ID) error {
	return c.client.do(ctx, request{method: http.MethodDelete, path: transactionPath(id)}, nil)
}

func transactionPath(id entity.ID) string {
	return "/transactions/" + url.PathEscape(id.String())
}
