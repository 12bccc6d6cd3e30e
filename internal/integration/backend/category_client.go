package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/domain/entity"
)

// categoryClient implements the adapter.CategoryFetcher interface.
type categoryClient struct {
	client *Client
}

// NewCategoryClient creates a new category client instance.
func NewCategoryClient(client *Client) adapter.CategoryFetcher {
	return &categoryClient{
		client: client,
	}
}

// List retrieves every category of the signed-in user.
func (c *categoryClient) List(ctx context.Context) ([]entity.Category, error) {
	var raw json.RawMessage
	if err := c.client.do(ctx, request{method: http.MethodGet, path: "/categories"}, &raw); err != nil {
		return nil, err
	}

	items, _, err := decodeList[categoryResponse](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]entity.Category, 0, len(items))
	for _, item := range items {
		categories = append(categories, item.ToEntity())
	}
	return categories, nil
}
