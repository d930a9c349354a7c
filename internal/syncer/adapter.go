package syncer

import (
	"context"
	"encoding/json"
	"fmt"

	pkgshopify "github.com/navadeepnaidu7/xeno-fde-backend/pkg/shopify"
)

// storeAPI yields pages of raw entity JSON from the remote store. Pages are
// keyed by since-id so the backfill walks ids in ascending order.
type storeAPI interface {
	CustomersPage(ctx context.Context, shopDomain, accessToken string, sinceID uint64) ([]json.RawMessage, error)
	OrdersPage(ctx context.Context, shopDomain, accessToken string, sinceID uint64) ([]json.RawMessage, error)
	ProductsPage(ctx context.Context, shopDomain, accessToken string, sinceID uint64) ([]json.RawMessage, error)
	PageSize() int
}

// sdkAdapter bridges the admin API client into raw JSON pages. Re-encoding
// SDK structs lets the ingest path reuse the exact payload parsing the
// webhook pipeline uses, so backfilled and live data can never diverge.
type sdkAdapter struct {
	client *pkgshopify.Client
}

// NewStoreAPI adapts the admin API client for the backfill loop.
func NewStoreAPI(client *pkgshopify.Client) *sdkAdapter {
	return &sdkAdapter{client: client}
}

func (a *sdkAdapter) CustomersPage(ctx context.Context, shopDomain, accessToken string, sinceID uint64) ([]json.RawMessage, error) {
	customers, err := a.client.ListCustomers(ctx, shopDomain, accessToken, sinceID)
	if err != nil {
		return nil, err
	}
	return encodePage(customers)
}

func (a *sdkAdapter) OrdersPage(ctx context.Context, shopDomain, accessToken string, sinceID uint64) ([]json.RawMessage, error) {
	orders, err := a.client.ListOrders(ctx, shopDomain, accessToken, sinceID)
	if err != nil {
		return nil, err
	}
	return encodePage(orders)
}

func (a *sdkAdapter) ProductsPage(ctx context.Context, shopDomain, accessToken string, sinceID uint64) ([]json.RawMessage, error) {
	products, err := a.client.ListProducts(ctx, shopDomain, accessToken, sinceID)
	if err != nil {
		return nil, err
	}
	return encodePage(products)
}

func (a *sdkAdapter) PageSize() int {
	return a.client.PageSize()
}

func encodePage[T any](entities []T) ([]json.RawMessage, error) {
	page := make([]json.RawMessage, 0, len(entities))
	for i := range entities {
		raw, err := json.Marshal(entities[i])
		if err != nil {
			return nil, fmt.Errorf("encode entity: %w", err)
		}
		page = append(page, raw)
	}
	return page, nil
}
