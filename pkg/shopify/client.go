package shopify

import (
	"context"
	"fmt"

	goshopify "github.com/bold-commerce/go-shopify/v4"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/config"
)

// Client adapts the go-shopify SDK for per-tenant backfills. Tenants carry
// their own shop domain and access token, so every call binds a fresh SDK
// client for the target store.
type Client struct {
	app      goshopify.App
	pageSize int
}

// NewClient builds a Shopify admin API client from the app credentials.
func NewClient(cfg config.ShopifyConfig) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 250 {
		pageSize = 250
	}
	return &Client{
		app: goshopify.App{
			ApiKey:    cfg.APIKey,
			ApiSecret: cfg.APISecret,
		},
		pageSize: pageSize,
	}
}

// PageSize returns the page size used for list calls.
func (c *Client) PageSize() int {
	return c.pageSize
}

// listOptions builds the since_id pagination window shared by every list
// call. The SDK wants a pointer for since_id so the zero page is explicit.
func (c *Client) listOptions(sinceID uint64) goshopify.ListOptions {
	return goshopify.ListOptions{SinceId: &sinceID, Limit: c.pageSize}
}

func (c *Client) storeClient(shopDomain, accessToken string) (*goshopify.Client, error) {
	client, err := goshopify.NewClient(c.app, shopDomain, accessToken)
	if err != nil {
		return nil, fmt.Errorf("create shopify client for %s: %w", shopDomain, err)
	}
	return client, nil
}

// ListProducts returns one page of products with ids greater than sinceID.
func (c *Client) ListProducts(ctx context.Context, shopDomain, accessToken string, sinceID uint64) ([]goshopify.Product, error) {
	client, err := c.storeClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	products, err := client.Product.List(ctx, c.listOptions(sinceID))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListCustomers returns one page of customers with ids greater than sinceID.
func (c *Client) ListCustomers(ctx context.Context, shopDomain, accessToken string, sinceID uint64) ([]goshopify.Customer, error) {
	client, err := c.storeClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	customers, err := client.Customer.List(ctx, c.listOptions(sinceID))
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// ListOrders returns one page of orders with ids greater than sinceID. All
// order statuses are included so historical conversions are captured.
func (c *Client) ListOrders(ctx context.Context, shopDomain, accessToken string, sinceID uint64) ([]goshopify.Order, error) {
	client, err := c.storeClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	orders, err := client.Order.List(ctx, goshopify.OrderListOptions{
		ListOptions: c.listOptions(sinceID),
		Status:      "any",
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
