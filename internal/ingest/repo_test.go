package ingest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
)

func setupIngestTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  shopify_id INTEGER NOT NULL,
  email TEXT,
  first_name TEXT,
  last_name TEXT,
  total_spent REAL NOT NULL DEFAULT 0,
  orders_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (tenant_id, shopify_id)
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  shopify_id INTEGER NOT NULL,
  total REAL NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'USD',
  customer_shopify_id INTEGER,
  checkout_token TEXT,
  raw_json BLOB,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (tenant_id, shopify_id)
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  shopify_id INTEGER NOT NULL,
  title TEXT NOT NULL,
  vendor TEXT,
  price REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (tenant_id, shopify_id)
);`, `
CREATE TABLE IF NOT EXISTS refunds (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  shopify_refund_id INTEGER NOT NULL,
  order_shopify_id INTEGER NOT NULL,
  amount REAL NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'USD',
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (tenant_id, shopify_refund_id)
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func strPtr(s string) *string { return &s }

func TestUpsertCustomerIdempotent(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	first := &models.Customer{
		TenantID:  tenantID,
		ShopifyID: 101,
		Email:     strPtr("a@example.com"),
		FirstName: strPtr("Ada"),
	}
	require.NoError(t, repo.UpsertCustomer(ctx, first))
	require.NoError(t, repo.UpsertCustomer(ctx, &models.Customer{
		TenantID:  tenantID,
		ShopifyID: 101,
		Email:     strPtr("a+new@example.com"),
	}))

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.Customer
	require.NoError(t, db.Where("tenant_id = ? AND shopify_id = ?", tenantID, 101).First(&stored).Error)
	require.NotNil(t, stored.Email)
	assert.Equal(t, "a+new@example.com", *stored.Email)
}

func TestUpsertCustomerPreservesDerivedAggregates(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.UpsertCustomer(ctx, &models.Customer{
		TenantID: tenantID, ShopifyID: 101, TotalSpent: 500, OrdersCount: 4,
	}))
	// An identity refresh must not reset the derived aggregates.
	require.NoError(t, repo.UpsertCustomer(ctx, &models.Customer{
		TenantID: tenantID, ShopifyID: 101, FirstName: strPtr("Ada"),
	}))

	var stored models.Customer
	require.NoError(t, db.Where("tenant_id = ? AND shopify_id = ?", tenantID, 101).First(&stored).Error)
	assert.Equal(t, 500.0, stored.TotalSpent)
	assert.Equal(t, 4, stored.OrdersCount)
}

func TestRecomputeCustomerAggregates(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	otherTenant := uuid.New()
	customerID := int64(101)

	require.NoError(t, repo.UpsertCustomer(ctx, &models.Customer{TenantID: tenantID, ShopifyID: customerID}))
	require.NoError(t, repo.UpsertCustomer(ctx, &models.Customer{TenantID: otherTenant, ShopifyID: customerID}))

	for i, total := range []float64{100, 50.5, 24.5} {
		require.NoError(t, repo.UpsertOrder(ctx, &models.Order{
			TenantID: tenantID, ShopifyID: int64(5001 + i), Total: total, Currency: "USD",
			CustomerShopifyID: &customerID,
		}))
	}
	// Same customer id under another tenant must stay isolated.
	require.NoError(t, repo.UpsertOrder(ctx, &models.Order{
		TenantID: otherTenant, ShopifyID: 9001, Total: 999, Currency: "USD",
		CustomerShopifyID: &customerID,
	}))

	require.NoError(t, repo.RecomputeCustomerAggregates(ctx, tenantID, customerID))

	var stored models.Customer
	require.NoError(t, db.Where("tenant_id = ? AND shopify_id = ?", tenantID, customerID).First(&stored).Error)
	assert.InDelta(t, 175.0, stored.TotalSpent, 0.001)
	assert.Equal(t, 3, stored.OrdersCount)

	var other models.Customer
	require.NoError(t, db.Where("tenant_id = ? AND shopify_id = ?", otherTenant, customerID).First(&other).Error)
	assert.Equal(t, 0.0, other.TotalSpent)
}

func TestUpsertOrderIdempotentLastWriteWins(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.UpsertOrder(ctx, &models.Order{
		TenantID: tenantID, ShopifyID: 5001, Total: 100, Currency: "USD",
	}))
	require.NoError(t, repo.UpsertOrder(ctx, &models.Order{
		TenantID: tenantID, ShopifyID: 5001, Total: 80, Currency: "EUR",
		CheckoutToken: strPtr("tok-1"),
	}))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.Order
	require.NoError(t, db.Where("tenant_id = ? AND shopify_id = ?", tenantID, 5001).First(&stored).Error)
	assert.Equal(t, 80.0, stored.Total)
	assert.Equal(t, "EUR", stored.Currency)
	require.NotNil(t, stored.CheckoutToken)
	assert.Equal(t, "tok-1", *stored.CheckoutToken)
}

func TestSeedProductDoesNotClobber(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.UpsertProduct(ctx, &models.Product{
		TenantID: tenantID, ShopifyID: 301, Title: "Full Product", Vendor: strPtr("Acme"), Price: 49.99,
	}))
	// A later line-item sighting carries fewer fields and must not overwrite.
	require.NoError(t, repo.SeedProduct(ctx, &models.Product{
		TenantID: tenantID, ShopifyID: 301, Title: "Line Item Title", Price: 39.99,
	}))

	var stored models.Product
	require.NoError(t, db.Where("tenant_id = ? AND shopify_id = ?", tenantID, 301).First(&stored).Error)
	assert.Equal(t, "Full Product", stored.Title)
	require.NotNil(t, stored.Vendor)
	assert.Equal(t, "Acme", *stored.Vendor)
	assert.Equal(t, 49.99, stored.Price)

	// Seeding an unseen product inserts it.
	require.NoError(t, repo.SeedProduct(ctx, &models.Product{
		TenantID: tenantID, ShopifyID: 302, Title: "Seeded", Price: 10,
	}))
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUpsertRefundLastWriteWins(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.UpsertRefund(ctx, &models.Refund{
		TenantID: tenantID, ShopifyRefundID: 801, OrderShopifyID: 5001, Amount: 20, Currency: "USD",
	}))
	require.NoError(t, repo.UpsertRefund(ctx, &models.Refund{
		TenantID: tenantID, ShopifyRefundID: 801, OrderShopifyID: 5001, Amount: 25, Currency: "USD",
	}))

	var count int64
	require.NoError(t, db.Model(&models.Refund{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.Refund
	require.NoError(t, db.Where("tenant_id = ? AND shopify_refund_id = ?", tenantID, 801).First(&stored).Error)
	assert.Equal(t, 25.0, stored.Amount)
}

func TestListOrdersPagination(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.UpsertOrder(ctx, &models.Order{
			TenantID: tenantID, ShopifyID: int64(5001 + i), Total: float64(10 * (i + 1)), Currency: "USD",
		}))
	}

	page, next, err := repo.ListOrders(ctx, ListOrdersParams{TenantID: tenantID, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	require.NotNil(t, next)

	rest, _, err := repo.ListOrders(ctx, ListOrdersParams{TenantID: tenantID, Limit: 100, Cursor: next})
	require.NoError(t, err)
	assert.Len(t, rest, 3)

	seen := map[int64]bool{}
	for _, o := range append(page, rest...) {
		assert.False(t, seen[o.ShopifyID], "order %d served twice", o.ShopifyID)
		seen[o.ShopifyID] = true
	}
}

func TestListOrdersFiltersByCustomer(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	customerID := int64(101)

	require.NoError(t, repo.UpsertOrder(ctx, &models.Order{
		TenantID: tenantID, ShopifyID: 5001, Total: 10, Currency: "USD", CustomerShopifyID: &customerID,
	}))
	require.NoError(t, repo.UpsertOrder(ctx, &models.Order{
		TenantID: tenantID, ShopifyID: 5002, Total: 20, Currency: "USD",
	}))

	page, _, err := repo.ListOrders(ctx, ListOrdersParams{TenantID: tenantID, CustomerShopifyID: &customerID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(5001), page[0].ShopifyID)
}

func TestListRefundsFiltersByOrder(t *testing.T) {
	db := setupIngestTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := int64(5001)

	require.NoError(t, repo.UpsertRefund(ctx, &models.Refund{
		TenantID: tenantID, ShopifyRefundID: 801, OrderShopifyID: orderID, Amount: 20, Currency: "USD",
	}))
	require.NoError(t, repo.UpsertRefund(ctx, &models.Refund{
		TenantID: tenantID, ShopifyRefundID: 802, OrderShopifyID: 5002, Amount: 15, Currency: "USD",
	}))
	require.NoError(t, repo.UpsertRefund(ctx, &models.Refund{
		TenantID: uuid.New(), ShopifyRefundID: 801, OrderShopifyID: orderID, Amount: 99, Currency: "USD",
	}))

	page, next, err := repo.ListRefunds(ctx, ListRefundsParams{TenantID: tenantID, OrderShopifyID: &orderID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(801), page[0].ShopifyRefundID)
	assert.Equal(t, 20.0, page[0].Amount)
	assert.Nil(t, next)
}
