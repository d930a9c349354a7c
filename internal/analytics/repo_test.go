package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAnalyticsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS checkouts (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  shopify_checkout_id TEXT NOT NULL,
  cart_token TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  total_price REAL NOT NULL DEFAULT 0,
  line_items_count INTEGER NOT NULL DEFAULT 0,
  completed_at DATETIME,
  abandoned_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (tenant_id, shopify_checkout_id)
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
);`, `
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
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func insertCheckout(t *testing.T, db *gorm.DB, tenantID uuid.UUID, key, status string, total float64, createdAt time.Time) {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO checkouts (id, tenant_id, shopify_checkout_id, status, total_price, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		uuid.NewString(), tenantID, key, status, total, createdAt, createdAt,
	).Error)
}

func TestFunnelCountsGroupsByStatus(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Now().UTC()

	insertCheckout(t, db, tenantID, "c1", "pending", 10, now)
	insertCheckout(t, db, tenantID, "c2", "completed", 50, now)
	insertCheckout(t, db, tenantID, "c3", "completed", 30, now)
	insertCheckout(t, db, tenantID, "c4", "abandoned", 20, now)
	insertCheckout(t, db, uuid.New(), "c5", "completed", 999, now)

	buckets, err := repo.FunnelCounts(ctx, tenantID, DateRange{})
	require.NoError(t, err)

	byStatus := map[string]statusBucket{}
	for _, b := range buckets {
		byStatus[b.Status] = b
	}
	assert.Equal(t, int64(2), byStatus["completed"].Count)
	assert.InDelta(t, 80.0, byStatus["completed"].Value, 0.001)
	assert.Equal(t, int64(1), byStatus["pending"].Count)
	assert.Equal(t, int64(1), byStatus["abandoned"].Count)
}

func TestFunnelCountsHonorsDateRange(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Now().UTC()

	insertCheckout(t, db, tenantID, "old", "completed", 10, now.AddDate(0, 0, -10))
	insertCheckout(t, db, tenantID, "new", "completed", 20, now)

	start := now.AddDate(0, 0, -1)
	buckets, err := repo.FunnelCounts(ctx, tenantID, DateRange{Start: &start})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, int64(1), buckets[0].Count)
	assert.InDelta(t, 20.0, buckets[0].Value, 0.001)
}

func TestRefundAggregates(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Now().UTC()

	for i, amount := range []float64{10, 15, 25} {
		require.NoError(t, db.Exec(
			"INSERT INTO refunds (id, tenant_id, shopify_refund_id, order_shopify_id, amount, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			uuid.NewString(), tenantID, 800+i, 5000+i, amount, now, now,
		).Error)
	}

	agg, err := repo.RefundAggregates(ctx, tenantID, DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), agg.Count)
	assert.InDelta(t, 50.0, agg.Total, 0.001)
}

func TestTopCustomersOrderedByDerivedSpend(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Now().UTC()

	spends := []float64{10, 500, 250}
	for i, spend := range spends {
		require.NoError(t, db.Exec(
			"INSERT INTO customers (id, tenant_id, shopify_id, total_spent, orders_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			uuid.NewString(), tenantID, 100+i, spend, i, now, now,
		).Error)
	}

	top, err := repo.TopCustomers(ctx, tenantID, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(101), top[0].ShopifyID)
	assert.Equal(t, int64(102), top[1].ShopifyID)
}

func TestDailyOrderSeriesBucketsByDay(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	rows := []struct {
		id    int64
		total float64
		at    time.Time
	}{
		{5001, 10, base},
		{5002, 20, base.Add(2 * time.Hour)},
		{5003, 30, base.AddDate(0, 0, 1)},
		{5004, 99, base.AddDate(0, 0, -60)},
	}
	for _, row := range rows {
		require.NoError(t, db.Exec(
			"INSERT INTO orders (id, tenant_id, shopify_id, total, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			uuid.NewString(), tenantID, row.id, row.total, row.at, row.at,
		).Error)
	}

	series, err := repo.DailyOrderSeries(ctx, tenantID, base.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, int64(2), series[0].Count)
	assert.InDelta(t, 30.0, series[0].Revenue, 0.001)
	assert.Equal(t, int64(1), series[1].Count)
	assert.InDelta(t, 30.0, series[1].Revenue, 0.001)
}
