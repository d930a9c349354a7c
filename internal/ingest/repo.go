package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/pagination"
)

// Repository persists webhook-sourced entities. All writes are idempotent
// upserts keyed on (tenant_id, shopify id).
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to ingest operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var (
	customerConflict = clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "shopify_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "updated_at"}),
	}
	orderConflict = clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "shopify_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total", "currency", "customer_shopify_id", "checkout_token", "raw_json", "updated_at"}),
	}
	productConflict = clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "shopify_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "vendor", "price", "updated_at"}),
	}
	refundConflict = clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "shopify_refund_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"order_shopify_id", "amount", "currency", "updated_at"}),
	}
)

// UpsertCustomer inserts or refreshes a customer identity. TotalSpent and
// OrdersCount are never written here: they are derived from orders and only
// change through RecomputeCustomerAggregates.
func (r *Repository) UpsertCustomer(ctx context.Context, customer *models.Customer) error {
	if customer == nil {
		return fmt.Errorf("customer is required")
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(customerConflict).Create(customer).Error
}

// UpsertOrder inserts or replaces an order snapshot (last write wins).
func (r *Repository) UpsertOrder(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(orderConflict).Create(order).Error
}

// UpsertProduct inserts or replaces a product from a dedicated product event.
func (r *Repository) UpsertProduct(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(productConflict).Create(product).Error
}

// SeedProduct inserts a product sighted in a line item without clobbering an
// existing row: line items carry fewer fields than product events.
func (r *Repository) SeedProduct(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "shopify_id"}},
		DoNothing: true,
	}).Create(product).Error
}

// UpsertRefund inserts or replaces a refund snapshot.
func (r *Repository) UpsertRefund(ctx context.Context, refund *models.Refund) error {
	if refund == nil {
		return fmt.Errorf("refund is required")
	}
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(refundConflict).Create(refund).Error
}

const customerAggregateSQL = `
UPDATE customers SET
  total_spent = COALESCE((
    SELECT SUM(o.total) FROM orders o
    WHERE o.tenant_id = customers.tenant_id AND o.customer_shopify_id = customers.shopify_id
  ), 0),
  orders_count = COALESCE((
    SELECT COUNT(*) FROM orders o
    WHERE o.tenant_id = customers.tenant_id AND o.customer_shopify_id = customers.shopify_id
  ), 0)
WHERE customers.tenant_id = ?`

// RecomputeCustomerAggregates rebuilds total_spent/orders_count for one
// customer from the order set. Set-based so concurrent order upserts cannot
// leave a stale read-modify-write behind.
func (r *Repository) RecomputeCustomerAggregates(ctx context.Context, tenantID uuid.UUID, customerShopifyID int64) error {
	return r.db.WithContext(ctx).
		Exec(customerAggregateSQL+" AND customers.shopify_id = ?", tenantID, customerShopifyID).Error
}

// RecomputeAllCustomerAggregates rebuilds aggregates for every customer of a
// tenant. Used after backfills, where per-order recomputation would be noisy.
func (r *Repository) RecomputeAllCustomerAggregates(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(customerAggregateSQL, tenantID).Error
}

// ListCustomersParams filters the customer list.
type ListCustomersParams struct {
	TenantID uuid.UUID
	Limit    int
	Cursor   *pagination.Cursor
}

// ListCustomers returns a page of customers ordered by (created_at, id)
// descending, plus the next cursor when another page exists.
func (r *Repository) ListCustomers(ctx context.Context, params ListCustomersParams) ([]models.Customer, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Customer{}).Where("tenant_id = ?", params.TenantID)
	query = applyCursor(query, params.Cursor)

	var customers []models.Customer
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&customers).Error; err != nil {
		return nil, nil, err
	}
	if len(customers) > normalized {
		last := customers[normalized-1]
		return customers[:normalized], &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return customers, nil, nil
}

// ListOrdersParams filters the order list.
type ListOrdersParams struct {
	TenantID          uuid.UUID
	CustomerShopifyID *int64
	Limit             int
	Cursor            *pagination.Cursor
}

// ListOrders returns a page of orders, optionally scoped to one customer.
func (r *Repository) ListOrders(ctx context.Context, params ListOrdersParams) ([]models.Order, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("tenant_id = ?", params.TenantID)
	if params.CustomerShopifyID != nil {
		query = query.Where("customer_shopify_id = ?", *params.CustomerShopifyID)
	}
	query = applyCursor(query, params.Cursor)

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, nil, err
	}
	if len(orders) > normalized {
		last := orders[normalized-1]
		return orders[:normalized], &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return orders, nil, nil
}

// ListProductsParams filters the product list.
type ListProductsParams struct {
	TenantID uuid.UUID
	Limit    int
	Cursor   *pagination.Cursor
}

// ListProducts returns a page of products.
func (r *Repository) ListProducts(ctx context.Context, params ListProductsParams) ([]models.Product, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("tenant_id = ?", params.TenantID)
	query = applyCursor(query, params.Cursor)

	var products []models.Product
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&products).Error; err != nil {
		return nil, nil, err
	}
	if len(products) > normalized {
		last := products[normalized-1]
		return products[:normalized], &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return products, nil, nil
}

// ListRefundsParams filters the refund list.
type ListRefundsParams struct {
	TenantID       uuid.UUID
	OrderShopifyID *int64
	Limit          int
	Cursor         *pagination.Cursor
}

// ListRefunds returns a page of refunds, optionally scoped to one order.
func (r *Repository) ListRefunds(ctx context.Context, params ListRefundsParams) ([]models.Refund, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Refund{}).Where("tenant_id = ?", params.TenantID)
	if params.OrderShopifyID != nil {
		query = query.Where("order_shopify_id = ?", *params.OrderShopifyID)
	}
	query = applyCursor(query, params.Cursor)

	var refunds []models.Refund
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&refunds).Error; err != nil {
		return nil, nil, err
	}
	if len(refunds) > normalized {
		last := refunds[normalized-1]
		return refunds[:normalized], &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return refunds, nil, nil
}

func applyCursor(query *gorm.DB, cursor *pagination.Cursor) *gorm.DB {
	if cursor == nil {
		return query
	}
	return query.Where(
		"created_at < ? OR (created_at = ? AND id < ?)",
		cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
	)
}
