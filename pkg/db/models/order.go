package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is keyed by the Shopify order id per tenant. CustomerShopifyID is a
// weak reference: the referenced customer row may not exist yet because
// webhook delivery is unordered. RawJSON keeps the full payload for
// auditability and replay.
type Order struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID          uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_orders_tenant_shopify"`
	ShopifyID         int64     `gorm:"column:shopify_id;not null;uniqueIndex:idx_orders_tenant_shopify"`
	Total             float64   `gorm:"column:total;not null;default:0"`
	Currency          string    `gorm:"column:currency;not null;default:'USD'"`
	CustomerShopifyID *int64    `gorm:"column:customer_shopify_id;index"`
	CheckoutToken     *string   `gorm:"column:checkout_token"`
	RawJSON           []byte    `gorm:"column:raw_json;type:jsonb"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
