package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is upserted from dedicated product events and opportunistically
// from order/checkout line items. Line items only carry a subset of fields,
// so a later product event enriches the same row (last write wins).
type Product struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_products_tenant_shopify"`
	ShopifyID int64     `gorm:"column:shopify_id;not null;uniqueIndex:idx_products_tenant_shopify"`
	Title     string    `gorm:"column:title;not null"`
	Vendor    *string   `gorm:"column:vendor"`
	Price     float64   `gorm:"column:price;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
