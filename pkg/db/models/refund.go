package models

import (
	"time"

	"github.com/google/uuid"
)

// Refund references its order by Shopify id without an enforced constraint;
// refund delivery is not ordered relative to the order itself.
type Refund struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID        uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_refunds_tenant_shopify"`
	ShopifyRefundID int64     `gorm:"column:shopify_refund_id;not null;uniqueIndex:idx_refunds_tenant_shopify"`
	OrderShopifyID  int64     `gorm:"column:order_shopify_id;not null;index"`
	Amount          float64   `gorm:"column:amount;not null;default:0"`
	Currency        string    `gorm:"column:currency;not null;default:'USD'"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
