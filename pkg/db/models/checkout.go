package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/enums"
)

// Checkout tracks a pre-purchase cart through the abandonment funnel. The
// natural key is (tenant_id, shopify_checkout_id); CartToken is a nullable
// correlation key for cart events. At most one of CompletedAt/AbandonedAt is
// set, and only when Status matches.
type Checkout struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID          uuid.UUID            `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_checkouts_tenant_shopify"`
	ShopifyCheckoutID string               `gorm:"column:shopify_checkout_id;not null;uniqueIndex:idx_checkouts_tenant_shopify"`
	CartToken         *string              `gorm:"column:cart_token;index"`
	Status            enums.CheckoutStatus `gorm:"column:status;not null;default:'pending'"`
	TotalPrice        float64              `gorm:"column:total_price;not null;default:0"`
	LineItemsCount    int                  `gorm:"column:line_items_count;not null;default:0"`
	CompletedAt       *time.Time           `gorm:"column:completed_at"`
	AbandonedAt       *time.Time           `gorm:"column:abandoned_at"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
