package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the denormalized per-tenant customer row. TotalSpent and
// OrdersCount are derived aggregates recomputed from the order set; inbound
// payload values only seed them until the first reconciliation.
type Customer struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID    uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_customers_tenant_shopify"`
	ShopifyID   int64     `gorm:"column:shopify_id;not null;uniqueIndex:idx_customers_tenant_shopify"`
	Email       *string   `gorm:"column:email"`
	FirstName   *string   `gorm:"column:first_name"`
	LastName    *string   `gorm:"column:last_name"`
	TotalSpent  float64   `gorm:"column:total_spent;not null;default:0"`
	OrdersCount int       `gorm:"column:orders_count;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
