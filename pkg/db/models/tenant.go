package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Tenant represents an isolated Shopify store account. Every other entity is
// partitioned by TenantID and no query may cross that boundary.
type Tenant struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	ShopDomain    string         `gorm:"column:shop_domain;not null;uniqueIndex:idx_tenants_shop_domain"`
	WebhookSecret string         `gorm:"column:webhook_secret;not null"`
	AccessToken   *string        `gorm:"column:access_token"`
	WebhookTopics pq.StringArray `gorm:"column:webhook_topics;type:text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// SyncEligible reports whether the tenant can run a historical backfill.
func (t Tenant) SyncEligible() bool {
	return t.AccessToken != nil && *t.AccessToken != ""
}
