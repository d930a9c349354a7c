package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/redis"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	MetricsKey(tenantID string) string
	MetricsRangeKey(tenantID, start, end string) string
}

// Cache is the best-effort lookaside in front of the aggregation queries.
// Every failure is logged and swallowed: the authoritative store always
// backs the read path, so a broken cache can only cost latency.
type Cache struct {
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCache wraps the redis client with the metrics TTL.
func NewCache(store cacheStore, ttl time.Duration, logg *logger.Logger) *Cache {
	return &Cache{store: store, ttl: ttl, logg: logg}
}

// Key derives the cache key for a tenant and optional date range.
func (c *Cache) Key(tenantID uuid.UUID, dateRange DateRange) string {
	if dateRange.IsZero() {
		return c.store.MetricsKey(tenantID.String())
	}
	return c.store.MetricsRangeKey(tenantID.String(), rangeBound(dateRange.Start), rangeBound(dateRange.End))
}

// GetReport loads a cached report, reporting a miss on any error.
func (c *Cache) GetReport(ctx context.Context, key string) (*Report, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if err != redis.Nil {
			c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "metrics cache read failed")
		}
		return nil, false
	}
	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "metrics cache entry corrupt")
		return nil, false
	}
	return &report, true
}

// SetReport stores a report under the key, best effort.
func (c *Cache) SetReport(ctx context.Context, key string, report *Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		c.logg.Error(ctx, "marshal metrics report", err)
		return
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "cache_key", key), "metrics cache write failed")
	}
}

// InvalidateTenant drops every cached report for the tenant: the exact
// unranged key plus a prefix scan for range-qualified variants.
func (c *Cache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) {
	base := c.store.MetricsKey(tenantID.String())
	if err := c.store.Del(ctx, base); err != nil {
		c.logg.Warn(c.logg.WithTenantID(ctx, tenantID.String()), "metrics cache delete failed")
	}
	if err := c.store.DeleteByPrefix(ctx, base+":"); err != nil {
		c.logg.Warn(c.logg.WithTenantID(ctx, tenantID.String()), "metrics cache prefix delete failed")
	}
}

func rangeBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}
