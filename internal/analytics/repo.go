package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
)

// Repository runs the aggregation queries behind derived metrics. Reads only;
// every query is scoped to one tenant.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to analytics queries.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type statusBucket struct {
	Status string
	Count  int64
	Value  float64
}

// FunnelCounts returns per-status checkout counts and monetary sums.
func (r *Repository) FunnelCounts(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) ([]statusBucket, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Checkout{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS value").
		Where("tenant_id = ?", tenantID).
		Group("status")
	query = applyRange(query, dateRange)

	var buckets []statusBucket
	if err := query.Scan(&buckets).Error; err != nil {
		return nil, err
	}
	return buckets, nil
}

type refundAggregate struct {
	Count int64
	Total float64
}

// RefundAggregates returns refund count and total amount.
func (r *Repository) RefundAggregates(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (refundAggregate, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Refund{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ?", tenantID)
	query = applyRange(query, dateRange)

	var agg refundAggregate
	if err := query.Scan(&agg).Error; err != nil {
		return refundAggregate{}, err
	}
	return agg, nil
}

// CustomerCount returns the tenant's customer count.
func (r *Repository) CustomerCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}

type orderAggregate struct {
	Count   int64
	Revenue float64
}

// OrderAggregates returns the tenant's order count and total revenue.
func (r *Repository) OrderAggregates(ctx context.Context, tenantID uuid.UUID) (orderAggregate, error) {
	var agg orderAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Where("tenant_id = ?", tenantID).
		Scan(&agg).Error
	return agg, err
}

// TopCustomers returns the highest spenders by derived aggregate.
func (r *Repository) TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("total_spent DESC, orders_count DESC").
		Limit(limit).
		Find(&customers).Error
	return customers, err
}

type dailyBucket struct {
	Day     string
	Count   int64
	Revenue float64
}

// DailyOrderSeries buckets orders created since the cutoff by calendar day.
func (r *Repository) DailyOrderSeries(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]dailyBucket, error) {
	var buckets []dailyBucket
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Where("tenant_id = ? AND created_at >= ?", tenantID, since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&buckets).Error
	return buckets, err
}

func applyRange(query *gorm.DB, dateRange DateRange) *gorm.DB {
	if dateRange.Start != nil {
		query = query.Where("created_at >= ?", *dateRange.Start)
	}
	if dateRange.End != nil {
		query = query.Where("created_at < ?", *dateRange.End)
	}
	return query
}
