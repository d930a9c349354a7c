package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/enums"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
)

const (
	topCustomerLimit = 5
	seriesDays       = 30
)

type analyticsRepository interface {
	FunnelCounts(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) ([]statusBucket, error)
	RefundAggregates(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (refundAggregate, error)
	CustomerCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
	OrderAggregates(ctx context.Context, tenantID uuid.UUID) (orderAggregate, error)
	TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]models.Customer, error)
	DailyOrderSeries(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]dailyBucket, error)
}

type reportCache interface {
	Key(tenantID uuid.UUID, dateRange DateRange) string
	GetReport(ctx context.Context, key string) (*Report, bool)
	SetReport(ctx context.Context, key string, report *Report)
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID)
}

// Service derives tenant metrics from entity state, fronted by the
// best-effort cache.
type Service struct {
	repo  analyticsRepository
	cache reportCache
	now   func() time.Time
}

// NewService builds an analytics service.
func NewService(repo analyticsRepository, cache reportCache) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("report cache required")
	}
	return &Service{repo: repo, cache: cache, now: time.Now}, nil
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Report returns the full derived-metrics document for the tenant, from
// cache when fresh, otherwise recomputed and cached.
func (s *Service) Report(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (*Report, error) {
	key := s.cache.Key(tenantID, dateRange)
	if cached, ok := s.cache.GetReport(ctx, key); ok {
		return cached, nil
	}

	report, err := s.compute(ctx, tenantID, dateRange)
	if err != nil {
		return nil, err
	}
	s.cache.SetReport(ctx, key, report)
	return report, nil
}

// InvalidateTenant drops the tenant's cached reports.
func (s *Service) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) {
	s.cache.InvalidateTenant(ctx, tenantID)
}

func (s *Service) compute(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (*Report, error) {
	funnel, err := s.computeFunnel(ctx, tenantID, dateRange)
	if err != nil {
		return nil, err
	}
	refunds, err := s.computeRefunds(ctx, tenantID, dateRange)
	if err != nil {
		return nil, err
	}
	dashboard, err := s.computeDashboard(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &Report{
		GeneratedAt: s.now().UTC(),
		Funnel:      *funnel,
		Refunds:     *refunds,
		Dashboard:   *dashboard,
	}, nil
}

func (s *Service) computeFunnel(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (*FunnelStats, error) {
	buckets, err := s.repo.FunnelCounts(ctx, tenantID, dateRange)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate checkout funnel")
	}

	stats := FunnelStats{}
	for _, bucket := range buckets {
		stats.Total += bucket.Count
		switch enums.CheckoutStatus(bucket.Status) {
		case enums.CheckoutStatusPending:
			stats.Pending = bucket.Count
			stats.PendingValue = round2(bucket.Value)
		case enums.CheckoutStatusCompleted:
			stats.Completed = bucket.Count
			stats.CompletedValue = round2(bucket.Value)
		case enums.CheckoutStatusAbandoned:
			stats.Abandoned = bucket.Count
			stats.AbandonedValue = round2(bucket.Value)
		}
	}
	if stats.Total > 0 {
		stats.ConversionRate = rate(stats.Completed, stats.Total)
		stats.AbandonmentRate = rate(stats.Abandoned, stats.Total)
	}
	return &stats, nil
}

func (s *Service) computeRefunds(ctx context.Context, tenantID uuid.UUID, dateRange DateRange) (*RefundStats, error) {
	agg, err := s.repo.RefundAggregates(ctx, tenantID, dateRange)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate refunds")
	}
	stats := RefundStats{
		Count:       agg.Count,
		TotalAmount: round2(agg.Total),
	}
	if agg.Count > 0 {
		stats.AverageAmount = round2(agg.Total / float64(agg.Count))
	}
	return &stats, nil
}

func (s *Service) computeDashboard(ctx context.Context, tenantID uuid.UUID) (*DashboardStats, error) {
	customerCount, err := s.repo.CustomerCount(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customers")
	}
	orders, err := s.repo.OrderAggregates(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate orders")
	}
	topCustomers, err := s.repo.TopCustomers(ctx, tenantID, topCustomerLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load top customers")
	}
	since := s.now().UTC().AddDate(0, 0, -seriesDays)
	series, err := s.repo.DailyOrderSeries(ctx, tenantID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load daily order series")
	}

	dashboard := DashboardStats{
		CustomerCount: customerCount,
		OrderCount:    orders.Count,
		TotalRevenue:  round2(orders.Revenue),
		TopCustomers:  make([]TopCustomer, 0, len(topCustomers)),
		DailySeries:   make([]DailyStat, 0, len(series)),
	}
	for _, customer := range topCustomers {
		dashboard.TopCustomers = append(dashboard.TopCustomers, TopCustomer{
			ShopifyID:   customer.ShopifyID,
			Email:       customer.Email,
			FirstName:   customer.FirstName,
			LastName:    customer.LastName,
			TotalSpent:  round2(customer.TotalSpent),
			OrdersCount: customer.OrdersCount,
		})
	}
	for _, bucket := range series {
		dashboard.DailySeries = append(dashboard.DailySeries, DailyStat{
			Date:    bucket.Day,
			Orders:  bucket.Count,
			Revenue: round2(bucket.Revenue),
		})
	}
	return &dashboard, nil
}

func rate(part, total int64) float64 {
	return round2(float64(part) / float64(total))
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
