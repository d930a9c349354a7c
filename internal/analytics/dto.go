package analytics

import "time"

// FunnelStats summarizes the checkout funnel for a tenant. Rates are 0 when
// the tenant has no checkouts; monetary sums are rounded to two decimals.
type FunnelStats struct {
	Total           int64   `json:"total"`
	Pending         int64   `json:"pending"`
	Completed       int64   `json:"completed"`
	Abandoned       int64   `json:"abandoned"`
	ConversionRate  float64 `json:"conversion_rate"`
	AbandonmentRate float64 `json:"abandonment_rate"`
	PendingValue    float64 `json:"pending_value"`
	CompletedValue  float64 `json:"completed_value"`
	AbandonedValue  float64 `json:"abandoned_value"`
}

// RefundStats summarizes refunds for a tenant.
type RefundStats struct {
	Count         int64   `json:"count"`
	TotalAmount   float64 `json:"total_amount"`
	AverageAmount float64 `json:"average_amount"`
}

// TopCustomer is one row of the dashboard spend leaderboard. Spend is the
// derived aggregate, not the payload-seeded value.
type TopCustomer struct {
	ShopifyID   int64   `json:"shopify_id"`
	Email       *string `json:"email,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	TotalSpent  float64 `json:"total_spent"`
	OrdersCount int     `json:"orders_count"`
}

// DailyStat is one day of the dashboard order/revenue series.
type DailyStat struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// DashboardStats carries tenant-wide counts and the 30-day series.
type DashboardStats struct {
	CustomerCount int64        `json:"customer_count"`
	OrderCount    int64        `json:"order_count"`
	TotalRevenue  float64      `json:"total_revenue"`
	TopCustomers  []TopCustomer `json:"top_customers"`
	DailySeries   []DailyStat  `json:"daily_series"`
}

// Report is the full derived-metrics document for one tenant and date range.
// It is the cache unit: one report per (tenant, range).
type Report struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Funnel      FunnelStats    `json:"funnel"`
	Refunds     RefundStats    `json:"refunds"`
	Dashboard   DashboardStats `json:"dashboard"`
}

// DateRange is an optional [Start, End) filter over created_at. The funnel
// and refund sections honor it; the dashboard is always tenant-lifetime.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether no bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}
