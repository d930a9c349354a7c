package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/navadeepnaidu7/xeno-fde-backend/api/controllers"
	webhookcontrollers "github.com/navadeepnaidu7/xeno-fde-backend/api/controllers/webhooks"
	"github.com/navadeepnaidu7/xeno-fde-backend/api/middleware"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/analytics"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/checkouts"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/ingest"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/syncer"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/tenants"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/config"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/metrics"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	tenantService tenants.Service,
	ingestService *ingest.Service,
	checkoutService *checkouts.Service,
	analyticsService *analytics.Service,
	syncService *syncer.Service,
	webhookHandler webhookcontrollers.ShopifyEventHandler,
	webhookMetrics *metrics.WebhookMetrics,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/shopify", webhookcontrollers.ShopifyWebhook(webhookHandler, tenantService, webhookMetrics, logg))
	})

	r.Route("/api/v1/tenants", func(r chi.Router) {
		r.Post("/", controllers.TenantRegister(tenantService, logg))
		r.Get("/", controllers.TenantList(tenantService, logg))

		r.Route("/{tenantId}", func(r chi.Router) {
			r.Get("/", controllers.TenantGet(tenantService, logg))
			r.Patch("/", controllers.TenantUpdate(tenantService, logg))

			r.Post("/sync", controllers.TenantSync(syncService, logg))

			r.Get("/customers", controllers.CustomerList(ingestService, logg))
			r.Get("/orders", controllers.OrderList(ingestService, logg))
			r.Get("/products", controllers.ProductList(ingestService, logg))
			r.Get("/refunds", controllers.RefundList(ingestService, logg))

			r.Route("/checkouts", func(r chi.Router) {
				r.Get("/", controllers.CheckoutList(checkoutService, logg))
				r.Post("/detect-abandoned", controllers.CheckoutDetectAbandoned(checkoutService, analyticsService, logg))
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/checkouts", controllers.CheckoutFunnel(analyticsService, logg))
				r.Get("/refunds", controllers.RefundSummary(analyticsService, logg))
				r.Get("/dashboard", controllers.Dashboard(analyticsService, logg))
			})
		})
	})

	return r
}
