package webhooks

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/api/responses"
	shopifywebhook "github.com/navadeepnaidu7/xeno-fde-backend/internal/webhooks/shopify"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/metrics"
)

type ShopifyEventHandler interface {
	HandleEvent(ctx context.Context, tenantID uuid.UUID, topic string, raw []byte) error
}

type tenantResolver interface {
	ResolveByShopDomain(ctx context.Context, shopDomain string) (*models.Tenant, error)
}

// ShopifyWebhook receives store events, authenticates them against the
// tenant's shared secret, and feeds them to the ingestion pipeline.
//
// Processing failures after authentication are acknowledged with 200 so the
// remote does not retry-storm or disable the subscription; the failure is
// logged and counted instead. Only authentication and addressing problems
// surface as errors.
func ShopifyWebhook(svc ShopifyEventHandler, tenants tenantResolver, m *metrics.WebhookMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil || tenants == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook pipeline unavailable"))
			return
		}

		topic := strings.TrimSpace(r.Header.Get(shopifywebhook.HeaderTopic))
		shopDomain := strings.TrimSpace(r.Header.Get(shopifywebhook.HeaderShopDomain))
		signature := strings.TrimSpace(r.Header.Get(shopifywebhook.HeaderHmac))

		if topic == "" || shopDomain == "" || signature == "" {
			m.IncRejected("missing_header")
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing shopify webhook headers"))
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			m.IncRejected("body_read")
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
			return
		}

		tenant, err := tenants.ResolveByShopDomain(ctx, shopDomain)
		if err != nil {
			m.IncRejected("unknown_tenant")
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if !shopifywebhook.VerifySignature(tenant.WebhookSecret, body, signature) {
			m.IncRejected("invalid_signature")
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature mismatch"))
			return
		}

		m.IncReceived(topic)
		start := time.Now()

		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"tenant_id":   tenant.ID.String(),
				"shop_domain": tenant.ShopDomain,
				"topic":       topic,
			})
		}

		if err := svc.HandleEvent(ctx, tenant.ID, topic, body); err != nil {
			m.IncFailed(topic)
			if logg != nil {
				logg.Error(ctx, "webhook processing failed", err)
			}
		}
		m.ObserveDuration(topic, time.Since(start))

		responses.WriteSuccess(w, map[string]bool{"received": true})
	}
}
