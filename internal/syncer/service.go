package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/navadeepnaidu7/xeno-fde-backend/internal/webhooks/shopify"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/config"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
)

type tenantSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context) ([]models.Tenant, error)
}

type entityImporter interface {
	UpsertCustomer(ctx context.Context, tenantID uuid.UUID, payload *shopify.CustomerPayload) error
	UpsertOrder(ctx context.Context, tenantID uuid.UUID, payload *shopify.OrderPayload, raw []byte) error
	UpsertProduct(ctx context.Context, tenantID uuid.UUID, payload *shopify.ProductPayload) error
	RecomputeAll(ctx context.Context, tenantID uuid.UUID) error
}

type checkoutCompleter interface {
	CompleteForOrder(ctx context.Context, tenantID uuid.UUID, checkoutToken string) error
}

type cacheInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID)
}

// TenantResult reports one tenant's backfill outcome.
type TenantResult struct {
	TenantID   uuid.UUID     `json:"tenant_id"`
	ShopDomain string        `json:"shop_domain"`
	Customers  int           `json:"customers_synced"`
	Orders     int           `json:"orders_synced"`
	Products   int           `json:"products_synced"`
	Skipped    int           `json:"skipped"`
	Duration   time.Duration `json:"duration_ms"`
	Error      string        `json:"error,omitempty"`
}

// ServiceParams configure the backfill service.
type ServiceParams struct {
	Tenants   tenantSource
	Store     storeAPI
	Entities  entityImporter
	Checkouts checkoutCompleter
	Cache     cacheInvalidator
	Config    config.ShopifyConfig
	Logger    *logger.Logger
}

// Service pulls historical entities from the remote store through the same
// upsert path the webhook pipeline uses. One tenant's failure never aborts
// the batch.
type Service struct {
	tenants   tenantSource
	store     storeAPI
	entities  entityImporter
	checkouts checkoutCompleter
	cache     cacheInvalidator
	pageDelay time.Duration
	logg      *logger.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewService builds the backfill service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Tenants == nil {
		return nil, fmt.Errorf("tenant source required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("store api required")
	}
	if params.Entities == nil {
		return nil, fmt.Errorf("entity importer required")
	}
	if params.Checkouts == nil {
		return nil, fmt.Errorf("checkout completer required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("cache invalidator required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		tenants:   params.Tenants,
		store:     params.Store,
		entities:  params.Entities,
		checkouts: params.Checkouts,
		cache:     params.Cache,
		pageDelay: params.Config.PageDelay,
		logg:      params.Logger,
		sleep:     sleepCtx,
	}, nil
}

// SyncTenant backfills one tenant. The tenant must carry an access token.
func (s *Service) SyncTenant(ctx context.Context, tenantID uuid.UUID) (*TenantResult, error) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "load tenant")
	}
	if !tenant.SyncEligible() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant has no access token configured")
	}
	result := s.syncOne(ctx, tenant)
	if result.Error != "" {
		return result, pkgerrors.New(pkgerrors.CodeDependency, result.Error)
	}
	return result, nil
}

// SyncAll backfills every eligible tenant, isolating failures per tenant.
func (s *Service) SyncAll(ctx context.Context) ([]TenantResult, error) {
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tenants")
	}

	results := make([]TenantResult, 0, len(tenants))
	for i := range tenants {
		tenant := &tenants[i]
		if !tenant.SyncEligible() {
			continue
		}
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		result := s.syncOne(ctx, tenant)
		if result.Error != "" {
			logCtx := s.logg.WithTenantID(ctx, tenant.ID.String())
			s.logg.Error(logCtx, "tenant backfill failed", fmt.Errorf("%s", result.Error))
		}
		results = append(results, *result)
	}
	return results, nil
}

func (s *Service) syncOne(ctx context.Context, tenant *models.Tenant) *TenantResult {
	started := time.Now()
	result := &TenantResult{TenantID: tenant.ID, ShopDomain: tenant.ShopDomain}
	token := *tenant.AccessToken

	var errs error

	customers, skipped, err := s.walkPages(ctx, func(ctx context.Context, sinceID uint64) ([]json.RawMessage, error) {
		return s.store.CustomersPage(ctx, tenant.ShopDomain, token, sinceID)
	}, func(ctx context.Context, raw json.RawMessage) (int64, error) {
		var payload shopify.CustomerPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return 0, err
		}
		return payload.ID, s.entities.UpsertCustomer(ctx, tenant.ID, &payload)
	})
	result.Customers = customers
	result.Skipped += skipped
	errs = multierr.Append(errs, err)

	products, skipped, err := s.walkPages(ctx, func(ctx context.Context, sinceID uint64) ([]json.RawMessage, error) {
		return s.store.ProductsPage(ctx, tenant.ShopDomain, token, sinceID)
	}, func(ctx context.Context, raw json.RawMessage) (int64, error) {
		var payload shopify.ProductPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return 0, err
		}
		return payload.ID, s.entities.UpsertProduct(ctx, tenant.ID, &payload)
	})
	result.Products = products
	result.Skipped += skipped
	errs = multierr.Append(errs, err)

	orders, skipped, err := s.walkPages(ctx, func(ctx context.Context, sinceID uint64) ([]json.RawMessage, error) {
		return s.store.OrdersPage(ctx, tenant.ShopDomain, token, sinceID)
	}, func(ctx context.Context, raw json.RawMessage) (int64, error) {
		var payload shopify.OrderPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return 0, err
		}
		if err := s.entities.UpsertOrder(ctx, tenant.ID, &payload, raw); err != nil {
			return payload.ID, err
		}
		if payload.CheckoutToken != nil && *payload.CheckoutToken != "" {
			return payload.ID, s.checkouts.CompleteForOrder(ctx, tenant.ID, *payload.CheckoutToken)
		}
		return payload.ID, nil
	})
	result.Orders = orders
	result.Skipped += skipped
	errs = multierr.Append(errs, err)

	if recomputeErr := s.entities.RecomputeAll(ctx, tenant.ID); recomputeErr != nil {
		errs = multierr.Append(errs, recomputeErr)
	}
	s.cache.InvalidateTenant(ctx, tenant.ID)

	result.Duration = time.Since(started)
	if errs != nil {
		result.Error = errs.Error()
	}
	return result
}

// walkPages pulls since-id pages until a short page, applying the delay
// between requests to respect the remote rate limit. Entities that fail to
// decode or upsert are counted as skipped without stopping the walk.
func (s *Service) walkPages(
	ctx context.Context,
	fetch func(ctx context.Context, sinceID uint64) ([]json.RawMessage, error),
	apply func(ctx context.Context, raw json.RawMessage) (int64, error),
) (synced, skipped int, err error) {
	var sinceID uint64
	var errs error

	for {
		page, fetchErr := fetch(ctx, sinceID)
		if fetchErr != nil {
			return synced, skipped, multierr.Append(errs, fetchErr)
		}
		if len(page) == 0 {
			return synced, skipped, errs
		}
		for _, raw := range page {
			id, applyErr := apply(ctx, raw)
			if applyErr != nil {
				skipped++
				errs = multierr.Append(errs, applyErr)
			} else {
				synced++
			}
			if id > 0 && uint64(id) > sinceID {
				sinceID = uint64(id)
			}
		}
		if len(page) < s.store.PageSize() {
			return synced, skipped, errs
		}
		if sleepErr := s.sleep(ctx, s.pageDelay); sleepErr != nil {
			return synced, skipped, multierr.Append(errs, sleepErr)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
