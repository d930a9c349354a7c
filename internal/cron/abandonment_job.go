package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
)

type tenantLister interface {
	List(ctx context.Context) ([]models.Tenant, error)
}

type abandonmentDetector interface {
	DetectAbandoned(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type metricsInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID)
}

// AbandonmentJobParams configure the sweeper job.
type AbandonmentJobParams struct {
	Logger    *logger.Logger
	Tenants   tenantLister
	Checkouts abandonmentDetector
	Cache     metricsInvalidator
}

// NewAbandonmentJob builds the periodic sweep that transitions stale pending
// checkouts to abandoned across all tenants.
func NewAbandonmentJob(params AbandonmentJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Tenants == nil {
		return nil, fmt.Errorf("tenant lister required")
	}
	if params.Checkouts == nil {
		return nil, fmt.Errorf("checkout service required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("cache invalidator required")
	}
	return &abandonmentJob{
		logg:      params.Logger,
		tenants:   params.Tenants,
		checkouts: params.Checkouts,
		cache:     params.Cache,
	}, nil
}

type abandonmentJob struct {
	logg      *logger.Logger
	tenants   tenantLister
	checkouts abandonmentDetector
	cache     metricsInvalidator
}

func (j *abandonmentJob) Name() string { return "checkout-abandonment-sweep" }

// Run sweeps every tenant. A failing tenant is recorded and the sweep moves
// on; the aggregated error surfaces after the full pass.
func (j *abandonmentJob) Run(ctx context.Context) error {
	tenants, err := j.tenants.List(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	var swept int64
	var errs error
	for _, tenant := range tenants {
		count, detectErr := j.checkouts.DetectAbandoned(ctx, tenant.ID)
		if detectErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("tenant %s: %w", tenant.ID, detectErr))
			continue
		}
		if count == 0 {
			continue
		}
		swept += count
		j.cache.InvalidateTenant(ctx, tenant.ID)
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"tenant_id":        tenant.ID.String(),
			"rows_transitioned": count,
		})
		j.logg.Info(logCtx, "abandoned checkouts swept")
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"tenants_swept":     len(tenants),
		"rows_transitioned": swept,
	})
	j.logg.Info(logCtx, "abandonment sweep complete")
	return errs
}
