package shopify

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
)

type entityWriter interface {
	UpsertCustomer(ctx context.Context, tenantID uuid.UUID, payload *CustomerPayload) error
	UpsertOrder(ctx context.Context, tenantID uuid.UUID, payload *OrderPayload, raw []byte) error
	UpsertProduct(ctx context.Context, tenantID uuid.UUID, payload *ProductPayload) error
	UpsertRefund(ctx context.Context, tenantID uuid.UUID, payload *RefundPayload) error
	SeedProducts(ctx context.Context, tenantID uuid.UUID, lineItems []LineItemPayload) error
}

type checkoutWriter interface {
	ApplyCheckoutEvent(ctx context.Context, tenantID uuid.UUID, payload *CheckoutPayload) error
	TouchByCartToken(ctx context.Context, tenantID uuid.UUID, cartToken string) error
	CompleteForOrder(ctx context.Context, tenantID uuid.UUID, checkoutToken string) error
}

type cacheInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID)
}

// ServiceParams configure the webhook event router.
type ServiceParams struct {
	Entities  entityWriter
	Checkouts checkoutWriter
	Cache     cacheInvalidator
	Logger    *logger.Logger
}

// Service routes verified webhook events to the upsert layer and the
// checkout state machine.
type Service struct {
	entities  entityWriter
	checkouts checkoutWriter
	cache     cacheInvalidator
	logg      *logger.Logger
}

// NewService builds the event router.
func NewService(params ServiceParams) (*Service, error) {
	if params.Entities == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "entity writer required")
	}
	if params.Checkouts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout writer required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cache invalidator required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		entities:  params.Entities,
		checkouts: params.Checkouts,
		cache:     params.Cache,
		logg:      params.Logger,
	}, nil
}

// HandleEvent parses and dispatches a single verified event. The tenant's
// derived metrics cache is invalidated after every event, recognized or not:
// even an unhandled topic may indicate state drift worth a fresh read.
func (s *Service) HandleEvent(ctx context.Context, tenantID uuid.UUID, topic string, raw []byte) error {
	defer s.cache.InvalidateTenant(ctx, tenantID)

	event, err := ParseEvent(topic, raw)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse event payload")
	}

	if event.Unhandled {
		logCtx := s.logg.WithTopic(ctx, topic)
		s.logg.Warn(logCtx, "unhandled webhook topic dropped")
		return nil
	}

	switch {
	case event.Order != nil:
		if err := s.entities.UpsertOrder(ctx, tenantID, event.Order, raw); err != nil {
			return err
		}
		if event.Order.CheckoutToken != nil && *event.Order.CheckoutToken != "" {
			return s.checkouts.CompleteForOrder(ctx, tenantID, *event.Order.CheckoutToken)
		}
		return nil
	case event.Customer != nil:
		return s.entities.UpsertCustomer(ctx, tenantID, event.Customer)
	case event.Product != nil:
		return s.entities.UpsertProduct(ctx, tenantID, event.Product)
	case event.Checkout != nil:
		if err := s.checkouts.ApplyCheckoutEvent(ctx, tenantID, event.Checkout); err != nil {
			return err
		}
		return s.entities.SeedProducts(ctx, tenantID, event.Checkout.LineItems)
	case event.Cart != nil:
		if token := event.Cart.CartToken(); token != "" {
			return s.checkouts.TouchByCartToken(ctx, tenantID, token)
		}
		return nil
	case event.Refund != nil:
		return s.entities.UpsertRefund(ctx, tenantID, event.Refund)
	}
	return nil
}
