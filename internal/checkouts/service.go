package checkouts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/internal/webhooks/shopify"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/enums"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/pagination"
)

type checkoutRepository interface {
	UpsertCheckoutEvent(ctx context.Context, checkout *models.Checkout) error
	TouchByCartToken(ctx context.Context, tenantID uuid.UUID, cartToken string, now time.Time) (int64, error)
	CompleteByToken(ctx context.Context, tenantID uuid.UUID, checkoutToken string, now time.Time) (int64, error)
	MarkAbandoned(ctx context.Context, tenantID uuid.UUID, cutoff, now time.Time) (int64, error)
	List(ctx context.Context, params ListParams) ([]models.Checkout, *pagination.Cursor, error)
}

// Service drives the checkout abandonment state machine.
type Service struct {
	repo      checkoutRepository
	threshold time.Duration
	now       func() time.Time
}

// NewService builds a checkout service. threshold is the idle duration after
// which a pending checkout counts as abandoned.
func NewService(repo checkoutRepository, threshold time.Duration) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("abandonment threshold must be positive")
	}
	return &Service{
		repo:      repo,
		threshold: threshold,
		now:       time.Now,
	}, nil
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ApplyCheckoutEvent maps a checkout webhook onto the state machine. An
// event with completed_at set completes the checkout; one without returns it
// to pending, which also reopens a previously abandoned checkout when the
// shopper resumes. Completed checkouts are never reopened.
func (s *Service) ApplyCheckoutEvent(ctx context.Context, tenantID uuid.UUID, payload *shopify.CheckoutPayload) error {
	if payload == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout payload required")
	}
	checkoutID := payload.CheckoutID()
	if checkoutID == "" || checkoutID == "0" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout payload missing token and id")
	}

	checkout := &models.Checkout{
		TenantID:          tenantID,
		ShopifyCheckoutID: checkoutID,
		CartToken:         payload.CartToken,
		Status:            enums.CheckoutStatusPending,
		TotalPrice:        payload.TotalPrice.Float64(),
		LineItemsCount:    countLineItems(payload.LineItems),
	}
	if payload.CompletedAt != nil {
		checkout.Status = enums.CheckoutStatusCompleted
		checkout.CompletedAt = payload.CompletedAt
	}

	if err := s.repo.UpsertCheckoutEvent(ctx, checkout); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert checkout")
	}
	return nil
}

// TouchByCartToken refreshes liveness on any checkout correlated by the cart
// token. Cart payloads are too thin to create a checkout row, so an unknown
// token is silently ignored.
func (s *Service) TouchByCartToken(ctx context.Context, tenantID uuid.UUID, cartToken string) error {
	if cartToken == "" {
		return nil
	}
	if _, err := s.repo.TouchByCartToken(ctx, tenantID, cartToken, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch checkout by cart token")
	}
	return nil
}

// CompleteForOrder marks the checkout behind a converted order as completed.
// Orders referencing an unseen checkout token are not an error: the order is
// the durable record and the checkout event may never arrive.
func (s *Service) CompleteForOrder(ctx context.Context, tenantID uuid.UUID, checkoutToken string) error {
	if checkoutToken == "" {
		return nil
	}
	if _, err := s.repo.CompleteByToken(ctx, tenantID, checkoutToken, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete checkout for order")
	}
	return nil
}

// DetectAbandoned sweeps the tenant's pending checkouts older than the
// threshold and returns how many were flipped.
func (s *Service) DetectAbandoned(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	now := s.now().UTC()
	count, err := s.repo.MarkAbandoned(ctx, tenantID, now.Add(-s.threshold), now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark abandoned checkouts")
	}
	return count, nil
}

// List returns one page of checkouts, optionally filtered by status.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, status *enums.CheckoutStatus, params pagination.Params) ([]models.Checkout, string, error) {
	if status != nil && !status.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout status")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	checkouts, next, err := s.repo.List(ctx, ListParams{
		TenantID: tenantID,
		Status:   status,
		Limit:    params.Limit,
		Cursor:   cursor,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list checkouts")
	}
	if next == nil {
		return checkouts, "", nil
	}
	return checkouts, pagination.EncodeCursor(*next), nil
}

func countLineItems(items []shopify.LineItemPayload) int {
	total := 0
	for _, item := range items {
		if item.Quantity > 0 {
			total += item.Quantity
			continue
		}
		total++
	}
	return total
}
