package checkouts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/enums"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/pagination"
)

// Repository persists the checkout funnel. Every state transition is a
// set-based conditional write so concurrent webhook deliveries and the
// sweeper cannot race each other into an invalid state. COMPLETED is
// terminal: no write here moves a checkout out of it.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to checkout operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertCheckoutEvent inserts or updates a checkout snapshot. The conflict
// update is guarded on status <> 'completed', so a late or replayed checkout
// event can never downgrade a completed checkout.
func (r *Repository) UpsertCheckoutEvent(ctx context.Context, checkout *models.Checkout) error {
	if checkout == nil {
		return fmt.Errorf("checkout is required")
	}
	if checkout.ID == uuid.Nil {
		checkout.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "shopify_checkout_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"cart_token", "status", "total_price", "line_items_count",
			"completed_at", "abandoned_at", "updated_at",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Neq{Column: clause.Column{Table: "checkouts", Name: "status"}, Value: enums.CheckoutStatusCompleted},
		}},
	}).Create(checkout).Error
}

// TouchByCartToken refreshes updated_at on checkouts correlated by the cart
// token. A liveness signal only: status never changes here.
func (r *Repository) TouchByCartToken(ctx context.Context, tenantID uuid.UUID, cartToken string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Checkout{}).
		Where("tenant_id = ? AND cart_token = ?", tenantID, cartToken).
		UpdateColumn("updated_at", now)
	return result.RowsAffected, result.Error
}

// CompleteByToken marks the checkout referenced by an order as completed.
// The first completion wins; replays keep the original completed_at.
func (r *Repository) CompleteByToken(ctx context.Context, tenantID uuid.UUID, checkoutToken string, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Checkout{}).
		Where("tenant_id = ? AND shopify_checkout_id = ? AND status <> ?", tenantID, checkoutToken, enums.CheckoutStatusCompleted).
		UpdateColumns(map[string]any{
			"status":       enums.CheckoutStatusCompleted,
			"completed_at": now,
			"abandoned_at": nil,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

// MarkAbandoned flips every pending checkout created before cutoff to
// abandoned in one statement. Re-running with no newly eligible rows is a
// no-op, so the sweeper and the manual trigger can overlap safely.
func (r *Repository) MarkAbandoned(ctx context.Context, tenantID uuid.UUID, cutoff, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Checkout{}).
		Where("tenant_id = ? AND status = ? AND created_at < ?", tenantID, enums.CheckoutStatusPending, cutoff).
		UpdateColumns(map[string]any{
			"status":       enums.CheckoutStatusAbandoned,
			"abandoned_at": now,
		})
	return result.RowsAffected, result.Error
}

// FindByNaturalKey loads one checkout by its tenant-scoped Shopify id.
func (r *Repository) FindByNaturalKey(ctx context.Context, tenantID uuid.UUID, shopifyCheckoutID string) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND shopify_checkout_id = ?", tenantID, shopifyCheckoutID).
		First(&checkout).Error; err != nil {
		return nil, err
	}
	return &checkout, nil
}

// ListParams filters the checkout list.
type ListParams struct {
	TenantID uuid.UUID
	Status   *enums.CheckoutStatus
	Limit    int
	Cursor   *pagination.Cursor
}

// List returns a page of checkouts ordered by (created_at, id) descending.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.Checkout, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Checkout{}).Where("tenant_id = ?", params.TenantID)
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID,
		)
	}

	var checkouts []models.Checkout
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&checkouts).Error; err != nil {
		return nil, nil, err
	}
	if len(checkouts) > normalized {
		last := checkouts[normalized-1]
		return checkouts[:normalized], &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return checkouts, nil, nil
}
