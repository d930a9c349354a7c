package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/internal/webhooks/shopify"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/pagination"
)

type ingestRepository interface {
	UpsertCustomer(ctx context.Context, customer *models.Customer) error
	UpsertOrder(ctx context.Context, order *models.Order) error
	UpsertProduct(ctx context.Context, product *models.Product) error
	SeedProduct(ctx context.Context, product *models.Product) error
	UpsertRefund(ctx context.Context, refund *models.Refund) error
	RecomputeCustomerAggregates(ctx context.Context, tenantID uuid.UUID, customerShopifyID int64) error
	RecomputeAllCustomerAggregates(ctx context.Context, tenantID uuid.UUID) error
	ListCustomers(ctx context.Context, params ListCustomersParams) ([]models.Customer, *pagination.Cursor, error)
	ListOrders(ctx context.Context, params ListOrdersParams) ([]models.Order, *pagination.Cursor, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]models.Product, *pagination.Cursor, error)
	ListRefunds(ctx context.Context, params ListRefundsParams) ([]models.Refund, *pagination.Cursor, error)
}

// Service maps webhook payloads onto persisted entities and keeps derived
// customer aggregates consistent with the order set.
type Service struct {
	repo ingestRepository
}

// NewService builds an ingest service with the provided repository.
func NewService(repo ingestRepository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingest repository required")
	}
	return &Service{repo: repo}, nil
}

// UpsertCustomer applies a customer event. Payload aggregates only seed new
// rows; existing derived values survive identity updates.
func (s *Service) UpsertCustomer(ctx context.Context, tenantID uuid.UUID, payload *shopify.CustomerPayload) error {
	if payload == nil || payload.ID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer payload missing id")
	}
	customer := customerFromPayload(tenantID, payload)
	if err := s.repo.UpsertCustomer(ctx, customer); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert customer")
	}
	return nil
}

// UpsertOrder applies an order event: the order snapshot itself, the embedded
// customer identity, opportunistic product seeds from line items, and finally
// the customer's recomputed aggregates.
func (s *Service) UpsertOrder(ctx context.Context, tenantID uuid.UUID, payload *shopify.OrderPayload, raw []byte) error {
	if payload == nil || payload.ID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order payload missing id")
	}

	order := &models.Order{
		TenantID:      tenantID,
		ShopifyID:     payload.ID,
		Total:         payload.TotalPrice.Float64(),
		Currency:      currencyOrDefault(payload.Currency),
		CheckoutToken: payload.CheckoutToken,
		RawJSON:       raw,
	}
	if payload.Customer != nil && payload.Customer.ID != 0 {
		customerID := payload.Customer.ID
		order.CustomerShopifyID = &customerID
	}
	if err := s.repo.UpsertOrder(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert order")
	}

	if payload.Customer != nil && payload.Customer.ID != 0 {
		if err := s.repo.UpsertCustomer(ctx, customerFromPayload(tenantID, payload.Customer)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert embedded customer")
		}
		if err := s.repo.RecomputeCustomerAggregates(ctx, tenantID, payload.Customer.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute customer aggregates")
		}
	}

	return s.SeedProducts(ctx, tenantID, payload.LineItems)
}

// UpsertProduct applies a product event (last write wins).
func (s *Service) UpsertProduct(ctx context.Context, tenantID uuid.UUID, payload *shopify.ProductPayload) error {
	if payload == nil || payload.ID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product payload missing id")
	}
	product := &models.Product{
		TenantID:  tenantID,
		ShopifyID: payload.ID,
		Title:     payload.Title,
		Vendor:    payload.Vendor,
		Price:     payload.Price(),
	}
	if err := s.repo.UpsertProduct(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert product")
	}
	return nil
}

// UpsertRefund applies a refund event. The referenced order may not have
// arrived yet; the weak order reference is stored as-is.
func (s *Service) UpsertRefund(ctx context.Context, tenantID uuid.UUID, payload *shopify.RefundPayload) error {
	if payload == nil || payload.ID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "refund payload missing id")
	}
	amount, currency := payload.Amount()
	refund := &models.Refund{
		TenantID:        tenantID,
		ShopifyRefundID: payload.ID,
		OrderShopifyID:  payload.OrderID,
		Amount:          amount,
		Currency:        currency,
	}
	if err := s.repo.UpsertRefund(ctx, refund); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert refund")
	}
	return nil
}

// RecomputeAll rebuilds every customer aggregate for the tenant.
func (s *Service) RecomputeAll(ctx context.Context, tenantID uuid.UUID) error {
	if err := s.repo.RecomputeAllCustomerAggregates(ctx, tenantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute customer aggregates")
	}
	return nil
}

// ListCustomers returns one page of customers with the encoded next cursor.
func (s *Service) ListCustomers(ctx context.Context, tenantID uuid.UUID, params pagination.Params) ([]models.Customer, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	customers, next, err := s.repo.ListCustomers(ctx, ListCustomersParams{
		TenantID: tenantID,
		Limit:    params.Limit,
		Cursor:   cursor,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return customers, encodeCursor(next), nil
}

// ListOrders returns one page of orders, optionally scoped to a customer.
func (s *Service) ListOrders(ctx context.Context, tenantID uuid.UUID, customerShopifyID *int64, params pagination.Params) ([]models.Order, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	orders, next, err := s.repo.ListOrders(ctx, ListOrdersParams{
		TenantID:          tenantID,
		CustomerShopifyID: customerShopifyID,
		Limit:             params.Limit,
		Cursor:            cursor,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, encodeCursor(next), nil
}

// ListProducts returns one page of products.
func (s *Service) ListProducts(ctx context.Context, tenantID uuid.UUID, params pagination.Params) ([]models.Product, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	products, next, err := s.repo.ListProducts(ctx, ListProductsParams{
		TenantID: tenantID,
		Limit:    params.Limit,
		Cursor:   cursor,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, encodeCursor(next), nil
}

// ListRefunds returns one page of refunds, optionally scoped to an order.
func (s *Service) ListRefunds(ctx context.Context, tenantID uuid.UUID, orderShopifyID *int64, params pagination.Params) ([]models.Refund, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	refunds, next, err := s.repo.ListRefunds(ctx, ListRefundsParams{
		TenantID:       tenantID,
		OrderShopifyID: orderShopifyID,
		Limit:          params.Limit,
		Cursor:         cursor,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunds")
	}
	return refunds, encodeCursor(next), nil
}

// SeedProducts opportunistically creates product rows from line items so the
// catalog fills in before any products webhook arrives. Existing rows are
// never overwritten, and lines without a product id are skipped.
func (s *Service) SeedProducts(ctx context.Context, tenantID uuid.UUID, lineItems []shopify.LineItemPayload) error {
	for _, item := range lineItems {
		if item.ProductID == nil || *item.ProductID == 0 {
			continue
		}
		product := &models.Product{
			TenantID:  tenantID,
			ShopifyID: *item.ProductID,
			Title:     item.Title,
			Vendor:    item.Vendor,
			Price:     item.Price.Float64(),
		}
		if err := s.repo.SeedProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed product from line item")
		}
	}
	return nil
}

func customerFromPayload(tenantID uuid.UUID, payload *shopify.CustomerPayload) *models.Customer {
	return &models.Customer{
		TenantID:    tenantID,
		ShopifyID:   payload.ID,
		Email:       payload.Email,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		TotalSpent:  payload.TotalSpent.Float64(),
		OrdersCount: payload.OrdersCount,
	}
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}

func encodeCursor(cursor *pagination.Cursor) string {
	if cursor == nil {
		return ""
	}
	return pagination.EncodeCursor(*cursor)
}
