package ingest

import (
	"time"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
)

// CustomerDTO is the API shape of a synced customer.
type CustomerDTO struct {
	ID          uuid.UUID `json:"id"`
	ShopifyID   int64     `json:"shopify_id"`
	Email       *string   `json:"email,omitempty"`
	FirstName   *string   `json:"first_name,omitempty"`
	LastName    *string   `json:"last_name,omitempty"`
	TotalSpent  float64   `json:"total_spent"`
	OrdersCount int       `json:"orders_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderDTO is the API shape of a synced order. The raw payload stays in the
// database.
type OrderDTO struct {
	ID                uuid.UUID `json:"id"`
	ShopifyID         int64     `json:"shopify_id"`
	Total             float64   `json:"total"`
	Currency          string    `json:"currency"`
	CustomerShopifyID *int64    `json:"customer_shopify_id,omitempty"`
	CheckoutToken     *string   `json:"checkout_token,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProductDTO is the API shape of a synced product.
type ProductDTO struct {
	ID        uuid.UUID `json:"id"`
	ShopifyID int64     `json:"shopify_id"`
	Title     string    `json:"title"`
	Vendor    *string   `json:"vendor,omitempty"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RefundDTO is the API shape of a recorded refund.
type RefundDTO struct {
	ID              uuid.UUID `json:"id"`
	ShopifyRefundID int64     `json:"shopify_refund_id"`
	OrderShopifyID  int64     `json:"order_shopify_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func CustomerFromModel(m models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:          m.ID,
		ShopifyID:   m.ShopifyID,
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		TotalSpent:  m.TotalSpent,
		OrdersCount: m.OrdersCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func CustomersFromModels(ms []models.Customer) []CustomerDTO {
	dtos := make([]CustomerDTO, 0, len(ms))
	for _, m := range ms {
		dtos = append(dtos, CustomerFromModel(m))
	}
	return dtos
}

func OrderFromModel(m models.Order) OrderDTO {
	return OrderDTO{
		ID:                m.ID,
		ShopifyID:         m.ShopifyID,
		Total:             m.Total,
		Currency:          m.Currency,
		CustomerShopifyID: m.CustomerShopifyID,
		CheckoutToken:     m.CheckoutToken,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func OrdersFromModels(ms []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(ms))
	for _, m := range ms {
		dtos = append(dtos, OrderFromModel(m))
	}
	return dtos
}

func ProductFromModel(m models.Product) ProductDTO {
	return ProductDTO{
		ID:        m.ID,
		ShopifyID: m.ShopifyID,
		Title:     m.Title,
		Vendor:    m.Vendor,
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ProductsFromModels(ms []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(ms))
	for _, m := range ms {
		dtos = append(dtos, ProductFromModel(m))
	}
	return dtos
}

func RefundFromModel(m models.Refund) RefundDTO {
	return RefundDTO{
		ID:              m.ID,
		ShopifyRefundID: m.ShopifyRefundID,
		OrderShopifyID:  m.OrderShopifyID,
		Amount:          m.Amount,
		Currency:        m.Currency,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func RefundsFromModels(ms []models.Refund) []RefundDTO {
	dtos := make([]RefundDTO, 0, len(ms))
	for _, m := range ms {
		dtos = append(dtos, RefundFromModel(m))
	}
	return dtos
}
