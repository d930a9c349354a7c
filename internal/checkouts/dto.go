package checkouts

import (
	"time"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
)

// CheckoutDTO is the API shape of a tracked checkout.
type CheckoutDTO struct {
	ID                uuid.UUID  `json:"id"`
	ShopifyCheckoutID string     `json:"shopify_checkout_id"`
	CartToken         *string    `json:"cart_token,omitempty"`
	Status            string     `json:"status"`
	TotalPrice        float64    `json:"total_price"`
	LineItemsCount    int        `json:"line_items_count"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	AbandonedAt       *time.Time `json:"abandoned_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func FromModel(m models.Checkout) CheckoutDTO {
	return CheckoutDTO{
		ID:                m.ID,
		ShopifyCheckoutID: m.ShopifyCheckoutID,
		CartToken:         m.CartToken,
		Status:            m.Status.String(),
		TotalPrice:        m.TotalPrice,
		LineItemsCount:    m.LineItemsCount,
		CompletedAt:       m.CompletedAt,
		AbandonedAt:       m.AbandonedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func FromModels(ms []models.Checkout) []CheckoutDTO {
	dtos := make([]CheckoutDTO, 0, len(ms))
	for _, m := range ms {
		dtos = append(dtos, FromModel(m))
	}
	return dtos
}
