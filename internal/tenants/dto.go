package tenants

import (
	"time"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
)

// TenantDTO exposes safe tenant data in API responses. Secrets never leave
// the service: the DTO only reports whether they are configured.
type TenantDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ShopDomain     string    `json:"shop_domain"`
	WebhookTopics  []string  `json:"webhook_topics"`
	HasAccessToken bool      `json:"has_access_token"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromModel maps the persisted tenant into a DTO.
func FromModel(m *models.Tenant) *TenantDTO {
	if m == nil {
		return nil
	}
	return &TenantDTO{
		ID:             m.ID,
		Name:           m.Name,
		ShopDomain:     m.ShopDomain,
		WebhookTopics:  append([]string(nil), m.WebhookTopics...),
		HasAccessToken: m.SyncEligible(),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// FromModels maps a tenant slice into DTOs.
func FromModels(ms []models.Tenant) []TenantDTO {
	dtos := make([]TenantDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}
