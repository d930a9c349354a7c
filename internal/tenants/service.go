package tenants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/enums"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
)

type tenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	FindByShopDomain(ctx context.Context, shopDomain string) (*models.Tenant, error)
	List(ctx context.Context) ([]models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
}

// Service exposes tenant onboarding and lookup operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*TenantDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TenantDTO, error)
	List(ctx context.Context) ([]TenantDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*TenantDTO, error)
	ResolveByShopDomain(ctx context.Context, shopDomain string) (*models.Tenant, error)
	SyncCandidates(ctx context.Context) ([]models.Tenant, error)
}

type service struct {
	repo tenantRepository
}

// NewService builds a tenant service with the provided repository.
func NewService(repo tenantRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tenant repository required")
	}
	return &service{repo: repo}, nil
}

// RegisterInput captures the data required to onboard a tenant.
type RegisterInput struct {
	Name          string
	ShopDomain    string
	WebhookSecret string
	AccessToken   *string
	WebhookTopics []string
}

// UpdateInput captures the mutable tenant fields.
type UpdateInput struct {
	Name          *string
	WebhookSecret *string
	AccessToken   *string
	WebhookTopics *[]string
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*TenantDTO, error) {
	domain := normalizeShopDomain(input.ShopDomain)
	if domain == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop domain required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant name required")
	}
	if input.WebhookSecret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "webhook secret required")
	}

	topics := input.WebhookTopics
	if len(topics) == 0 {
		topics = enums.HandledTopicStrings()
	}

	tenant := &models.Tenant{
		ID:            uuid.New(),
		Name:          input.Name,
		ShopDomain:    domain,
		WebhookSecret: input.WebhookSecret,
		AccessToken:   cloneStringPtr(input.AccessToken),
		WebhookTopics: topics,
	}
	if err := s.repo.Create(ctx, tenant); err != nil {
		if db.IsUniqueViolation(err, "idx_tenants_shop_domain") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "shop domain already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tenant")
	}
	return FromModel(tenant), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.loadTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(tenant), nil
}

func (s *service) List(ctx context.Context) ([]TenantDTO, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tenants")
	}
	return FromModels(tenants), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*TenantDTO, error) {
	tenant, err := s.loadTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant name cannot be empty")
		}
		tenant.Name = *input.Name
	}
	if input.WebhookSecret != nil {
		if *input.WebhookSecret == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "webhook secret cannot be empty")
		}
		tenant.WebhookSecret = *input.WebhookSecret
	}
	if input.AccessToken != nil {
		tenant.AccessToken = cloneStringPtr(input.AccessToken)
	}
	if input.WebhookTopics != nil {
		tenant.WebhookTopics = append([]string(nil), (*input.WebhookTopics)...)
	}

	if err := s.repo.Update(ctx, tenant); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tenant")
	}
	return FromModel(tenant), nil
}

// ResolveByShopDomain is the webhook-path lookup: it returns the model so the
// caller can read the webhook secret, which DTOs never expose.
func (s *service) ResolveByShopDomain(ctx context.Context, shopDomain string) (*models.Tenant, error) {
	tenant, err := s.repo.FindByShopDomain(ctx, normalizeShopDomain(shopDomain))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown shop domain")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tenant by shop domain")
	}
	return tenant, nil
}

// SyncCandidates returns the tenants eligible for a historical backfill.
func (s *service) SyncCandidates(ctx context.Context) ([]models.Tenant, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tenants")
	}
	eligible := tenants[:0]
	for _, tenant := range tenants {
		if tenant.SyncEligible() {
			eligible = append(eligible, tenant)
		}
	}
	return eligible, nil
}

func (s *service) loadTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tenant")
	}
	return tenant, nil
}

func normalizeShopDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
