package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/internal/tenants"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
)

type fakeTenantService struct {
	registered *tenants.RegisterInput
	registerFn func(tenants.RegisterInput) (*tenants.TenantDTO, error)
	listed     []tenants.TenantDTO
}

func (f *fakeTenantService) Register(_ context.Context, input tenants.RegisterInput) (*tenants.TenantDTO, error) {
	f.registered = &input
	if f.registerFn != nil {
		return f.registerFn(input)
	}
	return &tenants.TenantDTO{ID: uuid.New(), Name: input.Name, ShopDomain: input.ShopDomain}, nil
}

func (f *fakeTenantService) GetByID(_ context.Context, id uuid.UUID) (*tenants.TenantDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
}

func (f *fakeTenantService) List(_ context.Context) ([]tenants.TenantDTO, error) {
	return f.listed, nil
}

func (f *fakeTenantService) Update(_ context.Context, id uuid.UUID, _ tenants.UpdateInput) (*tenants.TenantDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
}

func (f *fakeTenantService) ResolveByShopDomain(_ context.Context, _ string) (*models.Tenant, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
}

func (f *fakeTenantService) SyncCandidates(_ context.Context) ([]models.Tenant, error) {
	return nil, nil
}

func TestTenantRegisterCreated(t *testing.T) {
	svc := &fakeTenantService{}
	body := []byte(`{"name":"Acme","shop_domain":"acme.myshopify.com","webhook_secret":"super-secret"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	TenantRegister(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.registered == nil {
		t.Fatal("service was not called")
	}
	if svc.registered.ShopDomain != "acme.myshopify.com" {
		t.Fatalf("unexpected shop domain: %s", svc.registered.ShopDomain)
	}
}

func TestTenantRegisterRejectsShortSecret(t *testing.T) {
	svc := &fakeTenantService{}
	body := []byte(`{"name":"Acme","shop_domain":"acme.myshopify.com","webhook_secret":"short"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	TenantRegister(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.registered != nil {
		t.Fatal("service should not run on invalid input")
	}
}

func TestTenantRegisterRejectsUnknownFields(t *testing.T) {
	svc := &fakeTenantService{}
	body := []byte(`{"name":"Acme","shop_domain":"acme.myshopify.com","webhook_secret":"super-secret","surprise":true}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	TenantRegister(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTenantRegisterConflictPassthrough(t *testing.T) {
	svc := &fakeTenantService{
		registerFn: func(tenants.RegisterInput) (*tenants.TenantDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "shop domain already registered")
		},
	}
	body := []byte(`{"name":"Acme","shop_domain":"acme.myshopify.com","webhook_secret":"super-secret"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	TenantRegister(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestTenantListEnvelope(t *testing.T) {
	svc := &fakeTenantService{listed: []tenants.TenantDTO{{Name: "Acme"}, {Name: "Globex"}}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants", nil)
	rec := httptest.NewRecorder()
	TenantList(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Tenants []tenants.TenantDTO `json:"tenants"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Tenants) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(envelope.Data.Tenants))
	}
}
