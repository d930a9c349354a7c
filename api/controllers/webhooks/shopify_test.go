package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	shopifywebhook "github.com/navadeepnaidu7/xeno-fde-backend/internal/webhooks/shopify"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/db/models"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/metrics"
)

type fakeEventHandler struct {
	calls    int
	tenantID uuid.UUID
	topic    string
	body     []byte
	err      error
}

func (f *fakeEventHandler) HandleEvent(_ context.Context, tenantID uuid.UUID, topic string, raw []byte) error {
	f.calls++
	f.tenantID = tenantID
	f.topic = topic
	f.body = append([]byte(nil), raw...)
	return f.err
}

type fakeTenantResolver struct {
	tenants map[string]*models.Tenant
}

func (f *fakeTenantResolver) ResolveByShopDomain(_ context.Context, shopDomain string) (*models.Tenant, error) {
	if tenant, ok := f.tenants[shopDomain]; ok {
		return tenant, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tenant not found")
}

func newWebhookRequest(body []byte, topic, shopDomain, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/shopify", bytes.NewReader(body))
	if topic != "" {
		req.Header.Set("X-Shopify-Topic", topic)
	}
	if shopDomain != "" {
		req.Header.Set("X-Shopify-Shop-Domain", shopDomain)
	}
	if signature != "" {
		req.Header.Set("X-Shopify-Hmac-Sha256", signature)
	}
	return req
}

func testTenant(secret string) *models.Tenant {
	return &models.Tenant{
		ID:            uuid.New(),
		Name:          "Acme",
		ShopDomain:    "acme.myshopify.com",
		WebhookSecret: secret,
	}
}

func TestShopifyWebhookDeliversVerifiedEvent(t *testing.T) {
	tenant := testTenant("top-secret")
	handler := &fakeEventHandler{}
	resolver := &fakeTenantResolver{tenants: map[string]*models.Tenant{tenant.ShopDomain: tenant}}

	body := []byte(`{"id":12345,"total_price":"99.99"}`)
	sig := shopifywebhook.ComputeSignature(tenant.WebhookSecret, body)

	rec := httptest.NewRecorder()
	ShopifyWebhook(handler, resolver, metrics.NewWebhookMetrics(nil), nil).
		ServeHTTP(rec, newWebhookRequest(body, "orders/create", tenant.ShopDomain, sig))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if handler.calls != 1 {
		t.Fatalf("expected one handler call, got %d", handler.calls)
	}
	if handler.tenantID != tenant.ID {
		t.Fatalf("handler received wrong tenant id: %s", handler.tenantID)
	}
	if handler.topic != "orders/create" {
		t.Fatalf("handler received wrong topic: %s", handler.topic)
	}
	if !bytes.Equal(handler.body, body) {
		t.Fatal("handler received mutated body")
	}

	var envelope struct {
		Data struct {
			Received bool `json:"received"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Received {
		t.Fatal("expected received acknowledgement")
	}
}

func TestShopifyWebhookRejectsMissingHeaders(t *testing.T) {
	tenant := testTenant("top-secret")
	handler := &fakeEventHandler{}
	resolver := &fakeTenantResolver{tenants: map[string]*models.Tenant{tenant.ShopDomain: tenant}}

	body := []byte(`{}`)
	sig := shopifywebhook.ComputeSignature(tenant.WebhookSecret, body)

	cases := map[string]*http.Request{
		"no topic":     newWebhookRequest(body, "", tenant.ShopDomain, sig),
		"no domain":    newWebhookRequest(body, "orders/create", "", sig),
		"no signature": newWebhookRequest(body, "orders/create", tenant.ShopDomain, ""),
	}
	for name, req := range cases {
		rec := httptest.NewRecorder()
		ShopifyWebhook(handler, resolver, metrics.NewWebhookMetrics(nil), nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
	}
	if handler.calls != 0 {
		t.Fatalf("handler should not run on rejected requests, got %d calls", handler.calls)
	}
}

func TestShopifyWebhookRejectsUnknownShop(t *testing.T) {
	handler := &fakeEventHandler{}
	resolver := &fakeTenantResolver{tenants: map[string]*models.Tenant{}}

	body := []byte(`{}`)
	sig := shopifywebhook.ComputeSignature("whatever", body)

	rec := httptest.NewRecorder()
	ShopifyWebhook(handler, resolver, metrics.NewWebhookMetrics(nil), nil).
		ServeHTTP(rec, newWebhookRequest(body, "orders/create", "ghost.myshopify.com", sig))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if handler.calls != 0 {
		t.Fatal("handler should not run for unknown shops")
	}
}

func TestShopifyWebhookRejectsBadSignature(t *testing.T) {
	tenant := testTenant("top-secret")
	handler := &fakeEventHandler{}
	resolver := &fakeTenantResolver{tenants: map[string]*models.Tenant{tenant.ShopDomain: tenant}}

	body := []byte(`{"id":1}`)
	sig := shopifywebhook.ComputeSignature("wrong-secret", body)

	rec := httptest.NewRecorder()
	ShopifyWebhook(handler, resolver, metrics.NewWebhookMetrics(nil), nil).
		ServeHTTP(rec, newWebhookRequest(body, "orders/create", tenant.ShopDomain, sig))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if handler.calls != 0 {
		t.Fatal("handler should not run on signature mismatch")
	}
}

func TestShopifyWebhookMasksProcessingFailure(t *testing.T) {
	tenant := testTenant("top-secret")
	handler := &fakeEventHandler{err: errors.New("downstream broke")}
	resolver := &fakeTenantResolver{tenants: map[string]*models.Tenant{tenant.ShopDomain: tenant}}

	body := []byte(`{"id":7}`)
	sig := shopifywebhook.ComputeSignature(tenant.WebhookSecret, body)

	rec := httptest.NewRecorder()
	ShopifyWebhook(handler, resolver, metrics.NewWebhookMetrics(nil), nil).
		ServeHTTP(rec, newWebhookRequest(body, "orders/create", tenant.ShopDomain, sig))

	if rec.Code != http.StatusOK {
		t.Fatalf("processing failures must still acknowledge with 200, got %d", rec.Code)
	}
	if handler.calls != 1 {
		t.Fatalf("expected one handler call, got %d", handler.calls)
	}
	var envelope struct {
		Data struct {
			Received bool `json:"received"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Received {
		t.Fatal("expected received acknowledgement despite failure")
	}
}
