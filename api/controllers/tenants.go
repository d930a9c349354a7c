package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/api/responses"
	"github.com/navadeepnaidu7/xeno-fde-backend/api/validators"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/tenants"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
)

type tenantRegisterRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=120"`
	ShopDomain    string   `json:"shop_domain" validate:"required,min=3,max=255"`
	WebhookSecret string   `json:"webhook_secret" validate:"required,min=8"`
	AccessToken   *string  `json:"access_token,omitempty"`
	WebhookTopics []string `json:"webhook_topics,omitempty"`
}

type tenantUpdateRequest struct {
	Name          *string   `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	WebhookSecret *string   `json:"webhook_secret,omitempty" validate:"omitempty,min=8"`
	AccessToken   *string   `json:"access_token,omitempty"`
	WebhookTopics *[]string `json:"webhook_topics,omitempty"`
}

// TenantRegister onboards a new store.
func TenantRegister(svc tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tenant service unavailable"))
			return
		}

		var body tenantRegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Register(r.Context(), tenants.RegisterInput{
			Name:          body.Name,
			ShopDomain:    body.ShopDomain,
			WebhookSecret: body.WebhookSecret,
			AccessToken:   body.AccessToken,
			WebhookTopics: body.WebhookTopics,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// TenantList returns all registered tenants.
func TenantList(svc tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tenant service unavailable"))
			return
		}

		dtos, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"tenants": dtos})
	}
}

// TenantGet returns a single tenant by id.
func TenantGet(svc tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tenant service unavailable"))
			return
		}

		id, err := tenantIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// TenantUpdate mutates tenant settings.
func TenantUpdate(svc tenants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tenant service unavailable"))
			return
		}

		id, err := tenantIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body tenantUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, tenants.UpdateInput{
			Name:          body.Name,
			WebhookSecret: body.WebhookSecret,
			AccessToken:   body.AccessToken,
			WebhookTopics: body.WebhookTopics,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func tenantIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "tenantId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tenant id")
	}
	return id, nil
}
