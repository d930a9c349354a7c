package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/navadeepnaidu7/xeno-fde-backend/api/responses"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/checkouts"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/enums"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
)

type reportInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID)
}

// CheckoutList returns a paginated checkout listing, optionally filtered by
// funnel status.
func CheckoutList(svc *checkouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		tenantID, err := tenantIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := listParamsFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.CheckoutStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseCheckoutStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = &parsed
		}

		rows, nextCursor, err := svc.List(r.Context(), tenantID, status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"checkouts":   checkouts.FromModels(rows),
			"next_cursor": nextCursor,
		})
	}
}

// CheckoutDetectAbandoned runs the abandonment sweep for one tenant on
// demand. The cron worker runs the same transition on a schedule.
func CheckoutDetectAbandoned(svc *checkouts.Service, cache reportInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		tenantID, err := tenantIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transitioned, err := svc.DetectAbandoned(r.Context(), tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if transitioned > 0 && cache != nil {
			cache.InvalidateTenant(r.Context(), tenantID)
		}

		responses.WriteSuccess(w, map[string]any{"transitioned": transitioned})
	}
}
