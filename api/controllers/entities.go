package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/navadeepnaidu7/xeno-fde-backend/api/responses"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/ingest"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/pagination"
)

// CustomerList returns a paginated customer listing for the tenant.
func CustomerList(svc *ingest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
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

		rows, nextCursor, err := svc.ListCustomers(r.Context(), tenantID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"customers":   ingest.CustomersFromModels(rows),
			"next_cursor": nextCursor,
		})
	}
}

// OrderList returns a paginated order listing, optionally filtered by the
// customer's Shopify id.
func OrderList(svc *ingest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
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

		var customerShopifyID *int64
		if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
			value, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer_id"))
				return
			}
			customerShopifyID = &value
		}

		rows, nextCursor, err := svc.ListOrders(r.Context(), tenantID, customerShopifyID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"orders":      ingest.OrdersFromModels(rows),
			"next_cursor": nextCursor,
		})
	}
}

// ProductList returns a paginated product listing for the tenant.
func ProductList(svc *ingest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
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

		rows, nextCursor, err := svc.ListProducts(r.Context(), tenantID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"products":    ingest.ProductsFromModels(rows),
			"next_cursor": nextCursor,
		})
	}
}

// RefundList returns a paginated refund listing, optionally filtered by the
// order's Shopify id.
func RefundList(svc *ingest.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest service unavailable"))
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

		var orderShopifyID *int64
		if raw := strings.TrimSpace(r.URL.Query().Get("order_id")); raw != "" {
			value, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order_id"))
				return
			}
			orderShopifyID = &value
		}

		rows, nextCursor, err := svc.ListRefunds(r.Context(), tenantID, orderShopifyID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"refunds":     ingest.RefundsFromModels(rows),
			"next_cursor": nextCursor,
		})
	}
}

func listParamsFromQuery(r *http.Request) (pagination.Params, error) {
	var params pagination.Params

	if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
		value, err := strconv.Atoi(limitStr)
		if err != nil || value <= 0 {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer")
		}
		params.Limit = value
	}

	if cursor := strings.TrimSpace(r.URL.Query().Get("cursor")); cursor != "" {
		params.Cursor = cursor
	}

	return params, nil
}
