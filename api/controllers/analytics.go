package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/navadeepnaidu7/xeno-fde-backend/api/responses"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/analytics"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
)

// CheckoutFunnel serves the abandonment funnel metrics for the tenant.
func CheckoutFunnel(svc *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := serveReport(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report.Funnel)
	}
}

// RefundSummary serves the refund aggregates for the tenant.
func RefundSummary(svc *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := serveReport(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report.Refunds)
	}
}

// Dashboard serves the tenant-lifetime dashboard rollup.
func Dashboard(svc *analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := serveReport(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report.Dashboard)
	}
}

func serveReport(svc *analytics.Service, r *http.Request) (*analytics.Report, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable")
	}

	tenantID, err := tenantIDFromPath(r)
	if err != nil {
		return nil, err
	}

	dateRange, err := dateRangeFromQuery(r)
	if err != nil {
		return nil, err
	}

	return svc.Report(r.Context(), tenantID, dateRange)
}

func dateRangeFromQuery(r *http.Request) (analytics.DateRange, error) {
	var dateRange analytics.DateRange

	start, err := parseDateParam(r, "start")
	if err != nil {
		return dateRange, err
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		return dateRange, err
	}

	if start != nil && end != nil && end.Before(*start) {
		return dateRange, pkgerrors.New(pkgerrors.CodeValidation, "end must not precede start")
	}

	dateRange.Start = start
	dateRange.End = end
	return dateRange, nil
}

func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name+" date")
}
