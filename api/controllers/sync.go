package controllers

import (
	"net/http"

	"github.com/navadeepnaidu7/xeno-fde-backend/api/responses"
	"github.com/navadeepnaidu7/xeno-fde-backend/internal/syncer"
	pkgerrors "github.com/navadeepnaidu7/xeno-fde-backend/pkg/errors"
	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/logger"
)

// TenantSync triggers a historical backfill for one tenant. The walk runs
// inline; large stores should prefer smaller page sizes over long request
// deadlines.
func TenantSync(svc *syncer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync service unavailable"))
			return
		}

		tenantID, err := tenantIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SyncTenant(r.Context(), tenantID)
		if err != nil && result == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err != nil {
			// Partial failure: some pages landed before the walk broke.
			responses.WriteSuccessStatus(w, http.StatusMultiStatus, result)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
