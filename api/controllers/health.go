package controllers

import (
	"net/http"

	"github.com/teclegacy/marketplace-backend/api/responses"
	"github.com/teclegacy/marketplace-backend/pkg/config"
	"github.com/teclegacy/marketplace-backend/pkg/db"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TecLegacy-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the datastores behind the API. Redis is optional: the
// service degrades to store-level atomicity without it.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TecLegacy-Env", cfg.App.Env)
		ctx := r.Context()

		checks := map[string]string{"db": "ok"}
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
