package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/ayebare/dukapos/api/responses"
	"github.com/ayebare/dukapos/pkg/config"
	pkgerrors "github.com/ayebare/dukapos/pkg/errors"
	"github.com/ayebare/dukapos/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := ""
		if cfg != nil {
			env = cfg.App.Env
		}
		responses.WriteSuccess(w, map[string]any{
			"status": "ok",
			"env":    env,
		})
	}
}

// HealthReady verifies the storage dependency before reporting ready.
func HealthReady(logg *logger.Logger, storage pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if storage == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "storage not configured"))
			return
		}
		if err := storage.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage unreachable"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready"})
	}
}
