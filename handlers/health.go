package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Paldeepak079/AadharIQ/middleware"
)

const healthCheckTimeout = 3 * time.Second

type HealthResponse struct {
	Status          string            `json:"status"`
	DataLoaded      bool              `json:"data_loaded"`
	AnalyticsLoaded bool              `json:"analytics_loaded"`
	TotalStates     int               `json:"total_states"`
	TotalDistricts  int               `json:"total_districts"`
	LoadedAt        string            `json:"loaded_at,omitempty"`
	Checks          map[string]string `json:"checks,omitempty"`
}

// Health reports dataset state and pings every configured dependency. A
// failing dependency marks the service degraded but still answers 200.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy"}
	if snap, ok := a.holder.Current(); ok {
		resp.DataLoaded = true
		resp.AnalyticsLoaded = snap.Report != nil
		resp.TotalStates = len(snap.Dataset.States)
		resp.TotalDistricts = len(snap.Dataset.Districts)
		resp.LoadedAt = snap.LoadedAt.UTC().Format(time.RFC3339)
	}

	if len(a.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		names := make([]string, 0, len(a.checks))
		for name := range a.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		resp.Checks = make(map[string]string, len(names))
		for _, name := range names {
			if err := a.checks[name].Ping(ctx); err != nil {
				a.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	if a.metrics != nil {
		a.metrics.SetHealthStatus(resp.Status == "healthy")
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reload reloads the dataset from its source.
func (a *API) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := a.holder.Reload(r.Context())
	if err != nil {
		a.errors.HandleError(w, r, err)
		return
	}
	a.logger.Info("Dataset reloaded on request",
		zap.String("request_id", middleware.GetRequestID(r)),
		zap.Int("states", len(snap.Dataset.States)))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "reloaded",
		"total_states":    len(snap.Dataset.States),
		"total_districts": len(snap.Dataset.Districts),
		"loaded_at":       snap.LoadedAt.UTC().Format(time.RFC3339),
	})
}
