// Package handlers serves the analytics API over the loaded dataset.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/Paldeepak079/AadharIQ/config"
	apierrors "github.com/Paldeepak079/AadharIQ/errors"
	"github.com/Paldeepak079/AadharIQ/insights"
	"github.com/Paldeepak079/AadharIQ/metrics"
	"github.com/Paldeepak079/AadharIQ/middleware"
	"github.com/Paldeepak079/AadharIQ/report"
	"github.com/Paldeepak079/AadharIQ/store"
)

const readMaxAge = 5 * time.Minute

// API holds the dependencies shared by every handler.
type API struct {
	holder   *store.Holder
	cache    *cache.Cache
	insights *insights.Engine
	pdf      *report.PDFRenderer
	errors   *apierrors.Handler
	checks   map[string]config.Pinger
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

type Options struct {
	Holder   *store.Holder
	Cache    *cache.Cache
	Insights *insights.Engine
	PDF      *report.PDFRenderer
	// Checks are dependency probes reported by /health, keyed by name.
	Checks  map[string]config.Pinger
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// NewAPI builds the handler set. The response cache is flushed whenever the
// holder reloads its dataset.
func NewAPI(opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := opts.Cache
	if c == nil {
		c = config.NewResponseCache(config.CacheConfig{})
	}
	pdf := opts.PDF
	if pdf == nil {
		pdf = report.NewPDFRenderer("")
	}
	a := &API{
		holder:   opts.Holder,
		cache:    c,
		insights: opts.Insights,
		pdf:      pdf,
		errors:   apierrors.NewHandler(logger),
		checks:   opts.Checks,
		metrics:  opts.Metrics,
		logger:   logger,
		now:      time.Now,
	}
	a.holder.OnReload(func(*store.Snapshot) {
		a.cache.Flush()
		a.logger.Info("Response cache flushed after reload")
	})
	return a
}

// Register mounts every route on r. Generation endpoints go through limiter
// when it is non-nil.
func (a *API) Register(r *mux.Router, limiter *middleware.RateLimiter) {
	read := middleware.CacheControl(readMaxAge)
	limited := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return limiter.Limit(h)
	}
	get := func(path string, h http.HandlerFunc) {
		r.Handle(path, read(h)).Methods(http.MethodGet)
	}

	r.HandleFunc("/", a.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", a.Health).Methods(http.MethodGet)

	get("/api/dashboard/stats", a.DashboardStats)
	get("/api/states", a.States)
	get("/api/states/{name}", a.StateDetail)
	get("/api/districts", a.Districts)
	get("/api/districts/nearby", a.NearbyDistricts)
	get("/api/timeseries", a.TimeSeries)
	get("/api/velocity", a.Velocity)
	get("/api/centroids", a.Centroids)

	get("/api/ml/anomalies", a.Anomalies)
	get("/api/ml/anomaly-scores", a.AnomalyScores)
	get("/api/ml/forecast", a.Forecast)
	get("/api/ml/pulse", a.Pulse)
	get("/api/ml/clusters", a.Clusters)
	get("/api/ml/saturation", a.Saturation)
	get("/api/ml/saturation/age-groups", a.AgeGroupSaturation)
	get("/api/ml/rural-urban", a.RuralUrban)
	get("/api/recommendations", a.Recommendations)
	get("/api/report", a.Report)

	r.Handle("/api/insights", limited(a.GenerateInsight)).Methods(http.MethodPost)
	r.HandleFunc("/api/insights/cache", a.InsightCacheStats).Methods(http.MethodGet)
	r.HandleFunc("/api/insights/cache", a.ClearInsightCache).Methods(http.MethodDelete)
	r.HandleFunc("/api/insights/history", a.InsightHistory).Methods(http.MethodGet)

	r.Handle("/api/reports/pdf", limited(a.PolicyPDF)).Methods(http.MethodPost)
	r.HandleFunc("/api/export/xlsx", a.ExportWorkbook).Methods(http.MethodGet)
	get("/api/charts/forecast.png", a.ForecastChart)

	r.HandleFunc("/api/admin/reload", a.Reload).Methods(http.MethodPost)
}

// snapshot returns the loaded dataset, writing 503 when there is none.
func (a *API) snapshot(w http.ResponseWriter, r *http.Request) (*store.Snapshot, bool) {
	snap, ok := a.holder.Current()
	if !ok {
		a.errors.WriteDataNotLoaded(w, middleware.GetRequestID(r))
		return nil, false
	}
	return snap, true
}

// cached memoizes compute for snap under the key built from prefix and
// params. Keys carry the snapshot generation, so a value computed from an
// older dataset is never returned for a newer one.
func (a *API) cached(snap *store.Snapshot, prefix string, compute func() (interface{}, error), params ...interface{}) (interface{}, error) {
	key := config.GetCacheKey(prefix, append([]interface{}{snap.Generation}, params...)...)
	if v, ok := a.cache.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	a.cache.SetDefault(key, v)
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
