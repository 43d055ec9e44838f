package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Paldeepak079/AadharIQ/analytics"
	"github.com/Paldeepak079/AadharIQ/insights"
	"github.com/Paldeepak079/AadharIQ/middleware"
	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/store"
	"github.com/Paldeepak079/AadharIQ/utils"
)

const maxInsightBody = 1 << 16

// GenerateInsight produces a narrative for a region. A missing data_summary
// is filled from the loaded dataset.
func (a *API) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r)
	if a.insights == nil {
		a.errors.WriteServiceUnavailable(w, "insight engine not configured", requestID)
		return
	}

	var req models.InsightRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInsightBody)).Decode(&req); err != nil {
		a.errors.WriteValidationError(w, "Invalid request format", requestID)
		return
	}

	snap, loaded := a.holder.Current()
	if req.DataSummary == "" && loaded {
		req.DataSummary = insights.ContextSummary(snap.Dataset, req.Region)
	}

	resp, err := a.insights.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, insights.ErrInvalidRequest) {
			a.errors.WriteValidationError(w, err.Error(), requestID)
			return
		}
		a.errors.HandleError(w, r, err)
		return
	}

	if loaded {
		if m := regionMetrics(snap, req.Region); m != nil {
			out := *resp
			out.Metrics = m
			resp = &out
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// regionMetrics reports the saturation gap and anomaly score of a named
// state. All India has no regional metrics.
func regionMetrics(snap *store.Snapshot, region string) *models.RegionMetrics {
	region = strings.TrimSpace(region)
	if region == "" || strings.EqualFold(region, models.AllIndia) {
		return nil
	}
	for _, s := range snap.Dataset.States {
		if !strings.EqualFold(strings.TrimSpace(s.State), region) {
			continue
		}
		sat := analytics.SaturationFor(analytics.StateSaturation(snap.Dataset.States), s.State)
		return &models.RegionMetrics{
			Gap:     sat.Gap,
			Anomaly: utils.Round(s.AnomalyScore, 2),
			Status:  sat.Status,
		}
	}
	return nil
}

func (a *API) InsightCacheStats(w http.ResponseWriter, r *http.Request) {
	if a.insights == nil {
		a.errors.WriteServiceUnavailable(w, "insight engine not configured", middleware.GetRequestID(r))
		return
	}
	stats, err := a.insights.CacheStats(r.Context())
	if err != nil {
		a.errors.HandleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) ClearInsightCache(w http.ResponseWriter, r *http.Request) {
	if a.insights == nil {
		a.errors.WriteServiceUnavailable(w, "insight engine not configured", middleware.GetRequestID(r))
		return
	}
	if err := a.insights.ClearCache(r.Context()); err != nil {
		a.errors.HandleError(w, r, err)
		return
	}
	a.logger.Info("Insight cache cleared", zap.String("request_id", middleware.GetRequestID(r)))
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// InsightHistory lists archived insights, newest first.
func (a *API) InsightHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r)
	if a.insights == nil {
		a.errors.WriteServiceUnavailable(w, "insight engine not configured", requestID)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			a.errors.WriteValidationError(w, "limit must be a non-negative integer", requestID)
			return
		}
		limit = n
	}

	records, err := a.insights.History(r.Context(), r.URL.Query().Get("region"), limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.errors.WriteServiceUnavailable(w, "insight archive not configured", requestID)
			return
		}
		a.errors.HandleError(w, r, err)
		return
	}
	if records == nil {
		records = []models.InsightRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}
