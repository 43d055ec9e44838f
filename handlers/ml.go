package handlers

import (
	"fmt"
	"net/http"

	"github.com/Paldeepak079/AadharIQ/analytics"
	"github.com/Paldeepak079/AadharIQ/middleware"
	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/store"
)

func (a *API) Anomalies(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Explain(snap.Report.AnomalyDetection))
}

func (a *API) AnomalyScores(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	v, _ := a.cached(snap, "anomaly-scores", func() (interface{}, error) {
		return analytics.AnomalyScores(snap.Dataset.States), nil
	})
	writeJSON(w, http.StatusOK, v)
}

// seriesRequest resolves the state and granularity query parameters shared
// by the forecast, pulse and chart endpoints.
func (a *API) seriesRequest(w http.ResponseWriter, r *http.Request, snap *store.Snapshot) ([]models.TimePoint, string, models.Granularity, bool) {
	requestID := middleware.GetRequestID(r)
	q := r.URL.Query()

	gran, ok := models.ParseGranularity(q.Get("granularity"))
	if !ok {
		a.errors.WriteValidationError(w, fmt.Sprintf("granularity must be %q or %q", models.Daily, models.Monthly), requestID)
		return nil, "", "", false
	}
	state := q.Get("state")
	series, found := snap.Dataset.SeriesFor(state)
	if !found {
		a.errors.WriteNotFound(w, fmt.Sprintf("No time series for state '%s'", state), requestID)
		return nil, "", "", false
	}
	if state == "" {
		state = models.AllIndia
	}
	return series, state, gran, true
}

func (a *API) forecast(snap *store.Snapshot, series []models.TimePoint, state string, gran models.Granularity) (*models.ForecastResponse, error) {
	v, err := a.cached(snap, "forecast", func() (interface{}, error) {
		return analytics.Forecast(series, state, gran)
	}, state, gran)
	if err != nil {
		return nil, err
	}
	return v.(*models.ForecastResponse), nil
}

func (a *API) Forecast(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	series, state, gran, ok := a.seriesRequest(w, r, snap)
	if !ok {
		return
	}
	fc, err := a.forecast(snap, series, state, gran)
	if err != nil {
		a.errors.HandleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

func (a *API) Pulse(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	series, state, gran, ok := a.seriesRequest(w, r, snap)
	if !ok {
		return
	}
	v, err := a.cached(snap, "pulse", func() (interface{}, error) {
		return analytics.Pulse(series, state, gran)
	}, state, gran)
	if err != nil {
		a.errors.HandleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (a *API) Clusters(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Report.Clustering)
}

// Saturation lists every state's saturation and gap classification.
func (a *API) Saturation(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	v, _ := a.cached(snap, "saturation", func() (interface{}, error) {
		return analytics.StateSaturation(snap.Dataset.States), nil
	})
	writeJSON(w, http.StatusOK, v)
}

func (a *API) AgeGroupSaturation(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Report.SaturationAnalysis)
}

func (a *API) RuralUrban(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Report.RuralUrbanAnalysis)
}

func (a *API) Recommendations(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	recs := analytics.FilterRecommendations(snap.Report.StateRecommendations, r.URL.Query().Get("state"))
	if recs == nil {
		recs = []models.StateRecommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (a *API) Report(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Report)
}
