package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Paldeepak079/AadharIQ/analytics"
	"github.com/Paldeepak079/AadharIQ/middleware"
	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

const defaultNearbyRadiusKm = 50.0

var endpointIndex = map[string]string{
	"dashboard":       "/api/dashboard/stats",
	"states":          "/api/states",
	"state_detail":    "/api/states/{state_name}",
	"districts":       "/api/districts",
	"nearby":          "/api/districts/nearby",
	"timeseries":      "/api/timeseries",
	"velocity":        "/api/velocity",
	"centroids":       "/api/centroids",
	"anomalies":       "/api/ml/anomalies",
	"anomaly_scores":  "/api/ml/anomaly-scores",
	"forecast":        "/api/ml/forecast",
	"pulse":           "/api/ml/pulse",
	"clusters":        "/api/ml/clusters",
	"saturation":      "/api/ml/saturation",
	"rural_urban":     "/api/ml/rural-urban",
	"recommendations": "/api/recommendations",
	"report":          "/api/report",
	"insights":        "/api/insights",
	"pdf":             "/api/reports/pdf",
	"xlsx":            "/api/export/xlsx",
}

func (a *API) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "AadhaarIQ API v1.0",
		"endpoints": endpointIndex,
	})
}

func (a *API) DashboardStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Dataset.Summary)
}

func (a *API) States(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	states := snap.Dataset.States
	if states == nil {
		states = []models.StateStats{}
	}
	writeJSON(w, http.StatusOK, states)
}

// StateDetail returns the first state whose name contains the path value.
func (a *API) StateDetail(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]
	state, found := snap.Dataset.FindState(name)
	if !found {
		a.errors.WriteNotFound(w, fmt.Sprintf("State '%s' not found", name), middleware.GetRequestID(r))
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (a *API) Districts(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	districts := snap.Dataset.DistrictsIn(r.URL.Query().Get("state"))
	if districts == nil {
		districts = []models.District{}
	}
	writeJSON(w, http.StatusOK, districts)
}

func parseFloatParam(r *http.Request, name string) (float64, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be a number", name)
	}
	return v, true, nil
}

// NearbyDistricts lists located districts within radius_km of lat/lng.
func (a *API) NearbyDistricts(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r)

	lat, hasLat, err := parseFloatParam(r, "lat")
	if err != nil {
		a.errors.WriteValidationError(w, err.Error(), requestID)
		return
	}
	lng, hasLng, err := parseFloatParam(r, "lng")
	if err != nil {
		a.errors.WriteValidationError(w, err.Error(), requestID)
		return
	}
	if !hasLat || !hasLng {
		a.errors.WriteValidationError(w, "lat and lng are required", requestID)
		return
	}
	radius := defaultNearbyRadiusKm
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		radius = utils.ParseRadius(raw, 0)
		if radius <= 0 {
			a.errors.WriteValidationError(w, "radius_km must be a positive number", requestID)
			return
		}
	}

	found := analytics.Nearby(snap.Dataset.Districts, lat, lng, radius)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"districts": found,
		"count":     len(found),
		"radius_km": radius,
	})
}

func (a *API) TimeSeries(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	state := r.URL.Query().Get("state")
	series, found := snap.Dataset.SeriesFor(state)
	if !found {
		a.errors.WriteNotFound(w, fmt.Sprintf("No time series for state '%s'", state), middleware.GetRequestID(r))
		return
	}
	if series == nil {
		series = []models.TimePoint{}
	}
	writeJSON(w, http.StatusOK, series)
}

// Velocity returns the urban/rural enrolment series for all India or one
// state.
func (a *API) Velocity(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r)
	v := snap.Dataset.Velocity
	if v == nil {
		a.errors.WriteNotFound(w, "Velocity data not available", requestID)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" || strings.EqualFold(state, models.AllIndia) {
		writeJSON(w, http.StatusOK, v)
		return
	}
	for name, series := range v.States {
		if strings.EqualFold(name, state) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"state":   name,
				"urban":   series.Urban,
				"rural":   series.Rural,
				"summary": series.Summary,
			})
			return
		}
	}
	a.errors.WriteNotFound(w, fmt.Sprintf("No velocity data for state '%s'", state), requestID)
}

func (a *API) Centroids(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.snapshot(w, r)
	if !ok {
		return
	}
	centroids := snap.Dataset.Centroids
	if centroids == nil {
		centroids = map[string]models.StateCentroid{}
	}
	writeJSON(w, http.StatusOK, centroids)
}
