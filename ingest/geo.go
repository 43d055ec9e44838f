package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Paldeepak079/AadharIQ/analytics"
	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

// PostOffice is one geocoded row of the district lat/long file.
type PostOffice struct {
	State    string
	District string
	Lat      float64
	Lng      float64
}

// ReadPostOffices reads statename, district, latitude and longitude columns.
// Coordinates may be decimal or DMS; rows outside India are dropped.
func ReadPostOffices(r io.Reader, norm *Normalizer) ([]PostOffice, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read lat/long header: %w", err)
	}
	cols := map[string]int{"statename": -1, "district": -1, "latitude": -1, "longitude": -1}
	for i, h := range header {
		if _, ok := cols[StandardizeColumn(h)]; ok {
			cols[StandardizeColumn(h)] = i
		}
	}
	for name, i := range cols {
		if i < 0 {
			return nil, fmt.Errorf("lat/long file missing column %q", name)
		}
	}

	var out []PostOffice
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		get := func(name string) string {
			if i := cols[name]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		state, ok := norm.Normalize(get("statename"))
		district := get("district")
		if !ok || district == "" {
			continue
		}
		lat, okLat := utils.ParseCoordinate(get("latitude"))
		lng, okLng := utils.ParseCoordinate(get("longitude"))
		if !okLat || !okLng || !utils.InIndia(lat, lng) {
			continue
		}
		out = append(out, PostOffice{State: state, District: district, Lat: lat, Lng: lng})
	}
	return out, nil
}

// canonicalStates resolves post office state spellings against the state
// names found in the enrolment data, ignoring case.
func canonicalStates(states []models.StateStats) func(string) string {
	byUpper := make(map[string]string, len(states))
	for _, s := range states {
		byUpper[strings.ToUpper(s.State)] = s.State
	}
	return func(name string) string {
		if c, ok := byUpper[strings.ToUpper(name)]; ok {
			return c
		}
		return name
	}
}

// ApplyGeography places districts at the mean of their post offices, counts
// offices and computes state centroids.
func ApplyGeography(districts []models.District, states []models.StateStats, offices []PostOffice) ([]models.District, map[string]models.StateCentroid) {
	type acc struct {
		lat, lng float64
		n        int
	}
	byDistrict := make(map[string]*acc)
	byState := make(map[string][]analytics.Coordinate)
	canonical := canonicalStates(states)

	for _, o := range offices {
		k := districtKey(o.State, o.District)
		a, ok := byDistrict[k]
		if !ok {
			a = &acc{}
			byDistrict[k] = a
		}
		a.lat += o.Lat
		a.lng += o.Lng
		a.n++

		state := canonical(o.State)
		byState[state] = append(byState[state], analytics.Coordinate{Lat: o.Lat, Lng: o.Lng})
	}

	out := append([]models.District(nil), districts...)
	for i := range out {
		a, ok := byDistrict[districtKey(out[i].State, out[i].District)]
		if !ok {
			continue
		}
		lat := utils.Round(a.lat/float64(a.n), 4)
		lng := utils.Round(a.lng/float64(a.n), 4)
		out[i].Lat = &lat
		out[i].Lng = &lng
		out[i].Offices = a.n
	}
	return out, analytics.StateCentroids(byState)
}
