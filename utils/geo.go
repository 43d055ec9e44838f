package utils

import (
	"strconv"
	"strings"
)

// India bounding box used to reject bad geocodes.
const (
	IndiaLatMin = 8.0
	IndiaLatMax = 35.0
	IndiaLngMin = 68.0
	IndiaLngMax = 97.0
)

var dmsReplacer = strings.NewReplacer(`"`, "", "'", " ", "°", " ")

// ParseCoordinate accepts decimal degrees or a DMS string like 17°57'17.7".
func ParseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v, true
	}

	parts := strings.Fields(dmsReplacer.Replace(raw))
	if len(parts) == 0 {
		return 0, false
	}
	var fields [3]float64
	for i := 0; i < len(parts) && i < 3; i++ {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return 0, false
		}
		fields[i] = v
	}
	return fields[0] + fields[1]/60 + fields[2]/3600, true
}

func InIndia(lat, lng float64) bool {
	return lat >= IndiaLatMin && lat <= IndiaLatMax && lng >= IndiaLngMin && lng <= IndiaLngMax
}
