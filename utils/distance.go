package utils

import (
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// ParseRadius reads a radius such as "25", "25km" or "25 KM". Invalid or
// non-positive input yields fallback.
func ParseRadius(radius string, fallback float64) float64 {
	radius = strings.TrimSpace(strings.ToUpper(radius))
	radius = strings.TrimSpace(strings.TrimSuffix(radius, "KM"))

	val, err := strconv.ParseFloat(radius, 64)
	if err != nil || val <= 0 {
		return fallback
	}
	return val
}

// CalculateDistance returns the haversine distance in kilometres.
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := lat2Rad - lat1Rad
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
