package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Paldeepak079/AadharIQ/models"
	"github.com/Paldeepak079/AadharIQ/utils"
)

type Coordinate struct {
	Lat float64
	Lng float64
}

// ScoreDistrictDensity sets density (enrolments per office) and a density
// anomaly score on every district with at least one office. The score is
// |z| / 3 capped at 1, using the population standard deviation.
func ScoreDistrictDensity(districts []models.District) []models.District {
	out := append([]models.District(nil), districts...)
	idx := make([]int, 0, len(out))
	densities := make([]float64, 0, len(out))
	for i := range out {
		if out[i].Offices <= 0 {
			continue
		}
		out[i].Density = utils.Round(float64(out[i].Enrolments)/float64(out[i].Offices), 2)
		idx = append(idx, i)
		densities = append(densities, out[i].Density)
	}
	if len(densities) == 0 {
		return out
	}

	mean, std := stat.PopMeanStdDev(densities, nil)
	for k, i := range idx {
		score := 0.0
		if std > 0 {
			score = math.Min(math.Abs((densities[k]-mean)/std)/3, 1)
		}
		out[i].AnomalyScore = utils.Round(score, 3)
	}
	return out
}

// ZoomScale picks a map zoom for a state from the larger of its latitude and
// longitude spans in degrees.
func ZoomScale(maxRange float64) int {
	switch {
	case maxRange < 1:
		return 25
	case maxRange < 2:
		return 18
	case maxRange < 4:
		return 12
	case maxRange < 6:
		return 9
	default:
		return 6
	}
}

// StateCentroids averages each state's coordinates and records its bounding
// box. States with no coordinates are skipped.
func StateCentroids(coords map[string][]Coordinate) map[string]models.StateCentroid {
	out := make(map[string]models.StateCentroid, len(coords))
	for state, pts := range coords {
		if len(pts) == 0 {
			continue
		}
		b := models.StateBounds{
			LatMin: pts[0].Lat, LatMax: pts[0].Lat,
			LngMin: pts[0].Lng, LngMax: pts[0].Lng,
		}
		var latSum, lngSum float64
		for _, p := range pts {
			latSum += p.Lat
			lngSum += p.Lng
			b.LatMin = math.Min(b.LatMin, p.Lat)
			b.LatMax = math.Max(b.LatMax, p.Lat)
			b.LngMin = math.Min(b.LngMin, p.Lng)
			b.LngMax = math.Max(b.LngMax, p.Lng)
		}
		n := float64(len(pts))
		out[state] = models.StateCentroid{
			Lat: utils.Round(latSum/n, 4),
			Lng: utils.Round(lngSum/n, 4),
			Bounds: models.StateBounds{
				LatMin: utils.Round(b.LatMin, 4),
				LatMax: utils.Round(b.LatMax, 4),
				LngMin: utils.Round(b.LngMin, 4),
				LngMax: utils.Round(b.LngMax, 4),
			},
			ZoomScale: ZoomScale(math.Max(b.LatMax-b.LatMin, b.LngMax-b.LngMin)),
		}
	}
	return out
}

// Nearby returns located districts within radiusKm of a point, nearest
// first.
func Nearby(districts []models.District, lat, lng, radiusKm float64) []models.NearbyDistrict {
	out := make([]models.NearbyDistrict, 0)
	for _, d := range districts {
		if !d.Located() {
			continue
		}
		dist := utils.CalculateDistance(lat, lng, *d.Lat, *d.Lng)
		if dist <= radiusKm {
			out = append(out, models.NearbyDistrict{District: d, DistanceKm: utils.Round(dist, 2)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
