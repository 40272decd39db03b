package rewards

import (
	"math"

	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

const earthRadiusM = 6371000.0

// DistanceMeters returns the great-circle (haversine) distance between two
// coordinates in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// NearestSite returns the closest active site with coordinates and its
// distance from the given point. ok is false when no site qualifies.
func NearestSite(lat, lon float64, sites []models.Site) (site models.Site, distance float64, ok bool) {
	best := math.MaxFloat64
	for _, s := range sites {
		if !s.Active || s.Lat == nil || s.Lon == nil {
			continue
		}
		d := DistanceMeters(lat, lon, *s.Lat, *s.Lon)
		if d < best {
			best = d
			site = s
			ok = true
		}
	}
	return site, best, ok
}
