package utils

import (
	"math"

	"evbus/internal/domain/models"
)

// EarthRadiusKm is the mean Earth radius used by the great-circle fallback.
const EarthRadiusKm = 6371.0

func toRadians(degree float64) float64 {
	return degree * math.Pi / 180
}

// Haversine returns the great-circle distance between a and b in km.
func Haversine(a, b models.GeoPoint) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	deltaPhi := toRadians(b.Lat - a.Lat)
	deltaLambda := toRadians(b.Lng - a.Lng)

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// HaversineChain sums the great-circle distance along points in order.
func HaversineChain(points []models.GeoPoint) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1], points[i])
	}
	return total
}
