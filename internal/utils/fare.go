package utils

import "math"

// DistanceFare prices an ad-hoc point-to-point ride: km x per-km rate,
// rounded to a whole currency unit.
func DistanceFare(distanceKm, perKmRate float64) int64 {
	if distanceKm <= 0 || perKmRate <= 0 {
		return 0
	}
	return int64(math.Round(distanceKm * perKmRate))
}

// ScheduleFare prices seats on a scheduled run: a flat price per seat.
func ScheduleFare(pricePerSeat int64, seats int) int64 {
	if pricePerSeat <= 0 || seats <= 0 {
		return 0
	}
	return pricePerSeat * int64(seats)
}
