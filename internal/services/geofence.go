package services

import (
	"context"

	"evbus/internal/domain/models"
	"evbus/internal/utils"
)

const defaultGeofenceRadiusM = 200.0

// Geofence decides whether a fix is close enough to a route's destination
// for a trip to end normally.
type Geofence interface {
	Check(ctx context.Context, route models.Route, fix models.GeoPoint) (GeofenceResult, error)
}

type GeofenceResult struct {
	Within    bool    `json:"within"`
	DistanceM float64 `json:"distanceM"`
	RadiusM   float64 `json:"radiusM"`
}

// RadiusGeofence compares the great-circle distance to the destination with
// the operator radius, or DefaultRadiusM when none is stored.
type RadiusGeofence struct {
	Settings       SettingsStore
	DefaultRadiusM float64
}

func (g RadiusGeofence) radius(ctx context.Context) (float64, error) {
	if g.Settings != nil {
		r, ok, err := g.Settings.DestinationRadiusM(ctx)
		if err != nil {
			return 0, err
		}
		if ok {
			return r, nil
		}
	}
	if g.DefaultRadiusM > 0 {
		return g.DefaultRadiusM, nil
	}
	return defaultGeofenceRadiusM, nil
}

func (g RadiusGeofence) Check(ctx context.Context, route models.Route, fix models.GeoPoint) (GeofenceResult, error) {
	radius, err := g.radius(ctx)
	if err != nil {
		return GeofenceResult{}, err
	}
	d := utils.Haversine(fix, route.Destination) * 1000
	return GeofenceResult{Within: d <= radius, DistanceM: d, RadiusM: radius}, nil
}
