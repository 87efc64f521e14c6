package models

import "time"

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point is inside lat/lng bounds.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

type Vehicle struct {
	ID            int64    `json:"id"`
	Code          string   `json:"vehicleCode"`
	PlateNumber   string   `json:"plateNumber"`
	DriverID      int64    `json:"driverId"`
	Paired        bool     `json:"paired"`
	ActiveRouteID *int64   `json:"activeRouteId,omitempty"`
	SeatLayout    []string `json:"seatLayout"`
}

type Route struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	OriginName      string     `json:"originName"`
	Origin          GeoPoint   `json:"origin"`
	DestinationName string     `json:"destinationName"`
	Destination     GeoPoint   `json:"destination"`
	Waypoints       []GeoPoint `json:"waypoints,omitempty"`
}

// Schedule is one bookable run: vehicle + route + departure time.
type Schedule struct {
	ID              int64     `json:"id"`
	VehicleID       int64     `json:"vehicleId"`
	RouteID         int64     `json:"routeId"`
	OriginName      string    `json:"originName"`
	DestinationName string    `json:"destinationName"`
	DepartAt        time.Time `json:"departAt"`
	Price           int64     `json:"price"`
}

type ScheduleFilter struct {
	Date        string
	Origin      string
	Destination string
}

type LocationSample struct {
	ID         int64     `json:"id"`
	TripID     string    `json:"tripId"`
	VehicleID  int64     `json:"vehicleId"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recordedAt"`
}
