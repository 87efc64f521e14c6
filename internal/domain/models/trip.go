package models

import "time"

// TripSession is one execution of a route by a vehicle.
type TripSession struct {
	ID         string     `json:"id"`
	VehicleID  int64      `json:"vehicleId"`
	RouteID    int64      `json:"routeId"`
	ScheduleID *int64     `json:"scheduleId,omitempty"`
	DriverID   int64      `json:"driverId"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Start      GeoPoint   `json:"start"`
	End        *GeoPoint  `json:"end,omitempty"`
	ForcedEnd  bool       `json:"forcedEnd"`
}

func (t TripSession) Open() bool { return t.EndTime == nil }

type TripMode string

const (
	TripModeScheduled TripMode = "scheduled"
	TripModeNormal    TripMode = "normal"
)
