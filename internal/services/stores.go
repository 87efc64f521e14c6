package services

import (
	"context"
	"time"

	"evbus/internal/domain/models"
)

// Data-layer contracts. The repositories package provides the MySQL
// implementations; tests use in-memory fakes.

type VehicleStore interface {
	GetByID(ctx context.Context, id int64) (models.Vehicle, error)
	GetByCode(ctx context.Context, code string) (models.Vehicle, error)
	FindPairedByDriver(ctx context.Context, driverID int64) (*models.Vehicle, error)
	SetPaired(ctx context.Context, vehicleID int64, paired bool) error
	SetActiveRoute(ctx context.Context, vehicleID int64, routeID *int64) error
	SaveLayout(ctx context.Context, vehicleID int64, layout []string, seats []models.SeatRecord) error
}

type SeatStore interface {
	ListByVehicle(ctx context.Context, vehicleID int64) ([]models.SeatRecord, error)
	SetStatus(ctx context.Context, vehicleID int64, seats []models.SeatPosition, from, to models.SeatStatus, passenger models.PassengerInput) error
	Switch(ctx context.Context, vehicleID int64, from, to models.SeatPosition) error
}

type RouteStore interface {
	GetByID(ctx context.Context, id int64) (models.Route, error)
	IsAssigned(ctx context.Context, vehicleID, routeID int64) (bool, error)
	ListForVehicle(ctx context.Context, vehicleID int64) ([]models.Route, error)
}

type ScheduleStore interface {
	GetByID(ctx context.Context, id int64) (models.Schedule, error)
	List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error)
	FindCurrentRun(ctx context.Context, vehicleID, routeID int64, now time.Time, window time.Duration) (*models.Schedule, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id int64) (models.Booking, error)
	ListBySchedule(ctx context.Context, scheduleID int64) ([]models.Booking, error)
	ListUnpaid(ctx context.Context, scheduleID int64) ([]models.Booking, error)
	MarkPaid(ctx context.Context, id int64, method string) error
}

type WalletStore interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	PayBooking(ctx context.Context, userID, bookingID, amount int64) error
}

type SettingsStore interface {
	PerKmRate(ctx context.Context) (float64, bool, error)
	DefaultSeatLayout(ctx context.Context) ([]string, error)
	DestinationRadiusM(ctx context.Context) (float64, bool, error)
}

type TripStore interface {
	OpenByVehicle(ctx context.Context, vehicleID int64) (*models.TripSession, error)
	GetByID(ctx context.Context, id string) (models.TripSession, error)
	Start(ctx context.Context, t *models.TripSession) error
	End(ctx context.Context, id string, at time.Time, end models.GeoPoint, forced bool) error
}

type LocationStore interface {
	Write(ctx context.Context, s models.LocationSample) error
	ListByTrip(ctx context.Context, tripID string, limit int) ([]models.LocationSample, error)
}
