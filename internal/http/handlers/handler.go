package handlers

import (
	"context"
	"database/sql"
	"time"

	"evbus/internal/domain/models"
	"evbus/internal/services"

	"github.com/gorilla/websocket"
)

// TripAPI is the driver-side trip lifecycle.
type TripAPI interface {
	Load(ctx context.Context, driverID int64) (services.DriverView, error)
	PairVehicle(ctx context.Context, driverID int64, code string) (services.DriverView, error)
	SelectRoute(ctx context.Context, driverID, routeID int64) (services.DriverView, error)
	StartTrip(ctx context.Context, driverID int64, fix *models.GeoPoint, mode models.TripMode) (services.DriverView, error)
	EndTrip(ctx context.Context, driverID int64, fix *models.GeoPoint, force bool) (services.DriverView, error)
	Board(ctx context.Context, driverID int64) (services.SeatBoard, error)
	CheckIn(ctx context.Context, driverID int64, seats []models.SeatPosition, passenger models.PassengerInput) (services.DriverView, error)
	CheckOut(ctx context.Context, driverID int64, seats []models.SeatPosition) (services.DriverView, error)
	SwitchSeat(ctx context.Context, driverID int64, from, to models.SeatPosition) (services.DriverView, error)
	ReportLocation(ctx context.Context, driverID int64, tripID string, fix models.GeoPoint, at time.Time) error
	OpenTrip(ctx context.Context, driverID int64, tripID string) (models.TripSession, error)
	ListLocations(ctx context.Context, tripID string, limit int) ([]models.LocationSample, error)
}

// CheckoutAPI is the rider/counter booking flow.
type CheckoutAPI interface {
	ListSchedules(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error)
	LoadSeatBoard(ctx context.Context, scheduleID int64) (services.ScheduleBoard, error)
	ToggleSeat(ctx context.Context, scheduleID int64, current []models.SeatPosition, seat *models.SeatPosition) (services.SelectionResult, error)
	Quote(ctx context.Context, scheduleID int64, seats []models.SeatPosition) (models.FareQuote, error)
	Confirm(ctx context.Context, in services.CheckoutInput) (services.CheckoutResult, error)
	BookingFor(ctx context.Context, userID, bookingID int64) (models.Booking, error)
	RetryPayment(ctx context.Context, userID, bookingID int64) (models.Booking, error)
	SettleAtCounter(ctx context.Context, bookingID int64, method string) (models.Booking, error)
	ListUnpaid(ctx context.Context, scheduleID int64) ([]models.Booking, error)
}

type QuoteAPI interface {
	QuoteDistance(ctx context.Context, key string, origin, destination models.GeoPoint, waypoints []models.GeoPoint) (models.FareQuote, models.Estimate, error)
}

type LayoutAPI interface {
	SaveLayout(ctx context.Context, vehicleID int64, raw []string) (services.SeatBoard, error)
}

type DocsAPI interface {
	GenerateETicket(ctx context.Context, bookingID int64) ([]byte, string, error)
	GenerateInvoice(ctx context.Context, bookingID int64) ([]byte, string, error)
}

// Handler holds the services behind the HTTP surface.
type Handler struct {
	DB       *sql.DB
	Trips    TripAPI
	Checkout CheckoutAPI
	Quotes   QuoteAPI
	Layouts  LayoutAPI
	Docs     DocsAPI
	Upgrader *websocket.Upgrader
}
