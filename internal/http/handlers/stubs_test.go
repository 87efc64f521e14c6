package handlers

import (
	"context"
	"sync"
	"time"

	"evbus/internal/domain"
	"evbus/internal/domain/models"
	"evbus/internal/services"
)

type stubTrips struct {
	mu      sync.Mutex
	view    services.DriverView
	err     error
	fixes   []models.GeoPoint
	fixErr  error
	tripErr error
	mode    models.TripMode
	force   bool
	seats   []models.SeatPosition
}

func (s *stubTrips) Load(context.Context, int64) (services.DriverView, error) { return s.view, s.err }
func (s *stubTrips) PairVehicle(context.Context, int64, string) (services.DriverView, error) {
	return s.view, s.err
}
func (s *stubTrips) SelectRoute(context.Context, int64, int64) (services.DriverView, error) {
	return s.view, s.err
}
func (s *stubTrips) StartTrip(_ context.Context, _ int64, _ *models.GeoPoint, mode models.TripMode) (services.DriverView, error) {
	s.mode = mode
	return s.view, s.err
}
func (s *stubTrips) EndTrip(_ context.Context, _ int64, _ *models.GeoPoint, force bool) (services.DriverView, error) {
	s.force = force
	return s.view, s.err
}
func (s *stubTrips) Board(context.Context, int64) (services.SeatBoard, error) {
	return services.SeatBoard{}, s.err
}
func (s *stubTrips) CheckIn(_ context.Context, _ int64, seats []models.SeatPosition, _ models.PassengerInput) (services.DriverView, error) {
	s.seats = seats
	return s.view, s.err
}
func (s *stubTrips) CheckOut(_ context.Context, _ int64, seats []models.SeatPosition) (services.DriverView, error) {
	s.seats = seats
	return s.view, s.err
}
func (s *stubTrips) SwitchSeat(_ context.Context, _ int64, from, to models.SeatPosition) (services.DriverView, error) {
	s.seats = []models.SeatPosition{from, to}
	return s.view, s.err
}
func (s *stubTrips) ReportLocation(_ context.Context, _ int64, _ string, fix models.GeoPoint, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fixErr != nil {
		return s.fixErr
	}
	if fix.Lat == 0 && fix.Lng == 0 {
		return domain.LocationError{Action: "laporan lokasi"}
	}
	s.fixes = append(s.fixes, fix)
	return nil
}
func (s *stubTrips) OpenTrip(context.Context, int64, string) (models.TripSession, error) {
	return models.TripSession{ID: "t1"}, s.tripErr
}
func (s *stubTrips) ListLocations(context.Context, string, int) ([]models.LocationSample, error) {
	return nil, s.err
}

func (s *stubTrips) received() []models.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GeoPoint(nil), s.fixes...)
}

type stubCheckout struct {
	result  services.CheckoutResult
	err     error
	booking models.Booking
	input   services.CheckoutInput
}

func (s *stubCheckout) ListSchedules(context.Context, models.ScheduleFilter) ([]models.Schedule, error) {
	return nil, s.err
}
func (s *stubCheckout) LoadSeatBoard(context.Context, int64) (services.ScheduleBoard, error) {
	return services.ScheduleBoard{}, s.err
}
func (s *stubCheckout) ToggleSeat(_ context.Context, _ int64, current []models.SeatPosition, seat *models.SeatPosition) (services.SelectionResult, error) {
	sel := append([]models.SeatPosition(nil), current...)
	if seat != nil {
		sel = append(sel, *seat)
	}
	return services.SelectionResult{Selected: sel}, s.err
}
func (s *stubCheckout) Quote(_ context.Context, _ int64, seats []models.SeatPosition) (models.FareQuote, error) {
	return models.FareQuote{Pricing: models.PricingSchedule, SeatCount: len(seats)}, s.err
}
func (s *stubCheckout) Confirm(_ context.Context, in services.CheckoutInput) (services.CheckoutResult, error) {
	s.input = in
	return s.result, s.err
}
func (s *stubCheckout) BookingFor(_ context.Context, userID, bookingID int64) (models.Booking, error) {
	if s.booking.ID != bookingID || s.booking.UserID != userID {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return s.booking, nil
}
func (s *stubCheckout) RetryPayment(context.Context, int64, int64) (models.Booking, error) {
	return s.booking, s.err
}
func (s *stubCheckout) SettleAtCounter(_ context.Context, _ int64, method string) (models.Booking, error) {
	b := s.booking
	b.PaymentMethod = method
	return b, s.err
}
func (s *stubCheckout) ListUnpaid(context.Context, int64) ([]models.Booking, error) { return nil, s.err }

type stubQuotes struct{ err error }

func (s stubQuotes) QuoteDistance(context.Context, string, models.GeoPoint, models.GeoPoint, []models.GeoPoint) (models.FareQuote, models.Estimate, error) {
	return models.FareQuote{Pricing: models.PricingDistance, Amount: 3000}, models.Estimate{DistanceKm: 1}, s.err
}

type stubLayouts struct{ raw []string }

func (s *stubLayouts) SaveLayout(_ context.Context, vehicleID int64, raw []string) (services.SeatBoard, error) {
	s.raw = raw
	return services.SeatBoard{VehicleID: vehicleID, Layout: raw}, nil
}

type stubDocs struct{}

func (stubDocs) GenerateETicket(_ context.Context, id int64) ([]byte, string, error) {
	return []byte("%PDF-1.3"), "eticket.pdf", nil
}
func (stubDocs) GenerateInvoice(_ context.Context, id int64) ([]byte, string, error) {
	return []byte("%PDF-1.3"), "invoice.pdf", nil
}
