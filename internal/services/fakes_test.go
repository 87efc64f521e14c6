package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"evbus/internal/domain"
	"evbus/internal/domain/models"
)

type fakeVehicles struct {
	mu    sync.Mutex
	items map[int64]models.Vehicle
}

func (f *fakeVehicles) GetByID(_ context.Context, id int64) (models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	if !ok {
		return v, domain.NotFoundError{Resource: "vehicle"}
	}
	return v, nil
}

func (f *fakeVehicles) GetByCode(_ context.Context, code string) (models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.items {
		if v.Code == code {
			return v, nil
		}
	}
	return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
}

func (f *fakeVehicles) FindPairedByDriver(_ context.Context, driverID int64) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.items {
		if v.DriverID == driverID && v.Paired {
			out := v
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeVehicles) SetPaired(_ context.Context, id int64, paired bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.items[id]
	v.Paired = paired
	f.items[id] = v
	return nil
}

func (f *fakeVehicles) SetActiveRoute(_ context.Context, id int64, routeID *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.items[id]
	v.ActiveRouteID = routeID
	f.items[id] = v
	return nil
}

func (f *fakeVehicles) SaveLayout(_ context.Context, id int64, layout []string, _ []models.SeatRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.items[id]
	v.SeatLayout = layout
	f.items[id] = v
	return nil
}

type fakeSeats struct {
	mu      sync.Mutex
	records map[int64][]models.SeatRecord
}

func (f *fakeSeats) ListByVehicle(_ context.Context, vehicleID int64) ([]models.SeatRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SeatRecord, len(f.records[vehicleID]))
	copy(out, f.records[vehicleID])
	return out, nil
}

func (f *fakeSeats) SetStatus(_ context.Context, vehicleID int64, seats []models.SeatPosition, from, to models.SeatStatus, p models.PassengerInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	recs := f.records[vehicleID]
	next := make([]models.SeatRecord, len(recs))
	copy(next, recs)
	for _, s := range seats {
		found := false
		for i := range next {
			if next[i].Position() == s {
				if next[i].Status != from {
					return domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("kursi %s sudah berubah status", s)}
				}
				next[i].Status = to
				next[i].PassengerName = p.Name
				found = true
			}
		}
		if !found {
			return domain.ConflictError{Resource: "seat"}
		}
	}
	f.records[vehicleID] = next
	return nil
}

func (f *fakeSeats) Switch(_ context.Context, vehicleID int64, from, to models.SeatPosition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	recs := f.records[vehicleID]
	var src, dst = -1, -1
	for i := range recs {
		if recs[i].Position() == from && recs[i].Status == models.SeatBooked {
			src = i
		}
		if recs[i].Position() == to && recs[i].Status == models.SeatAvailable {
			dst = i
		}
	}
	if src < 0 || dst < 0 {
		return domain.ConflictError{Resource: "seat"}
	}
	recs[dst].Status, recs[dst].PassengerName = models.SeatBooked, recs[src].PassengerName
	recs[src].Status, recs[src].PassengerName = models.SeatAvailable, ""
	return nil
}

func (f *fakeSeats) status(vehicleID int64, label string) models.SeatStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records[vehicleID] {
		if r.Position().String() == label {
			return r.Status
		}
	}
	return ""
}

type fakeRoutes struct {
	items    map[int64]models.Route
	assigned map[[2]int64]bool
}

func (f *fakeRoutes) GetByID(_ context.Context, id int64) (models.Route, error) {
	r, ok := f.items[id]
	if !ok {
		return r, domain.NotFoundError{Resource: "route"}
	}
	return r, nil
}

func (f *fakeRoutes) IsAssigned(_ context.Context, vehicleID, routeID int64) (bool, error) {
	return f.assigned[[2]int64{vehicleID, routeID}], nil
}

func (f *fakeRoutes) ListForVehicle(_ context.Context, vehicleID int64) ([]models.Route, error) {
	out := []models.Route{}
	for k := range f.assigned {
		if k[0] == vehicleID {
			out = append(out, f.items[k[1]])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSchedules struct {
	items map[int64]models.Schedule
	run   *models.Schedule
}

func (f *fakeSchedules) GetByID(_ context.Context, id int64) (models.Schedule, error) {
	s, ok := f.items[id]
	if !ok {
		return s, domain.NotFoundError{Resource: "schedule"}
	}
	return s, nil
}

func (f *fakeSchedules) List(_ context.Context, _ models.ScheduleFilter) ([]models.Schedule, error) {
	out := []models.Schedule{}
	for _, s := range f.items {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSchedules) FindCurrentRun(_ context.Context, _, _ int64, _ time.Time, _ time.Duration) (*models.Schedule, error) {
	return f.run, nil
}

type fakeBookings struct {
	mu        sync.Mutex
	items     map[int64]models.Booking
	nextID    int64
	createErr error
	created   int
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	b.ID = f.nextID
	f.items[b.ID] = *b
	f.created++
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id int64) (models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return b, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

func (f *fakeBookings) ListBySchedule(_ context.Context, scheduleID int64) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Booking{}
	for _, b := range f.items {
		if b.ScheduleID == scheduleID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListUnpaid(ctx context.Context, scheduleID int64) ([]models.Booking, error) {
	all, _ := f.ListBySchedule(ctx, scheduleID)
	out := []models.Booking{}
	for _, b := range all {
		if b.PaymentStatus != models.PaymentPaid {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) MarkPaid(_ context.Context, id int64, method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return domain.NotFoundError{Resource: "booking"}
	}
	if b.PaymentStatus == models.PaymentPaid {
		return domain.ConflictError{Resource: "booking", Msg: "booking sudah dibayar"}
	}
	b.PaymentStatus, b.PaymentMethod = models.PaymentPaid, method
	f.items[id] = b
	return nil
}

type fakeWallets struct {
	balances map[int64]int64
	bookings *fakeBookings
	payErr   error
}

func (f *fakeWallets) Balance(_ context.Context, userID int64) (int64, error) {
	return f.balances[userID], nil
}

func (f *fakeWallets) PayBooking(ctx context.Context, userID, bookingID, amount int64) error {
	if f.payErr != nil {
		return f.payErr
	}
	if f.balances[userID] < amount {
		return domain.BusinessError{Code: domain.CodeInsufficientBalance}
	}
	if err := f.bookings.MarkPaid(ctx, bookingID, models.PaymentMethodWallet); err != nil {
		return err
	}
	f.balances[userID] -= amount
	return nil
}

type fakeSettings struct {
	rate   float64
	layout []string
	radius float64
}

func (f fakeSettings) PerKmRate(context.Context) (float64, bool, error) {
	return f.rate, f.rate > 0, nil
}

func (f fakeSettings) DefaultSeatLayout(context.Context) ([]string, error) {
	return f.layout, nil
}

func (f fakeSettings) DestinationRadiusM(context.Context) (float64, bool, error) {
	return f.radius, f.radius > 0, nil
}

type fakeTrips struct {
	mu     sync.Mutex
	items  map[string]models.TripSession
	endErr error
}

func (f *fakeTrips) OpenByVehicle(_ context.Context, vehicleID int64) (*models.TripSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.items {
		if t.VehicleID == vehicleID && t.Open() {
			out := t
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeTrips) GetByID(_ context.Context, id string) (models.TripSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok {
		return t, domain.NotFoundError{Resource: "trip"}
	}
	return t, nil
}

func (f *fakeTrips) Start(_ context.Context, t *models.TripSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cur := range f.items {
		if cur.VehicleID == t.VehicleID && cur.Open() {
			return domain.ConflictError{Resource: "trip"}
		}
	}
	t.ID = uuid.NewString()
	f.items[t.ID] = *t
	return nil
}

func (f *fakeTrips) End(_ context.Context, id string, at time.Time, end models.GeoPoint, forced bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.endErr != nil {
		return f.endErr
	}
	t, ok := f.items[id]
	if !ok || !t.Open() {
		return domain.ConflictError{Resource: "trip"}
	}
	t.EndTime, t.End, t.ForcedEnd = &at, &end, forced
	f.items[id] = t
	return nil
}

type fakeLocations struct {
	mu      sync.Mutex
	samples []models.LocationSample
}

func (f *fakeLocations) Write(_ context.Context, s models.LocationSample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = append(f.samples, s)
	return nil
}

func (f *fakeLocations) ListByTrip(_ context.Context, tripID string, _ int) ([]models.LocationSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.LocationSample{}
	for _, s := range f.samples {
		if s.TripID == tripID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeLocations) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.samples)
}

var (
	jakarta = models.GeoPoint{Lat: -6.2088, Lng: 106.8456}
	bandung = models.GeoPoint{Lat: -6.9175, Lng: 107.6191}
)

type fixture struct {
	vehicles  *fakeVehicles
	seats     *fakeSeats
	routes    *fakeRoutes
	schedules *fakeSchedules
	bookings  *fakeBookings
	wallets   *fakeWallets
	trips     *fakeTrips
	locations *fakeLocations
	settings  fakeSettings
}

// newFixture: driver 9 owns BUS-01 (4 seats A1 A2 B1 B2) assigned to route 2
// Jakarta -> Bandung; schedule 7 runs it at 75.000 per seat.
func newFixture() *fixture {
	f := &fixture{
		vehicles: &fakeVehicles{items: map[int64]models.Vehicle{
			1: {ID: 1, Code: "BUS-01", PlateNumber: "B 1 EV", DriverID: 9, SeatLayout: []string{"x", "-", "x", ":", "x", "-", "x"}},
			3: {ID: 3, Code: "BUS-03", DriverID: 4},
		}},
		seats: &fakeSeats{records: map[int64][]models.SeatRecord{1: {
			{ID: 1, VehicleID: 1, Side: "A", Number: 1, Status: models.SeatAvailable},
			{ID: 2, VehicleID: 1, Side: "A", Number: 2, Status: models.SeatAvailable},
			{ID: 3, VehicleID: 1, Side: "B", Number: 1, Status: models.SeatAvailable},
			{ID: 4, VehicleID: 1, Side: "B", Number: 2, Status: models.SeatAvailable},
		}}},
		routes: &fakeRoutes{
			items: map[int64]models.Route{
				2: {ID: 2, Name: "JKT-BDG", OriginName: "Jakarta", Origin: jakarta, DestinationName: "Bandung", Destination: bandung},
				5: {ID: 5, Name: "JKT-BGR"},
			},
			assigned: map[[2]int64]bool{{1, 2}: true},
		},
		schedules: &fakeSchedules{items: map[int64]models.Schedule{
			7: {ID: 7, VehicleID: 1, RouteID: 2, OriginName: "Jakarta", DestinationName: "Bandung", DepartAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), Price: 75000},
		}},
		bookings:  &fakeBookings{items: map[int64]models.Booking{}},
		trips:     &fakeTrips{items: map[string]models.TripSession{}},
		locations: &fakeLocations{},
		settings:  fakeSettings{rate: 3000, radius: 200},
	}
	f.wallets = &fakeWallets{balances: map[int64]int64{}, bookings: f.bookings}
	return f
}

func (f *fixture) layouts() LayoutService {
	return LayoutService{Vehicles: f.vehicles, Seats: f.seats, Settings: f.settings}
}
