package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evbus/internal/domain"
	"evbus/internal/domain/models"
	"evbus/internal/seatmap"
	"evbus/internal/tripstate"
	"evbus/internal/utils"
)

const defaultCurrentRunWindow = 30 * time.Minute

// TripService runs the effects of the driver trip lifecycle. State is
// derived from the data layer on every call and advanced with
// tripstate.Reduce; nothing is kept between requests.
type TripService struct {
	Vehicles  VehicleStore
	Seats     SeatStore
	Routes    RouteStore
	Schedules ScheduleStore
	Trips     TripStore
	Locations LocationStore
	Layouts   LayoutService
	Geofence  Geofence
	Reporters *ReporterRegistry
	RunWindow time.Duration
	Now       func() time.Time
}

// DriverView is what the driver app renders after each action.
type DriverView struct {
	State    tripstate.State `json:"state"`
	Board    *SeatBoard      `json:"board,omitempty"`
	Routes   []models.Route  `json:"routes,omitempty"`
	Geofence *GeofenceResult `json:"geofence,omitempty"`
	Message  string          `json:"message,omitempty"`
}

func (s TripService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s TripService) runWindow() time.Duration {
	if s.RunWindow > 0 {
		return s.RunWindow
	}
	return defaultCurrentRunWindow
}

func (s TripService) snapshot(ctx context.Context, driverID int64) (tripstate.Snapshot, error) {
	var snap tripstate.Snapshot
	v, err := s.Vehicles.FindPairedByDriver(ctx, driverID)
	if err != nil {
		return snap, domain.InternalError{Msg: "gagal membaca kendaraan", Err: err}
	}
	if v == nil {
		return snap, nil
	}
	snap.Vehicle = v

	trip, err := s.Trips.OpenByVehicle(ctx, v.ID)
	if err != nil {
		return snap, domain.InternalError{Msg: "gagal membaca perjalanan", Err: err}
	}
	snap.OpenTrip = trip

	routeID := v.ActiveRouteID
	if trip != nil {
		routeID = &trip.RouteID
	}
	if routeID != nil {
		rt, err := s.Routes.GetByID(ctx, *routeID)
		if err != nil && !domain.IsNotFound(err) {
			return snap, domain.InternalError{Msg: "gagal membaca rute", Err: err}
		}
		if err == nil {
			snap.ActiveRoute = &rt
		}
	}
	return snap, nil
}

func (s TripService) state(ctx context.Context, driverID int64) (tripstate.State, error) {
	snap, err := s.snapshot(ctx, driverID)
	if err != nil {
		return tripstate.State{}, err
	}
	return tripstate.Derive(snap), nil
}

// reduce applies an event and converts reducer errors to domain errors.
func reduce(st tripstate.State, ev tripstate.Event, action string) (tripstate.State, error) {
	next, err := tripstate.Reduce(st, ev)
	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, tripstate.ErrNoLocationFix):
		return st, domain.LocationError{Action: action, Err: err}
	case errors.Is(err, tripstate.ErrModeRequired):
		return st, domain.ValidationError{Field: "mode", Msg: err.Error(), Err: err}
	default:
		return st, domain.BusinessError{
			Code:    domain.CodeInvalidTransition,
			Msg:     fmt.Sprintf("aksi %s tidak tersedia pada status %s", action, st.Phase),
			Details: map[string]any{"phase": st.Phase},
			Err:     err,
		}
	}
}

func (s TripService) view(ctx context.Context, st tripstate.State) (DriverView, error) {
	out := DriverView{State: st}
	if st.Vehicle == nil {
		return out, nil
	}
	board, err := s.Layouts.Board(ctx, *st.Vehicle)
	if err != nil {
		return out, err
	}
	out.Board = &board
	if st.Phase == tripstate.NoRoute || st.Phase == tripstate.RouteSelected {
		routes, err := s.Routes.ListForVehicle(ctx, st.Vehicle.ID)
		if err != nil {
			return out, domain.InternalError{Msg: "gagal membaca rute", Err: err}
		}
		out.Routes = routes
	}
	return out, nil
}

// Load returns the driver's current state. An open trip resumes directly in
// trip_started and its location reporter is restarted if needed.
func (s TripService) Load(ctx context.Context, driverID int64) (DriverView, error) {
	st, err := s.state(ctx, driverID)
	if err != nil {
		return DriverView{}, err
	}
	if st.Phase == tripstate.TripStarted && s.Reporters != nil {
		s.Reporters.Start(st.Trip.ID, st.Trip.VehicleID)
	}
	return s.view(ctx, st)
}

// PairVehicle binds the driver to the vehicle identified by a scanned or
// pre-assigned code.
func (s TripService) PairVehicle(ctx context.Context, driverID int64, code string) (DriverView, error) {
	st, err := s.state(ctx, driverID)
	if err != nil {
		return DriverView{}, err
	}
	v, err := s.Vehicles.GetByCode(ctx, code)
	if err != nil {
		return DriverView{}, err
	}
	if v.DriverID != driverID {
		return DriverView{}, domain.BusinessError{Code: domain.CodeVehicleNotOwned, Msg: "kendaraan tidak terdaftar untuk driver ini"}
	}
	next, err := reduce(st, tripstate.VehiclePaired{Vehicle: v}, "pair")
	if err != nil {
		return DriverView{}, err
	}

	if st.Vehicle != nil && st.Vehicle.ID != v.ID {
		if err := s.Vehicles.SetPaired(ctx, st.Vehicle.ID, false); err != nil {
			return DriverView{}, domain.InternalError{Msg: "gagal melepas kendaraan", Err: err}
		}
	}
	if err := s.Vehicles.SetPaired(ctx, v.ID, true); err != nil {
		return DriverView{}, domain.InternalError{Msg: "gagal memasangkan kendaraan", Err: err}
	}
	if err := s.Vehicles.SetActiveRoute(ctx, v.ID, nil); err != nil {
		return DriverView{}, domain.InternalError{Msg: "gagal mereset rute", Err: err}
	}
	next.Vehicle.Paired = true
	next.Vehicle.ActiveRouteID = nil
	utils.LogEventCtx(ctx, "trip", "pair", fmt.Sprintf("driver_id=%d vehicle_id=%d", driverID, v.ID))
	return s.view(ctx, next)
}

// SelectRoute sets the vehicle's active route.
func (s TripService) SelectRoute(ctx context.Context, driverID, routeID int64) (DriverView, error) {
	st, err := s.state(ctx, driverID)
	if err != nil {
		return DriverView{}, err
	}
	if st.Vehicle == nil {
		return DriverView{}, domain.BusinessError{Code: domain.CodeNoVehicle, Msg: "belum ada kendaraan terpasang"}
	}
	rt, err := s.Routes.GetByID(ctx, routeID)
	if err != nil {
		return DriverView{}, err
	}
	next, err := reduce(st, tripstate.RouteChosen{Route: rt}, "pilih rute")
	if err != nil {
		return DriverView{}, err
	}
	ok, err := s.Routes.IsAssigned(ctx, st.Vehicle.ID, rt.ID)
	if err != nil {
		return DriverView{}, domain.InternalError{Msg: "gagal memeriksa rute", Err: err}
	}
	if !ok {
		return DriverView{}, domain.BusinessError{Code: domain.CodeRouteNotAssigned, Msg: "rute tidak terdaftar untuk kendaraan ini"}
	}
	if err := s.Vehicles.SetActiveRoute(ctx, st.Vehicle.ID, &rt.ID); err != nil {
		return DriverView{}, domain.InternalError{Msg: "gagal menyimpan rute aktif", Err: err}
	}
	id := rt.ID
	next.Vehicle.ActiveRouteID = &id
	utils.LogEventCtx(ctx, "trip", "select_route", fmt.Sprintf("vehicle_id=%d route_id=%d", st.Vehicle.ID, rt.ID))
	return s.view(ctx, next)
}

func hasFix(fix *models.GeoPoint) bool {
	return fix != nil && fix.Valid() && !(fix.Lat == 0 && fix.Lng == 0)
}

// StartTrip opens a trip from route_selected. When a scheduled run departs
// around now and mode is empty, the view carries a choose_trip_mode prompt
// and nothing is started.
func (s TripService) StartTrip(ctx context.Context, driverID int64, fix *models.GeoPoint, mode models.TripMode) (DriverView, error) {
	st, err := s.state(ctx, driverID)
	if err != nil {
		return DriverView{}, err
	}
	switch {
	case st.Vehicle == nil:
		return DriverView{}, domain.BusinessError{Code: domain.CodeNoVehicle, Msg: "belum ada kendaraan terpasang"}
	case st.Phase == tripstate.NoRoute:
		return DriverView{}, domain.BusinessError{Code: domain.CodeNoActiveRoute, Msg: "pilih rute terlebih dahulu"}
	}
	if mode != "" && mode != models.TripModeScheduled && mode != models.TripModeNormal {
		return DriverView{}, domain.ValidationError{Field: "mode", Msg: "mode harus scheduled atau normal"}
	}

	now := s.now()
	var run *models.Schedule
	if st.Phase == tripstate.RouteSelected {
		run, err = s.Schedules.FindCurrentRun(ctx, st.Vehicle.ID, st.Route.ID, now, s.runWindow())
		if err != nil {
			return DriverView{}, domain.InternalError{Msg: "gagal membaca jadwal", Err: err}
		}
	}
	next, err := reduce(st, tripstate.StartRequested{HasFix: hasFix(fix), ScheduledRun: run}, "mulai perjalanan")
	if err != nil {
		return DriverView{}, err
	}
	if next.Prompt == tripstate.PromptChooseTripMode {
		if mode == "" {
			v, err := s.view(ctx, next)
			v.Message = "terdapat jadwal keberangkatan saat ini, pilih perjalanan terjadwal atau normal"
			return v, err
		}
		if next, err = reduce(next, tripstate.StartConfirmed{Mode: mode}, "mulai perjalanan"); err != nil {
			return DriverView{}, err
		}
	} else if mode == models.TripModeScheduled {
		return DriverView{}, domain.BusinessError{Code: domain.CodeNoScheduledRun, Msg: "tidak ada jadwal keberangkatan saat ini"}
	}

	startMode := next.Pending.Mode
	trip := models.TripSession{
		VehicleID: st.Vehicle.ID,
		RouteID:   st.Route.ID,
		DriverID:  driverID,
		StartTime: now,
		Start:     *fix,
	}
	if startMode == models.TripModeScheduled && next.ScheduledRun != nil {
		id := next.ScheduledRun.ID
		trip.ScheduleID = &id
	}
	if err := s.Trips.Start(ctx, &trip); err != nil {
		return DriverView{}, err
	}
	if next, err = reduce(next, tripstate.TripStartedEvent{Trip: trip}, "mulai perjalanan"); err != nil {
		return DriverView{}, err
	}
	if s.Reporters != nil {
		s.Reporters.Update(trip.ID, trip.VehicleID, *fix, now)
	}
	utils.LogEventCtx(ctx, "trip", "start", fmt.Sprintf("trip_id=%s vehicle_id=%d route_id=%d mode=%s", trip.ID, trip.VehicleID, trip.RouteID, startMode))
	return s.view(ctx, next)
}

// EndTrip closes the open trip. A fix outside the destination radius yields a
// not_at_destination prompt unless force re-confirms it.
func (s TripService) EndTrip(ctx context.Context, driverID int64, fix *models.GeoPoint, force bool) (DriverView, error) {
	st, err := s.state(ctx, driverID)
	if err != nil {
		return DriverView{}, err
	}
	if st.Phase != tripstate.TripStarted {
		_, err := reduce(st, tripstate.EndRequested{}, "akhiri perjalanan")
		return DriverView{}, err
	}

	var fence *GeofenceResult
	within := false
	if hasFix(fix) && st.Route != nil && s.Geofence != nil {
		res, err := s.Geofence.Check(ctx, *st.Route, *fix)
		if err != nil {
			return DriverView{}, domain.InternalError{Msg: "gagal memeriksa lokasi tujuan", Err: err}
		}
		fence, within = &res, res.Within
	}
	next, err := reduce(st, tripstate.EndRequested{HasFix: hasFix(fix), WithinRadius: within}, "akhiri perjalanan")
	if err != nil {
		return DriverView{}, err
	}
	if next.Prompt == tripstate.PromptNotAtDestination {
		if !force {
			v, err := s.view(ctx, next)
			v.Geofence = fence
			v.Message = "kendaraan belum berada di lokasi tujuan, konfirmasi ulang untuk mengakhiri perjalanan"
			return v, err
		}
		if next, err = reduce(next, tripstate.EndConfirmed{}, "akhiri perjalanan"); err != nil {
			return DriverView{}, err
		}
	}

	now := s.now()
	trip := st.Trip
	forced := next.Pending.Forced
	if s.Reporters != nil {
		s.Reporters.Update(trip.ID, trip.VehicleID, *fix, now)
	}
	// the reporter keeps running while the trip is still open
	if err := s.Trips.End(ctx, trip.ID, now, *fix, forced); err != nil {
		return DriverView{}, err
	}
	if s.Reporters != nil {
		s.Reporters.Stop(trip.ID)
	}
	if next, err = reduce(next, tripstate.TripEndedEvent{}, "akhiri perjalanan"); err != nil {
		return DriverView{}, err
	}
	utils.LogEventCtx(ctx, "trip", "end", fmt.Sprintf("trip_id=%s forced=%t", trip.ID, forced))
	v, err := s.view(ctx, next)
	v.Geofence = fence
	return v, err
}

// Board returns the live seat board of the paired vehicle.
func (s TripService) Board(ctx context.Context, driverID int64) (SeatBoard, error) {
	st, err := s.state(ctx, driverID)
	if err != nil {
		return SeatBoard{}, err
	}
	if st.Vehicle == nil {
		return SeatBoard{}, domain.BusinessError{Code: domain.CodeNoVehicle, Msg: "belum ada kendaraan terpasang"}
	}
	return s.Layouts.Board(ctx, *st.Vehicle)
}

// seatAction loads trip_started state and a single-mode selection over the
// live board.
func (s TripService) seatAction(ctx context.Context, driverID int64, action string, seats []models.SeatPosition) (tripstate.State, SeatBoard, seatmap.Selection, error) {
	st, err := s.state(ctx, driverID)
	if err != nil {
		return st, SeatBoard{}, seatmap.Selection{}, err
	}
	next, err := reduce(st, tripstate.SeatsChanged{}, action)
	if err != nil {
		return st, SeatBoard{}, seatmap.Selection{}, err
	}
	board, err := s.Layouts.Board(ctx, *st.Vehicle)
	if err != nil {
		return st, SeatBoard{}, seatmap.Selection{}, err
	}
	sel := seatmap.NewSelection(seatmap.Single, board.Booked(), false)
	for _, p := range seats {
		if !board.Has(p) {
			return st, board, sel, domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("kursi %s tidak ada di kendaraan", p)}
		}
		sel = sel.Select(p)
	}
	return next, board, sel, nil
}

func selectionError(msg string) error {
	return domain.BusinessError{Code: domain.CodeSeatSelection, Msg: msg}
}

// CheckIn marks available seats as occupied by the given passenger.
func (s TripService) CheckIn(ctx context.Context, driverID int64, seats []models.SeatPosition, passenger models.PassengerInput) (DriverView, error) {
	st, _, sel, err := s.seatAction(ctx, driverID, "check-in", seats)
	if err != nil {
		return DriverView{}, err
	}
	if sel.Len() != len(seats) || !sel.CanCheckIn() {
		return DriverView{}, selectionError("check-in hanya untuk kursi kosong")
	}
	if err := s.Seats.SetStatus(ctx, st.Vehicle.ID, sel.Selected(), models.SeatAvailable, models.SeatBooked, passenger); err != nil {
		return DriverView{}, err
	}
	utils.LogEventCtx(ctx, "trip", "check_in", fmt.Sprintf("trip_id=%s seats=%d", st.Trip.ID, sel.Len()))
	return s.view(ctx, st)
}

// CheckOut frees occupied seats.
func (s TripService) CheckOut(ctx context.Context, driverID int64, seats []models.SeatPosition) (DriverView, error) {
	st, _, sel, err := s.seatAction(ctx, driverID, "check-out", seats)
	if err != nil {
		return DriverView{}, err
	}
	if sel.Len() != len(seats) || !sel.CanCheckOut() {
		return DriverView{}, selectionError("check-out hanya untuk kursi terisi")
	}
	if err := s.Seats.SetStatus(ctx, st.Vehicle.ID, sel.Selected(), models.SeatBooked, models.SeatAvailable, models.PassengerInput{}); err != nil {
		return DriverView{}, err
	}
	utils.LogEventCtx(ctx, "trip", "check_out", fmt.Sprintf("trip_id=%s seats=%d", st.Trip.ID, sel.Len()))
	return s.view(ctx, st)
}

// SwitchSeat moves a passenger from a booked seat to an available one.
func (s TripService) SwitchSeat(ctx context.Context, driverID int64, from, to models.SeatPosition) (DriverView, error) {
	if from == to {
		return DriverView{}, domain.ValidationError{Field: "seats", Msg: "kursi asal dan tujuan sama"}
	}
	st, board, _, err := s.seatAction(ctx, driverID, "pindah kursi", []models.SeatPosition{from, to})
	if err != nil {
		return DriverView{}, err
	}
	// single mode would drop a mixed pair, so the pair is checked in multi mode
	sel := seatmap.NewSelection(seatmap.Multi, board.Booked(), false).Select(from).Select(to)
	src, dst, ok := sel.SwitchPair()
	if !ok || dst == nil || src != from {
		return DriverView{}, selectionError("pindah kursi butuh satu kursi terisi dan satu kursi kosong")
	}
	if err := s.Seats.Switch(ctx, st.Vehicle.ID, src, *dst); err != nil {
		return DriverView{}, err
	}
	utils.LogEventCtx(ctx, "trip", "switch_seat", fmt.Sprintf("trip_id=%s from=%s to=%s", st.Trip.ID, src, *dst))
	return s.view(ctx, st)
}

// ReportLocation feeds a fix from the driver app to the trip's reporter.
func (s TripService) ReportLocation(ctx context.Context, driverID int64, tripID string, fix models.GeoPoint, at time.Time) error {
	if !hasFix(&fix) {
		return domain.LocationError{Action: "laporan lokasi"}
	}
	trip, err := s.ownOpenTrip(ctx, driverID, tripID)
	if err != nil {
		return err
	}
	if s.Reporters != nil {
		s.Reporters.Update(trip.ID, trip.VehicleID, fix, at)
	}
	return nil
}

func (s TripService) ownOpenTrip(ctx context.Context, driverID int64, tripID string) (models.TripSession, error) {
	trip, err := s.Trips.GetByID(ctx, tripID)
	if err != nil {
		return trip, err
	}
	if trip.DriverID != driverID {
		return trip, domain.BusinessError{Code: domain.CodeVehicleNotOwned, Msg: "perjalanan bukan milik driver ini"}
	}
	if !trip.Open() {
		return trip, domain.ConflictError{Resource: "trip", Msg: "perjalanan sudah selesai"}
	}
	return trip, nil
}

// OpenTrip validates that tripID is an open trip of the driver.
func (s TripService) OpenTrip(ctx context.Context, driverID int64, tripID string) (models.TripSession, error) {
	return s.ownOpenTrip(ctx, driverID, tripID)
}

// ListLocations lists recorded samples of a trip, oldest first.
func (s TripService) ListLocations(ctx context.Context, tripID string, limit int) ([]models.LocationSample, error) {
	if _, err := s.Trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}
	return s.Locations.ListByTrip(ctx, tripID, limit)
}
