package tripstate

import (
	"errors"
	"fmt"

	"evbus/internal/domain/models"
)

var (
	ErrInvalidTransition = errors.New("transisi tidak valid")
	ErrNoLocationFix     = errors.New("lokasi GPS tidak tersedia")
	ErrModeRequired      = errors.New("pilih jenis perjalanan: scheduled atau normal")
)

type Event interface{ eventName() string }

type VehiclePaired struct{ Vehicle models.Vehicle }

type RouteChosen struct{ Route models.Route }

// StartRequested carries whether a GPS fix was obtained and the scheduled
// run found for now, if any.
type StartRequested struct {
	HasFix       bool
	ScheduledRun *models.Schedule
}

type StartConfirmed struct{ Mode models.TripMode }

type TripStartedEvent struct{ Trip models.TripSession }

// SeatsChanged records a check-in, check-out or switch.
type SeatsChanged struct{}

type EndRequested struct {
	HasFix       bool
	WithinRadius bool
}

// EndConfirmed is the driver's re-confirmation after a not-at-destination warning.
type EndConfirmed struct{}

type TripEndedEvent struct{}

// PromptDismissed declines the pending confirmation without choosing.
type PromptDismissed struct{}

type Reset struct{}

func (VehiclePaired) eventName() string    { return "vehicle_paired" }
func (RouteChosen) eventName() string      { return "route_chosen" }
func (StartRequested) eventName() string   { return "start_requested" }
func (StartConfirmed) eventName() string   { return "start_confirmed" }
func (TripStartedEvent) eventName() string { return "trip_started" }
func (SeatsChanged) eventName() string     { return "seats_changed" }
func (EndRequested) eventName() string     { return "end_requested" }
func (EndConfirmed) eventName() string     { return "end_confirmed" }
func (TripEndedEvent) eventName() string   { return "trip_ended" }
func (PromptDismissed) eventName() string  { return "prompt_dismissed" }
func (Reset) eventName() string            { return "reset" }

// Name returns a stable event name for logs.
func Name(e Event) string {
	if e == nil {
		return ""
	}
	return e.eventName()
}

func invalid(s State, e Event) error {
	return fmt.Errorf("%w: %s pada %s", ErrInvalidTransition, e.eventName(), s.Phase)
}

// Reduce applies e to s. It never performs I/O. On error the returned state
// is s unchanged.
func Reduce(s State, e Event) (State, error) {
	switch ev := e.(type) {
	case VehiclePaired:
		if s.Phase != NoVehicle && s.Phase != NoRoute {
			return s, invalid(s, e)
		}
		v := ev.Vehicle
		return State{Phase: NoRoute, Vehicle: &v}, nil

	case RouteChosen:
		if s.Phase != NoRoute && s.Phase != RouteSelected {
			return s, invalid(s, e)
		}
		r := ev.Route
		next := State{Phase: RouteSelected, Vehicle: s.Vehicle, Route: &r}
		return next, nil

	case StartRequested:
		if s.Phase != RouteSelected || s.Pending.Kind != ActionNone {
			return s, invalid(s, e)
		}
		if !ev.HasFix {
			return s, ErrNoLocationFix
		}
		next := s
		if ev.ScheduledRun != nil {
			run := *ev.ScheduledRun
			next.ScheduledRun = &run
			next.Prompt = PromptChooseTripMode
			return next, nil
		}
		next.ScheduledRun = nil
		next.Prompt = PromptNone
		next.Pending = Action{Kind: ActionStartTrip, Mode: models.TripModeNormal}
		return next, nil

	case StartConfirmed:
		if s.Phase != RouteSelected || s.Prompt != PromptChooseTripMode {
			return s, invalid(s, e)
		}
		if ev.Mode != models.TripModeScheduled && ev.Mode != models.TripModeNormal {
			return s, ErrModeRequired
		}
		next := s
		next.Prompt = PromptNone
		next.Pending = Action{Kind: ActionStartTrip, Mode: ev.Mode}
		if ev.Mode == models.TripModeNormal {
			next.ScheduledRun = nil
		}
		return next, nil

	case TripStartedEvent:
		if s.Phase != RouteSelected || s.Pending.Kind != ActionStartTrip {
			return s, invalid(s, e)
		}
		t := ev.Trip
		return State{Phase: TripStarted, Vehicle: s.Vehicle, Route: s.Route, Trip: &t}, nil

	case SeatsChanged:
		if s.Phase != TripStarted {
			return s, invalid(s, e)
		}
		return s, nil

	case EndRequested:
		if s.Phase != TripStarted || s.Pending.Kind != ActionNone {
			return s, invalid(s, e)
		}
		if !ev.HasFix {
			return s, ErrNoLocationFix
		}
		next := s
		if !ev.WithinRadius {
			next.Prompt = PromptNotAtDestination
			return next, nil
		}
		next.Prompt = PromptNone
		next.Pending = Action{Kind: ActionEndTrip}
		return next, nil

	case EndConfirmed:
		if s.Phase != TripStarted || s.Prompt != PromptNotAtDestination {
			return s, invalid(s, e)
		}
		next := s
		next.Prompt = PromptNone
		next.Pending = Action{Kind: ActionEndTrip, Forced: true}
		return next, nil

	case TripEndedEvent:
		if s.Phase != TripStarted || s.Pending.Kind != ActionEndTrip {
			return s, invalid(s, e)
		}
		return State{Phase: RouteSelected, Vehicle: s.Vehicle, Route: s.Route}, nil

	case PromptDismissed:
		if s.Prompt == PromptNone {
			return s, invalid(s, e)
		}
		next := s
		next.Prompt = PromptNone
		next.ScheduledRun = nil
		return next, nil

	case Reset:
		return State{Phase: NoVehicle}, nil
	}
	return s, fmt.Errorf("%w: event tidak dikenal", ErrInvalidTransition)
}

// ReduceAll folds events left to right and stops at the first error.
func ReduceAll(s State, events ...Event) (State, error) {
	for _, e := range events {
		next, err := Reduce(s, e)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}
