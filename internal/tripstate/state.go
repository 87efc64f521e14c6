// Package tripstate models the driver-side trip lifecycle as a state value
// and a pure reducer. Network, GPS and persistence calls are performed by
// the caller based on the pending action the reducer leaves in the state.
package tripstate

import "evbus/internal/domain/models"

type Phase string

const (
	NoVehicle     Phase = "no_vehicle"
	NoRoute       Phase = "no_route"
	RouteSelected Phase = "route_selected"
	TripStarted   Phase = "trip_started"
)

// Prompt is a confirmation the driver must answer before the machine moves on.
type Prompt string

const (
	PromptNone             Prompt = ""
	PromptChooseTripMode   Prompt = "choose_trip_mode"
	PromptNotAtDestination Prompt = "not_at_destination"
)

// ActionKind names the side effect the caller has to run next.
type ActionKind string

const (
	ActionNone      ActionKind = ""
	ActionStartTrip ActionKind = "start_trip"
	ActionEndTrip   ActionKind = "end_trip"
)

type Action struct {
	Kind   ActionKind      `json:"kind"`
	Mode   models.TripMode `json:"mode,omitempty"`
	Forced bool            `json:"forced,omitempty"`
}

type State struct {
	Phase        Phase               `json:"phase"`
	Vehicle      *models.Vehicle     `json:"vehicle,omitempty"`
	Route        *models.Route       `json:"route,omitempty"`
	Trip         *models.TripSession `json:"trip,omitempty"`
	ScheduledRun *models.Schedule    `json:"scheduledRun,omitempty"`
	Prompt       Prompt              `json:"prompt,omitempty"`
	Pending      Action              `json:"pending"`
}

// Snapshot is what the data layer knows about a driver right now.
type Snapshot struct {
	Vehicle     *models.Vehicle
	ActiveRoute *models.Route
	OpenTrip    *models.TripSession
}

// Derive projects server state onto a phase. An open trip wins over
// everything else so a reload lands straight in TripStarted.
func Derive(s Snapshot) State {
	switch {
	case s.Vehicle == nil:
		return State{Phase: NoVehicle}
	case s.OpenTrip != nil && s.OpenTrip.Open():
		return State{Phase: TripStarted, Vehicle: s.Vehicle, Route: s.ActiveRoute, Trip: s.OpenTrip}
	case s.ActiveRoute != nil:
		return State{Phase: RouteSelected, Vehicle: s.Vehicle, Route: s.ActiveRoute}
	default:
		return State{Phase: NoRoute, Vehicle: s.Vehicle}
	}
}
