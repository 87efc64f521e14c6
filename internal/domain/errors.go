package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConflictError is returned when the server rejects a write because another
// writer got there first (a seat booked between snapshot and submit).
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// Business rule codes surfaced to the apps.
const (
	CodeInsufficientBalance = "insufficient_balance"
	CodeVehicleNotOwned     = "vehicle_not_owned"
	CodeNoVehicle           = "no_vehicle"
	CodeNoActiveRoute       = "no_active_route"
	CodeRouteNotAssigned    = "route_not_assigned"
	CodeNoScheduledRun      = "no_scheduled_run"
	CodeNotAtDestination    = "not_at_destination"
	CodeInvalidTransition   = "invalid_transition"
	CodeSeatSelection       = "invalid_seat_selection"
)

// BusinessError is a rule violation that leaves state untouched and carries
// an actionable message for the user.
type BusinessError struct {
	Code    string
	Msg     string
	Details any
	Err     error
}

func (e BusinessError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Code != "" {
		return e.Code
	}
	return "business rule violated"
}

func (e BusinessError) Unwrap() error { return e.Err }

// LocationError means a GPS fix could not be obtained for an action that
// requires one. The action is blocked.
type LocationError struct {
	Action string
	Err    error
}

func (e LocationError) Error() string {
	if e.Action == "" {
		return "lokasi GPS tidak tersedia"
	}
	return fmt.Sprintf("lokasi GPS tidak tersedia untuk %s", e.Action)
}

func (e LocationError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsBusiness(err error) bool {
	var target BusinessError
	return errors.As(err, &target)
}

// BusinessCode returns the code of the wrapped BusinessError, or "".
func BusinessCode(err error) string {
	var target BusinessError
	if errors.As(err, &target) {
		return target.Code
	}
	return ""
}

func IsLocation(err error) bool {
	var target LocationError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
