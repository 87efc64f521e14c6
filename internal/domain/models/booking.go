package models

import "time"

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// Booking captures a seat reservation on a schedule.
type Booking struct {
	ID             int64          `json:"id"`
	ScheduleID     int64          `json:"scheduleId"`
	UserID         int64          `json:"userId,omitempty"`
	Seats          []SeatPosition `json:"seats"`
	PassengerName  string         `json:"passengerName"`
	PassengerPhone string         `json:"passengerPhone"`
	Fare           int64          `json:"fare"`
	PaymentStatus  PaymentStatus  `json:"paymentStatus"`
	PaymentMethod  string         `json:"paymentMethod,omitempty"`
	Guest          bool           `json:"guest"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// PassengerInput carries the contact of whoever rides on the booked seats.
type PassengerInput struct {
	Name  string `json:"name" validate:"required,max=255"`
	Phone string `json:"phone" validate:"required,min=6,max=20"`
}

// Pricing models are mutually exclusive.
const (
	PricingDistance = "distance"
	PricingSchedule = "schedule"
)

// FareQuote is recomputed whenever its inputs change.
type FareQuote struct {
	Pricing    string  `json:"pricing"`
	DistanceKm float64 `json:"distanceKm,omitempty"`
	SeatCount  int     `json:"seatCount,omitempty"`
	UnitPrice  float64 `json:"unitPrice"`
	Amount     int64   `json:"amount"`
	Source     string  `json:"source,omitempty"`
}

// Estimate sources.
const (
	SourceDirections = "directions"
	SourceHaversine  = "haversine"
)

type Estimate struct {
	DistanceKm float64    `json:"distanceKm"`
	Path       []GeoPoint `json:"path"`
	Source     string     `json:"source"`
}

// Payment methods recorded on bookings.
const (
	PaymentMethodWallet = "wallet"
	PaymentMethodCash   = "cash"
)
