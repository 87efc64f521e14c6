package models

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
)

// SeatPosition is the visible seat identity, e.g. "A3".
type SeatPosition struct {
	Side   string
	Number int
}

func (p SeatPosition) String() string {
	return fmt.Sprintf("%s%d", p.Side, p.Number)
}

func (p SeatPosition) IsZero() bool {
	return p.Side == "" && p.Number == 0
}

func (p SeatPosition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *SeatPosition) UnmarshalText(b []byte) error {
	parsed, err := ParseSeatPosition(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParseSeatPosition parses "B2" / "b 2" into a SeatPosition.
func ParseSeatPosition(raw string) (SeatPosition, error) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	i := 0
	for i < len(s) && unicode.IsLetter(rune(s[i])) {
		i++
	}
	if i == 0 || i == len(s) {
		return SeatPosition{}, fmt.Errorf("kode kursi tidak valid: %q", raw)
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil || n < 1 {
		return SeatPosition{}, fmt.Errorf("kode kursi tidak valid: %q", raw)
	}
	return SeatPosition{Side: s[:i], Number: n}, nil
}

// ParseSeatPositions parses a list of seat codes, rejecting duplicates.
func ParseSeatPositions(raw []string) ([]SeatPosition, error) {
	out := make([]SeatPosition, 0, len(raw))
	seen := map[string]bool{}
	for _, r := range raw {
		p, err := ParseSeatPosition(r)
		if err != nil {
			return nil, err
		}
		if seen[p.String()] {
			return nil, fmt.Errorf("kursi %s dipilih lebih dari sekali", p)
		}
		seen[p.String()] = true
		out = append(out, p)
	}
	return out, nil
}

// SeatRecord is a persisted seat of a vehicle.
type SeatRecord struct {
	ID             int64      `json:"id"`
	VehicleID      int64      `json:"vehicleId"`
	Side           string     `json:"side"`
	Number         int        `json:"number"`
	Status         SeatStatus `json:"status"`
	PassengerName  string     `json:"passengerName,omitempty"`
	PassengerPhone string     `json:"passengerPhone,omitempty"`
}

func (r SeatRecord) Position() SeatPosition {
	return SeatPosition{Side: r.Side, Number: r.Number}
}
