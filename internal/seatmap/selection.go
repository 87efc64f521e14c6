package seatmap

import (
	"sort"

	"evbus/internal/domain/models"
)

// PositionSet is a set of seat identities keyed by their label. A booked set
// built from a server read is a snapshot, not a lock.
type PositionSet map[string]models.SeatPosition

func NewPositionSet(ps ...models.SeatPosition) PositionSet {
	s := PositionSet{}
	for _, p := range ps {
		s[p.String()] = p
	}
	return s
}

func (s PositionSet) Has(p models.SeatPosition) bool {
	_, ok := s[p.String()]
	return ok
}

func (s PositionSet) Len() int { return len(s) }

// Slice returns the members sorted by side then number.
func (s PositionSet) Slice() []models.SeatPosition {
	out := make([]models.SeatPosition, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Side != out[j].Side {
			return out[i].Side < out[j].Side
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// BookedFromRecords collects the records whose status is booked.
func BookedFromRecords(records []models.SeatRecord) PositionSet {
	s := PositionSet{}
	for _, r := range records {
		if r.Status == models.SeatBooked {
			s[r.Position().String()] = r.Position()
		}
	}
	return s
}

type Mode int

const (
	// Multi permits any number of selected seats (rider booking).
	Multi Mode = iota
	// Single keeps every selected seat in one status class (driver check-in/out).
	Single
)

// Selection is an immutable seat selection over a booked snapshot. Every
// method returns a new value.
type Selection struct {
	mode          Mode
	availableOnly bool
	booked        PositionSet
	selected      []models.SeatPosition
}

func NewSelection(mode Mode, booked PositionSet, availableOnly bool) Selection {
	if booked == nil {
		booked = PositionSet{}
	}
	return Selection{mode: mode, availableOnly: availableOnly, booked: booked}
}

func (s Selection) IsBooked(p models.SeatPosition) bool { return s.booked.Has(p) }

func (s Selection) IsSelected(p models.SeatPosition) bool { return s.indexOf(p) >= 0 }

func (s Selection) Selected() []models.SeatPosition {
	out := make([]models.SeatPosition, len(s.selected))
	copy(out, s.selected)
	return out
}

func (s Selection) Set() PositionSet { return NewPositionSet(s.selected...) }

func (s Selection) Len() int { return len(s.selected) }

func (s Selection) Clear() Selection {
	s.selected = nil
	return s
}

// Toggle removes p when selected, otherwise adds it. Booked seats are ignored
// when the selection is available-only. In Single mode, picking a seat of the
// other status class starts a new selection with just that seat.
func (s Selection) Toggle(p models.SeatPosition) Selection {
	if i := s.indexOf(p); i >= 0 {
		return s.without(i)
	}
	return s.Select(p)
}

// Select adds p; selecting an already selected seat is a no-op.
func (s Selection) Select(p models.SeatPosition) Selection {
	if s.IsSelected(p) {
		return s
	}
	if s.availableOnly && s.IsBooked(p) {
		return s
	}
	if s.mode == Single && len(s.selected) > 0 && s.IsBooked(s.selected[0]) != s.IsBooked(p) {
		s.selected = []models.SeatPosition{p}
		return s
	}
	next := make([]models.SeatPosition, len(s.selected), len(s.selected)+1)
	copy(next, s.selected)
	s.selected = append(next, p)
	return s
}

func (s Selection) Deselect(p models.SeatPosition) Selection {
	if i := s.indexOf(p); i >= 0 {
		return s.without(i)
	}
	return s
}

func (s Selection) indexOf(p models.SeatPosition) int {
	key := p.String()
	for i, q := range s.selected {
		if q.String() == key {
			return i
		}
	}
	return -1
}

func (s Selection) without(i int) Selection {
	next := make([]models.SeatPosition, 0, len(s.selected)-1)
	next = append(next, s.selected[:i]...)
	next = append(next, s.selected[i+1:]...)
	s.selected = next
	return s
}

// Composition counts selected seats per status class.
type Composition struct {
	Available int
	Booked    int
}

func (s Selection) Composition() Composition {
	var c Composition
	for _, p := range s.selected {
		if s.IsBooked(p) {
			c.Booked++
		} else {
			c.Available++
		}
	}
	return c
}

// CanCheckIn: non-empty and every selected seat is available.
func (s Selection) CanCheckIn() bool {
	c := s.Composition()
	return c.Available > 0 && c.Booked == 0
}

// CanCheckOut: non-empty and every selected seat is booked.
func (s Selection) CanCheckOut() bool {
	c := s.Composition()
	return c.Booked > 0 && c.Available == 0
}

// SwitchPair returns the booked source and optional available target when
// the selection holds exactly one booked seat and at most one available seat.
func (s Selection) SwitchPair() (source models.SeatPosition, target *models.SeatPosition, ok bool) {
	c := s.Composition()
	if c.Booked != 1 || c.Available > 1 {
		return models.SeatPosition{}, nil, false
	}
	for _, p := range s.selected {
		if s.IsBooked(p) {
			source = p
			continue
		}
		t := p
		target = &t
	}
	return source, target, true
}
