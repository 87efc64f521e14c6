// Package seatmap decodes the per-vehicle seat layout grammar into an
// addressable grid and tracks seat selections against booked seats.
//
// Grammar: "x" seat, "y" driver seat, "-" aisle/filler, ":" row separator.
// Anything else is treated as filler.
package seatmap

import "evbus/internal/domain/models"

type Token int

const (
	Filler Token = iota
	Seat
	Driver
	RowBreak
)

func (t Token) String() string {
	switch t {
	case Seat:
		return "x"
	case Driver:
		return "y"
	case RowBreak:
		return ":"
	default:
		return "-"
	}
}

// ParseToken maps one persisted token; unknown values become Filler.
func ParseToken(s string) Token {
	switch s {
	case "x":
		return Seat
	case "y":
		return Driver
	case ":":
		return RowBreak
	default:
		return Filler
	}
}

func ParseTokens(raw []string) []Token {
	out := make([]Token, 0, len(raw))
	for _, s := range raw {
		out = append(out, ParseToken(s))
	}
	return out
}

type Row []Token

// Cell addresses a grid slot.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Parse splits tokens into rows. Empty rows are dropped, nil input gives
// zero rows.
func Parse(tokens []Token) []Row {
	rows := []Row{}
	cur := Row{}
	for _, t := range tokens {
		if t == RowBreak {
			if len(cur) > 0 {
				rows = append(rows, cur)
				cur = Row{}
			}
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		rows = append(rows, cur)
	}
	return rows
}

// AssignPositions labels every Seat cell in row-major order with the next
// record. Once records run out the label is synthetic: side letter from the
// row index and the seat's running count within that row.
func AssignPositions(rows []Row, records []models.SeatRecord) map[Cell]models.SeatPosition {
	out := map[Cell]models.SeatPosition{}
	walkSeats(rows, records, func(cell Cell, p models.SeatPosition, _ *models.SeatRecord) {
		out[cell] = p
	})
	return out
}

// walkSeats visits Seat cells in row-major order. rec is the record the cell
// consumed, or nil once records run out and the label is synthetic.
func walkSeats(rows []Row, records []models.SeatRecord, fn func(cell Cell, p models.SeatPosition, rec *models.SeatRecord)) {
	next := 0
	for r, row := range rows {
		inRow := 0
		for c, t := range row {
			if t != Seat {
				continue
			}
			inRow++
			cell := Cell{Row: r, Col: c}
			if next < len(records) {
				rec := &records[next]
				next++
				fn(cell, rec.Position(), rec)
				continue
			}
			fn(cell, models.SeatPosition{Side: sideLetter(r), Number: inRow}, nil)
		}
	}
}

func sideLetter(row int) string {
	if row < 0 {
		row = 0
	}
	return string(rune('A' + row%26))
}

// SeatCount counts seat tokens in a raw layout.
func SeatCount(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if t == Seat {
			n++
		}
	}
	return n
}

// Encode writes rows back to the persisted grammar.
func Encode(rows []Row) []string {
	out := []string{}
	for i, row := range rows {
		if i > 0 {
			out = append(out, RowBreak.String())
		}
		for _, t := range row {
			out = append(out, t.String())
		}
	}
	return out
}

// BuildRecords derives the seat list for a freshly saved layout. All seats
// start available.
func BuildRecords(vehicleID int64, rows []Row) []models.SeatRecord {
	positions := AssignPositions(rows, nil)
	out := []models.SeatRecord{}
	for r, row := range rows {
		for c, t := range row {
			if t != Seat {
				continue
			}
			p := positions[Cell{Row: r, Col: c}]
			out = append(out, models.SeatRecord{
				VehicleID: vehicleID,
				Side:      p.Side,
				Number:    p.Number,
				Status:    models.SeatAvailable,
			})
		}
	}
	return out
}

// CellView is one rendered grid slot.
type CellView struct {
	Kind     string               `json:"kind"`
	Position *models.SeatPosition `json:"position,omitempty"`
	Status   models.SeatStatus    `json:"status,omitempty"`
	Selected bool                 `json:"selected,omitempty"`
}

const (
	KindSeat   = "seat"
	KindDriver = "driver"
	KindFiller = "filler"
)

type Grid struct {
	Rows      [][]CellView `json:"rows"`
	SeatCount int          `json:"seatCount"`
}

// Empty is true for a layout with zero seat tokens ("no layout").
func (g Grid) Empty() bool { return g.SeatCount == 0 }

// Positions lists the labeled seats in row-major order.
func (g Grid) Positions() []models.SeatPosition {
	out := []models.SeatPosition{}
	for _, row := range g.Rows {
		for _, c := range row {
			if c.Position != nil {
				out = append(out, *c.Position)
			}
		}
	}
	return out
}

// Decode renders a raw layout. Each seat cell takes its status from the record
// it consumed in row-major order, so a synthetic label that repeats a record's
// label does not inherit that record's status. Seats without a record are
// reported available.
func Decode(raw []string, records []models.SeatRecord) Grid {
	rows := Parse(ParseTokens(raw))
	positions := map[Cell]models.SeatPosition{}
	status := map[Cell]models.SeatStatus{}
	walkSeats(rows, records, func(cell Cell, p models.SeatPosition, rec *models.SeatRecord) {
		positions[cell] = p
		if rec != nil {
			status[cell] = rec.Status
		}
	})

	g := Grid{Rows: make([][]CellView, 0, len(rows))}
	for r, row := range rows {
		views := make([]CellView, 0, len(row))
		for c, t := range row {
			switch t {
			case Seat:
				cell := Cell{Row: r, Col: c}
				p := positions[cell]
				st := status[cell]
				if st == "" {
					st = models.SeatAvailable
				}
				views = append(views, CellView{Kind: KindSeat, Position: &p, Status: st})
				g.SeatCount++
			case Driver:
				views = append(views, CellView{Kind: KindDriver})
			default:
				views = append(views, CellView{Kind: KindFiller})
			}
		}
		g.Rows = append(g.Rows, views)
	}
	return g
}

// Overlay returns a copy of g where seats in booked are marked booked and
// seats in selected are flagged.
func (g Grid) Overlay(booked PositionSet, selected PositionSet) Grid {
	out := Grid{Rows: make([][]CellView, len(g.Rows)), SeatCount: g.SeatCount}
	for i, row := range g.Rows {
		views := make([]CellView, len(row))
		copy(views, row)
		for j := range views {
			p := views[j].Position
			if p == nil {
				continue
			}
			if booked.Has(*p) {
				views[j].Status = models.SeatBooked
			}
			views[j].Selected = selected.Has(*p)
		}
		out.Rows[i] = views
	}
	return out
}

// Occupancy returns a copy of g where a seat is booked exactly when it is in
// booked. Used for schedule boards, where the vehicle's live seat statuses
// do not apply.
func (g Grid) Occupancy(booked PositionSet) Grid {
	out := g.Overlay(booked, nil)
	for _, row := range out.Rows {
		for j := range row {
			if row[j].Position != nil && !booked.Has(*row[j].Position) {
				row[j].Status = models.SeatAvailable
			}
		}
	}
	return out
}
