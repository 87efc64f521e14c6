package seatmap

import (
	"testing"

	"evbus/internal/domain/models"
)

func records(labels ...string) []models.SeatRecord {
	out := make([]models.SeatRecord, 0, len(labels))
	for i, l := range labels {
		p, err := models.ParseSeatPosition(l)
		if err != nil {
			panic(err)
		}
		out = append(out, models.SeatRecord{ID: int64(i + 1), Side: p.Side, Number: p.Number, Status: models.SeatAvailable})
	}
	return out
}

func TestParseEmptyInput(t *testing.T) {
	if rows := Parse(nil); len(rows) != 0 {
		t.Fatalf("nil input should give zero rows, got %d", len(rows))
	}
	if rows := Parse([]Token{}); len(rows) != 0 {
		t.Fatalf("empty input should give zero rows, got %d", len(rows))
	}
}

func TestParseRowCountMatchesBreaks(t *testing.T) {
	cases := []struct {
		raw  []string
		want int
	}{
		{[]string{"x", "x"}, 1},
		{[]string{"x", ":", "x"}, 2},
		{[]string{"x", "-", "y", ":", "x", "x", ":"}, 2},
		{[]string{"y", ":", "x", ":", "x", "-", "x"}, 3},
	}
	for _, tc := range cases {
		tokens := ParseTokens(tc.raw)
		breaks := 0
		for _, tok := range tokens {
			if tok == RowBreak {
				breaks++
			}
		}
		trailing := 0
		if len(tokens) > 0 && tokens[len(tokens)-1] != RowBreak {
			trailing = 1
		}
		rows := Parse(tokens)
		if len(rows) != tc.want {
			t.Fatalf("%v: got %d rows, want %d", tc.raw, len(rows), tc.want)
		}
		if len(rows) != breaks+trailing {
			t.Fatalf("%v: rows %d != breaks %d + trailing %d", tc.raw, len(rows), breaks, trailing)
		}
	}
}

func TestParseDropsEmptyRows(t *testing.T) {
	rows := Parse(ParseTokens([]string{":", ":", "x", ":", ":", "x"}))
	if len(rows) != 2 {
		t.Fatalf("expected 2 non-empty rows, got %d", len(rows))
	}
}

func TestUnknownTokensAreFiller(t *testing.T) {
	tokens := ParseTokens([]string{"x", "?", "Z", "", "y"})
	want := []Token{Seat, Filler, Filler, Filler, Driver}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, tokens[i], want[i])
		}
	}
}

func TestAssignPositionsScenario(t *testing.T) {
	raw := []string{"x", "-", "-", "y", ":", "x", "-", "x", "x"}
	rows := Parse(ParseTokens(raw))
	recs := records("A1", "A2", "A3", "A4")
	got := AssignPositions(rows, recs)

	want := map[Cell]string{
		{Row: 0, Col: 0}: "A1",
		{Row: 1, Col: 0}: "A2",
		{Row: 1, Col: 2}: "A3",
		{Row: 1, Col: 3}: "A4",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d positions, want %d", len(got), len(want))
	}
	for cell, label := range want {
		if got[cell].String() != label {
			t.Fatalf("cell %+v: got %s want %s", cell, got[cell], label)
		}
	}
	if _, ok := got[Cell{Row: 0, Col: 3}]; ok {
		t.Fatalf("driver cell must not be labeled")
	}
	if _, ok := got[Cell{Row: 0, Col: 1}]; ok {
		t.Fatalf("filler cell must not be labeled")
	}
}

func TestAssignPositionsThreeSeatsThreeRecords(t *testing.T) {
	raw := []string{"x", "-", "-", "y", ":", "x", "-", "x"}
	grid := Decode(raw, records("A1", "A2", "A3"))
	got := grid.Positions()
	if len(got) != 3 {
		t.Fatalf("expected 3 labeled seats, got %d", len(got))
	}
	for i, want := range []string{"A1", "A2", "A3"} {
		if got[i].String() != want {
			t.Fatalf("seat %d: got %s want %s", i, got[i], want)
		}
	}
	if grid.Rows[0][3].Kind != KindDriver || grid.Rows[0][3].Position != nil {
		t.Fatalf("driver cell should have no label: %+v", grid.Rows[0][3])
	}
	if grid.Rows[0][1].Kind != KindFiller {
		t.Fatalf("expected filler, got %+v", grid.Rows[0][1])
	}
}

func TestAssignedCountEqualsSeatTokens(t *testing.T) {
	layouts := [][]string{
		{},
		{"y", "-", "-"},
		{"x", "x", ":", "x", "x", ":", "x", "x", "x"},
		{"x", "q", "x", ":", "y", "x"},
	}
	for _, raw := range layouts {
		tokens := ParseTokens(raw)
		for _, recs := range [][]models.SeatRecord{nil, records("B1"), records("C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9", "C10")} {
			got := AssignPositions(Parse(tokens), recs)
			if len(got) != SeatCount(tokens) {
				t.Fatalf("%v with %d records: %d positions for %d seats", raw, len(recs), len(got), SeatCount(tokens))
			}
		}
	}
}

func TestRoundTripUsesFirstRecordsInOrder(t *testing.T) {
	raw := []string{"x", "x", "-", "x", ":", "y", "x", "x"}
	recs := records("D4", "D3", "E1", "E2", "E3", "F9")
	got := Decode(raw, recs).Positions()
	if len(got) != 5 {
		t.Fatalf("expected 5 seats, got %d", len(got))
	}
	for i, p := range got {
		if p != recs[i].Position() {
			t.Fatalf("seat %d: got %s want %s", i, p, recs[i].Position())
		}
	}
}

func TestSyntheticLabelsWhenRecordsRunOut(t *testing.T) {
	raw := []string{"x", "x", ":", "x", "-", "x"}
	got := Decode(raw, records("A1")).Positions()
	want := []string{"A1", "A2", "B1", "B2"}
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("seat %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestDecodeEmptyLayout(t *testing.T) {
	g := Decode(nil, nil)
	if !g.Empty() || len(g.Rows) != 0 {
		t.Fatalf("expected empty grid, got %+v", g)
	}
	g = Decode([]string{"y", "-"}, nil)
	if !g.Empty() {
		t.Fatalf("layout without seats should be empty")
	}
}

func TestDecodeCarriesRecordStatus(t *testing.T) {
	recs := records("A1", "A2")
	recs[1].Status = models.SeatBooked
	g := Decode([]string{"x", "x"}, recs)
	if g.Rows[0][0].Status != models.SeatAvailable || g.Rows[0][1].Status != models.SeatBooked {
		t.Fatalf("unexpected statuses: %+v", g.Rows[0])
	}
}

func TestSyntheticLabelCollisionKeepsOwnStatus(t *testing.T) {
	recs := records("B1")
	recs[0].Status = models.SeatBooked
	g := Decode([]string{"x", ":", "x"}, recs)

	owned, synth := g.Rows[0][0], g.Rows[1][0]
	if owned.Position.String() != "B1" || synth.Position.String() != "B1" {
		t.Fatalf("expected both cells labelled B1, got %s and %s", owned.Position, synth.Position)
	}
	if owned.Status != models.SeatBooked {
		t.Fatalf("record cell should be booked, got %s", owned.Status)
	}
	if synth.Status != models.SeatAvailable {
		t.Fatalf("synthetic cell must not inherit the record's status, got %s", synth.Status)
	}
}

func TestEncodeBuildRecords(t *testing.T) {
	raw := []string{"x", "-", "y", ":", "x", "x"}
	rows := Parse(ParseTokens(raw))
	enc := Encode(rows)
	if len(enc) != len(raw) {
		t.Fatalf("encode length: got %v want %v", enc, raw)
	}
	for i := range raw {
		if enc[i] != raw[i] {
			t.Fatalf("encode[%d]: got %q want %q", i, enc[i], raw[i])
		}
	}
	recs := BuildRecords(7, rows)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].Position().String() != "A1" || recs[2].Position().String() != "B2" || recs[2].VehicleID != 7 {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestOverlayMarksBookedAndSelected(t *testing.T) {
	g := Decode([]string{"x", "x", "x"}, records("A1", "A2", "A3"))
	a2 := models.SeatPosition{Side: "A", Number: 2}
	a3 := models.SeatPosition{Side: "A", Number: 3}
	out := g.Overlay(NewPositionSet(a2), NewPositionSet(a3))
	if out.Rows[0][1].Status != models.SeatBooked || !out.Rows[0][2].Selected {
		t.Fatalf("overlay not applied: %+v", out.Rows[0])
	}
	if g.Rows[0][1].Status != models.SeatAvailable {
		t.Fatalf("overlay must not mutate source grid")
	}
}

func TestOccupancyIgnoresLiveStatus(t *testing.T) {
	recs := records("A1", "A2")
	recs[0].Status = models.SeatBooked
	g := Decode([]string{"x", "x"}, recs)
	out := g.Occupancy(NewPositionSet(models.SeatPosition{Side: "A", Number: 2}))
	if out.Rows[0][0].Status != models.SeatAvailable || out.Rows[0][1].Status != models.SeatBooked {
		t.Fatalf("unexpected occupancy: %+v", out.Rows[0])
	}
}
