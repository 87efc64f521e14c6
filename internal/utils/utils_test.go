package utils

import (
	"context"
	"math"
	"testing"
	"time"

	"evbus/internal/domain/models"
)

var (
	jakarta = models.GeoPoint{Lat: -6.2088, Lng: 106.8456}
	bandung = models.GeoPoint{Lat: -6.9175, Lng: 107.6191}
)

func TestHaversineSymmetricAndZero(t *testing.T) {
	ab := Haversine(jakarta, bandung)
	ba := Haversine(bandung, jakarta)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("haversine not symmetric: %f vs %f", ab, ba)
	}
	if d := Haversine(jakarta, jakarta); d != 0 {
		t.Fatalf("distance to self should be 0, got %f", d)
	}
	// roughly 116 km between the two city centres
	if ab < 110 || ab > 125 {
		t.Fatalf("unexpected distance %f", ab)
	}
}

func TestHaversineChain(t *testing.T) {
	mid := models.GeoPoint{Lat: -6.5, Lng: 107.2}
	chain := HaversineChain([]models.GeoPoint{jakarta, mid, bandung})
	direct := Haversine(jakarta, bandung)
	if chain < direct {
		t.Fatalf("detour %f shorter than direct %f", chain, direct)
	}
	if HaversineChain([]models.GeoPoint{jakarta}) != 0 {
		t.Fatalf("single point chain should be 0")
	}
}

func TestScheduleFareExact(t *testing.T) {
	for k := 1; k <= 12; k++ {
		for _, p := range []int64{1, 25_000, 150_000, 999_999_937} {
			if got := ScheduleFare(p, k); got != p*int64(k) {
				t.Fatalf("ScheduleFare(%d,%d) = %d", p, k, got)
			}
		}
	}
	if ScheduleFare(100, 0) != 0 {
		t.Fatalf("zero seats should cost nothing")
	}
}

func TestDistanceFare(t *testing.T) {
	if got := DistanceFare(12.345, 3000); got != 37035 {
		t.Fatalf("DistanceFare = %d", got)
	}
	if DistanceFare(-1, 3000) != 0 || DistanceFare(5, 0) != 0 {
		t.Fatalf("non-positive inputs should price at 0")
	}
}

func TestFormatRupiah(t *testing.T) {
	if got := FormatRupiah(1500000); got != "Rp1.500.000" {
		t.Fatalf("got %s", got)
	}
	if got := FormatRupiah(-2500); got != "-Rp2.500" {
		t.Fatalf("got %s", got)
	}
}

func TestFormatRupiahGrouping(t *testing.T) {
	cases := map[int64]string{
		0:           "Rp0",
		999:         "Rp999",
		1000:        "Rp1.000",
		75000:       "Rp75.000",
		-1000000000: "-Rp1.000.000.000",
	}
	for in, want := range cases {
		if got := FormatRupiah(in); got != want {
			t.Fatalf("FormatRupiah(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestSeatPriceLine(t *testing.T) {
	if got := SeatPriceLine(150000, 2); got != "Rp75.000 x 2" {
		t.Fatalf("got %s", got)
	}
	if got := SeatPriceLine(75000, 0); got != "Rp75.000" {
		t.Fatalf("no seats should print the total, got %s", got)
	}
}

func TestScheduleDates(t *testing.T) {
	d, err := ParseScheduleDate(" 2026-05-01 ")
	if err != nil || d.Day() != 1 || d.Month() != time.May {
		t.Fatalf("parse: %v %v", d, err)
	}
	if _, err := ParseScheduleDate("01/05/2026"); err == nil {
		t.Fatalf("expected layout error")
	}
	if FormatDeparture(time.Time{}) != "" {
		t.Fatalf("zero departure should print empty")
	}
	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.Local)
	if got := FormatDeparture(at); got != "01-05-2026 08:30" {
		t.Fatalf("got %s", got)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if RequestIDFrom(ctx) != "req-1" {
		t.Fatalf("request id not stored")
	}
	if RequestIDFrom(context.Background()) != "" {
		t.Fatalf("empty context should have no request id")
	}
}
