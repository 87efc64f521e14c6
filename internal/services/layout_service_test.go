package services

import (
	"context"
	"testing"

	"evbus/internal/domain"
)

func TestSaveLayoutRebuildsSeats(t *testing.T) {
	f := newFixture()
	svc := f.layouts()
	board, err := svc.SaveLayout(context.Background(), 1, []string{"x", "?", "y", ":", ":", "x", "x", "x"})
	if err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	stored := f.vehicles.items[1].SeatLayout
	want := []string{"x", "-", "y", ":", "x", "x", "x"}
	if len(stored) != len(want) {
		t.Fatalf("stored layout %v, want %v", stored, want)
	}
	for i := range want {
		if stored[i] != want[i] {
			t.Fatalf("stored layout %v, want %v", stored, want)
		}
	}
	if board.Grid.SeatCount != 4 || board.DefaultLayout {
		t.Fatalf("unexpected board %+v", board)
	}
}

func TestSaveLayoutRejectsEmpty(t *testing.T) {
	f := newFixture()
	if _, err := f.layouts().SaveLayout(context.Background(), 1, []string{":", ":"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.layouts().SaveLayout(context.Background(), 99, []string{"x"}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
