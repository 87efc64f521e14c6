package services

import (
	"context"
	"fmt"

	"evbus/internal/domain"
	"evbus/internal/domain/models"
	"evbus/internal/seatmap"
	"evbus/internal/utils"
)

// SeatBoard is a vehicle's decoded layout with persisted seat statuses.
type SeatBoard struct {
	VehicleID     int64               `json:"vehicleId"`
	Layout        []string            `json:"layout"`
	DefaultLayout bool                `json:"defaultLayout"`
	Grid          seatmap.Grid        `json:"grid"`
	Records       []models.SeatRecord `json:"-"`
}

// Booked returns the seats the vehicle's seat list marks as booked.
func (b SeatBoard) Booked() seatmap.PositionSet {
	return seatmap.BookedFromRecords(b.Records)
}

// Has reports whether p is one of the board's labeled seats.
func (b SeatBoard) Has(p models.SeatPosition) bool {
	for _, q := range b.Grid.Positions() {
		if q == p {
			return true
		}
	}
	return false
}

// LayoutService reads and rewrites per-vehicle seat layouts.
type LayoutService struct {
	Vehicles VehicleStore
	Seats    SeatStore
	Settings SettingsStore
}

// Board decodes the vehicle layout, falling back to the operator default
// layout when the vehicle has none.
func (s LayoutService) Board(ctx context.Context, v models.Vehicle) (SeatBoard, error) {
	records, err := s.Seats.ListByVehicle(ctx, v.ID)
	if err != nil {
		return SeatBoard{}, domain.InternalError{Msg: "gagal membaca kursi", Err: err}
	}
	layout := v.SeatLayout
	fallback := false
	if seatmap.SeatCount(seatmap.ParseTokens(layout)) == 0 && s.Settings != nil {
		def, err := s.Settings.DefaultSeatLayout(ctx)
		if err != nil {
			return SeatBoard{}, domain.InternalError{Msg: "gagal membaca layout default", Err: err}
		}
		if len(def) > 0 {
			layout, fallback = def, true
		}
	}
	return SeatBoard{
		VehicleID:     v.ID,
		Layout:        layout,
		DefaultLayout: fallback,
		Grid:          seatmap.Decode(layout, records),
		Records:       records,
	}, nil
}

// SaveLayout replaces the layout of a vehicle and regenerates its seat list.
// Every seat starts available.
func (s LayoutService) SaveLayout(ctx context.Context, vehicleID int64, raw []string) (SeatBoard, error) {
	v, err := s.Vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return SeatBoard{}, err
	}
	rows := seatmap.Parse(seatmap.ParseTokens(raw))
	if len(rows) == 0 {
		return SeatBoard{}, domain.ValidationError{Field: "layout", Msg: "layout kosong"}
	}
	layout := seatmap.Encode(rows)
	records := seatmap.BuildRecords(v.ID, rows)
	if err := s.Vehicles.SaveLayout(ctx, v.ID, layout, records); err != nil {
		return SeatBoard{}, err
	}
	utils.LogEventCtx(ctx, "layout", "save", fmt.Sprintf("vehicle_id=%d seats=%d", v.ID, len(records)))
	v.SeatLayout = layout
	return s.Board(ctx, v)
}
