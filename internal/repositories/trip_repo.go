package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	intconfig "evbus/internal/config"
	intdb "evbus/internal/db"
	"evbus/internal/domain"
	"evbus/internal/domain/models"
)

type TripRepo struct {
	DB *sql.DB
}

func (r TripRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripSelect = `
	SELECT id, vehicle_id, route_id, schedule_id, driver_id, start_time, end_time,
		start_lat, start_lng, end_lat, end_lng, forced_end
	FROM trip_sessions`

func scanTrip(row interface{ Scan(...any) error }) (models.TripSession, error) {
	var (
		t          models.TripSession
		scheduleID sql.NullInt64
		endTime    sql.NullTime
		endLat     sql.NullFloat64
		endLng     sql.NullFloat64
	)
	err := row.Scan(&t.ID, &t.VehicleID, &t.RouteID, &scheduleID, &t.DriverID, &t.StartTime, &endTime,
		&t.Start.Lat, &t.Start.Lng, &endLat, &endLng, &t.ForcedEnd)
	if err != nil {
		return t, err
	}
	if scheduleID.Valid {
		id := scheduleID.Int64
		t.ScheduleID = &id
	}
	if endTime.Valid {
		at := endTime.Time
		t.EndTime = &at
	}
	if endLat.Valid && endLng.Valid {
		t.End = &models.GeoPoint{Lat: endLat.Float64, Lng: endLng.Float64}
	}
	return t, nil
}

// OpenByVehicle returns the trip the vehicle has not ended yet, or nil.
func (r TripRepo) OpenByVehicle(ctx context.Context, vehicleID int64) (*models.TripSession, error) {
	t, err := scanTrip(r.db().QueryRowContext(ctx, tripSelect+` WHERE open_vehicle_id=? LIMIT 1`, vehicleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r TripRepo) GetByID(ctx context.Context, id string) (models.TripSession, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return models.TripSession{}, domain.ValidationError{Field: "trip_id", Msg: "id tidak valid", Err: err}
	}
	t, err := scanTrip(r.db().QueryRowContext(ctx, tripSelect+` WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return t, domain.NotFoundError{Resource: "trip", Err: err}
	}
	return t, err
}

// Start persists a new open trip and fills its id. A vehicle may only hold
// one open trip; a second start is a conflict.
func (r TripRepo) Start(ctx context.Context, t *models.TripSession) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.StartTime.IsZero() {
		t.StartTime = time.Now().UTC()
	}
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO trip_sessions (id, vehicle_id, route_id, schedule_id, driver_id, start_time, start_lat, start_lng, open_vehicle_id)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		t.ID, t.VehicleID, t.RouteID, intdb.NullInt64(t.ScheduleID), t.DriverID, t.StartTime,
		t.Start.Lat, t.Start.Lng, t.VehicleID)
	if intdb.IsDuplicateKey(err) {
		return domain.ConflictError{Resource: "trip", Msg: "kendaraan masih dalam perjalanan", Err: err}
	}
	return err
}

// End closes an open trip. Ending a closed trip is a conflict.
func (r TripRepo) End(ctx context.Context, id string, at time.Time, end models.GeoPoint, forced bool) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE trip_sessions
		SET end_time=?, end_lat=?, end_lng=?, forced_end=?, open_vehicle_id=NULL
		WHERE id=? AND end_time IS NULL`,
		at, end.Lat, end.Lng, forced, id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ConflictError{Resource: "trip", Msg: "perjalanan sudah selesai"})
}
