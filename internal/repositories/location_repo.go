package repositories

import (
	"context"
	"database/sql"

	intconfig "evbus/internal/config"
	"evbus/internal/domain/models"
)

const maxLocationSamples = 1000

type LocationRepo struct {
	DB *sql.DB
}

func (r LocationRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r LocationRepo) Write(ctx context.Context, s models.LocationSample) error {
	_, err := r.db().ExecContext(ctx,
		`INSERT INTO location_samples (trip_id, vehicle_id, lat, lng, recorded_at) VALUES (?,?,?,?,?)`,
		s.TripID, s.VehicleID, s.Lat, s.Lng, s.RecordedAt)
	return err
}

// ListByTrip returns the newest samples of a trip, oldest first.
func (r LocationRepo) ListByTrip(ctx context.Context, tripID string, limit int) ([]models.LocationSample, error) {
	if limit <= 0 || limit > maxLocationSamples {
		limit = maxLocationSamples
	}
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, trip_id, vehicle_id, lat, lng, recorded_at FROM (
			SELECT id, trip_id, vehicle_id, lat, lng, recorded_at
			FROM location_samples
			WHERE trip_id=?
			ORDER BY recorded_at DESC, id DESC
			LIMIT ?
		) t ORDER BY recorded_at ASC, id ASC`, tripID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.LocationSample{}
	for rows.Next() {
		var s models.LocationSample
		if err := rows.Scan(&s.ID, &s.TripID, &s.VehicleID, &s.Lat, &s.Lng, &s.RecordedAt); err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
