package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "evbus/internal/config"
	"evbus/internal/domain"
	"evbus/internal/domain/models"
)

type ScheduleRepo struct {
	DB *sql.DB
}

func (r ScheduleRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const scheduleSelect = `
	SELECT s.id, s.vehicle_id, s.route_id, COALESCE(r.origin_name,''), COALESCE(r.destination_name,''), s.depart_at, s.price
	FROM schedules s
	LEFT JOIN routes r ON r.id = s.route_id`

func scanSchedule(row interface{ Scan(...any) error }) (models.Schedule, error) {
	var s models.Schedule
	err := row.Scan(&s.ID, &s.VehicleID, &s.RouteID, &s.OriginName, &s.DestinationName, &s.DepartAt, &s.Price)
	return s, err
}

func (r ScheduleRepo) GetByID(ctx context.Context, id int64) (models.Schedule, error) {
	if id <= 0 {
		return models.Schedule{}, domain.ValidationError{Field: "schedule_id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRowContext(ctx, scheduleSelect+` WHERE s.id=? LIMIT 1`, id)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return s, domain.NotFoundError{Resource: "schedule", Err: err}
	}
	return s, err
}

// List filters schedules by departure date (YYYY-MM-DD) and origin/destination names.
func (r ScheduleRepo) List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error) {
	where := []string{"1=1"}
	args := []any{}
	if d := strings.TrimSpace(f.Date); d != "" {
		where = append(where, "DATE(s.depart_at)=?")
		args = append(args, d)
	}
	if o := strings.TrimSpace(f.Origin); o != "" {
		where = append(where, "r.origin_name LIKE ?")
		args = append(args, "%"+o+"%")
	}
	if d := strings.TrimSpace(f.Destination); d != "" {
		where = append(where, "r.destination_name LIKE ?")
		args = append(args, "%"+d+"%")
	}

	rows, err := r.db().QueryContext(ctx, scheduleSelect+` WHERE `+strings.Join(where, " AND ")+` ORDER BY s.depart_at ASC, s.id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FindCurrentRun returns the schedule of the vehicle on the route departing
// within window of now, closest first, or nil.
func (r ScheduleRepo) FindCurrentRun(ctx context.Context, vehicleID, routeID int64, now time.Time, window time.Duration) (*models.Schedule, error) {
	row := r.db().QueryRowContext(ctx, scheduleSelect+`
		WHERE s.vehicle_id=? AND s.route_id=? AND s.depart_at BETWEEN ? AND ?
		ORDER BY ABS(TIMESTAMPDIFF(SECOND, s.depart_at, ?)) ASC
		LIMIT 1`,
		vehicleID, routeID, now.Add(-window), now.Add(window), now)
	s, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
