package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	intconfig "evbus/internal/config"
	"evbus/internal/domain"
	"evbus/internal/domain/models"
)

type RouteRepo struct {
	DB *sql.DB
}

func (r RouteRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const routeCols = `r.id, r.name, r.origin_name, r.origin_lat, r.origin_lng, r.destination_name, r.destination_lat, r.destination_lng, COALESCE(r.waypoints,'')`

func scanRoute(row interface{ Scan(...any) error }) (models.Route, error) {
	var (
		rt  models.Route
		wps string
	)
	err := row.Scan(&rt.ID, &rt.Name,
		&rt.OriginName, &rt.Origin.Lat, &rt.Origin.Lng,
		&rt.DestinationName, &rt.Destination.Lat, &rt.Destination.Lng,
		&wps)
	if err != nil {
		return rt, err
	}
	if wps = strings.TrimSpace(wps); wps != "" {
		// waypoints are optional; a broken value just means a direct route
		_ = json.Unmarshal([]byte(wps), &rt.Waypoints)
	}
	return rt, nil
}

func (r RouteRepo) GetByID(ctx context.Context, id int64) (models.Route, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+routeCols+` FROM routes r WHERE r.id=? LIMIT 1`, id)
	rt, err := scanRoute(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rt, domain.NotFoundError{Resource: "route", Err: err}
	}
	return rt, err
}

// IsAssigned reports whether the route may be driven by the vehicle.
func (r RouteRepo) IsAssigned(ctx context.Context, vehicleID, routeID int64) (bool, error) {
	var n int
	err := r.db().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vehicle_routes WHERE vehicle_id=? AND route_id=?`, vehicleID, routeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r RouteRepo) ListForVehicle(ctx context.Context, vehicleID int64) ([]models.Route, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+routeCols+`
		FROM routes r
		JOIN vehicle_routes vr ON vr.route_id = r.id
		WHERE vr.vehicle_id=?
		ORDER BY r.name ASC, r.id ASC`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return out, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}
