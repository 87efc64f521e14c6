package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	intconfig "evbus/internal/config"
	intdb "evbus/internal/db"
	"evbus/internal/domain"
	"evbus/internal/domain/models"
	"evbus/internal/utils"
)

type VehicleRepo struct {
	DB *sql.DB
}

func (r VehicleRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleCols = `id, vehicle_code, plate_number, driver_id, paired, active_route_id, COALESCE(seat_layout,'')`

func scanVehicle(row interface{ Scan(...any) error }) (models.Vehicle, error) {
	var (
		v      models.Vehicle
		active sql.NullInt64
		layout string
	)
	if err := row.Scan(&v.ID, &v.Code, &v.PlateNumber, &v.DriverID, &v.Paired, &active, &layout); err != nil {
		return v, err
	}
	if active.Valid {
		id := active.Int64
		v.ActiveRouteID = &id
	}
	v.SeatLayout = decodeLayout(v.ID, layout)
	return v, nil
}

// decodeLayout tolerates bad stored layouts: they render as "no layout".
func decodeLayout(vehicleID int64, raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		utils.LogEvent("", "vehicle", "decode_layout", fmt.Sprintf("vehicle_id=%d invalid layout: %v", vehicleID, err))
		return nil
	}
	return out
}

func (r VehicleRepo) GetByID(ctx context.Context, id int64) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "vehicle_id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRowContext(ctx, `SELECT `+vehicleCols+` FROM vehicles WHERE id=? LIMIT 1`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.NotFoundError{Resource: "vehicle", Err: err}
	}
	return v, err
}

func (r VehicleRepo) GetByCode(ctx context.Context, code string) (models.Vehicle, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Vehicle{}, domain.ValidationError{Field: "vehicle_code", Msg: "wajib diisi"}
	}
	row := r.db().QueryRowContext(ctx, `SELECT `+vehicleCols+` FROM vehicles WHERE vehicle_code=? LIMIT 1`, code)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.NotFoundError{Resource: "vehicle", Err: err}
	}
	return v, err
}

// FindPairedByDriver returns the vehicle currently paired with the driver, or nil.
func (r VehicleRepo) FindPairedByDriver(ctx context.Context, driverID int64) (*models.Vehicle, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+vehicleCols+` FROM vehicles WHERE driver_id=? AND paired=1 ORDER BY id ASC LIMIT 1`, driverID)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r VehicleRepo) SetPaired(ctx context.Context, vehicleID int64, paired bool) error {
	_, err := r.db().ExecContext(ctx, `UPDATE vehicles SET paired=? WHERE id=?`, paired, vehicleID)
	return err
}

func (r VehicleRepo) SetActiveRoute(ctx context.Context, vehicleID int64, routeID *int64) error {
	_, err := r.db().ExecContext(ctx, `UPDATE vehicles SET active_route_id=? WHERE id=?`, intdb.NullInt64(routeID), vehicleID)
	return err
}

// SaveLayout rewrites the layout and the seat list of a vehicle wholesale.
func (r VehicleRepo) SaveLayout(ctx context.Context, vehicleID int64, layout []string, seats []models.SeatRecord) error {
	raw, err := json.Marshal(layout)
	if err != nil {
		return err
	}
	return intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE vehicles SET seat_layout=? WHERE id=?`, string(raw), vehicleID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM vehicle_seats WHERE vehicle_id=?`, vehicleID); err != nil {
			return err
		}
		for _, s := range seats {
			status := s.Status
			if status == "" {
				status = models.SeatAvailable
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO vehicle_seats (vehicle_id, side, number, status) VALUES (?,?,?,?)`,
				vehicleID, s.Side, s.Number, string(status),
			); err != nil {
				if intdb.IsDuplicateKey(err) {
					return domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("kursi %s duplikat", s.Position()), Err: err}
				}
				return err
			}
		}
		return nil
	})
}

// requireRow turns a zero-row guarded UPDATE into the given error.
func requireRow(res sql.Result, onZero error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return onZero
	}
	return nil
}
