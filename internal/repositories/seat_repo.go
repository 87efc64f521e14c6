package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "evbus/internal/config"
	intdb "evbus/internal/db"
	"evbus/internal/domain"
	"evbus/internal/domain/models"
)

type SeatRepo struct {
	DB *sql.DB
}

func (r SeatRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListByVehicle returns the seats of a vehicle in persisted order.
func (r SeatRepo) ListByVehicle(ctx context.Context, vehicleID int64) ([]models.SeatRecord, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, vehicle_id, side, number, status, COALESCE(passenger_name,''), COALESCE(passenger_phone,'')
		FROM vehicle_seats
		WHERE vehicle_id=?
		ORDER BY id ASC`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SeatRecord{}
	for rows.Next() {
		var (
			rec    models.SeatRecord
			status string
		)
		if err := rows.Scan(&rec.ID, &rec.VehicleID, &rec.Side, &rec.Number, &status, &rec.PassengerName, &rec.PassengerPhone); err != nil {
			return out, err
		}
		rec.Side = strings.ToUpper(strings.TrimSpace(rec.Side))
		rec.Status = models.SeatStatus(strings.ToLower(strings.TrimSpace(status)))
		if rec.Status != models.SeatBooked {
			rec.Status = models.SeatAvailable
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SetStatus moves every seat from status `from` to `to` in one transaction.
// A seat that is no longer in `from` aborts the whole change with a conflict.
func (r SeatRepo) SetStatus(ctx context.Context, vehicleID int64, seats []models.SeatPosition, from, to models.SeatStatus, passenger models.PassengerInput) error {
	if len(seats) == 0 {
		return domain.ValidationError{Field: "seats", Msg: "belum ada kursi dipilih"}
	}
	name, phone := strings.TrimSpace(passenger.Name), strings.TrimSpace(passenger.Phone)
	if to == models.SeatAvailable {
		name, phone = "", ""
	}
	return intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		for _, p := range seats {
			res, err := tx.ExecContext(ctx, `
				UPDATE vehicle_seats SET status=?, passenger_name=?, passenger_phone=?
				WHERE vehicle_id=? AND side=? AND number=? AND status=?`,
				string(to), name, phone, vehicleID, p.Side, p.Number, string(from))
			if err != nil {
				return err
			}
			if err := requireRow(res, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("kursi %s sudah berubah status", p)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Switch moves the occupancy (and passenger data) of a booked seat to an
// available one.
func (r SeatRepo) Switch(ctx context.Context, vehicleID int64, from, to models.SeatPosition) error {
	return intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		var name, phone string
		err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(passenger_name,''), COALESCE(passenger_phone,'')
			FROM vehicle_seats
			WHERE vehicle_id=? AND side=? AND number=? AND status='booked'
			FOR UPDATE`, vehicleID, from.Side, from.Number).Scan(&name, &phone)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("kursi %s tidak terisi", from), Err: err}
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE vehicle_seats SET status='booked', passenger_name=?, passenger_phone=?
			WHERE vehicle_id=? AND side=? AND number=? AND status='available'`,
			name, phone, vehicleID, to.Side, to.Number)
		if err != nil {
			return err
		}
		if err := requireRow(res, domain.ConflictError{Resource: "seat", Msg: fmt.Sprintf("kursi %s sudah tidak tersedia", to)}); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE vehicle_seats SET status='available', passenger_name='', passenger_phone=''
			WHERE vehicle_id=? AND side=? AND number=?`,
			vehicleID, from.Side, from.Number)
		return err
	})
}
