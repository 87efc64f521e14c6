package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "evbus/internal/config"
	intdb "evbus/internal/db"
	"evbus/internal/domain"
	"evbus/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingSelect = `
	SELECT id, schedule_id, COALESCE(user_id,0), passenger_name, passenger_phone, fare,
		payment_status, COALESCE(payment_method,''), guest, created_at
	FROM bookings`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var (
		b      models.Booking
		status string
	)
	err := row.Scan(&b.ID, &b.ScheduleID, &b.UserID, &b.PassengerName, &b.PassengerPhone, &b.Fare,
		&status, &b.PaymentMethod, &b.Guest, &b.CreatedAt)
	if err != nil {
		return b, err
	}
	b.PaymentStatus = models.PaymentUnpaid
	if strings.EqualFold(strings.TrimSpace(status), string(models.PaymentPaid)) {
		b.PaymentStatus = models.PaymentPaid
	}
	return b, nil
}

// Create inserts the booking and claims its seats on the schedule in one
// transaction. A seat already claimed by another booking yields a conflict
// and nothing is written.
func (r BookingRepo) Create(ctx context.Context, b *models.Booking) error {
	if b == nil || len(b.Seats) == 0 {
		return domain.ValidationError{Field: "seats", Msg: "belum ada kursi dipilih"}
	}
	var userID any
	if b.UserID > 0 {
		userID = b.UserID
	}
	status := b.PaymentStatus
	if status == "" {
		status = models.PaymentUnpaid
	}
	return intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO bookings (schedule_id, user_id, passenger_name, passenger_phone, fare, payment_status, payment_method, guest)
			VALUES (?,?,?,?,?,?,?,?)`,
			b.ScheduleID, userID, strings.TrimSpace(b.PassengerName), strings.TrimSpace(b.PassengerPhone),
			b.Fare, string(status), b.PaymentMethod, b.Guest)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, s := range b.Seats {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO booking_seats (booking_id, schedule_id, seat_code) VALUES (?,?,?)`,
				id, b.ScheduleID, s.String(),
			); err != nil {
				if intdb.IsDuplicateKey(err) {
					return domain.ConflictError{Resource: "seat", Msg: "kursi sudah tidak tersedia", Err: err}
				}
				return err
			}
		}
		b.ID = id
		b.PaymentStatus = status
		return nil
	})
}

func (r BookingRepo) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "id tidak valid"}
	}
	b, err := scanBooking(r.db().QueryRowContext(ctx, bookingSelect+` WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return b, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return b, err
	}
	seats, err := r.seatsOf(ctx, []int64{b.ID})
	if err != nil {
		return b, err
	}
	b.Seats = seats[b.ID]
	return b, nil
}

// ListBySchedule returns every booking on a schedule, paid or not, with its seats.
func (r BookingRepo) ListBySchedule(ctx context.Context, scheduleID int64) ([]models.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE schedule_id=? ORDER BY id ASC`, scheduleID)
}

// ListUnpaid returns bookings on a schedule still waiting for payment.
func (r BookingRepo) ListUnpaid(ctx context.Context, scheduleID int64) ([]models.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE schedule_id=? AND payment_status='unpaid' ORDER BY id ASC`, scheduleID)
}

func (r BookingRepo) list(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := []models.Booking{}
	ids := []int64{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			rows.Close()
			return out, err
		}
		out = append(out, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return out, err
	}
	rows.Close()

	seats, err := r.seatsOf(ctx, ids)
	if err != nil {
		return out, err
	}
	for i := range out {
		out[i].Seats = seats[out[i].ID]
	}
	return out, nil
}

func (r BookingRepo) seatsOf(ctx context.Context, bookingIDs []int64) (map[int64][]models.SeatPosition, error) {
	out := map[int64][]models.SeatPosition{}
	if len(bookingIDs) == 0 {
		return out, nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(bookingIDs)), ",")
	args := make([]any, 0, len(bookingIDs))
	for _, id := range bookingIDs {
		args = append(args, id)
	}
	rows, err := r.db().QueryContext(ctx,
		`SELECT booking_id, seat_code FROM booking_seats WHERE booking_id IN (`+marks+`) ORDER BY id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int64
			code string
		)
		if err := rows.Scan(&id, &code); err != nil {
			return out, err
		}
		p, err := models.ParseSeatPosition(code)
		if err != nil {
			continue
		}
		out[id] = append(out[id], p)
	}
	return out, rows.Err()
}

// MarkPaid settles an unpaid booking with the given method. Paying twice is
// a conflict.
func (r BookingRepo) MarkPaid(ctx context.Context, id int64, method string) error {
	res, err := r.db().ExecContext(ctx,
		`UPDATE bookings SET payment_status='paid', payment_method=? WHERE id=? AND payment_status='unpaid'`,
		strings.TrimSpace(method), id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ConflictError{Resource: "booking", Msg: "booking sudah dibayar"})
}
