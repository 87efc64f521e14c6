package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "evbus/internal/config"
	intdb "evbus/internal/db"
	"evbus/internal/domain"
	"evbus/internal/domain/models"
)

type WalletRepo struct {
	DB *sql.DB
}

func (r WalletRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Balance returns the wallet balance of a user; a missing wallet is empty.
func (r WalletRepo) Balance(ctx context.Context, userID int64) (int64, error) {
	var bal int64
	err := r.db().QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id=? LIMIT 1`, userID).Scan(&bal)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return bal, err
}

// PayBooking debits the wallet and marks the booking paid atomically.
func (r WalletRepo) PayBooking(ctx context.Context, userID, bookingID, amount int64) error {
	if amount < 0 {
		return domain.ValidationError{Field: "amount", Msg: "nominal tidak valid"}
	}
	return intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		// a zero debit leaves the row unchanged, which MySQL reports as 0 affected
		if amount > 0 {
			res, err := tx.ExecContext(ctx,
				`UPDATE wallets SET balance=balance-? WHERE user_id=? AND balance>=?`, amount, userID, amount)
			if err != nil {
				return err
			}
			if err := requireRow(res, domain.BusinessError{Code: domain.CodeInsufficientBalance, Msg: "saldo tidak mencukupi"}); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE bookings SET payment_status='paid', payment_method=? WHERE id=? AND payment_status='unpaid'`,
			models.PaymentMethodWallet, bookingID)
		if err != nil {
			return err
		}
		return requireRow(res, domain.ConflictError{Resource: "booking", Msg: "booking sudah dibayar"})
	})
}
