package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"evbus/internal/domain"
	"evbus/internal/domain/models"
	"evbus/internal/seatmap"
	"evbus/internal/utils"
)

// CheckoutService books seats on scheduled runs.
type CheckoutService struct {
	Schedules ScheduleStore
	Vehicles  VehicleStore
	Bookings  BookingStore
	Wallets   WalletStore
	Layouts   LayoutService
	Validate  *validator.Validate
}

func (s CheckoutService) validate() *validator.Validate {
	if s.Validate != nil {
		return s.Validate
	}
	return validator.New()
}

// ScheduleBoard is the seat map of a schedule with the seats already sold.
type ScheduleBoard struct {
	Schedule  models.Schedule       `json:"schedule"`
	Grid      seatmap.Grid          `json:"grid"`
	Booked    []models.SeatPosition `json:"booked"`
	Available int                   `json:"available"`

	board  SeatBoard
	booked seatmap.PositionSet
}

func (s CheckoutService) ListSchedules(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error) {
	if d := strings.TrimSpace(f.Date); d != "" {
		if _, err := utils.ParseScheduleDate(d); err != nil {
			return nil, domain.ValidationError{Field: "date", Msg: "format tanggal harus YYYY-MM-DD", Err: err}
		}
	}
	list, err := s.Schedules.List(ctx, f)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal membaca jadwal", Err: err}
	}
	return list, nil
}

// LoadSeatBoard reads the schedule's vehicle layout and the seats held by
// every booking on the schedule, paid or not. The booked set is a snapshot.
func (s CheckoutService) LoadSeatBoard(ctx context.Context, scheduleID int64) (ScheduleBoard, error) {
	sched, err := s.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return ScheduleBoard{}, err
	}
	v, err := s.Vehicles.GetByID(ctx, sched.VehicleID)
	if err != nil {
		return ScheduleBoard{}, err
	}
	board, err := s.Layouts.Board(ctx, v)
	if err != nil {
		return ScheduleBoard{}, err
	}
	booked, err := s.bookedSet(ctx, scheduleID)
	if err != nil {
		return ScheduleBoard{}, err
	}
	grid := board.Grid.Occupancy(booked)
	available := 0
	for _, p := range grid.Positions() {
		if !booked.Has(p) {
			available++
		}
	}
	return ScheduleBoard{
		Schedule:  sched,
		Grid:      grid,
		Booked:    booked.Slice(),
		Available: available,
		board:     board,
		booked:    booked,
	}, nil
}

func (s CheckoutService) bookedSet(ctx context.Context, scheduleID int64) (seatmap.PositionSet, error) {
	list, err := s.Bookings.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal membaca pemesanan", Err: err}
	}
	set := seatmap.PositionSet{}
	for _, b := range list {
		for _, p := range b.Seats {
			set[p.String()] = p
		}
	}
	return set, nil
}

// SelectionResult is the seat board after a toggle, with its quote.
type SelectionResult struct {
	Selected []models.SeatPosition `json:"selected"`
	Grid     seatmap.Grid          `json:"grid"`
	Quote    models.FareQuote      `json:"quote"`
	Dropped  []models.SeatPosition `json:"dropped,omitempty"`
}

// ToggleSeat applies one toggle to the caller's current selection against a
// fresh booked set. Previously selected seats that were sold in the meantime
// are dropped and reported.
func (s CheckoutService) ToggleSeat(ctx context.Context, scheduleID int64, current []models.SeatPosition, seat *models.SeatPosition) (SelectionResult, error) {
	sb, err := s.LoadSeatBoard(ctx, scheduleID)
	if err != nil {
		return SelectionResult{}, err
	}
	sel := seatmap.NewSelection(seatmap.Multi, sb.booked, true)
	var dropped []models.SeatPosition
	for _, p := range current {
		if !sb.board.Has(p) || sb.booked.Has(p) {
			dropped = append(dropped, p)
			continue
		}
		sel = sel.Select(p)
	}
	if seat != nil {
		if !sb.board.Has(*seat) {
			return SelectionResult{}, domain.ValidationError{Field: "seat", Msg: fmt.Sprintf("kursi %s tidak ada", *seat)}
		}
		sel = sel.Toggle(*seat)
	}
	return SelectionResult{
		Selected: sel.Selected(),
		Grid:     sb.Grid.Overlay(sb.booked, sel.Set()),
		Quote:    scheduleQuote(sb.Schedule, sel.Len()),
		Dropped:  dropped,
	}, nil
}

func scheduleQuote(sched models.Schedule, seats int) models.FareQuote {
	return models.FareQuote{
		Pricing:   models.PricingSchedule,
		SeatCount: seats,
		UnitPrice: float64(sched.Price),
		Amount:    utils.ScheduleFare(sched.Price, seats),
	}
}

// Quote prices seats on a schedule: flat price per seat.
func (s CheckoutService) Quote(ctx context.Context, scheduleID int64, seats []models.SeatPosition) (models.FareQuote, error) {
	sched, err := s.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return models.FareQuote{}, err
	}
	return scheduleQuote(sched, len(seats)), nil
}

type CheckoutInput struct {
	ScheduleID int64
	UserID     int64
	Guest      bool
	Seats      []models.SeatPosition
	Passenger  models.PassengerInput
}

// CheckoutResult reports the created booking. PaymentError is set when the
// booking exists but could not be paid; it stays unpaid for a retry or
// counter settlement.
type CheckoutResult struct {
	Booking      models.Booking   `json:"booking"`
	Quote        models.FareQuote `json:"quote"`
	Paid         bool             `json:"paid"`
	PaymentError string           `json:"paymentError,omitempty"`
	PaymentCode  string           `json:"paymentCode,omitempty"`
}

func (s CheckoutService) validatePassenger(p models.PassengerInput) error {
	err := s.validate().Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field())
		return domain.ValidationError{Field: "passenger." + field, Msg: "data penumpang tidak valid", Err: err}
	}
	return domain.ValidationError{Field: "passenger", Msg: "data penumpang tidak valid", Err: err}
}

// Confirm books the selected seats. A non-guest rider pays from the wallet
// right away; the balance is checked before anything is written. Guests stay
// unpaid for counter settlement.
func (s CheckoutService) Confirm(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	in.Passenger.Name = utils.NormalizeSpace(in.Passenger.Name)
	in.Passenger.Phone = strings.TrimSpace(in.Passenger.Phone)
	if err := s.validatePassenger(in.Passenger); err != nil {
		return CheckoutResult{}, err
	}
	if len(in.Seats) == 0 {
		return CheckoutResult{}, domain.ValidationError{Field: "seats", Msg: "belum ada kursi dipilih"}
	}
	if !in.Guest && in.UserID <= 0 {
		return CheckoutResult{}, domain.ValidationError{Field: "user_id", Msg: "pengguna tidak dikenal"}
	}

	sb, err := s.LoadSeatBoard(ctx, in.ScheduleID)
	if err != nil {
		return CheckoutResult{}, err
	}
	seen := seatmap.PositionSet{}
	for _, p := range in.Seats {
		if seen.Has(p) {
			return CheckoutResult{}, domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("kursi %s dipilih lebih dari sekali", p)}
		}
		seen[p.String()] = p
		if !sb.board.Has(p) {
			return CheckoutResult{}, domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("kursi %s tidak ada", p)}
		}
		if sb.booked.Has(p) {
			return CheckoutResult{}, domain.ConflictError{Resource: "seat", Msg: "kursi sudah tidak tersedia"}
		}
	}

	quote := scheduleQuote(sb.Schedule, len(in.Seats))
	if !in.Guest {
		bal, err := s.Wallets.Balance(ctx, in.UserID)
		if err != nil {
			return CheckoutResult{}, domain.InternalError{Msg: "gagal membaca saldo", Err: err}
		}
		if bal < quote.Amount {
			return CheckoutResult{}, domain.BusinessError{
				Code:    domain.CodeInsufficientBalance,
				Msg:     fmt.Sprintf("saldo tidak mencukupi: dibutuhkan %s, saldo %s", utils.FormatRupiah(quote.Amount), utils.FormatRupiah(bal)),
				Details: map[string]any{"required": quote.Amount, "balance": bal},
			}
		}
	}

	b := models.Booking{
		ScheduleID:     in.ScheduleID,
		Seats:          seen.Slice(),
		PassengerName:  in.Passenger.Name,
		PassengerPhone: in.Passenger.Phone,
		Fare:           quote.Amount,
		PaymentStatus:  models.PaymentUnpaid,
		Guest:          in.Guest,
	}
	if !in.Guest {
		b.UserID = in.UserID
	}
	if err := s.Bookings.Create(ctx, &b); err != nil {
		if domain.IsConflict(err) {
			utils.LogEventCtx(ctx, "checkout", "conflict", fmt.Sprintf("schedule_id=%d", in.ScheduleID))
		}
		return CheckoutResult{}, err
	}
	utils.LogEventCtx(ctx, "checkout", "create", fmt.Sprintf("booking_id=%d schedule_id=%d seats=%d guest=%t", b.ID, b.ScheduleID, len(b.Seats), b.Guest))

	res := CheckoutResult{Booking: b, Quote: quote}
	if in.Guest {
		return res, nil
	}
	if err := s.Wallets.PayBooking(ctx, in.UserID, b.ID, b.Fare); err != nil {
		utils.LogEventCtx(ctx, "checkout", "payment_failed", fmt.Sprintf("booking_id=%d err=%v", b.ID, err))
		res.PaymentError = err.Error()
		res.PaymentCode = domain.BusinessCode(err)
		return res, nil
	}
	res.Paid = true
	res.Booking.PaymentStatus = models.PaymentPaid
	res.Booking.PaymentMethod = models.PaymentMethodWallet
	return res, nil
}

// BookingFor returns a booking owned by userID. Guest bookings and other
// riders' bookings read as not found.
func (s CheckoutService) BookingFor(ctx context.Context, userID, bookingID int64) (models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return b, err
	}
	if b.Guest || b.UserID != userID {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

// RetryPayment pays an unpaid booking of the user from the wallet.
func (s CheckoutService) RetryPayment(ctx context.Context, userID, bookingID int64) (models.Booking, error) {
	b, err := s.BookingFor(ctx, userID, bookingID)
	if err != nil {
		return b, err
	}
	if b.PaymentStatus == models.PaymentPaid {
		return b, domain.ConflictError{Resource: "booking", Msg: "booking sudah dibayar"}
	}
	if err := s.Wallets.PayBooking(ctx, userID, b.ID, b.Fare); err != nil {
		return b, err
	}
	utils.LogEventCtx(ctx, "checkout", "retry_payment", fmt.Sprintf("booking_id=%d", b.ID))
	b.PaymentStatus = models.PaymentPaid
	b.PaymentMethod = models.PaymentMethodWallet
	return b, nil
}

// SettleAtCounter marks an unpaid booking paid at the counter.
func (s CheckoutService) SettleAtCounter(ctx context.Context, bookingID int64, method string) (models.Booking, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		method = models.PaymentMethodCash
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return b, err
	}
	if err := s.Bookings.MarkPaid(ctx, b.ID, method); err != nil {
		return b, err
	}
	utils.LogEventCtx(ctx, "checkout", "settle", fmt.Sprintf("booking_id=%d method=%s", b.ID, method))
	b.PaymentStatus = models.PaymentPaid
	b.PaymentMethod = method
	return b, nil
}

func (s CheckoutService) ListUnpaid(ctx context.Context, scheduleID int64) ([]models.Booking, error) {
	if _, err := s.Schedules.GetByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	return s.Bookings.ListUnpaid(ctx, scheduleID)
}
