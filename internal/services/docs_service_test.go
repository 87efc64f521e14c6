package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"evbus/internal/domain"
	"evbus/internal/domain/models"
)

func TestDocsServiceGenerate(t *testing.T) {
	loader := func(_ context.Context, id int64) (ticketDocData, error) {
		return ticketDocData{
			BookingID:      id,
			PassengerName:  "Tester",
			PassengerPhone: "0800",
			Seats:          []string{"A1", "A2"},
			Origin:         "CityA",
			Destination:    "CityB",
			DepartAt:       time.Now(),
			VehicleCode:    "BUS-01",
			Fare:           150000,
			PaymentStatus:  models.PaymentPaid,
			PaymentMethod:  models.PaymentMethodWallet,
		}, nil
	}

	svc := DocsService{Loader: loader}

	pdf, filename, err := svc.GenerateETicket(context.Background(), 10)
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if len(pdf) == 0 || !strings.HasPrefix(filename, "ETICKET_10_") {
		t.Fatalf("GenerateETicket returned unexpected data: %d bytes, %q", len(pdf), filename)
	}

	invoice, invName, err := svc.GenerateInvoice(context.Background(), 10)
	if err != nil {
		t.Fatalf("GenerateInvoice returned error: %v", err)
	}
	if len(invoice) == 0 || invName == "" {
		t.Fatalf("GenerateInvoice returned empty data")
	}
}

func TestDocsServiceLoadsFromStores(t *testing.T) {
	f := newFixture()
	f.bookings.items[5] = models.Booking{ID: 5, ScheduleID: 7, PassengerName: "Sari", Fare: 50000, Seats: []models.SeatPosition{{Side: "A", Number: 1}}}
	svc := DocsService{Bookings: f.bookings, Schedules: f.schedules, Vehicles: f.vehicles}

	d, err := svc.load(context.Background(), 5)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if d.Origin != "Jakarta" || d.VehicleCode != "BUS-01" || len(d.Seats) != 1 {
		t.Fatalf("unexpected doc data: %+v", d)
	}
	if _, _, err := svc.GenerateETicket(context.Background(), 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found for missing booking, got %v", err)
	}
}
