package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"evbus/internal/domain/models"
	"evbus/internal/utils"
)

// DocsService menghasilkan PDF e-ticket & invoice per booking.
type DocsService struct {
	Bookings  BookingStore
	Schedules ScheduleStore
	Vehicles  VehicleStore
	Loader    func(ctx context.Context, bookingID int64) (ticketDocData, error)
}

type ticketDocData struct {
	BookingID      int64
	PassengerName  string
	PassengerPhone string
	Seats          []string
	Origin         string
	Destination    string
	DepartAt       time.Time
	VehicleCode    string
	PlateNumber    string
	Fare           int64
	PaymentStatus  models.PaymentStatus
	PaymentMethod  string
	Guest          bool
}

func (s DocsService) GenerateETicket(ctx context.Context, bookingID int64) ([]byte, string, error) {
	data, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEventCtx(ctx, "docs", "generate_eticket", fmt.Sprintf("booking_id=%d", bookingID))
	return buildETicketPDF(data)
}

func (s DocsService) GenerateInvoice(ctx context.Context, bookingID int64) ([]byte, string, error) {
	data, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEventCtx(ctx, "docs", "generate_invoice", fmt.Sprintf("booking_id=%d", bookingID))
	return buildInvoicePDF(data)
}

func (s DocsService) load(ctx context.Context, bookingID int64) (ticketDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID)
	}
	var out ticketDocData
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return out, err
	}
	out.BookingID = b.ID
	out.PassengerName = b.PassengerName
	out.PassengerPhone = b.PassengerPhone
	out.Fare = b.Fare
	out.PaymentStatus = b.PaymentStatus
	out.PaymentMethod = b.PaymentMethod
	out.Guest = b.Guest
	for _, p := range b.Seats {
		out.Seats = append(out.Seats, p.String())
	}

	// schedule/vehicle details are decoration; a missing row still prints
	if sched, err := s.Schedules.GetByID(ctx, b.ScheduleID); err == nil {
		out.Origin = sched.OriginName
		out.Destination = sched.DestinationName
		out.DepartAt = sched.DepartAt
		if v, err := s.Vehicles.GetByID(ctx, sched.VehicleID); err == nil {
			out.VehicleCode = v.Code
			out.PlateNumber = v.PlateNumber
		}
	}
	return out, nil
}

func buildETicketPDF(d ticketDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET BUS LISTRIK")
	pdf.Ln(12)

	seats := utils.JoinSeatList(d.Seats)
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Nama Penumpang : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("No HP          : %s", safe(d.PassengerPhone, "-")),
		fmt.Sprintf("Kursi          : %s", safe(seats, "-")),
		fmt.Sprintf("Rute           : %s -> %s", safe(d.Origin, "-"), safe(d.Destination, "-")),
		fmt.Sprintf("Berangkat      : %s", safe(utils.FormatDeparture(d.DepartAt), "-")),
		fmt.Sprintf("Kendaraan      : %s %s", safe(d.VehicleCode, "-"), strings.TrimSpace(d.PlateNumber)),
		fmt.Sprintf("Status Bayar   : %s", paymentText(d)),
		fmt.Sprintf("Kode Booking   : #%d", d.BookingID),
		fmt.Sprintf("Kode Ticket    : TCK-%d-%s", d.BookingID, safeFilenamePart(strings.Join(d.Seats, "-"))),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	note := fmt.Sprintf("Catatan: E-ticket ini berlaku untuk %d kursi. Harap tunjukkan saat naik.", len(d.Seats))
	if d.PaymentStatus != models.PaymentPaid {
		note += " Selesaikan pembayaran di loket sebelum keberangkatan."
	}
	pdf.MultiCell(0, 6, note, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", d.BookingID, safeFilenamePart(d.PassengerName))
	return buf.Bytes(), filename, nil
}

func buildInvoicePDF(d ticketDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	invNo := fmt.Sprintf("INV-%d", d.BookingID)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "No Invoice   : "+invNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Tanggal     : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Ditagihkan kepada:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Nama   : %s", safe(d.PassengerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("No HP  : %s", safe(d.PassengerPhone, "-")))
	pdf.Ln(10)

	seatCount := len(d.Seats)
	desc := fmt.Sprintf("Tiket %s -> %s (%s) Kursi %s",
		safe(d.Origin, "-"), safe(d.Destination, "-"),
		safe(utils.FormatDeparture(d.DepartAt), "-"),
		safe(utils.JoinSeatList(d.Seats), "-"),
	)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Rincian:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "1) "+desc, "", "", false)
	pdf.Ln(2)

	if seatCount > 0 {
		pdf.Cell(0, 6, "Harga per kursi: "+utils.SeatPriceLine(d.Fare, seatCount))
		pdf.Ln(8)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatRupiah(d.Fare))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Status: "+paymentText(d))
	pdf.Ln(10)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%d_%s.pdf", d.BookingID, safeFilenamePart(d.PassengerName))
	return buf.Bytes(), filename, nil
}

func paymentText(d ticketDocData) string {
	if d.PaymentStatus == models.PaymentPaid {
		return "LUNAS (" + safe(d.PaymentMethod, "-") + ")"
	}
	return "BELUM DIBAYAR"
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
