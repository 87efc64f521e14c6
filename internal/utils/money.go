package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRupiah renders a whole-rupiah amount as printed on tickets and
// invoices, e.g. "Rp1.500.000" or "-Rp2.500".
func FormatRupiah(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("Rp")
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// SeatPriceLine splits a booking total across its seats, e.g. "Rp75.000 x 2".
// Bookings with no seats print the bare total.
func SeatPriceLine(total int64, seats int) string {
	if seats <= 0 {
		return FormatRupiah(total)
	}
	return fmt.Sprintf("%s x %d", FormatRupiah(total/int64(seats)), seats)
}
