package utils

import (
	"strings"
	"time"
)

// ScheduleDateLayout is the run-date format accepted by schedule filters.
const ScheduleDateLayout = "2006-01-02"

const departureLayout = "02-01-2006 15:04"

// ParseScheduleDate reads a run date in the server's local zone.
func ParseScheduleDate(s string) (time.Time, error) {
	return time.ParseInLocation(ScheduleDateLayout, strings.TrimSpace(s), time.Local)
}

// FormatDeparture prints a departure time for passenger documents.
// The zero time means the schedule carries no departure and yields "".
func FormatDeparture(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(departureLayout)
}
