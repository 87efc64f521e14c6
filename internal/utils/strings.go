package utils

import (
	"strings"
)

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JoinSeatList prints seat labels for tickets.
func JoinSeatList(seats []string) string {
	return strings.Join(seats, ",")
}
