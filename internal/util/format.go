package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatHours renders hours with one decimal, as the summary cards show them.
// Examples: 8 -> "8.0", 2.5 -> "2.5", 1.0/3 -> "0.3"
func FormatHours(h float64) string {
	return fmt.Sprintf("%.1f", h)
}

// Bar renders value as a run of full blocks scaled against max.
// A positive value never renders empty.
func Bar(value, max float64, width int) string {
	if max <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	n := int(value / max * float64(width))
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}

// FormatDateTime formats t in local time as 2006-01-02 15:04.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// Truncate shortens s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
