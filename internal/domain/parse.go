package domain

import (
	"fmt"
	"strconv"
	"strings"
)

var accentReplacer = strings.NewReplacer("ì", "i", "Ì", "I")

// ResolveDay maps user input to a canonical day name. It accepts the exact
// name, a case-insensitive name with or without accents ("lunedi") and the
// 1-based position in the week.
func ResolveDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(Days) {
			return Days[n-1], nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownDay, s)
	}
	plain := accentReplacer.Replace(s)
	for _, d := range Days {
		if d == s || strings.EqualFold(accentReplacer.Replace(d), plain) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDay, s)
}

// ResolveTimeSlot maps user input to a canonical slot label. Besides the
// exact label it accepts the starting hour ("9", "09", "09:00").
func ResolveTimeSlot(s string) (string, error) {
	s = strings.TrimSpace(s)
	if IsTimeSlot(s) {
		return s, nil
	}
	start := s
	if !strings.Contains(start, ":") {
		n, err := strconv.Atoi(start)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
		}
		start = fmt.Sprintf("%02d:00", n)
	}
	for _, slot := range TimeSlots {
		if strings.HasPrefix(slot, start+"-") {
			return slot, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}
