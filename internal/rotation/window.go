package rotation

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHHMM parses a "HH:MM" time-of-day into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hh*60 + mm, nil
}

// IsNightWindow reports whether a slot's interval crosses midnight,
// which classifies it as a night window (e.g. 20:00-08:00).
// Unparseable times classify as a day window.
func IsNightWindow(start, end string) bool {
	s, err := ParseHHMM(start)
	if err != nil {
		return false
	}
	e, err := ParseHHMM(end)
	if err != nil {
		return false
	}
	return e <= s
}
