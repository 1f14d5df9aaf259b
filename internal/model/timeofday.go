package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock "HH:MM" string with no date component.
// Medications and tasks schedule against it; storing the canonical
// zero-padded form keeps ascending string sort equal to time order.
type TimeOfDay string

// ParseTimeOfDay validates and canonicalises an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time of day %q, want HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay(fmt.Sprintf("%02d:%02d", hour, minute)), nil
}

// MinuteOfDay returns minutes since midnight. The receiver must hold a
// canonical value produced by ParseTimeOfDay.
func (t TimeOfDay) MinuteOfDay() int {
	hour, _ := strconv.Atoi(string(t[:2]))
	minute, _ := strconv.Atoi(string(t[3:]))
	return hour*60 + minute
}

func (t TimeOfDay) String() string {
	return string(t)
}
