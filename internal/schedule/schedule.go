// Package schedule holds the per-weekday allowed-window table consulted when
// deciding whether a proposed activity time is acceptable.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is the day stated inside a message, not the day it arrived.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayKeys = [...]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "invalid"
	}
	return dayKeys[d]
}

// ParseWeekday maps a short key ("mon".."sun") to its Weekday.
func ParseWeekday(key string) (Weekday, bool) {
	for i, k := range dayKeys {
		if k == strings.ToLower(strings.TrimSpace(key)) {
			return Weekday(i), true
		}
	}
	return 0, false
}

// Weekdays lists all days Monday through Sunday.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Window is an inclusive minute-of-day range. A disabled or absent window
// never allows anything; there is no default-allow state.
type Window struct {
	Enabled      bool
	StartMinutes int
	EndMinutes   int
}

// Table maps weekdays to their configured windows.
type Table map[Weekday]Window

// Allows reports whether hour:minute falls inside the enabled window for day,
// inclusive on both ends.
func (t Table) Allows(day Weekday, hour, minute int) bool {
	w, ok := t[day]
	if !ok || !w.Enabled {
		return false
	}
	m := hour*60 + minute
	return m >= w.StartMinutes && m <= w.EndMinutes
}

// Clone returns a copy so callers can publish tables without sharing maps.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for d, w := range t {
		out[d] = w
	}
	return out
}

// ParseClock parses "HH:MM" or "HHhMM" into minutes of day.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	sep := ":"
	if strings.Contains(s, "h") {
		sep = "h"
	}
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes of day as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
