package scheduler

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"
)

// SlotDuration is the width of one timeline slot.
const SlotDuration = 15 * time.Minute

// ErrInvalidTimeOfDay is returned for time strings that are not "HH:MM".
var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// ParseTimeOfDay parses "HH:MM" into an instant on day.
func ParseTimeOfDay(day time.Time, s string) (time.Time, error) {
	minutes, err := parseClock(s)
	if err != nil {
		return time.Time{}, err
	}
	return atMinute(day, minutes), nil
}

// NormalizeShift returns the shift bounds on day. An end at or before the start
// is moved to the next day.
func NormalizeShift(day time.Time, startStr, endStr string) (time.Time, time.Time, error) {
	start, err := ParseTimeOfDay(day, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseTimeOfDay(day, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

// CheckShift reports whether both shift bounds are "HH:MM" times.
func CheckShift(startStr, endStr string) error {
	if _, err := parseClock(startStr); err != nil {
		return err
	}
	_, err := parseClock(endStr)
	return err
}

// Slots yields instants from start (inclusive) to end (exclusive) in
// SlotDuration steps. start is not re-aligned.
func Slots(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for t := start; t.Before(end); t = t.Add(SlotDuration) {
			if !yield(t) {
				return
			}
		}
	}
}

// RoundToNearest15 rounds t to the nearest slot boundary of its wall clock.
// Ties round up.
func RoundToNearest15(t time.Time) time.Time {
	floor := FloorToSlot(t)
	if t.Sub(floor) >= SlotDuration/2 {
		return floor.Add(SlotDuration)
	}
	return floor
}

// FloorToSlot truncates t to the slot boundary at or before it.
func FloorToSlot(t time.Time) time.Time {
	return t.Add(-offsetInSlot(t))
}

// CeilToSlot returns the slot boundary at or after t.
func CeilToSlot(t time.Time) time.Time {
	off := offsetInSlot(t)
	if off == 0 {
		return t
	}
	return t.Add(SlotDuration - off)
}

// FormatClock renders t as "HH:MM".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

func offsetInSlot(t time.Time) time.Duration {
	slotMinutes := int(SlotDuration / time.Minute)
	return time.Duration(t.Minute()%slotMinutes)*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// parseClock returns minutes since midnight for "HH:MM".
func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return h*60 + m, nil
}

func atMinute(day time.Time, minutes int) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, minutes/60, minutes%60, 0, 0, day.Location())
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
