package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay(testDay, "09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got, err := ParseTimeOfDay(testDay, "7:05"); err != nil || got.Hour() != 7 || got.Minute() != 5 {
		t.Fatalf("single digit hour: got %v, %v", got, err)
	}
}

func TestParseTimeOfDayRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "9", "24:00", "12:60", "ab:cd", "12:5", "123:00", "12-30"} {
		if _, err := ParseTimeOfDay(testDay, in); !errors.Is(err, ErrInvalidTimeOfDay) {
			t.Fatalf("%q: expected ErrInvalidTimeOfDay, got %v", in, err)
		}
	}
}

func TestCheckShift(t *testing.T) {
	if err := CheckShift("22:00", "06:00"); err != nil {
		t.Fatalf("overnight shift: %v", err)
	}
	if err := CheckShift("9", "17:00"); !errors.Is(err, ErrInvalidTimeOfDay) {
		t.Fatalf("bad start: got %v", err)
	}
	if err := CheckShift("09:00", "17:75"); !errors.Is(err, ErrInvalidTimeOfDay) {
		t.Fatalf("bad end: got %v", err)
	}
}

func TestNormalizeShift(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantHours float64
	}{
		{name: "day shift", start: "09:00", end: "17:00", wantHours: 8},
		{name: "overnight", start: "22:00", end: "02:00", wantHours: 4},
		{name: "same time is a full day", start: "06:00", end: "06:00", wantHours: 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := NormalizeShift(testDay, tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := end.Sub(start).Hours(); got != tt.wantHours {
				t.Fatalf("got %v hours, want %v", got, tt.wantHours)
			}
			if !start.Equal(clock(t, tt.start)) {
				t.Fatalf("start moved: %v", start)
			}
		})
	}
}

func TestNormalizeShiftOvernightEndsNextDay(t *testing.T) {
	_, end, err := NormalizeShift(testDay, "22:00", "02:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !end.Equal(nextDay(t, "02:00")) {
		t.Fatalf("got %v, want next day 02:00", end)
	}
}

func TestSlots(t *testing.T) {
	var got []string
	for s := range Slots(clock(t, "09:00"), clock(t, "10:00")) {
		got = append(got, FormatClock(s))
	}
	want := []string{"09:00", "09:15", "09:30", "09:45"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	count := 0
	for range Slots(clock(t, "09:00"), clock(t, "09:00")) {
		count++
	}
	if count != 0 {
		t.Fatalf("empty range yielded %d slots", count)
	}
}

func TestSlotsStopsEarly(t *testing.T) {
	count := 0
	for range Slots(clock(t, "00:00"), clock(t, "23:00")) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("got %d", count)
	}
}

func TestRoundToNearest15(t *testing.T) {
	base := clock(t, "09:00")
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{offset: 0, want: "09:00"},
		{offset: 7 * time.Minute, want: "09:00"},
		{offset: 7*time.Minute + 30*time.Second, want: "09:15"},
		{offset: 8 * time.Minute, want: "09:15"},
		{offset: 15 * time.Minute, want: "09:15"},
		{offset: 52*time.Minute + 31*time.Second, want: "10:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(RoundToNearest15(base.Add(tt.offset))); got != tt.want {
			t.Fatalf("offset %v: got %s, want %s", tt.offset, got, tt.want)
		}
	}
}

func TestCeilAndFloorToSlot(t *testing.T) {
	if got := FormatClock(CeilToSlot(clock(t, "09:01"))); got != "09:15" {
		t.Fatalf("ceil: got %s", got)
	}
	if got := FormatClock(CeilToSlot(clock(t, "09:15"))); got != "09:15" {
		t.Fatalf("ceil aligned: got %s", got)
	}
	if got := FormatClock(FloorToSlot(clock(t, "09:29"))); got != "09:15" {
		t.Fatalf("floor: got %s", got)
	}
}
