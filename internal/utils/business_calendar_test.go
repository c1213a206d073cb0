package utils

import (
	"testing"
	"time"
)

func TestNextBusinessDaySkipsWeekend(t *testing.T) {
	// Friday 2026-08-28 → Monday 2026-08-31.
	friday := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)
	got := NextBusinessDay(friday)
	want := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextBusinessDay(Fri) = %v, want %v", got, want)
	}
}

func TestNextBusinessDayMidweek(t *testing.T) {
	tuesday := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	got := NextBusinessDay(tuesday)
	want := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextBusinessDay(Tue) = %v, want %v", got, want)
	}
}

func TestNextBusinessDaySkipsHoliday(t *testing.T) {
	// Thursday 2026-07-02; Friday July 3 is the observed Independence Day
	// (July 4 falls on a Saturday), so the next workday is Monday July 6.
	thursday := time.Date(2026, 7, 2, 12, 0, 0, 0, time.UTC)
	got := NextBusinessDay(thursday)
	want := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NextBusinessDay(pre-holiday) = %v, want %v", got, want)
	}
}

func TestIsBusinessDay(t *testing.T) {
	if IsBusinessDay(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)) { // Saturday
		t.Fatal("Saturday counted as a business day")
	}
	if !IsBusinessDay(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)) { // Thursday
		t.Fatal("Thursday not counted as a business day")
	}
}
