package utils

import (
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	// 2024-03-14 23:30 UTC: still the 14th in UTC, already the 15th in Tokyo,
	// still the 14th in New York.
	instant := time.Date(2024, 3, 14, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		timezone string
		want     string
	}{
		{"utc", "UTC", "2024-03-14"},
		{"ahead of utc", "Asia/Tokyo", "2024-03-15"},
		{"behind utc", "America/New_York", "2024-03-14"},
		{"far behind utc", "Pacific/Honolulu", "2024-03-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DayKey(instant, tt.timezone)
			if err != nil {
				t.Fatalf("DayKey() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("DayKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDayKeyMidnightBoundary(t *testing.T) {
	// One second before and after midnight in Berlin land in different buckets
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	before := time.Date(2024, 6, 1, 23, 59, 59, 0, loc).UTC()
	after := time.Date(2024, 6, 2, 0, 0, 1, 0, loc).UTC()

	keyBefore, err := DayKey(before, "Europe/Berlin")
	if err != nil {
		t.Fatalf("DayKey() error = %v", err)
	}
	keyAfter, err := DayKey(after, "Europe/Berlin")
	if err != nil {
		t.Fatalf("DayKey() error = %v", err)
	}

	if keyBefore != "2024-06-01" || keyAfter != "2024-06-02" {
		t.Fatalf("boundary keys = %q, %q", keyBefore, keyAfter)
	}
}

func TestDayKeyDeterministic(t *testing.T) {
	instant := time.Date(2024, 11, 3, 6, 30, 0, 0, time.UTC) // DST fall-back morning in the US

	first, err := DayKey(instant, "America/Los_Angeles")
	if err != nil {
		t.Fatalf("DayKey() error = %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := DayKey(instant, "America/Los_Angeles")
		if err != nil {
			t.Fatalf("DayKey() error = %v", err)
		}
		if again != first {
			t.Fatalf("DayKey() not deterministic: %q != %q", again, first)
		}
	}
}

func TestDayKeyInvalidTimezone(t *testing.T) {
	if _, err := DayKey(time.Now(), "Not/AZone"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestYesterdayKey(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		timezone string
		want     string
	}{
		{
			"leap year",
			time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			"UTC",
			"2024-02-29",
		},
		{
			// 04:30 UTC is 00:30 EDT on March 11, the first morning after
			// the US spring-forward. The 23-hour local day means a plain
			// 24-hour subtraction would land on the 9th.
			"after spring forward",
			time.Date(2024, 3, 11, 4, 30, 0, 0, time.UTC),
			"America/New_York",
			"2024-03-10",
		},
		{
			// 05:30 UTC is 00:30 EST on November 4, the first morning after
			// the US fall-back and its 25-hour local day.
			"after fall back",
			time.Date(2024, 11, 4, 5, 30, 0, 0, time.UTC),
			"America/New_York",
			"2024-11-03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := YesterdayKey(tt.now, tt.timezone)
			if err != nil {
				t.Fatalf("YesterdayKey() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("YesterdayKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYesterdayKeyInvalidTimezone(t *testing.T) {
	if _, err := YesterdayKey(time.Now(), "Not/AZone"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestLocalizedDate(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		timezone string
		want     string
	}{
		{"utc stays put", "2024-03-14", "UTC", "03/14/2024"},
		{"ahead of utc stays put", "2024-03-14", "Asia/Tokyo", "03/14/2024"},
		// Midnight UTC is still the previous evening in New York; the client
		// has always displayed history dates this way.
		{"behind utc shifts back", "2024-03-14", "America/New_York", "03/13/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocalizedDate(tt.key, tt.timezone)
			if err != nil {
				t.Fatalf("LocalizedDate() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("LocalizedDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalizedDateErrors(t *testing.T) {
	if _, err := LocalizedDate("2024-03-14", "Not/AZone"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
	if _, err := LocalizedDate("not-a-date", "UTC"); err == nil {
		t.Fatal("expected error for malformed key")
	}
}
