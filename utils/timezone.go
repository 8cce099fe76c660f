package utils

import (
	"fmt"
	"time"
)

// DayKeyLayout is the canonical habit bucket key format. Keys sort
// lexicographically in chronological order.
const DayKeyLayout = "2006-01-02"

// LocalizedDateLayout matches the en-US short date the mobile client renders.
const LocalizedDateLayout = "01/02/2006"

// DayKey returns the calendar date of instant as seen from the given IANA
// timezone, e.g. ("2024-03-14T23:30:00Z", "Asia/Tokyo") -> "2024-03-15".
// Two instants map to the same key iff they fall on the same wall-clock day
// in that zone. Pure function of its inputs.
func DayKey(instant time.Time, timezone string) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	return instant.In(loc).Format(DayKeyLayout), nil
}

// YesterdayKey returns the bucket key for the calendar day before now in the
// given timezone. The rollover sweep uses this so its bucket matches the one
// a client-side increment would have produced for the same day. The step back
// is one calendar date in the zone, not 24 hours of absolute time: local days
// around DST transitions are 23 or 25 hours long, and shortly after a
// spring-forward midnight a 24-hour subtraction lands two dates back.
func YesterdayKey(now time.Time, timezone string) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	d := now.In(loc)
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, -1).Format(DayKeyLayout), nil
}

// LocalizedDate renders a bucket key for display in the caller's timezone.
// The key is reinterpreted as midnight UTC and shifted into the query-time
// zone, which is how the mobile client has always displayed history dates.
func LocalizedDate(key string, timezone string) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	day, err := time.Parse(DayKeyLayout, key)
	if err != nil {
		return "", fmt.Errorf("malformed day key %q: %w", key, err)
	}
	return day.In(loc).Format(LocalizedDateLayout), nil
}
