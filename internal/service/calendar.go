package service

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/internal/model"
)

// dayBounds returns [midnight, next midnight) of the calendar day containing t
// in loc.
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// parseDay reads a YYYY-MM-DD key as a calendar day in loc. An empty key
// means the current day.
func parseDay(key string, now time.Time, loc *time.Location) (time.Time, error) {
	if key == "" {
		return now.In(loc), nil
	}
	t, err := time.ParseInLocation(model.DateLayout, key, loc)
	if err != nil {
		return time.Time{}, apperror.NewValidation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", key)).
			WithDetail("date", key)
	}
	return t, nil
}

const maxWindowDays = 366

var windowPattern = regexp.MustCompile(`^([0-9]{1,3})days$`)

// windowDays turns a window name into a day count: "" and "daily" are one day,
// "range" is defaultDays and "<N>days" is N.
func windowDays(window string, defaultDays int) (int, error) {
	switch window {
	case "", "daily":
		return 1, nil
	case "range":
		return defaultDays, nil
	}
	m := windowPattern.FindStringSubmatch(window)
	if m == nil {
		return 0, apperror.NewValidation(fmt.Sprintf("invalid window %q", window)).WithDetail("window", window)
	}
	n, _ := strconv.Atoi(m[1])
	if n < 1 || n > maxWindowDays {
		return 0, apperror.NewValidation(fmt.Sprintf("window must be between 1 and %d days", maxWindowDays)).
			WithDetail("window", window)
	}
	return n, nil
}
