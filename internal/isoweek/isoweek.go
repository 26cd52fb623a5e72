// Package isoweek maps ISO 8601 week dates to calendar dates.
package isoweek

import (
	"errors"
	"time"

	"github.com/klabast/wb-services/menu-planer/internal/menu"
)

// Placeholder is shown instead of a date that cannot be computed
const Placeholder = "??"

// Representable range of years and weeks
const (
	MinYear = 1
	MaxYear = 9999
	MinWeek = 1
	MaxWeek = 53
)

// ErrOutOfRange is returned for a year or week outside the representable range
var ErrOutOfRange = errors.New("year or week out of range")

// DateFor returns the date of day within ISO week week of year.
// The Monday of week 1 is the Monday of the week containing January 4th.
func DateFor(year, week int, day menu.Day) (time.Time, error) {
	if year < MinYear || year > MaxYear || week < MinWeek || week > MaxWeek || !day.Valid() {
		return time.Time{}, ErrOutOfRange
	}

	// Use noon to avoid timezone issues when formatting to YYYY-MM-DD
	jan4 := time.Date(year, time.January, 4, 12, 0, 0, 0, time.UTC)
	monday := jan4.AddDate(0, 0, -weekdayOffset(jan4.Weekday()))

	date := monday.AddDate(0, 0, (week-1)*7+day.Index())
	if date.Year() < MinYear || date.Year() > MaxYear {
		return time.Time{}, ErrOutOfRange
	}
	return date, nil
}

// Label formats the date of day in the given week, or returns Placeholder
func Label(year, week int, day menu.Day, layout string) string {
	date, err := DateFor(year, week, day)
	if err != nil {
		return Placeholder
	}
	return date.Format(layout)
}

// weekdayOffset is 0 for Monday ... 6 for Sunday
func weekdayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// Current returns the ISO year and week of t
func Current(t time.Time) menu.WeekKey {
	year, week := t.ISOWeek()
	return menu.WeekKey{Year: year, Week: week}
}

// WeeksInYear returns 53 for long ISO years and 52 otherwise.
// December 28th always falls in the last ISO week of its year.
func WeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 12, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// Next returns the week after k, rolling over into the next year
func Next(k menu.WeekKey) menu.WeekKey {
	if k.Week >= WeeksInYear(k.Year) {
		return menu.WeekKey{Year: k.Year + 1, Week: 1}
	}
	return menu.WeekKey{Year: k.Year, Week: k.Week + 1}
}

// Prev returns the week before k, rolling back into the previous year
func Prev(k menu.WeekKey) menu.WeekKey {
	if k.Week <= 1 {
		return menu.WeekKey{Year: k.Year - 1, Week: WeeksInYear(k.Year - 1)}
	}
	return menu.WeekKey{Year: k.Year, Week: k.Week - 1}
}
