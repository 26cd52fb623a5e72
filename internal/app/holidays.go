package app

import (
	"time"
)

// GetFrenchHolidays returns all public holidays in France for the given year
func GetFrenchHolidays(year int) map[string]string {
	holidays := make(map[string]string)

	// Fixed holidays
	holidays[formatDate(year, 1, 1)] = "Jour de l'an"
	holidays[formatDate(year, 5, 1)] = "Fête du Travail"
	holidays[formatDate(year, 5, 8)] = "Victoire 1945"
	holidays[formatDate(year, 7, 14)] = "Fête nationale"
	holidays[formatDate(year, 8, 15)] = "Assomption"
	holidays[formatDate(year, 11, 1)] = "Toussaint"
	holidays[formatDate(year, 11, 11)] = "Armistice"
	holidays[formatDate(year, 12, 25)] = "Noël"

	// Easter-based holidays (movable)
	easter := calculateEaster(year)

	// Lundi de Pâques (Easter Monday): Easter + 1 day
	holidays[formatDateFromTime(easter.AddDate(0, 0, 1))] = "Lundi de Pâques"

	// Ascension: Easter + 39 days
	holidays[formatDateFromTime(easter.AddDate(0, 0, 39))] = "Ascension"

	// Lundi de Pentecôte (Whit Monday): Easter + 50 days
	holidays[formatDateFromTime(easter.AddDate(0, 0, 50))] = "Lundi de Pentecôte"

	return holidays
}

// HolidayOn returns the name of the holiday falling on date, if any
func HolidayOn(date time.Time) string {
	return GetFrenchHolidays(date.Year())[formatDateFromTime(date)]
}

// calculateEaster calculates Easter Sunday using the Meeus/Jones/Butcher algorithm
func calculateEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	// Use noon to avoid timezone issues when formatting to YYYY-MM-DD
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

// formatDate formats a date as YYYY-MM-DD
func formatDate(year, month, day int) string {
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC).Format("2006-01-02")
}

// formatDateFromTime formats a time.Time as YYYY-MM-DD
func formatDateFromTime(t time.Time) string {
	return t.Format("2006-01-02")
}
