package menu

import (
	"fmt"
	"strings"
)

// Day is a day of the week, Monday first
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Days lists all days in display order (Monday to Sunday)
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = [...]string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}

// String returns the stored day name (Lundi ... Dimanche)
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Index returns the ISO offset of the day within its week (0 for Monday)
func (d Day) Index() int {
	return int(d)
}

// MarshalText encodes the day by its stored name
func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid day %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a stored day name
func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Valid reports whether d is one of the seven days
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// ParseDay parses a stored day name
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	for i, name := range dayNames {
		if name == s {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// Meal is the moment of the day a menu is planned for
type Meal int

const (
	Lunch Meal = iota
	Dinner
)

// Meals lists both meals in display order
var Meals = []Meal{Lunch, Dinner}

var mealNames = [...]string{"Midi", "Soir"}

// String returns the stored meal name (Midi or Soir)
func (m Meal) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Meal(%d)", int(m))
	}
	return mealNames[m]
}

func (m Meal) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid meal %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Meal) UnmarshalText(b []byte) error {
	parsed, err := ParseMeal(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Valid reports whether m is Lunch or Dinner
func (m Meal) Valid() bool {
	return m == Lunch || m == Dinner
}

// ParseMeal parses a stored meal name
func ParseMeal(s string) (Meal, error) {
	s = strings.TrimSpace(s)
	for i, name := range mealNames {
		if name == s {
			return Meal(i), nil
		}
	}
	return 0, fmt.Errorf("unknown meal %q", s)
}

// CellsPerWeek is the number of (day, meal) cells in a full week
const CellsPerWeek = 7 * 2

// Entry is one planned meal
type Entry struct {
	Year int    `json:"year"`
	Week int    `json:"week"`
	Day  Day    `json:"day"`
	Meal Meal   `json:"meal"`
	Text string `json:"text"`
}

// Key identifies an entry within the table
type Key struct {
	Year int
	Week int
	Day  Day
	Meal Meal
}

// Key returns the natural key of the entry
func (e Entry) Key() Key {
	return Key{Year: e.Year, Week: e.Week, Day: e.Day, Meal: e.Meal}
}

// WeekKey identifies an ISO week
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// WeekKey returns the week the entry belongs to
func (e Entry) WeekKey() WeekKey {
	return WeekKey{Year: e.Year, Week: e.Week}
}

// Less orders week keys chronologically
func (k WeekKey) Less(other WeekKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Week < other.Week
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}
