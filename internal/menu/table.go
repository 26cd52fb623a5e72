package menu

import (
	"sort"
	"strings"
)

// Table is the full collection of planned meals. Row order carries no meaning.
type Table []Entry

// Cell addresses one (day, meal) slot of a week
type Cell struct {
	Day  Day
	Meal Meal
}

// Cells returns the 14 cells of a week, Monday lunch first
func Cells() []Cell {
	cells := make([]Cell, 0, CellsPerWeek)
	for _, d := range Days {
		for _, m := range Meals {
			cells = append(cells, Cell{Day: d, Meal: m})
		}
	}
	return cells
}

// lineBreaks folds CRLF and lone CR into LF. The CSV reader does the same to
// quoted fields, so stored text must already use LF to read back unchanged.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeText returns menu text in its stored form
func NormalizeText(s string) string {
	return lineBreaks.Replace(s)
}

// WeekEntries builds the full grid of 14 entries for a week. Cells missing
// from values get an empty text.
func WeekEntries(year, week int, values map[Cell]string) []Entry {
	entries := make([]Entry, 0, CellsPerWeek)
	for _, c := range Cells() {
		entries = append(entries, Entry{
			Year: year,
			Week: week,
			Day:  c.Day,
			Meal: c.Meal,
			Text: NormalizeText(values[c]),
		})
	}
	return entries
}

// ReplaceWeek returns a new table where every entry of (year, week) is
// replaced by entries. Entries are normalized to the full 14-cell grid of
// that week; when a cell appears twice the last one wins. t is not modified.
func (t Table) ReplaceWeek(year, week int, entries []Entry) Table {
	values := make(map[Cell]string, CellsPerWeek)
	for _, e := range entries {
		if !e.Day.Valid() || !e.Meal.Valid() {
			continue
		}
		values[Cell{Day: e.Day, Meal: e.Meal}] = e.Text
	}

	out := make(Table, 0, len(t)+CellsPerWeek)
	for _, e := range t {
		if e.Year == year && e.Week == week {
			continue
		}
		out = append(out, e)
	}
	return append(out, WeekEntries(year, week, values)...)
}

// Filter returns the entries matching pred
func (t Table) Filter(pred func(Entry) bool) Table {
	var out Table
	for _, e := range t {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// ForWeek returns the entries of one week
func (t Table) ForWeek(year, week int) Table {
	return t.Filter(func(e Entry) bool {
		return e.Year == year && e.Week == week
	})
}

// Lookup returns the text planned for a cell. ok is false when no row exists.
func (t Table) Lookup(year, week int, day Day, meal Meal) (text string, ok bool) {
	for _, e := range t {
		if e.Year == year && e.Week == week && e.Day == day && e.Meal == meal {
			return e.Text, true
		}
	}
	return "", false
}

// Weeks returns the distinct weeks present in the table, most recent first
func (t Table) Weeks() []WeekKey {
	seen := make(map[WeekKey]bool)
	var weeks []WeekKey
	for _, e := range t {
		k := e.WeekKey()
		if seen[k] {
			continue
		}
		seen[k] = true
		weeks = append(weeks, k)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[j].Less(weeks[i])
	})
	return weeks
}

// Pivot is a week laid out as day rows and meal columns
type Pivot struct {
	Year  int
	Week  int
	cells [7][2]string
	empty bool
}

// Pivot lays out one week of the table as a day x meal grid. Like Lookup,
// the first row of a duplicated cell wins.
func (t Table) Pivot(year, week int) Pivot {
	p := Pivot{Year: year, Week: week, empty: true}
	var seen [7][2]bool
	for _, e := range t {
		if e.Year != year || e.Week != week || !e.Day.Valid() || !e.Meal.Valid() {
			continue
		}
		p.empty = false
		if seen[e.Day][e.Meal] {
			continue
		}
		seen[e.Day][e.Meal] = true
		p.cells[e.Day][e.Meal] = e.Text
	}
	return p
}

// Get returns the text of a cell, empty when nothing is planned
func (p Pivot) Get(day Day, meal Meal) string {
	if !day.Valid() || !meal.Valid() {
		return ""
	}
	return p.cells[day][meal]
}

// Empty reports whether the week has no rows at all
func (p Pivot) Empty() bool {
	return p.empty
}

// Clone returns a copy of the table
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}
