package menu

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Column names of the stored table, in order
const (
	ColumnYear = "Annee"
	ColumnWeek = "Semaine"
	ColumnDay  = "Jour"
	ColumnMeal = "Moment"
	ColumnText = "Menu"
)

// Header is the header row written on every save
var Header = []string{ColumnYear, ColumnWeek, ColumnDay, ColumnMeal, ColumnText}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV decodes a stored table. Columns are matched by header name so files
// with reordered columns still load. Empty input yields an empty table.
func ReadCSV(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, nil
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	table := Table{}
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		entry, err := parseRecord(record, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		table = append(table, entry)
	}
	return table, nil
}

// WriteCSV encodes the table with the fixed header row
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range t {
		record := []string{
			strconv.Itoa(e.Year),
			strconv.Itoa(e.Week),
			e.Day.String(),
			e.Meal.String(),
			e.Text,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCSV returns the encoded table
func MarshalCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type columns struct {
	year, week, day, meal, text int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}

	var c columns
	for _, col := range []struct {
		name string
		dst  *int
	}{
		{ColumnYear, &c.year},
		{ColumnWeek, &c.week},
		{ColumnDay, &c.day},
		{ColumnMeal, &c.meal},
		{ColumnText, &c.text},
	} {
		i, ok := pos[col.name]
		if !ok {
			return columns{}, fmt.Errorf("missing column %q", col.name)
		}
		*col.dst = i
	}
	return c, nil
}

func parseRecord(record []string, c columns) (Entry, error) {
	field := func(i int) string {
		if i < len(record) {
			return record[i]
		}
		return ""
	}

	year, err := parseInt(field(c.year))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid %s: %w", ColumnYear, err)
	}
	week, err := parseInt(field(c.week))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid %s: %w", ColumnWeek, err)
	}
	day, err := ParseDay(field(c.day))
	if err != nil {
		return Entry{}, err
	}
	meal, err := ParseMeal(field(c.meal))
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Year: year,
		Week: week,
		Day:  day,
		Meal: meal,
		Text: field(c.text),
	}, nil
}

// parseInt also accepts integral floats ("2024.0"), which spreadsheet tools
// write for numeric columns that once held a blank.
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}
