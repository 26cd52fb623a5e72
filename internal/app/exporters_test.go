package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klabast/wb-services/menu-planer/internal/menu"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%s) failed: %v", name, err)
	}
	return loc
}

func sampleEntries() []menu.Entry {
	return []menu.Entry{
		{Year: 2024, Week: 7, Day: menu.Monday, Meal: menu.Lunch, Text: "Pâtes, sauce; tomate"},
		{Year: 2024, Week: 7, Day: menu.Monday, Meal: menu.Dinner, Text: ""},
		{Year: 2024, Week: 7, Day: menu.Sunday, Meal: menu.Dinner, Text: "Soupe"},
	}
}

func TestGenerateICS(t *testing.T) {
	loc := mustLocation(t, "Europe/Paris")
	now := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)
	w := httptest.NewRecorder()

	GenerateICS(w, menu.WeekKey{Year: 2024, Week: 7}, sampleEntries(), loc, now)

	resp := w.Result()
	body := w.Body.String()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/calendar") {
		t.Errorf("Expected Content-Type text/calendar, got %s", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "menus_2024_S07.ics") {
		t.Errorf("Unexpected Content-Disposition: %s", cd)
	}

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ICSProductID,
		"X-WR-TIMEZONE:Europe/Paris",
		"DTSTAMP:20240210T080000Z",
		"DTSTART:20240212T110000Z",
		"DTEND:20240212T120000Z",
		"DTSTART:20240218T180000Z",
		`SUMMARY:Pâtes\, sauce\; tomate`,
		"SUMMARY:Soupe",
		"DESCRIPTION:Dimanche soir",
		"END:VCALENDAR",
	}
	for _, field := range requiredFields {
		if !strings.Contains(body, field) {
			t.Errorf("ICS output missing required field: %s", field)
		}
	}

	// UTC times need no VTIMEZONE component
	if strings.Contains(body, "TZID=") {
		t.Error("ICS output should not reference a TZID without VTIMEZONE")
	}

	// Empty cells are not exported
	if n := strings.Count(body, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("Expected 2 events, got %d", n)
	}
}

func TestGenerateICSSummerTime(t *testing.T) {
	loc := mustLocation(t, "Europe/Paris")
	w := httptest.NewRecorder()

	// 2024-W27 Monday is 2024-07-01, Paris is UTC+2
	entries := []menu.Entry{{Year: 2024, Week: 27, Day: menu.Monday, Meal: menu.Dinner, Text: "Salade"}}
	GenerateICS(w, menu.WeekKey{Year: 2024, Week: 27}, entries, loc, time.Date(2024, 6, 30, 8, 0, 0, 0, time.UTC))

	body := w.Body.String()
	for _, want := range []string{"DTSTART:20240701T170000Z", "DTEND:20240701T180000Z"} {
		if !strings.Contains(body, want) {
			t.Errorf("ICS output missing %s", want)
		}
	}
}

func TestEventUIDStable(t *testing.T) {
	e := menu.Entry{Year: 2024, Week: 7, Day: menu.Monday, Meal: menu.Lunch, Text: "Pâtes"}
	changed := e
	changed.Text = "Riz"
	other := e
	other.Meal = menu.Dinner

	if eventUID(e) != eventUID(changed) {
		t.Error("UID should not depend on the menu text")
	}
	if eventUID(e) == eventUID(other) {
		t.Error("Different cells should have different UIDs")
	}
	if !strings.HasSuffix(eventUID(e), "@"+ICSDomain) {
		t.Errorf("UID should end with @%s, got %s", ICSDomain, eventUID(e))
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Soupe", "Soupe"},
		{"a,b", `a\,b`},
		{"a;b", `a\;b`},
		{`a\b`, `a\\b`},
		{"a\nb", `a\nb`},
	}
	for _, tt := range tests {
		if got := escapeICS(tt.in); got != tt.want {
			t.Errorf("escapeICS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateCSV(t *testing.T) {
	w := httptest.NewRecorder()
	GenerateCSV(w, menu.WeekKey{Year: 2024, Week: 7}, sampleEntries())

	resp := w.Result()
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Errorf("Expected Content-Type text/csv, got %s", ct)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d lines", len(lines))
	}
	if strings.TrimSpace(lines[0]) != "Annee,Semaine,Jour,Moment,Menu" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], `2024,7,Lundi,Midi,"Pâtes, sauce; tomate"`) {
		t.Errorf("Unexpected first row: %s", lines[1])
	}
}

func TestGenerateJSON(t *testing.T) {
	w := httptest.NewRecorder()
	GenerateJSON(w, menu.WeekKey{Year: 2024, Week: 7}, sampleEntries())

	var got WeekResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if got.Year != 2024 || got.Week != 7 || len(got.Entries) != 3 {
		t.Errorf("Unexpected JSON export: %+v", got)
	}
	if got.Entries[2].Day != menu.Sunday || got.Entries[2].Meal != menu.Dinner {
		t.Errorf("Day and meal should round-trip, got %+v", got.Entries[2])
	}
	if !strings.Contains(w.Body.String(), `"day":"Lundi"`) {
		t.Errorf("Days should be serialized by name: %s", w.Body.String())
	}
}
