package app

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/klabast/wb-services/menu-planer/internal/isoweek"
	"github.com/klabast/wb-services/menu-planer/internal/menu"
)

// RequireEditMode rejects requests unless edit mode is enabled
func (s *Server) RequireEditMode(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.editMode {
			http.Error(w, ErrEditModeDisabled, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseWeek validates a year and ISO week number
func parseWeek(yearStr, weekStr string) (menu.WeekKey, string, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(yearStr))
	if err != nil || year < isoweek.MinYear || year > isoweek.MaxYear {
		return menu.WeekKey{}, ErrInvalidYear, false
	}
	week, err := strconv.Atoi(strings.TrimSpace(weekStr))
	if err != nil || week < isoweek.MinWeek || week > isoweek.MaxWeek {
		return menu.WeekKey{}, ErrInvalidWeek, false
	}
	return menu.WeekKey{Year: year, Week: week}, "", true
}

// weekFromPath reads {year} and {week} URL parameters
func weekFromPath(w http.ResponseWriter, r *http.Request) (menu.WeekKey, bool) {
	key, msg, ok := parseWeek(chi.URLParam(r, "year"), chi.URLParam(r, "week"))
	if !ok {
		http.Error(w, msg, http.StatusBadRequest)
	}
	return key, ok
}

// weekFromQuery reads year and week query parameters, defaulting to def
func weekFromQuery(w http.ResponseWriter, r *http.Request, yearParam, weekParam string, def menu.WeekKey) (menu.WeekKey, bool) {
	q := r.URL.Query()
	yearStr, weekStr := q.Get(yearParam), q.Get(weekParam)
	if yearStr == "" && weekStr == "" {
		return def, true
	}
	if yearStr == "" {
		yearStr = strconv.Itoa(def.Year)
	}
	if weekStr == "" {
		weekStr = strconv.Itoa(def.Week)
	}
	key, msg, ok := parseWeek(yearStr, weekStr)
	if !ok {
		http.Error(w, msg, http.StatusBadRequest)
	}
	return key, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// currentWeek returns the ISO week of today in the configured time zone
func (s *Server) currentWeek() menu.WeekKey {
	return isoweek.Current(s.now().In(s.loc))
}

// buildWeekView lays out one week of table
func buildWeekView(table menu.Table, key menu.WeekKey) WeekView {
	pivot := table.Pivot(key.Year, key.Week)
	view := WeekView{
		Key:   key,
		Title: "Semaine " + strconv.Itoa(key.Week) + " (" + strconv.Itoa(key.Year) + ")",
		Empty: pivot.Empty(),
		Prev:  isoweek.Prev(key),
		Next:  isoweek.Next(key),
	}
	for _, d := range menu.Days {
		row := DayView{
			Day:    d,
			Name:   d.String(),
			Date:   isoweek.Label(key.Year, key.Week, d, DateLabelLayout),
			Lunch:  pivot.Get(d, menu.Lunch),
			Dinner: pivot.Get(d, menu.Dinner),
		}
		if date, err := isoweek.DateFor(key.Year, key.Week, d); err == nil {
			row.Holiday = HolidayOn(date)
		}
		view.Days = append(view.Days, row)
	}
	return view
}

// sortedWeekEntries returns the rows of a week in Monday-lunch-first order
func sortedWeekEntries(table menu.Table, key menu.WeekKey) []menu.Entry {
	entries := []menu.Entry{}
	for _, c := range menu.Cells() {
		if text, ok := table.Lookup(key.Year, key.Week, c.Day, c.Meal); ok {
			entries = append(entries, menu.Entry{Year: key.Year, Week: key.Week, Day: c.Day, Meal: c.Meal, Text: text})
		}
	}
	return entries
}

// cellField is the form field name of a cell, e.g. "Lundi-Midi"
func cellField(day menu.Day, meal menu.Meal) string {
	return day.String() + "-" + meal.String()
}
