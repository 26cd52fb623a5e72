package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/klabast/wb-services/menu-planer/internal/isoweek"
	"github.com/klabast/wb-services/menu-planer/internal/menu"
	"github.com/klabast/wb-services/menu-planer/internal/store"
)

// ServeCurrentWeek renders the current and the upcoming week
func (s *Server) ServeCurrentWeek(w http.ResponseWriter, r *http.Request) {
	table := s.store.Load(r.Context())
	current := s.currentWeek()

	data := struct {
		Title    string
		EditMode bool
		Weeks    []WeekView
	}{
		Title:    "Menus de la semaine",
		EditMode: s.editMode,
		Weeks:    []WeekView{buildWeekView(table, current), buildWeekView(table, isoweek.Next(current))},
	}
	s.render(w, "home", data)
}

// ServeWeek renders a single week
// URL: /semaine/{year}/{week}
func (s *Server) ServeWeek(w http.ResponseWriter, r *http.Request) {
	key, ok := weekFromPath(w, r)
	if !ok {
		return
	}
	table := s.store.Load(r.Context())

	data := struct {
		Title    string
		EditMode bool
		Week     WeekView
	}{
		Title:    fmt.Sprintf("Semaine %d - %d", key.Week, key.Year),
		EditMode: s.editMode,
		Week:     buildWeekView(table, key),
	}
	s.render(w, "week", data)
}

// ServeArchive renders every stored week, most recent first
func (s *Server) ServeArchive(w http.ResponseWriter, r *http.Request) {
	table := s.store.Load(r.Context())

	view := ArchiveView{}
	for _, key := range table.Weeks() {
		view.Weeks = append(view.Weeks, buildWeekView(table, key))
	}

	data := struct {
		Title    string
		EditMode bool
		Archive  ArchiveView
	}{
		Title:    "Historique",
		EditMode: s.editMode,
		Archive:  view,
	}
	s.render(w, "archive", data)
}

// GetConfig returns the application configuration
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	current := s.currentWeek()

	config := map[string]interface{}{
		"currentYear":    current.Year,
		"currentWeek":    current.Week,
		"weeksInYear":    isoweek.WeeksInYear(current.Year),
		"days":           menu.Days,
		"meals":          menu.Meals,
		"editMode":       s.editMode,
		"storageEnabled": s.store.Enabled(),
		"timezone":       s.loc.String(),
		"holidays":       GetFrenchHolidays(current.Year),
	}
	writeJSON(w, http.StatusOK, config)
}

// HandleWeeks lists the weeks holding menus, most recent first
func (s *Server) HandleWeeks(w http.ResponseWriter, r *http.Request) {
	weeks := s.store.Load(r.Context()).Weeks()
	if weeks == nil {
		weeks = []menu.WeekKey{}
	}
	writeJSON(w, http.StatusOK, weeks)
}

// HandleWeek returns the menus of one week
// URL: /api/weeks/{year}/{week}
func (s *Server) HandleWeek(w http.ResponseWriter, r *http.Request) {
	key, ok := weekFromPath(w, r)
	if !ok {
		return
	}
	table := s.store.Load(r.Context())
	writeJSON(w, http.StatusOK, WeekResponse{
		Year:    key.Year,
		Week:    key.Week,
		Entries: sortedWeekEntries(table, key),
	})
}

// UpdateWeek replaces the menus of one week (edit mode only)
// URL: PUT /api/weeks/{year}/{week}
func (s *Server) UpdateWeek(w http.ResponseWriter, r *http.Request) {
	key, ok := weekFromPath(w, r)
	if !ok {
		return
	}

	var req WeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrInvalidBody, http.StatusBadRequest)
		return
	}

	entries := make([]menu.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, menu.Entry{Year: key.Year, Week: key.Week, Day: e.Day, Meal: e.Meal, Text: e.Text})
	}

	table, err := s.store.SaveWeek(r.Context(), key.Year, key.Week, entries)
	if err != nil {
		log.Printf("Error saving week %s: %v", key, err)
		http.Error(w, ErrFailedToSave, saveStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, WeekResponse{
		Year:    key.Year,
		Week:    key.Week,
		Entries: sortedWeekEntries(table, key),
	})
}

// HandleDownload handles week exports in ICS, CSV or JSON format
// Query params: year, week (default: current week), format
func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key, ok := weekFromQuery(w, r, "year", "week", s.currentWeek())
	if !ok {
		return
	}
	entries := sortedWeekEntries(s.store.Load(r.Context()), key)

	switch r.URL.Query().Get("format") {
	case "ics":
		GenerateICS(w, key, entries, s.loc, s.now())
	case "csv":
		GenerateCSV(w, key, entries)
	case "json":
		GenerateJSON(w, key, entries)
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
	}
}

// HandleSubscribe serves a calendar feed with menus from the previous week onwards
func (s *Server) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	from := isoweek.Prev(s.currentWeek())
	table := s.store.Load(r.Context()).Filter(func(e menu.Entry) bool {
		return !e.WeekKey().Less(from)
	})

	var entries []menu.Entry
	for _, key := range table.Weeks() {
		entries = append(entries, sortedWeekEntries(table, key)...)
	}
	GenerateSubscriptionICS(w, entries, s.loc, s.now())
}

// ServeEdit renders the entry form for a week
// Query params: annee, semaine (default: current week)
func (s *Server) ServeEdit(w http.ResponseWriter, r *http.Request) {
	key, ok := weekFromQuery(w, r, "annee", "semaine", s.currentWeek())
	if !ok {
		return
	}
	table := s.store.Load(r.Context())

	view := EditView{
		Week:    buildWeekView(table, key),
		Enabled: s.store.Enabled(),
	}
	s.renderEdit(w, http.StatusOK, view)
}

// SubmitEdit saves the entry form of a week
func (s *Server) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidBody, http.StatusBadRequest)
		return
	}
	key, msg, ok := parseWeek(r.PostForm.Get("annee"), r.PostForm.Get("semaine"))
	if !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	values := make(map[menu.Cell]string, menu.CellsPerWeek)
	for _, c := range menu.Cells() {
		values[c] = strings.TrimSpace(r.PostForm.Get(cellField(c.Day, c.Meal)))
	}
	entries := menu.WeekEntries(key.Year, key.Week, values)

	table, err := s.store.SaveWeek(r.Context(), key.Year, key.Week, entries)
	if err != nil {
		log.Printf("Error saving week %s: %v", key, err)
		view := EditView{
			Week:    buildWeekView(menu.Table(entries), key),
			Error:   fmt.Sprintf("%s : %v", ErrFailedToSave, err),
			Enabled: s.store.Enabled(),
		}
		s.renderEdit(w, saveStatus(err), view)
		return
	}

	log.Printf("✅ Menus saved for week %s", key)
	view := EditView{
		Week:    buildWeekView(table, key),
		Message: fmt.Sprintf("Menus de la semaine %d enregistrés !", key.Week),
		Enabled: s.store.Enabled(),
	}
	s.renderEdit(w, http.StatusOK, view)
}

func (s *Server) renderEdit(w http.ResponseWriter, status int, view EditView) {
	data := struct {
		Title    string
		EditMode bool
		Edit     EditView
	}{
		Title:    "Saisie des menus",
		EditMode: s.editMode,
		Edit:     view,
	}
	s.renderStatus(w, status, "edit", data)
}

// saveStatus maps a save failure to an HTTP status
func saveStatus(err error) int {
	if errors.Is(err, store.ErrDisabled) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}
