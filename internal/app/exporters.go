package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/klabast/wb-services/menu-planer/internal/isoweek"
	"github.com/klabast/wb-services/menu-planer/internal/menu"
)

// icsUTCLayout formats DATE-TIME values in UTC, which needs no VTIMEZONE
const icsUTCLayout = "20060102T150405Z"

// uidNamespace derives stable event UIDs so calendar clients update in place
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte(ICSDomain))

// writeString writes to w and logs any error (helper for ICS generation)
func writeString(w io.Writer, s string) {
	if _, err := fmt.Fprint(w, s); err != nil {
		log.Printf("Error writing to response: %v", err)
	}
}

// eventUID returns the UID of the calendar event of an entry
func eventUID(e menu.Entry) string {
	name := fmt.Sprintf("%d-%02d-%s-%s", e.Year, e.Week, e.Day, e.Meal)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@" + ICSDomain
}

// escapeICS escapes text values (RFC 5545 3.3.11)
func escapeICS(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)
	return r.Replace(s)
}

// writeEvents writes one VEVENT per planned meal. Meal times are taken in
// loc and written in UTC.
func writeEvents(w io.Writer, entries []menu.Entry, loc *time.Location, stamp time.Time) {
	for _, e := range entries {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		date, err := isoweek.DateFor(e.Year, e.Week, e.Day)
		if err != nil {
			continue
		}
		slot, ok := mealTimes[e.Meal]
		if !ok {
			continue
		}
		start := time.Date(date.Year(), date.Month(), date.Day(), slot.Hour, 0, 0, 0, loc)
		end := start.Add(slot.Duration)

		writeString(w, "BEGIN:VEVENT\r\n")
		writeString(w, "UID:"+eventUID(e)+"\r\n")
		writeString(w, "DTSTAMP:"+stamp.UTC().Format(icsUTCLayout)+"\r\n")
		writeString(w, "DTSTART:"+start.UTC().Format(icsUTCLayout)+"\r\n")
		writeString(w, "DTEND:"+end.UTC().Format(icsUTCLayout)+"\r\n")
		writeString(w, "SUMMARY:"+escapeICS(e.Text)+"\r\n")
		writeString(w, fmt.Sprintf("DESCRIPTION:%s %s\r\n", e.Day, strings.ToLower(e.Meal.String())))
		writeString(w, "END:VEVENT\r\n")
	}
}

func writeCalendarHeader(w io.Writer, name string, loc *time.Location) {
	writeString(w, "BEGIN:VCALENDAR\r\n")
	writeString(w, "VERSION:2.0\r\n")
	writeString(w, "PRODID:"+ICSProductID+"\r\n")
	writeString(w, "X-WR-CALNAME:"+escapeICS(name)+"\r\n")
	writeString(w, "X-WR-TIMEZONE:"+loc.String()+"\r\n")
	writeString(w, "CALSCALE:GREGORIAN\r\n")
}

func exportName(key menu.WeekKey, ext string) string {
	return fmt.Sprintf("menus_%d_S%02d.%s", key.Year, key.Week, ext)
}

// GenerateICS writes the menus of one week as an iCalendar attachment
func GenerateICS(w http.ResponseWriter, key menu.WeekKey, entries []menu.Entry, loc *time.Location, now time.Time) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportName(key, "ics"))

	writeCalendarHeader(w, fmt.Sprintf("Menus semaine %d (%d)", key.Week, key.Year), loc)
	writeEvents(w, entries, loc, now)
	writeString(w, "END:VCALENDAR\r\n")
}

// GenerateCSV writes the menus of one week in the storage CSV layout
func GenerateCSV(w http.ResponseWriter, key menu.WeekKey, entries []menu.Entry) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportName(key, "csv"))

	if err := menu.WriteCSV(w, menu.Table(entries)); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}

// GenerateJSON writes the menus of one week as a JSON attachment
func GenerateJSON(w http.ResponseWriter, key menu.WeekKey, entries []menu.Entry) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportName(key, "json"))

	data := WeekResponse{Year: key.Year, Week: key.Week, Entries: entries}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON export: %v", err)
		http.Error(w, ErrFailedToGenerateJSON, http.StatusInternalServerError)
	}
}

// GenerateSubscriptionICS writes an inline feed for calendar subscriptions.
// Calendar apps need METHOD:PUBLISH and no attachment header.
func GenerateSubscriptionICS(w http.ResponseWriter, entries []menu.Entry, loc *time.Location, now time.Time) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")

	writeCalendarHeader(w, "Menus de la famille", loc)
	writeString(w, "METHOD:PUBLISH\r\n")
	writeString(w, "X-PUBLISHED-TTL:PT1H\r\n")
	writeEvents(w, entries, loc, now)
	writeString(w, "END:VCALENDAR\r\n")
}
