package app

import (
	"github.com/klabast/wb-services/menu-planer/internal/menu"
)

// DayView is one row of a rendered week
type DayView struct {
	Day     menu.Day
	Name    string
	Date    string
	Holiday string
	Lunch   string
	Dinner  string
}

// WeekView is a week laid out Monday to Sunday
type WeekView struct {
	Key   menu.WeekKey
	Title string
	Days  []DayView
	Empty bool
	Prev  menu.WeekKey
	Next  menu.WeekKey
}

// EditView is the data of the entry form
type EditView struct {
	Week    WeekView
	Message string
	Error   string
	Enabled bool
}

// ArchiveView lists every week holding menus, most recent first
type ArchiveView struct {
	Weeks []WeekView
}

// WeekResponse is the JSON representation of a week
type WeekResponse struct {
	Year    int          `json:"year"`
	Week    int          `json:"week"`
	Entries []menu.Entry `json:"entries"`
}

// WeekRequest replaces the menus of a week. Cells left out are cleared.
type WeekRequest struct {
	Entries []struct {
		Day  menu.Day  `json:"day"`
		Meal menu.Meal `json:"meal"`
		Text string    `json:"text"`
	} `json:"entries"`
}
