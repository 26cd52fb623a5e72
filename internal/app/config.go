package app

import (
	"time"

	"github.com/klabast/wb-services/menu-planer/internal/menu"
)

// Constants
const (
	// Error messages
	ErrEditModeDisabled     = "Edit mode disabled"
	ErrInvalidYear          = "Invalid year"
	ErrInvalidWeek          = "Invalid week"
	ErrInvalidFormat        = "Invalid format"
	ErrInvalidBody          = "Invalid request body"
	ErrInternalServer       = "Internal server error"
	ErrFailedToSave         = "Failed to save menus"
	ErrFailedToGenerateJSON = "Failed to generate JSON"

	// Mode strings
	ModeServe = "serve"
	ModeEdit  = "edit"

	// ICS constants
	ICSProductID = "-//Famille//Menus//FR"
	ICSDomain    = "menus.famille"

	// UI strings
	TextNothingPlanned = "Rien de prévu"
	TextWeekEmpty      = "Aucun menu renseigné pour cette semaine."
	TextArchiveEmpty   = "L'historique est vide."

	// DateLabelLayout formats day labels in the week views
	DateLabelLayout = "02/01"
)

// Meal times used for calendar exports
var mealTimes = map[menu.Meal]struct {
	Hour     int
	Duration time.Duration
}{
	menu.Lunch:  {Hour: 12, Duration: time.Hour},
	menu.Dinner: {Hour: 19, Duration: time.Hour},
}
