package menu

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	table := sampleTable()
	table = table.ReplaceWeek(2024, 8, WeekEntries(2024, 8, map[Cell]string{
		{Monday, Lunch}:  `Quiche "lorraine", salade`,
		{Monday, Dinner}: "ligne 1\nligne 2",
		{Tuesday, Lunch}: "Entrée\r\nPlat",
		{Friday, Dinner}: "a\rb",
	}))
	text, _ := table.Lookup(2024, 8, Tuesday, Lunch)
	assert.Equal(t, "Entrée\nPlat", text)

	data, err := MarshalCSV(table)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Annee,Semaine,Jour,Moment,Menu\n"))

	got, err := ReadCSV(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.ElementsMatch(t, table, got)
}

func TestReadCSV(t *testing.T) {
	input := "Annee,Semaine,Jour,Moment,Menu\n" +
		"2024,7,Lundi,Midi,Pâtes bolognaise\n" +
		"2024,7,Lundi,Soir,\n" +
		"2024.0,7.0,Dimanche,Soir,Crêpes\n"

	got, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Table{
		{Year: 2024, Week: 7, Day: Monday, Meal: Lunch, Text: "Pâtes bolognaise"},
		{Year: 2024, Week: 7, Day: Monday, Meal: Dinner, Text: ""},
		{Year: 2024, Week: 7, Day: Sunday, Meal: Dinner, Text: "Crêpes"},
	}, got)
}

func TestReadCSVReorderedColumnsAndBOM(t *testing.T) {
	input := "\xEF\xBB\xBFMenu,Moment,Jour,Semaine,Annee\nSoupe,Soir,Mardi,3,2025\n"

	got, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Table{{Year: 2025, Week: 3, Day: Tuesday, Meal: Dinner, Text: "Soupe"}}, got)
}

func TestReadCSVEmpty(t *testing.T) {
	for _, input := range []string{"", "  \n", "Annee,Semaine,Jour,Moment,Menu\n"} {
		got, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestReadCSVMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing column", "Annee,Semaine,Jour,Menu\n2024,7,Lundi,x\n"},
		{"bad year", "Annee,Semaine,Jour,Moment,Menu\nabc,7,Lundi,Midi,x\n"},
		{"fractional week", "Annee,Semaine,Jour,Moment,Menu\n2024,7.5,Lundi,Midi,x\n"},
		{"bad day", "Annee,Semaine,Jour,Moment,Menu\n2024,7,Monday,Midi,x\n"},
		{"bad meal", "Annee,Semaine,Jour,Moment,Menu\n2024,7,Lundi,Matin,x\n"},
		{"bad quoting", "Annee,Semaine,Jour,Moment,Menu\n2024,7,Lundi,Midi,\"x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestEntryJSON(t *testing.T) {
	e := Entry{Year: 2024, Week: 7, Day: Wednesday, Meal: Dinner, Text: "Soupe"}
	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2024,"week":7,"day":"Mercredi","meal":"Soir","text":"Soupe"}`, string(data))

	var back Entry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, e, back)
}
