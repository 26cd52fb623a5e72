package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klabast/wb-services/menu-planer/internal/menu"
	"github.com/klabast/wb-services/menu-planer/internal/storage"
	"github.com/klabast/wb-services/menu-planer/internal/store"
)

const importFixture = "\ufeffAnnee,Semaine,Jour,Moment,Menu\n" +
	"2024,7,Lundi,Midi,Pâtes bolognaise\n" +
	"2024,7,Mardi,Soir,Crêpes\n" +
	"2024,8,Vendredi,Soir,Pizza\n"

func seed(t *testing.T, s *store.MenuStore, entries ...menu.Entry) {
	t.Helper()
	require.NoError(t, s.Save(context.Background(), menu.Table(entries)))
}

func TestImportCSVMerge(t *testing.T) {
	ctx := context.Background()
	s := store.New(storage.NewFileBackend(t.TempDir()), "menus_famille.csv", nil)
	seed(t, s,
		menu.Entry{Year: 2024, Week: 6, Day: menu.Monday, Meal: menu.Lunch, Text: "Riz"},
		menu.Entry{Year: 2024, Week: 7, Day: menu.Sunday, Meal: menu.Dinner, Text: "Ancien"},
	)

	n, err := ImportCSV(ctx, s, strings.NewReader(importFixture), false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	table, err := s.Fetch(ctx)
	require.NoError(t, err)

	text, _ := table.Lookup(2024, 6, menu.Monday, menu.Lunch)
	assert.Equal(t, "Riz", text, "weeks absent from the file are kept")
	text, _ = table.Lookup(2024, 7, menu.Sunday, menu.Dinner)
	assert.Empty(t, text, "imported weeks are replaced as a whole")
	text, _ = table.Lookup(2024, 7, menu.Tuesday, menu.Dinner)
	assert.Equal(t, "Crêpes", text)
	assert.Len(t, table.ForWeek(2024, 8), menu.CellsPerWeek)
}

func TestImportCSVReplace(t *testing.T) {
	ctx := context.Background()
	s := store.New(storage.NewFileBackend(t.TempDir()), "menus_famille.csv", nil)
	seed(t, s, menu.Entry{Year: 2024, Week: 6, Day: menu.Monday, Meal: menu.Lunch, Text: "Riz"})

	_, err := ImportCSV(ctx, s, strings.NewReader(importFixture), true)
	require.NoError(t, err)

	table, err := s.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []menu.WeekKey{{Year: 2024, Week: 8}, {Year: 2024, Week: 7}}, table.Weeks())
}

func TestImportCSVErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed file", func(t *testing.T) {
		s := store.New(storage.NewFileBackend(t.TempDir()), "menus_famille.csv", nil)
		_, err := ImportCSV(ctx, s, strings.NewReader("Annee,Semaine\n2024,x\n"), false)
		assert.Error(t, err)
	})

	t.Run("no backend", func(t *testing.T) {
		s := store.New(nil, "menus_famille.csv", nil)
		_, err := ImportCSV(ctx, s, strings.NewReader(importFixture), false)
		var se *store.SaveError
		require.ErrorAs(t, err, &se)
		assert.True(t, errors.Is(err, store.ErrDisabled))
	})
}
