package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klabast/wb-services/menu-planer/internal/config"
	"github.com/klabast/wb-services/menu-planer/internal/menu"
	"github.com/klabast/wb-services/menu-planer/internal/storage"
	"github.com/klabast/wb-services/menu-planer/internal/store"
)

// importTimeout bounds the whole import, remote backends included
const importTimeout = 2 * time.Minute

// Import handles the import subcommand
func Import(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	replace := fs.Bool("replace", false, "Replace the whole stored table instead of merging week by week")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: menu-planer import [OPTIONS] FILE.csv\n\n")
		fmt.Fprintf(os.Stderr, "Saves the menus of a CSV file through the configured storage backend.\n")
		fmt.Fprintf(os.Stderr, "Weeks present in the file replace the stored ones; other weeks are kept.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	backend, closer, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	s := store.New(backend, cfg.Storage.Path, nil)
	n, err := ImportCSV(ctx, s, f, *replace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Imported %d weeks from %s\n", n, fs.Arg(0))
}

// ImportCSV reads a table from r and saves it through s. Unless replace is
// set, each week of the file replaces the stored week and the rest is kept.
// It returns the number of imported weeks.
func ImportCSV(ctx context.Context, s *store.MenuStore, r io.Reader, replace bool) (int, error) {
	incoming, err := menu.ReadCSV(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV: %w", err)
	}
	weeks := incoming.Weeks()

	table := menu.Table{}
	if !replace {
		table, err = s.Fetch(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to read stored menus: %w", err)
		}
	}
	for _, k := range weeks {
		table = s.ReplaceWeek(table, k.Year, k.Week, incoming.ForWeek(k.Year, k.Week))
	}

	if err := s.Save(ctx, table); err != nil {
		return 0, err
	}
	return len(weeks), nil
}
