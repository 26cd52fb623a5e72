package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/klabast/wb-services/menu-planer/internal/app"
	"github.com/klabast/wb-services/menu-planer/internal/commands"
	"github.com/klabast/wb-services/menu-planer/internal/config"
	"github.com/klabast/wb-services/menu-planer/internal/storage"
	"github.com/klabast/wb-services/menu-planer/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Check for subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "hash-password":
			commands.HashPassword(os.Args[2:])
			return
		case "import":
			commands.Import(os.Args[2:])
			return
		}
	}

	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "Port to listen on (overrides PORT)")
	editMode := flag.Bool("edit", false, "Enable edit mode (default is serve mode)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *editMode {
		cfg.EditMode = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load and validate auth credentials (if edit mode)
	var auth *app.Auth
	if cfg.EditMode {
		authFile, err := app.ResolveAuthFile(cfg.AuthFile)
		if err != nil {
			log.Fatalf("Failed to resolve auth file: %v", err)
		}
		auth, err = app.LoadAuth(authFile)
		if err != nil {
			log.Fatalf("Failed to load auth credentials: %v", err)
		}
	}

	backend, closer, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closer.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	menus := store.New(backend, cfg.Storage.Path, store.NewMetrics(registry, "menu_planer"))

	srv, err := app.NewServer(app.Options{
		Store:    menus,
		EditMode: cfg.EditMode,
		Auth:     auth,
		Location: cfg.Location(),
		Gatherer: registry,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Starting menu planner in %s mode on http://localhost:%d", srv.Mode(), cfg.Port)
	log.Printf("Menus file: %s (backend: %s)", cfg.Storage.Path, backendName(cfg.Storage.Backend))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func backendName(b string) string {
	if b == config.BackendNone {
		return "none"
	}
	return b
}
