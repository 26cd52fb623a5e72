package app

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/klabast/wb-services/menu-planer/internal/menu"
)

// MenuStore is what the web layer needs from the store
type MenuStore interface {
	Load(ctx context.Context) menu.Table
	SaveWeek(ctx context.Context, year, week int, entries []menu.Entry) (menu.Table, error)
	Enabled() bool
}

// Options configure a Server
type Options struct {
	Store    MenuStore
	EditMode bool
	// Auth protects edit routes. nil leaves them open.
	Auth     *Auth
	Location *time.Location
	// Gatherer backs /metrics. nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Now      func() time.Time
}

// Server serves the menu views, the JSON API and the exports
type Server struct {
	store     MenuStore
	editMode  bool
	auth      *Auth
	loc       *time.Location
	gatherer  prometheus.Gatherer
	now       func() time.Time
	templates *template.Template
}

func NewServer(opts Options) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:     opts.Store,
		editMode:  opts.EditMode,
		auth:      opts.Auth,
		loc:       opts.Location,
		gatherer:  opts.Gatherer,
		now:       opts.Now,
		templates: tmpl,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Mode returns ModeEdit or ModeServe
func (s *Server) Mode() string {
	if s.editMode {
		return ModeEdit
	}
	return ModeServe
}

// Routes builds the HTTP router
func (s *Server) Routes() http.Handler {
	// Edit mode routes (protected with Basic Auth)
	editOnly := chi.Middlewares{s.RequireEditMode, s.auth.Require}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.ServeCurrentWeek)
	r.Get("/semaine/{year}/{week}", s.ServeWeek)
	r.Get("/historique", s.ServeArchive)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.GetConfig)
		r.Get("/weeks", s.HandleWeeks)
		r.Get("/weeks/{year}/{week}", s.HandleWeek)
		r.Get("/download", s.HandleDownload)
		r.Get("/subscribe", s.HandleSubscribe)

		r.Group(func(r chi.Router) {
			r.Use(editOnly...)
			r.Put("/weeks/{year}/{week}", s.UpdateWeek)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(editOnly...)
		r.Get("/saisie", s.ServeEdit)
		r.Post("/saisie", s.SubmitEdit)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}
