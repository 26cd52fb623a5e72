// Package store keeps the menu table in a backing resource.
//
// The whole table is read on every Load and rewritten on every Save. Nothing
// is cached between calls; two concurrent writers resolve as last-writer-wins.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/klabast/wb-services/menu-planer/internal/menu"
	"github.com/klabast/wb-services/menu-planer/internal/storage"
)

// ErrDisabled is the cause of every save on a store without backend
var ErrDisabled = errors.New("no storage backend configured")

// Store loads and saves the full menu table
type Store interface {
	Load(ctx context.Context) menu.Table
	Save(ctx context.Context, t menu.Table) error
}

// SaveError reports a failed save. The previous content is left untouched.
type SaveError struct {
	Path string
	Op   string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save menus (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// MenuStore is a Store over a storage.Backend
type MenuStore struct {
	backend storage.Backend
	path    string
	metrics *Metrics
}

// New returns a store reading and writing path on backend. A nil backend
// yields a disabled store: Load returns an empty table and Save fails with
// ErrDisabled. metrics may be nil.
func New(backend storage.Backend, path string, metrics *Metrics) *MenuStore {
	return &MenuStore{backend: backend, path: path, metrics: metrics}
}

// Enabled reports whether a backend is configured
func (s *MenuStore) Enabled() bool {
	return s.backend != nil
}

// Load fetches the current table. A missing, unreadable or malformed
// resource yields an empty table.
func (s *MenuStore) Load(ctx context.Context) menu.Table {
	table, err := s.Fetch(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load menus from %s: %v", s.path, err)
		return menu.Table{}
	}
	return table
}

// Fetch is Load without the fallback: a missing resource is an empty table,
// but read and parse failures are returned.
func (s *MenuStore) Fetch(ctx context.Context) (menu.Table, error) {
	s.metrics.load()
	if s.backend == nil {
		return menu.Table{}, nil
	}

	data, _, err := s.backend.Get(ctx, s.path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return menu.Table{}, nil
		}
		s.metrics.loadFailed("read")
		return nil, err
	}

	table, err := menu.ReadCSV(bytes.NewReader(data))
	if err != nil {
		s.metrics.loadFailed("parse")
		return nil, err
	}
	return table, nil
}

// ReplaceWeek returns t with the entries of (year, week) replaced by entries
func (s *MenuStore) ReplaceWeek(t menu.Table, year, week int, entries []menu.Entry) menu.Table {
	return t.ReplaceWeek(year, week, entries)
}

// Weeks lists the weeks holding menus, most recent first
func (s *MenuStore) Weeks(ctx context.Context) []menu.WeekKey {
	return s.Load(ctx).Weeks()
}

// Save writes the full table, creating the resource when it does not exist
func (s *MenuStore) Save(ctx context.Context, t menu.Table) error {
	s.metrics.save()
	err := s.save(ctx, t)
	if err != nil {
		var se *SaveError
		if errors.As(err, &se) {
			s.metrics.saveFailed(se.Op)
		}
		return err
	}
	return nil
}

func (s *MenuStore) save(ctx context.Context, t menu.Table) error {
	if s.backend == nil {
		return &SaveError{Path: s.path, Op: "save", Err: ErrDisabled}
	}

	data, err := menu.MarshalCSV(t)
	if err != nil {
		return &SaveError{Path: s.path, Op: "encode", Err: err}
	}

	_, version, err := s.backend.Get(ctx, s.path)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if err := s.backend.Create(ctx, s.path, data); err != nil {
			return &SaveError{Path: s.path, Op: "create", Err: err}
		}
		log.Printf("✅ Created %s (%d entries)", s.path, len(t))
		return nil
	case err != nil:
		return &SaveError{Path: s.path, Op: "read", Err: err}
	}

	if err := s.backend.Update(ctx, s.path, data, version); err != nil {
		return &SaveError{Path: s.path, Op: "update", Err: err}
	}
	log.Printf("✅ Saved %s (%d entries)", s.path, len(t))
	return nil
}

// SaveWeek reads the current table, replaces one week and saves the result.
// A table that cannot be read is not overwritten.
func (s *MenuStore) SaveWeek(ctx context.Context, year, week int, entries []menu.Entry) (menu.Table, error) {
	current, err := s.Fetch(ctx)
	if err != nil {
		s.metrics.saveFailed("read")
		return nil, &SaveError{Path: s.path, Op: "read", Err: err}
	}
	t := s.ReplaceWeek(current, year, week, entries)
	if err := s.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
