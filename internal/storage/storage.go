// Package storage provides the backing resources the menu table is stored in.
//
// Every backend stores opaque bytes under a path and hands out a version
// token on read. Updates accept the token but do not reject stale ones, so
// concurrent writers resolve as last-writer-wins.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no resource exists at the path
	ErrNotFound = errors.New("resource not found")
	// ErrExists is returned by Create when the resource already exists
	ErrExists = errors.New("resource already exists")
)

// Backend is a versioned file store
type Backend interface {
	// Get returns the content stored at path and its current version token
	Get(ctx context.Context, path string) (data []byte, version string, err error)
	// Create stores data at a path that does not exist yet
	Create(ctx context.Context, path string, data []byte) error
	// Update overwrites the content at path. version is the token from the
	// preceding Get.
	Update(ctx context.Context, path string, data []byte, version string) error
}
