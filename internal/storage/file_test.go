package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackendLifecycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := NewFileBackend(dir)

	// Missing file
	if _, _, err := b.Get(ctx, "menus.csv"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on missing file error = %v, want ErrNotFound", err)
	}
	if err := b.Update(ctx, "menus.csv", []byte("x"), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() on missing file error = %v, want ErrNotFound", err)
	}

	// Create
	if err := b.Create(ctx, "menus.csv", []byte("v1")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := b.Create(ctx, "menus.csv", []byte("again")); !errors.Is(err, ErrExists) {
		t.Fatalf("second Create() error = %v, want ErrExists", err)
	}

	data, v1, err := b.Get(ctx, "menus.csv")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(data) != "v1" {
		t.Errorf("Get() = %q, want v1", data)
	}
	if v1 == "" {
		t.Error("Get() returned empty version")
	}

	// Update
	if err := b.Update(ctx, "menus.csv", []byte("v2"), v1); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	data, v2, err := b.Get(ctx, "menus.csv")
	if err != nil {
		t.Fatalf("Get() after update failed: %v", err)
	}
	if string(data) != "v2" {
		t.Errorf("Get() after update = %q, want v2", data)
	}
	if v1 == v2 {
		t.Error("version should change with content")
	}

	// Backup keeps previous content
	backup, err := os.ReadFile(filepath.Join(dir, "menus.csv"+BackupSuffix))
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if string(backup) != "v1" {
		t.Errorf("backup = %q, want v1", backup)
	}

	// No temp file left behind
	if _, err := os.Stat(filepath.Join(dir, "menus.csv"+TmpSuffix)); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}
}

func TestFileBackendStaleVersionStillWrites(t *testing.T) {
	ctx := context.Background()
	b := NewFileBackend(t.TempDir())

	if err := b.Create(ctx, "menus.csv", []byte("v1")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := b.Update(ctx, "menus.csv", []byte("v2"), "stale"); err != nil {
		t.Fatalf("Update() with stale version failed: %v", err)
	}
	data, _, _ := b.Get(ctx, "menus.csv")
	if string(data) != "v2" {
		t.Errorf("last writer should win, got %q", data)
	}
}

func TestFileBackendStaysInsideDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := NewFileBackend(filepath.Join(dir, "data"))

	if err := b.Create(ctx, "../../escape.csv", []byte("x")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "escape.csv")); err != nil {
		t.Errorf("file should be created inside data dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.csv")); !os.IsNotExist(err) {
		t.Error("file escaped the data dir")
	}
}

func TestFileBackendCreatesNestedDirs(t *testing.T) {
	ctx := context.Background()
	b := NewFileBackend(t.TempDir())

	if err := b.Create(ctx, "famille/2024/menus.csv", []byte("x")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, _, err := b.Get(ctx, "famille/2024/menus.csv"); err != nil {
		t.Errorf("Get() failed: %v", err)
	}
}

func TestFileBackendCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewFileBackend(t.TempDir())
	if _, _, err := b.Get(ctx, "menus.csv"); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
}
