package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const (
	BackupSuffix    = ".backup"
	TmpSuffix       = ".tmp"
	FilePermissions = 0644
)

// FileBackend stores resources as files below a directory
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{Dir: dir}
}

// resolve keeps path inside Dir
func (b *FileBackend) resolve(path string) string {
	return filepath.Join(b.Dir, filepath.Clean(string(filepath.Separator)+path))
}

// Get reads the file at path. The version token is the SHA-256 of its content.
func (b *FileBackend) Get(ctx context.Context, path string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(b.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, "", err
	}
	return data, contentVersion(data), nil
}

// Create writes a new file at path
func (b *FileBackend) Create(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file := b.resolve(path)
	if _, err := os.Stat(file); err == nil {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return writeAtomic(file, data)
}

// Update replaces the file at path, keeping the previous content as a backup
func (b *FileBackend) Update(ctx context.Context, path string, data []byte, version string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file := b.resolve(path)
	current, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return err
	}
	if version != "" && version != contentVersion(current) {
		log.Printf("⚠️  %s changed since it was read, overwriting", path)
	}

	if err := os.WriteFile(file+BackupSuffix, current, FilePermissions); err != nil {
		log.Printf("Warning: failed to create backup: %v", err)
	}

	return writeAtomic(file, data)
}

// writeAtomic writes data next to file and renames it into place
func writeAtomic(file string, data []byte) error {
	tmpFile := file + TmpSuffix
	if err := os.WriteFile(tmpFile, data, FilePermissions); err != nil {
		return err
	}
	if err := os.Rename(tmpFile, file); err != nil {
		_ = os.Remove(tmpFile)
		return err
	}
	return nil
}

func contentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
