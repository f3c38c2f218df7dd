// Package storage persists uploaded files on local disk or in an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/projecthub/api/internal/config"
)

// Backend stores and removes objects addressed by a flat file name.
type Backend interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Delete(ctx context.Context, name string) error
}

// New builds the backend selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.AppConfig) (Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageS3:
		return NewS3(ctx, cfg.Storage.S3)
	case config.StorageLocal, "":
		return NewLocal(cfg.UploadDir())
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Local writes files under a single directory.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the directory files are written to.
func (l *Local) Dir() string { return l.dir }

func (l *Local) Put(_ context.Context, name string, data []byte, _ string) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (l *Local) Delete(_ context.Context, name string) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) path(name string) (string, error) {
	clean := filepath.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == string(filepath.Separator) || clean != name {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(l.dir, clean), nil
}
