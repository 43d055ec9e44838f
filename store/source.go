// Package store loads and persists processed datasets, keeps the live
// snapshot served by the API, and stores generated insights.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Paldeepak079/AadharIQ/models"
)

// ErrNotFound is returned when a source holds no dataset, or a lookup has no
// match.
var ErrNotFound = errors.New("not found")

// Source loads a processed dataset.
type Source interface {
	Load(ctx context.Context) (*models.Dataset, error)
}

// Sink persists a processed dataset.
type Sink interface {
	Save(ctx context.Context, ds *models.Dataset) error
}

// FileSource keeps the dataset as a single JSON document on disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Load(ctx context.Context) (*models.Dataset, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("dataset file %s: %w", f.Path, ErrNotFound)
		}
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	var ds models.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset file %s: %w", f.Path, err)
	}
	return &ds, nil
}

// Save writes the dataset atomically through a temporary file in the same
// directory.
func (f *FileSource) Save(ctx context.Context, ds *models.Dataset) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".dataset-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replace dataset file: %w", err)
	}
	return nil
}
