// ABOUTME: YAML file storage for stufflogs, one <category>.yml file per category.
// ABOUTME: Degrades missing, empty, or corrupt files to an empty stufflog.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/2389-research/stufflog/internal/models"
)

// FileExt is the extension of stufflog files.
const FileExt = ".yml"

// YAMLStore stores each category as a YAML file in a single directory.
type YAMLStore struct {
	dir    string
	logger *slog.Logger
}

// NewYAMLStore creates a store rooted at dir. The directory is created on
// the first save, not here.
func NewYAMLStore(dir string, logger *slog.Logger) (*YAMLStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &YAMLStore{dir: dir, logger: logger}, nil
}

// Dir returns the storage root directory.
func (s *YAMLStore) Dir() string {
	return s.dir
}

// Path returns the backing file path for a category.
func (s *YAMLStore) Path(category string) (string, error) {
	if category == "" || category == "." || category == ".." ||
		strings.ContainsAny(category, `/\`) {
		return "", fmt.Errorf("invalid category name %q", category)
	}
	name := category
	if !strings.HasSuffix(name, FileExt) {
		name += FileExt
	}
	return filepath.Join(s.dir, name), nil
}

// Exists reports whether the category's backing file exists.
func (s *YAMLStore) Exists(category string) bool {
	path, err := s.Path(category)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads a category's stufflog.
func (s *YAMLStore) Load(category string) (*models.Stufflog, error) {
	path, err := s.Path(category)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.New(), nil
		}
		return nil, fmt.Errorf("failed to read stufflog: %w", err)
	}

	sl, err := models.Parse(data)
	if err != nil {
		s.logger.Warn("stufflog file is unreadable, treating it as empty",
			"path", path, "error", err)
		return models.New(), nil
	}
	for _, problem := range sl.Warnings() {
		s.logger.Warn("stufflog entry could not be fully read, keeping it as written",
			"path", path, "problem", problem)
	}
	return sl, nil
}

// Save writes a category's stufflog, creating the directory if needed.
// The write is a plain overwrite, not an atomic rename.
func (s *YAMLStore) Save(category string, sl *models.Stufflog) error {
	path, err := s.Path(category)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	data, err := sl.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode stufflog: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write stufflog: %w", err)
	}

	s.logger.Debug("saved stufflog", "path", path, "entries", sl.Len())
	return nil
}

// List returns initialized category names, sorted.
func (s *YAMLStore) List() ([]string, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list stufflogs: %w", err)
	}

	var names []string
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), FileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(file.Name(), FileExt))
	}
	sort.Strings(names)
	return names, nil
}
