// ABOUTME: Interface definition for stufflog persistence.
// ABOUTME: Defines the contract for loading, saving, and discovering categories.
package storage

import (
	"github.com/2389-research/stufflog/internal/models"
)

// Store defines operations for stufflog persistence.
type Store interface {
	// Load reads a category's stufflog. A missing or corrupt file yields an
	// empty stufflog rather than an error.
	Load(category string) (*models.Stufflog, error)

	// Save overwrites the category's backing file with the given stufflog.
	Save(category string, s *models.Stufflog) error

	// Exists reports whether the category has been initialized.
	Exists(category string) bool

	// List returns the names of all initialized categories, sorted.
	List() ([]string, error)

	// Dir returns the storage root directory.
	Dir() string
}
