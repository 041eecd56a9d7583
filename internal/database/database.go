// Package database persists user curation state: metadata assignments keyed
// by record id and the set of hidden group keys. The raw account caches are
// deliberately not persisted; they are rebuilt from the account on sync.
package database

import "github.com/amaumene/gostremiord/internal/models"

// Database defines the interface for curation persistence.
type Database interface {
	// StoreMetadata saves a metadata entry under a record id.
	StoreMetadata(recordID string, entry *models.MetadataEntry) error
	// GetMetadata returns the entry for a record id, or nil when absent.
	GetMetadata(recordID string) (*models.MetadataEntry, error)
	// AllMetadata returns every stored assignment keyed by record id.
	AllMetadata() (map[string]*models.MetadataEntry, error)
	// DeleteMetadata removes the assignment for a record id.
	DeleteMetadata(recordID string) error

	// SetHidden adds or removes a group key from the hidden set.
	SetHidden(groupKey string, hidden bool) error
	// HiddenKeys returns all hidden group keys.
	HiddenKeys() ([]string, error)

	// Close closes the underlying store.
	Close() error
}
