package services

import (
	"sync"

	"github.com/amaumene/gostremiord/internal/database"
	"github.com/amaumene/gostremiord/internal/models"
	"github.com/amaumene/gostremiord/pkg/logger"
)

// MetadataStore maps record ids (downloads or torrents) to their assigned
// metadata. Entries survive sync cycles: the raw caches are replaced in bulk
// but assignments are keyed by record id, independent of list membership.
// Writes go through to the database so curation survives restarts.
type MetadataStore struct {
	mu      sync.RWMutex
	entries map[string]*models.MetadataEntry
	db      database.Database
	logger  logger.Logger
}

// NewMetadataStore creates a store preloaded from db. A nil db keeps the
// store memory-only.
func NewMetadataStore(db database.Database, log logger.Logger) *MetadataStore {
	s := &MetadataStore{
		entries: make(map[string]*models.MetadataEntry),
		db:      db,
		logger:  log,
	}

	if db != nil {
		stored, err := db.AllMetadata()
		if err != nil {
			log.Warnf("[MetadataStore] failed to load assignments: %v", err)
			return s
		}
		s.entries = stored
	}
	return s
}

// Get returns the entry assigned to a record id, or nil.
func (s *MetadataStore) Get(recordID string) *models.MetadataEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[recordID]
}

// Set assigns an entry to a record id, overwriting any previous one.
func (s *MetadataStore) Set(recordID string, entry *models.MetadataEntry) {
	s.mu.Lock()
	s.entries[recordID] = entry
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.StoreMetadata(recordID, entry); err != nil {
			s.logger.Warnf("[MetadataStore] failed to persist assignment for %s: %v", recordID, err)
		}
	}
}

// Delete removes the assignment for a record id.
func (s *MetadataStore) Delete(recordID string) {
	s.mu.Lock()
	delete(s.entries, recordID)
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.DeleteMetadata(recordID); err != nil {
			s.logger.Warnf("[MetadataStore] failed to delete assignment for %s: %v", recordID, err)
		}
	}
}

// Snapshot returns the current assignments. The returned map must not be
// mutated by callers.
func (s *MetadataStore) Snapshot() map[string]*models.MetadataEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]*models.MetadataEntry, len(s.entries))
	for k, v := range s.entries {
		snapshot[k] = v
	}
	return snapshot
}

// HiddenSet tracks normalized group keys the user chose to suppress from
// catalogs and the default dashboard view.
type HiddenSet struct {
	mu     sync.RWMutex
	keys   map[string]bool
	db     database.Database
	logger logger.Logger
}

// NewHiddenSet creates a set preloaded from db. A nil db keeps it memory-only.
func NewHiddenSet(db database.Database, log logger.Logger) *HiddenSet {
	h := &HiddenSet{
		keys:   make(map[string]bool),
		db:     db,
		logger: log,
	}

	if db != nil {
		stored, err := db.HiddenKeys()
		if err != nil {
			log.Warnf("[HiddenSet] failed to load hidden keys: %v", err)
			return h
		}
		for _, key := range stored {
			h.keys[key] = true
		}
	}
	return h
}

// Contains reports whether a group key is hidden.
func (h *HiddenSet) Contains(key string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.keys[key]
}

// Toggle flips the hidden state of a group key and returns the new state.
func (h *HiddenSet) Toggle(key string) bool {
	h.mu.Lock()
	hidden := !h.keys[key]
	if hidden {
		h.keys[key] = true
	} else {
		delete(h.keys, key)
	}
	h.mu.Unlock()

	if h.db != nil {
		if err := h.db.SetHidden(key, hidden); err != nil {
			h.logger.Warnf("[HiddenSet] failed to persist hidden state for %s: %v", key, err)
		}
	}
	return hidden
}
