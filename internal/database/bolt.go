package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/amaumene/gostremiord/internal/models"
)

const (
	dbFileMode = 0600
	dbDirMode  = 0755

	defaultDBFile = "gostremiord.db"
)

var (
	bucketMetadata = []byte("metadata")
	bucketHidden   = []byte("hidden")
)

// BoltDB implements the Database interface using bbolt.
type BoltDB struct {
	db *bolt.DB
}

// NewBolt opens (or creates) the bbolt database at dbPath.
func NewBolt(dbPath string) (*BoltDB, error) {
	if dbPath == "" {
		dbPath = filepath.Join(".", defaultDBFile)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirMode); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, dbFileMode, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketMetadata, bucketHidden} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// Close closes the database.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// StoreMetadata saves a metadata entry under a record id.
func (b *BoltDB) StoreMetadata(recordID string, entry *models.MetadataEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put([]byte(recordID), data)
	})
}

// GetMetadata returns the entry for a record id, or nil when absent.
func (b *BoltDB) GetMetadata(recordID string) (*models.MetadataEntry, error) {
	var entry *models.MetadataEntry
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketMetadata).Get([]byte(recordID))
		if data == nil {
			return nil
		}
		entry = &models.MetadataEntry{}
		return json.Unmarshal(data, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}
	return entry, nil
}

// AllMetadata returns every stored assignment keyed by record id.
func (b *BoltDB) AllMetadata() (map[string]*models.MetadataEntry, error) {
	entries := make(map[string]*models.MetadataEntry)
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMetadata).ForEach(func(k, v []byte) error {
			entry := &models.MetadataEntry{}
			if err := json.Unmarshal(v, entry); err != nil {
				return err
			}
			entries[string(k)] = entry
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata bucket: %w", err)
	}
	return entries, nil
}

// DeleteMetadata removes the assignment for a record id.
func (b *BoltDB) DeleteMetadata(recordID string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMetadata).Delete([]byte(recordID))
	})
}

// SetHidden adds or removes a group key from the hidden set.
func (b *BoltDB) SetHidden(groupKey string, hidden bool) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketHidden)
		if hidden {
			return bucket.Put([]byte(groupKey), []byte{1})
		}
		return bucket.Delete([]byte(groupKey))
	})
}

// HiddenKeys returns all hidden group keys.
func (b *BoltDB) HiddenKeys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHidden).ForEach(func(k, v []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read hidden bucket: %w", err)
	}
	return keys, nil
}
