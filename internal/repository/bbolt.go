package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	resourcesBucket = "resources"
	metadataBucket  = "metadata"
	schemaVersion   = 1
)

var (
	// ErrResourceNotFound is returned when no metadata exists for a resource
	ErrResourceNotFound = errors.New("resource metadata not found")
)

// BboltRepository implements MetadataRepository on a bbolt database.
type BboltRepository struct {
	db *bbolt.DB
}

// NewBboltRepository opens (or creates) the database at dbPath.
func NewBboltRepository(dbPath string) (*BboltRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := &bbolt.Options{
		Timeout: 1 * time.Second,
	}

	db, err := bbolt.Open(dbPath, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &BboltRepository{
		db: db,
	}

	if err := repo.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// initialize sets up buckets and schema
func (r *BboltRepository) initialize() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(resourcesBucket))
		if err != nil {
			return fmt.Errorf("failed to create resources bucket: %w", err)
		}

		meta, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return fmt.Errorf("failed to create metadata bucket: %w", err)
		}

		versionBytes := []byte(fmt.Sprintf("%d", schemaVersion))
		err = meta.Put([]byte("schema_version"), versionBytes)
		if err != nil {
			return fmt.Errorf("failed to store schema version: %w", err)
		}

		return nil
	})
}

// Save persists metadata for one resource, stamping the fetch time when the
// caller left it unset.
func (r *BboltRepository) Save(meta ResourceMeta) error {
	if meta.ResourceID == "" {
		return errors.New("resource ID cannot be empty")
	}

	if meta.FetchedAt.IsZero() {
		meta.FetchedAt = time.Now()
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(resourcesBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", resourcesBucket)
		}

		data, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		err = bucket.Put([]byte(meta.ResourceID), data)
		if err != nil {
			return fmt.Errorf("failed to save metadata: %w", err)
		}

		return nil
	})
}

// Find retrieves metadata by resource ID.
func (r *BboltRepository) Find(resourceID string) (ResourceMeta, error) {
	if resourceID == "" {
		return ResourceMeta{}, errors.New("resource ID cannot be empty")
	}

	var data []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(resourcesBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", resourcesBucket)
		}

		data = bucket.Get([]byte(resourceID))
		if data == nil {
			return ErrResourceNotFound
		}

		return nil
	})
	if err != nil {
		return ResourceMeta{}, err
	}

	var meta ResourceMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return ResourceMeta{}, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return meta, nil
}

// FindAll retrieves metadata for every known resource.
func (r *BboltRepository) FindAll() ([]ResourceMeta, error) {
	var metas []ResourceMeta

	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(resourcesBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", resourcesBucket)
		}

		return bucket.ForEach(func(k, v []byte) error {
			var meta ResourceMeta

			if err := json.Unmarshal(v, &meta); err != nil {
				return fmt.Errorf("failed to unmarshal metadata: %w", err)
			}

			metas = append(metas, meta)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return metas, nil
}

// Delete removes metadata for one resource.
func (r *BboltRepository) Delete(resourceID string) error {
	if resourceID == "" {
		return errors.New("resource ID cannot be empty")
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(resourcesBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", resourcesBucket)
		}

		if bucket.Get([]byte(resourceID)) == nil {
			return ErrResourceNotFound
		}

		return bucket.Delete([]byte(resourceID))
	})
}

// Close closes the database
func (r *BboltRepository) Close() error {
	return r.db.Close()
}
