package view

import (
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

// Repository persists one projection row per (view, stream_id). BoltRepository
// is the only implementation; it keeps a dedicated bbolt bucket per view
// name, created lazily on first use, mirroring pkg/eventlog's bucket
// layout (one bucket per concern rather than one shared, prefixed bucket).
type Repository interface {
	Get(viewName, streamID string) (data []byte, ok bool, err error)
	Put(viewName, streamID string, data []byte) error
	Delete(viewName, streamID string) error

	// All returns every stored row for viewName, keyed by stream id. Used
	// by the query surface (pkg/api) to list projections; the runtime
	// itself never needs a full scan.
	All(viewName string) (map[string][]byte, error)

	Close() error
}

type BoltRepository struct {
	db *bolt.DB
}

// OpenBoltRepository opens (or creates) the bbolt file at dataDir/views.db.
// Buckets are created on demand by Put, so a fresh view name never needs a
// schema migration.
func OpenBoltRepository(dataDir string) (*BoltRepository, error) {
	db, err := bolt.Open(filepath.Join(dataDir, "views.db"), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open views db: %w", err)
	}
	return &BoltRepository{db: db}, nil
}

func (r *BoltRepository) Get(viewName, streamID string) ([]byte, bool, error) {
	var data []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(viewName))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(streamID)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	return data, data != nil, err
}

func (r *BoltRepository) Put(viewName, streamID string, data []byte) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(viewName))
		if err != nil {
			return err
		}
		return b.Put([]byte(streamID), data)
	})
}

func (r *BoltRepository) Delete(viewName, streamID string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(viewName))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(streamID))
	})
}

func (r *BoltRepository) All(viewName string) (map[string][]byte, error) {
	rows := make(map[string][]byte)
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(viewName))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			rows[string(k)] = append([]byte(nil), v...)
			return nil
		})
	})
	return rows, err
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}
