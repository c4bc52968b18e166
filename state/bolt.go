package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/boltdb/bolt"

	mesh "github.com/armatrix/agent-mesh-go"
)

// BoltDB wraps a BoltDB file holding the state of many actors, one bucket
// per actor identity.
type BoltDB struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the database file at path.
func OpenBolt(path string) (*BoltDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("state: create directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("state: open database: %w", err)
	}
	return &BoltDB{db: db}, nil
}

// Close closes the underlying BoltDB instance.
func (d *BoltDB) Close() error {
	return d.db.Close()
}

// Store returns the durable store for one actor, creating its bucket on
// first use.
func (d *BoltDB) Store(id mesh.ActorID) (*BoltStore, error) {
	bucket := []byte(id)
	err := d.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("state: create bucket %q: %w", id, err)
	}
	return &BoltStore{db: d.db, bucket: bucket}, nil
}

// BoltStore is one actor's durable key-value state inside a shared BoltDB
// file.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	mu     sync.Mutex
}

var _ mesh.Store = (*BoltStore)(nil)

// Get retrieves the value for key. The second return reports presence.
func (s *BoltStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(s.bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("state: get %q: %w", key, err)
	}
	return value, found, nil
}

// Put stores value under key, replacing any existing value.
func (s *BoltStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("state: put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *BoltStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("state: delete %q: %w", key, err)
	}
	return nil
}
