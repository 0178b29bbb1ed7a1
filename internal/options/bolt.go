package options

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

var bucketOptions = []byte("options")

// lockTimeout bounds the wait for another process's lock on the database file.
const lockTimeout = time.Second

// ErrLocked is returned when another process holds the options database.
var ErrLocked = errors.New("options store is in use by another tcg process")

// BoltStore keeps option blobs in a single bbolt bucket.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the bbolt database at dbPath.
func NewBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create options directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: lockTimeout})
	if errors.Is(err, berrors.ErrTimeout) {
		return nil, fmt.Errorf("%w (%s); stop it or set TCG_OPTIONS_DRIVER=file", ErrLocked, dbPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketOptions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create options bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(ctx context.Context, ident string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketOptions).Get([]byte(ident))
		if v != nil {
			// Only valid for the life of the transaction.
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	return value, err
}

func (s *BoltStore) Set(ctx context.Context, ident string, blob []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOptions).Put([]byte(ident), blob)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
