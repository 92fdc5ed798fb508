package cache

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

// keyPrefix namespaces entries in case the directory is shared.
const keyPrefix = "analysis/"

// PebbleCache keeps computed report analyses on disk, keyed by upload digest.
type PebbleCache struct {
	db *pebble.DB
}

func NewPebbleCache(dir string) (*PebbleCache, error) {
	opts := &pebble.Options{
		MemTableSize: 16 << 20,
	}
	db, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleCache{db: db}, nil
}

func (c *PebbleCache) Close() error { return c.db.Close() }

func (c *PebbleCache) Get(key string) ([]byte, bool, error) {
	v, closer, err := c.db.Get([]byte(keyPrefix + key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()
	return append([]byte(nil), v...), true, nil
}

func (c *PebbleCache) Put(key string, val []byte) error {
	if err := c.db.Set([]byte(keyPrefix+key), val, pebble.NoSync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

// Len counts cached entries.
func (c *PebbleCache) Len() (int, error) {
	it, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefix[:len(keyPrefix)-1] + "0"),
	})
	if err != nil {
		return 0, fmt.Errorf("pebble iter: %w", err)
	}
	defer it.Close()
	n := 0
	for it.First(); it.Valid(); it.Next() {
		n++
	}
	return n, nil
}
