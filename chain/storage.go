// Package chain implements the hash-chained, append-only ledger of vote
// batches (spec.md §4.4): block hashing, append/get, startup recovery,
// integrity validation, and the anti-double-vote token-tuple check.
package chain

import (
	"encoding/binary"
	"errors"
	"os"

	bolt "go.etcd.io/bbolt"
)

// ErrDoesNotExist is returned by OpenStorage when the caller asked to open
// an existing file that is not there (spec.md §4.4's "distinguished
// DoesNotExist error for opening a non-existent file").
var ErrDoesNotExist = errors.New("chain: storage file does not exist")

var blocksBucket = []byte("blocks")

// Storage is the single-file key-value table spec.md §4.4 describes: fixed-
// width integer keys (heights), opaque byte-string values, one transaction
// per write. It is backed by bbolt, an embedded single-file B-tree with
// atomic transactions — the same class of store several repos in this
// family reach for as their durable KV layer.
type Storage struct {
	db *bolt.DB
}

// OpenStorage opens (creating if absent, unless mustExist) the bbolt file
// at path and ensures the blocks bucket exists.
func OpenStorage(path string, mustExist bool) (*Storage, error) {
	if mustExist {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, ErrDoesNotExist
			}
			return nil, err
		}
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(blocksBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close releases the underlying file handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SetNoSync toggles bbolt's NoSync behavior: when true, writes skip fsync
// on every commit, trading crash durability for throughput. Used by the
// node launcher to apply the "lite" preset's latency-over-durability
// tradeoff (spec.md §4.8 batching; integration presets).
func (s *Storage) SetNoSync(noSync bool) {
	s.db.NoSync = noSync
}

// Put writes value at the given height inside a single transaction.
func (s *Storage) Put(height uint64, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(blocksBucket).Put(heightKey(height), value)
	})
}

// Get reads the value stored at height. ok is false if no entry exists.
func (s *Storage) Get(height uint64) (value []byte, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(blocksBucket).Get(heightKey(height))
		if v != nil {
			value = append([]byte(nil), v...)
			ok = true
		}
		return nil
	})
	return value, ok, err
}

// Len returns the number of entries currently stored.
func (s *Storage) Len() (uint64, error) {
	var n uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		n = uint64(tx.Bucket(blocksBucket).Stats().KeyN)
		return nil
	})
	return n, err
}

// Remove deletes the entry at height, if present.
func (s *Storage) Remove(height uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(blocksBucket).Delete(heightKey(height))
	})
}

// ForEach iterates every (height, value) pair in ascending height order,
// stopping early if fn returns an error.
func (s *Storage) ForEach(fn func(height uint64, value []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(blocksBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if err := fn(binary.BigEndian.Uint64(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// heightKey renders a height as a big-endian fixed-width key so bbolt's
// byte-order cursor traversal matches numeric height order.
func heightKey(height uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], height)
	return b[:]
}
