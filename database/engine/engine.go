// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine defines the minimal ordered key/value store the
// previous-output index is built on, along with a shared test suite for the
// backend implementations in the leveldb and pebbledb subpackages.
package engine

import "errors"

var (
	// ErrNotFound is returned by Snapshot.Get when the key does not exist.
	// Backends translate their own not-found errors to this value.
	ErrNotFound = errors.New("engine: key not found")

	// ErrIterReleased is reported by an iterator used after Release.
	ErrIterReleased = errors.New("engine: iterator released")
)

// Engine is an open key/value database.
type Engine interface {
	// Transaction starts a write batch.  Nothing is visible to snapshots
	// until Commit.
	Transaction() (Transaction, error)

	// Snapshot returns a consistent read-only view of committed data.
	Snapshot() (Snapshot, error)

	// Close closes the database.  Closing twice is an error.
	Close() error
}

// Transaction is an atomic batch of writes.
type Transaction interface {
	Put(key, value []byte) error
	Delete(key []byte) error

	// Commit atomically applies the batch.  A discarded or committed
	// transaction may not be committed again.
	Commit() error

	// Discard abandons the batch.  It is safe to call more than once.
	Discard()
}

// Snapshot is a point in time view of the database.
type Snapshot interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// NewIterator iterates the keys of the range in ascending order.  A
	// nil range covers the whole database.
	NewIterator(*Range) Iterator
	Releaser
}

// Releaser is implemented by resources which must be released after use.
// Release is safe to call more than once.
type Releaser interface {
	Release()
}

// Iterator walks key/value pairs in key order.  A fresh iterator is not
// positioned, so the first call to Next moves to the first pair.
type Iterator interface {
	First() bool
	Last() bool

	// Seek moves to the first pair whose key is greater than or equal to
	// the given key.
	Seek(key []byte) bool

	Next() bool
	Prev() bool

	// Error returns any accumulated error.  Exhausting the iterator is not
	// an error.
	Error() error

	// Key and Value return the current pair, or nil when the iterator is
	// not positioned.  The returned slices are only valid until the
	// iterator moves.
	Key() []byte
	Value() []byte

	Releaser
}

// Range is a key range.  Start is inclusive and Limit exclusive, a nil bound
// is unbounded.
type Range struct {
	Start []byte
	Limit []byte
}

// BytesPrefix returns the range of all keys with the given prefix.
func BytesPrefix(prefix []byte) *Range {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return &Range{Start: prefix, Limit: limit}
}
