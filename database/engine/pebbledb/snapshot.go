// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pebbledb

import (
	"errors"

	"github.com/cockroachdb/pebble"

	"github.com/btcvm/btcvm/database/engine"
)

// Snapshot is a pebble snapshot.
type Snapshot struct {
	*pebble.Snapshot
	released bool
}

func (s *Snapshot) Has(key []byte) (bool, error) {
	_, err := s.Get(key)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Get returns a copy of the value, or engine.ErrNotFound for missing keys.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	if s.released {
		return nil, ErrSnapshotReleased
	}

	val, closer, err := s.Snapshot.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), val...), nil
}

func (s *Snapshot) Release() {
	if !s.released {
		s.released = true
		s.Snapshot.Close()
	}
}

func (s *Snapshot) NewIterator(r *engine.Range) engine.Iterator {
	if s.released {
		return &Iterator{err: ErrSnapshotReleased}
	}

	opts := &pebble.IterOptions{}
	if r != nil {
		opts.LowerBound = r.Start
		opts.UpperBound = r.Limit
	}
	iter, err := s.Snapshot.NewIter(opts)
	if err != nil {
		return &Iterator{err: err}
	}
	return &Iterator{iter: iter}
}
