// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pebbledb

import (
	"github.com/cockroachdb/pebble"

	"github.com/btcvm/btcvm/database/engine"
)

// Iterator adapts a pebble iterator to engine.Iterator.  Pebble iterators
// start unpositioned, so the first Next is turned into First.
type Iterator struct {
	iter     *pebble.Iterator
	started  bool
	released bool
	err      error
}

func (i *Iterator) usable() bool {
	return i.iter != nil && !i.released
}

func (i *Iterator) First() bool {
	if !i.usable() {
		return false
	}
	i.started = true
	return i.iter.First()
}

func (i *Iterator) Last() bool {
	if !i.usable() {
		return false
	}
	i.started = true
	return i.iter.Last()
}

func (i *Iterator) Seek(key []byte) bool {
	if !i.usable() {
		return false
	}
	i.started = true
	return i.iter.SeekGE(key)
}

func (i *Iterator) Next() bool {
	if !i.usable() {
		return false
	}
	if !i.started {
		return i.First()
	}
	return i.iter.Next()
}

func (i *Iterator) Prev() bool {
	if !i.usable() {
		return false
	}
	if !i.started {
		return i.Last()
	}
	return i.iter.Prev()
}

func (i *Iterator) Key() []byte {
	if !i.usable() || !i.started || !i.iter.Valid() {
		return nil
	}
	return i.iter.Key()
}

func (i *Iterator) Value() []byte {
	if !i.usable() || !i.started || !i.iter.Valid() {
		return nil
	}
	return i.iter.Value()
}

func (i *Iterator) Error() error {
	switch {
	case i.err != nil:
		return i.err
	case i.released:
		return engine.ErrIterReleased
	}
	return i.iter.Error()
}

func (i *Iterator) Release() {
	if i.released {
		return
	}
	i.released = true
	if i.iter != nil {
		i.iter.Close()
	}
}
