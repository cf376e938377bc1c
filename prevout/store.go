// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prevout

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/btcvm/btcvm/database/engine"
	"github.com/btcvm/btcvm/txscript"
	"github.com/btcvm/btcvm/wire"
)

const (
	// outputKeyPrefix marks previous-output entries.
	outputKeyPrefix = 'o'

	// outputKeyLen is the prefix, the transaction hash and the output
	// index.
	outputKeyLen = 1 + chainhash.HashSize + 4

	// minOutputValueLen is the amount with an empty script.
	minOutputValueLen = 8
)

// ErrCorruptEntry is returned when a stored output can not be decoded.
var ErrCorruptEntry = errors.New("prevout: corrupt output entry")

// Store records transaction outputs so the inputs spending them can be
// validated later.  It is safe for concurrent use when the underlying engine
// is.
type Store struct {
	db engine.Engine
}

// New returns a store backed by db.  The store does not take ownership of the
// engine; the caller closes it.
func New(db engine.Engine) *Store {
	return &Store{db: db}
}

// outputKey serializes an outpoint as 'o' || hash || LE32(index).
func outputKey(op wire.OutPoint) []byte {
	key := make([]byte, outputKeyLen)
	key[0] = outputKeyPrefix
	copy(key[1:], op.Hash[:])
	binary.LittleEndian.PutUint32(key[1+chainhash.HashSize:], op.Index)
	return key
}

func decodeOutputKey(key []byte) (wire.OutPoint, error) {
	var op wire.OutPoint
	if len(key) != outputKeyLen || key[0] != outputKeyPrefix {
		return op, fmt.Errorf("%w: bad key %x", ErrCorruptEntry, key)
	}
	copy(op.Hash[:], key[1:1+chainhash.HashSize])
	op.Index = binary.LittleEndian.Uint32(key[1+chainhash.HashSize:])
	return op, nil
}

// serializeOutput encodes an output as LE64(value) || script.
func serializeOutput(out *wire.TxOut) []byte {
	val := make([]byte, minOutputValueLen+len(out.PkScript))
	binary.LittleEndian.PutUint64(val, uint64(out.Value))
	copy(val[minOutputValueLen:], out.PkScript)
	return val
}

func deserializeOutput(val []byte) (*wire.TxOut, error) {
	if len(val) < minOutputValueLen {
		return nil, fmt.Errorf("%w: %d byte value", ErrCorruptEntry,
			len(val))
	}
	script := make([]byte, len(val)-minOutputValueLen)
	copy(script, val[minOutputValueLen:])
	value := int64(binary.LittleEndian.Uint64(val))
	return wire.NewTxOut(value, script), nil
}

// PutTx records every output of tx in one atomic write.
func (s *Store) PutTx(tx *wire.MsgTx) error {
	dbTx, err := s.db.Transaction()
	if err != nil {
		return err
	}

	hash := tx.TxHash()
	for i, out := range tx.TxOut {
		op := wire.OutPoint{Hash: hash, Index: uint32(i)}
		if err := dbTx.Put(outputKey(op), serializeOutput(out)); err != nil {
			dbTx.Discard()
			return err
		}
	}
	if err := dbTx.Commit(); err != nil {
		return err
	}

	log.Debugf("Stored %d outputs of %v", len(tx.TxOut), hash)
	return nil
}

// FetchOutput returns the stored output for op.  A missing output yields
// engine.ErrNotFound.
func (s *Store) FetchOutput(op wire.OutPoint) (*wire.TxOut, error) {
	snapshot, err := s.db.Snapshot()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()

	val, err := snapshot.Get(outputKey(op))
	if err != nil {
		return nil, err
	}
	return deserializeOutput(val)
}

// FetchPrevOutput returns the stored output for op or nil if there is none.
// Database errors are logged and reported as a missing output.
func (s *Store) FetchPrevOutput(op wire.OutPoint) *wire.TxOut {
	out, err := s.FetchOutput(op)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		log.Tracef("No stored output for %v", op)
		return nil
	case err != nil:
		log.Warnf("Unable to fetch output %v: %v", op, err)
		return nil
	}
	return out
}

// Delete removes the output for op.  Deleting a missing output is not an
// error.
func (s *Store) Delete(op wire.OutPoint) error {
	dbTx, err := s.db.Transaction()
	if err != nil {
		return err
	}
	if err := dbTx.Delete(outputKey(op)); err != nil {
		dbTx.Discard()
		return err
	}
	return dbTx.Commit()
}

// ForEach calls fn for every stored output in key order.  The outputs of a
// transaction are grouped together, but since the index is stored little
// endian they are not sorted by index (256 comes before 1).  Iteration stops
// at the first error fn returns.
func (s *Store) ForEach(fn func(op wire.OutPoint, out *wire.TxOut) error) error {
	snapshot, err := s.db.Snapshot()
	if err != nil {
		return err
	}
	defer snapshot.Release()

	iter := snapshot.NewIterator(engine.BytesPrefix([]byte{outputKeyPrefix}))
	defer iter.Release()

	for iter.Next() {
		op, err := decodeOutputKey(iter.Key())
		if err != nil {
			return err
		}
		out, err := deserializeOutput(iter.Value())
		if err != nil {
			return fmt.Errorf("output %v: %w", op, err)
		}
		if err := fn(op, out); err != nil {
			return err
		}
	}
	return iter.Error()
}

// A compile-time assertion to ensure Store can supply the engine with the
// outputs being spent.
var _ txscript.PrevOutputFetcher = (*Store)(nil)
