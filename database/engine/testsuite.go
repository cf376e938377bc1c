// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuiteEngine runs the behaviour every backend must share against fresh
// engines returned by newEngine.
func TestSuiteEngine(t *testing.T, newEngine func() Engine) {
	t.Run("TransactionSnapshot", func(t *testing.T) {
		db := newEngine()
		defer db.Close()

		tx, err := db.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")

		key := []byte("key1")
		value := []byte("value1")
		require.NoErrorf(t, tx.Put(key, value), "failed to put data")

		// Uncommitted writes are invisible.
		snapshot, err := db.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		has, err := snapshot.Has(key)
		require.NoErrorf(t, err, "failed to check key")
		require.Falsef(t, has, "expected key to not exist in snapshot")

		gotValue, err := snapshot.Get(key)
		require.Truef(t, errors.Is(err, ErrNotFound),
			"expected not found, got %v", err)
		require.Nil(t, gotValue)
		snapshot.Release()

		require.NoErrorf(t, tx.Commit(), "failed to commit transaction")

		snapshot, err = db.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")
		gotValue, err = snapshot.Get(key)
		require.NoErrorf(t, err, "failed to get value")
		require.Equalf(t, value, gotValue, "snapshot value mismatch")
		snapshot.Release()
	})

	t.Run("SnapshotIsolation", func(t *testing.T) {
		db := newEngine()
		defer db.Close()

		key := []byte("key")
		put := func(value string) {
			tx, err := db.Transaction()
			require.NoError(t, err)
			require.NoError(t, tx.Put(key, []byte(value)))
			require.NoError(t, tx.Commit())
		}

		put("old")
		snapshot, err := db.Snapshot()
		require.NoError(t, err)
		defer snapshot.Release()

		put("new")
		got, err := snapshot.Get(key)
		require.NoError(t, err)
		require.Equal(t, []byte("old"), got)
	})

	t.Run("Delete", func(t *testing.T) {
		db := newEngine()
		defer db.Close()

		key := []byte("doomed")
		tx, err := db.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Put(key, []byte("v")))
		require.NoError(t, tx.Commit())

		tx, err = db.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Delete(key))
		require.NoError(t, tx.Commit())

		snapshot, err := db.Snapshot()
		require.NoError(t, err)
		defer snapshot.Release()
		has, err := snapshot.Has(key)
		require.NoError(t, err)
		require.False(t, has)
		_, err = snapshot.Get(key)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("TransactionIterator", func(t *testing.T) {
		for _, test := range []struct {
			kvs       map[string]string // random order of key-value pairs
			ranges    *Range
			expectkvs [][2]string
		}{
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key0"), Limit: []byte("key1")},
				expectkvs: nil,
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key0"), Limit: []byte("key2")},
				expectkvs: [][2]string{{"key1", "value1"}},
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key1"), Limit: []byte("key3")},
				expectkvs: [][2]string{{"key1", "value1"}, {"key2", "value2"}},
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key10"), Limit: []byte("key30")},
				expectkvs: [][2]string{{"key2", "value2"}, {"key3", "value3"}},
			},
			{
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key2"), Limit: []byte("key2")},
				expectkvs: nil,
			},
			{
				kvs:       map[string]string{"key10": "value10", "key11": "value11", "key20": "value20", "key21": "value21"},
				ranges:    BytesPrefix([]byte("key1")),
				expectkvs: [][2]string{{"key10", "value10"}, {"key11", "value11"}},
			},
			{
				kvs:       map[string]string{"b": "2", "a": "1"},
				ranges:    nil,
				expectkvs: [][2]string{{"a", "1"}, {"b", "2"}},
			},
		} {
			db := newEngine()

			tx, err := db.Transaction()
			require.NoErrorf(t, err, "failed to create transaction")
			for k, v := range test.kvs {
				err = tx.Put([]byte(k), []byte(v))
				require.NoErrorf(t, err, "failed to put data")
			}
			require.NoErrorf(t, tx.Commit(), "failed to commit transaction")

			snapshot, err := db.Snapshot()
			require.NoErrorf(t, err, "failed to create snapshot")

			iter := snapshot.NewIterator(test.ranges)
			var idx int
			for iter.Next() {
				if idx >= len(test.expectkvs) {
					require.FailNowf(t, "unexpected key-value pair",
						"key: %s, value: %s", iter.Key(), iter.Value())
				}
				require.Equalf(t, []byte(test.expectkvs[idx][0]), iter.Key(), "key mismatch")
				require.Equalf(t, []byte(test.expectkvs[idx][1]), iter.Value(), "value mismatch")
				idx++
			}
			require.NoError(t, iter.Error())
			require.Equalf(t, len(test.expectkvs), idx, "key-value pair count mismatch")

			iter.Release()
			snapshot.Release()
			require.NoError(t, db.Close())
		}
	})

	t.Run("IteratorSeek", func(t *testing.T) {
		db := newEngine()
		defer db.Close()

		tx, err := db.Transaction()
		require.NoError(t, err)
		for _, k := range []string{"a", "c", "e"} {
			require.NoError(t, tx.Put([]byte(k), []byte(k)))
		}
		require.NoError(t, tx.Commit())

		snapshot, err := db.Snapshot()
		require.NoError(t, err)
		defer snapshot.Release()

		iter := snapshot.NewIterator(nil)
		defer iter.Release()

		require.True(t, iter.Seek([]byte("b")))
		require.Equal(t, []byte("c"), iter.Key())
		require.True(t, iter.Last())
		require.Equal(t, []byte("e"), iter.Key())
		require.True(t, iter.Prev())
		require.Equal(t, []byte("c"), iter.Key())
		require.True(t, iter.First())
		require.Equal(t, []byte("a"), iter.Key())
		require.False(t, iter.Seek([]byte("f")))
		require.Nil(t, iter.Key())
	})

	t.Run("DbClose", func(t *testing.T) {
		db := newEngine()

		transaction, err := db.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")

		transaction.Discard()
		transaction.Discard()
		err = transaction.Commit()
		require.Errorf(t, err, "expected error committing discarded transaction")

		snapshot, err := db.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")

		iterator := snapshot.NewIterator(&Range{})
		require.NoErrorf(t, iterator.Error(), "failed to create iterator")
		iterator.Release()
		iterator.Release()

		snapshot.Release()
		snapshot.Release()
		_, err = snapshot.Get([]byte("key"))
		require.Errorf(t, err, "expected error reading released snapshot")

		require.NoErrorf(t, db.Close(), "failed to close engine")
		require.Errorf(t, db.Close(), "expected error closing closed engine")

		_, err = db.Transaction()
		require.Errorf(t, err, "expected error creating transaction on closed engine")

		_, err = db.Snapshot()
		require.Errorf(t, err, "expected error creating snapshot on closed engine")
	})
}
