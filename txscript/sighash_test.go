// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/btcvm/btcvm/wire"
)

// sighashTestTx returns a transaction with three inputs and two outputs used
// to observe which parts of a transaction each hash type commits to.
func sighashTestTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for i := 0; i < 3; i++ {
		hash := chainhash.DoubleHashH([]byte{byte(i)})
		txIn := wire.NewTxIn(wire.NewOutPoint(&hash, uint32(i)),
			[]byte{OP_DATA_1, byte(i)})
		txIn.Sequence = uint32(i)
		tx.AddTxIn(txIn)
	}
	tx.AddTxOut(wire.NewTxOut(1000, []byte{OP_TRUE}))
	tx.AddTxOut(wire.NewTxOut(2000, []byte{OP_2}))
	tx.LockTime = 7
	return tx
}

// TestCalcSignatureHashCommitments ensures each hash type commits to the
// inputs and outputs it is documented to and ignores the rest.
func TestCalcSignatureHashCommitments(t *testing.T) {
	t.Parallel()

	script := mustParseShortForm("DUP HASH160 DATA_20 0x" +
		"0102030405060708090a0b0c0d0e0f1011121314 EQUALVERIFY CHECKSIG")

	tests := []struct {
		name     string
		hashType SigHashType
		idx      int
		mutate   func(tx *wire.MsgTx)
		changes  bool
	}{{
		name:     "all commits to outputs",
		hashType: SigHashAll,
		idx:      1,
		mutate:   func(tx *wire.MsgTx) { tx.TxOut[0].Value++ },
		changes:  true,
	}, {
		name:     "all commits to other sequences",
		hashType: SigHashAll,
		idx:      1,
		mutate:   func(tx *wire.MsgTx) { tx.TxIn[0].Sequence++ },
		changes:  true,
	}, {
		name:     "all ignores other signature scripts",
		hashType: SigHashAll,
		idx:      1,
		mutate: func(tx *wire.MsgTx) {
			tx.TxIn[0].SignatureScript = []byte{OP_NOP}
		},
	}, {
		name:     "all ignores own signature script",
		hashType: SigHashAll,
		idx:      1,
		mutate: func(tx *wire.MsgTx) {
			tx.TxIn[1].SignatureScript = []byte{OP_NOP}
		},
	}, {
		name:     "all commits to lock time",
		hashType: SigHashAll,
		idx:      0,
		mutate:   func(tx *wire.MsgTx) { tx.LockTime++ },
		changes:  true,
	}, {
		name:     "none ignores outputs",
		hashType: SigHashNone,
		idx:      1,
		mutate:   func(tx *wire.MsgTx) { tx.TxOut[1].Value++ },
	}, {
		name:     "none ignores other sequences",
		hashType: SigHashNone,
		idx:      1,
		mutate:   func(tx *wire.MsgTx) { tx.TxIn[2].Sequence++ },
	}, {
		name:     "none commits to own sequence",
		hashType: SigHashNone,
		idx:      1,
		mutate:   func(tx *wire.MsgTx) { tx.TxIn[1].Sequence++ },
		changes:  true,
	}, {
		name:     "none commits to other outpoints",
		hashType: SigHashNone,
		idx:      1,
		mutate:   func(tx *wire.MsgTx) { tx.TxIn[0].PreviousOutPoint.Index++ },
		changes:  true,
	}, {
		name:     "single commits to matching output",
		hashType: SigHashSingle,
		idx:      1,
		mutate:   func(tx *wire.MsgTx) { tx.TxOut[1].Value++ },
		changes:  true,
	}, {
		name:     "single ignores earlier output values",
		hashType: SigHashSingle,
		idx:      1,
		mutate:   func(tx *wire.MsgTx) { tx.TxOut[0].Value++ },
	}, {
		name:     "single ignores later outputs",
		hashType: SigHashSingle,
		idx:      0,
		mutate: func(tx *wire.MsgTx) {
			tx.TxOut[1].PkScript = []byte{OP_3}
		},
	}, {
		name:     "single commits to output count before index",
		hashType: SigHashSingle,
		idx:      1,
		mutate: func(tx *wire.MsgTx) {
			tx.TxOut = append([]*wire.TxOut{wire.NewTxOut(1, nil)},
				tx.TxOut...)
		},
		changes: true,
	}, {
		name:     "anyonecanpay ignores other inputs",
		hashType: SigHashAll | SigHashAnyOneCanPay,
		idx:      1,
		mutate: func(tx *wire.MsgTx) {
			tx.TxIn = append(tx.TxIn, wire.NewTxIn(
				wire.NewOutPoint(&chainhash.Hash{}, 9), nil))
			tx.TxIn[0].PreviousOutPoint.Index++
		},
	}, {
		name:     "anyonecanpay commits to own outpoint",
		hashType: SigHashNone | SigHashAnyOneCanPay,
		idx:      1,
		mutate:   func(tx *wire.MsgTx) { tx.TxIn[1].PreviousOutPoint.Index++ },
		changes:  true,
	}, {
		name:     "undefined hash type commits like all",
		hashType: 0x04,
		idx:      0,
		mutate:   func(tx *wire.MsgTx) { tx.TxOut[1].Value++ },
		changes:  true,
	}}

	for _, test := range tests {
		tx := sighashTestTx()
		before, err := CalcSignatureHash(script, test.hashType, tx, test.idx)
		require.NoError(t, err, test.name)
		require.Len(t, before, chainhash.HashSize, test.name)

		test.mutate(tx)
		after, err := CalcSignatureHash(script, test.hashType, tx, test.idx)
		require.NoError(t, err, test.name)

		if changed := !bytes.Equal(before, after); changed != test.changes {
			t.Errorf("%s: hash changed %v, want %v", test.name, changed,
				test.changes)
		}
	}
}

// TestCalcSignatureHashDistinct ensures the hash type itself is committed to.
func TestCalcSignatureHashDistinct(t *testing.T) {
	t.Parallel()

	tx := sighashTestTx()
	script := []byte{OP_TRUE}
	seen := make(map[string]SigHashType)
	for _, hashType := range []SigHashType{SigHashAll, SigHashNone,
		SigHashSingle, SigHashAll | SigHashAnyOneCanPay,
		SigHashNone | SigHashAnyOneCanPay,
		SigHashSingle | SigHashAnyOneCanPay} {

		hash, err := CalcSignatureHash(script, hashType, tx, 0)
		require.NoError(t, err)
		if prev, ok := seen[string(hash)]; ok {
			t.Fatalf("hash types %v and %v produce the same hash", prev,
				hashType)
		}
		seen[string(hash)] = hashType
	}
}

// TestCalcSignatureHashCodeSeparator ensures OP_CODESEPARATOR is removed from
// the committed script.
func TestCalcSignatureHashCodeSeparator(t *testing.T) {
	t.Parallel()

	tx := sighashTestTx()
	withSep := mustParseShortForm("CODESEPARATOR TRUE CODESEPARATOR")
	without := mustParseShortForm("TRUE")

	h1, err := CalcSignatureHash(withSep, SigHashAll, tx, 0)
	require.NoError(t, err)
	h2, err := CalcSignatureHash(without, SigHashAll, tx, 0)
	require.NoError(t, err)
	require.Equal(t, h2, h1)
}

// TestCalcSignatureHashNoMutation ensures computing any hash type leaves the
// transaction untouched.
func TestCalcSignatureHashNoMutation(t *testing.T) {
	t.Parallel()

	script := []byte{OP_TRUE}
	for _, hashType := range []SigHashType{SigHashAll, SigHashNone,
		SigHashSingle | SigHashAnyOneCanPay} {

		tx := sighashTestTx()
		want := tx.Copy()
		_, err := CalcSignatureHash(script, hashType, tx, 1)
		require.NoError(t, err)
		require.Equal(t, want, tx, "transaction mutated by %v:\n%s",
			hashType, spew.Sdump(tx))
	}
}

// TestCalcSignatureHashErrors ensures invalid indices and scripts are
// rejected.
func TestCalcSignatureHashErrors(t *testing.T) {
	t.Parallel()

	tx := sighashTestTx()
	tests := []struct {
		name     string
		script   []byte
		hashType SigHashType
		idx      int
		want     ErrorCode
	}{{
		name:     "negative index",
		script:   []byte{OP_TRUE},
		hashType: SigHashAll,
		idx:      -1,
		want:     ErrInvalidIndex,
	}, {
		name:     "index past inputs",
		script:   []byte{OP_TRUE},
		hashType: SigHashAll,
		idx:      3,
		want:     ErrInvalidIndex,
	}, {
		name:     "single without matching output",
		script:   []byte{OP_TRUE},
		hashType: SigHashSingle,
		idx:      2,
		want:     ErrInvalidSigHashSingleIndex,
	}, {
		name:     "single anyonecanpay without matching output",
		script:   []byte{OP_TRUE},
		hashType: SigHashSingle | SigHashAnyOneCanPay,
		idx:      2,
		want:     ErrInvalidSigHashSingleIndex,
	}, {
		name:     "malformed script",
		script:   []byte{OP_PUSHDATA2, 0x01},
		hashType: SigHashAll,
		idx:      0,
		want:     ErrMalformedPush,
	}}

	for _, test := range tests {
		_, err := CalcSignatureHash(test.script, test.hashType, tx, test.idx)
		if !IsErrorCode(err, test.want) {
			t.Errorf("%s: unexpected error: got %v, want %v", test.name,
				err, test.want)
		}
	}
}

// TestSigHashTypeString ensures hash types are printed with their names.
func TestSigHashTypeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   SigHashType
		want string
	}{
		{SigHashAll, "ALL"},
		{SigHashNone, "NONE"},
		{SigHashSingle, "SINGLE"},
		{SigHashAll | SigHashAnyOneCanPay, "ALL|ANYONECANPAY"},
		{SigHashSingle | SigHashAnyOneCanPay, "SINGLE|ANYONECANPAY"},
		{SigHashOld, "0x00"},
		{0x84, "0x04|ANYONECANPAY"},
	}

	for _, test := range tests {
		require.Equal(t, test.want, test.in.String())
	}
}
