// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"

	"github.com/btcvm/btcvm/txscript"
	"github.com/btcvm/btcvm/wire"
)

// builderTestTx is a minimal transaction for running builder output.
func builderTestTx() *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil))
	tx.AddTxOut(wire.NewTxOut(0, nil))
	return tx
}

// requireMinimalPush ensures the push produced by push executes under the
// minimal data rule and leaves an element equal to the one produced by a
// second, identical push.
func requireMinimalPush(t *testing.T, name string,
	push func(*txscript.ScriptBuilder) *txscript.ScriptBuilder, equalOp byte) {

	sigScript, err := push(txscript.NewScriptBuilder()).Script()
	require.NoError(t, err, name)
	pkScript, err := push(txscript.NewScriptBuilder()).AddOp(equalOp).Script()
	require.NoError(t, err, name)

	const flags = txscript.ScriptVerifyMinimalData |
		txscript.ScriptVerifySigPushOnly
	err = txscript.VerifyScript(sigScript, pkScript, builderTestTx(), 0, flags)
	require.NoError(t, err, "%s: %x", name, sigScript)
}

func TestScriptBuilderAddOp(t *testing.T) {
	t.Parallel()

	ops := []byte{txscript.OP_DUP, txscript.OP_HASH160, txscript.OP_0,
		txscript.OP_EQUALVERIFY, txscript.OP_CHECKSIG}

	builder := txscript.NewScriptBuilder()
	for _, op := range ops {
		builder.AddOp(op)
	}
	script, err := builder.Script()
	require.NoError(t, err)
	require.Equal(t, ops, script)

	script, err = builder.Reset().AddOps(ops).AddOps(nil).Script()
	require.NoError(t, err)
	require.Equal(t, ops, script)
}

// TestScriptBuilderAddInt64 ensures integers use small integer opcodes where
// possible and otherwise minimal script number pushes.
func TestScriptBuilderAddInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		val      int64
		expected string
	}{
		{-1, "4f"},
		{0, "00"},
		{1, "51"},
		{16, "60"},
		{17, "0111"},
		{127, "017f"},
		{128, "028000"},
		{255, "02ff00"},
		{256, "020001"},
		{32767, "02ff7f"},
		{32768, "03008000"},
		{-2, "0182"},
		{-16, "0190"},
		{-127, "01ff"},
		{-128, "028080"},
		{-256, "020081"},
		{-32768, "03008080"},
		{1<<31 - 1, "04ffffff7f"},
		{-(1<<31 - 1), "04ffffffff"},
		{1 << 31, "050000008000"},
		{1<<39 - 1, "05ffffffff7f"},
	}

	for _, test := range tests {
		script, err := txscript.NewScriptBuilder().AddInt64(test.val).Script()
		require.NoError(t, err, "%d", test.val)
		expected, err := hex.DecodeString(test.expected)
		require.NoError(t, err)
		require.Equal(t, expected, script, "%d", test.val)

		// Arithmetic operands are limited to four bytes.
		if test.val > 1<<31-1 {
			continue
		}
		val := test.val
		requireMinimalPush(t, disasmName(script),
			func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
				return b.AddInt64(val)
			}, txscript.OP_NUMEQUAL)
	}
}

// TestScriptBuilderAddData ensures data is pushed with the smallest encoding
// that satisfies the minimal data rule, and that AddFullData skips the
// element size limit.
func TestScriptBuilderAddData(t *testing.T) {
	t.Parallel()

	repeat := func(n int) []byte { return bytes.Repeat([]byte{0x49}, n) }
	push := func(prefix []byte, n int) []byte {
		return append(prefix, repeat(n)...)
	}

	tests := []struct {
		name     string
		data     []byte
		expected []byte
		useFull  bool
	}{
		{name: "empty", data: nil, expected: []byte{txscript.OP_0}},
		{name: "0x00 is data", data: []byte{0x00}, expected: []byte{txscript.OP_DATA_1, 0x00}},
		{name: "0x01", data: []byte{0x01}, expected: []byte{txscript.OP_1}},
		{name: "0x10", data: []byte{0x10}, expected: []byte{txscript.OP_16}},
		{name: "0x11", data: []byte{0x11}, expected: []byte{txscript.OP_DATA_1, 0x11}},
		{name: "0x80", data: []byte{0x80}, expected: []byte{txscript.OP_DATA_1, 0x80}},
		{name: "0x81", data: []byte{0x81}, expected: []byte{txscript.OP_1NEGATE}},
		{name: "0x82", data: []byte{0x82}, expected: []byte{txscript.OP_DATA_1, 0x82}},
		{name: "two small bytes", data: []byte{0x01, 0x02}, expected: []byte{txscript.OP_DATA_2, 0x01, 0x02}},
		{name: "len 75", data: repeat(75), expected: push([]byte{txscript.OP_DATA_75}, 75)},
		{name: "len 76", data: repeat(76), expected: push([]byte{txscript.OP_PUSHDATA1, 76}, 76)},
		{name: "len 255", data: repeat(255), expected: push([]byte{txscript.OP_PUSHDATA1, 0xff}, 255)},
		{name: "len 256", data: repeat(256), expected: push([]byte{txscript.OP_PUSHDATA2, 0x00, 0x01}, 256)},
		{name: "len 520", data: repeat(520), expected: push([]byte{txscript.OP_PUSHDATA2, 0x08, 0x02}, 520)},
		{name: "len 521 rejected", data: repeat(521), expected: nil},
		{name: "len 65536 rejected", data: repeat(65536), expected: nil},
		{
			name:     "full len 521",
			data:     repeat(521),
			expected: push([]byte{txscript.OP_PUSHDATA2, 0x09, 0x02}, 521),
			useFull:  true,
		},
		{
			name:     "full len 65536",
			data:     repeat(65536),
			expected: push([]byte{txscript.OP_PUSHDATA4, 0x00, 0x00, 0x01, 0x00}, 65536),
			useFull:  true,
		},
	}

	for _, test := range tests {
		builder := txscript.NewScriptBuilder()
		if test.useFull {
			builder.AddFullData(test.data)
		} else {
			builder.AddData(test.data)
		}
		script, err := builder.Script()
		require.Equal(t, test.expected, script, test.name)
		if test.expected == nil {
			require.Error(t, err, test.name)
			continue
		}
		require.NoError(t, err, test.name)
		if test.useFull {
			continue
		}

		data := test.data
		requireMinimalPush(t, test.name,
			func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
				return b.AddData(data)
			}, txscript.OP_EQUAL)
	}
}

// TestScriptBuilderSizeLimit ensures no adder grows a script past the maximum
// size, and that the first failure sticks for every later call.
func TestScriptBuilderSizeLimit(t *testing.T) {
	t.Parallel()

	adders := []struct {
		name string
		add  func(*txscript.ScriptBuilder) *txscript.ScriptBuilder
	}{
		{"AddOp", func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return b.AddOp(txscript.OP_NOP)
		}},
		{"AddOps", func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return b.AddOps([]byte{txscript.OP_NOP})
		}},
		{"AddData", func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return b.AddData([]byte{0x00})
		}},
		{"AddInt64", func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
			return b.AddInt64(0)
		}},
	}

	// AddFullData ignores the size limits but still honors an earlier
	// failure.
	addFullData := func(b *txscript.ScriptBuilder) *txscript.ScriptBuilder {
		return b.AddFullData([]byte{0x00})
	}

	for _, adder := range adders {
		// A full size script of a single push.
		builder := txscript.NewScriptBuilder().
			AddFullData(make([]byte, txscript.MaxScriptSize-3))
		full, err := builder.Script()
		require.NoError(t, err)
		require.Len(t, full, txscript.MaxScriptSize)

		script, err := adder.add(builder).Script()
		var notCanonical txscript.ErrScriptNotCanonical
		require.True(t, errors.As(err, &notCanonical), "%s: got %v",
			adder.name, err)
		require.NotEmpty(t, notCanonical.Error())
		require.Equal(t, full, script, adder.name)

		// Every adder refuses to work on the errored builder.
		for _, later := range adders {
			script, err = later.add(builder).Script()
			require.Error(t, err, "%s after %s", later.name, adder.name)
			require.Equal(t, full, script)
		}
		script, err = addFullData(builder).Script()
		require.Error(t, err, "AddFullData after %s", adder.name)
		require.Equal(t, full, script)

		// Reset clears the error.
		script, err = adder.add(builder.Reset()).Script()
		require.NoError(t, err, adder.name)
		require.NotEmpty(t, script, adder.name)
	}
}

// disasmName names a test case by its script for failure messages.
func disasmName(script []byte) string {
	str, err := txscript.DisasmString(script)
	if err != nil {
		return err.Error()
	}
	return str
}
