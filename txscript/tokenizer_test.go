// Copyright (c) 2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/btcvm/btcvm/wire"
)

// parsedOp is one operation as seen by the tokenizer.
type parsedOp struct {
	op   byte
	data []byte
	end  int32
}

// tokenize collects every operation of script along with the final error.
func tokenize(script []byte) ([]parsedOp, int32, error) {
	var ops []parsedOp
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		ops = append(ops, parsedOp{
			op:   tokenizer.Opcode(),
			data: tokenizer.Data(),
			end:  tokenizer.ByteIndex(),
		})
	}
	return ops, tokenizer.ByteIndex(), tokenizer.Err()
}

// TestPushHeader ensures every push encoding reports its header and declared
// payload sizes, and that a missing length prefix is rejected.
func TestPushHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		header  int
		payload int64
		fails   bool
	}{
		{"OP_0", "0", 1, 0, false},
		{"OP_16", "16", 1, 0, false},
		{"OP_CHECKSIG", "CHECKSIG", 1, 0, false},
		{"OP_DATA_1", "DATA_1", 1, 1, false},
		{"OP_DATA_75", "DATA_75", 1, 75, false},
		{"OP_PUSHDATA1", "PUSHDATA1 0xff", 2, 255, false},
		{"OP_PUSHDATA2", "PUSHDATA2 0x0001", 3, 256, false},
		{"OP_PUSHDATA4", "PUSHDATA4 0x00000001", 5, 1 << 24, false},
		{"OP_PUSHDATA4 sign bit", "PUSHDATA4 0xffffffff", 5, 0xffffffff, false},
		{"OP_PUSHDATA1 no length", "PUSHDATA1", 0, 0, true},
		{"OP_PUSHDATA2 short length", "PUSHDATA2 0x01", 0, 0, true},
		{"OP_PUSHDATA4 short length", "PUSHDATA4 0x010203", 0, 0, true},
	}

	for _, test := range tests {
		script := mustParseShortForm(test.script)
		header, payload, err := pushHeader(&opcodeArray[script[0]], script)
		if test.fails {
			require.True(t, IsErrorCode(err, ErrMalformedPush),
				"%s: got %v", test.name, err)
			continue
		}
		require.NoError(t, err, test.name)
		require.Equal(t, test.header, header, test.name)
		require.Equal(t, test.payload, payload, test.name)
	}
}

// TestScriptTokenizer ensures scripts are split into the expected operations
// and that a truncated push stops the walk at the failing opcode.
func TestScriptTokenizer(t *testing.T) {
	t.Parallel()

	hash := mustParseShortForm("0x01{20}")
	data76 := mustParseShortForm("0x01{76}")
	type tokenizerTest struct {
		name     string
		script   string
		expected []parsedOp
		finalIdx int32
		fails    bool
	}
	tests := []tokenizerTest{{
		name:     "empty",
		script:   "",
		finalIdx: 0,
	}, {
		name:     "small integers push no data",
		script:   "0 1 16 -1",
		expected: []parsedOp{
			{OP_0, nil, 1}, {OP_1, nil, 2},
			{OP_16, nil, 3}, {OP_1NEGATE, nil, 4},
		},
		finalIdx: 4,
	}, {
		name:     "zero length pushdata",
		script:   "PUSHDATA1 0x00",
		expected: []parsedOp{{OP_PUSHDATA1, []byte{}, 2}},
		finalIdx: 2,
	}, {
		name:     "pushdata1",
		script:   "PUSHDATA1 0x4c 0x01{76}",
		expected: []parsedOp{{OP_PUSHDATA1, data76, 78}},
		finalIdx: 78,
	}, {
		name:     "pushdata2",
		script:   "PUSHDATA2 0x4c00 0x01{76}",
		expected: []parsedOp{{OP_PUSHDATA2, data76, 79}},
		finalIdx: 79,
	}, {
		name:     "pushdata4",
		script:   "PUSHDATA4 0x4c000000 0x01{76}",
		expected: []parsedOp{{OP_PUSHDATA4, data76, 81}},
		finalIdx: 81,
	}, {
		name:   "pay-to-pubkey-hash",
		script: "DUP HASH160 DATA_20 0x01{20} EQUALVERIFY CHECKSIG",
		expected: []parsedOp{
			{OP_DUP, nil, 1}, {OP_HASH160, nil, 2}, {OP_DATA_20, hash, 23},
			{OP_EQUALVERIFY, nil, 24}, {OP_CHECKSIG, nil, 25},
		},
		finalIdx: 25,
	}, {
		// The push swallows the following opcode as payload.
		name:   "pay-to-script-hash with a short hash",
		script: "HASH160 DATA_20 0x01{19} EQUAL",
		expected: []parsedOp{
			{OP_HASH160, nil, 1},
			{OP_DATA_20, mustParseShortForm("0x01{19} EQUAL"), 22},
		},
		finalIdx: 22,
	}, {
		name:     "truncated hash",
		script:   "HASH160 DATA_20 0x01{18} EQUAL",
		expected: []parsedOp{{OP_HASH160, nil, 1}},
		finalIdx: 1,
		fails:    true,
	}, {
		name:     "pushdata1 short by one byte",
		script:   "PUSHDATA1 0x4c 0x01{75}",
		finalIdx: 0,
		fails:    true,
	}, {
		name:     "pushdata4 length past the script",
		script:   "1 PUSHDATA4 0xffffffff 0x01",
		expected: []parsedOp{{OP_1, nil, 1}},
		finalIdx: 1,
		fails:    true,
	}}

	// Every fixed size push, complete and one byte short.
	for op := byte(OP_DATA_1); op <= OP_DATA_75; op++ {
		data := bytes.Repeat([]byte{0x02}, int(op))
		full := fmt.Sprintf("DATA_%d 0x02{%d}", op, op)
		tests = append(tests, tokenizerTest{
			name:     full,
			script:   full,
			expected: []parsedOp{{op, data, 1 + int32(op)}},
			finalIdx: 1 + int32(op),
		})
		if op > 1 {
			short := fmt.Sprintf("DATA_%d 0x02{%d}", op, op-1)
			tests = append(tests, tokenizerTest{
				name: short, script: short, fails: true,
			})
		} else {
			tests = append(tests, tokenizerTest{
				name: "DATA_1 alone", script: "DATA_1", fails: true,
			})
		}
	}

	for _, test := range tests {
		ops, finalIdx, err := tokenize(mustParseShortForm(test.script))
		require.Equal(t, test.expected, ops, test.name)
		require.Equal(t, test.finalIdx, finalIdx, test.name)
		if test.fails {
			require.True(t, IsErrorCode(err, ErrMalformedPush),
				"%s: got %v", test.name, err)
			continue
		}
		require.NoError(t, err, test.name)
	}
}

// TestScriptTokenizerStopsOnError ensures the tokenizer refuses to make
// progress once a parse failure has been recorded and that an empty script is
// immediately done.
func TestScriptTokenizerStopsOnError(t *testing.T) {
	t.Parallel()

	tokenizer := MakeScriptTokenizer(nil)
	require.True(t, tokenizer.Done())
	require.False(t, tokenizer.Next())
	require.NoError(t, tokenizer.Err())

	script := mustParseShortForm("1 OP_DATA_2 0x01")
	tokenizer = MakeScriptTokenizer(script)
	require.True(t, tokenizer.Next())
	require.Equal(t, byte(OP_1), tokenizer.Opcode())
	require.False(t, tokenizer.Next())
	require.True(t, IsErrorCode(tokenizer.Err(), ErrMalformedPush))
	require.True(t, tokenizer.Done())

	// Repeated calls keep failing without moving the offset, and the last
	// good operation is still reported.
	idx := tokenizer.ByteIndex()
	require.False(t, tokenizer.Next())
	require.Equal(t, idx, tokenizer.ByteIndex())
	require.Equal(t, byte(OP_1), tokenizer.Opcode())
	require.Equal(t, script, tokenizer.Script())
}

// TestScriptTokenizerRoundTrip ensures re-encoding every parsed operation
// reproduces the original bytes for the scripts of a real transaction.
func TestScriptTokenizerRoundTrip(t *testing.T) {
	t.Parallel()

	tx, err := wire.NewMsgTxFromBytes(hexToBytes(p2shMultiSigTxHex))
	require.NoError(t, err)

	var scripts [][]byte
	for _, txIn := range tx.TxIn {
		scripts = append(scripts, txIn.SignatureScript)

		// The redeem script is the final push of the signature script.
		pushes, err := PushedData(txIn.SignatureScript)
		require.NoError(t, err)
		scripts = append(scripts, pushes[len(pushes)-1])
	}
	for _, txOut := range tx.TxOut {
		scripts = append(scripts, txOut.PkScript)
	}
	scripts = append(scripts, mustParseShortForm("PUSHDATA2 0x0300 0x010203"),
		mustParseShortForm("PUSHDATA4 0x00000000 NOP"))

	for i, script := range scripts {
		ops, finalIdx, err := tokenize(script)
		require.NoError(t, err, "script %d", i)
		require.Equal(t, int32(len(script)), finalIdx, "script %d", i)

		var rebuilt []byte
		var start int32
		for _, op := range ops {
			header := script[start : op.end-int32(len(op.data))]
			require.Equal(t, op.op, header[0], "script %d", i)
			rebuilt = append(rebuilt, header...)
			rebuilt = append(rebuilt, op.data...)
			start = op.end
		}
		require.Equal(t, script, rebuilt, "script %d", i)
	}
}
