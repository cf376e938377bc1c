// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"reflect"
	"testing"
)

// TestPushedData ensured the PushedData function extracts the expected data out
// of various scripts.
func TestPushedData(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		script string
		out    [][]byte
		valid  bool
	}{
		{
			"0 IF 0 ELSE 2 ENDIF",
			[][]byte{nil, nil},
			true,
		},
		{
			"16777216 10000000",
			[][]byte{
				{0x00, 0x00, 0x00, 0x01}, // 16777216
				{0x80, 0x96, 0x98, 0x00}, // 10000000
			},
			true,
		},
		{
			"DUP HASH160 '17VZNX1SN5NtKa8UQFxwQbFeFc3iqRYhem' EQUALVERIFY CHECKSIG",
			[][]byte{
				// 17VZNX1SN5NtKa8UQFxwQbFeFc3iqRYhem
				{
					0x31, 0x37, 0x56, 0x5a, 0x4e, 0x58, 0x31, 0x53, 0x4e, 0x35,
					0x4e, 0x74, 0x4b, 0x61, 0x38, 0x55, 0x51, 0x46, 0x78, 0x77,
					0x51, 0x62, 0x46, 0x65, 0x46, 0x63, 0x33, 0x69, 0x71, 0x52,
					0x59, 0x68, 0x65, 0x6d,
				},
			},
			true,
		},
		{
			"PUSHDATA4 1000 EQUAL",
			nil,
			false,
		},
	}

	for i, test := range tests {
		script := mustParseShortForm(test.script)
		data, err := PushedData(script)
		if test.valid && err != nil {
			t.Errorf("TestPushedData failed test #%d: %v\n", i, err)
			continue
		} else if !test.valid && err == nil {
			t.Errorf("TestPushedData failed test #%d: test should "+
				"be invalid\n", i)
			continue
		}
		if !reflect.DeepEqual(data, test.out) {
			t.Errorf("TestPushedData failed test #%d: want: %x "+
				"got: %x\n", i, test.out, data)
		}
	}
}

// TestHasCanonicalPush ensures the isCanonicalPush function works as expected.
func TestHasCanonicalPush(t *testing.T) {
	t.Parallel()

	for i := 0; i < 65535; i++ {
		script, err := NewScriptBuilder().AddInt64(int64(i)).Script()
		if err != nil {
			t.Errorf("Script: test #%d unexpected error: %v\n", i, err)
			continue
		}
		if !IsPushOnlyScript(script) {
			t.Errorf("IsPushOnlyScript: test #%d failed: %x\n", i, script)
			continue
		}
		tokenizer := MakeScriptTokenizer(script)
		for tokenizer.Next() {
			if !isCanonicalPush(tokenizer.op, tokenizer.Data()) {
				t.Errorf("isCanonicalPush: test #%d failed: %x\n", i, script)
				break
			}
		}
	}
	for i := 0; i <= MaxScriptElementSize; i++ {
		builder := NewScriptBuilder()
		builder.AddData(bytes.Repeat([]byte{0x49}, i))
		script, err := builder.Script()
		if err != nil {
			t.Errorf("Script: test #%d unexpected error: %v\n", i, err)
			continue
		}
		if !IsPushOnlyScript(script) {
			t.Errorf("IsPushOnlyScript: test #%d failed: %x\n", i, script)
			continue
		}
		tokenizer := MakeScriptTokenizer(script)
		for tokenizer.Next() {
			if !isCanonicalPush(tokenizer.op, tokenizer.Data()) {
				t.Errorf("isCanonicalPush: test #%d failed: %x\n", i, script)
				break
			}
		}
	}
}

// TestHasCanonicalPushes ensures the isCanonicalPush function properly
// determines what is considered a canonical push.
func TestHasCanonicalPushes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   string
		expected bool
	}{
		{
			name: "does not parse",
			script: "0x046708afdb0fe5548271967f1a67130b7105cd6a82" +
				"8e03909a67962e0ea1f61d",
			expected: false,
		},
		{
			name:     "non-canonical push",
			script:   "PUSHDATA1 0x04 0x01020304",
			expected: false,
		},
		{
			name:     "small integer pushed with data push",
			script:   "DATA_1 0x05",
			expected: false,
		},
		{
			name:     "negative one pushed with data push",
			script:   "DATA_1 0x81",
			expected: false,
		},
		{
			name:     "zero byte pushed with data push",
			script:   "DATA_1 0x00",
			expected: true,
		},
		{
			name:     "canonical push",
			script:   "DATA_4 0x01020304",
			expected: true,
		},
	}

	for _, test := range tests {
		script := mustParseShortForm(test.script)
		if err := checkScriptParses(script); err != nil {
			if test.expected {
				t.Errorf("%q: script parse failed: %v", test.name, err)
			}
			continue
		}
		tokenizer := MakeScriptTokenizer(script)
		for tokenizer.Next() {
			result := isCanonicalPush(tokenizer.op, tokenizer.Data())
			if result != test.expected {
				t.Errorf("%q: isCanonicalPush wrong result\ngot: %v\nwant: %v",
					test.name, result, test.expected)
				break
			}
		}
	}
}

// TestGetPreciseSigOps ensures the more precise signature operation counting
// mechanism which includes signatures in P2SH scripts works as expected.
func TestGetPreciseSigOps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		scriptSig []byte
		nSigOps   int
	}{
		{
			name:      "scriptSig doesn't parse",
			scriptSig: mustParseShortForm("PUSHDATA1 0x02"),
		},
		{
			name:      "scriptSig isn't push only",
			scriptSig: mustParseShortForm("1 DUP"),
			nSigOps:   0,
		},
		{
			name:      "scriptSig length 0",
			scriptSig: nil,
			nSigOps:   0,
		},
		{
			name: "No script at the end",
			// No script at end but still push only.
			scriptSig: mustParseShortForm("1 1"),
			nSigOps:   0,
		},
		{
			name:      "pushed script doesn't parse",
			scriptSig: mustParseShortForm("DATA_2 PUSHDATA1 0x02"),
		},
		{
			name: "pushed 2-of-3 multisig",
			scriptSig: mustParseShortForm("0 DATA_5 0x52 0x51 0x51 0x53 " +
				"0xae"),
			nSigOps: 3,
		},
		{
			name:      "pushed checksig pair",
			scriptSig: mustParseShortForm("DATA_2 0xac 0xad"),
			nSigOps:   2,
		},
	}

	// The signature in the p2sh script is nonsensical for the tests since
	// this script will never be executed.  What matters is that it matches
	// the right pattern.
	pkScript := mustParseShortForm("HASH160 DATA_20 0x433ec2ac1ffa1b7b7d0" +
		"27f564529c57197f9ae88 EQUAL")
	for _, test := range tests {
		count := GetPreciseSigOpCount(test.scriptSig, pkScript, true)
		if count != test.nSigOps {
			t.Errorf("%s: expected count of %d, got %d", test.name,
				test.nSigOps, count)

		}
	}
}

// TestGetSigOpCount ensures the quick and precise signature operation counts
// of bare scripts agree with the counting rules.
func TestGetSigOpCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		quick   int
		precise int
	}{
		{"empty", "", 0, 0},
		{"checksig", "DUP HASH160 DATA_20 0x01{20} EQUALVERIFY CHECKSIG", 1, 1},
		{"checksigverify twice", "CHECKSIGVERIFY CHECKSIGVERIFY", 2, 2},
		{"2-of-3 multisig", "2 DATA_1 0x02 DATA_1 0x03 DATA_1 0x04 3 " +
			"CHECKMULTISIG", 20, 3},
		{"multisig without count", "CHECKMULTISIG", 20, 20},
		{"multisig after zero", "0 CHECKMULTISIGVERIFY", 20, 20},
		{"counts up to parse failure", "CHECKSIG PUSHDATA1", 1, 1},
	}

	for _, test := range tests {
		script := mustParseShortForm(test.script)
		if got := GetSigOpCount(script); got != test.quick {
			t.Errorf("%s: GetSigOpCount = %d, want %d", test.name, got,
				test.quick)
		}
		if got := GetPreciseSigOpCount(nil, script, true); got != test.precise {
			t.Errorf("%s: GetPreciseSigOpCount = %d, want %d", test.name,
				got, test.precise)
		}
	}
}

// TestRemoveOpcodes ensures that removing opcodes from scripts behaves as
// expected.
func TestRemoveOpcodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before string
		remove byte
		err    error
		after  string
	}{
		{
			// Nothing to remove.
			name:   "nothing to remove",
			before: "NOP",
			remove: OP_CODESEPARATOR,
			after:  "NOP",
		},
		{
			// Test basic opcode removal.
			name:   "codeseparator 1",
			before: "NOP CODESEPARATOR TRUE",
			remove: OP_CODESEPARATOR,
			after:  "NOP TRUE",
		},
		{
			name:   "codeseparator at both ends",
			before: "CODESEPARATOR NOP CODESEPARATOR CODESEPARATOR",
			remove: OP_CODESEPARATOR,
			after:  "NOP",
		},
		{
			// The opcode in question is actually part of the data
			// in a previous opcode.
			name:   "codeseparator by coincidence",
			before: "NOP DATA_1 CODESEPARATOR TRUE",
			remove: OP_CODESEPARATOR,
			after:  "NOP DATA_1 CODESEPARATOR TRUE",
		},
		{
			name:   "invalid opcode",
			before: "CAT",
			remove: OP_CODESEPARATOR,
			after:  "CAT",
		},
		{
			name:   "invalid length (instruction)",
			before: "PUSHDATA1",
			remove: OP_CODESEPARATOR,
			err:    scriptError(ErrMalformedPush, ""),
		},
		{
			name:   "invalid length (data)",
			before: "PUSHDATA1 0xff 0xfe",
			remove: OP_CODESEPARATOR,
			err:    scriptError(ErrMalformedPush, ""),
		},
	}

	// tstRemoveOpcode is a convenience function to parse the provided
	// raw script, remove the passed opcode, then unparse the result back
	// into a raw script.
	tstRemoveOpcode := func(script []byte, opcode byte) ([]byte, error) {
		if err := checkScriptParses(script); err != nil {
			return nil, err
		}
		return removeOpcodeRaw(script, opcode), nil
	}

	for _, test := range tests {
		before := mustParseShortForm(test.before)
		after := mustParseShortForm(test.after)
		result, err := tstRemoveOpcode(before, test.remove)
		if e := tstCheckScriptError(err, test.err); e != nil {
			t.Errorf("%s: %v", test.name, e)
			continue
		}

		if !bytes.Equal(after, result) {
			t.Errorf("%s: value does not equal expected: exp: %q"+
				" got: %q", test.name, after, result)
		}
	}
}

// TestRemoveOpcodeByData ensures that removing data carrying opcodes based on
// the data they contain works as expected.  Only canonical pushes of exactly
// the given data are removed.
func TestRemoveOpcodeByData(t *testing.T) {
	t.Parallel()

	pad76 := append(bytes.Repeat([]byte{0}, 72), 1, 2, 3, 4)
	pad256 := append(bytes.Repeat([]byte{0}, 252), 1, 2, 3, 4)
	tests := []struct {
		name   string
		before []byte
		remove []byte
		err    error
		after  []byte
	}{
		{
			name:   "nothing to do",
			before: []byte{OP_NOP},
			remove: []byte{1, 2, 3, 4},
			after:  []byte{OP_NOP},
		},
		{
			name:   "simple case",
			before: []byte{OP_DATA_4, 1, 2, 3, 4},
			remove: []byte{1, 2, 3, 4},
			after:  nil,
		},
		{
			name:   "simple case (miss)",
			before: []byte{OP_DATA_4, 1, 2, 3, 4},
			remove: []byte{1, 2, 3, 5},
			after:  []byte{OP_DATA_4, 1, 2, 3, 4},
		},
		{
			name:   "surrounded by other opcodes",
			before: []byte{OP_NOP, OP_DATA_4, 1, 2, 3, 4, OP_DATA_4, 1, 2, 3, 4, OP_TRUE},
			remove: []byte{1, 2, 3, 4},
			after:  []byte{OP_NOP, OP_TRUE},
		},
		{
			name:   "data is only a suffix of the push",
			before: append([]byte{OP_PUSHDATA1, 76}, pad76...),
			remove: []byte{1, 2, 3, 4},
			after:  append([]byte{OP_PUSHDATA1, 76}, pad76...),
		},
		{
			// padded to keep it canonical.
			name:   "simple case (pushdata1)",
			before: append([]byte{OP_PUSHDATA1, 76}, pad76...),
			remove: pad76,
			after:  nil,
		},
		{
			name:   "simple case (pushdata1 miss noncanonical)",
			before: []byte{OP_PUSHDATA1, 4, 1, 2, 3, 4},
			remove: []byte{1, 2, 3, 4},
			after:  []byte{OP_PUSHDATA1, 4, 1, 2, 3, 4},
		},
		{
			name:   "simple case (pushdata2)",
			before: append([]byte{OP_PUSHDATA2, 0, 1}, pad256...),
			remove: pad256,
			after:  nil,
		},
		{
			name:   "simple case (pushdata2 miss)",
			before: append([]byte{OP_PUSHDATA2, 0, 1}, pad256...),
			remove: append(pad256[:len(pad256):len(pad256)], 5),
			after:  append([]byte{OP_PUSHDATA2, 0, 1}, pad256...),
		},
		{
			name:   "simple case (pushdata2 miss noncanonical)",
			before: []byte{OP_PUSHDATA2, 4, 0, 1, 2, 3, 4},
			remove: []byte{1, 2, 3, 4},
			after:  []byte{OP_PUSHDATA2, 4, 0, 1, 2, 3, 4},
		},
		{
			name:   "simple case (pushdata4 miss noncanonical)",
			before: []byte{OP_PUSHDATA4, 4, 0, 0, 0, 1, 2, 3, 4},
			remove: []byte{1, 2, 3, 4},
			after:  []byte{OP_PUSHDATA4, 4, 0, 0, 0, 1, 2, 3, 4},
		},
		{
			name:   "invalid opcode ",
			before: []byte{OP_UNKNOWN187},
			remove: []byte{1, 2, 3, 4},
			after:  []byte{OP_UNKNOWN187},
		},
		{
			name:   "invalid length (instruction)",
			before: []byte{OP_PUSHDATA1},
			remove: []byte{1, 2, 3, 4},
			err:    scriptError(ErrMalformedPush, ""),
		},
		{
			name:   "invalid length (data)",
			before: []byte{OP_PUSHDATA1, 255, 254},
			remove: []byte{1, 2, 3, 4},
			err:    scriptError(ErrMalformedPush, ""),
		},
	}

	// tstRemoveOpcodeByData is a convenience function to ensure the provided
	// script parses before attempting to remove the passed data.
	tstRemoveOpcodeByData := func(script []byte, data []byte) ([]byte, error) {
		if err := checkScriptParses(script); err != nil {
			return nil, err
		}

		return removeOpcodeByData(script, data), nil
	}

	for _, test := range tests {
		result, err := tstRemoveOpcodeByData(test.before, test.remove)
		if e := tstCheckScriptError(err, test.err); e != nil {
			t.Errorf("%s: %v", test.name, e)
			continue
		}

		if !bytes.Equal(test.after, result) {
			t.Errorf("%s: value does not equal expected: exp: %q"+
				" got: %q", test.name, test.after, result)
		}
	}
}

// TestIsPayToScriptHash ensures the IsPayToScriptHash function returns the
// expected results for all the scripts in scriptClassTests.
func TestIsPayToScriptHash(t *testing.T) {
	t.Parallel()

	for _, test := range scriptClassTests {
		script := mustParseShortForm(test.script)
		shouldBe := (test.class == ScriptHashTy)
		p2sh := IsPayToScriptHash(script)
		if p2sh != shouldBe {
			t.Errorf("%s: expected p2sh %v, got %v", test.name,
				shouldBe, p2sh)
		}
	}
}

// TestIsPushOnlyScript ensures the IsPushOnlyScript function returns the
// expected results.
func TestIsPushOnlyScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   []byte
		expected bool
	}{
		{
			name: "does not parse",
			script: mustParseShortForm("0x046708afdb0fe5548271967f1a67130" +
				"b7105cd6a828e03909a67962e0ea1f61d"),
			expected: false,
		},
		{
			name:     "empty",
			script:   nil,
			expected: true,
		},
		{
			name:     "small ints and data",
			script:   mustParseShortForm("0 1 -1 16 'data'"),
			expected: true,
		},
		{
			name:     "reserved counts as a push",
			script:   mustParseShortForm("RESERVED"),
			expected: true,
		},
		{
			name:     "contains a nop",
			script:   mustParseShortForm("1 NOP"),
			expected: false,
		},
	}

	for _, test := range tests {
		if got := IsPushOnlyScript(test.script); got != test.expected {
			t.Errorf("IsPushOnlyScript (%s) wrong result\ngot: %v\nwant: "+
				"%v", test.name, got, test.expected)
		}
	}
}

// TestIsUnspendable ensures the IsUnspendable function returns the expected
// results.
func TestIsUnspendable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pkScript []byte
		expected bool
	}{
		{
			// Unspendable
			pkScript: []byte{0x6a, 0x04, 0x74, 0x65, 0x73, 0x74},
			expected: true,
		},
		{
			// Spendable
			pkScript: []byte{0x76, 0xa9, 0x14, 0x29, 0x95, 0xa0,
				0xfe, 0x68, 0x43, 0xfa, 0x9b, 0x95, 0x45,
				0x97, 0xf0, 0xdc, 0xa7, 0xa4, 0x4d, 0xf6,
				0xfa, 0x0b, 0x5c, 0x88, 0xac},
			expected: false,
		},
		{
			// Spendable
			pkScript: []byte{0xa9, 0x14, 0x82, 0x1d, 0xba, 0x94, 0xbc, 0xfb,
				0xa2, 0x57, 0x36, 0xa3, 0x9e, 0x5d, 0x14, 0x5d, 0x69, 0x75,
				0xba, 0x8c, 0x0b, 0x42, 0x87},
			expected: false,
		},
		{
			// Not Necessarily Unspendable
			pkScript: []byte{},
			expected: false,
		},
		{
			// Spendable
			pkScript: []byte{OP_TRUE},
			expected: false,
		},
		{
			// Unspendable
			pkScript: []byte{OP_RETURN},
			expected: true,
		},
		{
			// Unspendable since it doesn't parse
			pkScript: []byte{OP_PUSHDATA1},
			expected: true,
		},
		{
			// Unspendable since it is too big
			pkScript: bytes.Repeat([]byte{OP_NOP}, MaxScriptSize+1),
			expected: true,
		},
	}

	for i, test := range tests {
		res := IsUnspendable(test.pkScript)
		if res != test.expected {
			t.Errorf("TestIsUnspendable #%d failed: got %v want %v",
				i, res, test.expected)
			continue
		}
	}
}

// TestDisasmString ensures the one-line disassembly renders scripts the way
// the short form parser reads them back, including the error marker for
// scripts that fail to parse.
func TestDisasmString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  []byte
		want    string
		wantErr bool
	}{
		{
			name:   "empty",
			script: nil,
			want:   "",
		},
		{
			name: "pay-to-pubkey-hash",
			script: hexToBytes("76a9147ab89f9fae3f8043dcee5f7b5467a0f0a6e2" +
				"f7e188ac"),
			want: "OP_DUP OP_HASH160 7ab89f9fae3f8043dcee5f7b5467a0f0a6e2" +
				"f7e1 OP_EQUALVERIFY OP_CHECKSIG",
		},
		{
			name:   "small integers",
			script: []byte{OP_0, OP_1NEGATE, OP_1, OP_16},
			want:   "0 -1 1 16",
		},
		{
			name:   "lock time opcodes",
			script: []byte{OP_NOP2, OP_NOP3, OP_NOP10},
			want:   "OP_CHECKLOCKTIMEVERIFY OP_CHECKSEQUENCEVERIFY OP_NOP10",
		},
		{
			name:    "truncated push",
			script:  []byte{OP_TRUE, OP_DATA_2, 0x01},
			want:    "1 [error]",
			wantErr: true,
		},
		{
			name:    "only a truncated push",
			script:  []byte{OP_PUSHDATA1},
			want:    "[error]",
			wantErr: true,
		},
	}

	for _, test := range tests {
		got, err := DisasmString(test.script)
		if (err != nil) != test.wantErr {
			t.Errorf("%s: unexpected error state: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s: got %q, want %q", test.name, got, test.want)
		}
	}
}

// TestDisasmRoundTrip ensures scripts made only of canonical pushes and
// opcodes survive a trip through DisasmString and ParseScriptString.
func TestDisasmRoundTrip(t *testing.T) {
	t.Parallel()

	scripts := [][]byte{
		hexToBytes("76a9147ab89f9fae3f8043dcee5f7b5467a0f0a6e2f7e188ac"),
		mustParseShortForm("HASH160 DATA_20 0x433ec2ac1ffa1b7b7d027f56452" +
			"9c57197f9ae88 EQUAL"),
		mustParseShortForm("2 DATA_33 0x02{33} DATA_33 0x03{33} 2 " +
			"CHECKMULTISIG"),
		mustParseShortForm("RETURN 'hello'"),
		mustParseShortForm("IF 1 ELSE -1 ENDIF CODESEPARATOR 16"),
	}

	for i, script := range scripts {
		disasm, err := DisasmString(script)
		if err != nil {
			t.Errorf("#%d: DisasmString: %v", i, err)
			continue
		}
		parsed, err := ParseScriptString(disasm)
		if err != nil {
			t.Errorf("#%d: ParseScriptString(%q): %v", i, disasm, err)
			continue
		}
		if !bytes.Equal(parsed, script) {
			t.Errorf("#%d: round trip mismatch\ngot:  %x\nwant: %x", i,
				parsed, script)
		}
	}
}

// TestSubScript ensures scripts can be split at opcode boundaries.
func TestSubScript(t *testing.T) {
	t.Parallel()

	script := mustParseShortForm("DUP HASH160 DATA_20 0x01{20} " +
		"EQUALVERIFY CHECKSIG")

	from, err := SubScriptFrom(script, 2)
	if err != nil {
		t.Fatalf("SubScriptFrom: %v", err)
	}
	want := mustParseShortForm("DATA_20 0x01{20} EQUALVERIFY CHECKSIG")
	if !bytes.Equal(from, want) {
		t.Fatalf("SubScriptFrom: got %x, want %x", from, want)
	}

	to, err := SubScriptTo(script, 2)
	if err != nil {
		t.Fatalf("SubScriptTo: %v", err)
	}
	if !bytes.Equal(to, []byte{OP_DUP, OP_HASH160}) {
		t.Fatalf("SubScriptTo: got %x", to)
	}

	// The end of the script is addressable.
	end, err := SubScriptFrom(script, 5)
	if err != nil || len(end) != 0 {
		t.Fatalf("SubScriptFrom end: %x, %v", end, err)
	}
	all, err := SubScriptTo(script, 5)
	if err != nil || !bytes.Equal(all, script) {
		t.Fatalf("SubScriptTo end: %x, %v", all, err)
	}

	for _, index := range []int{-1, 6} {
		if _, err := SubScriptFrom(script, index); !IsErrorCode(err,
			ErrInvalidIndex) {

			t.Errorf("SubScriptFrom(%d): unexpected err %v", index, err)
		}
		if _, err := SubScriptTo(script, index); !IsErrorCode(err,
			ErrInvalidIndex) {

			t.Errorf("SubScriptTo(%d): unexpected err %v", index, err)
		}
	}

	_, err = SubScriptFrom([]byte{OP_TRUE, OP_PUSHDATA1}, 1)
	if !IsErrorCode(err, ErrMalformedPush) {
		t.Errorf("SubScriptFrom malformed: unexpected err %v", err)
	}
}
