// Copyright (c) 2019 The Decred developers
// Copyright (c) 2019-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
	"fmt"
)

// opcodeArrayRef is used to break initialization cycles.
var opcodeArrayRef *[256]opcode

func init() {
	opcodeArrayRef = &opcodeArray
}

// pushHeader decodes the push encoding of the opcode at the start of script.
// It returns the size of the header, which is the opcode byte plus any
// little-endian length prefix, and the payload size the header declares.  The
// payload itself is not checked against the script.
func pushHeader(op *opcode, script []byte) (int, int64, error) {
	switch {
	// Opcodes without a payload, including the small integers which
	// represent their own value.
	case op.length == 1:
		return 1, 0, nil

	// OP_DATA_1 through OP_DATA_75 encode the payload size in the opcode.
	case op.length > 1:
		return 1, int64(op.length - 1), nil
	}

	prefixLen := -op.length
	if len(script)-1 < prefixLen {
		str := fmt.Sprintf("opcode %s requires a %d byte length, but script "+
			"only has %d remaining", op.name, prefixLen, len(script)-1)
		return 0, 0, scriptError(ErrMalformedPush, str)
	}

	prefix := script[1 : 1+prefixLen]
	switch prefixLen {
	case 1:
		return 2, int64(prefix[0]), nil
	case 2:
		return 3, int64(binary.LittleEndian.Uint16(prefix)), nil
	case 4:
		return 5, int64(binary.LittleEndian.Uint32(prefix)), nil
	}

	str := fmt.Sprintf("invalid opcode length %d", op.length)
	return 0, 0, scriptError(ErrMalformedPush, str)
}

// ScriptTokenizer walks a script one operation at a time without allocating.
// Each call to Next parses the following opcode and its payload, which are
// then available through Opcode and Data.  A parse failure ends the walk and
// is reported by Err.  ByteIndex is the offset of the next unparsed byte.
type ScriptTokenizer struct {
	script []byte
	offset int32
	op     *opcode
	data   []byte
	err    error
}

// Done returns true when the whole script was consumed or a parse failure
// ended the walk.
func (t *ScriptTokenizer) Done() bool {
	return t.err != nil || t.offset >= int32(len(t.script))
}

// Next parses the next operation and reports whether it succeeded.  A payload
// running past the end of the script is a parse failure; it is never zero
// filled.  After a false return the previously parsed opcode and data remain
// available and the offset points at the failing opcode.  Calling Next when
// already done is not an error.
func (t *ScriptTokenizer) Next() bool {
	if t.Done() {
		return false
	}

	rest := t.script[t.offset:]
	op := &opcodeArrayRef[rest[0]]
	header, payload, err := pushHeader(op, rest)
	if err != nil {
		t.err = err
		return false
	}
	if remaining := int64(len(rest) - header); payload > remaining {
		str := fmt.Sprintf("opcode %s pushes %d bytes, but script only "+
			"has %d remaining", op.name, payload, remaining)
		t.err = scriptError(ErrMalformedPush, str)
		return false
	}

	end := header + int(payload)
	t.op = op
	t.data = nil
	if op.length != 1 {
		t.data = rest[header:end]
	}
	t.offset += int32(end)
	return true
}

// Script returns the script being tokenized.
func (t *ScriptTokenizer) Script() []byte {
	return t.script
}

// ByteIndex returns the offset of the next byte to parse.
func (t *ScriptTokenizer) ByteIndex() int32 {
	return t.offset
}

// Opcode returns the most recently parsed opcode.
func (t *ScriptTokenizer) Opcode() byte {
	return t.op.value
}

// Data returns the payload of the most recently parsed opcode, or nil for
// opcodes that push nothing.
func (t *ScriptTokenizer) Data() []byte {
	return t.data
}

// Err returns the parse failure, if any.
func (t *ScriptTokenizer) Err() error {
	return t.err
}

// MakeScriptTokenizer returns a tokenizer positioned at the start of script.
func MakeScriptTokenizer(script []byte) ScriptTokenizer {
	return ScriptTokenizer{script: script}
}
