// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var (
	// shortFormOps holds a map of opcode names to values for use in the
	// human-readable form.  It is populated on first use.
	shortFormOps     map[string]byte
	shortFormOpsOnce sync.Once
)

// initShortFormOps builds the opcode lookup used by ParseScriptString.  Every
// opcode may be named with or without the OP_ prefix, except OP_0 through
// OP_16 which would otherwise collide with plain numbers.
func initShortFormOps() {
	ops := make(map[string]byte, 2*len(OpcodeByName))
	for opcodeName, opcodeValue := range OpcodeByName {
		if strings.Contains(opcodeName, "OP_UNKNOWN") {
			continue
		}
		ops[opcodeName] = opcodeValue

		// OP_FALSE and OP_TRUE are aliases of OP_0 and OP_1 that do not
		// look like numbers, so they may be shortened too.
		if opcodeName == "OP_FALSE" || opcodeName == "OP_TRUE" ||
			!isSmallInt(opcodeValue) {

			ops[strings.TrimPrefix(opcodeName, "OP_")] = opcodeValue
		}
	}
	shortFormOps = ops
}

// expandRepeat handles the tok{n} suffix which repeats the bytes of tok n
// times.  It returns the token unchanged with a count of 1 when there is no
// suffix.
func expandRepeat(tok string) (string, int, error) {
	if !strings.HasSuffix(tok, "}") {
		return tok, 1, nil
	}
	open := strings.LastIndexByte(tok, '{')
	if open <= 0 {
		return "", 0, fmt.Errorf("bad repetition in token %q", tok)
	}
	count, err := strconv.Atoi(tok[open+1 : len(tok)-1])
	if err != nil || count < 0 {
		return "", 0, fmt.Errorf("bad repetition count in token %q", tok)
	}
	return tok[:open], count, nil
}

// isHexString reports whether the token is a non-empty even length string of
// hex digits.
func isHexString(tok string) bool {
	if len(tok) == 0 || len(tok)%2 != 0 {
		return false
	}
	for _, c := range tok {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ParseScriptString parses the human-readable form of a script, the reverse of
// DisasmString, into its raw bytes.  Tokens are separated by whitespace and are
// interpreted, in order, as:
//
//   - a decimal integer, pushed as a minimally encoded number
//   - 0x followed by hex digits, appended as raw bytes with no push opcode
//   - a single-quoted string, pushed as data
//   - an opcode name, with or without the OP_ prefix
//   - a bare even length hex string, pushed as data
//
// A raw hex token may carry a {n} suffix to repeat its bytes n times, for
// example 0x01{76}.  Raw bytes and quoted strings bypass the script size and
// element size limits so that deliberately invalid scripts can be expressed.
func ParseScriptString(script string) ([]byte, error) {
	shortFormOpsOnce.Do(initShortFormOps)

	builder := NewScriptBuilder()
	for _, tok := range strings.Fields(script) {
		// Plain numbers.
		if num, err := strconv.ParseInt(tok, 10, 64); err == nil {
			builder.AddInt64(num)
			continue
		}

		// Raw bytes, optionally repeated.
		if strings.HasPrefix(tok, "0x") {
			hexStr, count, err := expandRepeat(tok[2:])
			if err != nil {
				return nil, err
			}
			raw, err := hex.DecodeString(hexStr)
			if err != nil {
				return nil, fmt.Errorf("bad hex in token %q: %v", tok, err)
			}

			// Concatenate the bytes manually since scripts are
			// intentionally allowed to exceed the limits the builder
			// enforces.
			if builder.err == nil {
				builder.script = append(builder.script,
					bytes.Repeat(raw, count)...)
			}
			continue
		}

		// Quoted strings.
		if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
			builder.AddFullData([]byte(tok[1 : len(tok)-1]))
			continue
		}

		if opcode, ok := shortFormOps[tok]; ok {
			builder.AddOp(opcode)
			continue
		}

		if isHexString(tok) {
			data, _ := hex.DecodeString(tok)
			builder.AddFullData(data)
			continue
		}

		return nil, fmt.Errorf("bad token %q", tok)
	}
	return builder.Script()
}
