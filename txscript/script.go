// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"fmt"
	"strings"
)

// isSmallInt returns whether or not the opcode is considered a small integer,
// which is an OP_0, or OP_1 through OP_16.
func isSmallInt(op byte) bool {
	return op == OP_0 || (op >= OP_1 && op <= OP_16)
}

// asSmallInt returns the passed opcode, which must be true according to
// isSmallInt(), as an integer.
func asSmallInt(op byte) int {
	if op == OP_0 {
		return 0
	}

	return int(op - (OP_1 - 1))
}

// isScriptHashScript returns whether or not the passed script is a
// pay-to-script-hash script per BIP0016:
//
//	OP_HASH160 <20-byte hash> OP_EQUAL
func isScriptHashScript(script []byte) bool {
	return extractScriptHash(script) != nil
}

// extractScriptHash extracts the script hash from the passed script if it is a
// standard pay-to-script-hash script.  It will return nil otherwise.
func extractScriptHash(script []byte) []byte {
	// A pay-to-script-hash script is of the form:
	//  OP_HASH160 <20-byte scripthash> OP_EQUAL
	if len(script) == 23 &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL {

		return script[2:22]
	}

	return nil
}

// IsPayToScriptHash returns true if the script is in the standard
// pay-to-script-hash (P2SH) format, false otherwise.
func IsPayToScriptHash(script []byte) bool {
	return isScriptHashScript(script)
}

// IsPushOnlyScript returns whether or not the passed script only pushes data
// according to the consensus definition of pushing data.
//
// WARNING: This function always treats the passed script as the push-only
// check of an input; a script that fails to parse is not push only.
func IsPushOnlyScript(script []byte) bool {
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		// All opcodes up to OP_16 are data push instructions.
		// NOTE: This does consider OP_RESERVED to be a data push instruction,
		// but execution of OP_RESERVED will fail anyway and matches the
		// behavior required by consensus.
		if tokenizer.Opcode() > OP_16 {
			return false
		}
	}
	return tokenizer.Err() == nil
}

// IsUnspendable returns whether the passed public key script is unspendable, or
// guaranteed to fail at execution.  This allows outputs to be pruned instantly
// when entering the UTXO set.
func IsUnspendable(pkScript []byte) bool {
	// The script is unspendable if starts with OP_RETURN or is guaranteed
	// to fail at execution due to being larger than the max allowed
	// script size.
	switch {
	case len(pkScript) > 0 && pkScript[0] == OP_RETURN:
		return true
	case len(pkScript) > MaxScriptSize:
		return true
	}

	// The script is unspendable if it is guaranteed to fail at execution.
	return checkScriptParses(pkScript) != nil
}

// checkScriptParses returns an error if the provided script fails to parse.
func checkScriptParses(script []byte) error {
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		// Nothing to do.
	}
	return tokenizer.Err()
}

// DisasmString formats a disassembled script for one line printing.  When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string '[error]'
// appended.  In addition, the reason the script failed to parse is returned
// if the caller wants more information about the failure.
//
// Small integers and OP_1NEGATE disassemble to their decimal value and data
// pushes to their hex payload, so the output of DisasmString parses back to
// the same script with ParseScriptString when every push is canonical.
func DisasmString(script []byte) (string, error) {
	var disbuf strings.Builder
	tokenizer := MakeScriptTokenizer(script)
	if tokenizer.Next() {
		disasmOpcode(&disbuf, tokenizer.op, tokenizer.Data(), true)
	}
	for tokenizer.Next() {
		disbuf.WriteByte(' ')
		disasmOpcode(&disbuf, tokenizer.op, tokenizer.Data(), true)
	}
	if tokenizer.Err() != nil {
		if disbuf.Len() > 0 {
			disbuf.WriteByte(' ')
		}
		disbuf.WriteString("[error]")
	}
	return disbuf.String(), tokenizer.Err()
}

// removeOpcodeRaw will return the script after removing any opcodes that match
// the provided opcode.  The data of pushes is never inspected, so bytes that
// happen to equal the opcode inside pushed data are left alone.
//
// The script must already be known to parse.
func removeOpcodeRaw(script []byte, opcode byte) []byte {
	// Avoid work when possible.
	if !bytes.Contains(script, []byte{opcode}) {
		return script
	}

	var result []byte
	var prevOffset int32
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		if tokenizer.Opcode() == opcode {
			if result == nil {
				result = make([]byte, 0, len(script))
				result = append(result, script[:prevOffset]...)
			}
		} else if result != nil {
			result = append(result, script[prevOffset:tokenizer.ByteIndex()]...)
		}
		prevOffset = tokenizer.ByteIndex()
	}
	if result == nil {
		return script
	}
	return result
}

// isCanonicalPush returns true if the opcode is either not a push instruction
// or the data associated with the push instruction uses the smallest
// instruction to do the job.  False otherwise.
//
// For example, it is possible to push a value of 1 to the stack as "OP_1",
// "OP_DATA_1 0x01", "OP_PUSHDATA1 0x01 0x01", and others, however, the first
// only takes a single byte, while the rest take more.  Only the first is
// considered canonical.
func isCanonicalPush(op *opcode, data []byte) bool {
	if op.value > OP_PUSHDATA4 {
		return true
	}
	return checkMinimalDataPush(op, data) == nil
}

// removeOpcodeByData will return the script minus any canonical data pushes
// whose payload is exactly the passed data.  This is how a signature is
// elided from the script a signature hash commits to, since a signature can
// not sign itself.
//
// The script must already be known to parse.
func removeOpcodeByData(script []byte, data []byte) []byte {
	// Avoid work when possible.
	if len(data) == 0 || !bytes.Contains(script, data) {
		return script
	}

	var result []byte
	var prevOffset int32
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		// A canonical push whose payload matches is dropped by copying
		// everything seen since the previous opcode except it.
		op, pushed := tokenizer.op, tokenizer.Data()
		if op.value <= OP_PUSHDATA4 && isCanonicalPush(op, pushed) &&
			bytes.Equal(pushed, data) {

			if result == nil {
				result = make([]byte, 0, len(script))
				result = append(result, script[:prevOffset]...)
			}
		} else if result != nil {
			result = append(result, script[prevOffset:tokenizer.ByteIndex()]...)
		}

		prevOffset = tokenizer.ByteIndex()
	}
	if result == nil {
		result = script
	}
	return result
}

// opcodeOffset returns the byte offset of the opcode at position index within
// script, where index may equal the number of opcodes to address the end.
func opcodeOffset(script []byte, index int) (int32, error) {
	if index < 0 {
		str := fmt.Sprintf("opcode index %d is negative", index)
		return 0, scriptError(ErrInvalidIndex, str)
	}

	var numOpcodes int
	tokenizer := MakeScriptTokenizer(script)
	for numOpcodes < index && tokenizer.Next() {
		numOpcodes++
	}
	if err := tokenizer.Err(); err != nil {
		return 0, err
	}
	if numOpcodes < index {
		str := fmt.Sprintf("opcode index %d exceeds the %d opcodes in the "+
			"script", index, numOpcodes)
		return 0, scriptError(ErrInvalidIndex, str)
	}
	return tokenizer.ByteIndex(), nil
}

// SubScriptFrom returns the portion of the script starting at the opcode with
// the given zero-based index through the end of the script.
func SubScriptFrom(script []byte, index int) ([]byte, error) {
	offset, err := opcodeOffset(script, index)
	if err != nil {
		return nil, err
	}
	if err := checkScriptParses(script[offset:]); err != nil {
		return nil, err
	}
	return script[offset:], nil
}

// SubScriptTo returns the portion of the script made of the opcodes before the
// one with the given zero-based index.
func SubScriptTo(script []byte, index int) ([]byte, error) {
	offset, err := opcodeOffset(script, index)
	if err != nil {
		return nil, err
	}
	return script[:offset], nil
}

// countSigOps returns the number of signature operations in the script.  When
// precise is set, a multisig preceded by a small integer counts that many
// operations; otherwise it counts as MaxPubKeysPerMultiSig.  The count up to
// the first parse failure is returned for malformed scripts.
func countSigOps(script []byte, precise bool) int {
	numSigOps := 0
	tokenizer := MakeScriptTokenizer(script)
	prevOp := byte(OP_INVALIDOPCODE)
	for tokenizer.Next() {
		switch tokenizer.Opcode() {
		case OP_CHECKSIG, OP_CHECKSIGVERIFY:
			numSigOps++

		case OP_CHECKMULTISIG, OP_CHECKMULTISIGVERIFY:
			// Note that OP_0 is treated as the max number of sigops here in
			// precise mode despite it being a valid small integer in order to
			// highly discourage multisigs with zero pubkeys.
			if precise && prevOp >= OP_1 && prevOp <= OP_16 {
				numSigOps += asSmallInt(prevOp)
			} else {
				numSigOps += MaxPubKeysPerMultiSig
			}

		default:
			// Not a sigop.
		}

		prevOp = tokenizer.Opcode()
	}

	return numSigOps
}

// GetSigOpCount provides a quick count of the number of signature operations
// in a script.  A CHECKSIG operation counts for 1, and a CHECKMULTISIG for 20.
// If the script fails to parse, then the count up to the point of failure is
// returned.
func GetSigOpCount(script []byte) int {
	return countSigOps(script, false)
}

// GetPreciseSigOpCount returns the number of signature operations in
// scriptPubKey.  If bip16 is true then scriptSig may be searched for the
// Pay-To-Script-Hash script in order to find the precise number of signature
// operations in the transaction.  If the script fails to parse, then the count
// up to the point of failure is returned.
func GetPreciseSigOpCount(scriptSig, scriptPubKey []byte, bip16 bool) int {
	// Treat non P2SH transactions as normal.  Note that signature operation
	// counting includes all operations up to the first parse failure.
	if !(bip16 && isScriptHashScript(scriptPubKey)) {
		return countSigOps(scriptPubKey, true)
	}

	// The signature script must only push data to the stack for P2SH to be
	// a valid pair, so the signature operation count is 0 when that is not
	// the case.
	if len(scriptSig) == 0 || !IsPushOnlyScript(scriptSig) {
		return 0
	}

	// The P2SH script is the last item the signature script pushes to the
	// stack.  When the script is empty, there are no signature operations.
	var redeemScript []byte
	tokenizer := MakeScriptTokenizer(scriptSig)
	for tokenizer.Next() {
		redeemScript = tokenizer.Data()
	}
	return countSigOps(redeemScript, true)
}

// PushedData returns an array of byte slices containing any pushed data found
// in the passed script.  This includes OP_0, but not OP_1 - OP_16.
func PushedData(script []byte) ([][]byte, error) {
	var data [][]byte
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		if tokenizer.Data() != nil {
			data = append(data, tokenizer.Data())
		} else if tokenizer.Opcode() == OP_0 {
			data = append(data, nil)
		}
	}
	if err := tokenizer.Err(); err != nil {
		return nil, err
	}
	return data, nil
}
