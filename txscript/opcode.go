// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/ripemd160"

	"github.com/btcvm/btcvm/btckey"
	"github.com/btcvm/btcvm/wire"
)

// An opcode defines the information related to a txscript opcode.  The length
// is 1 for opcodes that carry no data, the total encoded size for the fixed
// OP_DATA_N pushes, and the negated size of the little-endian length prefix for
// OP_PUSHDATA1/2/4.  opfunc performs the opcode against the engine.
type opcode struct {
	value  byte
	name   string
	length int
	opfunc func(*opcode, []byte, *Engine) error
}

// The opcode values as used by Bitcoin Core.  Every value after OP_0 is one
// more than the value before it.
const (
	OP_0 = 0x00

	// Fixed size pushes.  OP_DATA_N pushes the N bytes following it.
	OP_DATA_1 = iota
	OP_DATA_2
	OP_DATA_3
	OP_DATA_4
	OP_DATA_5
	OP_DATA_6
	OP_DATA_7
	OP_DATA_8
	OP_DATA_9
	OP_DATA_10
	OP_DATA_11
	OP_DATA_12
	OP_DATA_13
	OP_DATA_14
	OP_DATA_15
	OP_DATA_16
	OP_DATA_17
	OP_DATA_18
	OP_DATA_19
	OP_DATA_20
	OP_DATA_21
	OP_DATA_22
	OP_DATA_23
	OP_DATA_24
	OP_DATA_25
	OP_DATA_26
	OP_DATA_27
	OP_DATA_28
	OP_DATA_29
	OP_DATA_30
	OP_DATA_31
	OP_DATA_32
	OP_DATA_33
	OP_DATA_34
	OP_DATA_35
	OP_DATA_36
	OP_DATA_37
	OP_DATA_38
	OP_DATA_39
	OP_DATA_40
	OP_DATA_41
	OP_DATA_42
	OP_DATA_43
	OP_DATA_44
	OP_DATA_45
	OP_DATA_46
	OP_DATA_47
	OP_DATA_48
	OP_DATA_49
	OP_DATA_50
	OP_DATA_51
	OP_DATA_52
	OP_DATA_53
	OP_DATA_54
	OP_DATA_55
	OP_DATA_56
	OP_DATA_57
	OP_DATA_58
	OP_DATA_59
	OP_DATA_60
	OP_DATA_61
	OP_DATA_62
	OP_DATA_63
	OP_DATA_64
	OP_DATA_65
	OP_DATA_66
	OP_DATA_67
	OP_DATA_68
	OP_DATA_69
	OP_DATA_70
	OP_DATA_71
	OP_DATA_72
	OP_DATA_73
	OP_DATA_74
	OP_DATA_75

	// Pushes with a 1, 2 or 4 byte little-endian length prefix.
	OP_PUSHDATA1
	OP_PUSHDATA2
	OP_PUSHDATA4

	// Small integers.
	OP_1NEGATE
	OP_RESERVED
	OP_1
	OP_2
	OP_3
	OP_4
	OP_5
	OP_6
	OP_7
	OP_8
	OP_9
	OP_10
	OP_11
	OP_12
	OP_13
	OP_14
	OP_15
	OP_16

	// Flow control.
	OP_NOP
	OP_VER
	OP_IF
	OP_NOTIF
	OP_VERIF
	OP_VERNOTIF
	OP_ELSE
	OP_ENDIF
	OP_VERIFY
	OP_RETURN

	// Stack.
	OP_TOALTSTACK
	OP_FROMALTSTACK
	OP_2DROP
	OP_2DUP
	OP_3DUP
	OP_2OVER
	OP_2ROT
	OP_2SWAP
	OP_IFDUP
	OP_DEPTH
	OP_DROP
	OP_DUP
	OP_NIP
	OP_OVER
	OP_PICK
	OP_ROLL
	OP_ROT
	OP_SWAP
	OP_TUCK

	// Splice.
	OP_CAT
	OP_SUBSTR
	OP_LEFT
	OP_RIGHT
	OP_SIZE

	// Bitwise logic.
	OP_INVERT
	OP_AND
	OP_OR
	OP_XOR
	OP_EQUAL
	OP_EQUALVERIFY
	OP_RESERVED1
	OP_RESERVED2

	// Arithmetic.
	OP_1ADD
	OP_1SUB
	OP_2MUL
	OP_2DIV
	OP_NEGATE
	OP_ABS
	OP_NOT
	OP_0NOTEQUAL
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD
	OP_LSHIFT
	OP_RSHIFT
	OP_BOOLAND
	OP_BOOLOR
	OP_NUMEQUAL
	OP_NUMEQUALVERIFY
	OP_NUMNOTEQUAL
	OP_LESSTHAN
	OP_GREATERTHAN
	OP_LESSTHANOREQUAL
	OP_GREATERTHANOREQUAL
	OP_MIN
	OP_MAX
	OP_WITHIN

	// Crypto.
	OP_RIPEMD160
	OP_SHA1
	OP_SHA256
	OP_HASH160
	OP_HASH256
	OP_CODESEPARATOR
	OP_CHECKSIG
	OP_CHECKSIGVERIFY
	OP_CHECKMULTISIG
	OP_CHECKMULTISIGVERIFY

	// Expansion.
	OP_NOP1
	OP_CHECKLOCKTIMEVERIFY
	OP_CHECKSEQUENCEVERIFY
	OP_NOP4
	OP_NOP5
	OP_NOP6
	OP_NOP7
	OP_NOP8
	OP_NOP9
	OP_NOP10

	// Unassigned.
	OP_UNKNOWN186
	OP_UNKNOWN187
	OP_UNKNOWN188
	OP_UNKNOWN189
	OP_UNKNOWN190
	OP_UNKNOWN191
	OP_UNKNOWN192
	OP_UNKNOWN193
	OP_UNKNOWN194
	OP_UNKNOWN195
	OP_UNKNOWN196
	OP_UNKNOWN197
	OP_UNKNOWN198
	OP_UNKNOWN199
	OP_UNKNOWN200
	OP_UNKNOWN201
	OP_UNKNOWN202
	OP_UNKNOWN203
	OP_UNKNOWN204
	OP_UNKNOWN205
	OP_UNKNOWN206
	OP_UNKNOWN207
	OP_UNKNOWN208
	OP_UNKNOWN209
	OP_UNKNOWN210
	OP_UNKNOWN211
	OP_UNKNOWN212
	OP_UNKNOWN213
	OP_UNKNOWN214
	OP_UNKNOWN215
	OP_UNKNOWN216
	OP_UNKNOWN217
	OP_UNKNOWN218
	OP_UNKNOWN219
	OP_UNKNOWN220
	OP_UNKNOWN221
	OP_UNKNOWN222
	OP_UNKNOWN223
	OP_UNKNOWN224
	OP_UNKNOWN225
	OP_UNKNOWN226
	OP_UNKNOWN227
	OP_UNKNOWN228
	OP_UNKNOWN229
	OP_UNKNOWN230
	OP_UNKNOWN231
	OP_UNKNOWN232
	OP_UNKNOWN233
	OP_UNKNOWN234
	OP_UNKNOWN235
	OP_UNKNOWN236
	OP_UNKNOWN237
	OP_UNKNOWN238
	OP_UNKNOWN239
	OP_UNKNOWN240
	OP_UNKNOWN241
	OP_UNKNOWN242
	OP_UNKNOWN243
	OP_UNKNOWN244
	OP_UNKNOWN245
	OP_UNKNOWN246
	OP_UNKNOWN247
	OP_UNKNOWN248
	OP_UNKNOWN249

	// Values used internally by Bitcoin Core.  They are never valid in a script.
	OP_SMALLINTEGER
	OP_PUBKEYS
	OP_UNKNOWN252
	OP_PUBKEYHASH
	OP_PUBKEY
	OP_INVALIDOPCODE
)

// Aliases.
const (
	OP_FALSE = OP_0
	OP_TRUE  = OP_1
	OP_NOP2  = OP_CHECKLOCKTIMEVERIFY
	OP_NOP3  = OP_CHECKSEQUENCEVERIFY
)

// Conditional execution constants.
const (
	OpCondFalse = 0
	OpCondTrue  = 1
	OpCondSkip  = 2
)

// opcodeArray holds the encoding, name and handler of every possible opcode.
// It is filled in by init from namedOpcodes, with the data pushes, small
// integers and unassigned values generated.
var opcodeArray [256]opcode

// namedOpcodes lists the opcodes that have their own name and handler.
var namedOpcodes = []struct {
	value  byte
	name   string
	opfunc func(*opcode, []byte, *Engine) error
}{
	{OP_0, "OP_0", opcodeFalse},
	{OP_PUSHDATA1, "OP_PUSHDATA1", opcodePushData},
	{OP_PUSHDATA2, "OP_PUSHDATA2", opcodePushData},
	{OP_PUSHDATA4, "OP_PUSHDATA4", opcodePushData},
	{OP_1NEGATE, "OP_1NEGATE", opcode1Negate},
	{OP_RESERVED, "OP_RESERVED", opcodeReserved},
	{OP_NOP, "OP_NOP", opcodeNop},
	{OP_VER, "OP_VER", opcodeReserved},
	{OP_IF, "OP_IF", opcodeIf},
	{OP_NOTIF, "OP_NOTIF", opcodeNotIf},
	{OP_VERIF, "OP_VERIF", opcodeReserved},
	{OP_VERNOTIF, "OP_VERNOTIF", opcodeReserved},
	{OP_ELSE, "OP_ELSE", opcodeElse},
	{OP_ENDIF, "OP_ENDIF", opcodeEndif},
	{OP_VERIFY, "OP_VERIFY", opcodeVerify},
	{OP_RETURN, "OP_RETURN", opcodeReturn},
	{OP_TOALTSTACK, "OP_TOALTSTACK", opcodeToAltStack},
	{OP_FROMALTSTACK, "OP_FROMALTSTACK", opcodeFromAltStack},
	{OP_2DROP, "OP_2DROP", opcode2Drop},
	{OP_2DUP, "OP_2DUP", opcode2Dup},
	{OP_3DUP, "OP_3DUP", opcode3Dup},
	{OP_2OVER, "OP_2OVER", opcode2Over},
	{OP_2ROT, "OP_2ROT", opcode2Rot},
	{OP_2SWAP, "OP_2SWAP", opcode2Swap},
	{OP_IFDUP, "OP_IFDUP", opcodeIfDup},
	{OP_DEPTH, "OP_DEPTH", opcodeDepth},
	{OP_DROP, "OP_DROP", opcodeDrop},
	{OP_DUP, "OP_DUP", opcodeDup},
	{OP_NIP, "OP_NIP", opcodeNip},
	{OP_OVER, "OP_OVER", opcodeOver},
	{OP_PICK, "OP_PICK", opcodePick},
	{OP_ROLL, "OP_ROLL", opcodeRoll},
	{OP_ROT, "OP_ROT", opcodeRot},
	{OP_SWAP, "OP_SWAP", opcodeSwap},
	{OP_TUCK, "OP_TUCK", opcodeTuck},
	{OP_CAT, "OP_CAT", opcodeDisabled},
	{OP_SUBSTR, "OP_SUBSTR", opcodeDisabled},
	{OP_LEFT, "OP_LEFT", opcodeDisabled},
	{OP_RIGHT, "OP_RIGHT", opcodeDisabled},
	{OP_SIZE, "OP_SIZE", opcodeSize},
	{OP_INVERT, "OP_INVERT", opcodeDisabled},
	{OP_AND, "OP_AND", opcodeDisabled},
	{OP_OR, "OP_OR", opcodeDisabled},
	{OP_XOR, "OP_XOR", opcodeDisabled},
	{OP_EQUAL, "OP_EQUAL", opcodeEqual},
	{OP_EQUALVERIFY, "OP_EQUALVERIFY", opcodeEqualVerify},
	{OP_RESERVED1, "OP_RESERVED1", opcodeReserved},
	{OP_RESERVED2, "OP_RESERVED2", opcodeReserved},
	{OP_1ADD, "OP_1ADD", opcode1Add},
	{OP_1SUB, "OP_1SUB", opcode1Sub},
	{OP_2MUL, "OP_2MUL", opcodeDisabled},
	{OP_2DIV, "OP_2DIV", opcodeDisabled},
	{OP_NEGATE, "OP_NEGATE", opcodeNegate},
	{OP_ABS, "OP_ABS", opcodeAbs},
	{OP_NOT, "OP_NOT", opcodeNot},
	{OP_0NOTEQUAL, "OP_0NOTEQUAL", opcode0NotEqual},
	{OP_ADD, "OP_ADD", opcodeAdd},
	{OP_SUB, "OP_SUB", opcodeSub},
	{OP_MUL, "OP_MUL", opcodeDisabled},
	{OP_DIV, "OP_DIV", opcodeDisabled},
	{OP_MOD, "OP_MOD", opcodeDisabled},
	{OP_LSHIFT, "OP_LSHIFT", opcodeDisabled},
	{OP_RSHIFT, "OP_RSHIFT", opcodeDisabled},
	{OP_BOOLAND, "OP_BOOLAND", opcodeBoolAnd},
	{OP_BOOLOR, "OP_BOOLOR", opcodeBoolOr},
	{OP_NUMEQUAL, "OP_NUMEQUAL", opcodeNumEqual},
	{OP_NUMEQUALVERIFY, "OP_NUMEQUALVERIFY", opcodeNumEqualVerify},
	{OP_NUMNOTEQUAL, "OP_NUMNOTEQUAL", opcodeNumNotEqual},
	{OP_LESSTHAN, "OP_LESSTHAN", opcodeLessThan},
	{OP_GREATERTHAN, "OP_GREATERTHAN", opcodeGreaterThan},
	{OP_LESSTHANOREQUAL, "OP_LESSTHANOREQUAL", opcodeLessThanOrEqual},
	{OP_GREATERTHANOREQUAL, "OP_GREATERTHANOREQUAL", opcodeGreaterThanOrEqual},
	{OP_MIN, "OP_MIN", opcodeMin},
	{OP_MAX, "OP_MAX", opcodeMax},
	{OP_WITHIN, "OP_WITHIN", opcodeWithin},
	{OP_RIPEMD160, "OP_RIPEMD160", opcodeRipemd160},
	{OP_SHA1, "OP_SHA1", opcodeSha1},
	{OP_SHA256, "OP_SHA256", opcodeSha256},
	{OP_HASH160, "OP_HASH160", opcodeHash160},
	{OP_HASH256, "OP_HASH256", opcodeHash256},
	{OP_CODESEPARATOR, "OP_CODESEPARATOR", opcodeCodeSeparator},
	{OP_CHECKSIG, "OP_CHECKSIG", opcodeCheckSig},
	{OP_CHECKSIGVERIFY, "OP_CHECKSIGVERIFY", opcodeCheckSigVerify},
	{OP_CHECKMULTISIG, "OP_CHECKMULTISIG", opcodeCheckMultiSig},
	{OP_CHECKMULTISIGVERIFY, "OP_CHECKMULTISIGVERIFY", opcodeCheckMultiSigVerify},
	{OP_NOP1, "OP_NOP1", opcodeNop},
	{OP_CHECKLOCKTIMEVERIFY, "OP_CHECKLOCKTIMEVERIFY", opcodeCheckLockTimeVerify},
	{OP_CHECKSEQUENCEVERIFY, "OP_CHECKSEQUENCEVERIFY", opcodeCheckSequenceVerify},
	{OP_NOP4, "OP_NOP4", opcodeNop},
	{OP_NOP5, "OP_NOP5", opcodeNop},
	{OP_NOP6, "OP_NOP6", opcodeNop},
	{OP_NOP7, "OP_NOP7", opcodeNop},
	{OP_NOP8, "OP_NOP8", opcodeNop},
	{OP_NOP9, "OP_NOP9", opcodeNop},
	{OP_NOP10, "OP_NOP10", opcodeNop},
	{OP_SMALLINTEGER, "OP_SMALLINTEGER", opcodeInvalid},
	{OP_PUBKEYS, "OP_PUBKEYS", opcodeInvalid},
	{OP_PUBKEYHASH, "OP_PUBKEYHASH", opcodeInvalid},
	{OP_PUBKEY, "OP_PUBKEY", opcodeInvalid},
	{OP_INVALIDOPCODE, "OP_INVALIDOPCODE", opcodeInvalid},
}

// disasmOpcode writes a human-readable disassembly of the provided opcode and
// data into the provided buffer.  The compact flag indicates the disassembly
// should print a more compact representation of data-carrying and small integer
// opcodes.  For example, OP_0 through OP_16 are replaced with the numeric value
// and data pushes are printed as only the hex representation of the data as
// opposed to including the opcode that specifies the amount of data to push as
// well.
func disasmOpcode(buf *strings.Builder, op *opcode, data []byte, compact bool) {
	if compact {
		switch {
		case op.length != 1:
			buf.WriteString(hex.EncodeToString(data))
		case op.value == OP_1NEGATE:
			buf.WriteString("-1")
		case isSmallInt(op.value):
			buf.WriteString(strconv.Itoa(asSmallInt(op.value)))
		default:
			buf.WriteString(op.name)
		}
		return
	}

	buf.WriteString(op.name)
	switch op.length {
	case 1:
		// Only write the opcode name for non-data push opcodes.
		return
	case -1:
		fmt.Fprintf(buf, " 0x%02x", len(data))
	case -2:
		fmt.Fprintf(buf, " 0x%04x", len(data))
	case -4:
		fmt.Fprintf(buf, " 0x%08x", len(data))
	}
	fmt.Fprintf(buf, " 0x%02x", data)
}

// *******************************************
// Opcode implementation functions start here.
// *******************************************

// opcodeDisabled is a common handler for disabled opcodes.  The consensus
// rules dictate the script doesn't fail until the program counter passes over
// a disabled opcode (even when they appear in a branch that is not executed),
// so the engine routes them here regardless of the branch state.
func opcodeDisabled(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute disabled opcode %s", op.name)
	return scriptError(ErrDisabledOpcode, str)
}

// opcodeReserved is a common handler for all reserved opcodes.
func opcodeReserved(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute reserved opcode %s", op.name)
	return scriptError(ErrReservedOpcode, str)
}

// opcodeInvalid is a common handler for all invalid opcodes.
func opcodeInvalid(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute invalid opcode %s", op.name)
	return scriptError(ErrReservedOpcode, str)
}

// opcodeFalse pushes an empty array to the data stack to represent false.  Note
// that 0, when encoded as a number according to the numeric encoding consensus
// rules, is an empty array.
func opcodeFalse(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushByteArray(nil)
	return nil
}

// opcodePushData is a common handler for the vast majority of opcodes that push
// raw data (bytes) to the data stack.
func opcodePushData(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushByteArray(data)
	return nil
}

// opcode1Negate pushes -1, encoded as a number, to the data stack.
func opcode1Negate(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(-1))
	return nil
}

// opcodeN is a common handler for the small integer data push opcodes.  It
// pushes the numeric value the opcode represents (which will be from 1 to 16)
// onto the data stack.
func opcodeN(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(asSmallInt(op.value)))
	return nil
}

// opcodeNop is a common handler for the NOP family of opcodes.  As the name
// implies it generally does nothing, however, it will return an error when
// the flag to discourage use of NOPs is set for select opcodes.
func opcodeNop(op *opcode, data []byte, vm *Engine) error {
	switch op.value {
	case OP_NOP1, OP_NOP4, OP_NOP5,
		OP_NOP6, OP_NOP7, OP_NOP8, OP_NOP9, OP_NOP10:

		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			str := fmt.Sprintf("%v reserved for soft-fork "+
				"upgrades", op.name)
			return scriptError(ErrDiscourageUpgradableNOPs, str)
		}
	}
	return nil
}

// pushCondition appends the conditional frame for an OP_IF or OP_NOTIF.  The
// top stack item is only consumed when the enclosing branch is executing; a
// nested conditional in a skipped branch is recorded as skipped so that the
// matching OP_ELSE and OP_ENDIF still balance.
func pushCondition(vm *Engine, executeOn bool) error {
	condVal := OpCondSkip
	if vm.isBranchExecuting() {
		ok, err := vm.dstack.PopBool()
		if err != nil {
			return err
		}

		condVal = OpCondFalse
		if ok == executeOn {
			condVal = OpCondTrue
		}
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeIf treats the top item on the data stack as a boolean and removes it.
// When the boolean is true, the first branch will be executed (unless this
// opcode is nested in a non-executed branch).
//
// <expression> if [statements] [else [statements]] endif
//
// Note that, unlike for all non-conditional opcodes, this is executed even when
// it is on a non-executing branch so proper nesting is maintained.
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeIf(op *opcode, data []byte, vm *Engine) error {
	return pushCondition(vm, true)
}

// opcodeNotIf is the inverse of opcodeIf: the first branch is executed when
// the boolean is false.
//
// <expression> notif [statements] [else [statements]] endif
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeNotIf(op *opcode, data []byte, vm *Engine) error {
	return pushCondition(vm, false)
}

// opcodeElse inverts conditional execution for other half of if/else/endif.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [... !OpCondValue]
func opcodeElse(op *opcode, data []byte, vm *Engine) error {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.name)
		return scriptError(ErrUnbalancedConditional, str)
	}

	conditionalIdx := len(vm.condStack) - 1
	switch vm.condStack[conditionalIdx] {
	case OpCondTrue:
		vm.condStack[conditionalIdx] = OpCondFalse
	case OpCondFalse:
		vm.condStack[conditionalIdx] = OpCondTrue
	case OpCondSkip:
		// Value doesn't change in skip since it indicates this opcode
		// is nested in a non-executed branch.
	}
	return nil
}

// opcodeEndif terminates a conditional block, removing the value from the
// conditional execution stack.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [...]
func opcodeEndif(op *opcode, data []byte, vm *Engine) error {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.name)
		return scriptError(ErrUnbalancedConditional, str)
	}

	vm.condStack = vm.condStack[:len(vm.condStack)-1]
	return nil
}

// abstractVerify examines the top item on the data stack as a boolean value and
// verifies it evaluates to true.  An error is returned either when there is no
// item on the stack or when that item evaluates to false.  In the latter case
// where the verification fails specifically due to the top item evaluating
// to false, the returned error will use the passed error code.
func abstractVerify(op *opcode, vm *Engine, c ErrorCode) error {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}

	if !verified {
		str := fmt.Sprintf("%s failed", op.name)
		return scriptError(c, str)
	}
	return nil
}

// opcodeVerify examines the top item on the data stack as a boolean value and
// verifies it evaluates to true.  An error is returned if it does not.
func opcodeVerify(op *opcode, data []byte, vm *Engine) error {
	return abstractVerify(op, vm, ErrVerify)
}

// opcodeReturn returns an appropriate error since it is always an error to
// return early from a script.
func opcodeReturn(op *opcode, data []byte, vm *Engine) error {
	return scriptError(ErrEarlyReturn, "script returned early")
}

// verifyLockTime is a helper function used to validate locktimes.
func verifyLockTime(txLockTime, threshold, lockTime int64) error {
	// The lockTimes in both the script and transaction must be of the same
	// type.
	if (txLockTime < threshold) != (lockTime < threshold) {
		str := fmt.Sprintf("mismatched locktime types -- tx locktime "+
			"%d, stack locktime %d", txLockTime, lockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	if lockTime > txLockTime {
		str := fmt.Sprintf("locktime requirement not satisfied -- "+
			"locktime is greater than the transaction locktime: "+
			"%d > %d", lockTime, txLockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	return nil
}

// peekLockValue returns the top stack item interpreted as a non-negative
// 5-byte script number as required by the lock time opcodes.  The item is not
// removed from the stack.
func peekLockValue(vm *Engine) (int64, error) {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return 0, err
	}
	n, err := makeScriptNum(so, vm.dstack.verifyMinimalData,
		cltvMaxScriptNumLen)
	if err != nil {
		return 0, err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use 0 OP_MAX before the
	// lock time opcode.
	if n < 0 {
		str := fmt.Sprintf("negative lock time: %d", n)
		return 0, scriptError(ErrNegativeLockTime, str)
	}
	return int64(n), nil
}

// opcodeCheckLockTimeVerify compares the top item on the data stack to the
// LockTime field of the transaction containing the script signature
// validating if the transaction outputs are spendable yet.  If flag
// ScriptVerifyCheckLockTimeVerify is not set, the code continues as if OP_NOP2
// were executed.
func opcodeCheckLockTimeVerify(op *opcode, data []byte, vm *Engine) error {
	if !vm.hasFlag(ScriptVerifyCheckLockTimeVerify) {
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			return scriptError(ErrDiscourageUpgradableNOPs,
				"OP_NOP2 reserved for soft-fork upgrades")
		}
		return nil
	}

	lockTime, err := peekLockValue(vm)
	if err != nil {
		return err
	}

	// The lock time field of a transaction is either a block height at
	// which the transaction is finalized or a timestamp depending on if the
	// value is before the LockTimeThreshold.  When it is under the
	// threshold it is a block height.
	err = verifyLockTime(int64(vm.tx.LockTime), LockTimeThreshold, lockTime)
	if err != nil {
		return err
	}

	// A finalized input disables the transaction lock time entirely, so the
	// input executing this opcode must not be finalized.  Checking the
	// executing input alone is sufficient.
	if vm.tx.TxIn[vm.txIdx].Sequence == wire.MaxTxInSequenceNum {
		return scriptError(ErrUnsatisfiedLockTime,
			"transaction input is finalized")
	}

	return nil
}

// opcodeCheckSequenceVerify compares the top item on the data stack to the
// sequence field of the input containing the script signature validating if
// the relative lock time has expired.  If flag ScriptVerifyCheckSequenceVerify
// is not set, the code continues as if OP_NOP3 were executed.
func opcodeCheckSequenceVerify(op *opcode, data []byte, vm *Engine) error {
	if !vm.hasFlag(ScriptVerifyCheckSequenceVerify) {
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			return scriptError(ErrDiscourageUpgradableNOPs,
				"OP_NOP3 reserved for soft-fork upgrades")
		}
		return nil
	}

	sequence, err := peekLockValue(vm)
	if err != nil {
		return err
	}

	// An operand with the disable flag set behaves as a NOP so future soft
	// forks can assign it meaning.
	if sequence&int64(wire.SequenceLockTimeDisabled) != 0 {
		return nil
	}

	// Transaction version numbers not high enough to trigger CSV rules must
	// fail.
	if uint32(vm.tx.Version) < 2 {
		str := fmt.Sprintf("invalid transaction version: %d",
			vm.tx.Version)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	// Sequence numbers with their most significant bit set are not
	// consensus constrained, so such an input can not satisfy the check.
	txSequence := int64(vm.tx.TxIn[vm.txIdx].Sequence)
	if txSequence&int64(wire.SequenceLockTimeDisabled) != 0 {
		str := fmt.Sprintf("transaction sequence has sequence "+
			"locktime disabled bit set: 0x%x", txSequence)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	// Mask off non-consensus bits before doing comparisons.
	lockTimeMask := int64(wire.SequenceLockTimeIsSeconds |
		wire.SequenceLockTimeMask)
	return verifyLockTime(txSequence&lockTimeMask,
		wire.SequenceLockTimeIsSeconds, sequence&lockTimeMask)
}

// opcodeToAltStack removes the top item from the main data stack and pushes it
// onto the alternate data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2 y3 x3]
func opcodeToAltStack(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)

	return nil
}

// opcodeFromAltStack removes the top item from the alternate data stack and
// pushes it onto the main data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 y3]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2]
func opcodeFromAltStack(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.astack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(so)

	return nil
}

// Stack transformation: [... x1 x2 x3] -> [... x1]
func opcode2Drop(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DropN(2)
}

// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2 x3]
func opcode2Dup(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DupN(2)
}

// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x1 x2 x3]
func opcode3Dup(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DupN(3)
}

// Stack transformation: [... x1 x2 x3 x4] -> [... x1 x2 x3 x4 x1 x2]
func opcode2Over(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.OverN(2)
}

// Stack transformation: [... x1 x2 x3 x4 x5 x6] -> [... x3 x4 x5 x6 x1 x2]
func opcode2Rot(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.RotN(2)
}

// Stack transformation: [... x1 x2 x3 x4] -> [... x3 x4 x1 x2]
func opcode2Swap(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.SwapN(2)
}

// opcodeIfDup duplicates the top item of the stack if it is not zero.
//
// Stack transformation (x1==0): [... x1] -> [... x1]
// Stack transformation (x1!=0): [... x1] -> [... x1 x1]
func opcodeIfDup(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	if asBool(so) {
		vm.dstack.PushByteArray(so)
	}
	return nil
}

// opcodeDepth pushes the depth of the data stack prior to executing this
// opcode, encoded as a number, onto the data stack.
//
// Stack transformation: [...] -> [... <num of items on the stack>]
func opcodeDepth(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(vm.dstack.Depth()))
	return nil
}

// Stack transformation: [... x1 x2 x3] -> [... x1 x2]
func opcodeDrop(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DropN(1)
}

// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x3]
func opcodeDup(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DupN(1)
}

// Stack transformation: [... x1 x2 x3] -> [... x1 x3]
func opcodeNip(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.NipN(1)
}

// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2]
func opcodeOver(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.OverN(1)
}

// opcodePick treats the top item on the data stack as an integer and duplicates
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [xn ... x2 x1 x0 xn]
func opcodePick(op *opcode, data []byte, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.PickN(val.Int32())
}

// opcodeRoll treats the top item on the data stack as an integer and moves
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [... x2 x1 x0 xn]
func opcodeRoll(op *opcode, data []byte, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.RollN(val.Int32())
}

// Stack transformation: [... x1 x2 x3] -> [... x2 x3 x1]
func opcodeRot(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.RotN(1)
}

// Stack transformation: [... x1 x2] -> [... x2 x1]
func opcodeSwap(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.SwapN(1)
}

// Stack transformation: [... x1 x2] -> [... x2 x1 x2]
func opcodeTuck(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.Tuck()
}

// opcodeSize pushes the size of the top item of the data stack onto the data
// stack.
//
// Stack transformation: [... x1] -> [... x1 len(x1)]
func opcodeSize(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(len(so)))
	return nil
}

// opcodeEqual removes the top 2 items of the data stack, compares them as raw
// bytes, and pushes the result, encoded as a boolean, back to the stack.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeEqual(op *opcode, data []byte, vm *Engine) error {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

// opcodeEqualVerify is a combination of opcodeEqual and opcodeVerify.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeEqualVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeEqual(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrEqualVerify)
	}
	return err
}

// unaryNumOp pops the top item of the data stack as a script number and
// pushes the result of fn applied to it.
//
// Stack transformation: [... x1] -> [... fn(x1)]
func unaryNumOp(vm *Engine, fn func(scriptNum) scriptNum) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(fn(m))
	return nil
}

// binaryNumOp pops the top two items of the data stack as script numbers and
// pushes the result of fn applied to them in stack order.
//
// Stack transformation: [... x1 x2] -> [... fn(x1, x2)]
func binaryNumOp(vm *Engine, fn func(x1, x2 scriptNum) scriptNum) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(fn(v1, v0))
	return nil
}

// binaryNumPredicate is binaryNumOp for operations that produce a boolean.
//
// Stack transformation: [... x1 x2] -> [... pred(x1, x2)]
func binaryNumPredicate(vm *Engine, pred func(x1, x2 scriptNum) bool) error {
	return binaryNumOp(vm, func(x1, x2 scriptNum) scriptNum {
		if pred(x1, x2) {
			return 1
		}
		return 0
	})
}

// Stack transformation: [... x1] -> [... x1+1]
func opcode1Add(op *opcode, data []byte, vm *Engine) error {
	return unaryNumOp(vm, func(m scriptNum) scriptNum { return m + 1 })
}

// Stack transformation: [... x1] -> [... x1-1]
func opcode1Sub(op *opcode, data []byte, vm *Engine) error {
	return unaryNumOp(vm, func(m scriptNum) scriptNum { return m - 1 })
}

// Stack transformation: [... x1] -> [... -x1]
func opcodeNegate(op *opcode, data []byte, vm *Engine) error {
	return unaryNumOp(vm, func(m scriptNum) scriptNum { return -m })
}

// Stack transformation: [... x1] -> [... abs(x1)]
func opcodeAbs(op *opcode, data []byte, vm *Engine) error {
	return unaryNumOp(vm, func(m scriptNum) scriptNum {
		if m < 0 {
			return -m
		}
		return m
	})
}

// opcodeNot treats the top item on the data stack as an integer and replaces
// it with its "inverted" value (0 becomes 1, non-zero becomes 0).
//
// NOTE: While it would probably make more sense to treat the top item as a
// boolean, and push the opposite, which is really what the intention of this
// opcode is, it is extremely important that is not done because integers are
// interpreted differently than booleans and the consensus rules for this opcode
// dictate the item is interpreted as an integer.
//
// Stack transformation (x1==0): [... x1] -> [... 1]
// Stack transformation (x1!=0): [... x1] -> [... 0]
func opcodeNot(op *opcode, data []byte, vm *Engine) error {
	return unaryNumOp(vm, func(m scriptNum) scriptNum {
		if m == 0 {
			return 1
		}
		return 0
	})
}

// Stack transformation (x1==0): [... x1] -> [... 0]
// Stack transformation (x1!=0): [... x1] -> [... 1]
func opcode0NotEqual(op *opcode, data []byte, vm *Engine) error {
	return unaryNumOp(vm, func(m scriptNum) scriptNum {
		if m != 0 {
			return 1
		}
		return 0
	})
}

// Stack transformation: [... x1 x2] -> [... x1+x2]
func opcodeAdd(op *opcode, data []byte, vm *Engine) error {
	return binaryNumOp(vm, func(x1, x2 scriptNum) scriptNum {
		return x1 + x2
	})
}

// Stack transformation: [... x1 x2] -> [... x1-x2]
func opcodeSub(op *opcode, data []byte, vm *Engine) error {
	return binaryNumOp(vm, func(x1, x2 scriptNum) scriptNum {
		return x1 - x2
	})
}

// Stack transformation: [... x1 x2] -> [... (x1 != 0 && x2 != 0)]
func opcodeBoolAnd(op *opcode, data []byte, vm *Engine) error {
	return binaryNumPredicate(vm, func(x1, x2 scriptNum) bool {
		return x1 != 0 && x2 != 0
	})
}

// Stack transformation: [... x1 x2] -> [... (x1 != 0 || x2 != 0)]
func opcodeBoolOr(op *opcode, data []byte, vm *Engine) error {
	return binaryNumPredicate(vm, func(x1, x2 scriptNum) bool {
		return x1 != 0 || x2 != 0
	})
}

// Stack transformation: [... x1 x2] -> [... (x1 == x2)]
func opcodeNumEqual(op *opcode, data []byte, vm *Engine) error {
	return binaryNumPredicate(vm, func(x1, x2 scriptNum) bool {
		return x1 == x2
	})
}

// opcodeNumEqualVerify is a combination of opcodeNumEqual and opcodeVerify.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeNumEqualVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeNumEqual(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrNumEqualVerify)
	}
	return err
}

// Stack transformation: [... x1 x2] -> [... (x1 != x2)]
func opcodeNumNotEqual(op *opcode, data []byte, vm *Engine) error {
	return binaryNumPredicate(vm, func(x1, x2 scriptNum) bool {
		return x1 != x2
	})
}

// Stack transformation: [... x1 x2] -> [... (x1 < x2)]
func opcodeLessThan(op *opcode, data []byte, vm *Engine) error {
	return binaryNumPredicate(vm, func(x1, x2 scriptNum) bool {
		return x1 < x2
	})
}

// Stack transformation: [... x1 x2] -> [... (x1 > x2)]
func opcodeGreaterThan(op *opcode, data []byte, vm *Engine) error {
	return binaryNumPredicate(vm, func(x1, x2 scriptNum) bool {
		return x1 > x2
	})
}

// Stack transformation: [... x1 x2] -> [... (x1 <= x2)]
func opcodeLessThanOrEqual(op *opcode, data []byte, vm *Engine) error {
	return binaryNumPredicate(vm, func(x1, x2 scriptNum) bool {
		return x1 <= x2
	})
}

// Stack transformation: [... x1 x2] -> [... (x1 >= x2)]
func opcodeGreaterThanOrEqual(op *opcode, data []byte, vm *Engine) error {
	return binaryNumPredicate(vm, func(x1, x2 scriptNum) bool {
		return x1 >= x2
	})
}

// Stack transformation: [... x1 x2] -> [... min(x1, x2)]
func opcodeMin(op *opcode, data []byte, vm *Engine) error {
	return binaryNumOp(vm, func(x1, x2 scriptNum) scriptNum {
		if x1 < x2 {
			return x1
		}
		return x2
	})
}

// Stack transformation: [... x1 x2] -> [... max(x1, x2)]
func opcodeMax(op *opcode, data []byte, vm *Engine) error {
	return binaryNumOp(vm, func(x1, x2 scriptNum) scriptNum {
		if x1 > x2 {
			return x1
		}
		return x2
	})
}

// opcodeWithin treats the top 3 items on the data stack as integers.  When the
// value to test is within the specified range (left inclusive), 1 is pushed to
// the data stack, otherwise 0 is pushed.
//
// Stack transformation: [... x1 min max] -> [... bool]
func opcodeWithin(op *opcode, data []byte, vm *Engine) error {
	maxVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	minVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	x, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(x >= minVal && x < maxVal)
	return nil
}

// hashOp replaces the top item of the data stack with its digest under fn.
//
// Stack transformation: [... x1] -> [... fn(x1)]
func hashOp(vm *Engine, fn func([]byte) []byte) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushByteArray(fn(buf))
	return nil
}

// calcHash calculates the hash of hasher over buf.
func calcHash(buf []byte, hasher hash.Hash) []byte {
	hasher.Write(buf)
	return hasher.Sum(nil)
}

func ripemd160Sum(buf []byte) []byte {
	return calcHash(buf, ripemd160.New())
}

func sha1Sum(buf []byte) []byte {
	h := sha1.Sum(buf)
	return h[:]
}

func sha256Sum(buf []byte) []byte {
	h := sha256.Sum256(buf)
	return h[:]
}

func hash160Sum(buf []byte) []byte {
	return ripemd160Sum(sha256Sum(buf))
}

// Stack transformation: [... x1] -> [... ripemd160(x1)]
func opcodeRipemd160(op *opcode, data []byte, vm *Engine) error {
	return hashOp(vm, ripemd160Sum)
}

// Stack transformation: [... x1] -> [... sha1(x1)]
func opcodeSha1(op *opcode, data []byte, vm *Engine) error {
	return hashOp(vm, sha1Sum)
}

// Stack transformation: [... x1] -> [... sha256(x1)]
func opcodeSha256(op *opcode, data []byte, vm *Engine) error {
	return hashOp(vm, sha256Sum)
}

// Stack transformation: [... x1] -> [... ripemd160(sha256(x1))]
func opcodeHash160(op *opcode, data []byte, vm *Engine) error {
	return hashOp(vm, hash160Sum)
}

// Stack transformation: [... x1] -> [... sha256(sha256(x1))]
func opcodeHash256(op *opcode, data []byte, vm *Engine) error {
	return hashOp(vm, chainhash.DoubleHashB)
}

// opcodeCodeSeparator stores the current script offset as the most recently
// seen OP_CODESEPARATOR which is used during signature checking.
//
// This opcode does not change the contents of the data stack.
func opcodeCodeSeparator(op *opcode, data []byte, vm *Engine) error {
	vm.lastCodeSep = int(vm.tokenizer.ByteIndex())
	return nil
}

// opcodeCheckSig treats the top 2 items on the stack as a public key and a
// signature and replaces them with a bool which indicates if the signature was
// successfully verified.
//
// The process of verifying a signature requires calculating a signature hash in
// the same way the transaction signer did.  It involves hashing portions of the
// transaction based on the hash type byte (which is the final byte of the
// signature) and the portion of the script starting from the most recent
// OP_CODESEPARATOR (or the beginning of the script if there are none) to the
// end of the script (with any other OP_CODESEPARATORs removed).  Once this
// "script hash" is calculated, the signature is checked using standard
// cryptographic methods against the provided public key.
//
// Stack transformation: [... signature pubkey] -> [... bool]
func opcodeCheckSig(op *opcode, data []byte, vm *Engine) error {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	fullSigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	// The signature actually needs needs to be longer than this, but at
	// least 1 byte is needed for the hash type below.  The full length is
	// checked depending on the script flags and upon parsing the signature.
	if len(fullSigBytes) < 1 {
		vm.dstack.PushBool(false)
		return nil
	}

	// Trim off hashtype from the signature string and check if the
	// signature and pubkey conform to the strict encoding requirements
	// depending on the flags.
	//
	// NOTE: When the strict encoding flags are set, any errors in the
	// signature or public encoding here result in an immediate script error
	// (and thus no result bool is pushed to the data stack).  This differs
	// from the logic below where any errors in parsing the signature is
	// treated as the signature failure resulting in false being pushed to
	// the data stack.  This is required because the more general script
	// validation consensus rules do not have the new strict encoding
	// requirements enabled by the flags.
	hashType := SigHashType(fullSigBytes[len(fullSigBytes)-1])
	sigBytes := fullSigBytes[:len(fullSigBytes)-1]
	if err := vm.checkHashTypeEncoding(hashType); err != nil {
		return err
	}
	if err := vm.checkSignatureEncoding(sigBytes); err != nil {
		return err
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return err
	}

	// A signature can not sign itself, so it is removed from the script
	// being committed to before the hash is calculated.
	subScript := removeOpcodeByData(vm.subScript(), fullSigBytes)
	hash, err := calcSignatureHash(subScript, hashType, vm.tx, vm.txIdx)
	if err != nil {
		return err
	}

	pubKey, err := btckey.ParsePubKey(pkBytes)
	if err != nil {
		vm.dstack.PushBool(false)
		return nil
	}
	signature, err := vm.parseSignature(sigBytes)
	if err != nil {
		vm.dstack.PushBool(false)
		return nil
	}

	valid := vm.verifySignature(hash, signature, sigBytes, pubKey, pkBytes)
	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckSigVerify is a combination of opcodeCheckSig and opcodeVerify.
//
// Stack transformation: [... signature pubkey] -> [... bool] -> [...]
func opcodeCheckSigVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeCheckSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckSigVerify)
	}
	return err
}

// parsedSigInfo houses a raw signature along with its parsed form and a flag
// for whether or not it has already been parsed.  It is used to prevent parsing
// the same signature multiple times when verifying a multisig.
type parsedSigInfo struct {
	signature       []byte
	parsedSignature *btckey.Signature
	parsed          bool
}

// popCount pops a key or signature count for OP_CHECKMULTISIG and ensures it
// is in the range [0, limit].
func popCount(vm *Engine, limit int, what string, c ErrorCode) (int, error) {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return 0, err
	}

	count := int(n.Int32())
	if count < 0 {
		str := fmt.Sprintf("number of %s %d is negative", what, count)
		return 0, scriptError(c, str)
	}
	if count > limit {
		str := fmt.Sprintf("too many %s: %d > %d", what, count, limit)
		return 0, scriptError(c, str)
	}
	return count, nil
}

// opcodeCheckMultiSig treats the top item on the stack as an integer number of
// public keys, followed by that many entries as raw data representing the public
// keys, followed by the integer number of signatures, followed by that many
// entries as raw data representing the signatures.
//
// Due to a bug in the original Satoshi client implementation, an additional
// dummy argument is also required by the consensus rules, although it is not
// used.  The dummy value SHOULD be an OP_0, although that is not required by
// the consensus rules.  When the ScriptStrictMultiSig flag is set, it must be
// OP_0.
//
// Signatures are matched against the keys greedily in order: each signature
// consumes keys until one verifies it, so the signatures must appear in the
// same relative order as their keys.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool]
func opcodeCheckMultiSig(op *opcode, data []byte, vm *Engine) error {
	numPubKeys, err := popCount(vm, MaxPubKeysPerMultiSig, "pubkeys",
		ErrInvalidPubKeyCount)
	if err != nil {
		return err
	}
	vm.numOps += numPubKeys
	if vm.numOps > MaxOpsPerScript {
		str := fmt.Sprintf("exceeded max operation limit of %d",
			MaxOpsPerScript)
		return scriptError(ErrTooManyOperations, str)
	}

	pubKeys := make([][]byte, 0, numPubKeys)
	for i := 0; i < numPubKeys; i++ {
		pubKey, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	numSignatures, err := popCount(vm, numPubKeys, "signatures",
		ErrInvalidSignatureCount)
	if err != nil {
		return err
	}

	signatures := make([]*parsedSigInfo, 0, numSignatures)
	for i := 0; i < numSignatures; i++ {
		signature, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		signatures = append(signatures, &parsedSigInfo{signature: signature})
	}

	// A bug in the original Satoshi client implementation means one more
	// stack value than should be used must be popped.  Unfortunately, this
	// buggy behavior is now part of the consensus and a hard fork would be
	// required to fix it.
	dummy, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	// Since the dummy argument is otherwise not checked, it could be any
	// value which unfortunately provides a source of malleability.  Thus,
	// there is a script flag to force an error when the value is NOT 0.
	if vm.hasFlag(ScriptStrictMultiSig) && len(dummy) != 0 {
		str := fmt.Sprintf("multisig dummy argument has length %d "+
			"instead of 0", len(dummy))
		return scriptError(ErrSigNullDummy, str)
	}

	// Get script starting from the most recent OP_CODESEPARATOR with all of
	// the signatures removed since there is no way for a signature to sign
	// itself.
	script := vm.subScript()
	for _, sigInfo := range signatures {
		script = removeOpcodeByData(script, sigInfo.signature)
	}

	success := true
	remainingKeys := numPubKeys + 1
	pubKeyIdx := -1
	signatureIdx := 0
	for numSignatures > 0 {
		// When there are more signatures than public keys remaining,
		// there is no way to succeed since too many signatures are
		// invalid, so exit early.
		pubKeyIdx++
		remainingKeys--
		if numSignatures > remainingKeys {
			success = false
			break
		}

		sigInfo := signatures[signatureIdx]
		pubKey := pubKeys[pubKeyIdx]

		// The order of the signature and public key evaluation is
		// important here since it can be distinguished by an
		// OP_CHECKMULTISIG NOT when the strict encoding flag is set.
		rawSig := sigInfo.signature
		if len(rawSig) == 0 {
			// Skip to the next pubkey if signature is empty.
			continue
		}

		// Split the signature into hash type and signature components.
		hashType := SigHashType(rawSig[len(rawSig)-1])
		signature := rawSig[:len(rawSig)-1]

		// Only parse and check the signature encoding once.
		if !sigInfo.parsed {
			if err := vm.checkHashTypeEncoding(hashType); err != nil {
				return err
			}
			if err := vm.checkSignatureEncoding(signature); err != nil {
				return err
			}

			sigInfo.parsed = true
			parsedSig, err := vm.parseSignature(signature)
			if err != nil {
				continue
			}
			sigInfo.parsedSignature = parsedSig
		} else if sigInfo.parsedSignature == nil {
			// Skip to the next pubkey if the signature is invalid.
			continue
		}

		if err := vm.checkPubKeyEncoding(pubKey); err != nil {
			return err
		}

		parsedPubKey, err := btckey.ParsePubKey(pubKey)
		if err != nil {
			continue
		}

		hash, err := calcSignatureHash(script, hashType, vm.tx, vm.txIdx)
		if err != nil {
			return err
		}

		if vm.verifySignature(hash, sigInfo.parsedSignature, signature,
			parsedPubKey, pubKey) {

			// PubKey verified, move on to the next signature.
			signatureIdx++
			numSignatures--
		}
	}

	vm.dstack.PushBool(success)
	return nil
}

// opcodeCheckMultiSigVerify is a combination of opcodeCheckMultiSig and
// opcodeVerify.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool] -> [...]
func opcodeCheckMultiSigVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeCheckMultiSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckMultiSigVerify)
	}
	return err
}

// OpcodeByName is a map that can be used to lookup an opcode by its
// human-readable name (OP_CHECKMULTISIG, OP_CHECKSIG, etc).
var OpcodeByName = make(map[string]byte)

func init() {
	for i := range opcodeArray {
		op := opcode{value: byte(i), length: 1, opfunc: opcodeInvalid}
		switch {
		case op.value >= OP_DATA_1 && op.value <= OP_DATA_75:
			op.name = fmt.Sprintf("OP_DATA_%d", i)
			op.length = i + 1
			op.opfunc = opcodePushData
		case op.value >= OP_1 && op.value <= OP_16:
			op.name = fmt.Sprintf("OP_%d", asSmallInt(op.value))
			op.opfunc = opcodeN
		default:
			op.name = fmt.Sprintf("OP_UNKNOWN%d", i)
		}
		opcodeArray[i] = op
	}
	for _, named := range namedOpcodes {
		op := &opcodeArray[named.value]
		op.name, op.opfunc = named.name, named.opfunc
	}
	opcodeArray[OP_PUSHDATA1].length = -1
	opcodeArray[OP_PUSHDATA2].length = -2
	opcodeArray[OP_PUSHDATA4].length = -4

	for _, op := range opcodeArray {
		OpcodeByName[op.name] = op.value
	}
	OpcodeByName["OP_FALSE"] = OP_FALSE
	OpcodeByName["OP_TRUE"] = OP_TRUE
	OpcodeByName["OP_NOP2"] = OP_NOP2
	OpcodeByName["OP_NOP3"] = OP_NOP3
}
