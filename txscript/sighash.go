// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/btcvm/btcvm/wire"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType byte

// Hash type bits from the end of a signature.
const (
	SigHashOld          SigHashType = 0x0
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask defines the number of bits of the hash type which is used
	// to identify which outputs are signed.
	sigHashMask = 0x1f
)

// String returns the hash type in the form used by signature tooling, for
// example "ALL" or "SINGLE|ANYONECANPAY".  Undefined base types are printed
// numerically.
func (hashType SigHashType) String() string {
	var base string
	switch hashType & sigHashMask {
	case SigHashAll:
		base = "ALL"
	case SigHashNone:
		base = "NONE"
	case SigHashSingle:
		base = "SINGLE"
	default:
		base = fmt.Sprintf("0x%02x", byte(hashType&^SigHashAnyOneCanPay))
	}
	if hashType&SigHashAnyOneCanPay != 0 {
		return base + "|ANYONECANPAY"
	}
	return base
}

// calcSignatureHash computes the signature hash for the specified input of the
// target transaction observing the desired signature hash type.  The passed
// script must already be known to parse.  The transaction is never modified;
// the substitutions the hash type calls for are made on a deep copy.
func calcSignatureHash(script []byte, hashType SigHashType, tx *wire.MsgTx,
	idx int) ([]byte, error) {

	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is negative or "+
			">= %d", idx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidIndex, str)
	}

	// The SigHashSingle signature type signs only the corresponding input
	// and output (the output with the same index number as the input).
	//
	// Since transactions can have more inputs than outputs, this means it
	// is improper to use SigHashSingle on input indices that don't have a
	// corresponding output.
	if hashType&sigHashMask == SigHashSingle && idx >= len(tx.TxOut) {
		str := fmt.Sprintf("attempt to sign single input at index %d "+
			">= %d outputs", idx, len(tx.TxOut))
		return nil, scriptError(ErrInvalidSigHashSingleIndex, str)
	}

	// Remove all instances of OP_CODESEPARATOR from the script.
	signScript := removeOpcodeRaw(script, OP_CODESEPARATOR)

	// Make a deep copy of the transaction, zeroing out the script for all
	// inputs that are not currently being processed.
	txCopy := tx.Copy()
	for i := range txCopy.TxIn {
		if i == idx {
			txCopy.TxIn[idx].SignatureScript = signScript
		} else {
			txCopy.TxIn[i].SignatureScript = nil
		}
	}

	// The outputs and input sequences which are committed to depend on the
	// signature hash type as follows:
	//
	// SigHashAll (and undefined signature hash types):
	//   Commits to all outputs.
	// SigHashNone:
	//   Commits to no outputs with all input sequences except the input
	//   being signed replaced with 0.
	// SigHashSingle:
	//   Commits to a single output at the same index as the input being
	//   signed.  All outputs before that index are cleared by setting the
	//   value to -1 and pkscript to nil and all outputs after that index
	//   are removed.  Like SigHashNone, all input sequences except the
	//   input being signed are replaced by 0.
	// SigHashAnyOneCanPay:
	//   Commits to only the input being signed.  Bit flag that can be
	//   combined with the other signature hash types.  Without this flag
	//   set, commits to all inputs.
	switch hashType & sigHashMask {
	case SigHashNone:
		txCopy.TxOut = txCopy.TxOut[0:0]
		zeroOtherSequences(txCopy, idx)

	case SigHashSingle:
		txCopy.TxOut = txCopy.TxOut[:idx+1]
		for i := 0; i < idx; i++ {
			txCopy.TxOut[i].Value = -1
			txCopy.TxOut[i].PkScript = nil
		}
		zeroOtherSequences(txCopy, idx)
	}

	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.TxIn = txCopy.TxIn[idx : idx+1]
	}

	// The final hash is the double sha256 of both the serialized modified
	// transaction and the hash type (encoded as a 4-byte little-endian
	// value) appended.
	wbuf := bytes.NewBuffer(make([]byte, 0, txCopy.SerializeSize()+4))
	if err := txCopy.Serialize(wbuf); err != nil {
		return nil, scriptError(ErrInternal, err.Error())
	}
	var hashTypeBytes [4]byte
	binary.LittleEndian.PutUint32(hashTypeBytes[:], uint32(hashType))
	wbuf.Write(hashTypeBytes[:])
	return chainhash.DoubleHashB(wbuf.Bytes()), nil
}

// zeroOtherSequences sets the sequence of every input except the one being
// signed to 0 so that the other signers may update them.
func zeroOtherSequences(tx *wire.MsgTx, idx int) {
	for i := range tx.TxIn {
		if i != idx {
			tx.TxIn[i].Sequence = 0
		}
	}
}

// CalcSignatureHash computes the signature hash for the specified input of the
// target transaction observing the desired signature hash type.  The script is
// the portion of the previous output script being committed to, typically the
// full public key script or, for pay-to-script-hash, the redeem script.
func CalcSignatureHash(script []byte, hashType SigHashType, tx *wire.MsgTx,
	idx int) ([]byte, error) {

	if err := checkScriptParses(script); err != nil {
		return nil, err
	}

	return calcSignatureHash(script, hashType, tx, idx)
}
