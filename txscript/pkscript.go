// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/btcvm/btcvm/btckey"
)

const (
	// pubKeyHashLen is the length of a P2PKH script.
	pubKeyHashLen = 25

	// scriptHashLen is the length of a P2SH script.
	scriptHashLen = 23

	// maxLen is the maximum script length supported by ParsePkScript.
	maxLen = pubKeyHashLen
)

// PkScript is a wrapper struct around a byte array, allowing it to be used
// as a map index.
type PkScript struct {
	// class is the type of the script encoded within the byte array. This
	// is used to determine the correct length of the script within the byte
	// array.
	class ScriptClass

	// script is the script contained within a byte array. If the script is
	// smaller than the length of the byte array, it will be padded with 0s
	// at the end.
	script [maxLen]byte
}

// ParsePkScript parses an output script into the PkScript struct.  Only
// pay-to-pubkey-hash and pay-to-script-hash scripts are supported.
func ParsePkScript(pkScript []byte) (PkScript, error) {
	var outputScript PkScript
	scriptClass := typeOfScript(pkScript)
	if !isSupportedScriptType(scriptClass) {
		str := fmt.Sprintf("unable to wrap a %v script", scriptClass)
		return outputScript, scriptError(ErrUnsupportedScriptType, str)
	}

	outputScript.class = scriptClass
	copy(outputScript.script[:], pkScript)

	return outputScript, nil
}

// isSupportedScriptType determines whether the script type is supported by the
// PkScript struct.
func isSupportedScriptType(class ScriptClass) bool {
	return class == PubKeyHashTy || class == ScriptHashTy
}

// Class returns the script type.
func (s PkScript) Class() ScriptClass {
	return s.class
}

// Script returns the script as a byte slice without any padding.
func (s PkScript) Script() []byte {
	var scriptLen int
	switch s.class {
	case PubKeyHashTy:
		scriptLen = pubKeyHashLen
	case ScriptHashTy:
		scriptLen = scriptHashLen
	default:
		// Unsupported script type.
		return nil
	}

	script := make([]byte, scriptLen)
	copy(script, s.script[:scriptLen])
	return script
}

// Address encodes the script into an address for the given chain.
func (s PkScript) Address(chainParams *chaincfg.Params) (btcutil.Address, error) {
	_, addrs, _, err := ExtractPkScriptAddrs(s.Script(), chainParams)
	if err != nil {
		return nil, fmt.Errorf("unable to parse address: %v", err)
	}
	if len(addrs) == 0 {
		return nil, scriptError(ErrUnsupportedScriptType,
			"script does not encode an address")
	}

	return addrs[0], nil
}

// String returns the one-line disassembly of the script.
func (s PkScript) String() string {
	str, _ := DisasmString(s.Script())
	return str
}

// ComputePkScript infers the output script an input spends by looking at its
// signature script.  A signature followed by a canonical public key is taken
// to spend a pay-to-pubkey-hash output; any other push-only script is taken to
// spend a pay-to-script-hash output whose redeem script is the final push.
func ComputePkScript(sigScript []byte) (PkScript, error) {
	var pkScript PkScript

	pushes, err := PushedData(sigScript)
	if err != nil {
		return pkScript, err
	}
	if len(pushes) == 0 || !IsPushOnlyScript(sigScript) {
		return pkScript, scriptError(ErrUnsupportedScriptType,
			"signature script is empty or not push only")
	}

	last := pushes[len(pushes)-1]
	if len(pushes) == 2 && btckey.IsCanonicalPublicKey(last) == nil &&
		btckey.IsCanonicalSignature(pushes[0], false) == nil {

		script, err := payToPubKeyHashScript(btcutil.Hash160(last))
		if err != nil {
			return pkScript, err
		}
		pkScript.class = PubKeyHashTy
		copy(pkScript.script[:], script)
		return pkScript, nil
	}

	script, err := payToScriptHashScript(btcutil.Hash160(last))
	if err != nil {
		return pkScript, err
	}
	pkScript.class = ScriptHashTy
	copy(pkScript.script[:], script)
	return pkScript, nil
}
