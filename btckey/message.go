// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btckey

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/btcvm/btcvm/wire"
)

// messageMagic prefixes every signed message before hashing so that a message
// signature can never be replayed as a transaction signature.
const messageMagic = "Bitcoin Signed Message:\n"

// compactSigLen is the length of a recoverable compact signature: one
// recovery code byte followed by 32-byte R and S.
const compactSigLen = 65

// MessageDigest returns the double-SHA256 digest committed to by a signed
// message: both the magic prefix and the message are serialized as variable
// length strings.
func MessageDigest(message string) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	_ = wire.WriteVarString(&buf, messageMagic)
	_ = wire.WriteVarString(&buf, message)
	return chainhash.DoubleHashB(buf.Bytes())
}

// SignMessage produces a 65-byte compact signature of message from which the
// signing public key can be recovered.  The compressed flag is embedded in
// the recovery code and selects which address form the signature proves.
func SignMessage(privKey *PrivateKey, message string,
	compressed bool) ([]byte, error) {

	return ecdsa.SignCompact(privKey, MessageDigest(message), compressed), nil
}

// RecoverMessageKey returns the public key that produced the compact
// signature of message along with whether the signer used the compressed
// key serialization.
func RecoverMessageKey(sig []byte, message string) (*PublicKey, bool, error) {
	if len(sig) != compactSigLen {
		str := fmt.Sprintf("compact signature is %d bytes, want %d",
			len(sig), compactSigLen)
		return nil, false, keyError(ErrCompactSigInvalidLen, str)
	}
	return ecdsa.RecoverCompact(sig, MessageDigest(message))
}

// VerifyMessage checks that the compact signature of message was produced by
// the key committed to by the pay-to-pubkey-hash address.
func VerifyMessage(address string, sig []byte, message string,
	params *chaincfg.Params) error {

	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return err
	}
	pkhAddr, ok := addr.(*btcutil.AddressPubKeyHash)
	if !ok {
		return fmt.Errorf("address %s is not a pay-to-pubkey-hash address",
			address)
	}

	pubKey, compressed, err := RecoverMessageKey(sig, message)
	if err != nil {
		return err
	}
	pkHash := btcutil.Hash160(SerializePubKey(pubKey, compressed))
	if !bytes.Equal(pkHash, pkhAddr.ScriptAddress()) {
		str := fmt.Sprintf("signature recovers a key for a different "+
			"address than %s", address)
		return keyError(ErrMessageKeyMismatch, str)
	}
	return nil
}
