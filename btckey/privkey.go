// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btckey

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PrivKeyBytesLen defines the length in bytes of a serialized private key.
const PrivKeyBytesLen = 32

// PrivateKey is a secp256k1 private key.
type PrivateKey = btcec.PrivateKey

// Signature is a parsed ECDSA signature (R, S).
type Signature = ecdsa.Signature

// PrivKeyFromBytes returns a private and public key based on the private key
// passed as an argument as a byte slice.  Values larger than the group order
// are reduced modulo the order.
func PrivKeyFromBytes(pk []byte) (*PrivateKey, *PublicKey) {
	return btcec.PrivKeyFromBytes(pk)
}

// NewPrivateKey returns a new cryptographically secure private key.
func NewPrivateKey() (*PrivateKey, error) {
	return btcec.NewPrivateKey()
}

// NonceRFC6979 returns the deterministic signing nonce for the private key
// and the 32-byte message hash as specified by RFC6979 with HMAC-SHA256.
// Signing the same hash with the same key always derives the same nonce.
func NonceRFC6979(privKey *PrivateKey, hash []byte) *secp.ModNScalar {
	keyBytes := privKey.Key.Bytes()
	defer zeroArray32(&keyBytes)

	return secp.NonceRFC6979(keyBytes[:], hash, nil, nil, 0)
}

// Sign generates an ECDSA signature for the provided hash (which should be
// the result of hashing a larger message) using the private key.  The nonce
// is derived per RFC6979, so the same key and hash yield the same signature,
// and S is always normalized to the lower half of the group order.
func Sign(privKey *PrivateKey, hash []byte) *Signature {
	return ecdsa.Sign(privKey, hash)
}

// SignDER is a convenience wrapper around Sign that returns the DER encoding
// of the signature.
func SignDER(privKey *PrivateKey, hash []byte) []byte {
	return Sign(privKey, hash).Serialize()
}

// zeroArray32 zeroes the provided 32-byte buffer.
func zeroArray32(b *[32]byte) {
	copy(b[:], zero32[:])
}

var zero32 [32]byte
