// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btckey

import (
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SharedSecretPoint returns the Diffie-Hellman point privKey·pubKey.  For
// key pairs (a, A) and (b, B) the result is the same point whether computed
// as a·B or b·A.
func SharedSecretPoint(privKey *PrivateKey, pubKey *PublicKey) *PublicKey {
	var point, result secp.JacobianPoint
	pubKey.AsJacobian(&point)
	secp.ScalarMultNonConst(&privKey.Key, &point, &result)
	result.ToAffine()
	return secp.NewPublicKey(&result.X, &result.Y)
}

// GenerateSharedSecret generates a shared secret based on a private key and a
// public key using Diffie-Hellman key exchange (ECDH) (RFC 4753).
// RFC5903 Section 9 states we should only return x.
func GenerateSharedSecret(privKey *PrivateKey, pubKey *PublicKey) []byte {
	return secp.GenerateSharedSecret(privKey, pubKey)
}
