// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package btckey implements the secp256k1 key and ECDSA operations needed to
check and produce script signatures.

Signatures are generated with a deterministic nonce per RFC6979 and are
always normalized to a low S value.  Verification accepts strict DER
signatures; CheckDEREncoding and IsCanonicalSignature report exactly which
encoding rule a non-canonical signature breaks through an ErrorKind, so
callers can map the failure to their own error space with errors.Is.

The package also provides recoverable compact signatures over the Bitcoin
signed message digest (SignMessage, RecoverMessageKey, VerifyMessage) and the
Diffie-Hellman point of a private and a public key (SharedSecretPoint).

Curve arithmetic is provided by github.com/decred/dcrd/dcrec/secp256k1/v4
and signature encoding by github.com/btcsuite/btcd/btcec/v2.
*/
package btckey
