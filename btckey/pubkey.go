// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btckey

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// These constants define the lengths of serialized public keys.
const (
	// PubKeyBytesLenCompressed is the bytes length of a serialized
	// compressed public key.
	PubKeyBytesLenCompressed = 33

	// PubKeyBytesLenUncompressed is the bytes length of a serialized
	// uncompressed public key.
	PubKeyBytesLenUncompressed = 65
)

const (
	pubkeyCompressed   byte = 0x2 // y_bit + x coord
	pubkeyUncompressed byte = 0x4 // x coord + y coord
)

// PublicKey is a secp256k1 public key.
type PublicKey = btcec.PublicKey

// ParsePubKey parses a public key from a bytestring, verifying that it is a
// valid point on the curve.  It supports compressed, uncompressed and hybrid
// formats.
func ParsePubKey(pubKeyStr []byte) (*PublicKey, error) {
	return btcec.ParsePubKey(pubKeyStr)
}

// IsCompressedPubKey returns true the passed serialized public key has
// been encoded in compressed format, and false otherwise.
func IsCompressedPubKey(pubKey []byte) bool {
	// The public key is only compressed if it is the correct length and
	// the format (first byte) is one of the compressed pubkey values.
	return len(pubKey) == PubKeyBytesLenCompressed &&
		(pubKey[0]&^byte(0x1) == pubkeyCompressed)
}

// IsCanonicalPublicKey returns an error when the serialized public key is not
// in one of the two canonical encodings: 33 bytes with a 0x02 or 0x03 prefix,
// or 65 bytes with a 0x04 prefix.  The point itself is not validated.
func IsCanonicalPublicKey(pubKey []byte) error {
	if len(pubKey) < PubKeyBytesLenCompressed {
		str := fmt.Sprintf("public key is %d bytes, at least %d required",
			len(pubKey), PubKeyBytesLenCompressed)
		return keyError(ErrPubKeyTooShort, str)
	}

	switch format := pubKey[0]; format {
	case pubkeyUncompressed:
		if len(pubKey) != PubKeyBytesLenUncompressed {
			str := fmt.Sprintf("uncompressed public key is %d bytes, "+
				"want %d", len(pubKey), PubKeyBytesLenUncompressed)
			return keyError(ErrPubKeyInvalidLen, str)
		}

	case pubkeyCompressed, pubkeyCompressed | 0x1:
		if len(pubKey) != PubKeyBytesLenCompressed {
			str := fmt.Sprintf("compressed public key is %d bytes, "+
				"want %d", len(pubKey), PubKeyBytesLenCompressed)
			return keyError(ErrPubKeyInvalidLen, str)
		}

	default:
		str := fmt.Sprintf("unsupported public key format byte 0x%02x",
			format)
		return keyError(ErrPubKeyInvalidFormat, str)
	}

	return nil
}

// SerializePubKey returns the compressed or uncompressed encoding of the
// public key.
func SerializePubKey(pubKey *PublicKey, compressed bool) []byte {
	if compressed {
		return pubKey.SerializeCompressed()
	}
	return pubKey.SerializeUncompressed()
}

// PubKeyHashAddress returns the pay-to-pubkey-hash address committing to the
// given serialization of the key on the network described by params.
func PubKeyHashAddress(pubKey *PublicKey, compressed bool,
	params *chaincfg.Params) (*btcutil.AddressPubKeyHash, error) {

	pkHash := btcutil.Hash160(SerializePubKey(pubKey, compressed))
	return btcutil.NewAddressPubKeyHash(pkHash, params)
}
