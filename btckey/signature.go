// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btckey

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// asn1SequenceID is the ASN.1 identifier for a sequence and is used
	// when parsing and serializing signatures encoded with the
	// Distinguished Encoding Rules (DER) format per section 10 of [ISO/IEC
	// 8825-1].
	asn1SequenceID = 0x30

	// asn1IntegerID is the ASN.1 identifier for an integer and is used
	// when parsing and serializing signatures encoded with the
	// Distinguished Encoding Rules (DER) format per section 10 of [ISO/IEC
	// 8825-1].
	asn1IntegerID = 0x02

	// minSigLen is the minimum length of a DER encoded signature and is
	// when both R and S are 1 byte each.
	//
	// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
	minSigLen = 8

	// maxSigLen is the maximum length of a DER encoded signature and is
	// when both R and S are 33 bytes each.  It is 33 bytes because a
	// 256-bit integer requires 32 bytes and an additional leading null
	// byte might be required if the high bit is set in the value.
	//
	// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 + <33 bytes>
	maxSigLen = 72

	// sequenceOffset is the byte offset within the signature of the
	// expected ASN.1 sequence identifier.
	sequenceOffset = 0

	// dataLenOffset is the byte offset within the signature of the
	// expected total length of all remaining data in the signature.
	dataLenOffset = 1

	// rTypeOffset is the byte offset within the signature of the ASN.1
	// identifier for R and is expected to indicate an ASN.1 integer.
	rTypeOffset = 2

	// rLenOffset is the byte offset within the signature of the length of
	// R.
	rLenOffset = 3

	// rOffset is the byte offset within the signature of R.
	rOffset = 4

	// Hash type bounds accepted by CheckHashTypeEncoding.  The high bit is
	// the anyone-can-pay modifier.
	sigHashAll    = 0x1
	sigHashSingle = 0x3
	sigHashACP    = 0x80
)

// ParseDERSignature parses a signature in the strict DER format.
func ParseDERSignature(sig []byte) (*Signature, error) {
	return ecdsa.ParseDERSignature(sig)
}

// ParseSignature parses a signature in the more permissive BER format that
// historical transactions relied on.
func ParseSignature(sig []byte) (*Signature, error) {
	return ecdsa.ParseSignature(sig)
}

// Verify returns whether or not the strict DER encoded signature is a valid
// signature of hash by pubKey.  A signature that does not parse is simply
// invalid.
func Verify(pubKey *PublicKey, sigDER, hash []byte) bool {
	sig, err := ParseDERSignature(sigDER)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pubKey)
}

// checkScalar ensures the big-endian DER integer payload, whose sign and
// padding have already been validated, encodes a value in [1, N-1].
func checkScalar(b []byte, tooBig, isZero ErrorKind,
	name string) (*secp.ModNScalar, error) {
	// Strip the sign padding so the remaining bytes are the magnitude.
	for len(b) > 0 && b[0] == 0x00 {
		b = b[1:]
	}
	if len(b) > 32 {
		str := fmt.Sprintf("signature %s is larger than 256 bits", name)
		return nil, keyError(tooBig, str)
	}

	var v secp.ModNScalar
	if overflow := v.SetByteSlice(b); overflow {
		str := fmt.Sprintf("signature %s is >= curve order", name)
		return nil, keyError(tooBig, str)
	}
	if v.IsZero() {
		str := fmt.Sprintf("signature %s is 0", name)
		return nil, keyError(isZero, str)
	}
	return &v, nil
}

// CheckDEREncoding returns an error if the passed signature, which must not
// carry a trailing hash type byte, is not a minimally encoded DER signature
// with R and S in [1, N-1].  When requireLowS is set, S must additionally be
// no greater than half the group order.
//
// The format of a DER encoded signature is as follows:
//
//	0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
//	  - 0x30 is the ASN.1 identifier for a sequence
//	  - Total length is 1 byte and specifies length of all remaining data
//	  - 0x02 is the ASN.1 identifier that specifies an integer follows
//	  - Length of R is 1 byte and specifies how many bytes R occupies
//	  - R is the arbitrary length big-endian encoded number which
//	    represents the R value of the signature.  DER encoding dictates
//	    that the value must be encoded using the minimum possible number
//	    of bytes.  This implies the first byte can only be null if the
//	    highest bit of the next byte is set in order to prevent it from
//	    being interpreted as a negative number.
//	  - 0x02 is once again the ASN.1 integer identifier
//	  - Length of S is 1 byte and specifies how many bytes S occupies
//	  - S is the arbitrary length big-endian encoded number which
//	    represents the S value of the signature.  The encoding rules are
//	    identical as those for R.
func CheckDEREncoding(sig []byte, requireLowS bool) error {
	// The signature must adhere to the minimum and maximum allowed length.
	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d", sigLen,
			minSigLen)
		return keyError(ErrSigTooShort, str)
	}
	if sigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d", sigLen,
			maxSigLen)
		return keyError(ErrSigTooLong, str)
	}

	// The signature must start with the ASN.1 sequence identifier.
	if sig[sequenceOffset] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x",
			sig[sequenceOffset])
		return keyError(ErrSigInvalidSeqID, str)
	}

	// The signature must indicate the correct amount of data for all elements
	// related to R and S.
	if int(sig[dataLenOffset]) != sigLen-2 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[dataLenOffset], sigLen-2)
		return keyError(ErrSigInvalidDataLen, str)
	}

	// Calculate the offsets of the elements related to S and ensure S is
	// inside the signature.
	//
	// rLen specifies the length of the big-endian encoded number which
	// represents the R value of the signature.
	//
	// sTypeOffset is the offset of the ASN.1 identifier for S and, like its
	// R counterpart, is expected to indicate an ASN.1 integer.
	//
	// sLenOffset and sOffset are the byte offsets within the signature of
	// the length of S and S itself, respectively.
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		str := "malformed signature: S type indicator missing"
		return keyError(ErrSigMissingSTypeID, str)
	}
	if sLenOffset >= sigLen {
		str := "malformed signature: S length missing"
		return keyError(ErrSigMissingSLen, str)
	}

	// The lengths of R and S must match the overall length of the
	// signature.
	//
	// sLen specifies the length of the big-endian encoded number which
	// represents the S value of the signature.
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		str := "malformed signature: invalid S length"
		return keyError(ErrSigInvalidSLen, str)
	}

	// R elements must be ASN.1 integers.
	if sig[rTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: %#x != %#x",
			sig[rTypeOffset], asn1IntegerID)
		return keyError(ErrSigInvalidRIntID, str)
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		str := "malformed signature: R length is zero"
		return keyError(ErrSigZeroRLen, str)
	}

	// R must not be negative.
	if sig[rOffset]&0x80 != 0 {
		str := "malformed signature: R is negative"
		return keyError(ErrSigNegativeR, str)
	}

	// Null bytes at the start of R are not allowed, unless R would otherwise be
	// interpreted as a negative number.
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		str := "malformed signature: R value has too much padding"
		return keyError(ErrSigTooMuchRPadding, str)
	}

	// S elements must be ASN.1 integers.
	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: %#x != %#x",
			sig[sTypeOffset], asn1IntegerID)
		return keyError(ErrSigInvalidSIntID, str)
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		str := "malformed signature: S length is zero"
		return keyError(ErrSigZeroSLen, str)
	}

	// S must not be negative.
	if sig[sOffset]&0x80 != 0 {
		str := "malformed signature: S is negative"
		return keyError(ErrSigNegativeS, str)
	}

	// Null bytes at the start of S are not allowed, unless S would otherwise be
	// interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		str := "malformed signature: S value has too much padding"
		return keyError(ErrSigTooMuchSPadding, str)
	}

	_, err := checkScalar(sig[rOffset:rOffset+rLen], ErrSigRTooBig,
		ErrSigRIsZero, "R")
	if err != nil {
		return err
	}
	sValue, err := checkScalar(sig[sOffset:sOffset+sLen], ErrSigSTooBig,
		ErrSigSIsZero, "S")
	if err != nil {
		return err
	}

	// Verify the S value is <= half the order of the curve.  This check is
	// done because when it is higher, the complement modulo the order can
	// be used instead which is a shorter encoding by 1 byte.  Further,
	// without enforcing this, it is possible to replace a signature in a
	// valid transaction with the complement while still being a valid
	// signature that verifies.  This would result in changing the
	// transaction hash and thus is a source of malleability.
	if requireLowS && sValue.IsOverHalfOrder() {
		str := "signature is not canonical due to unnecessarily " +
			"high S value"
		return keyError(ErrSigHighS, str)
	}

	return nil
}

// CheckHashTypeEncoding returns an error when the hash type byte is not one
// of ALL, NONE or SINGLE, optionally combined with ANYONECANPAY.
func CheckHashTypeEncoding(hashType byte) error {
	baseType := hashType &^ sigHashACP
	if baseType < sigHashAll || baseType > sigHashSingle {
		str := fmt.Sprintf("invalid hash type 0x%x", hashType)
		return keyError(ErrSigInvalidHashType, str)
	}
	return nil
}

// IsCanonicalSignature returns an error when the script signature, a DER
// signature followed by one hash type byte, is not canonical.  When
// requireLowS is set the S value must also be in the lower half of the group
// order.
func IsCanonicalSignature(scriptSig []byte, requireLowS bool) error {
	if len(scriptSig) == 0 {
		return keyError(ErrSigTooShort, "malformed signature: empty")
	}
	if len(scriptSig) > maxSigLen+1 {
		str := fmt.Sprintf("malformed signature: too long: %d > %d",
			len(scriptSig), maxSigLen+1)
		return keyError(ErrSigTooLong, str)
	}

	hashType := scriptSig[len(scriptSig)-1]
	if err := CheckHashTypeEncoding(hashType); err != nil {
		return err
	}
	return CheckDEREncoding(scriptSig[:len(scriptSig)-1], requireLowS)
}
