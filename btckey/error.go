// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btckey

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific ErrorKind.
const (
	// ErrSigTooShort is returned when a signature that should be a DER
	// signature plus hash type byte is too short.
	ErrSigTooShort = ErrorKind("ErrSigTooShort")

	// ErrSigTooLong is returned when a signature that should be a DER
	// signature plus hash type byte is too long.
	ErrSigTooLong = ErrorKind("ErrSigTooLong")

	// ErrSigInvalidSeqID is returned when a signature that should be a DER
	// signature does not have the expected ASN.1 sequence ID.
	ErrSigInvalidSeqID = ErrorKind("ErrSigInvalidSeqID")

	// ErrSigInvalidDataLen is returned when a signature that should be a
	// DER signature does not specify the correct number of remaining bytes
	// for the R and S portions.
	ErrSigInvalidDataLen = ErrorKind("ErrSigInvalidDataLen")

	// ErrSigMissingSTypeID is returned when a signature that should be a
	// DER signature does not provide the ASN.1 type ID for S.
	ErrSigMissingSTypeID = ErrorKind("ErrSigMissingSTypeID")

	// ErrSigMissingSLen is returned when a signature that should be a DER
	// signature does not provide the length of S.
	ErrSigMissingSLen = ErrorKind("ErrSigMissingSLen")

	// ErrSigInvalidSLen is returned when a signature that should be a DER
	// signature does not specify the correct number of bytes for the S
	// portion.
	ErrSigInvalidSLen = ErrorKind("ErrSigInvalidSLen")

	// ErrSigInvalidRIntID is returned when a signature that should be a DER
	// signature does not have the expected ASN.1 integer ID for R.
	ErrSigInvalidRIntID = ErrorKind("ErrSigInvalidRIntID")

	// ErrSigZeroRLen is returned when a signature that should be a DER
	// signature has an R length of zero.
	ErrSigZeroRLen = ErrorKind("ErrSigZeroRLen")

	// ErrSigNegativeR is returned when a signature that should be a DER
	// signature has a negative value for R.
	ErrSigNegativeR = ErrorKind("ErrSigNegativeR")

	// ErrSigTooMuchRPadding is returned when a signature that should be a
	// DER signature has too much padding for R.
	ErrSigTooMuchRPadding = ErrorKind("ErrSigTooMuchRPadding")

	// ErrSigRTooBig is returned when a signature has R greater than or
	// equal to the curve order.
	ErrSigRTooBig = ErrorKind("ErrSigRTooBig")

	// ErrSigRIsZero is returned when a signature has R equal to zero.
	ErrSigRIsZero = ErrorKind("ErrSigRIsZero")

	// ErrSigInvalidSIntID is returned when a signature that should be a DER
	// signature does not have the expected ASN.1 integer ID for S.
	ErrSigInvalidSIntID = ErrorKind("ErrSigInvalidSIntID")

	// ErrSigZeroSLen is returned when a signature that should be a DER
	// signature has an S length of zero.
	ErrSigZeroSLen = ErrorKind("ErrSigZeroSLen")

	// ErrSigNegativeS is returned when a signature that should be a DER
	// signature has a negative value for S.
	ErrSigNegativeS = ErrorKind("ErrSigNegativeS")

	// ErrSigTooMuchSPadding is returned when a signature that should be a
	// DER signature has too much padding for S.
	ErrSigTooMuchSPadding = ErrorKind("ErrSigTooMuchSPadding")

	// ErrSigSTooBig is returned when a signature has S greater than or
	// equal to the curve order.
	ErrSigSTooBig = ErrorKind("ErrSigSTooBig")

	// ErrSigSIsZero is returned when a signature has S equal to zero.
	ErrSigSIsZero = ErrorKind("ErrSigSIsZero")

	// ErrSigHighS is returned when low S is required and a signature has an
	// S value that is higher than half the curve order.
	ErrSigHighS = ErrorKind("ErrSigHighS")

	// ErrSigInvalidHashType is returned when the trailing hash type byte of
	// a script signature is not one of the defined types.
	ErrSigInvalidHashType = ErrorKind("ErrSigInvalidHashType")

	// ErrPubKeyTooShort is returned when a public key is shorter than the
	// compressed encoding.
	ErrPubKeyTooShort = ErrorKind("ErrPubKeyTooShort")

	// ErrPubKeyInvalidLen is returned when a public key does not have the
	// length implied by its format byte.
	ErrPubKeyInvalidLen = ErrorKind("ErrPubKeyInvalidLen")

	// ErrPubKeyInvalidFormat is returned when a public key format byte is
	// neither compressed (0x02, 0x03) nor uncompressed (0x04).
	ErrPubKeyInvalidFormat = ErrorKind("ErrPubKeyInvalidFormat")

	// ErrCompactSigInvalidLen is returned when a compact signature is not
	// exactly 65 bytes.
	ErrCompactSigInvalidLen = ErrorKind("ErrCompactSigInvalidLen")

	// ErrMessageKeyMismatch is returned when a signed message recovers to a
	// key other than the one the address commits to.
	ErrMessageKeyMismatch = ErrorKind("ErrMessageKeyMismatch")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to key or signature handling.  It has
// full support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// keyError creates an Error given a set of arguments.
func keyError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
