// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptval

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of input validation failure.
type ErrorCode int

const (
	// ErrMissingPrevOut indicates the output spent by an input could not
	// be found.
	ErrMissingPrevOut ErrorCode = iota

	// ErrScriptMalformed indicates the script pair could not be loaded
	// into an engine.
	ErrScriptMalformed

	// ErrScriptValidation indicates the script pair executed and failed.
	ErrScriptValidation
)

var errorCodeStrings = map[ErrorCode]string{
	ErrMissingPrevOut:   "ErrMissingPrevOut",
	ErrScriptMalformed:  "ErrScriptMalformed",
	ErrScriptValidation: "ErrScriptValidation",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// ValidationError describes why an input of a transaction failed to
// validate.  Err holds the underlying txscript error, if any.
type ValidationError struct {
	Code        ErrorCode
	Description string
	Err         error
}

// Error satisfies the error interface.
func (e ValidationError) Error() string {
	return e.Description
}

// Unwrap returns the underlying script error.
func (e ValidationError) Unwrap() error {
	return e.Err
}

func validationError(c ErrorCode, desc string, err error) ValidationError {
	return ValidationError{Code: c, Description: desc, Err: err}
}

// IsErrorCode returns whether err is a ValidationError with the given code.
func IsErrorCode(err error, c ErrorCode) bool {
	var verr ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	return verr.Code == c
}
