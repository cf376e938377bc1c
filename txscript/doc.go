// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the bitcoin transaction script language.

This package provides data structures and functions to parse and execute
bitcoin transaction scripts, and to compute and produce the legacy signatures
those scripts check.

# Script Overview

Bitcoin transaction scripts are written in a stack-base, FORTH-like language.

The bitcoin script language consists of a number of opcodes which fall into
several categories such pushing and popping data to and from the stack,
performing basic arithmetic, conditional branching, comparing hashes, and
checking cryptographic signatures.  Scripts are processed from left to right
and intentionally do not provide loops.

The vast majority of Bitcoin scripts at the time of this writing are of several
standard forms which consist of a spender providing a public key and a
signature which proves the spender owns the associated private key.  This
information is used to prove the spender is authorized to perform the
transaction.

# Execution

An Engine is created for one input of a transaction together with the public
key script of the output it spends.  The signature script runs first, then the
public key script on the resulting stack and, for pay-to-script-hash outputs
when ScriptBip16 is set, the redeem script on the stack the signature script
left behind.  Execute runs every step; Step and DisasmPC allow single stepping.
The transaction is never modified by execution or by signature hashing.

# Errors

Errors returned by this package are of type txscript.Error.  This allows the
caller to programmatically determine the specific error by examining the
ErrorCode field of the type asserted txscript.Error while still providing rich
error messages with contextual information.  A convenience function named
IsErrorCode is also provided to allow callers to easily check for a specific
error code.  See ErrorCode in the package documentation for a full list.
*/
package txscript
