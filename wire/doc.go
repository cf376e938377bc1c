// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the bitcoin transaction data model and its legacy
wire encoding.

A transaction is a version, an ordered list of inputs, an ordered list of
outputs and a lock time.  Each input references the output it spends through
an OutPoint and carries the unlocking (signature) script, while each output
carries a value and the locking (public key) script.

	version (4 bytes LE)
	varint input count
	  32-byte previous hash, 4-byte LE previous index,
	  varint-prefixed signature script, 4-byte LE sequence
	varint output count
	  8-byte LE value, varint-prefixed public key script
	lock time (4 bytes LE)

Variable length integers are decoded strictly: a value must use the shortest
encoding that can represent it.

Errors

Errors returned by this package are either the raw errors provided by the
underlying io.Reader or io.Writer, or of type *MessageError.
*/
package wire
