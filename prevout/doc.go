// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package prevout stores transaction outputs by outpoint on a key/value engine
so that later transactions spending them can be script validated.

Each output is kept under the key

	'o' || transaction hash || little endian uint32 output index

with the value

	little endian int64 amount || public key script

Store implements txscript.PrevOutputFetcher, so it can be handed directly to
the scriptval package.
*/
package prevout
