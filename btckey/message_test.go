// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btckey

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

const (
	// messageKeyHex is a private key whose uncompressed pay-to-pubkey-hash
	// address is messageAddr.
	messageKeyHex = "c4bbcb1fbec99d65bf59d85c8cb62ee2db963f0fe106f483d9afa73bd4e39a8a"
	messageAddr   = "1JwSSubhmg6iPtRjtyqhUYYH7bZg3Lfy1T"

	// messageSigHex is an externally produced signature of "Test message"
	// by messageKeyHex using the uncompressed key.
	messageSigHex = "1b158259bd8eeb198babbcc4308cdfb8e8068f0a712cac634257933a07" +
		"2ea6db7beb3308f4c937d4f397a2a782bf12884045c27430719a2890f0127b47" +
		"32d9cf0d"
)

func TestPubKeyHashAddress(t *testing.T) {
	_, pubKey := PrivKeyFromBytes(hexToBytes(messageKeyHex))

	addr, err := PubKeyHashAddress(pubKey, false, &chaincfg.MainNetParams)
	require.NoError(t, err)
	require.Equal(t, messageAddr, addr.EncodeAddress())

	compressed, err := PubKeyHashAddress(pubKey, true, &chaincfg.MainNetParams)
	require.NoError(t, err)
	require.NotEqual(t, messageAddr, compressed.EncodeAddress())
}

func TestSignMessageRoundTrip(t *testing.T) {
	privKey, pubKey := PrivKeyFromBytes(hexToBytes(messageKeyHex))
	const message = "Test message"

	for _, compressed := range []bool{false, true} {
		sig, err := SignMessage(privKey, message, compressed)
		require.NoError(t, err)
		require.Len(t, sig, compactSigLen)

		gotKey, gotCompressed, err := RecoverMessageKey(sig, message)
		require.NoError(t, err)
		require.True(t, gotKey.IsEqual(pubKey), "recovered key mismatch")
		require.Equal(t, compressed, gotCompressed)

		addr, err := PubKeyHashAddress(pubKey, compressed,
			&chaincfg.MainNetParams)
		require.NoError(t, err)
		err = VerifyMessage(addr.EncodeAddress(), sig, message,
			&chaincfg.MainNetParams)
		require.NoError(t, err)

		// The same signature must not prove a different message.
		err = VerifyMessage(addr.EncodeAddress(), sig, message+"!",
			&chaincfg.MainNetParams)
		require.Error(t, err)
	}
}

func TestVerifyMessageKnownSignature(t *testing.T) {
	sig := hexToBytes(messageSigHex)

	pubKey, compressed, err := RecoverMessageKey(sig, "Test message")
	require.NoError(t, err)
	require.False(t, compressed)

	_, wantKey := PrivKeyFromBytes(hexToBytes(messageKeyHex))
	require.True(t, pubKey.IsEqual(wantKey))

	err = VerifyMessage(messageAddr, sig, "Test message",
		&chaincfg.MainNetParams)
	require.NoError(t, err)

	// Same key, other serialization.
	_, other := PrivKeyFromBytes(hexToBytes(messageKeyHex))
	otherAddr, err := PubKeyHashAddress(other, true, &chaincfg.MainNetParams)
	require.NoError(t, err)
	err = VerifyMessage(otherAddr.EncodeAddress(), sig, "Test message",
		&chaincfg.MainNetParams)
	require.True(t, errors.Is(err, ErrMessageKeyMismatch), "got %v", err)

	_, _, err = RecoverMessageKey(sig[:64], "Test message")
	require.True(t, errors.Is(err, ErrCompactSigInvalidLen), "got %v", err)
}
