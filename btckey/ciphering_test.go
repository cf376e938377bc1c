// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btckey

import (
	"bytes"
	"testing"
)

func TestGenerateSharedSecret(t *testing.T) {
	privKey1, err := NewPrivateKey()
	if err != nil {
		t.Errorf("private key generation error: %s", err)
		return
	}
	privKey2, err := NewPrivateKey()
	if err != nil {
		t.Errorf("private key generation error: %s", err)
		return
	}

	secret1 := GenerateSharedSecret(privKey1, privKey2.PubKey())
	secret2 := GenerateSharedSecret(privKey2, privKey1.PubKey())

	if !bytes.Equal(secret1, secret2) {
		t.Errorf("ECDH failed, secrets mismatch - first: %x, second: %x",
			secret1, secret2)
	}

	// The x coordinate of the shared point is the shared secret.
	point := SharedSecretPoint(privKey1, privKey2.PubKey())
	if !bytes.Equal(point.SerializeCompressed()[1:], secret1) {
		t.Errorf("shared point x %x does not match secret %x",
			point.SerializeCompressed()[1:], secret1)
	}
}

// TestSharedSecretPoint checks a·B == b·A against a known point.
func TestSharedSecretPoint(t *testing.T) {
	alice, alicePub := PrivKeyFromBytes(hexToBytes("c4bbcb1fbec99d65bf59d85c" +
		"8cb62ee2db963f0fe106f483d9afa73bd4e39a8a"))
	bob, bobPub := PrivKeyFromBytes(hexToBytes("2db963f0fe106f483d9afa73bd4e" +
		"39a8ac4bbcb1fbec99d65bf59d85c8cb62ee"))
	want := hexToBytes("03735932754bc16e10febe40ee0280906d29459d477442f18" +
		"38dcf27de3b5d9699")

	dh1 := SharedSecretPoint(alice, bobPub)
	dh2 := SharedSecretPoint(bob, alicePub)
	if !dh1.IsEqual(dh2) {
		t.Fatalf("shared points differ: %x != %x",
			dh1.SerializeCompressed(), dh2.SerializeCompressed())
	}
	if got := dh1.SerializeCompressed(); !bytes.Equal(got, want) {
		t.Fatalf("unexpected shared point - got %x, want %x", got, want)
	}
}
