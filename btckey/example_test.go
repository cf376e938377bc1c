// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btckey_test

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/btcvm/btcvm/btckey"
)

// This example demonstrates signing a message with a secp256k1 private key that
// is first parsed form raw bytes and serializing the generated signature.
func Example_signMessage() {
	// Decode a hex-encoded private key.
	pkBytes, err := hex.DecodeString("22a47fa09a223f2aa079edf85a7c2d4f87" +
		"20ee63e502ee2869afab7de234b80c")
	if err != nil {
		fmt.Println(err)
		return
	}
	privKey, pubKey := btckey.PrivKeyFromBytes(pkBytes)

	// Sign a message using the private key.
	message := "test message"
	messageHash := chainhash.DoubleHashB([]byte(message))
	signature := btckey.SignDER(privKey, messageHash)

	// Serialize and display the signature.
	fmt.Printf("Serialized Signature: %x\n", signature)

	// Verify the signature for the message using the public key.
	verified := btckey.Verify(pubKey, signature, messageHash)
	fmt.Printf("Signature Verified? %v\n", verified)

	// Output:
	// Serialized Signature: 304402201008e236fa8cd0f25df4482dddbb622e8a8b26ef0ba731719458de3ccd93805b022032f8ebe514ba5f672466eba334639282616bb3c2f0ab09998037513d1f9e3d6d
	// Signature Verified? true
}

// This example demonstrates verifying a secp256k1 signature against a public
// key that is first parsed from raw bytes.  The signature is also parsed from
// raw bytes.  Its S value is in the upper half of the group order, so it is a
// valid signature that is nonetheless not canonical under the low S rule.
func Example_verifySignature() {
	// Decode hex-encoded serialized public key.
	pubKeyBytes, err := hex.DecodeString("02a673638cb9587cb68ea08dbef685c" +
		"6f2d2a751a8b3c6f2a7e9a4999e6e4bfaf5")
	if err != nil {
		fmt.Println(err)
		return
	}
	pubKey, err := btckey.ParsePubKey(pubKeyBytes)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Decode hex-encoded serialized signature.
	sigBytes, err := hex.DecodeString("30450220090ebfb3690a0ff115bb1b38b" +
		"8b323a667b7653454f1bccb06d4bbdca42c2079022100ec95778b51e707" +
		"1cb1205f8bde9af6592fc978b0452dafe599481c46d6b2e479")
	if err != nil {
		fmt.Println(err)
		return
	}

	// Verify the signature for the message using the public key.
	message := "test message"
	messageHash := chainhash.DoubleHashB([]byte(message))
	fmt.Println("Signature Verified?", btckey.Verify(pubKey, sigBytes,
		messageHash))

	err = btckey.CheckDEREncoding(sigBytes, true)
	fmt.Println("Low S?", err == nil)

	// Output:
	// Signature Verified? true
	// Low S? false
}

// This example demonstrates deriving the same Diffie-Hellman point from both
// sides of a key exchange.
func Example_sharedSecretPoint() {
	alice, err := btckey.NewPrivateKey()
	if err != nil {
		fmt.Println(err)
		return
	}
	bob, err := btckey.NewPrivateKey()
	if err != nil {
		fmt.Println(err)
		return
	}

	p1 := btckey.SharedSecretPoint(alice, bob.PubKey())
	p2 := btckey.SharedSecretPoint(bob, alice.PubKey())
	fmt.Println("Points equal?", p1.IsEqual(p2))

	// Output:
	// Points equal? true
}
