// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/btcvm/btcvm/btckey"
)

// signMessageCmd defines the configuration options for the signmessage
// command.
type signMessageCmd struct {
	PrivKey      string `short:"k" long:"privkey" description:"Hex encoded 32 byte private key" required:"true"`
	Uncompressed bool   `long:"uncompressed" description:"Sign for the uncompressed public key address"`
}

// verifyMessageCmd defines the configuration options for the verifymessage
// command.
type verifyMessageCmd struct{}

var (
	signMessageCfg   = signMessageCmd{}
	verifyMessageCfg = verifyMessageCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *signMessageCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("exactly one message parameter is required")
	}
	keyBytes, err := hex.DecodeString(cmd.PrivKey)
	if err != nil || len(keyBytes) != 32 {
		return errors.New("private key must be 32 hex encoded bytes")
	}

	privKey, pubKey := btckey.PrivKeyFromBytes(keyBytes)
	compressed := !cmd.Uncompressed
	sig, err := btckey.SignMessage(privKey, args[0], compressed)
	if err != nil {
		return err
	}
	addr, err := btckey.PubKeyHashAddress(pubKey, compressed, activeNetParams)
	if err != nil {
		return err
	}

	fmt.Printf("address:   %s\n", addr.EncodeAddress())
	fmt.Printf("signature: %s\n", base64.StdEncoding.EncodeToString(sig))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *signMessageCmd) Usage() string {
	return "<message>"
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *verifyMessageCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) != 3 {
		return errors.New("address, signature and message parameters " +
			"are required")
	}
	sig, err := base64.StdEncoding.DecodeString(args[1])
	if err != nil {
		return fmt.Errorf("signature is not base64: %w", err)
	}

	if err := btckey.VerifyMessage(args[0], sig, args[2], activeNetParams); err != nil {
		return err
	}

	pubKey, compressed, err := btckey.RecoverMessageKey(sig, args[2])
	if err != nil {
		return err
	}
	log.Debugf("Recovered key %x", btckey.SerializePubKey(pubKey, compressed))
	fmt.Printf("%s: OK (key hash %x)\n", args[0],
		btcutil.Hash160(btckey.SerializePubKey(pubKey, compressed)))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *verifyMessageCmd) Usage() string {
	return "<address> <base64-signature> <message>"
}
