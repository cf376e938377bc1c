// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcvm/btcvm/txscript"
)

// sighashCmd defines the configuration options for the sighash command.
type sighashCmd struct {
	Input    int    `short:"i" long:"input" description:"Index of the input being signed"`
	Script   string `short:"s" long:"script" description:"Script committed to, hex or human-readable" required:"true"`
	HashType string `short:"t" long:"hashtype" description:"ALL, NONE or SINGLE, optionally with |ANYONECANPAY"`
}

var (
	// sighashCfg defines the configuration options for the command.
	sighashCfg = sighashCmd{HashType: "ALL"}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *sighashCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("required transaction parameter not specified")
	}
	tx, err := parseTx(args[0])
	if err != nil {
		return err
	}
	script, err := parseScript(cmd.Script)
	if err != nil {
		return err
	}
	hashType, err := parseHashType(cmd.HashType)
	if err != nil {
		return err
	}

	hash, err := txscript.CalcSignatureHash(script, hashType, tx, cmd.Input)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(hash))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *sighashCmd) Usage() string {
	return "<tx-hex>"
}
