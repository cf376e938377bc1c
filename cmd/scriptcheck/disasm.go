// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcvm/btcvm/txscript"
)

// disasmCmd defines the configuration options for the disasm command.
type disasmCmd struct {
	Parse bool `long:"parse" description:"Assemble the human-readable script given as arguments into hex"`
	Class bool `long:"class" description:"Also print the standard script class"`
}

var (
	// disasmCfg defines the configuration options for the command.
	disasmCfg = disasmCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *disasmCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) < 1 {
		return errors.New("required script parameter not specified")
	}

	if cmd.Parse {
		script, err := txscript.ParseScriptString(strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(script))
		return nil
	}

	script, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("script is not hex: %w", err)
	}
	disasm, err := txscript.DisasmString(script)
	if err != nil {
		// The disassembly up to the failure is still useful.
		log.Warnf("Script is malformed: %v", err)
	}
	fmt.Println(disasm)
	if cmd.Class {
		fmt.Println(txscript.GetScriptClass(script))
	}
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *disasmCmd) Usage() string {
	return "<script-hex> | --parse <script>..."
}
