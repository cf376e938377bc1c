// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"

	flags "github.com/jessevdk/go-flags"

	applog "github.com/btcvm/btcvm/internal/log"
)

var log = applog.MainLog

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	defer os.Stdout.Sync()
	defer func() {
		if applog.LogRotator != nil {
			applog.LogRotator.Close()
		}
	}()

	// Setup the parser options and commands.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	parserFlags := flags.Options(flags.HelpFlag | flags.PassDoubleDash)
	parser := flags.NewNamedParser(appName, parserFlags)
	parser.AddGroup("Global Options", "", cfg)
	parser.AddCommand("verify",
		"Verify the input scripts of a transaction",
		"Verify every input of a hex encoded transaction against the "+
			"previous outputs in the database, or a single input "+
			"against an explicitly given public key script.",
		&verifyCfg)
	parser.AddCommand("disasm",
		"Disassemble a script",
		"Print the one-line disassembly of a hex script, or with "+
			"--parse assemble a human-readable script into hex.",
		&disasmCfg)
	parser.AddCommand("sighash",
		"Compute the legacy signature hash of a transaction input", "",
		&sighashCfg)
	parser.AddCommand("import",
		"Import the outputs of transactions into the database",
		"Store every output of the given hex encoded transactions so "+
			"that later spends can be verified.", &importCfg)
	parser.AddCommand("signmessage",
		"Sign a message with a private key", "", &signMessageCfg)
	parser.AddCommand("verifymessage",
		"Verify a signed message against an address", "",
		&verifyMessageCfg)
	parser.AddCommand("version", "Display version information and exit",
		"", &versionCfg)

	// Parse command line and invoke the Execute function for the specified
	// command.
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		} else {
			log.Error(err)
		}

		return err
	}

	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
