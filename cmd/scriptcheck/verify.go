// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/btcvm/btcvm/scriptval"
	"github.com/btcvm/btcvm/txscript"
)

// verifyCmd defines the configuration options for the verify command.
type verifyCmd struct {
	Input        int    `short:"i" long:"input" description:"Verify only this input index against --pkscript"`
	PkScript     string `short:"p" long:"pkscript" description:"Public key script of the spent output, hex or human-readable"`
	SigCacheSize uint   `long:"sigcachesize" description:"Number of valid signatures to cache while verifying"`
}

var (
	// verifyCfg defines the configuration options for the command.
	verifyCfg = verifyCmd{
		Input:        -1,
		SigCacheSize: 1000,
	}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *verifyCmd) Execute(args []string) error {
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
	flags, err := scriptFlags()
	if err != nil {
		return err
	}
	log.Debugf("Verifying %v with flags %v", tx.TxHash(), flags)

	// A single input against an explicit script needs no database.
	if cmd.PkScript != "" {
		if cmd.Input < 0 {
			return errors.New("--pkscript requires --input")
		}
		pkScript, err := parseScript(cmd.PkScript)
		if err != nil {
			return err
		}
		err = txscript.VerifyScript(nil, pkScript, tx, cmd.Input, flags)
		if err != nil {
			return err
		}
		fmt.Printf("input %d: OK\n", cmd.Input)
		return nil
	}

	db, store, err := loadPrevOutDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	err = scriptval.ValidateTransactionScripts(ctx, tx, store, flags,
		txscript.NewSigCache(cmd.SigCacheSize))
	if err != nil {
		return err
	}
	log.Infof("Verified %d inputs in %v", len(tx.TxIn), time.Since(startTime))
	fmt.Printf("%v: OK\n", tx.TxHash())
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *verifyCmd) Usage() string {
	return "<tx-hex>"
}
