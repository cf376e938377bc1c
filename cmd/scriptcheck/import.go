// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btcvm/btcvm/wire"
)

// importCmd defines the configuration options for the import command.
type importCmd struct {
	InFile string `short:"i" long:"infile" description:"File with one hex encoded transaction per line, or - for stdin"`
	List   bool   `long:"list" description:"List the stored outputs after importing"`
}

var (
	// importCfg defines the configuration options for the command.
	importCfg = importCmd{}
)

// readTxs reads one hex transaction per non-empty line.
func readTxs(r io.Reader) ([]*wire.MsgTx, error) {
	var txs []*wire.MsgTx
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		tx, err := parseTx(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, scanner.Err()
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *importCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	var txs []*wire.MsgTx
	for _, arg := range args {
		tx, err := parseTx(arg)
		if err != nil {
			return err
		}
		txs = append(txs, tx)
	}
	if cmd.InFile != "" {
		in := os.Stdin
		if cmd.InFile != "-" {
			f, err := os.Open(cmd.InFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		fileTxs, err := readTxs(in)
		if err != nil {
			return err
		}
		txs = append(txs, fileTxs...)
	}
	if len(txs) == 0 && !cmd.List {
		return errors.New("no transactions to import")
	}

	db, store, err := loadPrevOutDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var numOutputs int
	for _, tx := range txs {
		if err := store.PutTx(tx); err != nil {
			return err
		}
		numOutputs += len(tx.TxOut)
	}
	log.Infof("Imported %d outputs from %d transactions", numOutputs,
		len(txs))

	if !cmd.List {
		return nil
	}
	return store.ForEach(func(op wire.OutPoint, out *wire.TxOut) error {
		fmt.Printf("%v %d %x\n", op, out.Value, out.PkScript)
		return nil
	})
}

// Usage overrides the usage display for the command.
func (cmd *importCmd) Usage() string {
	return "[<tx-hex>...]"
}
