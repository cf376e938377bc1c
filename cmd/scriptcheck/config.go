// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/btcvm/btcvm/database/engine"
	"github.com/btcvm/btcvm/database/engine/leveldb"
	"github.com/btcvm/btcvm/database/engine/pebbledb"
	applog "github.com/btcvm/btcvm/internal/log"
	"github.com/btcvm/btcvm/prevout"
	"github.com/btcvm/btcvm/txscript"
	"github.com/btcvm/btcvm/wire"
)

const (
	// prevOutDbNamePrefix is the prefix for the previous output database.
	prevOutDbNamePrefix = "prevouts"

	defaultLogFilename = "scriptcheck.log"
)

var (
	appHomeDir      = btcutil.AppDataDir("btcvm", false)
	knownDbTypes    = []string{"leveldb", "pebble"}
	activeNetParams = &chaincfg.MainNetParams

	// Default global config.
	cfg = &config{
		DataDir:    filepath.Join(appHomeDir, "data"),
		LogDir:     filepath.Join(appHomeDir, "logs"),
		DbType:     "leveldb",
		DebugLevel: "info",
		Flags:      "standard",
	}
)

// config defines the global configuration options.
type config struct {
	DataDir    string `short:"b" long:"datadir" description:"Location of the data directory"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	DbType     string `long:"dbtype" description:"Database backend to use for previous outputs (leveldb or pebble)"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	TestNet    bool   `long:"testnet" description:"Use the test network"`
	Flags      string `long:"flags" description:"Script verification flags: standard, none, or a comma separated list such as P2SH,STRICTENC"`
}

// validDbType returns whether or not dbType is a supported database type.
func validDbType(dbType string) bool {
	for _, knownType := range knownDbTypes {
		if dbType == knownType {
			return true
		}
	}

	return false
}

// setupGlobalConfig examine the global configuration options for any conditions
// which are invalid as well as performs any addition setup necessary after the
// initial parse.
func setupGlobalConfig() error {
	if cfg.TestNet {
		activeNetParams = &chaincfg.TestNet3Params
	}

	if !validDbType(cfg.DbType) {
		str := "the specified database type [%v] is invalid -- " +
			"supported types %v"
		return fmt.Errorf(str, cfg.DbType, knownDbTypes)
	}

	if err := applog.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	// Namespace the data and log directories per network.
	cfg.DataDir = filepath.Join(cfg.DataDir, activeNetParams.Name)
	logFile := filepath.Join(cfg.LogDir, activeNetParams.Name,
		defaultLogFilename)
	return applog.InitLogRotator(logFile)
}

// scriptFlags returns the verification flags selected on the command line.
func scriptFlags() (txscript.ScriptFlags, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Flags)) {
	case "standard":
		return txscript.StandardVerifyFlags, nil
	case "none", "":
		return 0, nil
	}
	return txscript.ParseScriptFlags(cfg.Flags)
}

// openEngine opens or creates the key/value database of the configured
// type at dbPath.
func openEngine(dbType, dbPath string) (engine.Engine, error) {
	switch dbType {
	case "leveldb":
		return leveldb.NewDB(dbPath, false)
	case "pebble":
		return pebbledb.NewDB(dbPath, false, 0, 0)
	}
	return nil, fmt.Errorf("unsupported database type %q", dbType)
}

// loadPrevOutDB opens the previous output database, creating it when
// needed.  The returned engine must be closed by the caller.
func loadPrevOutDB() (engine.Engine, *prevout.Store, error) {
	// The database name is based on the database type.
	dbName := prevOutDbNamePrefix + "_" + cfg.DbType
	dbPath := filepath.Join(cfg.DataDir, dbName)

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, nil, err
	}

	log.Infof("Loading previous output database from '%s'", dbPath)
	db, err := openEngine(cfg.DbType, dbPath)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Previous output database loaded")
	return db, prevout.New(db), nil
}

// parseScript accepts a script either as plain hex or in the human-readable
// form understood by txscript.ParseScriptString.
func parseScript(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.ContainsAny(s, " \t") {
		if script, err := hex.DecodeString(s); err == nil {
			return script, nil
		}
	}
	return txscript.ParseScriptString(s)
}

// parseTx decodes a hex encoded transaction.
func parseTx(s string) (*wire.MsgTx, error) {
	serialized, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("transaction is not hex: %w", err)
	}
	return wire.NewMsgTxFromBytes(serialized)
}

// parseHashType parses names such as ALL or SINGLE|ANYONECANPAY.
func parseHashType(s string) (txscript.SigHashType, error) {
	var hashType txscript.SigHashType
	for i, part := range strings.Split(strings.ToUpper(s), "|") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0 && part == "ALL":
			hashType = txscript.SigHashAll
		case i == 0 && part == "NONE":
			hashType = txscript.SigHashNone
		case i == 0 && part == "SINGLE":
			hashType = txscript.SigHashSingle
		case i > 0 && part == "ANYONECANPAY":
			hashType |= txscript.SigHashAnyOneCanPay
		default:
			return 0, fmt.Errorf("invalid hash type %q", s)
		}
	}
	return hashType, nil
}
