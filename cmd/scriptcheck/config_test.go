// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"

	"github.com/btcvm/btcvm/txscript"
	"github.com/btcvm/btcvm/wire"
)

func TestParseScript(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"", nil},
		{"76a9", []byte{txscript.OP_DUP, txscript.OP_HASH160}},
		{"DUP HASH160", []byte{txscript.OP_DUP, txscript.OP_HASH160}},
		{"1 2 ADD", []byte{txscript.OP_1, txscript.OP_2, txscript.OP_ADD}},
		{"CHECKSIG", []byte{txscript.OP_CHECKSIG}},
	}
	for _, test := range tests {
		got, err := parseScript(test.in)
		require.NoError(t, err, test.in)
		require.Equal(t, test.want, got, test.in)
	}

	_, err := parseScript("NOTANOPCODE")
	require.Error(t, err)
}

func TestParseHashType(t *testing.T) {
	tests := []struct {
		in      string
		want    txscript.SigHashType
		invalid bool
	}{
		{in: "ALL", want: txscript.SigHashAll},
		{in: "none", want: txscript.SigHashNone},
		{in: "SINGLE|ANYONECANPAY", want: txscript.SigHashSingle | txscript.SigHashAnyOneCanPay},
		{in: "ANYONECANPAY", invalid: true},
		{in: "ALL|NONE", invalid: true},
		{in: "", invalid: true},
	}
	for _, test := range tests {
		got, err := parseHashType(test.in)
		if test.invalid {
			require.Error(t, err, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		require.Equal(t, test.want, got, test.in)
		require.Equal(t, strings.ToUpper(test.in), got.String())
	}
}

func TestScriptFlags(t *testing.T) {
	defer func(flags string) { cfg.Flags = flags }(cfg.Flags)

	for in, want := range map[string]txscript.ScriptFlags{
		"standard":       txscript.StandardVerifyFlags,
		"NONE":           0,
		"P2SH,STRICTENC": txscript.ScriptBip16 | txscript.ScriptVerifyStrictEncoding,
	} {
		cfg.Flags = in
		got, err := scriptFlags()
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	cfg.Flags = "BOGUS"
	_, err := scriptFlags()
	require.Error(t, err)
}

func TestReadTxs(t *testing.T) {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{1}, 0), nil))
	tx.AddTxOut(wire.NewTxOut(10, []byte{txscript.OP_TRUE}))
	raw, err := tx.Bytes()
	require.NoError(t, err)

	input := "# funding\n" + hex.EncodeToString(raw) + "\n\n" +
		hex.EncodeToString(raw) + "\n"
	txs, err := readTxs(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, tx.TxHash(), txs[1].TxHash())

	_, err = readTxs(strings.NewReader("zz\n"))
	require.ErrorContains(t, err, "line 1")
}

func TestOpenEngine(t *testing.T) {
	for _, dbType := range knownDbTypes {
		require.True(t, validDbType(dbType))
		db, err := openEngine(dbType, filepath.Join(t.TempDir(), dbType))
		require.NoError(t, err, dbType)
		require.NoError(t, db.Close())
	}
	require.False(t, validDbType("ffldb"))
	_, err := openEngine("ffldb", t.TempDir())
	require.Error(t, err)
}
