// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// genesisCoinbaseTxHex is the serialized coinbase transaction of the main
// network genesis block.
const genesisCoinbaseTxHex = "01000000010000000000000000000000000000000000" +
	"000000000000000000000000000000ffffffff4d04ffff001d0104455468652054696d" +
	"65732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b20" +
	"6f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff0100f205" +
	"2a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0" +
	"ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf1" +
	"1d5fac00000000"

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected. It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// TestTx tests the MsgTx API.
func TestTx(t *testing.T) {
	// Ensure we get the same transaction output point data back out.
	// NOTE: This is a block hash and made up index, but we're only
	// testing package functionality.
	prevOutIndex := uint32(1)
	prevOut := NewOutPoint(&chainhash.Hash{0x01}, prevOutIndex)
	if !prevOut.Hash.IsEqual(&chainhash.Hash{0x01}) {
		t.Errorf("NewOutPoint: wrong hash - got %v, want %v",
			spew.Sprint(&prevOut.Hash), spew.Sprint(chainhash.Hash{0x01}))
	}
	if prevOut.Index != prevOutIndex {
		t.Errorf("NewOutPoint: wrong index - got %v, want %v",
			prevOut.Index, prevOutIndex)
	}
	prevOutStr := "0000000000000000000000000000000000000000000000000000" +
		"000000000001:1"
	if s := prevOut.String(); s != prevOutStr {
		t.Errorf("OutPoint.String: unexpected result - got %v, "+
			"want %v", s, prevOutStr)
	}

	// Ensure we get the same transaction input back out.
	sigScript := []byte{0x04, 0x31, 0xdc, 0x00, 0x1b, 0x01, 0x62}
	txIn := NewTxIn(prevOut, sigScript)
	if txIn.PreviousOutPoint != *prevOut {
		t.Errorf("NewTxIn: wrong prev outpoint - got %v, want %v",
			spew.Sprint(&txIn.PreviousOutPoint), spew.Sprint(prevOut))
	}
	if !bytes.Equal(txIn.SignatureScript, sigScript) {
		t.Errorf("NewTxIn: wrong signature script - got %v, want %v",
			spew.Sdump(txIn.SignatureScript), spew.Sdump(sigScript))
	}
	if txIn.Sequence != MaxTxInSequenceNum {
		t.Errorf("NewTxIn: wrong sequence - got %v, want %v",
			txIn.Sequence, MaxTxInSequenceNum)
	}

	// Ensure we get the same transaction output back out.
	txValue := int64(5000000000)
	pkScript := hexToBytes("76a9147ab89f9fae3f8043dcee5f7b5467a0f0a6e2f7e188ac")
	txOut := NewTxOut(txValue, pkScript)
	if txOut.Value != txValue {
		t.Errorf("NewTxOut: wrong pk script - got %v, want %v",
			txOut.Value, txValue)
	}
	if !bytes.Equal(txOut.PkScript, pkScript) {
		t.Errorf("NewTxOut: wrong pk script - got %v, want %v",
			spew.Sdump(txOut.PkScript), spew.Sdump(pkScript))
	}

	// Ensure transaction inputs and outputs are added properly.
	msg := NewMsgTx(TxVersion)
	msg.AddTxIn(txIn)
	msg.AddTxOut(txOut)
	if len(msg.TxIn) != 1 || msg.TxIn[0] != txIn {
		t.Errorf("AddTxIn: wrong transaction inputs - got %v",
			spew.Sdump(msg.TxIn))
	}
	if len(msg.TxOut) != 1 || msg.TxOut[0] != txOut {
		t.Errorf("AddTxOut: wrong transaction outputs - got %v",
			spew.Sdump(msg.TxOut))
	}
	if msg.IsCoinBase() {
		t.Errorf("IsCoinBase: regular transaction reported as coinbase")
	}
}

// TestTxHash tests the ability to generate the hash of a transaction
// accurately.
func TestTxHash(t *testing.T) {
	wantHash, err := chainhash.NewHashFromStr("4a5e1e4baab89f3a32518a88c31bc" +
		"87f618f76673e2cc77ab2127b7afdeda33b")
	require.NoError(t, err)

	msgTx, err := NewMsgTxFromBytes(hexToBytes(genesisCoinbaseTxHex))
	require.NoError(t, err)

	if !msgTx.IsCoinBase() {
		t.Errorf("IsCoinBase: genesis coinbase not detected")
	}
	if msgTx.TxOut[0].Value != 5000000000 {
		t.Errorf("unexpected coinbase value %d", msgTx.TxOut[0].Value)
	}

	txHash := msgTx.TxHash()
	if !txHash.IsEqual(wantHash) {
		t.Errorf("TxHash: wrong hash - got %v, want %v", txHash, wantHash)
	}
}

// TestTxSerialize tests MsgTx serialize and deserialize round trips.
func TestTxSerialize(t *testing.T) {
	noTx := NewMsgTx(1)
	noTxEncoded := []byte{
		0x01, 0x00, 0x00, 0x00, // Version
		0x00,                   // Varint for number of input transactions
		0x00,                   // Varint for number of output transactions
		0x00, 0x00, 0x00, 0x00, // Lock time
	}

	tests := []struct {
		name string
		buf  []byte
	}{
		{"no transactions", noTxEncoded},
		{"genesis coinbase", hexToBytes(genesisCoinbaseTxHex)},
		{"two input p2sh spend", hexToBytes(p2shSpendTxHex)},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		var tx MsgTx
		err := tx.Deserialize(bytes.NewReader(test.buf))
		if err != nil {
			t.Errorf("Deserialize #%d (%s) error %v", i, test.name, err)
			continue
		}

		var buf bytes.Buffer
		if err := tx.Serialize(&buf); err != nil {
			t.Errorf("Serialize #%d (%s) error %v", i, test.name, err)
			continue
		}
		if !bytes.Equal(buf.Bytes(), test.buf) {
			t.Errorf("Serialize #%d (%s)\n got: %s want: %s", i,
				test.name, spew.Sdump(buf.Bytes()),
				spew.Sdump(test.buf))
			continue
		}
		if size := tx.SerializeSize(); size != len(test.buf) {
			t.Errorf("SerializeSize #%d (%s) got %d, want %d", i,
				test.name, size, len(test.buf))
		}
	}

	if !bytes.Equal(mustBytes(t, noTx), noTxEncoded) {
		t.Errorf("Bytes: unexpected empty transaction encoding")
	}
}

// TestTxSerializeErrors performs negative tests against MsgTx
// deserialization to confirm truncated data is rejected.
func TestTxSerializeErrors(t *testing.T) {
	full := hexToBytes(genesisCoinbaseTxHex)

	// Every strict prefix of the transaction must fail to decode.
	for _, n := range []int{0, 2, 4, 5, 40, 41, 100, 150, 200, len(full) - 1} {
		var tx MsgTx
		err := tx.Deserialize(bytes.NewReader(full[:n]))
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("Deserialize prefix %d: unexpected error %v", n, err)
		}
	}

	// Trailing data is rejected by the strict constructor.
	_, err := NewMsgTxFromBytes(append(full, 0x00))
	var msgErr *MessageError
	if !errors.As(err, &msgErr) {
		t.Errorf("NewMsgTxFromBytes: trailing data accepted, err %v", err)
	}

	w := newLimitWriter(10)
	tx, err := NewMsgTxFromBytes(full)
	require.NoError(t, err)
	if err := tx.Serialize(w); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("Serialize: unexpected error on short write %v", err)
	}
}

// TestTxOverflowErrors performs tests to ensure deserializing transactions
// which are intentionally crafted to use large values for the variable number
// of inputs and outputs are handled properly.
func TestTxOverflowErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{
			"input count",
			[]byte{
				0x01, 0x00, 0x00, 0x00, // Version
				0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
				0xff, // Varint for number of input transactions
			},
		},
		{
			"output count",
			[]byte{
				0x01, 0x00, 0x00, 0x00, // Version
				0x00, // Varint for number of input transactions
				0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
				0xff, // Varint for number of output transactions
			},
		},
	}

	for i, test := range tests {
		var msg MsgTx
		err := msg.Deserialize(bytes.NewReader(test.buf))
		var msgErr *MessageError
		if !errors.As(err, &msgErr) {
			t.Errorf("Deserialize #%d (%s) wrong error got: %v, "+
				"want: *MessageError", i, test.name, err)
		}
	}
}

// TestTxCopy ensures a copied transaction shares no mutable state with the
// original.
func TestTxCopy(t *testing.T) {
	orig, err := NewMsgTxFromBytes(hexToBytes(p2shSpendTxHex))
	require.NoError(t, err)
	before := mustBytes(t, orig)

	dup := orig.Copy()
	require.Equal(t, before, mustBytes(t, dup))

	dup.Version = 2
	dup.LockTime = 100
	dup.TxIn[0].SignatureScript[0] ^= 0xff
	dup.TxIn[1].PreviousOutPoint.Index = 7
	dup.TxIn[1].Sequence = 0
	dup.TxOut[0].PkScript[0] ^= 0xff
	dup.TxOut[2].Value = -1
	dup.TxIn = dup.TxIn[:1]
	dup.TxOut = nil

	if after := mustBytes(t, orig); !bytes.Equal(before, after) {
		t.Fatalf("Copy: mutating the copy changed the original\n"+
			"before: %x\nafter:  %x", before, after)
	}
}

// mustBytes serializes the transaction and fails the test on error.
func mustBytes(t *testing.T, tx *MsgTx) []byte {
	t.Helper()
	b, err := tx.Bytes()
	require.NoError(t, err)
	return b
}

// p2shSpendTxHex is a testnet transaction spending two 2-of-3 multisig
// pay-to-script-hash outputs.
const p2shSpendTxHex = "0100000002e7131826715b36b47b149177b0f2f3169af74b9" +
	"188d3d02433d7f3b5e6c796a701000000fdfd0000473044022032e7b327ccf5e7f19" +
	"029134c50d881daa178a1233d09ac9e6e93081e8f33efaf02202e2bf8b57d1c34554" +
	"f65fac9c6df4986d31b3f6a7bee6cbab9a3ed835e3f57c301483045022100a355f5c" +
	"de0b7643a1cbb813df4b29ddca13ddd7ee3685e77b1972179832bbd9a0220391bb96" +
	"61fdab9f38bcce2abaebde39f3b5874b65758b61e1961c64f8b74d288014c6952210" +
	"378d430274f8c5ec1321338151e9f27f4c676a008bdf8638d07c0b6be9ab35c71210" +
	"26a361b855808aeba02d3143b3ec884f709b24d5391c515bd4eafd69d1afae337210" +
	"355e9d91d63acb15a75c1a9205fc4c0a0878778e08e0a9ca22adb0c2c33fa880153a" +
	"effffffff12780cf6595ce7d34ca2e2c104dad5a2ea8709348a280cefc2246bdbd0b" +
	"f142a01000000fdfd0000483045022100a6967dcd995712007a647d5466131ebc2f5" +
	"cd3f46c7b314ccf428ea4e46684c502202716cf49125a67627dc2837b747898b38e8" +
	"c4f58abb13cd3c1c362f0f4094ff301473044022056fc5265f4508e1baf4d837894d" +
	"5e6e3df8925c68c1f2f8ca83476b73fabd64202200ad5c9928db2d7096a3d19ac2d6" +
	"fc9eab3db69cd00b9dbcb923bb2e709c5b64f014c6952210378d430274f8c5ec1321" +
	"338151e9f27f4c676a008bdf8638d07c0b6be9ab35c7121026a361b855808aeba02d" +
	"3143b3ec884f709b24d5391c515bd4eafd69d1afae337210355e9d91d63acb15a75c" +
	"1a9205fc4c0a0878778e08e0a9ca22adb0c2c33fa880153aeffffffff03e80300000" +
	"000000017a914df91b0c30b7d6ec20c50e066c07add242dcfcc1d87e803000000000" +
	"00017a914df91b0c30b7d6ec20c50e066c07add242dcfcc1d87c6070000000000001" +
	"7a914df91b0c30b7d6ec20c50e066c07add242dcfcc1d8700000000"
