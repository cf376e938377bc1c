// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptval

import (
	"context"
	"fmt"
	"runtime"

	"github.com/davecgh/go-spew/spew"

	"github.com/btcvm/btcvm/txscript"
	"github.com/btcvm/btcvm/wire"
)

// validateItem is one input of the transaction being validated.
type validateItem struct {
	txInIndex int
	txIn      *wire.TxIn
}

// Validator checks the scripts of every input of a transaction on a bounded
// pool of goroutines.
type Validator struct {
	// Workers caps the number of goroutines.  Zero selects three per CPU.
	// The pool never grows beyond the number of inputs.
	Workers int

	fetcher  txscript.PrevOutputFetcher
	flags    txscript.ScriptFlags
	sigCache *txscript.SigCache
}

// New returns a validator looking up spent outputs with fetcher and running
// the scripts with flags.  sigCache may be nil.
func New(fetcher txscript.PrevOutputFetcher, flags txscript.ScriptFlags,
	sigCache *txscript.SigCache) *Validator {

	return &Validator{
		fetcher:  fetcher,
		flags:    flags,
		sigCache: sigCache,
	}
}

// workers returns the size of the pool for n items.
func (v *Validator) workers(n int) int {
	max := v.Workers
	if max <= 0 {
		max = runtime.NumCPU() * 3
	}
	if max > n {
		max = n
	}
	if max <= 0 {
		max = 1
	}
	return max
}

// validateInput runs the script pair of one input.
func (v *Validator) validateInput(tx *wire.MsgTx, item *validateItem) error {
	txHash := tx.TxHash()
	prevOut := item.txIn.PreviousOutPoint
	utxo := v.fetcher.FetchPrevOutput(prevOut)
	if utxo == nil {
		str := fmt.Sprintf("unable to find output %v referenced from "+
			"transaction %v:%d", prevOut, txHash, item.txInIndex)
		return validationError(ErrMissingPrevOut, str, nil)
	}

	sigScript := item.txIn.SignatureScript
	pkScript := utxo.PkScript
	vm, err := txscript.NewEngine(pkScript, tx, item.txInIndex, v.flags,
		v.sigCache)
	if err != nil {
		str := fmt.Sprintf("failed to parse input %v:%d which "+
			"references output %v - %v (input script bytes %x, "+
			"prev output script bytes %x)", txHash, item.txInIndex,
			prevOut, err, sigScript, pkScript)
		return validationError(ErrScriptMalformed, str, err)
	}

	if err := vm.Execute(); err != nil {
		str := fmt.Sprintf("failed to validate input %v:%d which "+
			"references output %v - %v (input script bytes %x, "+
			"prev output script bytes %x)", txHash, item.txInIndex,
			prevOut, err, sigScript, pkScript)
		return validationError(ErrScriptValidation, str, err)
	}

	return nil
}

// worker consumes items until the channel is closed or ctx is done.
func (v *Validator) worker(ctx context.Context, tx *wire.MsgTx,
	items <-chan *validateItem, results chan<- error) {

	for {
		select {
		case item, ok := <-items:
			if !ok {
				return
			}
			err := v.validateInput(tx, item)
			select {
			case results <- err:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Validate checks every non-coinbase input of tx.  The first failure stops
// the remaining work and is returned as a ValidationError.  Cancelling ctx
// aborts validation with the context's error.
func (v *Validator) Validate(ctx context.Context, tx *wire.MsgTx) error {
	var items []*validateItem
	if !tx.IsCoinBase() {
		items = make([]*validateItem, 0, len(tx.TxIn))
		for i, txIn := range tx.TxIn {
			items = append(items, &validateItem{txInIndex: i, txIn: txIn})
		}
	}
	if len(items) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	numWorkers := v.workers(len(items))
	log.Tracef("Validating %d inputs of %v with %d workers", len(items),
		newLogClosure(func() string { return tx.TxHash().String() }),
		numWorkers)

	itemChan := make(chan *validateItem)
	results := make(chan error)
	for i := 0; i < numWorkers; i++ {
		go v.worker(ctx, tx, itemChan, results)
	}

	// Feed the items while collecting results.  The select never picks the
	// nil item channel once everything has been sent.
	sendChan := itemChan
	sent, processed := 0, 0
	for processed < len(items) {
		var item *validateItem
		if sent < len(items) {
			item = items[sent]
		} else if sendChan != nil {
			close(itemChan)
			sendChan = nil
		}

		select {
		case sendChan <- item:
			sent++

		case err := <-results:
			processed++
			if err != nil {
				log.Debugf("%v", err)
				log.Tracef("Failing transaction: %v",
					newLogClosure(func() string {
						return spew.Sdump(tx)
					}))
				return err
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if sendChan != nil {
		close(itemChan)
	}
	return nil
}

// ValidateTransactionScripts validates the scripts of every input of tx
// against the outputs supplied by fetcher using a default sized worker pool.
func ValidateTransactionScripts(ctx context.Context, tx *wire.MsgTx,
	fetcher txscript.PrevOutputFetcher, flags txscript.ScriptFlags,
	sigCache *txscript.SigCache) error {

	return New(fetcher, flags, sigCache).Validate(ctx, tx)
}
