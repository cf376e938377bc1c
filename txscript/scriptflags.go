// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"strings"
)

// ScriptFlags is a bitmask defining additional operations or tests that will be
// done when executing a script pair.
type ScriptFlags uint32

const (
	// ScriptBip16 defines whether the bip16 threshold has passed and thus
	// pay-to-script hash transactions will be fully validated.
	ScriptBip16 ScriptFlags = 1 << iota

	// ScriptStrictMultiSig defines whether to verify the stack item
	// used by CHECKMULTISIG is zero length.
	ScriptStrictMultiSig

	// ScriptDiscourageUpgradableNops defines whether to verify that
	// NOP1 through NOP10 are reserved for future soft-fork upgrades.  This
	// flag must not be used for consensus critical code nor applied to
	// blocks as this flag is only for stricter standard transaction
	// checks.  This flag is only applied when the above opcodes are
	// executed.
	ScriptDiscourageUpgradableNops

	// ScriptVerifyCheckLockTimeVerify defines whether to verify that
	// a transaction output is spendable based on the locktime.
	// This is BIP0065.
	ScriptVerifyCheckLockTimeVerify

	// ScriptVerifyCheckSequenceVerify defines whether to allow execution
	// pathways of a script to be restricted based on the age of the output
	// being spent.  This is BIP0112.
	ScriptVerifyCheckSequenceVerify

	// ScriptVerifyCleanStack defines that the stack must contain only
	// one stack element after evaluation and that the element must be
	// true if interpreted as a boolean.  This is rule 6 of BIP0062.
	// This flag should never be used without the ScriptBip16 flag.
	ScriptVerifyCleanStack

	// ScriptVerifyDERSignatures defines that signatures are required
	// to comply with the DER format.
	ScriptVerifyDERSignatures

	// ScriptVerifyLowS defines that signatures are required to comply with
	// the DER format and whose S value is <= order / 2.  This is rule 5
	// of BIP0062.
	ScriptVerifyLowS

	// ScriptVerifyMinimalData defines that signatures must use the smallest
	// push operator. This is both rules 3 and 4 of BIP0062.
	ScriptVerifyMinimalData

	// ScriptVerifySigPushOnly defines that signature scripts must contain
	// only pushed data.  This is rule 2 of BIP0062.
	ScriptVerifySigPushOnly

	// ScriptVerifyStrictEncoding defines that signature scripts and
	// public keys must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding
)

// StandardVerifyFlags are the script flags which are used when executing
// transaction scripts to enforce additional checks which are required for
// the script to be considered standard.  These checks help reduce issues
// related to transaction malleability as well as allow pay-to-script hash
// transactions.  Note these flags are different than what is required for
// the consensus rules in that they are more strict.
const StandardVerifyFlags = ScriptBip16 |
	ScriptVerifyDERSignatures |
	ScriptVerifyStrictEncoding |
	ScriptVerifyMinimalData |
	ScriptStrictMultiSig |
	ScriptDiscourageUpgradableNops |
	ScriptVerifyCleanStack |
	ScriptVerifyCheckLockTimeVerify |
	ScriptVerifyCheckSequenceVerify |
	ScriptVerifyLowS

// scriptFlagNames maps the textual flag names used by the reference script
// tests and the command line tooling to their bits.
var scriptFlagNames = []struct {
	name string
	flag ScriptFlags
}{
	{"P2SH", ScriptBip16},
	{"NULLDUMMY", ScriptStrictMultiSig},
	{"DISCOURAGE_UPGRADABLE_NOPS", ScriptDiscourageUpgradableNops},
	{"CHECKLOCKTIMEVERIFY", ScriptVerifyCheckLockTimeVerify},
	{"CHECKSEQUENCEVERIFY", ScriptVerifyCheckSequenceVerify},
	{"CLEANSTACK", ScriptVerifyCleanStack},
	{"DERSIG", ScriptVerifyDERSignatures},
	{"LOW_S", ScriptVerifyLowS},
	{"MINIMALDATA", ScriptVerifyMinimalData},
	{"SIGPUSHONLY", ScriptVerifySigPushOnly},
	{"STRICTENC", ScriptVerifyStrictEncoding},
}

// ParseScriptFlags parses the provided comma-separated list of flag names
// such as "P2SH,STRICTENC".  The empty string and "NONE" yield no flags.
func ParseScriptFlags(flagStr string) (ScriptFlags, error) {
	var flags ScriptFlags

	flagStr = strings.TrimSpace(flagStr)
	if flagStr == "" {
		return flags, nil
	}

nextFlag:
	for _, name := range strings.Split(flagStr, ",") {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" || name == "NONE" {
			continue
		}
		for _, entry := range scriptFlagNames {
			if entry.name == name {
				flags |= entry.flag
				continue nextFlag
			}
		}
		return flags, fmt.Errorf("invalid script flag %q", name)
	}
	return flags, nil
}

// String returns the comma-separated flag names, or "NONE" when no flags are
// set.
func (flags ScriptFlags) String() string {
	var names []string
	for _, entry := range scriptFlagNames {
		if flags&entry.flag == entry.flag {
			names = append(names, entry.name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, ",")
}
