// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
)

// sigCacheEntry represents an entry in the SigCache.  Entries are a 3-tuple of
// the signature hash and the raw signature and public key bytes exactly as
// they appeared in the script.
type sigCacheEntry struct {
	sigHash chainhash.Hash
	sig     string
	pubKey  string
}

// SigCache implements an ECDSA signature verification cache with a least
// recently used eviction policy.  Only valid signatures will be added to the
// cache.  The benefits of SigCache are two fold.  Firstly, usage of SigCache
// mitigates a DoS attack wherein an attack causes a victim's client to hang
// due to worst-case behavior triggered while processing attacker crafted
// invalid transactions.  Secondly, it avoids repeating the expensive
// verification when the same input is validated more than once, such as every
// input of a transaction being checked by several validation passes.
//
// The cache is safe for concurrent access.
type SigCache struct {
	validSigs  lru.Cache
	maxEntries uint
}

// NewSigCache creates and initializes a new instance of SigCache.  Its sole
// parameter 'maxEntries' represents the maximum number of entries allowed to
// exist in the SigCache at any particular moment.  The least recently used
// entry is evicted to make room for new entries that would cause the number of
// entries in the cache to exceed the max.
func NewSigCache(maxEntries uint) *SigCache {
	return &SigCache{
		validSigs:  lru.NewCache(maxEntries),
		maxEntries: maxEntries,
	}
}

// Exists returns true if an existing entry of 'sig' over 'sigHash' for public
// key 'pubKey' is found within the SigCache.  Otherwise, false is returned.
func (s *SigCache) Exists(sigHash chainhash.Hash, sig, pubKey []byte) bool {
	if s.maxEntries == 0 {
		return false
	}
	return s.validSigs.Contains(sigCacheEntry{sigHash, string(sig),
		string(pubKey)})
}

// Add adds an entry for a signature over 'sigHash' under public key 'pubKey'
// to the signature cache.
func (s *SigCache) Add(sigHash chainhash.Hash, sig, pubKey []byte) {
	if s.maxEntries == 0 {
		return
	}
	s.validSigs.Add(sigCacheEntry{sigHash, string(sig), string(pubKey)})
}
