// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"sync"

	"github.com/kaspanet/kaspa-tx-sdk/domain/consensus/model/externalapi"
)

// sigCacheKey identifies one (message, pubkey, signature) verification
// result.
type sigCacheKey struct {
	hash      externalapi.DomainHash
	pubKey    string
	signature string
}

// SigCache memoizes signature verification results so repeated checks of
// the same (message, pubkey, signature) triple skip the curve operation.
// A client's verification workload is its own transactions rather than a
// full node's mempool, so the map is unbounded rather than
// capacity-bounded with eviction.
//
// A SigCache is safe for concurrent use; the Engine holding it is not.
type SigCache struct {
	mtx     sync.RWMutex
	entries map[sigCacheKey]bool
}

// NewSigCache creates and initializes a new instance of SigCache.
func NewSigCache() *SigCache {
	return &SigCache{entries: make(map[sigCacheKey]bool)}
}

// Exists returns whether a signature was previously added to the cache.
func (s *SigCache) Exists(hash externalapi.DomainHash, pubKey, signature []byte) bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	_, found := s.entries[sigCacheKey{hash: hash, pubKey: string(pubKey), signature: string(signature)}]
	return found
}

// Add adds an entry for a given (sig, pubkey, message hash) to the cache. The
// signature is assumed to be valid; SigCache never stores negative results.
func (s *SigCache) Add(hash externalapi.DomainHash, pubKey, signature []byte) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.entries[sigCacheKey{hash: hash, pubKey: string(pubKey), signature: string(signature)}] = true
}
