// Package duplicates finds an earlier card with the same store and last four
// digits.
//
// A match requires the store names to be equal ignoring case and the last-4
// strings to be equal exactly ("0012" never matches "12"). When several pool
// members match, the first in pool order wins. Canonical pool order puts the
// pre-existing dataset before records committed in the current session.
package duplicates

import (
	"strings"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
)

// FindDuplicate scans pool in order and returns the first record matching
// store and last4.
func FindDuplicate(store, last4 string, pool []types.PoolRecord) (types.PoolRecord, bool) {
	want := strings.ToLower(store)
	for _, r := range pool {
		if r.Last4 == last4 && strings.ToLower(r.Store) == want {
			return r, true
		}
	}
	return types.PoolRecord{}, false
}

// BuildPool concatenates existing records and session records in canonical
// order. The result is recomputed on every call and never cached.
func BuildPool(existing []types.ExistingRecord, committed []types.CommittedRecord) []types.PoolRecord {
	pool := make([]types.PoolRecord, 0, len(existing)+len(committed))
	for _, r := range existing {
		pool = append(pool, types.FromExisting(r))
	}
	for _, r := range committed {
		pool = append(pool, types.FromCommitted(r))
	}
	return pool
}

type key struct {
	store string
	last4 string
}

// Index is a multimap view over a pool that keeps only the first member per
// key, so Find agrees with FindDuplicate on the same pool.
type Index struct {
	first map[key]types.PoolRecord
}

// NewIndex builds an index over pool.
func NewIndex(pool []types.PoolRecord) *Index {
	idx := &Index{first: make(map[key]types.PoolRecord, len(pool))}
	for _, r := range pool {
		k := key{store: strings.ToLower(r.Store), last4: r.Last4}
		if _, seen := idx.first[k]; !seen {
			idx.first[k] = r
		}
	}
	return idx
}

// Find returns the first pool member matching store and last4.
func (i *Index) Find(store, last4 string) (types.PoolRecord, bool) {
	r, ok := i.first[key{store: strings.ToLower(store), last4: last4}]
	return r, ok
}

// Len returns the number of distinct keys.
func (i *Index) Len() int {
	return len(i.first)
}
