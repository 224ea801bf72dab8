// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package smt

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Quill/common"
)

// MapEntry is a single key/value pair of a Map.
type MapEntry struct {
	Key   common.Word
	Value common.Word
}

// Map is a key/value tree over words. Its root commits to all non-empty
// entries in key order. Inserting the zero word removes an entry.
type Map struct {
	entries map[common.Word]common.Word
}

func NewMap() *Map {
	return &Map{entries: map[common.Word]common.Word{}}
}

// NewMapWithEntries creates a map holding the given entries. Duplicated keys
// are reported as an error.
func NewMapWithEntries(entries []MapEntry) (*Map, error) {
	res := NewMap()
	seen := make(map[common.Word]struct{}, len(entries))
	for _, entry := range entries {
		if _, found := seen[entry.Key]; found {
			return nil, fmt.Errorf("duplicate map key %v", entry.Key)
		}
		seen[entry.Key] = struct{}{}
		res.Insert(entry.Key, entry.Value)
	}
	return res, nil
}

// Get returns the value associated to the key or the zero word.
func (m *Map) Get(key common.Word) common.Word {
	return m.entries[key]
}

// Insert associates the value to the key and returns the previous value.
func (m *Map) Insert(key, value common.Word) common.Word {
	previous := m.entries[key]
	if value.IsZero() {
		delete(m.entries, key)
	} else {
		m.entries[key] = value
	}
	return previous
}

func (m *Map) Len() int {
	return len(m.entries)
}

// Entries lists all entries ordered by key.
func (m *Map) Entries() []MapEntry {
	keys := maps.Keys(m.entries)
	slices.SortFunc(keys, wordLess)
	res := make([]MapEntry, 0, len(keys))
	for _, key := range keys {
		res = append(res, MapEntry{key, m.entries[key]})
	}
	return res
}

// Root computes the commitment over all entries of the map.
func (m *Map) Root() common.Digest {
	entries := m.Entries()
	root, _ := ReduceHashes(len(entries), func(i int) (common.Digest, error) {
		key, value := entries[i].Key, entries[i].Value
		return common.HashElements(append(key[:], value[:]...)), nil
	})
	return root
}

func wordLess(a, b common.Word) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
