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
	"testing"

	"github.com/Fantom-foundation/Quill/common"
)

func TestMap_EmptyMapHasZeroRoot(t *testing.T) {
	if root := NewMap().Root(); root != (common.Digest{}) {
		t.Errorf("empty map should have zero root, got %v", root)
	}
}

func TestMap_InsertAndGet(t *testing.T) {
	m := NewMap()
	key := common.Word{1}
	if prev := m.Insert(key, common.Word{2}); !prev.IsZero() {
		t.Errorf("first insert should return zero, got %v", prev)
	}
	if prev := m.Insert(key, common.Word{3}); prev != (common.Word{2}) {
		t.Errorf("unexpected previous value %v", prev)
	}
	if got := m.Get(key); got != (common.Word{3}) {
		t.Errorf("unexpected value %v", got)
	}
	m.Insert(key, common.ZeroWord)
	if m.Len() != 0 {
		t.Errorf("inserting zero should remove the entry")
	}
}

func TestMap_RootIsIndependentOfInsertionOrder(t *testing.T) {
	a := NewMap()
	b := NewMap()
	for i := 1; i <= 5; i++ {
		a.Insert(common.Word{common.Felt(i)}, common.Word{common.Felt(10 * i)})
		b.Insert(common.Word{common.Felt(6 - i)}, common.Word{common.Felt(10 * (6 - i))})
	}
	if a.Root() != b.Root() {
		t.Errorf("roots should match")
	}
	entries := a.Entries()
	for i := 1; i < len(entries); i++ {
		if !wordLess(entries[i-1].Key, entries[i].Key) {
			t.Errorf("entries are not sorted: %v", entries)
		}
	}
}

func TestMap_DuplicateEntriesAreRejected(t *testing.T) {
	_, err := NewMapWithEntries([]MapEntry{
		{common.Word{1}, common.Word{1}},
		{common.Word{1}, common.Word{2}},
	})
	if err == nil {
		t.Errorf("duplicate keys should be rejected")
	}
}

func TestMap_DuplicateKeysWithZeroValueAreRejected(t *testing.T) {
	tests := map[string][]MapEntry{
		"zero first":  {{common.Word{1}, common.Word{}}, {common.Word{1}, common.Word{2}}},
		"zero second": {{common.Word{1}, common.Word{2}}, {common.Word{1}, common.Word{}}},
		"both zero":   {{common.Word{1}, common.Word{}}, {common.Word{1}, common.Word{}}},
	}
	for name, entries := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewMapWithEntries(entries); err == nil {
				t.Errorf("duplicate keys should be rejected")
			}
		})
	}
}

func TestMap_EntriesAreOrderedByKey(t *testing.T) {
	m := NewMap()
	keys := []common.Word{{3}, {1, 5}, {1, 2}, {0, 0, 0, 9}}
	for _, key := range keys {
		m.Insert(key, common.Word{1})
	}
	entries := m.Entries()
	want := []common.Word{{0, 0, 0, 9}, {1, 2}, {1, 5}, {3}}
	if len(entries) != len(want) {
		t.Fatalf("unexpected number of entries, wanted %d, got %d", len(want), len(entries))
	}
	for i, entry := range entries {
		if entry.Key != want[i] {
			t.Errorf("unexpected key at position %d, wanted %v, got %v", i, want[i], entry.Key)
		}
	}
}
