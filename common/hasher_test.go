// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import "testing"

func TestHashBytes_IsDeterministic(t *testing.T) {
	a := HashBytes([]byte{1, 2, 3})
	b := HashBytes([]byte{1, 2, 3})
	if a != b {
		t.Errorf("hashing the same input should produce the same digest")
	}
	if a == HashBytes([]byte{1, 2, 4}) {
		t.Errorf("hashing different input should produce different digests")
	}
}

func TestHashBytes_SplitInputProducesSameDigest(t *testing.T) {
	if HashBytes([]byte{1, 2}, []byte{3}) != HashBytes([]byte{1, 2, 3}) {
		t.Errorf("hashing should only depend on the concatenated input")
	}
}

func TestHashBytes_ProducesCanonicalElements(t *testing.T) {
	for i := 0; i < 100; i++ {
		digest := HashBytes([]byte{byte(i)})
		for _, e := range digest {
			if !IsCanonical(uint64(e)) {
				t.Fatalf("digest contains non-canonical element %d", e)
			}
		}
	}
}

func TestHashElements_OrderMatters(t *testing.T) {
	a := HashElements([]Felt{1, 2})
	b := HashElements([]Felt{2, 1})
	if a == b {
		t.Errorf("element order should affect the digest")
	}
}

func TestMerge_IsNotCommutative(t *testing.T) {
	a := HashBytes([]byte{1})
	b := HashBytes([]byte{2})
	if Merge(a, b) == Merge(b, a) {
		t.Errorf("merge should depend on child order")
	}
}
