// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package program

import (
	"testing"

	"github.com/Fantom-foundation/Quill/common"
)

func TestNode_HashesAreStructural(t *testing.T) {
	a := NewLeaf("push.1", "drop")
	b := NewLeaf("push.1", "drop")
	if a.Hash() != b.Hash() {
		t.Errorf("equal leaves should have equal hashes")
	}
	if NewSequence(a, NewLeaf("add")).Hash() != NewSequence(b, NewLeaf("add")).Hash() {
		t.Errorf("equal sequences should have equal hashes")
	}
}

func TestNode_HashesDistinguishNodeKinds(t *testing.T) {
	x := NewLeaf("x")
	y := NewLeaf("y")
	target := common.HashBytes([]byte("proc"))

	nodes := []Node{
		x,
		NewSequence(x, y),
		NewSequence(y, x),
		NewBranch(x, y),
		NewBranch(y, x),
		NewLoop(x),
		NewCall(target),
		NewKernelCall(target),
		NewDynamic(),
		NewOpaque(common.HashBytes([]byte("opaque"))),
	}
	seen := map[common.Digest]int{}
	for i, node := range nodes {
		if j, found := seen[node.Hash()]; found {
			t.Errorf("nodes %d and %d have the same hash", j, i)
		}
		seen[node.Hash()] = i
	}
}

func TestNode_LeafOperationBoundariesAffectHash(t *testing.T) {
	if NewLeaf("ab", "c").Hash() == NewLeaf("a", "bc").Hash() {
		t.Errorf("operation boundaries should be part of the hash")
	}
}

func TestNode_OpaqueKeepsGivenHash(t *testing.T) {
	hash := common.HashBytes([]byte("subtree"))
	if NewOpaque(hash).Hash() != hash {
		t.Errorf("opaque nodes should report the given hash")
	}
}

func TestNode_AccessorsReturnChildren(t *testing.T) {
	x := NewLeaf("x")
	y := NewLeaf("y")
	target := common.HashBytes([]byte("proc"))

	seq := NewSequence(x, y)
	if seq.First() != x || seq.Second() != y {
		t.Errorf("unexpected sequence children")
	}
	branch := NewBranch(x, y)
	if branch.OnFalse() != x || branch.OnTrue() != y {
		t.Errorf("unexpected branch children")
	}
	if NewLoop(x).Body() != x {
		t.Errorf("unexpected loop body")
	}
	call := NewKernelCall(target)
	if call.Target() != target || !call.IsKernelCall() {
		t.Errorf("unexpected call properties")
	}
	if NewCall(target).IsKernelCall() {
		t.Errorf("regular call should not be a kernel call")
	}
}

func TestNode_PartialTreesContainOpaqueNodes(t *testing.T) {
	leaf := NewLeaf("a")
	opaque := NewOpaque(leaf.Hash())
	tests := map[string]struct {
		node Node
		want bool
	}{
		"leaf":              {leaf, false},
		"call":              {NewCall(leaf.Hash()), false},
		"dynamic":           {NewDynamic(), false},
		"opaque":            {opaque, true},
		"complete sequence": {NewSequence(leaf, leaf), false},
		"sequence":          {NewSequence(leaf, opaque), true},
		"branch":            {NewBranch(opaque, leaf), true},
		"loop":              {NewLoop(opaque), true},
		"nested":            {NewLoop(NewBranch(leaf, NewSequence(opaque, leaf))), true},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := IsPartial(test.node); got != test.want {
				t.Errorf("unexpected result, wanted %t, got %t", test.want, got)
			}
		})
	}
}
