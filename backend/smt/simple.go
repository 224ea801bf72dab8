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

	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Quill/common"
)

// MaxDepth is the deepest tree supported by SimpleSmt.
const MaxDepth = 16

// Leaf is a single non-empty entry of a SimpleSmt.
type Leaf struct {
	Index uint64
	Value common.Word
}

// DuplicateLeafError is reported when a tree is initialized with two values
// for the same index.
type DuplicateLeafError struct {
	Index uint64
}

func (e DuplicateLeafError) Error() string {
	return fmt.Sprintf("duplicate leaf at index %d", e.Index)
}

// SimpleSmt is a fixed-depth sparse Merkle tree mapping small integer indices
// to words. Unset leaves hold the zero word. Inner nodes are kept in a flat
// array using heap indexing: node 1 is the root, the children of node i are
// 2i and 2i+1 and leaf j is located at (1<<depth)+j.
type SimpleSmt struct {
	depth  uint8
	leaves map[uint64]common.Word
	nodes  []common.Digest
}

// NewSimpleSmt creates an empty tree of the given depth.
func NewSimpleSmt(depth uint8) (*SimpleSmt, error) {
	if depth == 0 || depth > MaxDepth {
		return nil, fmt.Errorf("unsupported tree depth %d, must be in [1,%d]", depth, MaxDepth)
	}
	tree := &SimpleSmt{
		depth:  depth,
		leaves: map[uint64]common.Word{},
		nodes:  make([]common.Digest, 2<<depth),
	}
	// All nodes on the same level of an empty tree share the same digest.
	empty := common.Digest(common.ZeroWord)
	for level := int(depth); level >= 0; level-- {
		for i := 1 << level; i < 2<<level; i++ {
			tree.nodes[i] = empty
		}
		empty = common.Merge(empty, empty)
	}
	return tree, nil
}

// NewSimpleSmtWithLeaves creates a tree of the given depth holding the given
// leaves. Duplicated indices are reported as an error.
func NewSimpleSmtWithLeaves(depth uint8, leaves []Leaf) (*SimpleSmt, error) {
	tree, err := NewSimpleSmt(depth)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint64]struct{}, len(leaves))
	for _, leaf := range leaves {
		if _, found := seen[leaf.Index]; found {
			return nil, DuplicateLeafError{leaf.Index}
		}
		seen[leaf.Index] = struct{}{}
		if _, err := tree.Insert(leaf.Index, leaf.Value); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (t *SimpleSmt) Depth() uint8 {
	return t.depth
}

// Root returns the commitment over all leaves of the tree.
func (t *SimpleSmt) Root() common.Digest {
	return t.nodes[1]
}

// Get returns the value stored at the given index, or the zero word if the
// index was never set. Out-of-range indices yield the zero word.
func (t *SimpleSmt) Get(index uint64) common.Word {
	return t.leaves[index]
}

// Insert sets the leaf at the given index and returns its previous value.
func (t *SimpleSmt) Insert(index uint64, value common.Word) (common.Word, error) {
	if index >= 1<<t.depth {
		return common.Word{}, fmt.Errorf("index %d out of range for tree of depth %d", index, t.depth)
	}
	previous := t.leaves[index]
	if value.IsZero() {
		delete(t.leaves, index)
	} else {
		t.leaves[index] = value
	}

	pos := (1 << t.depth) + index
	t.nodes[pos] = common.Digest(value)
	for pos > 1 {
		pos /= 2
		t.nodes[pos] = common.Merge(t.nodes[2*pos], t.nodes[2*pos+1])
	}
	return previous, nil
}

// Leaves lists all non-empty leaves ordered by index.
func (t *SimpleSmt) Leaves() []Leaf {
	res := make([]Leaf, 0, len(t.leaves))
	for index, value := range t.leaves {
		res = append(res, Leaf{index, value})
	}
	slices.SortFunc(res, func(a, b Leaf) bool { return a.Index < b.Index })
	return res
}

// Clone creates an independent copy of this tree.
func (t *SimpleSmt) Clone() *SimpleSmt {
	res := &SimpleSmt{
		depth:  t.depth,
		leaves: make(map[uint64]common.Word, len(t.leaves)),
		nodes:  make([]common.Digest, len(t.nodes)),
	}
	for k, v := range t.leaves {
		res.leaves[k] = v
	}
	copy(res.nodes, t.nodes)
	return res
}
