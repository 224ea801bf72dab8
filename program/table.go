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
	"github.com/Fantom-foundation/Quill/common"
)

// CodeBlockTable holds the code blocks a program may invoke by digest. Blocks
// are kept in insertion order since the order is part of the commitment of a
// program. Re-inserting a known block keeps its original position.
type CodeBlockTable struct {
	order  []common.Digest
	blocks map[common.Digest]Node
}

func NewCodeBlockTable() *CodeBlockTable {
	return &CodeBlockTable{blocks: map[common.Digest]Node{}}
}

// Insert adds the given block to the table.
func (t *CodeBlockTable) Insert(block Node) {
	hash := block.Hash()
	if _, found := t.blocks[hash]; found {
		return
	}
	t.order = append(t.order, hash)
	t.blocks[hash] = block
}

// Get looks up a block by its hash.
func (t *CodeBlockTable) Get(hash common.Digest) (Node, bool) {
	block, found := t.blocks[hash]
	return block, found
}

func (t *CodeBlockTable) Has(hash common.Digest) bool {
	_, found := t.blocks[hash]
	return found
}

func (t *CodeBlockTable) Len() int {
	return len(t.order)
}

// Blocks lists all blocks in insertion order.
func (t *CodeBlockTable) Blocks() []Node {
	res := make([]Node, 0, len(t.order))
	for _, hash := range t.order {
		res = append(res, t.blocks[hash])
	}
	return res
}

// Commitment binds the content and the order of the table.
func (t *CodeBlockTable) Commitment() common.Digest {
	data := make([]byte, 0, len(t.order)*common.WordBytes)
	for _, hash := range t.order {
		data = append(data, hash.ToBytes()...)
	}
	return common.HashBytes(data)
}
