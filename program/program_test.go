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

func TestCodeBlockTable_KeepsInsertionOrder(t *testing.T) {
	a := NewLeaf("a")
	b := NewLeaf("b")
	c := NewLeaf("c")

	table := NewCodeBlockTable()
	table.Insert(c)
	table.Insert(a)
	table.Insert(b)
	table.Insert(c)

	blocks := table.Blocks()
	if len(blocks) != 3 || table.Len() != 3 {
		t.Fatalf("unexpected number of blocks: %d", len(blocks))
	}
	if blocks[0] != c || blocks[1] != a || blocks[2] != b {
		t.Errorf("blocks are not in insertion order")
	}
	if got, found := table.Get(a.Hash()); !found || got != a {
		t.Errorf("failed to look up block")
	}
	if table.Has(NewLeaf("d").Hash()) {
		t.Errorf("unknown block should not be found")
	}
}

func TestCodeBlockTable_OrderAffectsCommitment(t *testing.T) {
	a := NewLeaf("a")
	b := NewLeaf("b")

	ab := NewCodeBlockTable()
	ab.Insert(a)
	ab.Insert(b)

	ba := NewCodeBlockTable()
	ba.Insert(b)
	ba.Insert(a)

	if ab.Commitment() == ba.Commitment() {
		t.Errorf("block order should be part of the commitment")
	}
}

func TestKernel_ContainsRegisteredProcedures(t *testing.T) {
	p1 := common.HashBytes([]byte("p1"))
	p2 := common.HashBytes([]byte("p2"))
	procs := []common.Digest{p1}
	kernel := NewKernel(procs)
	procs[0] = p2
	if !kernel.Contains(p1) || kernel.Contains(p2) {
		t.Errorf("kernel should hold a copy of the procedures")
	}
	if kernel.IsEmpty() || !NewKernel(nil).IsEmpty() {
		t.Errorf("unexpected emptiness")
	}
}

func TestProgram_InfoAndCommitment(t *testing.T) {
	entry := NewLeaf("main")
	kernel := NewKernel([]common.Digest{common.HashBytes([]byte("k"))})

	table1 := NewCodeBlockTable()
	table1.Insert(NewLeaf("a"))
	table2 := NewCodeBlockTable()
	table2.Insert(NewLeaf("b"))

	p1 := NewProgramWithKernel(entry, kernel, table1)
	p2 := NewProgramWithKernel(entry, kernel, table2)

	if p1.Hash() != entry.Hash() || p1.Info().ProgramHash != entry.Hash() {
		t.Errorf("program hash should be the entry hash")
	}
	if p1.Hash() != p2.Hash() {
		t.Errorf("program hash should not depend on the table")
	}
	if p1.Commitment() == p2.Commitment() {
		t.Errorf("program commitment should depend on the table")
	}
	if p1.Entrypoint() != entry || p1.CodeBlocks() != table1 {
		t.Errorf("unexpected accessors")
	}
	if NewProgramWithKernel(entry, kernel, nil).CodeBlocks() == nil {
		t.Errorf("missing tables should be replaced by empty tables")
	}
}
