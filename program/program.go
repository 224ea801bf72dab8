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
	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Quill/common"
)

// Kernel is the call table of the verification kernel: the digests of all
// procedures a program may invoke through kernel calls.
type Kernel struct {
	procedures []common.Digest
}

func NewKernel(procedures []common.Digest) Kernel {
	return Kernel{procedures: slices.Clone(procedures)}
}

func (k Kernel) Procedures() []common.Digest {
	return slices.Clone(k.procedures)
}

func (k Kernel) Contains(procedure common.Digest) bool {
	return slices.Contains(k.procedures, procedure)
}

func (k Kernel) IsEmpty() bool {
	return len(k.procedures) == 0
}

// Commitment is the hash over all kernel procedure digests.
func (k Kernel) Commitment() common.Digest {
	elements := make([]common.Felt, 0, len(k.procedures)*common.WordSize)
	for _, proc := range k.procedures {
		elements = append(elements, proc[:]...)
	}
	return common.HashElements(elements)
}

// Program is an executable: an entry node run against a kernel with a table
// of code blocks reachable by digest.
type Program struct {
	entry  Node
	kernel Kernel
	table  *CodeBlockTable
}

// NewProgramWithKernel wraps the given entry node with a kernel and a code
// block table.
func NewProgramWithKernel(entry Node, kernel Kernel, table *CodeBlockTable) *Program {
	if table == nil {
		table = NewCodeBlockTable()
	}
	return &Program{entry: entry, kernel: kernel, table: table}
}

func (p *Program) Entrypoint() Node {
	return p.entry
}

func (p *Program) Kernel() Kernel {
	return p.kernel
}

func (p *Program) CodeBlocks() *CodeBlockTable {
	return p.table
}

// Hash returns the hash of the entry node.
func (p *Program) Hash() common.Digest {
	return p.entry.Hash()
}

// Commitment binds the entry node, the kernel and the ordered code block
// table of this program.
func (p *Program) Commitment() common.Digest {
	return common.HashBytes(
		p.entry.Hash().ToBytes(),
		p.kernel.Commitment().ToBytes(),
		p.table.Commitment().ToBytes(),
	)
}

// Info summarizes the public identity of a program, as required for
// setting up the verification of its executions.
func (p *Program) Info() ProgramInfo {
	return ProgramInfo{ProgramHash: p.Hash(), Kernel: p.kernel}
}

// ProgramInfo identifies a program by its entry hash and kernel.
type ProgramInfo struct {
	ProgramHash common.Digest
	Kernel      Kernel
}
