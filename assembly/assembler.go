// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package assembly

import (
	"github.com/Fantom-foundation/Quill/common"
	"github.com/Fantom-foundation/Quill/program"
)

//go:generate mockgen -source assembler.go -destination assembler_mocks.go -package assembly

// Assembler turns source text into program trees. Implementations are
// expected to be deterministic: compiling the same source twice yields nodes
// with identical hashes.
type Assembler interface {
	// CompileModule compiles a library module and returns its exported
	// procedures in declaration order.
	CompileModule(source string) (*Module, error)

	// Compile compiles a stand-alone program.
	Compile(source string) (program.Node, error)

	// CompileInContext compiles a program while recording the procedures it
	// invokes by digest in the given context. Symbols are resolved
	// consistently across all programs compiled within the same context.
	CompileInContext(source string, ctx *Context) (program.Node, error)

	// BuildCodeBlockTable materializes the table of all code blocks recorded
	// in the given context. A context can only be materialized once.
	BuildCodeBlockTable(ctx *Context) (*program.CodeBlockTable, error)

	// Kernel returns the call table of the kernel programs are compiled
	// against.
	Kernel() program.Kernel
}

// Procedure is a named procedure exported by a module.
type Procedure struct {
	Name string
	Body program.Node
}

// Module is the result of compiling a library module.
type Module struct {
	Procedures []Procedure
}

// Digests lists the hashes of all exported procedures in declaration order.
func (m *Module) Digests() []common.Digest {
	res := make([]common.Digest, 0, len(m.Procedures))
	for _, proc := range m.Procedures {
		res = append(res, proc.Body.Hash())
	}
	return res
}
