// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package account

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Quill/assembly"
	"github.com/Fantom-foundation/Quill/common"
)

// MaxProcedures is the maximum number of procedures an account may export.
const MaxProcedures = 256

// ModuleCompiler compiles account code modules.
type ModuleCompiler interface {
	CompileModule(source string) (*assembly.Module, error)
}

// Code is the compiled code of an account: the digests of the procedures it
// exports, in declaration order. The procedures define the interface of the
// account.
type Code struct {
	source     string
	procedures []common.Digest
	root       common.Digest
}

// NewCode compiles the given module source into account code.
func NewCode(source string, compiler ModuleCompiler) (*Code, error) {
	module, err := compiler.CompileModule(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile account code: %w", err)
	}
	procedures := module.Digests()
	if len(procedures) == 0 {
		return nil, ErrNoProcedures
	}
	if len(procedures) > MaxProcedures {
		return nil, fmt.Errorf("account code exports %d procedures, at most %d are supported", len(procedures), MaxProcedures)
	}
	return &Code{
		source:     source,
		procedures: procedures,
		root:       computeCodeRoot(procedures),
	}, nil
}

func (c *Code) Source() string {
	return c.source
}

// Procedures returns a copy of the digests of the exported procedures.
func (c *Code) Procedures() []common.Digest {
	return slices.Clone(c.procedures)
}

// Root is the commitment to the exported procedures.
func (c *Code) Root() common.Digest {
	return c.root
}

func (c *Code) HasProcedure(procedure common.Digest) bool {
	return slices.Contains(c.procedures, procedure)
}

func computeCodeRoot(procedures []common.Digest) common.Digest {
	elements := make([]common.Felt, 0, len(procedures)*common.WordSize)
	for _, proc := range procedures {
		elements = append(elements, proc[:]...)
	}
	return common.HashElements(elements)
}
