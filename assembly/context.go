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

const (
	ErrNilContext       = common.ConstError("no assembly context provided")
	ErrContextFinalized = common.ConstError("assembly context was already materialized")
)

// Context collects the procedures invoked by digest from the programs of a
// single compilation session, e.g. all note scripts and the script of one
// transaction. Contexts are not safe for concurrent use.
type Context struct {
	procedures []program.Node
	known      map[common.Digest]struct{}
	finalized  bool
}

func NewContext() *Context {
	return &Context{known: map[common.Digest]struct{}{}}
}

// AddProcedure records a procedure body. Procedures already known to the
// context are ignored.
func (c *Context) AddProcedure(body program.Node) {
	hash := body.Hash()
	if _, found := c.known[hash]; found {
		return
	}
	c.known[hash] = struct{}{}
	c.procedures = append(c.procedures, body)
}

// Procedures lists the recorded procedures in the order they were added.
func (c *Context) Procedures() []program.Node {
	return append([]program.Node(nil), c.procedures...)
}

func (c *Context) IsFinalized() bool {
	return c.finalized
}

// Finalize marks the context as materialized. It fails if the context was
// finalized before.
func (c *Context) Finalize() error {
	if c.finalized {
		return ErrContextFinalized
	}
	c.finalized = true
	return nil
}
