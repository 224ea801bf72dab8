// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package program defines the block-structured representation of executable
// programs. Every node carries a content hash computed once at construction;
// two nodes with the same hash are considered identical.
package program

import (
	"encoding/binary"

	"github.com/Fantom-foundation/Quill/common"
)

// Node is a node of a program tree. The set of node kinds is closed; the
// implementations are Sequence, Branch, Loop, Call, Leaf, Opaque and Dynamic.
type Node interface {
	// Hash returns the content hash of the node.
	Hash() common.Digest

	// isNode restricts implementations to this package.
	isNode()
}

// Domain separation tags for node hashes.
const (
	sequenceTag byte = iota + 1
	branchTag
	loopTag
	callTag
	leafTag
	dynamicTag
)

// Sequence executes first, then second.
type Sequence struct {
	first, second Node
	hash          common.Digest
	partial       bool
}

func NewSequence(first, second Node) *Sequence {
	return &Sequence{
		first:   first,
		second:  second,
		hash:    common.HashBytes([]byte{sequenceTag}, first.Hash().ToBytes(), second.Hash().ToBytes()),
		partial: IsPartial(first) || IsPartial(second),
	}
}

func (n *Sequence) First() Node { return n.first }
func (n *Sequence) Second() Node { return n.second }
func (n *Sequence) Hash() common.Digest { return n.hash }
func (*Sequence) isNode() {}

// Branch executes either onTrue or onFalse depending on a runtime condition.
type Branch struct {
	onFalse, onTrue Node
	hash            common.Digest
	partial         bool
}

func NewBranch(onFalse, onTrue Node) *Branch {
	return &Branch{
		onFalse: onFalse,
		onTrue:  onTrue,
		hash:    common.HashBytes([]byte{branchTag}, onFalse.Hash().ToBytes(), onTrue.Hash().ToBytes()),
		partial: IsPartial(onFalse) || IsPartial(onTrue),
	}
}

func (n *Branch) OnFalse() Node { return n.onFalse }
func (n *Branch) OnTrue() Node { return n.onTrue }
func (n *Branch) Hash() common.Digest { return n.hash }
func (*Branch) isNode() {}

// Loop executes its body while a runtime condition holds.
type Loop struct {
	body    Node
	hash    common.Digest
	partial bool
}

func NewLoop(body Node) *Loop {
	return &Loop{
		body:    body,
		hash:    common.HashBytes([]byte{loopTag}, body.Hash().ToBytes()),
		partial: IsPartial(body),
	}
}

func (n *Loop) Body() Node { return n.body }
func (n *Loop) Hash() common.Digest { return n.hash }
func (*Loop) isNode() {}

// Call invokes the procedure with the given digest. Kernel calls target
// procedures of the verification kernel.
type Call struct {
	target common.Digest
	kernel bool
	hash   common.Digest
}

func NewCall(target common.Digest) *Call {
	return newCall(target, false)
}

func NewKernelCall(target common.Digest) *Call {
	return newCall(target, true)
}

func newCall(target common.Digest, kernel bool) *Call {
	flag := byte(0)
	if kernel {
		flag = 1
	}
	return &Call{
		target: target,
		kernel: kernel,
		hash:   common.HashBytes([]byte{callTag, flag}, target.ToBytes()),
	}
}

func (n *Call) Target() common.Digest { return n.target }
func (n *Call) IsKernelCall() bool { return n.kernel }
func (n *Call) Hash() common.Digest { return n.hash }
func (*Call) isNode() {}

// Operation is a single straight-line instruction. The instruction set is
// opaque to this package; operations only contribute to leaf hashes.
type Operation string

// Noop is an operation without any effect.
const Noop Operation = "noop"

// Leaf is a straight-line sequence of operations without any calls.
type Leaf struct {
	ops  []Operation
	hash common.Digest
}

func NewLeaf(ops ...Operation) *Leaf {
	data := []byte{leafTag}
	for _, op := range ops {
		data = binary.LittleEndian.AppendUint32(data, uint32(len(op)))
		data = append(data, op...)
	}
	return &Leaf{
		ops:  append([]Operation(nil), ops...),
		hash: common.HashBytes(data),
	}
}

func (n *Leaf) Operations() []Operation { return n.ops }
func (n *Leaf) Hash() common.Digest { return n.hash }
func (*Leaf) isNode() {}

// Opaque stands in for a subtree known only by its hash.
type Opaque struct {
	hash common.Digest
}

func NewOpaque(hash common.Digest) *Opaque {
	return &Opaque{hash: hash}
}

func (n *Opaque) Hash() common.Digest { return n.hash }
func (*Opaque) isNode() {}

// IsPartial is true if the given tree contains an Opaque node. The hash of a
// partial tree equals the hash of the complete tree it stands for, so it does
// not identify the calls made by the tree.
func IsPartial(node Node) bool {
	switch n := node.(type) {
	case *Sequence:
		return n.partial
	case *Branch:
		return n.partial
	case *Loop:
		return n.partial
	case *Opaque:
		return true
	}
	return false
}

// Dynamic invokes a procedure whose digest is only known at runtime.
type Dynamic struct{}

var dynamicHash = common.HashBytes([]byte{dynamicTag})

func NewDynamic() *Dynamic {
	return &Dynamic{}
}

func (*Dynamic) Hash() common.Digest { return dynamicHash }
func (*Dynamic) isNode() {}
