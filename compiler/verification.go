// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package compiler

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Quill/common"
	"github.com/Fantom-foundation/Quill/program"
)

// MaxExecutionBranches bounds the number of branches CollectCallBranches
// enumerates. Every conditional may double the number of branches.
const MaxExecutionBranches = 1 << 12

// ExecutionBranch lists the non-kernel procedures invoked along one
// statically distinguishable path through a program.
type ExecutionBranch []common.Digest

// IsCompatible checks whether at least one execution branch of the given
// program only calls non-kernel procedures of the given interface. The check
// runs in time linear in the size of the program without enumerating its
// branches.
func IsCompatible(root program.Node, procedures []common.Digest) bool {
	compatible, _ := checkCalls(root, procedures)
	return compatible
}

// checkCalls reports whether some branch through the node is covered by the
// procedures and whether the node contains any non-kernel call.
func checkCalls(node program.Node, procedures []common.Digest) (covered bool, calls bool) {
	switch n := node.(type) {
	case *program.Sequence:
		first, firstCalls := checkCalls(n.First(), procedures)
		second, secondCalls := checkCalls(n.Second(), procedures)
		return first && second, firstCalls || secondCalls
	case *program.Loop:
		return checkCalls(n.Body(), procedures)
	case *program.Branch:
		onFalse, falseCalls := checkCalls(n.OnFalse(), procedures)
		onTrue, trueCalls := checkCalls(n.OnTrue(), procedures)
		// A false side without calls does not form an alternative of its own.
		if !falseCalls {
			return onTrue, trueCalls
		}
		return onFalse || onTrue, true
	case *program.Call:
		if n.IsKernelCall() {
			return true, false
		}
		return slices.Contains(procedures, n.Target()), true
	case *program.Leaf, *program.Opaque, *program.Dynamic:
		return true, false
	}
	panic(fmt.Sprintf("unsupported program node type %T", node))
}

// CollectCallBranches enumerates the execution branches of the given program.
// Kernel calls are not recorded. Calls within loops are recorded once, calls
// of opaque and dynamic blocks are unknown and therefore not recorded. A
// program with more than MaxExecutionBranches branches is reported as an
// error.
func CollectCallBranches(root program.Node) ([]ExecutionBranch, error) {
	c := branchCollector{branches: []ExecutionBranch{{}}}
	c.walk(root, []int{0})
	if c.exceeded {
		return nil, TooManyBranchesError{Limit: MaxExecutionBranches}
	}
	return c.branches, nil
}

type branchCollector struct {
	branches []ExecutionBranch
	exceeded bool
}

// walk records the calls of the given node on all open branches, identified
// by their position, and returns the branches open after the node.
func (c *branchCollector) walk(node program.Node, open []int) []int {
	if c.exceeded {
		return open
	}
	switch n := node.(type) {
	case *program.Sequence:
		return c.walk(n.Second(), c.walk(n.First(), open))
	case *program.Loop:
		return c.walk(n.Body(), open)
	case *program.Branch:
		return c.walkBranch(n, open)
	case *program.Call:
		if !n.IsKernelCall() {
			for _, i := range open {
				c.branches[i] = append(c.branches[i], n.Target())
			}
		}
		return open
	case *program.Leaf, *program.Opaque, *program.Dynamic:
		return open
	}
	panic(fmt.Sprintf("unsupported program node type %T", node))
}

// walkBranch walks the false side first. If it recorded any call, the true
// side is walked on fresh copies of the branches as they were before the
// conditional and both sets of branches remain open afterwards.
func (c *branchCollector) walkBranch(n *program.Branch, open []int) []int {
	numBranches := len(c.branches)
	prefixes := make([]int, len(open))
	for k, i := range open {
		prefixes[k] = len(c.branches[i])
	}

	afterFalse := c.walk(n.OnFalse(), open)

	extended := len(c.branches) > numBranches
	for k, i := range open {
		extended = extended || len(c.branches[i]) > prefixes[k]
	}
	if !extended {
		return c.walk(n.OnTrue(), afterFalse)
	}
	if len(c.branches)+len(open) > MaxExecutionBranches {
		c.exceeded = true
		return afterFalse
	}

	forks := make([]int, len(open))
	for k, i := range open {
		forks[k] = len(c.branches)
		c.branches = append(c.branches, slices.Clone(c.branches[i][:prefixes[k]]))
	}
	afterTrue := c.walk(n.OnTrue(), forks)
	return append(slices.Clone(afterFalse), afterTrue...)
}
