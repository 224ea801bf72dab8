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
	"testing"

	"github.com/Fantom-foundation/Quill/program"
)

func TestContext_ProceduresAreRecordedOnce(t *testing.T) {
	ctx := NewContext()
	a := program.NewLeaf("a")
	b := program.NewLeaf("b")
	ctx.AddProcedure(a)
	ctx.AddProcedure(b)
	ctx.AddProcedure(program.NewLeaf("a"))

	procs := ctx.Procedures()
	if len(procs) != 2 || procs[0] != a || procs[1] != b {
		t.Errorf("unexpected procedures: %v", procs)
	}
}

func TestContext_CanOnlyBeFinalizedOnce(t *testing.T) {
	ctx := NewContext()
	if ctx.IsFinalized() {
		t.Errorf("new context should not be finalized")
	}
	if err := ctx.Finalize(); err != nil {
		t.Errorf("first finalization should succeed: %v", err)
	}
	if err := ctx.Finalize(); err != ErrContextFinalized {
		t.Errorf("second finalization should fail, got %v", err)
	}
}
