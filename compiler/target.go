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
	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Quill/common"
)

// NoteTarget names the interface a note script is verified against: either
// the registered interface of an account or an explicit list of procedures.
type NoteTarget struct {
	account    common.AccountId
	procedures []common.Digest
	isAccount  bool
}

// AccountTarget targets the interface registered for the given account.
func AccountTarget(id common.AccountId) NoteTarget {
	return NoteTarget{account: id, isAccount: true}
}

// ProceduresTarget targets the given procedures, bypassing the registry.
func ProceduresTarget(procedures []common.Digest) NoteTarget {
	return NoteTarget{procedures: slices.Clone(procedures)}
}

// Account returns the targeted account, if this target names one.
func (t NoteTarget) Account() (common.AccountId, bool) {
	return t.account, t.isAccount
}

func (t NoteTarget) Procedures() []common.Digest {
	return slices.Clone(t.procedures)
}
