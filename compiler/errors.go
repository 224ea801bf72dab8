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

	"github.com/Fantom-foundation/Quill/common"
)

// ErrInvalidTransactionInputs is reported for transactions consuming no
// notes and carrying no script.
const ErrInvalidTransactionInputs = common.ConstError("transaction must consume at least one note or provide a script")

// AccountInterfaceNotFoundError is reported if no interface was registered
// for an account.
type AccountInterfaceNotFoundError struct {
	Account common.AccountId
}

func (e AccountInterfaceNotFoundError) Error() string {
	return fmt.Sprintf("no interface registered for account %v", e.Account)
}

// LoadAccountError is reported if the code of an account fails to compile.
type LoadAccountError struct {
	Account common.AccountId
	Err     error
}

func (e LoadAccountError) Error() string {
	return fmt.Sprintf("failed to load code of account %v: %v", e.Account, e.Err)
}

func (e LoadAccountError) Unwrap() error {
	return e.Err
}

// NoteScriptCompileError is reported if a note script fails to compile. Note
// is the index of the note within its transaction, -1 for stand-alone
// scripts.
type NoteScriptCompileError struct {
	Note int
	Err  error
}

func (e NoteScriptCompileError) Error() string {
	if e.Note < 0 {
		return fmt.Sprintf("failed to compile note script: %v", e.Err)
	}
	return fmt.Sprintf("failed to compile script of note %d: %v", e.Note, e.Err)
}

func (e NoteScriptCompileError) Unwrap() error {
	return e.Err
}

type TxScriptCompileError struct {
	Err error
}

func (e TxScriptCompileError) Error() string {
	return fmt.Sprintf("failed to compile transaction script: %v", e.Err)
}

func (e TxScriptCompileError) Unwrap() error {
	return e.Err
}

// NoteIncompatibleError is reported if the script of a note can not be
// executed against the target account interface. Note is the index of the
// note within its transaction, -1 for stand-alone scripts.
type NoteIncompatibleError struct {
	Note int
	Hash common.Digest
}

func (e NoteIncompatibleError) Error() string {
	if e.Note < 0 {
		return fmt.Sprintf("note script %v is incompatible with the target account interface", e.Hash)
	}
	return fmt.Sprintf("script %v of note %d is incompatible with the target account interface", e.Hash, e.Note)
}

type TxScriptIncompatibleError struct {
	Hash common.Digest
}

func (e TxScriptIncompatibleError) Error() string {
	return fmt.Sprintf("transaction script %v is incompatible with the target account interface", e.Hash)
}

// ProgramIncompatibleError is reported if no execution branch of a program
// only calls procedures of the target account interface.
type ProgramIncompatibleError struct {
	Hash common.Digest
}

func (e ProgramIncompatibleError) Error() string {
	return fmt.Sprintf("program %v is incompatible with the target account interface", e.Hash)
}

// TooManyBranchesError is reported when enumerating the execution branches
// of a program exceeds the given limit.
type TooManyBranchesError struct {
	Limit int
}

func (e TooManyBranchesError) Error() string {
	return fmt.Sprintf("program has more than %d execution branches", e.Limit)
}

type BuildCodeBlockTableError struct {
	Err error
}

func (e BuildCodeBlockTableError) Error() string {
	return fmt.Sprintf("failed to build code block table: %v", e.Err)
}

func (e BuildCodeBlockTableError) Unwrap() error {
	return e.Err
}
