// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package note

import (
	"fmt"

	"github.com/Fantom-foundation/Quill/common"
	"github.com/Fantom-foundation/Quill/program"
)

// MaxInputs is the maximum number of inputs a note script may receive.
const MaxInputs = 16

// ProgramCompiler compiles stand-alone programs.
type ProgramCompiler interface {
	Compile(source string) (program.Node, error)
}

// Script is the program executed when a note is consumed. It is identified
// by the hash of its compiled program.
type Script struct {
	source string
	hash   common.Digest
}

// NewScript compiles the given source into a note script. Besides the script
// the compiled program is returned.
func NewScript(source string, compiler ProgramCompiler) (*Script, program.Node, error) {
	code, err := compiler.Compile(source)
	if err != nil {
		return nil, nil, err
	}
	return &Script{source: source, hash: code.Hash()}, code, nil
}

func (s *Script) Source() string {
	return s.source
}

func (s *Script) Hash() common.Digest {
	return s.hash
}

// Note is a programmable asset carrier consumed by transactions. Consuming a
// note executes its script against the consuming account.
type Note struct {
	script    *Script
	inputs    []common.Felt
	serialNum common.Word
	sender    common.AccountId
	noteType  Type
}

func NewNote(script *Script, inputs []common.Felt, serialNum common.Word, sender common.AccountId, noteType Type) (*Note, error) {
	if script == nil {
		return nil, fmt.Errorf("note requires a script")
	}
	if len(inputs) > MaxInputs {
		return nil, fmt.Errorf("too many note inputs: at most %d are supported, got %d", MaxInputs, len(inputs))
	}
	return &Note{
		script:    script,
		inputs:    append([]common.Felt(nil), inputs...),
		serialNum: serialNum,
		sender:    sender,
		noteType:  noteType,
	}, nil
}

func (n *Note) Script() *Script {
	return n.script
}

func (n *Note) Inputs() []common.Felt {
	return append([]common.Felt(nil), n.inputs...)
}

func (n *Note) SerialNum() common.Word {
	return n.serialNum
}

func (n *Note) Sender() common.AccountId {
	return n.sender
}

func (n *Note) Type() Type {
	return n.noteType
}

// Recipient commits to everything needed to consume the note: its serial
// number, its script and its inputs.
func (n *Note) Recipient() common.Digest {
	serial := common.HashElements(append(n.serialNum[:], common.ZeroWord[:]...))
	return common.Merge(common.Merge(serial, n.script.hash), common.HashElements(n.inputs))
}

// Metadata packs the sender and the type of the note into a word.
func (n *Note) Metadata() common.Word {
	return common.Word{common.NewFelt(uint64(n.sender)), n.noteType.Felt(), 0, 0}
}

// Hash identifies the note by its recipient and its metadata.
func (n *Note) Hash() common.Digest {
	return common.Merge(n.Recipient(), common.Digest(n.Metadata()))
}
