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
)

// Type determines how much of a note is shared with the network.
type Type uint8

const (
	// OffChain notes only have their hash published to the network.
	OffChain Type = 0
	// Encrypted notes are shared with the network in encrypted form.
	Encrypted Type = 1
	// Public notes are fully shared with the network.
	Public Type = 2
)

// InvalidTypeError is reported for discriminants not naming a note type.
type InvalidTypeError struct {
	Value uint64
}

func (e InvalidTypeError) Error() string {
	return fmt.Sprintf("value %d is not a valid note type", e.Value)
}

// TypeFromFelt converts a field element into a note type.
func TypeFromFelt(value common.Felt) (Type, error) {
	return typeFromUint(uint64(value))
}

func typeFromUint(value uint64) (Type, error) {
	if value > uint64(Public) {
		return 0, InvalidTypeError{value}
	}
	return Type(value), nil
}

func (t Type) Felt() common.Felt {
	return common.Felt(t)
}

func (t Type) WriteTo(w *common.ByteWriter) {
	w.WriteU8(uint8(t))
}

// ReadType decodes a note type from its single byte encoding.
func ReadType(r *common.ByteReader) (Type, error) {
	value, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	return typeFromUint(uint64(value))
}

func (t Type) String() string {
	switch t {
	case OffChain:
		return "off-chain"
	case Encrypted:
		return "encrypted"
	case Public:
		return "public"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}
