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

	"github.com/Fantom-foundation/Quill/common"
)

// SlotKind distinguishes the structure of a storage slot.
type SlotKind uint8

const (
	ValueSlot SlotKind = iota
	MapSlot
	ArraySlot
)

// Bounds of the depth of array slots.
const (
	MinArrayDepth = 2
	MaxArrayDepth = 64
)

// SlotType describes the size and structure of a storage slot:
//   - Value: a sequence of up to 256 words,
//   - Array: a sparse array of up to 2^depth values, each up to 256 words,
//   - Map: a key/value map with values of up to 256 words.
//
// The arity is the log2 of the number of words per value. The zero value of
// SlotType is the default type, a value slot of arity 0.
type SlotType struct {
	Kind  SlotKind
	Depth uint8 // only used by array slots
	Arity uint8
}

func ValueSlotType(arity uint8) SlotType {
	return SlotType{Kind: ValueSlot, Arity: arity}
}

func MapSlotType(arity uint8) SlotType {
	return SlotType{Kind: MapSlot, Arity: arity}
}

func ArraySlotType(depth, arity uint8) SlotType {
	return SlotType{Kind: ArraySlot, Depth: depth, Arity: arity}
}

// IsDefault is true for value slots of arity 0.
func (t SlotType) IsDefault() bool {
	return t == SlotType{}
}

// Validate checks that the type can be encoded.
func (t SlotType) Validate() error {
	switch t.Kind {
	case ValueSlot, MapSlot:
		if t.Depth != 0 {
			return fmt.Errorf("%v slots must not have a depth, got %d", t.Kind, t.Depth)
		}
	case ArraySlot:
		if t.Depth < MinArrayDepth || t.Depth > MaxArrayDepth {
			return fmt.Errorf("array depth must be in [%d,%d], got %d", MinArrayDepth, MaxArrayDepth, t.Depth)
		}
	default:
		return fmt.Errorf("unknown slot kind %d", t.Kind)
	}
	return nil
}

// Encode packs the type into 16 bits: the low byte holds the tag (0 for
// values, 1 for maps, the depth for arrays), the high byte the arity.
func (t SlotType) Encode() uint16 {
	tag := uint16(0)
	switch t.Kind {
	case MapSlot:
		tag = 1
	case ArraySlot:
		tag = uint16(t.Depth)
	}
	return uint16(t.Arity)<<8 | tag
}

// DecodeSlotType is the inverse of Encode.
func DecodeSlotType(value uint16) (SlotType, error) {
	tag, arity := uint8(value), uint8(value>>8)
	switch {
	case tag == 0:
		return ValueSlotType(arity), nil
	case tag == 1:
		return MapSlotType(arity), nil
	case tag >= MinArrayDepth && tag <= MaxArrayDepth:
		return ArraySlotType(tag, arity), nil
	}
	return SlotType{}, fmt.Errorf("value %d is not a valid slot type", value)
}

// Felt is the field element the type contributes to the layout commitment.
func (t SlotType) Felt() common.Felt {
	return common.Felt(t.Encode())
}

func (t SlotType) String() string {
	switch t.Kind {
	case ValueSlot:
		return fmt.Sprintf("Value{arity: %d}", t.Arity)
	case MapSlot:
		return fmt.Sprintf("Map{arity: %d}", t.Arity)
	case ArraySlot:
		return fmt.Sprintf("Array{depth: %d, arity: %d}", t.Depth, t.Arity)
	}
	return fmt.Sprintf("Unknown{kind: %d}", t.Kind)
}

func (k SlotKind) String() string {
	switch k {
	case ValueSlot:
		return "value"
	case MapSlot:
		return "map"
	case ArraySlot:
		return "array"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}
