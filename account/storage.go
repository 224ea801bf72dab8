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
	"errors"

	"github.com/Fantom-foundation/Quill/backend/smt"
	"github.com/Fantom-foundation/Quill/common"
)

const (
	// StorageTreeDepth is the depth of the tree backing the storage slots.
	StorageTreeDepth uint8 = 8

	// NumStorageSlots is the total number of storage slots.
	NumStorageSlots = 256

	// SlotLayoutCommitmentIndex is the slot holding the layout commitment.
	SlotLayoutCommitmentIndex uint8 = 255

	// MaxStorageMaps is the maximum number of auxiliary storage maps.
	MaxStorageMaps = NumStorageSlots - 1
)

// layoutCommitmentSlotType is the constant type of the reserved slot.
var layoutCommitmentSlotType = ValueSlotType(64)

// SlotItem is the initial content of a single storage slot.
type SlotItem struct {
	Index uint8
	Type  SlotType
	Value common.Word
}

// Storage consists of 256 index-addressable slots committed to by a sparse
// Merkle tree of depth 8. Each slot has a type describing its structure;
// slot 255 is reserved and holds the commitment to the types of all slots.
//
// Optionally, a storage may hold up to 255 auxiliary maps, each committed to
// by its own root.
//
// A Storage is not safe for concurrent use.
type Storage struct {
	slots  *smt.SimpleSmt
	layout []SlotType
	maps   []*smt.Map
}

// NewStorage creates a storage initialized with the given items. Slots not
// covered by an item are default value slots holding the zero word. A nil
// maps slice indicates the absence of auxiliary maps.
func NewStorage(items []SlotItem, maps []*smt.Map) (*Storage, error) {
	if len(maps) > MaxStorageMaps {
		return nil, TooManyMapsError{Max: MaxStorageMaps, Actual: len(maps)}
	}

	layout := make([]SlotType, NumStorageSlots)
	layout[SlotLayoutCommitmentIndex] = layoutCommitmentSlotType

	leaves := make([]smt.Leaf, 0, len(items)+1)
	for _, item := range items {
		if item.Index == SlotLayoutCommitmentIndex {
			return nil, SlotReservedError{item.Index}
		}
		if err := item.Type.Validate(); err != nil {
			return nil, InvalidSlotTypeError{item.Index, err}
		}
		layout[item.Index] = item.Type
		leaves = append(leaves, smt.Leaf{Index: uint64(item.Index), Value: item.Value})
	}
	leaves = append(leaves, smt.Leaf{
		Index: uint64(SlotLayoutCommitmentIndex),
		Value: computeLayoutCommitment(layout).Word(),
	})

	slots, err := smt.NewSimpleSmtWithLeaves(StorageTreeDepth, leaves)
	if err != nil {
		var dup smt.DuplicateLeafError
		if errors.As(err, &dup) {
			return nil, DuplicateStorageItemsError{uint8(dup.Index)}
		}
		return nil, err
	}

	return &Storage{slots: slots, layout: layout, maps: maps}, nil
}

// Root returns the commitment to all slots of this storage.
func (s *Storage) Root() common.Digest {
	return s.slots.Root()
}

// GetItem returns the value of the given slot, the zero word if unset.
func (s *Storage) GetItem(index uint8) common.Word {
	return s.slots.Get(uint64(index))
}

// Slots provides access to the tree backing the storage slots.
func (s *Storage) Slots() *smt.SimpleSmt {
	return s.slots
}

// Layout returns a copy of the types of all 256 slots.
func (s *Storage) Layout() []SlotType {
	return append([]SlotType(nil), s.layout...)
}

// LayoutCommitment recomputes the commitment to the storage layout. It
// always matches the value of the reserved slot.
func (s *Storage) LayoutCommitment() common.Digest {
	return computeLayoutCommitment(s.layout)
}

// Maps returns the auxiliary maps of this storage, nil if there are none.
func (s *Storage) Maps() []*smt.Map {
	return s.maps
}

// SetItem updates the value of the given slot and returns the previous
// value. Only value slots of arity 0 can be updated.
func (s *Storage) SetItem(index uint8, value common.Word) (common.Word, error) {
	if err := s.checkWritable(index); err != nil {
		return common.Word{}, err
	}
	return s.slots.Insert(uint64(index), value)
}

// ApplyDelta applies the given delta to this storage: cleared slots are reset
// to the zero word first, updates are applied afterwards. The delta is
// validated against the storage layout before any modification, so either
// all or none of its changes take effect.
func (s *Storage) ApplyDelta(delta *StorageDelta) error {
	if err := delta.Validate(s.layout); err != nil {
		return err
	}
	for _, index := range delta.Cleared {
		if _, err := s.SetItem(index, common.ZeroWord); err != nil {
			return err
		}
	}
	for _, update := range delta.Updated {
		if _, err := s.SetItem(update.Index, update.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) checkWritable(index uint8) error {
	return checkWritable(s.layout, index)
}

func checkWritable(layout []SlotType, index uint8) error {
	if index == SlotLayoutCommitmentIndex {
		return SlotReservedError{index}
	}
	slotType := layout[index]
	if slotType.Kind != ValueSlot {
		return NotValueSlotError{index, slotType}
	}
	if slotType.Arity > 0 {
		return InvalidValueArityError{Slot: index, Expected: 0, Actual: slotType.Arity}
	}
	return nil
}

func computeLayoutCommitment(layout []SlotType) common.Digest {
	elements := make([]common.Felt, len(layout))
	for i, slotType := range layout {
		elements[i] = slotType.Felt()
	}
	return common.HashElements(elements)
}
