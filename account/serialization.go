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

	"github.com/Fantom-foundation/Quill/backend/smt"
	"github.com/Fantom-foundation/Quill/common"
)

// The encoding of a storage is:
//
//	u8 C, C x (u8 index, u16 slot type)     non-default types of slots 0-254
//	u8 F, F x (u8 index, word)              non-zero values of slots 0-254
//	[u8 M, M x (u32 N, N x (word, word))]   auxiliary maps, only if present
//
// The type and the value of the reserved slot 255 are implied and never
// encoded. Integers are little-endian, words are four little-endian u64.

// ToBytes produces the binary encoding of this storage.
func (s *Storage) ToBytes() []byte {
	w := common.ByteWriter{}
	s.WriteTo(&w)
	return w.Bytes()
}

// WriteTo appends the binary encoding of this storage to the given writer.
func (s *Storage) WriteTo(w *common.ByteWriter) {
	// Default types are skipped since any slot without an encoded type is
	// assumed to be a default slot.
	var complexTypes []uint8
	for i, slotType := range s.layout[:SlotLayoutCommitmentIndex] {
		if !slotType.IsDefault() {
			complexTypes = append(complexTypes, uint8(i))
		}
	}
	w.WriteU8(uint8(len(complexTypes)))
	for _, index := range complexTypes {
		w.WriteU8(index)
		w.WriteU16(s.layout[index].Encode())
	}

	var filled []smt.Leaf
	for _, leaf := range s.slots.Leaves() {
		if leaf.Index != uint64(SlotLayoutCommitmentIndex) {
			filled = append(filled, leaf)
		}
	}
	w.WriteU8(uint8(len(filled)))
	for _, leaf := range filled {
		w.WriteU8(uint8(leaf.Index))
		w.WriteWord(leaf.Value)
	}

	if s.maps == nil {
		return
	}
	w.WriteU8(uint8(len(s.maps)))
	for _, m := range s.maps {
		entries := m.Entries()
		w.WriteU32(uint32(len(entries)))
		for _, entry := range entries {
			w.WriteWord(entry.Key)
			w.WriteWord(entry.Value)
		}
	}
}

// StorageFromBytes decodes a storage from its binary encoding. The input
// must be consumed completely.
func StorageFromBytes(data []byte) (*Storage, error) {
	return ReadStorage(common.NewByteReader(data))
}

// ReadStorage decodes a storage from the given reader. Since the map section
// is optional, all remaining input is interpreted as part of the storage.
func ReadStorage(r *common.ByteReader) (*Storage, error) {
	numComplexTypes, err := r.ReadU8()
	if err != nil {
		return nil, DeserializationError{Msg: "missing number of slot types", Err: err}
	}
	complexTypes := make(map[uint8]SlotType, numComplexTypes)
	typeOrder := make([]uint8, 0, numComplexTypes)
	for i := 0; i < int(numComplexTypes); i++ {
		index, err := r.ReadU8()
		if err != nil {
			return nil, DeserializationError{Msg: "missing slot type index", Err: err}
		}
		encoded, err := r.ReadU16()
		if err != nil {
			return nil, DeserializationError{Msg: "missing slot type", Err: err}
		}
		if index == SlotLayoutCommitmentIndex {
			return nil, DeserializationError{Msg: fmt.Sprintf("value %d is not a valid slot type index", index)}
		}
		if _, found := complexTypes[index]; found {
			return nil, DeserializationError{Msg: fmt.Sprintf("value %d is a duplicated slot type index", index)}
		}
		slotType, err := DecodeSlotType(encoded)
		if err != nil {
			return nil, DeserializationError{Msg: err.Error()}
		}
		complexTypes[index] = slotType
		typeOrder = append(typeOrder, index)
	}

	numFilledSlots, err := r.ReadU8()
	if err != nil {
		return nil, DeserializationError{Msg: "missing number of slot values", Err: err}
	}
	items := make([]SlotItem, 0, int(numFilledSlots)+len(complexTypes))
	for i := 0; i < int(numFilledSlots); i++ {
		index, err := r.ReadU8()
		if err != nil {
			return nil, DeserializationError{Msg: "missing slot index", Err: err}
		}
		value, err := r.ReadWord()
		if err != nil {
			return nil, DeserializationError{Msg: fmt.Sprintf("invalid value of slot %d", index), Err: err}
		}
		slotType, found := complexTypes[index]
		if found {
			delete(complexTypes, index)
		}
		items = append(items, SlotItem{Index: index, Type: slotType, Value: value})
	}
	// Slots with a non-default type but without a value keep their type.
	for _, index := range typeOrder {
		if slotType, found := complexTypes[index]; found {
			items = append(items, SlotItem{Index: index, Type: slotType})
		}
	}

	var maps []*smt.Map
	if r.Remaining() > 0 {
		if maps, err = readMaps(r); err != nil {
			return nil, err
		}
	}
	if r.Remaining() > 0 {
		return nil, DeserializationError{Msg: fmt.Sprintf("value %d is not a valid number of trailing bytes", r.Remaining())}
	}

	storage, err := NewStorage(items, maps)
	if err != nil {
		return nil, DeserializationError{Msg: "invalid storage content", Err: err}
	}
	return storage, nil
}

func readMaps(r *common.ByteReader) ([]*smt.Map, error) {
	numMaps, err := r.ReadU8()
	if err != nil {
		return nil, DeserializationError{Msg: "missing number of maps", Err: err}
	}
	maps := make([]*smt.Map, 0, numMaps)
	for i := 0; i < int(numMaps); i++ {
		numEntries, err := r.ReadU32()
		if err != nil {
			return nil, DeserializationError{Msg: fmt.Sprintf("missing size of map %d", i), Err: err}
		}
		// Every entry occupies two words; this bounds allocations for
		// corrupted size fields.
		if uint64(numEntries)*2*common.WordBytes > uint64(r.Remaining()) {
			return nil, DeserializationError{Msg: fmt.Sprintf("value %d is not a valid size of map %d", numEntries, i)}
		}
		entries := make([]smt.MapEntry, 0, numEntries)
		for j := uint32(0); j < numEntries; j++ {
			key, err := r.ReadWord()
			if err != nil {
				return nil, DeserializationError{Msg: fmt.Sprintf("invalid key in map %d", i), Err: err}
			}
			value, err := r.ReadWord()
			if err != nil {
				return nil, DeserializationError{Msg: fmt.Sprintf("invalid value in map %d", i), Err: err}
			}
			entries = append(entries, smt.MapEntry{Key: key, Value: value})
		}
		m, err := smt.NewMapWithEntries(entries)
		if err != nil {
			return nil, DeserializationError{Msg: fmt.Sprintf("invalid map %d", i), Err: err}
		}
		maps = append(maps, m)
	}
	return maps, nil
}
