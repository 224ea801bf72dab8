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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Fantom-foundation/Quill/backend/smt"
	"github.com/Fantom-foundation/Quill/common"
)

func TestStorageSerialization_EmptyStorage(t *testing.T) {
	storage := newTestStorage(t, nil)
	data := storage.ToBytes()
	if !bytes.Equal(data, []byte{0, 0}) {
		t.Fatalf("unexpected encoding of empty storage: %x", data)
	}
	restored, err := StorageFromBytes(data)
	if err != nil {
		t.Fatalf("failed to decode storage: %v", err)
	}
	if restored.Root() != storage.Root() {
		t.Errorf("decoded storage has different root")
	}
}

func TestStorageSerialization_EncodingLayout(t *testing.T) {
	storage := newTestStorage(t, []SlotItem{
		{0, ValueSlotType(0), common.Word{1, 2, 3, 4}},
		{2, MapSlotType(1), common.ZeroWord},
	})
	w := common.ByteWriter{}
	w.WriteU8(1)      // number of non-default types
	w.WriteU8(2)      // slot index
	w.WriteU16(0x101) // map of arity 1
	w.WriteU8(1)      // number of filled slots
	w.WriteU8(0)      // slot index
	w.WriteWord(common.Word{1, 2, 3, 4})

	if got, want := storage.ToBytes(), w.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("unexpected encoding\nwanted %x\n   got %x", want, got)
	}
}

func TestStorageSerialization_RoundTrip(t *testing.T) {
	tests := map[string][]SlotItem{
		"default values": {
			{0, ValueSlotType(0), wordA},
			{2, ValueSlotType(0), wordB},
		},
		"mixed types": {
			{0, ValueSlotType(0), wordA},
			{1, MapSlotType(0), wordB},
			{2, ArraySlotType(64, 3), wordC},
			{254, ValueSlotType(7), wordD},
		},
		"complex type without value": {
			{5, MapSlotType(0), common.ZeroWord},
			{6, ArraySlotType(2, 0), wordA},
		},
	}
	for name, items := range tests {
		t.Run(name, func(t *testing.T) {
			storage := newTestStorage(t, items)
			restored, err := StorageFromBytes(storage.ToBytes())
			if err != nil {
				t.Fatalf("failed to decode storage: %v", err)
			}
			if restored.Root() != storage.Root() {
				t.Errorf("decoded storage has different root")
			}
			got, want := restored.Layout(), storage.Layout()
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("unexpected type of slot %d, wanted %v, got %v", i, want[i], got[i])
				}
			}
			if !bytes.Equal(restored.ToBytes(), storage.ToBytes()) {
				t.Errorf("encoding is not stable")
			}
		})
	}
}

func TestStorageSerialization_MapsRoundTrip(t *testing.T) {
	first := smt.NewMap()
	first.Insert(wordA, wordB)
	first.Insert(wordC, wordD)
	second := smt.NewMap()

	storage, err := NewStorage([]SlotItem{{0, MapSlotType(0), first.Root().Word()}}, []*smt.Map{first, second})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	restored, err := StorageFromBytes(storage.ToBytes())
	if err != nil {
		t.Fatalf("failed to decode storage: %v", err)
	}
	maps := restored.Maps()
	if len(maps) != 2 {
		t.Fatalf("unexpected number of maps: %d", len(maps))
	}
	if maps[0].Root() != first.Root() || maps[1].Root() != second.Root() {
		t.Errorf("decoded maps differ from the original")
	}
	if maps[0].Get(wordC) != wordD {
		t.Errorf("decoded map lost its content")
	}
}

func TestStorageSerialization_AbsentAndEmptyMapsAreDistinguished(t *testing.T) {
	without := newTestStorage(t, nil)
	with, err := NewStorage(nil, []*smt.Map{})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if bytes.Equal(without.ToBytes(), with.ToBytes()) {
		t.Fatalf("encodings should differ")
	}

	restored, err := StorageFromBytes(with.ToBytes())
	if err != nil {
		t.Fatalf("failed to decode storage: %v", err)
	}
	if restored.Maps() == nil || len(restored.Maps()) != 0 {
		t.Errorf("expected an empty list of maps, got %v", restored.Maps())
	}
	restored, err = StorageFromBytes(without.ToBytes())
	if err != nil {
		t.Fatalf("failed to decode storage: %v", err)
	}
	if restored.Maps() != nil {
		t.Errorf("expected no maps, got %v", restored.Maps())
	}
}

func TestStorageSerialization_InvalidEncodingsAreRejected(t *testing.T) {
	valid := newTestStorage(t, []SlotItem{{1, MapSlotType(0), wordA}}).ToBytes()

	nonCanonical := common.ByteWriter{}
	nonCanonical.WriteU8(0)
	nonCanonical.WriteU8(1)
	nonCanonical.WriteU8(0)
	nonCanonical.WriteU32(0xFFFFFFFF)
	nonCanonical.WriteU32(0xFFFFFFFF)

	tests := map[string]struct {
		data    []byte
		message string
	}{
		"empty input":            {[]byte{}, "missing number of slot types"},
		"truncated type":         {[]byte{1, 3, 0}, "missing slot type"},
		"truncated value":        {valid[:len(valid)-1], "invalid value of slot 1"},
		"reserved type index":    {[]byte{1, 255, 1, 0, 0}, "value 255 is not a valid slot type index"},
		"duplicated type index":  {[]byte{2, 3, 1, 0, 3, 1, 0, 0}, "value 3 is a duplicated slot type index"},
		"invalid slot type":      {[]byte{1, 3, 65, 0, 0}, "not a valid"},
		"reserved value index":   {append([]byte{0, 1, 255}, wordA.ToBytes()...), "invalid storage content"},
		"duplicated value index": {append(append([]byte{0, 2, 4}, wordA.ToBytes()...), append([]byte{4}, wordB.ToBytes()...)...), "invalid storage content"},
		"non-canonical element":  {append(nonCanonical.Bytes(), make([]byte, 24)...), "invalid value of slot 0"},
		"truncated map section":  {[]byte{0, 0, 1, 1, 0, 0, 0}, "value 1 is not a valid size of map 0"},
		"trailing bytes":         {[]byte{0, 0, 0, 7}, "value 1 is not a valid number of trailing bytes"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := StorageFromBytes(test.data)
			var deserialization DeserializationError
			if !errors.As(err, &deserialization) {
				t.Fatalf("expected deserialization error, got %v", err)
			}
			if !strings.Contains(err.Error(), test.message) {
				t.Errorf("error %q does not mention %q", err, test.message)
			}
		})
	}
}
