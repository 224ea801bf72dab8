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
	"testing"

	"github.com/Fantom-foundation/Quill/backend/smt"
	"github.com/Fantom-foundation/Quill/common"
)

var (
	wordA = common.Word{1, 1, 1, 1}
	wordB = common.Word{1, 1, 1, 0}
	wordC = common.Word{1, 1, 0, 0}
	wordD = common.Word{1, 0, 0, 0}
)

func newTestStorage(t *testing.T, items []SlotItem) *Storage {
	t.Helper()
	storage, err := NewStorage(items, nil)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return storage
}

func TestStorage_EmptyStorageHasDefaultLayout(t *testing.T) {
	storage := newTestStorage(t, nil)
	layout := storage.Layout()
	if len(layout) != NumStorageSlots {
		t.Fatalf("unexpected layout size %d", len(layout))
	}
	for i, slotType := range layout[:SlotLayoutCommitmentIndex] {
		if !slotType.IsDefault() {
			t.Errorf("slot %d should have the default type, got %v", i, slotType)
		}
	}
	if layout[SlotLayoutCommitmentIndex] != ValueSlotType(64) {
		t.Errorf("unexpected type of reserved slot: %v", layout[SlotLayoutCommitmentIndex])
	}
	if !storage.GetItem(0).IsZero() {
		t.Errorf("unset slot should hold the zero word")
	}
	if storage.Maps() != nil {
		t.Errorf("storage without maps should report none")
	}
}

func TestStorage_ReservedSlotHoldsLayoutCommitment(t *testing.T) {
	storage := newTestStorage(t, []SlotItem{
		{0, MapSlotType(1), wordA},
		{3, ValueSlotType(0), wordB},
	})
	commitment := storage.LayoutCommitment()
	if got := storage.GetItem(SlotLayoutCommitmentIndex); got != commitment.Word() {
		t.Errorf("reserved slot should hold the layout commitment, wanted %v, got %v", commitment, got)
	}
	if newTestStorage(t, nil).LayoutCommitment() == commitment {
		t.Errorf("layout commitment should depend on the slot types")
	}

	storage.SetItem(3, wordC)
	if got := storage.GetItem(SlotLayoutCommitmentIndex); got != storage.LayoutCommitment().Word() {
		t.Errorf("updates must not affect the layout commitment")
	}
}

func TestStorage_RootCoversAllSlots(t *testing.T) {
	storage := newTestStorage(t, []SlotItem{{0, ValueSlotType(0), wordA}})
	leaves := []smt.Leaf{
		{Index: 0, Value: wordA},
		{Index: uint64(SlotLayoutCommitmentIndex), Value: storage.LayoutCommitment().Word()},
	}
	tree, err := smt.NewSimpleSmtWithLeaves(StorageTreeDepth, leaves)
	if err != nil {
		t.Fatalf("failed to build reference tree: %v", err)
	}
	if storage.Root() != tree.Root() {
		t.Errorf("storage root should be the root of the slot tree")
	}
	if storage.Slots().Root() != storage.Root() {
		t.Errorf("slot tree root should match storage root")
	}
}

func TestStorage_ItemOrderDoesNotAffectRoot(t *testing.T) {
	items := []SlotItem{
		{0, ValueSlotType(0), wordA},
		{7, MapSlotType(0), wordB},
		{200, ArraySlotType(4, 1), wordC},
	}
	a := newTestStorage(t, items)
	b := newTestStorage(t, []SlotItem{items[2], items[0], items[1]})
	c := newTestStorage(t, []SlotItem{items[1], items[2], items[0]})
	if a.Root() != b.Root() || a.Root() != c.Root() {
		t.Errorf("storage root should not depend on item order")
	}
}

func TestStorage_ReservedSlotCanNotBeInitialized(t *testing.T) {
	_, err := NewStorage([]SlotItem{{SlotLayoutCommitmentIndex, ValueSlotType(0), wordA}}, nil)
	var reserved SlotReservedError
	if !errors.As(err, &reserved) || reserved.Slot != SlotLayoutCommitmentIndex {
		t.Errorf("expected reserved slot error, got %v", err)
	}
}

func TestStorage_DuplicateItemsAreRejected(t *testing.T) {
	_, err := NewStorage([]SlotItem{
		{5, ValueSlotType(0), wordA},
		{5, ValueSlotType(0), wordB},
	}, nil)
	var dup DuplicateStorageItemsError
	if !errors.As(err, &dup) || dup.Slot != 5 {
		t.Errorf("expected duplicate item error, got %v", err)
	}
}

func TestStorage_InvalidSlotTypesAreRejected(t *testing.T) {
	_, err := NewStorage([]SlotItem{{5, ArraySlotType(1, 0), wordA}}, nil)
	var invalid InvalidSlotTypeError
	if !errors.As(err, &invalid) || invalid.Slot != 5 {
		t.Errorf("expected invalid slot type error, got %v", err)
	}
}

func TestStorage_TooManyMapsAreRejected(t *testing.T) {
	maps := make([]*smt.Map, MaxStorageMaps+1)
	for i := range maps {
		maps[i] = smt.NewMap()
	}
	_, err := NewStorage(nil, maps)
	var tooMany TooManyMapsError
	if !errors.As(err, &tooMany) {
		t.Fatalf("expected too many maps error, got %v", err)
	}
	if tooMany.Max != 255 || tooMany.Actual != 256 {
		t.Errorf("unexpected error payload: %v", tooMany)
	}

	if _, err := NewStorage(nil, maps[:MaxStorageMaps]); err != nil {
		t.Errorf("%d maps should be accepted: %v", MaxStorageMaps, err)
	}
}

func TestStorage_TooManyMapsAreReportedBeforeSlotsAreChecked(t *testing.T) {
	maps := make([]*smt.Map, MaxStorageMaps+1)
	for i := range maps {
		maps[i] = smt.NewMap()
	}
	items := []SlotItem{{SlotLayoutCommitmentIndex, ValueSlotType(0), wordA}}
	_, err := NewStorage(items, maps)
	var tooMany TooManyMapsError
	if !errors.As(err, &tooMany) {
		t.Errorf("expected too many maps error, got %v", err)
	}
}

func TestStorage_SetItemReturnsPreviousValue(t *testing.T) {
	storage := newTestStorage(t, []SlotItem{{1, ValueSlotType(0), wordA}})
	if prev, err := storage.SetItem(1, wordB); err != nil || prev != wordA {
		t.Errorf("unexpected result %v, %v", prev, err)
	}
	if prev, err := storage.SetItem(2, wordC); err != nil || !prev.IsZero() {
		t.Errorf("unset slot should report the zero word, got %v, %v", prev, err)
	}
	if storage.GetItem(1) != wordB || storage.GetItem(2) != wordC {
		t.Errorf("updates were not applied")
	}
}

func TestStorage_SetItemChangesRoot(t *testing.T) {
	storage := newTestStorage(t, nil)
	before := storage.Root()
	storage.SetItem(1, wordA)
	if storage.Root() == before {
		t.Errorf("update should change the root")
	}
	storage.SetItem(1, common.ZeroWord)
	if storage.Root() != before {
		t.Errorf("resetting the value should restore the root")
	}
}

func TestStorage_SetItemOnReservedSlotFails(t *testing.T) {
	storage := newTestStorage(t, nil)
	_, err := storage.SetItem(SlotLayoutCommitmentIndex, wordA)
	var reserved SlotReservedError
	if !errors.As(err, &reserved) {
		t.Errorf("expected reserved slot error, got %v", err)
	}
}

func TestStorage_SetItemOnComplexSlotsFails(t *testing.T) {
	storage := newTestStorage(t, []SlotItem{
		{0, MapSlotType(0), wordA},
		{1, ArraySlotType(3, 0), wordA},
		{2, ValueSlotType(1), wordA},
	})

	for _, index := range []uint8{0, 1} {
		_, err := storage.SetItem(index, wordB)
		var notValue NotValueSlotError
		if !errors.As(err, &notValue) || notValue.Slot != index {
			t.Errorf("expected not-a-value-slot error for slot %d, got %v", index, err)
		}
	}

	_, err := storage.SetItem(2, wordB)
	var arity InvalidValueArityError
	if !errors.As(err, &arity) || arity.Actual != 1 || arity.Expected != 0 {
		t.Errorf("expected invalid arity error, got %v", err)
	}

	for _, index := range []uint8{0, 1, 2} {
		if storage.GetItem(index) != wordA {
			t.Errorf("failed update should not modify slot %d", index)
		}
	}
}

func TestStorage_LayoutIsACopy(t *testing.T) {
	storage := newTestStorage(t, nil)
	layout := storage.Layout()
	layout[0] = MapSlotType(0)
	if !storage.Layout()[0].IsDefault() {
		t.Errorf("modifying the returned layout should not affect the storage")
	}
}

func TestStorage_MapsAreRetained(t *testing.T) {
	m := smt.NewMap()
	m.Insert(wordA, wordB)
	storage, err := NewStorage([]SlotItem{{0, MapSlotType(0), m.Root().Word()}}, []*smt.Map{m})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	if maps := storage.Maps(); len(maps) != 1 || maps[0] != m {
		t.Errorf("storage should retain its maps")
	}
}
