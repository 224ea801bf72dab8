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

// SlotReservedError is reported on attempts to define or modify a reserved
// storage slot.
type SlotReservedError struct {
	Slot uint8
}

func (e SlotReservedError) Error() string {
	return fmt.Sprintf("storage slot %d is reserved", e.Slot)
}

// TooManyMapsError is reported if a storage is created with more auxiliary
// maps than there are usable slots.
type TooManyMapsError struct {
	Max    int
	Actual int
}

func (e TooManyMapsError) Error() string {
	return fmt.Sprintf("too many storage maps: at most %d are supported, got %d", e.Max, e.Actual)
}

// DuplicateStorageItemsError is reported if a storage is created with more
// than one item for the same slot.
type DuplicateStorageItemsError struct {
	Slot uint8
}

func (e DuplicateStorageItemsError) Error() string {
	return fmt.Sprintf("duplicate storage items for slot %d", e.Slot)
}

// InvalidSlotTypeError is reported for slot types that can not be encoded.
type InvalidSlotTypeError struct {
	Slot uint8
	Err  error
}

func (e InvalidSlotTypeError) Error() string {
	return fmt.Sprintf("invalid type of storage slot %d: %v", e.Slot, e.Err)
}

func (e InvalidSlotTypeError) Unwrap() error {
	return e.Err
}

// NotValueSlotError is reported on attempts to directly set an array or map
// slot.
type NotValueSlotError struct {
	Slot uint8
	Type SlotType
}

func (e NotValueSlotError) Error() string {
	return fmt.Sprintf("storage slot %d is not a value slot, it is of type %v", e.Slot, e.Type)
}

// InvalidValueArityError is reported on attempts to directly set a value slot
// holding more than a single word.
type InvalidValueArityError struct {
	Slot     uint8
	Expected uint8
	Actual   uint8
}

func (e InvalidValueArityError) Error() string {
	return fmt.Sprintf("storage slot %d has value arity %d, expected %d", e.Slot, e.Actual, e.Expected)
}

// DeserializationError is reported for structurally invalid encodings.
type DeserializationError struct {
	Msg string
	Err error
}

func (e DeserializationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to deserialize account storage: %s", e.Msg)
	}
	return fmt.Sprintf("failed to deserialize account storage: %s: %v", e.Msg, e.Err)
}

func (e DeserializationError) Unwrap() error {
	return e.Err
}

const ErrNoProcedures = common.ConstError("account code must export at least one procedure")
