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
	"github.com/hashicorp/go-multierror"

	"github.com/Fantom-foundation/Quill/common"
)

// SlotUpdate is the new value of a single storage slot.
type SlotUpdate struct {
	Index uint8
	Value common.Word
}

// StorageDelta summarizes the changes of a storage caused by a transaction.
// Cleared slots are reset to the zero word before updates are applied.
type StorageDelta struct {
	Cleared []uint8
	Updated []SlotUpdate
}

// IsEmpty is true if the delta carries no change.
func (d *StorageDelta) IsEmpty() bool {
	return len(d.Cleared) == 0 && len(d.Updated) == 0
}

// AppendClear registers a slot to be reset to the zero word.
func (d *StorageDelta) AppendClear(index uint8) {
	d.Cleared = append(d.Cleared, index)
}

// AppendUpdate registers a new value for a slot.
func (d *StorageDelta) AppendUpdate(index uint8, value common.Word) {
	d.Updated = append(d.Updated, SlotUpdate{index, value})
}

// Validate checks every slot touched by this delta against the given layout
// and reports all slots that can not be modified.
func (d *StorageDelta) Validate(layout []SlotType) error {
	var result error
	for _, index := range d.Cleared {
		if err := checkWritable(layout, index); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, update := range d.Updated {
		if err := checkWritable(layout, update.Index); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}
