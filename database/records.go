// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package database

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/Fantom-foundation/Quill/common"
)

// interfaceRecord is the CBOR encoded value of the interface table.
type interfaceRecord struct {
	Procedures []common.Digest `cbor:"1,keyasint"`
	Source     string          `cbor:"2,keyasint,omitempty"`
	HasCode    bool            `cbor:"3,keyasint,omitempty"`
}

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoding mode: %v", err))
	}
	return mode
}

func encodeInterface(record *interfaceRecord) ([]byte, error) {
	return encMode.Marshal(record)
}

func decodeInterface(data []byte) (*interfaceRecord, error) {
	var record interfaceRecord
	if err := cbor.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid interface record: %w", err)
	}
	for _, procedure := range record.Procedures {
		for _, element := range procedure {
			if !common.IsCanonical(uint64(element)) {
				return nil, fmt.Errorf("invalid interface record: value %d is not a valid field element", element)
			}
		}
	}
	return &record, nil
}
