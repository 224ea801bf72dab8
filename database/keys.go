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
	"encoding/binary"

	"github.com/Fantom-foundation/Quill/common"
)

// TableSpace divides the key space of the database by prefixing keys.
type TableSpace byte

const (
	// InterfaceKey is a tablespace for account interfaces and code
	InterfaceKey TableSpace = 'I'
	// StorageKey is a tablespace for account storages
	StorageKey TableSpace = 'S'
)

// DbKey is a table space prefix followed by a big-endian account id, keeping
// the records of a table ordered by account.
type DbKey [9]byte

func (d DbKey) ToBytes() []byte {
	return d[:]
}

func (t TableSpace) ToDBKey(id common.AccountId) DbKey {
	var key DbKey
	key[0] = byte(t)
	binary.BigEndian.PutUint64(key[1:], uint64(id))
	return key
}

// accountFromKey extracts the account id from a database key.
func accountFromKey(key []byte) (common.AccountId, bool) {
	if len(key) != len(DbKey{}) {
		return 0, false
	}
	return common.AccountId(binary.BigEndian.Uint64(key[1:])), true
}
