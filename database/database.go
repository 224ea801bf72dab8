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
	"github.com/Fantom-foundation/Quill/account"
	"github.com/Fantom-foundation/Quill/common"
)

// ErrClosed is reported for operations on a closed database.
const ErrClosed = common.ConstError("database is closed")

// Database persists the interfaces, the code and the storage of accounts.
type Database interface {
	// PutInterface records the procedures exported by the given account. Any
	// previously recorded code of the account is dropped.
	PutInterface(id common.AccountId, procedures []common.Digest) error

	// PutCode records the code of the given account, including its interface.
	PutCode(id common.AccountId, code *account.Code) error

	// GetInterface returns the recorded interface of the given account.
	GetInterface(id common.AccountId) ([]common.Digest, bool, error)

	// GetCodeSource returns the module source of the recorded code of the
	// given account, if its code was recorded.
	GetCodeSource(id common.AccountId) (string, bool, error)

	// ForEachInterface visits all recorded interfaces ordered by account. A
	// failing callback aborts the iteration.
	ForEachInterface(func(id common.AccountId, procedures []common.Digest) error) error

	// PutStorage records the storage of the given account.
	PutStorage(id common.AccountId, storage *account.Storage) error

	// GetStorage returns the recorded storage of the given account.
	GetStorage(id common.AccountId) (*account.Storage, bool, error)

	// DeleteAccount removes all records of the given account.
	DeleteAccount(id common.AccountId) error

	// Close releases the database. It must not be used afterwards.
	Close() error
}
