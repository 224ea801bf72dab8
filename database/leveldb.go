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
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Quill/account"
	"github.com/Fantom-foundation/Quill/common"
)

// levelDb is a LevelDB backed Database implementation.
type levelDb struct {
	db *leveldb.DB
}

var _ Database = (*levelDb)(nil)

// Open opens or creates a database in the given directory.
func Open(path string) (Database, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database in %s: %w", path, err)
	}
	return &levelDb{db}, nil
}

// OpenInMemory creates a database keeping all its content in memory.
func OpenInMemory() (Database, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &levelDb{db}, nil
}

func (m *levelDb) PutInterface(id common.AccountId, procedures []common.Digest) error {
	return m.putInterface(id, &interfaceRecord{Procedures: procedures})
}

func (m *levelDb) PutCode(id common.AccountId, code *account.Code) error {
	return m.putInterface(id, &interfaceRecord{
		Procedures: code.Procedures(),
		Source:     code.Source(),
		HasCode:    true,
	})
}

func (m *levelDb) putInterface(id common.AccountId, record *interfaceRecord) error {
	data, err := encodeInterface(record)
	if err != nil {
		return err
	}
	return m.put(InterfaceKey.ToDBKey(id), data)
}

func (m *levelDb) GetInterface(id common.AccountId) ([]common.Digest, bool, error) {
	record, err := m.getInterface(id)
	if record == nil || err != nil {
		return nil, false, err
	}
	return record.Procedures, true, nil
}

func (m *levelDb) GetCodeSource(id common.AccountId) (string, bool, error) {
	record, err := m.getInterface(id)
	if record == nil || err != nil || !record.HasCode {
		return "", false, err
	}
	return record.Source, true, nil
}

func (m *levelDb) getInterface(id common.AccountId) (*interfaceRecord, error) {
	data, err := m.get(InterfaceKey.ToDBKey(id))
	if data == nil || err != nil {
		return nil, err
	}
	record, err := decodeInterface(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface of account %v: %w", id, err)
	}
	return record, nil
}

func (m *levelDb) ForEachInterface(callback func(id common.AccountId, procedures []common.Digest) error) error {
	iter := m.db.NewIterator(util.BytesPrefix([]byte{byte(InterfaceKey)}), nil)
	defer iter.Release()

	for iter.Next() {
		id, ok := accountFromKey(iter.Key())
		if !ok {
			return fmt.Errorf("invalid interface key %x", iter.Key())
		}
		record, err := decodeInterface(iter.Value())
		if err != nil {
			return fmt.Errorf("failed to read interface of account %v: %w", id, err)
		}
		if err := callback(id, slices.Clone(record.Procedures)); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (m *levelDb) PutStorage(id common.AccountId, s *account.Storage) error {
	return m.put(StorageKey.ToDBKey(id), s.ToBytes())
}

func (m *levelDb) GetStorage(id common.AccountId) (*account.Storage, bool, error) {
	data, err := m.get(StorageKey.ToDBKey(id))
	if data == nil || err != nil {
		return nil, false, err
	}
	s, err := account.StorageFromBytes(data)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read storage of account %v: %w", id, err)
	}
	return s, true, nil
}

func (m *levelDb) DeleteAccount(id common.AccountId) error {
	batch := new(leveldb.Batch)
	batch.Delete(InterfaceKey.ToDBKey(id).ToBytes())
	batch.Delete(StorageKey.ToDBKey(id).ToBytes())
	return m.wrap(m.db.Write(batch, nil))
}

func (m *levelDb) Close() error {
	return m.wrap(m.db.Close())
}

func (m *levelDb) put(key DbKey, value []byte) error {
	return m.wrap(m.db.Put(key.ToBytes(), value, nil))
}

// get returns the value of the given key, nil if there is none.
func (m *levelDb) get(key DbKey) ([]byte, error) {
	data, err := m.db.Get(key.ToBytes(), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return data, m.wrap(err)
}

func (m *levelDb) wrap(err error) error {
	if errors.Is(err, leveldb.ErrClosed) {
		return ErrClosed
	}
	return err
}
