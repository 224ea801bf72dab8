// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/sha3"
)

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

// HashBytes computes the digest of an arbitrary byte sequence. The 32 byte
// keccak256 output is split into four little-endian u64 values, each reduced
// into the field.
func HashBytes(data ...[]byte) Digest {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	for _, cur := range data {
		hasher.Write(cur)
	}
	var out [32]byte
	hasher.Read(out[:])
	keccakHasherPool.Put(hasher)

	var res Digest
	for i := range res {
		res[i] = NewFelt(binary.LittleEndian.Uint64(out[i*8:]))
	}
	return res
}

// HashElements computes the commitment of a sequence of field elements.
func HashElements(elements []Felt) Digest {
	data := make([]byte, len(elements)*8)
	for i, e := range elements {
		binary.LittleEndian.PutUint64(data[i*8:], uint64(e))
	}
	return HashBytes(data)
}

// Merge computes the parent digest of two child digests.
func Merge(left, right Digest) Digest {
	return HashBytes(left.ToBytes(), right.ToBytes())
}
