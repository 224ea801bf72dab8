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
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Modulus is the order of the prime field all Felt values are elements of.
const Modulus uint64 = 0xFFFFFFFF00000001

// Felt is an element of the prime field with order Modulus. Values are kept
// in canonical form, i.e. strictly below Modulus.
type Felt uint64

// NewFelt reduces the given integer into the field.
func NewFelt(value uint64) Felt {
	if value >= Modulus {
		value -= Modulus
	}
	return Felt(value)
}

// IsCanonical is true if the given integer is a valid field element encoding.
func IsCanonical(value uint64) bool {
	return value < Modulus
}

// WordSize is the number of field elements in a Word.
const WordSize = 4

// WordBytes is the number of bytes of a serialized Word.
const WordBytes = WordSize * 8

// Word is the atomic value unit stored in a storage slot.
type Word [WordSize]Felt

// ZeroWord is the value of every slot that was never set.
var ZeroWord = Word{}

func (w Word) IsZero() bool {
	return w == ZeroWord
}

// ToBytes encodes the word as four little-endian u64 values.
func (w Word) ToBytes() []byte {
	res := make([]byte, WordBytes)
	for i, f := range w {
		binary.LittleEndian.PutUint64(res[i*8:], uint64(f))
	}
	return res
}

// WordFromBytes decodes a word from its 32 byte representation. Non-canonical
// field elements are rejected.
func WordFromBytes(data []byte) (Word, error) {
	var res Word
	if len(data) != WordBytes {
		return res, fmt.Errorf("invalid word length: %d", len(data))
	}
	for i := range res {
		value := binary.LittleEndian.Uint64(data[i*8:])
		if !IsCanonical(value) {
			return res, fmt.Errorf("value %d is not a valid field element", value)
		}
		res[i] = Felt(value)
	}
	return res, nil
}

func (w Word) String() string {
	return hexutil.Encode(w.ToBytes())
}

// Digest is a fixed size commitment produced by the hashing primitive. It has
// the same shape as a Word so that roots can be stored in slots.
type Digest Word

func (d Digest) Word() Word {
	return Word(d)
}

func (d Digest) ToBytes() []byte {
	return Word(d).ToBytes()
}

// Hex renders the digest as a 0x-prefixed hex string.
func (d Digest) Hex() string {
	return hexutil.Encode(d.ToBytes())
}

func (d Digest) String() string {
	return d.Hex()
}

// ParseDigest parses the 0x-prefixed hex form produced by Hex.
func ParseDigest(s string) (Digest, error) {
	data, err := hexutil.Decode(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest %q: %w", s, err)
	}
	word, err := WordFromBytes(data)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest %q: %w", s, err)
	}
	return Digest(word), nil
}

// ParseWord parses a 0x-prefixed hex encoded word.
func ParseWord(s string) (Word, error) {
	d, err := ParseDigest(s)
	return Word(d), err
}

// AccountId identifies an account. It is derived externally and only used as
// a lookup key by this module.
type AccountId uint64

func (id AccountId) String() string {
	return hexutil.EncodeUint64(uint64(id))
}

// ParseAccountId parses the 0x-prefixed hex form of an account id.
func ParseAccountId(s string) (AccountId, error) {
	value, err := hexutil.DecodeUint64(s)
	if err != nil {
		return 0, fmt.Errorf("invalid account id %q: %w", s, err)
	}
	return AccountId(value), nil
}
