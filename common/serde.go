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
)

// ErrUnexpectedEnd is reported when a reader runs out of data.
const ErrUnexpectedEnd = ConstError("unexpected end of input")

// ByteWriter accumulates a binary encoding. All multi-byte integers are
// written in little-endian order.
type ByteWriter struct {
	data []byte
}

func (w *ByteWriter) WriteU8(value uint8) {
	w.data = append(w.data, value)
}

func (w *ByteWriter) WriteU16(value uint16) {
	w.data = binary.LittleEndian.AppendUint16(w.data, value)
}

func (w *ByteWriter) WriteU32(value uint32) {
	w.data = binary.LittleEndian.AppendUint32(w.data, value)
}

func (w *ByteWriter) WriteWord(value Word) {
	w.data = append(w.data, value.ToBytes()...)
}

func (w *ByteWriter) Bytes() []byte {
	return w.data
}

// ByteReader consumes a binary encoding produced by a ByteWriter.
type ByteReader struct {
	data []byte
	pos  int
}

func NewByteReader(data []byte) *ByteReader {
	return &ByteReader{data: data}
}

func (r *ByteReader) next(size int) ([]byte, error) {
	if r.pos+size > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrUnexpectedEnd, size, r.pos, len(r.data)-r.pos)
	}
	res := r.data[r.pos : r.pos+size]
	r.pos += size
	return res, nil
}

func (r *ByteReader) ReadU8() (uint8, error) {
	data, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func (r *ByteReader) ReadU16() (uint16, error) {
	data, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(data), nil
}

func (r *ByteReader) ReadU32() (uint32, error) {
	data, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

func (r *ByteReader) ReadWord() (Word, error) {
	data, err := r.next(WordBytes)
	if err != nil {
		return Word{}, err
	}
	return WordFromBytes(data)
}

// Remaining is the number of bytes not yet consumed.
func (r *ByteReader) Remaining() int {
	return len(r.data) - r.pos
}
