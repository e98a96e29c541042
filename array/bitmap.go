// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package array

import (
	"github.com/apache/arrow/go/v8/arrow/bitutil"
	"github.com/apache/arrow/go/v8/arrow/memory"

	"github.com/elferherrera/arrow2/internal/debug"
)

// Bitmap is a packed validity bitmap: one bit per array element, set meaning
// valid (non null). A nil *Bitmap on an array means every element is valid.
// Bitmaps are immutable once built and reference counted; kernels share them
// freely instead of copying.
type Bitmap struct {
	buf     *memory.Buffer
	length  int
	setBits int
}

// NewBitmapFromBools builds a bitmap from a slice of validity flags.
func NewBitmapFromBools(mem memory.Allocator, valid []bool) *Bitmap {
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(len(valid)))))
	bits := buf.Bytes()
	set := 0
	for i, v := range valid {
		if v {
			bitutil.SetBit(bits, i)
			set++
		}
	}
	return &Bitmap{buf: buf, length: len(valid), setBits: set}
}

// Bit returns whether bit i is set. The caller is responsible for index
// validity: there is no clamping and reads past Len are meaningless.
func (b *Bitmap) Bit(i int) bool { return bitutil.BitIsSet(b.buf.Bytes(), i) }

// Len returns the number of bits in the bitmap.
func (b *Bitmap) Len() int { return b.length }

// SetCount returns the number of set (valid) bits. Counted once at
// construction.
func (b *Bitmap) SetCount() int { return b.setBits }

// NullCount returns the number of unset (null) bits.
func (b *Bitmap) NullCount() int { return b.length - b.setBits }

// And returns the bitwise intersection of two equal length bitmaps.
func (b *Bitmap) And(mem memory.Allocator, other *Bitmap) *Bitmap {
	debug.Assert(b.length == other.length, "bitmap intersection requires equal lengths")

	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(b.length))))
	out, left, right := buf.Bytes(), b.buf.Bytes(), other.buf.Bytes()
	for i := range out {
		out[i] = left[i] & right[i]
	}
	return &Bitmap{buf: buf, length: b.length, setBits: bitutil.CountSetBits(out, 0, b.length)}
}

// Equal reports whether two bitmaps have the same length and bits.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b == other {
		return true
	}
	if b.length != other.length || b.setBits != other.setBits {
		return false
	}
	for i := 0; i < b.length; i++ {
		if b.Bit(i) != other.Bit(i) {
			return false
		}
	}
	return true
}

// Retain increases the reference count by 1.
func (b *Bitmap) Retain() { b.buf.Retain() }

// Release decreases the reference count by 1. The underlying memory is freed
// when the count reaches zero.
func (b *Bitmap) Release() { b.buf.Release() }

// BitmapBuilder accumulates exactly a declared number of validity bits. It is
// the only way to materialize a bitmap incrementally: the capacity is fixed up
// front and Finish asserts the append count matches it, so a producer that
// yields fewer or more bits than declared cannot slip through.
type BitmapBuilder struct {
	buf     *memory.Buffer
	bits    []byte
	length  int
	pos     int
	setBits int
}

// NewBitmapBuilder allocates a zeroed builder for exactly length bits.
func NewBitmapBuilder(mem memory.Allocator, length int) *BitmapBuilder {
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(length))))
	return &BitmapBuilder{buf: buf, bits: buf.Bytes(), length: length}
}

// Append records the next validity bit.
func (b *BitmapBuilder) Append(valid bool) {
	if valid {
		bitutil.SetBit(b.bits, b.pos)
		b.setBits++
	}
	b.pos++
}

// Finish seals the builder into an immutable bitmap, transferring ownership
// of the underlying memory to it.
func (b *BitmapBuilder) Finish() *Bitmap {
	debug.Assert(b.pos == b.length, "bitmap builder finished before the declared length was appended")
	bm := &Bitmap{buf: b.buf, length: b.length, setBits: b.setBits}
	b.buf, b.bits = nil, nil
	return bm
}

// Release abandons an unfinished builder, freeing its memory.
func (b *BitmapBuilder) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf, b.bits = nil, nil
	}
}
