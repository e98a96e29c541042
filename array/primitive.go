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

// Package array provides fixed width typed arrays: an immutable element
// buffer paired with an optional validity bitmap, tagged with a logical type
// from the arrow type catalog.
package array

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/apache/arrow/go/v8/arrow"
	"github.com/apache/arrow/go/v8/arrow/memory"

	"github.com/elferherrera/arrow2/internal/debug"
)

// Array is the polymorphic view of a typed array that the compute dispatch
// layer consumes. Narrowing to a concrete element type is a type assertion to
// *Primitive[T].
type Array interface {
	// DataType returns the logical type tag of the array.
	DataType() arrow.DataType
	// Len returns the number of elements.
	Len() int
	// NullN returns the number of null elements.
	NullN() int
	// IsNull reports whether element i is null.
	IsNull(i int) bool
	// IsValid reports whether element i is non null.
	IsValid(i int) bool
	// Validity returns the validity bitmap, nil when every element is valid.
	Validity() *Bitmap
	// EqualArray reports whether other has the same type, length, validity
	// and valid values.
	EqualArray(other Array) bool
	// Retain increases the reference count by 1.
	Retain()
	// Release decreases the reference count by 1, freeing the underlying
	// buffers when it reaches zero.
	Release()
	fmt.Stringer
}

// Primitive is a typed array of fixed width values. It is never mutated after
// construction; every transformation allocates a new array. Because of that,
// arrays are safe to share for concurrent reads without locking.
type Primitive[T FixedWidth] struct {
	refCount int64

	dtype    arrow.DataType
	values   *Buffer[T]
	validity *Bitmap
	length   int
	nullN    int
}

// NewPrimitiveData composes a typed array from its parts, retaining both the
// buffer and the bitmap. The buffer length must equal the array length, the
// bitmap (when present) must carry one bit per element and the logical type
// width must match the element width.
func NewPrimitiveData[T FixedWidth](dtype arrow.DataType, values *Buffer[T], validity *Bitmap) *Primitive[T] {
	if fw, ok := dtype.(arrow.FixedWidthDataType); ok {
		debug.Assert(fw.BitWidth() == 8*sizeOf[T](), "logical type width does not match element width")
	} else {
		debug.Assert(false, "primitive array requires a fixed width logical type")
	}
	debug.Assert(validity == nil || validity.Len() == values.Len(), "validity bitmap length does not match buffer length")

	values.Retain()
	nullN := 0
	if validity != nil {
		validity.Retain()
		nullN = validity.NullCount()
	}
	return &Primitive[T]{
		refCount: 1,
		dtype:    dtype,
		values:   values,
		validity: validity,
		length:   values.Len(),
		nullN:    nullN,
	}
}

// NewPrimitive builds a typed array from a slice of values and a parallel
// slice of validity flags. A nil valid slice means every element is valid and
// no bitmap is allocated.
func NewPrimitive[T FixedWidth](mem memory.Allocator, dtype arrow.DataType, values []T, valid []bool) *Primitive[T] {
	debug.Assert(valid == nil || len(valid) == len(values), "values and validity flags must have equal lengths")

	buf := NewBufferFromSlice(mem, values)
	defer buf.Release()
	var bm *Bitmap
	if valid != nil {
		bm = NewBitmapFromBools(mem, valid)
		defer bm.Release()
	}
	return NewPrimitiveData(dtype, buf, bm)
}

// DataType returns the logical type tag of the array.
func (p *Primitive[T]) DataType() arrow.DataType { return p.dtype }

// Len returns the number of elements.
func (p *Primitive[T]) Len() int { return p.length }

// NullN returns the number of null elements, cached at construction.
func (p *Primitive[T]) NullN() int { return p.nullN }

// IsValid reports whether element i is non null.
func (p *Primitive[T]) IsValid(i int) bool { return p.validity == nil || p.validity.Bit(i) }

// IsNull reports whether element i is null.
func (p *Primitive[T]) IsNull(i int) bool { return !p.IsValid(i) }

// Values returns the element buffer contents. The stored value under a null
// slot carries no meaning.
func (p *Primitive[T]) Values() []T { return p.values.Values() }

// Value returns the stored element at position i.
func (p *Primitive[T]) Value(i int) T { return p.Values()[i] }

// Validity returns the validity bitmap, nil when every element is valid.
func (p *Primitive[T]) Validity() *Bitmap { return p.validity }

// Retain increases the reference count by 1.
func (p *Primitive[T]) Retain() { atomic.AddInt64(&p.refCount, 1) }

// Release decreases the reference count by 1, releasing the buffer and
// bitmap when it reaches zero.
func (p *Primitive[T]) Release() {
	debug.Assert(atomic.LoadInt64(&p.refCount) > 0, "too many releases")

	if atomic.AddInt64(&p.refCount, -1) == 0 {
		p.values.Release()
		if p.validity != nil {
			p.validity.Release()
		}
		p.values, p.validity = nil, nil
	}
}

// Equal reports whether two arrays of the same element type have the same
// logical type, length, validity and valid values. Stored values under null
// slots are ignored.
func (p *Primitive[T]) Equal(other *Primitive[T]) bool {
	if p == other {
		return true
	}
	if !arrow.TypeEqual(p.dtype, other.dtype) || p.length != other.length || p.nullN != other.nullN {
		return false
	}
	lv, rv := p.Values(), other.Values()
	for i := 0; i < p.length; i++ {
		if p.IsValid(i) != other.IsValid(i) {
			return false
		}
		if p.IsValid(i) && lv[i] != rv[i] {
			return false
		}
	}
	return true
}

// EqualArray narrows other to the same element type and compares.
func (p *Primitive[T]) EqualArray(other Array) bool {
	rhs, ok := other.(*Primitive[T])
	return ok && p.Equal(rhs)
}

func (p *Primitive[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < p.length; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		if p.IsNull(i) {
			b.WriteString("(null)")
			continue
		}
		fmt.Fprintf(&b, "%v", p.Value(i))
	}
	b.WriteByte(']')
	return b.String()
}
