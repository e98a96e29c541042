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
	"unsafe"

	"github.com/apache/arrow/go/v8/arrow/decimal128"
	"github.com/apache/arrow/go/v8/arrow/memory"
	"golang.org/x/exp/constraints"
)

// FixedWidth is the set of element types storable in a primitive array.
type FixedWidth interface {
	constraints.Integer | constraints.Float | decimal128.Num
}

// Number is the subset of FixedWidth that supports the native arithmetic
// operators.
type Number interface {
	constraints.Integer | constraints.Float
}

func sizeOf[T FixedWidth]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

func reinterpret[T FixedWidth](b []byte) []T {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), len(b)/sizeOf[T]())
}

// Buffer is a reference counted, contiguous sequence of fixed width values.
// Once the owning array has been constructed the contents are never mutated;
// any number of arrays may share one buffer and its lifetime is that of the
// longest holder.
type Buffer[T FixedWidth] struct {
	buf    *memory.Buffer
	length int
}

// NewBuffer allocates a zeroed buffer of n elements. The returned values are
// meant to be filled in full by the caller before the buffer is published in
// an array: len(Values()) is exactly n, so a fill loop ranging over it cannot
// produce fewer or more elements than declared.
func NewBuffer[T FixedWidth](mem memory.Allocator, n int) *Buffer[T] {
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(n * sizeOf[T]())
	return &Buffer[T]{buf: buf, length: n}
}

// NewBufferFromSlice allocates a buffer holding a copy of vals.
func NewBufferFromSlice[T FixedWidth](mem memory.Allocator, vals []T) *Buffer[T] {
	buf := NewBuffer[T](mem, len(vals))
	copy(buf.Values(), vals)
	return buf
}

// Values reinterprets the underlying bytes as a slice of T.
func (b *Buffer[T]) Values() []T {
	return reinterpret[T](b.buf.Bytes())[:b.length]
}

// Len returns the number of elements in the buffer.
func (b *Buffer[T]) Len() int { return b.length }

// Retain increases the reference count by 1.
func (b *Buffer[T]) Retain() { b.buf.Retain() }

// Release decreases the reference count by 1. The underlying memory is freed
// when the count reaches zero.
func (b *Buffer[T]) Release() { b.buf.Release() }
