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

package compute

import (
	"fmt"

	"github.com/apache/arrow/go/v8/arrow"
	"github.com/apache/arrow/go/v8/arrow/memory"

	"github.com/elferherrera/arrow2/array"
)

// Binary applies fn pairwise over two equal length arrays, producing a new
// array whose validity is the combination of the operands' validities.
//
// fn is applied at every position, including those that are null in the
// output, so it must be total over the element type. Operations that can
// fault on masked inputs (division) are hand rolled instead of routed here.
func Binary[T array.FixedWidth](mem memory.Allocator, lhs, rhs *array.Primitive[T], fn func(T, T) T) (*array.Primitive[T], error) {
	if lhs.Len() != rhs.Len() {
		return nil, fmt.Errorf("%w: cannot perform math operation on arrays of different length", ErrInvalid)
	}

	validity := CombineValidities(mem, lhs.Validity(), rhs.Validity())
	out := array.NewBuffer[T](mem, lhs.Len())
	l, r, o := lhs.Values(), rhs.Values(), out.Values()
	for i := range o {
		o[i] = fn(l[i], r[i])
	}

	res := array.NewPrimitiveData(lhs.DataType(), out, validity)
	out.Release()
	if validity != nil {
		validity.Release()
	}
	return res, nil
}

// Unary applies fn to every value of arr, producing a new array of logical
// type dtype. The validity is passed through unchanged: unary transforms
// never alter which elements are null, and the result shares the operand's
// bitmap.
func Unary[T array.FixedWidth](mem memory.Allocator, arr *array.Primitive[T], fn func(T) T, dtype arrow.DataType) *array.Primitive[T] {
	out := array.NewBuffer[T](mem, arr.Len())
	in, o := arr.Values(), out.Values()
	for i := range o {
		o[i] = fn(in[i])
	}

	res := array.NewPrimitiveData(dtype, out, arr.Validity())
	out.Release()
	return res
}
