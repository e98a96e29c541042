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
	"math"

	"github.com/apache/arrow/go/v8/arrow"
	"github.com/apache/arrow/go/v8/arrow/decimal128"
	"github.com/apache/arrow/go/v8/arrow/memory"
	"golang.org/x/exp/constraints"

	"github.com/elferherrera/arrow2/array"
	"github.com/elferherrera/arrow2/internal/debug"
)

// maybeIndex converts a stored index to a platform index. It fails only when
// the stored integer cannot represent a non negative platform offset, which
// is a recoverable data condition; whether the result is in range of the
// values array is a separate concern with a separate (fatal) policy.
func maybeIndex[I constraints.Integer](index I) (int, error) {
	if index < 0 || uint64(index) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: index %d cannot be represented as a platform index", ErrIndexOverflow, index)
	}
	return int(index), nil
}

// Take gathers values at the given indices into a new array. The output
// length always equals the indices length.
//
// A null index slot yields a null output slot: the stored integer under it is
// never read, and no bounds check happens for it. A non null index that is
// out of range of values is a caller contract violation and panics rather
// than returning an error.
func Take[T array.FixedWidth, I constraints.Integer](mem memory.Allocator, values *array.Primitive[T], indices *array.Primitive[I]) (*array.Primitive[T], error) {
	var (
		out      *array.Buffer[T]
		validity *array.Bitmap
		err      error
	)
	// four monomorphic passes keyed on null presence: the common
	// no-nulls-anywhere case runs without any bitmap traffic, and the
	// null-indices cases must check slot validity before using the raw
	// stored integer.
	switch {
	case values.NullN() == 0 && indices.NullN() == 0:
		out, err = takeNoValidity(mem, values.Values(), indices.Values())
	case indices.NullN() == 0:
		out, validity, err = takeValuesValidity(mem, values, indices.Values())
	case values.NullN() == 0:
		out, validity, err = takeIndicesValidity(mem, values.Values(), indices)
	default:
		out, validity, err = takeValuesIndicesValidity(mem, values, indices)
	}
	if err != nil {
		return nil, err
	}

	res := array.NewPrimitiveData(values.DataType(), out, validity)
	out.Release()
	if validity != nil {
		validity.Release()
	}
	return res, nil
}

// take pass for when neither values nor indices contain nulls. The output
// carries no bitmap; the slice index is the single bounds check point.
func takeNoValidity[T array.FixedWidth, I constraints.Integer](mem memory.Allocator, values []T, indices []I) (*array.Buffer[T], error) {
	out := array.NewBuffer[T](mem, len(indices))
	o := out.Values()
	for i, index := range indices {
		idx, err := maybeIndex(index)
		if err != nil {
			out.Release()
			return nil, err
		}
		o[i] = values[idx]
	}
	return out, nil
}

// take pass for when only the values contain nulls: every index is readable,
// and the output validity is freshly built from the values bitmap bits at the
// gathered positions.
func takeValuesValidity[T array.FixedWidth, I constraints.Integer](mem memory.Allocator, values *array.Primitive[T], indices []I) (*array.Buffer[T], *array.Bitmap, error) {
	var (
		valuesValidity = values.Validity()
		vals           = values.Values()
		out            = array.NewBuffer[T](mem, len(indices))
		nulls          = array.NewBitmapBuilder(mem, len(indices))
		o              = out.Values()
	)
	for i, index := range indices {
		idx, err := maybeIndex(index)
		if err != nil {
			out.Release()
			nulls.Release()
			return nil, nil, err
		}
		v := vals[idx]
		nulls.Append(valuesValidity.Bit(idx))
		o[i] = v
	}
	return out, nulls.Finish(), nil
}

// take pass for when only the indices contain nulls. Nullness is entirely
// index driven, so the output validity is the indices' own bitmap, retained
// rather than recomputed. Null slots emit the type's default without reading
// the stored index.
func takeIndicesValidity[T array.FixedWidth, I constraints.Integer](mem memory.Allocator, values []T, indices *array.Primitive[I]) (*array.Buffer[T], *array.Bitmap, error) {
	var (
		indicesValidity = indices.Validity()
		idxs            = indices.Values()
		out             = array.NewBuffer[T](mem, indices.Len())
		o               = out.Values()
	)
	for i := range o {
		if !indicesValidity.Bit(i) {
			continue
		}
		idx, err := maybeIndex(idxs[i])
		if err != nil {
			out.Release()
			return nil, nil, err
		}
		o[i] = values[idx]
	}
	indicesValidity.Retain()
	return out, indicesValidity, nil
}

// take pass for when both values and indices contain nulls: null index slots
// emit default and null, valid ones gather the value and the values bitmap
// bit at the resolved position.
func takeValuesIndicesValidity[T array.FixedWidth, I constraints.Integer](mem memory.Allocator, values *array.Primitive[T], indices *array.Primitive[I]) (*array.Buffer[T], *array.Bitmap, error) {
	var (
		valuesValidity  = values.Validity()
		indicesValidity = indices.Validity()
		vals            = values.Values()
		idxs            = indices.Values()
		out             = array.NewBuffer[T](mem, indices.Len())
		nulls           = array.NewBitmapBuilder(mem, indices.Len())
		o               = out.Values()
	)
	for i := range o {
		if !indicesValidity.Bit(i) {
			nulls.Append(false)
			continue
		}
		idx, err := maybeIndex(idxs[i])
		if err != nil {
			out.Release()
			nulls.Release()
			return nil, nil, err
		}
		v := vals[idx]
		nulls.Append(valuesValidity.Bit(idx))
		o[i] = v
	}
	return out, nulls.Finish(), nil
}

// TakeArray gathers from a polymorphic values array by a polymorphic integer
// index array, dispatching both to the concretely typed Take.
func TakeArray(mem memory.Allocator, values, indices array.Array) (array.Array, error) {
	switch values.DataType().ID() {
	case arrow.INT8:
		return takeIndexDispatch[int8](mem, values, indices)
	case arrow.INT16:
		return takeIndexDispatch[int16](mem, values, indices)
	case arrow.INT32:
		return takeIndexDispatch[int32](mem, values, indices)
	case arrow.INT64, arrow.DURATION:
		return takeIndexDispatch[int64](mem, values, indices)
	case arrow.UINT8:
		return takeIndexDispatch[uint8](mem, values, indices)
	case arrow.UINT16:
		return takeIndexDispatch[uint16](mem, values, indices)
	case arrow.UINT32:
		return takeIndexDispatch[uint32](mem, values, indices)
	case arrow.UINT64:
		return takeIndexDispatch[uint64](mem, values, indices)
	case arrow.FLOAT16:
		// no constructor in this module can produce a float16 array
		debug.Assert(false, "float16 arrays have no take kernel")
		return nil, fmt.Errorf("%w: take on %s arrays", ErrNotImplemented, values.DataType())
	case arrow.FLOAT32:
		return takeIndexDispatch[float32](mem, values, indices)
	case arrow.FLOAT64:
		return takeIndexDispatch[float64](mem, values, indices)
	case arrow.DECIMAL128:
		return takeIndexDispatch[decimal128.Num](mem, values, indices)
	default:
		return nil, fmt.Errorf("%w: take on %s arrays", ErrNotImplemented, values.DataType())
	}
}

func takeIndexDispatch[T array.FixedWidth](mem memory.Allocator, values, indices array.Array) (array.Array, error) {
	vals, ok := values.(*array.Primitive[T])
	if !ok {
		return nil, fmt.Errorf("%w: values are not a primitive array of %s", ErrInvalid, values.DataType())
	}

	switch indices.DataType().ID() {
	case arrow.INT8:
		return takeTyped[T, int8](mem, vals, indices)
	case arrow.INT16:
		return takeTyped[T, int16](mem, vals, indices)
	case arrow.INT32:
		return takeTyped[T, int32](mem, vals, indices)
	case arrow.INT64:
		return takeTyped[T, int64](mem, vals, indices)
	case arrow.UINT8:
		return takeTyped[T, uint8](mem, vals, indices)
	case arrow.UINT16:
		return takeTyped[T, uint16](mem, vals, indices)
	case arrow.UINT32:
		return takeTyped[T, uint32](mem, vals, indices)
	case arrow.UINT64:
		return takeTyped[T, uint64](mem, vals, indices)
	default:
		return nil, fmt.Errorf("%w: take indices must be of an integer type, got %s", ErrInvalid, indices.DataType())
	}
}

func takeTyped[T array.FixedWidth, I constraints.Integer](mem memory.Allocator, values *array.Primitive[T], indices array.Array) (array.Array, error) {
	idxs, ok := indices.(*array.Primitive[I])
	if !ok {
		return nil, fmt.Errorf("%w: indices are not a primitive array of %s", ErrInvalid, indices.DataType())
	}
	res, err := Take(mem, values, idxs)
	if err != nil {
		return nil, err
	}
	return res, nil
}
