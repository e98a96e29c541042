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

// Operator identifies one of the closed set of arithmetic operations.
type Operator int8

const (
	OpAdd Operator = iota
	OpSubtract
	OpMultiply
	OpDivide
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	}
	return fmt.Sprintf("Operator(%d)", int8(op))
}

// Arithmetic is the polymorphic entry point of the operator layer: it
// dispatches on the operands' logical type to the concretely typed kernels.
// The result carries the same logical type as the inputs.
func Arithmetic(mem memory.Allocator, lhs array.Array, op Operator, rhs array.Array) (array.Array, error) {
	dtype := lhs.DataType()
	if !arrow.TypeEqual(dtype, rhs.DataType()) {
		return nil, fmt.Errorf("%w: arithmetic is currently only supported for arrays of the same logical type (%s and %s)",
			ErrNotImplemented, dtype, rhs.DataType())
	}

	switch dtype.ID() {
	case arrow.INT8:
		return arithmeticTyped[int8](mem, lhs, op, rhs)
	case arrow.INT16:
		return arithmeticTyped[int16](mem, lhs, op, rhs)
	case arrow.INT32:
		return arithmeticTyped[int32](mem, lhs, op, rhs)
	case arrow.INT64, arrow.DURATION:
		return arithmeticTyped[int64](mem, lhs, op, rhs)
	case arrow.UINT8:
		return arithmeticTyped[uint8](mem, lhs, op, rhs)
	case arrow.UINT16:
		return arithmeticTyped[uint16](mem, lhs, op, rhs)
	case arrow.UINT32:
		return arithmeticTyped[uint32](mem, lhs, op, rhs)
	case arrow.UINT64:
		return arithmeticTyped[uint64](mem, lhs, op, rhs)
	case arrow.FLOAT16:
		// no constructor in this module can produce a float16 array
		debug.Assert(false, "float16 arrays have no arithmetic kernels")
		return nil, fmt.Errorf("%w: arithmetic between %s arrays", ErrNotImplemented, dtype)
	case arrow.FLOAT32:
		return arithmeticTyped[float32](mem, lhs, op, rhs)
	case arrow.FLOAT64:
		return arithmeticTyped[float64](mem, lhs, op, rhs)
	case arrow.DECIMAL128:
		lv, rv, err := downcast[decimal128.Num](lhs, rhs)
		if err != nil {
			return nil, err
		}
		res, err := arithmeticDecimal(mem, lv, op, rv)
		if err != nil {
			return nil, err
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: arithmetic between %s arrays", ErrNotImplemented, dtype)
	}
}

func downcast[T array.FixedWidth](lhs, rhs array.Array) (*array.Primitive[T], *array.Primitive[T], error) {
	lv, lok := lhs.(*array.Primitive[T])
	rv, rok := rhs.(*array.Primitive[T])
	if !lok || !rok {
		return nil, nil, fmt.Errorf("%w: operands are not primitive arrays of %s", ErrInvalid, lhs.DataType())
	}
	return lv, rv, nil
}

func arithmeticTyped[T array.Number](mem memory.Allocator, lhs array.Array, op Operator, rhs array.Array) (array.Array, error) {
	lv, rv, err := downcast[T](lhs, rhs)
	if err != nil {
		return nil, err
	}
	res, err := arithmeticPrimitive(mem, lv, op, rv)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func arithmeticPrimitive[T array.Number](mem memory.Allocator, lhs *array.Primitive[T], op Operator, rhs *array.Primitive[T]) (*array.Primitive[T], error) {
	switch op {
	case OpAdd:
		return Add(mem, lhs, rhs)
	case OpSubtract:
		return Subtract(mem, lhs, rhs)
	case OpMultiply:
		return Multiply(mem, lhs, rhs)
	case OpDivide:
		return Divide(mem, lhs, rhs)
	}
	debug.Assert(false, "unknown arithmetic operator")
	return nil, fmt.Errorf("%w: arithmetic operator %s", ErrNotImplemented, op)
}

// ArithmeticScalar applies op between every element of lhs and the scalar
// rhs, keeping lhs' validity.
func ArithmeticScalar[T array.Number](mem memory.Allocator, lhs *array.Primitive[T], op Operator, rhs T) (*array.Primitive[T], error) {
	switch op {
	case OpAdd:
		return AddScalar(mem, lhs, rhs), nil
	case OpSubtract:
		return SubtractScalar(mem, lhs, rhs), nil
	case OpMultiply:
		return MultiplyScalar(mem, lhs, rhs), nil
	case OpDivide:
		return DivideScalar(mem, lhs, rhs)
	}
	debug.Assert(false, "unknown arithmetic operator")
	return nil, fmt.Errorf("%w: arithmetic operator %s", ErrNotImplemented, op)
}

// Add sums two arrays elementwise.
func Add[T array.Number](mem memory.Allocator, lhs, rhs *array.Primitive[T]) (*array.Primitive[T], error) {
	return Binary(mem, lhs, rhs, func(a, b T) T { return a + b })
}

// AddScalar adds a constant to every element.
func AddScalar[T array.Number](mem memory.Allocator, lhs *array.Primitive[T], rhs T) *array.Primitive[T] {
	return Unary(mem, lhs, func(a T) T { return a + rhs }, lhs.DataType())
}

// Subtract subtracts rhs from lhs elementwise.
func Subtract[T array.Number](mem memory.Allocator, lhs, rhs *array.Primitive[T]) (*array.Primitive[T], error) {
	return Binary(mem, lhs, rhs, func(a, b T) T { return a - b })
}

// SubtractScalar subtracts a constant from every element.
func SubtractScalar[T array.Number](mem memory.Allocator, lhs *array.Primitive[T], rhs T) *array.Primitive[T] {
	return Unary(mem, lhs, func(a T) T { return a - rhs }, lhs.DataType())
}

// Multiply multiplies two arrays elementwise.
func Multiply[T array.Number](mem memory.Allocator, lhs, rhs *array.Primitive[T]) (*array.Primitive[T], error) {
	return Binary(mem, lhs, rhs, func(a, b T) T { return a * b })
}

// MultiplyScalar multiplies every element by a constant.
func MultiplyScalar[T array.Number](mem memory.Allocator, lhs *array.Primitive[T], rhs T) *array.Primitive[T] {
	return Unary(mem, lhs, func(a T) T { return a * rhs }, lhs.DataType())
}

// Divide divides two arrays elementwise.
//
// It errors iff the arrays have different lengths or a zero divisor sits at a
// position that is valid in the combined output validity. A zero divisor
// under a null slot has no observable effect: the output value there is the
// type's default and the zero check never fires.
func Divide[T array.Number](mem memory.Allocator, lhs, rhs *array.Primitive[T]) (*array.Primitive[T], error) {
	return divideImpl(mem, lhs, rhs,
		func(a, b T) T { return a / b },
		func(v T) bool { return v == 0 })
}

// divideImpl is the validity aware elementwise divide shared by the native
// and decimal kernels. It is not expressible as a Binary call: the zero check
// must consult the combined validity before touching a divisor.
func divideImpl[T array.FixedWidth](mem memory.Allocator, lhs, rhs *array.Primitive[T], div func(T, T) T, isZero func(T) bool) (*array.Primitive[T], error) {
	if lhs.Len() != rhs.Len() {
		return nil, fmt.Errorf("%w: cannot perform math operation on arrays of different length", ErrInvalid)
	}

	validity := CombineValidities(mem, lhs.Validity(), rhs.Validity())
	out := array.NewBuffer[T](mem, lhs.Len())
	l, r, o := lhs.Values(), rhs.Values(), out.Values()

	var err error
	if validity != nil {
		for i := range o {
			if !validity.Bit(i) {
				// null slot: leave the default value, divisor unchecked
				continue
			}
			if isZero(r[i]) {
				err = fmt.Errorf("%w: there is a zero in the division, causing a division by zero", ErrInvalid)
				break
			}
			o[i] = div(l[i], r[i])
		}
	} else {
		for i := range o {
			if isZero(r[i]) {
				err = fmt.Errorf("%w: there is a zero in the division, causing a division by zero", ErrInvalid)
				break
			}
			o[i] = div(l[i], r[i])
		}
	}
	if err != nil {
		out.Release()
		if validity != nil {
			validity.Release()
		}
		return nil, err
	}

	res := array.NewPrimitiveData(lhs.DataType(), out, validity)
	out.Release()
	if validity != nil {
		validity.Release()
	}
	return res, nil
}

// DivideScalar divides every element by a constant. A zero divisor fails
// immediately, before touching any element.
func DivideScalar[T array.Number](mem memory.Allocator, lhs *array.Primitive[T], rhs T) (*array.Primitive[T], error) {
	if rhs == 0 {
		return nil, fmt.Errorf("%w: the divisor cannot be zero", ErrInvalid)
	}
	return Unary(mem, lhs, func(a T) T { return a / rhs }, lhs.DataType()), nil
}

// Negate flips the sign of every value, leaving the validity unchanged.
func Negate[T constraints.Signed | constraints.Float](mem memory.Allocator, arr *array.Primitive[T]) *array.Primitive[T] {
	return Unary(mem, arr, func(a T) T { return -a }, arr.DataType())
}

// PowfScalar raises every value to the given exponent, leaving the validity
// unchanged.
func PowfScalar[T constraints.Float](mem memory.Allocator, arr *array.Primitive[T], exponent T) *array.Primitive[T] {
	return Unary(mem, arr, func(a T) T { return T(math.Pow(float64(a), float64(exponent))) }, arr.DataType())
}
