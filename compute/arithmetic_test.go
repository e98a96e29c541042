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

package compute_test

import (
	"testing"

	"github.com/apache/arrow/go/v8/arrow"
	"github.com/apache/arrow/go/v8/arrow/decimal128"
	"github.com/apache/arrow/go/v8/arrow/memory"
	"github.com/stretchr/testify/suite"

	"github.com/elferherrera/arrow2/array"
	"github.com/elferherrera/arrow2/compute"
)

type ArithmeticSuite struct {
	suite.Suite

	mem *memory.CheckedAllocator
}

func (s *ArithmeticSuite) SetupTest() {
	s.mem = memory.NewCheckedAllocator(memory.NewGoAllocator())
}

func (s *ArithmeticSuite) TearDownTest() {
	s.mem.AssertSize(s.T(), 0)
}

// operands shared by the binary fixtures:
//	lhs = [null 6 null 6], rhs = [5 null null 6]
func (s *ArithmeticSuite) fixtures() (lhs, rhs *array.Primitive[int32]) {
	lhs = array.NewPrimitive(s.mem, arrow.PrimitiveTypes.Int32, []int32{0, 6, 0, 6}, []bool{false, true, false, true})
	rhs = array.NewPrimitive(s.mem, arrow.PrimitiveTypes.Int32, []int32{5, 0, 0, 6}, []bool{true, false, false, true})
	return
}

func (s *ArithmeticSuite) expectInt32(values []int32, valid []bool) *array.Primitive[int32] {
	return array.NewPrimitive(s.mem, arrow.PrimitiveTypes.Int32, values, valid)
}

func (s *ArithmeticSuite) TestAdd() {
	lhs, rhs := s.fixtures()
	defer lhs.Release()
	defer rhs.Release()

	got, err := compute.Add(s.mem, lhs, rhs)
	s.Require().NoError(err)
	defer got.Release()

	expected := s.expectInt32([]int32{0, 0, 0, 12}, []bool{false, false, false, true})
	defer expected.Release()
	s.Truef(got.Equal(expected), "got: %s, expected: %s", got, expected)
}

func (s *ArithmeticSuite) TestAddMismatchedLength() {
	lhs := s.expectInt32([]int32{5, 6}, nil)
	defer lhs.Release()
	rhs := s.expectInt32([]int32{5}, nil)
	defer rhs.Release()

	_, err := compute.Add(s.mem, lhs, rhs)
	s.ErrorIs(err, compute.ErrInvalid)
}

func (s *ArithmeticSuite) TestSubtract() {
	lhs, rhs := s.fixtures()
	defer lhs.Release()
	defer rhs.Release()

	got, err := compute.Subtract(s.mem, lhs, rhs)
	s.Require().NoError(err)
	defer got.Release()

	expected := s.expectInt32([]int32{0, 0, 0, 0}, []bool{false, false, false, true})
	defer expected.Release()
	s.Truef(got.Equal(expected), "got: %s, expected: %s", got, expected)
}

func (s *ArithmeticSuite) TestMultiply() {
	lhs, rhs := s.fixtures()
	defer lhs.Release()
	defer rhs.Release()

	got, err := compute.Multiply(s.mem, lhs, rhs)
	s.Require().NoError(err)
	defer got.Release()

	expected := s.expectInt32([]int32{0, 0, 0, 36}, []bool{false, false, false, true})
	defer expected.Release()
	s.Truef(got.Equal(expected), "got: %s, expected: %s", got, expected)
}

func (s *ArithmeticSuite) TestDivide() {
	lhs, rhs := s.fixtures()
	defer lhs.Release()
	defer rhs.Release()

	got, err := compute.Divide(s.mem, lhs, rhs)
	s.Require().NoError(err)
	defer got.Release()

	expected := s.expectInt32([]int32{0, 0, 0, 1}, []bool{false, false, false, true})
	defer expected.Release()
	s.Truef(got.Equal(expected), "got: %s, expected: %s", got, expected)
}

func (s *ArithmeticSuite) TestDivideByZero() {
	lhs := s.expectInt32([]int32{6}, nil)
	defer lhs.Release()
	rhs := s.expectInt32([]int32{0}, nil)
	defer rhs.Release()

	_, err := compute.Divide(s.mem, lhs, rhs)
	s.ErrorIs(err, compute.ErrInvalid)
}

func (s *ArithmeticSuite) TestDivideByZeroOnNull() {
	// the zero divisor sits under a null output slot: masked, not an error
	lhs := s.expectInt32([]int32{0}, []bool{false})
	defer lhs.Release()
	rhs := s.expectInt32([]int32{0}, []bool{true})
	defer rhs.Release()

	got, err := compute.Divide(s.mem, lhs, rhs)
	s.Require().NoError(err)
	defer got.Release()

	s.Equal(1, got.Len())
	s.True(got.IsNull(0))
}

func (s *ArithmeticSuite) TestDivideScalar() {
	lhs := s.expectInt32([]int32{0, 6}, []bool{false, true})
	defer lhs.Release()

	got, err := compute.DivideScalar(s.mem, lhs, 3)
	s.Require().NoError(err)
	defer got.Release()

	expected := s.expectInt32([]int32{0, 2}, []bool{false, true})
	defer expected.Release()
	s.Truef(got.Equal(expected), "got: %s, expected: %s", got, expected)
}

func (s *ArithmeticSuite) TestDivideScalarByZero() {
	lhs := s.expectInt32([]int32{1, 2, 3}, nil)
	defer lhs.Release()

	_, err := compute.DivideScalar(s.mem, lhs, 0)
	s.ErrorIs(err, compute.ErrInvalid)
}

func (s *ArithmeticSuite) TestScalarOps() {
	lhs := s.expectInt32([]int32{0, 6}, []bool{false, true})
	defer lhs.Release()

	for _, tc := range []struct {
		op       compute.Operator
		expected []int32
	}{
		{compute.OpAdd, []int32{0, 9}},
		{compute.OpSubtract, []int32{0, 3}},
		{compute.OpMultiply, []int32{0, 18}},
		{compute.OpDivide, []int32{0, 2}},
	} {
		got, err := compute.ArithmeticScalar(s.mem, lhs, tc.op, 3)
		s.Require().NoError(err)

		expected := s.expectInt32(tc.expected, []bool{false, true})
		s.Truef(got.Equal(expected), "%s: got: %s, expected: %s", tc.op, got, expected)
		expected.Release()
		got.Release()
	}
}

func (s *ArithmeticSuite) TestNegateTwiceRoundTrips() {
	arr := s.expectInt32([]int32{0, 6, -3}, []bool{false, true, true})
	defer arr.Release()

	once := compute.Negate(s.mem, arr)
	defer once.Release()
	twice := compute.Negate(s.mem, once)
	defer twice.Release()

	s.Same(arr.Validity(), twice.Validity())
	s.Truef(twice.Equal(arr), "got: %s, expected: %s", twice, arr)
}

func (s *ArithmeticSuite) TestPowfScalar() {
	arr := array.NewPrimitive(s.mem, arrow.PrimitiveTypes.Float32, []float32{2, 0}, []bool{true, false})
	defer arr.Release()

	got := compute.PowfScalar(s.mem, arr, 2)
	defer got.Release()

	expected := array.NewPrimitive(s.mem, arrow.PrimitiveTypes.Float32, []float32{4, 0}, []bool{true, false})
	defer expected.Release()
	s.Truef(got.Equal(expected), "got: %s, expected: %s", got, expected)
}

func (s *ArithmeticSuite) TestArithmeticDispatch() {
	lhs, rhs := s.fixtures()
	defer lhs.Release()
	defer rhs.Release()

	got, err := compute.Arithmetic(s.mem, lhs, compute.OpAdd, rhs)
	s.Require().NoError(err)
	defer got.Release()

	expected := s.expectInt32([]int32{0, 0, 0, 12}, []bool{false, false, false, true})
	defer expected.Release()
	s.Truef(expected.EqualArray(got), "got: %s, expected: %s", got, expected)
	s.True(arrow.TypeEqual(arrow.PrimitiveTypes.Int32, got.DataType()))
}

func (s *ArithmeticSuite) TestArithmeticMismatchedTypes() {
	lhs := s.expectInt32([]int32{1}, nil)
	defer lhs.Release()
	rhs := array.NewPrimitive(s.mem, arrow.PrimitiveTypes.Int64, []int64{1}, nil)
	defer rhs.Release()

	_, err := compute.Arithmetic(s.mem, lhs, compute.OpAdd, rhs)
	s.ErrorIs(err, compute.ErrNotImplemented)
}

func (s *ArithmeticSuite) TestArithmeticUnsupportedType() {
	lhs := array.NewPrimitive(s.mem, arrow.FixedWidthTypes.Time32s, []int32{1}, nil)
	defer lhs.Release()
	rhs := array.NewPrimitive(s.mem, arrow.FixedWidthTypes.Time32s, []int32{2}, nil)
	defer rhs.Release()

	_, err := compute.Arithmetic(s.mem, lhs, compute.OpAdd, rhs)
	s.ErrorIs(err, compute.ErrNotImplemented)
	s.ErrorContains(err, "time32")
}

func (s *ArithmeticSuite) TestArithmeticDuration() {
	lhs := array.NewPrimitive(s.mem, arrow.FixedWidthTypes.Duration_s, []int64{30, 60}, nil)
	defer lhs.Release()
	rhs := array.NewPrimitive(s.mem, arrow.FixedWidthTypes.Duration_s, []int64{15, 45}, nil)
	defer rhs.Release()

	got, err := compute.Arithmetic(s.mem, lhs, compute.OpSubtract, rhs)
	s.Require().NoError(err)
	defer got.Release()

	expected := array.NewPrimitive(s.mem, arrow.FixedWidthTypes.Duration_s, []int64{15, 15}, nil)
	defer expected.Release()
	s.Truef(expected.EqualArray(got), "got: %s, expected: %s", got, expected)
}

func (s *ArithmeticSuite) TestArithmeticDecimal() {
	dtype := &arrow.Decimal128Type{Precision: 10, Scale: 2}
	lhs := array.NewPrimitive(s.mem, dtype, []decimal128.Num{decimal128.FromI64(0), decimal128.FromI64(600)}, []bool{false, true})
	defer lhs.Release()
	rhs := array.NewPrimitive(s.mem, dtype, []decimal128.Num{decimal128.FromI64(0), decimal128.FromI64(150)}, []bool{true, true})
	defer rhs.Release()

	got, err := compute.Arithmetic(s.mem, lhs, compute.OpDivide, rhs)
	s.Require().NoError(err)
	defer got.Release()

	// the zero divisor under the null slot is masked; 600/150 = 4
	expected := array.NewPrimitive(s.mem, dtype, []decimal128.Num{{}, decimal128.FromI64(4)}, []bool{false, true})
	defer expected.Release()
	s.Truef(expected.EqualArray(got), "got: %s, expected: %s", got, expected)
}

func TestArithmetic(t *testing.T) {
	suite.Run(t, new(ArithmeticSuite))
}
