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
	"math/big"
	"math/bits"

	"github.com/apache/arrow/go/v8/arrow/decimal128"
	"github.com/apache/arrow/go/v8/arrow/memory"

	"github.com/elferherrera/arrow2/array"
	"github.com/elferherrera/arrow2/internal/debug"
)

// Decimal128 arithmetic treats decimal128.Num as a 128 bit two's complement
// integer backing representation; precision and scale semantics stay with the
// logical type and are not interpreted here.

func arithmeticDecimal(mem memory.Allocator, lhs *array.Primitive[decimal128.Num], op Operator, rhs *array.Primitive[decimal128.Num]) (*array.Primitive[decimal128.Num], error) {
	switch op {
	case OpAdd:
		return Binary(mem, lhs, rhs, decimalAdd)
	case OpSubtract:
		return Binary(mem, lhs, rhs, decimalSub)
	case OpMultiply:
		return Binary(mem, lhs, rhs, decimalMul)
	case OpDivide:
		return divideImpl(mem, lhs, rhs, decimalDiv, decimalIsZero)
	}
	debug.Assert(false, "unknown arithmetic operator")
	return nil, fmt.Errorf("%w: arithmetic operator %s", ErrNotImplemented, op)
}

func decimalIsZero(n decimal128.Num) bool { return n == decimal128.Num{} }

func decimalAdd(a, b decimal128.Num) decimal128.Num {
	lo, carry := bits.Add64(a.LowBits(), b.LowBits(), 0)
	hi, _ := bits.Add64(uint64(a.HighBits()), uint64(b.HighBits()), carry)
	return decimal128.New(int64(hi), lo)
}

func decimalSub(a, b decimal128.Num) decimal128.Num {
	lo, borrow := bits.Sub64(a.LowBits(), b.LowBits(), 0)
	hi, _ := bits.Sub64(uint64(a.HighBits()), uint64(b.HighBits()), borrow)
	return decimal128.New(int64(hi), lo)
}

func decimalMul(a, b decimal128.Num) decimal128.Num {
	var product big.Int
	product.Mul(decimalToBig(a), decimalToBig(b))
	return decimalFromBig(&product)
}

// decimalDiv truncates toward zero, matching native integer division. The
// caller guards against a zero divisor.
func decimalDiv(a, b decimal128.Num) decimal128.Num {
	var quotient big.Int
	quotient.Quo(decimalToBig(a), decimalToBig(b))
	return decimalFromBig(&quotient)
}

var (
	decimalModulus = new(big.Int).Lsh(big.NewInt(1), 128)
	lowBitsMask    = new(big.Int).SetUint64(^uint64(0))
)

func decimalToBig(n decimal128.Num) *big.Int {
	v := big.NewInt(n.HighBits())
	v.Lsh(v, 64)
	return v.Add(v, new(big.Int).SetUint64(n.LowBits()))
}

// decimalFromBig truncates v to 128 bit two's complement.
func decimalFromBig(v *big.Int) decimal128.Num {
	var wrapped big.Int
	wrapped.Mod(v, decimalModulus)
	lo := new(big.Int).And(&wrapped, lowBitsMask)
	hi := new(big.Int).Rsh(&wrapped, 64)
	return decimal128.New(int64(hi.Uint64()), lo.Uint64())
}
