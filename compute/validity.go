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
	"github.com/apache/arrow/go/v8/arrow/memory"

	"github.com/elferherrera/arrow2/array"
	"github.com/elferherrera/arrow2/internal/debug"
)

// CombineValidities computes the output validity of a binary elementwise
// operation from its operands' validities. It is the single source of truth
// for null propagation: every binary kernel routes through it.
//
// A nil bitmap means all valid. When both operands are all valid the result
// is all valid (nil). When only one operand carries a bitmap the result is
// that bitmap itself, retained rather than copied. When both carry bitmaps
// the result is their intersection.
//
// The returned bitmap, when non nil, holds a reference the caller must
// release.
func CombineValidities(mem memory.Allocator, lhs, rhs *array.Bitmap) *array.Bitmap {
	switch {
	case lhs == nil && rhs == nil:
		return nil
	case rhs == nil:
		lhs.Retain()
		return lhs
	case lhs == nil:
		rhs.Retain()
		return rhs
	default:
		debug.Assert(lhs.Len() == rhs.Len(), "combining validities of different lengths")
		return lhs.And(mem, rhs)
	}
}
