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

// Package compute provides null aware vectorized kernels over primitive
// arrays: a null propagation algebra, a generic elementwise kernel framework,
// an arithmetic operator layer and a gather (take) implementation.
//
// Every kernel is a pure function: operands are never mutated, results are
// freshly allocated and the first recoverable error fails the whole call with
// no partial results.
package compute

import "errors"

// Kernel errors wrap exactly one of these sentinels; discriminate with
// errors.Is.
var (
	// ErrInvalid marks recoverable invalid argument conditions: operand
	// length mismatches, zero divisors and bad type combinations.
	ErrInvalid = errors.New("invalid")
	// ErrNotImplemented marks operations on logical types outside the
	// supported set.
	ErrNotImplemented = errors.New("not implemented")
	// ErrIndexOverflow marks a stored take index that cannot be represented
	// as a platform index. Distinct from an out of range index, which is a
	// caller contract violation and faults.
	ErrIndexOverflow = errors.New("index overflow")
)
