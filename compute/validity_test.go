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

	"github.com/apache/arrow/go/v8/arrow/memory"
	"github.com/stretchr/testify/assert"

	"github.com/elferherrera/arrow2/array"
	"github.com/elferherrera/arrow2/compute"
)

func TestCombineValiditiesBothAllValid(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	assert.Nil(t, compute.CombineValidities(mem, nil, nil))
}

func TestCombineValiditiesOneSided(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	bm := array.NewBitmapFromBools(mem, []bool{true, false, true})
	defer bm.Release()

	// the lone bitmap is reused as the result, not copied
	got := compute.CombineValidities(mem, bm, nil)
	assert.Same(t, bm, got)
	got.Release()

	got = compute.CombineValidities(mem, nil, bm)
	assert.Same(t, bm, got)
	got.Release()
}

func TestCombineValiditiesIntersection(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	lhs := array.NewBitmapFromBools(mem, []bool{true, true, false, false})
	defer lhs.Release()
	rhs := array.NewBitmapFromBools(mem, []bool{true, false, true, false})
	defer rhs.Release()

	got := compute.CombineValidities(mem, lhs, rhs)
	defer got.Release()

	expected := array.NewBitmapFromBools(mem, []bool{true, false, false, false})
	defer expected.Release()
	assert.True(t, got.Equal(expected))
}
