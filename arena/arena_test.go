// Copyright 2026 The Metapool Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package arena_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esterlein/metapool/arena"
)

func TestFetchIsAlignedAndNonOverlapping(t *testing.T) {
	t.Parallel()

	a := arena.Construct(4096, 64)
	require.NotNil(t, a)

	seen := map[uintptr]bool{}
	for i := 0; i < 16; i++ {
		p := a.Fetch(32, 16, 0)
		require.NotNil(t, p)
		addr := uintptr(unsafe.Pointer(p))
		assert.Zero(t, addr%16, "block %d misaligned: %#x", i, addr)
		assert.False(t, seen[addr], "block %d reused address %#x", i, addr)
		seen[addr] = true
	}
}

func TestFetchHonorsShift(t *testing.T) {
	t.Parallel()

	a := arena.Construct(1024, 16)
	const header = 2

	p := a.Fetch(30, 8, header)
	require.NotNil(t, p)

	userAddr := uintptr(unsafe.Pointer(p)) + header
	assert.Zero(t, userAddr%8, "user region not aligned: %#x", userAddr)
}

func TestResetRewindsOffsetNotCapacity(t *testing.T) {
	t.Parallel()

	a := arena.Construct(256, 8)
	first := a.Fetch(64, 8, 0)
	require.NotNil(t, first)
	assert.Equal(t, 64, a.Used())

	a.Reset()
	assert.Zero(t, a.Used())

	second := a.Fetch(64, 8, 0)
	require.NotNil(t, second)
	assert.Equal(t, first, second, "reset should make the same address available again")
}

func TestFetchOverCapacityIsFatal(t *testing.T) {
	t.Parallel()

	a := arena.Construct(64, 8)
	assert.Panics(t, func() {
		a.Fetch(128, 8, 0)
	})
}

func TestConstructRejectsNonPowerOfTwoAlignment(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		arena.Construct(64, 3)
	})
}

func TestDistinctArenasHaveDistinctIDs(t *testing.T) {
	t.Parallel()

	a1 := arena.Construct(64, 8)
	a2 := arena.Construct(64, 8)
	assert.NotEqual(t, a1.ID, a2.ID)
}
