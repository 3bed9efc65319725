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

package vault_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esterlein/metapool/allocator"
	"github.com/esterlein/metapool/metaclass"
	"github.com/esterlein/metapool/metaset"
	"github.com/esterlein/metapool/vault"
)

func newCore(t *testing.T) *allocator.Allocator {
	t.Helper()
	ms, err := metaset.Build(metaclass.Config{
		Capacity: metaclass.Flat, BaseBlockCount: 8, StrideStep: 8, Pivots: []int{8, 512},
	})
	require.NoError(t, err)
	return allocator.New(ms)
}

// S5 — push 9 values into a fresh vault<u32>; after the 9th, capacity >= 16
// and the sequence is [0..8]; reset(4, 42) yields size 4, all 42.
func TestVaultGrowthScenarioS5(t *testing.T) {
	t.Parallel()

	v := vault.New[uint32](newCore(t))
	for i := uint32(0); i < 9; i++ {
		v.PushBack(i)
	}

	assert.Equal(t, 9, v.Len())
	assert.GreaterOrEqual(t, v.Cap(), 16)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8}, v.Raw())

	v.ResetWith(4, 42)
	assert.Equal(t, 4, v.Len())
	for _, x := range v.Raw() {
		assert.Equal(t, uint32(42), x)
	}
}

func TestReserveNeverShrinks(t *testing.T) {
	t.Parallel()

	v := vault.New[int](newCore(t))
	v.Reserve(32)
	assert.Equal(t, 32, v.Cap())

	v.Reserve(4)
	assert.Equal(t, 32, v.Cap(), "reserve must never shrink capacity")
}

func TestPushPopIsIdentityWithoutGrowth(t *testing.T) {
	t.Parallel()

	v := vault.New[int](newCore(t))
	v.Reserve(8)

	v.PushBack(1)
	v.PushBack(2)
	got := v.PopBack()
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, v.Len())
}

func TestEmplaceShiftsTailRight(t *testing.T) {
	t.Parallel()

	v := vault.New[int](newCore(t))
	v.PushBack(1)
	v.PushBack(2)
	v.PushBack(4)

	v.Emplace(2, 3)
	assert.Equal(t, []int{1, 2, 3, 4}, v.Raw())
}

func TestEraseShiftsTailLeft(t *testing.T) {
	t.Parallel()

	v := vault.New[int](newCore(t))
	for _, x := range []int{1, 2, 3, 4} {
		v.PushBack(x)
	}
	v.Erase(1)
	assert.Equal(t, []int{1, 3, 4}, v.Raw())
}

func TestResizeGrowsWithZeroAndShrinksByTruncating(t *testing.T) {
	t.Parallel()

	v := vault.New[int](newCore(t))
	v.Resize(3)
	assert.Equal(t, []int{0, 0, 0}, v.Raw())

	v.PushBack(9)
	v.Resize(2)
	assert.Equal(t, []int{0, 0}, v.Raw())
}

func TestClearPreservesStorage(t *testing.T) {
	t.Parallel()

	v := vault.New[int](newCore(t))
	v.Reserve(16)
	v.PushBack(1)
	v.Clear()

	assert.Zero(t, v.Len())
	assert.Equal(t, 16, v.Cap())
}

func TestMoveFromStealsStorageAndEmptiesSource(t *testing.T) {
	t.Parallel()

	src := vault.New[int](newCore(t))
	src.PushBack(1)
	src.PushBack(2)

	dst := vault.New[int](newCore(t))
	dst.MoveFrom(src)

	assert.Equal(t, []int{1, 2}, dst.Raw())
	assert.Zero(t, src.Len())
	assert.Zero(t, src.Cap())
}

func TestOutOfBoundsAccessIsFatal(t *testing.T) {
	t.Parallel()

	v := vault.New[int](newCore(t))
	v.PushBack(1)

	assert.Panics(t, func() { v.At(1) })
	assert.Panics(t, func() {
		empty := vault.New[int](newCore(t))
		empty.PopBack()
	})
}

func TestSelfMoveIsFatal(t *testing.T) {
	t.Parallel()

	v := vault.New[int](newCore(t))
	assert.Panics(t, func() { v.MoveFrom(v) })
}
