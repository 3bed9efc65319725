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

package allocator_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esterlein/metapool/allocator"
	"github.com/esterlein/metapool/internal/header"
	"github.com/esterlein/metapool/metaclass"
	"github.com/esterlein/metapool/metaset"
)

func flatMetaset(t *testing.T) *metaset.Metaset {
	t.Helper()
	ms, err := metaset.Build(metaclass.Config{
		Capacity: metaclass.Flat, BaseBlockCount: 4, StrideStep: 8, Pivots: []int{8, 40},
	})
	require.NoError(t, err)
	return ms
}

func TestAllocFreeRoundTripsThroughHeader(t *testing.T) {
	t.Parallel()

	a := allocator.New(flatMetaset(t))
	p := a.Alloc(6, 1)
	require.NotNil(t, p)
	assert.Equal(t, 0, header.Read(p))

	a.Free(p)
}

func TestFreeNilIsNoop(t *testing.T) {
	t.Parallel()

	a := allocator.New(flatMetaset(t))
	assert.NotPanics(t, func() { a.Free(nil) })
}

func TestAllocEscalatesOnExhaustedClass(t *testing.T) {
	t.Parallel()

	ms, err := metaset.Build(metaclass.Config{
		Capacity: metaclass.Flat, BaseBlockCount: 1, StrideStep: 8, Pivots: []int{8, 16},
	})
	require.NoError(t, err)
	a := allocator.New(ms)

	first := a.Alloc(1, 1)
	require.NotNil(t, first)
	assert.Equal(t, 0, header.Read(first))

	second := a.Alloc(1, 1)
	require.NotNil(t, second)
	assert.Equal(t, 1, header.Read(second), "expected escalation to the next proxy")

	assert.Panics(t, func() { a.Alloc(1, 1) })
}

func TestAllocRejectsZeroSize(t *testing.T) {
	t.Parallel()

	a := allocator.New(flatMetaset(t))
	assert.Panics(t, func() { a.Alloc(0, 1) })
}

func TestConstructPlacesValueAndDestructReleases(t *testing.T) {
	t.Parallel()

	a := allocator.New(flatMetaset(t))

	type payload struct{ n int }
	p := allocator.Construct(a, payload{n: 7})
	require.NotNil(t, p)
	assert.Equal(t, 7, p.n)

	allocator.Destruct(a, p)
}

func TestTLSGivesEachGoroutineItsOwnAllocator(t *testing.T) {
	t.Parallel()

	tls := allocator.NewTLS(func() *metaset.Metaset { return flatMetaset(t) })

	var wg sync.WaitGroup
	ptrs := make(chan *allocator.Allocator, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ptrs <- tls.Get()
		}()
	}
	wg.Wait()
	close(ptrs)

	var seen []*allocator.Allocator
	for p := range ptrs {
		seen = append(seen, p)
	}
	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	assert.NotSame(t, seen[0].Metaset(), seen[1].Metaset(),
		"each goroutine must get its own arena and freelists, not a shared Metaset")
}

func TestTLSGetIsStablePerGoroutine(t *testing.T) {
	t.Parallel()

	tls := allocator.NewTLS(func() *metaset.Metaset { return flatMetaset(t) })
	a1 := tls.Get()
	a2 := tls.Get()
	assert.Same(t, a1, a2)
}

func TestTLSConcurrentAllocDoesNotHandOutSameBlock(t *testing.T) {
	t.Parallel()

	tls := allocator.NewTLS(func() *metaset.Metaset { return flatMetaset(t) })

	const goroutines = 4
	const perGoroutine = 4

	var wg sync.WaitGroup
	results := make(chan *byte, goroutines*perGoroutine)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := tls.Get()
			for j := 0; j < perGoroutine; j++ {
				results <- a.Alloc(1, 1)
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[*byte]bool)
	for p := range results {
		require.False(t, seen[p], "same block handed out twice across goroutines")
		seen[p] = true
	}
}

func TestElementAdapterRoundTrips(t *testing.T) {
	t.Parallel()

	core := allocator.New(flatMetaset(t))
	ea := allocator.NewElementAdapter[uint64](core)

	p := ea.Allocate(1)
	require.NotNil(t, p)
	*p = 99
	ea.Deallocate(p, 1)
}

func TestResourceAdapterEqualityIsIdentity(t *testing.T) {
	t.Parallel()

	ms := flatMetaset(t)
	ra1 := allocator.NewResourceAdapter(allocator.New(ms))
	ra2 := allocator.NewResourceAdapter(allocator.New(ms))

	assert.False(t, ra1.Equal(ra2), "distinct cores must not compare equal")
	assert.True(t, ra1.Equal(ra1))
}
