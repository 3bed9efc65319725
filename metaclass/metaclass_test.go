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

package metaclass_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esterlein/metapool/arena"
	"github.com/esterlein/metapool/metaclass"
)

func flatConfig() metaclass.Config {
	return metaclass.Config{
		Capacity:       metaclass.Flat,
		BaseBlockCount: 4,
		StrideStep:     8,
		Pivots:         []int{8, 40},
	}
}

func TestExpandFlatProducesConstantBlockCount(t *testing.T) {
	t.Parallel()

	classes := flatConfig().Expand()
	require.Len(t, classes, 5)

	want := []int{8, 16, 24, 32, 40}
	for i, c := range classes {
		assert.Equal(t, want[i], c.Stride)
		assert.Equal(t, 4, c.BlockCount)
	}
}

func TestExpandAppliesCapacityAtInteriorPivots(t *testing.T) {
	t.Parallel()

	cfg := metaclass.Config{
		Capacity:       metaclass.Div2,
		BaseBlockCount: 64,
		StrideStep:     8,
		Pivots:         []int{8, 24, 40},
	}
	classes := cfg.Expand()
	require.Len(t, classes, 5)

	assert.Equal(t, 64, classes[0].BlockCount) // 8
	assert.Equal(t, 64, classes[1].BlockCount) // 16
	assert.Equal(t, 32, classes[2].BlockCount) // 24, pivot crossed: /2
	assert.Equal(t, 32, classes[3].BlockCount) // 32
	assert.Equal(t, 16, classes[4].BlockCount) // 40, pivot crossed: /2
}

func TestValidateRejectsNonIncreasingPivots(t *testing.T) {
	t.Parallel()

	cfg := flatConfig()
	cfg.Pivots = []int{40, 8}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPow2StrideStep(t *testing.T) {
	t.Parallel()

	cfg := flatConfig()
	cfg.StrideStep = 12
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsPivotNotMultipleOfStep(t *testing.T) {
	t.Parallel()

	cfg := flatConfig()
	cfg.Pivots = []int{8, 37}
	assert.Error(t, cfg.Validate())
}

func TestBuildMaterializesConsecutiveProxyIndices(t *testing.T) {
	t.Parallel()

	cfg := flatConfig()
	a := arena.Construct(cfg.ArenaSize()+64, 64)

	mp := metaclass.Build(cfg, a, 10)
	proxies := mp.Proxies()
	require.Len(t, proxies, 5)

	for i, p := range proxies {
		assert.Equal(t, 10+i, p.ProxyIndex())
		assert.Equal(t, cfg.Expand()[i].Stride, p.Stride())
	}
}

func TestBuildFetchesWorkingFreelists(t *testing.T) {
	t.Parallel()

	cfg := flatConfig()
	a := arena.Construct(cfg.ArenaSize()+64, 64)
	mp := metaclass.Build(cfg, a, 0)

	for _, p := range mp.Proxies() {
		ptr := p.Fetch()
		require.NotNil(t, ptr)
		p.Release(ptr)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	cfg := flatConfig()
	clone := cfg.Clone()
	clone.Pivots[0] = 999

	assert.NotEqual(t, cfg.Pivots[0], clone.Pivots[0])
}
