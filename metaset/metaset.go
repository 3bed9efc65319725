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

// Package metaset composes several metaclass configs into the single
// static binding a thread-local or shared allocator core runs against: it
// validates that the configs jointly tile a stride range with no gap and
// no overlap, sizes and constructs the backing arena, materializes every
// metapool, and assembles the flat proxy table the allocator's hot path
// indexes into.
package metaset

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/esterlein/metapool/arena"
	"github.com/esterlein/metapool/internal/dbg"
	"github.com/esterlein/metapool/metaclass"
	"github.com/esterlein/metapool/proxy"
)

// ArenaAlignment is the alignment requested for a Metaset's backing arena.
const ArenaAlignment = 64

// MaxArenaSize is the implementation-defined cap on a Metaset's aggregate
// byte demand.
const MaxArenaSize = 8 << 30 // 8 GiB

// RangeMetadata describes one metapool's contribution to a Metaset, after
// sorting by stride_min and assigning global proxy indices.
type RangeMetadata struct {
	StrideMin      int
	StrideMax      int
	StrideStep     int
	StrideCount    int
	StrideShift    int
	BaseProxyIndex int
}

// Metaset is the fully materialized composition of one or more metapools.
type Metaset struct {
	arena     *arena.Arena
	ranges    []RangeMetadata
	metapools []*metaclass.Metapool
	proxies   []proxy.Proxy
}

// Build validates configs, sizes and constructs a backing arena, and
// materializes every metapool into a Metaset. It returns an error for any
// configuration-time failure: an individually invalid config, or a set of
// configs that does not jointly tile its stride range without gap or
// overlap. A single-config Metaset is never checked for tiling, since there
// is nothing for it to overlap or gap against.
func Build(configs ...metaclass.Config) (*Metaset, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("metaset: at least one metapool config is required")
	}

	for i, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("metaset: config %d: %w", i, err)
		}
	}

	order := make([]int, len(configs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return configs[order[i]].StrideMin() < configs[order[j]].StrideMin()
	})
	sorted := make([]metaclass.Config, len(configs))
	for i, idx := range order {
		sorted[i] = configs[idx]
	}

	if len(sorted) > 1 {
		for i := 1; i < len(sorted); i++ {
			prev, next := sorted[i-1], sorted[i]
			want := prev.StrideMax() + prev.StrideStep
			if next.StrideMin() != want {
				return nil, fmt.Errorf("metaset: gap or overlap between metapool %d (max=%d, step=%d) and metapool %d (min=%d): expected min=%d",
					i-1, prev.StrideMax(), prev.StrideStep, i, next.StrideMin(), want)
			}
		}
	}

	total := 0
	for _, cfg := range sorted {
		total += cfg.ArenaSize()
	}
	if total > MaxArenaSize {
		return nil, fmt.Errorf("metaset: aggregate arena size %d exceeds cap %d", total, MaxArenaSize)
	}

	backing := arena.Construct(total, ArenaAlignment)

	ms := &Metaset{arena: backing}
	baseProxyIndex := 0
	for _, cfg := range sorted {
		mp := metaclass.Build(cfg, backing, baseProxyIndex)
		ms.metapools = append(ms.metapools, mp)
		ms.proxies = append(ms.proxies, mp.Proxies()...)

		ms.ranges = append(ms.ranges, RangeMetadata{
			StrideMin:      mp.StrideMin(),
			StrideMax:      mp.StrideMax(),
			StrideStep:     cfg.StrideStep,
			StrideCount:    len(mp.Classes()),
			StrideShift:    log2(cfg.StrideStep),
			BaseProxyIndex: baseProxyIndex,
		})
		baseProxyIndex += len(mp.Classes())
	}

	return ms, nil
}

// MustBuild is like Build, but fails fatally instead of returning an error.
// Intended for package-level Metaset variables, where a bad configuration
// is a programming error that should surface immediately at program init.
func MustBuild(configs ...metaclass.Config) *Metaset {
	ms, err := Build(configs...)
	if err != nil {
		dbg.Fatal("metaset build", "reason", err.Error())
	}
	return ms
}

// Ranges returns the sorted range metadata for every metapool in this
// Metaset.
func (ms *Metaset) Ranges() []RangeMetadata { return ms.ranges }

// Proxies returns the flat proxy table, indexed by global proxy index.
func (ms *Metaset) Proxies() []proxy.Proxy { return ms.proxies }

// ProxyCount returns the total number of freelists across every metapool.
func (ms *Metaset) ProxyCount() int { return len(ms.proxies) }

// ArenaSize returns the byte size of this Metaset's backing arena.
func (ms *Metaset) ArenaSize() int { return ms.arena.Size() }

// Reset re-threads every freelist in every metapool as fully free, without
// touching the arena's bump offset: the arena's storage is reused in place,
// not re-fetched.
func (ms *Metaset) Reset() {
	for _, p := range ms.proxies {
		p.Reset()
	}
}

func log2(n int) int {
	return bits.TrailingZeros(uint(n))
}
