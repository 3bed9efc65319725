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

// Package metaclass declares a single metapool's shape: its stride range,
// the step between consecutive strides, the capacity-growth policy across
// pivots, and the expansion of that declaration into concrete (stride,
// block count) classes.
package metaclass

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

const (
	// MinStride is the smallest stride any class may declare.
	MinStride = 8
	// MaxStride is the largest stride any class may declare.
	MaxStride = 1 << 30 // 1 GiB
	// MinStrideStep is the smallest allowed step between classes.
	MinStrideStep = 8
	// MaxStrideStep is the largest allowed step between classes.
	MaxStrideStep = 512 << 20 // 512 MiB
)

// Config is one metapool declaration: a capacity function, a base block
// count for the smallest stride, a stride step, and a monotonically
// increasing sequence of pivots at which the capacity function is applied.
//
// Pivots must be strictly increasing multiples of StrideStep. The first
// pivot is the metapool's stride_min; the last is its stride_max. A config
// with exactly two pivots has a single capacity-function application (at
// the last pivot only, per spec: the count changes at pivot boundaries, not
// at every stride); with N pivots, the function is applied at each of the
// interior and final pivots in turn.
type Config struct {
	Capacity       CapacityFunc
	BaseBlockCount int
	StrideStep     int
	Pivots         []int
}

// Class is one expanded (stride, block count) pair within a metapool.
type Class struct {
	Stride     int
	BlockCount int
}

// Clone returns an independent deep copy of c, so callers (tests, the
// mtpstencil generator) can mutate a copy without perturbing a shared
// package-level Config.
func (c Config) Clone() Config {
	var out Config
	if err := deepcopy.Copy(&out, &c); err != nil {
		// deepcopy only fails on unsupported field kinds; Config's fields
		// are all plain ints and an int slice, so this cannot happen.
		panic(fmt.Sprintf("metaclass: unexpected deep-copy failure: %v", err))
	}
	return out
}

// StrideMin is the smallest stride this config declares.
func (c Config) StrideMin() int {
	if len(c.Pivots) == 0 {
		return 0
	}
	return c.Pivots[0]
}

// StrideMax is the largest stride this config declares.
func (c Config) StrideMax() int {
	if len(c.Pivots) == 0 {
		return 0
	}
	return c.Pivots[len(c.Pivots)-1]
}

// Validate checks the structural invariants a Config must satisfy before it
// can be expanded into classes: a valid capacity function, a positive base
// block count, a power-of-two stride step within bounds, at least two
// strictly increasing pivots that are all multiples of the step, and
// strides within [MinStride, MaxStride].
func (c Config) Validate() error {
	if !c.Capacity.Valid() {
		return fmt.Errorf("metaclass: invalid capacity function %d", c.Capacity)
	}
	if c.BaseBlockCount < 1 {
		return fmt.Errorf("metaclass: base block count must be >= 1, got %d", c.BaseBlockCount)
	}
	if c.StrideStep < MinStrideStep || c.StrideStep > MaxStrideStep {
		return fmt.Errorf("metaclass: stride step %d out of range [%d, %d]", c.StrideStep, MinStrideStep, MaxStrideStep)
	}
	if !isPow2(c.StrideStep) {
		return fmt.Errorf("metaclass: stride step %d is not a power of two", c.StrideStep)
	}
	if len(c.Pivots) < 2 {
		return fmt.Errorf("metaclass: need at least 2 pivots (min and max stride), got %d", len(c.Pivots))
	}
	prev := -1
	for i, p := range c.Pivots {
		if p <= 0 || p%c.StrideStep != 0 {
			return fmt.Errorf("metaclass: pivot[%d]=%d is not a positive multiple of stride step %d", i, p, c.StrideStep)
		}
		if i > 0 && p <= prev {
			return fmt.Errorf("metaclass: pivots must be strictly increasing, pivot[%d]=%d <= pivot[%d]=%d", i, p, i-1, prev)
		}
		prev = p
	}
	if c.StrideMin() < MinStride {
		return fmt.Errorf("metaclass: stride min %d below MinStride %d", c.StrideMin(), MinStride)
	}
	if c.StrideMax() > MaxStride {
		return fmt.Errorf("metaclass: stride max %d above MaxStride %d", c.StrideMax(), MaxStride)
	}
	return nil
}

// Expand materializes this config's stride sequence and per-class block
// counts. It assumes Validate has already been called successfully.
func (c Config) Expand() []Class {
	min, max := c.StrideMin(), c.StrideMax()
	n := (max-min)/c.StrideStep + 1
	classes := make([]Class, n)

	pivotSet := make(map[int]bool, len(c.Pivots))
	for _, p := range c.Pivots[1:] {
		pivotSet[p] = true
	}

	count := c.BaseBlockCount
	for i := 0; i < n; i++ {
		stride := min + i*c.StrideStep
		if i > 0 && pivotSet[stride] {
			count = c.Capacity.apply(count)
		}
		classes[i] = Class{Stride: stride, BlockCount: count}
	}
	return classes
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
