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

package metaset

import (
	"github.com/esterlein/metapool/internal/header"
	"github.com/esterlein/metapool/metaclass"
)

// quantum is the minimum alignment every allocation is rounded up to,
// regardless of the caller-requested alignment.
const quantum = metaclass.Quantum

// Lookup runs the size-class routing algorithm: given a caller's requested
// size and alignment, it finds the smallest proxy whose stride covers
// size+header.Size rounded up to max(quantum, alignment), within the
// sorted range list. It is not a binary search; it is a short linear walk
// over the (typically tiny) range list, exploiting the sorted,
// step-regular layout of each range.
//
// Lookup returns false if no range's stride_max can cover the request.
func (ms *Metaset) Lookup(rawSize, alignment int) (proxyIndex int, ok bool) {
	allocSize := rawSize + header.Size
	alignTo := alignment
	if alignTo < quantum {
		alignTo = quantum
	}
	aligned := roundUp(allocSize, alignTo)

	for _, r := range ms.ranges {
		stride := roundUp(aligned, r.StrideStep)
		if stride > r.StrideMax {
			continue
		}
		effective := stride
		if effective < r.StrideMin {
			effective = r.StrideMin
		}
		offset := effective - r.StrideMin
		classIndex := offset >> uint(r.StrideShift)
		return r.BaseProxyIndex + classIndex, true
	}
	return 0, false
}

func roundUp(n, to int) int {
	return (n + to - 1) / to * to
}
