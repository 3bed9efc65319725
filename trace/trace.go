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

// Package trace is the allocator's optional alloc-site tracer. Built
// without the mtptrace tag, every function in this package compiles to an
// empty inline stub: the hot allocation path pays nothing for tracing it
// never uses. Built with mtptrace, Record accumulates per-(size, alignment,
// proxy) counters that [Export] writes out as CSV.
//
// Tracing is not wired automatically into [allocator.Allocator]; callers
// that want it call [Record] at their own alloc/free call sites.
package trace

// Record notes one allocation attempt: the caller's requested size and
// alignment, the stride of the class that served it, the proxy index the
// lookup chose, and whether that proxy had to be reached by escalating past
// an exhausted one.
func Record(rawSize, alignment, stride, proxyIndex int, fallback bool) {
	record(rawSize, alignment, stride, proxyIndex, fallback)
}

// Export writes accumulated counters to path as CSV with columns
// raw_size, alignment, proxy_index, count, fallbacks, raw_total_bytes,
// stride_total_bytes. If clear is true, counters are reset after writing.
// Built without mtptrace, Export is a no-op that always returns nil.
func Export(path string, clear bool) error {
	return export(path, clear)
}

// Enabled reports whether this build was compiled with the mtptrace tag.
const Enabled = enabled
