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

// Package proxy declares the narrow interface the allocator's hot path uses
// to address a freelist by flat index, without knowing its stride or block
// count. In the source this design this module is drawn from, a proxy is a
// tuple of an opaque pointer and three function pointers monomorphized over
// a freelist's template parameters; in Go, the same type-erasure falls out
// of a small interface, and the compiler devirtualizes calls through it
// wherever the concrete type is known.
package proxy

// Proxy is a type-erased handle to one freelist: enough surface for the
// allocator core to fetch, release and reset without knowing the freelist's
// stride or block count ahead of time.
type Proxy interface {
	// Fetch pops a free block's user pointer, or nil if none remain.
	Fetch() *byte
	// Release returns a block previously returned by Fetch.
	Release(user *byte)
	// Reset re-threads every block as free.
	Reset()
	// Stride reports this proxy's block width, header included.
	Stride() int
	// ProxyIndex reports this proxy's own position in the global table.
	ProxyIndex() int
}
