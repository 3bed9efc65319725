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

// Package allocator implements the allocator core: the component that owns
// a [metaset.Metaset]'s proxy table, routes (size, alignment) requests to a
// proxy via the metaset's lookup algorithm, and falls back to
// larger-stride proxies when the chosen one is exhausted. Every operation
// here is infallible-or-fatal: there is no soft-failure path, mirroring the
// allocator this package's design is drawn from.
package allocator

import (
	"github.com/esterlein/metapool/internal/dbg"
	"github.com/esterlein/metapool/internal/header"
	"github.com/esterlein/metapool/metaset"
	"github.com/esterlein/metapool/proxy"
)

// Allocator is the per-instance allocator core bound to one Metaset. It
// borrows the metaset's proxy table; it owns no memory of its own.
type Allocator struct {
	ms      *metaset.Metaset
	proxies []proxy.Proxy
}

// New binds a new Allocator to ms. Multiple Allocators may be bound to the
// same Metaset; they all observe and mutate the same freelists, since a
// Metaset's proxies are shared mutable state. Use one Allocator per thread
// (via [TLS]) unless you mean to share.
func New(ms *metaset.Metaset) *Allocator {
	return &Allocator{ms: ms, proxies: ms.Proxies()}
}

// Alloc returns a pointer to a fresh block able to hold size bytes aligned
// to align, which must be a power of two. It fails fatally if size is zero,
// no configured class can satisfy the request, or every candidate proxy's
// freelist is exhausted.
func (a *Allocator) Alloc(size, align int) *byte {
	if size <= 0 {
		dbg.Fatal("allocator alloc", "reason", "non-positive size", "size", size)
	}
	if align <= 0 || align&(align-1) != 0 {
		dbg.Fatal("allocator alloc", "reason", "alignment not a power of two", "align", align)
	}

	idx, ok := a.ms.Lookup(size, align)
	if !ok {
		dbg.Fatal("allocator alloc", "reason", "no class covers request", "size", size, "align", align)
	}

	for i := idx; i < len(a.proxies); i++ {
		if ptr := a.proxies[i].Fetch(); ptr != nil {
			return ptr
		}
	}
	dbg.Fatal("allocator alloc", "reason", "all candidate proxies exhausted", "size", size, "align", align, "first_proxy", idx)
	return nil
}

// Free returns ptr (previously returned by [Allocator.Alloc] or
// [Construct]) to the freelist whose global index is encoded in ptr's
// 2-byte header. Free is a no-op on a nil ptr. It fails fatally if the
// decoded proxy index is out of range for this allocator's proxy table.
func (a *Allocator) Free(ptr *byte) {
	if ptr == nil {
		return
	}
	idx := header.Read(ptr)
	if idx < 0 || idx >= len(a.proxies) {
		dbg.Fatal("allocator free", "reason", "decoded proxy index out of range", "index", idx, "count", len(a.proxies))
	}
	a.proxies[idx].Release(ptr)
}

// Reset re-threads every proxy's freelist as fully free. All pointers
// previously returned by this allocator become invalid.
func (a *Allocator) Reset() {
	a.ms.Reset()
}

// ProxyCount returns the number of proxies this allocator's metaset owns.
func (a *Allocator) ProxyCount() int { return len(a.proxies) }

// Metaset returns the Metaset this allocator is bound to.
func (a *Allocator) Metaset() *metaset.Metaset { return a.ms }
