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

package allocator

import (
	"github.com/timandy/routine"

	"github.com/esterlein/metapool/metaset"
)

// TLS binds a Metaset factory to a goroutine-local allocator slot: each
// goroutine that calls [TLS.Get] gets its own freshly built [metaset.Metaset]
// (its own arena, metapools, and proxies) the first time it asks, wrapped in
// its own [Allocator], and the same instance on every subsequent call from
// that goroutine. This is the Go analogue of a thread_local allocator stack
// keyed by Metaset type: per-thread instancing of the whole allocator stack,
// not sharing of one Metaset's freelists across goroutines.
//
// A Metaset is not goroutine-safe to share concurrently (its freelists have
// no internal synchronization: Fetch/Release do unguarded read-modify-write
// on plain ints), so TLS never hands two goroutines allocators bound to the
// same Metaset. new is called once per goroutine that actually calls Get,
// not once per TLS.
type TLS struct {
	new   func() *metaset.Metaset
	local routine.ThreadLocal
}

// NewTLS returns a TLS that builds a fresh Metaset via new for each
// goroutine that calls Get. new is typically metaset.Build (or
// metaset.MustBuild) closed over that stack's configs, so every goroutine
// ends up with its own disjoint arena and freelists.
func NewTLS(new func() *metaset.Metaset) *TLS {
	return &TLS{new: new, local: routine.NewThreadLocal()}
}

// Get returns the calling goroutine's Allocator, constructing a fresh
// Metaset and Allocator for it on first use.
func (t *TLS) Get() *Allocator {
	if v := t.local.Get(); v != nil {
		return v.(*Allocator)
	}
	a := New(t.new())
	t.local.Set(a)
	return a
}

// Init eagerly primes the calling goroutine's allocator slot, so the first
// real allocation does not pay for Allocator construction.
func (t *TLS) Init() {
	t.Get()
}
