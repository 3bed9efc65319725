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

import "github.com/esterlein/metapool/internal/unsafe2"

// ElementAdapter wraps an Allocator behind a per-element allocation
// protocol: every call computes (n*sizeof(T), alignof(T)) and delegates to
// the wrapped core. It is the allocator-facing half of the contract a
// container like [vault.Vault] is built against.
//
// ElementAdapter is shallowly copyable: every copy shares the same
// underlying Allocator, and two adapters compare equal (by [Rebind] or
// plain copy) whenever they share a core.
type ElementAdapter[T any] struct {
	core *Allocator
}

// NewElementAdapter returns an ElementAdapter bound to core.
func NewElementAdapter[T any](core *Allocator) ElementAdapter[T] {
	return ElementAdapter[T]{core: core}
}

// Allocate returns storage for n contiguous, uninitialized values of T.
func (e ElementAdapter[T]) Allocate(n int) *T {
	size, align := unsafe2.Layout[T]()
	ptr := e.core.Alloc(size*n, align)
	return unsafe2.Cast[T](ptr)
}

// Deallocate returns storage previously returned by Allocate. n is unused
// by the core (the header carries all the routing information free needs)
// but is accepted to match the ambient per-element allocator protocol.
func (e ElementAdapter[T]) Deallocate(p *T, n int) {
	_ = n
	e.core.Free(unsafe2.Cast[byte](p))
}

// Core returns the underlying Allocator this adapter delegates to.
func (e ElementAdapter[T]) Core() *Allocator { return e.core }

// Equal reports whether e and other share the same underlying Allocator.
func (e ElementAdapter[T]) Equal(other ElementAdapter[T]) bool {
	return e.core == other.core
}

// Rebind returns an adapter over the same core for a different element
// type U, matching the ambient container protocol's rebind requirement.
func Rebind[U, T any](e ElementAdapter[T]) ElementAdapter[U] {
	return ElementAdapter[U]{core: e.core}
}
