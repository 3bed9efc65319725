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

// ResourceAdapter wraps an Allocator behind a type-erased, byte-and-align
// oriented protocol: callers pass raw byte counts and alignments rather
// than a type parameter, the shape expected by generic containers that
// cannot (or do not want to) pass their element type's layout through a Go
// generic parameter.
//
// ResourceAdapter is shallowly copyable; two adapters are equal exactly
// when they wrap the same Allocator (identity equality, not structural).
type ResourceAdapter struct {
	core *Allocator
}

// NewResourceAdapter returns a ResourceAdapter bound to core.
func NewResourceAdapter(core *Allocator) ResourceAdapter {
	return ResourceAdapter{core: core}
}

// Allocate returns bytes bytes of storage aligned to align.
func (r ResourceAdapter) Allocate(bytes, align int) *byte {
	return r.core.Alloc(bytes, align)
}

// Deallocate returns storage previously returned by Allocate. bytes and
// align are accepted to match the memory-resource protocol but are unused:
// the block's header alone determines where it returns to.
func (r ResourceAdapter) Deallocate(p *byte, bytes, align int) {
	_, _ = bytes, align
	r.core.Free(p)
}

// Equal reports whether r and other wrap the identical Allocator instance.
func (r ResourceAdapter) Equal(other ResourceAdapter) bool {
	return r.core == other.core
}

// Core returns the underlying Allocator this adapter delegates to.
func (r ResourceAdapter) Core() *Allocator { return r.core }
