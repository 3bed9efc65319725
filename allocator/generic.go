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
	"github.com/esterlein/metapool/internal/unsafe2"
)

// Construct allocates a block sized and aligned for T, constructs a T in it
// by copying v, and returns a pointer to the live value. It plays the role
// the source's placement-new construct<T>(args...) plays: Go has no
// user-definable constructors, so the caller builds v with an ordinary
// composite literal and Construct places it into pooled storage.
func Construct[T any](a *Allocator, v T) *T {
	size, align := unsafe2.Layout[T]()
	ptr := a.Alloc(size, align)
	p := unsafe2.Cast[T](ptr)
	*p = v
	return p
}

// Destruct zeroes *ptr (Go has no destructors to run, but a pooled slot
// must not leak the previous occupant's pointers to the garbage collector
// once it is back on a freelist) and returns its storage to the allocator.
// Destruct is a no-op on a nil ptr.
func Destruct[T any](a *Allocator, ptr *T) {
	if ptr == nil {
		return
	}
	var zero T
	*ptr = zero
	a.Free(unsafe2.Cast[byte](ptr))
}
