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

// Package vault implements Vault, the allocator's native growable sequence
// container: an ordered run of T backed by an [allocator.ElementAdapter],
// with doubling growth and the same bounds-checked, abort-on-misuse
// contract as the rest of the allocator.
package vault

import (
	"github.com/esterlein/metapool/allocator"
	"github.com/esterlein/metapool/internal/dbg"
	"github.com/esterlein/metapool/internal/unsafe2"
)

// initialCapacity is the capacity a Vault grows to from empty on its first
// write.
const initialCapacity = 8

// Vault is a dynamic, ordered sequence of T backed by a pooled allocator.
// Storage is acquired lazily: a freshly constructed Vault holds no
// allocation until the first push, emplace, or reserve. A Vault must not
// outlive the allocator it was constructed with.
//
// Vault is not copyable: copying would duplicate the (begin, len, cap)
// triple while both copies alias the same pooled storage, leading to a
// double free. Use [Vault.MoveFrom] to transfer ownership instead.
type Vault[T any] struct {
	_ unsafe2.NoCopy

	adapter allocator.ElementAdapter[T]
	begin   *T
	length  int
	cap     int
}

// New returns an empty Vault bound to core. No storage is acquired until
// the first mutating call.
func New[T any](core *allocator.Allocator) *Vault[T] {
	return &Vault[T]{adapter: allocator.NewElementAdapter[T](core)}
}

// Len returns the number of live elements.
func (v *Vault[T]) Len() int { return v.length }

// Cap returns the current storage capacity.
func (v *Vault[T]) Cap() int { return v.cap }

// Empty reports whether the vault holds no elements.
func (v *Vault[T]) Empty() bool { return v.length == 0 }

func (v *Vault[T]) slice() []T {
	if v.begin == nil {
		return nil
	}
	return unsafe2.Slice2(v.begin, v.length, v.cap)
}

// Raw returns the live elements [0, Len()) as an ordinary Go slice. The
// returned slice aliases the vault's storage and is invalidated by any
// subsequent call that grows or frees storage.
func (v *Vault[T]) Raw() []T {
	return v.slice()
}

// At returns a pointer to the element at i. It fails fatally if i is out of
// bounds.
func (v *Vault[T]) At(i int) *T {
	if i < 0 || i >= v.length {
		dbg.Fatal("vault at", "reason", "index out of range", "index", i, "len", v.length)
	}
	return unsafe2.Add(v.begin, i)
}

// Back returns a pointer to the last element. It fails fatally if the
// vault is empty.
func (v *Vault[T]) Back() *T {
	if v.length == 0 {
		dbg.Fatal("vault back", "reason", "empty vault")
	}
	return unsafe2.Add(v.begin, v.length-1)
}

// Reserve grows capacity to at least n, acquiring storage of exactly n and
// moving existing elements into it. It never shrinks: a request for n less
// than or equal to the current capacity is a no-op.
func (v *Vault[T]) Reserve(n int) {
	if n <= v.cap {
		return
	}
	v.reallocate(n)
}

func (v *Vault[T]) reallocate(newCap int) {
	fresh := v.adapter.Allocate(newCap)
	if v.begin != nil {
		copy(unsafe2.Slice(fresh, v.length), v.slice())
		v.adapter.Deallocate(v.begin, v.cap)
	}
	v.begin = fresh
	v.cap = newCap
}

func (v *Vault[T]) grow() {
	next := initialCapacity
	if v.cap > 0 {
		next = v.cap * 2
	}
	v.reallocate(next)
}

// PushBack appends v2 to the end of the vault, growing storage if
// necessary. Amortized O(1).
func (v *Vault[T]) PushBack(v2 T) {
	if v.length == v.cap {
		v.grow()
	}
	*unsafe2.Add(v.begin, v.length) = v2
	v.length++
}

// EmplaceBack is an alias for [Vault.PushBack]: Go has no variadic
// in-place constructors, so "emplace" and "push" are the same operation
// here.
func (v *Vault[T]) EmplaceBack(v2 T) {
	v.PushBack(v2)
}

// Emplace inserts v2 at pos, shifting the tail right by one slot. pos must
// be in [0, Len()].
func (v *Vault[T]) Emplace(pos int, v2 T) {
	if pos < 0 || pos > v.length {
		dbg.Fatal("vault emplace", "reason", "position out of range", "pos", pos, "len", v.length)
	}
	if v.length == v.cap {
		v.grow()
	}
	s := unsafe2.Slice2(v.begin, v.length+1, v.cap)
	copy(s[pos+1:], s[pos:v.length])
	s[pos] = v2
	v.length++
}

// Erase removes the element at pos, shifting the tail left by one slot.
// pos must be in [0, Len()).
func (v *Vault[T]) Erase(pos int) {
	if pos < 0 || pos >= v.length {
		dbg.Fatal("vault erase", "reason", "position out of range", "pos", pos, "len", v.length)
	}
	s := v.slice()
	copy(s[pos:], s[pos+1:])
	var zero T
	s[v.length-1] = zero
	v.length--
}

// PopBack removes and returns the last element. It fails fatally if the
// vault is empty.
func (v *Vault[T]) PopBack() T {
	if v.length == 0 {
		dbg.Fatal("vault pop_back", "reason", "empty vault")
	}
	last := *unsafe2.Add(v.begin, v.length-1)
	var zero T
	*unsafe2.Add(v.begin, v.length-1) = zero
	v.length--
	return last
}

// Resize grows or shrinks the vault to exactly n elements. Growth appends
// zero-valued elements; shrinkage destroys the suffix by zeroing it.
func (v *Vault[T]) Resize(n int) {
	var zero T
	v.ResizeWith(n, zero)
}

// ResizeWith is like [Vault.Resize], but newly added elements (if any) are
// set to fill instead of the zero value.
func (v *Vault[T]) ResizeWith(n int, fill T) {
	if n < 0 {
		dbg.Fatal("vault resize", "reason", "negative size", "n", n)
	}
	if n > v.cap {
		v.reallocate(n)
	}
	if n > v.length {
		s := unsafe2.Slice2(v.begin, n, v.cap)
		for i := v.length; i < n; i++ {
			s[i] = fill
		}
	} else if n < v.length {
		s := v.slice()
		var zero T
		for i := n; i < v.length; i++ {
			s[i] = zero
		}
	}
	v.length = n
}

// Clear destroys all elements but preserves storage.
func (v *Vault[T]) Clear() {
	s := v.slice()
	var zero T
	for i := range s {
		s[i] = zero
	}
	v.length = 0
}

// Reset destroys all elements, releases storage, and acquires fresh
// storage of exactly newCap, leaving the vault empty.
func (v *Vault[T]) Reset(newCap int) {
	v.freeStorage()
	if newCap > 0 {
		v.begin = v.adapter.Allocate(newCap)
		v.cap = newCap
	}
	v.length = 0
}

// ResetWith is like [Vault.Reset], but additionally fills all newCap slots
// with fill, so the vault reports Len() == newCap afterward.
func (v *Vault[T]) ResetWith(newCap int, fill T) {
	v.Reset(newCap)
	if newCap == 0 {
		return
	}
	s := unsafe2.Slice2(v.begin, newCap, newCap)
	for i := range s {
		s[i] = fill
	}
	v.length = newCap
}

func (v *Vault[T]) freeStorage() {
	if v.begin != nil {
		v.adapter.Deallocate(v.begin, v.cap)
	}
	v.begin = nil
	v.cap = 0
}

// MoveFrom steals src's storage, leaving src empty. It is the Vault
// equivalent of C++ move construction/assignment: the prior contents of v
// (if any) are released first.
func (v *Vault[T]) MoveFrom(src *Vault[T]) {
	if v == src {
		dbg.Fatal("vault move", "reason", "self-move")
	}
	v.freeStorage()
	v.adapter = src.adapter
	v.begin = src.begin
	v.length = src.length
	v.cap = src.cap

	src.begin = nil
	src.length = 0
	src.cap = 0
}
