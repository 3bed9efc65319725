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

// Package arena implements a single bump-allocated backing region that hands
// out aligned sub-regions to freelists at setup time and is never freed
// piecewise: see [Arena].
package arena

import (
	"github.com/google/uuid"

	"github.com/esterlein/metapool/internal/dbg"
	"github.com/esterlein/metapool/internal/unsafe2"
)

// Arena is one OS-backed memory region owning all storage for an allocator
// stack. It is a monotonic bump allocator: [Fetch] hands out non-overlapping
// sub-regions by advancing an internal offset, and no sub-region is ever
// individually returned. The whole arena is released at once, either by
// [Arena.Reset] (which rewinds the offset but keeps the backing memory) or
// by letting the Arena value become unreachable.
//
// An Arena is not copyable: copying it would duplicate the offset counter
// while both copies still alias the same backing memory.
type Arena struct {
	_ unsafe2.NoCopy

	// ID identifies this arena instance in diagnostics; distinct
	// thread-local arenas otherwise look identical in a log.
	ID uuid.UUID

	// raw is the full over-sized allocation backing this arena: it exists
	// so alignment slack has somewhere to live and so the whole region is
	// kept alive by one GC root. base is the aligned usable region within
	// raw, and is what Fetch hands sub-slices of.
	raw  []byte
	base unsafe2.Addr[byte]

	size   int // usable bytes available from base
	offset int // bump offset from base; always <= size
}

// Construct allocates a new arena of size usable bytes, whose base address
// is aligned to alignment (which must be a power of two). It fails fatally
// if the requested size and alignment cannot be satisfied by a single Go
// allocation, mirroring the "fails fatally on acquisition failure" contract
// of the arena this package is modeled on: arenas are meant to be built once
// at thread-local setup, not recovered from when undersized.
func Construct(size, alignment int) *Arena {
	if size <= 0 {
		dbg.Fatal("arena construct", "reason", "non-positive size", "size", size)
	}
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		dbg.Fatal("arena construct", "reason", "alignment not a power of two", "alignment", alignment)
	}

	raw := make([]byte, size+alignment-1)
	rawAddr := unsafe2.AddrOf(&raw[0])
	_, next := rawAddr.Misalign(alignment)

	a := &Arena{
		ID:   uuid.New(),
		raw:  raw,
		base: rawAddr.Add(next),
		size: size,
	}
	dbg.Log([]any{"%v", a.ID}, "construct", "size=%d align=%d base=%v", size, alignment, a.base)
	return a
}

// Fetch returns a pointer p such that (p + shift) is alignment-aligned and
// [p, p+size) lies within the arena, advancing the internal offset past
// that range. shift exists so a caller carving out a block that begins with
// a fixed-size header (such as a [Freelist] block) can ask the arena to
// align the user region that follows the header, while still receiving a
// pointer to the start of the header.
//
// Fetch fails fatally if the requested size and alignment cannot fit in the
// arena's remaining capacity: callers above this layer (freelists,
// metapools) are expected to size the arena correctly at setup time via
// [Metaset]'s arena-size computation, so running out here indicates a
// configuration bug, not a recoverable runtime condition.
func (a *Arena) Fetch(size, alignment, shift int) *byte {
	if size == 0 {
		return nil
	}
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		dbg.Fatal("arena fetch", "reason", "alignment not a power of two", "alignment", alignment)
	}

	current := a.base.Add(a.offset)
	shifted := current.Add(shift)
	_, next := shifted.Misalign(alignment)
	aligned := shifted.Add(next)

	dataAddr := aligned
	baseAddr := dataAddr.Add(-shift)

	adjustment := baseAddr.Sub(current)
	total := adjustment + size

	if a.offset+total > a.size {
		dbg.Fatal("arena fetch", "reason", "exceeds capacity",
			"size", size, "alignment", alignment, "shift", shift,
			"offset", a.offset, "capacity", a.size)
	}

	a.offset += total
	dbg.Log([]any{"%v", a.ID}, "fetch", "size=%d align=%d shift=%d -> %v", size, alignment, shift, baseAddr)

	return baseAddr.AssertValid()
}

// Reset rewinds the arena's offset to zero, making its entire capacity
// available for re-fetching. Callers must ensure no live pointers into the
// arena remain in use after Reset: the next Fetch call may return addresses
// that alias memory handed out before the reset.
func (a *Arena) Reset() {
	a.offset = 0
	dbg.Log([]any{"%v", a.ID}, "reset", "")
}

// Destruct releases the arena's backing memory. After Destruct, the arena
// must not be used again; any pointer still held into it is dangling from
// Go's perspective only in the sense that the arena no longer keeps it
// alive, so if nothing else references that memory it becomes eligible for
// garbage collection as soon as the arena's own GC roots drop it.
func (a *Arena) Destruct() {
	dbg.Log([]any{"%v", a.ID}, "destruct", "")
	a.raw = nil
	a.base = 0
	a.size, a.offset = 0, 0
}

// Size returns the arena's total usable capacity in bytes.
func (a *Arena) Size() int { return a.size }

// Used returns the number of bytes fetched from the arena so far.
func (a *Arena) Used() int { return a.offset }
