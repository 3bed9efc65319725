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

// Package freelist implements a fixed-stride, singly-linked intrusive free
// list: the leaf structure every block ultimately fetches from and releases
// to. A Freelist owns no memory of its own; it is initialized over a
// caller-provided region (carved out of an [arena.Arena]) and threads that
// region's blocks into a LIFO stack of free slots.
package freelist

import (
	"github.com/esterlein/metapool/internal/dbg"
	"github.com/esterlein/metapool/internal/header"
	"github.com/esterlein/metapool/internal/unsafe2"
)

// noNext marks the tail of the free chain: a block whose next-slot holds
// this value is the last free block.
const noNext = ^uint32(0)

// linkSize is the width of the in-band next-pointer threaded through free
// blocks. A block index (not a raw pointer) is stored, so the chain stays
// valid even though Go's garbage collector may move the backing slice
// during an Arena's lifetime.
const linkSize = 4

// MinStride is the smallest stride a Freelist can be initialized with: a
// 2-byte header followed by at least linkSize bytes of user region, so an
// empty block can hold its own next-index.
const MinStride = header.Size + linkSize

// Freelist is one stride class's pool of fixed-size blocks.
type Freelist struct {
	_ unsafe2.NoCopy

	stride     int
	blockCount int
	proxyIndex int

	base unsafe2.Addr[byte] // start of block 0's header
	end  unsafe2.Addr[byte] // one past the last block

	head  uint32
	free  int
	ready bool
}

// New returns a zero-value Freelist; call [Freelist.Initialize] before use.
func New() *Freelist {
	return &Freelist{}
}

// Initialize threads memory (exactly stride*blockCount bytes, already
// aligned so that memory[header.Size] satisfies the freelist's user
// alignment) into blockCount free blocks of width stride, stamping each
// block's header with proxyIndex. It fails fatally if memory is undersized,
// the stride cannot hold a header plus a next-index, or memory is not
// aligned for at least a 4-byte store at its user offset.
func (f *Freelist) Initialize(memory []byte, stride, blockCount, proxyIndex int) {
	if stride < MinStride {
		dbg.Fatal("freelist initialize", "reason", "stride too small for header and link", "stride", stride, "min", MinStride)
	}
	if blockCount < 1 {
		dbg.Fatal("freelist initialize", "reason", "non-positive block count", "block_count", blockCount)
	}
	need := stride * blockCount
	if len(memory) < need {
		dbg.Fatal("freelist initialize", "reason", "memory undersized", "need", need, "have", len(memory))
	}

	base := unsafe2.AddrOf(&memory[0])
	if prev, _ := base.Add(header.Size).Misalign(linkSize); prev != 0 {
		dbg.Fatal("freelist initialize", "reason", "user region misaligned for link width", "base", base)
	}

	f.stride = stride
	f.blockCount = blockCount
	f.proxyIndex = proxyIndex
	f.base = base
	f.end = base.Add(need)
	f.free = blockCount
	f.ready = true

	for i := 0; i < blockCount; i++ {
		blockStart := f.base.Add(i * stride)
		user := blockStart.Add(header.Size).AssertValid()
		header.Write(user, proxyIndex)

		next := uint32(i + 1)
		if i == blockCount-1 {
			next = noNext
		}
		unsafe2.ByteStore[uint32](user, 0, next)
	}
	f.head = 0

	dbg.Log([]any{"%d", proxyIndex}, "initialize", "stride=%d blocks=%d", stride, blockCount)
}

// Stride returns this freelist's block width, header included.
func (f *Freelist) Stride() int { return f.stride }

// BlockCount returns the total number of blocks this freelist owns.
func (f *Freelist) BlockCount() int { return f.blockCount }

// ProxyIndex returns the global proxy index stamped into every block's
// header.
func (f *Freelist) ProxyIndex() int { return f.proxyIndex }

// Empty reports whether no free blocks remain.
func (f *Freelist) Empty() bool { return f.head == noNext }

// Free returns the number of currently free blocks.
func (f *Freelist) Free() int { return f.free }

// Fetch pops the head of the free chain and returns a pointer to its user
// region, or nil if the freelist is empty. Fetch never fails fatally: an
// empty freelist is an ordinary, expected condition that the allocator core
// handles by escalating to the next proxy.
func (f *Freelist) Fetch() *byte {
	if !f.ready {
		dbg.Fatal("freelist fetch", "reason", "used before initialize")
	}
	if f.head == noNext {
		return nil
	}
	idx := f.head
	blockStart := f.base.Add(int(idx) * f.stride)
	user := blockStart.Add(header.Size).AssertValid()

	f.head = unsafe2.ByteLoad[uint32](user, 0)
	f.free--

	return user
}

// Release pushes the block owning user back onto the free chain. It fails
// fatally if user does not point at a valid, stride-aligned user region
// within this freelist's backing memory: that indicates a corrupted pointer
// or a free routed to the wrong freelist, not a recoverable condition.
func (f *Freelist) Release(user *byte) {
	if !f.ready {
		dbg.Fatal("freelist release", "reason", "used before initialize")
	}

	userAddr := unsafe2.AddrOf(user)
	dataStart := f.base.Add(header.Size)

	if userAddr < dataStart || userAddr >= f.end {
		dbg.Fatal("freelist release", "reason", "pointer outside freelist region", "stride", f.stride)
	}

	offset := int(userAddr) - int(dataStart)
	if offset%f.stride != 0 {
		dbg.Fatal("freelist release", "reason", "pointer not stride-aligned within region", "stride", f.stride)
	}
	idx := offset / f.stride
	if idx < 0 || idx >= f.blockCount {
		dbg.Fatal("freelist release", "reason", "pointer outside freelist bounds", "index", idx, "blocks", f.blockCount)
	}

	unsafe2.ByteStore[uint32](user, 0, f.head)
	f.head = uint32(idx)
	f.free++
}

// Reset re-threads every block into the free chain in initialization order,
// without rewriting headers: the header is a stable identity that survives
// resets, it is written exactly once at Initialize.
func (f *Freelist) Reset() {
	for i := 0; i < f.blockCount; i++ {
		blockStart := f.base.Add(i * f.stride)
		user := blockStart.Add(header.Size).AssertValid()

		next := uint32(i + 1)
		if i == f.blockCount-1 {
			next = noNext
		}
		unsafe2.ByteStore[uint32](user, 0, next)
	}
	f.head = 0
	f.free = f.blockCount
	dbg.Log([]any{"%d", f.proxyIndex}, "reset", "blocks=%d", f.blockCount)
}
