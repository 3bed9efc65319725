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

// Package header encodes and decodes the 2-byte routing tag that precedes
// every block handed out by the allocator. The header is written once, at
// freelist initialization, and is never rewritten for the lifetime of the
// block: alloc and free never touch it except to read it back on free.
package header

import (
	"encoding/binary"

	"github.com/esterlein/metapool/internal/dbg"
	"github.com/esterlein/metapool/internal/unsafe2"
)

// Size is the width, in bytes, of the header prepended to every block.
const Size = 2

// Max is the largest proxy index the header can encode.
const Max = 1<<16 - 1

// Write stamps the global proxy index into the 2 bytes immediately
// preceding user, little-endian, so the encoding is identical on every
// target regardless of host byte order. user must point at the start of a
// block's user region, i.e. blockStart + Size.
func Write(user *byte, proxyIndex int) {
	if proxyIndex < 0 || proxyIndex > Max {
		dbg.Fatal("header write", "reason", "proxy index out of range", "proxy", proxyIndex)
	}
	binary.LittleEndian.PutUint16(unsafe2.Slice(unsafe2.ByteAdd(user, -Size), Size), uint16(proxyIndex))
}

// Read decodes the little-endian global proxy index stored immediately
// before user.
func Read(user *byte) int {
	return int(binary.LittleEndian.Uint16(unsafe2.Slice(unsafe2.ByteAdd(user, -Size), Size)))
}
