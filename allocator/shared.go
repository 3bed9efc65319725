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

import "github.com/esterlein/metapool/metaset"

// Shared is a single-owner allocator meant to be passed by reference into
// several clients within one goroutine (e.g. several [vault.Vault]
// instances created from the same call site), as opposed to [TLS], which
// hands out one Allocator per goroutine. Shared performs no synchronization
// of its own: it must not be used concurrently from more than one
// goroutine, the same restriction that applies to a bare Allocator.
type Shared struct {
	*Allocator
}

// NewShared constructs a Shared allocator bound to ms.
func NewShared(ms *metaset.Metaset) *Shared {
	return &Shared{Allocator: New(ms)}
}

// Clone returns a second handle to the same underlying Allocator: both
// handles observe the same freelists, matching the "shallow copy, shared
// identity" contract the allocator adapters rely on.
func (s *Shared) Clone() *Shared {
	return &Shared{Allocator: s.Allocator}
}
