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

package metaclass

import (
	"github.com/esterlein/metapool/arena"
	"github.com/esterlein/metapool/freelist"
	"github.com/esterlein/metapool/internal/dbg"
	"github.com/esterlein/metapool/internal/header"
	"github.com/esterlein/metapool/internal/unsafe2"
	"github.com/esterlein/metapool/proxy"
)

// Quantum is the alignment every block's user region is rounded up to,
// regardless of the class's stride. It matches the routing algorithm's
// alignment_quantum.
const Quantum = 8

// Metapool is one config's materialization: a contiguous run of freelists,
// one per expanded class, carved out of a shared arena and stamped with
// consecutive global proxy indices starting at a caller-assigned base.
type Metapool struct {
	classes        []Class
	freelists      []*freelist.Freelist
	baseProxyIndex int
}

// Build expands config into classes and carves one freelist per class out
// of a. Freelists receive consecutive global proxy indices starting at
// baseProxyIndex. It fails fatally if config does not validate.
func Build(config Config, a *arena.Arena, baseProxyIndex int) *Metapool {
	if err := config.Validate(); err != nil {
		dbg.Fatal("metaclass build", "reason", err.Error())
	}

	classes := config.Expand()
	freelists := make([]*freelist.Freelist, len(classes))

	for i, cls := range classes {
		need := cls.Stride * cls.BlockCount
		region := a.Fetch(need, Quantum, header.Size)
		memory := unsafe2.Slice(region, need)

		fl := freelist.New()
		fl.Initialize(memory, cls.Stride, cls.BlockCount, baseProxyIndex+i)
		freelists[i] = fl
	}

	return &Metapool{
		classes:        classes,
		freelists:      freelists,
		baseProxyIndex: baseProxyIndex,
	}
}

// Classes returns the expanded (stride, block count) pairs this metapool
// was built from, in ascending stride order.
func (m *Metapool) Classes() []Class { return m.classes }

// Proxies returns this metapool's freelists as proxies, in ascending stride
// order; Proxies()[i] has global index BaseProxyIndex()+i.
func (m *Metapool) Proxies() []proxy.Proxy {
	out := make([]proxy.Proxy, len(m.freelists))
	for i, fl := range m.freelists {
		out[i] = fl
	}
	return out
}

// BaseProxyIndex returns the global proxy index of this metapool's
// smallest-stride class.
func (m *Metapool) BaseProxyIndex() int { return m.baseProxyIndex }

// StrideMin returns the smallest stride this metapool serves.
func (m *Metapool) StrideMin() int {
	if len(m.classes) == 0 {
		return 0
	}
	return m.classes[0].Stride
}

// StrideMax returns the largest stride this metapool serves.
func (m *Metapool) StrideMax() int {
	if len(m.classes) == 0 {
		return 0
	}
	return m.classes[len(m.classes)-1].Stride
}

// ByteSize returns the total backing-store bytes this metapool requests from
// an arena when built (stride*blockCount summed over its classes). It does
// not include the per-class alignment slack the arena may consume; see
// [Config.ArenaSize] for the slack-inclusive figure.
func (m *Metapool) ByteSize() int {
	total := 0
	for _, c := range m.classes {
		total += c.Stride * c.BlockCount
	}
	return total
}

// ArenaSize computes the bytes config.Expand() will need from an arena,
// without materializing any freelists: used by a Metaset to size its arena
// before construction.
func (c Config) ArenaSize() int {
	total := 0
	slackPerClass := Quantum - 1
	for _, cls := range c.Expand() {
		total += cls.Stride*cls.BlockCount + slackPerClass
	}
	return total
}
