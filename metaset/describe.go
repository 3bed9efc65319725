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

package metaset

import "gopkg.in/yaml.v3"

// Layout is a YAML-serializable snapshot of a Metaset's static shape: its
// ranges, arena size, and total proxy count. It exists so a deployed
// allocator's configuration can be dumped and diffed without recompiling a
// debugger against the library's internal types.
type Layout struct {
	ArenaBytes int           `yaml:"arena_bytes"`
	ProxyCount int           `yaml:"proxy_count"`
	Ranges     []RangeLayout `yaml:"ranges"`
}

// RangeLayout is one metapool's entry within a [Layout].
type RangeLayout struct {
	StrideMin      int `yaml:"stride_min"`
	StrideMax      int `yaml:"stride_max"`
	StrideStep     int `yaml:"stride_step"`
	StrideCount    int `yaml:"stride_count"`
	BaseProxyIndex int `yaml:"base_proxy_index"`
}

// Describe returns ms's layout as a plain value suitable for YAML
// marshaling.
func (ms *Metaset) Describe() Layout {
	l := Layout{
		ArenaBytes: ms.ArenaSize(),
		ProxyCount: ms.ProxyCount(),
	}
	for _, r := range ms.ranges {
		l.Ranges = append(l.Ranges, RangeLayout{
			StrideMin:      r.StrideMin,
			StrideMax:      r.StrideMax,
			StrideStep:     r.StrideStep,
			StrideCount:    r.StrideCount,
			BaseProxyIndex: r.BaseProxyIndex,
		})
	}
	return l
}

// DescribeYAML marshals ms's layout to YAML.
func (ms *Metaset) DescribeYAML() ([]byte, error) {
	return yaml.Marshal(ms.Describe())
}
