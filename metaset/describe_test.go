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

package metaset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esterlein/metapool/metaclass"
	"github.com/esterlein/metapool/metaset"
)

func TestDescribeYAMLRoundTrips(t *testing.T) {
	t.Parallel()

	ms, err := metaset.Build(metaclass.Config{
		Capacity: metaclass.Flat, BaseBlockCount: 4, StrideStep: 8, Pivots: []int{8, 24},
	})
	require.NoError(t, err)

	out, err := ms.DescribeYAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "arena_bytes:")
	assert.Contains(t, string(out), "stride_min: 8")
}
