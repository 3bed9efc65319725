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

//go:build mtptrace

package trace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esterlein/metapool/trace"
)

func TestEnabledBuildAccumulatesAndExports(t *testing.T) {
	assert.True(t, trace.Enabled)

	trace.Record(6, 8, 16, 0, false)
	trace.Record(6, 8, 16, 0, true)

	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, trace.Export(path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "raw_size,alignment,proxy_index,count,fallbacks,raw_total_bytes,stride_total_bytes")
	assert.Contains(t, string(data), "6,8,0,2,1,12,32")
}
