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

package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/esterlein/metapool/internal/header"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	block := make([]byte, 32)
	user := &block[header.Size]

	header.Write(user, 513)
	assert.Equal(t, 513, header.Read(user))
}

func TestWriteRejectsOutOfRangeIndex(t *testing.T) {
	t.Parallel()

	block := make([]byte, 32)
	user := &block[header.Size]

	assert.Panics(t, func() {
		header.Write(user, header.Max+1)
	})
	assert.Panics(t, func() {
		header.Write(user, -1)
	})
}

func TestWriteIsLittleEndian(t *testing.T) {
	t.Parallel()

	block := make([]byte, 32)
	user := &block[header.Size]

	header.Write(user, 0x0102)
	assert.Equal(t, byte(0x02), block[0])
	assert.Equal(t, byte(0x01), block[1])
}
