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

package trace

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
)

const enabled = true

type bucketKey struct {
	rawSize   int
	alignment int
	proxy     int
}

type bucket struct {
	count            int64
	fallbacks        int64
	rawTotalBytes    int64
	strideTotalBytes int64
}

var (
	mu      sync.Mutex
	buckets = map[bucketKey]*bucket{}
)

func record(rawSize, alignment, stride, proxyIndex int, fallback bool) {
	mu.Lock()
	defer mu.Unlock()

	k := bucketKey{rawSize, alignment, proxyIndex}
	b, ok := buckets[k]
	if !ok {
		b = &bucket{}
		buckets[k] = b
	}
	b.count++
	if fallback {
		b.fallbacks++
	}
	b.rawTotalBytes += int64(rawSize)
	b.strideTotalBytes += int64(stride)
}

func export(path string, clear bool) error {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"raw_size", "alignment", "proxy_index", "count",
		"fallbacks", "raw_total_bytes", "stride_total_bytes",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for k, b := range buckets {
		row := []string{
			strconv.Itoa(k.rawSize),
			strconv.Itoa(k.alignment),
			strconv.Itoa(k.proxy),
			strconv.FormatInt(b.count, 10),
			strconv.FormatInt(b.fallbacks, 10),
			strconv.FormatInt(b.rawTotalBytes, 10),
			strconv.FormatInt(b.strideTotalBytes, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	if clear {
		buckets = map[bucketKey]*bucket{}
	}
	return nil
}
