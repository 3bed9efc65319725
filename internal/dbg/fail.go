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

package dbg

import (
	"fmt"
	"os"
)

// FatalError is the panic value raised by [Fatal]. It is exported so that
// tests can assert on the kind of failure without string-matching the
// rendered message.
type FatalError struct {
	Op      string
	Context []any
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("metapool: fatal: %s %v", e.Op, Dict(nil, e.Context...))
}

// Fatal prints a framed diagnostic describing an invariant violation to
// stderr and panics. kv is a flat (key, value, key, value, ...) list of
// context, e.g. Fatal("free", "proxy", 12, "proxyCount", 8).
//
// Nothing in this module recovers a *FatalError: operational invariants are
// not meant to be survived by the allocator, only observed by the caller's
// own recover higher up the stack, if any.
func Fatal(op string, kv ...any) {
	dict := Dict(nil, kv...)
	fmt.Fprintf(os.Stderr, "metapool: fatal: %s\n  %v\n", op, dict)
	panic(&FatalError{Op: op, Context: kv})
}
