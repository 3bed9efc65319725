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

//go:build !mtpdebug

package dbg

// Enabled is false in release builds; Log calls below are expected to be
// compiled out entirely once inlined into this no-op.
const Enabled = false

// Log does nothing in release builds. Hot paths call this unconditionally
// rather than branching on Enabled, so the compiler can inline it away.
func Log(context []any, operation string, format string, args ...any) {}
