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

// CapacityFunc determines how a metapool's block count changes as its
// stride grows from one pivot to the next.
type CapacityFunc int

const (
	// Div8 divides the running block count by 8 at each pivot crossing.
	Div8 CapacityFunc = iota
	Div4
	Div2
	Flat
	Mul2
	Mul4
	Mul8
)

// String implements fmt.Stringer.
func (f CapacityFunc) String() string {
	switch f {
	case Div8:
		return "div8"
	case Div4:
		return "div4"
	case Div2:
		return "div2"
	case Flat:
		return "flat"
	case Mul2:
		return "mul2"
	case Mul4:
		return "mul4"
	case Mul8:
		return "mul8"
	default:
		return "invalid"
	}
}

// apply computes the new running block count crossing a pivot boundary,
// flooring at 1.
func (f CapacityFunc) apply(count int) int {
	var n int
	switch f {
	case Div8:
		n = count / 8
	case Div4:
		n = count / 4
	case Div2:
		n = count / 2
	case Flat:
		n = count
	case Mul2:
		n = count * 2
	case Mul4:
		n = count * 4
	case Mul8:
		n = count * 8
	default:
		n = count
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Valid reports whether f is one of the seven defined capacity functions.
func (f CapacityFunc) Valid() bool {
	return f >= Div8 && f <= Mul8
}
