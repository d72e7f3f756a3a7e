// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package types

// Comparable determines whether the lazy equality engine is permitted to
// relate values of these two types (spec §3.1).  The relation is symmetric
// and reflexive by construction: either side being Unknown always succeeds,
// two scalars of the same kind succeed, and two structural containers of the
// same shape succeed when their components are, recursively, comparable.
// Non-comparable pairs must be treated as trivially unequal without ever
// reaching the SMT gateway.
func (t Type) Comparable(o Type) bool {
	if t.kind == Unknown || o.kind == Unknown {
		return true
	}

	if t.kind != o.kind {
		return false
	}

	switch t.kind {
	case Bool, Int, Str:
		return true
	case Constant:
		// Two uninterpreted sorts are comparable only when they denote the
		// same sort; cross-sort comparison would conflate disjoint domains.
		return t.sort == o.sort
	case FinSet, Seq:
		return t.elem.Comparable(*o.elem)
	case Fun:
		return t.arg.Comparable(*o.arg) && t.res.Comparable(*o.res)
	case FinFunSet:
		return t.dom.Comparable(*o.dom) && t.cdm.Comparable(*o.cdm)
	case Record:
		// Records are comparable regardless of schema mismatch: a field
		// present in only one side is handled by the equality engine's record
		// rule (spec §4.4), which forces inequality rather than
		// refusing to compare at all.
		for _, f := range t.fields {
			if g, ok := o.Field(f.Name); ok && !f.Type.Comparable(g) {
				return false
			}
		}

		return true
	case Tuple:
		if len(t.elems) != len(o.elems) {
			// Length mismatch is type-incomparable (spec §4.4, Tuple).
			return false
		}

		for i, e := range t.elems {
			if !e.Comparable(o.elems[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}
