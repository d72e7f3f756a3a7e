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
package smt

import (
	"fmt"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/types"
)

// MemoryGateway is an in-process stand-in for a real SMT solver, used
// throughout this module's test suite exactly where the teacher's own tests
// avoid depending on an external process.  It is not a general decision
// procedure for first-order theories (spec §1 explicitly treats "a full SMT
// solver" as out of scope); rather, it brute-forces satisfiability over the
// small number of boolean and equality atoms a single rewrite step
// introduces, which is sufficient to make the invariants of spec §8
// observable in a unit test without a solver binary on $PATH.
//
// Ground boolean atoms (cells of type Bool) are searched over directly.
// Ground value atoms (cells of any other type referenced via a CellRef) are
// searched over all possible equivalence partitions: this is the same
// "equivalence classes via union-find" idea spec §9 calls out for the type
// unifier, just brute forced here rather than incrementally maintained.
type MemoryGateway struct {
	// scopeMarks[i] is the length of asserted immediately after the i'th Push.
	scopeMarks []int
	asserted   []ir.Expr
	trace      []string
}

// NewMemoryGateway constructs an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{}
}

// AssertGround records a boolean-typed ground IR expression.
func (g *MemoryGateway) AssertGround(e ir.Expr) error {
	if e.Type().Kind() != types.Bool {
		return fmt.Errorf("AssertGround: expected Bool-typed expression, got %s", e.Type())
	}

	g.asserted = append(g.asserted, e)

	return nil
}

// Push opens a new assertion scope.
func (g *MemoryGateway) Push() error {
	g.scopeMarks = append(g.scopeMarks, len(g.asserted))

	return nil
}

// Pop closes the n most recently opened scopes.
func (g *MemoryGateway) Pop(n int) error {
	if n > len(g.scopeMarks) {
		return fmt.Errorf("MemoryGateway.Pop(%d): only %d scopes open", n, len(g.scopeMarks))
	}

	mark := g.scopeMarks[len(g.scopeMarks)-n]
	g.scopeMarks = g.scopeMarks[:len(g.scopeMarks)-n]
	g.asserted = g.asserted[:mark]

	return nil
}

// Sat brute-forces satisfiability of every currently asserted expression; see
// the type doc for the search strategy and its (deliberate) limits.
func (g *MemoryGateway) Sat() (Result, error) {
	boolAtoms, valueAtoms := collectAtoms(g.asserted)

	if len(boolAtoms)+len(valueAtoms) > 12 {
		return Unknown, nil
	}

	for _, partition := range enumeratePartitions(valueAtoms) {
		for _, assign := range enumerateBoolAssignments(boolAtoms) {
			if allHold(g.asserted, assign, partition) {
				return Sat, nil
			}
		}
	}

	return Unsat, nil
}

// GetInterp is unsupported by the in-memory gateway: round-trip tests that
// need a concrete model value construct it directly rather than asking the
// stub for one.
func (g *MemoryGateway) GetInterp(Decl) (string, error) {
	return "", fmt.Errorf("MemoryGateway: GetInterp is not implemented")
}

// ParseSMTLIB returns text unchanged.
func (g *MemoryGateway) ParseSMTLIB(text string) (string, error) { return text, nil }

// Log appends message to the gateway's internal trace, retrievable via Trace
// for test assertions.
func (g *MemoryGateway) Log(message string) { g.trace = append(g.trace, message) }

// Trace returns every message passed to Log, in order.
func (g *MemoryGateway) Trace() []string { return g.trace }

// Close is a no-op for the in-memory gateway.
func (g *MemoryGateway) Close() error { return nil }

// AssertionCount returns the number of currently-live (not popped) assertions.
func (g *MemoryGateway) AssertionCount() int { return len(g.asserted) }

// --- ground evaluation -----------------------------------------------------

func collectAtoms(exprs []ir.Expr) (boolAtoms, valueAtoms []int) {
	seenBool := map[int]bool{}
	seenVal := map[int]bool{}

	var walk func(e ir.Expr)

	walk = func(e ir.Expr) {
		if e.Op() == ir.CellRef {
			if e.Type().Kind() == types.Bool {
				if !seenBool[e.CellID()] {
					seenBool[e.CellID()] = true

					boolAtoms = append(boolAtoms, e.CellID())
				}
			} else if !seenVal[e.CellID()] {
				seenVal[e.CellID()] = true

				valueAtoms = append(valueAtoms, e.CellID())
			}

			return
		}

		for _, c := range e.Children() {
			walk(c)
		}
	}

	for _, e := range exprs {
		walk(e)
	}

	return boolAtoms, valueAtoms
}

// partition maps a value-atom cell id to its equivalence-class representative.
type partition map[int]int

// enumeratePartitions yields every set partition of atoms, encoded as a
// restricted-growth assignment of representative indices.
func enumeratePartitions(atoms []int) []partition {
	if len(atoms) == 0 {
		return []partition{{}}
	}

	var out []partition

	rgs := make([]int, len(atoms))

	var gen func(i, maxUsed int)

	gen = func(i, maxUsed int) {
		if i == len(atoms) {
			p := partition{}
			for j, a := range atoms {
				p[a] = rgs[j]
			}

			out = append(out, p)

			return
		}

		for v := 0; v <= maxUsed+1; v++ {
			rgs[i] = v

			next := maxUsed
			if v > maxUsed {
				next = v
			}

			gen(i+1, next)
		}
	}

	gen(0, -1)

	return out
}

// enumerateBoolAssignments yields every truth assignment to the given atoms.
func enumerateBoolAssignments(atoms []int) []map[int]bool {
	n := len(atoms)
	out := make([]map[int]bool, 0, 1<<uint(n))

	for mask := 0; mask < (1 << uint(n)); mask++ {
		m := map[int]bool{}

		for i, a := range atoms {
			m[a] = mask&(1<<uint(i)) != 0
		}

		out = append(out, m)
	}

	return out
}

func allHold(exprs []ir.Expr, boolAssign map[int]bool, p partition) bool {
	for _, e := range exprs {
		v, ok := evalGround(e, boolAssign, p)
		if !ok || !v {
			return false
		}
	}

	return true
}

// evalGround evaluates a ground boolean expression under a candidate world.
// ok is false only when the expression shape is not one the in-memory
// gateway knows how to interpret (which should not occur for well-formed
// assertions produced by this module's own rewriter/equality engine).
func evalGround(e ir.Expr, boolAssign map[int]bool, p partition) (bool, bool) {
	switch e.Op() {
	case ir.True:
		return true, true
	case ir.False:
		return false, true
	case ir.CellRef:
		if e.Type().Kind() == types.Bool {
			v, ok := boolAssign[e.CellID()]

			return v, ok
		}
		// A bare non-boolean value atom is not itself a proposition.
		return false, false
	case ir.Not:
		v, ok := evalGround(e.Child(0), boolAssign, p)

		return !v, ok
	case ir.And:
		for _, c := range e.Children() {
			v, ok := evalGround(c, boolAssign, p)
			if !ok {
				return false, false
			}

			if !v {
				return false, true
			}
		}

		return true, true
	case ir.Or:
		any := false

		for _, c := range e.Children() {
			v, ok := evalGround(c, boolAssign, p)
			if !ok {
				return false, false
			}

			if v {
				any = true
			}
		}

		return any, true
	case ir.Eq:
		return evalEq(e.Child(0), e.Child(1), boolAssign, p)
	default:
		return false, false
	}
}

func evalEq(l, r ir.Expr, boolAssign map[int]bool, p partition) (bool, bool) {
	if l.Op() == ir.IntLit && r.Op() == ir.IntLit {
		lv := l.Int()
		rv := r.Int()

		return lv.Cmp(&rv) == 0, true
	}

	if l.Op() == ir.CellRef && r.Op() == ir.CellRef {
		if l.Type().Kind() == types.Bool && r.Type().Kind() == types.Bool {
			lv, lok := boolAssign[l.CellID()]
			rv, rok := boolAssign[r.CellID()]

			if !lok || !rok {
				return false, false
			}

			return lv == rv, true
		}

		return p[l.CellID()] == p[r.CellID()], true
	}

	return false, false
}
