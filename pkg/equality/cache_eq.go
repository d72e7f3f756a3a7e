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
package equality

import (
	"github.com/apalache-core/apalache-core/pkg/apalacheerr"
	"github.com/apalache-core/apalache-core/pkg/arena"
	"github.com/apalache-core/apalache-core/pkg/cache"
	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/types"
)

// cacheEqFinSet implements spec §4.4's finite-set case: the statically
// empty set (type FinSet(Unknown), no recorded elements) is special-cased
// to a direct emptiness predicate on the other side; everything else
// reduces to double subset-equal.
func (e *Engine) cacheEqFinSet(a arena.Arena, x, y arena.Cell) (arena.Arena, error) {
	xEmpty := x.Type().IsEmptySet()
	yEmpty := y.Type().IsEmptySet()

	switch {
	case xEmpty && yEmpty:
		e.cache.Put(x.ID(), y.ID(), cache.True, 0)

		return a, nil
	case xEmpty || yEmpty:
		s := y
		if yEmpty {
			s = x
		}

		elems := a.Has(s)
		if len(elems) == 0 {
			e.cache.Put(x.ID(), y.ID(), cache.True, 0)

			return a, nil
		}

		na := a
		conj := make([]ir.Expr, 0, len(elems))

		for _, eid := range elems {
			elem := na.Cell(eid)

			var (
				member ir.Expr
				err    error
			)

			na, member, err = e.ElemOf(na, elem, s)
			if err != nil {
				return na, err
			}

			conj = append(conj, e.gen.NewNot(member))
		}

		na, _, err := e.materialize(na, x, y, e.gen.NewAnd(conj...))

		return na, err
	default:
		na, leq, err := e.SubsetEq(a, x, y)
		if err != nil {
			return na, err
		}

		na, req, err := e.SubsetEq(na, y, x)
		if err != nil {
			return na, err
		}

		na, _, err = e.materialize(na, x, y, e.gen.NewAnd(leq, req))

		return na, err
	}
}

// cacheEqFinFunSet implements spec §4.4's function-set case: two
// function-sets are equal iff their domain sets and codomain sets are,
// recursively, equal.
func (e *Engine) cacheEqFinFunSet(a arena.Arena, x, y arena.Cell) (arena.Arena, error) {
	domX, ok := a.Dom(x)
	if !ok {
		return a, apalacheerr.MalformedIRError(component, int(x.ID()), "function-set cell missing its dom edge")
	}

	domY, ok := a.Dom(y)
	if !ok {
		return a, apalacheerr.MalformedIRError(component, int(y.ID()), "function-set cell missing its dom edge")
	}

	cdmX, ok := a.Cdm(x)
	if !ok {
		return a, apalacheerr.MalformedIRError(component, int(x.ID()), "function-set cell missing its cdm edge")
	}

	cdmY, ok := a.Cdm(y)
	if !ok {
		return a, apalacheerr.MalformedIRError(component, int(y.ID()), "function-set cell missing its cdm edge")
	}

	na := a
	dx, dy := na.Cell(domX), na.Cell(domY)

	var err error

	na, err = e.CacheEq(na, dx, dy)
	if err != nil {
		return na, err
	}

	domEq, err := e.SafeEq(na, dx, dy)
	if err != nil {
		return na, err
	}

	cx, cy := na.Cell(cdmX), na.Cell(cdmY)

	na, err = e.CacheEq(na, cx, cy)
	if err != nil {
		return na, err
	}

	cdmEq, err := e.SafeEq(na, cx, cy)
	if err != nil {
		return na, err
	}

	na, _, err = e.materialize(na, x, y, e.gen.NewAnd(domEq, cdmEq))

	return na, err
}

// cacheEqFun implements spec §4.4's function case: two functions are equal
// iff their graphs (recorded as each cell's cdm relation set) are equal.
func (e *Engine) cacheEqFun(a arena.Arena, x, y arena.Cell) (arena.Arena, error) {
	relX, ok := a.Cdm(x)
	if !ok {
		return a, apalacheerr.MalformedIRError(component, int(x.ID()), "function cell missing its cdm relation edge")
	}

	relY, ok := a.Cdm(y)
	if !ok {
		return a, apalacheerr.MalformedIRError(component, int(y.ID()), "function cell missing its cdm relation edge")
	}

	na := a
	rx, ry := na.Cell(relX), na.Cell(relY)

	var err error

	na, err = e.CacheEq(na, rx, ry)
	if err != nil {
		return na, err
	}

	relEq, err := e.SafeEq(na, rx, ry)
	if err != nil {
		return na, err
	}

	na, _, err = e.materialize(na, x, y, relEq)

	return na, err
}

// cacheEqRecord implements spec §4.4's record case: records equal iff every
// field present on either side is present on both and the field values are,
// recursively, equal.  A field present on only one side forces inequality
// rather than refusing to compare (mirroring types.Type.Comparable's
// treatment of the same mismatch).
func (e *Engine) cacheEqRecord(a arena.Arena, x, y arena.Cell) (arena.Arena, error) {
	xFields, yFields := x.Type().Fields(), y.Type().Fields()
	xHas, yHas := a.Has(x), a.Has(y)

	yIndex := make(map[string]int, len(yFields))
	for i, f := range yFields {
		yIndex[f.Name] = i
	}

	// "Which field names has this comparison seen so far" is a dense,
	// small, integer-keyed set (spec §4.13's bitset wiring) rather than an
	// ad-hoc map[string]bool.
	universe := types.NewFieldUniverse(xFields, yFields)
	seen := universe.NewFieldSet()
	na := a
	conj := make([]ir.Expr, 0, len(xFields))

	for i, f := range xFields {
		seen.Add(f.Name)

		j, ok := yIndex[f.Name]
		if !ok {
			e.cache.Put(x.ID(), y.ID(), cache.False, 0)

			return a, nil
		}

		fx, fy := na.Cell(xHas[i]), na.Cell(yHas[j])

		var err error

		na, err = e.CacheEq(na, fx, fy)
		if err != nil {
			return na, err
		}

		term, err := e.SafeEq(na, fx, fy)
		if err != nil {
			return na, err
		}

		conj = append(conj, term)
	}

	for _, f := range yFields {
		if !seen.Has(f.Name) {
			e.cache.Put(x.ID(), y.ID(), cache.False, 0)

			return a, nil
		}
	}

	na, _, err := e.materialize(na, x, y, e.gen.NewAnd(conj...))

	return na, err
}

// cacheEqTuple implements spec §4.4's tuple case: positional elements are
// conjoined; tuples of differing length are already type-incomparable and
// never reach here.
func (e *Engine) cacheEqTuple(a arena.Arena, x, y arena.Cell) (arena.Arena, error) {
	xHas, yHas := a.Has(x), a.Has(y)

	n := len(xHas)
	if len(yHas) < n {
		n = len(yHas)
	}

	na := a
	conj := make([]ir.Expr, 0, n)

	for i := 0; i < n; i++ {
		ex, ey := na.Cell(xHas[i]), na.Cell(yHas[i])

		var err error

		na, err = e.CacheEq(na, ex, ey)
		if err != nil {
			return na, err
		}

		term, err := e.SafeEq(na, ex, ey)
		if err != nil {
			return na, err
		}

		conj = append(conj, term)
	}

	na, _, err := e.materialize(na, x, y, e.gen.NewAnd(conj...))

	return na, err
}

// cacheEqSeq implements spec §4.4's sequence case: a sequence cell records
// its elements as "[start, end, x1, x2, ...]" (the first two has-edges are
// the window's integer markers).  Two sequences are equal iff their
// markers agree and their windowed elements agree pairwise.
func (e *Engine) cacheEqSeq(a arena.Arena, x, y arena.Cell) (arena.Arena, error) {
	xHas, yHas := a.Has(x), a.Has(y)

	if len(xHas) < 2 || len(yHas) < 2 {
		return a, apalacheerr.MalformedIRError(component, int(x.ID()), "sequence cell missing its [start,end] window markers")
	}

	na := a
	conj := make([]ir.Expr, 0, len(xHas))

	markerPairs := [2][2]arena.ID{{xHas[0], yHas[0]}, {xHas[1], yHas[1]}}

	for _, m := range markerPairs {
		mx, my := na.Cell(m[0]), na.Cell(m[1])

		var err error

		na, err = e.CacheEq(na, mx, my)
		if err != nil {
			return na, err
		}

		term, err := e.SafeEq(na, mx, my)
		if err != nil {
			return na, err
		}

		conj = append(conj, term)
	}

	xElems, yElems := xHas[2:], yHas[2:]

	n := len(xElems)
	if len(yElems) < n {
		n = len(yElems)
	}

	for i := 0; i < n; i++ {
		ex, ey := na.Cell(xElems[i]), na.Cell(yElems[i])

		var err error

		na, err = e.CacheEq(na, ex, ey)
		if err != nil {
			return na, err
		}

		term, err := e.SafeEq(na, ex, ey)
		if err != nil {
			return na, err
		}

		conj = append(conj, term)
	}

	na, _, err := e.materialize(na, x, y, e.gen.NewAnd(conj...))

	return na, err
}
