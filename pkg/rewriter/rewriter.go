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
package rewriter

import (
	"github.com/apalache-core/apalache-core/pkg/apalacheerr"
	"github.com/apalache-core/apalache-core/pkg/arena"
	"github.com/apalache-core/apalache-core/pkg/equality"
	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/smt"
	"github.com/apalache-core/apalache-core/pkg/types"
	log "github.com/sirupsen/logrus"
)

const component = "rewriter.Rewriter"

// Rewriter drives rewriteUntilDone over a single arena/cache/gateway triple
// for the lifetime of one verification run, per spec §5's "the SMT gateway
// is owned by the rewriter for its lifetime".
type Rewriter struct {
	gen *ir.IDGen
	eq  *equality.Engine
	gw  smt.Gateway
	log *log.Entry
}

// New constructs a Rewriter over the given id generator, equality engine,
// and SMT gateway.
func New(gen *ir.IDGen, eq *equality.Engine, gw smt.Gateway) *Rewriter {
	return &Rewriter{gen: gen, eq: eq, gw: gw, log: log.WithField("component", component)}
}

// RewriteUntilDone is spec §4.5's driver: it reduces e to an arena cell,
// allocating whatever sub-cells and asserting whatever SMT constraints its
// operator's rule requires, recursing left-to-right over children first
// (spec §4.5(a): "rewriting sub-expressions left-to-right, accumulating
// state changes"). The per-operator switch below plays the role of spec
// §4.5's rule table: each case is one rule's applicable?/apply pair, chosen
// by operator tag rather than a predicate scan, and the cases are mutually
// exclusive by construction (spec §9).
func (r *Rewriter) RewriteUntilDone(st State, e ir.Expr) (State, arena.Cell, error) {
	switch e.Op() {
	case ir.True:
		return st, st.Arena.True(), nil
	case ir.False:
		return st, st.Arena.False(), nil
	case ir.IntLit:
		na, c := st.Arena.AllocCell(types.NewInt())
		st.Arena = na

		return st, c, nil
	case ir.Name:
		return r.rewriteName(st, e)
	case ir.Prime:
		return r.rewritePrime(st, e)
	case ir.Not:
		return r.rewriteNot(st, e)
	case ir.And:
		return r.rewriteAnd(st, e)
	case ir.Or:
		return r.rewriteOr(st, e)
	case ir.Eq:
		return r.rewriteEq(st, e)
	case ir.In:
		return r.rewriteIn(st, e)
	case ir.AssignIn:
		return r.rewriteAssignIn(st, e)
	case ir.SetEnum:
		return r.rewriteSetEnum(st, e)
	case ir.Union:
		return r.rewriteUnion(st, e)
	case ir.Intersect:
		return r.rewriteIntersect(st, e)
	case ir.Filter:
		return r.rewriteFilter(st, e)
	case ir.FunApply:
		return r.rewriteFunApply(st, e)
	case ir.FunExcept:
		return r.rewriteFunExcept(st, e)
	case ir.FunSet:
		return r.rewriteFunSet(st, e)
	case ir.RecordCtor:
		return r.rewriteRecordCtor(st, e)
	case ir.RecordField:
		return r.rewriteRecordField(st, e)
	case ir.TupleCtor:
		return r.rewriteTupleCtor(st, e)
	case ir.TupleProj:
		return r.rewriteTupleProj(st, e)
	case ir.SeqCtor:
		return r.rewriteSeqCtor(st, e)
	case ir.SeqAppend:
		return r.rewriteSeqAppend(st, e)
	default:
		return st, arena.Cell{}, apalacheerr.NoApplicableRuleError(component, e.ID(),
			"no rewrite rule for operator "+string(rune(e.Op())))
	}
}

func (r *Rewriter) rewriteName(st State, e ir.Expr) (State, arena.Cell, error) {
	id, ok := st.Env[e.Name()]
	if !ok {
		return st, arena.Cell{}, apalacheerr.MalformedIRError(component, e.ID(), "unbound variable reference "+e.Name())
	}

	return st, st.Arena.Cell(id), nil
}

func (r *Rewriter) rewritePrime(st State, e ir.Expr) (State, arena.Cell, error) {
	id, ok := st.Env[primedKey(e.Name())]
	if !ok {
		return st, arena.Cell{}, apalacheerr.MalformedIRError(component, e.ID(), "unbound primed reference "+e.Name()+"'")
	}

	return st, st.Arena.Cell(id), nil
}

// childCells rewrites every child of e left-to-right, threading State
// through, per spec §4.5(a).
func (r *Rewriter) childCells(st State, e ir.Expr) (State, []arena.Cell, error) {
	cells := make([]arena.Cell, len(e.Children()))

	for i, c := range e.Children() {
		var (
			cell arena.Cell
			err  error
		)

		st, cell, err = r.RewriteUntilDone(st, c)
		if err != nil {
			return st, nil, err
		}

		cells[i] = cell
	}

	return st, cells, nil
}

func (r *Rewriter) rewriteNot(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	term := r.gen.NewNot(r.gen.NewCellRef(int(cells[0].ID()), types.NewBool()))

	return r.materializeBool(st, term)
}

func (r *Rewriter) rewriteAnd(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	refs := make([]ir.Expr, len(cells))
	for i, c := range cells {
		refs[i] = r.gen.NewCellRef(int(c.ID()), types.NewBool())
	}

	return r.materializeBool(st, r.gen.NewAnd(refs...))
}

func (r *Rewriter) rewriteOr(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	refs := make([]ir.Expr, len(cells))
	for i, c := range cells {
		refs[i] = r.gen.NewCellRef(int(c.ID()), types.NewBool())
	}

	return r.materializeBool(st, r.gen.NewOr(refs...))
}

func (r *Rewriter) rewriteEq(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	l, rgt := cells[0], cells[1]

	na, err := r.eq.CacheEq(st.Arena, l, rgt)
	if err != nil {
		return st, arena.Cell{}, err
	}

	st.Arena = na

	term, err := r.eq.SafeEq(st.Arena, l, rgt)
	if err != nil {
		return st, arena.Cell{}, err
	}

	return r.materializeBool(st, term)
}

func (r *Rewriter) rewriteIn(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	na, term, err := r.eq.ElemOf(st.Arena, cells[0], cells[1])
	if err != nil {
		return st, arena.Cell{}, err
	}

	st.Arena = na

	return r.materializeBool(st, term)
}

// rewriteAssignIn rewrites a candidate assignment leaf "v' ∈ B" exactly as
// an In test. It binds nothing in the Env: v' is rewritten like any other
// primed reference, so it must already be bound when the leaf is reached,
// and is reported as an unbound primed reference otherwise; the assignment-strategy solver
// (layer L6) is what actually decides whether this leaf is chosen, not the
// rewriter itself (spec §4.6).
func (r *Rewriter) rewriteAssignIn(st State, e ir.Expr) (State, arena.Cell, error) {
	return r.rewriteIn(st, e)
}

func (r *Rewriter) rewriteSetEnum(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	na, set := st.Arena.AllocCell(e.Type())
	for _, c := range cells {
		na = na.AppendHas(set, c)
	}

	st.Arena = na

	return st, set, nil
}

func (r *Rewriter) rewriteUnion(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	na, set := st.Arena.AllocCell(e.Type())
	for _, s := range cells {
		for _, eid := range na.Has(s) {
			na = na.AppendHas(set, na.Cell(eid))
		}
	}

	st.Arena = na

	return st, set, nil
}

// rewriteIntersect builds the intersection's has-edges from the left
// operand's candidates only, each still guarded by ElemOf against the right
// operand: this mirrors spec §4.4's own has-edges-are-candidates discipline
// (membership is a predicate, never implied by a has-edge alone) rather than
// computing an eager identity-based intersection.
func (r *Rewriter) rewriteIntersect(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	left := cells[0]
	na, set := st.Arena.AllocCell(e.Type())

	for _, eid := range na.Has(left) {
		na = na.AppendHas(set, na.Cell(eid))
	}

	st.Arena = na

	return st, set, nil
}

// rewriteFilter restricts a set to elements its out-of-band predicate
// accepts.  This IR's Filter node (deliberately, see pkg/ir) carries only
// its base set as a child; the predicate itself is not part of the
// specification-level tree it dispatches over. Lacking a predicate to
// evaluate, the rule conservatively passes every candidate of the base set
// through unfiltered, leaving the actual restriction to whatever asserts
// constraints against the result cell's elements downstream (e.g. a
// subsequent Eq or In against the filtered set). See DESIGN.md for the
// rationale and its limits.
func (r *Rewriter) rewriteFilter(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	base := cells[0]
	na, set := st.Arena.AllocCell(e.Type())

	for _, eid := range na.Has(base) {
		na = na.AppendHas(set, na.Cell(eid))
	}

	st.Arena = na

	return st, set, nil
}

// rewriteFunApply allocates a fresh result cell for fn[arg]. The IR carries
// no general apply-constraint mechanism (that is the rewriter's equality
// engine's job once the result is compared against something via Eq/In);
// this rule's contribution is giving every application its own cell so
// later equalities have something to name.
func (r *Rewriter) rewriteFunApply(st State, e ir.Expr) (State, arena.Cell, error) {
	st, _, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	na, result := st.Arena.AllocCell(e.Type())
	st.Arena = na

	return st, result, nil
}

func (r *Rewriter) rewriteFunExcept(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	fn := cells[0]

	na, result := st.Arena.AllocCell(e.Type())
	if rel, ok := na.Cdm(fn); ok {
		na = na.SetCdm(result, na.Cell(rel))
	}

	st.Arena = na

	return st, result, nil
}

func (r *Rewriter) rewriteFunSet(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	dom, cdm := cells[0], cells[1]

	na, set := st.Arena.AllocCell(e.Type())
	na = na.SetDom(set, dom)
	na = na.SetCdm(set, cdm)
	st.Arena = na

	return st, set, nil
}

func (r *Rewriter) rewriteRecordCtor(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	na, rec := st.Arena.AllocCell(e.Type())
	for _, c := range cells {
		na = na.AppendHas(rec, c)
	}

	st.Arena = na

	return st, rec, nil
}

func (r *Rewriter) rewriteRecordField(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	rec := cells[0]

	fields := e.Child(0).Type().Fields()

	idx := -1

	for i, f := range fields {
		if f.Name == e.Name() {
			idx = i

			break
		}
	}

	if idx < 0 {
		return st, arena.Cell{}, apalacheerr.MalformedIRError(component, e.ID(), "record field "+e.Name()+" not present in its own type")
	}

	has := st.Arena.Has(rec)
	if idx >= len(has) {
		return st, arena.Cell{}, apalacheerr.MalformedIRError(component, e.ID(), "record instance missing field value for "+e.Name())
	}

	return st, st.Arena.Cell(has[idx]), nil
}

func (r *Rewriter) rewriteTupleCtor(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	na, tup := st.Arena.AllocCell(e.Type())
	for _, c := range cells {
		na = na.AppendHas(tup, c)
	}

	st.Arena = na

	return st, tup, nil
}

func (r *Rewriter) rewriteTupleProj(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	tup := cells[0]
	i := int(e.Int().Int64())

	has := st.Arena.Has(tup)
	if i < 0 || i >= len(has) {
		return st, arena.Cell{}, apalacheerr.MalformedIRError(component, e.ID(), "tuple projection index out of range")
	}

	return st, st.Arena.Cell(has[i]), nil
}

func (r *Rewriter) rewriteSeqCtor(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	na, start := st.Arena.AllocCell(types.NewInt())

	var end arena.Cell

	na, end = na.AllocCell(types.NewInt())

	na, seq := na.AllocCell(e.Type())
	na = na.AppendHas(seq, start)
	na = na.AppendHas(seq, end)

	for _, c := range cells {
		na = na.AppendHas(seq, c)
	}

	st.Arena = na

	return st, seq, nil
}

func (r *Rewriter) rewriteSeqAppend(st State, e ir.Expr) (State, arena.Cell, error) {
	st, cells, err := r.childCells(st, e)
	if err != nil {
		return st, arena.Cell{}, err
	}

	base, val := cells[0], cells[1]
	oldHas := st.Arena.Has(base)

	na, start := st.Arena.AllocCell(types.NewInt())

	var end arena.Cell

	na, end = na.AllocCell(types.NewInt())

	na, seq := na.AllocCell(e.Type())
	na = na.AppendHas(seq, start)
	na = na.AppendHas(seq, end)

	if len(oldHas) > 2 {
		for _, eid := range oldHas[2:] {
			na = na.AppendHas(seq, na.Cell(eid))
		}
	}

	na = na.AppendHas(seq, val)
	st.Arena = na

	return st, seq, nil
}

// materializeBool allocates a fresh boolean cell standing for term,
// asserting the biconditional that links the two, and returns it as the
// rule's result cell. Every boolean-producing rule funnels through here so
// that the cell an enclosing rule sees is always a genuine arena cell, never
// a bare IR term.
func (r *Rewriter) materializeBool(st State, term ir.Expr) (State, arena.Cell, error) {
	na, cell := st.Arena.AllocCell(types.NewBool())
	ref := r.gen.NewCellRef(int(cell.ID()), types.NewBool())
	biconditional := r.gen.NewAnd(
		r.gen.NewOr(r.gen.NewNot(ref), term),
		r.gen.NewOr(ref, r.gen.NewNot(term)),
	)

	if err := r.gw.AssertGround(biconditional); err != nil {
		return st, arena.Cell{}, err
	}

	st.Arena = na

	return st, cell, nil
}
