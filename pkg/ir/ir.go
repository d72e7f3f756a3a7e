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

// Package ir defines the minimal typed intermediate representation the
// rewriter (L5), the assignment-strategy solver (L6) and the transition
// extractor (L7) operate over: a tree of operator applications with typed
// names, where every node carries a unique, process-wide integer id (spec
// §6).
package ir

import (
	"math/big"

	"github.com/apalache-core/apalache-core/pkg/types"
)

// Op identifies the operator an Expr node applies.
type Op uint8

const (
	// True and False are the boolean literals.
	True Op = iota
	False
	// IntLit is an integer literal; its value is carried in Expr.Int.
	IntLit
	// Name is a variable reference, resolved by Expr.Name.
	Name
	// Prime is the next-state reference v' of a variable; Expr.Name names v.
	Prime
	// And, Or, Not are the boolean connectives.
	And
	Or
	Not
	// Eq is equality between two expressions.
	Eq
	// In is set membership, "e In S".
	In
	// AssignIn is a candidate assignment leaf "v' ∈ B" (spec §3.5).  Child 0
	// is the Prime(v) node, child 1 is the set expression B.
	AssignIn
	// SetEnum constructs a finite set from its children, "{e1, ..., en}".
	SetEnum
	// Union and Intersect are binary set operators.
	Union
	Intersect
	// Filter restricts a set to elements for which a predicate (carried out
	// of band by the rewriter) holds.  Only the base set is a child here.
	Filter
	// FunApply applies a function cell (child 0) to an argument (child 1).
	FunApply
	// FunExcept overrides a function (child 0) at an argument (child 1) with
	// a new value (child 2).
	FunExcept
	// FunSet constructs the FinFunSet type value from domain (child 0) and
	// codomain (child 1) set expressions.
	FunSet
	// RecordCtor constructs a record from its (ordered) field expressions.
	RecordCtor
	// RecordField projects a named field (Expr.Name) out of a record (child 0).
	RecordField
	// TupleCtor constructs a tuple from its positional element expressions.
	TupleCtor
	// TupleProj projects the Expr.Int'th element out of a tuple (child 0).
	TupleProj
	// SeqCtor constructs a sequence from its positional element expressions.
	SeqCtor
	// SeqAppend appends an element (child 1) onto a sequence (child 0).
	SeqAppend
	// CellRef is a ground reference to an arena cell, used only in the
	// constraints the lazy equality engine and rewriter assert to the SMT
	// gateway (spec §4.4's "boolean IR term asserting a=b").  It never
	// appears in a specification-level expression tree.
	CellRef
)

// Expr is one node of the typed IR tree.  Expr is a plain value; trees are
// built bottom-up and never mutated after construction, matching the
// "IR module" contract of spec §6.
type Expr struct {
	id       int
	op       Op
	typ      types.Type
	name     string
	intVal   big.Int
	children []Expr
}

// ID returns this node's process-wide unique id.
func (e Expr) ID() int { return e.id }

// Op returns this node's operator tag.
func (e Expr) Op() Op { return e.op }

// Type returns this node's static type.
func (e Expr) Type() types.Type { return e.typ }

// Name returns the variable or field name carried by Name/Prime/RecordField
// nodes.
func (e Expr) Name() string { return e.name }

// Int returns the integer literal value carried by IntLit/TupleProj nodes.
func (e Expr) Int() big.Int { return e.intVal }

// Children returns this node's ordered child expressions.
func (e Expr) Children() []Expr { return e.children }

// Child returns the i'th child expression.
func (e Expr) Child(i int) Expr { return e.children[i] }

// IDGen is the single piece of process-wide state the core depends on (spec
// §9's "global state" note): the IR's unique-id generator.  It must be
// constructed once at startup and threaded as a capability into any
// component that allocates IR nodes, rather than referenced as a package
// global, so that multiple independent verification runs (e.g. concurrent
// test cases) do not share id spaces.
type IDGen struct {
	next int
}

// NewIDGen constructs a fresh generator starting at id 0.
func NewIDGen() *IDGen { return &IDGen{} }

func (g *IDGen) alloc() int {
	id := g.next
	g.next++

	return id
}

// NewCellRef constructs a ground reference to arena cell id cellID, typed t.
// cellID is opaque to this package (the ir package does not depend on the
// arena package); callers pass the int form of arena.ID.
func (g *IDGen) NewCellRef(cellID int, t types.Type) Expr {
	var idx big.Int

	idx.SetInt64(int64(cellID))

	return Expr{id: g.alloc(), op: CellRef, typ: t, intVal: idx}
}

// CellID returns the referenced arena cell's id, for a CellRef node.
func (e Expr) CellID() int { return int(e.intVal.Int64()) }

// NewTrue constructs the boolean literal true.
func (g *IDGen) NewTrue() Expr { return Expr{id: g.alloc(), op: True, typ: types.NewBool()} }

// NewFalse constructs the boolean literal false.
func (g *IDGen) NewFalse() Expr { return Expr{id: g.alloc(), op: False, typ: types.NewBool()} }

// NewIntLit constructs an integer literal.
func (g *IDGen) NewIntLit(v big.Int) Expr {
	return Expr{id: g.alloc(), op: IntLit, typ: types.NewInt(), intVal: v}
}

// NewName constructs a variable reference of the given type.
func (g *IDGen) NewName(name string, t types.Type) Expr {
	return Expr{id: g.alloc(), op: Name, typ: t, name: name}
}

// NewPrime constructs the next-state reference v' for variable name.
func (g *IDGen) NewPrime(name string, t types.Type) Expr {
	return Expr{id: g.alloc(), op: Prime, typ: t, name: name}
}

// NewAnd constructs a conjunction of the given conjuncts.
func (g *IDGen) NewAnd(conjuncts ...Expr) Expr {
	return Expr{id: g.alloc(), op: And, typ: types.NewBool(), children: conjuncts}
}

// NewOr constructs a disjunction of the given disjuncts.
func (g *IDGen) NewOr(disjuncts ...Expr) Expr {
	return Expr{id: g.alloc(), op: Or, typ: types.NewBool(), children: disjuncts}
}

// NewNot constructs the negation of e.
func (g *IDGen) NewNot(e Expr) Expr {
	return Expr{id: g.alloc(), op: Not, typ: types.NewBool(), children: []Expr{e}}
}

// NewEq constructs the equality l = r.
func (g *IDGen) NewEq(l, r Expr) Expr {
	return Expr{id: g.alloc(), op: Eq, typ: types.NewBool(), children: []Expr{l, r}}
}

// NewIn constructs the membership test e In s.
func (g *IDGen) NewIn(e, s Expr) Expr {
	return Expr{id: g.alloc(), op: In, typ: types.NewBool(), children: []Expr{e, s}}
}

// NewAssignIn constructs a candidate assignment leaf "prime ∈ rhs".  prime
// must be a Prime node.
func (g *IDGen) NewAssignIn(prime, rhs Expr) Expr {
	if prime.op != Prime {
		panic("NewAssignIn requires a Prime node on the left-hand side")
	}

	return Expr{id: g.alloc(), op: AssignIn, typ: types.NewBool(), children: []Expr{prime, rhs}}
}

// NewSetEnum constructs a finite set literal over elem, containing elems.
func (g *IDGen) NewSetEnum(elem types.Type, elems ...Expr) Expr {
	return Expr{id: g.alloc(), op: SetEnum, typ: types.NewFinSet(elem), children: elems}
}

// NewUnion constructs the union of two set expressions of the same type.
func (g *IDGen) NewUnion(l, r Expr) Expr {
	return Expr{id: g.alloc(), op: Union, typ: l.typ, children: []Expr{l, r}}
}

// NewIntersect constructs the intersection of two set expressions of the same type.
func (g *IDGen) NewIntersect(l, r Expr) Expr {
	return Expr{id: g.alloc(), op: Intersect, typ: l.typ, children: []Expr{l, r}}
}

// NewFilter restricts set s to elements accepted by some predicate carried
// out of band of the tree (spec §4.8); only the base set is recorded as a
// child here.
func (g *IDGen) NewFilter(s Expr) Expr {
	return Expr{id: g.alloc(), op: Filter, typ: s.typ, children: []Expr{s}}
}

// NewFunApply constructs the application fn[arg].
func (g *IDGen) NewFunApply(fn, arg Expr) Expr {
	return Expr{id: g.alloc(), op: FunApply, typ: fn.typ.Res(), children: []Expr{fn, arg}}
}

// NewFunExcept constructs the function override [fn Except !arg = val].
func (g *IDGen) NewFunExcept(fn, arg, val Expr) Expr {
	return Expr{id: g.alloc(), op: FunExcept, typ: fn.typ, children: []Expr{fn, arg, val}}
}

// NewFunSet constructs the FinFunSet type-value [dom -> cdm].
func (g *IDGen) NewFunSet(dom, cdm Expr) Expr {
	t := types.NewFinFunSet(dom.typ, cdm.typ)

	return Expr{id: g.alloc(), op: FunSet, typ: t, children: []Expr{dom, cdm}}
}

// NewRecordCtor constructs a record value from its ordered field expressions.
func (g *IDGen) NewRecordCtor(fields []types.Field, values []Expr) Expr {
	return Expr{id: g.alloc(), op: RecordCtor, typ: types.NewRecord(fields), children: values}
}

// NewRecordField projects field name out of record expression r.
func (g *IDGen) NewRecordField(r Expr, name string) Expr {
	t, ok := r.typ.Field(name)
	if !ok {
		panic("NewRecordField: field not present in record type")
	}

	return Expr{id: g.alloc(), op: RecordField, typ: t, name: name, children: []Expr{r}}
}

// NewTupleCtor constructs a tuple value from its positional elements.
func (g *IDGen) NewTupleCtor(elems ...Expr) Expr {
	types_ := make([]types.Type, len(elems))
	for i, e := range elems {
		types_[i] = e.typ
	}

	return Expr{id: g.alloc(), op: TupleCtor, typ: types.NewTuple(types_), children: elems}
}

// NewTupleProj projects the i'th (0-based) element out of tuple expression t.
func (g *IDGen) NewTupleProj(t Expr, i int) Expr {
	elems := t.typ.Elems()
	if i < 0 || i >= len(elems) {
		panic("NewTupleProj: index out of range")
	}

	var idx big.Int

	idx.SetInt64(int64(i))

	return Expr{id: g.alloc(), op: TupleProj, typ: elems[i], intVal: idx, children: []Expr{t}}
}

// NewSeqCtor constructs a sequence value from its positional elements of
// element type elem.
func (g *IDGen) NewSeqCtor(elem types.Type, elems ...Expr) Expr {
	return Expr{id: g.alloc(), op: SeqCtor, typ: types.NewSeq(elem), children: elems}
}

// NewSeqAppend appends val onto sequence s.
func (g *IDGen) NewSeqAppend(s, val Expr) Expr {
	return Expr{id: g.alloc(), op: SeqAppend, typ: s.typ, children: []Expr{s, val}}
}

// IsLeaf determines whether e is a cell-level leaf: a literal, a name, or a
// prime reference (has no further rewriting obligation on its own children).
func (e Expr) IsLeaf() bool {
	switch e.op {
	case True, False, IntLit, Name, Prime:
		return true
	default:
		return false
	}
}
