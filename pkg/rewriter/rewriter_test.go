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
	"math/big"
	"testing"

	"github.com/apalache-core/apalache-core/pkg/arena"
	"github.com/apalache-core/apalache-core/pkg/cache"
	"github.com/apalache-core/apalache-core/pkg/equality"
	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/smt"
	"github.com/apalache-core/apalache-core/pkg/types"
)

func newFixture() (*ir.IDGen, *smt.MemoryGateway, *Rewriter) {
	gen := ir.NewIDGen()
	gw := smt.NewMemoryGateway()
	eq := equality.New(gen, cache.New(), gw)

	return gen, gw, New(gen, eq, gw)
}

func Test_Rewrite_BooleanLiterals(t *testing.T) {
	gen, _, r := newFixture()
	st := NewState(arena.New())

	st, tc, err := r.RewriteUntilDone(st, gen.NewAnd(gen.NewTrue(), gen.NewTrue()))
	if err != nil {
		t.Fatal(err)
	}

	if tc.ID() == 0 {
		t.Fatal("expected And rule to allocate its own result cell")
	}

	_ = st
}

func Test_Rewrite_SetEnumAndEquality_EqualLiteralSingletons(t *testing.T) {
	gen, gw, r := newFixture()
	st := NewState(arena.New())

	one := gen.NewIntLit(*bigOne())
	setA := gen.NewSetEnum(types.NewInt(), one)
	setB := gen.NewSetEnum(types.NewInt(), gen.NewIntLit(*bigOne()))

	st, eqCell, err := r.RewriteUntilDone(st, gen.NewEq(setA, setB))
	if err != nil {
		t.Fatal(err)
	}

	// The literal int cells for "1" are allocated fresh (not value-interned)
	// so they are distinct cells by construction; only the Eq-of-sets cell
	// is asserted here, the two literal cells are left unconstrained.
	ref := gen.NewCellRef(int(eqCell.ID()), types.NewBool())
	if err := gw.AssertGround(ref); err != nil {
		t.Fatal(err)
	}

	// Two fresh int cells for "1" are, by default, unconstrained in the
	// in-memory gateway's partition search: asserting the Eq-of-sets cell
	// true should still be satisfiable, since the solver is free to put
	// both literal cells in the same equivalence class.
	res, err := gw.Sat()
	if err != nil {
		t.Fatal(err)
	}

	if res != smt.Sat {
		t.Fatalf("expected equal singleton sets to be sat, got %s", res)
	}

	_ = st
}

func Test_Rewrite_Not_RoundTrips(t *testing.T) {
	gen, gw, r := newFixture()
	st := NewState(arena.New())

	st, cell, err := r.RewriteUntilDone(st, gen.NewNot(gen.NewFalse()))
	if err != nil {
		t.Fatal(err)
	}

	ref := gen.NewCellRef(int(cell.ID()), types.NewBool())
	if err := gw.AssertGround(ref); err != nil {
		t.Fatal(err)
	}

	res, err := gw.Sat()
	if err != nil {
		t.Fatal(err)
	}

	if res != smt.Sat {
		t.Fatalf("expected Not(false) to be sat when asserted true, got %s", res)
	}

	_ = st
}

func Test_Rewrite_RecordCtorAndField(t *testing.T) {
	gen, _, r := newFixture()
	st := NewState(arena.New())

	fields := []types.Field{{Name: "foo", Type: types.NewInt()}}
	rec := gen.NewRecordCtor(fields, []ir.Expr{gen.NewIntLit(*bigOne())})
	proj := gen.NewRecordField(rec, "foo")

	st, cell, err := r.RewriteUntilDone(st, proj)
	if err != nil {
		t.Fatal(err)
	}

	if cell.Type().Kind() != types.Int {
		t.Fatalf("expected projected field to be Int-typed, got %s", cell.Type())
	}
}

func bigOne() *big.Int {
	return big.NewInt(1)
}
