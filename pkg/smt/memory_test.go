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
	"math/big"
	"testing"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/types"
)

func Test_MemoryGateway_TrivialTautology(t *testing.T) {
	g := NewMemoryGateway()
	gen := ir.NewIDGen()

	if err := g.AssertGround(gen.NewTrue()); err != nil {
		t.Fatal(err)
	}

	res, err := g.Sat()
	if err != nil {
		t.Fatal(err)
	}

	if res != Sat {
		t.Fatalf("expected sat, got %s", res)
	}
}

func Test_MemoryGateway_DirectContradiction(t *testing.T) {
	g := NewMemoryGateway()
	gen := ir.NewIDGen()

	if err := g.AssertGround(gen.NewAnd(gen.NewTrue(), gen.NewNot(gen.NewTrue()))); err != nil {
		t.Fatal(err)
	}

	res, err := g.Sat()
	if err != nil {
		t.Fatal(err)
	}

	if res != Unsat {
		t.Fatalf("expected unsat, got %s", res)
	}
}

func Test_MemoryGateway_ValueAtomsCanBeEqual(t *testing.T) {
	g := NewMemoryGateway()
	gen := ir.NewIDGen()
	a := gen.NewCellRef(10, types.NewInt())
	b := gen.NewCellRef(11, types.NewInt())

	if err := g.AssertGround(gen.NewEq(a, b)); err != nil {
		t.Fatal(err)
	}

	res, err := g.Sat()
	if err != nil {
		t.Fatal(err)
	}

	if res != Sat {
		t.Fatalf("two distinct value atoms asserted equal should be satisfiable, got %s", res)
	}
}

func Test_MemoryGateway_ValueAtomsCanBeUnequal(t *testing.T) {
	g := NewMemoryGateway()
	gen := ir.NewIDGen()
	a := gen.NewCellRef(10, types.NewInt())
	b := gen.NewCellRef(11, types.NewInt())

	if err := g.AssertGround(gen.NewNot(gen.NewEq(a, b))); err != nil {
		t.Fatal(err)
	}

	res, err := g.Sat()
	if err != nil {
		t.Fatal(err)
	}

	if res != Sat {
		t.Fatalf("two distinct value atoms asserted unequal should be satisfiable, got %s", res)
	}
}

func Test_MemoryGateway_IntLiteralMismatchIsUnsat(t *testing.T) {
	g := NewMemoryGateway()
	gen := ir.NewIDGen()

	l := gen.NewIntLit(*big.NewInt(1))
	r := gen.NewIntLit(*big.NewInt(2))

	if err := g.AssertGround(gen.NewEq(l, r)); err != nil {
		t.Fatal(err)
	}

	res, err := g.Sat()
	if err != nil {
		t.Fatal(err)
	}

	if res != Unsat {
		t.Fatalf("1=2 should be unsat, got %s", res)
	}
}

func Test_MemoryGateway_PushPop_DiscardsAssertions(t *testing.T) {
	g := NewMemoryGateway()
	gen := ir.NewIDGen()

	if err := g.Push(); err != nil {
		t.Fatal(err)
	}

	if err := g.AssertGround(gen.NewFalse()); err != nil {
		t.Fatal(err)
	}

	if err := g.Pop(1); err != nil {
		t.Fatal(err)
	}

	res, err := g.Sat()
	if err != nil {
		t.Fatal(err)
	}

	if res != Sat {
		t.Fatalf("expected sat after popping the false assertion, got %s", res)
	}
}

func Test_MemoryGateway_RejectsNonBoolAssertion(t *testing.T) {
	g := NewMemoryGateway()
	gen := ir.NewIDGen()

	if err := g.AssertGround(gen.NewIntLit(*big.NewInt(3))); err == nil {
		t.Fatal("expected an error asserting a non-Bool expression")
	}
}
