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
	"bytes"
	"strings"
	"testing"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/types"
	log "github.com/sirupsen/logrus"
)

// nopWriteCloser lets the test drive ProcessGateway.send without a real
// solver subprocess on the other end of stdin.
type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func newTestProcessGateway() (*ProcessGateway, *bytes.Buffer) {
	buf := &bytes.Buffer{}

	g := &ProcessGateway{
		stdin:    nopWriteCloser{buf},
		log:      log.WithField("component", "smt.ProcessGateway"),
		trace:    newTraceLogger(),
		declared: make(map[int]bool),
	}

	return g, buf
}

func Test_AssertGround_DeclaresScalarCellsBeforeAsserting(t *testing.T) {
	g, buf := newTestProcessGateway()
	gen := ir.NewIDGen()

	ref := gen.NewCellRef(3, types.NewBool())

	if err := g.AssertGround(ref); err != nil {
		t.Fatal(err)
	}

	sent := buf.String()

	if !strings.Contains(sent, "(declare-const c3 Bool)") {
		t.Fatalf("expected a Bool declare-const for c3, got %q", sent)
	}

	if !strings.Contains(sent, "(assert c3)") {
		t.Fatalf("expected the assertion to follow the declaration, got %q", sent)
	}

	if strings.Index(sent, "declare-const") > strings.Index(sent, "assert") {
		t.Fatalf("expected declare-const before assert, got %q", sent)
	}
}

func Test_AssertGround_StructuralCellUsesSharedValueSort(t *testing.T) {
	g, buf := newTestProcessGateway()
	gen := ir.NewIDGen()

	x := gen.NewCellRef(1, types.NewFinSet(types.NewInt()))
	y := gen.NewCellRef(2, types.NewFinSet(types.NewInt()))
	eq := gen.NewEq(x, y)

	if err := g.AssertGround(eq); err != nil {
		t.Fatal(err)
	}

	sent := buf.String()

	if !strings.Contains(sent, "(declare-sort Value 0)") {
		t.Fatalf("expected the shared Value sort to be declared, got %q", sent)
	}

	if !strings.Contains(sent, "(declare-const c1 Value)") || !strings.Contains(sent, "(declare-const c2 Value)") {
		t.Fatalf("expected both structural cells declared with sort Value, got %q", sent)
	}

	if !strings.Contains(sent, "(assert (= c1 c2))") {
		t.Fatalf("expected a native equality assertion, got %q", sent)
	}
}

func Test_AssertGround_DoesNotRedeclareAKnownCell(t *testing.T) {
	g, buf := newTestProcessGateway()
	gen := ir.NewIDGen()

	ref := gen.NewCellRef(5, types.NewInt())

	if err := g.AssertGround(ref); err != nil {
		t.Fatal(err)
	}

	if err := g.AssertGround(gen.NewEq(ref, ref)); err != nil {
		t.Fatal(err)
	}

	if n := strings.Count(buf.String(), "declare-const c5"); n != 1 {
		t.Fatalf("expected exactly one declaration for c5, got %d", n)
	}
}

func Test_Pop_ForgetsDeclarationsMadeInsideThePoppedScope(t *testing.T) {
	g, buf := newTestProcessGateway()
	gen := ir.NewIDGen()

	if err := g.Push(); err != nil {
		t.Fatal(err)
	}

	ref := gen.NewCellRef(0, types.NewBool())

	if err := g.AssertGround(ref); err != nil {
		t.Fatal(err)
	}

	if !g.declared[0] {
		t.Fatal("expected cell 0 to be tracked as declared")
	}

	if err := g.Pop(1); err != nil {
		t.Fatal(err)
	}

	if g.declared[0] {
		t.Fatal("expected Pop to forget a declaration made inside the popped scope")
	}

	buf.Reset()

	if err := g.AssertGround(ref); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "(declare-const c0 Bool)") {
		t.Fatalf("expected cell 0 to be re-declared after its scope was popped, got %q", buf.String())
	}
}

func Test_Pop_PreservesDeclarationsMadeOutsideThePoppedScope(t *testing.T) {
	g, buf := newTestProcessGateway()
	gen := ir.NewIDGen()

	ref := gen.NewCellRef(7, types.NewInt())

	if err := g.AssertGround(ref); err != nil {
		t.Fatal(err)
	}

	if err := g.Push(); err != nil {
		t.Fatal(err)
	}

	if err := g.Pop(1); err != nil {
		t.Fatal(err)
	}

	if !g.declared[7] {
		t.Fatal("expected a declaration made before Push to survive an unrelated Pop")
	}

	buf.Reset()

	if err := g.AssertGround(ref); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(buf.String(), "declare-const") {
		t.Fatalf("expected no re-declaration of a still-live cell, got %q", buf.String())
	}
}

func Test_SortFor_MapsEachTypeKind(t *testing.T) {
	cases := []struct {
		name string
		typ  types.Type
		want string
	}{
		{"bool", types.NewBool(), "Bool"},
		{"int", types.NewInt(), "Int"},
		{"str", types.NewStr(), "String"},
		{"finset", types.NewFinSet(types.NewInt()), valueSort},
		{"record", types.NewRecord([]types.Field{{Name: "a", Type: types.NewInt()}}), valueSort},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := sortFor(c.typ); got != c.want {
				t.Fatalf("sortFor(%s): expected %q, got %q", c.name, c.want, got)
			}
		})
	}
}
