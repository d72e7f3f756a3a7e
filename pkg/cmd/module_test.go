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
package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/types"
	"github.com/segmentio/encoding/json"
)

func writeModuleFixture(t *testing.T, doc moduleDoc) string {
	t.Helper()

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	path := filepath.Join(t.TempDir(), "module.json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	return path
}

func Test_LoadModule_DecodesFormula(t *testing.T) {
	gen := ir.NewIDGen()
	v := gen.NewPrime("v", types.NewBool())
	formula := gen.NewAnd(v, gen.NewNot(v))

	path := writeModuleFixture(t, moduleDoc{Formula: ir.Encode(formula)})

	mod, _, err := loadModule(path)
	if err != nil {
		t.Fatalf("loadModule: %v", err)
	}

	if mod.Formula.Op() != ir.And {
		t.Fatalf("expected top-level And, got %v", mod.Formula.Op())
	}

	if len(mod.Formula.Children()) != 2 {
		t.Fatalf("expected 2 children, got %d", len(mod.Formula.Children()))
	}
}

func Test_LoadModule_ErrorsOnMissingFile(t *testing.T) {
	if _, _, err := loadModule(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error loading a nonexistent module file")
	}
}

func Test_LoadModule_ErrorsOnMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, _, err := loadModule(path); err == nil {
		t.Fatal("expected error loading malformed JSON")
	}
}
