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

import "fmt"

// Signature is the canonical SMT sort name a type is mapped to.  Equal types
// share a signature.  Comparable types that are not equal need not: a set
// of Unknown and a set of Int, or two records with different field sets,
// are comparable but get different signatures.  No other package calls
// Signature (spec §3.1).
type Signature string

// Signature computes the canonical SMT sort name for t.  Structural
// containers collapse to a handful of uninterpreted "cell" sorts because the
// actual structure is encoded via arena edges, not via the SMT sort itself:
// the sort only needs to distinguish what native "=" may be asked about.
func (t Type) Signature() Signature {
	switch t.kind {
	case Unknown:
		return "Unknown"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Str:
		return "String"
	case Constant:
		return Signature(fmt.Sprintf("Uninterpreted_%s", t.sort))
	case FinSet:
		return Signature(fmt.Sprintf("Cell_FinSet_%s", t.elem.Signature()))
	case Fun:
		return Signature(fmt.Sprintf("Cell_Fun_%s_%s", t.arg.Signature(), t.res.Signature()))
	case FinFunSet:
		return Signature(fmt.Sprintf("Cell_FinFunSet_%s_%s", t.dom.Signature(), t.cdm.Signature()))
	case Record:
		s := "Cell_Record"
		for _, f := range t.fields {
			s += "_" + f.Name + "_" + string(f.Type.Signature())
		}

		return Signature(s)
	case Tuple:
		s := "Cell_Tuple"
		for _, e := range t.elems {
			s += "_" + string(e.Signature())
		}

		return Signature(s)
	case Seq:
		return Signature(fmt.Sprintf("Cell_Seq_%s", t.elem.Signature()))
	default:
		return "Unknown"
	}
}
