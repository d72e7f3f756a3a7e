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
package ir

import (
	"fmt"
	"strings"
)

// opName gives the s-expression head for an operator.
func (op Op) opName() string {
	switch op {
	case True:
		return "true"
	case False:
		return "false"
	case IntLit:
		return "int"
	case Name:
		return "name"
	case Prime:
		return "prime"
	case And:
		return "and"
	case Or:
		return "or"
	case Not:
		return "not"
	case Eq:
		return "="
	case In:
		return "in"
	case AssignIn:
		return "assign-in"
	case SetEnum:
		return "set-enum"
	case Union:
		return "union"
	case Intersect:
		return "intersect"
	case Filter:
		return "filter"
	case FunApply:
		return "apply"
	case FunExcept:
		return "except"
	case FunSet:
		return "fun-set"
	case RecordCtor:
		return "record"
	case RecordField:
		return "field"
	case TupleCtor:
		return "tuple"
	case TupleProj:
		return "proj"
	case SeqCtor:
		return "seq"
	case SeqAppend:
		return "append"
	case CellRef:
		return "cell"
	default:
		return "?"
	}
}

// String renders e as a lisp-like s-expression, grounded on the teacher's
// convention of printing IR trees as s-expressions for debugging (see e.g.
// hir/lisp.go).  Every node is tagged with its id in "#id" form so a fatal
// error can point a reader straight at the offending sub-expression (spec
// §7's propagation policy).
func (e Expr) String() string {
	var b strings.Builder

	e.write(&b)

	return b.String()
}

func (e Expr) write(b *strings.Builder) {
	switch e.op {
	case True, False:
		fmt.Fprintf(b, "(%s #%d)", e.op.opName(), e.id)

		return
	case IntLit:
		fmt.Fprintf(b, "(int %s #%d)", e.intVal.String(), e.id)

		return
	case CellRef:
		fmt.Fprintf(b, "(cell c%d #%d)", e.CellID(), e.id)

		return
	case Name, Prime:
		fmt.Fprintf(b, "(%s %s #%d)", e.op.opName(), e.name, e.id)

		return
	case TupleProj:
		fmt.Fprintf(b, "(proj %s %s #%d)", e.intVal.String(), e.children[0].String(), e.id)

		return
	case RecordField:
		fmt.Fprintf(b, "(field %s %s #%d)", e.name, e.children[0].String(), e.id)

		return
	}

	fmt.Fprintf(b, "(%s", e.op.opName())

	for _, c := range e.children {
		b.WriteByte(' ')
		c.write(b)
	}

	fmt.Fprintf(b, " #%d)", e.id)
}
