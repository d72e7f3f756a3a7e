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
	"math/big"

	"github.com/apalache-core/apalache-core/pkg/types"
	"github.com/pkg/errors"
)

// typeDoc is the on-disk JSON shape of a types.Type (spec §4.11's typed IR
// module input). Kind names mirror types.Kind.String().
type typeDoc struct {
	Kind   string    `json:"kind"`
	Sort   string    `json:"sort,omitempty"`
	Elem   *typeDoc  `json:"elem,omitempty"`
	Arg    *typeDoc  `json:"arg,omitempty"`
	Res    *typeDoc  `json:"res,omitempty"`
	Dom    *typeDoc  `json:"dom,omitempty"`
	Cdm    *typeDoc  `json:"cdm,omitempty"`
	Fields []fieldDoc `json:"fields,omitempty"`
	Elems  []typeDoc `json:"elems,omitempty"`
}

type fieldDoc struct {
	Name string  `json:"name"`
	Type typeDoc `json:"type"`
}

func encodeType(t types.Type) typeDoc {
	switch t.Kind() {
	case types.Unknown:
		return typeDoc{Kind: "Unknown"}
	case types.Bool:
		return typeDoc{Kind: "Bool"}
	case types.Int:
		return typeDoc{Kind: "Int"}
	case types.Str:
		return typeDoc{Kind: "Str"}
	case types.Constant:
		return typeDoc{Kind: "Constant", Sort: t.Sort()}
	case types.FinSet:
		elem := encodeType(t.Elem())

		return typeDoc{Kind: "FinSet", Elem: &elem}
	case types.Fun:
		arg, res := encodeType(t.Arg()), encodeType(t.Res())

		return typeDoc{Kind: "Fun", Arg: &arg, Res: &res}
	case types.FinFunSet:
		dom, cdm := encodeType(t.Dom()), encodeType(t.Cdm())

		return typeDoc{Kind: "FinFunSet", Dom: &dom, Cdm: &cdm}
	case types.Record:
		fields := make([]fieldDoc, len(t.Fields()))
		for i, f := range t.Fields() {
			fields[i] = fieldDoc{Name: f.Name, Type: encodeType(f.Type)}
		}

		return typeDoc{Kind: "Record", Fields: fields}
	case types.Tuple:
		elems := make([]typeDoc, len(t.Elems()))
		for i, e := range t.Elems() {
			elems[i] = encodeType(e)
		}

		return typeDoc{Kind: "Tuple", Elems: elems}
	case types.Seq:
		elem := encodeType(t.Elem())

		return typeDoc{Kind: "Seq", Elem: &elem}
	default:
		return typeDoc{Kind: "Unknown"}
	}
}

func decodeType(d typeDoc) (types.Type, error) {
	switch d.Kind {
	case "Unknown", "":
		return types.NewUnknown(), nil
	case "Bool":
		return types.NewBool(), nil
	case "Int":
		return types.NewInt(), nil
	case "Str":
		return types.NewStr(), nil
	case "Constant":
		return types.NewConstant(d.Sort), nil
	case "FinSet":
		if d.Elem == nil {
			return types.Type{}, errors.New("ir: FinSet type missing elem")
		}

		elem, err := decodeType(*d.Elem)
		if err != nil {
			return types.Type{}, err
		}

		return types.NewFinSet(elem), nil
	case "Fun":
		if d.Arg == nil || d.Res == nil {
			return types.Type{}, errors.New("ir: Fun type missing arg/res")
		}

		arg, err := decodeType(*d.Arg)
		if err != nil {
			return types.Type{}, err
		}

		res, err := decodeType(*d.Res)
		if err != nil {
			return types.Type{}, err
		}

		return types.NewFun(arg, res), nil
	case "FinFunSet":
		if d.Dom == nil || d.Cdm == nil {
			return types.Type{}, errors.New("ir: FinFunSet type missing dom/cdm")
		}

		dom, err := decodeType(*d.Dom)
		if err != nil {
			return types.Type{}, err
		}

		cdm, err := decodeType(*d.Cdm)
		if err != nil {
			return types.Type{}, err
		}

		return types.NewFinFunSet(dom, cdm), nil
	case "Record":
		fields := make([]types.Field, len(d.Fields))

		for i, f := range d.Fields {
			ft, err := decodeType(f.Type)
			if err != nil {
				return types.Type{}, err
			}

			fields[i] = types.Field{Name: f.Name, Type: ft}
		}

		return types.NewRecord(fields), nil
	case "Tuple":
		elems := make([]types.Type, len(d.Elems))

		for i, e := range d.Elems {
			et, err := decodeType(e)
			if err != nil {
				return types.Type{}, err
			}

			elems[i] = et
		}

		return types.NewTuple(elems), nil
	case "Seq":
		if d.Elem == nil {
			return types.Type{}, errors.New("ir: Seq type missing elem")
		}

		elem, err := decodeType(*d.Elem)
		if err != nil {
			return types.Type{}, err
		}

		return types.NewSeq(elem), nil
	default:
		return types.Type{}, errors.Errorf("ir: unknown type kind %q", d.Kind)
	}
}

// ExprDoc is the on-disk JSON shape of one Expr node (spec §4.11's typed IR
// module input / §4.8's IR). Node ids are never read back from disk: Decode
// re-allocates every id through the same IDGen the rest of the process
// uses, so a loaded module's ids are unique within the running process
// exactly like any other constructed Expr tree.
type ExprDoc struct {
	Op       string    `json:"op"`
	Type     *typeDoc  `json:"type,omitempty"`
	Name     string    `json:"name,omitempty"`
	Int      string    `json:"int,omitempty"`
	Field    string    `json:"field,omitempty"`
	Index    int       `json:"index,omitempty"`
	Children []ExprDoc `json:"children,omitempty"`
}

// Encode renders e as its on-disk JSON document.
func Encode(e Expr) ExprDoc {
	d := ExprDoc{Op: opName(e.Op())}

	switch e.Op() {
	case Name, Prime:
		d.Name = e.Name()
		t := encodeType(e.Type())
		d.Type = &t
	case RecordField:
		d.Field = e.Name()
	case IntLit:
		v := e.Int()
		d.Int = v.String()
	case TupleProj:
		d.Index = int(e.Int().Int64())
	case CellRef:
		d.Index = e.CellID()
	}

	if e.Op() == SetEnum || e.Op() == SeqCtor {
		t := encodeType(e.Type().Elem())
		d.Type = &t
	}

	if e.Op() == RecordCtor {
		t := encodeType(e.Type())
		d.Type = &t
	}

	for _, c := range e.Children() {
		d.Children = append(d.Children, Encode(c))
	}

	return d
}

func opName(op Op) string {
	switch op {
	case True:
		return "True"
	case False:
		return "False"
	case IntLit:
		return "IntLit"
	case Name:
		return "Name"
	case Prime:
		return "Prime"
	case And:
		return "And"
	case Or:
		return "Or"
	case Not:
		return "Not"
	case Eq:
		return "Eq"
	case In:
		return "In"
	case AssignIn:
		return "AssignIn"
	case SetEnum:
		return "SetEnum"
	case Union:
		return "Union"
	case Intersect:
		return "Intersect"
	case Filter:
		return "Filter"
	case FunApply:
		return "FunApply"
	case FunExcept:
		return "FunExcept"
	case FunSet:
		return "FunSet"
	case RecordCtor:
		return "RecordCtor"
	case RecordField:
		return "RecordField"
	case TupleCtor:
		return "TupleCtor"
	case TupleProj:
		return "TupleProj"
	case SeqCtor:
		return "SeqCtor"
	case SeqAppend:
		return "SeqAppend"
	case CellRef:
		return "CellRef"
	default:
		return "Unknown"
	}
}

// Decode rebuilds an Expr tree from its JSON document, allocating every
// node's id fresh through gen. The node's own static type (where it isn't
// implied by its constructor, e.g. a Name's declared type) is carried by
// Type; Op-specific fields (Name, Int, Field, Index) are interpreted
// per-operator the way the corresponding New* constructor expects.
func Decode(gen *IDGen, d ExprDoc) (Expr, error) {
	children := make([]Expr, len(d.Children))

	for i, c := range d.Children {
		e, err := Decode(gen, c)
		if err != nil {
			return Expr{}, err
		}

		children[i] = e
	}

	switch d.Op {
	case "True":
		return gen.NewTrue(), nil
	case "False":
		return gen.NewFalse(), nil
	case "IntLit":
		var v big.Int
		if _, ok := v.SetString(d.Int, 10); !ok {
			return Expr{}, errors.Errorf("ir: malformed int literal %q", d.Int)
		}

		return gen.NewIntLit(v), nil
	case "Name":
		t, err := decodeNodeType(d)
		if err != nil {
			return Expr{}, err
		}

		return gen.NewName(d.Name, t), nil
	case "Prime":
		t, err := decodeNodeType(d)
		if err != nil {
			return Expr{}, err
		}

		return gen.NewPrime(d.Name, t), nil
	case "And":
		return gen.NewAnd(children...), nil
	case "Or":
		return gen.NewOr(children...), nil
	case "Not":
		if len(children) != 1 {
			return Expr{}, errors.New("ir: Not requires exactly one child")
		}

		return gen.NewNot(children[0]), nil
	case "Eq":
		if len(children) != 2 {
			return Expr{}, errors.New("ir: Eq requires exactly two children")
		}

		return gen.NewEq(children[0], children[1]), nil
	case "In":
		if len(children) != 2 {
			return Expr{}, errors.New("ir: In requires exactly two children")
		}

		return gen.NewIn(children[0], children[1]), nil
	case "AssignIn":
		if len(children) != 2 {
			return Expr{}, errors.New("ir: AssignIn requires exactly two children")
		}

		return gen.NewAssignIn(children[0], children[1]), nil
	case "SetEnum":
		elemT, err := decodeNodeType(d)
		if err != nil {
			return Expr{}, err
		}

		return gen.NewSetEnum(elemT, children...), nil
	case "Filter":
		if len(children) != 1 {
			return Expr{}, errors.New("ir: Filter requires exactly one child")
		}

		return gen.NewFilter(children[0]), nil
	case "Union":
		if len(children) != 2 {
			return Expr{}, errors.New("ir: Union requires exactly two children")
		}

		return gen.NewUnion(children[0], children[1]), nil
	case "Intersect":
		if len(children) != 2 {
			return Expr{}, errors.New("ir: Intersect requires exactly two children")
		}

		return gen.NewIntersect(children[0], children[1]), nil
	case "FunApply":
		if len(children) != 2 {
			return Expr{}, errors.New("ir: FunApply requires exactly two children")
		}

		return gen.NewFunApply(children[0], children[1]), nil
	case "FunExcept":
		if len(children) != 3 {
			return Expr{}, errors.New("ir: FunExcept requires exactly three children")
		}

		return gen.NewFunExcept(children[0], children[1], children[2]), nil
	case "FunSet":
		if len(children) != 2 {
			return Expr{}, errors.New("ir: FunSet requires exactly two children")
		}

		return gen.NewFunSet(children[0], children[1]), nil
	case "RecordCtor":
		t, err := decodeNodeType(d)
		if err != nil {
			return Expr{}, err
		}

		return gen.NewRecordCtor(t.Fields(), children), nil
	case "RecordField":
		if len(children) != 1 {
			return Expr{}, errors.New("ir: RecordField requires exactly one child")
		}

		return gen.NewRecordField(children[0], d.Field), nil
	case "TupleCtor":
		return gen.NewTupleCtor(children...), nil
	case "TupleProj":
		if len(children) != 1 {
			return Expr{}, errors.New("ir: TupleProj requires exactly one child")
		}

		return gen.NewTupleProj(children[0], d.Index), nil
	case "SeqCtor":
		elemT, err := decodeNodeType(d)
		if err != nil {
			return Expr{}, err
		}

		return gen.NewSeqCtor(elemT, children...), nil
	case "SeqAppend":
		if len(children) != 2 {
			return Expr{}, errors.New("ir: SeqAppend requires exactly two children")
		}

		return gen.NewSeqAppend(children[0], children[1]), nil
	default:
		return Expr{}, errors.Errorf("ir: unknown op %q", d.Op)
	}
}

func decodeNodeType(d ExprDoc) (types.Type, error) {
	if d.Type == nil {
		return types.Type{}, errors.Errorf("ir: node of op %q missing required type", d.Op)
	}

	return decodeType(*d.Type)
}
