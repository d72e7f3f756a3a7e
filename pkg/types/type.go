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

// Package types implements the algebraic type lattice (layer L0) over which
// symbolic cells are classified: booleans, integers, strings, uninterpreted
// constants, and the structural containers (finite sets, functions,
// function-sets, records, tuples, sequences).
package types

import (
	"fmt"
	"strings"
)

// Kind identifies which variant of the type lattice a Type occupies.
type Kind uint8

const (
	// Unknown is the placeholder type used only for the empty-set constant.
	Unknown Kind = iota
	// Bool is the type of the two boolean literals.
	Bool
	// Int is the type of integer literals and integer-valued expressions.
	Int
	// Str is the type of string literals.
	Str
	// Constant is an uninterpreted sort, identified by name.
	Constant
	// FinSet is the type of finite sets of a common element type.
	FinSet
	// Fun is the type of functions from an argument type to a result type.
	Fun
	// FinFunSet is the type of the set of all functions between two sets.
	FinFunSet
	// Record is the type of a record with an ordered set of named fields.
	Record
	// Tuple is the type of a fixed-length heterogeneous sequence.
	Tuple
	// Seq is the type of a variable-length sequence of a common element type.
	Seq
)

// String gives a human-readable name for a Kind, used in diagnostics.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Str:
		return "Str"
	case Constant:
		return "Constant"
	case FinSet:
		return "FinSet"
	case Fun:
		return "Fun"
	case FinFunSet:
		return "FinFunSet"
	case Record:
		return "Record"
	case Tuple:
		return "Tuple"
	case Seq:
		return "Seq"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Field is a single named entry of a Record type.  Fields are kept in
// declaration order; the order is significant for String() and Equal()
// (which compares fields position by position) but not for Comparable().
type Field struct {
	Name string
	Type Type
}

// Type is a tagged variant of the cell-type lattice described in spec §3.1.
// It is deliberately a closed struct rather than an interface hierarchy: the
// set of variants is fixed, and a tagged match lets every consumer (the
// rewriter, the lazy equality engine, the signature table) dispatch on Kind
// without virtual dispatch.
type Type struct {
	kind Kind
	// sort holds the uninterpreted sort name when kind == Constant.
	sort string
	// elem holds the element type for FinSet and Seq.
	elem *Type
	// arg/res hold the argument/result types for Fun.
	arg, res *Type
	// dom/cdm hold the domain/codomain set types for FinFunSet.
	dom, cdm *Type
	// fields holds the ordered field list for Record.
	fields []Field
	// elems holds the positional element types for Tuple.
	elems []Type
}

// NewUnknown constructs the Unknown placeholder type.
func NewUnknown() Type { return Type{kind: Unknown} }

// NewBool constructs the Bool scalar type.
func NewBool() Type { return Type{kind: Bool} }

// NewInt constructs the Int scalar type.
func NewInt() Type { return Type{kind: Int} }

// NewStr constructs the Str scalar type.
func NewStr() Type { return Type{kind: Str} }

// NewConstant constructs an uninterpreted-sort type with the given name.
func NewConstant(sort string) Type { return Type{kind: Constant, sort: sort} }

// NewFinSet constructs the finite-set type over the given element type.
func NewFinSet(elem Type) Type { return Type{kind: FinSet, elem: &elem} }

// NewFun constructs a function type from arg to res.
func NewFun(arg, res Type) Type { return Type{kind: Fun, arg: &arg, res: &res} }

// NewFinFunSet constructs the type of the set of all functions dom -> cdm's
// element, where dom and cdm are themselves FinSet types.
func NewFinFunSet(dom, cdm Type) Type { return Type{kind: FinFunSet, dom: &dom, cdm: &cdm} }

// NewRecord constructs a record type from an ordered field list.  The caller
// owns the slice; NewRecord does not copy it.
func NewRecord(fields []Field) Type { return Type{kind: Record, fields: fields} }

// NewTuple constructs a tuple type from a positional element-type list.
func NewTuple(elems []Type) Type { return Type{kind: Tuple, elems: elems} }

// NewSeq constructs the sequence type over the given element type.
func NewSeq(elem Type) Type { return Type{kind: Seq, elem: &elem} }

// Kind returns this type's tag.
func (t Type) Kind() Kind { return t.kind }

// Sort returns the uninterpreted-sort name.  Panics unless Kind() == Constant.
func (t Type) Sort() string {
	if t.kind != Constant {
		panic("Sort() called on non-Constant type")
	}

	return t.sort
}

// Elem returns the element type of a FinSet or Seq.  Panics otherwise.
func (t Type) Elem() Type {
	if t.kind != FinSet && t.kind != Seq {
		panic("Elem() called on non-FinSet/Seq type")
	}

	return *t.elem
}

// Arg returns the argument type of a Fun.  Panics otherwise.
func (t Type) Arg() Type {
	if t.kind != Fun {
		panic("Arg() called on non-Fun type")
	}

	return *t.arg
}

// Res returns the result type of a Fun.  Panics otherwise.
func (t Type) Res() Type {
	if t.kind != Fun {
		panic("Res() called on non-Fun type")
	}

	return *t.res
}

// Dom returns the domain-set type of a FinFunSet.  Panics otherwise.
func (t Type) Dom() Type {
	if t.kind != FinFunSet {
		panic("Dom() called on non-FinFunSet type")
	}

	return *t.dom
}

// Cdm returns the codomain-set type of a FinFunSet.  Panics otherwise.
func (t Type) Cdm() Type {
	if t.kind != FinFunSet {
		panic("Cdm() called on non-FinFunSet type")
	}

	return *t.cdm
}

// Fields returns the ordered field list of a Record.  Panics otherwise.
func (t Type) Fields() []Field {
	if t.kind != Record {
		panic("Fields() called on non-Record type")
	}

	return t.fields
}

// Field looks up a named field of a Record, returning (type, true) if present.
func (t Type) Field(name string) (Type, bool) {
	for _, f := range t.Fields() {
		if f.Name == name {
			return f.Type, true
		}
	}

	return Type{}, false
}

// Elems returns the positional element-type list of a Tuple.  Panics otherwise.
func (t Type) Elems() []Type {
	if t.kind != Tuple {
		panic("Elems() called on non-Tuple type")
	}

	return t.elems
}

// String produces a human-readable rendering, used in diagnostics and tests.
func (t Type) String() string {
	switch t.kind {
	case Unknown:
		return "Unknown"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Str:
		return "Str"
	case Constant:
		return fmt.Sprintf("Constant(%s)", t.sort)
	case FinSet:
		return fmt.Sprintf("FinSet(%s)", t.elem.String())
	case Fun:
		return fmt.Sprintf("Fun(%s -> %s)", t.arg.String(), t.res.String())
	case FinFunSet:
		return fmt.Sprintf("FinFunSet(%s -> %s)", t.dom.String(), t.cdm.String())
	case Record:
		parts := make([]string, len(t.fields))
		for i, f := range t.fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type.String())
		}

		return fmt.Sprintf("Record{%s}", strings.Join(parts, ", "))
	case Tuple:
		parts := make([]string, len(t.elems))
		for i, e := range t.elems {
			parts[i] = e.String()
		}

		return fmt.Sprintf("Tuple(%s)", strings.Join(parts, ", "))
	case Seq:
		return fmt.Sprintf("Seq(%s)", t.elem.String())
	default:
		return "?"
	}
}

// Equal determines structural equality of two types (not to be confused with
// Comparable, which is about whether the lazy equality engine may relate
// values of the two types).
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}

	switch t.kind {
	case Unknown, Bool, Int, Str:
		return true
	case Constant:
		return t.sort == o.sort
	case FinSet, Seq:
		return t.elem.Equal(*o.elem)
	case Fun:
		return t.arg.Equal(*o.arg) && t.res.Equal(*o.res)
	case FinFunSet:
		return t.dom.Equal(*o.dom) && t.cdm.Equal(*o.cdm)
	case Record:
		if len(t.fields) != len(o.fields) {
			return false
		}

		for i, f := range t.fields {
			if f.Name != o.fields[i].Name || !f.Type.Equal(o.fields[i].Type) {
				return false
			}
		}

		return true
	case Tuple:
		if len(t.elems) != len(o.elems) {
			return false
		}

		for i, e := range t.elems {
			if !e.Equal(o.elems[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// IsEmptySet determines whether t is the statically-empty-set marker type
// FinSet(Unknown), the special case called out in spec §4.4.
func (t Type) IsEmptySet() bool {
	return t.kind == FinSet && t.elem.kind == Unknown
}
