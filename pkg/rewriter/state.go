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

// Package rewriter implements the symbolic rewriter (layer L5, spec §3.4,
// §4.5): the component that turns a specification-level IR expression into
// an arena cell plus the SMT constraints that link the cell to its
// sub-expressions' cells.
//
// Rules are represented as a tagged switch over ir.Op rather than a rule
// registry with virtual dispatch (spec §9's "avoid virtual dispatch through
// inheritance"): the cases are mutually exclusive by construction, so the
// "applicable?" half of spec §4.5's rule pair is simply the switch itself.
package rewriter

import (
	"github.com/apalache-core/apalache-core/pkg/arena"
)

// Env is the per-level binding environment of spec §3.4: a mapping from
// variable name to the cell currently bound to it.  Primed references are
// looked up under a distinct key so that v and v' never collide.
type Env map[string]arena.ID

// primedKey is the Env key under which v''s current binding is stored.
func primedKey(name string) string { return name + "'" }

// Bind returns a new Env with name bound to c, leaving the receiver
// untouched (Env is read via plain map sharing otherwise, matching the
// arena's structural-sharing style; callers that need isolation should
// Clone first).
func (env Env) Bind(name string, c arena.Cell) Env {
	out := env.Clone()
	out[name] = c.ID()

	return out
}

// BindPrime returns a new Env with v' bound to c.
func (env Env) BindPrime(name string, c arena.Cell) Env {
	out := env.Clone()
	out[primedKey(name)] = c.ID()

	return out
}

// Clone returns a shallow copy of env.
func (env Env) Clone() Env {
	out := make(Env, len(env))
	for k, v := range env {
		out[k] = v
	}

	return out
}

// State is the symbolic state of spec §3.4: the current arena plus the
// current binding environment.  State is a plain value; rewriting returns a
// new State, never mutates the receiver.
type State struct {
	Arena arena.Arena
	Env   Env
}

// NewState constructs the initial symbolic state over a (possibly freshly
// allocated) arena and an empty environment.
func NewState(a arena.Arena) State {
	return State{Arena: a, Env: Env{}}
}
