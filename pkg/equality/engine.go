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

// Package equality implements the lazy equality engine (layer L4, spec
// §3.3, §4.4): the component that decides whether two arena cells are
// equal, generating and asserting structural constraints exactly once per
// pair and caching the outcome for every subsequent query.
//
// The engine never recurses into the SMT gateway eagerly.  safeEq/cachedEq
// only ever read the cache; cacheEq is the one operation allowed to mutate
// the arena (by materialising fresh boolean cells) and the gateway (by
// asserting constraints).  Keeping those two concerns apart is what makes
// the "lazy" in the name correct: a rewriter that never asks for an
// equality never pays for one.
package equality

import (
	"github.com/apalache-core/apalache-core/pkg/apalacheerr"
	"github.com/apalache-core/apalache-core/pkg/arena"
	"github.com/apalache-core/apalache-core/pkg/cache"
	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/smt"
	"github.com/apalache-core/apalache-core/pkg/types"
	log "github.com/sirupsen/logrus"
)

// component names this package in apalacheerr diagnostics.
const component = "equality.Engine"

// materializeThreshold bounds the number of literal sub-formulas a
// structural equality is allowed to inline directly into its caller before
// the Engine switches to materialising the sub-formula as its own fresh
// boolean cell instead.  Only SubsetEq consults it; the other type
// families never inline their structural expansion, since materialize
// always asserts it as a biconditional and caches the pair as Eq.
const materializeThreshold = 4

// Engine is the lazy equality engine.  An Engine is bound to exactly one
// cache and one SMT gateway session for its whole lifetime; it holds no
// arena of its own; every method is given the caller's current Arena
// explicitly and, where it allocates, returns the extended one.
type Engine struct {
	gen   *ir.IDGen
	cache *cache.Cache
	gw    smt.Gateway
	log   *log.Entry
}

// New constructs an Engine over the given id generator, cache, and gateway.
// All three must be the instances shared by the rest of the run: the engine
// does not own or reset any of them.
func New(gen *ir.IDGen, c *cache.Cache, gw smt.Gateway) *Engine {
	return &Engine{gen: gen, cache: c, gw: gw, log: log.WithField("component", component)}
}

// termForEntry renders a cache.Entry as the boolean IR term it stands for.
func (e *Engine) termForEntry(entry cache.Entry, x, y arena.Cell) ir.Expr {
	switch entry.Kind {
	case cache.True:
		return e.gen.NewTrue()
	case cache.False:
		return e.gen.NewFalse()
	case cache.Eq:
		return e.gen.NewEq(e.gen.NewCellRef(int(x.ID()), x.Type()), e.gen.NewCellRef(int(y.ID()), y.Type()))
	case cache.Expr:
		return e.gen.NewCellRef(int(entry.Cell), types.NewBool())
	default:
		panic("equality: unreachable cache.EntryKind")
	}
}

// SafeEq returns the boolean IR term asserting x=y, requiring the pair to
// already be cached (spec §4.4).  Querying an uncached pair, or a pair of
// incomparable types, is a programmer error: both are reported as a fatal
// apalacheerr.Error rather than silently resolved, because silently
// resolving them would hide a missing cacheEq call upstream.
func (e *Engine) SafeEq(a arena.Arena, x, y arena.Cell) (ir.Expr, error) {
	if x.ID() == y.ID() {
		return e.gen.NewTrue(), nil
	}

	if !x.Type().Comparable(y.Type()) {
		return ir.Expr{}, apalacheerr.TypeIncomparableError(component, int(x.ID()),
			"safeEq queried over incomparable types "+x.Type().String()+" and "+y.Type().String())
	}

	entry, ok := e.cache.Get(x.ID(), y.ID())
	if !ok {
		return ir.Expr{}, apalacheerr.UncachedEqualityError(component, int(x.ID()),
			"safeEq queried before cacheEq for cells "+x.String()+" and "+y.String())
	}

	return e.termForEntry(entry, x, y), nil
}

// CachedEq is safeEq's forgiving sibling: it is pure and returns the
// literal false for incomparable types instead of raising a fatal error.
// It still requires the comparable case to be pre-cached (the same
// precondition as safeEq, and the same UncachedEquality error when it is
// not); CachedEq's sole difference is how it handles the
// type-incomparable case (spec §4.4).
func (e *Engine) CachedEq(a arena.Arena, x, y arena.Cell) (ir.Expr, error) {
	if x.ID() == y.ID() {
		return e.gen.NewTrue(), nil
	}

	if !x.Type().Comparable(y.Type()) {
		return e.gen.NewFalse(), nil
	}

	return e.SafeEq(a, x, y)
}

// DeclareEqualUnsafe installs x=y as Eq in the cache without performing any
// structural work or SMT assertion.  It exists for the privileged callers
// spec §4.4 alludes to (e.g. a rewriter rule that has already established
// the equivalence some other way, such as two cells built from literally
// the same constructor call) and is named to discourage casual use: calling
// it over cells that are not actually guaranteed equal unsoundly tells
// every future safeEq query that they are.
func (e *Engine) DeclareEqualUnsafe(x, y arena.Cell) {
	e.cache.Put(x.ID(), y.ID(), cache.Eq, 0)
}

// CacheEq is the constraint generator: it ensures the pair (x, y) has a
// cache entry, allocating whatever fresh boolean cells and SMT assertions
// the pair's type family requires, dispatched by spec §4.4's per-type-family
// rules.  CacheEq is idempotent: calling it twice on the same pair performs
// the structural work only once.
func (e *Engine) CacheEq(a arena.Arena, x, y arena.Cell) (arena.Arena, error) {
	if x.ID() == y.ID() {
		return a, nil
	}

	if !x.Type().Comparable(y.Type()) {
		return a, apalacheerr.TypeIncomparableError(component, int(x.ID()),
			"cacheEq queried over incomparable types "+x.Type().String()+" and "+y.Type().String())
	}

	if _, ok := e.cache.Get(x.ID(), y.ID()); ok {
		return a, nil
	}

	switch x.Type().Kind() {
	case types.Bool, types.Int, types.Str, types.Constant:
		// Scalars and uninterpreted constants: native SMT "=" is always
		// sound, no structural constraint to assert.
		e.cache.Put(x.ID(), y.ID(), cache.Eq, 0)

		return a, nil
	case types.FinSet:
		return e.cacheEqFinSet(a, x, y)
	case types.FinFunSet:
		return e.cacheEqFinFunSet(a, x, y)
	case types.Fun:
		return e.cacheEqFun(a, x, y)
	case types.Record:
		return e.cacheEqRecord(a, x, y)
	case types.Tuple:
		return e.cacheEqTuple(a, x, y)
	case types.Seq:
		return e.cacheEqSeq(a, x, y)
	default:
		return a, apalacheerr.MalformedIRError(component, int(x.ID()), "cacheEq: unhandled type kind "+x.Type().Kind().String())
	}
}

// materialize asserts the biconditional "(x=y) <=> expr" to the gateway and
// installs the pair as an Eq cache entry: once the solver has this
// equivalence, native SMT "=" over x and y is sound on its own, so every
// future safeEq/cachedEq query on this pair short-circuits to a plain
// equality term instead of re-rendering expr (spec §4.4).
func (e *Engine) materialize(a arena.Arena, x, y arena.Cell, expr ir.Expr) (arena.Arena, ir.Expr, error) {
	eq := e.gen.NewEq(e.gen.NewCellRef(int(x.ID()), x.Type()), e.gen.NewCellRef(int(y.ID()), y.Type()))
	biconditional := e.gen.NewAnd(
		e.gen.NewOr(e.gen.NewNot(eq), expr),
		e.gen.NewOr(eq, e.gen.NewNot(expr)),
	)

	if err := e.gw.AssertGround(biconditional); err != nil {
		return a, ir.Expr{}, err
	}

	e.cache.Put(x.ID(), y.ID(), cache.Eq, 0)

	return a, eq, nil
}
