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
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/apalache-core/apalache-core/pkg/types"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// toSMTLIB serialises a ground boolean IR expression to SMT-LIB2 concrete
// syntax.  Cell references become the constant "c<id>"; ProcessGateway's
// AssertGround declares any such constant the first time it sees it, so
// callers need not emit declare-const commands themselves.
func toSMTLIB(e ir.Expr) (string, error) {
	switch e.Op() {
	case ir.True:
		return "true", nil
	case ir.False:
		return "false", nil
	case ir.IntLit:
		return e.Int().String(), nil
	case ir.CellRef:
		return fmt.Sprintf("c%d", e.CellID()), nil
	case ir.Not:
		c, err := toSMTLIB(e.Child(0))
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("(not %s)", c), nil
	case ir.And, ir.Or:
		head := "and"
		if e.Op() == ir.Or {
			head = "or"
		}

		parts := make([]string, len(e.Children()))

		for i, c := range e.Children() {
			s, err := toSMTLIB(c)
			if err != nil {
				return "", err
			}

			parts[i] = s
		}

		return fmt.Sprintf("(%s %s)", head, strings.Join(parts, " ")), nil
	case ir.Eq:
		l, err := toSMTLIB(e.Child(0))
		if err != nil {
			return "", err
		}

		r, err := toSMTLIB(e.Child(1))
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("(= %s %s)", l, r), nil
	default:
		return "", errors.Errorf("toSMTLIB: node #%d has no ground SMT-LIB2 rendering (op=%v)", e.ID(), e.Op())
	}
}

// collectCellRefs gathers, for every CellRef node under e, the cell id it
// refers to together with the type it was constructed with (a CellRef's own
// Type() is exactly the type its originating arena cell carries).
func collectCellRefs(e ir.Expr, ids map[int]types.Type) {
	if e.Op() == ir.CellRef {
		ids[e.CellID()] = e.Type()
	}

	for _, c := range e.Children() {
		collectCellRefs(c, ids)
	}
}

// valueSort is the shared uninterpreted sort declared for cells whose type
// has no native SMT-LIB counterpart (every structural kind: FinSet, Fun,
// FinFunSet, Record, Tuple, Seq). Equality between two valueSort constants
// is still native SMT "=": uninterpreted-sort equality needs no axioms of
// its own, so this is what lets materialize (pkg/equality/engine.go) assert
// "(a=b) <=> structural-condition" directly over the cells being compared.
const valueSort = "Value"

// sortFor maps a cell's IR type to the SMT-LIB sort its declare-const should
// use.
func sortFor(t types.Type) string {
	switch t.Kind() {
	case types.Bool:
		return "Bool"
	case types.Int:
		return "Int"
	case types.Str:
		return "String"
	case types.Constant:
		return t.Sort()
	default:
		return valueSort
	}
}

// ProcessGateway drives an external SMT-LIB2-speaking solver process (by
// default "z3 -in") over its stdin/stdout pipes.  No Go SMT-binding library
// appears anywhere in the example corpus this module was modelled on (see
// DESIGN.md); shelling out with os/exec to a solver binary, reading
// s-expression responses line by line, is the idiomatic fallback and is
// itself how every mainstream Go project fronting Z3/CVC sessions works in
// the absence of cgo bindings.
// ProcessGateway keeps two independent loggers: logrus for user-facing
// messages (solver start and Log messages at Debug, a failed stdin close at
// Warn), and a zap.Logger
// for the high-frequency per-line solver I/O trace. Splitting them avoids
// drowning the user-facing log in one line per SMT-LIB2 command while still
// making the raw protocol exchange available at debug verbosity.
type ProcessGateway struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	timeout time.Duration
	log     *log.Entry
	trace   *zap.Logger

	// declared tracks which "c<id>" constants (and, under the reserved
	// valueSortSentinelID key, the shared valueSort declare-sort) have
	// already been sent to the solver, so AssertGround only declares each
	// cell once. scopes mirrors the solver's own push/pop stack: scopes[i]
	// lists the ids first declared inside the i'th open scope, so Pop can
	// forget them in lock-step with the solver's own (pop n) discarding the
	// matching declare-const/declare-sort commands.
	declared map[int]bool
	scopes   [][]int
}

// valueSortSentinelID is a reserved, never-allocated cell id used as the
// declared-set key for "has the shared valueSort declare-sort been sent
// yet", so its lifetime rides the same scopes stack as any real cell's
// declaration.
const valueSortSentinelID = -1

// newTraceLogger builds the zap.Logger used for the raw solver I/O trace.
// It never fails the caller: if zap's own config validation rejects the
// environment (e.g. no writable stderr), trace logging degrades to a no-op
// rather than blocking gateway construction on a diagnostics-only concern.
func newTraceLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}

	return l.Named("smt.trace")
}

// NewProcessGateway launches solverCmd (e.g. "z3 -in") and returns a gateway
// bound to it.  timeout is stored on the gateway but not enforced: Sat()
// blocks until the solver answers.  The process is bound to ctx, so
// cancelling ctx is what stops a solver that does not answer.
func NewProcessGateway(ctx context.Context, solverCmd []string, timeout time.Duration) (*ProcessGateway, error) {
	if len(solverCmd) == 0 {
		solverCmd = []string{"z3", "-in"}
	}

	cmd := exec.CommandContext(ctx, solverCmd[0], solverCmd[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "smt: failed to open solver stdin")
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "smt: failed to open solver stdout")
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "smt: failed to start solver %q", strings.Join(solverCmd, " "))
	}

	g := &ProcessGateway{
		cmd:      cmd,
		stdin:    stdin,
		stdout:   bufio.NewReader(stdout),
		timeout:  timeout,
		log:      log.WithField("component", "smt.ProcessGateway"),
		trace:    newTraceLogger(),
		declared: make(map[int]bool),
	}

	g.log.Debugf("started solver: %s", strings.Join(solverCmd, " "))

	return g, nil
}

func (g *ProcessGateway) send(line string) error {
	g.trace.Debug("send", zap.String("line", line))

	_, err := io.WriteString(g.stdin, line+"\n")

	return err
}

func (g *ProcessGateway) recvLine() (string, error) {
	line, err := g.stdout.ReadString('\n')
	if err != nil {
		return "", err
	}

	line = strings.TrimSpace(line)
	g.trace.Debug("recv", zap.String("line", line))

	return line, nil
}

// ensureValueSort declares the shared uninterpreted valueSort once, the
// first time any structural-typed cell needs it.
func (g *ProcessGateway) ensureValueSort() error {
	if g.declared[valueSortSentinelID] {
		return nil
	}

	if err := g.send(fmt.Sprintf("(declare-sort %s 0)", valueSort)); err != nil {
		return err
	}

	g.declared[valueSortSentinelID] = true

	if n := len(g.scopes); n > 0 {
		g.scopes[n-1] = append(g.scopes[n-1], valueSortSentinelID)
	}

	return nil
}

// declareCell emits a declare-const for cell id with the given SMT-LIB sort
// if it hasn't already been declared in the current (or an enclosing) scope.
func (g *ProcessGateway) declareCell(id int, sort string) error {
	if g.declared[id] {
		return nil
	}

	if sort == valueSort {
		if err := g.ensureValueSort(); err != nil {
			return err
		}
	}

	if err := g.send(fmt.Sprintf("(declare-const c%d %s)", id, sort)); err != nil {
		return err
	}

	g.declared[id] = true

	if n := len(g.scopes); n > 0 {
		g.scopes[n-1] = append(g.scopes[n-1], id)
	}

	return nil
}

// AssertGround declares any cell referenced by e that hasn't already been
// declared, then serialises e to SMT-LIB2 concrete syntax and asserts it.
func (g *ProcessGateway) AssertGround(e ir.Expr) error {
	ids := make(map[int]types.Type)
	collectCellRefs(e, ids)

	for id, t := range ids {
		if err := g.declareCell(id, sortFor(t)); err != nil {
			return err
		}
	}

	text, err := toSMTLIB(e)
	if err != nil {
		return err
	}

	return g.send(fmt.Sprintf("(assert %s)", text))
}

// Push opens a new assertion scope.
func (g *ProcessGateway) Push() error {
	g.scopes = append(g.scopes, nil)

	return g.send("(push 1)")
}

// Pop closes the n most recently opened scopes, forgetting any cell
// declarations made within them so a later reuse of the same cell id (e.g. a
// fresh per-transition arena restarting id allocation at 0) is re-declared
// rather than silently skipped.
func (g *ProcessGateway) Pop(n int) error {
	if err := g.send(fmt.Sprintf("(pop %d)", n)); err != nil {
		return err
	}

	for i := 0; i < n && len(g.scopes) > 0; i++ {
		last := g.scopes[len(g.scopes)-1]
		g.scopes = g.scopes[:len(g.scopes)-1]

		for _, id := range last {
			delete(g.declared, id)
		}
	}

	return nil
}

// Sat checks satisfiability of everything currently asserted.
func (g *ProcessGateway) Sat() (Result, error) {
	if err := g.send("(check-sat)"); err != nil {
		return Unknown, errors.Wrap(err, "smt: failed to send check-sat")
	}

	line, err := g.recvLine()
	if err != nil {
		return Unknown, errors.Wrap(err, "smt: failed to read check-sat response")
	}

	switch line {
	case "sat":
		return Sat, nil
	case "unsat":
		return Unsat, nil
	default:
		return Unknown, nil
	}
}

// GetInterp extracts the model value assigned to decl.
func (g *ProcessGateway) GetInterp(decl Decl) (string, error) {
	if err := g.send(fmt.Sprintf("(get-value (%s))", decl.Name)); err != nil {
		return "", errors.Wrap(err, "smt: failed to send get-value")
	}

	line, err := g.recvLine()
	if err != nil {
		return "", errors.Wrap(err, "smt: failed to read get-value response")
	}

	return line, nil
}

// ParseSMTLIB hands text back unchanged; the gateway boundary does not
// require any further structuring of solver output upstream (spec §6).
func (g *ProcessGateway) ParseSMTLIB(text string) (string, error) { return text, nil }

// Log records message against the gateway's own debug trace.
func (g *ProcessGateway) Log(message string) { g.log.Debug(message) }

// Close terminates the solver subprocess.
func (g *ProcessGateway) Close() error {
	if err := g.stdin.Close(); err != nil {
		g.log.WithError(err).Warn("failed to close solver stdin")
	}

	return g.cmd.Wait()
}
