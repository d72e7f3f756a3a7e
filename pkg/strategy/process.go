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
package strategy

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ProcessSolver drives a real SMT-LIB2 solver subprocess (by default
// "z3 -in") over the assignment sub-problem's emitted text, the same
// "shell out over stdin/stdout" idiom smt.ProcessGateway uses one layer
// down (spec §6: no Go SMT-binding library appears anywhere in the example
// corpus this module was modelled on).
type ProcessSolver struct {
	solverCmd []string
	timeout   time.Duration
	log       *log.Entry
}

// NewProcessSolver constructs a ProcessSolver that will launch solverCmd
// (e.g. []string{"z3", "-in"}) fresh for every Solve call, bounded by
// timeout.
func NewProcessSolver(solverCmd []string, timeout time.Duration) *ProcessSolver {
	if len(solverCmd) == 0 {
		solverCmd = []string{"z3", "-in"}
	}

	return &ProcessSolver{
		solverCmd: solverCmd,
		timeout:   timeout,
		log:       log.WithField("component", "strategy.ProcessSolver"),
	}
}

var (
	assignDeclRE = regexp.MustCompile(`\(define-fun\s+A(\d+)\s*\(\)\s*Bool\s+(true|false)\)`)
	rValueRE     = regexp.MustCompile(`\(\(R\s+(\d+)\)\s+(-?\d+)\)`)
)

// Solve implements Solver by running the emitted SMT-LIB2 program through a
// fresh solver subprocess and parsing its check-sat/get-model response.
func (s *ProcessSolver) Solve(formula ir.Expr) (*Strategy, string, error) {
	p := buildProblem(formula)
	text := emit(formula, p)

	if len(p.Candidates) == 0 {
		return &Strategy{}, text, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.solverCmd[0], s.solverCmd[1:]...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, text, errors.Wrap(err, "strategy: failed to open solver stdin")
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, text, errors.Wrap(err, "strategy: failed to open solver stdout")
	}

	if err := cmd.Start(); err != nil {
		return nil, text, errors.Wrapf(err, "strategy: failed to start solver %q", strings.Join(s.solverCmd, " "))
	}

	defer func() {
		_ = stdin.Close()
		_ = cmd.Wait()
	}()

	if _, err := io.WriteString(stdin, text); err != nil {
		return nil, text, errors.Wrap(err, "strategy: failed to write assignment problem")
	}

	reader := bufio.NewReader(stdout)

	satLine, err := reader.ReadString('\n')
	if err != nil {
		return nil, text, errors.Wrap(err, "strategy: failed to read check-sat response")
	}

	switch strings.TrimSpace(satLine) {
	case "unsat", "unknown":
		return nil, text, nil
	case "sat":
		// fall through to model parsing
	default:
		return nil, text, errors.Errorf("strategy: unexpected check-sat response %q", strings.TrimSpace(satLine))
	}

	var model strings.Builder

	for {
		line, err := reader.ReadString('\n')
		model.WriteString(line)

		if err != nil {
			break
		}
	}

	return parseModel(p, model.String()), text, nil
}

// parseModel extracts the chosen candidates and the R-ordering from a
// get-model response and turns them into a Strategy, sorting the chosen ids
// by their model R-value.
func parseModel(p Problem, model string) *Strategy {
	chosen := map[int]bool{}

	for _, m := range assignDeclRE.FindAllStringSubmatch(model, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		chosen[id] = m[2] == "true"
	}

	rank := map[int]int{}

	for _, m := range rValueRE.FindAllStringSubmatch(model, -1) {
		id, err1 := strconv.Atoi(m[1])
		r, err2 := strconv.Atoi(m[2])

		if err1 != nil || err2 != nil {
			continue
		}

		rank[id] = r
	}

	var order []int

	for _, c := range p.Candidates {
		if chosen[c.ID] {
			order = append(order, c.ID)
		}
	}

	sort.Slice(order, func(i, j int) bool { return rank[order[i]] < rank[order[j]] })

	return &Strategy{Order: order}
}
