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
	"context"
	"fmt"
	"os"

	"github.com/apalache-core/apalache-core/pkg/apalachelog"
	"github.com/apalache-core/apalache-core/pkg/arena"
	"github.com/apalache-core/apalache-core/pkg/cache"
	"github.com/apalache-core/apalache-core/pkg/equality"
	"github.com/apalache-core/apalache-core/pkg/rewriter"
	"github.com/apalache-core/apalache-core/pkg/smt"
	"github.com/apalache-core/apalache-core/pkg/strategy"
	"github.com/apalache-core/apalache-core/pkg/transition"
	"github.com/spf13/cobra"
)

// checkCmd loads a typed IR module, extracts its transitions (L7), and
// rewrites each one (L5) against an SMT gateway (a solver process, or the
// in-memory stub under --mem), reporting a
// sat/unsat/unknown verdict per transition (spec §4.11).
var checkCmd = &cobra.Command{
	Use:   "check [flags] module.json",
	Short: "Rewrite every transition of a next-state module and report its SMT verdict",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		runCheck(cmd, args[0])
	},
}

func runCheck(cmd *cobra.Command, path string) {
	cfg := resolveConfig(cmd)
	log := apalachelog.For("cmd.check")

	mod, gen, err := loadModule(path)
	if err != nil {
		log.WithError(err).Error("failed to load module")
		os.Exit(2)
	}

	mem := GetFlag(cmd, "mem")

	var solver strategy.Solver
	if mem {
		solver = strategy.NewMemorySolver()
	} else {
		solver = strategy.NewProcessSolver(cfg.SolverCmd, cfg.SMTTimeout)
	}

	transitions, err := transition.Extract("Next", mod.Formula, gen, solver)
	if err != nil {
		log.WithError(err).Info("one or more candidate transitions were rejected")
	}

	if len(transitions) == 0 {
		fmt.Println("no transitions admit an assignment strategy")
		os.Exit(1)
	}

	ctx := context.Background()

	var gw smt.Gateway
	if mem {
		gw = smt.NewMemoryGateway()
	} else {
		pg, err := smt.NewProcessGateway(ctx, cfg.SolverCmd, cfg.SMTTimeout)
		if err != nil {
			log.WithError(err).Error("failed to start SMT solver")
			os.Exit(2)
		}

		defer pg.Close()

		gw = pg
	}

	c := cache.New()
	eq := equality.New(gen, c, gw)
	rw := rewriter.New(gen, eq, gw)

	exitCode := 0

	for _, t := range transitions {
		if err := gw.Push(); err != nil {
			fmt.Printf("%s: error: %v\n", t.Name, err)

			exitCode = 1

			continue
		}

		c.Push()

		st := rewriter.NewState(arena.New())

		_, cell, err := rw.RewriteUntilDone(st, t.Formula)
		if err != nil {
			fmt.Printf("%s: error: %v\n", t.Name, err)

			exitCode = 1
		} else {
			ref := gen.NewCellRef(int(cell.ID()), cell.Type())

			if err := gw.AssertGround(ref); err != nil {
				fmt.Printf("%s: error: %v\n", t.Name, err)

				exitCode = 1
			} else if res, err := gw.Sat(); err != nil {
				fmt.Printf("%s: error: %v\n", t.Name, err)

				exitCode = 1
			} else {
				fmt.Printf("%s: %s\n", t.Name, res)
			}
		}

		c.Pop()

		if err := gw.Pop(1); err != nil {
			fmt.Printf("%s: error: %v\n", t.Name, err)

			exitCode = 1
		}
	}

	os.Exit(exitCode)
}

func init() {
	checkCmd.Flags().Bool("mem", false, "use the in-memory stub arena/solver instead of shelling out to a real SMT solver")
	rootCmd.AddCommand(checkCmd)
}
