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
	"fmt"
	"os"
	"strings"

	"github.com/apalache-core/apalache-core/pkg/apalachelog"
	"github.com/apalache-core/apalache-core/pkg/strategy"
	"github.com/spf13/cobra"
)

// strategyCmd runs only the assignment-strategy solver (L6) against a
// next-state formula and prints the resulting order or rejection,
// optionally emitting the generated SMT-LIB2 text to a file (spec §4.11).
var strategyCmd = &cobra.Command{
	Use:   "strategy [flags] module.json",
	Short: "Solve the assignment-strategy sub-problem for a next-state formula",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		runStrategy(cmd, args[0])
	},
}

func runStrategy(cmd *cobra.Command, path string) {
	cfg := resolveConfig(cmd)
	log := apalachelog.For("cmd.strategy")

	mod, _, err := loadModule(path)
	if err != nil {
		log.WithError(err).Error("failed to load module")
		os.Exit(2)
	}

	var solver strategy.Solver
	if GetFlag(cmd, "mem") {
		solver = strategy.NewMemorySolver()
	} else {
		solver = strategy.NewProcessSolver(cfg.SolverCmd, cfg.SMTTimeout)
	}

	strat, text, err := solver.Solve(mod.Formula)
	if err != nil {
		log.WithError(err).Error("solver failed")
		os.Exit(2)
	}

	if emit := GetString(cmd, "emit-smt"); emit != "" {
		if err := os.WriteFile(emit, []byte(text), 0644); err != nil {
			log.WithError(err).Error("failed to write SMT-LIB2 text")
			os.Exit(2)
		}
	}

	if strat == nil {
		fmt.Println("rejected: no assignment strategy satisfies this formula")
		os.Exit(1)
	}

	order := make([]string, len(strat.Order))
	for i, id := range strat.Order {
		order[i] = fmt.Sprintf("#%d", id)
	}

	fmt.Printf("order: %s\n", strings.Join(order, " -> "))
}

func init() {
	strategyCmd.Flags().Bool("mem", false, "use the native in-memory brute-force solver instead of shelling out to a real SMT solver")
	strategyCmd.Flags().String("emit-smt", "", "write the generated SMT-LIB2 problem text to this file")
	rootCmd.AddCommand(strategyCmd)
}
