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

// Package cmd implements the apalache-core CLI (spec §4.11): a
// github.com/spf13/cobra root command with "check", "strategy" and
// "inspect" subcommands, in the teacher's own idiom (package-level
// *cobra.Command vars, an Execute() entry point, flag access funnelled
// through small Get* helpers that os.Exit rather than panic).
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/apalache-core/apalache-core/pkg/apalachelog"
	"github.com/apalache-core/apalache-core/pkg/config"
	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via
// "go install" (mirrors the teacher's own convention).
var Version string

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "apalache-core",
	Short: "A symbolic bounded model checker's rewriting engine.",
	Long:  "Loads a typed IR module, extracts its transitions, and rewrites them against an SMT gateway.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("apalache-core ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig builds a config.Config from the persistent flags bound
// below, layered over config.Default()'s environment-derived defaults.
func resolveConfig(cmd *cobra.Command) config.Config {
	cfg := config.Default()

	cfg.Verbose = GetFlag(cmd, "verbose")
	apalachelog.Configure(cfg.Verbose)

	if cmd.Flags().Changed("smt-timeout") {
		cfg.SMTTimeout = time.Duration(GetUint(cmd, "smt-timeout")) * time.Second
	}

	if cmd.Flags().Changed("smt-cmd") {
		cfg.SolverCmd = strings.Fields(GetString(cmd, "smt-cmd"))
	}

	return cfg
}

func init() {
	rootCmd.Flags().Bool("version", false, "report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Uint("smt-timeout", 10, "seconds to allow each strategy solver run")
	rootCmd.PersistentFlags().String("smt-cmd", "z3 -in", "external SMT-LIB2 solver command")
}
