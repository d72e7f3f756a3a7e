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

// Package config holds the handful of knobs the CLI needs (spec §4.11): the
// solver binary, its per-call timeout, and the logging verbosity. Following
// the teacher's own pattern (pkg/cmd's flags populate plain fields directly,
// rather than a config-file framework the distilled spec never names), this
// is a plain struct populated from cobra flags and, as a fallback, the
// environment.
package config

import (
	"os"
	"strings"
	"time"
)

// Config is the resolved set of run-wide settings.
type Config struct {
	// SolverCmd is the external SMT-LIB2 solver to shell out to, e.g.
	// ["z3", "-in"].
	SolverCmd []string
	// SMTTimeout bounds each run of the strategy ProcessSolver; it is also
	// handed to the smt ProcessGateway, which does not enforce it (spec §4.12).
	SMTTimeout time.Duration
	// Verbose raises the logrus level to Debug (spec §4.10).
	Verbose bool
}

// Default returns the built-in defaults, overridden by the APALACHE_SMT_CMD
// environment variable if set (space-separated command and arguments),
// matching the teacher's convention of environment overrides taking effect
// only where a flag was not explicitly given.
func Default() Config {
	cfg := Config{
		SolverCmd:  []string{"z3", "-in"},
		SMTTimeout: 10 * time.Second,
	}

	if env := os.Getenv("APALACHE_SMT_CMD"); env != "" {
		cfg.SolverCmd = strings.Fields(env)
	}

	return cfg
}
