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

	"github.com/apalache-core/apalache-core/pkg/apalachelog"
	"github.com/apalache-core/apalache-core/pkg/arena"
	"github.com/apalache-core/apalache-core/pkg/cache"
	"github.com/apalache-core/apalache-core/pkg/equality"
	"github.com/apalache-core/apalache-core/pkg/rewriter"
	"github.com/apalache-core/apalache-core/pkg/smt"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cellDoc is one arena cell's JSON rendering: its id, type, and the edges
// recorded against it in the three typed edge logs (spec §3.2).
type cellDoc struct {
	ID   int      `json:"id"`
	Type string   `json:"type"`
	Has  []int    `json:"has,omitempty"`
	Dom  *int     `json:"dom,omitempty"`
	Cdm  *int     `json:"cdm,omitempty"`
}

// inspectCmd rewrites a module's formula against an in-memory gateway and
// dumps the resulting arena (cells + edges) as JSON (spec §4.11), the way
// the teacher's binfile package serialises a schema: pretty-printed to a
// terminal, streamed compact otherwise (golang.org/x/term.IsTerminal).
var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] module.json",
	Short: "Dump the arena produced by rewriting a module's formula",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		apalachelog.Configure(GetFlag(cmd, "verbose"))
		runInspect(args[0])
	},
}

func runInspect(path string) {
	log := apalachelog.For("cmd.inspect")

	mod, gen, err := loadModule(path)
	if err != nil {
		log.WithError(err).Error("failed to load module")
		os.Exit(2)
	}

	gw := smt.NewMemoryGateway()
	c := cache.New()
	eq := equality.New(gen, c, gw)
	rw := rewriter.New(gen, eq, gw)

	st := rewriter.NewState(arena.New())

	st, _, err = rw.RewriteUntilDone(st, mod.Formula)
	if err != nil {
		log.WithError(err).Error("failed to rewrite module")
		os.Exit(2)
	}

	docs := dumpArena(st.Arena)

	var (
		out []byte
	)

	if term.IsTerminal(int(os.Stdout.Fd())) {
		out, err = json.MarshalIndent(docs, "", "  ")
	} else {
		out, err = json.Marshal(docs)
	}

	if err != nil {
		log.WithError(err).Error("failed to render arena as JSON")
		os.Exit(2)
	}

	fmt.Println(string(out))
}

func dumpArena(a arena.Arena) []cellDoc {
	docs := make([]cellDoc, a.Len())

	for i := 0; i < a.Len(); i++ {
		cell := a.Cell(arena.ID(i))
		doc := cellDoc{ID: i, Type: cell.Type().String()}

		for _, h := range a.Has(cell) {
			doc.Has = append(doc.Has, int(h))
		}

		if d, ok := a.Dom(cell); ok {
			v := int(d)
			doc.Dom = &v
		}

		if r, ok := a.Cdm(cell); ok {
			v := int(r)
			doc.Cdm = &v
		}

		docs[i] = doc
	}

	return docs
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
