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
	"os"

	"github.com/apalache-core/apalache-core/pkg/ir"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// moduleDoc is the on-disk shape of a typed IR module (spec §4.11's "loads
// a typed IR module (JSON)"): for this core, a module is just its
// next-state relation, the one formula check/strategy operate over.
type moduleDoc struct {
	Formula ir.ExprDoc `json:"formula"`
}

// module is a decoded IR module, rebuilt against a freshly minted IDGen so
// every node in it carries a process-unique id (see ir.Decode).
type module struct {
	Formula ir.Expr
}

// loadModule reads and decodes the typed IR module at path, using
// github.com/segmentio/encoding/json per spec §4.13's domain-stack wiring.
func loadModule(path string) (*module, *ir.IDGen, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read module %q", path)
	}

	var doc moduleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to parse module %q", path)
	}

	gen := ir.NewIDGen()

	formula, err := ir.Decode(gen, doc.Formula)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to decode module %q", path)
	}

	return &module{Formula: formula}, gen, nil
}
