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
package apalachelog

import (
	"testing"

	log "github.com/sirupsen/logrus"
)

func Test_Configure_VerboseSetsDebugLevel(t *testing.T) {
	Configure(true)

	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("expected Debug level, got %v", log.GetLevel())
	}

	Configure(false)

	if log.GetLevel() != log.InfoLevel {
		t.Fatalf("expected Info level, got %v", log.GetLevel())
	}
}

func Test_For_TagsComponent(t *testing.T) {
	entry := For("cmd.check")

	if entry.Data["component"] != "cmd.check" {
		t.Fatalf("expected component field %q, got %v", "cmd.check", entry.Data["component"])
	}
}

func Test_WithNode_AndWithScope_ChainFields(t *testing.T) {
	entry := WithScope(WithNode(For("rewriter"), 42), "L5")

	if entry.Data["component"] != "rewriter" {
		t.Fatalf("expected component field preserved, got %v", entry.Data["component"])
	}

	if entry.Data["nodeID"] != 42 {
		t.Fatalf("expected nodeID field 42, got %v", entry.Data["nodeID"])
	}

	if entry.Data["scopeLevel"] != "L5" {
		t.Fatalf("expected scopeLevel field L5, got %v", entry.Data["scopeLevel"])
	}
}
