// Copyright 2025 OntoView Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ontohub/ontoview/internal/ui"
	"github.com/ontohub/ontoview/pkg/ontology"
)

// runConfigCmd validates and prints the hub configuration without
// starting the service, for CI checks and operator debugging.
func runConfigCmd(args []string, globals GlobalFlags) int {
	cfg, err := ontology.LoadConfig(globals.ConfigPath)
	if err != nil {
		ui.Errorf("invalid configuration: %v", err)
		return 1
	}

	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	ui.Successf("configuration is valid: %d set(s)", len(cfg.Sets))
	for _, s := range cfg.Sets {
		ui.Infof("  %s: %d version(s), default=%s, auto_load=%v, priority=%d",
			s.SetID, len(s.Versions), s.DefaultVersion, s.AutoLoad, s.PriorityOrDefault())
	}
	return 0
}
