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

// Package main implements the ontoview CLI: a multi-tenant, in-memory
// OWL/RDF ontology hub.
//
// Usage:
//
//	ontoview --config hub.yaml serve [--port N]  Start the HTTP resolver
//	ontoview load <set> <version>                Force-load one set version
//	ontoview [--json] status                     Show hub status
//	ontoview config                              Validate a hub.yaml
//	ontoview --config hub.yaml watch             Reload sets on file change
//
// Global flags (--config, --json, --no-color, -v, -q) must precede the
// subcommand name.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/ontohub/ontoview/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds the CLI flags that apply to every subcommand.
type GlobalFlags struct {
	ConfigPath string
	JSON       bool
	NoColor    bool
	Verbose    int
	Quiet      bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		configPath  = flag.StringP("config", "c", "hub.yaml", "Path to the hub configuration file")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format (for applicable commands)")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
	)

	// Stop parsing at the first non-flag argument so subcommand-specific
	// flags (e.g. "serve --port") reach the subcommand's own parser
	// instead of being rejected here.
	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "ontoview - multi-tenant in-memory OWL/RDF ontology hub")
		fmt.Fprintln(os.Stderr, "\nCommands: serve, load, status, config, watch")
		flag.PrintDefaults()
	}

	if err := flag.CommandLine.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ui.InitColors(*noColor)

	if *showVersion {
		fmt.Printf("ontoview %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	globals := GlobalFlags{
		ConfigPath: *configPath,
		JSON:       *jsonOutput,
		NoColor:    *noColor,
		Verbose:    *verbose,
		Quiet:      *quiet,
	}

	rest := flag.CommandLine.Args()
	if len(rest) == 0 {
		flag.Usage()
		return 2
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "serve":
		return runServe(cmdArgs, globals)
	case "load":
		return runLoad(cmdArgs, globals)
	case "status":
		return runStatus(cmdArgs, globals)
	case "config":
		return runConfigCmd(cmdArgs, globals)
	case "watch":
		return runWatch(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		flag.Usage()
		return 2
	}
}
