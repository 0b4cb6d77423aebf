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

// Package ui provides colored, isatty-aware CLI output for cmd/ontoview.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Color palette used for status lines. Exported so subcommands can compose
// their own messages (e.g. ui.Cyan.Sprint("ontoview watch")).
var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed)
	Cyan   = color.New(color.FgCyan)
)

// InitColors disables color output when noColor is set, NO_COLOR is in the
// environment, or stdout is not a terminal.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Info prints an informational line to stdout.
func Info(msg string) { fmt.Println(msg) }

// Infof prints a formatted informational line to stdout.
func Infof(format string, args ...any) { fmt.Printf(format+"\n", args...) }

// Success prints a green success line to stdout.
func Success(msg string) { Green.Println(msg) }

// Successf prints a formatted green success line to stdout.
func Successf(format string, args ...any) { Green.Printf(format+"\n", args...) }

// Warning prints a yellow warning line to stderr.
func Warning(msg string) { Yellow.Fprintln(os.Stderr, msg) }

// Warningf prints a formatted yellow warning line to stderr.
func Warningf(format string, args ...any) { Yellow.Fprintf(os.Stderr, format+"\n", args...) }

// Error prints a red error line to stderr.
func Error(msg string) { Red.Fprintln(os.Stderr, msg) }

// Errorf prints a formatted red error line to stderr.
func Errorf(format string, args ...any) { Red.Fprintf(os.Stderr, format+"\n", args...) }
