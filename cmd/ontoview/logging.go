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
	"log/slog"
	"os"
)

// newLogger builds the process-wide structured logger. -v raises the
// level to Info, -vv to Debug; --quiet forces Error regardless of -v.
// Without any of these flags the level is Warn.
func newLogger(globals GlobalFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case globals.Quiet:
		level = slog.LevelError
	case globals.Verbose >= 2:
		level = slog.LevelDebug
	case globals.Verbose >= 1:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if globals.JSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}
