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
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ontohub/ontoview/internal/ui"
	"github.com/ontohub/ontoview/pkg/hub"
)

const watchDebounce = 2 * time.Second

// runWatch watches every configured version's root_path and reloads that
// (set_id, version) on change, debounced so a burst of saves triggers one
// reload. Only root files are watched; a change to an imported ontology
// file does not trigger a reload.
func runWatch(args []string, globals GlobalFlags) int {
	logger := newLogger(globals)
	svc, cfg, err := buildService(globals.ConfigPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer svc.Shutdown()
	autoLoad(svc, cfg, logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer watcher.Close()

	watched := make(map[string]setKeyPair)
	for _, s := range cfg.Sets {
		for _, v := range s.Versions {
			if err := watcher.Add(v.RootPath); err != nil {
				ui.Warningf("watch: cannot watch %s: %v", v.RootPath, err)
				continue
			}
			watched[v.RootPath] = setKeyPair{SetID: s.SetID, Version: v.Version}
		}
	}
	ui.Infof("watching %d root file(s) for changes", len(watched))

	pending := make(map[setKeyPair]bool)
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			key, known := watched[event.Name]
			if !known || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending[key] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			reloadPending(svc, pending, logger)
			pending = make(map[setKeyPair]bool)

		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			logger.Warn("watch.error", "err", err)
		}
	}
}

type setKeyPair struct {
	SetID   string
	Version string
}

func reloadPending(svc *hub.Service, pending map[setKeyPair]bool, logger *slog.Logger) {
	for key := range pending {
		if _, err := svc.Reload(key.SetID, key.Version); err != nil {
			logger.Warn("watch.reload.failed", "set_id", key.SetID, "version", key.Version, "err", err)
			continue
		}
		ui.Successf("reloaded %s@%s", key.SetID, key.Version)
	}
}
