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
	"time"

	"github.com/ontohub/ontoview/pkg/hub"
	"github.com/ontohub/ontoview/pkg/ontology"
)

// buildService loads the hub configuration at path and starts a
// Service, without running auto-load — callers that need auto-load
// (serve, watch) call autoLoad themselves after startup has begun
// accepting requests, per spec §4.8.
func buildService(path string, logger *slog.Logger) (*hub.Service, *ontology.Config, error) {
	cfg, err := ontology.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	strategy := hub.CacheStrategy(cfg.Hub.CacheStrategy)
	limits := hub.Limits{
		MaxDepth:              *cfg.Hub.MaxDepth,
		MaxTotalImports:       cfg.Hub.MaxTotalImports,
		MaxImportsPerOntology: cfg.Hub.MaxImportsPerOntology,
		MaxFileSizeBytes:      cfg.Hub.MaxFileSizeBytes,
	}

	svc := hub.NewService(cfg.Sets, uint(cfg.Hub.CacheLimit), strategy, limits, logger, nil)
	return svc, cfg, nil
}

// autoLoad schedules auto-load of every set with auto_load = true, in
// ascending priority order, after the configured delay. Individual
// failures are logged and skipped; they never abort the hub.
func autoLoad(svc *hub.Service, cfg *ontology.Config, logger *slog.Logger) {
	sets := make([]ontology.SetConfiguration, 0, len(cfg.Sets))
	for _, s := range cfg.Sets {
		if s.AutoLoad {
			sets = append(sets, s)
		}
	}
	// Priority is already enforced by ListSets' sort at query time; here
	// we sort our own slice by the same field before iterating.
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if sets[j].PriorityOrDefault() < sets[i].PriorityOrDefault() {
				sets[i], sets[j] = sets[j], sets[i]
			}
		}
	}

	delay := time.Duration(cfg.Hub.AutoLoadDelaySeconds) * time.Second
	go func() {
		time.Sleep(delay)
		for _, s := range sets {
			if _, err := svc.GetDefault(s.SetID); err != nil {
				logger.Warn("hub.autoload.failed", "set_id", s.SetID, "err", err)
			}
		}
	}()
}
