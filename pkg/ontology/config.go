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

// Package ontology holds the process-wide, effectively-immutable
// configuration of ontology sets and versions, plus the OntologySet
// value object assembled for each materialized (set_id, version). See
// spec §3, §4.6, §6.
package ontology

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ontohub/ontoview/internal/errkind"
)

// Stability is the release maturity of one version.
type Stability string

const (
	StabilityStable Stability = "stable"
	StabilityBeta   Stability = "beta"
	StabilityAlpha  Stability = "alpha"
)

// Release describes a version's maturity metadata.
type Release struct {
	Stability   Stability `yaml:"stability"`
	ReleasedOn  string    `yaml:"released_on"`
	NotesURL    string    `yaml:"notes_url"`
	Deprecated  bool      `yaml:"deprecated"`
}

// VersionConfiguration is one loadable root file within a set.
type VersionConfiguration struct {
	Version   string  `yaml:"version"`
	RootPath  string  `yaml:"root_path"`
	BaseDir   string  `yaml:"base_dir"`
	IsDefault bool    `yaml:"default"`
	Release   Release `yaml:"release"`
}

// effectiveBaseDir returns BaseDir, defaulting to root_path's directory.
func (v VersionConfiguration) effectiveBaseDir() string {
	if v.BaseDir != "" {
		return v.BaseDir
	}
	return filepath.Dir(v.RootPath)
}

// Display holds the human-facing presentation fields of a set.
type Display struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Homepage    string `yaml:"homepage"`
	Icon        string `yaml:"icon"`
}

// DefaultPriority applies when a set's config omits priority entirely.
// A pointer field (rather than int) distinguishes that omission from an
// explicit priority of 0, which is a valid "load first" value.
const DefaultPriority = 100

// SetConfiguration is one ontology set as declared in the config source.
type SetConfiguration struct {
	SetID          string                 `yaml:"set_id"`
	Display        Display                `yaml:"display"`
	Versions       []VersionConfiguration `yaml:"versions"`
	DefaultVersion string                 `yaml:"default_version"`
	AutoLoad       bool                   `yaml:"auto_load"`
	Priority       *int                   `yaml:"priority"`
}

// PriorityOrDefault returns the configured priority, or DefaultPriority
// when the set's config left priority unset.
func (s SetConfiguration) PriorityOrDefault() int {
	if s.Priority != nil {
		return *s.Priority
	}
	return DefaultPriority
}

// Config is the top-level configuration document: an ordered list of
// sets plus the operational parameters of §6.
type Config struct {
	Sets     []SetConfiguration `yaml:"sets"`
	Hub      HubParameters      `yaml:"hub"`
}

// HubParameters are the recognized operational parameters of §6.
type HubParameters struct {
	CacheStrategy         string `yaml:"cache_strategy"`
	CacheLimit            int    `yaml:"cache_limit"`
	// MaxDepth is a pointer so an explicit "max_depth: 0" (reject any
	// owl:imports at all) survives defaulting instead of being treated
	// the same as an omitted key.
	MaxDepth              *int   `yaml:"max_depth"`
	MaxTotalImports       int    `yaml:"max_total_imports"`
	MaxImportsPerOntology int    `yaml:"max_imports_per_ontology"`
	MaxFileSizeBytes      int64  `yaml:"max_file_size_bytes"`
	AutoLoadDelaySeconds  int    `yaml:"auto_load_delay_seconds"`
}

func (h *HubParameters) fillDefaults() {
	if h.CacheStrategy == "" {
		h.CacheStrategy = "LRU"
	}
	if h.CacheLimit <= 0 {
		h.CacheLimit = 5
	}
	if h.MaxDepth == nil {
		d := 10
		h.MaxDepth = &d
	}
	if h.MaxTotalImports <= 0 {
		h.MaxTotalImports = 100
	}
	if h.MaxImportsPerOntology <= 0 {
		h.MaxImportsPerOntology = 20
	}
	if h.MaxFileSizeBytes <= 0 {
		h.MaxFileSizeBytes = 10 * 1024 * 1024
	}
	if h.AutoLoadDelaySeconds <= 0 {
		h.AutoLoadDelaySeconds = 1
	}
}

// LoadConfig reads and validates a YAML configuration file. Unknown keys
// are tolerated (yaml.v3's default decode behavior) rather than rejected,
// a deliberate choice recorded in SPEC_FULL.md §10.3: a config file
// written for a newer hub version should still start an older one.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.ConfigError, err, path).WithPublic("failed to read hub configuration")
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errkind.Wrap(errkind.ConfigError, err, path).WithPublic("failed to parse hub configuration")
	}

	cfg.Hub.fillDefaults()

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Sets))
	for i := range cfg.Sets {
		s := &cfg.Sets[i]
		if s.SetID == "" {
			return errkind.New(errkind.ConfigError, "set missing set_id").WithPublic("invalid hub configuration")
		}
		if seen[s.SetID] {
			return errkind.Newf(errkind.ConfigError, "duplicate set_id %q", s.SetID).WithPublic("invalid hub configuration")
		}
		seen[s.SetID] = true

		if s.Display.Name == "" {
			return errkind.Newf(errkind.ConfigError, "set %q missing display.name", s.SetID).WithPublic("invalid hub configuration")
		}
		if len(s.Versions) == 0 {
			return errkind.Newf(errkind.ConfigError, "set %q declares no versions", s.SetID).WithPublic("invalid hub configuration")
		}
		if s.Priority == nil {
			d := DefaultPriority
			s.Priority = &d
		}

		defaultVersion := ""
		for j := range s.Versions {
			v := &s.Versions[j]
			if v.Version == "" {
				return errkind.Newf(errkind.ConfigError, "set %q has a version with no name", s.SetID).WithPublic("invalid hub configuration")
			}
			if v.RootPath == "" {
				return errkind.Newf(errkind.ConfigError, "set %q version %q missing root_path", s.SetID, v.Version).WithPublic("invalid hub configuration")
			}
			if v.Release.Stability == "" {
				v.Release.Stability = StabilityStable
			}
			if v.IsDefault && defaultVersion == "" {
				defaultVersion = v.Version
			}
		}
		if s.DefaultVersion == "" {
			if defaultVersion != "" {
				s.DefaultVersion = defaultVersion
			} else {
				s.DefaultVersion = s.Versions[0].Version
			}
		}
	}
	return nil
}

// FindVersion returns the named version's configuration, or VersionNotFound.
func (s SetConfiguration) FindVersion(version string) (VersionConfiguration, error) {
	for _, v := range s.Versions {
		if v.Version == version {
			return v, nil
		}
	}
	return VersionConfiguration{}, errkind.Newf(errkind.VersionNotFound, "set %q has no version %q", s.SetID, version).
		WithPublic(fmt.Sprintf("unknown version %q", version))
}

// BaseDirOrDefault returns the sandbox root for a version: BaseDir, or
// root_path's directory when BaseDir is unset.
func (v VersionConfiguration) BaseDirOrDefault() string { return v.effectiveBaseDir() }
