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

package ontology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ontohub/ontoview/internal/errkind"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "hub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
sets:
  - set_id: widgets
    display:
      name: Widgets
    versions:
      - version: v1
        root_path: /tmp/widgets.ttl
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "LRU", cfg.Hub.CacheStrategy)
	require.Equal(t, 5, cfg.Hub.CacheLimit)
	require.Equal(t, 10, *cfg.Hub.MaxDepth)
	require.Equal(t, "v1", cfg.Sets[0].DefaultVersion)
	require.Equal(t, StabilityStable, cfg.Sets[0].Versions[0].Release.Stability)
	require.Equal(t, 100, cfg.Sets[0].PriorityOrDefault())
}

func TestLoadConfig_ExplicitZeroPriorityIsNotOverwritten(t *testing.T) {
	path := writeConfig(t, `
sets:
  - set_id: widgets
    display:
      name: Widgets
    priority: 0
    versions:
      - version: v1
        root_path: /tmp/widgets.ttl
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 0, cfg.Sets[0].PriorityOrDefault())
}

func TestLoadConfig_TolerantOfUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
sets:
  - set_id: widgets
    display:
      name: Widgets
    totally_unknown_field: true
    versions:
      - version: v1
        root_path: /tmp/widgets.ttl
`)
	_, err := LoadConfig(path)
	require.NoError(t, err)
}

func TestLoadConfig_MissingSetIDIsConfigError(t *testing.T) {
	path := writeConfig(t, `
sets:
  - display:
      name: Widgets
    versions:
      - version: v1
        root_path: /tmp/widgets.ttl
`)
	_, err := LoadConfig(path)
	require.True(t, errkind.OfKind(err, errkind.ConfigError))
}

func TestLoadConfig_DuplicateSetIDIsConfigError(t *testing.T) {
	path := writeConfig(t, `
sets:
  - set_id: widgets
    display:
      name: Widgets
    versions:
      - version: v1
        root_path: /tmp/a.ttl
  - set_id: widgets
    display:
      name: Widgets Again
    versions:
      - version: v1
        root_path: /tmp/b.ttl
`)
	_, err := LoadConfig(path)
	require.True(t, errkind.OfKind(err, errkind.ConfigError))
}

func TestSetConfiguration_FindVersionNotFound(t *testing.T) {
	s := SetConfiguration{SetID: "widgets", Versions: []VersionConfiguration{{Version: "v1"}}}
	_, err := s.FindVersion("v2")
	require.True(t, errkind.OfKind(err, errkind.VersionNotFound))
}

func TestVersionConfiguration_BaseDirDefaultsToRootPathDir(t *testing.T) {
	v := VersionConfiguration{RootPath: "/data/ontologies/root.ttl"}
	require.Equal(t, "/data/ontologies", v.BaseDirOrDefault())
}
