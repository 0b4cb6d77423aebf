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

package hub

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ontohub/ontoview/internal/errkind"
	"github.com/ontohub/ontoview/pkg/ontology"
)

func writeOntologyFile(t *testing.T, dir, name, iri string) string {
	t.Helper()
	content := "@prefix owl: <http://www.w3.org/2002/07/owl#> .\n" +
		"@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .\n" +
		"<" + iri + "> rdf:type owl:Ontology .\n" +
		"<" + iri + "Widget> rdf:type owl:Class .\n"
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testLimits() Limits {
	return Limits{MaxDepth: 10, MaxTotalImports: 100, MaxImportsPerOntology: 20, MaxFileSizeBytes: 1 << 20}
}

func testConfig(rootPath string) []ontology.SetConfiguration {
	return []ontology.SetConfiguration{
		{
			SetID:   "widgets",
			Display: ontology.Display{Name: "Widgets"},
			Versions: []ontology.VersionConfiguration{
				{Version: "v1", RootPath: rootPath, IsDefault: true},
			},
			DefaultVersion: "v1",
			Priority:       intPtr(100),
		},
	}
}

func intPtr(n int) *int { return &n }

func TestService_GetLoadsOnMiss(t *testing.T) {
	dir := t.TempDir()
	root := writeOntologyFile(t, dir, "root.ttl", "http://example.org/onto#")

	svc := NewService(testConfig(root), 5, LRU, testLimits(), nil, nil)
	defer svc.Shutdown()

	set, err := svc.Get("widgets", "v1")
	require.NoError(t, err)
	require.Equal(t, "widgets", set.SetID)
	require.Greater(t, set.Stats.TripleCount, 0)

	stats := svc.Stats()
	require.Equal(t, uint64(1), stats.CacheMiss)
	require.Equal(t, uint64(1), stats.LoadCount)
}

func TestService_GetHitsCacheOnSecondCall(t *testing.T) {
	dir := t.TempDir()
	root := writeOntologyFile(t, dir, "root.ttl", "http://example.org/onto#")

	svc := NewService(testConfig(root), 5, LRU, testLimits(), nil, nil)
	defer svc.Shutdown()

	_, err := svc.Get("widgets", "v1")
	require.NoError(t, err)
	_, err = svc.Get("widgets", "v1")
	require.NoError(t, err)

	stats := svc.Stats()
	require.Equal(t, uint64(1), stats.CacheHit)
	require.Equal(t, uint64(1), stats.CacheMiss)
}

func TestService_UnknownSetReturnsSetNotFound(t *testing.T) {
	svc := NewService(nil, 5, LRU, testLimits(), nil, nil)
	defer svc.Shutdown()

	_, err := svc.Get("nope", "v1")
	require.True(t, errkind.OfKind(err, errkind.SetNotFound))
}

func TestService_UnknownVersionReturnsVersionNotFound(t *testing.T) {
	dir := t.TempDir()
	root := writeOntologyFile(t, dir, "root.ttl", "http://example.org/onto#")

	svc := NewService(testConfig(root), 5, LRU, testLimits(), nil, nil)
	defer svc.Shutdown()

	_, err := svc.Get("widgets", "nope")
	require.True(t, errkind.OfKind(err, errkind.VersionNotFound))
}

func TestService_UnloadNeverLoadedReturnsNotLoaded(t *testing.T) {
	svc := NewService(nil, 5, LRU, testLimits(), nil, nil)
	defer svc.Shutdown()

	err := svc.Unload("widgets", "v1")
	require.True(t, errkind.OfKind(err, errkind.NotLoaded))
}

func TestService_StatsAtStartupIsAllZero(t *testing.T) {
	svc := NewService(nil, 5, LRU, testLimits(), nil, nil)
	defer svc.Shutdown()

	stats := svc.Stats()
	require.Zero(t, stats.CacheHit)
	require.Zero(t, stats.CacheMiss)
	require.Zero(t, stats.LoadCount)
	require.Zero(t, stats.EvictionCount)
	require.Equal(t, 0.0, stats.CacheHitRate)
	require.Zero(t, stats.LoadedCount)
}

func TestService_CacheEvictsOldestOnOverflow(t *testing.T) {
	dir := t.TempDir()
	rootA := writeOntologyFile(t, dir, "a.ttl", "http://example.org/a#")
	rootB := writeOntologyFile(t, dir, "b.ttl", "http://example.org/b#")

	configs := []ontology.SetConfiguration{
		{SetID: "a", Display: ontology.Display{Name: "A"}, DefaultVersion: "v1",
			Versions: []ontology.VersionConfiguration{{Version: "v1", RootPath: rootA, IsDefault: true}}},
		{SetID: "b", Display: ontology.Display{Name: "B"}, DefaultVersion: "v1",
			Versions: []ontology.VersionConfiguration{{Version: "v1", RootPath: rootB, IsDefault: true}}},
	}

	tick := time.Now()
	svc := NewService(configs, 1, LRU, testLimits(), nil, func() time.Time { tick = tick.Add(time.Second); return tick })
	defer svc.Shutdown()

	_, err := svc.Get("a", "v1")
	require.NoError(t, err)
	_, err = svc.Get("b", "v1")
	require.NoError(t, err)

	stats := svc.Stats()
	require.Equal(t, 1, stats.LoadedCount)
	require.Equal(t, uint64(1), stats.EvictionCount)
}

func TestService_ResolveIRIClassifiesClass(t *testing.T) {
	dir := t.TempDir()
	root := writeOntologyFile(t, dir, "root.ttl", "http://example.org/onto#")

	svc := NewService(testConfig(root), 5, LRU, testLimits(), nil, nil)
	defer svc.Shutdown()

	_, err := svc.Get("widgets", "v1")
	require.NoError(t, err)

	result, err := svc.ResolveIRI("http://example.org/onto#Widget")
	require.NoError(t, err)
	require.Equal(t, EntityClass, result.EntityType)
	require.Equal(t, "widgets", result.SetID)
}

func TestService_ResolveIRIUnknownReturnsIriNotFound(t *testing.T) {
	svc := NewService(nil, 5, LRU, testLimits(), nil, nil)
	defer svc.Shutdown()

	_, err := svc.ResolveIRI("http://example.org/nope")
	require.True(t, errkind.OfKind(err, errkind.IriNotFound))
}
