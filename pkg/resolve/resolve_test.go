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

package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ontohub/ontoview/pkg/hub"
	"github.com/ontohub/ontoview/pkg/ontology"
)

func testService(t *testing.T) *hub.Service {
	t.Helper()
	dir := t.TempDir()
	content := "@prefix owl: <http://www.w3.org/2002/07/owl#> .\n" +
		"@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .\n" +
		"<http://example.org/onto#> rdf:type owl:Ontology .\n" +
		"<http://example.org/onto#Widget> rdf:type owl:Class .\n"
	path := filepath.Join(dir, "root.ttl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	configs := []ontology.SetConfiguration{
		{
			SetID:          "widgets",
			Display:        ontology.Display{Name: "Widgets"},
			DefaultVersion: "v1",
			Versions: []ontology.VersionConfiguration{
				{Version: "v1", RootPath: path, IsDefault: true},
			},
		},
	}
	svc := hub.NewService(configs, 5, hub.LRU, hub.Limits{MaxDepth: 10, MaxTotalImports: 100, MaxImportsPerOntology: 20, MaxFileSizeBytes: 1 << 20}, nil, nil)
	t.Cleanup(svc.Shutdown)

	_, err := svc.Get("widgets", "v1")
	require.NoError(t, err)
	return svc
}

func TestResolve_MissingIRIReturnsFlash(t *testing.T) {
	svc := testService(t)
	resp := Resolve(svc, "", "application/json")
	require.Equal(t, KindFlash, resp.Kind)
	require.Equal(t, "missing iri", resp.Flash)
}

func TestResolve_UnknownIRIReturnsFlash(t *testing.T) {
	svc := testService(t)
	resp := Resolve(svc, "http://example.org/nope", "application/json")
	require.Equal(t, KindFlash, resp.Kind)
	require.Equal(t, "not found", resp.Flash)
}

func TestResolve_JSONAcceptReturnsBody(t *testing.T) {
	svc := testService(t)
	resp := Resolve(svc, "http://example.org/onto#Widget", "application/json")
	require.Equal(t, KindJSON, resp.Kind)
	require.Equal(t, "widgets", resp.Body.SetID)
	require.Equal(t, "class", resp.Body.EntityType)
}

func TestResolve_TurtleAcceptRedirectsToExport(t *testing.T) {
	svc := testService(t)
	resp := Resolve(svc, "http://example.org/onto#Widget", "text/turtle")
	require.Equal(t, KindRedirectExport, resp.Kind)
	require.Equal(t, "/sets/widgets/v1/export.ttl", resp.Location)
}

func TestResolve_HTMLAcceptRedirectsToDocs(t *testing.T) {
	svc := testService(t)
	resp := Resolve(svc, "http://example.org/onto#Widget", "text/html")
	require.Equal(t, KindRedirectDocs, resp.Kind)
	require.Equal(t, "/sets/widgets/v1/docs", resp.Location)
}

func TestResolve_MissingAcceptRedirectsToDocs(t *testing.T) {
	svc := testService(t)
	resp := Resolve(svc, "http://example.org/onto#Widget", "")
	require.Equal(t, KindRedirectDocs, resp.Kind)
}
