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

package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ontohub/ontoview/internal/errkind"
)

const sampleTurtle = `
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix ex: <http://example.org/onto#> .

<http://example.org/onto> rdf:type owl:Ontology .

ex:Widget rdf:type owl:Class .
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Success(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.ttl", sampleTurtle)

	graph, meta, err := Load(path, Options{AllowedBaseDir: dir})
	require.NoError(t, err)
	require.Equal(t, "http://example.org/onto", meta.BaseIRI)
	require.False(t, meta.BaseSynthesized)
	require.NotEmpty(t, graph.Triples)
	require.Len(t, graph.PrefixMap, 3)
}

func TestLoad_SynthesizesBaseWhenOntologyMissing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "no_ontology.ttl", `
@prefix ex: <http://example.org/onto#> .
ex:Widget ex:label "a widget" .
`)

	_, meta, err := Load(path, Options{AllowedBaseDir: dir})
	require.NoError(t, err)
	require.True(t, meta.BaseSynthesized)
	require.Contains(t, meta.BaseIRI, "file://")
}

func TestLoad_RejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "real.ttl", sampleTurtle)
	link := filepath.Join(dir, "link.ttl")
	require.NoError(t, os.Symlink(target, link))

	_, _, err := Load(link, Options{AllowedBaseDir: dir})
	require.Error(t, err)
	require.True(t, errkind.OfKind(err, errkind.SymlinkRejected))
}

func TestLoad_RejectsPathEscape(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	path := writeFile(t, outside, "outside.ttl", sampleTurtle)

	_, _, err := Load(path, Options{AllowedBaseDir: dir})
	require.Error(t, err)
	require.True(t, errkind.OfKind(err, errkind.UnauthorizedPath))
}

func TestLoad_RejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.ttl", sampleTurtle)

	_, _, err := Load(path, Options{AllowedBaseDir: dir, MaxFileSizeBytes: 4})
	require.Error(t, err)
	require.True(t, errkind.OfKind(err, errkind.FileTooLarge))
}

func TestLoad_RejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Load(dir, Options{AllowedBaseDir: filepath.Dir(dir)})
	require.Error(t, err)
	require.True(t, errkind.OfKind(err, errkind.NotARegularFile))
}

func TestLoad_RejectsMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Load(filepath.Join(dir, "missing.ttl"), Options{AllowedBaseDir: dir})
	require.Error(t, err)
	require.True(t, errkind.OfKind(err, errkind.FileNotFound))
}

func TestLoad_ParseError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.ttl", "this is not } valid turtle @@@")

	_, _, err := Load(path, Options{AllowedBaseDir: dir})
	require.Error(t, err)
	require.True(t, errkind.OfKind(err, errkind.ParseError))
}
