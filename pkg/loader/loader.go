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

// Package loader reads a single Turtle source file safely: existence and
// kind checks without following symlinks, a pre-read size gate, sandboxing
// against an allowed base directory, and Turtle parsing with base-IRI and
// prefix-map extraction. See spec §4.1.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	rdf2go "github.com/deiu/rdf2go"
	"github.com/klauspost/compress/gzip"

	"github.com/ontohub/ontoview/internal/errkind"
	"github.com/ontohub/ontoview/pkg/rdf"
)

// DefaultMaxFileSize is the default per-file size ceiling (10 MiB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// Options controls a single Load call.
type Options struct {
	// MaxFileSizeBytes caps the source file size; 0 uses DefaultMaxFileSize.
	MaxFileSizeBytes int64

	// AllowedBaseDir sandboxes the resolved path. Required when the file
	// is reached through import resolution; optional for a standalone
	// load (empty disables sandboxing).
	AllowedBaseDir string

	// Logger receives non-fatal warnings (unrecognized extension, etc).
	// Defaults to slog.Default() when nil.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) maxSize() int64 {
	if o.MaxFileSizeBytes > 0 {
		return o.MaxFileSizeBytes
	}
	return DefaultMaxFileSize
}

// Graph is the parsed content of one Turtle source: its triples (as raw
// rdf2go terms, not yet normalized — see pkg/normalize) plus the ordered
// prefix bindings declared in the file.
type Graph struct {
	Triples   []*rdf2go.Triple
	PrefixMap []PrefixBinding
}

// PrefixBinding is one "@prefix name: <iri> ." declaration, order
// preserved for export.
type PrefixBinding struct {
	Prefix string
	IRI    string
}

// Meta describes the loaded source: its declared or synthesized base IRI,
// the on-disk path, and size.
type Meta struct {
	BaseIRI      string
	BaseSynthesized bool
	Path         string
	SizeBytes    int64
}

// Load reads, sandboxes, and parses one Turtle file.
func Load(path string, opts Options) (*Graph, *Meta, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errkind.New(errkind.FileNotFound, path).WithPublic("ontology source not found")
		}
		if os.IsPermission(err) {
			return nil, nil, errkind.New(errkind.PermissionDenied, path).WithPublic("permission denied")
		}
		return nil, nil, errkind.Wrap(errkind.IoError, err, path)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return nil, nil, errkind.New(errkind.SymlinkRejected, path).WithPublic("symlinked ontology sources are rejected")
	}
	if info.IsDir() {
		return nil, nil, errkind.New(errkind.NotARegularFile, path).WithPublic("not a regular file")
	}
	if strings.HasPrefix(filepath.ToSlash(path), "/dev/") {
		return nil, nil, errkind.New(errkind.NotARegularFile, path).WithPublic("not a regular file")
	}

	if opts.AllowedBaseDir != "" {
		if err := sandboxCheck(path, opts.AllowedBaseDir); err != nil {
			return nil, nil, err
		}
	}

	if info.Size() > opts.maxSize() {
		return nil, nil, errkind.Newf(errkind.FileTooLarge, "%s: %d bytes exceeds limit %d", path, info.Size(), opts.maxSize()).
			WithPublic("ontology source exceeds the configured size limit")
	}

	lowerPath := strings.ToLower(path)
	if !strings.HasSuffix(lowerPath, ".ttl") && !strings.HasSuffix(lowerPath, ".ttl.gz") {
		opts.logger().Warn("loader.extension.unrecognized", "path", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errkind.Wrap(errkind.IoError, err, path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, errkind.Wrap(errkind.IoError, err, path)
		}
		defer gz.Close()
		r = gz
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errkind.Wrap(errkind.IoError, err, path)
	}

	prefixes := scanPrefixes(raw)

	graph, baseIRI, synthesized, err := parseTurtle(raw, path)
	if err != nil {
		basename := filepath.Base(path)
		opts.logger().Warn("loader.parse.error", "path", path, "err", err)
		return nil, nil, errkind.Wrap(errkind.ParseError, err, path).
			WithPublic(fmt.Sprintf("failed to parse %s", basename))
	}

	return &Graph{Triples: graph, PrefixMap: prefixes},
		&Meta{BaseIRI: baseIRI, BaseSynthesized: synthesized, Path: path, SizeBytes: info.Size()},
		nil
}

// sandboxCheck fails unless the canonicalized absolute path of target lies
// lexically inside base.
func sandboxCheck(target, base string) error {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return errkind.Wrap(errkind.IoError, err, target)
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return errkind.Wrap(errkind.IoError, err, base)
	}
	realTarget, err := filepath.EvalSymlinks(filepath.Dir(absTarget))
	if err != nil {
		return errkind.Wrap(errkind.IoError, err, target)
	}
	realTarget = filepath.Join(realTarget, filepath.Base(absTarget))

	rel, err := filepath.Rel(absBase, realTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errkind.Newf(errkind.UnauthorizedPath, "%s escapes sandbox %s", target, base).
			WithPublic("ontology source path is outside the allowed directory")
	}
	return nil
}

// parseTurtle parses raw Turtle bytes into rdf2go triples using the
// deiu/gon3 Turtle grammar (via rdf2go.Graph.Parse), and resolves the
// declared base IRI: the subject of the first "a owl:Ontology" triple, or
// a synthesized file://{path}# form when absent.
func parseTurtle(raw []byte, path string) ([]*rdf2go.Triple, string, bool, error) {
	g := rdf2go.NewGraph("")
	if err := g.Parse(strings.NewReader(string(raw)), "text/turtle"); err != nil {
		return nil, "", false, err
	}

	var triples []*rdf2go.Triple
	for t := range g.IterTriples() {
		triples = append(triples, t)
	}

	ontologyIRI := rdf2go.NewResource(rdf.OWLOntology)
	typeIRI := rdf2go.NewResource(rdf.RDFType)
	for _, t := range triples {
		if t.Predicate.Equal(typeIRI) && t.Object.Equal(ontologyIRI) {
			if res, ok := t.Subject.(*rdf2go.Resource); ok {
				return triples, res.URI, false, nil
			}
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return triples, fmt.Sprintf("file://%s#", filepath.ToSlash(abs)), true, nil
}

// scanPrefixes pre-scans raw Turtle text for "@prefix"/"PREFIX" directives
// to recover the ordered prefix map. rdf2go resolves prefixes internally
// during parsing (via gon3) but does not surface the bindings, so this
// light textual scan recovers them for export/provenance purposes only —
// it never participates in term resolution itself.
func scanPrefixes(raw []byte) []PrefixBinding {
	var out []PrefixBinding
	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lower := strings.ToLower(line)
		if !strings.HasPrefix(lower, "@prefix") && !strings.HasPrefix(lower, "prefix") {
			continue
		}
		fields := strings.Fields(strings.TrimSuffix(line, "."))
		if len(fields) < 3 {
			continue
		}
		prefix := strings.TrimSuffix(fields[1], ":")
		iri := strings.Trim(fields[2], "<>")
		out = append(out, PrefixBinding{Prefix: prefix, IRI: iri})
	}
	return out
}
