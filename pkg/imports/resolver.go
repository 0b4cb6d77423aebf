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

// Package imports recursively resolves owl:imports closures: cycle
// detection via the recursion-stack path (not the visited set), resource
// limits, IRI-to-path resolution, and provenance-tagged dataset assembly.
// See spec §4.2.
package imports

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	rdf2go "github.com/deiu/rdf2go"

	"github.com/ontohub/ontoview/internal/errkind"
	"github.com/ontohub/ontoview/pkg/loader"
	"github.com/ontohub/ontoview/pkg/rdf"
)

// Defaults per spec §4.2 / §6.
const (
	DefaultMaxDepth              = 10
	DefaultMaxTotalImports       = 100
	DefaultMaxImportsPerOntology = 20
)

// Options configures one load_with_imports invocation.
type Options struct {
	// MaxDepth is a pointer so an explicit 0 (reject any owl:imports at
	// all, per the §8 boundary case) is distinguishable from an unset
	// field, which falls back to DefaultMaxDepth.
	MaxDepth              *int
	MaxTotalImports       int
	MaxImportsPerOntology int

	// MaxFileSizeBytes caps the size of every source file visited during
	// the traversal; 0 lets loader.Load fall back to its own default.
	MaxFileSizeBytes int64

	// IRIResolver maps an import IRI directly to an on-disk path, tried
	// after file:// expansion and before convention-based search.
	IRIResolver map[string]string

	// BaseDir is the sandbox root and the directory searched by
	// convention-based resolution. Defaults to the root file's directory.
	BaseDir string

	Logger *slog.Logger
}

func (o *Options) fillDefaults(rootPath string) {
	if o.MaxDepth == nil {
		d := DefaultMaxDepth
		o.MaxDepth = &d
	}
	if o.MaxTotalImports <= 0 {
		o.MaxTotalImports = DefaultMaxTotalImports
	}
	if o.MaxImportsPerOntology <= 0 {
		o.MaxImportsPerOntology = DefaultMaxImportsPerOntology
	}
	if o.BaseDir == "" {
		o.BaseDir = filepath.Dir(rootPath)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// OntologyMeta is the metadata recorded for one loaded Turtle source, plus
// its cached parsed graph so the dataset assembler never re-reads the
// file (spec §4.2 step 6).
type OntologyMeta struct {
	IRI           string
	Path          string
	PrefixMap     []loader.PrefixBinding
	DirectImports []string
	Depth         int
	TripleCount   int

	graph []*rdf2go.Triple
}

// ImportNode is one entry of the import chain: an ontology, the depth it
// was first reached at, and the import IRIs it declares.
type ImportNode struct {
	IRI     string
	Depth   int
	Imports []string
}

// ImportChain records the shape of the traversal, root-first.
type ImportChain struct {
	RootIRI string
	Depth   int
	Nodes   []ImportNode
}

// LoadedOntologies is the Import Resolver's output and the Triple
// Normalizer's input (spec §3).
type LoadedOntologies struct {
	Ontologies  map[string]*OntologyMeta
	ImportChain ImportChain
	Dataset     map[string][]*rdf2go.Triple
}

// CycleTrace describes a detected owl:imports cycle.
type CycleTrace struct {
	CycleAt     string
	ImportPath  []string
	CycleLength int
	Human       string
}

// CycleError is returned (wrapped in an *errkind.Error of kind
// CircularDependency) when a true cycle is detected.
type CycleError struct {
	Trace CycleTrace
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular owl:imports: %s", e.Trace.Human)
}

// traversal carries the shared, mutable state of one Resolve call.
type traversal struct {
	opts          Options
	visited       map[string]bool
	totalImports  int
	ontologies    map[string]*OntologyMeta
	nodes         []ImportNode
}

// Resolve walks the owl:imports closure rooted at rootPath and returns the
// assembled, provenance-tagged dataset.
func Resolve(rootPath string, opts Options) (*LoadedOntologies, error) {
	opts.fillDefaults(rootPath)

	tr := &traversal{
		opts:       opts,
		visited:    make(map[string]bool),
		ontologies: make(map[string]*OntologyMeta),
	}

	rootIRI, err := tr.visit(rootPath, nil, 0)
	if err != nil {
		return nil, err
	}

	dataset := make(map[string][]*rdf2go.Triple, len(tr.ontologies))
	for iri, meta := range tr.ontologies {
		dataset[iri] = meta.graph
	}

	return &LoadedOntologies{
		Ontologies: tr.ontologies,
		ImportChain: ImportChain{
			RootIRI: rootIRI,
			Depth:   0,
			Nodes:   tr.nodes,
		},
		Dataset: dataset,
	}, nil
}

// visit loads one ontology source, recurses into its owl:imports, and
// records its metadata. path is the recursion-stack ordered import path
// from root to the *parent* of this node (used for cycle detection);
// depth is this node's depth.
func (tr *traversal) visit(sourcePath string, path []string, depth int) (string, error) {
	if depth > *tr.opts.MaxDepth {
		return "", errkind.Newf(errkind.MaxDepthExceeded, "depth %d exceeds max %d", depth, *tr.opts.MaxDepth).
			WithPublic("ontology import depth exceeded")
	}

	g, meta, err := loader.Load(sourcePath, loader.Options{
		AllowedBaseDir:   tr.opts.BaseDir,
		MaxFileSizeBytes: tr.opts.MaxFileSizeBytes,
		Logger:           tr.opts.Logger,
	})
	if err != nil {
		return "", err
	}

	iri := meta.BaseIRI
	nodePath := append(append([]string{}, path...), iri)

	directImports := extractImports(g.Triples)
	if len(directImports) > tr.opts.MaxImportsPerOntology {
		return "", errkind.Newf(errkind.TooManyImportsInOntology, "%s declares %d imports, max %d", iri, len(directImports), tr.opts.MaxImportsPerOntology).
			WithPublic("ontology declares too many imports")
	}

	om := &OntologyMeta{
		IRI:           iri,
		Path:          sourcePath,
		PrefixMap:     g.PrefixMap,
		DirectImports: directImports,
		Depth:         depth,
		TripleCount:   len(g.Triples),
		graph:         g.Triples,
	}

	for _, importIRI := range directImports {
		if containsIRI(nodePath, importIRI) {
			cyclePath := append(append([]string{}, nodePath...), importIRI)
			trace := CycleTrace{
				CycleAt:     importIRI,
				ImportPath:  cyclePath,
				CycleLength: indexOf(cyclePath, importIRI),
				Human:       humanCycle(cyclePath),
			}
			tr.opts.Logger.Warn("import.cycle_detected", "cycle_at", importIRI, "path", cyclePath)
			return "", errkind.Wrap(errkind.CircularDependency, &CycleError{Trace: trace}, trace.Human).
				WithPublic("circular ontology import detected")
		}

		if tr.visited[importIRI] {
			continue
		}

		childPath, found, err := tr.resolveImportIRI(importIRI)
		if err != nil {
			return "", err
		}
		if !found {
			tr.opts.Logger.Warn("import.missing", "iri", importIRI, "from", iri)
			continue
		}

		tr.totalImports++
		if tr.totalImports > tr.opts.MaxTotalImports {
			return "", errkind.Newf(errkind.TooManyTotalImports, "total imports exceed %d", tr.opts.MaxTotalImports).
				WithPublic("ontology set import budget exceeded")
		}

		tr.visited[importIRI] = true
		if _, err := tr.visit(childPath, nodePath, depth+1); err != nil {
			return "", err
		}
	}

	tr.ontologies[iri] = om
	tr.nodes = append(tr.nodes, ImportNode{IRI: iri, Depth: depth, Imports: directImports})
	tr.visited[iri] = true

	return iri, nil
}

// resolveImportIRI applies the §4.2 resolution strategy in order:
// file:// expansion, the caller-supplied resolver map, then
// convention-based filename search in BaseDir.
func (tr *traversal) resolveImportIRI(iri string) (string, bool, error) {
	if strings.HasPrefix(iri, "file://") {
		p := strings.TrimPrefix(iri, "file://")
		if err := checkSandboxed(p, tr.opts.BaseDir); err != nil {
			return "", false, err
		}
		if _, err := os.Stat(p); err == nil {
			return p, true, nil
		}
		return "", false, nil
	}

	if tr.opts.IRIResolver != nil {
		if p, ok := tr.opts.IRIResolver[iri]; ok {
			if err := checkSandboxed(p, tr.opts.BaseDir); err != nil {
				return "", false, err
			}
			return p, true, nil
		}
	}

	frag := lastSegment(iri)
	candidates := []string{
		frag,
		frag + ".ttl",
		strings.ToLower(frag),
		strings.ToLower(frag) + ".ttl",
	}
	for _, c := range candidates {
		p := filepath.Join(tr.opts.BaseDir, c)
		if _, err := os.Stat(p); err == nil {
			return p, true, nil
		}
	}
	return "", false, nil
}

func checkSandboxed(path, baseDir string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errkind.Wrap(errkind.IoError, err, path)
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return errkind.Wrap(errkind.IoError, err, baseDir)
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errkind.Newf(errkind.UnauthorizedPath, "%s escapes sandbox %s", path, baseDir).
			WithPublic("ontology import path is outside the allowed directory")
	}
	return nil
}

// extractImports returns the IRI objects of every owl:imports triple,
// skipping blank-node imports per spec §4.2 step 2.
func extractImports(triples []*rdf2go.Triple) []string {
	owlImports := rdf2go.NewResource(rdf.OWLImports)
	var out []string
	seen := make(map[string]bool)
	for _, t := range triples {
		if !t.Predicate.Equal(owlImports) {
			continue
		}
		res, ok := t.Object.(*rdf2go.Resource)
		if !ok {
			continue // blank-node import, skipped
		}
		if seen[res.URI] {
			continue
		}
		seen[res.URI] = true
		out = append(out, res.URI)
	}
	sort.Strings(out)
	return out
}

func lastSegment(iri string) string {
	if idx := strings.LastIndexByte(iri, '#'); idx >= 0 {
		return iri[idx+1:]
	}
	return filepath.Base(iri)
}

func containsIRI(path []string, iri string) bool {
	for _, p := range path {
		if p == iri {
			return true
		}
	}
	return false
}

func indexOf(path []string, iri string) int {
	for i, p := range path {
		if p == iri {
			return i
		}
	}
	return -1
}

func humanCycle(path []string) string {
	return "[CYCLE START] " + strings.Join(path, " → ")
}
