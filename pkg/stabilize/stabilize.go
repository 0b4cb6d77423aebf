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

// Package stabilize rewrites parser-assigned blank-node identifiers into
// globally stable, provenance-bearing ones so that the same blank node
// always maps to the same ID and distinct ontologies never collide. See
// spec §4.4.
package stabilize

import (
	"fmt"
	"sort"

	"github.com/ontohub/ontoview/pkg/rdf"
)

// minWidth is the canonical zero-padded counter width. Widened per
// ontology, never shrunk, when an ontology's blank count exceeds what
// the canonical width can hold without losing lexical sort order.
const minWidth = 4

// Apply runs the three-pass detect/assign/apply algorithm over triples
// and returns a new slice with every blank-node term rewritten to its
// stable form. The input is not mutated.
func Apply(triples []rdf.Triple) []rdf.Triple {
	buckets := detect(triples)
	assignments := assign(buckets)
	return apply(triples, assignments)
}

// detect buckets each blank-node parser ID under its graph IRI.
func detect(triples []rdf.Triple) map[string]map[string]bool {
	buckets := make(map[string]map[string]bool)
	visit := func(t rdf.Term, graph string) {
		if !t.IsBlank() {
			return
		}
		b, ok := buckets[graph]
		if !ok {
			b = make(map[string]bool)
			buckets[graph] = b
		}
		b[t.BlankID()] = true
	}
	for _, tr := range triples {
		visit(tr.Subject, tr.Graph)
		visit(tr.Predicate, tr.Graph)
		visit(tr.Object, tr.Graph)
	}
	return buckets
}

// assign computes the (graph_iri, parser_id) -> stable_id map, sorting
// each graph's parser IDs for deterministic counter assignment and
// widening the zero-pad beyond the canonical 4 digits only for an
// ontology whose blank count would otherwise lose lexical sort order.
func assign(buckets map[string]map[string]bool) map[string]map[string]string {
	out := make(map[string]map[string]string, len(buckets))
	for graph, ids := range buckets {
		sorted := make([]string, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)

		width := minWidth
		for digits(len(sorted)) > width {
			width++
		}

		assigned := make(map[string]string, len(sorted))
		for i, id := range sorted {
			stableID := fmt.Sprintf("%s_bn%0*d", graph, width, i+1)
			assigned[id] = stableID
		}
		out[graph] = assigned
	}
	return out
}

func digits(n int) int {
	if n <= 0 {
		return 1
	}
	d := 0
	for n > 0 {
		d++
		n /= 10
	}
	return d
}

// apply rewrites every blank-node occurrence to its stable ID. Terms
// with no assignment (non-blank, or a graph with no blanks) are passed
// through unchanged.
func apply(triples []rdf.Triple, assignments map[string]map[string]string) []rdf.Triple {
	out := make([]rdf.Triple, len(triples))
	for i, tr := range triples {
		out[i] = rdf.Triple{
			Subject:   rewrite(tr.Subject, tr.Graph, assignments),
			Predicate: rewrite(tr.Predicate, tr.Graph, assignments),
			Object:    rewrite(tr.Object, tr.Graph, assignments),
			Graph:     tr.Graph,
		}
	}
	return out
}

func rewrite(t rdf.Term, graph string, assignments map[string]map[string]string) rdf.Term {
	if !t.IsBlank() {
		return t
	}
	if byID, ok := assignments[graph]; ok {
		if stableID, ok := byID[t.BlankID()]; ok {
			return rdf.NewBlank(stableID)
		}
	}
	return t
}
