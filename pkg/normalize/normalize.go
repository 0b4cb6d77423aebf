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

// Package normalize converts a LoadedOntologies dataset of parser-native
// rdf2go terms into the canonical rdf.Triple model, tagging each triple
// with its source graph. Blank nodes are not yet stabilized here — see
// pkg/stabilize. See spec §4.3.
package normalize

import (
	rdf2go "github.com/deiu/rdf2go"

	"github.com/ontohub/ontoview/pkg/imports"
	"github.com/ontohub/ontoview/pkg/rdf"
)

// Extract converts every raw triple in every (graph_iri, raw_triples) pair
// of loaded.Dataset into a flat, unordered list of canonical triples.
func Extract(loaded *imports.LoadedOntologies) []rdf.Triple {
	var out []rdf.Triple
	for graphIRI, raw := range loaded.Dataset {
		for _, t := range raw {
			out = append(out, rdf.Triple{
				Subject:   term(t.Subject),
				Predicate: term(t.Predicate),
				Object:    term(t.Object),
				Graph:     graphIRI,
			})
		}
	}
	return out
}

// term converts a single rdf2go.Term into its canonical rdf.Term. Prefix
// resolution has already happened at parse time (inside pkg/loader); this
// function never rewrites prefixes, only re-tags term kinds.
func term(t rdf2go.Term) rdf.Term {
	switch v := t.(type) {
	case *rdf2go.Resource:
		return rdf.NewIri(v.URI)
	case *rdf2go.BlankNode:
		return rdf.NewBlank(v.ID)
	case *rdf2go.Literal:
		datatype := ""
		if v.Datatype != nil {
			if res, ok := v.Datatype.(*rdf2go.Resource); ok {
				datatype = res.URI
			}
		}
		if v.Language != "" {
			return rdf.NewLangString(v.Value, v.Language)
		}
		return rdf.NewLiteral(v.Value, datatype, "")
	default:
		// Defensive: an unrecognized parser term kind is treated as an
		// IRI of its string form rather than panicking, since indexing
		// and queries must remain total functions over the triple list.
		return rdf.NewIri(t.String())
	}
}
