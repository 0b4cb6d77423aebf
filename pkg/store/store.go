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

// Package store holds the immutable, indexed triple store built once per
// ontology set: subject/predicate/object indexes for O(1) amortized
// lookup, plus the distinct graph (provenance) set. See spec §4.5.
package store

import "github.com/ontohub/ontoview/pkg/rdf"

// Store is immutable after Build; there is no mutation API.
type Store struct {
	triples     []rdf.Triple
	bySubject   map[rdf.Term][]rdf.Triple
	byPredicate map[rdf.Term][]rdf.Triple
	byObject    map[rdf.Term][]rdf.Triple
	ontologies  map[string]bool
}

// Build indexes triples three ways. Each index bucket holds its own copy
// of the rdf.Triple value; buckets do not share triples by reference with
// each other or with the store's triple list.
func Build(triples []rdf.Triple) *Store {
	s := &Store{
		triples:     triples,
		bySubject:   make(map[rdf.Term][]rdf.Triple, len(triples)),
		byPredicate: make(map[rdf.Term][]rdf.Triple, len(triples)),
		byObject:    make(map[rdf.Term][]rdf.Triple, len(triples)),
		ontologies:  make(map[string]bool),
	}
	for _, t := range triples {
		s.bySubject[t.Subject] = append(s.bySubject[t.Subject], t)
		s.byPredicate[t.Predicate] = append(s.byPredicate[t.Predicate], t)
		s.byObject[t.Object] = append(s.byObject[t.Object], t)
		s.ontologies[t.Graph] = true
	}
	return s
}

// BySubject returns every triple with the given subject, or nil if none.
func (s *Store) BySubject(term rdf.Term) []rdf.Triple { return s.bySubject[term] }

// ByPredicate returns every triple with the given predicate, or nil if none.
func (s *Store) ByPredicate(term rdf.Term) []rdf.Triple { return s.byPredicate[term] }

// ByObject returns every triple with the given object, or nil if none.
func (s *Store) ByObject(term rdf.Term) []rdf.Triple { return s.byObject[term] }

// Count is the total number of triples in the store.
func (s *Store) Count() int { return len(s.triples) }

// FromGraph returns every triple whose provenance is the given graph IRI.
// Unlike the subject/predicate/object indexes this is not pre-bucketed
// since graph-scoped queries are not on the store's hot path (spec §4.9
// resolves by IRI, not by graph).
func (s *Store) FromGraph(iri string) []rdf.Triple {
	var out []rdf.Triple
	for _, t := range s.triples {
		if t.Graph == iri {
			out = append(out, t)
		}
	}
	return out
}

// Ontologies returns the distinct set of graph (provenance) IRIs present
// in the store.
func (s *Store) Ontologies() []string {
	out := make([]string, 0, len(s.ontologies))
	for iri := range s.ontologies {
		out = append(out, iri)
	}
	return out
}

// All returns every triple in the store, in construction order.
func (s *Store) All() []rdf.Triple { return s.triples }
