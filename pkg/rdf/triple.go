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

package rdf

// Triple is an RDF statement tagged with the IRI of the ontology it was
// read from (its provenance graph). Subject is always Iri or Blank;
// Predicate is canonically Iri (a blank-node predicate is rare but
// permitted); Object is any term kind.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     string
}

// Equal compares two triples by value, including provenance graph.
func (t Triple) Equal(o Triple) bool {
	return t.Subject.Equal(o.Subject) &&
		t.Predicate.Equal(o.Predicate) &&
		t.Object.Equal(o.Object) &&
		t.Graph == o.Graph
}
