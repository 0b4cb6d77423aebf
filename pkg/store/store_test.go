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

package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ontohub/ontoview/pkg/rdf"
)

func sampleTriples() []rdf.Triple {
	s := rdf.NewIri("http://example.org/Widget")
	p := rdf.NewIri("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
	o := rdf.NewIri("http://www.w3.org/2002/07/owl#Class")
	return []rdf.Triple{
		{Subject: s, Predicate: p, Object: o, Graph: "http://example.org/onto"},
		{Subject: o, Predicate: p, Object: rdf.NewIri("http://www.w3.org/2002/07/owl#Class"), Graph: "http://example.org/onto2"},
	}
}

func TestBuild_IndexesEveryTripleExactlyOnce(t *testing.T) {
	triples := sampleTriples()
	s := Build(triples)

	require.Equal(t, len(triples), s.Count())

	sum := 0
	for _, t := range triples {
		sum += len(s.BySubject(t.Subject))
	}
	require.Equal(t, len(triples), sum)
}

func TestBuild_MissingKeyReturnsEmptyNotNilSentinel(t *testing.T) {
	s := Build(sampleTriples())
	result := s.BySubject(rdf.NewIri("http://example.org/Nonexistent"))
	require.Empty(t, result)
}

func TestBuild_OntologiesIsDistinctGraphSet(t *testing.T) {
	s := Build(sampleTriples())
	require.ElementsMatch(t, []string{"http://example.org/onto", "http://example.org/onto2"}, s.Ontologies())
}

func TestBuild_FromGraphFiltersByProvenance(t *testing.T) {
	s := Build(sampleTriples())
	got := s.FromGraph("http://example.org/onto")
	require.Len(t, got, 1)
	require.Equal(t, "http://example.org/onto", got[0].Graph)
}
