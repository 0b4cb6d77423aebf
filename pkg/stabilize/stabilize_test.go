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

package stabilize

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ontohub/ontoview/pkg/rdf"
)

func TestApply_SameParserIDSameGraphMapsToSameStableID(t *testing.T) {
	in := []rdf.Triple{
		{Subject: rdf.NewBlank("b1"), Predicate: rdf.NewIri("http://example.org/p"), Object: rdf.NewIri("http://example.org/o1"), Graph: "http://example.org/g1"},
		{Subject: rdf.NewIri("http://example.org/s2"), Predicate: rdf.NewIri("http://example.org/p"), Object: rdf.NewBlank("b1"), Graph: "http://example.org/g1"},
	}

	out := Apply(in)
	require.True(t, out[0].Subject.Equal(out[1].Object))
	require.Contains(t, out[0].Subject.BlankID(), "http://example.org/g1_bn")
}

func TestApply_SameParserIDDifferentGraphsNeverCollide(t *testing.T) {
	in := []rdf.Triple{
		{Subject: rdf.NewBlank("b1"), Predicate: rdf.NewIri("http://example.org/p"), Object: rdf.NewIri("http://example.org/o"), Graph: "http://example.org/g1"},
		{Subject: rdf.NewBlank("b1"), Predicate: rdf.NewIri("http://example.org/p"), Object: rdf.NewIri("http://example.org/o"), Graph: "http://example.org/g2"},
	}

	out := Apply(in)
	require.False(t, out[0].Subject.Equal(out[1].Subject))
}

func TestApply_DeterministicAcrossRuns(t *testing.T) {
	in := []rdf.Triple{
		{Subject: rdf.NewBlank("z"), Predicate: rdf.NewIri("http://example.org/p"), Object: rdf.NewIri("http://example.org/o1"), Graph: "http://example.org/g"},
		{Subject: rdf.NewBlank("a"), Predicate: rdf.NewIri("http://example.org/p"), Object: rdf.NewIri("http://example.org/o2"), Graph: "http://example.org/g"},
	}

	out1 := Apply(in)
	out2 := Apply(in)
	require.Equal(t, out1[0].Subject.BlankID(), out2[0].Subject.BlankID())
	require.Equal(t, out1[1].Subject.BlankID(), out2[1].Subject.BlankID())
	// "a" sorts before "z", so it gets the lower counter regardless of
	// original triple-list order.
	require.Equal(t, "http://example.org/g_bn0001", out1[1].Subject.BlankID())
	require.Equal(t, "http://example.org/g_bn0002", out1[0].Subject.BlankID())
}

func TestApply_NoBlanksIsNoOp(t *testing.T) {
	in := []rdf.Triple{
		{Subject: rdf.NewIri("http://example.org/s"), Predicate: rdf.NewIri("http://example.org/p"), Object: rdf.NewIri("http://example.org/o"), Graph: "http://example.org/g"},
	}
	out := Apply(in)
	require.Equal(t, in, out)
}

func TestApply_WidensPadWidthWhenOntologyExceedsCanonicalCount(t *testing.T) {
	ids := make(map[string]bool, 10001)
	for i := 0; i < 10001; i++ {
		ids["parser-"+strconv.Itoa(i)] = true
	}
	buckets := map[string]map[string]bool{"http://example.org/g": ids}

	assignments := assign(buckets)
	for _, stableID := range assignments["http://example.org/g"] {
		require.Len(t, stableID, len("http://example.org/g_bn")+5)
		break
	}
}
