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

package ontology

import (
	"time"

	"github.com/ontohub/ontoview/pkg/imports"
	"github.com/ontohub/ontoview/pkg/store"
)

// Stats are the derived counts attached to a materialized set.
type Stats struct {
	TripleCount     int
	OntologyCount   int
	ClassCount      int
	PropertyCount   int
	IndividualCount int
}

// Set is a fully-materialized (set_id, version): a value object, never
// mutated in place. RecordAccess returns a copy with updated access
// bookkeeping (spec §4.6).
type Set struct {
	SetID   string
	Version string

	Store       *store.Store
	Ontologies  map[string]*imports.OntologyMeta
	Stats       Stats

	LoadedAt     time.Time
	LastAccessed time.Time
	AccessCount  uint
}

// New assembles an OntologySet from a freshly built store and the
// loaded-imports metadata, at the instant of loading: last_accessed =
// loaded_at, access_count = 0.
func New(setID, version string, loaded *imports.LoadedOntologies, s *store.Store, now time.Time) *Set {
	return &Set{
		SetID:      setID,
		Version:    version,
		Store:      s,
		Ontologies: loaded.Ontologies,
		Stats: Stats{
			TripleCount:   s.Count(),
			OntologyCount: len(loaded.Ontologies),
		},
		LoadedAt:     now,
		LastAccessed: now,
		AccessCount:  0,
	}
}

// RecordAccess returns a copy of s with last_accessed and access_count
// updated. The receiver is never mutated.
func (s *Set) RecordAccess(now time.Time) *Set {
	cp := *s
	cp.LastAccessed = now
	cp.AccessCount = s.AccessCount + 1
	return &cp
}
