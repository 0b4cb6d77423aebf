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

// Package hub holds HubState (pure-function state transitions) and the
// HubService actor that serializes every mutation through a single
// request loop. See spec §4.7, §4.8, §5.
package hub

import (
	"sort"
	"time"

	"github.com/ontohub/ontoview/pkg/ontology"
)

// CacheStrategy selects the eviction policy.
type CacheStrategy string

const (
	LRU CacheStrategy = "LRU"
	LFU CacheStrategy = "LFU"
)

// setKey is the composite identity of a loaded set.
type setKey struct {
	SetID   string
	Version string
}

// Metrics are the process-wide counters surfaced by stats().
type Metrics struct {
	CacheHit     uint64
	CacheMiss    uint64
	LoadCount    uint64
	EvictionCount uint64
	StartedAt    time.Time
}

// State holds everything the hub needs to serve requests from a single
// serialization point. Every transition below returns a new State;
// callers discard the old one. There is deliberately no in-place
// mutation so the owning service can snapshot state at will.
type State struct {
	Configurations map[string]ontology.SetConfiguration
	LoadedSets     map[setKey]*ontology.Set
	CacheLimit     uint
	CacheStrategy  CacheStrategy
	IRIIndex       map[string]setKey
	Metrics        Metrics
}

// NewState builds the initial HubState from a validated configuration.
func NewState(configs []ontology.SetConfiguration, cacheLimit uint, strategy CacheStrategy, now time.Time) *State {
	cfgMap := make(map[string]ontology.SetConfiguration, len(configs))
	for _, c := range configs {
		cfgMap[c.SetID] = c
	}
	if strategy == "" {
		strategy = LRU
	}
	return &State{
		Configurations: cfgMap,
		LoadedSets:     make(map[setKey]*ontology.Set),
		CacheLimit:     cacheLimit,
		CacheStrategy:  strategy,
		IRIIndex:       make(map[string]setKey),
		Metrics:        Metrics{StartedAt: now},
	}
}

// clone returns a shallow copy of s with its own top-level maps, so
// transitions can mutate the copy's maps without touching the original.
func (s *State) clone() *State {
	cp := *s
	cp.LoadedSets = make(map[setKey]*ontology.Set, len(s.LoadedSets))
	for k, v := range s.LoadedSets {
		cp.LoadedSets[k] = v
	}
	cp.IRIIndex = make(map[string]setKey, len(s.IRIIndex))
	for k, v := range s.IRIIndex {
		cp.IRIIndex[k] = v
	}
	return &cp
}

// recordCacheHit returns a new state with the hit counter bumped and the
// named set's access bookkeeping updated via RecordAccess.
func (s *State) recordCacheHit(sid, ver string, now time.Time) *State {
	cp := s.clone()
	cp.Metrics.CacheHit++
	key := setKey{sid, ver}
	if set, ok := cp.LoadedSets[key]; ok {
		cp.LoadedSets[key] = set.RecordAccess(now)
	}
	return cp
}

func (s *State) recordCacheMiss() *State {
	cp := s.clone()
	cp.Metrics.CacheMiss++
	return cp
}

func (s *State) recordLoad() *State {
	cp := s.clone()
	cp.Metrics.LoadCount++
	return cp
}

func (s *State) recordEviction() *State {
	cp := s.clone()
	cp.Metrics.EvictionCount++
	return cp
}

// addLoadedSet installs os, evicting first per cache_strategy if the
// cache is full and os is not itself already present. iri_index is
// merged with last-writer-wins semantics (spec §4.10).
func (s *State) addLoadedSet(os *ontology.Set) *State {
	cp := s.clone()
	key := setKey{os.SetID, os.Version}
	if _, already := cp.LoadedSets[key]; !already && uint(len(cp.LoadedSets)) >= cp.CacheLimit && cp.CacheLimit > 0 {
		cp = cp.evictOne()
	}
	cp.LoadedSets[key] = os
	for _, t := range os.Store.All() {
		if t.Subject.IsIRI() {
			cp.IRIIndex[t.Subject.IRI()] = key
		}
	}
	return cp
}

// removeSet drops (sid, ver) from loaded_sets and sweeps every iri_index
// entry pointing at it.
func (s *State) removeSet(sid, ver string) *State {
	cp := s.clone()
	key := setKey{sid, ver}
	delete(cp.LoadedSets, key)
	for iri, k := range cp.IRIIndex {
		if k == key {
			delete(cp.IRIIndex, iri)
		}
	}
	return cp
}

// evictOne removes the set chosen by cache_strategy and bumps the
// eviction counter. A no-op on an empty cache.
func (s *State) evictOne() *State {
	if len(s.LoadedSets) == 0 {
		return s
	}
	var chosen setKey
	first := true
	for key, set := range s.LoadedSets {
		if first {
			chosen = key
			first = false
			continue
		}
		switch s.CacheStrategy {
		case LFU:
			if set.AccessCount < s.LoadedSets[chosen].AccessCount {
				chosen = key
			}
		default: // LRU
			if set.LastAccessed.Before(s.LoadedSets[chosen].LastAccessed) {
				chosen = key
			}
		}
	}
	return s.removeSet(chosen.SetID, chosen.Version).recordEviction()
}

// ListedSet is the lightweight summary row for list_sets().
type ListedSet struct {
	SetID           string
	Display         ontology.Display
	KnownVersions   []string
	LoadedVersions  []string
	Priority        int
}

// ListSets returns every configured set, sorted by priority.
func (s *State) ListSets() []ListedSet {
	out := make([]ListedSet, 0, len(s.Configurations))
	for _, c := range s.Configurations {
		versions := make([]string, 0, len(c.Versions))
		for _, v := range c.Versions {
			versions = append(versions, v.Version)
		}
		sort.Strings(versions)

		var loaded []string
		for key := range s.LoadedSets {
			if key.SetID == c.SetID {
				loaded = append(loaded, key.Version)
			}
		}
		sort.Strings(loaded)

		out = append(out, ListedSet{
			SetID:          c.SetID,
			Display:        c.Display,
			KnownVersions:  versions,
			LoadedVersions: loaded,
			Priority:       c.PriorityOrDefault(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// HitRate computes cache_hit / (cache_hit + cache_miss), or 0.0 when the
// denominator is zero.
func (m Metrics) HitRate() float64 {
	total := m.CacheHit + m.CacheMiss
	if total == 0 {
		return 0.0
	}
	return float64(m.CacheHit) / float64(total)
}
