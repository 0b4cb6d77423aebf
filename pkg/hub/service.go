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

package hub

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ontohub/ontoview/internal/errkind"
	"github.com/ontohub/ontoview/pkg/imports"
	"github.com/ontohub/ontoview/pkg/normalize"
	"github.com/ontohub/ontoview/pkg/ontology"
	"github.com/ontohub/ontoview/pkg/rdf"
	"github.com/ontohub/ontoview/pkg/stabilize"
	"github.com/ontohub/ontoview/pkg/store"
)

// Limits bounds one load pipeline invocation (spec §4.2, §6).
type Limits struct {
	MaxDepth              int
	MaxTotalImports       int
	MaxImportsPerOntology int
	MaxFileSizeBytes      int64
}

// Service is the serialization boundary: every request is processed one
// at a time on a dedicated goroutine reading from req, so no
// reader/writer lock is needed (spec §5). Requests and their effects are
// plain closures over the current state, submitted through req and
// executed in FIFO order.
type Service struct {
	state  *State
	limits Limits
	logger *slog.Logger
	nowFn  func() time.Time

	req  chan func()
	done chan struct{}

	metricsRecorder *PrometheusRecorder
}

// NewService starts the hub actor goroutine. nowFn defaults to
// time.Now; tests may override it for deterministic timestamps.
func NewService(configs []ontology.SetConfiguration, cacheLimit uint, strategy CacheStrategy, limits Limits, logger *slog.Logger, nowFn func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	s := &Service{
		state:  NewState(configs, cacheLimit, strategy, nowFn()),
		limits: limits,
		logger: logger,
		nowFn:  nowFn,
		req:    make(chan func()),
		done:   make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *Service) loop() {
	for {
		select {
		case fn := <-s.req:
			fn()
		case <-s.done:
			s.logger.Info("hub.shutdown", "loaded_count", len(s.state.LoadedSets))
			return
		}
	}
}

// Shutdown stops the actor loop. No on-disk state to flush.
func (s *Service) Shutdown() { close(s.done) }

// submit runs fn on the actor goroutine and blocks until it completes,
// returning whatever fn computed.
func submit[T any](s *Service, fn func() T) T {
	resultCh := make(chan T, 1)
	s.req <- func() { resultCh <- fn() }
	return <-resultCh
}

// StatsView is the derived, point-in-time snapshot returned by Stats().
type StatsView struct {
	LoadedCount   int
	CacheHit      uint64
	CacheMiss     uint64
	LoadCount     uint64
	EvictionCount uint64
	CacheHitRate  float64
	UptimeSeconds float64
}

// Get returns the materialized OntologySet for (sid, ver), loading it on
// a cache miss.
func (s *Service) Get(sid, ver string) (*ontology.Set, error) {
	return submit(s, func() result {
		return s.getLocked(sid, ver)
	}).unpack()
}

type result struct {
	set *ontology.Set
	err error
}

func (r result) unpack() (*ontology.Set, error) { return r.set, r.err }

func (s *Service) getLocked(sid, ver string) result {
	key := setKey{sid, ver}
	if _, ok := s.state.LoadedSets[key]; ok {
		s.state = s.state.recordCacheHit(sid, ver, s.nowFn())
		return result{set: s.state.LoadedSets[key]}
	}

	s.state = s.state.recordCacheMiss()

	cfg, ok := s.state.Configurations[sid]
	if !ok {
		return result{err: errkind.Newf(errkind.SetNotFound, "no configured set %q", sid).WithPublic(fmt.Sprintf("unknown ontology set %q", sid))}
	}
	verCfg, err := cfg.FindVersion(ver)
	if err != nil {
		return result{err: err}
	}

	os, err := s.load(sid, verCfg)
	if err != nil {
		return result{err: err}
	}

	s.state = s.state.addLoadedSet(os)
	s.state = s.state.recordLoad()
	return result{set: os}
}

// load runs the full load pipeline: Import Resolver -> Triple Normalizer
// -> Blank-Node Stabilizer -> Triple Store -> OntologySet. This is the
// one suspension point the spec explicitly allows to block the
// serialized loop (§5).
func (s *Service) load(sid string, verCfg ontology.VersionConfiguration) (*ontology.Set, error) {
	correlationID := newCorrelationID()
	logger := s.logger.With("correlation_id", correlationID, "set_id", sid, "version", verCfg.Version)

	logger.Info("hub.load.start", "root_path", verCfg.RootPath)

	loaded, err := imports.Resolve(verCfg.RootPath, imports.Options{
		MaxDepth:              &s.limits.MaxDepth,
		MaxTotalImports:       s.limits.MaxTotalImports,
		MaxImportsPerOntology: s.limits.MaxImportsPerOntology,
		MaxFileSizeBytes:      s.limits.MaxFileSizeBytes,
		BaseDir:               verCfg.BaseDirOrDefault(),
		Logger:                logger,
	})
	if err != nil {
		logger.Warn("hub.load.failed", "err", err)
		return nil, err
	}

	triples := normalize.Extract(loaded)
	triples = stabilize.Apply(triples)
	st := store.Build(triples)

	logger.Info("hub.load.done", "triple_count", st.Count(), "ontology_count", len(loaded.Ontologies))
	return ontology.New(sid, verCfg.Version, loaded, st, s.nowFn()), nil
}

// GetDefault resolves the set's configured default version and delegates
// to Get.
func (s *Service) GetDefault(sid string) (*ontology.Set, error) {
	return submit(s, func() result {
		cfg, ok := s.state.Configurations[sid]
		if !ok {
			return result{err: errkind.Newf(errkind.SetNotFound, "no configured set %q", sid).WithPublic(fmt.Sprintf("unknown ontology set %q", sid))}
		}
		return s.getLocked(sid, cfg.DefaultVersion)
	}).unpack()
}

// ListSets returns a priority-sorted summary of every configured set.
func (s *Service) ListSets() []ListedSet {
	return submit(s, func() []ListedSet { return s.state.ListSets() })
}

// VersionInfo is one row of ListVersions.
type VersionInfo struct {
	Version    string
	IsDefault  bool
	IsLoaded   bool
	Release    ontology.Release
	Stats      *ontology.Stats
}

// ListVersions returns per-version info for a configured set, or
// SetNotFound.
func (s *Service) ListVersions(sid string) ([]VersionInfo, error) {
	type out struct {
		rows []VersionInfo
		err  error
	}
	o := submit(s, func() out {
		cfg, ok := s.state.Configurations[sid]
		if !ok {
			return out{err: errkind.Newf(errkind.SetNotFound, "no configured set %q", sid).WithPublic(fmt.Sprintf("unknown ontology set %q", sid))}
		}
		rows := make([]VersionInfo, 0, len(cfg.Versions))
		for _, v := range cfg.Versions {
			key := setKey{sid, v.Version}
			info := VersionInfo{
				Version:   v.Version,
				IsDefault: v.Version == cfg.DefaultVersion,
				Release:   v.Release,
			}
			if loadedSet, ok := s.state.LoadedSets[key]; ok {
				info.IsLoaded = true
				stats := loadedSet.Stats
				info.Stats = &stats
			}
			rows = append(rows, info)
		}
		return out{rows: rows}
	})
	return o.rows, o.err
}

// Reload discards any cached copy of (sid, ver) and reruns the load
// pipeline; on failure the pre-reload state is left in place.
func (s *Service) Reload(sid, ver string) (*ontology.Set, error) {
	return submit(s, func() result {
		cfg, ok := s.state.Configurations[sid]
		if !ok {
			return result{err: errkind.Newf(errkind.SetNotFound, "no configured set %q", sid).WithPublic(fmt.Sprintf("unknown ontology set %q", sid))}
		}
		verCfg, err := cfg.FindVersion(ver)
		if err != nil {
			return result{err: err}
		}

		prior := s.state
		s.state = s.state.removeSet(sid, ver)

		os, err := s.load(sid, verCfg)
		if err != nil {
			s.state = prior
			return result{err: err}
		}

		s.state = s.state.addLoadedSet(os)
		s.state = s.state.recordLoad()
		return result{set: os}
	}).unpack()
}

// Unload drops a cached set. NotLoaded if it was never loaded.
func (s *Service) Unload(sid, ver string) error {
	return submit(s, func() error {
		key := setKey{sid, ver}
		if _, ok := s.state.LoadedSets[key]; !ok {
			return errkind.Newf(errkind.NotLoaded, "%s@%s is not loaded", sid, ver).WithPublic("ontology set version is not loaded")
		}
		s.state = s.state.removeSet(sid, ver)
		return nil
	})
}

// Stats materializes the derived fields of §4.8 stats().
func (s *Service) Stats() StatsView {
	return submit(s, func() StatsView {
		m := s.state.Metrics
		return StatsView{
			LoadedCount:   len(s.state.LoadedSets),
			CacheHit:      m.CacheHit,
			CacheMiss:     m.CacheMiss,
			LoadCount:     m.LoadCount,
			EvictionCount: m.EvictionCount,
			CacheHitRate:  m.HitRate(),
			UptimeSeconds: s.nowFn().Sub(m.StartedAt).Seconds(),
		}
	})
}

// ConfigureCacheUpdate carries the optional fields of configure_cache.
type ConfigureCacheUpdate struct {
	Strategy *CacheStrategy
	Limit    *uint
}

// ConfigureCache applies validated updates; invalid values are silently
// ignored. Does not retroactively evict on a smaller limit — eviction is
// lazy, on the next add_loaded_set.
func (s *Service) ConfigureCache(update ConfigureCacheUpdate) {
	submit(s, func() struct{} {
		cp := s.state.clone()
		if update.Strategy != nil && (*update.Strategy == LRU || *update.Strategy == LFU) {
			cp.CacheStrategy = *update.Strategy
		}
		if update.Limit != nil && *update.Limit > 0 {
			cp.CacheLimit = *update.Limit
		}
		s.state = cp
		return struct{}{}
	})
}

// EntityType classifies an IRI resolved through ResolveIRI.
type EntityType string

const (
	EntityClass      EntityType = "class"
	EntityProperty   EntityType = "property"
	EntityIndividual EntityType = "individual"
	EntityUnknown    EntityType = "unknown"
)

// ResolveResult is the outcome of a successful IRI resolution.
type ResolveResult struct {
	IRI        string
	SetID      string
	Version    string
	EntityType EntityType
}

// ResolveIRI looks up iri_index and classifies the entity by its
// rdf:type assertions in the owning set's store.
func (s *Service) ResolveIRI(iri string) (*ResolveResult, error) {
	type out struct {
		r   *ResolveResult
		err error
	}
	o := submit(s, func() out {
		key, ok := s.state.IRIIndex[iri]
		if !ok {
			return out{err: errkind.Newf(errkind.IriNotFound, "iri %q not indexed", iri).WithPublic("ontology entity not found")}
		}
		set, ok := s.state.LoadedSets[key]
		if !ok {
			return out{err: errkind.Newf(errkind.IriNotFound, "iri %q points at an unloaded set", iri).WithPublic("ontology entity not found")}
		}

		entityType := classify(set, iri)
		return out{r: &ResolveResult{IRI: iri, SetID: key.SetID, Version: key.Version, EntityType: entityType}}
	})
	return o.r, o.err
}

func classify(set *ontology.Set, iri string) EntityType {
	subject := rdf.NewIri(iri)
	typePred := rdf.NewIri(rdf.RDFType)
	var declared EntityType
	found := false
	for _, t := range set.Store.BySubject(subject) {
		if !t.Predicate.Equal(typePred) || !t.Object.IsIRI() {
			continue
		}
		found = true
		switch t.Object.IRI() {
		case rdf.OWLClass:
			return EntityClass
		case rdf.OWLObjectProperty, rdf.OWLDatatypeProperty, rdf.OWLAnnotationProperty, rdf.RDFProperty:
			return EntityProperty
		case rdf.OWLNamedIndividual:
			declared = EntityIndividual
		default:
			if declared == "" {
				declared = EntityIndividual
			}
		}
	}
	if !found {
		return EntityUnknown
	}
	return declared
}

// newCorrelationID mints a request-scoped id for log correlation,
// grounded on the teacher's use of google/uuid for run identifiers.
func newCorrelationID() string {
	return uuid.NewString()
}
