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
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder mirrors the hub's internal Metrics counters onto
// Prometheus gauges/counters so an operator can scrape them from
// /metrics without polling Stats().
type PrometheusRecorder struct {
	CacheHit      prometheus.Counter
	CacheMiss     prometheus.Counter
	LoadCount     prometheus.Counter
	EvictionCount prometheus.Counter
	LoadedSets    prometheus.Gauge
}

// NewPrometheusRecorder registers the hub's metrics on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		CacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontoview",
			Subsystem: "hub",
			Name:      "cache_hits_total",
			Help:      "Number of get() calls served from the hub cache.",
		}),
		CacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontoview",
			Subsystem: "hub",
			Name:      "cache_misses_total",
			Help:      "Number of get() calls that ran the load pipeline.",
		}),
		LoadCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontoview",
			Subsystem: "hub",
			Name:      "loads_total",
			Help:      "Number of successful ontology set loads.",
		}),
		EvictionCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ontoview",
			Subsystem: "hub",
			Name:      "evictions_total",
			Help:      "Number of cache evictions.",
		}),
		LoadedSets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ontoview",
			Subsystem: "hub",
			Name:      "loaded_sets",
			Help:      "Current number of materialized ontology sets in cache.",
		}),
	}
	reg.MustRegister(r.CacheHit, r.CacheMiss, r.LoadCount, r.EvictionCount, r.LoadedSets)
	return r
}

// Sync pushes a StatsView snapshot onto the registered series. Counters
// only move forward, so Sync adds the delta since the last observed
// cumulative value rather than re-setting them.
func (r *PrometheusRecorder) Sync(prev, cur StatsView) {
	if r == nil {
		return
	}
	r.CacheHit.Add(float64(cur.CacheHit - prev.CacheHit))
	r.CacheMiss.Add(float64(cur.CacheMiss - prev.CacheMiss))
	r.LoadCount.Add(float64(cur.LoadCount - prev.LoadCount))
	r.EvictionCount.Add(float64(cur.EvictionCount - prev.EvictionCount))
	r.LoadedSets.Set(float64(cur.LoadedCount))
}

// AttachMetrics wires a PrometheusRecorder to the service so subsequent
// state transitions are reflected on the registry. The caller is
// responsible for periodically calling SyncMetrics (e.g. from the HTTP
// /metrics handler or a ticker), since the actor loop itself must stay
// free of the registry lock.
func (s *Service) AttachMetrics(r *PrometheusRecorder) {
	submit(s, func() struct{} {
		s.metricsRecorder = r
		return struct{}{}
	})
}

// SyncMetrics snapshots current stats onto the attached recorder, if any.
func (s *Service) SyncMetrics(prev StatsView) StatsView {
	cur, recorder := submit(s, func() statsAndRecorder {
		m := s.state.Metrics
		return statsAndRecorder{
			stats: StatsView{
				LoadedCount:   len(s.state.LoadedSets),
				CacheHit:      m.CacheHit,
				CacheMiss:     m.CacheMiss,
				LoadCount:     m.LoadCount,
				EvictionCount: m.EvictionCount,
				CacheHitRate:  m.HitRate(),
				UptimeSeconds: s.nowFn().Sub(m.StartedAt).Seconds(),
			},
			recorder: s.metricsRecorder,
		}
	}).unpack2()
	if recorder != nil {
		recorder.Sync(prev, cur)
	}
	return cur
}

type statsAndRecorder struct {
	stats    StatsView
	recorder *PrometheusRecorder
}

func (sr statsAndRecorder) unpack2() (StatsView, *PrometheusRecorder) { return sr.stats, sr.recorder }
