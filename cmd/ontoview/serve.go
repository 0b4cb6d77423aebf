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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ontohub/ontoview/pkg/hub"
	"github.com/ontohub/ontoview/pkg/resolve"
)

type serveServer struct {
	svc    *hub.Service
	logger *slog.Logger
}

// runServe starts the HTTP server exposing /resolve (the core content
// negotiation surface), /metrics, /healthz, and placeholder /sets/...
// routes so /resolve's Location headers are dereferenceable end-to-end
// in this repository even though the docs UI and TTL exporter live
// outside the hub's core.
func runServe(args []string, globals GlobalFlags) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.StringP("port", "p", "8080", "HTTP listen port")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger(globals)

	svc, cfg, err := buildService(globals.ConfigPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer svc.Shutdown()
	autoLoad(svc, cfg, logger)

	reg := prometheus.NewRegistry()
	recorder := hub.NewPrometheusRecorder(reg)
	svc.AttachMetrics(recorder)
	go syncMetricsPeriodically(svc)

	srv := &serveServer{svc: svc, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", srv.handleResolve)
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/sets/", srv.handleSetsPlaceholder)

	httpServer := &http.Server{
		Addr:              ":" + *port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("serve.shutdown.signal")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()

	logger.Info("serve.listening", "port", *port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// handleResolve implements spec §4.9's content-negotiating resolve().
func (s *serveServer) handleResolve(w http.ResponseWriter, r *http.Request) {
	iri := r.URL.Query().Get("iri")
	resp := resolve.Resolve(s.svc, iri, r.Header.Get("Accept"))

	switch resp.Kind {
	case resolve.KindJSON:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp.Body)
	case resolve.KindRedirectExport:
		w.Header().Set("Content-Type", "text/turtle; charset=utf-8")
		w.Header().Set("Location", resp.Location)
		w.WriteHeader(http.StatusSeeOther)
	case resolve.KindRedirectDocs:
		w.Header().Set("Location", resp.Location)
		w.WriteHeader(http.StatusSeeOther)
	case resolve.KindFlash:
		w.Header().Set("Location", "/sets?flash="+resp.Flash)
		w.WriteHeader(http.StatusFound)
	}
}

func (s *serveServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleSetsPlaceholder stubs /sets/{sid}/{ver}/docs and
// /sets/{sid}/{ver}/export.ttl so the Location headers above are
// dereferenceable; the real docs UI and TTL exporter are outside the
// core per spec §6.
func (s *serveServer) handleSetsPlaceholder(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
	_, _ = fmt.Fprintf(w, "%s is served outside the ontology hub core\n", r.URL.Path)
}

func syncMetricsPeriodically(svc *hub.Service) {
	var prev hub.StatsView
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		prev = svc.SyncMetrics(prev)
	}
}
