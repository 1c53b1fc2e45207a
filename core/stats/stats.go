// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package stats counts what a build did and can export the counts in the
// Prometheus text format, for node_exporter's textfile collector or for CI.
package stats

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "i18ninline"

// Stats holds the counters of one build. Each Stats has its own registry, so
// several builds in one process do not share counts.
type Stats struct {
	registry *prometheus.Registry

	CallSites      *prometheus.CounterVec
	Files          *prometheus.CounterVec
	CatalogEntries prometheus.Gauge
	Duration       prometheus.Gauge
}

// New returns zeroed counters labelled with runID.
func New(runID string) *Stats {
	labels := prometheus.Labels{"run_id": runID}

	s := &Stats{
		registry: prometheus.NewRegistry(),
		CallSites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "call_sites_total",
			Help:        "Translation call sites seen, by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		Files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "files_total",
			Help:        "Go files processed, by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		CatalogEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "catalog_entries",
			Help:        "Entries across all loaded catalogs.",
			ConstLabels: labels,
		}),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "build_duration_seconds",
			Help:        "Wall time of the build.",
			ConstLabels: labels,
		}),
	}

	s.registry.MustRegister(s.CallSites, s.Files, s.CatalogEntries, s.Duration)

	return s
}

// AddFile records one processed file.
func (s *Stats) AddFile(changed bool, rewritten, invalid int) {
	outcome := "unchanged"
	if changed {
		outcome = "changed"
	}

	s.Files.WithLabelValues(outcome).Inc()
	s.CallSites.WithLabelValues("rewritten").Add(float64(rewritten))
	s.CallSites.WithLabelValues("invalid").Add(float64(invalid))
}

// Registry exposes the collectors, for tests and embedding.
func (s *Stats) Registry() *prometheus.Registry { return s.registry }

// WriteFile writes all counters to path in the text exposition format.
func (s *Stats) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}
