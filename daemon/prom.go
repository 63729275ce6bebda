/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const metricPrefix = "softclock_"

// PrometheusExporter exports daemon counters as prometheus gauges
type PrometheusExporter struct {
	registry *prometheus.Registry
	stats    *Stats
}

// NewPrometheusExporter creates a new instance of PrometheusExporter
func NewPrometheusExporter(stats *Stats) *PrometheusExporter {
	return &PrometheusExporter{registry: prometheus.NewRegistry(), stats: stats}
}

// Handler returns http handler which refreshes gauges on every scrape
func (e *PrometheusExporter) Handler() http.Handler {
	h := promhttp.HandlerFor(
		e.registry,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
		},
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.scrapeMetrics()
		h.ServeHTTP(w, r)
	})
}

// Start runs the exporter until ctx is done
func (e *PrometheusExporter) Start(ctx context.Context, listenPort int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	addr := fmt.Sprintf(":%d", listenPort)
	log.Infof("Starting prometheus exporter on %s", addr)
	return serve(ctx, addr, mux)
}

func (e *PrometheusExporter) scrapeMetrics() {
	for mkey, mval := range e.stats.Snapshot() {
		promCollector := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: flattenKey(mkey),
			Help: mkey,
		})
		if err := e.registry.Register(promCollector); err != nil {
			are := prometheus.AlreadyRegisteredError{}
			if errors.As(err, &are) {
				promCollector = are.ExistingCollector.(prometheus.Gauge)
			} else {
				log.Errorf("failed to register metric %s %v", mkey, err)
				continue
			}
		}
		promCollector.Set(float64(mval))
	}
}

func flattenKey(key string) string {
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, ".", "_")
	key = strings.ReplaceAll(key, "-", "_")
	key = strings.ReplaceAll(key, "=", "_")
	key = strings.ReplaceAll(key, "/", "_")
	return metricPrefix + key
}
