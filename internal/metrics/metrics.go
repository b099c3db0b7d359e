/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package metrics exposes runtime health as Prometheus collectors, built
// directly on github.com/prometheus/client_golang.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry groups every collector this runtime publishes, so a node can
// hold one instance and update it from its own call sites without
// reaching for package-level global metrics.
type Registry struct {
	Peers          prometheus.Gauge
	Objects        prometheus.Gauge
	QueueDepth     *prometheus.GaugeVec
	BarrierRounds  prometheus.Gauge
	SendTokenWait  prometheus.Histogram
	HandshakeTime  prometheus.Histogram
	registry       *prometheus.Registry
}

// New constructs and registers the full collector set.
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		registry: reg,
		Peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "collage",
			Name:      "peers_connected",
			Help:      "Number of peer sessions currently established.",
		}),
		Objects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "collage",
			Name:      "objects_attached",
			Help:      "Number of objects currently attached on this node.",
		}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "collage",
			Name:      "queue_depth",
			Help:      "Pending command count per queue.",
		}, []string{"queue"}),
		BarrierRounds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "collage",
			Name:      "barrier_pending_rounds",
			Help:      "In-flight, incomplete barrier rounds across all masters on this node.",
		}),
		SendTokenWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "collage",
			Name:      "send_token_wait_seconds",
			Help:      "Time spent waiting for a send token before writing to a peer.",
			Buckets:   prometheus.DefBuckets,
		}),
		HandshakeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "collage",
			Name:      "handshake_duration_seconds",
			Help:      "Time from ConnectReq to ConnectAck for a peer session.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(r.Peers, r.Objects, r.QueueDepth, r.BarrierRounds, r.SendTokenWait, r.HandshakeTime)
	return r
}

// Handler returns the HTTP handler to mount a scrape endpoint on.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve starts a blocking HTTP server exposing metrics at /metrics on
// addr; intended to run in its own goroutine from the CLI entrypoint.
func (r *Registry) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return http.ListenAndServe(addr, mux)
}
