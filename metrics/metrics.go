/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package metrics exposes staticd's Prometheus collectors: session
// lifecycle counters, idle/active gauges, and a response-size histogram.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements scheduler.Metrics and registers itself on a
// prometheus.Registerer.
type Collector struct {
	accepted        prometheus.Counter
	timedOut        prometheus.Counter
	errored         prometheus.Counter
	idleGauge       prometheus.Gauge
	activeGauge     prometheus.Gauge
	responseBytes   prometheus.Histogram
}

// New creates a Collector and registers its metrics on reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "staticd",
			Subsystem: "sessions",
			Name:      "accepted_total",
			Help:      "Total TCP connections accepted by the listener.",
		}),
		timedOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "staticd",
			Subsystem: "sessions",
			Name:      "idle_timeout_total",
			Help:      "Total sessions dropped for exceeding the idle timeout.",
		}),
		errored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "staticd",
			Subsystem: "sessions",
			Name:      "errored_total",
			Help:      "Total sessions terminated by an unrecovered error.",
		}),
		idleGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "staticd",
			Subsystem: "sessions",
			Name:      "idle",
			Help:      "Sessions currently waiting on socket readiness.",
		}),
		activeGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "staticd",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Sessions currently runnable in the active queue.",
		}),
		responseBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "staticd",
			Subsystem: "http",
			Name:      "response_bytes",
			Help:      "Size in bytes of response bodies served.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		}),
	}

	reg.MustRegister(c.accepted, c.timedOut, c.errored, c.idleGauge, c.activeGauge, c.responseBytes)

	return c
}

func (c *Collector) SessionAccepted()             { c.accepted.Inc() }
func (c *Collector) SessionTimedOut()             { c.timedOut.Inc() }
func (c *Collector) SessionErrored()               { c.errored.Inc() }
func (c *Collector) IdleGaugeSet(n int)            { c.idleGauge.Set(float64(n)) }
func (c *Collector) ActiveGaugeSet(n int)          { c.activeGauge.Set(float64(n)) }
func (c *Collector) ResponseBytesObserve(n float64) { c.responseBytes.Observe(n) }
