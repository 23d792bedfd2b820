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

// Package server wires a config.Config into a running scheduler.Scheduler,
// and owns the optional metrics/health listener alongside it.
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nabbar/staticd/config"
	"github.com/nabbar/staticd/duration"
	"github.com/nabbar/staticd/logger"
	"github.com/nabbar/staticd/metrics"
	"github.com/nabbar/staticd/scheduler"
)

// Server is the top-level process object: it owns a scheduler and, if
// configured, a metrics/health HTTP listener.
type Server struct {
	cfg   config.Config
	log   *logger.Logger
	sched *scheduler.Scheduler
	mcol  *metrics.Collector
	mhttp *http.Server
}

// New validates cfg and builds every collaborator, binding the listen
// socket but not yet accepting connections.
func New(cfg config.Config, log *logger.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout, err := duration.Parse(cfg.SessionTimeout)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	mcol := metrics.New(reg)

	sched, err := scheduler.New(scheduler.Config{
		BindAddr:       cfg.BindAddr,
		BindPort:       cfg.BindPort,
		DocRoot:        cfg.DocRoot,
		Workers:        cfg.Workers,
		SessionTimeout: timeout.Time(),
		Metrics:        mcol,
		Log:            log,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, log: log, sched: sched, mcol: mcol}

	if cfg.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		mux.HandleFunc("/healthz", s.handleHealth)
		s.mhttp = &http.Server{Addr: cfg.MetricsListen, Handler: mux}
	}

	return s, nil
}

// Run blocks until ctx is canceled, running the scheduler and (if
// configured) the metrics listener concurrently, and returns the first
// error either reports.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		errCh <- s.sched.Run(ctx)
	}()

	if s.mhttp != nil {
		go func() {
			err := s.mhttp.ListenAndServe()
			if err == http.ErrServerClosed {
				err = nil
			}
			errCh <- err
		}()

		go func() {
			<-ctx.Done()
			_ = s.mhttp.Close()
		}()
	}

	var first error
	n := 1
	if s.mhttp != nil {
		n = 2
	}
	for i := 0; i < n; i++ {
		if err := <-errCh; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Shutdown stops the scheduler without waiting for ctx cancellation.
func (s *Server) Shutdown() {
	s.sched.Shutdown()
}
