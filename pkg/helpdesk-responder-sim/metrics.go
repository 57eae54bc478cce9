/*
Copyright 2025 The helpdesk-responder-sim Authors.

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

// Contains functions related to prometheus metrics

package helpdeskrespondersim

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// createAndRegisterPrometheus creates and registers prometheus metrics used by the
// helpdesk responder simulator
// Metrics reported:
// - responder:keywords_total
// - responder:default_responses_total
// - responder:num_requests_running
// - responder:num_requests_waiting
// - responder:replies_total
func (s *Simulator) createAndRegisterPrometheus() error {
	s.registry = prometheus.NewRegistry()

	s.loadedKeywords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: "",
			Name:      "responder:keywords_total",
			Help:      "Number of keywords loaded into the response table.",
		},
	)

	if err := s.registry.Register(s.loadedKeywords); err != nil {
		s.logger.Error(err, "Prometheus keywords gauge register failed")
		return err
	}

	s.loadedDefaults = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: "",
			Name:      "responder:default_responses_total",
			Help:      "Number of loaded default responses, including the synthetic fallback.",
		},
	)

	if err := s.registry.Register(s.loadedDefaults); err != nil {
		s.logger.Error(err, "Prometheus default responses gauge register failed")
		return err
	}

	s.runningRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: "",
			Name:      "responder:num_requests_running",
			Help:      "Number of respond requests currently being processed.",
		},
	)

	if err := s.registry.Register(s.runningRequests); err != nil {
		s.logger.Error(err, "Prometheus number of running requests gauge register failed")
		return err
	}

	s.waitingRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: "",
			Name:      "responder:num_requests_waiting",
			Help:      "Prometheus metric for the number of queued requests.",
		},
	)

	if err := s.registry.Register(s.waitingRequests); err != nil {
		s.logger.Error(err, "Prometheus number of requests in queue gauge register failed")
		return err
	}

	s.repliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: "",
			Name:      "responder:replies_total",
			Help:      "Number of replies served, partitioned by whether a keyword matched.",
		},
		[]string{"matched"},
	)

	if err := s.registry.Register(s.repliesTotal); err != nil {
		s.logger.Error(err, "Prometheus replies counter register failed")
		return err
	}

	s.setInitialPrometheusMetrics()

	return nil
}

// setInitialPrometheusMetrics send default values to prometheus
func (s *Simulator) setInitialPrometheusMetrics() {
	s.loadedKeywords.Set(float64(len(s.responder.Keywords())))
	s.loadedDefaults.Set(float64(s.responder.DefaultCount()))

	s.nRunningReqs = 0
	s.runningRequests.Set(float64(s.nRunningReqs))
	s.waitingRequests.Set(float64(0))

	// pre-create both label values so scrapes see zeros before any traffic
	s.repliesTotal.WithLabelValues("true").Add(0)
	s.repliesTotal.WithLabelValues("false").Add(0)
}

// reportRunningRequests sets information about running respond requests
func (s *Simulator) reportRunningRequests() {
	if s.runningRequests != nil {
		nRunningReqs := atomic.LoadInt64(&(s.nRunningReqs))
		s.runningRequests.Set(float64(nRunningReqs))
	}
}

// reportWaitingRequests sets information about waiting respond requests
func (s *Simulator) reportWaitingRequests() {
	if s.waitingRequests != nil {
		nWaitingReqs := atomic.LoadInt64(&(s.nWaitingReqs))
		s.waitingRequests.Set(float64(nWaitingReqs))
	}
}

// countReply increments the served replies counter
func (s *Simulator) countReply(matched bool) {
	if s.repliesTotal != nil {
		s.repliesTotal.WithLabelValues(strconv.FormatBool(matched)).Inc()
	}
}
