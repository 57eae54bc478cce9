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

// Package helpdeskrespondersim implements a simulated helpdesk auto-responder:
// an HTTP service that matches the words of incoming messages against a
// keyword response table and falls back to randomly chosen default responses.
package helpdeskrespondersim

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"

	"github.com/helpdesk-sim/helpdesk-responder-sim/pkg/archive"
	"github.com/helpdesk-sim/helpdesk-responder-sim/pkg/common"
	"github.com/helpdesk-sim/helpdesk-responder-sim/pkg/events"
	"github.com/helpdesk-sim/helpdesk-responder-sim/pkg/responder"
	responderapi "github.com/helpdesk-sim/helpdesk-responder-sim/pkg/responder-api"
)

const (
	replyObject = "helpdesk.reply"

	// flush delay for the reply event sender
	eventFlushDelay = time.Second
)

// Simulator is the helpdesk auto-responder server.
type Simulator struct {
	// logger is used for information and errors logging
	logger logr.Logger
	// config is the simulator's configuration
	config *common.Configuration
	// responder holds the keyword table and the default responses
	responder *responder.Responder
	// randMu guards the responder's random generator on the default path
	randMu sync.Mutex
	// validator is the JSON schema validator for respond requests
	validator *responderapi.Validator
	// archive records served replies when configured, nil otherwise
	archive *archive.Archive
	// eventChan carries served replies to the event sender, nil when
	// events are disabled
	eventChan chan events.ReplyEvent
	// publisher is the ZMQ publisher for reply events
	publisher *events.Publisher
	// nRunningReqs is the number of respond requests that are currently being processed
	nRunningReqs int64
	// nWaitingReqs is the number of respond requests that are waiting to be processed
	nWaitingReqs int64
	// registry is a prometheus registry with the simulator's metrics
	registry *prometheus.Registry
	// runningRequests is prometheus gauge
	runningRequests prometheus.Gauge
	// waitingRequests is prometheus gauge for number of queued requests
	waitingRequests prometheus.Gauge
	// loadedKeywords is prometheus gauge for the number of known keywords
	loadedKeywords prometheus.Gauge
	// loadedDefaults is prometheus gauge for the number of default responses
	loadedDefaults prometheus.Gauge
	// repliesTotal is prometheus counter for served replies, partitioned by
	// whether a keyword matched
	repliesTotal *prometheus.CounterVec
	// channel for requests to be passed to workers
	reqChan chan *responderapi.RespondReqCtx
}

// New creates a new Simulator instance with the given logger
func New(logger logr.Logger) (*Simulator, error) {
	validator, err := responderapi.CreateValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create request validator: %s", err)
	}

	return &Simulator{
		logger:    logger,
		reqChan:   make(chan *responderapi.RespondReqCtx, 1000),
		validator: validator,
	}, nil
}

// Start starts the simulator
func (s *Simulator) Start(ctx context.Context) error {
	// parse command line parameters
	config, err := common.ParseCommandParamsAndLoadConfig()
	if err != nil {
		return err
	}
	s.config = config

	common.InitRandom(s.config.Seed)

	s.initResponder()

	// initialize prometheus metrics
	if err := s.createAndRegisterPrometheus(); err != nil {
		return err
	}

	if s.config.EnableEvents {
		s.publisher, err = events.NewPublisher(s.config.ZMQEndpoint, s.config.ZMQMaxConnectAttempts)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.publisher.Close(); err != nil {
				s.logger.Error(err, "failed to close event publisher")
			}
		}()
		s.eventChan = make(chan events.ReplyEvent, 1000)
		sender := events.NewSender(s.publisher, events.ReplyTopic, s.eventChan,
			s.config.EventBatchSize, eventFlushDelay, s.logger)
		go func() {
			if err := sender.Run(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error(err, "reply event sender stopped")
			}
		}()
	}

	if s.config.ArchivePath != "" {
		s.archive, err = archive.New(s.logger, s.config.ArchivePath, s.config.ArchiveInMemory)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.archive.Close(); err != nil {
				s.logger.Error(err, "failed to close reply archive")
			}
		}()
	}

	// run request processing workers
	for i := 1; i <= s.config.MaxNumWorkers; i++ {
		go s.reqProcessingWorker(ctx, i)
	}

	listener, err := s.newListener()
	if err != nil {
		return err
	}

	// start the http server
	return s.startServer(ctx, listener)
}

// initResponder loads both response files and builds the selector. Load
// problems degrade rather than fail: a missing or malformed responses file
// leaves fewer (or zero) recognized keywords, a missing defaults file leaves
// the single synthetic fallback response.
func (s *Simulator) initResponder() {
	table, err := responder.LoadResponseTable(s.logger, s.config.ResponsesFile)
	if err != nil {
		s.logger.Error(err, "Responses file is malformed, continuing with the records parsed so far",
			"path", s.config.ResponsesFile)
	}
	defaults, err := responder.LoadDefaultResponses(s.logger, s.config.DefaultsFile)
	if err != nil {
		s.logger.Error(err, "Default responses file is malformed, continuing with the records parsed so far",
			"path", s.config.DefaultsFile)
	}

	rnd := rand.New(rand.NewSource(s.config.Seed))
	s.responder = responder.New(table, defaults, rnd)
	s.logger.Info("Responder initialized", "keywords", len(table), "defaults", len(defaults))
}

func (s *Simulator) reqProcessingWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reqProcessingWorker stopped:", "worker id", id)
			return
		case reqCtx, ok := <-s.reqChan:
			if !ok {
				s.logger.Info("reqProcessingWorker worker exiting: reqChan closed")
				return
			}
			atomic.StoreInt64(&(s.nWaitingReqs), int64(len(s.reqChan)))
			s.reportWaitingRequests()

			atomic.AddInt64(&(s.nRunningReqs), 1)
			s.reportRunningRequests()

			req := reqCtx.RespondReq
			words := req.Words
			if len(words) == 0 {
				words = common.WordSet(req.Message)
			}

			reply, keyword, matched := s.responder.Lookup(words)
			if !matched {
				// the default path advances the responder's random
				// generator, workers must not race on it
				s.randMu.Lock()
				reply = s.responder.Respond(words)
				s.randMu.Unlock()
			}

			s.sendResponse(reqCtx.HTTPReqCtx, req, words, reply, keyword, matched)
			reqCtx.Wg.Done()
		}
	}
}

// sendResponse sends the reply for a respond request, after waiting the
// configured simulated agent latency. It also updates metrics and feeds the
// archive and the event sender.
func (s *Simulator) sendResponse(ctx *fasthttp.RequestCtx, req *responderapi.RespondRequest,
	words []string, reply string, keyword string, matched bool) {
	now := time.Now()
	resp := responderapi.RespondResponse{
		ID:      req.RequestID,
		Object:  replyObject,
		Created: now.Unix(),
		Reply:   reply,
		Keyword: keyword,
		Matched: matched,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		ctx.Error("Response body creation failed, "+err.Error(), fasthttp.StatusInternalServerError)
		return
	}

	if latency := s.getReplyLatency(); latency > 0 {
		time.Sleep(time.Duration(latency) * time.Millisecond)
	}

	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.SetStatusCode(fasthttp.StatusOK)
	ctx.Response.SetBody(data)

	s.responseSentCallback(matched)

	if s.archive != nil {
		entry := archive.Entry{
			RequestID: req.RequestID,
			Words:     words,
			Keyword:   keyword,
			Matched:   matched,
			Reply:     reply,
			CreatedAt: now.UnixMilli(),
		}
		if err := s.archive.Record(context.Background(), entry); err != nil {
			s.logger.Error(err, "failed to record reply in archive")
		}
	}

	if s.eventChan != nil {
		event := events.ReplyEvent{
			RequestID: req.RequestID,
			Words:     words,
			Keyword:   keyword,
			Matched:   matched,
			Reply:     reply,
			Timestamp: now.UnixMilli(),
		}
		select {
		case s.eventChan <- event:
		default:
			s.logger.Info("Reply event dropped, event channel is full", "request id", req.RequestID)
		}
	}
}

// responseSentCallback updates the request counters after a reply was sent
func (s *Simulator) responseSentCallback(matched bool) {
	atomic.AddInt64(&(s.nRunningReqs), -1)
	s.reportRunningRequests()
	s.countReply(matched)
}

// getReplyLatency returns the simulated agent latency in milliseconds
func (s *Simulator) getReplyLatency() int {
	return common.RandomNorm(s.config.ReplyLatency, s.config.ReplyLatencyStdDev)
}
