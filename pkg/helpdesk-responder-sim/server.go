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

package helpdeskrespondersim

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/buaazp/fasthttprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/helpdesk-sim/helpdesk-responder-sim/pkg/common"
	responderapi "github.com/helpdesk-sim/helpdesk-responder-sim/pkg/responder-api"
)

func (s *Simulator) newListener() (net.Listener, error) {
	listener, err := net.Listen("tcp4", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return nil, err
	}
	return listener, nil
}

// startServer starts http/https server on port defined in command line
func (s *Simulator) startServer(ctx context.Context, listener net.Listener) error {
	r := fasthttprouter.New()

	// respond API
	r.POST("/v1/respond", s.HandleRespond)
	// supports listing of the known keywords
	r.GET("/v1/keywords", s.HandleKeywords)
	// word set extraction
	r.POST("/tokenize", s.HandleTokenize)
	// supports /metrics prometheus API
	r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	// supports standard Kubernetes health and readiness checks
	r.GET("/health", s.HandleHealth)
	r.GET("/ready", s.HandleReady)

	server := &fasthttp.Server{
		ErrorHandler: s.HandleError,
		Handler:      r.Handler,
		Logger:       s,
	}

	if err := s.configureSSL(server); err != nil {
		return err
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		if s.config.SSLEnabled() {
			s.logger.Info("Server starting", "protocol", "HTTPS", "port", s.config.Port)
			serverErr <- server.ServeTLS(listener, "", "")
		} else {
			s.logger.Info("Server starting", "protocol", "HTTP", "port", s.config.Port)
			serverErr <- server.Serve(listener)
		}
	}()

	// Wait for either context cancellation or server error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received, shutting down server gracefully")

		// Gracefully shutdown the server
		if err := server.Shutdown(); err != nil {
			s.logger.Error(err, "Error during server shutdown")
			return err
		}

		s.logger.Info("Server stopped")
		return nil

	case err := <-serverErr:
		if err != nil {
			s.logger.Error(err, "Server failed")
		}
		return err
	}
}

// Print prints to a log, implementation of fasthttp.Logger
func (s *Simulator) Printf(format string, args ...interface{}) {
	s.logger.Info("Server error", "msg", fmt.Sprintf(format, args...))
}

// readRequest validates and parses the body of a respond request
func (s *Simulator) readRequest(ctx *fasthttp.RequestCtx) (*responderapi.RespondRequest, error) {
	if err := s.validator.ValidateRequest(ctx.Request.Body()); err != nil {
		s.logger.Error(err, "request validation failed")
		return nil, err
	}

	var req responderapi.RespondRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		s.logger.Error(err, "failed to unmarshal request body")
		return nil, err
	}
	req.RequestID = common.GenerateUUIDString()

	return &req, nil
}

// HandleRespond http handler for /v1/respond
func (s *Simulator) HandleRespond(ctx *fasthttp.RequestCtx) {
	s.logger.Info("respond request received")

	req, err := s.readRequest(ctx)
	if err != nil {
		s.sendError(ctx, responderapi.NewErrorResponse(err.Error(), fasthttp.StatusBadRequest, nil), false)
		return
	}

	if shouldInjectFailure(s.config) {
		s.sendError(ctx, getRandomFailure(s.config), true)
		return
	}

	var wg sync.WaitGroup
	wg.Add(1)
	s.reqChan <- &responderapi.RespondReqCtx{
		RespondReq: req,
		HTTPReqCtx: ctx,
		Wg:         &wg,
	}
	atomic.StoreInt64(&(s.nWaitingReqs), int64(len(s.reqChan)))
	s.reportWaitingRequests()
	wg.Wait()
}

// HandleTokenize http handler for /tokenize
func (s *Simulator) HandleTokenize(ctx *fasthttp.RequestCtx) {
	s.logger.Info("tokenize request received")

	var req responderapi.TokenizeRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		s.logger.Error(err, "failed to unmarshal tokenize request body")
		ctx.Error("Failed to read and parse tokenize request body, "+err.Error(), fasthttp.StatusBadRequest)
		return
	}

	words := common.WordSet(req.Text)
	resp := responderapi.TokenizeResponse{
		Count: len(words),
		Words: words,
	}
	data, err := json.Marshal(resp)
	if err != nil {
		ctx.Error("Response body creation failed, "+err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.SetStatusCode(fasthttp.StatusOK)
	ctx.Response.SetBody(data)
}

// HandleKeywords handles /v1/keywords requests according to the loaded response table
func (s *Simulator) HandleKeywords(ctx *fasthttp.RequestCtx) {
	keywords := s.responder.Keywords()
	resp := responderapi.KeywordsResponse{
		Object:   "list",
		Count:    len(keywords),
		Keywords: keywords,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error(err, "Failed to marshal keywords response")
		ctx.Error("Failed to marshal keywords response, "+err.Error(), fasthttp.StatusInternalServerError)
		return
	}

	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.SetStatusCode(fasthttp.StatusOK)
	ctx.Response.SetBody(data)
}

// sendError sends an error response for the current respond request.
// isInjected indicates if this is an injected failure for logging purposes
func (s *Simulator) sendError(ctx *fasthttp.RequestCtx, errResp responderapi.ErrorResponse, isInjected bool) {
	if isInjected {
		s.logger.Info("Injecting failure", "type", errResp.Type, "message", errResp.Message)
	} else {
		s.logger.Error(nil, errResp.Message)
	}

	data, err := json.Marshal(errResp)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
	} else {
		ctx.SetContentType("application/json")
		ctx.SetStatusCode(errResp.Code)
		ctx.SetBody(data)
	}
}

func (s *Simulator) HandleError(_ *fasthttp.RequestCtx, err error) {
	s.logger.Error(err, "Helpdesk responder server error")
}

// HandleHealth http handler for /health
func (s *Simulator) HandleHealth(ctx *fasthttp.RequestCtx) {
	s.logger.V(4).Info("health request received")
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.SetStatusCode(fasthttp.StatusOK)
	ctx.Response.SetBody([]byte("{}"))
}

// HandleReady http handler for /ready
func (s *Simulator) HandleReady(ctx *fasthttp.RequestCtx) {
	s.logger.V(4).Info("readiness request received")
	ctx.Response.Header.SetContentType("application/json")
	ctx.Response.Header.SetStatusCode(fasthttp.StatusOK)
	ctx.Response.SetBody([]byte("{}"))
}
