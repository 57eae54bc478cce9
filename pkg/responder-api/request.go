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

// Package responderapi defines the request and response types of the
// helpdesk responder HTTP API.
package responderapi

import (
	"sync"

	"github.com/valyala/fasthttp"
)

// RespondRequest is the body of a POST /v1/respond request. The caller
// supplies either free text in Message or an explicit word set in Words.
// When both are present, Words wins and Message is ignored.
type RespondRequest struct {
	// RequestID is an identifier assigned by the server, not part of the body
	RequestID string `json:"-"`
	// Message is free user input to extract the word set from
	Message string `json:"message,omitempty"`
	// Words is an explicit input word set, checked as written
	Words []string `json:"words,omitempty"`
}

// RespondResponse is the body of a successful POST /v1/respond response.
type RespondResponse struct {
	// ID is the UUID of the request the reply was generated for
	ID string `json:"id"`
	// Object is always "helpdesk.reply"
	Object string `json:"object"`
	// Created is the Unix timestamp of the reply
	Created int64 `json:"created"`
	// Reply is the generated response text
	Reply string `json:"reply"`
	// Keyword is the keyword that selected the reply, empty for defaults
	Keyword string `json:"keyword,omitempty"`
	// Matched is false when the reply is a randomly chosen default response
	Matched bool `json:"matched"`
}

// TokenizeRequest is a request to the /tokenize endpoint.
type TokenizeRequest struct {
	// Text is the free text to extract the word set from
	Text string `json:"text"`
}

// TokenizeResponse is a response for a tokenize request.
type TokenizeResponse struct {
	// Count is the number of distinct words
	Count int `json:"count"`
	// Words is the extracted word set, in first-seen order
	Words []string `json:"words"`
}

// KeywordsResponse is the body of a GET /v1/keywords response.
type KeywordsResponse struct {
	// Object is always "list"
	Object string `json:"object"`
	// Count is the number of known keywords
	Count int `json:"count"`
	// Keywords are the known keywords in sorted order
	Keywords []string `json:"keywords"`
}

// ErrorResponse is the error body of all API endpoints.
type ErrorResponse struct {
	Object  string  `json:"object"`
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param"`
	Code    int     `json:"code"`
}

// NewErrorResponse creates an ErrorResponse with the given message, HTTP
// status code, and optional offending parameter.
func NewErrorResponse(message string, code int, param *string) ErrorResponse {
	return ErrorResponse{
		Object:  "error",
		Message: message,
		Type:    errorType(code),
		Param:   param,
		Code:    code,
	}
}

func errorType(code int) string {
	switch code {
	case fasthttp.StatusBadRequest:
		return "BadRequestError"
	case fasthttp.StatusNotFound:
		return "NotFoundError"
	case fasthttp.StatusTooManyRequests:
		return "RateLimitError"
	default:
		return "InternalServerError"
	}
}

// RespondReqCtx carries a respond request through the simulator's worker
// flow, together with the HTTP context the reply must be written to.
type RespondReqCtx struct {
	RespondReq *RespondRequest
	HTTPReqCtx *fasthttp.RequestCtx
	Wg         *sync.WaitGroup
}
