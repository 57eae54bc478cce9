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
	"github.com/helpdesk-sim/helpdesk-responder-sim/pkg/common"
	responderapi "github.com/helpdesk-sim/helpdesk-responder-sim/pkg/responder-api"
)

var predefinedFailures = map[string]responderapi.ErrorResponse{
	common.FailureTypeRateLimit: responderapi.NewErrorResponse(
		"Rate limit reached on requests per min (RPM): Limit 3, Used 3, Requested 1.", 429, nil),
	common.FailureTypeServerError: responderapi.NewErrorResponse(
		"The server is overloaded or not ready yet.", 503, nil),
	common.FailureTypeInvalidRequest: responderapi.NewErrorResponse(
		"Invalid request: missing required parameter 'message'.", 400, stringPtr("message")),
}

// shouldInjectFailure determines whether to inject a failure based on configuration
func shouldInjectFailure(config *common.Configuration) bool {
	if config.FailureInjectionRate == 0 {
		return false
	}

	return common.RandomInt(1, 100) <= config.FailureInjectionRate
}

// getRandomFailure returns a random failure from configured types or all types if none specified
func getRandomFailure(config *common.Configuration) responderapi.ErrorResponse {
	var availableFailures []string
	if len(config.FailureTypes) == 0 {
		// Use all failure types if none specified
		for failureType := range predefinedFailures {
			availableFailures = append(availableFailures, failureType)
		}
	} else {
		availableFailures = config.FailureTypes
	}

	if len(availableFailures) == 0 {
		// Fallback to server_error if no valid types
		return predefinedFailures[common.FailureTypeServerError]
	}

	randomIndex := common.RandomInt(0, len(availableFailures)-1)
	randomType := availableFailures[randomIndex]

	return predefinedFailures[randomType]
}

func stringPtr(s string) *string {
	return &s
}
