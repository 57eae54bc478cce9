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

package responder

import (
	"strings"
)

// FallbackResponse is the synthetic default response used when no default
// responses could be loaded, it guarantees that the default response list is
// never empty.
const FallbackResponse = "Could you elaborate on that?"

// BuildDefaultResponses converts the lines of a default response file into an
// ordered list of response texts. The file has no headers, every run of non
// blank lines between blank line boundaries is one response, lines are joined
// with a newline and the result is trimmed.
//
// The record separation rule is the same as for the keyword response file:
// more than one consecutive blank line aborts the parse with a
// *MalformedInputError and the responses built so far are returned.
func BuildDefaultResponses(lines []string) ([]string, error) {
	var responses []string
	var response strings.Builder
	blankLines := 0

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankLines++
			if blankLines > 1 {
				return responses, &MalformedInputError{Line: i + 1}
			}
			if response.Len() > 0 {
				responses = append(responses, strings.TrimSpace(response.String()))
				response.Reset()
			}
			continue
		}

		blankLines = 0
		if response.Len() > 0 {
			response.WriteByte('\n')
		}
		response.WriteString(line)
	}

	if response.Len() > 0 {
		responses = append(responses, strings.TrimSpace(response.String()))
	}

	return responses, nil
}
