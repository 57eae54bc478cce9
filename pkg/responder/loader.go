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
	"os"
	"strings"

	"github.com/go-logr/logr"
)

// LoadResponseTable builds the keyword table from the file at path. A missing
// or unreadable file is logged and degrades to an empty table, the selector
// then recognizes no keywords and always falls back to the defaults. A
// malformed file is returned together with whatever was parsed before the
// offending line, the caller decides whether the partial table is acceptable.
func LoadResponseTable(logger logr.Logger, path string) (map[string]string, error) {
	lines, err := readLines(path)
	if err != nil {
		logger.Error(err, "Unable to open responses file", "path", path)
		return map[string]string{}, nil
	}
	return BuildResponseTable(lines)
}

// LoadDefaultResponses builds the default response list from the file at
// path. A missing or unreadable file is logged and treated as zero records.
// The returned list is never empty: when the file yields no complete records
// it is seeded with FallbackResponse. This invariant must hold before the
// list is handed to a Responder.
func LoadDefaultResponses(logger logr.Logger, path string) ([]string, error) {
	var responses []string
	var parseErr error

	lines, err := readLines(path)
	if err != nil {
		logger.Error(err, "Unable to open default responses file", "path", path)
	} else {
		responses, parseErr = BuildDefaultResponses(lines)
	}

	if len(responses) == 0 {
		responses = append(responses, FallbackResponse)
	}
	return responses, parseErr
}

// readLines reads a plain text response file into its lines. Trailing
// carriage returns are stripped so files with CRLF line endings parse the
// same as LF ones.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	// a trailing newline terminates the last line, it does not open a new one
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}
