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

// Package responder implements a keyword driven response generator: a table
// of keyword to canned response mappings, an ordered list of default
// responses, and a selector that matches a set of input words against the
// table with a random fallback to the defaults.
package responder

import (
	"strings"
)

// BuildResponseTable converts the lines of a keyword response file into a
// keyword to response text mapping. A record is a header line of comma
// separated keywords followed by one or more lines of response text, records
// are separated by at most one blank line. Every keyword of the header maps
// to the record's response text, a keyword appearing in a later record
// overwrites its earlier mapping. A record whose body is empty produces no
// mappings.
//
// More than one consecutive blank line aborts the parse with a
// *MalformedInputError, the mappings built up to that point are returned.
func BuildResponseTable(lines []string) (map[string]string, error) {
	table := make(map[string]string)
	var keys []string
	var response strings.Builder
	blankLines := 0

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			blankLines++
			if blankLines > 1 {
				return table, &MalformedInputError{Line: i + 1}
			}
			if keys != nil && response.Len() > 0 {
				insertRecord(table, keys, response.String())
				keys = nil
				response.Reset()
			}
			continue
		}

		blankLines = 0
		if keys == nil {
			// the first non blank line of a record is its header,
			// it is never part of the response text
			keys = splitKeys(line)
		} else {
			if response.Len() > 0 {
				response.WriteByte('\n')
			}
			response.WriteString(line)
		}
	}

	// a trailing record does not need to be terminated by a blank line
	if keys != nil && response.Len() > 0 {
		insertRecord(table, keys, response.String())
	}

	return table, nil
}

func insertRecord(table map[string]string, keys []string, response string) {
	text := strings.TrimSpace(response)
	for _, key := range keys {
		table[key] = text
	}
}

// splitKeys parses a record header line: comma separated keywords with the
// whitespace around each keyword removed. Empty keywords are kept as written
// and are not deduplicated.
func splitKeys(line string) []string {
	keys := strings.Split(line, ",")
	for i, key := range keys {
		keys[i] = strings.TrimSpace(key)
	}
	return keys
}
