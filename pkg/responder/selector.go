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
	"math/rand"
	"sort"
	"time"
)

// Responder selects a canned response for a set of input words. It holds an
// immutable keyword table and default response list, both built once at
// construction, plus the random generator used for the fallback path. The
// generator is the only mutable state: concurrent Respond calls require
// external synchronization or a dedicated Responder per goroutine.
type Responder struct {
	responses map[string]string
	defaults  []string
	rnd       *rand.Rand
}

// New creates a Responder over the given keyword table and default response
// list. A nil table is treated as empty. The default list is expected to be
// non-empty (see LoadDefaultResponses), an empty one is seeded with
// FallbackResponse so that Respond can never fail. rnd is the generator used
// to pick default responses, pass a seeded generator for reproducible runs,
// nil falls back to a time-seeded one.
func New(responses map[string]string, defaults []string, rnd *rand.Rand) *Responder {
	if responses == nil {
		responses = map[string]string{}
	}
	if len(defaults) == 0 {
		defaults = []string{FallbackResponse}
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Responder{
		responses: responses,
		defaults:  defaults,
		rnd:       rnd,
	}
}

// Respond generates a response for a set of input words. The words are
// checked in slice order and the first one with a keyword mapping wins,
// duplicates and ordering beyond the first match are irrelevant. When none of
// the words is recognized, a uniformly random member of the default response
// list is returned. Respond always returns a non-empty result.
func (r *Responder) Respond(words []string) string {
	if response, _, ok := r.Lookup(words); ok {
		return response
	}
	return r.defaults[r.rnd.Intn(len(r.defaults))]
}

// Lookup returns the response mapped to the first word recognized as a
// keyword, together with the keyword itself. ok is false when no word
// matches, Lookup never touches the random generator.
func (r *Responder) Lookup(words []string) (response string, keyword string, ok bool) {
	for _, word := range words {
		if response, found := r.responses[word]; found {
			return response, word, true
		}
	}
	return "", "", false
}

// Keywords returns the known keywords in sorted order.
func (r *Responder) Keywords() []string {
	keywords := make([]string, 0, len(r.responses))
	for keyword := range r.responses {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords
}

// DefaultCount returns the number of default responses, at least 1.
func (r *Responder) DefaultCount() int {
	return len(r.defaults)
}
