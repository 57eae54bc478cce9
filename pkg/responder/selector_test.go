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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Selector", func() {
	table := map[string]string{
		"hello":  "Hi there!",
		"bye":    "See you!",
		"thanks": "You're welcome!",
	}
	defaults := []string{"Tell me more.", "Go on.", "I see."}

	newSeeded := func(seed int64) *Responder {
		return New(table, defaults, rand.New(rand.NewSource(seed)))
	}

	It("should return the mapped response for a recognized word", func() {
		r := newSeeded(1)
		Expect(r.Respond([]string{"hello"})).To(Equal("Hi there!"))
		Expect(r.Respond([]string{"thanks"})).To(Equal("You're welcome!"))
		Expect(r.Respond([]string{"bye"})).To(Equal("See you!"))
	})

	It("should ignore unrecognized words before a match", func() {
		r := newSeeded(1)
		Expect(r.Respond([]string{"xyz", "qwerty", "thanks"})).To(Equal("You're welcome!"))
	})

	It("should return the same response on repeated calls with the same word", func() {
		r := newSeeded(1)
		for i := 0; i < 10; i++ {
			Expect(r.Respond([]string{"hello"})).To(Equal("Hi there!"))
		}
	})

	It("should fall back to a member of the default list on a total miss", func() {
		r := newSeeded(7)
		for i := 0; i < 20; i++ {
			Expect(defaults).To(ContainElement(r.Respond([]string{"xyz"})))
		}
	})

	It("should be deterministic with a single default response", func() {
		r := New(nil, []string{"Tell me more."}, rand.New(rand.NewSource(3)))
		for i := 0; i < 5; i++ {
			Expect(r.Respond([]string{"anything"})).To(Equal("Tell me more."))
		}
	})

	It("should produce the same fallback sequence for the same seed", func() {
		first := newSeeded(100)
		second := newSeeded(100)
		for i := 0; i < 25; i++ {
			Expect(first.Respond([]string{"miss"})).To(Equal(second.Respond([]string{"miss"})))
		}
	})

	It("should cover more than one default across enough draws", func() {
		r := newSeeded(42)
		seen := map[string]struct{}{}
		for i := 0; i < 50; i++ {
			seen[r.Respond([]string{"miss"})] = struct{}{}
		}
		Expect(len(seen)).To(BeNumerically(">", 1))
	})

	It("should respond with the synthetic fallback when nothing was loaded", func() {
		r := New(nil, nil, rand.New(rand.NewSource(1)))
		Expect(r.Respond([]string{"xyz"})).To(Equal(FallbackResponse))
		Expect(r.DefaultCount()).To(Equal(1))
	})

	It("should report the matched keyword on lookup", func() {
		r := newSeeded(1)
		response, keyword, ok := r.Lookup([]string{"nope", "bye"})
		Expect(ok).To(BeTrue())
		Expect(keyword).To(Equal("bye"))
		Expect(response).To(Equal("See you!"))

		_, _, ok = r.Lookup([]string{"nope"})
		Expect(ok).To(BeFalse())
	})

	It("should match keywords case-sensitively", func() {
		r := newSeeded(1)
		_, _, ok := r.Lookup([]string{"Hello"})
		Expect(ok).To(BeFalse())
	})

	It("should list keywords in sorted order", func() {
		r := newSeeded(1)
		Expect(r.Keywords()).To(Equal([]string{"bye", "hello", "thanks"}))
	})
})
