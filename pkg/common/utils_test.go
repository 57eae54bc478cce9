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

package common

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Utils", Ordered, func() {
	BeforeAll(func() {
		InitRandom(time.Now().UnixNano())
	})

	Context("WordSet", func() {
		It("should lowercase and deduplicate words", func() {
			words := WordSet("It crashed, it CRASHED again!")
			Expect(words).To(Equal([]string{"it", "crashed", "again"}))
		})

		It("should split on anything that is not a letter or an apostrophe", func() {
			words := WordSet("my-PC won't boot... error#42")
			Expect(words).To(Equal([]string{"my", "pc", "won't", "boot", "error"}))
		})

		It("should return an empty set for text without words", func() {
			Expect(WordSet("42 + 17 = 59")).To(BeEmpty())
			Expect(WordSet("")).To(BeEmpty())
		})
	})

	Context("RandomInt", func() {
		It("should return a value in the given range", func() {
			for i := 0; i < 100; i++ {
				value := RandomInt(1, 10)
				Expect(value).To(BeNumerically(">=", 1))
				Expect(value).To(BeNumerically("<=", 10))
			}
		})

		It("should be deterministic for the same seed", func() {
			InitRandom(42)
			first := make([]int, 20)
			for i := range first {
				first[i] = RandomInt(0, 1000)
			}
			InitRandom(42)
			for i := range first {
				Expect(RandomInt(0, 1000)).To(Equal(first[i]))
			}
		})
	})

	Context("RandomNorm", func() {
		It("should return the mean when the standard deviation is 0", func() {
			Expect(RandomNorm(1000, 0)).To(Equal(1000))
		})

		It("should not differ from the mean by more than 70%", func() {
			for i := 0; i < 100; i++ {
				value := RandomNorm(1000, 300)
				Expect(value).To(BeNumerically(">=", 300))
				Expect(value).To(BeNumerically("<=", 1700))
			}
		})
	})

	Context("GenerateUUIDString", func() {
		It("should generate unique identifiers", func() {
			first := GenerateUUIDString()
			second := GenerateUUIDString()
			Expect(first).NotTo(BeEmpty())
			Expect(second).NotTo(BeEmpty())
			Expect(first).NotTo(Equal(second))
		})
	})
})
