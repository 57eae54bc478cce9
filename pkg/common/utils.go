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
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var randomGenerator *rand.Rand
var randMutex sync.Mutex

func InitRandom(seed int64) {
	src := rand.NewSource(seed)
	randomGenerator = rand.New(src)
	uuid.SetRand(randomGenerator)
}

// Returns an integer between min and max (included)
func RandomInt(min int, max int) int {
	randMutex.Lock()
	defer randMutex.Unlock()
	return randomGenerator.Intn(max-min+1) + min
}

// probability is an integer between 0 and 100
func RandomBool(probability int) bool {
	randMutex.Lock()
	defer randMutex.Unlock()
	return randomGenerator.Float64() < float64(probability)/100
}

// Returns a normally distributed int
// If the generated value differs by more than 70% from mean, the returned
// value will be 70% of mean
func RandomNorm(mean int, stddev int) int {
	if stddev == 0 {
		return mean
	}
	randMutex.Lock()
	defer randMutex.Unlock()
	mean_ := float64(mean)
	stddev_ := float64(stddev)
	value := randomGenerator.NormFloat64()*stddev_ + mean_
	if value < 0.3*mean_ {
		value = 0.3 * mean_
	} else if value > 1.7*mean_ {
		value = 1.7 * mean_
	}
	return int(value)
}

// GenerateUUIDString generates a UUID string under a lock
func GenerateUUIDString() string {
	randMutex.Lock()
	defer randMutex.Unlock()
	return uuid.NewString()
}

// Regular expression for extracting words from user input
var wordRe *regexp.Regexp

func init() {
	wordRe = regexp.MustCompile(`[a-zA-Z']+`)
}

// WordSet extracts the set of words contained in free text: the text is
// lowercased, split on anything that is not a letter or an apostrophe, and
// deduplicated preserving first-seen order. Keyword matching downstream is
// exact, the lowercasing here pairs with lowercase keywords in the response
// files.
func WordSet(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(words))
	set := make([]string, 0, len(words))
	for _, word := range words {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		set = append(set, word)
	}
	return set
}
