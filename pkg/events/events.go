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

// Package events publishes served replies to interested subscribers over
// ZMQ. Events are msgpack encoded and sent in batches.
package events

// ReplyTopic is the ZMQ topic reply event batches are published on.
const ReplyTopic = "replies"

// ReplyEvent describes one served reply.
type ReplyEvent struct {
	// RequestID is the UUID assigned to the respond request
	RequestID string `msgpack:"request_id"`
	// Words is the input word set the reply was generated for
	Words []string `msgpack:"words"`
	// Keyword is the keyword that matched, empty on the default path
	Keyword string `msgpack:"keyword"`
	// Matched is false when the reply is a default response
	Matched bool `msgpack:"matched"`
	// Reply is the served response text
	Reply string `msgpack:"reply"`
	// Timestamp is the Unix time in milliseconds the reply was served at
	Timestamp int64 `msgpack:"timestamp"`
}
