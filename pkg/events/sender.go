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

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/vmihailenco/msgpack/v5"
)

// Sender batches reply events and publishes them when the batch is full or
// the flush delay expires, whichever comes first.
type Sender struct {
	publisher    *Publisher
	topic        string
	eventChan    chan ReplyEvent
	maxBatchSize int
	delay        time.Duration
	batch        []msgpack.RawMessage
	logger       logr.Logger
}

func NewSender(publisher *Publisher, topic string, ch chan ReplyEvent, maxBatchSize int,
	delay time.Duration, logger logr.Logger) *Sender {
	return &Sender{
		publisher:    publisher,
		topic:        topic,
		eventChan:    ch,
		maxBatchSize: maxBatchSize,
		delay:        delay,
		batch:        make([]msgpack.RawMessage, 0, maxBatchSize),
		logger:       logger,
	}
}

// Run consumes events until the context is cancelled or the event channel is
// closed. Events still in the batch at exit are discarded.
func (s *Sender) Run(ctx context.Context) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if len(s.batch) > 0 {
				s.logger.Info("Exiting, discard remaining reply events", "num of events", len(s.batch))
			}
			return ctx.Err()

		case event, ok := <-s.eventChan:
			if !ok {
				if len(s.batch) > 0 {
					s.logger.Info("Channel closed, discard remaining reply events", "num of events", len(s.batch))
				}
				return nil
			}

			payload, err := msgpack.Marshal(&event)
			if err != nil {
				return fmt.Errorf("failed to marshal reply event: %w", err)
			}
			s.batch = append(s.batch, payload)

			if len(s.batch) >= s.maxBatchSize {
				if err := s.publishBatch(ctx); err != nil {
					return err
				}

				// reset timer
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(s.delay)
			}

		case <-timer.C:
			if err := s.publishBatch(ctx); err != nil {
				return err
			}
			timer.Reset(s.delay)
		}
	}
}

func (s *Sender) publishBatch(ctx context.Context) error {
	if len(s.batch) == 0 {
		return nil
	}
	if err := s.publisher.PublishBatch(ctx, s.topic, s.batch); err != nil {
		return fmt.Errorf("failed to publish reply events: %w", err)
	}
	s.batch = s.batch[:0]
	return nil
}
