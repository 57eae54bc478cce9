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

// Helpdesk auto-responder simulator
// supports /v1/respond, /v1/keywords, /tokenize, and /metrics
package main

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/helpdesk-sim/helpdesk-responder-sim/cmd/signals"
	helpdesksim "github.com/helpdesk-sim/helpdesk-responder-sim/pkg/helpdesk-responder-sim"
)

func main() {
	// setup logger and context with graceful shutdown
	logger := klog.Background()
	ctx := klog.NewContext(context.Background(), logger)
	ctx = signals.SetupSignalHandler(ctx)

	logger.Info("Starting helpdesk responder simulator")

	sim, err := helpdesksim.New(logger)
	if err != nil {
		logger.Error(err, "Failed to create helpdesk responder simulator")
		return
	}
	if err := sim.Start(ctx); err != nil {
		logger.Error(err, "Helpdesk responder simulator failed")
	}
}
