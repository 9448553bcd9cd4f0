// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import (
	"context"
	"time"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run starts the worker and returns immediately; processing happens in
// goroutines owned by the worker. Stop asks the worker to finish and waits
// for it until ctx is done.
type Worker interface {
	Run()
	Stop(ctx context.Context) error
}

// Sweeper drops state that expired before now and reports how many entries
// were removed.
type Sweeper interface {
	Sweep(now time.Time) int
}
