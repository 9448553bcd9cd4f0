package workers

import (
	"context"
	"errors"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop stops the workers in reverse start order.
func (w *Workers) Stop(ctx context.Context) error {
	var errs []error
	for i := len(w.workers) - 1; i >= 0; i-- {
		if err := w.workers[i].Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
