package workers

import "errors"

var (
	ErrQueueFull         = errors.New("mail queue is full")
	ErrDispatcherStopped = errors.New("mail dispatcher is stopped")
)
