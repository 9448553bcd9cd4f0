// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// DefaultDeliveryTimeout bounds a single relay call.
const DefaultDeliveryTimeout = 30 * time.Second

type queuedMail struct {
	mail models.Mail
	log  *logger.Logger
}

// MailDispatcher queues mail and delivers it through a relay from a fixed
// pool of goroutines. Send never blocks: when the queue is full the mail is
// dropped. Stop drains what is already queued.
type MailDispatcher struct {
	relay adapter.MailRelay

	queue   chan queuedMail
	workers int
	timeout time.Duration

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup

	logger *logger.Logger
}

func NewMailDispatcher(relay adapter.MailRelay, queueSize, workers int, logger *logger.Logger) *MailDispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}

	return &MailDispatcher{
		relay:   relay,
		queue:   make(chan queuedMail, queueSize),
		workers: workers,
		timeout: DefaultDeliveryTimeout,
		logger:  logger,
	}
}

// Send enqueues mail. The request logger of ctx is kept for the delivery
// log lines; ctx itself is not, since the request ends before delivery.
func (d *MailDispatcher) Send(ctx context.Context, mail models.Mail) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- queuedMail{mail: mail, log: logger.FromContext(ctx)}:
		return nil
	default:
		logger.FromContext(ctx).Warn().
			Str("func", "*MailDispatcher.Send").
			Str("subject", mail.Subject).
			Int("queue_size", cap(d.queue)).
			Msg("mail queue is full, dropping mail")
		return ErrQueueFull
	}
}

func (d *MailDispatcher) Run() {
	d.logger.Info().Int("workers", d.workers).Int("queue_size", cap(d.queue)).Msg("starting mail dispatcher")
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

// Stop closes the queue and waits for queued mail to be delivered.
func (d *MailDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info().Msg("mail dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.logger.Warn().Int("pending", len(d.queue)).Msg("mail dispatcher stop timed out")
		return ctx.Err()
	}
}

func (d *MailDispatcher) work() {
	defer d.wg.Done()
	for item := range d.queue {
		d.deliver(item)
	}
}

func (d *MailDispatcher) deliver(item queuedMail) {
	ctx, cancel := context.WithTimeout(item.log.WithContext(context.Background()), d.timeout)
	defer cancel()

	if err := d.relay.Deliver(ctx, item.mail); err != nil {
		item.log.Err(err).
			Str("func", "*MailDispatcher.deliver").
			Str("subject", item.mail.Subject).
			Msg("mail delivery failed")
		return
	}
	item.log.Debug().Str("subject", item.mail.Subject).Msg("mail delivered")
}
