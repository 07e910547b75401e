package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher sends messages in the background so slow SMTP never holds up a response.
// Failures are logged; nothing is retried.
type Dispatcher struct {
	mailer  Mailer
	jobs    chan Message
	timeout time.Duration
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(mailer Mailer, workers, queueSize int, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &Dispatcher{
		mailer:  mailer,
		jobs:    make(chan Message, queueSize),
		timeout: timeout,
		log:     log,
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}
	return d
}

// Enqueue hands msg to a worker. It never blocks: a full or closed queue drops the message.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Str("to", msg.To).Str("subject", msg.Subject).Msg("dispatcher closed, notification dropped")
		return false
	}
	select {
	case d.jobs <- msg:
		return true
	default:
		d.log.Warn().Str("to", msg.To).Str("subject", msg.Subject).Msg("notification queue full, notification dropped")
		return false
	}
}

// Close stops accepting work and waits for queued messages to be sent or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for msg := range d.jobs {
		d.send(msg)
	}
}

func (d *Dispatcher) send(msg Message) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.log.Error().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("email send failed")
		return
	}
	d.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
}
