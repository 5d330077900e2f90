package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultBufferSize     = 256
	defaultPublishTimeout = 5 * time.Second
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBufferSize sets how many events may wait for delivery before new ones are dropped.
func WithBufferSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.bufferSize = n
		}
	}
}

// WithPublishTimeout bounds a single sink call.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithLogger sets the logger for dropped and failed deliveries.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher queues events and delivers them to a sink from one background
// goroutine. Dispatch never blocks: a full queue drops the event.
type Dispatcher struct {
	sink       Sink
	logger     *slog.Logger
	bufferSize int
	timeout    time.Duration

	queue  chan Event
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts a dispatcher delivering to sink.
func NewDispatcher(sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sink:       sink,
		logger:     slog.Default(),
		bufferSize: defaultBufferSize,
		timeout:    defaultPublishTimeout,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.queue = make(chan Event, d.bufferSize)
	go d.run()
	return d
}

// Dispatch enqueues events. It ignores ctx cancellation: delivery outlives the request.
func (d *Dispatcher) Dispatch(ctx context.Context, events ...Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.WarnContext(ctx, "dispatcher closed, dropping notifications", "count", len(events))
		return
	}
	for _, ev := range events {
		select {
		case d.queue <- ev:
		default:
			d.logger.WarnContext(ctx, "notification queue full, dropping event", "event_id", ev.ID, "type", ev.Type, "topic", ev.Topic)
		}
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining notifications: %w", ctx.Err())
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification sink panicked", "event_id", ev.ID, "topic", ev.Topic, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sink.Publish(ctx, ev.Topic, ev); err != nil {
		d.logger.Warn("notification delivery failed", "event_id", ev.ID, "type", ev.Type, "topic", ev.Topic, "error", err)
		return
	}
	d.logger.Debug("notification delivered", "event_id", ev.ID, "type", ev.Type, "topic", ev.Topic)
}
