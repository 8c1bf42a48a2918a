// Package events distributes planner lifecycle events to registered
// subscribers. Registration is explicit: there is no implicit global
// dispatcher, and publishers never block on slow consumers.
package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// EventBus manages event distribution to subscribers with filtering support.
//
// Thread safety: all methods are safe for concurrent use. Subscribers
// receive events through buffered channels; when a subscriber's buffer is
// full the event is dropped for that subscriber only.
type EventBus interface {
	// Publish sends an event to all matching subscribers. Returns an error
	// only if the bus is closed. Never blocks on slow subscribers.
	Publish(ctx context.Context, event Event) error

	// Subscribe creates a subscription with optional filtering. The cleanup
	// function must be called to prevent resource leaks.
	Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func())

	// Close shuts down the bus and all subscriptions. After Close returns,
	// Publish returns an error.
	Close() error
}

// DefaultEventBus implements EventBus with buffered channels and
// non-blocking sends.
type DefaultEventBus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscription
	options     *busOptions
	closed      bool
}

// subscription is one subscriber with filtering and lifecycle management.
type subscription struct {
	id       string
	ch       chan Event
	filter   Filter
	ctx      context.Context
	cancel   context.CancelFunc
	created  time.Time
	received atomic.Int64
	dropped  atomic.Int64
}

// busOptions holds configuration for DefaultEventBus.
type busOptions struct {
	defaultBufferSize int
	errorHandler      ErrorHandler
}

// ErrorHandler is called when an error occurs during bus operations,
// typically to log dropped events.
type ErrorHandler func(err error, context map[string]any)

func noopErrorHandler(error, map[string]any) {}

// Option is a functional option for configuring DefaultEventBus.
type Option func(*busOptions)

// WithDefaultBufferSize sets the buffer size used when Subscribe is called
// with bufferSize=0. Default: 100 events.
func WithDefaultBufferSize(size int) Option {
	return func(opts *busOptions) {
		if size > 0 {
			opts.defaultBufferSize = size
		}
	}
}

// WithErrorHandler sets the handler invoked for dropped events.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(opts *busOptions) {
		if handler != nil {
			opts.errorHandler = handler
		}
	}
}

// NewEventBus creates a DefaultEventBus.
func NewEventBus(opts ...Option) *DefaultEventBus {
	options := &busOptions{
		defaultBufferSize: 100,
		errorHandler:      noopErrorHandler,
	}
	for _, opt := range opts {
		opt(options)
	}
	return &DefaultEventBus{
		subscribers: make(map[string]*subscription),
		options:     options,
	}
}

// Publish sends an event to all matching subscribers. Events for full
// subscriber buffers are dropped so that one slow consumer cannot stall
// the planner or other subscribers.
func (eb *DefaultEventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return fmt.Errorf("event bus is closed")
	}

	for _, sub := range eb.subscribers {
		select {
		case <-sub.ctx.Done():
			// Subscriber disconnected, cleaned up by unsubscribe
			continue
		default:
		}

		if !sub.filter.Matches(event) {
			continue
		}

		select {
		case sub.ch <- event:
			sub.received.Add(1)
		case <-ctx.Done():
			return ctx.Err()
		default:
			sub.dropped.Add(1)
			eb.options.errorHandler(
				fmt.Errorf("dropped event for slow subscriber"),
				map[string]any{
					"subscriber_id": sub.id,
					"event_type":    event.Type,
					"session_id":    event.SessionID,
				},
			)
		}
	}

	return nil
}

// Subscribe creates a subscription. The returned cleanup function must be
// called to unsubscribe.
func (eb *DefaultEventBus) Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if bufferSize <= 0 {
		bufferSize = eb.options.defaultBufferSize
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		id:      uuid.New().String(),
		ch:      make(chan Event, bufferSize),
		filter:  filter,
		ctx:     subCtx,
		cancel:  cancel,
		created: time.Now(),
	}

	eb.subscribers[sub.id] = sub

	return sub.ch, func() { eb.unsubscribe(sub.id) }
}

// unsubscribe removes a subscription and closes its channel.
func (eb *DefaultEventBus) unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	sub, exists := eb.subscribers[subscriberID]
	if !exists {
		return
	}

	sub.cancel()
	close(sub.ch)
	delete(eb.subscribers, subscriberID)
}

// Close shuts down the bus and all subscriptions.
func (eb *DefaultEventBus) Close() error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return nil
	}
	eb.closed = true

	for id, sub := range eb.subscribers {
		sub.cancel()
		close(sub.ch)
		delete(eb.subscribers, id)
	}

	return nil
}
