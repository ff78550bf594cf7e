package log

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 64

// Entry is a single line emitted by a sink.
type Entry struct {
	// Logger is the name of the emitting logger.
	Logger string
	// Kind is the base kind of the emitting sink.
	Kind Kind
	// Line is the text written, without the trailing newline. Lines from
	// [KindFile] sinks are already stripped of escape sequences.
	Line  string
	Level slog.Level
}

// Publisher fans out emitted lines to subscribers.
//
// Each call to [Publisher.Publish] delivers the entry to every active
// [Subscription] via a buffered channel with ring-buffer semantics: when a
// subscriber's channel is full the oldest entry is dropped so Publish never
// blocks. Safe for concurrent use.
//
// Attach a Publisher to sinks with [SinkOptions.Publisher] or
// [WithPublisher]. Create instances with [NewPublisher].
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	mu          sync.Mutex
	closed      bool
}

// NewPublisher creates a [Publisher] with the given options.
// The default buffer size is 64.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		p.bufSize = max(n, 1)
	}
}

// Publish sends e to all active subscribers. Closed subscriptions are
// compacted out of the subscriber list. Publishing to a closed Publisher is
// a no-op.
func (p *Publisher) Publish(e Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)

			continue
		}

		select {
		case sub.ch <- e:
		default:
			<-sub.ch

			sub.ch <- e
		}

		alive = append(alive, sub)
	}

	clear(p.subscribers[len(alive):])

	p.subscribers = alive
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch: make(chan Entry, p.bufSize),
	}

	if p.closed {
		close(sub.ch)

		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Close marks the Publisher as closed, closes all subscription channels,
// and releases the subscriber list. Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}

	p.subscribers = nil

	return nil
}

// Subscription receives entries from a [Publisher].
type Subscription struct {
	ch     chan Entry
	closed atomic.Bool
}

// C returns the read-only channel that delivers entries.
func (s *Subscription) C() <-chan Entry {
	return s.ch
}

// Close marks the subscription as closed. The Publisher will close the
// underlying channel on its next Publish or Close call. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}
