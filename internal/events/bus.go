// Package events provides per-job status broadcasting with replay-last
// semantics. Each job has an independent stream; a subscriber attaching at any
// point first receives the most recently published event, then every later one
// in publish order, until the publisher completes the stream.
package events

import (
	"sync"
	"time"
)

// Event types published during an extraction job, in pipeline order
const (
	TypeStarted        = "started"
	TypeExtractingText = "extracting_text"
	TypeProcessingAI   = "processing_ai"
	TypeSavingRecipes  = "saving_recipes"
	TypeFinished       = "finished"
	TypeFailed         = "failed"
)

// Event is a single job status update. Events are transient; they exist only
// inside the bus and the feeds it serves.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Subscription is one observer's view of a job stream. The channel is closed
// when the publisher completes the stream, never by other observers detaching.
type Subscription struct {
	ch chan Event
}

// Events returns the channel events are delivered on. It is closed after the
// stream's terminal event has been delivered.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// stream holds per-job broadcast state. Its mutex linearizes publish,
// subscribe, and complete for one job; different jobs share nothing but the
// registry map.
type stream struct {
	mu        sync.Mutex
	last      *Event
	closed    bool
	subs      map[*Subscription]struct{}
	observers int
}

// Config holds bus tuning. Zero values select the defaults.
type Config struct {
	// BufferSize is the per-subscriber channel capacity. A full buffer drops
	// the oldest undelivered event so a stalled observer cannot block the
	// pipeline. The default comfortably holds a whole job's event sequence.
	BufferSize int
	// CompletedLinger is how long a completed stream stays in the registry so
	// that late subscribers can still replay the terminal event.
	CompletedLinger time.Duration
}

const (
	defaultBufferSize      = 16
	defaultCompletedLinger = 5 * time.Minute
)

// Bus is the per-job event broadcaster
type Bus struct {
	mu      sync.RWMutex
	streams map[string]*stream
	cfg     Config
}

// NewBus creates a bus with the given configuration
func NewBus(cfg Config) *Bus {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.CompletedLinger <= 0 {
		cfg.CompletedLinger = defaultCompletedLinger
	}
	return &Bus{
		streams: make(map[string]*stream),
		cfg:     cfg,
	}
}

// Open ensures a stream exists for jobID. It is idempotent and safe to call
// concurrently with any other operation.
func (b *Bus) Open(jobID string) {
	b.getOrCreate(jobID)
}

// Subscribe attaches an observer to jobID's stream, creating the stream if it
// does not exist. The most recently published event, if any, is delivered
// first; all later events follow in publish order. If the stream has already
// completed, the subscription delivers the replayed event and then closes.
func (b *Bus) Subscribe(jobID string) *Subscription {
	st := b.getOrCreate(jobID)

	st.mu.Lock()
	defer st.mu.Unlock()

	sub := &Subscription{ch: make(chan Event, b.cfg.BufferSize)}
	if st.last != nil {
		sub.ch <- *st.last
	}
	if st.closed {
		close(sub.ch)
		return sub
	}
	st.subs[sub] = struct{}{}
	st.observers++
	return sub
}

// Publish delivers an event to all current subscribers of jobID in FIFO order
// and records it as the stream's replay value. Publishing to an unknown jobID
// creates the stream first; publishing to a completed stream is a no-op.
func (b *Bus) Publish(jobID string, ev Event) {
	st := b.getOrCreate(jobID)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.closed {
		return
	}
	st.last = &ev
	for sub := range st.subs {
		deliver(sub.ch, ev)
	}
}

// Unsubscribe detaches an observer. This is bookkeeping only: the stream stays
// alive so the observer can reconnect and still see the terminal event. The
// leaver's own channel is closed so its read loop terminates.
func (b *Bus) Unsubscribe(jobID string, sub *Subscription) {
	b.mu.RLock()
	st, ok := b.streams[jobID]
	b.mu.RUnlock()
	if !ok || sub == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if _, attached := st.subs[sub]; !attached {
		return
	}
	delete(st.subs, sub)
	st.observers--
	close(sub.ch)
}

// Observers reports how many subscribers are currently attached to jobID
func (b *Bus) Observers(jobID string) int {
	b.mu.RLock()
	st, ok := b.streams[jobID]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.observers
}

// Complete marks jobID's stream terminal: every subscriber's channel is closed
// after its buffered events drain, and the stream is removed from the registry
// once the linger window passes. Completing an unknown or already-completed
// stream is a no-op.
func (b *Bus) Complete(jobID string) {
	b.mu.RLock()
	st, ok := b.streams[jobID]
	b.mu.RUnlock()
	if !ok {
		return
	}

	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return
	}
	st.closed = true
	for sub := range st.subs {
		close(sub.ch)
	}
	st.subs = make(map[*Subscription]struct{})
	st.observers = 0
	st.mu.Unlock()

	time.AfterFunc(b.cfg.CompletedLinger, func() {
		b.mu.Lock()
		if cur, ok := b.streams[jobID]; ok && cur == st {
			delete(b.streams, jobID)
		}
		b.mu.Unlock()
	})
}

// getOrCreate returns jobID's stream, creating it if absent
func (b *Bus) getOrCreate(jobID string) *stream {
	b.mu.RLock()
	st, ok := b.streams[jobID]
	b.mu.RUnlock()
	if ok {
		return st
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if st, ok := b.streams[jobID]; ok {
		return st
	}
	st = &stream{subs: make(map[*Subscription]struct{})}
	b.streams[jobID] = st
	return st
}

// deliver sends without blocking the publisher: if the subscriber's buffer is
// full, the oldest undelivered event is dropped to make room. The publisher is
// the only sender and holds the stream lock, so the retry cannot race.
func deliver(ch chan Event, ev Event) {
	select {
	case ch <- ev:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- ev:
	default:
	}
}
