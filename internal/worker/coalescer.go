// Package worker provides the single-goroutine geometry worker.
//
// A Coalescer runs at most one job at a time and keeps a queue of depth
// one: a request submitted while another is waiting replaces it. Callers
// always see the newest state recomputed and never a backlog of stale work.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Flush when the coalescer stopped before the
// latest request was processed.
var ErrClosed = errors.New("worker: coalescer closed")

// Stats counts coalescer activity.
type Stats struct {
	Submitted uint64 // Requests accepted by Submit
	Run       uint64 // Jobs executed
	Dropped   uint64 // Requests replaced before they ran
}

// Coalescer runs fn on a dedicated goroutine with the latest submitted
// value. Every request gets a sequence number, strictly increasing in
// submission order; fn receives the sequence with the value.
//
// Thread safety: Coalescer is safe for concurrent use.
type Coalescer[T any] struct {
	fn func(seq uint64, v T)

	mu        sync.Mutex
	pending   T
	hasValue  bool
	submitted uint64
	completed uint64
	// progress is closed and replaced every time a job completes.
	progress chan struct{}

	wake    chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
	once    sync.Once

	runs    atomic.Uint64
	dropped atomic.Uint64
}

// New starts a coalescer that calls fn for each surviving request.
func New[T any](fn func(seq uint64, v T)) *Coalescer[T] {
	c := &Coalescer[T]{
		fn:       fn,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	c.running.Store(true)
	c.wg.Add(1)
	go c.loop()
	return c
}

// Submit queues v, replacing any request that has not started yet. It
// returns the request's sequence number, or 0 if the coalescer is closed.
// Submit never blocks on the job.
func (c *Coalescer[T]) Submit(v T) uint64 {
	if !c.running.Load() {
		return 0
	}
	c.mu.Lock()
	if c.hasValue {
		c.dropped.Add(1)
	}
	c.submitted++
	seq := c.submitted
	c.pending = v
	c.hasValue = true
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return seq
}

func (c *Coalescer[T]) loop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
		}

		c.mu.Lock()
		if !c.hasValue {
			c.mu.Unlock()
			continue
		}
		v, seq := c.pending, c.submitted
		var zero T
		c.pending, c.hasValue = zero, false
		c.mu.Unlock()

		c.fn(seq, v)
		c.runs.Add(1)

		c.mu.Lock()
		if seq > c.completed {
			c.completed = seq
		}
		close(c.progress)
		c.progress = make(chan struct{})
		c.mu.Unlock()
	}
}

// Flush waits until the request that was latest when Flush was called has
// been processed, or until ctx is done.
func (c *Coalescer[T]) Flush(ctx context.Context) error {
	c.mu.Lock()
	target := c.submitted
	c.mu.Unlock()

	for {
		c.mu.Lock()
		if c.completed >= target {
			c.mu.Unlock()
			return nil
		}
		ch := c.progress
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return ErrClosed
		}
	}
}

// Close stops the worker goroutine and waits for a running job to finish.
// Requests still queued are discarded. Close is idempotent.
func (c *Coalescer[T]) Close() {
	c.once.Do(func() {
		c.running.Store(false)
		close(c.done)
	})
	c.wg.Wait()
}

// Stats returns activity counters.
func (c *Coalescer[T]) Stats() Stats {
	c.mu.Lock()
	submitted := c.submitted
	c.mu.Unlock()
	return Stats{
		Submitted: submitted,
		Run:       c.runs.Load(),
		Dropped:   c.dropped.Load(),
	}
}
