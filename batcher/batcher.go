// Package batcher implements the bounded FIFO vote collector living at the
// node (spec.md §4.8): items trickle in over a channel and are flushed in
// batches of up to batch_size, on whichever comes first of batch_size
// items buffered, batch_interval elapsing, or the input channel closing.
package batcher

import "time"

// Batcher collects items of type T off In and hands them back in batches
// via WaitForBatch. A Batcher must not be shared between goroutines; the
// intended usage is a single consumer goroutine looping on WaitForBatch
// while producers send on In.
type Batcher[T any] struct {
	batchSize     int
	batchInterval time.Duration

	in     chan T
	buf    []T
	timer  *time.Timer
	closed bool
}

// New creates a Batcher with the given batch_size and batch_interval, and
// the channel producers should send items on. inputCapacity bounds the
// channel so a producer blocks rather than growing memory unboundedly
// when the consumer falls behind.
func New[T any](batchSize int, batchInterval time.Duration, inputCapacity int) (*Batcher[T], chan<- T) {
	in := make(chan T, inputCapacity)
	b := &Batcher[T]{
		batchSize:     batchSize,
		batchInterval: batchInterval,
		in:            in,
		timer:         time.NewTimer(batchInterval),
	}
	return b, in
}

// WaitForBatch returns up to batch_size items, per spec.md §4.8's three-
// way semantics:
//  1. if batch_size items are already buffered, return immediately;
//  2. otherwise wait for whichever of (a) batch_interval elapsing since
//     the last emission, (b) batch_size items buffered, or (c) the input
//     channel closing happens first, then flush whatever is buffered.
//
// Items beyond batch_size accumulated while waiting remain buffered for
// the next call. A closed input channel causes this and every subsequent
// call to return the remaining buffer and then empty batches.
func (b *Batcher[T]) WaitForBatch() []T {
	if len(b.buf) >= b.batchSize {
		return b.flush()
	}
	if b.closed {
		return b.flush()
	}

	for {
		select {
		case item, ok := <-b.in:
			if !ok {
				b.closed = true
				return b.flush()
			}
			b.buf = append(b.buf, item)
			if len(b.buf) >= b.batchSize {
				return b.flush()
			}
		case <-b.timer.C:
			return b.flush()
		}
	}
}

// Done reports whether the input channel has closed and every buffered
// item has been flushed out through WaitForBatch. Once Done returns true
// it stays true: there is nothing left for a consumer loop to wait on.
func (b *Batcher[T]) Done() bool {
	return b.closed && len(b.buf) == 0
}

// flush resets the interval deadline and returns up to batch_size
// buffered items, leaving any excess for the next call.
func (b *Batcher[T]) flush() []T {
	if !b.timer.Stop() {
		select {
		case <-b.timer.C:
		default:
		}
	}
	b.timer.Reset(b.batchInterval)

	n := len(b.buf)
	if n > b.batchSize {
		n = b.batchSize
	}
	out := b.buf[:n]
	b.buf = append([]T(nil), b.buf[n:]...)
	return out
}
