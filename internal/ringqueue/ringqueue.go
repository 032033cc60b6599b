// ringqueue.go: lock-free single-producer single-consumer ring queue
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package ringqueue implements the fixed-capacity SPSC hand-off queue at
// the core of the async logging engine. Exactly one goroutine may call
// TryPush and exactly one goroutine may call TryPop; violating that
// contract is undefined behavior.
package ringqueue

import (
	"sync/atomic"

	"github.com/agilira/go-errors"
)

// Error codes surfaced at construction time.
const (
	ErrCodeInvalidCapacity errors.ErrorCode = "NYXLOG_QUEUE_INVALID_CAPACITY"
	ErrCodeCapacityTooLarge errors.ErrorCode = "NYXLOG_QUEUE_CAPACITY_TOO_LARGE"
)

// padded64 is an atomic int64 padded to a full 64-byte cache line to
// prevent false sharing between the producer's tail and the consumer's
// head.
type padded64 struct {
	atomic.Int64
	_ [56]byte
}

// RingQueue is a bounded, wait-free SPSC queue of fixed-size records.
// Capacity is rounded up to the next power of two (minimum 4); one slot
// is always reserved to distinguish the full state from the empty one.
type RingQueue[T any] struct {
	buffer []T
	mask   int64

	tail padded64 // producer-owned write position, published with release
	_    [64]byte
	head padded64 // consumer-owned read position, published with release
	_    [64]byte

	// cachedHead/cachedTail are single-writer caches: cachedHead is only
	// ever touched by the producer, cachedTail only by the consumer.
	// Each side avoids a fresh atomic load of the other side's index on
	// every push/pop by trusting its own stale cache until it runs out.
	cachedHead int64
	cachedTail int64
}

// New creates a RingQueue with the requested capacity rounded up to the
// next power of two (minimum 4). Returns ErrCodeCapacityTooLarge if the
// rounding would overflow.
func New[T any](capacity int) (*RingQueue[T], error) {
	if capacity < 1 {
		capacity = 4
	}
	n := nextPow2(capacity)
	if n <= 0 {
		return nil, errors.New(ErrCodeCapacityTooLarge, "ringqueue: requested capacity overflows on rounding")
	}
	if n < 4 {
		n = 4
	}

	q := &RingQueue[T]{
		buffer: make([]T, n),
		mask:   int64(n) - 1,
	}
	return q, nil
}

func nextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	n := 1
	for n < x {
		if n >= 1<<62 {
			return -1 // doubling further would overflow a signed 64-bit int
		}
		n <<= 1
	}
	return n
}

// Cap returns the rounded queue capacity (including the reserved slot).
func (q *RingQueue[T]) Cap() int { return int(q.mask + 1) }

// TryPush publishes rec into the queue. Returns false without blocking
// and without allocating if the queue would become full; the caller is
// responsible for counting the drop.
func (q *RingQueue[T]) TryPush(rec T) bool {
	tail := q.tail.Load()
	next := (tail + 1) & q.mask

	if next == q.cachedHead {
		q.cachedHead = q.head.Load() // acquire: refresh stale cache
		if next == q.cachedHead {
			return false
		}
	}

	q.buffer[tail&q.mask] = rec
	q.tail.Store(next) // release: publish slot write before index
	return true
}

// TryPop removes and returns the oldest record. ok is false if the queue
// is empty; never blocks.
func (q *RingQueue[T]) TryPop() (rec T, ok bool) {
	head := q.head.Load()

	if head == q.cachedTail {
		q.cachedTail = q.tail.Load() // acquire
		if head == q.cachedTail {
			return rec, false
		}
	}

	rec = q.buffer[head&q.mask]
	q.head.Store((head + 1) & q.mask) // release
	return rec, true
}

// Size returns an approximate count of live records. Reads of head/tail
// are unsynchronized with each other and may observe a stale value, but
// the result is always within [0, capacity-1].
func (q *RingQueue[T]) Size() int {
	tail := q.tail.Load()
	head := q.head.Load()
	n := q.mask + 1
	return int(((tail - head) + n) % n)
}

// IsEmpty reports whether the queue observed no pending records.
func (q *RingQueue[T]) IsEmpty() bool {
	return q.tail.Load() == q.head.Load()
}
