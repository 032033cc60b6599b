// batcher.go: dual-trigger batched file writer
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package batch amortizes file-write syscalls behind a fixed-size
// buffer flushed on a fill or age trigger.
package batch

import (
	"io"
	"sync"
	"time"
)

// defaultFillRatio and defaultMaxAge implement the flush predicate:
// flush when len >= 0.8*capacity OR age >= 100ms.
const (
	defaultFillRatio = 0.8
	defaultMaxAge    = 100 * time.Millisecond
)

// Batcher accumulates formatted bytes and flushes them to an io.Writer
// on a fill-ratio or age trigger. It is intended to be driven from a
// single consumer goroutine; Append/MaybeFlush/Flush each hold an
// internal mutex, so concurrent calls are serialized.
type Batcher struct {
	mu         sync.Mutex
	buf        []byte
	len        int
	fillRatio  float64
	maxAge     time.Duration
	lastFlush  time.Time
	onFlushErr func(error)
}

// New creates a Batcher with the given buffer capacity (spec default
// 32768, the declarative config's worker_file_buffer_size).
func New(capacity int, onFlushErr func(error)) *Batcher {
	if capacity <= 0 {
		capacity = 32768
	}
	if onFlushErr == nil {
		onFlushErr = func(error) {}
	}
	return &Batcher{
		buf:        make([]byte, capacity),
		fillRatio:  defaultFillRatio,
		maxAge:     defaultMaxAge,
		lastFlush:  time.Now(),
		onFlushErr: onFlushErr,
	}
}

// Append copies p into the batch buffer, flushing first if it would not
// otherwise fit. A p larger than the whole buffer is written straight
// to w after that flush. Write errors go to the onFlushErr callback.
func (b *Batcher) Append(w io.Writer, p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.len+len(p) > len(b.buf) {
		b.flushLocked(w)
	}

	// A single write larger than the whole buffer bypasses batching
	// entirely rather than silently truncating the payload.
	if len(p) > len(b.buf) {
		if _, err := w.Write(p); err != nil {
			b.onFlushErr(err)
		}
		b.lastFlush = time.Now()
		return
	}

	n := copy(b.buf[b.len:], p)
	b.len += n
}

// MaybeFlush flushes if either trigger has been reached.
func (b *Batcher) MaybeFlush(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.shouldFlushLocked() {
		b.flushLocked(w)
	}
}

func (b *Batcher) shouldFlushLocked() bool {
	if b.len == 0 {
		return false
	}
	filled := float64(b.len) >= b.fillRatio*float64(len(b.buf))
	aged := time.Since(b.lastFlush) >= b.maxAge
	return filled || aged
}

// Flush unconditionally writes any pending bytes. A flush on an empty
// batch is a no-op that never touches the writer.
func (b *Batcher) Flush(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushLocked(w)
}

func (b *Batcher) flushLocked(w io.Writer) {
	if b.len == 0 {
		return
	}
	// Reset the length to zero before writing; the mutex is held for the
	// whole write, so no Append can overwrite buf[:n] while it is in use.
	n := b.len
	b.len = 0
	b.lastFlush = time.Now()

	if _, err := w.Write(b.buf[:n]); err != nil {
		b.onFlushErr(err)
	}
}
