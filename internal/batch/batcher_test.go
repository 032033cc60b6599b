package batch

import (
	"bytes"
	"testing"
	"time"
)

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestFlushOnEmptyBatchIsNoOp(t *testing.T) {
	w := &countingWriter{}
	b := New(1024, nil)
	b.Flush(w)
	if w.writes != 0 {
		t.Errorf("Flush on empty batch performed %d writes, want 0", w.writes)
	}
}

func TestAppendFlushesOnFillTrigger(t *testing.T) {
	w := &countingWriter{}
	b := New(1024, nil)

	// 10 x 100-byte records comfortably exceed 80% of a 1024-byte buffer.
	record := bytes.Repeat([]byte("x"), 100)
	for i := 0; i < 10; i++ {
		b.Append(w, record)
		b.MaybeFlush(w)
	}

	if w.writes == 0 {
		t.Errorf("expected at least one flush once the fill trigger was crossed")
	}
	// The fill trigger fires once 900 bytes (>= 819.2) are buffered; the
	// tenth record stays batched below the threshold until a later flush.
	if got := w.Buffer.Len(); got != 900 {
		t.Errorf("total bytes written = %d, want 900", got)
	}
}

func TestMaybeFlushTriggersOnAge(t *testing.T) {
	w := &countingWriter{}
	b := New(1024, nil)
	b.maxAge = 10 * time.Millisecond

	b.Append(w, []byte("short"))
	if w.writes != 0 {
		t.Fatalf("unexpected flush before age elapsed: %d writes", w.writes)
	}

	time.Sleep(20 * time.Millisecond)
	b.MaybeFlush(w)

	if w.writes != 1 {
		t.Errorf("writes = %d after age trigger, want 1", w.writes)
	}
}

func TestOversizeAppendBypassesBatchBuffer(t *testing.T) {
	w := &countingWriter{}
	b := New(16, nil)

	big := bytes.Repeat([]byte("y"), 64)
	b.Append(w, big)

	if w.writes != 1 {
		t.Errorf("writes = %d for an oversize append, want 1", w.writes)
	}
	if got := w.Buffer.Len(); got != 64 {
		t.Errorf("bytes written = %d, want 64", got)
	}
}

func TestFlushErrorCallback(t *testing.T) {
	var gotErr error
	b := New(16, func(err error) { gotErr = err })
	b.Append(&failingWriter{}, []byte("hello"))
	b.Flush(&failingWriter{})
	if gotErr == nil {
		t.Errorf("expected onFlushErr to be invoked on write failure")
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, bytes.ErrTooLarge
}
