// scratch.go: per-worker formatting scratch space and allocation strategies
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import (
	"runtime"

	"github.com/agilira/nyxlog/internal/bufferpool"
)

// AllocationStrategy selects how the worker obtains the byte slice it
// formats each record into.
type AllocationStrategy int32

const (
	// AllocDynamic borrows a *bytes.Buffer from a shared sync.Pool.
	// Simple and portable, at the cost of an occasional pool miss.
	AllocDynamic AllocationStrategy = iota

	// AllocZero formats directly into a fixed-size array embedded in
	// the worker's own scratch struct — no heap traffic at all once
	// steady state is reached.
	AllocZero

	// AllocAuto picks AllocZero on the embedded targets (32/64-bit ARM
	// and MIPS, 32-bit RISC-V) and AllocDynamic everywhere else.
	AllocAuto
)

// resolveAllocationStrategy turns AllocAuto into a concrete strategy at
// construction time with a runtime.GOARCH dispatch, the same idiom
// internal/rotation uses for its timeCell fallback.
func resolveAllocationStrategy(s AllocationStrategy) AllocationStrategy {
	if s != AllocAuto {
		return s
	}
	switch runtime.GOARCH {
	case "arm", "arm64", "mips", "mipsle", "mips64", "mips64le", "riscv":
		return AllocZero
	default:
		return AllocDynamic
	}
}

// maxScratchBufferSize bounds the zero-alloc formatting array: large
// enough for the worst-case rendered line (timestamp + ANSI escapes + a
// full Record payload), plus the documented default TLSFormatBufferSize.
const maxScratchBufferSize = payloadCapacity + 64 + defaultTLSFormatBufferSize

// formattingScratch is the per-worker-goroutine formatting state. It is
// never shared across goroutines: the worker owns exactly one, reused
// for every record it renders.
type formattingScratch struct {
	strategy AllocationStrategy

	// tlsFormatBufferSize is Config.TLSFormatBufferSize after defaulting:
	// the capacity hint the dynamic strategy pre-grows pooled buffers to,
	// and the size of the lazily-allocated Windows UTF-16 scratch.
	tlsFormatBufferSize int

	// fixed is the zero-alloc destination; unused when strategy is
	// AllocDynamic. Sized to the static ceiling rather than
	// tlsFormatBufferSize since Go arrays cannot be sized at runtime.
	fixed [maxScratchBufferSize]byte

	// formatting guards against reentrant use of this scratch space,
	// e.g. if user-supplied error handling logs from within the
	// critical section. It is not a concurrency lock — the worker is
	// single-threaded — only a reentrancy trip wire.
	formatting bool

	// utf16 is lazily sized scratch for the Windows console path.
	utf16 []uint16
}

// newFormattingScratch builds formatting state for the resolved
// strategy, sized from tlsFormatBufferSize (Config.TLSFormatBufferSize
// after WithDefaults).
func newFormattingScratch(strategy AllocationStrategy, tlsFormatBufferSize int) *formattingScratch {
	if tlsFormatBufferSize <= 0 {
		tlsFormatBufferSize = defaultTLSFormatBufferSize
	}
	return &formattingScratch{
		strategy:            resolveAllocationStrategy(strategy),
		tlsFormatBufferSize: tlsFormatBufferSize,
	}
}

// render formats r into a line and invokes emit with the resulting
// slice. The slice is only valid for the duration of the emit call: in
// AllocZero mode it aliases the scratch's fixed array and is
// overwritten by the next render call.
func (f *formattingScratch) render(r *Record, emit func([]byte) error) error {
	if f.formatting {
		// A reentrant call (e.g. an error handler logging) cannot
		// share this scratch space; fall back to a throwaway buffer
		// rather than corrupt the in-flight render.
		line := appendLine(make([]byte, 0, len(r.Bytes())+64), r)
		return emit(line)
	}
	f.formatting = true
	defer func() { f.formatting = false }()

	switch f.strategy {
	case AllocZero:
		line := appendLine(f.fixed[:0], r)
		return emit(line)
	default:
		buf := bufferpool.GetSized(f.tlsFormatBufferSize)
		defer bufferpool.Put(buf)
		line := appendLine(buf.AvailableBuffer(), r)
		return emit(line)
	}
}

// utf16Scratch lazily allocates and returns the Windows UTF-16
// conversion buffer sized for one maximal line.
func (f *formattingScratch) utf16Scratch() []uint16 {
	if f.utf16 == nil {
		f.utf16 = make([]uint16, f.tlsFormatBufferSize)
	}
	return f.utf16
}
