// worker.go: single-consumer drain loop
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/nyxlog/internal/batch"
	"github.com/agilira/nyxlog/internal/ringqueue"
	"github.com/agilira/nyxlog/internal/rotation"
)

type workerState int32

const (
	workerRunning workerState = iota
	workerDraining
	workerStopped
)

// worker is the single goroutine that drains the ring buffer, formats
// each record, and fans it out to the console and/or file sink. A
// Logger owns exactly one worker.
type worker struct {
	queue *ringqueue.RingQueue[Record]

	console WriteSyncer
	file    WriteSyncer
	target  OutputTarget

	batcher  *batch.Batcher
	rotation *rotation.Manager

	idle    IdleStrategy
	scratch *formattingScratch
	stats   *Statistics

	batchSize                       int
	dropRateWarningThresholdPercent float64

	state    atomic.Int32
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func newWorker(cfg Config, queue *ringqueue.RingQueue[Record], console, file WriteSyncer,
	rot *rotation.Manager, stats *Statistics, idle IdleStrategy) *worker {

	var batcher *batch.Batcher
	if file != nil {
		batcher = batch.New(cfg.WorkerFileBufferSize, func(err error) {
			emergencyConsole(ErrCodeFileWriteFailure, "buffered file write failed", err)
		})
	}

	w := &worker{
		queue:                           queue,
		console:                         console,
		file:                            file,
		target:                          cfg.OutputTarget,
		batcher:                         batcher,
		rotation:                        rot,
		idle:                            idle,
		scratch:                         newFormattingScratch(cfg.AllocationStrategy, cfg.TLSFormatBufferSize),
		stats:                           stats,
		batchSize:                       cfg.BatchSize,
		dropRateWarningThresholdPercent: cfg.DropRateWarningThresholdPercent,
		stopCh:                          make(chan struct{}),
		doneCh:                          make(chan struct{}),
	}
	return w
}

// start launches the drain loop in its own goroutine.
func (w *worker) start() {
	go w.run()
}

func (w *worker) run() {
	defer close(w.doneCh)

	for {
		drained := w.drainBatch()

		if w.state.Load() == int32(workerDraining) && !drained {
			w.finalFlush()
			w.state.Store(int32(workerStopped))
			return
		}

		select {
		case <-w.stopCh:
			w.state.Store(int32(workerDraining))
			continue
		default:
		}

		if !drained {
			w.idle.Idle()
		} else {
			w.idle.Reset()
		}
	}
}

// drainBatch pops up to batchSize records and emits each one,
// returning whether any record was processed.
func (w *worker) drainBatch() bool {
	any := false
	for i := 0; i < w.batchSize; i++ {
		rec, ok := w.queue.TryPop()
		if !ok {
			break
		}
		any = true
		w.emit(&rec)
	}
	if w.batcher != nil {
		w.maybeRotateAndFlush()
	}
	return any
}

func (w *worker) emit(rec *Record) {
	if w.stats != nil {
		w.stats.incProcessed()
	}

	var emitErr error
	err := w.scratch.render(rec, func(line []byte) error {
		if w.target == OutputStdout || w.target == OutputStderr || w.target == OutputConsoleAndFile {
			if w.console != nil {
				var utf16 []uint16
				if runtime.GOOS == "windows" {
					utf16 = w.scratch.utf16Scratch()
				}
				if err := writeConsole(w.console, line, utf16); err != nil {
					emitErr = err
				}
			}
		}
		if (w.target == OutputFile || w.target == OutputConsoleAndFile) && w.file != nil {
			w.batcher.Append(w.file, line)
			if w.rotation != nil {
				w.rotation.AddBytes(int64(len(line)))
			}
		}
		return emitErr
	})
	if err != nil {
		emergencyConsole(ErrCodeFileWriteFailure, "failed to emit formatted record", err)
	}
	if w.stats != nil && w.dropRateWarningThresholdPercent > 0 {
		w.stats.checkDropRateWarning(w.dropRateWarningThresholdPercent)
	}
}

// maybeRotateAndFlush flushes the batcher on its own dual trigger and
// rotates the backing file when the rotation manager's predicate
// fires, in that order so a flush never lands in a file about to be
// renamed out from under it.
func (w *worker) maybeRotateAndFlush() {
	now := time.Now()
	if w.rotation != nil && w.rotation.ShouldRotate(now) {
		w.batcher.Flush(w.file)
		if _, err := w.rotation.Rotate(now); err != nil {
			emergencyConsole(ErrCodeFileWriteFailure, "rotation failed", err)
		}
		if w.stats != nil {
			w.stats.incRotations()
		}
		return
	}
	w.batcher.MaybeFlush(w.file)
}

func (w *worker) finalFlush() {
	if w.batcher != nil {
		w.batcher.Flush(w.file)
	}
	if w.console != nil {
		_ = w.console.Sync()
	}
	if w.file != nil {
		_ = w.file.Sync()
	}
}

// stop requests a drain-then-stop and blocks until the worker has
// flushed everything still queued.
func (w *worker) stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}
