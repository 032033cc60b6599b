// logger.go: the async logger orchestrator
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"

	"github.com/agilira/nyxlog/internal/ringqueue"
	"github.com/agilira/nyxlog/internal/rotation"
)

// Logger is the producer-facing handle: Log/Debug/Info/Warn/Error
// enqueue a Record and return immediately; a single background worker
// formats and writes it.
type Logger struct {
	queue *ringqueue.RingQueue[Record]
	level *AtomicLevel
	stats *Statistics
	wrk   *worker

	fileSyncer WriteSyncer
	rot        *rotation.Manager

	fields []byte // rendered "With" prefix, appended before every payload

	closeOnce sync.Once
}

// New constructs a Logger from cfg, applying documented defaults for
// zero-value fields. Capacity and allocation failures are reported as
// construction-time errors rather than deferred to the first Log call.
func New(cfg Config) (*Logger, error) {
	cfg = cfg.WithDefaults()

	queue, err := ringqueue.New[Record](cfg.QueueCapacity)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeCapacityTooLarge,
			fmt.Sprintf("nyxlog: requested queue capacity %d is invalid", cfg.QueueCapacity))
	}

	var console WriteSyncer
	switch cfg.OutputTarget {
	case OutputStderr:
		console = StderrWriteSyncer
	case OutputStdout, OutputConsoleAndFile:
		console = StdoutWriteSyncer
	}

	var fileSyncer WriteSyncer
	var rot *rotation.Manager
	if cfg.OutputTarget == OutputFile || cfg.OutputTarget == OutputConsoleAndFile {
		if cfg.LogFilePath == "" {
			return nil, errors.New(ErrCodeInvalidConfig,
				"nyxlog: log_file_path is required for this output_target")
		}
		fileSyncer, err = NewFileWriteSyncer(cfg.LogFilePath)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeFileOpenFailure,
				fmt.Sprintf("nyxlog: failed to open log file %s", cfg.LogFilePath))
		}
		rot = rotation.New(cfg.LogFilePath, cfg.Rotation, func(rotErr error) {
			emergencyConsole(ErrCodeFileWriteFailure, "rotation manager reported an error", rotErr)
		})
	}

	level := NewAtomicLevel(cfg.MinLevel)

	var stats *Statistics
	if cfg.EnableStatistics {
		stats = &Statistics{}
	}

	idleSleep := time.Duration(cfg.IdleSleepMicros) * time.Microsecond
	wrk := newWorker(cfg, queue, console, fileSyncer, rot, stats, NewSleepingIdleStrategy(idleSleep, 0))
	wrk.start()

	return &Logger{
		queue:      queue,
		level:      level,
		stats:      stats,
		wrk:        wrk,
		fileSyncer: fileSyncer,
		rot:        rot,
	}, nil
}

// Log enqueues payload at level lvl if it passes the current level
// filter. A full ring buffer silently drops the record and increments
// the drop counter: Log never blocks.
func (l *Logger) Log(lvl Level, payload []byte) {
	if !l.level.Enabled(lvl) {
		return
	}
	rec := l.makeRecord(lvl, payload)
	if !l.queue.TryPush(rec) {
		if l.stats != nil {
			l.stats.incDropped()
			if l.wrk.dropRateWarningThresholdPercent > 0 {
				l.stats.checkDropRateWarning(l.wrk.dropRateWarningThresholdPercent)
			}
		}
	}
}

func (l *Logger) makeRecord(lvl Level, payload []byte) Record {
	ts := timecache.CachedTimeNano()
	if len(l.fields) == 0 {
		return MakeRecord(lvl, ts, payload)
	}
	// With() fields are rendered as a "key=value ... " prefix ahead of
	// the caller's payload; payloadCapacity truncation still applies to
	// the combined line (Record.Truncated reports this).
	combined := make([]byte, 0, len(l.fields)+1+len(payload))
	combined = append(combined, l.fields...)
	combined = append(combined, ' ')
	combined = append(combined, payload...)
	return MakeRecord(lvl, ts, combined)
}

func (l *Logger) Debug(payload []byte) { l.Log(Debug, payload) }
func (l *Logger) Info(payload []byte)  { l.Log(Info, payload) }
func (l *Logger) Warn(payload []byte)  { l.Log(Warn, payload) }
func (l *Logger) Error(payload []byte) { l.Log(Error, payload) }

// SetLevel adjusts the minimum level producers filter against. Safe to
// call concurrently with Log.
func (l *Logger) SetLevel(lvl Level) { l.level.Store(lvl) }

// Level returns the AtomicLevel backing this logger, for wiring a
// ConfigWatcher.
func (l *Logger) Level() *AtomicLevel { return l.level }

// Stats returns a point-in-time snapshot of the logger's counters.
// Returns the zero Snapshot if statistics were disabled at construction.
func (l *Logger) Stats() Snapshot {
	if l.stats == nil {
		return Snapshot{}
	}
	return l.stats.Snapshot()
}

// With returns a new Logger that shares this logger's queue and
// worker but prefixes every emitted line with "key=value" pairs. kv
// must have an even length; an odd trailing key is dropped.
func (l *Logger) With(kv ...string) *Logger {
	prefix := make([]byte, 0, 32*len(kv))
	prefix = append(prefix, l.fields...)
	for i := 0; i+1 < len(kv); i += 2 {
		if len(prefix) > 0 {
			prefix = append(prefix, ' ')
		}
		prefix = append(prefix, kv[i]...)
		prefix = append(prefix, '=')
		prefix = append(prefix, kv[i+1]...)
	}

	clone := *l
	clone.fields = prefix
	return &clone
}

// Close drains any records still queued, flushes all buffers, and
// closes the backing file last so nothing formatted after this call
// is silently lost.
func (l *Logger) Close() error {
	var closeErr error
	l.closeOnce.Do(func() {
		l.wrk.stop()
		if l.rot != nil {
			l.rot.Close()
		}
		if l.fileSyncer != nil {
			if f, ok := l.fileSyncer.(fileSyncer); ok {
				closeErr = f.Close()
			}
		}
	})
	return closeErr
}

