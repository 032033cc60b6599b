// config.go: logger configuration surface
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import (
	"fmt"

	"github.com/agilira/nyxlog/internal/rotation"
)

// OutputTarget selects where formatted lines are written.
type OutputTarget int32

const (
	OutputStdout OutputTarget = iota
	OutputStderr
	OutputFile
	OutputConsoleAndFile
)

func parseOutputTarget(s string) (OutputTarget, bool) {
	switch s {
	case "stdout":
		return OutputStdout, true
	case "stderr":
		return OutputStderr, true
	case "file":
		return OutputFile, true
	case "console_and_file":
		return OutputConsoleAndFile, true
	default:
		return OutputStdout, false
	}
}

func parseAllocationStrategy(s string) (AllocationStrategy, bool) {
	switch s {
	case "dynamic":
		return AllocDynamic, true
	case "zero_alloc":
		return AllocZero, true
	case "auto":
		return AllocAuto, true
	default:
		return AllocAuto, false
	}
}

// Config holds every tunable of an AsyncLogger. Zero-value
// fields are replaced by their documented default when passed to New.
type Config struct {
	// QueueCapacity is the SPSC ring buffer's requested capacity, clamped
	// to [256, 1048576] and then rounded up to the next power of two
	// (internal/ringqueue.New).
	QueueCapacity int

	// MinLevel is the minimum level that reaches the queue; records
	// below it are dropped at the producer without ever being enqueued.
	MinLevel Level

	// OutputTarget selects the destination(s) for formatted lines.
	OutputTarget OutputTarget

	// LogFilePath is required when OutputTarget is OutputFile or
	// OutputConsoleAndFile.
	LogFilePath string

	// BatchSize is the worker's pop batch size, clamped to [1, 1000].
	BatchSize int

	// DropRateWarningThresholdPercent triggers a one-shot emergency
	// console warning once the drop rate exceeds it. Values above 100 are
	// clamped to 100; negative values are replaced by the default.
	DropRateWarningThresholdPercent float64

	// TLSFormatBufferSize sizes the per-worker formatting scratch space:
	// the dynamic pool's capacity hint and the Windows UTF-16 scratch.
	// The zero-alloc array (formattingScratch.fixed) has a fixed size.
	TLSFormatBufferSize int

	// EnableStatistics toggles the atomic counters in Statistics.
	EnableStatistics bool

	// AllocationStrategy selects how the worker formats each record.
	AllocationStrategy AllocationStrategy

	// WorkerFileBufferSize sizes the FileBatcher's backing buffer.
	WorkerFileBufferSize int

	// IdleSleepMicros is the worker's idle backoff when the queue is
	// empty, for idle strategies that sleep.
	IdleSleepMicros int

	// Rotation configures file rotation; ignored unless OutputTarget
	// writes to a file.
	Rotation rotation.Config
}

const (
	defaultQueueCapacity        = 16384
	defaultBatchSize            = 100
	defaultWorkerFileBufferSize = 32768
	defaultIdleSleepMicros      = 100
	defaultDropRateWarningPct   = 10.0
	defaultTLSFormatBufferSize  = 4096

	minQueueCapacity = 256
	maxQueueCapacity = 1048576
)

// WithDefaults returns a copy of c with every zero-value field replaced
// by its documented default, and invalid or out-of-range values clamped
// to their documented bounds rather than rejected; each clamp is
// reported on the emergency console path.
func (c Config) WithDefaults() Config {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = defaultQueueCapacity
	}
	if c.QueueCapacity < minQueueCapacity {
		warnClamped("queue_capacity", float64(c.QueueCapacity), minQueueCapacity)
		c.QueueCapacity = minQueueCapacity
	} else if c.QueueCapacity > maxQueueCapacity {
		warnClamped("queue_capacity", float64(c.QueueCapacity), maxQueueCapacity)
		c.QueueCapacity = maxQueueCapacity
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	} else if c.BatchSize > 1000 {
		warnClamped("batch_size", float64(c.BatchSize), 1000)
		c.BatchSize = 1000
	}
	if c.WorkerFileBufferSize <= 0 {
		c.WorkerFileBufferSize = defaultWorkerFileBufferSize
	}
	if c.IdleSleepMicros <= 0 {
		c.IdleSleepMicros = defaultIdleSleepMicros
	}
	if c.DropRateWarningThresholdPercent == 0 {
		c.DropRateWarningThresholdPercent = defaultDropRateWarningPct
	}
	if c.DropRateWarningThresholdPercent < 0 {
		warnClamped("drop_rate_warning_threshold", c.DropRateWarningThresholdPercent, defaultDropRateWarningPct)
		c.DropRateWarningThresholdPercent = defaultDropRateWarningPct
	} else if c.DropRateWarningThresholdPercent > 100 {
		warnClamped("drop_rate_warning_threshold", c.DropRateWarningThresholdPercent, 100)
		c.DropRateWarningThresholdPercent = 100
	}
	if c.TLSFormatBufferSize <= 0 {
		c.TLSFormatBufferSize = defaultTLSFormatBufferSize
	}
	if c.Rotation.MaxAgeDays == 0 {
		c.Rotation.MaxAgeDays = 7
	}
	return c
}

// warnClamped reports an out-of-range value and its replacement on the
// emergency console path.
func warnClamped(key string, got, used float64) {
	emergencyConsole(ErrCodeInvalidConfig,
		fmt.Sprintf("%s = %v is out of range, using %v", key, got, used), nil)
}
