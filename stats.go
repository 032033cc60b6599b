// stats.go: cheap atomic observability counters
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import "sync/atomic"

// Statistics holds the atomic counters the worker and producers update.
type Statistics struct {
	processed atomic.Uint64
	dropped   atomic.Uint64
	rotations atomic.Uint64

	warnOnce atomic.Bool
}

// Snapshot is a point-in-time, non-atomic-across-fields read of the
// counters, plus the derived drop rate.
type Snapshot struct {
	Processed uint64
	Dropped   uint64
	Rotations uint64
	DropRate  float64 // in [0, 1]; 0 when no calls have passed the filter
}

func (s *Statistics) incProcessed() { s.processed.Add(1) }
func (s *Statistics) incDropped()   { s.dropped.Add(1) }
func (s *Statistics) incRotations() { s.rotations.Add(1) }

// Snapshot reads the counters with acquire semantics and computes
// DropRate, guarding the divide-by-zero case.
func (s *Statistics) Snapshot() Snapshot {
	processed := s.processed.Load()
	dropped := s.dropped.Load()
	rotations := s.rotations.Load()

	total := processed + dropped
	var rate float64
	if total > 0 {
		rate = float64(dropped) / float64(total)
	}

	return Snapshot{Processed: processed, Dropped: dropped, Rotations: rotations, DropRate: rate}
}

// checkDropRateWarning emits a one-shot emergency-console warning the
// first time the drop rate exceeds thresholdPercent.
func (s *Statistics) checkDropRateWarning(thresholdPercent float64) {
	snap := s.Snapshot()
	if snap.DropRate*100 <= thresholdPercent {
		return
	}
	if s.warnOnce.CompareAndSwap(false, true) {
		emergencyConsole(ErrCodeDropRateWarning,
			"drop rate exceeds configured warning threshold", nil)
	}
}
