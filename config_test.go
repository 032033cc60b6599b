package nyxlog

import "testing"

func TestConfigWithDefaultsFillsZeroValues(t *testing.T) {
	c := Config{}.WithDefaults()

	if c.QueueCapacity != defaultQueueCapacity {
		t.Errorf("QueueCapacity = %d, want %d", c.QueueCapacity, defaultQueueCapacity)
	}
	if c.BatchSize != defaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", c.BatchSize, defaultBatchSize)
	}
	if c.WorkerFileBufferSize != defaultWorkerFileBufferSize {
		t.Errorf("WorkerFileBufferSize = %d, want %d", c.WorkerFileBufferSize, defaultWorkerFileBufferSize)
	}
	if c.IdleSleepMicros != defaultIdleSleepMicros {
		t.Errorf("IdleSleepMicros = %d, want %d", c.IdleSleepMicros, defaultIdleSleepMicros)
	}
	if c.Rotation.MaxAgeDays != 7 {
		t.Errorf("Rotation.MaxAgeDays = %d, want 7", c.Rotation.MaxAgeDays)
	}
	if c.DropRateWarningThresholdPercent != defaultDropRateWarningPct {
		t.Errorf("DropRateWarningThresholdPercent = %v, want %v", c.DropRateWarningThresholdPercent, defaultDropRateWarningPct)
	}
	if c.TLSFormatBufferSize != defaultTLSFormatBufferSize {
		t.Errorf("TLSFormatBufferSize = %d, want %d", c.TLSFormatBufferSize, defaultTLSFormatBufferSize)
	}
}

func TestConfigWithDefaultsClampsQueueCapacityBelowMinimum(t *testing.T) {
	c := Config{QueueCapacity: 10}.WithDefaults()
	if c.QueueCapacity != minQueueCapacity {
		t.Errorf("QueueCapacity = %d, want clamped to %d", c.QueueCapacity, minQueueCapacity)
	}
}

func TestConfigWithDefaultsClampsQueueCapacityAboveMaximum(t *testing.T) {
	c := Config{QueueCapacity: 1 << 30}.WithDefaults()
	if c.QueueCapacity != maxQueueCapacity {
		t.Errorf("QueueCapacity = %d, want clamped to %d", c.QueueCapacity, maxQueueCapacity)
	}
}

func TestConfigWithDefaultsClampsDropRateWarningThreshold(t *testing.T) {
	low := Config{DropRateWarningThresholdPercent: -5}.WithDefaults()
	if low.DropRateWarningThresholdPercent != defaultDropRateWarningPct {
		t.Errorf("negative threshold = %v, want fallback to default %v", low.DropRateWarningThresholdPercent, defaultDropRateWarningPct)
	}

	high := Config{DropRateWarningThresholdPercent: 500}.WithDefaults()
	if high.DropRateWarningThresholdPercent != 100 {
		t.Errorf("threshold = %v, want clamped to 100", high.DropRateWarningThresholdPercent)
	}
}

func TestConfigWithDefaultsClampsOversizedBatch(t *testing.T) {
	c := Config{BatchSize: 5000}.WithDefaults()
	if c.BatchSize != 1000 {
		t.Errorf("BatchSize = %d, want clamped to 1000", c.BatchSize)
	}
}

func TestConfigWithDefaultsPreservesExplicitValues(t *testing.T) {
	c := Config{QueueCapacity: 4096, BatchSize: 42}.WithDefaults()
	if c.QueueCapacity != 4096 || c.BatchSize != 42 {
		t.Errorf("explicit values overwritten: %+v", c)
	}
}

func TestParseOutputTargetKnownValues(t *testing.T) {
	cases := map[string]OutputTarget{
		"stdout":           OutputStdout,
		"stderr":           OutputStderr,
		"file":             OutputFile,
		"console_and_file": OutputConsoleAndFile,
	}
	for s, want := range cases {
		got, ok := parseOutputTarget(s)
		if !ok || got != want {
			t.Errorf("parseOutputTarget(%q) = (%v, %v), want (%v, true)", s, got, ok, want)
		}
	}
}

func TestParseOutputTargetUnknownFallsBackToStdout(t *testing.T) {
	got, ok := parseOutputTarget("smoke-signal")
	if ok {
		t.Errorf("parseOutputTarget returned ok=true for an unknown value")
	}
	if got != OutputStdout {
		t.Errorf("parseOutputTarget fallback = %v, want OutputStdout", got)
	}
}

func TestParseAllocationStrategyKnownValues(t *testing.T) {
	cases := map[string]AllocationStrategy{
		"dynamic":    AllocDynamic,
		"zero_alloc": AllocZero,
		"auto":       AllocAuto,
	}
	for s, want := range cases {
		got, ok := parseAllocationStrategy(s)
		if !ok || got != want {
			t.Errorf("parseAllocationStrategy(%q) = (%v, %v), want (%v, true)", s, got, ok, want)
		}
	}
}
