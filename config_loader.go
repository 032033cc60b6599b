// config_loader.go: declarative key/value configuration and hot reload
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"

	"github.com/agilira/nyxlog/internal/rotation"
)

func validateConfigPath(filename string) error {
	if filename == "" {
		return fmt.Errorf("empty config path")
	}
	if strings.Contains(filepath.Clean(filename), "..") {
		return fmt.Errorf("config path contains directory traversal: %s", filename)
	}
	return nil
}

// parseKeyValueDocument reads a flat `key = value` document, one
// setting per line. Lines starting with '#' or '_' are comments (the
// underscore form lets a generated default document keep a disabled
// setting visible, e.g. "_rotation_max_age_days = 7"). Blank lines are
// skipped.
func parseKeyValueDocument(r *bufio.Scanner) map[string]string {
	out := make(map[string]string)
	for r.Scan() {
		line := strings.TrimSpace(r.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "_") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if key != "" {
			out[key] = val
		}
	}
	return out
}

// envOverlay replaces the value of each key already present in doc with
// the NYXLOG_<UPPER_KEY> environment variable when one is set. Keys the
// document does not contain are not read from the environment.
func envOverlay(doc map[string]string) map[string]string {
	for k := range doc {
		envKey := "NYXLOG_" + strings.ToUpper(k)
		if v, ok := os.LookupEnv(envKey); ok {
			doc[k] = v
		}
	}
	return doc
}

func docInt(doc map[string]string, key string, dflt int) int {
	v, ok := doc[key]
	if !ok {
		return dflt
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return dflt
	}
	return n
}

func docInt64(doc map[string]string, key string, dflt int64) int64 {
	v, ok := doc[key]
	if !ok {
		return dflt
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return dflt
	}
	return n
}

func docFloat(doc map[string]string, key string, dflt float64) float64 {
	v, ok := doc[key]
	if !ok {
		return dflt
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return dflt
	}
	return n
}

func docBool(doc map[string]string, key string, dflt bool) bool {
	v, ok := doc[key]
	if !ok {
		return dflt
	}
	n, err := strconv.ParseBool(v)
	if err != nil {
		return dflt
	}
	return n
}

// LoadConfigDocument reads filename as a key/value document (see
// parseKeyValueDocument), overlays NYXLOG_* environment variables, and
// builds a Config. Unrecognized enum values fall back to their
// documented default rather than failing the load.
func LoadConfigDocument(filename string) (Config, error) {
	var c Config

	if err := validateConfigPath(filename); err != nil {
		return c, err
	}

	f, err := os.Open(filename) // #nosec G304 -- operator-supplied configuration path
	if err != nil {
		return c, fmt.Errorf("nyxlog: failed to open config document: %w", err)
	}
	defer f.Close()

	doc := envOverlay(parseKeyValueDocument(bufio.NewScanner(f)))

	if lvl, ok := ParseLevel(doc["min_level"]); ok {
		c.MinLevel = lvl
	}
	if target, ok := parseOutputTarget(doc["output_target"]); ok {
		c.OutputTarget = target
	}
	c.LogFilePath = doc["log_file_path"]
	c.AllocationStrategy, _ = parseAllocationStrategy(doc["allocation_strategy"])

	c.QueueCapacity = docInt(doc, "queue_capacity", 0)
	c.BatchSize = docInt(doc, "batch_size", 0)
	c.WorkerFileBufferSize = docInt(doc, "worker_file_buffer_size", 0)
	c.IdleSleepMicros = docInt(doc, "idle_sleep_us", 0)
	c.DropRateWarningThresholdPercent = docFloat(doc, "drop_rate_warning_threshold", 0)
	c.TLSFormatBufferSize = docInt(doc, "tls_format_buffer_size", 0)
	c.EnableStatistics = docBool(doc, "enable_statistics", true)

	c.Rotation.MaxFileSize = docInt64(doc, "rotation_max_file_size", 0)
	c.Rotation.MaxBackupFiles = docInt(doc, "rotation_max_backup_files", 0)
	c.Rotation.MaxTotalSize = docInt64(doc, "rotation_max_total_size", 0)
	c.Rotation.MaxAgeDays = docInt(doc, "rotation_max_age_days", 0)
	c.Rotation.EnableCompression = docBool(doc, "rotation_enable_compression", false)
	c.Rotation.EnableChecksum = docBool(doc, "rotation_enable_checksum", false)
	switch doc["rotation_strategy"] {
	case "size":
		c.Rotation.Strategy = rotation.SizeBased
	case "time":
		c.Rotation.Strategy = rotation.TimeBased
	case "hybrid":
		c.Rotation.Strategy = rotation.Hybrid
	default:
		c.Rotation.Strategy = rotation.Disabled
	}
	switch doc["rotation_naming_style"] {
	case "numbered":
		c.Rotation.NamingStyle = rotation.Numbered
	default:
		c.Rotation.NamingStyle = rotation.Timestamp
	}
	c.Rotation.CustomIntervalSeconds = docInt64(doc, "rotation_custom_interval_seconds", 0)
	switch doc["rotation_time_interval"] {
	case "hourly":
		c.Rotation.TimeInterval = rotation.Hourly
	case "weekly":
		c.Rotation.TimeInterval = rotation.Weekly
	case "custom":
		c.Rotation.TimeInterval = rotation.Custom
	default:
		c.Rotation.TimeInterval = rotation.Daily
	}

	return c.WithDefaults(), nil
}

// GenerateDefaultDocument writes a commented default configuration
// document to filename, using underscore-prefixed keys so every
// setting is visible but inert until uncommented.
func GenerateDefaultDocument(filename string) error {
	const doc = `# nyxlog configuration document
# Uncomment a line (drop the leading underscore) to override the default.
_queue_capacity = 16384
_min_level = info
_output_target = stdout
_log_file_path =
_batch_size = 100
_drop_rate_warning_threshold = 10.0
_enable_statistics = true
_allocation_strategy = auto
_worker_file_buffer_size = 32768
_tls_format_buffer_size = 4096
_idle_sleep_us = 100
_rotation_strategy = size
_rotation_max_file_size = 104857600
_rotation_max_backup_files = 10
_rotation_max_total_size = 0
_rotation_max_age_days = 7
_rotation_time_interval = daily
_rotation_custom_interval_seconds = 0
_rotation_enable_compression = false
_rotation_enable_checksum = false
_rotation_naming_style = timestamp
`
	return os.WriteFile(filename, []byte(doc), 0600)
}

// ConfigWatcher hot-reloads min_level changes from a configuration
// document using argus's polling file watcher, so an operator can
// change verbosity without restarting a long-running process.
type ConfigWatcher struct {
	path    string
	level   *AtomicLevel
	watcher *argus.Watcher
	started atomic.Bool
	mu      sync.Mutex
}

// NewConfigWatcher builds a watcher that keeps level in sync with the
// min_level setting in the document at path.
func NewConfigWatcher(path string, level *AtomicLevel) (*ConfigWatcher, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("nyxlog: config document does not exist: %w", err)
	}

	cfg := argus.Config{
		PollInterval:         2 * time.Second,
		OptimizationStrategy: argus.OptimizationAuto,
		ErrorHandler: func(err error, p string) {
			emergencyConsole(ErrCodeInvalidConfig,
				fmt.Sprintf("config watcher error for %s: %v", p, err), err)
		},
	}

	return &ConfigWatcher{
		path:    path,
		level:   level,
		watcher: argus.New(*cfg.WithDefaults()),
	}, nil
}

// Start begins watching. It applies the document's current min_level
// immediately, then on every subsequent change.
func (w *ConfigWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started.Load() {
		return fmt.Errorf("nyxlog: config watcher already started")
	}

	if cfg, err := LoadConfigDocument(w.path); err == nil {
		w.level.Store(cfg.MinLevel)
	}

	err := w.watcher.Watch(w.path, func(event argus.ChangeEvent) {
		cfg, err := LoadConfigDocument(event.Path)
		if err != nil {
			emergencyConsole(ErrCodeInvalidConfig,
				fmt.Sprintf("failed to reload config from %s", event.Path), err)
			return
		}
		w.level.Store(cfg.MinLevel)
	})
	if err != nil {
		return fmt.Errorf("nyxlog: failed to watch config document: %w", err)
	}

	if err := w.watcher.Start(); err != nil {
		return fmt.Errorf("nyxlog: failed to start config watcher: %w", err)
	}
	w.started.Store(true)
	return nil
}

// Stop stops the underlying watcher.
func (w *ConfigWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started.Load() {
		return nil
	}
	w.started.Store(false)
	return w.watcher.Stop()
}
