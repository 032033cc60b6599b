// presets.go: process-wide default logger convenience
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import (
	"fmt"
	"os"
	"sync"
)

var (
	defaultLogger     *Logger
	defaultLoggerOnce sync.Once
)

// Default returns the process-wide default logger, constructing it
// with documented defaults (stdout, Info level) on first use (spec
// §4.10). Panics if construction fails: a process that cannot open
// stdout has no path to report the failure either.
func Default() *Logger {
	defaultLoggerOnce.Do(func() {
		l, err := New(Config{OutputTarget: OutputStdout, MinLevel: Info})
		if err != nil {
			fmt.Fprintf(os.Stderr, "[nyxlog] failed to construct default logger: %v\n", err)
			panic(err)
		}
		defaultLogger = l
	})
	return defaultLogger
}

// DebugMsg, InfoMsg, WarnMsg and ErrorMsg log through the process-wide default
// logger, for callers that do not need an explicit Logger instance.
func DebugMsg(payload []byte) { Default().Debug(payload) }
func InfoMsg(payload []byte)  { Default().Info(payload) }
func WarnMsg(payload []byte)  { Default().Warn(payload) }
func ErrorMsg(payload []byte) { Default().Error(payload) }
