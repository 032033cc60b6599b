// errors.go: structured error codes and the emergency console path
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/agilira/go-errors"
)

// Error codes, namespaced per component.
const (
	ErrCodeCapacityTooLarge errors.ErrorCode = "NYXLOG_QUEUE_CAPACITY_TOO_LARGE"
	ErrCodeOutOfMemory      errors.ErrorCode = "NYXLOG_INIT_OUT_OF_MEMORY"
	ErrCodeFileOpenFailure  errors.ErrorCode = "NYXLOG_FILE_OPEN_FAILURE"
	ErrCodeFileWriteFailure errors.ErrorCode = "NYXLOG_FILE_WRITE_FAILURE"
	ErrCodeInvalidConfig    errors.ErrorCode = "NYXLOG_CONFIG_INVALID_VALUE"
	ErrCodeDropRateWarning  errors.ErrorCode = "NYXLOG_STATS_DROP_RATE_WARNING"
)

// ErrorHandler receives errors the logger cannot surface synchronously
// to its caller: file I/O failures, rotation rename failures, and
// out-of-range configuration values. This is the emergency console
// path, kept entirely separate from the logger's own output so an
// internal failure can never recurse into the hot path it is
// reporting on.
type ErrorHandler func(err *errors.Error)

var defaultErrorHandler ErrorHandler = func(err *errors.Error) {
	fmt.Fprintf(os.Stderr, "[nyxlog] %s: %s\n", err.Code, err.Message)
	if err.Cause != nil {
		fmt.Fprintf(os.Stderr, "[nyxlog] caused by: %v\n", err.Cause)
	}
}

// currentErrorHandler is read from the worker goroutine and written from
// any producer goroutine calling SetErrorHandler; atomic.Value gives
// both sides a consistent view without a mutex on the read path.
var currentErrorHandler atomic.Value // ErrorHandler

func init() {
	currentErrorHandler.Store(defaultErrorHandler)
}

// SetErrorHandler installs a custom handler for the emergency console
// path. Passing nil restores the default stderr handler. Safe to call
// concurrently with logging.
func SetErrorHandler(handler ErrorHandler) {
	if handler == nil {
		handler = defaultErrorHandler
	}
	currentErrorHandler.Store(handler)
}

// emergencyConsole reports a best-effort internal failure without ever
// going back through the logger itself.
func emergencyConsole(code errors.ErrorCode, message string, cause error) {
	var err *errors.Error
	if cause != nil {
		err = errors.Wrap(cause, code, message)
	} else {
		err = errors.New(code, message)
	}
	currentErrorHandler.Load().(ErrorHandler)(err)
}
