// sink.go: writer synchronization primitives for console/file emission
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import (
	"io"
	"os"
)

// WriteSyncer combines io.Writer with the ability to flush written data
// to persistent storage.
type WriteSyncer interface {
	io.Writer
	Sync() error
}

type nopSyncer struct{ io.Writer }

func (nopSyncer) Sync() error { return nil }

type fileSyncer struct{ *os.File }

func (f fileSyncer) Sync() error { return f.File.Sync() }

// WrapWriter converts any io.Writer into a WriteSyncer: *os.File gets
// an explicit fsync, an existing WriteSyncer passes through unchanged,
// anything else gets a no-op Sync.
func WrapWriter(w io.Writer) WriteSyncer {
	switch t := w.(type) {
	case *os.File:
		return fileSyncer{t}
	case WriteSyncer:
		return t
	default:
		return nopSyncer{w}
	}
}

// multiWS fans out writes to every configured syncer and remembers
// only the first error: every syncer is attempted regardless of an
// earlier one failing.
type multiWS struct{ ws []WriteSyncer }

// MultiWriteSyncer duplicates writes to multiple WriteSyncers.
func MultiWriteSyncer(writers ...WriteSyncer) WriteSyncer {
	cp := make([]WriteSyncer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			cp = append(cp, w)
		}
	}
	return &multiWS{ws: cp}
}

func (m *multiWS) Write(p []byte) (int, error) {
	var firstErr error
	for _, w := range m.ws {
		if _, err := w.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return 0, firstErr
	}
	return len(p), nil
}

func (m *multiWS) Sync() error {
	var firstErr error
	for _, w := range m.ws {
		if err := w.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// StdoutWriteSyncer and StderrWriteSyncer are the standard console
// destinations.
var (
	StdoutWriteSyncer = WrapWriter(os.Stdout)
	StderrWriteSyncer = WrapWriter(os.Stderr)
)

// NewFileWriteSyncer opens (creating if absent) path for appending and
// wraps it as a WriteSyncer. File-open failures are the caller's to
// report through the emergency console path.
func NewFileWriteSyncer(path string) (WriteSyncer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644) // #nosec G304 -- path is operator-supplied configuration, not external input
	if err != nil {
		return nil, err
	}
	return fileSyncer{f}, nil
}
