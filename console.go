// console.go: ANSI line formatting and the per-platform console path
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

import (
	"runtime"
	"strconv"
	"unicode/utf8"
)

// levelColor returns the ANSI SGR color code for a level.
func levelColor(l Level) string {
	switch l {
	case Debug:
		return "36" // cyan
	case Info:
		return "32" // green
	case Warn:
		return "33" // yellow
	default:
		return "31" // red
	}
}

// appendLine renders one record into dst following the bit-exact
// line format:
//
//	<color>[<seconds>.<nanos:9>] <color><LEVEL><reset> <payload>\n
//
// dst must already be sized by the caller (the worker's pre-allocated
// format buffer in zero-alloc mode); appendLine never allocates beyond
// what append() needs when dst's capacity is insufficient, and the
// worker always hands it a buffer with headroom.
func appendLine(dst []byte, r *Record) []byte {
	color := levelColor(r.Level)
	seconds := r.TimestampNS / 1_000_000_000
	nanos := r.TimestampNS % 1_000_000_000

	dst = append(dst, "\x1b["...)
	dst = append(dst, color...)
	dst = append(dst, "m["...)
	dst = strconv.AppendInt(dst, seconds, 10)
	dst = append(dst, '.')
	dst = appendZeroPadded9(dst, nanos)
	dst = append(dst, "] \x1b["...)
	dst = append(dst, color...)
	dst = append(dst, 'm')
	dst = append(dst, r.Level.String()...)
	dst = append(dst, "\x1b[0m "...)
	dst = append(dst, r.Bytes()...)
	dst = append(dst, '\n')
	return dst
}

func appendZeroPadded9(dst []byte, v int64) []byte {
	start := len(dst)
	dst = strconv.AppendInt(dst, v, 10)
	written := len(dst) - start
	if written >= 9 {
		return dst
	}
	// Shift the digits right and zero-pad on the left, in place.
	pad := 9 - written
	dst = append(dst, make([]byte, pad)...)
	copy(dst[start+pad:], dst[start:start+written])
	for i := 0; i < pad; i++ {
		dst[start+i] = '0'
	}
	return dst
}

// writeConsole emits line to the console WriteSyncer, dispatching per
// platform: UTF-8 direct on Unix, a manual UTF-16 conversion (with
// surrogate pairs) into scratch on Windows. Non-Windows builds never
// allocate the UTF-16 scratch.
func writeConsole(w WriteSyncer, line []byte, utf16Scratch []uint16) error {
	if runtime.GOOS != "windows" {
		_, err := w.Write(line)
		return err
	}
	return writeConsoleWindows(w, line, utf16Scratch)
}

// writeConsoleWindows converts line to UTF-16LE using the caller's
// scratch buffer and writes the resulting bytes. Kept free of
// windows-only syscalls so the runtime GOOS dispatch in writeConsole
// does not force a build-tag split.
func writeConsoleWindows(w WriteSyncer, line []byte, utf16Scratch []uint16) error {
	units := encodeUTF16(utf16Scratch, line)
	buf := make([]byte, 0, len(units)*2)
	for _, u := range units {
		buf = append(buf, byte(u), byte(u>>8))
	}
	_, err := w.Write(buf)
	return err
}

// encodeUTF16 decodes UTF-8 src into the pre-allocated dst scratch,
// emitting surrogate pairs for code points >= 0x10000 and truncating
// with "..." if dst is exhausted.
func encodeUTF16(dst []uint16, src []byte) []uint16 {
	out := dst[:0]
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		src = src[size:]

		if r == utf8.RuneError && size == 1 {
			r = 0xFFFD
		}

		need := 1
		if r >= 0x10000 {
			need = 2
		}
		if len(out)+need > cap(dst) {
			// Drop trailing units to make room for "...", never splitting
			// a surrogate pair; a scratch under 3 units is left as is.
			if cap(dst) >= 3 {
				keep := cap(dst) - 3
				if keep > 0 && out[keep-1] >= 0xD800 && out[keep-1] <= 0xDBFF {
					keep--
				}
				out = append(out[:keep], '.', '.', '.')
			}
			break
		}

		if r < 0x10000 {
			out = append(out, uint16(r))
		} else {
			r -= 0x10000
			hi := uint16(0xD800 + (r >> 10))
			lo := uint16(0xDC00 + (r & 0x3FF))
			out = append(out, hi, lo)
		}
	}
	return out
}
