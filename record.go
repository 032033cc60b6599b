// record.go: the fixed-size value enqueued onto the ring queue
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package nyxlog

// payloadCapacity is the fixed ceiling for a record's formatted
// payload; oversize input is truncated with a literal
// "[TRUNCATED]" suffix that fits within this capacity.
const payloadCapacity = 1024

const truncatedSuffix = "[TRUNCATED]"

// Record is the trivially-copyable value carried by the ring queue: a
// level, a nanosecond timestamp, and a bounded payload. It is immutable
// once enqueued.
type Record struct {
	Level       Level
	TimestampNS int64
	Payload     [payloadCapacity]byte
	Len         int
}

// MakeRecord copies up to payloadCapacity bytes of src into a Record.
// If src is longer than the capacity, it is truncated and the literal
// suffix "[TRUNCATED]" is appended in place of the last bytes so the
// final length never exceeds the capacity.
func MakeRecord(level Level, timestampNS int64, src []byte) Record {
	var r Record
	r.Level = level
	r.TimestampNS = timestampNS

	if len(src) <= payloadCapacity {
		r.Len = copy(r.Payload[:], src)
		return r
	}

	cut := payloadCapacity - len(truncatedSuffix)
	if cut < 0 {
		cut = 0
	}
	n := copy(r.Payload[:cut], src[:cut])
	n += copy(r.Payload[n:], truncatedSuffix)
	r.Len = n
	return r
}

// Truncated reports whether this record's payload was shortened at
// construction time.
func (r *Record) Truncated() bool {
	return r.Len >= len(truncatedSuffix) &&
		string(r.Payload[r.Len-len(truncatedSuffix):r.Len]) == truncatedSuffix &&
		r.Len == payloadCapacity
}

// Bytes returns the live slice of the payload.
func (r *Record) Bytes() []byte { return r.Payload[:r.Len] }
