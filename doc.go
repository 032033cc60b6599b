// Package nyxlog is a bounded-latency, drop-tolerant asynchronous
// logger built for high-throughput embedded and IoT targets: a
// lock-free SPSC ring buffer decouples producers from a single
// consumer goroutine that formats and writes records, so a slow disk
// or console never stalls the hot path.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package nyxlog
