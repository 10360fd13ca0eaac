// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package stream provides forward-only, single-pass line streams over one
// file or over a glob of files read back to back.
//
// A chained stream emits the first file from its first byte, header
// included. Every later file is entered past a byte offset equal to the
// length of the first file's header line, so its own header never appears.
// That only lines up when all headers are byte-identical, which is what
// source.Validate checks.
//
// Lines are returned without their terminator. A line that is not valid
// UTF-8 is reported with an error wrapping ErrInvalidLine; the stream stays
// usable and the caller decides whether to skip it.
package stream
