// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source describes where rows come from.
//
// A Descriptor names one logical dataset: a literal file path or a glob
// pattern, the field delimiter, whether the first line is a header, and the
// declared column type tags. Descriptors are immutable values and may be
// shared freely.
//
// Glob patterns are expanded by an ExpandFunc. LocalExpand handles the local
// filesystem (including "**"); other expanders, such as the S3 one in package
// fetch, materialize remote objects and return local paths so the rest of the
// pipeline never needs to know where the bytes came from.
//
// Validate runs the multi-file checks that must hold before a glob can be
// streamed as one logical file: the pattern must end in ".csv" and, when a
// header is expected, every matched file must start with a byte-identical
// header line.
package source
