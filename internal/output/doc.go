// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output writes matched rows to files and renders them on the
// console.
//
// The file sink (WriteCSV, CSVSink) is deliberately dumb: every call
// truncates the destination and rewrites all rows, fields joined by a comma,
// each row followed by a newline.
//
// Console rendering (Render) supports text tables, raw lines, JSON and YAML,
// with optional sorting that never affects what is written to file.
package output
