// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package engine drives a line stream through header capture, column
// resolution and per-row matching.
//
// An Engine is a small state machine:
//
//	AwaitHeader -> ResolveColumns -> StreamRows -> Done
//
// with Failed reachable from every state. Matched rows accumulate in memory,
// header first, and are handed to a Sink according to the FlushPolicy.
package engine
