// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters decides which rows of a delimited file are kept.
//
// Rows and headers are split naively on the delimiter. Quoted fields that
// contain the delimiter are not understood; "1,\"a,b\",2" is four fields.
//
// Column mode:
//
// Resolve maps requested column names to positions using the header line.
// Header fields are trimmed before comparison and the first matching field
// wins. A name that is not present fails the whole resolution with a
// ColumnNotFoundError; no partial index set is returned.
//
// A ColumnPredicate then keeps a row only when, for every (index, query)
// pair, the trimmed field at index equals query exactly. Pairs are checked
// in order and the first mismatch stops evaluation. A row too short to hold
// a resolved index yields a RowShapeError.
//
// Any mode:
//
// An AnyPredicate ignores column names. A row is kept when every query
// value equals at least one trimmed field somewhere in the row.
//
// Filter specs:
//
// BuildFilters parses the "--where" shorthand, a comma-delimited list of
// column=value pairs such as "region=emea,tier=gold", into Filters. The
// delimiter can be overridden with CSVFILTER_FILTER_DELIM for values that
// contain commas. Malformed entries are logged and skipped.
package filters
