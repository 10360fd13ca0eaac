// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import "fmt"

// ColumnNotFoundError reports a requested column that is absent from the
// header.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in header", e.Name)
}

// RowShapeError reports a row with fewer fields than a resolved column
// index requires. Line is the 1-based logical line number when known.
type RowShapeError struct {
	Line   int
	Index  int
	Fields int
}

func (e *RowShapeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d has %d fields, column index %d is out of range", e.Line, e.Fields, e.Index)
	}
	return fmt.Sprintf("row has %d fields, column index %d is out of range", e.Fields, e.Index)
}
