// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/tfctl/csvfilter/internal/filters"
)

// Dataset is a rendered view of a filter result.
type Dataset struct {
	// Header is the raw header line, empty when the source has none.
	Header string
	// HasHeader reports whether Header was read from the source. The line
	// itself may be empty.
	HasHeader bool
	// Columns names every field position, unique. Blank header names and
	// fields past the end of the header are col1, col2, ... and repeated
	// names get a _2, _3 suffix.
	Columns []string
	// Types are the declared column type tags, one per column.
	Types []string
	// Lines are the raw matched data lines.
	Lines []string
	// Rows are Lines split on the delimiter.
	Rows [][]string
}

// NewDataset splits lines on delim and names the columns from header.
func NewDataset(header string, hasHeader bool, lines []string, delim rune, types []string) Dataset {
	ds := Dataset{Lines: lines}

	var names []string
	if hasHeader {
		ds.Header = header
		ds.HasHeader = true
		names = filters.Split(header, delim)
	}

	width := len(names)
	for _, line := range lines {
		row := filters.Split(line, delim)
		ds.Rows = append(ds.Rows, row)
		if len(row) > width {
			width = len(row)
		}
	}

	for len(names) < width {
		names = append(names, "")
	}
	ds.Columns = columnNames(names)
	ds.Types = expandTypes(types, width)

	return ds
}

// columnNames trims names and makes them unique.
func columnNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			n = fmt.Sprintf("col%d", i+1)
		}
		name := n
		for k := 2; seen[name]; k++ {
			name = fmt.Sprintf("%s_%d", n, k)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// expandTypes aligns type tags with columns. Tag i belongs to column i and
// the last tag carries over to any remaining columns.
func expandTypes(types []string, width int) []string {
	if len(types) == 0 {
		types = []string{"string"}
	}
	out := make([]string, width)
	for i := range out {
		if i < len(types) {
			out[i] = types[i]
		} else {
			out[i] = types[len(types)-1]
		}
	}
	return out
}

// Record is one row as column/value pairs in column order.
type Record yaml.MapSlice

// MarshalJSON writes the record as an object, keeping column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records returns the rows keyed by column name. Missing fields are omitted.
func (ds Dataset) Records() []Record {
	records := make([]Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		rec := make(Record, 0, len(row))
		for i, v := range row {
			rec = append(rec, yaml.MapItem{Key: ds.Columns[i], Value: v})
		}
		records = append(records, rec)
	}
	return records
}
