// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
)

// FieldSeparator joins fields in files written by the sink, whatever the
// input delimiter was.
const FieldSeparator = ","

// WriteError reports a failure to create or write the destination file.
// Partially written files are left in place.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write output %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// CSVSink writes row sets to a fixed path.
type CSVSink struct {
	Path string
	// writes counts successful Write calls.
	writes int
}

// NewCSVSink returns a sink for path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{Path: path}
}

// Write replaces the file contents with rows.
func (s *CSVSink) Write(rows [][]string) error {
	if err := WriteCSV(s.Path, rows); err != nil {
		return err
	}
	s.writes++
	log.Debugf("sink: path=%s rows=%d writes=%d", s.Path, len(rows), s.writes)
	return nil
}

// WriteCSV creates or truncates path and writes every row as its fields
// joined by FieldSeparator, each followed by a newline.
func WriteCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	w := bufio.NewWriter(f)
	for _, row := range rows {
		if _, err := w.WriteString(strings.Join(row, FieldSeparator) + "\n"); err != nil {
			f.Close()
			return &WriteError{Path: path, Err: err}
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
