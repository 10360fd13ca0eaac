// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tfctl/csvfilter/internal/source"
)

// StdinPath selects standard input as a single-file source.
const StdinPath = "-"

// ErrInvalidLine marks a line that could not be decoded. It is recoverable.
var ErrInvalidLine = errors.New("line is not valid UTF-8")

// LineStream yields lines one at a time until io.EOF. Close must be called
// on every exit path and is safe to call more than once.
type LineStream interface {
	Next() (string, error)
	Close() error
}

// Open builds the stream for d. Glob paths are expanded and chained, literal
// paths are read as a single file.
func Open(d source.Descriptor, expand source.ExpandFunc) (LineStream, error) {
	if d.Path() == StdinPath {
		return FromReader(StdinPath, io.NopCloser(os.Stdin)), nil
	}

	paths, err := expand(d.Path())
	if err != nil {
		var openErr *source.OpenError
		if !errors.As(err, &openErr) {
			err = &source.OpenError{Path: d.Path(), Err: err}
		}
		return nil, err
	}

	if d.IsGlob() {
		return OpenChain(paths, d.HasHeader())
	}

	if len(paths) == 0 {
		return nil, &source.OpenError{Path: d.Path(), Err: os.ErrNotExist}
	}
	return OpenFile(paths[0])
}

// OpenFile opens a single file stream.
func OpenFile(path string) (LineStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &source.OpenError{Path: path, Err: err}
	}
	return FromReader(path, f), nil
}

// FromReader wraps rc as a single-source stream. name is used in errors.
func FromReader(name string, rc io.ReadCloser) LineStream {
	return &fileStream{name: name, rc: rc, r: newLineReader(rc)}
}

// fileStream reads one underlying source.
type fileStream struct {
	name string
	rc   io.ReadCloser
	r    *lineReader
}

func (s *fileStream) Next() (string, error) {
	if s.rc == nil {
		return "", io.EOF
	}
	line, err := s.r.next()
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, ErrInvalidLine) {
		err = fmt.Errorf("reading %s: %w", s.name, err)
	}
	return line, err
}

func (s *fileStream) Close() error {
	if s.rc == nil {
		return nil
	}
	err := s.rc.Close()
	s.rc = nil
	return err
}

// lineReader splits a reader into lines and tracks the line number.
type lineReader struct {
	br   *bufio.Reader
	line int
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReader(r)}
}

// next returns the next line without its terminator.
func (lr *lineReader) next() (string, error) {
	raw, err := lr.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if raw == "" {
		return "", io.EOF
	}
	lr.line++

	line := strings.TrimSuffix(raw, "\n")
	line = strings.TrimSuffix(line, "\r")

	if !utf8.ValidString(line) {
		return "", fmt.Errorf("line %d: %w", lr.line, ErrInvalidLine)
	}
	return line, nil
}
