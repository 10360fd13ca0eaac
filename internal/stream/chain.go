// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package stream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tfctl/csvfilter/internal/log"
	"github.com/tfctl/csvfilter/internal/source"
)

// chainStream reads paths back to back. Only one file is open at a time;
// later files are opened when the previous one is exhausted.
type chainStream struct {
	paths []string
	idx   int
	skip  int64
	cur   *os.File
	r     *lineReader
}

// OpenChain builds a stream over paths in order. When skipHeader is set the
// byte length of the first file's first line is measured and every later file
// is entered past that many bytes. The first file is opened immediately so
// that a bad source fails here rather than mid-stream. No paths yields an
// empty stream.
func OpenChain(paths []string, skipHeader bool) (LineStream, error) {
	cs := &chainStream{paths: paths}
	if len(paths) == 0 {
		return cs, nil
	}

	if skipHeader {
		header, err := source.ReadHeader(paths[0])
		if err != nil {
			return nil, &source.OpenError{Path: paths[0], Err: err}
		}
		cs.skip = int64(len(header))
	}

	if err := cs.open(); err != nil {
		return nil, err
	}
	log.Debugf("chain opened: files=%d skip=%d", len(paths), cs.skip)
	return cs, nil
}

// open opens paths[idx], seeking past the header for every file but the
// first.
func (cs *chainStream) open() error {
	path := cs.paths[cs.idx]
	f, err := os.Open(path)
	if err != nil {
		return &source.OpenError{Path: path, Err: err}
	}

	if cs.idx > 0 && cs.skip > 0 {
		if _, err := f.Seek(cs.skip, io.SeekStart); err != nil {
			f.Close()
			return &source.OpenError{Path: path, Err: err}
		}
	}

	cs.cur = f
	cs.r = newLineReader(f)
	log.Tracef("chain file %d/%d: %s", cs.idx+1, len(cs.paths), path)
	return nil
}

func (cs *chainStream) Next() (string, error) {
	for {
		if cs.cur == nil {
			if cs.idx >= len(cs.paths) {
				return "", io.EOF
			}
			if err := cs.open(); err != nil {
				return "", err
			}
		}

		line, err := cs.r.next()
		switch {
		case err == nil, errors.Is(err, ErrInvalidLine):
			if err != nil {
				err = fmt.Errorf("%s: %w", cs.paths[cs.idx], err)
			}
			return line, err
		case errors.Is(err, io.EOF):
			cs.cur.Close()
			cs.cur = nil
			cs.idx++
		default:
			return "", fmt.Errorf("reading %s: %w", cs.paths[cs.idx], err)
		}
	}
}

func (cs *chainStream) Close() error {
	cs.idx = len(cs.paths)
	if cs.cur == nil {
		return nil
	}
	err := cs.cur.Close()
	cs.cur = nil
	return err
}
