// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apex/log"

	"github.com/tfctl/csvfilter/internal/filters"
	"github.com/tfctl/csvfilter/internal/output"
	"github.com/tfctl/csvfilter/internal/source"
	"github.com/tfctl/csvfilter/internal/stream"
)

// ErrNoHeader is returned when column mode runs against a source without a
// header, since there is nothing to resolve names against.
var ErrNoHeader = errors.New("column filtering requires a header")

// State is a step of the engine's state machine.
type State int

const (
	AwaitHeader State = iota
	ResolveColumns
	StreamRows
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitHeader:
		return "AwaitHeader"
	case ResolveColumns:
		return "ResolveColumns"
	case StreamRows:
		return "StreamRows"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mode selects how rows are matched.
type Mode int

const (
	// ModeColumns matches each query against its named column.
	ModeColumns Mode = iota
	// ModeAny matches each query against any field of the row.
	ModeAny
)

// FlushPolicy decides when the accumulator is handed to the sink.
type FlushPolicy int

const (
	// FlushEveryRow rewrites the output after every data line.
	FlushEveryRow FlushPolicy = iota
	// FlushAtEnd writes the output once when the stream is exhausted.
	FlushAtEnd
)

// ParseFlushPolicy maps "row" and "end" to a FlushPolicy.
func ParseFlushPolicy(s string) (FlushPolicy, error) {
	switch s {
	case "", "row":
		return FlushEveryRow, nil
	case "end":
		return FlushAtEnd, nil
	default:
		return FlushEveryRow, fmt.Errorf("invalid flush policy %q, must be row or end", s)
	}
}

// Spec is what to filter for and where to put it. Columns and Queries are
// consumed pairwise and must have the same length in ModeColumns.
type Spec struct {
	Columns       []string
	Queries       []string
	OutputPath    string
	Mode          Mode
	Flush         FlushPolicy
	SkipShortRows bool
}

// Result is the outcome of a completed run.
type Result struct {
	// Header is the captured header line, empty without one.
	Header string
	// HasHeader reports whether Rows starts with Header. It is false when
	// the source has no header or its header line could not be decoded.
	HasHeader bool
	// Rows is the accumulator: the header line when captured, then every
	// matched line verbatim in stream order.
	Rows []string
	// Scanned counts data lines read, excluding the header.
	Scanned int
	// Matched counts data lines kept.
	Matched int
	// Skipped counts undecodable and short lines that were passed over.
	Skipped int
	// Persisted reports whether the sink was written.
	Persisted bool
}

// Data returns the matched lines without the header.
func (r Result) Data() []string {
	if r.HasHeader && len(r.Rows) > 0 {
		return r.Rows[1:]
	}
	return r.Rows
}

// Sink receives the full accumulator, split into fields, at each flush.
type Sink interface {
	Write(rows [][]string) error
}

// Engine runs one filter invocation.
type Engine struct {
	desc  source.Descriptor
	spec  Spec
	sink  Sink
	state State
}

// New returns an engine for desc and spec. When spec.OutputPath is set and
// sink is nil, a CSV file sink for that path is used.
func New(desc source.Descriptor, spec Spec, sink Sink) *Engine {
	if sink == nil && spec.OutputPath != "" {
		sink = output.NewCSVSink(spec.OutputPath)
	}
	return &Engine{desc: desc, spec: spec, sink: sink, state: AwaitHeader}
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) transition(to State) {
	log.Debugf("engine: %s -> %s", e.state, to)
	e.state = to
}

func (e *Engine) fail(err error) error {
	e.transition(Failed)
	return err
}

// Run consumes ls to exhaustion, or until the first fatal error, and closes
// it before returning. ctx is checked between lines.
func (e *Engine) Run(ctx context.Context, ls stream.LineStream) (Result, error) {
	defer ls.Close()

	var (
		res    Result
		lineNo int
		delim  = e.desc.Delimiter()
	)

	// AwaitHeader
	if e.desc.HasHeader() {
		header, err := ls.Next()
		switch {
		case errors.Is(err, io.EOF):
			// Nothing at all to read.
			return e.finish(res)
		case errors.Is(err, stream.ErrInvalidLine):
			// The line is still the header position, so it is not data.
			lineNo++
			log.WithError(err).Warn("skipping undecodable header")
			res.Skipped++
		case err != nil:
			return res, e.fail(fmt.Errorf("reading header: %w", err))
		default:
			lineNo++
			res.Header = header
			res.HasHeader = true
			res.Rows = append(res.Rows, header)
			log.Debugf("engine: header=%q", header)
		}
	}

	// ResolveColumns
	var pred filters.Predicate
	switch e.spec.Mode {
	case ModeAny:
		pred = filters.AnyPredicate{Queries: e.spec.Queries}
	default:
		e.transition(ResolveColumns)
		if !e.desc.HasHeader() {
			return res, e.fail(ErrNoHeader)
		}
		indices, err := filters.Resolve(res.Header, e.spec.Columns, delim)
		if err != nil {
			return res, e.fail(err)
		}
		pred = filters.ColumnPredicate{Indices: indices, Queries: e.spec.Queries}
	}

	// StreamRows
	e.transition(StreamRows)
	for {
		if err := ctx.Err(); err != nil {
			return res, e.fail(err)
		}

		line, err := ls.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNo++
		if errors.Is(err, stream.ErrInvalidLine) {
			log.WithError(err).Warn("skipping line")
			res.Skipped++
			continue
		}
		if err != nil {
			return res, e.fail(err)
		}
		res.Scanned++

		ok, err := pred.Match(filters.Split(line, delim))
		if err != nil {
			var shapeErr *filters.RowShapeError
			if errors.As(err, &shapeErr) {
				shapeErr.Line = lineNo
				if e.spec.SkipShortRows {
					log.WithError(shapeErr).Warn("skipping short row")
					res.Skipped++
					continue
				}
			}
			return res, e.fail(err)
		}

		if ok {
			res.Rows = append(res.Rows, line)
			res.Matched++
		}

		if e.spec.Flush == FlushEveryRow {
			if err := e.flush(&res); err != nil {
				return res, e.fail(err)
			}
		}
	}

	return e.finish(res)
}

// finish makes sure the sink has been written at least once, and in full for
// FlushAtEnd, then moves to Done.
func (e *Engine) finish(res Result) (Result, error) {
	if e.spec.Flush == FlushAtEnd || !res.Persisted {
		if err := e.flush(&res); err != nil {
			return res, e.fail(err)
		}
	}
	e.transition(Done)
	log.Debugf("engine: scanned=%d matched=%d skipped=%d", res.Scanned, res.Matched, res.Skipped)
	return res, nil
}

func (e *Engine) flush(res *Result) error {
	if e.sink == nil {
		return nil
	}

	rows := make([][]string, 0, len(res.Rows))
	for _, line := range res.Rows {
		rows = append(rows, filters.Split(line, e.desc.Delimiter()))
	}
	if err := e.sink.Write(rows); err != nil {
		return err
	}
	res.Persisted = true
	return nil
}
