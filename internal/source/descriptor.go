// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultDelimiter separates fields when none is configured.
const DefaultDelimiter = ','

// globChars mark a path as a pattern rather than a literal file.
const globChars = "*?["

// Descriptor is an immutable description of one logical dataset.
type Descriptor struct {
	path        string
	delimiter   rune
	hasHeader   bool
	columnTypes []string
}

// Option customizes a Descriptor at construction time.
type Option func(*Descriptor)

// New builds a Descriptor for path. Without options the delimiter is a comma,
// a header is expected and the single column type tag is "string".
func New(path string, opts ...Option) Descriptor {
	d := Descriptor{
		path:        path,
		delimiter:   DefaultDelimiter,
		hasHeader:   true,
		columnTypes: []string{"string"},
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WithDelimiter sets the field delimiter.
func WithDelimiter(delim rune) Option {
	return func(d *Descriptor) { d.delimiter = delim }
}

// WithHeader sets whether the first logical line is a header.
func WithHeader(hasHeader bool) Option {
	return func(d *Descriptor) { d.hasHeader = hasHeader }
}

// WithColumnTypes sets the declared column type tags. An empty list keeps the
// default.
func WithColumnTypes(types ...string) Option {
	return func(d *Descriptor) {
		if len(types) > 0 {
			d.columnTypes = append([]string(nil), types...)
		}
	}
}

func (d Descriptor) Path() string    { return d.path }
func (d Descriptor) Delimiter() rune { return d.delimiter }
func (d Descriptor) HasHeader() bool { return d.hasHeader }

// ColumnTypes returns a copy of the declared type tags.
func (d Descriptor) ColumnTypes() []string {
	return append([]string(nil), d.columnTypes...)
}

// IsGlob reports whether the descriptor's path is a pattern.
func (d Descriptor) IsGlob() bool {
	return IsGlob(d.path)
}

func (d Descriptor) String() string {
	return fmt.Sprintf("path=%s delimiter=%q header=%t types=%v",
		d.path, d.delimiter, d.hasHeader, d.columnTypes)
}

// IsGlob reports whether path contains a wildcard marker.
func IsGlob(path string) bool {
	return strings.ContainsAny(path, globChars)
}

// ParseDelimiter converts a flag value into a delimiter rune. The words "tab"
// and "\t" are accepted for a tab; anything else must be exactly one rune.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return DefaultDelimiter, nil
	case `\t`, "tab":
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	if r == '\n' || r == '\r' {
		return 0, fmt.Errorf("delimiter cannot be a line terminator")
	}
	return r, nil
}

// ParseColumnTypes splits a comma-separated list of type tags, dropping blank
// entries.
func ParseColumnTypes(spec string) []string {
	var types []string
	for _, t := range strings.Split(spec, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}
