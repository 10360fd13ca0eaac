// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bytes"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/tfctl/csvfilter/internal/log"
)

// Report is the outcome of Validate.
type Report struct {
	// Path is the descriptor path exactly as it was checked.
	Path string
	// ExtensionOK is true when the final dot segment of Path is "csv".
	ExtensionOK bool
	// HeadersConsistent is true when every probed file shares the first
	// file's header line, or when no check was needed.
	HeadersConsistent bool
	// Files lists the expanded files that were probed, in order.
	Files []string
	// Mismatch is the first file whose header differs from Files[0].
	Mismatch string
	// Skipped collects files that could not be read while probing. Skipped
	// files do not fail validation.
	Skipped error
}

// OK reports whether the source may be streamed.
func (r Report) OK() bool {
	return r.ExtensionOK && r.HeadersConsistent
}

// Validate checks the descriptor before any filtering happens. The extension
// check looks at the raw path or pattern string only, not at matched file
// names. Header consistency is only checked for glob paths that expect a
// header. The returned error is non-nil only when the pattern cannot be
// expanded at all.
func Validate(d Descriptor, expand ExpandFunc) (Report, error) {
	report := Report{
		Path:              d.Path(),
		ExtensionOK:       HasCSVExtension(d.Path()),
		HeadersConsistent: true,
	}

	if !d.HasHeader() || !d.IsGlob() {
		return report, nil
	}

	files, err := expand(d.Path())
	if err != nil {
		return report, err
	}
	report.Files = files

	var (
		skipped *multierror.Error
		first   []byte
		seen    bool
	)
	for _, file := range files {
		header, err := ReadHeader(file)
		if err != nil {
			log.Warnf("skipping unreadable file %s: %v", file, err)
			skipped = multierror.Append(skipped, &OpenError{Path: file, Err: err})
			continue
		}

		if !seen {
			first, seen = header, true
			continue
		}

		if !bytes.Equal(first, header) {
			log.Warnf("header mismatch: file=%s want=%q got=%q", file, first, header)
			report.HeadersConsistent = false
			report.Mismatch = file
			break
		}
	}
	report.Skipped = skipped.ErrorOrNil()

	return report, nil
}

// HasCSVExtension reports whether the last dot-separated segment of path is
// exactly "csv".
func HasCSVExtension(path string) bool {
	segments := strings.Split(path, ".")
	return segments[len(segments)-1] == "csv"
}
