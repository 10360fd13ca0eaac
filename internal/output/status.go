// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/dustin/go-humanize"
)

// Summary is the tally printed on the status line.
type Summary struct {
	Scanned    int
	Matched    int
	Skipped    int
	OutputPath string
}

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00a000"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d00000"))
)

// Success prints a "Success" line followed by the summary.
func Success(w io.Writer, s Summary, color bool) {
	label := "Success"
	if color {
		label = successStyle.Render(label)
	}

	msg := fmt.Sprintf("%s %s of %s rows matched", label,
		humanize.Comma(int64(s.Matched)), humanize.Comma(int64(s.Scanned)))
	if s.Skipped > 0 {
		msg += fmt.Sprintf(", %s skipped", humanize.Comma(int64(s.Skipped)))
	}
	if s.OutputPath != "" {
		msg += ", wrote " + s.OutputPath
		if fi, err := os.Stat(s.OutputPath); err == nil {
			msg += " (" + humanize.Bytes(uint64(fi.Size())) + ")"
		}
	}
	fmt.Fprintln(w, msg)
}

// Failure prints an "Error" line with err.
func Failure(w io.Writer, err error, color bool) {
	label := "Error"
	if color {
		label = errorStyle.Render(label)
	}
	fmt.Fprintf(w, "%s %v\n", label, err)
}
