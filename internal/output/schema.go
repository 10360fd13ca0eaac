// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
)

// DumpSchema writes one row per column: its zero-based position, name and
// declared type tag. Type tags are descriptive only and are not checked
// against the data. If w is nil, os.Stdout is used.
func DumpSchema(w io.Writer, ds Dataset) {
	if w == nil {
		w = os.Stdout
	}

	rows := make([][]string, 0, len(ds.Columns))
	for i, name := range ds.Columns {
		rows = append(rows, []string{strconv.Itoa(i), name, ds.Types[i]})
	}

	cellStyle := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers("index", "column", "type").
		Rows(rows...)
	fmt.Fprintln(w, t)
}
