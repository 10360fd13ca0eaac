// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/csvfilter/internal/config"
)

// Formats accepted by Render.
var Formats = []string{"text", "json", "raw", "yaml"}

// Options controls console rendering.
type Options struct {
	Format  string
	Titles  bool
	Color   bool
	Sort    string
	Padding int
}

// Render writes ds to w in the requested format. Sorting applies to a copy of
// the rows, so the caller's dataset and anything already written to file keep
// source order.
func Render(w io.Writer, ds Dataset, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	if opts.Sort != "" {
		ds = sortedCopy(ds, opts.Sort)
	}

	switch opts.Format {
	case "raw":
		return writeRaw(w, ds)
	case "json":
		out, err := json.Marshal(ds.Records())
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		records := ds.Records()
		docs := make([]yaml.MapSlice, len(records))
		for i, r := range records {
			docs[i] = yaml.MapSlice(r)
		}
		out, err := yaml.Marshal(docs)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "", "text":
		TableWriter(w, ds, opts)
		return nil
	default:
		return fmt.Errorf("unknown output format %q, must be one of %v", opts.Format, Formats)
	}
}

// writeRaw emits the header and matched lines exactly as read.
func writeRaw(w io.Writer, ds Dataset) error {
	if ds.HasHeader {
		if _, err := fmt.Fprintln(w, ds.Header); err != nil {
			return err
		}
	}
	for _, line := range ds.Lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// sortedCopy returns ds with its rows and lines reordered by spec.
func sortedCopy(ds Dataset, spec string) Dataset {
	order := make([]int, len(ds.Rows))
	for i := range order {
		order[i] = i
	}
	SortRows(order, ds.Rows, ds.Columns, spec)

	sorted := ds
	sorted.Rows = make([][]string, len(order))
	sorted.Lines = make([]string, len(order))
	for i, idx := range order {
		sorted.Rows[i] = ds.Rows[idx]
		sorted.Lines[i] = ds.Lines[idx]
	}
	return sorted
}

// TableWriter renders the rows in a tabular form honoring color, titles and
// padding options.
func TableWriter(w io.Writer, ds Dataset, opts Options) {
	// We return early if there are no results to display.
	if len(ds.Rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	// Pad ragged rows so every row has a cell per column.
	rows := make([][]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		cells := make([]string, len(ds.Columns))
		for i := range cells {
			cells[i] = "-"
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		rows = append(rows, cells)
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(ds.Columns...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background so that output is reasonably visible
// for light and dark themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	log.Debugf("colors: dark=%t", isDark)
	return
}
