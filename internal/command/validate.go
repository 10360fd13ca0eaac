// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/csvfilter/internal/meta"
	"github.com/tfctl/csvfilter/internal/source"
)

// validateCommandAction checks a source without filtering it and prints the
// report. A failed report is returned as a ValidationError.
func validateCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	d, err := buildDescriptor(cmd)
	if err != nil {
		return err
	}

	expand, cleanup, err := newExpander(ctx, cmd, d.Path())
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := source.Validate(d, expand)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	extension := "ok"
	if !report.ExtensionOK {
		extension = "not csv"
	}
	headers := "consistent"
	if !report.HeadersConsistent {
		headers = "mismatch at " + report.Mismatch
	}
	fmt.Fprintf(w, "path       %s\n", report.Path)
	fmt.Fprintf(w, "extension  %s\n", extension)
	fmt.Fprintf(w, "headers    %s\n", headers)
	if d.IsGlob() && d.HasHeader() {
		fmt.Fprintf(w, "files      %d\n", len(report.Files))
	}
	if report.Skipped != nil {
		fmt.Fprintf(w, "skipped    %v\n", report.Skipped)
	}

	if !report.OK() {
		return &ValidationError{Report: report}
	}
	return nil
}

func validateCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check the extension and, for globs, that every header matches",
		UsageText: "csvfilter validate --file F [--delimiter D] [--header]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  NewSourceFlags("validate", m.Config.Source),
		Action: validateCommandAction,
	}
}
