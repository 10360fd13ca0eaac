// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tfctl/csvfilter/internal/aws"
	"github.com/tfctl/csvfilter/internal/config"
	"github.com/tfctl/csvfilter/internal/engine"
	"github.com/tfctl/csvfilter/internal/fetch"
	"github.com/tfctl/csvfilter/internal/filters"
	"github.com/tfctl/csvfilter/internal/meta"
	"github.com/tfctl/csvfilter/internal/output"
	"github.com/tfctl/csvfilter/internal/source"
	"github.com/tfctl/csvfilter/internal/stream"
)

// transformCommandBuilder constructs the "transform" parent command. Its
// flags describe what to match and where to write it, and are inherited by
// the filter and anyfilter subcommands.
func transformCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "transform",
		Usage: "filter rows and optionally write them to a file",
		UsageText: "csvfilter transform [--column C --query Q]... [--output-path P] [--flush row|end] " +
			"filter|anyfilter --file F [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: NewTransformFlags("transform", m.Config.Source),
		Commands: []*cli.Command{
			filterCommandBuilder(m),
			anyfilterCommandBuilder(m),
		},
	}
}

func filterCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "filter",
		Usage:     "keep rows whose named columns equal the queries",
		UsageText: "csvfilter transform --column C --query Q [--column C --query Q]... filter --file F [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append(NewSourceFlags("filter", m.Config.Source),
			NewRenderFlags("filter", m.Config.Source)...),
		Action: transformAction(engine.ModeColumns),
	}
}

func anyfilterCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "anyfilter",
		Usage:     "keep rows containing every query in some field",
		UsageText: "csvfilter transform --query Q [--query Q]... anyfilter --file F [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append(NewSourceFlags("anyfilter", m.Config.Source),
			NewRenderFlags("anyfilter", m.Config.Source)...),
		Action: transformAction(engine.ModeAny),
	}
}

// ValidationError is returned when a source fails validation and the caller
// asked for that to be fatal.
type ValidationError struct {
	Report source.Report
}

func (e *ValidationError) Error() string {
	reason := "extension is not csv"
	if !e.Report.HeadersConsistent {
		reason = fmt.Sprintf("header of %s differs from the first file", e.Report.Mismatch)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Report.Path, reason)
}

// transformAction returns the action shared by filter and anyfilter.
func transformAction(mode engine.Mode) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		m := GetMeta(cmd)
		log.Debugf("Executing action for %v", m.Args[1:])

		config.Config.Namespace = cmd.Name

		d, err := buildDescriptor(cmd)
		if err != nil {
			return err
		}
		log.Debugf("source: %v", d)

		expand, cleanup, err := newExpander(ctx, cmd, d.Path())
		if err != nil {
			return err
		}
		defer cleanup()

		if cmd.Bool("schema") {
			return dumpSchema(cmd.Root().Writer, d, expand)
		}

		spec, err := buildSpec(cmd, mode)
		if err != nil {
			return err
		}
		log.Debugf("spec: %+v", spec)

		expand = excludeOutput(expand, spec.OutputPath)

		if err := validateSource(d, expand, cmd.Bool("validate")); err != nil {
			return err
		}

		ls, err := stream.Open(d, expand)
		if err != nil {
			return err
		}

		res, err := engine.New(d, spec, nil).Run(ctx, ls)
		if err != nil {
			return err
		}

		color := useColor(cmd)
		if !cmd.Bool("quiet") {
			padding, _ := config.GetInt("padding", 2) //nolint:mnd
			ds := output.NewDataset(res.Header, res.HasHeader, res.Data(), d.Delimiter(), d.ColumnTypes())
			opts := output.Options{
				Format:  cmd.String("output"),
				Titles:  cmd.Bool("titles"),
				Color:   color,
				Sort:    cmd.String("sort"),
				Padding: padding,
			}
			if err := output.Render(cmd.Root().Writer, ds, opts); err != nil {
				return err
			}
		}

		output.Success(cmd.Root().ErrWriter, output.Summary{
			Scanned:    res.Scanned,
			Matched:    res.Matched,
			Skipped:    res.Skipped,
			OutputPath: spec.OutputPath,
		}, color)
		return nil
	}
}

// buildDescriptor assembles the source descriptor from the command's flags.
func buildDescriptor(cmd *cli.Command) (source.Descriptor, error) {
	delim, err := source.ParseDelimiter(cmd.String("delimiter"))
	if err != nil {
		return source.Descriptor{}, err
	}

	opts := []source.Option{
		source.WithDelimiter(delim),
		source.WithHeader(cmd.Bool("header")),
	}
	if types := source.ParseColumnTypes(cmd.String("column-types")); len(types) > 0 {
		opts = append(opts, source.WithColumnTypes(types...))
	}

	return source.New(cmd.String("file"), opts...), nil
}

// buildSpec assembles the filter specification. --where pairs are appended
// after the explicit --column/--query values.
func buildSpec(cmd *cli.Command, mode engine.Mode) (engine.Spec, error) {
	columns := cmd.StringSlice("column")
	queries := cmd.StringSlice("query")
	whereColumns, whereQueries := filters.Pairs(filters.BuildFilters(cmd.String("where")))
	columns = append(columns, whereColumns...)
	queries = append(queries, whereQueries...)

	switch mode {
	case engine.ModeAny:
		if len(queries) == 0 {
			return engine.Spec{}, errors.New("at least one --query is required")
		}
		if len(columns) > 0 {
			log.Warnf("anyfilter ignores --column values %v", columns)
			columns = nil
		}
	default:
		if err := PairsValidator(columns, queries); err != nil {
			return engine.Spec{}, err
		}
	}

	flush, err := engine.ParseFlushPolicy(cmd.String("flush"))
	if err != nil {
		return engine.Spec{}, err
	}

	return engine.Spec{
		Columns:       columns,
		Queries:       queries,
		OutputPath:    cmd.String("output-path"),
		Mode:          mode,
		Flush:         flush,
		SkipShortRows: cmd.Bool("skip-short-rows"),
	}, nil
}

// newExpander picks local or S3 expansion for path. The returned cleanup must
// always be called.
func newExpander(ctx context.Context, cmd *cli.Command, path string) (source.ExpandFunc, func(), error) {
	if !fetch.IsS3(path) {
		return source.LocalExpand, func() {}, nil
	}

	client, err := newS3Client(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}

	x, err := fetch.NewS3Expander(ctx, client)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := x.Close(); err != nil {
			log.WithError(err).Warn("failed to remove downloads")
		}
	}
	return x.Expand, cleanup, nil
}

// excludeOutput wraps expand so that the file at outputPath is never read
// back as input. A glob that matches it drops it with a warning. A literal
// path naming it is an error, since the sink would truncate the input.
func excludeOutput(expand source.ExpandFunc, outputPath string) source.ExpandFunc {
	if outputPath == "" {
		return expand
	}

	return func(pattern string) ([]string, error) {
		files, err := expand(pattern)
		if err != nil {
			return nil, err
		}

		kept := make([]string, 0, len(files))
		for _, f := range files {
			if !sameFile(f, outputPath) {
				kept = append(kept, f)
				continue
			}
			if !source.IsGlob(pattern) {
				return nil, fmt.Errorf("output path %s is also the input file", outputPath)
			}
			log.Warnf("ignoring %s, it is the output path", f)
		}
		return kept, nil
	}
}

// sameFile reports whether a and b name the same file. Paths that do not
// exist yet are compared by their absolute form.
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

// newS3Client builds the client for s3:// sources from the command's flags
// and the s3.max_attempts and s3.path_style config keys.
func newS3Client(ctx context.Context, cmd *cli.Command) (*s3v2.Client, error) {
	opts := []aws.Option{
		aws.WithRegion(cmd.String("region")),
		aws.WithProfile(cmd.String("profile")),
		aws.WithEndpoint(cmd.String("s3-endpoint")),
	}
	if attempts, _ := config.GetInt("s3.max_attempts", 0); attempts > 0 {
		opts = append(opts, aws.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), attempts)
		}))
	}

	sess, err := aws.Load(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3v2.Options)
	if pathStyle, _ := config.GetBool("s3.path_style", false); pathStyle {
		s3Opts = append(s3Opts, func(o *s3v2.Options) { o.UsePathStyle = true })
	}
	return sess.S3(s3Opts...), nil
}

// validateSource runs the validator for glob sources and whenever strict is
// set. A failed report is only fatal when strict.
func validateSource(d source.Descriptor, expand source.ExpandFunc, strict bool) error {
	if d.Path() == stream.StdinPath {
		return nil
	}
	if !strict && !(d.IsGlob() && d.HasHeader()) {
		return nil
	}

	report, err := source.Validate(d, expand)
	if err != nil {
		return err
	}
	if report.Skipped != nil {
		log.WithError(report.Skipped).Warn("some files could not be probed")
	}
	if report.OK() {
		return nil
	}

	verr := &ValidationError{Report: report}
	if strict {
		return verr
	}
	log.Warnf("%v, continuing", verr)
	return nil
}

// dumpSchema prints the column layout of the source from its first line.
func dumpSchema(w io.Writer, d source.Descriptor, expand source.ExpandFunc) error {
	ls, err := stream.Open(d, expand)
	if err != nil {
		return err
	}
	defer ls.Close()

	first, err := ls.Next()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	var (
		header string
		lines  []string
	)
	if d.HasHeader() {
		header = first
	} else if first != "" {
		lines = []string{first}
	}

	output.DumpSchema(w, output.NewDataset(header, d.HasHeader(), lines, d.Delimiter(), d.ColumnTypes()))
	return nil
}

// useColor honors --color only when stdout is a terminal.
func useColor(cmd *cli.Command) bool {
	return cmd.Bool("color") && term.IsTerminal(int(os.Stdout.Fd()))
}
