// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/csvfilter/internal/source"
)

// NewTransformFlags returns the filter specification flags. They are set on
// transform and inherited by filter and anyfilter.
func NewTransformFlags(ns, cfgPath string) []cli.Flag {
	outputPath := &cli.StringFlag{
		Name:    "output-path",
		Aliases: []string{"p"},
		Usage:   "write matched rows, header first, to this file",
		Sources: cli.EnvVars("CSVFILTER_OUTPUT_PATH"),
	}

	flush := &cli.StringFlag{
		Name:    "flush",
		Usage:   "when to write --output-path: after every row or once at the end",
		Value:   "row",
		Sources: cli.EnvVars("CSVFILTER_FLUSH"),
		Validator: func(value string) error {
			return FlagValidators(value, FlushValidator)
		},
	}
	NameSpacedValueChainFromConfigFile(ns, cfgPath, flush.Name, &flush.Sources)

	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "column",
			Usage: "column to match, repeat for more; pairs with --query by position",
		},
		&cli.StringSliceFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "value to match, repeat for more",
		},
		&cli.StringFlag{
			Name:    "where",
			Aliases: []string{"w"},
			Usage:   "comma-separated column=value pairs, added after --column/--query",
		},
		outputPath,
		flush,
	}
}

// NewSourceFlags returns the flags that describe the input.
func NewSourceFlags(ns, cfgPath string) []cli.Flag {
	delimiter := &cli.StringFlag{
		Name:    "delimiter",
		Aliases: []string{"d"},
		Usage:   `field delimiter, a single character, "tab" or \t`,
		Value:   string(source.DefaultDelimiter),
		Sources: cli.EnvVars("CSVFILTER_DELIMITER"),
		Validator: func(value string) error {
			return FlagValidators(value, DelimiterValidator)
		},
	}
	NameSpacedValueChainFromConfigFile(ns, cfgPath, delimiter.Name, &delimiter.Sources)

	header := &cli.BoolFlag{
		Name:    "header",
		Usage:   "the first line names the columns",
		Value:   true,
		Sources: cli.EnvVars("CSVFILTER_HEADER"),
	}
	NameSpacedValueChainFromConfigFile(ns, cfgPath, header.Name, &header.Sources)

	s3Endpoint := &cli.StringFlag{
		Name:    "s3-endpoint",
		Usage:   "S3-compatible endpoint URL for s3:// sources",
		Sources: cli.EnvVars("CSVFILTER_S3_ENDPOINT"),
	}
	NameSpacedValueChainFromConfigFile(ns, cfgPath, s3Endpoint.Name, &s3Endpoint.Sources)

	return []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "file, glob pattern, s3://bucket/key or - for stdin",
			Required: true,
		},
		delimiter,
		header,
		&cli.StringFlag{
			Name:    "region",
			Usage:   "AWS region for s3:// sources",
			Sources: cli.EnvVars("CSVFILTER_REGION"),
		},
		&cli.StringFlag{
			Name:    "profile",
			Usage:   "AWS shared config profile for s3:// sources",
			Sources: cli.EnvVars("CSVFILTER_PROFILE"),
		},
		s3Endpoint,
	}
}

// NewRenderFlags returns the flags that shape console output for filter
// and anyfilter.
func NewRenderFlags(ns, cfgPath string) []cli.Flag {
	output := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Value:   "text",
		Sources: cli.EnvVars("CSVFILTER_OUTPUT"),
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
	NameSpacedValueChainFromConfigFile(ns, cfgPath, output.Name, &output.Sources)

	titles := &cli.BoolFlag{
		Name:    "titles",
		Aliases: []string{"t"},
		Usage:   "show titles with text output",
		Value:   false,
	}
	NameSpacedValueChainFromConfigFile(ns, cfgPath, titles.Name, &titles.Sources)

	color := &cli.BoolFlag{
		Name:  "color",
		Usage: "enable colored text output",
		Value: false,
	}
	NameSpacedValueChainFromConfigFile(ns, cfgPath, color.Name, &color.Sources)

	columnTypes := &cli.StringFlag{
		Name:  "column-types",
		Usage: "comma-separated type tags; the last one repeats for the remaining columns",
		Value: "string",
	}
	NameSpacedValueChainFromConfigFile(ns, cfgPath, columnTypes.Name, &columnTypes.Sources)

	return []cli.Flag{
		output,
		titles,
		color,
		columnTypes,
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort console rows by",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "do not print matched rows",
		},
		&cli.BoolFlag{
			Name:  "skip-short-rows",
			Usage: "skip rows too short for a requested column instead of failing",
		},
		&cli.BoolFlag{
			Name:  "validate",
			Usage: "fail before filtering when the source does not validate",
		},
		&cli.BoolFlag{
			Name:        "schema",
			Usage:       "dump the column schema and exit",
			HideDefault: true,
		},
	}
}

// NameSpacedValueChainFromConfigFile appends namespaced and global config
// file sources for name to chain. Nothing is added without a config file.
func NameSpacedValueChainFromConfigFile(ns, path, name string, chain *cli.ValueSourceChain) {
	if path == "" {
		return
	}
	if ns != "" {
		chain.Chain = append(chain.Chain, yaml.YAML(ns+"."+name, altsrc.StringSourcer(path)))
	}
	chain.Chain = append(chain.Chain, yaml.YAML(name, altsrc.StringSourcer(path)))
}
