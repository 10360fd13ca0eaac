// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/csvfilter/internal/config"
	"github.com/tfctl/csvfilter/internal/meta"
)

// InitApp builds the command tree for args.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the csvfilter
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}
	config.Config.Namespace = ns

	// A missing config file is not an error; there just isn't one.
	cfg, _ := config.Load() //nolint
	m := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "csvfilter",
		Usage: "filter delimited files by exact column values",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "csvfilter version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		transformCommandBuilder(m),
		validateCommandBuilder(m),
		completionCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	var sortFlags func(cmds []*cli.Command)
	sortFlags = func(cmds []*cli.Command) {
		for _, cmd := range cmds {
			sort.Slice(cmd.Flags, func(i, j int) bool {
				return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
			})
			sortFlags(cmd.Commands)
		}
	}
	sortFlags(app.Commands)

	return app, nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}
