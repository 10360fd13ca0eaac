// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/csvfilter/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context and the starting working directory, which is
// the base for relative --file and --output-path values.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
}
