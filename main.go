// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tfctl/csvfilter/internal/cacheutil"
	"github.com/tfctl/csvfilter/internal/command"
	"github.com/tfctl/csvfilter/internal/config"
	"github.com/tfctl/csvfilter/internal/log"
	"github.com/tfctl/csvfilter/internal/output"
	"github.com/tfctl/csvfilter/internal/version"
)

// Exit codes.
const (
	exitOK         = 0
	exitInit       = 1
	exitRun        = 2
	exitValidation = 3
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// exitCode maps a run error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var verr *command.ValidationError
	if errors.As(err, &verr) {
		return exitValidation
	}
	return exitRun
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled and drop stale
	// downloads.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}
	if hours, _ := config.GetInt("cache.clean", 0); hours > 0 {
		if err := cacheutil.Purge(hours); err != nil {
			log.Debugf("cache purge err: err=%v", err)
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return exitInit
	}

	if err := app.Run(ctx, args); err != nil {
		output.Failure(os.Stderr, err, term.IsTerminal(int(os.Stderr.Fd())))
		log.Debugf("app run err: err=%v", err)
		return exitCode(err)
	}

	return exitOK
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return exitOK
	}

	args = handleNakedCommand(args)

	// Completion takes its arguments verbatim.
	if len(args) > 1 && args[1] != "completion" {
		args = processSetOnly(args)
		log.Debugf("args after set processing: args=%v", args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands an @set argument into the argument list stored
// under <command>.<set> in the config file, at the position of the @set.
func processSetOnly(args []string) []string {
	// Look for an explicit @set argument starting from index 2.
	idx := 2
	if len(args) <= idx {
		return args
	}

	set := ""
	removeIdx := -1
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx == -1 {
		return args
	}

	setArgs, err := config.GetStringSlice(args[1] + "." + set)
	if err != nil {
		log.Warnf("no argument set %q for %s", set, args[1])
	}

	expanded := make([]string, 0, len(args)+len(setArgs))
	expanded = append(expanded, args[:removeIdx]...)
	for _, arg := range setArgs {
		expanded = append(expanded, strings.Fields(arg)...)
	}
	return append(expanded, args[removeIdx+1:]...)
}
