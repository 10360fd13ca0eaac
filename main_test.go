// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/csvfilter/internal/command"
	"github.com/tfctl/csvfilter/internal/config"
	"github.com/tfctl/csvfilter/internal/source"
)

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"csvfilter", "--help"}, handleNakedCommand([]string{"csvfilter"}))
	assert.Equal(t, []string{"csvfilter", "validate"}, handleNakedCommand([]string{"csvfilter", "validate"}))
}

func TestHandleVersion(t *testing.T) {
	assert.True(t, handleVersion([]string{"csvfilter", "--version"}))
	assert.True(t, handleVersion([]string{"csvfilter", "-v"}))
	assert.False(t, handleVersion([]string{"csvfilter", "validate"}))
}

func TestExitCode(t *testing.T) {
	verr := &command.ValidationError{Report: source.Report{Path: "x.txt"}}

	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(errors.New("boom")))
	assert.Equal(t, 3, exitCode(verr))
	assert.Equal(t, 3, exitCode(fmt.Errorf("wrapped: %w", verr)))
}

func TestProcessSetOnly(t *testing.T) {
	cfg, err := filepath.Abs(filepath.Join("internal", "command", "testdata", "csvfilter.yaml"))
	require.NoError(t, err)
	t.Setenv("CSVFILTER_CFG_FILE", cfg)
	_, err = config.Load()
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "no set",
			args:     []string{"csvfilter", "transform", "filter", "--file", "a.csv"},
			expected: []string{"csvfilter", "transform", "filter", "--file", "a.csv"},
		},
		{
			name:     "too short",
			args:     []string{"csvfilter", "transform"},
			expected: []string{"csvfilter", "transform"},
		},
		{
			name: "set expanded in place",
			args: []string{"csvfilter", "transform", "@defaults", "filter", "--file", "a.csv"},
			expected: []string{"csvfilter", "transform", "--column", "region", "--query", "emea",
				"filter", "--file", "a.csv"},
		},
		{
			name:     "unknown set is dropped",
			args:     []string{"csvfilter", "transform", "@nope", "filter"},
			expected: []string{"csvfilter", "transform", "filter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, processSetOnly(tt.args))
		})
	}
}
