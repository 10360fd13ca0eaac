// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig points CSVFILTER_CFG_FILE at a testdata file and resets the
// global Config so the next access reloads it.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err)

	t.Setenv("CSVFILTER_CFG_FILE", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, ";", cfg.Data["delimiter"])
				assert.Equal(t, "text", cfg.Data["output"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				colors, ok := cfg.Data["colors"].(map[string]interface{})
				assert.True(t, ok, "colors should be a map")
				assert.Equal(t, "#f6be00", colors["title"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "sales", cfg.Data["name"])
				assert.Equal(t, 1, cfg.Data["version"])
				assert.Equal(t, true, cfg.Data["enabled"])
				assert.Equal(t, 30.5, cfg.Data["timeout"])
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("CSVFILTER_CFG_FILE", "/nonexistent/path/csvfilter.yaml")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_CfgFileIsDirectory(t *testing.T) {
	t.Setenv("CSVFILTER_CFG_FILE", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		namespace    string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{
			name:     "simple string value",
			testFile: "simple.yaml",
			key:      "delimiter",
			want:     ";",
		},
		{
			name:     "nested string value",
			testFile: "nested.yaml",
			key:      "colors.odd",
			want:     "#00c8f0",
		},
		{
			name:      "namespace preferred",
			testFile:  "nested.yaml",
			namespace: "filter",
			key:       "delimiter",
			want:      "|",
		},
		{
			name:      "namespace falls back to bare key",
			testFile:  "nested.yaml",
			namespace: "filter",
			key:       "colors.title",
			want:      "#f6be00",
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []string{"fallback"},
			want:         "fallback",
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-string value",
			testFile: "mixed-types.yaml",
			key:      "version",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)
			_, _ = Load()
			Config.Namespace = tt.namespace

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		namespace string
		key       string
		want      int
		wantErr   bool
	}{
		{name: "int value", testFile: "mixed-types.yaml", key: "version", want: 1},
		{name: "float truncated", testFile: "mixed-types.yaml", key: "timeout", want: 30},
		{name: "bare padding", testFile: "nested.yaml", key: "padding", want: 2},
		{name: "namespaced padding", testFile: "nested.yaml", namespace: "filter", key: "padding", want: 4},
		{name: "not an int", testFile: "mixed-types.yaml", key: "name", wantErr: true},
		{name: "missing", testFile: "simple.yaml", key: "padding", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)
			_, _ = Load()
			Config.Namespace = tt.namespace

			got, err := GetInt(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt_Default(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	got, err := GetInt("padding", 9)
	assert.NoError(t, err)
	assert.Equal(t, 9, got)
}

func TestGetBool(t *testing.T) {
	setupTestConfig(t, "nested.yaml")
	_, _ = Load()

	Config.Namespace = "filter"
	got, err := GetBool("titles")
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = GetBool("color", false)
	assert.NoError(t, err)
	assert.False(t, got)

	_, err = GetBool("padding")
	assert.Error(t, err)
}

func TestGetStringSlice(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		namespace string
		key       string
		want      []string
		wantErr   bool
	}{
		{
			name:     "string list",
			testFile: "mixed-types.yaml",
			key:      "column_types",
			want:     []string{"string", "int"},
		},
		{
			name:      "namespaced defaults set",
			testFile:  "nested.yaml",
			namespace: "filter",
			key:       "defaults",
			want:      []string{"--titles", "--output yaml"},
		},
		{
			name:     "non-string element",
			testFile: "mixed-types.yaml",
			key:      "mixed",
			wantErr:  true,
		},
		{
			name:     "not a slice",
			testFile: "mixed-types.yaml",
			key:      "name",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)
			_, _ = Load()
			Config.Namespace = tt.namespace

			got, err := GetStringSlice(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLazyLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	got, err := GetString("output")
	assert.NoError(t, err)
	assert.Equal(t, "text", got)
	assert.NotEmpty(t, Config.Source)
}
