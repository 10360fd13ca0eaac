// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen renders the csvfilter command reference from
// docs/templates/csvfilter.yaml into markdown and man pages.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      Common       `yaml:"common"`
}

type Common struct {
	Flags []Flag `yaml:"flags"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Short       string    `yaml:"short"`
	Description string    `yaml:"description"`
	Usage       string    `yaml:"usage"`
	Flags       []Flag    `yaml:"flags"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string `yaml:"id"`
	Syntax      string `yaml:"syntax"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	More        string `yaml:"more,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	Date    string
	Version string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs dir>")
		os.Exit(1)
	}

	if err := generate(os.Args[1], time.Now(), getVersion()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generate renders every subcommand in docs/templates/csvfilter.yaml with
// each output template.
func generate(docs string, now time.Time, version string) error {
	data, err := os.ReadFile(filepath.Join(docs, "templates", "csvfilter.yaml"))
	if err != nil {
		return err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing docs config: %w", err)
	}

	types := []Outputs{
		{Template: "csvfilter.md.tmpl", Folder: "commands", Suffix: ".md"},
		{Template: "csvfilter.man.tmpl", Folder: filepath.Join("man", "share", "man1"), Prefix: "csvfilter-", Suffix: ".1"},
	}

	for _, sub := range config.Subcommands {
		// Copy so subcommands never share a backing array.
		merged := append(append([]Flag{}, config.Common.Flags...), sub.Flags...)
		sort.Slice(merged, func(i, j int) bool {
			return merged[i].ID < merged[j].ID
		})
		sub.Flags = merged

		metadata := TemplateData{
			Subcommand: sub,
			Date:       now.Format("January 2, 2006"),
			Version:    version,
		}

		for _, t := range types {
			if err := render(docs, t, metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

func render(docs string, t Outputs, metadata TemplateData) error {
	folder := filepath.Join(docs, t.Folder)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return err
	}

	tmpl, err := template.ParseFiles(filepath.Join(docs, "templates", t.Template))
	if err != nil {
		return err
	}

	target := filepath.Join(folder, t.Prefix+metadata.ID+t.Suffix)
	fmt.Println("Generating", target)
	file, err := os.Create(target)
	if err != nil {
		return err
	}
	defer file.Close()

	return tmpl.Execute(file, metadata)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
