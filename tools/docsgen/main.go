// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen renders the wsinfra command reference, man pages and tldr
// pages from docs/templates/wsinfra.yaml.
//
//	go run ./tools/docsgen docs
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

// Spec is the command reference source.
type Spec struct {
	Subcommands []Subcommand `yaml:"subcommands"`
	Common      Common       `yaml:"common"`
}

// Common holds the flags shared by the query commands.
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
	// NoCommon leaves the common flags out, for commands that do not render
	// rows.
	NoCommon bool `yaml:"noCommon,omitempty"`
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

// page is what a template sees.
type page struct {
	Subcommand
	Date    string
	Version string
}

// output is one rendered form of every subcommand.
type output struct {
	Template string
	Dir      string
	Prefix   string
	Suffix   string
}

func (o output) path(id string) string {
	return filepath.Join(o.Dir, o.Prefix+id+o.Suffix)
}

func outputs(docs string) []output {
	tpl := filepath.Join(docs, "templates")
	return []output{
		{Template: filepath.Join(tpl, "wsinfra.md.tmpl"), Dir: filepath.Join(docs, "commands")},
		{Template: filepath.Join(tpl, "wsinfra.man.tmpl"), Dir: filepath.Join(docs, "man", "share", "man1"), Prefix: "wsinfra-", Suffix: ".1"},
		{Template: filepath.Join(tpl, "wsinfra.tldr.tmpl"), Dir: filepath.Join(docs, "tldr"), Prefix: "wsinfra-", Suffix: ".md"},
	}
}

func loadSpec(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, err
	}
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// merged returns sub with the common flags folded in, sorted by id. A
// subcommand flag replaces a common one of the same id.
func (s Spec) merged(sub Subcommand) Subcommand {
	byID := map[string]Flag{}
	if !sub.NoCommon {
		for _, f := range s.Common.Flags {
			byID[f.ID] = f
		}
	}
	for _, f := range sub.Flags {
		byID[f.ID] = f
	}

	flags := make([]Flag, 0, len(byID))
	for _, f := range byID {
		flags = append(flags, f)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].ID < flags[j].ID })

	sub.Flags = flags
	return sub
}

// generate renders every subcommand of docs/templates/wsinfra.yaml and
// returns the files written.
func generate(docs, date, version string) ([]string, error) {
	spec, err := loadSpec(filepath.Join(docs, "templates", "wsinfra.yaml"))
	if err != nil {
		return nil, err
	}

	var written []string
	for _, o := range outputs(docs) {
		tmpl, err := template.New(filepath.Base(o.Template)).Funcs(template.FuncMap{
			"upper": strings.ToUpper,
		}).ParseFiles(o.Template)
		if err != nil {
			return written, err
		}
		if err := os.MkdirAll(o.Dir, 0o755); err != nil {
			return written, err
		}

		for _, sub := range spec.Subcommands {
			path := o.path(sub.ID)
			if err := render(tmpl, path, page{Subcommand: spec.merged(sub), Date: date, Version: version}); err != nil {
				return written, fmt.Errorf("%s: %w", path, err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func render(tmpl *template.Template, path string, p page) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	docs := "docs"
	if len(os.Args) > 1 {
		docs = os.Args[1]
	}

	written, err := generate(docs, time.Now().Format("January 2, 2006"), getVersion())
	for _, path := range written {
		fmt.Println("Generated", path)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "v")
}
