// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package synth turns resolved settings into a cloud assembly on disk.
package synth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aws/jsii-runtime-go"
	"github.com/tidwall/gjson"

	"github.com/staranto/wsinfra/internal/component"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/stacks"
)

// DefaultOutdir is the assembly directory, relative to the project dir.
const DefaultOutdir = "cdk.out"

// ManifestFile is the cloud assembly manifest inside the outdir.
const ManifestFile = "manifest.json"

// ErrUnresolved marks templates synthesized with placeholder context values.
var ErrUnresolved = errors.New("unresolved context lookups")

// StackNames lists the synthesized stacks in declaration order.
var StackNames = []string{stacks.BaselineStackName, stacks.ImageBuilderStackName}

// Options tune Run.
type Options struct {
	Outdir  string
	Strict  bool
	Context map[string]interface{}
}

// Template is one synthesized stack template.
type Template struct {
	Stack       string `json:"stack" yaml:"stack"`
	Path        string `json:"path" yaml:"path"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Body        []byte `json:"-" yaml:"-"`
}

// Result is the outcome of a synthesis.
type Result struct {
	Outdir    string
	Component component.Data
	Templates []Template
	// Missing lists context keys CDK filled with placeholders, e.g. an
	// unresolved default VPC lookup.
	Missing []string
}

// Template returns the template of stack.
func (r Result) Template(stack string) (Template, bool) {
	for _, t := range r.Templates {
		if t.Stack == stack {
			return t, true
		}
	}
	return Template{}, false
}

// Fingerprint returns the hex SHA-256 of a template body.
func Fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Unresolved returns the context keys the assembly in outdir records as
// missing. An outdir without a manifest has none.
func Unresolved(outdir string) ([]string, error) {
	b, err := os.ReadFile(filepath.Join(outdir, ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("invalid assembly manifest in %s", outdir)
	}

	var keys []string
	gjson.GetBytes(b, "missing.#.key").ForEach(func(_, v gjson.Result) bool {
		keys = append(keys, v.String())
		return true
	})
	return keys, nil
}

// OutdirFor resolves opts.Outdir against the project dir.
func OutdirFor(s config.Settings, opts Options) string {
	dir := opts.Outdir
	if dir == "" {
		dir = DefaultOutdir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.ProjectDir, dir)
	}
	return dir
}

// Run loads the component document and synthesizes both stacks. Nothing is
// written when the component cannot be loaded.
func Run(ctx context.Context, s config.Settings, opts Options) (Result, error) {
	data, err := component.Load(s.ComponentFile())
	if err != nil {
		return Result{}, err
	}

	if opts.Strict {
		doc, err := component.Parse(data.Payload)
		if err != nil {
			return Result{}, err
		}
		if err := doc.Validate(); err != nil {
			return Result{}, err
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	outdir := OutdirFor(s, opts)
	app, err := stacks.NewApp(s, data, stacks.AppOptions{Outdir: outdir, Context: opts.Context})
	if err != nil {
		return Result{}, err
	}

	log.Debugf("synth: outdir=%s account=%s region=%s", outdir, s.Account, s.Region)
	asm := app.Synth(nil)

	result := Result{Outdir: outdir, Component: data}

	if m := asm.Manifest(); m != nil && m.Missing != nil {
		for _, mc := range *m.Missing {
			if mc != nil && mc.Key != nil {
				result.Missing = append(result.Missing, *mc.Key)
			}
		}
	}
	if len(result.Missing) > 0 {
		log.Warnf("synth: %d context lookups unresolved; run lookup or set network.* in config", len(result.Missing))
	}

	for _, name := range StackNames {
		artifact := asm.GetStackByName(jsii.String(name))
		path := *artifact.TemplateFullPath()

		body, err := os.ReadFile(path)
		if err != nil {
			return Result{}, fmt.Errorf("failed to read template for %s: %w", name, err)
		}

		result.Templates = append(result.Templates, Template{
			Stack:       name,
			Path:        path,
			Fingerprint: Fingerprint(body),
			Body:        body,
		})
		log.Debugf("synth: stack=%s bytes=%d fingerprint=%s", name, len(body), Fingerprint(body)[:12])
	}

	return result, nil
}
