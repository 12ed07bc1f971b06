// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/attrs"
	"github.com/staranto/wsinfra/internal/cfn"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/meta"
	"github.com/staranto/wsinfra/internal/network"
	"github.com/staranto/wsinfra/internal/output"
	"github.com/staranto/wsinfra/internal/synth"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// DumpSchemaIfRequested writes the row keys of raw when --schema is set, and
// returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, raw []byte, prefix string) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(raw, prefix, stdout(cmd))
		return true
	}
	return false
}

// EmitRows marshals rows to JSON and passes them to the common output
// routine.
func EmitRows(rows any, al attrs.AttrList, cmd *cli.Command) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}
	return output.SliceDiceSpit(raw, al, output.OptionsFromCommand(cmd), stdout(cmd), nil)
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

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr wsinfra <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "wsinfra", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// Settings resolves the deployment settings for the command's project dir
// and fills the network placement from the lookup cache when the config
// carries none.
func Settings(cmd *cli.Command) (config.Settings, error) {
	m := GetMeta(cmd)
	s, err := config.Resolve(m.ProjectDir)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to resolve settings: %w", err)
	}
	if network.Fill(&s) {
		log.Debugf("settings: network from lookup cache vpc=%s", s.Network.VpcID)
	}
	return s, nil
}

// Stack returns the stack selected by a "dir::Stack" argument or --stack.
func Stack(cmd *cli.Command) (string, error) {
	name := GetMeta(cmd).Stack
	if name == "" {
		name = cmd.String("stack")
	}
	return canonicalStack(name)
}

// Template loads the synthesized template of stack from the assembly
// directory, synthesizing first when it is missing or --synth is set.
func Template(ctx context.Context, cmd *cli.Command, s config.Settings, stack string) (cfn.Template, error) {
	opts := synth.Options{Outdir: cmd.String("out")}
	path := filepath.Join(synth.OutdirFor(s, opts), stack+".template.json")

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) || cmd.Bool("synth"):
		log.Debugf("template: synthesizing path=%s", path)
		if _, err := synth.Run(ctx, s, opts); err != nil {
			return cfn.Template{}, err
		}
	case err != nil:
		return cfn.Template{}, err
	}

	return cfn.Load(path)
}

// positional returns the arguments that follow the project dir.
func positional(cmd *cli.Command) []string {
	args := cmd.Args().Slice()
	if len(args) > 0 {
		return args[1:]
	}
	return nil
}

// stdout returns the root command's writer.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// stderr returns the root command's error writer.
func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// StackTemplate resolves settings and the selected stack, then loads its
// template.
func StackTemplate(ctx context.Context, cmd *cli.Command) (cfn.Template, error) {
	s, err := Settings(cmd)
	if err != nil {
		return cfn.Template{}, err
	}
	stack, err := Stack(cmd)
	if err != nil {
		return cfn.Template{}, err
	}
	return Template(ctx, cmd, s, stack)
}

// templateFlags are the flags of every command that reads a synthesized
// template.
func templateFlags(ns, cfgFile string) []cli.Flag {
	return []cli.Flag{
		NewOutdirFlag(ns, cfgFile),
		NewStackFlag(ns, cfgFile),
		newSynthFlag(),
	}
}
