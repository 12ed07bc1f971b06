// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/meta"
	"github.com/staranto/wsinfra/internal/synth"
)

var synthDefaultAttrs = []string{".stack", ".fingerprint:fingerprint:12", ".path"}

// synthRun is swapped out by tests that cannot start the jsii runtime.
var synthRun = synth.Run

// synthCommandAction synthesizes both stacks and lists their templates. With
// --stdout it prints the selected stack's template instead.
func synthCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "synth") {
		return nil
	}

	config.Config.Namespace = "synth"

	s, err := Settings(cmd)
	if err != nil {
		return err
	}

	result, err := synthRun(ctx, s, synth.Options{
		Outdir: cmd.String("out"),
		Strict: cmd.Bool("strict"),
	})
	if err != nil {
		return fmt.Errorf("synth failed: %w", err)
	}

	warnUnresolved(cmd, result.Missing)

	if cmd.Bool("stdout") {
		stack, err := Stack(cmd)
		if err != nil {
			return err
		}
		tpl, ok := result.Template(stack)
		if !ok {
			return fmt.Errorf("stack %s was not synthesized", stack)
		}
		_, err = stdout(cmd).Write(tpl.Body)
		return err
	}

	fn := func(context.Context, *cli.Command) ([]synth.Template, error) {
		return result.Templates, nil
	}
	return NewQueryActionRunner("synth", "", synthDefaultAttrs, fn).Run(ctx, cmd)
}

// warnUnresolved tells the operator which lookups CDK filled with
// placeholders. It writes at any log level.
func warnUnresolved(cmd *cli.Command, keys []string) {
	if len(keys) == 0 {
		return
	}
	w := stderr(cmd)
	fmt.Fprintf(w, "Warning: %d context lookups unresolved, templates hold placeholder values:\n", len(keys))
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\n", k)
	}
	fmt.Fprintln(w, "Run `wsinfra lookup --config` or set network.* in the config file.")
}

func synthCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "synth",
		Usage:     "synthesize the workstation stacks",
		UsageText: "wsinfra synth [ProjectDir[::Stack]] [options]",
		Flags: []cli.Flag{
			NewOutdirFlag("synth", meta.Config.Source),
			NewStackFlag("synth", meta.Config.Source),
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "validate the component document before synthesizing",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "print the selected stack's template",
				Value: false,
			},
		},
		Action: synthCommandAction,
		Meta:   meta,
	}).Build()
}
