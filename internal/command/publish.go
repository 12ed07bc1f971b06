// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/archive"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/meta"
	"github.com/staranto/wsinfra/internal/synth"
)

var publishDefaultAttrs = []string{".stack", ".id", ".fingerprint:fingerprint:12", ".skipped"}

// publishStacks returns the stacks to publish: the selected one when a stack
// was named, else all of them.
func publishStacks(cmd *cli.Command) ([]string, error) {
	if GetMeta(cmd).Stack == "" && !cmd.IsSet("stack") {
		return synth.StackNames, nil
	}
	stack, err := Stack(cmd)
	if err != nil {
		return nil, err
	}
	return []string{stack}, nil
}

// publishCommandAction uploads the synthesized templates to the archive.
// Without --force, templates whose fingerprint matches the latest version are
// skipped and assemblies with unresolved context lookups are refused.
func publishCommandAction(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]archive.Published, error) {
		a, s, err := OpenArchive(ctx, cmd)
		if err != nil {
			return nil, err
		}
		names, err := publishStacks(cmd)
		if err != nil {
			return nil, err
		}

		force := cmd.Bool("force")
		outdir := synth.OutdirFor(s, synth.Options{Outdir: cmd.String("out")})

		var rows []archive.Published
		for _, stack := range names {
			tpl, err := Template(ctx, cmd, s, stack)
			if err != nil {
				return nil, err
			}
			missing, err := synth.Unresolved(outdir)
			if err != nil {
				return nil, err
			}
			if len(missing) > 0 && !force {
				return nil, fmt.Errorf("%w: %s was synthesized with placeholders for %s (use --force to publish anyway)",
					synth.ErrUnresolved, stack, strings.Join(missing, ", "))
			}
			body := tpl.Raw()
			p, err := a.Publish(ctx, stack, body, synth.Fingerprint(body), force)
			if err != nil {
				return nil, err
			}
			log.Debugf("publish: stack=%s version=%s skipped=%t", stack, p.ID, p.Skipped)
			rows = append(rows, p)
		}
		return rows, nil
	}

	return NewQueryActionRunner("publish", "", publishDefaultAttrs, fn).Run(ctx, cmd)
}

func publishCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "publish",
		Usage:     "upload synthesized templates to the archive bucket",
		UsageText: "wsinfra publish [ProjectDir[::Stack]] [options]",
		Flags: append(append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "upload even when the latest version is identical or lookups are unresolved",
				Value: false,
			},
		}, templateFlags("publish", meta.Config.Source)...), archiveFlags("publish", meta.Config.Source)...),
		Action: publishCommandAction,
		Meta:   meta,
	}).Build()
}
