// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/attrs"
	"github.com/staranto/wsinfra/internal/cfn"
	"github.com/staranto/wsinfra/internal/meta"
)

// rqDefaultAttrs specifies the default attributes displayed for resources in
// the "rq" command output.
var rqDefaultAttrs = []string{".logicalId", ".type"}

// typeCount is one row of "rq --count".
type typeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// rqCommandAction is the action handler for the "rq" subcommand. It lists the
// resources of the selected stack's template.
func rqCommandAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("count") {
		fn := func(ctx context.Context, cmd *cli.Command) ([]typeCount, error) {
			tpl, err := StackTemplate(ctx, cmd)
			if err != nil {
				return nil, err
			}
			var rows []typeCount
			for typ, n := range tpl.CountByType() {
				rows = append(rows, typeCount{Type: typ, Count: n})
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].Type < rows[j].Type })
			return rows, nil
		}
		return NewQueryActionRunner("rq", "", []string{".type", ".count"}, fn).Run(ctx, cmd)
	}

	fn := func(ctx context.Context, cmd *cli.Command) ([]cfn.Resource, error) {
		tpl, err := StackTemplate(ctx, cmd)
		if err != nil {
			return nil, err
		}
		return tpl.Resources(), nil
	}

	runner := NewQueryActionRunner(
		"rq",
		attrs.DefaultPrefix,
		rqDefaultAttrs,
		fn,
	)
	if cmd.Bool("chop") {
		runner.PostProcess = func(rows []map[string]interface{}) error {
			chopPrefix(rows)
			return nil
		}
	}
	return runner.Run(ctx, cmd)
}

// rqCommandBuilder constructs the cli.Command for "rq", wiring metadata,
// flags, and action handlers.
func rqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "rq",
		Usage:     "resource query",
		UsageText: "wsinfra rq [ProjectDir[::Stack]] [options]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "chop",
				Usage: "chop the common construct path prefix in text output",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "count",
				Usage: "count resources per type",
				Value: false,
			},
		}, templateFlags("rq", meta.Config.Source)...),
		Action: rqCommandAction,
		Meta:   meta,
	}).Build()
}
