// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/meta"
)

var oqDefaultAttrs = []string{".name", ".value"}

// oqCommandAction is the action handler for the "oq" subcommand. It lists the
// outputs of the selected stack's template with intrinsic values rendered
// as text.
func oqCommandAction(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]map[string]any, error) {
		tpl, err := StackTemplate(ctx, cmd)
		if err != nil {
			return nil, err
		}
		raw, err := tpl.OutputRows()
		if err != nil {
			return nil, err
		}
		var rows []map[string]any
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}

	return NewQueryActionRunner("oq", "", oqDefaultAttrs, fn).Run(ctx, cmd)
}

// oqCommandBuilder constructs the cli.Command for "oq", configuring metadata,
// flags, and the associated action/validator.
func oqCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "oq",
		Usage:     "output query",
		UsageText: "wsinfra oq [ProjectDir[::Stack]] [options]",
		Flags:     templateFlags("oq", meta.Config.Source),
		Action:    oqCommandAction,
		Meta:      meta,
	}).Build()
}
