// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/archive"
	"github.com/staranto/wsinfra/internal/meta"
)

var historyDefaultAttrs = []string{".tv", ".id", ".created:created:T", ".fingerprint:fingerprint:12"}

// historyRow is one archived version with its TV~N spec.
type historyRow struct {
	TV string `json:"tv"`
	archive.Version
}

// historyCommandAction lists the archived versions of the selected stack,
// newest first.
func historyCommandAction(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]historyRow, error) {
		a, _, err := OpenArchive(ctx, cmd)
		if err != nil {
			return nil, err
		}
		stack, err := Stack(cmd)
		if err != nil {
			return nil, err
		}
		versions, err := a.Versions(ctx, stack, int(cmd.Int("limit")))
		if err != nil {
			return nil, err
		}

		rows := make([]historyRow, 0, len(versions))
		for i, v := range versions {
			rows = append(rows, historyRow{TV: fmt.Sprintf("TV~%d", i), Version: v})
		}
		return rows, nil
	}

	return NewQueryActionRunner("history", "", historyDefaultAttrs, fn).Run(ctx, cmd)
}

func historyCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "history",
		Usage:     "list archived template versions",
		UsageText: "wsinfra history [ProjectDir[::Stack]] [options]",
		Flags: append([]cli.Flag{
			NewLimitFlag(20, "history", meta.Config.Source),
			NewStackFlag("history", meta.Config.Source),
		}, archiveFlags("history", meta.Config.Source)...),
		Action: historyCommandAction,
		Meta:   meta,
	}).Build()
}
