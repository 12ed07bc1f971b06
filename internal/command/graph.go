// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/depgraph"
	"github.com/staranto/wsinfra/internal/meta"
)

var graphDefaultAttrs = []string{".order", ".node", ".dependsOn"}

// graphRow is one node of the graph in dependency order.
type graphRow struct {
	Order      int      `json:"order"`
	Node       string   `json:"node"`
	DependsOn  []string `json:"dependsOn"`
	Dependents []string `json:"dependents"`
}

// graphRows flattens g into rows in creation order.
func graphRows(g *depgraph.Graph) ([]graphRow, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}

	rows := make([]graphRow, 0, len(order))
	for i, id := range order {
		deps, err := g.Dependencies(id)
		if err != nil {
			return nil, err
		}
		dependents, err := g.Dependents(id)
		if err != nil {
			return nil, err
		}
		rows = append(rows, graphRow{Order: i + 1, Node: id, DependsOn: deps, Dependents: dependents})
	}
	return rows, nil
}

// graphCommandAction prints the declared image pipeline graph, or with
// --template the graph read back out of the synthesized template.
func graphCommandAction(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]graphRow, error) {
		g := depgraph.ImagePipeline()
		if cmd.Bool("template") {
			tpl, err := StackTemplate(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if g, err = tpl.Graph(cmd.Bool("refs")); err != nil {
				return nil, err
			}
		}
		if err := g.DetectCycles(); err != nil {
			return nil, fmt.Errorf("graph: %w", err)
		}
		return graphRows(g)
	}

	return NewQueryActionRunner("graph", "", graphDefaultAttrs, fn).Run(ctx, cmd)
}

func graphCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "graph",
		Usage:     "dependency graph in creation order",
		UsageText: "wsinfra graph [ProjectDir[::Stack]] [options]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "template",
				Usage: "read the graph from the synthesized template",
				Value: false,
			},
			&cli.BoolFlag{
				Name:  "refs",
				Usage: "with --template, count Ref and Fn::GetAtt as edges",
				Value: false,
			},
		}, templateFlags("graph", meta.Config.Source)...),
		Action: graphCommandAction,
		Meta:   meta,
	}).Build()
}
