// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/meta"
	"github.com/staranto/wsinfra/internal/util"
)

// ProjectArgIndex returns where the optional ProjectDir positional sits in
// args, or -1 for commands that take none. It follows the subcommand, and
// the sub-subcommand for "component".
func ProjectArgIndex(args []string) int {
	if len(args) < 2 {
		return -1
	}
	switch args[1] {
	case "completion":
		return -1
	case "component":
		return 3
	}
	return 2
}

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// Save the CWD at startup and then defer restoring it so we're tidy.
	sd, _ := os.Getwd()
	defer func() {
		if err := os.Chdir(sd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to restore directory: %v\n", err)
		}
	}()

	// The arg[1] immediately following the binary (arg[0]) is the wsinfra
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	config.Config.Namespace = ns
	cfg, _ := config.Load() //nolint
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	// The arg at ProjectArgIndex may be a project spec. When it is not a
	// directory (a diff spec, or --help skipped arg processing) the project
	// containing the CWD is used. A "::Stack" suffix must parse.
	meta.ProjectDir = util.FindProjectDir(sd)
	if idx := ProjectArgIndex(args); idx > 0 && len(args) > idx && !strings.HasPrefix(args[idx], "-") {
		dir, stack, err := util.ParseProjectDir(args[idx])
		switch {
		case err == nil:
			meta.ProjectDir = dir
			meta.Stack = stack
		case strings.Contains(args[idx], "::"):
			return nil, fmt.Errorf("failed to parse project dir (%s): %w", args[idx], err)
		default:
			log.Debugf("not a project dir: arg=%s err=%v", args[idx], err)
		}
	}

	app := &cli.Command{
		Name:  "wsinfra",
		Usage: "Workstation infrastructure control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "wsinfra version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		componentCommandBuilder(meta),
		diffCommandBuilder(meta),
		graphCommandBuilder(meta),
		historyCommandBuilder(meta),
		lookupCommandBuilder(meta),
		oqCommandBuilder(meta),
		publishCommandBuilder(meta),
		rqCommandBuilder(meta),
		scheduleCommandBuilder(meta),
		synthCommandBuilder(meta),
		tiCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sortFlags(cmd)
	}

	return app, nil
}

func sortFlags(cmd *cli.Command) {
	sort.Slice(cmd.Flags, func(i, j int) bool {
		return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
	})
	for _, sub := range cmd.Commands {
		sortFlags(sub)
	}
}
