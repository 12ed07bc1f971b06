// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/inspect"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/meta"
)

// Console input. Tests feed queries through stdin with isTerminal off.
var (
	stdin      io.Reader = os.Stdin
	isTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

// tiCommandAction inspects the selected stack's template. --expr answers a
// single query, piped input answers one query per line, and a terminal gets
// the interactive console.
func tiCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "ti") {
		return nil
	}

	config.Config.Namespace = "ti"

	tpl, err := StackTemplate(ctx, cmd)
	if err != nil {
		return err
	}
	i, err := inspect.New(tpl)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if expr := cmd.String("expr"); expr != "" {
		out, err := i.Query(expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
		return nil
	}

	if !isTerminal() {
		return answerLines(i, stdin, w)
	}

	history := inspect.HistoryFile()
	if cmd.IsSet("history") {
		history = cmd.String("history")
	}
	return inspect.Run(i, history)
}

// answerLines answers each non-blank line of r. Failed queries are reported
// inline and do not stop the run.
func answerLines(i *inspect.Inspector, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out, err := i.Query(line)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(w, out)
	}
	return scanner.Err()
}

func tiCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "ti",
		Usage:     "template inspector console",
		UsageText: "wsinfra ti [ProjectDir[::Stack]] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "expr",
				Aliases: []string{"e"},
				Usage:   "answer one query and exit",
			},
			&cli.StringFlag{
				Name:  "history",
				Usage: "console history file, empty to disable",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("WSINFRA_TI_HISTORY"),
				),
			},
			newTldrFlag(),
		}, templateFlags("ti", meta.Config.Source)...),
		Action: tiCommandAction,
	}
}
