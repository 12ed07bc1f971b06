// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/meta"
	"github.com/staranto/wsinfra/internal/schedule"
)

var now = time.Now

// scheduleReport is the machine readable form of "schedule".
type scheduleReport struct {
	Expression     string      `json:"expression" yaml:"expression"`
	Timezone       string      `json:"timezone" yaml:"timezone"`
	Description    string      `json:"description" yaml:"description"`
	StartCondition string      `json:"startCondition" yaml:"startCondition"`
	Next           []time.Time `json:"next" yaml:"next"`
}

func scheduleCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "schedule") {
		return nil
	}

	config.Config.Namespace = "schedule"

	s, err := Settings(cmd)
	if err != nil {
		return err
	}

	sched, err := schedule.New(s.Schedule, s.Timezone)
	if err != nil {
		return err
	}

	next := sched.Next(now(), int(cmd.Int("next")))
	report := scheduleReport{
		Expression:     s.Schedule,
		Timezone:       sched.Timezone,
		Description:    sched.Describe(),
		StartCondition: sched.StartCondition,
		Next:           next,
	}

	w := stdout(cmd)
	switch cmd.String("output") {
	case "json":
		b, err := json.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
	case "yaml":
		b, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		_, _ = w.Write(b)
	default:
		fmt.Fprintln(w, report.Description)
		if cmd.Bool("titles") {
			fmt.Fprintf(w, "%s %s %s\n", report.Expression, report.Timezone, report.StartCondition)
		}
		loc := sched.Location()
		if cmd.Bool("local") {
			loc = time.Local
		}
		for _, t := range next {
			fmt.Fprintf(w, "  %s  %s\n", t.In(loc).Format("Mon 2006-01-02 15:04 MST"), humanize.RelTime(t, now(), "ago", "from now"))
		}
	}

	return nil
}

func scheduleCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "schedule",
		Usage:     "describe the pipeline schedule and its next runs",
		UsageText: "wsinfra schedule [ProjectDir] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "next",
				Aliases: []string{"n"},
				Usage:   "number of upcoming runs to list",
				Value:   5,
			},
			&cli.BoolFlag{
				Name:    "local",
				Aliases: []string{"l"},
				Usage:   "show run times in the local time zone",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format",
				Value:   "text",
				Validator: func(value string) error {
					return FlagValidators(value, OutputValidator)
				},
			},
			&cli.BoolFlag{
				Name:    "titles",
				Aliases: []string{"t"},
				Usage:   "show the expression and start condition",
			},
			newTldrFlag(),
		},
		Action: scheduleCommandAction,
	}
}
