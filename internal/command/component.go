// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/component"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/meta"
)

var componentDefaultAttrs = []string{".phase", ".step", ".action", ".commands"}

// stepRow is one step of "component show".
type stepRow struct {
	Phase          string   `json:"phase"`
	Step           string   `json:"step"`
	Action         string   `json:"action"`
	OnFailure      string   `json:"onFailure,omitempty"`
	TimeoutSeconds int      `json:"timeoutSeconds,omitempty"`
	Commands       int      `json:"commands"`
	Script         []string `json:"script,omitempty"`
}

// loadComponent loads and parses the component document named by --file or
// the settings.
func loadComponent(cmd *cli.Command) (component.Data, component.Document, error) {
	path := cmd.String("file")
	if path == "" {
		s, err := Settings(cmd)
		if err != nil {
			return component.Data{}, component.Document{}, err
		}
		path = s.ComponentFile()
	}

	data, err := component.Load(path)
	if err != nil {
		return component.Data{}, component.Document{}, err
	}
	doc, err := component.Parse(data.Payload)
	if err != nil {
		return data, component.Document{}, err
	}
	return data, doc, nil
}

func componentValidateAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])
	config.Config.Namespace = "component"

	data, doc, err := loadComponent(cmd)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%s: %w", data.Path, err)
	}

	fmt.Fprintf(stdout(cmd), "%s: valid, %d phases, %d steps, sha256 %s\n",
		data.Path, len(doc.Phases), doc.StepCount(), data.Digest()[:12])
	return nil
}

func componentShowAction(ctx context.Context, cmd *cli.Command) error {
	fn := func(ctx context.Context, cmd *cli.Command) ([]stepRow, error) {
		_, doc, err := loadComponent(cmd)
		if err != nil {
			return nil, err
		}

		var rows []stepRow
		for _, p := range doc.Phases {
			for _, st := range p.Steps {
				var in struct {
					Commands []string `yaml:"commands"`
				}
				if st.Action == "ExecuteBash" {
					_ = st.Inputs.Decode(&in)
				}
				rows = append(rows, stepRow{
					Phase:          p.Name,
					Step:           st.Name,
					Action:         st.Action,
					OnFailure:      st.OnFailure,
					TimeoutSeconds: st.TimeoutSeconds,
					Commands:       len(in.Commands),
					Script:         in.Commands,
				})
			}
		}
		return rows, nil
	}

	return NewQueryActionRunner("component", "", componentDefaultAttrs, fn).Run(ctx, cmd)
}

func newFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "file",
		Usage: "component document to read instead of the configured one",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("WSINFRA_COMPONENT"),
		),
	}
}

func componentCommandBuilder(meta meta.Meta) *cli.Command {
	show := (&QueryCommandBuilder{
		Name:      "show",
		Usage:     "list the component's steps",
		UsageText: "wsinfra component show [ProjectDir] [options]",
		Flags:     []cli.Flag{newFileFlag()},
		Action:    componentShowAction,
		Meta:      meta,
	}).Build()

	return &cli.Command{
		Name:      "component",
		Usage:     "validate or summarize the component document",
		UsageText: "wsinfra component validate|show [ProjectDir] [options]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check the component document against Image Builder rules",
				UsageText: "wsinfra component validate [ProjectDir] [options]",
				Metadata: map[string]any{
					"meta": meta,
				},
				Flags:  []cli.Flag{newFileFlag()},
				Action: componentValidateAction,
			},
			show,
		},
	}
}
