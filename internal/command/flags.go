// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/stacks"
	"github.com/staranto/wsinfra/internal/synth"
)

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the row keys usable in --attrs",
		HideDefault: true,
	}
}

func newSynthFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "synth",
		Usage:       "synthesize before reading the template",
		HideDefault: true,
	}
}

func newTldrFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
}

// NewGlobalFlags returns the row shaping flags shared by every query command.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "show local timestamps",
			Value:   false,
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
		&cli.IntFlag{
			Name:   "padding",
			Usage:  "spaces between text columns",
			Value:  2,
			Hidden: true,
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewOutdirFlag constructs the "out" flag naming the cloud assembly
// directory, optionally namespaced to a command and config file.
func NewOutdirFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "out",
		Usage: "cloud assembly directory, relative to the project dir",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("WSINFRA_OUT"),
		),
		Value: synth.DefaultOutdir,
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewStackFlag constructs the "stack" flag. A "dir::Stack" project argument
// wins over it.
func NewStackFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "stack",
		Usage: "stack to act on",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("WSINFRA_STACK"),
		),
		Value: stacks.ImageBuilderStackName,
		Validator: func(value string) error {
			return FlagValidators(value, StackValidator)
		},
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewProfileFlag constructs the "profile" flag selecting the AWS shared
// config profile.
func NewProfileFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "profile",
		Usage: "AWS profile to use",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("WSINFRA_PROFILE"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewEndpointFlag constructs the "endpoint" flag pointing the archive at an
// S3 compatible endpoint.
func NewEndpointFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:   "endpoint",
		Usage:  "S3 compatible endpoint URL for the archive",
		Hidden: true,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("WSINFRA_S3_ENDPOINT"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewLimitFlag constructs the "limit" flag, optionally namespaced to a
// command and config file.
func NewLimitFlag(value int, params ...string) (flag *cli.IntFlag) {
	flag = &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "limit versions returned",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("WSINFRA_LIMIT"),
		),
		Value: value,
	}

	if len(params) == 2 {
		appendConfigSources(params[0], params[1], flag.Name, &flag.Sources)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	appendConfigSources(ns, path, flag.Name, &flag.Sources)
	return flag
}

// appendConfigSources appends "<ns>.<name>" and "<name>" lookups in the YAML
// config file at path to chain. Without a config file there is nothing to
// add.
func appendConfigSources(ns, path, name string, chain *cli.ValueSourceChain) {
	if path == "" {
		return
	}

	src := yaml.YAML(ns+"."+name, altsrc.StringSourcer(path))
	chain.Chain = append(chain.Chain, src)

	src = yaml.YAML(name, altsrc.StringSourcer(path))
	chain.Chain = append(chain.Chain, src)
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
