// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/synth"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// GlobalFlagsValidator rejects --local with a non-text output, where it would
// silently rewrite timestamps in machine readable output.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Bool("local") && c.String("output") != "text" {
		return fmt.Errorf("--local only applies to text output")
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	if !slices.Contains(validOutputFlagValues, value.(string)) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func StackValidator(value any) error {
	if _, err := canonicalStack(value.(string)); err != nil {
		return err
	}
	return nil
}

// canonicalStack matches name case-insensitively against the synthesized
// stacks.
func canonicalStack(name string) (string, error) {
	for _, s := range synth.StackNames {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stack %q, must be one of %v", name, synth.StackNames)
}
