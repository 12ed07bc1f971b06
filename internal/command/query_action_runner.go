// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
	"github.com/staranto/wsinfra/internal/output"
)

// QueryActionRunner[T] encapsulates the common query action pattern: meta
// and tldr handling, row fetching, schema dumping and output emission. Only
// the fetch differs per command.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaPrefix string
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) ([]T, error)
	// PostProcess, when set, reshapes the rows of a text rendering.
	PostProcess func([]map[string]interface{}) error
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}

	config.Config.Namespace = qar.CommandName

	results, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}

	if DumpSchemaIfRequested(cmd, raw, qar.SchemaPrefix) {
		return nil
	}

	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs)

	return output.SliceDiceSpit(raw, attrs, output.OptionsFromCommand(cmd), stdout(cmd), qar.PostProcess)
}

// NewQueryActionRunner creates a QueryActionRunner with the provided
// configuration.
func NewQueryActionRunner[T any](
	commandName string,
	schemaPrefix string,
	defaultAttrs []string,
	fetchFn func(context.Context, *cli.Command) ([]T, error),
) *QueryActionRunner[T] {
	return &QueryActionRunner[T]{
		CommandName:  commandName,
		SchemaPrefix: schemaPrefix,
		DefaultAttrs: defaultAttrs,
		FetchFn:      fetchFn,
	}
}
