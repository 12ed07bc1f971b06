// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/staranto/wsinfra/internal/config"
)

// ProjectSpec is the resolved project directory and the optional stack
// selected with a "dir::Stack" argument.
type ProjectSpec struct {
	ProjectDir string
	Stack      string
}

// Meta contains runtime metadata shared by commands: CLI arguments, loaded
// configuration, context, the project spec and the starting working
// directory.
type Meta struct {
	Args    []string
	Config  config.Type
	Context context.Context
	ProjectSpec
	StartingDir string
}
