// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectArgIndex(t *testing.T) {
	tests := []struct {
		args []string
		want int
	}{
		{[]string{"wsinfra"}, -1},
		{[]string{"wsinfra", "rq"}, 2},
		{[]string{"wsinfra", "diff", ".", "TV~1"}, 2},
		{[]string{"wsinfra", "component", "show"}, 3},
		{[]string{"wsinfra", "completion", "bash"}, -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ProjectArgIndex(tt.args), tt.args)
	}
}

func TestInitApp(t *testing.T) {
	dir := project(t)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	t.Run("project spec", func(t *testing.T) {
		app, err := InitApp(context.Background(), []string{"wsinfra", "rq", dir + "::WorkstationBaseline"})
		require.NoError(t, err)

		m := GetMeta(app.Command("rq"))
		got, err := filepath.EvalSymlinks(m.ProjectDir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, "WorkstationBaseline", m.Stack)
		assert.NotEmpty(t, m.Config.Source)
	})

	t.Run("component subcommand", func(t *testing.T) {
		app, err := InitApp(context.Background(), []string{"wsinfra", "component", "show", dir})
		require.NoError(t, err)

		m := GetMeta(app.Command("component"))
		got, err := filepath.EvalSymlinks(m.ProjectDir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("non-dir argument is not a project", func(t *testing.T) {
		app, err := InitApp(context.Background(), []string{"wsinfra", "diff", "TV~1"})
		require.NoError(t, err)
		assert.Empty(t, GetMeta(app.Command("diff")).Stack)
	})

	t.Run("bad stack spec", func(t *testing.T) {
		_, err := InitApp(context.Background(), []string{"wsinfra", "rq", filepath.Join(dir, "nope") + "::ImageBuilderStack"})
		assert.Error(t, err)
	})

	t.Run("flags sorted", func(t *testing.T) {
		app, err := InitApp(context.Background(), []string{"wsinfra", "rq", dir})
		require.NoError(t, err)

		var names []string
		for _, f := range app.Command("rq").Flags {
			names = append(names, f.Names()[0])
		}
		assert.IsIncreasing(t, names)
	})
}
