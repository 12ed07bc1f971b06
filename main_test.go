// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/wsinfra/internal/config"
)

func TestHandleNakedCommand(t *testing.T) {
	assert.Equal(t, []string{"wsinfra", "--help"}, handleNakedCommand([]string{"wsinfra"}))
	assert.Equal(t, []string{"wsinfra", "rq"}, handleNakedCommand([]string{"wsinfra", "rq"}))
}

func TestHandleVersion(t *testing.T) {
	assert.True(t, handleVersion([]string{"wsinfra", "-v"}))
	assert.False(t, handleVersion([]string{"wsinfra", "rq"}))
}

func TestRealMainClosesRuntime(t *testing.T) {
	closed := 0
	orig := closeRuntime
	closeRuntime = func() { closed++ }
	t.Cleanup(func() { closeRuntime = orig })

	args := os.Args
	os.Args = []string{"wsinfra", "--version"}
	t.Cleanup(func() { os.Args = args })

	assert.Equal(t, 0, realMain())
	assert.Equal(t, 1, closed)
}

func TestProcessOtherArgs(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "cdk.json"), []byte("{}"), 0o644))
	sub := filepath.Join(project, "infra")
	require.NoError(t, os.Mkdir(sub, 0o755))
	t.Chdir(sub)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	want := filepath.Dir(cwd)

	file := filepath.Join(t.TempDir(), "l.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"bare command", []string{"wsinfra", "rq"}, []string{"wsinfra", "rq", want}},
		{"flags only", []string{"wsinfra", "rq", "-o", "json"}, []string{"wsinfra", "rq", want, "-o", "json"}},
		{"explicit dir kept", []string{"wsinfra", "rq", sub}, []string{"wsinfra", "rq", sub}},
		{"stack spec kept", []string{"wsinfra", "rq", "::WorkstationBaseline"}, []string{"wsinfra", "rq", "::WorkstationBaseline"}},
		{"bad stack spec kept", []string{"wsinfra", "rq", "nope::X"}, []string{"wsinfra", "rq", "nope::X"}},
		{"diff spec", []string{"wsinfra", "diff", "TV~1"}, []string{"wsinfra", "diff", want, "TV~1"}},
		{"diff file", []string{"wsinfra", "diff", file}, []string{"wsinfra", "diff", want, file}},
		{"component subcommand", []string{"wsinfra", "component", "show"}, []string{"wsinfra", "component", "show", want}},
		{"component alone", []string{"wsinfra", "component"}, []string{"wsinfra", "component"}},
		{"completion", []string{"wsinfra", "completion", "bash"}, []string{"wsinfra", "completion", "bash"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, processOtherArgs(tt.args))
		})
	}
}

func TestProcessSetOnly(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(cfg, []byte(`
rq:
  ci:
    - --output json
    - --attrs .path
`), 0o644))
	t.Setenv(config.EnvFile, cfg)
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no set", []string{"wsinfra", "rq", "-t"}, []string{"wsinfra", "rq", "-t"}},
		{"set expanded in place", []string{"wsinfra", "rq", "@ci", "-t"}, []string{"wsinfra", "rq", "--output", "json", "--attrs", ".path", "-t"}},
		{"unknown set dropped", []string{"wsinfra", "rq", "@nope", "-t"}, []string{"wsinfra", "rq", "-t"}},
		{"command only", []string{"wsinfra", "rq"}, []string{"wsinfra", "rq"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, processSetOnly(tt.args))
		})
	}
}
