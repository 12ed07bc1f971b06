// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/synth"
)

func stubSynth(t *testing.T, err error) *synth.Options {
	t.Helper()

	var got synth.Options
	orig := synthRun
	synthRun = func(_ context.Context, s config.Settings, opts synth.Options) (synth.Result, error) {
		got = opts
		if err != nil {
			return synth.Result{}, err
		}
		out := synth.OutdirFor(s, opts)
		return synth.Result{
			Outdir: out,
			Templates: []synth.Template{
				{Stack: "WorkstationBaseline", Path: filepath.Join(out, "WorkstationBaseline.template.json"), Fingerprint: "0123456789abcdef", Body: []byte(`{"Resources":{}}`)},
				{Stack: testStack, Path: filepath.Join(out, testStack+".template.json"), Fingerprint: "fedcba9876543210", Body: []byte(`{"Outputs":{}}`)},
			},
			Missing: []string{"vpc-provider:account=123456789012:filter.isDefault=true"},
		}, nil
	}
	t.Cleanup(func() { synthRun = orig })
	return &got
}

func TestSynth(t *testing.T) {
	dir := project(t)
	opts := stubSynth(t, nil)

	rows := runJSON(t, "wsinfra", "synth", dir, "--strict")
	require.Len(t, rows, 2)
	assert.True(t, opts.Strict)
	assert.Equal(t, []any{"WorkstationBaseline", testStack}, column(rows, "stack"))
	assert.Equal(t, "0123456789ab", rows[0]["fingerprint"])

	t.Run("unresolved lookups go to stderr", func(t *testing.T) {
		var errw bytes.Buffer
		_, err := runTo(t, &errw, "wsinfra", "synth", dir)
		require.NoError(t, err)
		assert.Contains(t, errw.String(), "1 context lookups unresolved")
		assert.Contains(t, errw.String(), "vpc-provider:account=123456789012:filter.isDefault=true")
	})

	t.Run("stdout", func(t *testing.T) {
		out, err := run(t, "wsinfra", "synth", dir+"::WorkstationBaseline", "--stdout", "--out", "build")
		require.NoError(t, err)
		assert.Equal(t, `{"Resources":{}}`, out)
		assert.Equal(t, "build", opts.Outdir)
	})

	t.Run("failure", func(t *testing.T) {
		stubSynth(t, errors.New("boom"))
		_, err := run(t, "wsinfra", "synth", dir)
		assert.ErrorContains(t, err, "synth failed: boom")
	})
}
