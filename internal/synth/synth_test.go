// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package synth

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/wsinfra/internal/component"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/stacks"
)

func TestMain(m *testing.M) {
	code := m.Run()
	jsii.Close()
	os.Exit(code)
}

// project lays out a project dir with the component file in place.
func project(t *testing.T, payload string) config.Settings {
	t.Helper()
	dir := t.TempDir()
	s := config.Defaults(dir)
	s.Network = config.Network{
		VpcID:             "vpc-0abc",
		AvailabilityZones: []string{"us-east-1a"},
		PublicSubnetIDs:   []string{"subnet-0001"},
	}

	path := s.ComponentFile()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
	return s
}

const validPayload = `name: t
schemaVersion: 1.0
phases:
  - name: build
    steps:
      - name: Hello
        action: ExecuteBash
        inputs:
          commands: [echo hello]
`

func TestRun(t *testing.T) {
	s := project(t, validPayload)

	res, err := Run(context.Background(), s, Options{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.ProjectDir, DefaultOutdir), res.Outdir)
	assert.Empty(t, res.Missing)
	require.Len(t, res.Templates, 2)

	tmpl, ok := res.Template(stacks.ImageBuilderStackName)
	require.True(t, ok)
	assert.FileExists(t, tmpl.Path)
	assert.Equal(t, Fingerprint(tmpl.Body), tmpl.Fingerprint)
	assert.Contains(t, string(tmpl.Body), "AWS::ImageBuilder::ImagePipeline")

	_, ok = res.Template("nope")
	assert.False(t, ok)
}

func TestRunIdempotent(t *testing.T) {
	s := project(t, validPayload)

	first, err := Run(context.Background(), s, Options{Outdir: "a"})
	require.NoError(t, err)
	second, err := Run(context.Background(), s, Options{Outdir: "b"})
	require.NoError(t, err)

	require.Len(t, second.Templates, len(first.Templates))
	for i := range first.Templates {
		assert.Equal(t, first.Templates[i].Body, second.Templates[i].Body, first.Templates[i].Stack)
		assert.Equal(t, first.Templates[i].Fingerprint, second.Templates[i].Fingerprint)
	}
}

func TestRunMissingComponent(t *testing.T) {
	s := config.Defaults(t.TempDir())

	_, err := Run(context.Background(), s, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, component.ErrNotFound))

	_, statErr := os.Stat(filepath.Join(s.ProjectDir, DefaultOutdir))
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "no assembly may be written")
}

func TestRunStrict(t *testing.T) {
	s := project(t, "schemaVersion: 2.0\nphases: []\n")

	_, err := Run(context.Background(), s, Options{Strict: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, component.ErrInvalid))

	// Without --strict the same payload synthesizes.
	_, err = Run(context.Background(), s, Options{})
	assert.NoError(t, err)
}

func TestRunCancelled(t *testing.T) {
	s := project(t, validPayload)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, s, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutdirFor(t *testing.T) {
	s := config.Defaults("/work")
	assert.Equal(t, "/work/cdk.out", OutdirFor(s, Options{}))
	assert.Equal(t, "/work/x", OutdirFor(s, Options{Outdir: "x"}))
	assert.Equal(t, "/tmp/x", OutdirFor(s, Options{Outdir: "/tmp/x"}))
}

func TestRunRecordsUnresolvedLookup(t *testing.T) {
	s := project(t, validPayload)
	s.Network = config.Network{}

	res, err := Run(context.Background(), s, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Missing)
	assert.Contains(t, res.Missing[0], "vpc-provider")

	keys, err := Unresolved(res.Outdir)
	require.NoError(t, err)
	assert.Equal(t, res.Missing, keys)
}

func TestUnresolved(t *testing.T) {
	dir := t.TempDir()

	keys, err := Unresolved(dir)
	require.NoError(t, err)
	assert.Empty(t, keys)

	manifest := `{"version":"38.0.1","missing":[
		{"key":"vpc-provider:account=123456789012:filter.isDefault=true:region=us-east-1","provider":"vpc-provider","props":{}},
		{"key":"availability-zones:account=123456789012:region=us-east-1","provider":"availability-zones","props":{}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(manifest), 0o644))

	keys, err = Unresolved(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"vpc-provider:account=123456789012:filter.isDefault=true:region=us-east-1",
		"availability-zones:account=123456789012:region=us-east-1",
	}, keys)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(`{"version":"38.0.1"}`), 0o644))
	keys, err = Unresolved(dir)
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(`{`), 0o644))
	_, err = Unresolved(dir)
	assert.Error(t, err)
}
