// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wsinfra/internal/archive"
	"github.com/staranto/wsinfra/internal/archive/archivetest"
	"github.com/staranto/wsinfra/internal/cacheutil"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/synth"
)

const testStack = "ImageBuilderStack"

// project builds a CDK project dir holding the fixture template and the
// component document, and points the config file and caches at temp dirs.
func project(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cdk.json"), []byte(`{"app":"go run ./cmd/cdkapp"}`), 0o644))

	tpl, err := os.ReadFile(filepath.Join("testdata", "imagebuilder.template.json"))
	require.NoError(t, err)
	out := filepath.Join(dir, synth.DefaultOutdir)
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, testStack+".template.json"), tpl, 0o644))

	doc, err := os.ReadFile(filepath.Join("..", "..", filepath.FromSlash(config.DefaultComponentPath)))
	require.NoError(t, err)
	comp := filepath.Join(dir, filepath.FromSlash(config.DefaultComponentPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(comp), 0o755))
	require.NoError(t, os.WriteFile(comp, doc, 0o644))

	cfg := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(cfg, []byte("archive:\n  bucket: wsinfra-templates\n"), 0o644))
	t.Setenv(config.EnvFile, cfg)
	t.Setenv(cacheutil.EnvDir, t.TempDir())
	t.Setenv(cacheutil.EnvEnabled, "")

	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })

	return dir
}

// run executes the app with args and returns what it wrote.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runTo(t, io.Discard, args...)
}

// runTo is run with the app's error writer set to errw.
func runTo(t *testing.T, errw io.Writer, args ...string) (string, error) {
	t.Helper()

	app, err := InitApp(context.Background(), args)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = errw
	err = app.Run(context.Background(), args)
	return buf.String(), err
}

// unresolvedManifest marks the project's assembly as synthesized without a
// default VPC lookup.
func unresolvedManifest(t *testing.T, dir string) {
	t.Helper()
	manifest := `{"version":"38.0.1","missing":[{"key":"vpc-provider:account=123456789012:filter.isDefault=true:region=us-east-1","provider":"vpc-provider","props":{}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, synth.DefaultOutdir, synth.ManifestFile), []byte(manifest), 0o644))
}

// runJSON executes the app with args and decodes its JSON rows.
func runJSON(t *testing.T, args ...string) []map[string]any {
	t.Helper()

	out, err := run(t, append(args, "--output", "json")...)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows), out)
	return rows
}

// withBucket routes the archive to an in-memory bucket.
func withBucket(t *testing.T) (*archivetest.Bucket, *archive.Archive) {
	t.Helper()

	b := archivetest.NewBucket()
	orig := newArchiveClient
	newArchiveClient = func(context.Context, *cli.Command, config.Settings) (archive.API, error) {
		return b, nil
	}
	t.Cleanup(func() { newArchiveClient = orig })

	a, err := archive.New(b, config.Archive{Bucket: "wsinfra-templates", Prefix: config.DefaultArchivePrefix})
	require.NoError(t, err)
	return b, a
}

func column(rows []map[string]any, key string) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[key])
	}
	return out
}
