// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/wsinfra/internal/archive"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/differ"
	"github.com/staranto/wsinfra/internal/synth"
)

func localTemplate(t *testing.T, dir string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, synth.DefaultOutdir, testStack+".template.json"))
	require.NoError(t, err)
	return b
}

// edited returns body with one more resource.
func edited(t *testing.T, body []byte) []byte {
	t.Helper()
	out := strings.Replace(string(body), `"Resources": {`, `"Resources": {"Extra": {"Type": "AWS::SNS::Topic"},`, 1)
	require.NotEqual(t, string(body), out)
	return []byte(out)
}

func TestPublish(t *testing.T) {
	dir := project(t)
	b, _ := withBucket(t)

	rows := runJSON(t, "wsinfra", "publish", dir+"::"+testStack)
	require.Len(t, rows, 1)
	assert.Equal(t, testStack, rows[0]["stack"])
	assert.Equal(t, "v01", rows[0]["id"])
	assert.Equal(t, false, rows[0]["skipped"])
	assert.Len(t, rows[0]["fingerprint"], 12)

	t.Run("unchanged is skipped", func(t *testing.T) {
		rows := runJSON(t, "wsinfra", "publish", dir, "--stack", testStack)
		require.Len(t, rows, 1)
		assert.Equal(t, true, rows[0]["skipped"])
		assert.Len(t, b.Objects, 1)
	})

	t.Run("force", func(t *testing.T) {
		rows := runJSON(t, "wsinfra", "publish", dir+"::"+testStack, "--force")
		require.Len(t, rows, 1)
		assert.Equal(t, false, rows[0]["skipped"])
		assert.Len(t, b.Objects, 2)
	})

	t.Run("unresolved lookups are refused", func(t *testing.T) {
		unresolvedManifest(t, dir)
		t.Cleanup(func() { _ = os.Remove(filepath.Join(dir, synth.DefaultOutdir, synth.ManifestFile)) })

		_, err := run(t, "wsinfra", "publish", dir+"::"+testStack)
		assert.ErrorIs(t, err, synth.ErrUnresolved)
		assert.ErrorContains(t, err, "vpc-provider")
		assert.Len(t, b.Objects, 2)

		rows := runJSON(t, "wsinfra", "publish", dir+"::"+testStack, "--force")
		require.Len(t, rows, 1)
		assert.Equal(t, false, rows[0]["skipped"])
		assert.Len(t, b.Objects, 3)
	})

	t.Run("no bucket", func(t *testing.T) {
		cfg := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("region: us-east-1\n"), 0o644))
		t.Setenv(config.EnvFile, cfg)

		_, err := run(t, "wsinfra", "publish", dir+"::"+testStack)
		assert.ErrorIs(t, err, archive.ErrNoBucket)
	})
}

func TestHistory(t *testing.T) {
	dir := project(t)
	_, a := withBucket(t)
	ctx := context.Background()

	body := localTemplate(t, dir)
	_, err := a.Publish(ctx, testStack, body, synth.Fingerprint(body), false)
	require.NoError(t, err)
	next := edited(t, body)
	_, err = a.Publish(ctx, testStack, next, synth.Fingerprint(next), false)
	require.NoError(t, err)

	rows := runJSON(t, "wsinfra", "history", dir)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"TV~0", "TV~1"}, column(rows, "tv"))
	assert.Equal(t, []any{"v02", "v01"}, column(rows, "id"))

	rows = runJSON(t, "wsinfra", "history", dir, "--limit", "1")
	assert.Len(t, rows, 1)
}

func TestDiff(t *testing.T) {
	dir := project(t)
	body := localTemplate(t, dir)

	t.Run("two files", func(t *testing.T) {
		l := filepath.Join(t.TempDir(), "l.json")
		r := filepath.Join(t.TempDir(), "r.json")
		require.NoError(t, os.WriteFile(l, body, 0o644))
		require.NoError(t, os.WriteFile(r, edited(t, body), 0o644))

		out, err := run(t, "wsinfra", "diff", dir, l, r, "--exit-code", "--titles")
		assert.ErrorIs(t, err, ErrDiffers)
		assert.Contains(t, out, "--- "+l)
		assert.Contains(t, out, "+++ "+r)

		_, err = run(t, "wsinfra", "diff", dir, l, l, "--exit-code")
		assert.NoError(t, err)
	})

	t.Run("file against local", func(t *testing.T) {
		r := filepath.Join(t.TempDir(), "r.json")
		require.NoError(t, os.WriteFile(r, edited(t, body), 0o644))

		_, err := run(t, "wsinfra", "diff", dir, r, "--exit-code")
		assert.ErrorIs(t, err, ErrDiffers)
	})

	_, a := withBucket(t)
	ctx := context.Background()
	_, err := a.Publish(ctx, testStack, body, synth.Fingerprint(body), false)
	require.NoError(t, err)
	next := edited(t, body)
	_, err = a.Publish(ctx, testStack, next, synth.Fingerprint(next), false)
	require.NoError(t, err)

	t.Run("latest against local", func(t *testing.T) {
		_, err := run(t, "wsinfra", "diff", dir, "--exit-code")
		assert.ErrorIs(t, err, ErrDiffers)
	})

	t.Run("older version matches local", func(t *testing.T) {
		_, err := run(t, "wsinfra", "diff", dir, "TV~1", "--exit-code")
		assert.NoError(t, err)
	})

	t.Run("two versions", func(t *testing.T) {
		out, err := run(t, "wsinfra", "diff", dir, "TV~1", "TV~0", "--titles")
		require.NoError(t, err)
		assert.Contains(t, out, "--- TV~1")
		assert.Contains(t, out, "+++ TV~0")
	})

	t.Run("picker", func(t *testing.T) {
		orig := pick
		t.Cleanup(func() { pick = orig })

		var offered []differ.Item
		pick = func(items []differ.Item) ([]differ.Item, error) {
			offered = items
			return []differ.Item{items[1], items[0]}, nil
		}

		_, err := run(t, "wsinfra", "diff", dir, PickSpec, "--exit-code")
		assert.ErrorIs(t, err, ErrDiffers)
		require.Len(t, offered, 2)
		assert.True(t, strings.HasPrefix(offered[0].Label, "TV~0"))
		assert.Equal(t, "v02", offered[0].ID)
	})

	t.Run("picker abandoned", func(t *testing.T) {
		orig := pick
		t.Cleanup(func() { pick = orig })
		pick = func([]differ.Item) ([]differ.Item, error) { return nil, nil }

		out, err := run(t, "wsinfra", "diff", dir, PickSpec, "--exit-code")
		assert.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("too many specs", func(t *testing.T) {
		_, err := run(t, "wsinfra", "diff", dir, "TV~0", "TV~1", "TV~2")
		assert.Error(t, err)
	})
}
