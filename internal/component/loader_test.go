// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package component

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVerbatim(t *testing.T) {
	path := filepath.Join("testdata", "valid.yml")
	want, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got.Payload)
	assert.Equal(t, string(want), got.String())
	assert.Equal(t, path, got.Path)
	assert.Len(t, got.Digest(), 64)
}

func TestLoadPreservesBytes(t *testing.T) {
	// Trailing whitespace, CRLF and a missing final newline all survive.
	raw := []byte("name: x \r\nphases: []\t")
	path := filepath.Join(t.TempDir(), "c.yml")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, raw, got.Payload)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "nope.yml")
}

func TestLoadDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestDigestStable(t *testing.T) {
	a := Data{Payload: []byte("abc")}
	b := Data{Payload: []byte("abc")}
	c := Data{Payload: []byte("abd")}
	assert.Equal(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), c.Digest())
}
