// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package driller

import (
	"embed"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var cases embed.FS

// drillCase is one entry of testdata/driller_cases.yaml. Doc is a resource
// row as rq renders it before attrs are applied.
type drillCase struct {
	Name        string         `yaml:"name"`
	Doc         map[string]any `yaml:"json"`
	Path        string         `yaml:"path"`
	ExpectedStr string         `yaml:"expectedStr"`
	IsNil       bool           `yaml:"isNil"`
	IsArray     bool           `yaml:"isArray"`
}

func loadCases(t *testing.T) []drillCase {
	t.Helper()
	raw, err := cases.ReadFile("testdata/driller_cases.yaml")
	require.NoError(t, err)

	var out []drillCase
	require.NoError(t, yaml.Unmarshal(raw, &out))
	require.NotEmpty(t, out)
	return out
}

func TestDriller(t *testing.T) {
	for _, c := range loadCases(t) {
		t.Run(c.Name, func(t *testing.T) {
			doc, err := json.Marshal(c.Doc)
			require.NoError(t, err)

			got := Driller(string(doc), c.Path)
			// Drill over a parsed row must agree with Driller.
			assert.Equal(t, got.Raw, Drill(gjson.ParseBytes(doc), c.Path).Raw)

			switch {
			case c.IsNil:
				assert.True(t, !got.Exists() || got.Type == gjson.Null, "got %v", got.Value())
			case c.IsArray:
				assert.True(t, got.IsArray(), "got %v", got.Value())
			default:
				require.True(t, got.Exists())
				assert.Equal(t, c.ExpectedStr, got.String())
			}
		})
	}
}
