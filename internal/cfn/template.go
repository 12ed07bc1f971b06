// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cfn

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/staranto/wsinfra/internal/depgraph"
	"github.com/staranto/wsinfra/internal/log"
)

// ErrNotTemplate is returned for documents that are not CloudFormation
// templates.
var ErrNotTemplate = errors.New("not a CloudFormation template")

// Template is a parsed template document.
type Template struct {
	Source string
	raw    []byte
	doc    gjson.Result
}

// Resource is one flattened entry of Resources.
type Resource struct {
	LogicalID  string         `json:"logicalId" yaml:"logicalId"`
	Type       string         `json:"type" yaml:"type"`
	DependsOn  []string       `json:"dependsOn" yaml:"dependsOn"`
	Properties map[string]any `json:"properties" yaml:"properties"`
	Metadata   map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Condition  string         `json:"condition,omitempty" yaml:"condition,omitempty"`
	Path       string         `json:"path,omitempty" yaml:"path,omitempty"`
}

// Output is one flattened entry of Outputs.
type Output struct {
	Name        string `json:"name" yaml:"name"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Export      any    `json:"export,omitempty" yaml:"export,omitempty"`
}

// Load reads and parses the template at path.
func Load(path string) (Template, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Template{}, err
	}
	t, err := Parse(body)
	if err != nil {
		return Template{}, fmt.Errorf("%s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

// Parse parses a template body. A template must be a JSON object with a
// Resources object.
func Parse(body []byte) (Template, error) {
	if !gjson.ValidBytes(body) {
		return Template{}, fmt.Errorf("%w: invalid JSON", ErrNotTemplate)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() || !doc.Get("Resources").IsObject() {
		return Template{}, fmt.Errorf("%w: no Resources", ErrNotTemplate)
	}
	return Template{raw: body, doc: doc}, nil
}

// Raw returns the template bytes.
func (t Template) Raw() []byte {
	return t.raw
}

// Description returns the template description.
func (t Template) Description() string {
	return t.doc.Get("Description").String()
}

// Resources returns every resource sorted by logical id.
func (t Template) Resources() []Resource {
	var out []Resource
	t.doc.Get("Resources").ForEach(func(key, value gjson.Result) bool {
		r := Resource{
			LogicalID: key.String(),
			Type:      value.Get("Type").String(),
			DependsOn: stringList(value.Get("DependsOn")),
			Condition: value.Get("Condition").String(),
		}
		if p, ok := value.Get("Properties").Value().(map[string]any); ok {
			r.Properties = p
		}
		if m, ok := value.Get("Metadata").Value().(map[string]any); ok {
			r.Metadata = m
			r.Path, _ = m["aws:cdk:path"].(string)
		}
		out = append(out, r)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LogicalID < out[j].LogicalID })
	return out
}

// Outputs returns every output sorted by name.
func (t Template) Outputs() []Output {
	var out []Output
	t.doc.Get("Outputs").ForEach(func(key, value gjson.Result) bool {
		out = append(out, Output{
			Name:        key.String(),
			Value:       value.Get("Value").Value(),
			Description: value.Get("Description").String(),
			Export:      value.Get("Export.Name").Value(),
		})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Parameters returns the template parameters as raw maps keyed by name.
func (t Template) Parameters() map[string]any {
	if p, ok := t.doc.Get("Parameters").Value().(map[string]any); ok {
		return p
	}
	return map[string]any{}
}

// CountByType returns the number of resources of each type.
func (t Template) CountByType() map[string]int {
	counts := map[string]int{}
	for _, r := range t.Resources() {
		counts[r.Type]++
	}
	return counts
}

// ResourceRows returns the resources as a JSON array of rows.
func (t Template) ResourceRows() ([]byte, error) {
	return json.Marshal(t.Resources())
}

// OutputRows returns the outputs as a JSON array of rows, with value
// rendered through Intrinsic.
func (t Template) OutputRows() ([]byte, error) {
	outputs := t.Outputs()
	rows := make([]map[string]any, 0, len(outputs))
	for _, o := range outputs {
		row := map[string]any{
			"name":        o.Name,
			"value":       Intrinsic(o.Value),
			"description": o.Description,
		}
		if o.Export != nil {
			row["export"] = Intrinsic(o.Export)
		}
		rows = append(rows, row)
	}
	return json.Marshal(rows)
}

// Graph returns the depends-on graph of the template. With refs set, Ref and
// Fn::GetAtt references to other resources count as edges too.
func (t Template) Graph(refs bool) (*depgraph.Graph, error) {
	resources := t.Resources()

	g := depgraph.New()
	for _, r := range resources {
		g.AddNode(r.LogicalID)
	}

	for _, r := range resources {
		for _, dep := range r.predecessors(refs) {
			if !g.Has(dep) || dep == r.LogicalID {
				continue
			}
			if err := g.AddEdge(dep, r.LogicalID); err != nil {
				return nil, err
			}
		}
	}

	log.Debugf("template graph: nodes=%d edges=%d refs=%t", g.Len(), len(g.Edges()), refs)
	return g, nil
}

// predecessors returns the logical ids r depends on, in a slice of its own.
func (r Resource) predecessors(refs bool) []string {
	deps := slices.Clone(r.DependsOn)
	if refs {
		deps = append(deps, References(r.Properties)...)
	}
	return deps
}

// References returns the sorted, distinct logical ids named by Ref and
// Fn::GetAtt anywhere inside v. Pseudo parameters (AWS::*) are skipped.
func References(v any) []string {
	seen := map[string]bool{}

	var walk func(v any)
	walk = func(v any) {
		switch n := v.(type) {
		case map[string]any:
			if ref, ok := n["Ref"].(string); ok && len(n) == 1 && !strings.HasPrefix(ref, "AWS::") {
				seen[ref] = true
				return
			}
			if ga, ok := n["Fn::GetAtt"].([]any); ok && len(n) == 1 && len(ga) > 0 {
				if id, ok := ga[0].(string); ok {
					seen[id] = true
				}
				return
			}
			for _, child := range n {
				walk(child)
			}
		case []any:
			for _, child := range n {
				walk(child)
			}
		}
	}
	walk(v)

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func stringList(r gjson.Result) []string {
	switch {
	case !r.Exists():
		return nil
	case r.IsArray():
		var out []string
		for _, item := range r.Array() {
			out = append(out, item.String())
		}
		return out
	default:
		return []string{r.String()}
	}
}
