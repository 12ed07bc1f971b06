// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/staranto/wsinfra/internal/cfn"
	"github.com/staranto/wsinfra/internal/driller"
	"github.com/staranto/wsinfra/internal/log"
)

// ErrNoMatch is returned by Query when a path or listing finds nothing.
var ErrNoMatch = errors.New("no match")

// wordRE matches listing queries: a bare word or a CloudFormation type.
var wordRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*(::[A-Za-z0-9]*)*$`)

// Inspector evaluates queries against one template.
type Inspector struct {
	tpl   cfn.Template
	vars  map[string]cty.Value
	funcs map[string]function.Function
}

// New builds an Inspector over tpl. The HCL variables are
//
//	resources    logical id -> {type, properties, dependsOn, path}
//	outputs      name -> {value, description, export}
//	parameters   name -> parameter body
//	description  the template description
//	template     the whole document
func New(tpl cfn.Template) (*Inspector, error) {
	resources := map[string]any{}
	for _, r := range tpl.Resources() {
		resources[r.LogicalID] = map[string]any{
			"type":       r.Type,
			"properties": r.Properties,
			"dependsOn":  r.DependsOn,
			"path":       r.Path,
		}
	}

	outputs := map[string]any{}
	for _, o := range tpl.Outputs() {
		outputs[o.Name] = map[string]any{
			"value":       o.Value,
			"description": o.Description,
			"export":      o.Export,
		}
	}

	vars := map[string]cty.Value{
		"description": cty.StringVal(tpl.Description()),
	}
	for name, v := range map[string]any{
		"resources":  resources,
		"outputs":    outputs,
		"parameters": tpl.Parameters(),
	} {
		cv, err := toCty(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		vars[name] = cv
	}

	doc, err := rawToCty(tpl.Raw())
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	vars["template"] = doc

	i := &Inspector{tpl: tpl, vars: vars}
	i.funcs = buildFunctionMap(tpl)
	return i, nil
}

// Summary is the one-line banner the console opens with.
func (i *Inspector) Summary() string {
	return fmt.Sprintf("Template console loaded. %d resources, %d outputs.",
		len(i.tpl.Resources()), len(i.tpl.Outputs()))
}

// Query routes one input line.
//
//	.Resources.X.Properties   JSON at a template path
//	AWS::ImageBuilder::       logical ids of matching types
//	resources|outputs|parameters   names
//	WorkstationImageRecipe    type and construct path of one resource
//	/expr or anything else    an HCL expression
func (i *Inspector) Query(line string) (string, error) {
	line = strings.TrimSpace(line)
	log.Debugf("query: line=%s", line)

	switch {
	case line == "":
		return "", nil
	case strings.HasPrefix(line, "/"):
		return i.Eval(strings.TrimPrefix(line, "/"))
	case strings.HasPrefix(line, "."):
		return i.path(strings.TrimPrefix(line, "."))
	case wordRE.MatchString(line):
		if out, ok := i.list(line); ok {
			return out, nil
		}
	}
	return i.Eval(line)
}

func (i *Inspector) path(p string) (string, error) {
	if p == "" {
		return prettyJSON(i.tpl.Raw())
	}
	r := driller.Driller(string(i.tpl.Raw()), p)
	if !r.Exists() {
		return "", fmt.Errorf("%w: .%s", ErrNoMatch, p)
	}
	if r.IsObject() || r.IsArray() {
		return prettyJSON([]byte(r.Raw))
	}
	return r.String(), nil
}

// list answers bare-word queries. ok is false when the word is not a
// collection, type or logical id, leaving it to Eval.
func (i *Inspector) list(word string) (string, bool) {
	var names []string

	switch word {
	case "resources":
		for _, r := range i.tpl.Resources() {
			names = append(names, r.LogicalID)
		}
	case "outputs":
		for _, o := range i.tpl.Outputs() {
			names = append(names, o.Name)
		}
	case "parameters":
		for name := range i.tpl.Parameters() {
			names = append(names, name)
		}
		sort.Strings(names)
	default:
		for _, r := range i.tpl.Resources() {
			if r.LogicalID == word {
				return fmt.Sprintf("%s  %s", r.Type, r.Path), true
			}
		}
		if !strings.Contains(word, "::") {
			return "", false
		}
		for _, r := range i.tpl.Resources() {
			if strings.HasPrefix(r.Type, word) {
				names = append(names, r.LogicalID)
			}
		}
		if len(names) == 0 {
			return "No resources of type " + word + ".", true
		}
	}

	return strings.Join(names, "\n"), true
}

// Eval evaluates an HCL expression.
func (i *Inspector) Eval(expression string) (string, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(expression), "", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "", fmt.Errorf("parsing expression: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: i.vars,
		Functions: i.funcs,
	}
	result, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return "", fmt.Errorf("evaluating expression: %s", diags.Error())
	}

	return formatValue(result)
}

func toCty(v any) (cty.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, err
	}
	return rawToCty(b)
}

func rawToCty(b []byte) (cty.Value, error) {
	t, err := ctyjson.ImpliedType(b)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(b, t)
}

// formatValue renders strings and numbers bare and everything else as JSON.
func formatValue(val cty.Value) (string, error) {
	if val.IsNull() {
		return "null", nil
	}
	if !val.IsWhollyKnown() {
		return "(unknown)", nil
	}

	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Number:
		return val.AsBigFloat().Text('f', -1), nil
	case cty.Bool:
		if val.True() {
			return "true", nil
		}
		return "false", nil
	}

	b, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func prettyJSON(b []byte) (string, error) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
