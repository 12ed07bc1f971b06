// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"encoding/json"
	"strings"

	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/staranto/wsinfra/internal/cfn"
)

// buildFunctionMap returns the cty stdlib functions under their Terraform
// names, try and can, and the template helpers bytype, intrinsic and
// dependents.
func buildFunctionMap(tpl cfn.Template) map[string]function.Function {
	funcs := map[string]function.Function{
		// Numeric
		"abs":      stdlib.AbsoluteFunc,
		"ceil":     stdlib.CeilFunc,
		"floor":    stdlib.FloorFunc,
		"max":      stdlib.MaxFunc,
		"min":      stdlib.MinFunc,
		"parseint": stdlib.ParseIntFunc,

		// String
		"chomp":      stdlib.ChompFunc,
		"format":     stdlib.FormatFunc,
		"formatlist": stdlib.FormatListFunc,
		"join":       stdlib.JoinFunc,
		"lower":      stdlib.LowerFunc,
		"replace":    stdlib.ReplaceFunc,
		"split":      stdlib.SplitFunc,
		"substr":     stdlib.SubstrFunc,
		"trimprefix": stdlib.TrimPrefixFunc,
		"trimspace":  stdlib.TrimSpaceFunc,
		"trimsuffix": stdlib.TrimSuffixFunc,
		"upper":      stdlib.UpperFunc,
		"regex":      stdlib.RegexFunc,
		"regexall":   stdlib.RegexAllFunc,

		// Collection
		"coalesce": stdlib.CoalesceFunc,
		"compact":  stdlib.CompactFunc,
		"concat":   stdlib.ConcatFunc,
		"contains": stdlib.ContainsFunc,
		"distinct": stdlib.DistinctFunc,
		"element":  stdlib.ElementFunc,
		"flatten":  stdlib.FlattenFunc,
		"keys":     stdlib.KeysFunc,
		"length":   stdlib.LengthFunc,
		"lookup":   stdlib.LookupFunc,
		"merge":    stdlib.MergeFunc,
		"reverse":  stdlib.ReverseListFunc,
		"slice":    stdlib.SliceFunc,
		"sort":     stdlib.SortFunc,
		"values":   stdlib.ValuesFunc,
		"zipmap":   stdlib.ZipmapFunc,

		// Encoding
		"jsondecode": stdlib.JSONDecodeFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
		"csvdecode":  stdlib.CSVDecodeFunc,

		"try": tryfunc.TryFunc,
		"can": tryfunc.CanFunc,
	}

	funcs["bytype"] = byTypeFunc(tpl)
	funcs["dependents"] = dependentsFunc(tpl)
	funcs["intrinsic"] = intrinsicFunc
	return funcs
}

// byTypeFunc lists the logical ids whose type starts with the argument,
// e.g. bytype("AWS::ImageBuilder::").
func byTypeFunc(tpl cfn.Template) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "type", Type: cty.String}},
		Type:   function.StaticReturnType(cty.List(cty.String)),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			prefix := args[0].AsString()
			var ids []cty.Value
			for _, r := range tpl.Resources() {
				if strings.HasPrefix(r.Type, prefix) {
					ids = append(ids, cty.StringVal(r.LogicalID))
				}
			}
			if len(ids) == 0 {
				return cty.ListValEmpty(cty.String), nil
			}
			return cty.ListVal(ids), nil
		},
	})
}

// dependentsFunc lists the logical ids that depend on the argument, through
// DependsOn or a Ref/GetAtt.
func dependentsFunc(tpl cfn.Template) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "id", Type: cty.String}},
		Type:   function.StaticReturnType(cty.List(cty.String)),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			g, err := tpl.Graph(true)
			if err != nil {
				return cty.NilVal, err
			}
			deps, err := g.Dependents(args[0].AsString())
			if err != nil {
				return cty.NilVal, function.NewArgError(0, err)
			}
			if len(deps) == 0 {
				return cty.ListValEmpty(cty.String), nil
			}
			ids := make([]cty.Value, 0, len(deps))
			for _, d := range deps {
				ids = append(ids, cty.StringVal(d))
			}
			return cty.ListVal(ids), nil
		},
	})
}

// intrinsicFunc renders a template value in short form: !Ref, !GetAtt and
// friends.
var intrinsicFunc = function.New(&function.Spec{
	Params: []function.Parameter{{
		Name:      "value",
		Type:      cty.DynamicPseudoType,
		AllowNull: true,
	}},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		if args[0].IsNull() {
			return cty.StringVal(""), nil
		}
		b, err := ctyjson.Marshal(args[0], args[0].Type())
		if err != nil {
			return cty.NilVal, err
		}
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(cfn.Intrinsic(v)), nil
	},
})
