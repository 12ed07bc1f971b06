// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cfn

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Intrinsic renders a template value in the short YAML form, e.g.
// {"Fn::GetAtt": ["Pipeline", "Arn"]} becomes "!GetAtt Pipeline.Arn". Plain
// scalars come back unchanged; anything else falls back to compact JSON.
func Intrinsic(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case map[string]any:
		if len(n) != 1 {
			break
		}
		for fn, arg := range n {
			switch fn {
			case "Ref":
				return "!Ref " + Intrinsic(arg)
			case "Fn::GetAtt":
				if parts, ok := arg.([]any); ok {
					strs := make([]string, len(parts))
					for i, p := range parts {
						strs[i] = Intrinsic(p)
					}
					return "!GetAtt " + strings.Join(strs, ".")
				}
			case "Fn::Sub", "Fn::ImportValue", "Fn::Base64":
				if s, ok := arg.(string); ok {
					return "!" + strings.TrimPrefix(fn, "Fn::") + " " + s
				}
			case "Fn::Join":
				if parts, ok := arg.([]any); ok && len(parts) == 2 {
					sep, _ := parts[0].(string)
					items, _ := parts[1].([]any)
					strs := make([]string, len(items))
					for i, p := range items {
						strs[i] = Intrinsic(p)
					}
					return strings.Join(strs, sep)
				}
			}
		}
	case float64, bool:
		return fmt.Sprintf("%v", n)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
