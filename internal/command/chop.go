// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"
)

// chopPrefix removes the leading construct path segments shared by every
// string value of a column, replacing them with "../". The last segment is
// always kept, and a column is left alone unless all rows share at least
// one segment.
func chopPrefix(dataset []map[string]interface{}) {
	if len(dataset) == 0 {
		return
	}

	columns := map[string][][]string{}
	for _, row := range dataset {
		for key, val := range row {
			if str, ok := val.(string); ok && strings.Contains(str, "/") {
				columns[key] = append(columns[key], strings.Split(str, "/"))
			}
		}
	}

	for key, paths := range columns {
		// A column mixing paths and plain values stays whole.
		if len(paths) != len(dataset) {
			continue
		}

		common := len(paths[0]) - 1
		for _, p := range paths[1:] {
			common = min(common, len(p)-1)
			for i := 0; i < common; i++ {
				if p[i] != paths[0][i] {
					common = i
					break
				}
			}
		}
		if common < 1 {
			continue
		}

		for _, row := range dataset {
			segs := strings.Split(row[key].(string), "/")
			row[key] = "../" + strings.Join(segs[common:], "/")
		}
	}
}
