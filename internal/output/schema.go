// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// maxSchemaDepth limits how deep SchemaPaths descends into nested objects.
const maxSchemaDepth = 3

// SchemaPaths returns the sorted, distinct leaf paths found under prefix
// across every row of the JSON array rows. Paths are relative to prefix, so
// they can be passed straight to --attrs.
func SchemaPaths(rows gjson.Result, prefix string) []string {
	seen := map[string]bool{}

	var walk func(v gjson.Result, path string, depth int)
	walk = func(v gjson.Result, path string, depth int) {
		if v.IsObject() && depth < maxSchemaDepth {
			v.ForEach(func(k, child gjson.Result) bool {
				next := k.String()
				if path != "" {
					next = path + "." + next
				}
				walk(child, next, depth+1)
				return true
			})
			return
		}
		if path != "" {
			seen[path] = true
		}
	}

	base := strings.TrimSuffix(prefix, ".")
	for _, row := range rows.Array() {
		v := row
		if base != "" {
			v = row.Get(gjson.Escape(base))
		}
		walk(v, "", 0)
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// DumpSchema writes the paths available to --attrs for rows. Root-level keys
// are listed with a leading '.'.
func DumpSchema(raw []byte, prefix string, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	rows := gjson.ParseBytes(raw)

	fmt.Fprintln(w, "Row keys, addressed from the row root with a leading '.':")
	for _, k := range topLevelKeys(rows) {
		fmt.Fprintln(w, "  ."+k)
	}

	if prefix == "" {
		return
	}
	fmt.Fprintf(w, "\nKeys under %s, usable in --attrs as is:\n", strings.TrimSuffix(prefix, "."))
	for _, p := range SchemaPaths(rows, prefix) {
		fmt.Fprintln(w, "  "+p)
	}
}

func topLevelKeys(rows gjson.Result) []string {
	seen := map[string]bool{}
	for _, row := range rows.Array() {
		row.ForEach(func(k, _ gjson.Result) bool {
			seen[k.String()] = true
			return true
		})
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
