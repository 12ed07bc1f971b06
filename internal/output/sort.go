// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset stable-sorts rows by the comma separated output keys in spec.
// A leading '-' sorts descending and a leading '!' compares case-sensitively
// ("-!name"). Numbers compare numerically, everything else as text.
func SortDataset(rows []map[string]interface{}, spec string) {
	if spec == "" {
		return
	}

	type key struct {
		field         string
		descending    bool
		caseSensitive bool
	}

	var keys []key
	for _, field := range strings.Split(spec, ",") {
		k := key{field: strings.TrimSpace(field)}
		if strings.HasPrefix(k.field, "-") {
			k.descending = true
			k.field = k.field[1:]
		}
		if strings.HasPrefix(k.field, "!") {
			k.caseSensitive = true
			k.field = k.field[1:]
		}
		if k.field != "" {
			keys = append(keys, k)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := compare(rows[i][k.field], rows[j][k.field], k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b interface{}, caseSensitive bool) int {
	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}

	as, bs := InterfaceToString(a), InterfaceToString(b)
	if !caseSensitive {
		as, bs = strings.ToLower(as), strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}
