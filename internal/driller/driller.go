// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRE matches one path segment: a key with an optional [n] or [*].
var segmentRE = regexp.MustCompile(`^([A-Za-z0-9_:-]+)(\[(\d+|\*)?\])?$`)

// Driller navigates JSON along a dot path. A list reached without an index
// is unwrapped when it holds a single element and returned whole otherwise.
// [n] picks an element and [*] always keeps the whole list.
func Driller(jsonData string, path string) gjson.Result {
	return Drill(gjson.Parse(jsonData), path)
}

// Drill is Driller over an already parsed document.
func Drill(current gjson.Result, path string) gjson.Result {
	for _, p := range strings.Split(path, ".") {
		m := segmentRE.FindStringSubmatch(p)
		if m == nil {
			return gjson.Result{}
		}

		val := current.Get(gjson.Escape(m[1]))
		if val.IsArray() {
			arr := val.Array()
			switch idx := m[3]; {
			case idx == "*":
			case idx == "":
				if len(arr) == 1 {
					val = arr[0]
				}
			default:
				i, err := strconv.Atoi(idx)
				if err != nil || i >= len(arr) {
					return gjson.Result{}
				}
				val = arr[i]
			}
		}

		current = val
	}

	return current
}
