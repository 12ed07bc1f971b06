// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/staranto/wsinfra/internal/log"
)

// DefaultPrefix is prepended to attr keys that do not start with '.'. Resource
// rows keep their CloudFormation properties under it.
const DefaultPrefix = "properties."

var lengthRE = regexp.MustCompile(`-?\d+`)

// Attr is one column of query output: the row key to extract, the title to
// show it under and how to transform its value.
type Attr struct {
	// Key is the gjson-style path into the row.
	Key string `yaml:"key" json:"Key"`
	// Include is false for attrs only used by --filter or --sort.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey names the value in output and titles the text column.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is a run of transform letters and an optional length.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the transform spec to value.
//
//	t  RFC3339 time to local time
//	T  RFC3339 time to "3 days ago"
//	l  lower case        u  upper case
//	j  maps and lists as compact JSON
//	N  truncate to N     -N elide the middle to N
//
// The last case letter wins, as does the last length, so a global spec
// prepended with SetGlobalTransformSpec can be overridden per attr.
func (a *Attr) Transform(value interface{}) interface{} {
	spec := a.TransformSpec

	result, ok := value.(string)
	if !ok {
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			if !strings.Contains(spec, "j") {
				log.Tracef("composite value untouched: value=%v", value)
				return value
			}
			b, err := json.Marshal(value)
			if err != nil {
				return value
			}
			result = string(b)
		default:
			log.Tracef("non-string value: value=%v", value)
			return value
		}
	}

	if strings.ContainsAny(spec, "tT") {
		result = transformTime(result, strings.Contains(spec, "T"))
	}

	result = transformCase(result, spec)
	result = transformLength(result, spec)

	return result
}

func transformTime(s string, ago bool) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	local := t.In(time.Local)
	if ago {
		return humanize.Time(local)
	}
	return local.Format("2006-01-02T15:04:05MST")
}

func transformCase(s, spec string) string {
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")

	switch {
	case lastL > lastU:
		return strings.ToLower(s)
	case lastU > lastL:
		return strings.ToUpper(s)
	}
	return s
}

func transformLength(s, spec string) string {
	match := lengthRE.FindAllString(spec, -1)
	if len(match) == 0 {
		return s
	}

	l, _ := strconv.Atoi(match[len(match)-1])
	abs := l
	if abs < 0 {
		abs = -abs
	}
	if len(s) <= abs {
		return s
	}

	if l < 0 {
		keep := abs/2 - 1
		if keep < 1 {
			return s[:abs]
		}
		return s[:keep] + ".." + s[len(s)-keep:]
	}
	return s[:l]
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses a --attrs value against DefaultPrefix.
func (a *AttrList) Set(value string) error {
	return a.Parse(value, DefaultPrefix)
}

// Parse adds each comma separated key[:outputKey[:transform]] spec in value
// to the list. A leading '!' keeps the attr out of output. Keys starting with
// '.' address the row root; all others get prefix. A spec naming an attr
// already in the list updates it in place.
func (a *AttrList) Parse(value, prefix string) error {
	if value == "" || value == "*" {
		log.Debugf("early return: value=%s", value)
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

	for _, spec := range strings.Split(value, ",") {
		fields := strings.Split(spec, ":")

		attr := Attr{Include: true}
		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("empty attr key in %q", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		switch {
		case len(fields) == 1:
			segments := strings.Split(strings.TrimPrefix(attr.Key, "."), ".")
			attr.OutputKey = segments[len(segments)-1]
		case strings.TrimSpace(fields[outputIdx]) != "":
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		default:
			attr.OutputKey = attr.Key
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}
		log.Tracef("attr parsed: key=%s out=%s include=%t spec=%s",
			attr.Key, attr.OutputKey, attr.Include, attr.TransformSpec)

		if i := a.index(attr.Key); i >= 0 {
			(*a)[i].Include = attr.Include
			(*a)[i].OutputKey = attr.OutputKey
			(*a)[i].TransformSpec = attr.TransformSpec
			continue
		}

		switch {
		case strings.HasPrefix(attr.Key, "."):
			attr.Key = attr.Key[1:]
		case attr.Key != "*":
			attr.Key = prefix + attr.Key
		}

		*a = append(*a, attr)
	}

	return nil
}

// index finds an existing attr by key, dotted key or output key.
func (a *AttrList) index(key string) int {
	bare := strings.TrimPrefix(key, ".")
	for i, existing := range *a {
		if existing.Key == key || existing.Key == bare || existing.OutputKey == key {
			return i
		}
	}
	return -1
}

// SetGlobalTransformSpec prepends the spec of the "*" attr, if any, to every
// attr's spec.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return nil
	}

	log.Debugf("global spec: spec=%s", spec)
	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	return nil
}

// Included returns the attrs that appear in output.
func (a AttrList) Included() AttrList {
	var out AttrList
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// String renders the list in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
