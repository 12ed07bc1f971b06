// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/staranto/wsinfra/internal/attrs"
	"github.com/staranto/wsinfra/internal/driller"
	"github.com/staranto/wsinfra/internal/hungarian"
	"github.com/staranto/wsinfra/internal/log"
)

// EnvDelim overrides the "," between filter expressions, for values that
// contain commas.
const EnvDelim = "WSINFRA_FILTER_DELIM"

// HungarianKey is the pseudo key that checks logical ids against their
// resource type.
const HungarianKey = "hungarian"

// filterRegex splits an expression into key, optionally negated operator and
// target: "type", "type=AWS::IAM::Role", "logicalId!^Workstation".
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses spec. Malformed expressions are logged and skipped.
func BuildFilters(spec string) []Filter {
	var filters []Filter
	if spec == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv(EnvDelim); ok && d != "" {
		delim = d
	}

	for _, expr := range strings.Split(spec, delim) {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(expr)
		key := strings.TrimSpace(parts[1])
		if key == "" {
			log.Errorf("invalid filter: empty key in %s", expr)
			continue
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: strings.TrimPrefix(operand, "!"),
			Value:   parts[3],
		})
	}

	return filters
}

// FilterDataset keeps the candidate rows that pass every filter in spec and
// projects each onto attrs, keyed by OutputKey. Transforms are left to the
// output stage.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	filters := BuildFilters(spec)

	var rows []map[string]interface{}
	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, attrs, filters) {
			continue
		}

		row := make(map[string]interface{}, len(attrs))
		for _, attr := range attrs {
			row[attr.OutputKey] = driller.Drill(candidate, attr.Key).Value()
		}
		rows = append(rows, row)
	}

	return rows
}

// applyFilters reports whether candidate passes all filters. A filter key
// names an attr by OutputKey; keys that match no attr are used as row paths.
func applyFilters(candidate gjson.Result, attrs attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		if filter.Key == HungarianKey {
			if !checkHungarian(candidate, filter) {
				return false
			}
			continue
		}

		key := strings.TrimPrefix(filter.Key, ".")
		for _, attr := range attrs {
			if attr.OutputKey == filter.Key {
				key = attr.Key
				break
			}
		}

		value := driller.Drill(candidate, key).Value()
		if value == nil {
			return false
		}

		if !filter.Match(value) {
			return false
		}
	}

	return true
}

// Match checks a row value against the filter. Strings and bools compare as
// strings, numbers numerically, and lists and maps by membership with '@'.
func (f Filter) Match(value interface{}) bool {
	switch v := value.(type) {
	case string:
		return checkStringOperand(v, f)
	case bool:
		return checkStringOperand(strconv.FormatBool(v), f)
	}
	if num, ok := toFloat64(value); ok {
		return checkNumericOperand(num, f)
	}
	if f.Operand == "@" {
		return checkContainsOperand(value, f)
	}
	log.Debugf("filter %s: no operand %q for %T", f.Key, f.Operand, value)
	return false
}

func checkContainsOperand(value interface{}, filter Filter) bool {
	switch val := value.(type) {
	case []interface{}:
		for _, item := range val {
			if fmt.Sprintf("%v", item) == filter.Value {
				return !filter.Negate
			}
		}
		return filter.Negate
	case map[string]interface{}:
		_, found := val[filter.Value]
		return found != filter.Negate
	default:
		log.Errorf("unsupported type for contains filtering: %T", value)
		return false
	}
}

func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Errorf("invalid numeric value: %s", filter.Value)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) != filter.Negate
	case ">":
		return (value > tgt) != filter.Negate
	case "<":
		return (value < tgt) != filter.Negate
	default:
		log.Errorf("unsupported numeric operand: %s", filter.Operand)
		return false
	}
}

func checkStringOperand(value string, filter Filter) bool {
	var result bool
	switch filter.Operand {
	case "=":
		result = value == filter.Value
	case "~":
		result = strings.EqualFold(value, filter.Value)
	case "^":
		result = strings.HasPrefix(value, filter.Value)
	case ">":
		result = value > filter.Value
	case "<":
		result = value < filter.Value
	case "@":
		result = strings.Contains(value, filter.Value)
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Errorf("invalid regex: %s", filter.Value)
			return false
		}
		result = matched
	default:
		log.Errorf("unsupported filtering operand: %s", filter.Operand)
		return false
	}
	return result != filter.Negate
}

// checkHungarian keeps rows whose logical id repeats its type when the value
// is empty or "true", and rows that do not when it is "false". Rows without
// both fields pass.
func checkHungarian(candidate gjson.Result, filter Filter) bool {
	typ := candidate.Get("type")
	id := candidate.Get("logicalId")
	if typ.Type != gjson.String || id.Type != gjson.String {
		return true
	}

	want := filter.Value == "" || filter.Value == "true"
	if filter.Negate {
		want = !want
	}
	return hungarian.IsHungarian(typ.String(), id.String()) == want
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
