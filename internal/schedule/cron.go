// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid marks an expression Image Builder would reject.
var ErrInvalid = errors.New("invalid schedule expression")

type bounds struct {
	name     string
	min, max int
	names    map[string]int
}

var (
	minuteBounds = bounds{name: "minutes", min: 0, max: 59}
	hourBounds   = bounds{name: "hours", min: 0, max: 23}
	domBounds    = bounds{name: "day-of-month", min: 1, max: 31}
	monthBounds  = bounds{name: "month", min: 1, max: 12, names: map[string]int{
		"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
		"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
	}}
	dowBounds = bounds{name: "day-of-week", min: 1, max: 7, names: map[string]int{
		"SUN": 1, "MON": 2, "TUE": 3, "WED": 4, "THU": 5, "FRI": 6, "SAT": 7,
	}}
	yearBounds = bounds{name: "year", min: 1970, max: 2199}
)

// Field is one parsed cron field.
type Field struct {
	Spec   string
	Any    bool
	Ignore bool
	values map[int]bool
}

// Matches reports whether v is selected by the field. An ignored ("?")
// field never matches.
func (f Field) Matches(v int) bool {
	if f.Ignore {
		return false
	}
	return f.Any || f.values[v]
}

// Single returns the only value of a field that selects exactly one value.
func (f Field) Single() (int, bool) {
	if f.Any || f.Ignore || len(f.values) != 1 {
		return 0, false
	}
	for v := range f.values {
		return v, true
	}
	return 0, false
}

// Cron is a parsed AWS cron expression.
type Cron struct {
	Raw        string
	Minutes    Field
	Hours      Field
	DayOfMonth Field
	Month      Field
	DayOfWeek  Field
	Year       Field
}

// ParseCron parses "cron(...)". The cron( ) wrapper is optional.
func ParseCron(expr string) (Cron, error) {
	raw := strings.TrimSpace(expr)
	body := raw
	if strings.HasPrefix(body, "cron(") {
		if !strings.HasSuffix(body, ")") {
			return Cron{}, fmt.Errorf("%w: unbalanced cron(): %q", ErrInvalid, expr)
		}
		body = body[len("cron(") : len(body)-1]
	}

	parts := strings.Fields(body)
	if len(parts) != 6 {
		return Cron{}, fmt.Errorf("%w: want 6 fields, got %d: %q", ErrInvalid, len(parts), expr)
	}

	c := Cron{Raw: raw}
	var err error
	fields := []struct {
		dst *Field
		b   bounds
	}{
		{&c.Minutes, minuteBounds},
		{&c.Hours, hourBounds},
		{&c.DayOfMonth, domBounds},
		{&c.Month, monthBounds},
		{&c.DayOfWeek, dowBounds},
		{&c.Year, yearBounds},
	}
	for i, f := range fields {
		if *f.dst, err = parseField(parts[i], f.b); err != nil {
			return Cron{}, err
		}
	}

	if c.DayOfMonth.Ignore == c.DayOfWeek.Ignore {
		return Cron{}, fmt.Errorf("%w: exactly one of day-of-month and day-of-week must be '?': %q",
			ErrInvalid, expr)
	}

	return c, nil
}

func parseField(spec string, b bounds) (Field, error) {
	f := Field{Spec: spec}

	switch spec {
	case "*":
		f.Any = true
		return f, nil
	case "?":
		if b.name != domBounds.name && b.name != dowBounds.name {
			return Field{}, fmt.Errorf("%w: '?' is not allowed in %s", ErrInvalid, b.name)
		}
		f.Ignore = true
		return f, nil
	}

	f.values = make(map[int]bool)
	for _, item := range strings.Split(spec, ",") {
		if err := addItem(f.values, item, b); err != nil {
			return Field{}, err
		}
	}
	return f, nil
}

// addItem expands one list item: v, a-b, */n, v/n or a-b/n.
func addItem(values map[int]bool, item string, b bounds) error {
	rng, stepSpec, hasStep := strings.Cut(item, "/")

	step := 1
	if hasStep {
		n, err := strconv.Atoi(stepSpec)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: bad step %q in %s", ErrInvalid, item, b.name)
		}
		step = n
	}

	lo, hi := b.min, b.max
	switch {
	case rng == "*":
	case strings.Contains(rng, "-"):
		from, to, _ := strings.Cut(rng, "-")
		var err error
		if lo, err = value(from, b); err != nil {
			return err
		}
		if hi, err = value(to, b); err != nil {
			return err
		}
		if lo > hi {
			return fmt.Errorf("%w: reversed range %q in %s", ErrInvalid, rng, b.name)
		}
	default:
		v, err := value(rng, b)
		if err != nil {
			return err
		}
		lo = v
		if !hasStep {
			hi = v
		}
	}

	for v := lo; v <= hi; v += step {
		values[v] = true
	}
	return nil
}

func value(s string, b bounds) (int, error) {
	if v, ok := b.names[strings.ToUpper(s)]; ok {
		return v, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid %s", ErrInvalid, s, b.name)
	}
	if v < b.min || v > b.max {
		return 0, fmt.Errorf("%w: %s %d out of range %d-%d", ErrInvalid, b.name, v, b.min, b.max)
	}
	return v, nil
}
