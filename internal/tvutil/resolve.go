// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tvutil

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Latest is the spec used when none is given.
const Latest = "TV~0"

var (
	// ErrOutOfRange is returned for an index past the oldest version.
	ErrOutOfRange = errors.New("version index out of range")
	// ErrNotFound is returned when no version id matches a prefix.
	ErrNotFound = errors.New("no template version matches")
	// ErrAmbiguous is returned when several version ids match a prefix.
	ErrAmbiguous = errors.New("template version prefix is ambiguous")
	// ErrBadSpec is returned for a malformed TV~N spec.
	ErrBadSpec = errors.New("invalid template version spec")
)

var relativeRE = regexp.MustCompile(`^(0|-[0-9]+)$`)

// Target is a resolved spec: either an archived version or a local file.
type Target struct {
	Spec  string
	ID    string
	Index int
	File  string
}

// IsFile reports whether the target is a local file.
func (t Target) IsFile() bool {
	return t.File != ""
}

func (t Target) String() string {
	if t.IsFile() {
		return t.File
	}
	return fmt.Sprintf("TV~%d (%s)", t.Index, t.ID)
}

// Resolve resolves each spec against ids, newest first. No specs resolves
// Latest.
func Resolve(ids []string, specs ...string) ([]Target, error) {
	if len(specs) == 0 {
		specs = []string{Latest}
	}

	targets := make([]Target, 0, len(specs))
	for _, spec := range specs {
		t, err := resolveSpec(strings.TrimSpace(spec), ids)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func resolveSpec(spec string, ids []string) (Target, error) {
	switch {
	case spec == "":
		return Target{}, fmt.Errorf("%w: empty", ErrBadSpec)
	case strings.HasPrefix(strings.ToUpper(spec), "TV~"):
		n, err := strconv.Atoi(spec[3:])
		if err != nil || n < 0 {
			return Target{}, fmt.Errorf("%w: %s", ErrBadSpec, spec)
		}
		return byIndex(spec, n, ids)
	case relativeRE.MatchString(spec):
		n, err := strconv.Atoi(spec)
		if err != nil {
			return Target{}, fmt.Errorf("%w: %s", ErrBadSpec, spec)
		}
		return byIndex(spec, -n, ids)
	case isFile(spec):
		return Target{Spec: spec, File: spec, Index: -1}, nil
	default:
		return byPrefix(spec, ids)
	}
}

func byIndex(spec string, n int, ids []string) (Target, error) {
	if n < 0 {
		return Target{}, fmt.Errorf("%w: %s", ErrBadSpec, spec)
	}
	if n >= len(ids) {
		return Target{}, fmt.Errorf("%w: %s with %d versions", ErrOutOfRange, spec, len(ids))
	}
	return Target{Spec: spec, ID: ids[n], Index: n}, nil
}

func byPrefix(spec string, ids []string) (Target, error) {
	found := -1
	for i, id := range ids {
		if id == spec {
			return Target{Spec: spec, ID: id, Index: i}, nil
		}
		if strings.HasPrefix(id, spec) {
			if found >= 0 {
				return Target{}, fmt.Errorf("%w: %s", ErrAmbiguous, spec)
			}
			found = i
		}
	}
	if found < 0 {
		return Target{}, fmt.Errorf("%w: %s", ErrNotFound, spec)
	}
	return Target{Spec: spec, ID: ids[found], Index: found}, nil
}

func isFile(s string) bool {
	info, err := os.Stat(s)
	return err == nil && !info.IsDir()
}
