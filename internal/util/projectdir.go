// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// Marker is the file that identifies a CDK project directory.
const Marker = "cdk.json"

// ParseProjectDir parses a "dir[::Stack]" argument and returns the absolute
// directory and the optional stack name. It returns an error if the fs entry
// does not exist, is empty or is not a directory.
func ParseProjectDir(spec string) (string, string, error) {
	if spec == "" {
		return "", "", os.ErrInvalid
	}

	var stack string
	dir, rest, found := strings.Cut(spec, "::")
	if found {
		stack = rest
	}
	if dir == "" {
		dir = "."
	}

	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		dir = filepath.Join(cwd, dir)
	}

	if fi, err := os.Stat(dir); err != nil {
		return "", "", err
	} else if !fi.IsDir() {
		return "", "", os.ErrInvalid
	}

	return dir, stack, nil
}

// FindProjectDir walks up from start looking for Marker. It returns start
// when no ancestor has one.
func FindProjectDir(start string) string {
	dir := start
	for {
		if fi, err := os.Stat(filepath.Join(dir, Marker)); err == nil && !fi.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
