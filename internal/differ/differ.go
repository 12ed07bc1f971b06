// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/wsinfra/internal/log"
)

// ErrEmpty is returned when either side of a diff has no content.
var ErrEmpty = errors.New("nothing to compare")

// Identical is printed when two documents have no differences.
const Identical = "The templates are identical."

// Options tune a diff.
type Options struct {
	// Ignore lists top-level keys dropped from both sides, e.g. Parameters.
	Ignore []string
	// Color turns on ANSI coloring of added and removed lines.
	Color bool
}

// Diff writes the differences between the JSON objects left and right to w
// and reports whether there were any.
func Diff(left, right []byte, opts Options, w io.Writer) (bool, error) {
	if len(left) == 0 || len(right) == 0 {
		return false, ErrEmpty
	}

	var l, r map[string]interface{}
	if err := json.Unmarshal(left, &l); err != nil {
		return false, fmt.Errorf("left document: %w", err)
	}
	if err := json.Unmarshal(right, &r); err != nil {
		return false, fmt.Errorf("right document: %w", err)
	}
	for _, key := range opts.Ignore {
		delete(l, key)
		delete(r, key)
	}

	delta := gojsondiff.New().CompareObjects(l, r)
	log.Debugf("diff: modified=%t deltas=%d ignore=%v", delta.Modified(), len(delta.Deltas()), opts.Ignore)

	if !delta.Modified() {
		_, err := fmt.Fprintln(w, Identical)
		return false, err
	}

	f := formatter.NewAsciiFormatter(l, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       opts.Color,
	})
	out, err := f.Format(delta)
	if err != nil {
		return true, fmt.Errorf("formatting diff: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return true, err
}
