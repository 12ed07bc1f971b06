// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ renders structural differences between two template
// documents and lets the operator pick two archived versions to compare.
package differ
