// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output filters, transforms, sorts and renders row datasets as
// text tables, JSON, YAML or the raw document.
package output
