// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller walks dotted paths into template rows, unwrapping single
// element lists and indexing longer ones.
package driller
