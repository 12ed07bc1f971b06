// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package cacheutil is a small on-disk cache keyed by hashed strings. It
// holds archived template bodies and network discovery results.
package cacheutil
