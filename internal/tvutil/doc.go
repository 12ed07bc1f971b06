// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tvutil resolves template version specs against a newest-first list
// of archived version ids.
//
//	TV~N     the N-th most recent version, TV~0 being the latest
//	0, -N    the same, as a relative index
//	path     a local template file
//	prefix   the one version whose id starts with prefix
package tvutil
