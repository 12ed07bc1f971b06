// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package inspect answers ad hoc questions about a synthesized template:
// JSON paths, type and logical id listings, and HCL expressions evaluated
// over the template's resources, outputs and parameters. Console wraps it in
// an interactive prompt.
package inspect
